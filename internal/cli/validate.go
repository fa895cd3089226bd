package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cascade/internal/engine"
	"github.com/shaiso/Cascade/internal/schedule"
	"github.com/shaiso/Cascade/internal/steps"
)

// NewValidateCmd создаёт команду проверки файла конвейера.
//
// Проверяется всё, что можно проверить без выполнения: синтаксис,
// структура, типы шагов, конфигурации, граф зависимостей и
// cron-выражение расписания.
func NewValidateCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a pipeline spec file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			spec, err := loadSpec(args[0])
			if err != nil {
				return err
			}

			if _, err := engine.BuildGraph(spec.Decls()); err != nil {
				return err
			}

			registry := steps.DefaultRegistry()
			for _, step := range spec.Steps {
				if _, err := registry.Build(step.Type, step.Config); err != nil {
					return fmt.Errorf("step %s: %w", step.ID, err)
				}
			}

			if spec.Schedule != "" {
				if err := schedule.ValidateExpr(spec.Schedule); err != nil {
					return err
				}
			}

			out.Success(fmt.Sprintf("%s: ok (%d steps)", spec.Name, len(spec.Steps)))
			return nil
		},
	}

	return cmd
}
