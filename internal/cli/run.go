package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cascade/internal/compose"
	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/events"
	"github.com/shaiso/Cascade/internal/history"
	"github.com/shaiso/Cascade/internal/pipeline"
	"github.com/shaiso/Cascade/internal/runner"
	"github.com/shaiso/Cascade/internal/steps"
	"github.com/shaiso/Cascade/internal/telemetry"
)

// NewRunCmd создаёт команду запуска конвейера из файла.
func NewRunCmd(outputFn func() *Output) *cobra.Command {
	var inputFlags []string
	var sequential bool
	var save bool
	var eventsURL string

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a pipeline from a spec file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			logger := telemetry.SetupLogger()

			spec, err := loadSpec(args[0])
			if err != nil {
				return err
			}

			inputs, err := parseInputs(spec, inputFlags)
			if err != nil {
				return err
			}

			var opts []pipeline.Option
			if sequential {
				opts = append(opts, pipeline.WithSequentialFallback())
			}
			opts = append(opts, pipeline.WithLogger(logger))

			p, err := compose.Compose(spec, steps.DefaultRegistry(), opts...)
			if err != nil {
				return err
			}

			// --save пишет историю в PostgreSQL вместо памяти
			var store history.Store
			if save {
				pool, err := history.NewPool(cmd.Context())
				if err != nil {
					return fmt.Errorf("connect history store: %w", err)
				}
				defer pool.Close()
				store = history.NewPostgresStore(pool)
			}

			// --events включает публикацию run.started / run.finished
			var publisher *events.Publisher
			if eventsURL != "" {
				conn, err := events.NewConnection(eventsURL, logger)
				if err != nil {
					return fmt.Errorf("connect event broker: %w", err)
				}
				defer conn.Close()
				if err := events.SetupTopology(cmd.Context(), conn); err != nil {
					return err
				}
				publisher = events.NewPublisher(conn, logger)
			}

			r := runner.New(runner.Config{
				Store:     store,
				Publisher: publisher,
				Logger:    logger,
			})

			run, result, err := r.Execute(cmd.Context(), p, inputs)
			if err != nil {
				return err
			}

			printRunResult(out, run, result)
			if run.Status == domain.RunStatusHalted {
				return fmt.Errorf("pipeline halted")
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&inputFlags, "input", nil, "Pipeline input KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&sequential, "sequential", false, "Run dependency levels one step at a time")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the run to the history database (DB_URL)")
	cmd.Flags().StringVar(&eventsURL, "events", "", "AMQP URL for run lifecycle events")

	return cmd
}

// printRunResult выводит итог запуска.
func printRunResult(out *Output, run *domain.Run, result *domain.Outcome) {
	payload := map[string]any{
		"run_id":      run.ID,
		"pipeline":    run.Pipeline,
		"status":      run.Status,
		"duration_ms": run.Duration().Milliseconds(),
		"value":       result.Value(),
		"context":     result.Context(),
	}
	if result.HasErrors() {
		payload["errors"] = result.Errors()
	}

	out.JSON(payload)

	switch run.Status {
	case domain.RunStatusSucceeded:
		out.Success(fmt.Sprintf("Run %s succeeded in %s", run.ID, run.Duration()))
	case domain.RunStatusHalted:
		out.Error(fmt.Sprintf("Run %s halted: %v", run.ID, result.Errors()))
	}
}
