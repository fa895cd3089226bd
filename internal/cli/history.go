package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/history"
)

// NewHistoryCmd создаёт команду просмотра истории запусков.
// Требует доступную БД истории (DB_URL).
func NewHistoryCmd(outputFn func() *Output) *cobra.Command {
	var pipelineName string
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			pool, err := history.NewPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			store := history.NewPostgresStore(pool)
			runs, err := store.ListRuns(cmd.Context(), history.RunFilter{
				Pipeline: pipelineName,
				Status:   domain.RunStatus(status),
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "PIPELINE", "STATUS", "DURATION", "CREATED"}
			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{
					r.ID.String(),
					r.Pipeline,
					string(r.Status),
					r.Duration().String(),
					r.CreatedAt.Format("2006-01-02 15:04:05"),
				}
			}

			out.Print(headers, rows, runs)
			if !out.jsonMode {
				out.Success(strconv.Itoa(len(runs)) + " runs")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pipelineName, "pipeline", "", "Filter by pipeline name")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, RUNNING, SUCCEEDED, HALTED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}
