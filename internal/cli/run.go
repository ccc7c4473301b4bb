package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/flowrun/internal/config"
	"github.com/me/flowrun/internal/history"
	"github.com/me/flowrun/internal/store"
	"github.com/me/flowrun/internal/workflow"
)

func newRunCmd() *cobra.Command {
	var (
		flagDB           string
		flagPollInterval time.Duration
		flagNoRecord     bool
	)

	cmd := &cobra.Command{
		Use:   "run <workflow.yaml>",
		Short: "Execute a workflow file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := config.Load(args[0])
			if err != nil {
				return err
			}

			var opts []workflow.Option
			if flagPollInterval > 0 {
				opts = append(opts, workflow.WithPollInterval(flagPollInterval))
			}

			var rec *history.Recorder
			if !flagNoRecord {
				st, err := store.NewSQLiteStore(flagDB, logger)
				if err != nil {
					return fmt.Errorf("open history database: %w", err)
				}
				defer st.Close()
				if err := st.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("migrate history database: %w", err)
				}
				rec = history.NewRecorder(st, wf.Name, wf.Loop, logger)
				opts = append(opts, workflow.WithObserver(rec))
			}

			w, err := wf.BuildWorkflow(logger, opts...)
			if err != nil {
				return err
			}

			if err := w.Run(cmd.Context()); err != nil {
				return fmt.Errorf("workflow %s: %w", wf.Name, err)
			}
			if rec != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "workflow %s completed (run %s)\n", wf.Name, rec.RunID())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "workflow %s completed\n", wf.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagDB, "db", "flowrun.db", "SQLite history database path")
	cmd.Flags().DurationVar(&flagPollInterval, "poll-interval", 0, "Override the status poll interval")
	cmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Skip recording run history")
	return cmd
}
