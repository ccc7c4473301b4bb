package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/flowrun/internal/config"
	"github.com/me/flowrun/internal/server"
	"github.com/me/flowrun/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		flagAddr string
		flagDB   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the run-history status API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultServerConfig()
			cfg.Addr = flagAddr
			cfg.DBPath = flagDB
			cfg.LogLevel = flagLogLevel
			cfg.LogFormat = flagLogFormat

			st, err := store.NewSQLiteStore(cfg.DBPath, logger)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer st.Close()
			if err := st.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate history database: %w", err)
			}

			srv := server.New(cfg, st, logger)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&flagDB, "db", "flowrun.db", "SQLite history database path")
	return cmd
}
