// Package cli implements the flowrun command line interface.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/flowrun/internal/logging"
)

var (
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the flowrun CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flowrun",
		Short: "flowrun — dependency-ordered job workflow runner",
		Long: "flowrun registers named jobs with explicit dependencies and executes them\n" +
			"in topologically batched order, optionally looping the whole schedule.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.New(logging.Options{Level: flagLogLevel, Format: flagLogFormat})
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newPlanCmd(),
		newServeCmd(),
	)

	return root
}
