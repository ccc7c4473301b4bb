package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/flowrun/internal/config"
)

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <workflow.yaml>",
		Short: "Print the batch execution plan without running any job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := config.Load(args[0])
			if err != nil {
				return err
			}
			w, err := wf.BuildWorkflow(logger)
			if err != nil {
				return err
			}
			meta, err := w.Plan()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "workflow %s: %d jobs in %d batches\n", wf.Name, len(meta.Nodes), len(meta.Batches))
			for i, batch := range meta.Batches {
				names := make([]string, len(batch))
				for j, node := range batch {
					names[j] = node.Name
				}
				fmt.Fprintf(out, "  batch %d: %s\n", i, strings.Join(names, ", "))
			}
			return nil
		},
	}
}
