package command

import (
	"github.com/spf13/cobra"

	"github.com/cayleygraph/shacl/internal"
	"github.com/cayleygraph/shacl/stats"
)

func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <instance-path>...",
		Short: "Print statistics of instance graphs.",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(cmd, args)
			if err != nil {
				return err
			}
			loadf, _ := cmd.Flags().GetString(flagLoadFormat)
			g, err := internal.ReadGraphs(paths, loadf, "data")
			if err != nil {
				return err
			}
			s := stats.Compute(g)
			switch out, _ := cmd.Flags().GetString("output"); out {
			case "yaml":
				return s.WriteYAML(cmd.OutOrStdout())
			case "text", "":
				return s.WriteText(cmd.OutOrStdout())
			default:
				return usageError(cmd, "unknown output format %q", out)
			}
		},
	}
	cmd.Flags().String("output", "text", `output format ("text" or "yaml")`)
	registerLoadFlags(cmd)
	return cmd
}
