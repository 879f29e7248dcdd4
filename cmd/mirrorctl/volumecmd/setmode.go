package volumecmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/internal/pairing"
)

func setModeCmd(opts *cmdutil.Options) *cobra.Command {
	var volumes string
	cmd := &cobra.Command{
		Use:   "set-mode <Async|Sync|SnapshotsOnly>",
		Short: "Set the replication mode on paired SRC volumes",
		Long: "Sets the replication mode on every mutually paired SRC volume, or\n" +
			"on the subset named with --volumes. The mode is a SRC-side property.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := pairing.ParseReplicationMode(args[0])
			if err != nil {
				return err
			}
			scope, err := pairing.ParseIDList(volumes)
			if err != nil {
				return err
			}
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			results, err := o.SetReplicationMode(cmd.Context(), pairing.SetModeRequest{
				Mode:  mode,
				Scope: scope,
			})
			return cmdutil.RenderResults(results, err)
		},
	}
	cmd.Flags().StringVar(&volumes, "volumes", "", "Limit to these SRC volume IDs, e.g. 100,101 (default: all paired)")
	return cmd
}
