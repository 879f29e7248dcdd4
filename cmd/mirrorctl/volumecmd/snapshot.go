package volumecmd

import (
	"time"

	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/internal/pairing"
)

func snapshotCmd(opts *cmdutil.Options) *cobra.Command {
	var (
		retention time.Duration
		name      string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Snapshot every paired SRC volume",
		Long: "Takes one snapshot per mutually paired SRC volume. Snapshots of\n" +
			"replicating volumes transfer to the peer site.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			results, err := o.SnapshotPairedVolumes(cmd.Context(), pairing.SnapshotRequest{
				Retention: retention,
				Name:      name,
			})
			return cmdutil.RenderResults(results, err)
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 168*time.Hour, "Snapshot retention, 1h to 720h")
	cmd.Flags().StringVar(&name, "name", "mirrorctl", "Snapshot name")
	return cmd
}
