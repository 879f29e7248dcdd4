package volumecmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/internal/pairing"
)

const gib = int64(1) << 30

func resizeCmd(opts *cmdutil.Options) *cobra.Command {
	var deltaGiB int64
	cmd := &cobra.Command{
		Use:   "resize <src,dst[;src,dst...]>",
		Short: "Grow both members of each volume pair by the same amount",
		Long: "Grows both members of each SRC,DST tuple by --gib. The growth per\n" +
			"call is capped at the smaller of 1 TiB and twice the current size,\n" +
			"and both members must be equal-sized before the call. Replication is\n" +
			"paused around each tuple's grow and resumed afterwards.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tuples, err := pairing.ParseTuples(args[0])
			if err != nil {
				return err
			}
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			results, err := o.ResizeVolumes(cmd.Context(), pairing.ResizeRequest{
				DeltaBytes: deltaGiB * gib,
				Tuples:     tuples,
			})
			return cmdutil.RenderResults(results, err)
		},
	}
	cmd.Flags().Int64Var(&deltaGiB, "gib", 0, "Growth per volume in GiB, 1 to 100")
	_ = cmd.MarkFlagRequired("gib")
	return cmd
}
