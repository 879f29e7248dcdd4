package volumecmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/internal/pairing"
)

func pairCmd(opts *cmdutil.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "pair <src,dst[;src,dst...]>",
		Short: "Pair volumes across the two sites",
		Long: "Establishes one replication relationship per SRC,DST tuple. Every\n" +
			"tuple is validated before anything is paired: both volumes unpaired,\n" +
			"SRC readWrite and DST replicationTarget, equal sizes and block sizes.\n" +
			"Past validation, tuples succeed or fail independently.",
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
			results, err := o.PairVolumes(cmd.Context(), pairing.PairRequest{Tuples: tuples})
			return cmdutil.RenderResults(results, err)
		},
	}
}
