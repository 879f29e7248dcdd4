package volumecmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/internal/pairing"
)

func upsizeRemoteCmd(opts *cmdutil.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "upsize-remote <src,dst>",
		Short: "Grow a lagging DST volume to its SRC peer's size",
		Long: "Grows the DST member of one pair to the exact size of its SRC\n" +
			"peer, repairing the equal-size precondition after a one-sided grow.\n" +
			"Replication is paused during the grow and resumed only when the pair\n" +
			"verifies as equal-sized and correctly directed afterwards.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tuple, err := pairing.ParseTuple(args[0])
			if err != nil {
				return err
			}
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			result, err := o.UpsizeRemote(cmd.Context(), pairing.UpsizeRemoteRequest{Tuple: tuple})
			if err != nil {
				return err
			}
			return cmdutil.RenderResults([]pairing.TupleResult{result}, nil)
		},
	}
}
