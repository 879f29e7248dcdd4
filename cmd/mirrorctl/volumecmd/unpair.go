package volumecmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/internal/pairing"
)

func unpairCmd(opts *cmdutil.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "unpair <src,dst>",
		Short: "Remove one volume pairing",
		Long: "Removes the pair records of exactly one SRC,DST tuple on both\n" +
			"sides. One tuple per invocation; the tuple must be part of the\n" +
			"currently validated pair set.",
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
			result, err := o.UnpairVolume(cmd.Context(), pairing.UnpairRequest{Tuples: tuples})
			if err != nil {
				return err
			}
			return cmdutil.RenderResults([]pairing.TupleResult{result}, nil)
		},
	}
}
