package clustercmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
)

func pairCmd(opts *cmdutil.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "pair",
		Short: "Pair the two clusters",
		Long: "Establishes the mutual cluster relationship. Both clusters must\n" +
			"have no existing pairing records; this action always executes and\n" +
			"ignores --dry-run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			state, err := o.PairClusters(cmd.Context())
			if err != nil {
				return err
			}
			printLinkState(state)
			return nil
		},
	}
}
