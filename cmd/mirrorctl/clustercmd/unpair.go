package clustercmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
)

func unpairCmd(opts *cmdutil.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "unpair",
		Short: "Remove the cluster pairing from both sides",
		Long: "Removes the mutual cluster relationship. Refused while any volume\n" +
			"pair record exists on either side; this action always executes and\n" +
			"ignores --dry-run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			state, err := o.UnpairClusters(cmd.Context())
			if err != nil {
				return err
			}
			printLinkState(state)
			return nil
		},
	}
}
