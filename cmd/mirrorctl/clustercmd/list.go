package clustercmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
)

func listCmd(opts *cmdutil.Options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the pairing state of both clusters",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			state, err := o.Reader().ReadLink(cmd.Context())
			if err != nil {
				return err
			}
			printLinkState(state)
			return nil
		},
	}
}
