package sitecmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/internal/pairing"
)

func setAccessCmd(opts *cmdutil.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-access <readWrite|replicationTarget>",
		Short: "Force the access mode of every paired SRC volume",
		Long: "Sets the access mode on every SRC volume that has a pair record,\n" +
			"without touching DST or validating the peer. Promoting a site after\n" +
			"a failover is the intended use; this can create a two-writer state\n" +
			"if the peer is still serving. Always executes, ignores --dry-run.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := pairing.ParseAccessMode(args[0])
			if err != nil {
				return err
			}
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			results, err := o.SetSiteAccess(cmd.Context(), pairing.SetSiteAccessRequest{Mode: mode})
			return cmdutil.RenderResults(results, err)
		},
	}
}
