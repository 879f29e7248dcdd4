package sitecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/cmd/mirrorctl/ui"
)

func detachCmd(opts *cmdutil.Options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "detach",
		Short: "Tear down all replication records on SRC only",
		Long: "Deletes every volume pair record and then the cluster pair record\n" +
			"on SRC, without contacting DST. For taking over when the peer site\n" +
			"is unreachable. DST is left with broken records that must be cleaned\n" +
			"up there before the sites can pair again.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("detach is one-sided and irreversible; re-run with --yes")
			}
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			results, err := o.DetachSite(cmd.Context())
			if rerr := cmdutil.RenderResults(results, err); rerr != nil {
				return rerr
			}
			fmt.Println(ui.WarnMsg("SRC detached. DST still holds broken pair records."))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the one-sided teardown")
	return cmd
}
