package volumecmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/internal/pairing"
)

func reverseCmd(opts *cmdutil.Options) *cobra.Command {
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "reverse",
		Short: "Flip the replication direction of the whole paired set",
		Long: "Turns every readWrite volume into a replicationTarget and vice\n" +
			"versa, on both sites. A countdown precedes the first change; Ctrl-C\n" +
			"during it aborts with nothing modified. This action always executes\n" +
			"and ignores --dry-run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			o, err := cmdutil.Connect(ctx, opts)
			if err != nil {
				return err
			}
			results, err := o.ReverseReplication(ctx, pairing.ReverseRequest{Delay: delay})
			return cmdutil.RenderResults(results, err)
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", 0, "Abort window before the first change (default 15s)")
	return cmd
}
