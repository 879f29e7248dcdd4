package volumecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/internal/pairing"
)

func setStatusCmd(opts *cmdutil.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <pause|resume>",
		Short: "Pause or resume replication on all paired SRC volumes",
		Long: "Pauses or resumes replication on every mutually paired SRC volume.\n" +
			"There is no subset form; a half-paused site is not a state the other\n" +
			"commands can validate against.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pause bool
			switch args[0] {
			case "pause":
				pause = true
			case "resume":
				pause = false
			default:
				return fmt.Errorf("status must be pause or resume, not %q", args[0])
			}
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			results, err := o.SetReplicationStatus(cmd.Context(), pairing.SetStatusRequest{Pause: pause})
			return cmdutil.RenderResults(results, err)
		},
	}
}
