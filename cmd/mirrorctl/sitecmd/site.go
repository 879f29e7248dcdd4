// Package sitecmd implements "mirrorctl site", the one-sided repair and
// takeover commands that act on SRC without consulting DST.
package sitecmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
)

// Cmd returns the parent "mirrorctl site" command.
func Cmd(opts *cmdutil.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "One-sided repair and takeover operations on SRC",
	}

	cmd.AddCommand(setAccessCmd(opts))
	cmd.AddCommand(detachCmd(opts))
	return cmd
}
