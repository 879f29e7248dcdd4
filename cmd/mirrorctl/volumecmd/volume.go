// Package volumecmd implements "mirrorctl volume", the per-volume
// replication commands.
package volumecmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
)

// Cmd returns the parent "mirrorctl volume" command.
func Cmd(opts *cmdutil.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volume",
		Short: "Manage volume pairings and bulk replication operations",
	}

	cmd.AddCommand(listCmd(opts))
	cmd.AddCommand(pairCmd(opts))
	cmd.AddCommand(unpairCmd(opts))
	cmd.AddCommand(primeCmd(opts))
	cmd.AddCommand(mismatchedCmd(opts))
	cmd.AddCommand(reverseCmd(opts))
	cmd.AddCommand(snapshotCmd(opts))
	cmd.AddCommand(setModeCmd(opts))
	cmd.AddCommand(setStatusCmd(opts))
	cmd.AddCommand(resizeCmd(opts))
	cmd.AddCommand(upsizeRemoteCmd(opts))
	return cmd
}
