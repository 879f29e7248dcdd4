package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/clustercmd"
	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/cmd/mirrorctl/sitecmd"
	"mirrorctl/cmd/mirrorctl/volumecmd"
	"mirrorctl/internal/logging"
)

func main() {
	var (
		debug bool
		opts  cmdutil.Options
	)
	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "mirrorctl",
		Short:         "Manage replication pairing between two storage clusters",
		Long: "mirrorctl manages the remote-replication relationship between a\n" +
			"source and a destination storage cluster: the cluster pairing, the\n" +
			"per-volume pairings, and the bulk operations that keep both sides\n" +
			"consistent.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelInfo
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(level)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&opts.DryRun, "dry-run", false,
		"Describe instead of execute, where the action supports it (volume pair, unpair, resize)")
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "",
		"Config file path (default: MIRRORCTL_CONFIG or the user config directory)")

	root.AddCommand(clustercmd.Cmd(&opts))
	root.AddCommand(volumecmd.Cmd(&opts))
	root.AddCommand(sitecmd.Cmd(&opts))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
