package volumecmd

import (
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/internal/pairing"
)

func primeCmd(opts *cmdutil.Options) *cobra.Command {
	var (
		srcAccount int
		dstAccount int
		volumes    string
	)
	cmd := &cobra.Command{
		Use:   "prime",
		Short: "Create replication-ready DST volumes from SRC templates",
		Long: "Creates one volume at DST per SRC template volume with the same\n" +
			"name, size, block size and QoS, owned by the DST account and set to\n" +
			"replicationTarget. Templates must be owned by the SRC account and\n" +
			"unpaired. No pairing is created; feed the printed tuples to\n" +
			"\"volume pair\".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := pairing.ParseIDList(volumes)
			if err != nil {
				return err
			}
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			results, err := o.PrimeDestination(cmd.Context(), pairing.PrimeRequest{
				SrcAccountID: srcAccount,
				DstAccountID: dstAccount,
				SrcVolumeIDs: ids,
			})
			return cmdutil.RenderResults(results, err)
		},
	}
	cmd.Flags().IntVar(&srcAccount, "src-account", 0, "SRC account that owns the template volumes")
	cmd.Flags().IntVar(&dstAccount, "dst-account", 0, "DST account that will own the new volumes")
	cmd.Flags().StringVar(&volumes, "volumes", "", "Comma-separated SRC template volume IDs, e.g. 100,101")
	_ = cmd.MarkFlagRequired("src-account")
	_ = cmd.MarkFlagRequired("dst-account")
	_ = cmd.MarkFlagRequired("volumes")
	return cmd
}
