package volumecmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/cmd/mirrorctl/ui"
	"mirrorctl/internal/pairing"
)

func listCmd(opts *cmdutil.Options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List volume pair records on both sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			srcPairs, err := o.Reader().PairedVolumes(cmd.Context(), o.Src, "SRC")
			if err != nil {
				return err
			}
			dstPairs, err := o.Reader().PairedVolumes(cmd.Context(), o.Dst, "DST")
			if err != nil {
				return err
			}
			if len(srcPairs) == 0 && len(dstPairs) == 0 {
				fmt.Println(ui.Muted("no volume pair records on either site"))
				return nil
			}

			rows := make([][]string, 0, len(srcPairs)+len(dstPairs))
			for _, p := range srcPairs {
				rows = append(rows, volumePairRow("SRC", p))
			}
			for _, p := range dstPairs {
				rows = append(rows, volumePairRow("DST", p))
			}
			fmt.Println(ui.Table(
				[]string{"Side", "Volume", "Name", "Size", "Remote", "Mode", "State", "UUID"}, rows))
			return nil
		},
	}
}

func volumePairRow(side string, p pairing.VolumePair) []string {
	return []string{
		side,
		fmt.Sprintf("%d", p.LocalVolumeID),
		p.LocalVolumeName,
		humanize.IBytes(uint64(p.LocalVolumeSize)),
		fmt.Sprintf("%d", p.RemoteVolumeID),
		string(p.Mode),
		p.State,
		p.UUID,
	}
}
