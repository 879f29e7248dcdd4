package volumecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/cmd/mirrorctl/ui"
)

func mismatchedCmd(opts *cmdutil.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "mismatched",
		Short: "Report one-sided, conflicting and drifted volume pairs",
		Long: "Cross-checks both sites' volume pair records and reports every\n" +
			"record that is not part of a healthy reciprocal pair: one-sided\n" +
			"records, UUID conflicts and size drift, plus an advisory when a\n" +
			"site's paired volumes span multiple accounts. Report only; nothing\n" +
			"is repaired.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := cmdutil.Connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			cross, err := o.Reader().MutualVolumePairs(cmd.Context())
			if err != nil {
				return err
			}
			accounts, err := o.Reader().AccountFindings(cmd.Context())
			if err != nil {
				return err
			}
			findings := append(cross.Findings, accounts...)
			if len(findings) == 0 {
				fmt.Println(ui.SuccessMsg("All %d volume pairs are reciprocal and consistent.", len(cross.Valid)))
				return nil
			}

			rows := make([][]string, 0, len(findings))
			for _, f := range findings {
				volume := "-"
				if f.LocalVolumeID != 0 {
					volume = fmt.Sprintf("%d", f.LocalVolumeID)
				}
				rows = append(rows, []string{
					f.Kind.String(),
					f.Site,
					volume,
					f.UUID,
					f.Detail,
				})
			}
			fmt.Println(ui.Table([]string{"Finding", "Site", "Volume", "Pair UUID", "Detail"}, rows))
			fmt.Println(ui.WarnMsg("%d finding(s); %d pair(s) remain valid.", len(findings), len(cross.Valid)))
			return nil
		},
	}
}
