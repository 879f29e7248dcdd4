// Package clustercmd implements "mirrorctl cluster", the commands that
// manage the cluster-level pairing between the two sites.
package clustercmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mirrorctl/cmd/mirrorctl/cmdutil"
	"mirrorctl/cmd/mirrorctl/ui"
	"mirrorctl/internal/pairing"
)

// Cmd returns the parent "mirrorctl cluster" command.
func Cmd(opts *cmdutil.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Manage the cluster pairing",
	}

	cmd.AddCommand(listCmd(opts))
	cmd.AddCommand(pairCmd(opts))
	cmd.AddCommand(unpairCmd(opts))
	return cmd
}

// printLinkState renders the derived relationship plus both sides' raw
// records.
func printLinkState(state pairing.LinkState) {
	switch state.Status {
	case pairing.LinkPaired:
		fmt.Println(ui.SuccessMsg("Clusters are paired (uuid %s).", ui.Bold(state.PairUUID)))
	case pairing.LinkUnpaired:
		fmt.Println(ui.InfoMsg("Clusters are not paired."))
	default:
		fmt.Println(ui.WarnMsg("Cluster relationship is ambiguous at %s: %s", state.InconsistentSite, state.Reason))
	}

	rows := make([][]string, 0, len(state.SrcPairs)+len(state.DstPairs))
	for _, p := range state.SrcPairs {
		rows = append(rows, pairRow("SRC", p))
	}
	for _, p := range state.DstPairs {
		rows = append(rows, pairRow("DST", p))
	}
	if len(rows) > 0 {
		fmt.Println(ui.Table([]string{"Side", "Pair ID", "UUID", "Peer", "Peer Address", "Status"}, rows))
	}
}

func pairRow(side string, p pairing.ClusterPair) []string {
	return []string{side, fmt.Sprintf("%d", p.PairID), p.UUID, p.PeerName, p.PeerAddress, string(p.Status)}
}
