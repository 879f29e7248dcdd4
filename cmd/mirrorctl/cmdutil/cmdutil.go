// Package cmdutil holds the wiring shared by every mirrorctl subcommand.
package cmdutil

import (
	"context"
	"fmt"

	"mirrorctl/cmd/mirrorctl/ui"
	"mirrorctl/internal/config"
	"mirrorctl/internal/pairing"
)

// Options are the root persistent flag values, shared by pointer so
// subcommands see the parsed state.
type Options struct {
	ConfigPath string
	DryRun     bool
}

// Connect loads the config, dials both sites and returns an orchestrator
// over them.
func Connect(ctx context.Context, opts *Options) (*pairing.Orchestrator, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	src, dst, err := cfg.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to sites: %w", err)
	}
	o := pairing.NewOrchestrator(src, dst)
	o.DryRun = opts.DryRun
	return o, nil
}

// RenderResults prints one line per tuple outcome and returns the batch
// error unchanged so callers can propagate it.
func RenderResults(results []pairing.TupleResult, err error) error {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Println(ui.ErrorMsg("%s: %v", r.Tuple, r.Err))
		case r.Planned:
			fmt.Println(ui.DryRunMsg("%s", r.Detail))
		default:
			fmt.Println(ui.SuccessMsg("%s", r.Detail))
		}
	}
	return err
}
