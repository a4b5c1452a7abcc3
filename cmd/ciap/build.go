package main

import (
	"fmt"

	"github.com/fwojciec/ciap"
	"github.com/fwojciec/ciap/crawl"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	progress := func(e crawl.PageEvent) {
		if e.Err != nil {
			fmt.Fprintf(deps.Stdout, "✗ %s/%d skipped: %v\n", e.Chapter, e.Component, e.Err)
			return
		}
		fmt.Fprintf(deps.Stdout, "✓ %s/%d → %d entries\n", e.Chapter, e.Component, e.Count)
	}

	result, err := deps.Builder.Build(deps.Ctx, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
		return err
	}

	info, err := deps.Artifacts.WriteEntries(deps.Ctx, result.Entries)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
		return err
	}

	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "%d of %d pages failed\n", result.Failed, result.Pages)
	}
	if info.Count < crawl.MinPlausibleEntries {
		fmt.Fprintf(deps.Stdout, "warning: only %d entries, check the network or the source\n", info.Count)
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d entries to %s (fingerprint %s)\n", info.Count, info.Path, info.Fingerprint)
	return nil
}
