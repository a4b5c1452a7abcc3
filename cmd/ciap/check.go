package main

import (
	"fmt"

	"github.com/fwojciec/ciap"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	entries, info, err := deps.Artifacts.ReadEntries(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
		return err
	}

	report, err := ciap.Audit(entries)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s: %d entries (fingerprint %s)\n", info.Path, report.Total, info.Fingerprint)
	for _, ch := range ciap.Chapters {
		fmt.Fprintf(deps.Stdout, "  %s  %d\n", ch, report.ByChapter[ch])
	}
	for _, comp := range ciap.ComponentRanges {
		lo, hi := comp.Range()
		fmt.Fprintf(deps.Stdout, "  %-9s (%02d-%02d)  %d\n", comp, lo, hi, report.ByComponent[comp])
	}

	if report.OK() {
		fmt.Fprintln(deps.Stdout, "OK")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%d violation(s):\n", len(report.Violations))
	for _, v := range report.Violations {
		fmt.Fprintf(deps.Stdout, "  %s\n", v)
	}
	return report.Err()
}
