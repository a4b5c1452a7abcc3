package main

import (
	"fmt"

	"github.com/fwojciec/ciap"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	entries, info, err := deps.Artifacts.ReadEntries(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
		return err
	}
	if err := auditArtifact(deps, entries); err != nil {
		return err
	}

	prev, err := deps.Entries.LatestImport(deps.Ctx)
	if err != nil && ciap.ErrorCode(err) != ciap.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
		return err
	}

	imp, err := deps.Entries.ImportEntries(deps.Ctx, entries, info.Fingerprint)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
		return err
	}

	if prev != nil && prev.ID == imp.ID {
		fmt.Fprintf(deps.Stdout, "Catalog unchanged (fingerprint %s, imported %s)\n",
			imp.Fingerprint, imp.ImportedAt.Format("2006-01-02 15:04:05"))
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Imported %d entries (import %s, fingerprint %s)\n", imp.Count, imp.ID, imp.Fingerprint)
	return nil
}
