package main

import (
	"fmt"

	"github.com/fwojciec/ciap"
	"github.com/fwojciec/ciap/memory"
)

// loadCatalog reads the artifact into an in-memory catalog.
func loadCatalog(deps *Dependencies) (*memory.Catalog, *ciap.ArtifactInfo, error) {
	entries, info, err := deps.Artifacts.ReadEntries(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
		return nil, nil, err
	}
	return memory.NewCatalog(entries), info, nil
}

// Run executes the lookup command.
func (c *LookupCmd) Run(deps *Dependencies) error {
	catalog, _, err := loadCatalog(deps)
	if err != nil {
		return err
	}

	entry, ok := catalog.Lookup(c.Code)
	if !ok {
		err := ciap.Errorf(ciap.ENOTFOUND, "code %s not found", ciap.NormalizeCode(c.Code))
		fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
		return err
	}

	printEntry(deps, entry)
	return nil
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	catalog, _, err := loadCatalog(deps)
	if err != nil {
		return err
	}

	entries := catalog.Search(c.Query, c.Limit)
	if c.Component != "" {
		comp, err := ciap.ParseComponent(c.Component)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
			return err
		}
		entries = ciap.FilterComponent(entries, comp)
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No matching codes.")
		return nil
	}
	for _, e := range entries {
		printEntry(deps, e)
	}
	return nil
}

func printEntry(deps *Dependencies, e ciap.Entry) {
	fmt.Fprintf(deps.Stdout, "%s  %s  [%s, %s]\n", e.Code, e.Title, e.Chapter, ciap.ComponentOf(e.Code))
}
