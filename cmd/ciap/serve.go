package main

import (
	"fmt"

	"github.com/fwojciec/ciap"
	ciaphttp "github.com/fwojciec/ciap/http"
	"github.com/fwojciec/ciap/memory"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It serves until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	entries, _, err := deps.Artifacts.ReadEntries(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ciap.ErrorMessage(err))
		return err
	}
	if err := auditArtifact(deps, entries); err != nil {
		return err
	}

	srv := ciaphttp.NewServer(memory.NewCatalog(entries), deps.Logger)
	srv.Addr = c.Addr
	if err := srv.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Serving %d entries on %s\n", len(entries), srv.URL())

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(srv.Serve)
	g.Go(func() error {
		<-ctx.Done()
		return srv.Close()
	})
	return g.Wait()
}

// auditArtifact refuses entries that break any artifact rule.
func auditArtifact(deps *Dependencies, entries []ciap.Entry) error {
	report, err := ciap.Audit(entries)
	if err == nil {
		err = report.Err()
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s. Run 'ciap check' for details\n", ciap.ErrorMessage(err))
		return err
	}
	return nil
}
