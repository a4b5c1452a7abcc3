package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/ciap"
	"github.com/fwojciec/ciap/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Builder   *crawl.Builder
	Artifacts ciap.ArtifactStore
	Entries   ciap.EntryService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose  bool   `short:"v" help:"Enable debug logging"`
	Artifact string `short:"a" env:"CIAP_OUTPUT" default:"assets/ciap/ciap.json" help:"Catalog artifact path"`

	Build  BuildCmd  `cmd:"" help:"Build the catalog artifact from the classification source"`
	Check  CheckCmd  `cmd:"" help:"Validate the catalog artifact"`
	Lookup LookupCmd `cmd:"" help:"Look up a single code"`
	Search SearchCmd `cmd:"" help:"Search codes and titles"`
	Serve  ServeCmd  `cmd:"" help:"Serve the catalog over HTTP"`
	Import ImportCmd `cmd:"" help:"Import the catalog artifact into SQLite"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Base             string        `env:"CIAP_BASE" default:"https://icpc2.danielpinto.net" help:"Classification source base URL"`
	TimeoutMS        int           `name:"timeout-ms" env:"CIAP_TIMEOUT_MS" default:"12000" help:"Per-request timeout in milliseconds"`
	MaxRetries       int           `name:"max-retries" env:"CIAP_MAX_RETRIES" default:"5" help:"Attempts per page, including the first"`
	InitialBackoffMS int           `name:"initial-backoff-ms" env:"CIAP_INITIAL_BACKOFF_MS" default:"300" help:"Wait before the first retry in milliseconds"`
	Pause            time.Duration `default:"80ms" help:"Pause between one page finishing and the next request"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct{}

// LookupCmd is the "lookup" subcommand.
type LookupCmd struct {
	Code string `arg:"" help:"Code to look up, e.g. K86"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query     string `arg:"" help:"Text to find in codes and titles"`
	Limit     int    `short:"n" default:"30" help:"Maximum number of results"`
	Component string `short:"c" help:"Keep only codes of this component (rfe, process, diagnosis)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"CIAP_ADDR" default:":8080" help:"Listen address"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	DB string `name:"db" env:"CIAP_DB" default:"ciap.db" help:"SQLite database path"`
}
