package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ciap"
	"github.com/fwojciec/ciap/crawl"
	"github.com/fwojciec/ciap/fs"
	"github.com/fwojciec/ciap/goquery"
	ciaphttp "github.com/fwojciec/ciap/http"
	ciapslog "github.com/fwojciec/ciap/slog"
	"github.com/fwojciec/ciap/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCode(err))
	}
}

// ExitCode maps a command error to the process exit status.
// Validation failures exit with 2, every other error with 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case ciap.ErrorCode(err) == ciap.EVIOLATION:
		return 2
	default:
		return 1
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the import command.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ciap"),
		kong.Description("Build, validate and query the CIAP-2 catalog"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ciap --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger
	deps.Artifacts = ciapslog.NewLoggingArtifactStore(fs.NewArtifactStore(cli.Artifact), logger)

	switch strings.Fields(kongCtx.Command())[0] {
	case "build":
		fetcher := ciaphttp.NewFetcher(ciaphttp.WithTimeout(cli.Build.Timeout()))
		defer fetcher.Close()

		deps.Builder = &crawl.Builder{
			Fetcher:     ciapslog.NewLoggingFetcher(fetcher, logger),
			Parser:      ciapslog.NewLoggingParser(goquery.NewParser(), logger),
			Logger:      logger,
			Pause:       cli.Build.Pause,
			BaseURL:     cli.Build.Base,
			RetryDelays: cli.Build.RetryDelays(),
		}

	case "import":
		m.DB = sqlite.NewDB(cli.Import.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set CIAP_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.Import.DB, err)
		}
		defer m.Close()

		deps.Entries = sqlite.NewEntryService(m.DB)
	}

	return kongCtx.Run(deps)
}

// Timeout returns the per-request timeout.
func (c *BuildCmd) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// RetryDelays returns the waits between attempts of one page fetch.
func (c *BuildCmd) RetryDelays() []time.Duration {
	attempts := max(c.MaxRetries, 1)
	initial := time.Duration(c.InitialBackoffMS) * time.Millisecond
	return crawl.BackoffDelays(initial, crawl.DefaultBackoffFactor, attempts)
}
