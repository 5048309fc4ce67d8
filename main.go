package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"

	"geckobrowser/internal/browser"
	"geckobrowser/internal/catalog"
	"geckobrowser/internal/config"
	"geckobrowser/internal/logging"
	"geckobrowser/internal/model"
	"geckobrowser/internal/storage"
	"geckobrowser/internal/tui"
	"geckobrowser/internal/web"
)

func checkUpdate(cfg *config.Config, currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      cfg.UpdateOwner,
		Repository: cfg.UpdateRepo,
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not check for updates: %v\n", err)
		return
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Printf("👉 Download it from https://github.com/%s/%s/releases\n", cfg.UpdateOwner, cfg.UpdateRepo)
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: geckobrowser [options]\n\n")
		fmt.Fprintf(os.Stderr, "geckobrowser browses the Galactic Gecko collection: page through it,\n")
		fmt.Fprintf(os.Stderr, "filter by trait and keep favorites between runs.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  geckobrowser                      # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  geckobrowser -d https://.../geckos.json --web\n")
		fmt.Fprintf(os.Stderr, "  geckobrowser --report -o r.txt    # Save trait report to file\n")
		fmt.Fprintf(os.Stderr, "  geckobrowser --json --page 2      # Dump page 2 as JSON\n")
	}

	config.RegisterFlags(pflag.CommandLine)
	configFlag := pflag.StringP("config", "c", "", "Config file (default "+config.DefaultPath()+")")
	jsonFlag := pflag.BoolP("json", "j", false, "Print the current page as JSON")
	yamlFlag := pflag.BoolP("yaml", "y", false, "Print the current page as YAML")
	pageFlag := pflag.IntP("page", "p", 0, "Page to print with --json/--yaml (default: last viewed)")
	reportFlag := pflag.BoolP("report", "r", false, "Print a trait summary report (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report or dump to the specified file")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode (see --addr)")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for a newer release")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("geckobrowser version %s\n", model.Version)
		return
	}

	cfg, err := config.Load(*configFlag)
	if err == nil {
		err = cfg.ApplyFlags(pflag.CommandLine)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *updateFlag {
		checkUpdate(cfg, model.Version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var code int
	switch {
	case *webFlag:
		code = runWebMode(ctx, cfg)
	case *reportFlag:
		code = runReportMode(ctx, cfg, *outputFlag)
	case *jsonFlag || *yamlFlag:
		code = runDumpMode(ctx, cfg, *pageFlag, *yamlFlag, *outputFlag)
	case !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()):
		fmt.Fprintln(os.Stderr, "stdout is not a terminal; printing the report instead of starting the TUI")
		code = runReportMode(ctx, cfg, *outputFlag)
	default:
		code = runTuiMode(cfg)
	}
	stop()
	os.Exit(code)
}

// app is what every mode needs: a logger and an open state store.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store storage.Store

	closers []io.Closer
}

func newApp(cfg *config.Config, logOutput string) (*app, error) {
	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	lc := logging.DefaultConfig()
	lc.Level = cfg.LogLevel
	lc.Format = cfg.LogFormat
	lc.Output = logOutput
	log, logCloser := logging.New(lc)

	store, err := storage.Open(cfg.Store, cfg.StateDir, log)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("open state store (use --store memory to browse without saving): %w", err)
	}
	return &app{cfg: cfg, log: log, store: store, closers: []io.Closer{store, logCloser}}, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil && !errors.Is(err, storage.ErrClosed) {
			a.log.Warn().Err(err).Msg("close failed")
		}
	}
}

// loadSession loads the catalog within the configured fetch timeout.
func (a *app) loadSession(ctx context.Context) (*browser.Session, error) {
	timeout, _ := a.cfg.Timeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ctx = logging.WithLogger(ctx, a.log)

	c, err := catalog.Load(ctx, a.cfg.DataFile)
	if err != nil {
		return nil, err
	}
	return browser.New(c, browser.Options{
		PageSize:        a.cfg.PerPage,
		Store:           a.store,
		Logger:          a.log,
		RestoreLastPage: a.cfg.RestorePage,
	}), nil
}

func runWebMode(ctx context.Context, cfg *config.Config) int {
	a, err := newApp(cfg, "stderr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	s, err := a.loadSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", cfg.DataFile, err)
		return 1
	}

	fmt.Printf("Starting geckobrowser web server at http://%s\n", cfg.WebAddr)
	if err := web.New(s, a.log).ListenAndServe(ctx, cfg.WebAddr); err != nil {
		a.log.Error().Err(err).Msg("web server stopped")
		return 1
	}
	return 0
}

func runReportMode(ctx context.Context, cfg *config.Config, outputFile string) int {
	a, err := newApp(cfg, "stderr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	s, err := a.loadSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", cfg.DataFile, err)
		return 1
	}

	report := s.Report()
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			return 1
		}
		fmt.Printf("Report saved to %s\n", outputFile)
		return 0
	}
	fmt.Print(report)
	return 0
}

func runDumpMode(ctx context.Context, cfg *config.Config, page int, asYAML bool, outputFile string) int {
	a, err := newApp(cfg, "stderr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	s, err := a.loadSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", cfg.DataFile, err)
		return 1
	}
	snap := s.Snapshot()
	if page != 0 {
		if snap, err = s.SnapshotPage(page); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	var out io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	write := browser.WriteJSON
	if asYAML {
		write = browser.WriteYAML
	}
	if err := write(out, snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runTuiMode(cfg *config.Config) int {
	// The TUI owns the terminal, so logs go to a file.
	a, err := newApp(cfg, cfg.LogFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	m := tui.InitialModel(a.loadSession, a.log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		return 1
	}
	return 0
}
