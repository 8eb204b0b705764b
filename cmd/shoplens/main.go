package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/shoplens/shoplens/gemini"
	"github.com/shoplens/shoplens/goquery"
	"github.com/shoplens/shoplens/htmltomarkdown"
	"github.com/shoplens/shoplens/pipeline"
	"github.com/shoplens/shoplens/rod"
	shopslog "github.com/shoplens/shoplens/slog"
	"github.com/shoplens/shoplens/sqlite"
	"github.com/shoplens/shoplens/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the result cache.
	DB *sqlite.DB

	// Pipeline is wired by Run() unless preset for end-to-end testing.
	Pipeline Extractor

	renderer *rod.Renderer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.renderer != nil {
		m.renderer.Close()
	}
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
		kong.Name("shoplens"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'shoplens --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Pipeline = m.Pipeline
	if cmd == "extract" && deps.Pipeline == nil {
		p, err := m.wirePipeline(ctx, cli, stderr)
		if err != nil {
			return err
		}
		defer m.Close()
		deps.Pipeline = p
	}

	return kongCtx.Run(deps)
}

// wirePipeline assembles the extraction pipeline from real dependencies.
func (m *Main) wirePipeline(ctx context.Context, cli *CLI, stderr io.Writer) (*pipeline.Pipeline, error) {
	logLevel := slog.LevelInfo
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SHOPLENS_DB to use a different database path\n")
		return nil, fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}

	cache, err := sqlite.NewRecordCache(m.DB, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open result cache: %w", err)
	}

	renderer, err := rod.NewRenderer()
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	m.renderer = renderer

	p := &pipeline.Pipeline{
		Renderer:  rod.NewLoggingRenderer(renderer, logger),
		Cache:     cache,
		Limiter:   pipeline.NewRateLimiter(cli.Extract.RPS),
		Converter: htmltomarkdown.NewConverter(),
		Content:   trafilatura.NewExtractor(),
		Hints:     goquery.NewHintParser(),
		Detector:  goquery.NewDetector(),
		Logger:    logger,
	}

	// AI escalation is optional: without a key the pipeline degrades to
	// index plus heuristic tiers.
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		p.Inferrer = shopslog.NewLoggingInferrer(gemini.NewInferrer(client), logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI escalation disabled")
	}

	return p, nil
}

func defaultDBPath() string {
	if path := os.Getenv("SHOPLENS_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "shoplens.db"
	}
	dir := filepath.Join(home, ".shoplens")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "shoplens.db")
}
