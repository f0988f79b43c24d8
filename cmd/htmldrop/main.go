package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/htmldrop"
	"github.com/fwojciec/htmldrop/analyze"
	"github.com/fwojciec/htmldrop/bloom"
	"github.com/fwojciec/htmldrop/discord"
	"github.com/fwojciec/htmldrop/etree"
	"github.com/fwojciec/htmldrop/extract"
	"github.com/fwojciec/htmldrop/fiber"
	"github.com/fwojciec/htmldrop/fs"
	"github.com/fwojciec/htmldrop/gemini"
	"github.com/fwojciec/htmldrop/goquery"
	"github.com/fwojciec/htmldrop/htmltomarkdown"
	htmldrophttp "github.com/fwojciec/htmldrop/http"
	"github.com/fwojciec/htmldrop/openai"
	"github.com/fwojciec/htmldrop/postgres"
	"github.com/fwojciec/htmldrop/sanitize"
	htmldropslog "github.com/fwojciec/htmldrop/slog"
	"github.com/fwojciec/htmldrop/sqlite"
	"github.com/fwojciec/htmldrop/submit"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when no PostgreSQL URL is configured.
	DBPath string

	// Store closes whichever database was opened.
	Store io.Closer

	// PostService is exposed for end-to-end testing.
	PostService htmldrop.PostService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Store != nil {
		return m.Store.Close()
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
		kong.Name("htmldrop"),
		kong.Description("Publish HTML snippets from chat as addressable posts."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'htmldrop --help' to see available commands")
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
	cmd = strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger
	deps.BaseURL = cli.BaseURL

	store, err := m.openStore(ctx, cli)
	if err != nil {
		return err
	}
	defer m.Close()

	filter := bloom.NewFilter(bloom.DefaultExpectedPosts, bloom.DefaultFPRate)
	filtered := bloom.NewPostService(store, filter)
	posts := htmldropslog.NewLoggingPostService(filtered, logger)
	m.PostService = posts
	deps.Posts = posts
	deps.Converter = htmltomarkdown.NewConverter()
	deps.Sitemaps = etree.NewSitemapWriter()
	deps.NewExporter = fsExporter(deps.Converter)

	if cmd != "serve" && cmd != "submit" {
		return kongCtx.Run(deps)
	}

	if err := filtered.Load(ctx); err != nil {
		return fmt.Errorf("failed to load slug filter: %w", err)
	}
	logger.Debug("slug filter loaded", "slugs", filter.EstimatedCount())

	completer, err := newCompleter(ctx, cli, logger)
	if err != nil {
		return err
	}
	inspector := goquery.NewInspector()
	analyzer := analyze.NewAnalyzer(htmldropslog.NewLoggingCompleter(completer, logger), inspector, logger)

	var downloader htmldrop.Downloader
	if cmd == "serve" {
		downloader = htmldrophttp.NewDownloader(htmldrophttp.WithMaxBytes(cli.MaxBytes))
	} else {
		downloader = &fs.Downloader{MaxBytes: cli.MaxBytes}
	}
	extractor := extract.NewExtractor(htmldropslog.NewLoggingDownloader(downloader, logger))
	extractor.MaxBytes = cli.MaxBytes

	submitter := submit.NewSubmitter(
		extractor,
		sanitize.NewSanitizer(sanitize.WithLogger(logger)),
		inspector,
		analyzer,
		posts,
		logger,
	)
	submitter.BaseURL = cli.BaseURL
	if cmd == "serve" {
		submitter.Limiter = submit.NewUserLimiter(cli.SubmitRate, submit.DefaultWindow)
	}
	deps.Submitter = htmldropslog.NewLoggingSubmitter(submitter, logger)

	if cmd == "serve" {
		handler := discord.NewHandler(deps.Submitter, cli.BaseURL, logger)
		bot, err := discord.NewBot(cli.Serve.Token, handler, logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set DISCORD_TOKEN to the bot token from the Discord developer portal")
			return err
		}
		server := fiber.NewServer(posts, logger)
		server.BaseURL = cli.BaseURL
		deps.Bot = bot
		deps.Server = server
	}

	return kongCtx.Run(deps)
}

// openStore opens PostgreSQL when a URL is configured and SQLite otherwise.
func (m *Main) openStore(ctx context.Context, cli *CLI) (htmldrop.PostService, error) {
	if cli.DatabaseURL != "" {
		db := postgres.NewDB(cli.DatabaseURL)
		if err := db.Open(ctx); err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		m.Store = db
		return postgres.NewPostService(db), nil
	}

	path := m.DBPath
	if cli.DB != "" {
		path = cli.DB
	}
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.Store = db
	return sqlite.NewPostService(db), nil
}

// newCompleter returns the configured metadata provider. A missing key is
// not fatal: the analyzer then falls back to metadata derived locally.
func newCompleter(ctx context.Context, cli *CLI, logger *slog.Logger) (htmldrop.Completer, error) {
	switch cli.Provider {
	case "gemini":
		if cli.GeminiKey == "" {
			logger.Warn("GEMINI_API_KEY not set, posts get fallback metadata")
			return gemini.NewCompleter(nil, cli.GeminiModel), nil
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewCompleter(client, cli.GeminiModel), nil
	default:
		if cli.OpenAIKey == "" {
			logger.Warn("OPENAI_API_KEY not set, posts get fallback metadata")
		}
		var opts []openai.Option
		if cli.OpenAIURL != "" {
			opts = append(opts, openai.WithBaseURL(cli.OpenAIURL))
		}
		if cli.OpenAIModel != "" {
			opts = append(opts, openai.WithModel(cli.OpenAIModel))
		}
		return openai.NewCompleter(cli.OpenAIKey, opts...), nil
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "htmldrop.db"
	}
	dir := filepath.Join(home, ".htmldrop")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "htmldrop.db")
}
