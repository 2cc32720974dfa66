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
	"github.com/fwojciec/webclip"
	"github.com/fwojciec/webclip/docstore"
	"github.com/fwojciec/webclip/gemini"
	"github.com/fwojciec/webclip/goquery"
	"github.com/fwojciec/webclip/htmltomarkdown"
	webhttp "github.com/fwojciec/webclip/http"
	"github.com/fwojciec/webclip/openai"
	"github.com/fwojciec/webclip/readability"
	wcslog "github.com/fwojciec/webclip/slog"
	"github.com/fwojciec/webclip/sqlite"
	"github.com/fwojciec/webclip/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loadDotEnv()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !webclip.IsCanceled(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Paths of the config file and credential database. Set before calling Run().
	ConfigPath string
	DBPath     string

	// Getenv looks up environment overrides for credentials.
	Getenv func(string) string

	// SQLite database used by the credential store.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Credentials webclip.CredentialStore
	Collections webclip.CollectionService
	Fetcher     webclip.Fetcher
	Generator   webclip.Generator
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
		DBPath:     defaultDBPath(),
		Getenv:     os.Getenv,
	}
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
		kong.Name("webclip"),
		kong.Description("Turn web pages into items of a document collection"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webclip --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	cfg, err := LoadConfig(m.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set WEBCLIP_CONFIG to use a different config file\n")
		return err
	}

	if m.Credentials == nil {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set WEBCLIP_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.Credentials = &EnvCredentialStore{
			Getenv: m.Getenv,
			Next:   sqlite.NewCredentialStore(m.DB),
		}
	}
	deps.Credentials = m.Credentials

	switch cmd {
	case "collections", "schema", "share":
		collections, err := m.collectionService(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", webclip.ErrorMessage(err))
			return err
		}
		deps.Collections = wcslog.NewLoggingCollectionService(collections, logger)
	}

	if cmd == "share" {
		generator, err := m.generator(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", webclip.ErrorMessage(err))
			return err
		}
		deps.Generator = wcslog.NewLoggingGenerator(generator, logger)

		fetcher := m.Fetcher
		if fetcher == nil {
			fetcher = webhttp.NewFetcher(
				webhttp.WithTimeout(cfg.Fetch.Timeout),
				webhttp.WithMaxBytes(cfg.Fetch.MaxBytes),
			)
		}
		deps.Fetcher = wcslog.NewLoggingFetcher(fetcher, logger)

		deps.Extractor = webclip.ExtractorChain{
			trafilatura.NewExtractor(),
			readability.NewExtractor(),
			goquery.NewExtractor(),
		}
		deps.Converter = htmltomarkdown.NewConverter()
	}

	return kongCtx.Run(deps)
}

// collectionService returns the configured collection store client.
func (m *Main) collectionService(ctx context.Context, cfg Config, logger *slog.Logger) (webclip.CollectionService, error) {
	if m.Collections != nil {
		return m.Collections, nil
	}
	if cfg.Store.BaseURL == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "store.base_url not configured in %s", m.ConfigPath)
	}

	token, err := credential(ctx, m.Credentials, webclip.AccountStoreToken)
	if err != nil {
		return nil, err
	}
	spaceID, err := credential(ctx, m.Credentials, webclip.AccountSpaceID)
	if err != nil {
		return nil, err
	}

	exec := webhttp.NewExecutor(
		webhttp.WithRequestTimeout(cfg.Store.Timeout),
		webhttp.WithRetry(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay),
		webhttp.WithRateLimit(cfg.Store.RequestsPerSecond),
		webhttp.WithRetryLogger(logger),
	)
	return docstore.NewClient(exec, cfg.Store.BaseURL, token, spaceID), nil
}

// generator returns the configured AI provider.
func (m *Main) generator(ctx context.Context, cfg Config, logger *slog.Logger) (webclip.Generator, error) {
	if m.Generator != nil {
		return m.Generator, nil
	}

	key, err := credential(ctx, m.Credentials, webclip.AccountAIKey)
	if err != nil {
		return nil, err
	}

	httpClient := webhttp.NewExecutor(
		webhttp.WithRequestTimeout(cfg.AI.Timeout),
		webhttp.WithRetry(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay),
		webhttp.WithRetryLogger(logger),
	).HTTPClient()

	switch cfg.AI.Provider {
	case ProviderOpenAI:
		return openai.NewGenerator(openai.NewClient(key, cfg.AI.BaseURL, httpClient), cfg.AI.Model), nil
	default:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      key,
			Backend:     genai.BackendGeminiAPI,
			HTTPClient:  httpClient,
			HTTPOptions: genai.HTTPOptions{BaseURL: cfg.AI.BaseURL},
		})
		if err != nil {
			return nil, webclip.Errorf(webclip.EINVALID, "failed to create Gemini client: %v", err)
		}
		return gemini.NewGenerator(client, cfg.AI.Model), nil
	}
}

// loadDotEnv loads .env files from the working and home directories.
// Variables already set in the environment win.
func loadDotEnv() {
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".env"))
	}
}

func defaultConfigPath() string {
	if path := os.Getenv("WEBCLIP_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "webclip.yaml"
	}
	return filepath.Join(home, ".webclip", "config.yaml")
}

func defaultDBPath() string {
	if path := os.Getenv("WEBCLIP_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "webclip.db"
	}
	dir := filepath.Join(home, ".webclip")
	_ = os.MkdirAll(dir, 0700)
	return filepath.Join(dir, "webclip.db")
}
