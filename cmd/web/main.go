package main

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrjola/learnpref/internal/content"
	"github.com/myrjola/learnpref/internal/envstruct"
	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/logging"
	"github.com/myrjola/learnpref/internal/pprofserver"
	"github.com/myrjola/learnpref/internal/sqlite"
	"github.com/myrjola/learnpref/internal/survey"
)

type application struct {
	logger         *slog.Logger
	engine         *survey.Engine
	sessionManager *scs.SessionManager
	db             *sqlite.Database
	pages          map[string]*template.Template
}

type config struct {
	// Addr is the address to listen on. Port 0 picks a free port, which tests rely on.
	Addr string `env:"LEARNPREF_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the path to the SQLite database file or ":memory:".
	SqliteURL string `env:"LEARNPREF_SQLITE_URL" envDefault:"./learnpref.sqlite"`
	// ContentPath points to an alternative question bank in YAML. Empty uses the embedded bank.
	ContentPath     string        `env:"LEARNPREF_CONTENT_PATH" envDefault:""`
	SessionLifetime time.Duration `env:"LEARNPREF_SESSION_LIFETIME" envDefault:"12h"`
	// PprofAddr enables the pprof server on the given address, e.g. localhost:6060.
	PprofAddr string `env:"LEARNPREF_PPROF_ADDR" envDefault:""`
}

type logConfig struct {
	LogLevel string `env:"LEARNPREF_LOG_LEVEL" envDefault:"info"`
}

const sessionCleanupInterval = 24 * time.Hour

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg config
		err error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var engine *survey.Engine
	if engine, err = newEngine(cfg.ContentPath); err != nil {
		return errors.Wrap(err, "new engine", slog.String("content_path", cfg.ContentPath))
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "loaded question bank", slog.Int("questions", engine.Len()))

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(context.Background(), slog.LevelError, "failed to close database",
				errors.SlogError(closeErr))
		}
	}()

	store := sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, sessionCleanupInterval)
	defer store.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = store
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.Name = "learnpref_session"
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	if cfg.PprofAddr != "" {
		if _, err = pprofserver.Launch(ctx, cfg.PprofAddr, logger); err != nil {
			return errors.Wrap(err, "launch pprof server")
		}
	}

	var pages map[string]*template.Template
	if pages, err = parsePageTemplates(); err != nil {
		return errors.Wrap(err, "parse page templates")
	}

	app := application{
		logger:         logger,
		engine:         engine,
		sessionManager: sessionManager,
		db:             db,
		pages:          pages,
	}
	sessionManager.ErrorFunc = app.serverError

	return app.configureAndStartServer(ctx, cfg.Addr)
}

// newEngine builds the scoring engine from the YAML bank at contentPath or from the embedded bank when empty.
func newEngine(contentPath string) (*survey.Engine, error) {
	var (
		bank survey.Bank
		err  error
	)
	if contentPath == "" {
		bank, err = content.Default()
	} else {
		bank, err = content.LoadFile(contentPath)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load content")
	}
	engine, err := survey.NewEngine(bank)
	if err != nil {
		return nil, errors.Wrap(err, "validate content")
	}
	return engine, nil
}

func newLogger(lookupEnv func(string) (string, bool)) (*slog.Logger, error) {
	var cfg logConfig
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return nil, errors.Wrap(err, "populate log config")
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}
	handler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       level,
		ReplaceAttr: nil,
	}))
	return slog.New(handler), nil
}

func main() {
	ctx := context.Background()
	// A missing .env file is fine; the environment may be configured elsewhere.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).LogAttrs(ctx, slog.LevelError, "failed to load .env",
			errors.SlogError(err))
		os.Exit(1)
	}

	logger, err := newLogger(os.LookupEnv)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).LogAttrs(ctx, slog.LevelError, "failed to create logger",
			errors.SlogError(err))
		os.Exit(1)
	}

	if err = run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
