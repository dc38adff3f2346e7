package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AdamBeresnev/shuttle-bracket/internal/config"
	"github.com/AdamBeresnev/shuttle-bracket/internal/db"
	"github.com/AdamBeresnev/shuttle-bracket/internal/live"
	"github.com/AdamBeresnev/shuttle-bracket/internal/middleware"
	"github.com/AdamBeresnev/shuttle-bracket/internal/service"
	"github.com/AdamBeresnev/shuttle-bracket/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type application struct {
	cfg         *config.Config
	sessions    *scs.SessionManager
	hub         *live.Hub
	limiter     *middleware.RateLimiter
	users       *store.UserStore
	tournaments *store.TournamentStore
	brackets    *service.BracketService
	matches     *service.MatchService
	userService *service.UserService
}

func newApplication(cfg *config.Config, database *sqlx.DB, sessionManager *scs.SessionManager, hub *live.Hub) *application {
	matchStore := store.NewMatchStore(database)
	tournamentStore := store.NewTournamentStore(database)
	userStore := store.NewUserStore(database)
	registrationStore := store.NewRegistrationStore(database)

	return &application{
		cfg:         cfg,
		sessions:    sessionManager,
		hub:         hub,
		limiter:     middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		users:       userStore,
		tournaments: tournamentStore,
		brackets:    service.NewBracketService(database, matchStore, tournamentStore, registrationStore, userStore, hub),
		matches:     service.NewMatchService(database, matchStore, userStore, hub),
		userService: service.NewUserService(userStore),
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg)

	database, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := middleware.InitAuth(cfg.Auth, !cfg.IsDevelopment()); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up authentication")
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime
	sessionManager.Cookie.Secure = !cfg.IsDevelopment()
	if cfg.Database.Driver == config.DriverSQLite {
		sessionManager.Store = sqlite3store.New(database.DB)
	} else {
		log.Warn().Msg("Sessions are kept in memory for this database driver")
	}

	app := newApplication(cfg, database, sessionManager, live.NewHub())
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: app.routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("base_url", cfg.App.BaseURL).Msg("Server starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
