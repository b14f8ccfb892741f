package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"donatewall/internal/certificate"
	"donatewall/internal/http/handlers"
	httpapi "donatewall/internal/http/httpapi"
	"donatewall/internal/infra"
	"donatewall/internal/infra/geoip"
	"donatewall/internal/leaderboard"
	"donatewall/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sourceCfg := leaderboard.SourceConfig{
		SheetsURL:    cfg.LeaderboardSheetsURL,
		HTTPClient:   &http.Client{Timeout: cfg.LeaderboardFetchTimeout},
		UseFallback:  cfg.LeaderboardUseFallback,
		FallbackFile: cfg.LeaderboardFallbackFile,
		Logger:       &logger,
	}
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		sourceCfg.DB = infra.NewSQLRunner(dbpool, logger)
	}

	source, err := leaderboard.ResolveSource(sourceCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve leaderboard source")
	}
	feed := leaderboard.NewFeed(leaderboard.Options{
		Source:  source,
		Timeout: cfg.LeaderboardFetchTimeout,
		Logger:  &logger,
	})
	// A failed first load is served as an empty leaderboard until a reload succeeds.
	if err := feed.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial leaderboard load failed")
	}

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare storage")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	app := &handlers.App{
		Feed:        feed,
		Issuer:      certificate.NewIssuer(certificate.Options{Store: store, Logger: &logger}),
		Logger:      &logger,
		AllowManual: cfg.LeaderboardAllowManual,
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		DefaultLocale:   cfg.DefaultLocale,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   resolver.Lookup(),
	})
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", server.Addr()).
			Str("source", feed.SourceName()).
			Msg("API listening")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
