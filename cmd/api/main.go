// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/briangreenhill/jokeshelf/cache"
	"github.com/briangreenhill/jokeshelf/internal/config"
	"github.com/briangreenhill/jokeshelf/internal/http/routes"
	"github.com/briangreenhill/jokeshelf/internal/jokes"
	"github.com/briangreenhill/jokeshelf/jokeapi"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal().Err(err).Msg("load .env")
	}
	cfg, err := config.LoadServer()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	upstream, err := jokeapi.New(cfg.JokeAPIBaseURL, jokeapi.WithTimeout(cfg.JokeAPITimeout))
	if err != nil {
		logger.Fatal().Err(err).Msg("joke api client")
	}

	svc := jokes.New(jokes.Options{
		Cache:        cache.NewMemory(),
		Source:       upstream,
		DefaultCount: cfg.DefaultJokesNum,
		Logger:       logger.With().Str("component", "jokes").Logger(),
	})

	s := routes.New(routes.ServerOptions{
		Jokes:          svc,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Str("upstream", cfg.JokeAPIBaseURL).Msg("starting api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info().Int("cached_jokes", len(svc.Snapshot())).Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
