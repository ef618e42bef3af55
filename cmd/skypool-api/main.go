// Entry point; loads config, wires the storage backend and services,
// and runs the HTTP server until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skypool/internal/config"
	httptransport "skypool/internal/http"
	"skypool/internal/infra"
	"skypool/internal/modules/booking"
	"skypool/internal/modules/pricing"
	"skypool/internal/modules/trip"
	"skypool/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("config load", err)
	}

	log := infra.NewLogger(cfg.Logging.Env, "skypool-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db        booking.DB
		tripStore trip.Store
	)
	switch cfg.DB.Driver {
	case "postgres":
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres init")
		}
		defer pool.Close()
		pg := storage.NewPostgres(pool)
		db, tripStore = pg, pg
	case "memory":
		mem := storage.NewMemory()
		db, tripStore = mem, mem
	default:
		log.Fatal().Str("driver", cfg.DB.Driver).Msg("unknown db driver")
	}

	var tripCache *trip.Cache
	if cfg.Redis.Enabled {
		ttl := time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second
		tripCache = trip.NewCache(infra.NewRedis(cfg.Redis.Addr), ttl)
	}

	tripSvc := trip.NewService(tripStore, tripCache, infra.NewLogger(cfg.Logging.Env, "trip"))
	pricingSvc := pricing.NewService(pricing.Rate{
		BaseFare:  cfg.Pricing.BaseFare,
		PerKmRate: cfg.Pricing.PerKmRate,
	})
	bookingSvc := booking.NewService(db, pricingSvc, cfg.Matching.CandidateLimit, infra.NewLogger(cfg.Logging.Env, "booking"))

	router := httptransport.NewRouter(tripSvc, bookingSvc, infra.NewLogger(cfg.Logging.Env, "http"))
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Str("driver", cfg.DB.Driver).Msg("starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

func fatal(msg string, err error) {
	os.Stderr.WriteString(msg + ": " + err.Error() + "\n")
	os.Exit(1)
}
