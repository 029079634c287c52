package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/angela142004/taller-mecanico-api/internal/app"
	"github.com/angela142004/taller-mecanico-api/internal/clock"
	"github.com/angela142004/taller-mecanico-api/internal/config"
	"github.com/angela142004/taller-mecanico-api/internal/events"
	"github.com/angela142004/taller-mecanico-api/internal/ratelimit"
	"github.com/angela142004/taller-mecanico-api/internal/storage/postgres"
	transporthttp "github.com/angela142004/taller-mecanico-api/internal/transport/http"
	"github.com/angela142004/taller-mecanico-api/migrations"
)

func main() {
	logger := log.Default()
	config.LoadEnvFile(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("parse config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	reservations := postgres.NewReservationRepository(pool)
	mechanics := postgres.NewMechanicRepository(pool)
	catalog := postgres.NewServiceRepository(pool)

	var publisher app.EventPublisher = events.NopPublisher{}
	if cfg.KafkaEnabled() {
		kafkaPub := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			if err := kafkaPub.Close(); err != nil {
				logger.Printf("close kafka writer: %v", err)
			}
		}()
		publisher = kafkaPub
		logger.Printf("publishing reservation events to %s", cfg.Kafka.Topic)
	}

	svc := app.NewAdmissionService(reservations, mechanics, catalog, clock.NewSystem(),
		app.WithEventPublisher(publisher))

	handler := transporthttp.NewRouter(svc)
	handler = transporthttp.CORS(cfg.CORS.Origins, handler)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RateLimit.Enabled {
		store := ratelimit.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		store.StartJanitor(runCtx)

		var stats ratelimit.StatsRecorder
		if cfg.Redis.Addr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
			defer rdb.Close()
			stats = ratelimit.NewRedisStats(rdb)
			logger.Printf("recording rate limit stats in redis at %s", cfg.Redis.Addr)
		}

		handler = ratelimit.Middleware(store, ratelimit.ClientKey(cfg.RateLimit.TrustXFF), stats)(handler)
	}

	handler = transporthttp.RequestLogger(handler, logger)
	handler = transporthttp.RequestID(handler)

	server := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.HTTP.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-runCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
