package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"koe/internal/caseledger/cache"
	"koe/internal/caseledger/handler"
	ledgermetrics "koe/internal/caseledger/metrics"
	"koe/internal/caseledger/relay"
	"koe/internal/caseledger/rules"
	"koe/internal/caseledger/service"
	"koe/internal/caseledger/store/event"
	"koe/internal/caseledger/store/outbox"
	"koe/internal/caseledger/store/relation"
	jwttoken "koe/internal/jwt_token"
	"koe/internal/platform/config"
	"koe/internal/platform/httpserver"
	"koe/internal/platform/logger"
	"koe/internal/platform/metrics"
	"koe/internal/platform/postgres"
	"koe/internal/platform/ratelimit"
	"koe/internal/platform/redis"
	"koe/pkg/platform/httputil"
)

const tokenAudience = "koe-api"

// infra groups the stores selected at startup.
type infra struct {
	db        *sql.DB
	events    service.EventStore
	relations service.RelationStore
	outbox    outboxStore
}

type outboxStore interface {
	service.Outbox
	relay.Store
}

// main wires dependencies and runs the HTTP server, the outbox relay and
// the passive acceptance sweeper until interrupted.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("koe stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := ledgermetrics.New(reg)
	httpMetrics := metrics.New(reg)

	contractRules := rules.Default()
	if cfg.Ledger.RulesPath != "" {
		loaded, err := rules.Load(cfg.Ledger.RulesPath)
		if err != nil {
			return err
		}
		contractRules = loaded
	}

	stores, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if stores.db != nil {
		defer stores.db.Close()
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(ledgerMetrics),
		service.WithOutbox(stores.outbox),
		service.WithMaxSubmitAttempts(cfg.Ledger.MaxSubmitAttempts),
	}
	if stores.db != nil {
		opts = append(opts, service.WithTx(newLedgerPostgresTx(stores.db)))
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		if cfg.Redis.FlushProjections {
			n, err := redisClient.DeletePrefix(ctx, cache.KeyPrefix)
			if err != nil {
				return err
			}
			log.Info("flushed cached projections", "count", n)
		}
		opts = append(opts, service.WithCache(cache.NewRedis(redisClient.Client, cfg.Redis.ProjectionTTL)))
		log.Info("projection cache: redis")
	} else {
		opts = append(opts, service.WithCache(cache.NewMemory()))
		log.Info("projection cache: memory")
	}

	svc := service.New(stores.events, stores.relations, contractRules, opts...)

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, tokenAudience)
	var handlerOpts []handler.Option
	if cfg.Limits.WritesPerWindow > 0 {
		var primary ratelimit.Store = ratelimit.NewInMemory()
		limitOpts := []ratelimit.Option{ratelimit.WithLogger(log)}
		if redisClient != nil {
			primary = ratelimit.NewRedis(redisClient.Client)
			limitOpts = append(limitOpts, ratelimit.WithFallback(ratelimit.NewInMemory()))
		}
		limiter := ratelimit.New(primary, cfg.Limits.WritesPerWindow, cfg.Limits.Window, limitOpts...)
		handlerOpts = append(handlerOpts, handler.WithWriteLimit(limiter.Writes))
	}
	ledgerHandler := handler.New(svc, log, httpMetrics, jwttoken.NewJWTServiceAdapter(jwtService), handlerOpts...)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		status := map[string]string{"status": "ok"}
		if stores.db != nil {
			if err := stores.db.PingContext(req.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "postgres unavailable"})
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(req.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "redis unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, status)
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	ledgerHandler.Register(r)

	g, ctx := errgroup.WithContext(ctx)

	srv := httpserver.New(cfg.Server.Addr, r)
	g.Go(func() error {
		log.Info("starting koe", "addr", cfg.Server.Addr, "env", cfg.Server.Environment)
		return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout)
	})

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := relay.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			kgo.ClientID("koe-relay"),
		)
		if err != nil {
			return err
		}
		defer publisher.Close()
		if err := publisher.EnsureTopic(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			return err
		}

		relayOpts := []relay.Option{
			relay.WithLogger(log),
			relay.WithMetrics(ledgerMetrics),
			relay.WithBatchSize(cfg.Kafka.RelayBatchSize),
		}
		if stores.db != nil {
			relayOpts = append(relayOpts, relay.WithTx(newLedgerPostgresTx(stores.db)))
		}
		outboxRelay := relay.New(stores.outbox, publisher, relayOpts...)
		g.Go(func() error {
			log.Info("outbox relay started", "topic", cfg.Kafka.Topic)
			return outboxRelay.Run(ctx, cfg.Kafka.RelayInterval)
		})
	} else {
		log.Warn("no kafka brokers configured; outbox entries stay pending")
	}

	if cfg.Ledger.SweepEnabled && contractRules.PassiveAcceptance.Enabled {
		g.Go(func() error {
			return svc.RunSweeper(ctx, cfg.Ledger.SweepInterval)
		})
	}

	return g.Wait()
}

func buildStores(ctx context.Context, cfg config.Config, log *slog.Logger) (infra, error) {
	if cfg.Postgres.URL == "" {
		log.Warn("no database configured; using in-memory stores")
		return infra{
			events:    event.NewInMemory(),
			relations: relation.NewInMemory(),
			outbox:    outbox.NewInMemory(),
		}, nil
	}

	db, err := postgres.Open(ctx, postgres.Config{
		URL:             cfg.Postgres.URL,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return infra{}, err
	}
	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return infra{}, err
		}
	}
	events, err := event.NewPostgres(db, event.WithTable(cfg.Ledger.EventTable))
	if err != nil {
		_ = db.Close()
		return infra{}, err
	}
	return infra{
		db:        db,
		events:    events,
		relations: relation.NewPostgres(db),
		outbox:    outbox.NewPostgres(db),
	}, nil
}
