// Command server runs the objection-intelligence service: the loop API, the
// autonomous scheduler, the performance-ledger pipeline and the reporting
// surface. main only wires dependencies; behavior lives in internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	authorityhandler "revloop/internal/authority/handler"
	forecasthandler "revloop/internal/forecast/handler"
	"revloop/internal/ledger"
	ledgerhandler "revloop/internal/ledger/handler"
	ledgermetrics "revloop/internal/ledger/metrics"
	ledgersvc "revloop/internal/ledger/service"
	ledgerstore "revloop/internal/ledger/store"
	"revloop/internal/loop"
	"revloop/internal/loop/classifier"
	loophandler "revloop/internal/loop/handler"
	loopmetrics "revloop/internal/loop/metrics"
	"revloop/internal/loop/policy"
	"revloop/internal/loop/scheduler"
	loopservice "revloop/internal/loop/service"
	"revloop/internal/loop/store"
	"revloop/internal/platform/config"
	"revloop/internal/platform/httpserver"
	"revloop/internal/platform/kafka"
	"revloop/internal/platform/logger"
	platformmetrics "revloop/internal/platform/metrics"
	"revloop/internal/platform/redis"
	"revloop/internal/reports"
	reportshandler "revloop/internal/reports/handler"
	"revloop/internal/templates"
	templateshandler "revloop/internal/templates/handler"
	httptransport "revloop/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := platformmetrics.New()
	lMetrics := loopmetrics.New()
	ledMetrics := ledgermetrics.New()

	// Optional infrastructure. Each constructor returns nil when its piece is
	// not configured; everything downstream handles nil.
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	defer closeIf(redisClient)

	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer producer.Close()

	var (
		ledStore ledgerstore.Store
		db       *sql.DB
	)
	if cfg.Postgres.URL != "" {
		db, err = sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		pg := ledgerstore.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		ledStore = pg
		log.Info("ledger store: postgres")
	} else {
		ledStore = ledgerstore.NewMemory()
		log.Info("ledger store: in-memory (DATABASE_URL not set)")
	}

	// Ledger pipeline: publisher buffers, worker drains to store + Kafka.
	publisher := ledger.NewPublisher(log, ledger.WithPublisherMetrics(ledMetrics))
	var stream ledger.Stream
	if producer != nil {
		stream = producer
	}
	worker := ledger.NewWorker(publisher.Inbox(), ledStore, stream, log, ledMetrics)

	// Loop core.
	gate := policy.NewGate()
	cls := classifier.New(log)
	loopStore := store.NewSnapshot[loop.State](filepath.Join(cfg.DataDir, "loop-state.json"), log)
	loopSvc := loopservice.New(loopStore, cls, gate, log,
		loopservice.WithIterationCap(cfg.IterationCap),
		loopservice.WithLedger(publisher),
		loopservice.WithMetrics(lMetrics),
	)
	if err := loopSvc.Restore(ctx); err != nil {
		return err
	}

	schedStore := store.NewSnapshot[loop.SchedulerState](filepath.Join(cfg.DataDir, "scheduler-state.json"), log)
	sched := scheduler.New(schedStore, loopSvc, cfg.TickInterval,
		scheduler.Defaults{Current: cfg.DefaultCurrent, Target: cfg.DefaultTarget},
		log, scheduler.WithMetrics(lMetrics),
	)
	if err := sched.Restore(ctx); err != nil {
		return err
	}

	// Read surfaces.
	ledSvc := ledgersvc.New(ledStore)
	var reportCache *reports.Cache
	if redisClient != nil {
		reportCache = reports.NewCache(redisClient.Client, cfg.ReportCacheTTL, log)
	}
	reportSvc := reports.New(loopSvc, ledSvc, reportCache, log)
	catalog := templates.New(gate)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:  log,
		Metrics: httpMetrics,
		Handlers: []httptransport.Registrar{
			loophandler.New(loopSvc, sched,
				loophandler.Defaults{
					Current:    cfg.DefaultCurrent,
					Target:     cfg.DefaultTarget,
					TickBudget: cfg.IterationCap,
				}, log),
			ledgerhandler.New(ledSvc, log),
			forecasthandler.New(loopSvc, log),
			reportshandler.New(reportSvc, log),
			templateshandler.New(catalog, log),
			authorityhandler.New(log),
		},
		Checks: map[string]httptransport.HealthChecker{
			"redis":    healthOrNil(redisClient),
			"postgres": pingerFor(db),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(gctx)
	})

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sched.Stop(context.Background())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func closeIf(c *redis.Client) {
	if c != nil {
		_ = c.Close()
	}
}

// healthOrNil avoids wrapping a nil *redis.Client in a non-nil interface.
func healthOrNil(c *redis.Client) httptransport.HealthChecker {
	if c == nil {
		return nil
	}
	return c
}

type dbPinger struct{ db *sql.DB }

func (p dbPinger) Health(ctx context.Context) error { return p.db.PingContext(ctx) }

func pingerFor(db *sql.DB) httptransport.HealthChecker {
	if db == nil {
		return nil
	}
	return dbPinger{db: db}
}
