package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/postwing/postwing/pkg/cache"
	"github.com/postwing/postwing/pkg/db"
	"github.com/postwing/postwing/pkg/health"
	"github.com/postwing/postwing/pkg/id"
	"github.com/postwing/postwing/pkg/inbound"
	"github.com/postwing/postwing/pkg/logger"
	"github.com/postwing/postwing/pkg/mailer"
	"github.com/postwing/postwing/pkg/mailer/brevo"
	"github.com/postwing/postwing/pkg/mailer/resend"
	"github.com/postwing/postwing/pkg/mailer/unisender"
	"github.com/postwing/postwing/pkg/queue"
	pwredis "github.com/postwing/postwing/pkg/redis"
	"github.com/postwing/postwing/pkg/storage"
	"github.com/postwing/postwing/pkg/webhook"
	webhookmailjet "github.com/postwing/postwing/pkg/webhook/mailjet"
	webhookunisender "github.com/postwing/postwing/pkg/webhook/unisender"
)

const (
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
	readHeaderTimeout = 5 * time.Second
	maxHeaderBytes    = 1 << 20 // 1MB
)

func main() {
	if err := run(); err != nil {
		slog.Error("daemon exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	log := logger.NewWithSentry(logger.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		MinLevel:    slog.LevelWarn,
	}, logger.MessageIDExtractor, logger.ProviderExtractor)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sender, err := buildSender(cfg.Provider)
	if err != nil {
		return err
	}
	log.Info("email provider configured", slog.String("provider", cfg.Provider))

	// Backend teardown hooks, run after the server and workers stop so
	// in-flight requests keep their connections until the end.
	var teardown []func(context.Context) error

	var (
		redisClient redis.UniversalClient
		dedupeCache cache.Cache[struct{}]
	)
	if cfg.RedisURL != "" {
		redisClient, err = pwredis.Open(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		teardown = append(teardown, pwredis.Shutdown(redisClient))
		dedupeCache = cache.NewRedis[struct{}](redisClient, nil)
	} else {
		mem := cache.NewMemory[struct{}]()
		teardown = append(teardown, func(context.Context) error { return mem.Close() })
		dedupeCache = mem
	}

	var archiver *inbound.Archiver
	if cfg.ArchiveAttachments {
		var s3Cfg storage.Config
		if err := env.Parse(&s3Cfg); err != nil {
			return fmt.Errorf("parse storage config: %w", err)
		}
		store, err := storage.New(s3Cfg)
		if err != nil {
			return err
		}
		archiver = inbound.NewArchiver(store)
		log.Info("attachment archiving enabled", slog.String("bucket", s3Cfg.Bucket))
	}

	templates, err := fs.Sub(os.DirFS("."), cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("open templates dir: %w", err)
	}
	renderer := mailer.NewRendererWithConfig(templates, mailer.RendererConfig{
		LayoutDir:    cfg.LayoutsDir,
		ContentClass: cfg.ContentClass,
	})
	m := mailer.New(sender, renderer, cfg.Mailer)

	var (
		pool    *pgxpool.Pool
		manager *queue.Manager
	)
	if cfg.QueueEnabled || cfg.PersistEvents {
		var dbCfg db.Config
		if err := env.Parse(&dbCfg); err != nil {
			return fmt.Errorf("parse database config: %w", err)
		}
		pool, err = db.Connect(ctx, dbCfg)
		if err != nil {
			return err
		}
		teardown = append(teardown, db.Shutdown(pool))

		if err := db.Migrate(ctx, pool, migrations, dbCfg.MigrationsTable, log); err != nil {
			return err
		}
	}

	dispatcher := webhook.NewDispatcher(log)
	dispatcher.Subscribe(logEvents(log))
	if cfg.PersistEvents {
		recorder := newEventRecorder(pool, log)
		dispatcher.Subscribe(recorder.Record)
	}

	if cfg.QueueEnabled {
		manager, err = queue.NewManager(pool,
			queue.WithTask(&sendMessageTask{mailer: m, log: log}),
			queue.WithScheduledTask(&pruneEventsTask{pool: pool}),
			queue.WithQueue(outboundQueue, cfg.QueueWorkers),
			queue.WithLogger(log),
		)
		if err != nil {
			return err
		}
	}

	checks := health.Checks{}
	if pool != nil {
		checks["postgres"] = db.Healthcheck(pool)
	}
	if manager != nil {
		checks["queue"] = queue.Healthcheck(manager)
	}
	if redisClient != nil {
		checks["redis"] = pwredis.Healthcheck(redisClient)
	}

	api := &apiHandler{
		mailer:     m,
		dispatcher: dispatcher,
		archiver:   archiver,
		from:       cfg.DefaultFrom,
		log:        log,
	}
	if manager != nil {
		api.queue = manager
		api.pool = pool
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(checks, health.WithLogger(log)))
	r.Mount("/webhooks", webhook.Router(dispatcher, log, buildParsers(cfg, log, dedupeCache)...))
	r.Post("/v1/messages", api.sendMessage)
	r.Post("/v1/inbound", api.receiveInbound)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	// Listen first to get actual address
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if manager != nil {
		g.Go(func() error {
			return manager.Start(gctx)
		})
	}

	g.Go(func() error {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if manager != nil {
			if err := manager.Stop(shutdownCtx); err != nil && !errors.Is(err, queue.ErrNotStarted) {
				errs = append(errs, err)
			}
		}
		for _, hook := range teardown {
			if err := hook(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("shutdown completed with errors", slog.Any("error", err))
		return err
	}

	log.Info("shutdown completed")
	return nil
}

// buildSender constructs the outbound provider named by EMAIL_PROVIDER.
// Each provider parses its own credentials from the environment.
func buildSender(provider string) (mailer.Sender, error) {
	switch provider {
	case "unisender":
		var cfg unisender.Config
		if err := env.Parse(&cfg); err != nil {
			return nil, fmt.Errorf("parse unisender config: %w", err)
		}
		return unisender.New(cfg, unisender.WithIDGenerator(id.NewULID)), nil
	case "brevo":
		var cfg brevo.Config
		if err := env.Parse(&cfg); err != nil {
			return nil, fmt.Errorf("parse brevo config: %w", err)
		}
		return brevo.New(cfg), nil
	case "resend":
		var cfg resend.Config
		if err := env.Parse(&cfg); err != nil {
			return nil, fmt.Errorf("parse resend config: %w", err)
		}
		return resend.New(cfg), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", provider)
	}
}

// buildParsers assembles the webhook parsers to mount, each wrapped
// with deduplication since providers redeliver callbacks on slow or
// failed responses. The Unisender parser is skipped when no API key is
// configured since it cannot verify callbacks without one.
func buildParsers(cfg config, log *slog.Logger, c cache.Cache[struct{}]) []webhook.Parser {
	parsers := []webhook.Parser{webhookmailjet.New(cfg.Mailjet)}

	var uniCfg webhookunisender.Config
	if err := env.Parse(&uniCfg); err != nil {
		log.Warn("unisender webhooks disabled", slog.Any("error", err))
	} else {
		parsers = append(parsers, webhookunisender.New(uniCfg))
	}

	for i, p := range parsers {
		parsers[i] = webhook.Dedupe(p, c, cfg.DedupeWindow)
	}
	return parsers
}

// logEvents returns a listener that logs every normalized tracking event.
func logEvents(log *slog.Logger) webhook.Listener {
	return func(ctx context.Context, e webhook.Event) {
		ctx = logger.WithMessageID(ctx, e.MessageID)
		log.InfoContext(ctx, "tracking event",
			slog.String("type", string(e.Type)),
			slog.String("recipient", e.Recipient),
			slog.Time("timestamp", e.Timestamp),
		)
	}
}
