// Command notifyd runs the notification service: the HTTP API, the live
// event stream and the email path, on top of the configured storage backend.
//
// notifyd does not ingest domain events. Services that own deliveries,
// comments, surveys and the rest call the Notify* helpers of
// notifications.Dispatcher in process, built over the same store
// (pgstore or mongostore) and, with LIVE_DRIVER=redis, a live.RedisRelay on
// the same channel prefix. Rows they create show up in this API, and relayed
// events reach the streams this process holds open.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/config"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/email"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/httpserver"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/live"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/logger"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifyapi"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/redis"
)

var (
	errUnknownDriver = errors.New("unknown driver")
	errInvalidConfig = errors.New("invalid configuration")
)

const healthTimeout = 3 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("notifyd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	be, err := openBackend(ctx, cfg.StorageDriver, log)
	if err != nil {
		return err
	}
	defer be.close()

	if cfg.SeedFile != "" {
		data, err := readSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		n, err := seed(ctx, be.seeder, data)
		if err != nil {
			return err
		}
		log.LogAttrs(ctx, slog.LevelInfo, "Directory seeded", logger.Count(n), slog.String("file", cfg.SeedFile))
	}

	hub := live.NewHub(cfg.LiveBufferSize, live.WithHubLogger(log))
	g, gctx := errgroup.WithContext(ctx)

	var liveChannel notifications.LiveChannel = hub
	checks := be.checks
	if cfg.LiveDriver == LiveRedis {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()

		relay := live.NewRedisRelay(client, hub,
			live.WithChannelPrefix(redisCfg.ChannelPrefix),
			live.WithRelayLogger(log),
		)
		liveChannel = relay
		checks = append(checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)})
		g.Go(func() error { return relay.Run(gctx) })
	}

	opts := []notifications.DispatcherOption{
		notifications.WithLiveChannel(liveChannel),
		notifications.WithLinks(cfg.links()),
		notifications.WithLowScoreThreshold(cfg.LowScoreThreshold),
		notifications.WithDispatcherLogger(log),
	}
	if cfg.EmailDriver != EmailDisabled {
		mailer, err := newMailer(cfg)
		if err != nil {
			return err
		}
		opts = append(opts, notifications.WithEmailGateway(mailer))
	}
	dispatcher := notifications.NewDispatcher(be.storage, be.directory, opts...)

	stream := live.NewStreamHandler(hub,
		func(r *http.Request) string { return notifyapi.UserIDFromContext(r.Context()) },
		live.WithUnreadCounter(dispatcher.GetUnreadCount),
		live.WithStreamLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Get("/health", httpserver.HealthHandler(log, healthTimeout, checks...))
	r.Mount("/notifications", notifyapi.Router(dispatcher,
		notifyapi.WithStream(stream),
		notifyapi.WithLogger(log),
	))

	var srvCfg httpserver.Config
	if err := config.Load(&srvCfg); err != nil {
		return err
	}
	srv := httpserver.New(srvCfg,
		httpserver.WithLogger(log),
		// Closing the hub ends open streams so shutdown is not held up by them.
		httpserver.WithShutdownHook(func() { _ = hub.Close() }),
	)

	log.LogAttrs(ctx, slog.LevelInfo, "Starting notifyd",
		slog.String("storage", cfg.StorageDriver),
		slog.String("live", cfg.LiveDriver),
		slog.String("email", cfg.EmailDriver),
		slog.String("addr", srvCfg.Addr),
	)

	g.Go(func() error { return srv.Run(gctx, r) })
	return g.Wait()
}

func newLogger(cfg appConfig) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Environment, cfg.ServiceName),
		logger.WithContextExtractors(requestIDExtractor),
	}
	if cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("%w: LOG_LEVEL %q", errInvalidConfig, cfg.LogLevel)
		}
		opts = append(opts, logger.WithLevel(level))
	}
	return logger.New(opts...), nil
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}

func newMailer(cfg appConfig) (*email.NotificationMailer, error) {
	var emailCfg email.Config
	if err := config.Load(&emailCfg); err != nil {
		return nil, err
	}

	var sender email.EmailSender
	switch cfg.EmailDriver {
	case EmailPostmark:
		s, err := email.NewPostmarkClient(emailCfg)
		if err != nil {
			return nil, err
		}
		sender = s
	default:
		if strings.EqualFold(cfg.Environment, logger.EnvProduction) {
			slog.Warn("Dev email sender in production, emails are written to disk",
				slog.String("dir", emailCfg.DevDir))
		}
		sender = email.NewDevSender(emailCfg.DevDir)
	}
	return email.NewNotificationMailer(sender, cfg.BaseURL, email.WithProductName(cfg.ProductName))
}
