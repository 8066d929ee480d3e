package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	httpapi "github.com/skillswap/skillswap/internal/api/http"
	"github.com/skillswap/skillswap/internal/application/auth"
	"github.com/skillswap/skillswap/internal/application/meeting"
	"github.com/skillswap/skillswap/internal/application/notification"
	"github.com/skillswap/skillswap/internal/application/review"
	"github.com/skillswap/skillswap/internal/application/session"
	"github.com/skillswap/skillswap/internal/application/user"
	"github.com/skillswap/skillswap/internal/config"
	domainMeeting "github.com/skillswap/skillswap/internal/domain/meeting"
	domainNotification "github.com/skillswap/skillswap/internal/domain/notification"
	domainReview "github.com/skillswap/skillswap/internal/domain/review"
	domainSession "github.com/skillswap/skillswap/internal/domain/session"
	domainUser "github.com/skillswap/skillswap/internal/domain/user"
	"github.com/skillswap/skillswap/internal/infrastructure/bolt"
	"github.com/skillswap/skillswap/internal/infrastructure/cache"
	natssink "github.com/skillswap/skillswap/internal/infrastructure/nats"
	"github.com/skillswap/skillswap/internal/infrastructure/postgres"
	"github.com/skillswap/skillswap/internal/infrastructure/sse"
	"github.com/skillswap/skillswap/internal/infrastructure/tracing"
)

const sweepBatch = 200

// repositories is the storage backend chosen by STORE_DRIVER.
type repositories struct {
	users         domainUser.Repository
	skills        domainUser.SkillRepository
	sessions      domainSession.Repository
	offers        domainSession.CounterOfferRepository
	work          domainSession.WorkRepository
	reviews       domainReview.Repository
	meetings      domainMeeting.Repository
	cancellations domainMeeting.CancellationRepository
	store         httpapi.Pinger
	close         func()
}

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

// run owns every resource it opens so that early returns release them.
func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, "skillswap", cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("tracing init: %w", err)
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			logger.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	repos, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store init (%s): %w", cfg.StoreDriver, err)
	}
	defer repos.close()

	// notification side-channel
	sseHub := sse.NewHub()
	sinks := []domainNotification.Sink{sse.NewSink(sseHub)}
	if cfg.NATSURL != "" {
		ns, err := natssink.Connect(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer ns.Close()
		sinks = append(sinks, ns)
	}
	filter, err := notification.NewFilter(cfg.NotifyFilter)
	if err != nil {
		return fmt.Errorf("invalid NOTIFY_FILTER: %w", err)
	}
	dispatcher := notification.NewDispatcher(cfg.NotifyQueueSize, filter, notification.NewMetrics(prometheus.DefaultRegisterer), logger, sinks...)
	dispatcher.Start()
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := dispatcher.Stop(dctx); err != nil {
			logger.Warn().Err(err).Msg("notification queue not drained")
		}
	}()

	readCache := cache.New(cfg.CacheSize, cfg.CacheTTL)

	// services
	userSvc := user.NewService(repos.users, repos.skills, logger)
	authSvc := auth.NewService(repos.users, cfg.JWTSecret, cfg.AuthTokenTTL, logger)
	sessionSvc := session.NewService(repos.sessions, repos.offers, repos.work, userSvc, dispatcher, readCache, logger)
	reviewSvc := review.NewService(repos.reviews, repos.sessions, dispatcher, readCache, cfg.ReviewCommentMax, logger)
	meetingSvc := meeting.NewService(repos.meetings, repos.cancellations, dispatcher, readCache, logger)

	// background jobs
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.MeetingSweepSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := meetingSvc.CompleteElapsed(jobCtx, sweepBatch)
		if err != nil {
			logger.Error().Err(err).Msg("meeting sweep failed")
			return
		}
		if n > 0 {
			logger.Info().Int("completed", n).Msg("meeting sweep finished")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid MEETING_SWEEP_SCHEDULE %q: %w", cfg.MeetingSweepSchedule, err)
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// API server
	apiServer := httpapi.NewServer(authSvc, userSvc, sessionSvc, reviewSvc, meetingSvc, sseHub, repos.store, logger)
	var handler http.Handler = apiServer.Router()
	if cfg.OTLPEndpoint != "" {
		handler = otelhttp.NewHandler(handler, "skillswap-http")
	}

	// WriteTimeout stays unset so event streams are not cut; API routes carry
	// their own timeout middleware.
	httpServer := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Str("store", cfg.StoreDriver).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info().Msg("shutting down")
	case err := <-serveErr:
		sseHub.Stop()
		return fmt.Errorf("http server: %w", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sseHub.Stop()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.StoreDriver == config.DriverBolt {
		store, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:         bolt.NewUserRepository(store),
			skills:        bolt.NewSkillRepository(store),
			sessions:      bolt.NewSessionRepository(store),
			offers:        bolt.NewCounterOfferRepository(store),
			work:          bolt.NewWorkRepository(store),
			reviews:       bolt.NewReviewRepository(store),
			meetings:      bolt.NewMeetingRepository(store),
			cancellations: bolt.NewCancellationRepository(store),
			store:         store,
			close:         func() { _ = store.Close() },
		}, nil
	}

	if cfg.MigrationsEnabled {
		if err := postgres.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &repositories{
		users:         postgres.NewUserRepository(pool),
		skills:        postgres.NewSkillRepository(pool),
		sessions:      postgres.NewSessionRepository(pool),
		offers:        postgres.NewCounterOfferRepository(pool),
		work:          postgres.NewWorkRepository(pool),
		reviews:       postgres.NewReviewRepository(pool),
		meetings:      postgres.NewMeetingRepository(pool),
		cancellations: postgres.NewCancellationRepository(pool),
		store:         pool,
		close:         pool.Close,
	}, nil
}
