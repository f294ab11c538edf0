// Package server composes the application's shared dependencies and owns the
// HTTP lifecycle.
//
// Server holds configuration, loggers, the database pool, the Redis client,
// the background job service, the rate limiter and the in-process scheduler.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/patternhub/internal/config"
	"github.com/deppfellow/patternhub/internal/database"
	"github.com/deppfellow/patternhub/internal/lib/email"
	"github.com/deppfellow/patternhub/internal/lib/job"
	"github.com/deppfellow/patternhub/internal/lib/ratelimit"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/patternhub/internal/logger"
)

// LimiterSweepSpec is how often expired in-process rate limit windows are dropped.
const LimiterSweepSpec = "@every 1m"

type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Redis         *redis.Client
	Job           *job.JobService
	RateLimiter   *ratelimit.Limiter
	Scheduler     *cron.Cron
	httpServer    *http.Server
	drainHooks    []func()
}

// New connects to PostgreSQL and Redis and starts the job workers and the
// scheduler. Redis being down at startup is logged, not fatal: rate limiting
// falls back to process memory until it returns.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to Redis, continuing with in-process rate limiting")
	}

	emailClient, err := email.NewClient(cfg, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize email client: %w", err)
	}

	jobService := job.NewJobService(logger, cfg, emailClient)
	if err := jobService.Start(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to start job server: %w", err)
	}

	limiter := ratelimit.NewLimiter(ratelimit.NewRedisStore(redisClient), ratelimit.NewMemoryStore(), logger)

	scheduler, err := newScheduler(limiter, logger)
	if err != nil {
		jobService.Stop()
		db.Close()
		return nil, err
	}
	scheduler.Start()

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Job:           jobService,
		RateLimiter:   limiter,
		Scheduler:     scheduler,
	}, nil
}

// newScheduler registers periodic maintenance jobs.
func newScheduler(limiter *ratelimit.Limiter, logger *zerolog.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(LimiterSweepSpec, func() {
		if removed := limiter.Fallback().Sweep(); removed > 0 {
			logger.Debug().Int("removed", removed).Msg("swept expired rate limit windows")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule rate limit sweep: %w", err)
	}

	return c, nil
}

func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// OnDrain registers fn to run after in-flight requests finished and before
// connections close, for background work started by requests.
func (s *Server) OnDrain(fn func()) {
	s.drainHooks = append(s.drainHooks, fn)
}

// Shutdown drains in-flight requests, runs the drain hooks, then stops the
// scheduler, the job workers and the connections. It keeps going after a
// failure so every dependency gets a chance to close.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	for _, hook := range s.drainHooks {
		hook()
	}

	if s.Scheduler != nil {
		<-s.Scheduler.Stop().Done()
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	return errors.Join(errs...)
}
