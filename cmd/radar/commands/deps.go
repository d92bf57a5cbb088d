package commands

import (
	"context"
	"fmt"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/internal/external/b3"
	"github.com/vsantana/radarbdr/internal/external/brapi"
	"github.com/vsantana/radarbdr/internal/external/yahoo"
	"github.com/vsantana/radarbdr/internal/history"
	"github.com/vsantana/radarbdr/internal/notify"
	"github.com/vsantana/radarbdr/internal/scanner"
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/database"
	"github.com/vsantana/radarbdr/pkg/httputil"
	"github.com/vsantana/radarbdr/pkg/logger"
	"github.com/vsantana/radarbdr/pkg/redis"
)

// deps bundles the wired application components shared by all commands
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	db       *database.DB        // nil when no DATABASE_URL is set
	archive  *history.Repository // nil when db is nil
	brapi    *brapi.Client
	pipeline *scanner.Pipeline
	notifier *notify.WhatsAppNotifier
}

// buildDeps wires external clients and the scan pipeline from config.
// Optional subsystems (Redis cache, Postgres archive) degrade to nil
// rather than failing the command.
func buildDeps(cfg *config.Config, log *logger.Logger) (*deps, error) {
	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, catalog cache disabled")
		redisClient = redis.Disabled()
	}
	cache := redis.NewCache(redisClient, "radar")
	limiter := redis.NewRateLimiter(redisClient, "radar")

	brapiHTTP := httputil.New(log).WithRedisRateLimiter(limiter, redis.BrapiRateLimit)
	yahooHTTP := httputil.NewWithTimeout(log, cfg.Yahoo.Timeout).WithRedisRateLimiter(limiter, redis.YahooRateLimit)

	brapiClient := brapi.NewClient(brapiHTTP, log, cfg.Brapi, cache)
	b3Client := b3.NewClient(httputil.New(log), log)
	yahooClient := yahoo.NewClient(yahooHTTP, log, cfg.Yahoo)

	d := &deps{
		cfg:      cfg,
		log:      log,
		redis:    redisClient,
		brapi:    brapiClient,
		pipeline: scanner.New(brapiClient, b3Client, yahooClient, log),
		notifier: notify.NewWhatsApp(httputil.New(log), log, cfg.Notify),
	}

	if cfg.ArchiveEnabled() {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		d.db = db
		d.archive = history.NewRepository(db.Pool)
		if err := d.archive.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Scan archive enabled")
	}

	return d, nil
}

func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
}

// scanDefaults maps the configured defaults into a run config
func scanDefaults(cfg *config.Config) contracts.ScanConfig {
	return contracts.ScanConfig{
		DeclineThreshold: cfg.Scan.DeclineThreshold,
		RequireBollinger: cfg.Scan.RequireBollinger,
		EnableFibonacci:  cfg.Scan.EnableFibonacci,
		EnableDonchian:   cfg.Scan.EnableDonchian,
		MinHistoryBars:   cfg.Scan.MinHistoryBars,
	}
}
