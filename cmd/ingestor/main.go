package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_catalog/internal/adapters/feed"
	memcachead "hotel_catalog/internal/adapters/memcache"
	"hotel_catalog/internal/adapters/observability"
	redisad "hotel_catalog/internal/adapters/redis"
	"hotel_catalog/internal/adapters/source"
	"hotel_catalog/internal/app"
	"hotel_catalog/internal/domain"
	"hotel_catalog/internal/shared"
	mysqlrepo "hotel_catalog/internal/storage/mysql"
)

const streamMaxLen = 10000

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel).
		With().Str("run_id", uuid.NewString()).Logger()

	if cfg.IngestSource == "" {
		log.Fatal().Msg("INGEST_SOURCE is empty")
	}
	log.Info().
		Str("source", cfg.IngestSource).
		Int("workers", cfg.Workers).
		Str("cache", cfg.CacheBackend).
		Msg("ingestor starting")

	observability.RegisterDefault()
	observability.Serve(cfg.MetricsAddr)

	opts, _, err := cfg.Sanitizer()
	if err != nil {
		log.Fatal().Err(err).Msg("sanitizer config")
	}

	raws, err := loadSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.IngestSource).Msg("read source failed")
	}
	log.Info().Int("hotels", len(raws)).Msg("source loaded")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	rcache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rcache.Client().Close()

	var cache domain.Cache = rcache
	if cfg.CacheBackend == shared.CacheMemcache {
		cache = memcachead.New(cfg.MemcacheAddr)
	}

	var pub domain.Publisher
	if cfg.RedisStream != "" {
		pub = redisad.NewPublisher(rcache.Client(), cfg.RedisStream, streamMaxLen)
	}

	ing := app.NewIngestionService(app.NewSanitizer(opts), mysqlrepo.New(db), cache, pub)

	start := time.Now()
	rep, err := ing.IngestAll(ctx, raws, cfg.Workers)
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Int("total", rep.Total).
		Int("stored", rep.Stored).
		Int("failed", rep.Failed).
		Dur("took", time.Since(start)).
		Msg("ingestion completed")
}

// loadSource reads INGEST_SOURCE as an http(s) feed export or a local file.
func loadSource(ctx context.Context, cfg shared.Config) ([]domain.RawHotel, error) {
	src := cfg.IngestSource
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		var fc domain.FeedClient = feed.New(cfg.FeedToken, cfg.FeedRPS)
		return fc.GetHotels(ctx, src)
	}
	return source.ReadFile(src)
}
