package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"hotel_catalog/internal/app"
	"hotel_catalog/internal/domain"
)

const (
	CacheRedis    = "redis"
	CacheMemcache = "memcache"
)

type Config struct {
	AppEnv       string
	LogLevel     string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	RedisStream  string
	CacheBackend string
	MemcacheAddr string
	CacheTTL     time.Duration
	IngestSource string
	FeedToken    string
	FeedRPS      int
	Workers      int
	Country      string
	RefLat       *float64
	RefLon       *float64
	// SanitizerFile is an optional YAML file overriding the sanitizer settings.
	SanitizerFile string
}

// SanitizerFile is the YAML shape of SANITIZER_CONFIG.
type SanitizerFile struct {
	Country   string `yaml:"country"`
	Reference *struct {
		Lat float64 `yaml:"lat"`
		Lon float64 `yaml:"lon"`
	} `yaml:"reference"`
	RoomGalleryLimit int      `yaml:"room_gallery_limit"`
	RoomServiceLimit int      `yaml:"room_service_limit"`
	RoomServices     []string `yaml:"room_services"`
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be parsed; using process environment")
	}

	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/catalog?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisStream:   env("REDIS_STREAM", "catalog:events"),
		CacheBackend:  strings.ToLower(env("CACHE_BACKEND", CacheRedis)),
		MemcacheAddr:  env("MEMCACHE_ADDR", "localhost:11211"),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		IngestSource:  env("INGEST_SOURCE", ""),
		FeedToken:     env("FEED_TOKEN", ""),
		FeedRPS:       atoi("FEED_RPS", 5),
		Workers:       atoi("INGEST_WORKERS", 8),
		Country:       env("CATALOG_COUNTRY", "Georgia"),
		RefLat:        optFloat("REF_LAT"),
		RefLon:        optFloat("REF_LON"),
		SanitizerFile: env("SANITIZER_CONFIG", ""),
	}
	if c.CacheBackend != CacheRedis && c.CacheBackend != CacheMemcache {
		log.Warn().Str("backend", c.CacheBackend).Msg("unknown CACHE_BACKEND, using redis")
		c.CacheBackend = CacheRedis
	}
	if (c.RefLat == nil) != (c.RefLon == nil) {
		log.Warn().Msg("REF_LAT and REF_LON must be set together; distance disabled")
		c.RefLat, c.RefLon = nil, nil
	}
	return c
}

// LoadSanitizerFile parses a SANITIZER_CONFIG YAML document.
func LoadSanitizerFile(path string) (SanitizerFile, error) {
	var f SanitizerFile
	b, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read sanitizer config: %w", err)
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("parse sanitizer config %s: %w", path, err)
	}
	return f, nil
}

// Sanitizer resolves sanitizer options and the room-service pool: environment
// first, then the YAML file on top. A nil pool means the built-in one.
func (c Config) Sanitizer() (app.SanitizerOptions, []string, error) {
	opts := app.SanitizerOptions{Country: c.Country}
	if c.RefLat != nil && c.RefLon != nil {
		opts.Reference = &domain.Coords{Lat: *c.RefLat, Lon: *c.RefLon}
	}
	if c.SanitizerFile == "" {
		return opts, nil, nil
	}

	f, err := LoadSanitizerFile(c.SanitizerFile)
	if err != nil {
		return opts, nil, err
	}
	if f.Country != "" {
		opts.Country = f.Country
	}
	if f.Reference != nil {
		opts.Reference = &domain.Coords{Lat: f.Reference.Lat, Lon: f.Reference.Lon}
	}
	if f.RoomGalleryLimit > 0 {
		opts.RoomGalleryLimit = f.RoomGalleryLimit
	}
	if f.RoomServiceLimit > 0 {
		opts.RoomServiceLimit = f.RoomServiceLimit
	}
	return opts, f.RoomServices, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func optFloat(k string) *float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a number, ignored")
		return nil
	}
	return &f
}
