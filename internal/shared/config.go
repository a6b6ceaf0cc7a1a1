package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string // empty: in-memory demo store
	RedisAddr    string // empty: in-process detail cache
	RedisDB      int
	RedisPass    string
	YelpBase     string
	YelpKey      string
	GeocoderBase string
	GeocoderUA   string
	Workers      int
	FetchTimeout time.Duration
	CacheTTL     time.Duration
	MinRating    float64
	MinReviews   int
	ResultCap    int
	DirectoryRPS int
}

// Load reads the environment, after merging a .env file from the working directory
// when one exists. Variables already set win over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("ignoring unreadable .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", ""),
		RedisAddr:    env("REDIS_ADDR", ""),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		YelpBase:     env("YELP_BASE_URL", "https://api.yelp.com/v3"),
		YelpKey:      env("YELP_API_KEY", ""),
		GeocoderBase: env("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUA:   env("GEOCODER_USER_AGENT", "coffee-finder/1.0"),
		Workers:      atoi("WORKERS", 8),
		FetchTimeout: time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 3600)) * time.Second,
		MinRating:    atof("FILTER_MIN_RATING", 3.5),
		MinReviews:   atoi("FILTER_MIN_REVIEWS", 10),
		ResultCap:    atoi("RESULT_CAP", 20),
		DirectoryRPS: atoi("DIRECTORY_RPS", 5),
	}
	if c.YelpKey == "" {
		log.Warn().Msg("YELP_API_KEY is empty; serving the demo dataset")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
