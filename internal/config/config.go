package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common contains Elasticsearch parameters shared by every service.
// Credentials are optional; either basic auth or an API key may be set.
type Common struct {
	ElasticsearchAddr   string
	ElasticsearchIndex  string
	ElasticsearchUser   string
	ElasticsearchPass   string
	ElasticsearchAPIKey string
}

// Dashboard holds configuration for the HTTP dashboard.
type Dashboard struct {
	Common
	BindAddr   string
	FetchLimit int
	WindowDays int
	PageSize   int
	CacheTTL   time.Duration
	FontPath   string
}

// Worker holds configuration for the Kafka -> Elasticsearch ingest worker.
type Worker struct {
	Common
	KafkaBrokers   []string
	KafkaTopic     string
	KafkaConsumer  string
	DedupeCapacity int
	DedupeTTL      time.Duration
	BatchSize      int
}

// Retention configures the cleanup loop that trims documents older than
// the display window.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

// MaxFetchLimit caps a single dashboard load; the inbound query contract
// returns at most this many rows.
const MaxFetchLimit = 200

// LoadDashboard builds a Dashboard config from environment variables.
func LoadDashboard() (*Dashboard, error) {
	c := &Dashboard{
		Common:     loadCommon(),
		BindAddr:   getEnv("DASHBOARD_BIND_ADDR", "0.0.0.0:8050"),
		FetchLimit: getInt("DASHBOARD_FETCH_LIMIT", MaxFetchLimit),
		WindowDays: getInt("DASHBOARD_WINDOW_DAYS", 7),
		PageSize:   getInt("DASHBOARD_PAGE_SIZE", 10),
		CacheTTL:   getDuration("DASHBOARD_CACHE_TTL", "1m"),
		FontPath:   getEnv("WORDCLOUD_FONT", ""),
	}

	if c.FetchLimit <= 0 {
		return nil, fmt.Errorf("DASHBOARD_FETCH_LIMIT must be positive")
	}
	if c.FetchLimit > MaxFetchLimit {
		return nil, fmt.Errorf("DASHBOARD_FETCH_LIMIT cannot exceed %d", MaxFetchLimit)
	}
	if c.WindowDays <= 0 {
		return nil, fmt.Errorf("DASHBOARD_WINDOW_DAYS must be positive")
	}
	if c.PageSize <= 0 {
		return nil, fmt.Errorf("DASHBOARD_PAGE_SIZE must be positive")
	}
	if c.CacheTTL < 0 {
		return nil, fmt.Errorf("DASHBOARD_CACHE_TTL cannot be negative")
	}

	return c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	c := &Worker{
		Common:         loadCommon(),
		KafkaBrokers:   splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "articles_scored"),
		KafkaConsumer:  getEnv("KAFKA_CONSUMER_GROUP", "article-worker"),
		DedupeCapacity: getInt("WORKER_DEDUPE_CAPACITY", 20000),
		DedupeTTL:      getDuration("WORKER_DEDUPE_TTL", "24h"),
		BatchSize:      getInt("WORKER_BATCH_SIZE", 10),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
// The default max age matches the dashboard's 7-day display window.
func LoadRetention() (*Retention, error) {
	c := &Retention{
		Common:    loadCommon(),
		Interval:  getDuration("RETENTION_CRON", "24h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "168h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_CRON must be positive")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

func loadCommon() Common {
	return Common{
		ElasticsearchAddr:   getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
		ElasticsearchIndex:  getEnv("ELASTICSEARCH_INDEX", "articles"),
		ElasticsearchUser:   getEnv("ELASTICSEARCH_USER", ""),
		ElasticsearchPass:   getEnv("ELASTICSEARCH_PASSWORD", ""),
		ElasticsearchAPIKey: getEnv("ELASTICSEARCH_API_KEY", ""),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
