package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/newspulse/sentiment-dashboard/internal/config"
)

func clearCommonEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ELASTICSEARCH_ADDR", "")
	t.Setenv("ELASTICSEARCH_INDEX", "")
	t.Setenv("ELASTICSEARCH_USER", "")
	t.Setenv("ELASTICSEARCH_PASSWORD", "")
	t.Setenv("ELASTICSEARCH_API_KEY", "")
}

func TestLoadDashboardDefaults(t *testing.T) {
	clearCommonEnv(t)
	t.Setenv("DASHBOARD_BIND_ADDR", "")
	t.Setenv("DASHBOARD_FETCH_LIMIT", "")
	t.Setenv("DASHBOARD_WINDOW_DAYS", "")
	t.Setenv("DASHBOARD_PAGE_SIZE", "")
	t.Setenv("DASHBOARD_CACHE_TTL", "")

	cfg, err := config.LoadDashboard()
	require.NoError(t, err)

	require.Equal(t, "http://elasticsearch:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "articles", cfg.ElasticsearchIndex)
	require.Equal(t, "0.0.0.0:8050", cfg.BindAddr)
	require.Equal(t, 200, cfg.FetchLimit)
	require.Equal(t, 7, cfg.WindowDays)
	require.Equal(t, 10, cfg.PageSize)
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Empty(t, cfg.FontPath)
}

func TestLoadDashboardOverrides(t *testing.T) {
	clearCommonEnv(t)
	t.Setenv("ELASTICSEARCH_ADDR", "http://localhost:9999")
	t.Setenv("ELASTICSEARCH_INDEX", "custom")
	t.Setenv("ELASTICSEARCH_USER", "reader")
	t.Setenv("ELASTICSEARCH_PASSWORD", "secret")
	t.Setenv("DASHBOARD_BIND_ADDR", "127.0.0.1:9000")
	t.Setenv("DASHBOARD_FETCH_LIMIT", "50")
	t.Setenv("DASHBOARD_WINDOW_DAYS", "14")
	t.Setenv("DASHBOARD_PAGE_SIZE", "25")
	t.Setenv("DASHBOARD_CACHE_TTL", "30s")
	t.Setenv("WORDCLOUD_FONT", "/fonts/custom.ttf")

	cfg, err := config.LoadDashboard()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:9999", cfg.ElasticsearchAddr)
	require.Equal(t, "custom", cfg.ElasticsearchIndex)
	require.Equal(t, "reader", cfg.ElasticsearchUser)
	require.Equal(t, "secret", cfg.ElasticsearchPass)
	require.Equal(t, "127.0.0.1:9000", cfg.BindAddr)
	require.Equal(t, 50, cfg.FetchLimit)
	require.Equal(t, 14, cfg.WindowDays)
	require.Equal(t, 25, cfg.PageSize)
	require.Equal(t, 30*time.Second, cfg.CacheTTL)
	require.Equal(t, "/fonts/custom.ttf", cfg.FontPath)
}

func TestLoadDashboardRejectsOversizedFetch(t *testing.T) {
	clearCommonEnv(t)
	t.Setenv("DASHBOARD_FETCH_LIMIT", "500")

	_, err := config.LoadDashboard()
	require.Error(t, err)
}

func TestLoadDashboardRejectsBadWindow(t *testing.T) {
	clearCommonEnv(t)
	t.Setenv("DASHBOARD_FETCH_LIMIT", "")
	t.Setenv("DASHBOARD_WINDOW_DAYS", "0")

	_, err := config.LoadDashboard()
	require.Error(t, err)
}

func TestLoadWorkerDefaults(t *testing.T) {
	clearCommonEnv(t)
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("KAFKA_CONSUMER_GROUP", "")

	cfg, err := config.LoadWorker()
	require.NoError(t, err)

	require.Len(t, cfg.KafkaBrokers, 1)
	require.Equal(t, "kafka:9092", cfg.KafkaBrokers[0])
	require.Equal(t, "articles_scored", cfg.KafkaTopic)
	require.Equal(t, "article-worker", cfg.KafkaConsumer)
	require.Equal(t, 20000, cfg.DedupeCapacity)
	require.Equal(t, 24*time.Hour, cfg.DedupeTTL)
}

func TestLoadWorkerOverrides(t *testing.T) {
	clearCommonEnv(t)
	t.Setenv("KAFKA_BROKERS", "broker-a:29092, broker-b:29093")
	t.Setenv("KAFKA_TOPIC", "scored")
	t.Setenv("KAFKA_CONSUMER_GROUP", "custom-group")
	t.Setenv("WORKER_DEDUPE_CAPACITY", "5")
	t.Setenv("WORKER_DEDUPE_TTL", "48h")
	t.Setenv("WORKER_BATCH_SIZE", "3")

	cfg, err := config.LoadWorker()
	require.NoError(t, err)

	require.Equal(t, []string{"broker-a:29092", "broker-b:29093"}, cfg.KafkaBrokers)
	require.Equal(t, "scored", cfg.KafkaTopic)
	require.Equal(t, "custom-group", cfg.KafkaConsumer)
	require.Equal(t, 5, cfg.DedupeCapacity)
	require.Equal(t, 48*time.Hour, cfg.DedupeTTL)
	require.Equal(t, 3, cfg.BatchSize)
}

func TestLoadWorkerRejectsBadBatchSize(t *testing.T) {
	clearCommonEnv(t)
	t.Setenv("KAFKA_BROKERS", "kafka:9092")
	t.Setenv("WORKER_BATCH_SIZE", "-1")

	_, err := config.LoadWorker()
	require.Error(t, err)
}

func TestLoadRetentionDefaults(t *testing.T) {
	clearCommonEnv(t)
	t.Setenv("RETENTION_CRON", "")
	t.Setenv("RETENTION_MAX_AGE", "")
	t.Setenv("RETENTION_BATCH_SIZE", "")

	cfg, err := config.LoadRetention()
	require.NoError(t, err)

	require.Equal(t, 24*time.Hour, cfg.Interval)
	require.Equal(t, 168*time.Hour, cfg.MaxAge)
	require.Equal(t, 500, cfg.BatchSize)
}

func TestLoadRetentionRejectsBadMaxAge(t *testing.T) {
	clearCommonEnv(t)
	t.Setenv("RETENTION_MAX_AGE", "-1h")

	_, err := config.LoadRetention()
	require.Error(t, err)
}
