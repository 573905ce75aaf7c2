package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_URL", "STORAGE_BACKEND", "KAFKA_ENABLED", "REDIS_ADDR", "TRACING_ENABLED", "CATALOG_CACHE_TTL_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000/api", cfg.API.URL)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, "organicEatsCart", cfg.Storage.CartKey)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Empty(t, cfg.TraceEndpoint())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("API_TIMEOUT_SECONDS", "3")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("TRACING_ENABLED", "1")
	t.Setenv("JAEGER_ENDPOINT", "http://jaeger:14268/api/traces")

	cfg := Load()

	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "http://jaeger:14268/api/traces", cfg.TraceEndpoint())
}
