package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv deja vacías las variables que leen los tests (viper trata vacío como no definido).
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "LOG_LEVEL", "HTTP_PORT", "STORE_DRIVER", "DATABASE_URL",
		"PRODUCT_SERVICE_URL", "PRODUCT_SERVICE_TIMEOUT_MS", "PRODUCT_SERVICE_MAX_RETRIES",
		"PRODUCT_SERVICE_RETRY_DELAY_MS", "NOTIFIER_DRIVER", "NOTIFIER_BUFFER", "KAFKA_BROKERS",
		"API_KEY", "JWT_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8082, cfg.HTTP.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "http://localhost:8081", cfg.ProductService.URL)
	assert.Equal(t, 3*time.Second, cfg.ProductService.Timeout)
	assert.Equal(t, 3, cfg.ProductService.MaxRetries)
	assert.Equal(t, time.Second, cfg.ProductService.RetryDelay)
	assert.Equal(t, NotifierDriverLog, cfg.Notifier.Driver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Notifier.KafkaBrokers)
	assert.Empty(t, cfg.Auth.APIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("PRODUCT_SERVICE_URL", "http://productos:8081/")
	t.Setenv("PRODUCT_SERVICE_TIMEOUT_MS", "500")
	t.Setenv("PRODUCT_SERVICE_MAX_RETRIES", "5")
	t.Setenv("NOTIFIER_DRIVER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("API_KEY", "secreta")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "http://productos:8081", cfg.ProductService.URL)
	assert.Equal(t, 500*time.Millisecond, cfg.ProductService.Timeout)
	assert.Equal(t, 5, cfg.ProductService.MaxRetries)
	assert.Equal(t, NotifierDriverKafka, cfg.Notifier.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notifier.KafkaBrokers)
	assert.Equal(t, "secreta", cfg.Auth.APIKey)
}

func TestLoad_EnteroInvalidoUsaDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "ochenta")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8082, cfg.HTTP.Port)
}

func TestLoad_Validaciones(t *testing.T) {
	cases := map[string][2]string{
		"store desconocido":    {"STORE_DRIVER", "sqlite"},
		"notifier desconocido": {"NOTIFIER_DRIVER", "nats"},
		"reintentos cero":      {"PRODUCT_SERVICE_MAX_RETRIES", "0"},
		"buffer cero":          {"NOTIFIER_BUFFER", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "inventario", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/inventario?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://otro@host/db"
	assert.Equal(t, "postgresql://otro@host/db", c.ConnectionString())
}
