package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  port: 9090
  corsOrigins: ["https://app.example.com"]
database:
  driver: postgres
  host: db
  user: checkup
  password: secret
  name: checkup
minio:
  enabled: true
  endpoint: minio:9000
auth:
  keys:
    alice: key-a
`

func TestLoad(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "recordings", cfg.Minio.BucketName)
	assert.Equal(t, "key-a", cfg.Auth.Keys["alice"])
	assert.Equal(t, 60, cfg.Server.RateLimit.Capacity)
	assert.Equal(t, "postgres://checkup:secret@db:5432/checkup?sslmode=disable", cfg.DSN())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	cfg, err := Parse([]byte("database:\n  host: localhost\n  user: u\n  password: p\n  name: n\n"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "u:p@tcp(localhost:3306)/n?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DSN())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, Pool{MaxOpenConns: 25, MaxIdleConns: 10, ConnMaxLifetime: 30 * time.Minute}, cfg.Database.Pool)
}

func TestParse_Pool(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  pool:\n    maxOpenConns: 4\n    maxIdleConns: 2\n    connMaxLifetime: 90s\n"))
	require.NoError(t, err)
	assert.Equal(t, Pool{MaxOpenConns: 4, MaxIdleConns: 2, ConnMaxLifetime: 90 * time.Second}, cfg.Database.Pool)

	_, err = Parse([]byte("database:\n  pool:\n    maxOpenConns: 2\n    maxIdleConns: 5\n"))
	assert.ErrorContains(t, err, "maxIdleConns")
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("MINIO_ACCESS_KEY", "")
	t.Setenv("MINIO_SECRET_KEY", "")

	cfg, err := Parse([]byte("database:\n  password: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
}

func TestParse_Invalid(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		_, err := Parse([]byte("database:\n  driver: sqlite\n"))
		assert.ErrorContains(t, err, "database.driver")
	})
	t.Run("port", func(t *testing.T) {
		_, err := Parse([]byte("server:\n  port: 70000\n"))
		assert.ErrorContains(t, err, "server.port")
	})
	t.Run("minio", func(t *testing.T) {
		_, err := Parse([]byte("minio:\n  enabled: true\n"))
		assert.ErrorContains(t, err, "minio.endpoint")
	})
	t.Run("yaml", func(t *testing.T) {
		_, err := Parse([]byte("server: ["))
		assert.Error(t, err)
	})
}

func TestLoad_ExampleFile(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Database.Pool.ConnMaxLifetime)
	assert.Equal(t, "change-me", cfg.Auth.Keys["demo-owner"])
}
