package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  env: production
database:
  host: db.internal
  user: reader
jwt:
  secret: from-file
upload:
  max_size_mb: 2
`)
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, "reader", cfg.Database.User)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, int64(2*1024*1024), cfg.Upload.MaxBytes())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, "server:\n  port: 1\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ElasticsearchAddressesFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("ELASTICSEARCH_ADDRESSES", "http://es1:9200, http://es2:9200")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Elasticsearch.Enabled)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.Elasticsearch.Addresses)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "su****", mask("supersecret"))
}
