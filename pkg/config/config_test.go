package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.False(t, cfg.Reports.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Reports.CacheTTL)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, ',', cfg.Reports.CSVDelimiter)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENABLE_REPORT_CACHE", "true")
	t.Setenv("REPORT_CACHE_TTL", "30s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("REPORT_CSV_DELIMITER", ";")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Reports.CacheEnabled)
	assert.Equal(t, 30*time.Second, cfg.Reports.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, ';', cfg.Reports.CSVDelimiter)
}

func TestParseDelimiter(t *testing.T) {
	assert.Equal(t, ';', parseDelimiter(";", ','))
	assert.Equal(t, '\t', parseDelimiter("TAB", ','))
	assert.Equal(t, ',', parseDelimiter("", ','))
	assert.Equal(t, ',', parseDelimiter(";;", ','))
	assert.Equal(t, ',', parseDelimiter(`"`, ','))
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Hour, parseDuration("2h", time.Minute))
}

func TestDatabaseConnectionStrings(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "gradebook", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=gradebook sslmode=disable", db.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/gradebook?sslmode=disable", db.URL())
}
