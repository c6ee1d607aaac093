package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, filepath.Join("model", "stock_model.yaml"), c.ModelPath())
	assert.Equal(t, 10, c.Projection.Horizon)
	assert.Equal(t, 24*time.Hour, c.Projection.Step)
	assert.Equal(t, AnchorSelected, c.Projection.Anchor)
	assert.Equal(t, 100.0, c.Projection.BasePrice)
	assert.False(t, c.Cache.Enabled)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	p := writeConfig(t, "server:\n  port: 9090\nprojection:\n  horizon: 5\n  step: 1h\n")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 5, c.Projection.Horizon)
	assert.Equal(t, time.Hour, c.Projection.Step)
	assert.Equal(t, "stock_model.yaml", c.Model.File)
	assert.True(t, c.Server.CORS)
}

func TestLoadRepoConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, "model", c.Model.Dir)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"port":           "server:\n  port: 70000\n",
		"horizon":        "projection:\n  horizon: -1\n",
		"base price":     "projection:\n  base_price: -5\n",
		"anchor":         "projection:\n  anchor: tomorrow\n",
		"fixed, no date": "projection:\n  anchor: fixed\n",
		"fixed, bad":     "projection:\n  anchor: fixed\n  anchor_date: 09/02/2025\n",
		"rate limit":     "rate_limit:\n  enabled: true\n  rps: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestAnchorTime(t *testing.T) {
	for _, s := range []string{"2025-02-09 10:44:55", "2025-02-09T10:44:55Z"} {
		c := Default()
		c.Projection.Anchor = AnchorFixed
		c.Projection.AnchorDate = s
		require.NoError(t, c.Validate(), s)
		at, err := c.AnchorTime()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 2, 9, 10, 44, 55, 0, time.UTC), at)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("MODEL_DIR", "/srv/models")
	t.Setenv("MODEL_FILE", "m.yaml")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "cache.internal:6380")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/models", "m.yaml"), c.ModelPath())
	assert.Equal(t, 9999, c.Server.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Cache.Redis.Enabled)
	assert.Equal(t, "cache.internal", c.Cache.Redis.Host)
	assert.Equal(t, 6380, c.Cache.Redis.Port)
}

func TestLoadWithEnvBadPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
