package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.APIBaseURL)
	assert.Equal(t, "ws://127.0.0.1:8000", c.WSBaseURL)
	assert.Equal(t, "connectin-session.db", c.SessionDSN)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 15*time.Second, c.VoteTimeout)
	assert.Equal(t, 5*time.Minute, c.HydrationTTL)
	assert.Equal(t, 4, c.HydrationConcurrency)
	assert.Equal(t, 5*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 64, c.ChatBufferSize)
	assert.Equal(t, 30*time.Second, c.ChatPingInterval)
	assert.Equal(t, time.Second, c.ChatCloseWait)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.VoteTimeout)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Chdir(t.TempDir())

	t.Setenv("CONNECTIN_API_URL", "http://from-env")
	t.Setenv("CONNECTIN_WS_URL", "ws://from-env")
	t.Setenv("CONNECTIN_LOG_LEVEL", "warn")

	path := writeTempJSON(t, "", "", map[string]any{
		"ws_base_url": "ws://from-json",
		"log_level":   "error",
	})
	os.Args = []string{"testbin", "-c", path, "-l", "debug"}

	cfg := LoadConfig()

	assert.Equal(t, "http://from-env", cfg.APIBaseURL, "env overrides defaults")
	assert.Equal(t, "ws://from-json", cfg.WSBaseURL, "json overrides env")
	assert.Equal(t, "debug", cfg.LogLevel, "flags override json")
}
