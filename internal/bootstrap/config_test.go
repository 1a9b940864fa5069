package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDefaults(t *testing.T) {
	cfg, err := Setup("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:2888", cfg.Addr)
	assert.Equal(t, "negamax", cfg.Strategy)
	assert.Equal(t, 3, cfg.Depth)
	assert.True(t, cfg.UseCache)
	assert.True(t, cfg.Reductions)
	assert.Equal(t, 24*time.Hour, cfg.BookTTL)
	assert.Equal(t, time.Second/60, cfg.TickInterval)

	ec := cfg.Engine()
	assert.Equal(t, 3, ec.MaxDepth)
	assert.False(t, ec.PersistCache)
}

func TestSetupFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.env")
	content := "ADDR=0.0.0.0:9000\nDEPTH=4\nSTRATEGY=greedy\nBOOK_TTL=1h\nPERSIST_CACHE=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CHESS_DEPTH", "5")
	t.Setenv("CHESS_LOG_LEVEL", "debug")

	cfg, err := Setup(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr)
	assert.Equal(t, "greedy", cfg.Strategy)
	assert.Equal(t, 5, cfg.Depth, "environment wins over file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.BookTTL)
	assert.True(t, cfg.PersistCache)
}

func TestSetupMissingFile(t *testing.T) {
	_, err := Setup(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
