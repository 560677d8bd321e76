package server_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-fenster/durak/server"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DURAK_ADDR", "")
	t.Setenv("DURAK_CLEANUP_TIMEOUT", "")
	t.Setenv("DURAK_SUBSCRIBE_TIMEOUT", "")

	cfg, err := server.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.CleanupTimeout)
	assert.Equal(t, time.Hour, cfg.SubscribeTimeout)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DURAK_ADDR", ":8080")
	t.Setenv("DURAK_CLEANUP_TIMEOUT", "30m")
	t.Setenv("DURAK_SUBSCRIBE_TIMEOUT", "90s")

	cfg, err := server.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.CleanupTimeout)
	assert.Equal(t, 90*time.Second, cfg.SubscribeTimeout)
}
