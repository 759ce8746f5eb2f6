package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"LISTEN_ADDR", "AVATAR_VIDEO_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "/app/assets/avatar_video.mp4", cfg.AvatarPath)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("AVATAR_VIDEO_PATH", "/data/avatar.mp4")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "/data/avatar.mp4", cfg.AvatarPath)
}
