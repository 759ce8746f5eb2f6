package musetalk

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t, "MUSETALK_PATH", "FFMPEG_BIN", "PYTHON_ENV", "TEMP_DIR")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/app/MuseTalk", cfg.InstallDir)
	assert.Equal(t, "/usr/bin", cfg.FFmpegBin)
	assert.Equal(t, "python", cfg.Python)
	assert.Equal(t, "/tmp/results", cfg.ResultDir)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MUSETALK_PATH", "/opt/MuseTalk")
	t.Setenv("FFMPEG_BIN", "/opt/ffmpeg/bin")
	t.Setenv("PYTHON_ENV", "python3.10")
	t.Setenv("TEMP_DIR", "/scratch/results")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/opt/MuseTalk", cfg.InstallDir)
	assert.Equal(t, "/opt/ffmpeg/bin", cfg.FFmpegBin)
	assert.Equal(t, "python3.10", cfg.Python)
	assert.Equal(t, "/scratch/results", cfg.ResultDir)
}
