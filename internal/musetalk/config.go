// Package musetalk runs the external MuseTalk inference tool as a subprocess
// and recovers the video it produces.
package musetalk

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the MuseTalk installation layout and scratch locations. All
// fields are overridable via environment variables for container deployment.
type Config struct {
	// InstallDir is the MuseTalk checkout root. The inference script resolves
	// its model and config paths relative to this directory.
	InstallDir string `env:"MUSETALK_PATH" envDefault:"/app/MuseTalk"`

	// FFmpegBin is the directory holding the ffmpeg/ffprobe binaries. It is
	// prepended to PATH for the subprocess.
	FFmpegBin string `env:"FFMPEG_BIN" envDefault:"/usr/bin"`

	// Python selects the interpreter used to launch the inference module.
	Python string `env:"PYTHON_ENV" envDefault:"python"`

	// ResultDir is where MuseTalk is told to write its output for a job.
	ResultDir string `env:"TEMP_DIR" envDefault:"/tmp/results"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// MuseTalk 1.5 model layout, relative to InstallDir.
const (
	unetModelPath  = "models/musetalkV15/unet.pth"
	unetConfigPath = "models/musetalkV15/musetalk.json"
	modelVersion   = "v15"
)

const (
	taskFileName = "my_test.yaml"

	// runTimeout bounds one inference run. The first run on a small GPU can
	// take most of this while models are loaded and cached.
	runTimeout = 900 * time.Second

	// listingCap bounds diagnostic directory listings attached to run logs.
	listingCap = 200

	// tailBytes is how much of each output stream is kept as a quick-look
	// tail next to the full capture.
	tailBytes = 4000
)
