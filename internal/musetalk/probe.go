// internal/musetalk/probe.go
package musetalk

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tendant/simple-lipsync/pkg/schema"
)

// probeVideo returns metadata about a produced video via ffprobe. It is a
// diagnostic: callers treat a probe failure as non-fatal.
func (r *Runner) probeVideo(ctx context.Context, path string) (*schema.VideoInfo, error) {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ffprobe := filepath.Join(r.cfg.FFmpegBin, "ffprobe")
	proc, err := r.runner.Run(probeCtx, "", nil, ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,duration",
		"-show_entries", "format=size",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}
	if proc.ExitCode != 0 {
		return nil, fmt.Errorf("ffprobe exited %d: %s", proc.ExitCode, proc.Stderr)
	}

	return parseProbeOutput(proc.Stdout), nil
}

// parseProbeOutput reads ffprobe's key=value lines.
func parseProbeOutput(out string) *schema.VideoInfo {
	info := &schema.VideoInfo{}
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := parts[0], parts[1]
		switch key {
		case "width":
			if w, err := strconv.Atoi(value); err == nil {
				info.Width = w
			}
		case "height":
			if h, err := strconv.Atoi(value); err == nil {
				info.Height = h
			}
		case "duration":
			if d, err := strconv.ParseFloat(value, 64); err == nil {
				info.Duration = d
			}
		case "size":
			if s, err := strconv.ParseInt(value, 10, 64); err == nil {
				info.Size = s
			}
		}
	}
	return info
}
