// internal/musetalk/taskfile.go
package musetalk

import (
	"fmt"
	"os"
	"strings"
)

// writeTaskFile emits the one-task inference config MuseTalk consumes. The
// document always contains a single task_0 block with bbox_shift 0, and path
// separators are normalized to forward slashes regardless of host convention.
func writeTaskFile(path, videoPath, audioPath string) error {
	video := strings.ReplaceAll(videoPath, "\\", "/")
	audio := strings.ReplaceAll(audioPath, "\\", "/")

	var b strings.Builder
	b.WriteString("task_0:\n")
	fmt.Fprintf(&b, "  video_path: \"%s\"\n", video)
	fmt.Fprintf(&b, "  audio_path: \"%s\"\n", audio)
	b.WriteString("  bbox_shift: 0\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write task config: %w", err)
	}
	return nil
}
