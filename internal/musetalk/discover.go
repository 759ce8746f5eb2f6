// internal/musetalk/discover.go
package musetalk

import (
	"io/fs"
	"path/filepath"
	"time"
)

// findBestVideo walks root recursively and returns the .mp4 judged most
// likely to be the genuine inference result: candidates are ranked by
// (size, mtime) and the maximum wins. Returns "" when no candidate exists.
//
// MuseTalk does not guarantee a predictable output name or subdirectory, so
// selection is a heuristic; it only misfires if a single run legitimately
// produces multiple videos.
func findBestVideo(root string) (string, error) {
	var (
		best     string
		bestSize int64
		bestMod  time.Time
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".mp4" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if best == "" ||
			info.Size() > bestSize ||
			(info.Size() == bestSize && info.ModTime().After(bestMod)) {
			best = path
			bestSize = info.Size()
			bestMod = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return best, nil
}

// listFiles returns up to limit file paths under root, for diagnostics when
// the expected output is missing. When videosOnly is set, only .mp4 files
// are listed. Walk errors are ignored; this is best-effort.
func listFiles(root string, limit int, videosOnly bool) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if len(files) >= limit {
			return fs.SkipAll
		}
		if d.IsDir() {
			return nil
		}
		if videosOnly && filepath.Ext(path) != ".mp4" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files
}
