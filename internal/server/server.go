// Package server exposes the lip-sync HTTP surface: a health probe and a
// single synchronous conversion endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/tendant/simple-lipsync/pkg/schema"
)

// JobRunner produces a lip-synced video from an audio clip and a reference
// video. Implemented by musetalk.Runner.
type JobRunner interface {
	Run(ctx context.Context, audioPath, videoPath, outputPath string) schema.Result
}

type Server struct {
	runner     JobRunner
	avatarPath string
	logger     *slog.Logger
}

func New(runner JobRunner, avatarPath string, logger *slog.Logger) *Server {
	return &Server{runner: runner, avatarPath: avatarPath, logger: logger}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/lipsync", s.handleLipsync)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "musetalk"})
}

func (s *Server) handleLipsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, hdr, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No audio file provided"})
		return
	}
	defer file.Close()
	if hdr.Filename == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No audio file selected"})
		return
	}

	jobID := uuid.NewString()
	logger := s.logger.With("job_id", jobID)

	audioPath := filepath.Join(os.TempDir(), "lipsync-audio-"+jobID+".mp3")
	outputPath := filepath.Join(os.TempDir(), "lipsync-out-"+jobID+".mp4")

	// Scratch files are released on every exit path. Cleanup failures are
	// logged but never override the response already chosen.
	defer func() {
		for _, p := range []string{audioPath, outputPath} {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("scratch cleanup failed", "path", p, "err", err)
			}
		}
	}()

	if err := saveUpload(file, audioPath); err != nil {
		logger.Error("persist upload failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error: " + err.Error()})
		return
	}

	logger.Info("starting lipsync job", "filename", hdr.Filename, "avatar", s.avatarPath)
	result := s.runner.Run(r.Context(), audioPath, s.avatarPath, outputPath)

	// The uploaded clip is no longer needed once the run returns.
	if err := os.Remove(audioPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("remove uploaded audio failed", "path", audioPath, "err", err)
	}

	if !result.Success {
		logger.Error("lipsync job failed", "kind", result.Kind, "err", result.Error)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "MuseTalk processing failed",
			"details": result.Error,
		})
		return
	}

	logger.Info("lipsync job succeeded", "output", result.Output)
	if err := serveVideo(w, result.Output); err != nil {
		// Headers may already be out; all that is left is to log.
		logger.Error("send video failed", "err", err)
	}
}

func saveUpload(src multipart.File, dstPath string) error {
	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create temp audio: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write temp audio: %w", err)
	}
	return nil
}

// serveVideo streams the produced file back as an attachment download.
func serveVideo(w http.ResponseWriter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error: " + err.Error()})
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error: " + err.Error()})
		return err
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename=lipsync_result.mp4`)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)
	_, err = io.Copy(w, f)
	return err
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
