// cmd/lipsync-run runs one lip-sync job from the command line without the
// HTTP server.
//
// Usage:
//
//	lipsync-run <audio_path> <video_path> <output_path>
//
// The Job Result is printed as a single JSON object on stdout. The exit code
// is non-zero for usage and pre-flight file-existence errors; a failed run is
// still reported through the JSON result.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/tendant/simple-lipsync/internal/musetalk"
	"github.com/tendant/simple-lipsync/pkg/schema"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) != 4 {
		printResult(schema.Failure(schema.ErrorKindValidation,
			"Usage: lipsync-run <audio_path> <video_path> <output_path>", nil))
		os.Exit(1)
	}
	audioPath, videoPath, outputPath := os.Args[1], os.Args[2], os.Args[3]

	if _, err := os.Stat(audioPath); err != nil {
		printResult(schema.Failure(schema.ErrorKindValidation,
			fmt.Sprintf("Audio file not found: %s", audioPath), nil))
		os.Exit(1)
	}
	if _, err := os.Stat(videoPath); err != nil {
		printResult(schema.Failure(schema.ErrorKindValidation,
			fmt.Sprintf("Video file not found: %s", videoPath), nil))
		os.Exit(1)
	}

	// Keep stdout clean for the JSON result.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := musetalk.LoadConfig()
	if err != nil {
		printResult(schema.Failure(schema.ErrorKindInternal, err.Error(), nil))
		os.Exit(1)
	}

	result := musetalk.NewRunner(cfg, logger).Run(context.Background(), audioPath, videoPath, outputPath)
	printResult(result)
}

func printResult(result schema.Result) {
	_ = json.NewEncoder(os.Stdout).Encode(result)
}
