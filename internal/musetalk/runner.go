// internal/musetalk/runner.go
package musetalk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tendant/simple-lipsync/pkg/schema"
)

// Runner invokes the MuseTalk inference tool for one job at a time. Jobs are
// serialized with a mutex: the task config and results directory are shared
// scratch locations, so concurrent runs would clobber each other.
type Runner struct {
	cfg     Config
	logger  *slog.Logger
	runner  commandRunner
	timeout time.Duration

	mu sync.Mutex
}

func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		logger:  logger,
		runner:  execRunner{},
		timeout: runTimeout,
	}
}

// Run produces a lip-synced video at outputPath from the given audio clip and
// reference video. Every fault is converted into a structured Result; Run
// never panics across this boundary and performs no retries.
func (r *Runner) Run(ctx context.Context, audioPath, videoPath, outputPath string) schema.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Verify weights exist before committing to a long run.
	if missing, ok := r.checkRequiredWeights(); !ok {
		return schema.Failure(schema.ErrorKindMissingDependency,
			fmt.Sprintf("Missing required weight file: %s", missing), nil)
	}

	resultDir := r.cfg.ResultDir
	if err := os.MkdirAll(resultDir, 0o755); err != nil {
		return internalFailure(fmt.Errorf("create result dir: %w", err))
	}

	taskPath := filepath.Join(resultDir, taskFileName)
	if err := writeTaskFile(taskPath, videoPath, audioPath); err != nil {
		return internalFailure(err)
	}

	args := []string{
		"-m", "scripts.inference",
		"--inference_config", taskPath,
		"--result_dir", resultDir,
		"--unet_model_path", unetModelPath,
		"--unet_config", unetConfigPath,
		"--version", modelVersion,
		"--ffmpeg_path", r.cfg.FFmpegBin,
		"--use_float16",
	}

	r.logger.Info("launching musetalk inference",
		"python", r.cfg.Python, "cwd", r.cfg.InstallDir, "result_dir", resultDir)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// The inference script resolves models/configs relative to its own
	// checkout, so the working directory is passed to the subprocess rather
	// than changed process-wide.
	proc, runErr := r.runner.Run(runCtx, r.cfg.InstallDir, r.subprocessEnv(), r.cfg.Python, args...)

	if runCtx.Err() == context.DeadlineExceeded {
		r.logger.Error("musetalk run timed out", "timeout", r.timeout)
		return schema.Failure(schema.ErrorKindTimeout, "MuseTalk timeout expired", &schema.RunLogs{
			Phase:     "timeout",
			Exception: fmt.Sprintf("subprocess killed after %s", r.timeout),
		})
	}

	// Persist raw streams next to the results for offline inspection. A
	// failure to write these never fails the job.
	r.writeSideLog(filepath.Join(resultDir, "stdout.log"), proc.Stdout)
	r.writeSideLog(filepath.Join(resultDir, "stderr.log"), proc.Stderr)

	logs := &schema.RunLogs{
		Cmd:        append([]string{r.cfg.Python}, args...),
		Cwd:        r.cfg.InstallDir,
		Stdout:     proc.Stdout,
		Stderr:     proc.Stderr,
		StdoutTail: tail(proc.Stdout, tailBytes),
		StderrTail: tail(proc.Stderr, tailBytes),
		ReturnCode: proc.ExitCode,
		ResultDir:  resultDir,
	}

	if runErr != nil {
		r.logger.Error("musetalk launch failed", "err", runErr)
		logs.Exception = runErr.Error()
		return schema.Failure(schema.ErrorKindInternal, runErr.Error(), logs)
	}

	if proc.ExitCode != 0 {
		r.logger.Error("musetalk returned non-zero", "returncode", proc.ExitCode)
		return schema.Failure(schema.ErrorKindExternalTool, "MuseTalk returned non-zero", logs)
	}

	best, err := findBestVideo(resultDir)
	if err != nil {
		logs.Exception = err.Error()
		return schema.Failure(schema.ErrorKindInternal, err.Error(), logs)
	}

	if best == "" {
		// MuseTalk sometimes writes into its own default results root
		// instead of the requested one.
		fallbackRoot := filepath.Join(r.cfg.InstallDir, "results")
		logs.ResultDirFiles = listFiles(resultDir, listingCap, false)

		if _, statErr := os.Stat(fallbackRoot); statErr == nil {
			logs.FallbackResultsRoot = fallbackRoot
			logs.FallbackResultsFiles = listFiles(fallbackRoot, listingCap, true)

			best, err = findBestVideo(fallbackRoot)
			if err != nil {
				logs.Exception = err.Error()
				return schema.Failure(schema.ErrorKindInternal, err.Error(), logs)
			}
		}

		if best == "" {
			r.logger.Error("no output video found", "result_dir", resultDir, "fallback", fallbackRoot)
			return schema.Failure(schema.ErrorKindOutputNotFound, "No MP4 found in result_dir", logs)
		}
	}

	// Relocate with a rename so the original is gone afterwards.
	if err := os.Rename(best, outputPath); err != nil {
		logs.Exception = err.Error()
		return schema.Failure(schema.ErrorKindInternal, err.Error(), logs)
	}

	if info, probeErr := r.probeVideo(ctx, outputPath); probeErr == nil {
		logs.OutputInfo = info
	} else {
		r.logger.Debug("output probe failed", "err", probeErr)
	}

	r.logger.Info("musetalk run complete", "output", outputPath)
	return schema.Successful(outputPath, logs)
}

// checkRequiredWeights verifies the sd-vae weights exist in either accepted
// format. The reported path is the .bin variant.
func (r *Runner) checkRequiredWeights() (string, bool) {
	vaeDir := filepath.Join(r.cfg.InstallDir, "models", "sd-vae")
	bin := filepath.Join(vaeDir, "diffusion_pytorch_model.bin")
	safetensors := filepath.Join(vaeDir, "diffusion_pytorch_model.safetensors")

	for _, p := range []string{bin, safetensors} {
		if _, err := os.Stat(p); err == nil {
			return "", true
		}
	}
	return bin, false
}

// subprocessEnv builds the inference environment: ffmpeg made visible on
// PATH, and Python forced to UTF-8 output so log capture never trips over
// platform encodings.
func (r *Runner) subprocessEnv() []string {
	env := os.Environ()
	env = append(env,
		"PATH="+r.cfg.FFmpegBin+string(os.PathListSeparator)+os.Getenv("PATH"),
		"PYTHONIOENCODING=utf-8",
		"PYTHONUTF8=1",
	)
	return env
}

func (r *Runner) writeSideLog(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.logger.Warn("failed to persist run log", "path", path, "err", err)
	}
}

func internalFailure(err error) schema.Result {
	return schema.Failure(schema.ErrorKindInternal, err.Error(), &schema.RunLogs{Exception: err.Error()})
}
