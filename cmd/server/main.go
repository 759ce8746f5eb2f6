// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tendant/simple-lipsync/internal/musetalk"
	"github.com/tendant/simple-lipsync/internal/server"
)

type config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	AvatarPath string `env:"AVATAR_VIDEO_PATH" envDefault:"/app/assets/avatar_video.mp4"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		fatal(logger, "load config", err)
	}

	runnerCfg, err := musetalk.LoadConfig()
	if err != nil {
		fatal(logger, "load musetalk config", err)
	}
	logger.Info("server starting",
		"addr", cfg.ListenAddr,
		"avatar", cfg.AvatarPath,
		"musetalk_path", runnerCfg.InstallDir,
		"result_dir", runnerCfg.ResultDir,
		"python", runnerCfg.Python)

	runner := musetalk.NewRunner(runnerCfg, logger)
	srv := server.New(runner, cfg.AvatarPath, logger)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "http server", err)
		}
	}()
	logger.Info("listening", "addr", cfg.ListenAddr)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}

func fatal(logger *slog.Logger, msg string, err error, attrs ...any) {
	attrs = append(attrs, "err", err)
	logger.Error(msg, attrs...)
	os.Exit(1)
}
