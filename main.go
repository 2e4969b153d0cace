package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ai-for-future/server/internal/core"
	"github.com/ai-for-future/server/internal/server"
	"github.com/ai-for-future/server/internal/studio/chat"
	"github.com/ai-for-future/server/internal/studio/device"
	"github.com/ai-for-future/server/internal/studio/gateway"
	"github.com/ai-for-future/server/internal/studio/image"
	"github.com/ai-for-future/server/internal/studio/model"
	"github.com/ai-for-future/server/internal/studio/video"
	logx "github.com/ai-for-future/server/pkg/logger"
)

// AppConfig defines all configurable parameters for the service, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// HTTP boundary
	Server server.Config

	// LLM provider
	Gateway gateway.Config

	// Orchestrator configs
	Chat   model.ChatModelConfig
	Image  model.ImageModelConfig
	Video  model.VideoModelConfig
	Device model.DeviceModelConfig

	// Simulated device registry seed
	DeviceSeedPath string `envconfig:"DEVICE_SEED_PATH" default:"devices.yaml"`
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	gw, err := gateway.New(ctx, cfg.Gateway)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise model gateway")
	}

	registry, err := device.LoadRegistry(cfg.DeviceSeedPath)
	if err != nil {
		logx.Fatal().Err(err).Str("path", cfg.DeviceSeedPath).Msg("Failed to load device registry")
	}

	videoOrch, err := video.NewOrchestrator(gw, &video.EnvCredential{Key: cfg.Gateway.APIKey}, cfg.Video)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise video orchestrator")
	}

	srv := server.NewServer(cfg.Server,
		chat.NewOrchestrator(gw, cfg.Chat),
		image.NewOrchestrator(gw, cfg.Image),
		videoOrch,
		device.NewInterpreter(gw, cfg.Device),
		registry,
	)

	addr := ":" + cfg.Server.Port
	logx.Info().Str("addr", addr).Msg("AI for Future server listening")
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		logx.Error().Err(err).Msg("Server stopped")
		os.Exit(1)
	}
}
