package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/api"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/auth"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/config"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/detect"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/device"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/session"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := buildLogger(cfg)
	logger.Infof("starting anti-snoring pillow API (env=%s)", cfg.Env)
	logger.Infof("device API at %s", cfg.DeviceBaseURL)

	if cfg.StorageBackend == "sqlite" {
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			_ = os.MkdirAll(dir, 0755)
		}
	}

	repos, err := storage.NewRepositories(context.Background(), cfg, logger)
	if err != nil {
		logger.Errorf("failed to init storage: %v", err)
		os.Exit(1)
	}

	app := &api.Server{
		Log:      logger,
		Cfg:      cfg,
		Repos:    repos,
		Dev:      device.NewClient(cfg.DeviceBaseURL, cfg.DeviceAPIKey, logger),
		Det:      detect.Select(cfg.ModelPath, time.Now().UnixNano(), logger),
		Registry: session.NewRegistry(),
		Tokens:   auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry),
	}

	if cfg.DeviceHealthCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.DeviceHealthCron, func() { probeDevice(app) }); err != nil {
			logger.Warnf("invalid DEVICE_HEALTH_CRON %q: %v", cfg.DeviceHealthCron, err)
		} else {
			c.Start()
			defer c.Stop()
		}
	}

	r := api.BuildRouter(app)
	logger.Infof("listening on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

// probeDevice pings the actuator and logs the result; the probe has no
// other side effect, it just keeps an eye on the link.
func probeDevice(app *api.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	status, err := app.Device().PumpStatus(ctx)
	if err != nil {
		app.Logger().Warnf("device health probe failed: %v", err)
		return
	}
	app.Logger().Infof("device health probe ok: %v", status)
}

func buildLogger(cfg *config.Config) internal.Logger {
	var zcfg zap.Config
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	z, err := zcfg.Build()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	return internal.NewZapLogger(z.Sugar())
}
