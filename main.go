package main

import (
	"context"
	"embed"
	"os"

	"github.com/joho/godotenv"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/chazu/cabinetcut/pkg/bootstrap"
	"github.com/chazu/cabinetcut/pkg/cabinet"
	"github.com/chazu/cabinetcut/pkg/config"
	"github.com/chazu/cabinetcut/pkg/logger"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	logg := logger.New(logger.Options{ServiceName: "cabinetcut"})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cabinetcut",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	rt, err := bootstrap.New(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap calculator", err)
		os.Exit(1)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	policy := cabinet.Policy{
		ResetOverrideOnTypeChange:     cfg.Form.ResetDoorOverride,
		ResetOverrideOnDivisionChange: cfg.Form.ResetDoorOverride,
	}
	app := NewApp(rt.Service, policy, logg)

	err = wails.Run(&options.App{
		Title:     "Cabinet Cutlist",
		Width:     1280,
		Height:    800,
		MinWidth:  900,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logg.Error(context.Background(), "wails run failed", err)
		os.Exit(1)
	}
}
