package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"
	"github.com/wheelibin/ambience/internal/ambience"
	"github.com/wheelibin/ambience/internal/config"
)

// ambienced runs without a terminal UI: it keeps the device state in step with the bridge and
// can start a scene on launch
func main() {
	configPath := pflag.StringP("config", "c", "", "config file (default: search /etc/ambience, ~/.config/ambience and .)")
	activate := pflag.StringP("activate", "a", "", "scene id to activate once the bridge is loaded")
	pflag.Parse()

	// read the config file
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    true,
	})
	logger.Info("ambienced starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// create/wire up services
	services, err := ambience.NewServices(cfg, logger, clockwork.NewRealClock())
	if err != nil {
		logger.Fatal(err)
	}
	defer services.Close()

	if err := services.App.Initialise(ctx); err != nil {
		logger.Error(err)
		return
	}

	if *activate != "" {
		result, err := services.Coordinator.Activate(ctx, *activate)
		if err != nil {
			logger.Error("scene activation failed", "scene", *activate, "err", err)
		} else if !result.AudioStarted && !result.LightsApplied {
			logger.Warn("scene has nothing selected", "scene", *activate)
		}
	}

	// blocks until a stop signal is received
	services.App.Run(ctx)

	logger.Info("ambienced is closing")
}
