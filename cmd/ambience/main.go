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
	"github.com/wheelibin/ambience/internal/tui"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "config file (default: search /etc/ambience, ~/.config/ambience and .)")
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
	// the terminal belongs to the dashboard, logs go to a file
	logger := log.NewWithOptions(&lumberjack.Logger{
		Filename: cfg.LogFile,
		MaxAge:   3,
	}, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "2006/01/02 15:04:05",
	})
	logger.Info("ambience starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// create/wire up services
	services, err := ambience.NewServices(cfg, logger, clockwork.NewRealClock())
	if err != nil {
		logger.Error(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer services.Close()

	if err := services.App.Initialise(ctx); err != nil {
		logger.Error(err)
		fmt.Fprintln(os.Stderr, err)
		return
	}

	// keep the store in step with the bridge
	go services.App.Run(ctx)

	// run the terminal UI
	err = tui.Run(ctx, logger, tui.Deps{
		Store:       services.Store,
		Engine:      services.Engine,
		Scenes:      services.Scenes,
		Selection:   services.Selection,
		Coordinator: services.Coordinator,
		Player:      services.Player,
		Refresh:     services.App.RequestRefresh,
	})
	if err != nil {
		logger.Error(err)
	}

	logger.Info("ambience is closing")
}
