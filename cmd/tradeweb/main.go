package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bacicli/internal/app"
	"bacicli/internal/config"
	"bacicli/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (default: BACI_CONFIG_FILE or ./config.yaml)")
	port := flag.Int("port", 0, "listen port, overrides server.port")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.ReadBuildInfo())
		return
	}

	var (
		cfg *config.Config
		err error
	)
	if *configFile == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(*configFile)
	}
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
