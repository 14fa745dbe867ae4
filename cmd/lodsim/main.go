// lodsim drives the dynamic level-of-detail controller over a scene file,
// frame by frame, and prints the quality decisions it makes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/voyager-lod/internal/config"
	"github.com/Faultbox/voyager-lod/internal/logger"
)

func main() {
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command, args := args[0], args[1:]

	if command == "help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	opts := logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Console: true}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "run":
		err = cmdRun(cfg, args, os.Stdout)
	case "score":
		err = cmdScore(cfg, args, os.Stdout)
	case "watch":
		err = cmdWatch(ctx, cfg, config.Path(), args, os.Stdout)
	case "config":
		err = cmdConfig(cfg, args, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`lodsim - dynamic level of detail simulator

Usage:
  lodsim [flags] <command> [args]

Commands:
  run <scene.yaml>      Simulate the configured number of frames
  score <scene.yaml>    Run one pass and print every model's weight and tier
  watch <scene.yaml>    Simulate until interrupted, reloading the config file
  config                Print the effective configuration
  config save [path]    Write the effective configuration (.yaml or .toml)

Flags:
  -config <path>        Config file (.yaml or .toml)
  -debug                Enable debug logging
  -disable              Disable dynamic level of detail
  -budget <pixels>      Texture budget
  -hysteresis <margin>  Hysteresis margin for downgrades
  -frames <n>           Number of frames for run

Examples:
  lodsim score scenes/gallery.yaml
  lodsim -budget 50000000 -frames 360 run scenes/gallery.yaml
  lodsim -config lodsim.toml watch scenes/gallery.yaml`)
}
