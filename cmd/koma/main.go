package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/PizzaHomicide/koma/internal/config"
	"github.com/PizzaHomicide/koma/internal/log"
	"github.com/PizzaHomicide/koma/internal/ui/tui"
	"github.com/PizzaHomicide/koma/internal/version"
)

func main() {
	flags, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if flags.Version {
		fmt.Println(version.GetVersionInfo())
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// It is unrecoverable if we cannot produce an application config
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.MergeFlags(flags)

	// Initialise logger
	logger, err := log.New(log.Config{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	// Set the default global logger
	log.SetDefaultLogger(logger)

	log.Info("Starting up koma", "version", version.GetVersion(), "build_time", version.GetBuildTime(),
		"media", flags.Media, "proxy", flags.Proxy)

	if err := tui.Run(cfg, flags.Media, flags.Proxy); err != nil {
		log.Error("Unhandled error while running TUI", "error", err)
		_, _ = fmt.Fprintf(os.Stderr, "koma: %v\n", err)
		logger.Close()
		os.Exit(1)
	}

	log.Info("koma shutting down.  Goodbye!")
}
