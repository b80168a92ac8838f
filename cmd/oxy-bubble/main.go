// Command oxy-bubble opens a window with an iridescent soap bubble. Click it, or press space,
// to lift it away.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-bubble/config"
	"github.com/Carmen-Shannon/oxy-bubble/engine"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	variant := flag.String("variant", "", "bubble variant: primary or miniature (overrides the config file)")
	flag.Parse()

	if err := run(*configPath, *variant); err != nil {
		fmt.Fprintln(os.Stderr, "oxy-bubble:", err)
		os.Exit(1)
	}
}

func run(configPath, variant string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if variant != "" {
		cfg.Bubble.Variant = variant
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	eng, err := engine.NewEngine(cfg, engine.WithLogger(logger))
	if err != nil {
		return err
	}
	eng.Run()
	return nil
}
