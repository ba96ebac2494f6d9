// Command termview plays a map in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"portalcaster/internal/config"
	"portalcaster/internal/engine"
	"portalcaster/internal/termview"
	"portalcaster/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "termview:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	mapPath := flag.String("map", "", "map file to load instead of world.map_file")
	logPath := flag.String("log", "", "write logs to this file (the screen owns stderr)")
	fps := flag.Int("fps", 30, "frames per second")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	// Anything written to stderr would tear the terminal picture.
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	if err := config.SetupLogging(cfg.Logging, logOut); err != nil {
		return err
	}

	if *mapPath != "" {
		cfg.World.MapFile = *mapPath
	}
	md, err := world.LoadMap(cfg.World.MapFile)
	if err != nil {
		return err
	}
	eng, err := engine.New(cfg, md)
	if err != nil {
		return err
	}
	defer eng.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to start tcell: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init tcell.Screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tick := time.Second / time.Duration(max(*fps, 1))
	view := termview.New(screen, eng, tick, 0)
	log.WithFields(log.Fields{"map": md.Name, "tick": tick}).Info("terminal view started")

	if err := view.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
