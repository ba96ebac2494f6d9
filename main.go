package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"portalcaster/internal/config"
	"portalcaster/internal/engine"
	"portalcaster/internal/game"
	"portalcaster/internal/world"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	mapPath := flag.String("map", "", "map file to load instead of world.map_file")
	flag.Parse()

	cfg := config.MustLoadConfig(*configPath)
	if err := config.SetupLogging(cfg.Logging, os.Stderr); err != nil {
		log.Fatal(err)
	}
	if *mapPath != "" {
		cfg.World.MapFile = *mapPath
	}

	md, err := world.LoadMap(cfg.World.MapFile)
	if err != nil {
		log.WithError(err).Fatal("cannot load map")
	}
	eng, err := engine.New(cfg, md)
	if err != nil {
		log.WithError(err).Fatal("cannot start engine")
	}
	defer eng.Close()

	w, h := eng.Size()
	ebiten.SetWindowSize(int(float64(w)*cfg.Display.Scale), int(float64(h)*cfg.Display.Scale))
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	ebiten.SetTPS(cfg.Display.TPS)

	if err := ebiten.RunGame(game.NewGame(cfg, eng)); err != nil {
		eng.Close()
		log.Fatal(err)
	}
}
