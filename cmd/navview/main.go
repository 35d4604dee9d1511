package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	levelName := flag.String("level", "dungeon", "level path or embedded name (.json optional)")
	configPath := flag.String("config", "", "settings file (default: config/nav.yaml or the embedded copy)")
	watch := flag.Bool("watch", true, "reload level and settings when their files change")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	viewer, err := NewViewer(*levelName, *configPath, logger)
	if err != nil {
		log.Fatal(err)
	}
	if *watch {
		viewer.Watch()
	}
	defer viewer.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("dungeonnav")

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
