package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/level"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/mapview"
	"github.com/lawnchairsociety/dungeongen/internal/maze"
	"github.com/lawnchairsociety/dungeongen/internal/roomgen"
	"github.com/lawnchairsociety/dungeongen/internal/store"
)

func main() {
	configFile := flag.String("config", "data/dungeongen.yaml", "Path to config YAML file")
	kind := flag.String("kind", store.KindRooms, "Generator to run: maze or rooms")
	mazeLevel := flag.Int("level", -1, "Maze level (default: from config)")
	seed := flag.Int64("seed", -1, "Room expansion seed (default: from config)")
	width := flag.Int("width", 0, "Room expansion width (default: from config)")
	height := flag.Int("height", 0, "Room expansion height (default: from config)")
	complexity := flag.Int("complexity", 0, "Room expansion complexity target (default: from config)")
	floor := flag.Int("floor", -1, "Room expansion floor number (default: from config)")
	lockPercent := flag.Int("lock", -1, "Percent of doors to lock (default: from config)")
	paintPath := flag.Bool("path", false, "Paint the shortest entrance-to-exit path")
	outFile := flag.String("out", "", "Write the level as YAML to this file")
	save := flag.Bool("save", false, "Archive the level in the configured store")
	plain := flag.Bool("plain", false, "Print without colors")
	showLegend := flag.Bool("legend", false, "Print the map legend")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("Warning: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	var (
		g      *level.Grid
		mapY   int
		seedV  uint32
		params any
	)

	switch *kind {
	case store.KindMaze:
		lvl := cfg.Maze.Level
		if *mazeLevel >= 0 {
			lvl = *mazeLevel
		}
		g = maze.Generate(lvl)
		seedV = uint32(lvl)
		params = config.MazeConfig{Level: lvl}
		fmt.Printf("Maze level %d\n", lvl)

	case store.KindRooms:
		p := cfg.RoomExpansion
		if *seed >= 0 {
			p.Seed = uint32(*seed)
		}
		if *width > 0 {
			p.Width = *width
		}
		if *height > 0 {
			p.Height = *height
		}
		if *complexity > 0 {
			p.Complexity = *complexity
		}
		if *floor >= 0 {
			p.Floor = *floor
		}
		if *lockPercent >= 0 {
			p.DoorLockPercent = *lockPercent
		}

		res, err := roomgen.Run(p)
		if err != nil {
			log.Fatalf("Failed to generate level: %v", err)
		}
		g = res.Grid
		mapY = roomgen.MainFloor
		seedV = p.Seed
		params = p
		fmt.Printf("Room expansion %dx%d (seed: %d) - %d rooms, complexity %d, %d attempt(s)\n",
			p.Width, p.Height, p.Seed, res.Rooms, res.Complexity, res.Attempts)

	default:
		log.Fatalf("Unknown kind %q (want %s or %s)", *kind, store.KindMaze, store.KindRooms)
	}

	if *save {
		saveLevel(cfg, *kind, seedV, params, g)
	}
	if *outFile != "" {
		if err := level.SaveFile(g, *outFile); err != nil {
			log.Fatalf("Failed to write %s: %v", *outFile, err)
		}
		fmt.Printf("Level written to %s\n", *outFile)
	}

	fmt.Print(mapview.Summary(g))
	fmt.Println()

	opts := level.RenderOptions{}
	if *paintPath {
		maze.PaintShortestPath(g, g.Entrance.X, g.Entrance.Z)
		opts.ShowCost = true
	}
	if err := mapview.Print(os.Stdout, g, mapY, opts, *plain || !mapview.IsTerminal(os.Stdout)); err != nil {
		log.Fatalf("Failed to print map: %v", err)
	}
	if *showLegend {
		fmt.Println()
		fmt.Print(mapview.Legend())
	}
}

func saveLevel(cfg *config.Config, kind string, seed uint32, params any, g *level.Grid) {
	st, err := store.OpenWithConfig(cfg.Store.Config)
	if err != nil {
		log.Fatalf("Failed to open level store: %v", err)
	}
	defer st.Close()

	rec, err := store.NewRecord(kind, seed, params, g)
	if err != nil {
		log.Fatalf("Failed to encode level: %v", err)
	}
	id, created, err := st.Save(context.Background(), rec)
	if err != nil {
		log.Fatalf("Failed to save level: %v", err)
	}
	if created {
		fmt.Printf("Saved level #%d\n", id)
	} else {
		fmt.Printf("Level already stored as #%d\n", id)
	}
}
