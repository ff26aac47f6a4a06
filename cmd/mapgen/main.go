package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gookit/color"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/level"
	"github.com/lawnchairsociety/dungeongen/internal/mapview"
	"github.com/lawnchairsociety/dungeongen/internal/maze"
	"github.com/lawnchairsociety/dungeongen/internal/store"
)

func main() {
	inputFile := flag.String("input", "", "Path to a level YAML file")
	configFile := flag.String("config", "data/dungeongen.yaml", "Path to config YAML file (for -id and -list)")
	id := flag.Int64("id", 0, "Load this level from the store instead of a file")
	list := flag.Bool("list", false, "List stored levels and exit")
	floorNum := flag.Int("floor", -1, "Floor to display (-1 for every floor with cells)")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showPath := flag.Bool("path", false, "Paint the shortest entrance-to-exit path")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("Warning: %v", err)
	}

	if *list {
		listLevels(*configFile)
		return
	}

	g, title, err := loadLevel(*inputFile, *configFile, *id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	plain := *outputFile != "" || !mapview.IsTerminal(os.Stdout)
	var output strings.Builder
	output.WriteString(title + "\n")
	output.WriteString(strings.Repeat("=", 60) + "\n")
	output.WriteString(mapview.Summary(g))
	output.WriteString(fmt.Sprintf("Components:  %d\n\n", level.Components(g, g.Entrance.Y)))

	opts := level.RenderOptions{}
	if *showPath {
		maze.PaintShortestPath(g, g.Entrance.X, g.Entrance.Z)
		opts.ShowCost = true
	}

	for y := 0; y < g.SizeY; y++ {
		if *floorNum >= 0 && y != *floorNum {
			continue
		}
		if *floorNum < 0 && !hasCells(g, y) {
			continue
		}
		output.WriteString(fmt.Sprintf("Floor %d\n", y))
		output.WriteString(strings.Repeat("-", 40) + "\n")
		if err := mapview.Print(&output, g, y, opts, plain); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering floor %d: %v\n", y, err)
			os.Exit(1)
		}
		output.WriteString("\n")
	}

	if *showLegend {
		legend := mapview.Legend()
		if plain {
			legend = color.ClearCode(legend)
		}
		output.WriteString(legend)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

func loadLevel(inputFile, configFile string, id int64) (*level.Grid, string, error) {
	if id == 0 {
		if inputFile == "" {
			return nil, "", fmt.Errorf("either -input or -id is required")
		}
		g, err := level.LoadFile(inputFile)
		if err != nil {
			return nil, "", err
		}
		return g, fmt.Sprintf("Level %s", inputFile), nil
	}

	st, err := openStore(configFile)
	if err != nil {
		return nil, "", err
	}
	defer st.Close()

	rec, err := st.Load(context.Background(), id)
	if err != nil {
		return nil, "", fmt.Errorf("level #%d: %w", id, err)
	}
	g, err := rec.Grid()
	if err != nil {
		return nil, "", err
	}
	title := fmt.Sprintf("Level #%d (%s, seed: %d, created: %s)",
		rec.ID, rec.Kind, rec.Seed, rec.CreatedAt.Format("2006-01-02 15:04:05"))
	return g, title, nil
}

func listLevels(configFile string) {
	st, err := openStore(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	recs, err := st.List(context.Background(), "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing levels: %v\n", err)
		os.Exit(1)
	}
	for _, r := range recs {
		fmt.Printf("#%-5d %-6s seed %-10d %s  %s\n",
			r.ID, r.Kind, r.Seed, r.Fingerprint[:12], r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("%d level(s)\n", len(recs))
}

func openStore(configFile string) (*store.Store, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	return store.OpenWithConfig(cfg.Store.Config)
}

func hasCells(g *level.Grid, y int) bool {
	for z := 0; z < g.SizeZ; z++ {
		for x := 0; x < g.SizeX; x++ {
			c := g.At(x, y, z)
			if c.HasFloor() || c.WallCount() > 0 {
				return true
			}
		}
	}
	return false
}
