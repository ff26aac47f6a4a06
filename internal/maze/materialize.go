package maze

import (
	"github.com/lawnchairsociety/dungeongen/internal/level"
	"github.com/lawnchairsociety/dungeongen/internal/rng"
)

// Texture families used by maze levels.
var (
	floorTextures   = []int{100, 101, 102}
	ceilingTextures = []int{200, 201}
	wallTextures    = []int{300, 301, 302, 303}
	cornerTextures  = []int{310, 311}
)

// materialize converts the character map into an 18x1x18 grid. Map rows
// become grid z.
func (m *Maze) materialize(r rng.Source) *level.Grid {
	g := level.New(Size, 1, Size)

	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if !m.isOpen(Point{X: x, Y: y}) {
				continue
			}
			c := g.At(x, 0, y)
			c.Floor = level.Some(floorTextures[rng.Intn(r, len(floorTextures))])
			c.Ceiling = level.Some(ceilingTextures[rng.Intn(r, len(ceilingTextures))])
		}
	}

	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			p := Point{X: x, Y: y}
			if !m.isOpen(p) {
				continue
			}
			for _, d := range level.AllDirections() {
				if m.isOpen(p.step(d)) {
					continue
				}
				g.SetWall(x, 0, y, d, level.Some(m.wallTexture(r, p, d)))
			}
		}
	}

	g.At(m.Exit.X, 0, m.Exit.Y).Event = level.Some(level.EventGoal)
	g.At(m.Treasure.X, 0, m.Treasure.Y).Event = level.Some(level.EventTreasure)

	g.Entrance = level.Coord{X: m.Start.X, Y: 0, Z: m.Start.Y}
	g.Exit = level.Coord{X: m.Exit.X, Y: 0, Z: m.Exit.Y}
	g.HasExit = true

	return g
}

// wallTexture picks a corner piece by position when the face meets another
// wall of the same cell, otherwise a random plain wall.
func (m *Maze) wallTexture(r rng.Source, p Point, d level.Direction) int {
	a, b := d.Perpendicular()
	if !m.isOpen(p.step(a)) || !m.isOpen(p.step(b)) {
		return cornerTextures[(p.X+p.Y)%len(cornerTextures)]
	}
	return wallTextures[rng.Intn(r, len(wallTextures))]
}
