// Package maze generates the fixed-size single-floor maze levels: a
// depth-first spanning tree carved from the center, shortened dead ends,
// a few open halls, and start/exit/treasure markers.
package maze

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/dungeongen/internal/level"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/rng"
)

// Size is the width and height of every maze map.
const Size = 18

// Map characters.
const (
	Wall     = '#'
	Path     = '.'
	Start    = 'S'
	Exit     = 'E'
	Treasure = 'T'
)

// Point is a position on the 2D map: X is the column, Y the row. Rows map to
// grid z when the maze is materialized.
type Point struct {
	X, Y int
}

func (p Point) step(d level.Direction) Point {
	dx, dz := d.Offset()
	return Point{X: p.X + dx, Y: p.Y + dz}
}

// Maze is a generated maze: the character map, the marker positions and the
// materialized grid.
type Maze struct {
	Level    int
	Map      [Size][Size]byte
	Start    Point
	Exit     Point
	Treasure Point
	Grid     *level.Grid

	deadEndsFilled int
	halls          int
}

// Seeds for the three independent Twister4 streams used per level.
func carveSeed(lvl int) uint32     { return uint32(lvl) }
func placementSeed(lvl int) uint32 { return uint32(lvl) ^ 0x9e3779b9 }
func textureSeed(lvl int) uint32   { return uint32(lvl)*31 + 7 }

// Generate builds the maze for lvl and returns its grid.
func Generate(lvl int) *level.Grid {
	return Build(lvl).Grid
}

// Build runs every maze stage for lvl. The result depends on lvl only.
func Build(lvl int) *Maze {
	m := &Maze{Level: lvl}
	for y := range m.Map {
		for x := range m.Map[y] {
			m.Map[y][x] = Wall
		}
	}

	r := rng.NewTwister4(carveSeed(lvl))
	m.carve(r, Size/2, Size/2)
	m.fillDeadEnds(r)
	m.injectHalls(r)

	m.placeEntities(rng.NewTwister4(placementSeed(lvl)))
	m.Grid = m.materialize(rng.NewTwister4(textureSeed(lvl)))

	logger.Debug("Maze generated",
		"level", lvl,
		"dead_ends_filled", m.deadEndsFilled,
		"halls", m.halls,
		"start", m.Start,
		"exit", m.Exit)

	return m
}

// Rows returns the map as strings, row 0 first.
func (m *Maze) Rows() []string {
	rows := make([]string, Size)
	for y := range m.Map {
		rows[y] = string(m.Map[y][:])
	}
	return rows
}

func (m *Maze) inside(p Point) bool {
	return p.X >= 1 && p.X <= Size-2 && p.Y >= 1 && p.Y <= Size-2
}

func (m *Maze) isOpen(p Point) bool {
	if p.X < 0 || p.X >= Size || p.Y < 0 || p.Y >= Size {
		return false
	}
	return m.Map[p.Y][p.X] != Wall
}

// carve is the recursive depth-first backtracker. Cells two steps away are
// carved together with the cell between them.
func (m *Maze) carve(r rng.Source, x, y int) {
	m.Map[y][x] = Path
	here := Point{X: x, Y: y}

	for _, d := range shuffledDirections(r) {
		mid := here.step(d)
		next := mid.step(d)
		if !m.inside(next) || m.Map[next.Y][next.X] != Wall {
			continue
		}
		m.Map[mid.Y][mid.X] = Path
		m.carve(r, next.X, next.Y)
	}
}

func shuffledDirections(r rng.Source) []level.Direction {
	dirs := level.AllDirections()
	for i := len(dirs) - 1; i > 0; i-- {
		j := rng.Intn(r, i+1)
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs
}

func (m *Maze) wallCount(p Point) int {
	n := 0
	for _, d := range level.AllDirections() {
		if !m.isOpen(p.step(d)) {
			n++
		}
	}
	return n
}

func (m *Maze) isDeadEnd(p Point) bool {
	return m.inside(p) && m.isOpen(p) && m.wallCount(p) == 3
}

func (m *Maze) deadEnds() []Point {
	var ends []Point
	for y := 1; y <= Size-2; y++ {
		for x := 1; x <= Size-2; x++ {
			if p := (Point{X: x, Y: y}); m.isDeadEnd(p) {
				ends = append(ends, p)
			}
		}
	}
	return ends
}

func (m *Maze) openCells() []Point {
	var cells []Point
	for y := 1; y <= Size-2; y++ {
		for x := 1; x <= Size-2; x++ {
			if p := (Point{X: x, Y: y}); m.isOpen(p) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

// fillDeadEnds shortens roughly half of the dead-end corridors by walling up
// a random-length prefix of each straight stub.
func (m *Maze) fillDeadEnds(r rng.Source) {
	ends := m.deadEnds()
	if len(ends) < 5 {
		return
	}

	count := len(ends)/2 - 1 + rng.Intn(r, 3)
	for i := 0; i < count && len(ends) > 0; i++ {
		idx := rng.Intn(r, len(ends))
		p := ends[idx]
		ends = append(ends[:idx], ends[idx+1:]...)

		if !m.isDeadEnd(p) {
			continue
		}

		dir, ok := m.openDirection(p)
		if !ok {
			continue
		}

		corridor := []Point{p}
		cur := p.step(dir)
		for m.isOpen(cur) && !m.hasBranch(cur, dir) {
			next := cur.step(dir)
			if !m.isOpen(next) {
				break
			}
			corridor = append(corridor, cur)
			cur = next
		}

		n := 1 + rng.Intn(r, len(corridor))
		for _, c := range corridor[:n] {
			m.Map[c.Y][c.X] = Wall
		}
		m.deadEndsFilled++
	}
}

func (m *Maze) openDirection(p Point) (level.Direction, bool) {
	for _, d := range level.AllDirections() {
		if m.isOpen(p.step(d)) {
			return d, true
		}
	}
	return level.North, false
}

// hasBranch reports whether p opens sideways relative to travel direction d.
func (m *Maze) hasBranch(p Point, d level.Direction) bool {
	a, b := d.Perpendicular()
	return m.isOpen(p.step(a)) || m.isOpen(p.step(b))
}

// injectHalls stamps up to three open rectangles. The origin takes the
// chosen cell's row as its column and its column as its row; existing levels
// depend on that transposition.
func (m *Maze) injectHalls(r rng.Source) {
	m.halls = rng.Intn(r, 4)
	for i := 0; i < m.halls; i++ {
		cells := m.openCells()
		if len(cells) == 0 {
			return
		}
		c := cells[rng.Intn(r, len(cells))]
		originX, originY := c.Y, c.X

		w := rng.Between(r, 2, 5)
		h := rng.Between(r, 2, 5)
		for y := originY; y < originY+h; y++ {
			for x := originX; x < originX+w; x++ {
				if p := (Point{X: x, Y: y}); m.inside(p) {
					m.Map[y][x] = Path
				}
			}
		}
	}
}

// mainRegion returns the largest connected set of open cells in scan order.
// A transposed hall can land away from the carved tree; markers are only
// placed where the tree reaches.
func (m *Maze) mainRegion() []Point {
	seen := mapset.New[Point]()
	var best []Point

	for _, start := range m.openCells() {
		if seen.Has(start) {
			continue
		}
		region := mapset.New[Point]()
		queue := []Point{start}
		region.Put(start)
		seen.Put(start)
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, d := range level.AllDirections() {
				n := cur.step(d)
				if !m.isOpen(n) || region.Has(n) {
					continue
				}
				region.Put(n)
				seen.Put(n)
				queue = append(queue, n)
			}
		}
		if region.Size() > len(best) {
			best = best[:0]
			for _, p := range m.openCells() {
				if region.Has(p) {
					best = append(best, p)
				}
			}
		}
	}

	return best
}

// placeEntities picks three distinct cells for start, exit and treasure,
// preferring dead ends.
func (m *Maze) placeEntities(r rng.Source) {
	region := m.mainRegion()

	var candidates []Point
	for _, p := range region {
		if m.isDeadEnd(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) < 3 {
		candidates = region
	}

	pick := func() Point {
		i := rng.Intn(r, len(candidates))
		p := candidates[i]
		candidates = append(candidates[:i], candidates[i+1:]...)
		return p
	}

	m.Start = pick()
	m.Exit = pick()
	m.Treasure = pick()

	m.Map[m.Start.Y][m.Start.X] = Start
	m.Map[m.Exit.Y][m.Exit.X] = Exit
	m.Map[m.Treasure.Y][m.Treasure.X] = Treasure
}
