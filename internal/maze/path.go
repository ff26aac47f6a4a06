package maze

import "github.com/lawnchairsociety/dungeongen/internal/level"

// PaintShortestPath runs a breadth-first search on the exit's floor from
// (startX, startZ) to the grid's exit. On success every cell on the shortest
// path gets its distance from the start as Cost and every other cell is
// reset to -1. When the exit cannot be reached the grid is left untouched.
func PaintShortestPath(g *level.Grid, startX, startZ int) {
	path := ShortestPath(g, level.Coord{X: startX, Y: g.Exit.Y, Z: startZ})
	if path == nil {
		return
	}

	g.ResetCosts()
	for i, c := range path {
		g.AtCoord(c).Cost = i
	}
}

// ShortestPath returns the cells from start to the grid's exit, both
// included, or nil when there is no exit or it is unreachable. Movement goes
// through any face without a wall into a cell with a floor.
func ShortestPath(g *level.Grid, start level.Coord) []level.Coord {
	if !g.HasExit || !g.AtCoord(start).HasFloor() {
		return nil
	}

	y := start.Y
	idx := func(c level.Coord) int { return c.Z*g.SizeX + c.X }
	prev := make([]int, g.SizeX*g.SizeZ)
	for i := range prev {
		prev[i] = -1
	}

	queue := []level.Coord{start}
	prev[idx(start)] = idx(start)
	found := start == g.Exit

	for len(queue) > 0 && !found {
		cur := queue[0]
		queue = queue[1:]
		c := g.AtCoord(cur)

		for _, d := range level.AllDirections() {
			if !c.Passable(d) {
				continue
			}
			n, ok := g.Neighbor(cur.X, y, cur.Z, d)
			if !ok || !n.HasFloor() {
				continue
			}
			next := n.Coord()
			if prev[idx(next)] != -1 {
				continue
			}
			prev[idx(next)] = idx(cur)
			if next == g.Exit {
				found = true
				break
			}
			queue = append(queue, next)
		}
	}

	if !found {
		return nil
	}

	var path []level.Coord
	for at := idx(g.Exit); ; at = prev[at] {
		path = append(path, level.Coord{X: at % g.SizeX, Y: y, Z: at / g.SizeX})
		if at == idx(start) {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
