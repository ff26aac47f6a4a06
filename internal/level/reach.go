package level

import "github.com/zyedidia/generic/mapset"

// Reachable returns every floor cell on from's floor that a walker can reach
// from from, moving through faces without walls.
func Reachable(g *Grid, from Coord) *mapset.Set[Coord] {
	reachable := mapset.New[Coord]()
	if !g.InBounds(from.X, from.Y, from.Z) || !g.AtCoord(from).HasFloor() {
		return &reachable
	}

	queue := []Coord{from}
	reachable.Put(from)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		c := g.AtCoord(current)

		for _, d := range AllDirections() {
			if !c.Passable(d) {
				continue
			}
			n, ok := g.Neighbor(current.X, current.Y, current.Z, d)
			if !ok || !n.HasFloor() {
				continue
			}
			next := n.Coord()
			if reachable.Has(next) {
				continue
			}
			reachable.Put(next)
			queue = append(queue, next)
		}
	}

	return &reachable
}

// Components counts the connected floor regions on floor y.
func Components(g *Grid, y int) int {
	seen := mapset.New[Coord]()
	count := 0

	for z := 0; z < g.SizeZ; z++ {
		for x := 0; x < g.SizeX; x++ {
			c := Coord{X: x, Y: y, Z: z}
			if seen.Has(c) || !g.AtCoord(c).HasFloor() {
				continue
			}
			count++
			Reachable(g, c).Each(func(k Coord) {
				seen.Put(k)
			})
		}
	}

	return count
}

// CheckSymmetry returns the first face whose wall, door or lock differs from
// the matching face of its neighbor, or ok=true when every face agrees.
func CheckSymmetry(g *Grid) (at Coord, dir Direction, ok bool) {
	for i := range g.Cells {
		c := &g.Cells[i]
		for _, d := range AllDirections() {
			n, has := g.Neighbor(c.X, c.Y, c.Z, d)
			if !has {
				continue
			}
			o := d.Opposite()
			if c.Walls[d] != n.Walls[o] || c.Doors[d] != n.Doors[o] || c.Locked[d] != n.Locked[o] {
				return c.Coord(), d, false
			}
		}
	}
	return Coord{}, North, true
}

// CheckExclusive returns the first face carrying both a wall and a door, or
// ok=true when none does.
func CheckExclusive(g *Grid) (at Coord, dir Direction, ok bool) {
	for i := range g.Cells {
		c := &g.Cells[i]
		for _, d := range AllDirections() {
			if c.Walls[d].Present() && c.Doors[d].Present() {
				return c.Coord(), d, false
			}
		}
	}
	return Coord{}, North, true
}
