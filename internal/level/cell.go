package level

// Cell is one unit of a dungeon level. Face arrays are indexed by Direction.
type Cell struct {
	X, Y, Z int

	Floor   ID
	Ceiling ID
	Walls   [4]ID
	Doors   [4]ID
	Locked  [4]bool

	Stair    ID
	StairDir int

	Event ID

	// Cost is the pathfinding distance written by path painting; -1 when
	// the cell is not on a painted path.
	Cost int

	// Walked is a gameplay marker and is never touched by the generators.
	Walked bool
}

// HasFloor reports whether the cell can be stood on.
func (c *Cell) HasFloor() bool {
	return c.Floor.Present()
}

// Open reports whether the face in direction d has neither a wall nor a door.
func (c *Cell) Open(d Direction) bool {
	return !c.Walls[d].Present() && !c.Doors[d].Present()
}

// Passable reports whether a walker can leave through face d.
func (c *Cell) Passable(d Direction) bool {
	return !c.Walls[d].Present()
}

// WallCount returns the number of faces carrying a wall.
func (c *Cell) WallCount() int {
	n := 0
	for _, w := range c.Walls {
		if w.Present() {
			n++
		}
	}
	return n
}

// DoorCount returns the number of faces carrying a door.
func (c *Cell) DoorCount() int {
	n := 0
	for _, d := range c.Doors {
		if d.Present() {
			n++
		}
	}
	return n
}

// Coord returns the cell's position.
func (c *Cell) Coord() Coord {
	return Coord{X: c.X, Y: c.Y, Z: c.Z}
}
