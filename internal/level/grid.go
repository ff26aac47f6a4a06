// Package level holds the cell grid shared by the dungeon generators and
// everything that reads a finished level.
package level

import "fmt"

// Coord addresses a cell: x east, y up, z north.
type Coord struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	Z int `yaml:"z" json:"z"`
}

// Step returns the coordinate one cell away in direction d on the same floor.
func (c Coord) Step(d Direction) Coord {
	dx, dz := d.Offset()
	return Coord{X: c.X + dx, Y: c.Y, Z: c.Z + dz}
}

// Grid is a dense x*y*z block of cells plus level metadata.
type Grid struct {
	SizeX, SizeY, SizeZ int
	Cells               []Cell

	Entrance Coord
	Exit     Coord
	HasExit  bool
}

// New allocates a grid with every field absent and coordinates stamped in.
func New(sizeX, sizeY, sizeZ int) *Grid {
	if sizeX <= 0 || sizeY <= 0 || sizeZ <= 0 {
		panic(fmt.Sprintf("level: invalid grid size %dx%dx%d", sizeX, sizeY, sizeZ))
	}

	g := &Grid{
		SizeX: sizeX,
		SizeY: sizeY,
		SizeZ: sizeZ,
		Cells: make([]Cell, sizeX*sizeY*sizeZ),
	}

	for y := 0; y < sizeY; y++ {
		for z := 0; z < sizeZ; z++ {
			for x := 0; x < sizeX; x++ {
				c := &g.Cells[g.index(x, y, z)]
				c.X, c.Y, c.Z = x, y, z
				c.Cost = -1
			}
		}
	}

	return g
}

func (g *Grid) index(x, y, z int) int {
	return (y*g.SizeZ+z)*g.SizeX + x
}

// InBounds reports whether (x,y,z) lies inside the grid.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.SizeX && y >= 0 && y < g.SizeY && z >= 0 && z < g.SizeZ
}

// Index maps a coordinate to its slot in Cells. It panics when the
// coordinate is out of range.
func (g *Grid) Index(x, y, z int) int {
	if !g.InBounds(x, y, z) {
		panic(fmt.Sprintf("level: coordinate (%d,%d,%d) out of range for %dx%dx%d grid",
			x, y, z, g.SizeX, g.SizeY, g.SizeZ))
	}
	return g.index(x, y, z)
}

// At returns the cell at (x,y,z). It panics when out of range.
func (g *Grid) At(x, y, z int) *Cell {
	return &g.Cells[g.Index(x, y, z)]
}

// AtCoord is At for a Coord.
func (g *Grid) AtCoord(c Coord) *Cell {
	return g.At(c.X, c.Y, c.Z)
}

// Neighbor returns the adjoining cell in direction d, or false at the edge.
func (g *Grid) Neighbor(x, y, z int, d Direction) (*Cell, bool) {
	dx, dz := d.Offset()
	nx, nz := x+dx, z+dz
	if !g.InBounds(nx, y, nz) {
		return nil, false
	}
	return &g.Cells[g.index(nx, y, nz)], true
}

// SetWall sets the wall on face d of (x,y,z) and on the matching face of the
// neighbor. A present wall removes any door and lock on that face.
func (g *Grid) SetWall(x, y, z int, d Direction, wall ID) {
	g.setFace(x, y, z, d, func(c *Cell, f Direction) {
		c.Walls[f] = wall
		if wall.Present() {
			c.Doors[f] = Absent
			c.Locked[f] = false
		}
	})
}

// SetDoor sets the door on face d of (x,y,z) and its neighbor. A present
// door removes any wall on that face; an absent door also drops the lock.
func (g *Grid) SetDoor(x, y, z int, d Direction, door ID) {
	g.setFace(x, y, z, d, func(c *Cell, f Direction) {
		c.Doors[f] = door
		if door.Present() {
			c.Walls[f] = Absent
		} else {
			c.Locked[f] = false
		}
	})
}

// SetLocked sets the lock flag on face d of (x,y,z) and its neighbor. It
// panics if the face has no door.
func (g *Grid) SetLocked(x, y, z int, d Direction, locked bool) {
	if locked && !g.At(x, y, z).Doors[d].Present() {
		panic(fmt.Sprintf("level: lock on doorless face %s of (%d,%d,%d)", d, x, y, z))
	}
	g.setFace(x, y, z, d, func(c *Cell, f Direction) {
		c.Locked[f] = locked
	})
}

// OpenFace clears wall, door and lock on face d of (x,y,z) and its neighbor.
func (g *Grid) OpenFace(x, y, z int, d Direction) {
	g.setFace(x, y, z, d, func(c *Cell, f Direction) {
		c.Walls[f] = Absent
		c.Doors[f] = Absent
		c.Locked[f] = false
	})
}

// ClearFaces opens all four faces of (x,y,z).
func (g *Grid) ClearFaces(x, y, z int) {
	for _, d := range AllDirections() {
		g.OpenFace(x, y, z, d)
	}
}

func (g *Grid) setFace(x, y, z int, d Direction, apply func(c *Cell, f Direction)) {
	apply(g.At(x, y, z), d)
	if n, ok := g.Neighbor(x, y, z, d); ok {
		apply(n, d.Opposite())
	}
}

// ResetCosts sets every pathfinding cost back to -1.
func (g *Grid) ResetCosts() {
	for i := range g.Cells {
		g.Cells[i].Cost = -1
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := *g
	c.Cells = make([]Cell, len(g.Cells))
	copy(c.Cells, g.Cells)
	return &c
}

// Equal reports whether two grids hold identical cells and metadata.
func (g *Grid) Equal(o *Grid) bool {
	if g.SizeX != o.SizeX || g.SizeY != o.SizeY || g.SizeZ != o.SizeZ {
		return false
	}
	if g.Entrance != o.Entrance || g.Exit != o.Exit || g.HasExit != o.HasExit {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}

// Release drops the cell storage. The grid must not be used afterwards.
func (g *Grid) Release() {
	g.Cells = nil
	g.SizeX, g.SizeY, g.SizeZ = 0, 0, 0
}
