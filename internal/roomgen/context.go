package roomgen

import (
	"github.com/lawnchairsociety/dungeongen/internal/level"
	"github.com/lawnchairsociety/dungeongen/internal/rng"
)

// Levels are three floors tall: the exit landing below, the main floor and
// an empty floor above.
const (
	landingY = 0
	mainY    = MainFloor
	levelsY  = 3
)

// rect is an inclusive cell rectangle on the main floor.
type rect struct {
	x0, z0, x1, z1 int
}

func (r rect) width() int  { return r.x1 - r.x0 + 1 }
func (r rect) height() int { return r.z1 - r.z0 + 1 }

func (r rect) center() (int, int) {
	return (r.x0 + r.x1) / 2, (r.z0 + r.z1) / 2
}

// midpoint returns the middle cell of the rectangle's edge on side d.
func (r rect) midpoint(d level.Direction) (int, int) {
	cx, cz := r.center()
	switch d {
	case level.North:
		return cx, r.z1
	case level.South:
		return cx, r.z0
	case level.East:
		return r.x1, cz
	default:
		return r.x0, cz
	}
}

// edge returns the cells along side d, in increasing coordinate order.
func (r rect) edge(d level.Direction) [][2]int {
	var out [][2]int
	switch d {
	case level.North, level.South:
		z := r.z0
		if d == level.North {
			z = r.z1
		}
		for x := r.x0; x <= r.x1; x++ {
			out = append(out, [2]int{x, z})
		}
	default:
		x := r.x0
		if d == level.East {
			x = r.x1
		}
		for z := r.z0; z <= r.z1; z++ {
			out = append(out, [2]int{x, z})
		}
	}
	return out
}

func (r rect) each(fn func(x, z int)) {
	for z := r.z0; z <= r.z1; z++ {
		for x := r.x0; x <= r.x1; x++ {
			fn(x, z)
		}
	}
}

// genContext is the state of one generation attempt. During expansion the
// main floor's Floor field carries the room id; the texture pass replaces it.
type genContext struct {
	p      Params
	r      *rng.MT19937
	g      *level.Grid
	flags  []Flags
	width  int
	height int

	removal  []bool
	reserved []bool

	rooms      int
	complexity int
	target     int

	entranceX, entranceZ int
	stairSides           []level.Direction
}

func newContext(p Params, r *rng.MT19937, flags []Flags) *genContext {
	return &genContext{
		p:        p,
		r:        r,
		g:        level.New(p.Width, levelsY, p.Height),
		flags:    flags,
		width:    p.Width,
		height:   p.Height,
		removal:  make([]bool, p.Width*p.Height),
		reserved: make([]bool, p.Width*p.Height),
		target:   p.Complexity,
	}
}

func (c *genContext) idx(x, z int) int {
	return FlagIndex(c.width, x, z)
}

func (c *genContext) intn(n int) int {
	return rng.Intn(c.r, n)
}

func (c *genContext) between(min, max int) int {
	return rng.Between(c.r, min, max)
}

func (c *genContext) cell(x, z int) *level.Cell {
	return c.g.At(x, mainY, z)
}

func (c *genContext) inGrid(x, z int) bool {
	return x >= 0 && z >= 0 && x < c.width && z < c.height
}

// interior reports whether (x,z) may hold floor; the outer ring stays empty.
func (c *genContext) interior(x, z int) bool {
	return x >= 1 && z >= 1 && x <= c.width-2 && z <= c.height-2
}

// isFloor reports whether (x,z) holds floor that is not marked for removal.
func (c *genContext) isFloor(x, z int) bool {
	if !c.inGrid(x, z) {
		return false
	}
	return c.cell(x, z).HasFloor() && !c.removal[c.idx(x, z)]
}

// occupied reports whether (x,z) is unavailable to new rooms.
func (c *genContext) occupied(x, z int) bool {
	if !c.interior(x, z) {
		return true
	}
	i := c.idx(x, z)
	return c.cell(x, z).HasFloor() || c.reserved[i]
}

func (c *genContext) roomOf(x, z int) int {
	return c.cell(x, z).Floor.Or(0)
}

func (c *genContext) newRoom() int {
	c.rooms++
	return c.rooms
}

func (c *genContext) stamp(r rect, id int) {
	r.each(func(x, z int) {
		c.cell(x, z).Floor = level.Some(id)
	})
}

func (c *genContext) free(r rect) bool {
	for z := r.z0; z <= r.z1; z++ {
		for x := r.x0; x <= r.x1; x++ {
			if c.occupied(x, z) {
				return false
			}
		}
	}
	return true
}

func (c *genContext) markRemoval(x, z int) {
	c.removal[c.idx(x, z)] = true
}

func (c *genContext) cutDoor(x, z int, d level.Direction) {
	c.g.SetDoor(x, mainY, z, d, level.Some(DoorTexture))
}

func (c *genContext) hasDoor(x, z int, d level.Direction) bool {
	return c.cell(x, z).Doors[d].Present()
}

// connected reports whether (x,z) and its neighbor in d are linked: both
// floor and either the same room or joined by a door.
func (c *genContext) connected(x, z int, d level.Direction) bool {
	if !c.isFloor(x, z) {
		return false
	}
	dx, dz := d.Offset()
	nx, nz := x+dx, z+dz
	if !c.isFloor(nx, nz) {
		return false
	}
	return c.roomOf(x, z) == c.roomOf(nx, nz) || c.hasDoor(x, z, d)
}

// clearCell turns (x,z) back into empty space.
func (c *genContext) clearCell(x, z int) {
	c.g.ClearFaces(x, mainY, z)
	cl := c.cell(x, z)
	cl.Floor = level.Absent
	cl.Ceiling = level.Absent
	i := c.idx(x, z)
	c.removal[i] = false
	c.flags[i] &^= placementFlags | FlagTreasureRoom
}

// scatter rolls placement flags for the usable cells of r.
func (c *genContext) scatter(r rect) {
	r.each(func(x, z int) {
		if !c.isFloor(x, z) {
			return
		}
		i := c.idx(x, z)
		if c.flags[i].Has(FlagNoPlacement) {
			return
		}
		switch c.intn(20) {
		case 0:
			c.flags[i] |= FlagItem
		case 1, 2:
			c.flags[i] |= FlagEnemy
		case 3:
			c.flags[i] |= FlagTrap
		}
	})
}

// directionPool hands out the four directions in random order.
type directionPool struct {
	dirs []level.Direction
}

func newDirectionPool() *directionPool {
	return &directionPool{dirs: level.AllDirections()}
}

func (p *directionPool) remove(d level.Direction) {
	for i, v := range p.dirs {
		if v == d {
			p.dirs = append(p.dirs[:i], p.dirs[i+1:]...)
			return
		}
	}
}

func (p *directionPool) empty() bool {
	return len(p.dirs) == 0
}

func (p *directionPool) draw(c *genContext) level.Direction {
	i := c.intn(len(p.dirs))
	d := p.dirs[i]
	p.dirs = append(p.dirs[:i], p.dirs[i+1:]...)
	return d
}
