package roomgen

import "github.com/lawnchairsociety/dungeongen/internal/level"

// placeEntrance stamps the 3x3 entrance room, reserves the outside midpoint
// cells of the two sides that will hold stairway candidates, and expands
// from the other two sides.
func (c *genContext) placeEntrance() {
	c.entranceX = c.between(3, c.width-4)
	c.entranceZ = c.between(3, c.height-4)
	block := rect{c.entranceX - 1, c.entranceZ - 1, c.entranceX + 1, c.entranceZ + 1}
	c.stamp(block, c.newRoom())

	pool := newDirectionPool()
	first := pool.draw(c)
	second := pool.draw(c)
	c.stairSides = pool.dirs
	for _, d := range c.stairSides {
		dx, dz := d.Offset()
		c.reserved[c.idx(c.entranceX+2*dx, c.entranceZ+2*dz)] = true
	}

	for _, d := range []level.Direction{first, second} {
		x, z := block.midpoint(d)
		c.expand(x, z, d)
	}
}

// area returns the candidate rectangle grown from the origin cell toward d:
// 2-6 cells along d and 1-3 cells to each side of the origin's cross line.
func (c *genContext) area(ox, oz int, d level.Direction) rect {
	half := c.between(1, 3)
	along := c.between(2, 6)
	switch d {
	case level.North:
		return rect{ox - half, oz + 1, ox + half, oz + along}
	case level.South:
		return rect{ox - half, oz - along, ox + half, oz - 1}
	case level.East:
		return rect{ox + 1, oz - half, ox + along, oz + half}
	default:
		return rect{ox - along, oz - half, ox - 1, oz + half}
	}
}

// expand tries to grow a new room from (ox,oz) toward d. It recurses from
// the new room's edge midpoints and reports whether a room was created.
func (c *genContext) expand(ox, oz int, d level.Direction) bool {
	if c.complexity >= c.target {
		return false
	}
	a := c.area(ox, oz, d)
	if !c.free(a) {
		c.loopDoor(ox, oz, d)
		return false
	}

	id := c.newRoom()
	c.stamp(a, id)
	c.cutDoor(ox, oz, d)
	c.createRoom(a, d, id)

	pool := newDirectionPool()
	pool.remove(d.Opposite())
	for !pool.empty() {
		nd := pool.draw(c)
		mx, mz := a.midpoint(nd)
		if !c.isFloor(mx, mz) {
			continue
		}
		c.expand(mx, mz, nd)
	}
	return true
}

// loopDoor sometimes joins the origin to an existing room in front of it,
// closing a loop, as long as that edge has no door yet.
func (c *genContext) loopDoor(ox, oz int, d level.Direction) {
	dx, dz := d.Offset()
	nx, nz := ox+dx, oz+dz
	if !c.isFloor(ox, oz) || !c.isFloor(nx, nz) {
		return
	}
	if c.roomOf(ox, oz) == c.roomOf(nx, nz) || c.hasDoor(ox, oz, d) {
		return
	}
	p1, p2 := d.Perpendicular()
	for _, p := range []level.Direction{p1, p2} {
		px, pz := p.Offset()
		if c.isFloor(ox+px, oz+pz) && c.hasDoor(ox+px, oz+pz, d) {
			return
		}
	}
	if c.intn(4) == 0 {
		c.cutDoor(ox, oz, d)
	}
}
