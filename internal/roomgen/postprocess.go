package roomgen

import "github.com/lawnchairsociety/dungeongen/internal/level"

// postProcess runs the grid-wide passes in order. Room ids are only valid up
// to the texture pass.
func (c *genContext) postProcess() {
	c.removeMarked()
	c.resolveCorridors()
	c.attachTreasureRooms()
	c.synthesizeWalls()
	c.clearEmptyFaces()
	c.assignTextures()
	c.resolveDeadEndDoors()
	c.consolidatePassages()
	c.formatTreasureRooms()
	c.lockDoors()
}

func (c *genContext) eachMain(fn func(x, z int)) {
	for z := 0; z < c.height; z++ {
		for x := 0; x < c.width; x++ {
			fn(x, z)
		}
	}
}

func (c *genContext) removeMarked() {
	c.eachMain(func(x, z int) {
		if c.removal[c.idx(x, z)] {
			c.clearCell(x, z)
		}
	})
}

// deadEnd reports whether (x,z) is floor with exactly one connection, and
// in which direction that connection lies.
func (c *genContext) deadEnd(x, z int) (level.Direction, bool) {
	if !c.isFloor(x, z) {
		return 0, false
	}
	var dir level.Direction
	n := 0
	for _, d := range level.AllDirections() {
		if c.connected(x, z, d) {
			dir = d
			n++
		}
	}
	return dir, n == 1
}

func (c *genContext) deadEnds() [][2]int {
	var out [][2]int
	c.eachMain(func(x, z int) {
		if _, ok := c.deadEnd(x, z); ok {
			out = append(out, [2]int{x, z})
		}
	})
	return out
}

// resolveCorridors either pushes each dead end straight on until it meets
// another room or prunes the corridor back to its junction.
func (c *genContext) resolveCorridors() {
	for _, p := range c.deadEnds() {
		dir, ok := c.deadEnd(p[0], p[1])
		if !ok {
			continue
		}
		if c.intn(2) == 0 {
			c.extendCorridor(p[0], p[1], dir.Opposite())
		} else {
			c.pruneCorridor(p[0], p[1])
		}
	}
}

// extendCorridor walks from (x,z) toward d through empty cells. If it meets
// floor the walked cells join the corridor; otherwise nothing changes.
func (c *genContext) extendCorridor(x, z int, d level.Direction) bool {
	id := c.roomOf(x, z)
	dx, dz := d.Offset()
	var path [][2]int
	cx, cz := x, z
	for {
		nx, nz := cx+dx, cz+dz
		if !c.interior(nx, nz) || c.reserved[c.idx(nx, nz)] {
			return false
		}
		if c.isFloor(nx, nz) {
			for _, p := range path {
				c.cell(p[0], p[1]).Floor = level.Some(id)
			}
			if c.roomOf(nx, nz) != id {
				c.cutDoor(cx, cz, d)
			}
			return true
		}
		path = append(path, [2]int{nx, nz})
		cx, cz = nx, nz
	}
}

func (c *genContext) pruneCorridor(x, z int) {
	for {
		dir, ok := c.deadEnd(x, z)
		if !ok {
			return
		}
		c.clearCell(x, z)
		dx, dz := dir.Offset()
		x, z = x+dx, z+dz
	}
}

// attachTreasureRooms puts a 3x3 treasure room beyond each remaining dead
// end that has the room for one.
func (c *genContext) attachTreasureRooms() {
	for _, p := range c.deadEnds() {
		dir, ok := c.deadEnd(p[0], p[1])
		if !ok {
			continue
		}
		out := dir.Opposite()
		dx, dz := out.Offset()
		r := rect{p[0] + dx, p[1] + dz, p[0] + 3*dx, p[1] + 3*dz}
		if dx == 0 {
			r.x0, r.x1 = p[0]-1, p[0]+1
		} else {
			r.z0, r.z1 = p[1]-1, p[1]+1
		}
		if r.x0 > r.x1 {
			r.x0, r.x1 = r.x1, r.x0
		}
		if r.z0 > r.z1 {
			r.z0, r.z1 = r.z1, r.z0
		}
		if !c.free(r) {
			continue
		}
		c.stamp(r, c.newRoom())
		c.cutDoor(p[0], p[1], out)
		cx, cz := r.center()
		c.flags[c.idx(cx, cz)] |= FlagItem | FlagTreasureRoom
	}
}

// synthesizeWalls walls off floor from empty space and separates floor
// cells of different rooms that no door joins.
func (c *genContext) synthesizeWalls() {
	textures := wallStyles[c.p.WallStyle]
	c.eachMain(func(x, z int) {
		here := c.isFloor(x, z)
		for _, d := range level.AllDirections() {
			dx, dz := d.Offset()
			nx, nz := x+dx, z+dz
			if !c.inGrid(nx, nz) {
				continue
			}
			there := c.isFloor(nx, nz)
			switch {
			case !here && there:
			case here && there && (d == level.North || d == level.East) &&
				c.roomOf(x, z) != c.roomOf(nx, nz) && !c.hasDoor(x, z, d):
			default:
				continue
			}
			c.g.SetWall(x, mainY, z, d, level.Some(textures[c.intn(len(textures))]))
		}
	})
}

func (c *genContext) clearEmptyFaces() {
	c.eachMain(func(x, z int) {
		if c.isFloor(x, z) {
			return
		}
		for _, d := range []level.Direction{level.North, level.East} {
			dx, dz := d.Offset()
			if c.inGrid(x+dx, z+dz) && !c.isFloor(x+dx, z+dz) {
				c.g.OpenFace(x, mainY, z, d)
			}
		}
	})
}

func (c *genContext) assignTextures() {
	floors := floorStyles[c.p.FloorStyle]
	ceiling := ceilingTextures[0]
	if c.p.Floor > 0 {
		ceiling = ceilingTextures[c.p.Floor%len(ceilingTextures)]
	}
	c.eachMain(func(x, z int) {
		if !c.isFloor(x, z) {
			return
		}
		cl := c.cell(x, z)
		cl.Floor = level.Some(floors[c.intn(len(floors))])
		cl.Ceiling = level.Some(ceiling)
	})
}

// resolveDeadEndDoors gives each door-less cell with a single open face a
// door on the far side, or failing that on a side whose neighbor has no
// doors across that axis.
func (c *genContext) resolveDeadEndDoors() {
	c.eachMain(func(x, z int) {
		if !c.isFloor(x, z) {
			return
		}
		cl := c.cell(x, z)
		if cl.DoorCount() != 0 {
			return
		}
		var open []level.Direction
		for _, d := range level.AllDirections() {
			if cl.Open(d) {
				open = append(open, d)
			}
		}
		if len(open) != 1 {
			return
		}
		back := open[0].Opposite()
		if c.neighborFloor(x, z, back) {
			c.cutDoor(x, z, back)
			return
		}
		p1, p2 := back.Perpendicular()
		for _, p := range []level.Direction{p1, p2} {
			if !c.neighborFloor(x, z, p) {
				continue
			}
			dx, dz := p.Offset()
			n := c.cell(x+dx, z+dz)
			q1, q2 := p.Perpendicular()
			if n.Doors[q1].Present() || n.Doors[q2].Present() {
				continue
			}
			c.cutDoor(x, z, p)
			return
		}
	})
}

func (c *genContext) neighborFloor(x, z int, d level.Direction) bool {
	dx, dz := d.Offset()
	return c.isFloor(x+dx, z+dz)
}

// consolidatePassages opens door faces that separate nothing.
func (c *genContext) consolidatePassages() {
	c.eachMain(func(x, z int) {
		if !c.isFloor(x, z) {
			return
		}
		for _, d := range []level.Direction{level.North, level.East} {
			if c.hasDoor(x, z, d) && c.neighborFloor(x, z, d) && c.redundantDoor(x, z, d) {
				c.g.OpenFace(x, mainY, z, d)
			}
		}
	})
}

// redundantDoor reports whether the door on side d of (x,z) can be removed
// without changing how the level reads.
func (c *genContext) redundantDoor(x, z int, d level.Direction) bool {
	dx, dz := d.Offset()
	nx, nz := x+dx, z+dz
	here, there := c.cell(x, z), c.cell(nx, nz)
	p1, p2 := d.Perpendicular()

	// Straight one-wide passage: both cells walled across the door's axis.
	if here.Walls[p1].Present() && here.Walls[p2].Present() &&
		there.Walls[p1].Present() && there.Walls[p2].Present() {
		return true
	}

	// A corridor cell whose only door leads into a tunnel.
	if (c.passageCell(x, z) && c.tunnel(nx, nz)) || (c.passageCell(nx, nz) && c.tunnel(x, z)) {
		return true
	}

	// The cells are already joined through an open face beside the door.
	for _, p := range []level.Direction{p1, p2} {
		px, pz := p.Offset()
		if !here.Open(p) || !there.Open(p) || !c.isFloor(x+px, z+pz) || !c.isFloor(nx+px, nz+pz) {
			continue
		}
		if c.cell(x+px, z+pz).Open(d) {
			return true
		}
	}
	return false
}

// passageCell reports whether (x,z) is part of a one-wide corridor, with at
// least two walls, and has a single door.
func (c *genContext) passageCell(x, z int) bool {
	cl := c.cell(x, z)
	return cl.WallCount() >= 2 && cl.DoorCount() == 1
}

func (c *genContext) formatTreasureRooms() {
	c.eachMain(func(x, z int) {
		if !c.flags[c.idx(x, z)].Has(FlagTreasureRoom) || !c.isFloor(x, z) {
			return
		}
		for bz := z - 1; bz <= z+1; bz++ {
			for bx := x - 1; bx <= x+1; bx++ {
				if !c.isFloor(bx, bz) {
					continue
				}
				cl := c.cell(bx, bz)
				cl.Floor = level.Some(TreasureFloorTexture)
				for _, d := range level.AllDirections() {
					if cl.Walls[d].Present() && !cl.Doors[d].Present() {
						c.g.SetWall(bx, mainY, bz, d, level.Some(TreasureWallTexture))
					}
				}
			}
		}
	})
}

// lockDoors rolls each door face once from each side; either roll locks it.
func (c *genContext) lockDoors() {
	c.eachMain(func(x, z int) {
		for _, d := range level.AllDirections() {
			if !c.hasDoor(x, z, d) {
				continue
			}
			if c.intn(100) < c.p.DoorLockPercent {
				c.g.SetLocked(x, mainY, z, d, true)
			}
		}
	})
}
