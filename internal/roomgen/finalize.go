package roomgen

import "github.com/lawnchairsociety/dungeongen/internal/level"

// finalize textures the entrance, places both stairways and reports whether
// an exit site was found.
func (c *genContext) finalize() bool {
	c.formatEntrance()
	c.placeUpStair()
	return c.placeExit()
}

func (c *genContext) inEntrance(x, z int) bool {
	return abs(x-c.entranceX) <= 1 && abs(z-c.entranceZ) <= 1
}

func (c *genContext) formatEntrance() {
	for z := c.entranceZ - 1; z <= c.entranceZ+1; z++ {
		for x := c.entranceX - 1; x <= c.entranceX+1; x++ {
			c.cell(x, z).Floor = level.Some(StartFloorTexture)
			c.noPlacement(x, z)
		}
	}
}

func (c *genContext) noPlacement(x, z int) {
	i := c.idx(x, z)
	c.flags[i] = c.flags[i]&^placementFlags | FlagNoPlacement
}

// placeUpStair turns one reserved cell beside the entrance into the up
// stairway, open only toward the entrance room.
func (c *genContext) placeUpStair() {
	side := c.stairSides[c.intn(len(c.stairSides))]
	dx, dz := side.Offset()
	sx, sz := c.entranceX+2*dx, c.entranceZ+2*dz
	facing := side.Opposite()

	s := c.cell(sx, sz)
	s.Floor = level.Some(StartFloorTexture)
	s.Ceiling = c.cell(c.entranceX, c.entranceZ).Ceiling
	s.Stair = level.Some(level.StairUp)
	s.StairDir = facing.Orientation()
	for _, d := range level.AllDirections() {
		if d == facing {
			c.g.OpenFace(sx, mainY, sz, d)
		} else {
			c.g.SetWall(sx, mainY, sz, d, level.Some(StairWallTexture))
		}
	}
	c.reserved[c.idx(sx, sz)] = false
	c.noPlacement(sx, sz)
	c.g.Entrance = level.Coord{X: c.entranceX + dx, Y: mainY, Z: c.entranceZ + dz}
}

// tunnel reports whether (x,z) is walled on two opposite faces.
func (c *genContext) tunnel(x, z int) bool {
	cl := c.cell(x, z)
	return (cl.Walls[level.North].Present() && cl.Walls[level.South].Present()) ||
		(cl.Walls[level.East].Present() && cl.Walls[level.West].Present())
}

func (c *genContext) nearStair(x, z int) bool {
	for nz := z - 1; nz <= z+1; nz++ {
		for nx := x - 1; nx <= x+1; nx++ {
			if c.inGrid(nx, nz) && c.cell(nx, nz).Stair.Present() {
				return true
			}
		}
	}
	return false
}

// opening returns a direction d in which (x,z) looks onto a three-wide
// open area: the cell ahead and the cells beside both of them form an
// open 3x2 block of floor.
func (c *genContext) opening(x, z int) (level.Direction, bool) {
	here := c.cell(x, z)
	for _, d := range level.AllDirections() {
		p1, p2 := d.Perpendicular()
		dx, dz := d.Offset()
		fx, fz := x+dx, z+dz
		if !c.isFloor(fx, fz) || !here.Open(d) || !here.Open(p1) || !here.Open(p2) {
			continue
		}
		ahead := c.cell(fx, fz)
		if !ahead.Open(p1) || !ahead.Open(p2) {
			continue
		}
		ok := true
		for _, p := range []level.Direction{p1, p2} {
			px, pz := p.Offset()
			if !c.isFloor(x+px, z+pz) || !c.isFloor(fx+px, fz+pz) || !c.cell(x+px, z+pz).Open(d) {
				ok = false
			}
		}
		if ok {
			return d, true
		}
	}
	return 0, false
}

type exitSite struct {
	x, z int
	open level.Direction
}

func (c *genContext) exitSites() []exitSite {
	var sites []exitSite
	for z := 1; z <= c.height-2; z++ {
		for x := 1; x <= c.width-2; x++ {
			if !c.isFloor(x, z) || c.inEntrance(x, z) {
				continue
			}
			cl := c.cell(x, z)
			if cl.DoorCount() != 0 || cl.Stair.Present() || c.tunnel(x, z) || c.nearStair(x, z) {
				continue
			}
			ok := true
			for _, d := range level.AllDirections() {
				dx, dz := d.Offset()
				if cl.Open(d) && c.isFloor(x+dx, z+dz) && c.tunnel(x+dx, z+dz) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			if d, ok := c.opening(x, z); ok {
				sites = append(sites, exitSite{x: x, z: z, open: d})
			}
		}
	}
	return sites
}

// placeExit picks an exit site, builds the down stairway and its landing on
// the floor below, and darkens the empty cells around it.
func (c *genContext) placeExit() bool {
	sites := c.exitSites()
	if len(sites) == 0 {
		return false
	}
	site := sites[c.intn(len(sites))]
	x, z := site.x, site.z

	e := c.cell(x, z)
	e.Floor = level.Some(ExitFloorTexture)
	e.Stair = level.Some(level.StairDown)
	e.StairDir = site.open.Orientation()

	landing := c.g.At(x, landingY, z)
	landing.Floor = level.Some(ExitFloorTexture)
	landing.Ceiling = e.Ceiling
	for _, d := range level.AllDirections() {
		if d == site.open {
			continue
		}
		c.g.SetWall(x, mainY, z, d, level.Some(StairWallTexture))
		c.g.SetWall(x, landingY, z, d, level.Some(ExitOuterWallTexture))
	}

	for nz := z - 1; nz <= z+1; nz++ {
		for nx := x - 1; nx <= x+1; nx++ {
			if !c.isFloor(nx, nz) {
				c.cell(nx, nz).Ceiling = level.Some(DarkCeilingTexture)
			}
			c.noPlacement(nx, nz)
		}
	}

	c.g.Exit = level.Coord{X: x, Y: mainY, Z: z}
	c.g.HasExit = true
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
