package roomgen

import "github.com/lawnchairsociety/dungeongen/internal/level"

// createRoom shapes the freshly stamped rectangle a, entered from d, and
// adds the chosen layout's weight to the attempt's complexity.
func (c *genContext) createRoom(a rect, d level.Direction, id int) {
	w, h := a.width(), a.height()
	switch {
	case w <= 2 || h <= 2:
		c.plainRoom(a)
	case w == 3 || h == 3:
		switch c.intn(3) {
		case 0:
			c.plainRoom(a)
		case 1:
			c.treasureMarker(a)
		default:
			c.crossPassage(a)
		}
	case w > 5 && h > 5 && c.intn(5) == 0:
		c.fourWay(a)
	default:
		switch c.intn(3) {
		case 0:
			c.splitTwo(a, d)
		case 1:
			switch {
			case w >= 6 && h >= 6:
				c.quadrants(a)
			case w >= 5 && h >= 5:
				c.innerRoom(a)
			default:
				c.plainRoom(a)
			}
		default:
			c.halfRoom(a)
		}
	}
}

func (c *genContext) plainRoom(a rect) {
	c.scatter(a)
	c.complexity++
}

func (c *genContext) treasureMarker(a rect) {
	cx, cz := a.center()
	c.flags[c.idx(cx, cz)] |= FlagItem | FlagTreasureRoom
	c.scatter(a)
	c.complexity += 2
}

// crossPassage keeps only the center row and column. Every edge midpoint
// lies on one of them.
func (c *genContext) crossPassage(a rect) {
	cx, cz := a.center()
	a.each(func(x, z int) {
		if x != cx && z != cz {
			c.markRemoval(x, z)
		}
	})
	c.scatter(a)
	c.complexity += 2
}

// fourWay keeps a plus-shaped corridor through the center and turns each
// quadrant into its own room with one door onto the corridor.
func (c *genContext) fourWay(a rect) {
	cx, cz := a.center()
	quads := []struct {
		r      rect
		toward [2]level.Direction
	}{
		{rect{a.x0, cz + 1, cx - 1, a.z1}, [2]level.Direction{level.East, level.South}},
		{rect{cx + 1, cz + 1, a.x1, a.z1}, [2]level.Direction{level.West, level.South}},
		{rect{a.x0, a.z0, cx - 1, cz - 1}, [2]level.Direction{level.East, level.North}},
		{rect{cx + 1, a.z0, a.x1, cz - 1}, [2]level.Direction{level.West, level.North}},
	}
	for _, q := range quads {
		c.stamp(q.r, c.newRoom())
		c.doorOut(q.r, q.toward[c.intn(2)])
		c.scatter(q.r)
	}
	c.complexity += 4
}

// splitTwo runs a one-wide corridor along the entry axis with a room on
// either side. A room that is wider across the entry than it is deep gets a
// corner room or a spiral instead.
func (c *genContext) splitTwo(a rect, d level.Direction) {
	vertical := d == level.North || d == level.South
	along, cross := a.height(), a.width()
	if !vertical {
		along, cross = a.width(), a.height()
	}
	if along < cross || cross < 5 {
		if c.intn(2) == 0 {
			c.cornerRoom(a)
		} else {
			c.spiral(a, d)
		}
		return
	}

	cx, cz := a.center()
	var left, right rect
	var leftDoor, rightDoor level.Direction
	if vertical {
		left, right = rect{a.x0, a.z0, cx - 1, a.z1}, rect{cx + 1, a.z0, a.x1, a.z1}
		leftDoor, rightDoor = level.East, level.West
	} else {
		left, right = rect{a.x0, a.z0, a.x1, cz - 1}, rect{a.x0, cz + 1, a.x1, a.z1}
		leftDoor, rightDoor = level.North, level.South
	}
	c.stamp(left, c.newRoom())
	c.doorOut(left, leftDoor)
	c.stamp(right, c.newRoom())
	c.doorOut(right, rightDoor)
	c.scatter(left)
	c.scatter(right)
	c.complexity += 2
}

// cornerRoom carves a smaller room out of one corner. Its sides stay within
// half the parent, so the entry cell and the L-shaped rest are untouched.
func (c *genContext) cornerRoom(a rect) {
	sw := c.between(2, max(2, a.width()/2))
	sh := c.between(2, max(2, a.height()/2))
	var sub rect
	var inward [2]level.Direction
	switch c.intn(4) {
	case 0:
		sub = rect{a.x0, a.z0, a.x0 + sw - 1, a.z0 + sh - 1}
		inward = [2]level.Direction{level.East, level.North}
	case 1:
		sub = rect{a.x1 - sw + 1, a.z0, a.x1, a.z0 + sh - 1}
		inward = [2]level.Direction{level.West, level.North}
	case 2:
		sub = rect{a.x0, a.z1 - sh + 1, a.x0 + sw - 1, a.z1}
		inward = [2]level.Direction{level.East, level.South}
	default:
		sub = rect{a.x1 - sw + 1, a.z1 - sh + 1, a.x1, a.z1}
		inward = [2]level.Direction{level.West, level.South}
	}
	c.stamp(sub, c.newRoom())
	c.doorOut(sub, inward[c.intn(2)])
	c.scatter(a)
	c.complexity += 3
}

// spiral hollows the room into a ring corridor with a hook running inward
// from the far side.
func (c *genContext) spiral(a rect, d level.Direction) {
	inner := rect{a.x0 + 1, a.z0 + 1, a.x1 - 1, a.z1 - 1}
	hook := make(map[[2]int]bool)
	if inner.width() > 0 && inner.height() > 0 {
		back := d.Opposite()
		bx, bz := back.Offset()
		x, z := a.midpoint(d)
		length := a.height()
		if d == level.East || d == level.West {
			length = a.width()
		}
		for i := 0; i < (length-2)/2; i++ {
			x, z = x+bx, z+bz
			hook[[2]int{x, z}] = true
		}
		inner.each(func(x, z int) {
			if !hook[[2]int{x, z}] {
				c.markRemoval(x, z)
			}
		})
	}
	c.scatter(a)
	c.complexity += 3
}

// quadrants splits the room into four rooms joined in a cycle, with one of
// the four doors sometimes left out.
func (c *genContext) quadrants(a rect) {
	mx, mz := a.x0+a.width()/2, a.z0+a.height()/2
	sw := rect{a.x0, a.z0, mx - 1, mz - 1}
	se := rect{mx, a.z0, a.x1, mz - 1}
	nw := rect{a.x0, mz, mx - 1, a.z1}
	ne := rect{mx, mz, a.x1, a.z1}
	c.stamp(se, c.newRoom())
	c.stamp(nw, c.newRoom())
	c.stamp(ne, c.newRoom())

	links := []struct {
		from rect
		d    level.Direction
	}{
		{sw, level.East},
		{nw, level.East},
		{sw, level.North},
		{se, level.North},
	}
	skip := c.intn(5)
	for i, l := range links {
		if i == skip {
			continue
		}
		c.doorOut(l.from, l.d)
	}
	c.scatter(a)
	c.complexity += 4
}

// innerRoom nests a room two cells inside the outer one. A single-cell
// inner room becomes a closet holding an item.
func (c *genContext) innerRoom(a rect) {
	inner := rect{a.x0 + 2, a.z0 + 2, a.x1 - 2, a.z1 - 2}
	c.stamp(inner, c.newRoom())
	c.doorOut(inner, level.AllDirections()[c.intn(4)])
	if inner.width() == 1 && inner.height() == 1 {
		c.flags[c.idx(inner.x0, inner.z0)] |= FlagItem
	}
	c.scatter(a)
	c.complexity += 3
}

// halfRoom splits along the longer side into two rooms sharing one door.
func (c *genContext) halfRoom(a rect) {
	var far rect
	var d level.Direction
	if a.width() >= a.height() {
		mx := a.x0 + a.width()/2
		far = rect{mx, a.z0, a.x1, a.z1}
		d = level.West
	} else {
		mz := a.z0 + a.height()/2
		far = rect{a.x0, mz, a.x1, a.z1}
		d = level.South
	}
	c.stamp(far, c.newRoom())
	c.doorOut(far, d)
	c.scatter(a)
	c.complexity += 2
}

// doorOut cuts a door from a random cell on side d of r to the cell beyond.
func (c *genContext) doorOut(r rect, d level.Direction) {
	cells := r.edge(d)
	p := cells[c.intn(len(cells))]
	c.cutDoor(p[0], p[1], d)
}
