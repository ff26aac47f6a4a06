package level

import "strings"

// RenderOptions tweaks the ASCII overlay.
type RenderOptions struct {
	// ShowCost prints the last digit of painted path costs on floor cells.
	ShowCost bool
}

// Map overlay glyphs.
const (
	GlyphFloor      = '.'
	GlyphEmpty      = ' '
	GlyphWallH      = '-'
	GlyphWallV      = '|'
	GlyphDoor       = '/'
	GlyphLockedDoor = 'X'
	GlyphCorner     = '+'
	GlyphStairUp    = '<'
	GlyphStairDown  = '>'
	GlyphGoal       = 'G'
	GlyphTreasure   = '$'
)

// RenderASCII draws floor y as a 2D map, north at the top. Every cell takes
// one character with faces drawn between cells, so the result is
// 2*SizeZ+1 lines of 2*SizeX+1 characters.
func RenderASCII(g *Grid, y int, opts RenderOptions) []string {
	rows := 2*g.SizeZ + 1
	cols := 2*g.SizeX + 1
	m := make([][]byte, rows)
	for r := range m {
		m[r] = []byte(strings.Repeat(string(GlyphEmpty), cols))
	}

	// Row 0 is the north edge of the northernmost cells.
	rowOf := func(z int) int { return 2*(g.SizeZ-1-z) + 1 }

	for z := 0; z < g.SizeZ; z++ {
		for x := 0; x < g.SizeX; x++ {
			c := g.At(x, y, z)
			r, col := rowOf(z), 2*x+1
			m[r][col] = cellGlyph(c, opts)

			for _, d := range AllDirections() {
				dx, dz := d.Offset()
				fr, fc := r-dz, col+dx
				if ch := faceGlyph(c, d); ch != GlyphEmpty {
					m[fr][fc] = ch
				}
			}
		}
	}

	for r := 0; r < rows; r += 2 {
		for col := 0; col < cols; col += 2 {
			if touchesFace(m, r, col) {
				m[r][col] = GlyphCorner
			}
		}
	}

	out := make([]string, rows)
	for r := range m {
		out[r] = strings.TrimRight(string(m[r]), " ")
	}
	return out
}

func cellGlyph(c *Cell, opts RenderOptions) byte {
	switch {
	case c.Stair.Is(StairUp):
		return GlyphStairUp
	case c.Stair.Is(StairDown):
		return GlyphStairDown
	case c.Event.Is(EventGoal):
		return GlyphGoal
	case c.Event.Is(EventTreasure):
		return GlyphTreasure
	case !c.HasFloor():
		return GlyphEmpty
	case opts.ShowCost && c.Cost >= 0:
		return byte('0' + c.Cost%10)
	}
	return GlyphFloor
}

func faceGlyph(c *Cell, d Direction) byte {
	switch {
	case c.Doors[d].Present() && c.Locked[d]:
		return GlyphLockedDoor
	case c.Doors[d].Present():
		return GlyphDoor
	case c.Walls[d].Present():
		if d == North || d == South {
			return GlyphWallH
		}
		return GlyphWallV
	}
	return GlyphEmpty
}

func touchesFace(m [][]byte, r, col int) bool {
	for _, p := range [][2]int{{r - 1, col}, {r + 1, col}, {r, col - 1}, {r, col + 1}} {
		if p[0] < 0 || p[0] >= len(m) || p[1] < 0 || p[1] >= len(m[p[0]]) {
			continue
		}
		switch m[p[0]][p[1]] {
		case GlyphWallH, GlyphWallV, GlyphDoor, GlyphLockedDoor:
			return true
		}
	}
	return false
}
