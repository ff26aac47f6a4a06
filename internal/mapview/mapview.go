// Package mapview prints rendered levels to a terminal.
package mapview

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/lawnchairsociety/dungeongen/internal/level"
)

var (
	ColorWall     = color.Style{color.FgGray}
	ColorDoor     = color.Style{color.FgYellow}
	ColorLocked   = color.Style{color.FgRed, color.OpBold}
	ColorFloor    = color.Style{color.FgDarkGray}
	ColorPath     = color.Style{color.FgCyan, color.OpBold}
	ColorStair    = color.Style{color.FgGreen, color.OpBold}
	ColorGoal     = color.Style{color.FgMagenta, color.OpBold}
	ColorTreasure = color.Style{color.FgLightYellow, color.OpBold}
)

// styleFor returns the style for one map glyph, or nil to print it plain.
func styleFor(b byte) color.Style {
	switch {
	case b == level.GlyphWallH, b == level.GlyphWallV, b == level.GlyphCorner:
		return ColorWall
	case b == level.GlyphDoor:
		return ColorDoor
	case b == level.GlyphLockedDoor:
		return ColorLocked
	case b == level.GlyphFloor:
		return ColorFloor
	case b >= '0' && b <= '9':
		return ColorPath
	case b == level.GlyphStairUp, b == level.GlyphStairDown:
		return ColorStair
	case b == level.GlyphGoal:
		return ColorGoal
	case b == level.GlyphTreasure:
		return ColorTreasure
	}
	return nil
}

// Colorize joins rows into one block, one line per row, with each glyph
// styled. Runs of the same glyph share one escape sequence.
func Colorize(rows []string) string {
	var sb strings.Builder
	for _, row := range rows {
		for i := 0; i < len(row); {
			j := i + 1
			for j < len(row) && row[j] == row[i] {
				j++
			}
			run := row[i:j]
			if style := styleFor(row[i]); style != nil {
				sb.WriteString(style.Sprint(run))
			} else {
				sb.WriteString(run)
			}
			i = j
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Print writes floor y of g to w, colored unless plain is set.
func Print(w io.Writer, g *level.Grid, y int, opts level.RenderOptions, plain bool) error {
	rows := level.RenderASCII(g, y, opts)
	if plain {
		_, err := io.WriteString(w, strings.Join(rows, "\n")+"\n")
		return err
	}
	_, err := io.WriteString(w, Colorize(rows))
	return err
}

// Legend describes the map glyphs.
func Legend() string {
	entries := []struct {
		glyph byte
		text  string
	}{
		{level.GlyphFloor, "floor"},
		{level.GlyphWallH, "wall (north/south)"},
		{level.GlyphWallV, "wall (east/west)"},
		{level.GlyphDoor, "door"},
		{level.GlyphLockedDoor, "locked door"},
		{level.GlyphStairUp, "stairs up (entrance)"},
		{level.GlyphStairDown, "stairs down (exit)"},
		{level.GlyphGoal, "goal"},
		{level.GlyphTreasure, "treasure"},
		{'0', "path step (distance mod 10)"},
	}

	var sb strings.Builder
	sb.WriteString("Legend:\n")
	for _, e := range entries {
		glyph := string(e.glyph)
		if style := styleFor(e.glyph); style != nil {
			glyph = style.Sprint(glyph)
		}
		fmt.Fprintf(&sb, "  %s  %s\n", glyph, e.text)
	}
	return sb.String()
}

// Summary is a one-paragraph description of a level.
func Summary(g *level.Grid) string {
	var floors, doors, locked int
	for i := range g.Cells {
		c := &g.Cells[i]
		if c.HasFloor() {
			floors++
		}
		// count each shared face once, from its south/west side
		for _, d := range []level.Direction{level.North, level.East} {
			if c.Doors[d].Present() {
				doors++
				if c.Locked[d] {
					locked++
				}
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Size:        %dx%dx%d\n", g.SizeX, g.SizeY, g.SizeZ)
	fmt.Fprintf(&sb, "Fingerprint: %s\n", g.Fingerprint())
	fmt.Fprintf(&sb, "Floor cells: %d\n", floors)
	fmt.Fprintf(&sb, "Doors:       %d (%d locked)\n", doors, locked)
	fmt.Fprintf(&sb, "Entrance:    (%d, %d, %d)\n", g.Entrance.X, g.Entrance.Y, g.Entrance.Z)
	if g.HasExit {
		fmt.Fprintf(&sb, "Exit:        (%d, %d, %d)\n", g.Exit.X, g.Exit.Y, g.Exit.Z)
	} else {
		sb.WriteString("Exit:        none\n")
	}
	return sb.String()
}
