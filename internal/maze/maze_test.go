package maze

import (
	"strings"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/level"
)

func TestBuildLevelZeroScenario(t *testing.T) {
	a := Build(0)
	b := Build(0)

	rowsA, rowsB := a.Rows(), b.Rows()
	if strings.Join(rowsA, "\n") != strings.Join(rowsB, "\n") {
		t.Fatalf("level 0 maps differ:\n%s\n---\n%s", strings.Join(rowsA, "\n"), strings.Join(rowsB, "\n"))
	}

	joined := strings.Join(rowsA, "")
	for _, ch := range []string{"S", "E", "T"} {
		if n := strings.Count(joined, ch); n != 1 {
			t.Errorf("map contains %d %q cells, want 1", n, ch)
		}
	}

	g := a.Grid
	if g.SizeX != 18 || g.SizeY != 1 || g.SizeZ != 18 {
		t.Errorf("grid size = %dx%dx%d, want 18x1x18", g.SizeX, g.SizeY, g.SizeZ)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for lvl := 0; lvl < 25; lvl++ {
		a := Generate(lvl)
		b := Generate(lvl)
		if !a.Equal(b) {
			t.Errorf("level %d: grids differ", lvl)
		}
		if a.Fingerprint() != b.Fingerprint() {
			t.Errorf("level %d: fingerprints differ", lvl)
		}
	}
}

func TestDifferentLevelsDiffer(t *testing.T) {
	if Generate(1).Fingerprint() == Generate(2).Fingerprint() {
		t.Error("levels 1 and 2 produced identical grids")
	}
}

func TestBorderStaysWall(t *testing.T) {
	for lvl := 0; lvl < 25; lvl++ {
		m := Build(lvl)
		for i := 0; i < Size; i++ {
			if m.Map[0][i] != Wall || m.Map[Size-1][i] != Wall || m.Map[i][0] != Wall || m.Map[i][Size-1] != Wall {
				t.Fatalf("level %d: border opened at index %d", lvl, i)
			}
		}
	}
}

func TestGridMatchesMap(t *testing.T) {
	m := Build(7)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			open := m.Map[y][x] != Wall
			if got := m.Grid.At(x, 0, y).HasFloor(); got != open {
				t.Errorf("cell (%d,%d): floor=%v, map open=%v", x, y, got, open)
			}
		}
	}

	if !m.Grid.At(m.Exit.X, 0, m.Exit.Y).Event.Is(level.EventGoal) {
		t.Error("exit cell missing goal event")
	}
	if !m.Grid.At(m.Treasure.X, 0, m.Treasure.Y).Event.Is(level.EventTreasure) {
		t.Error("treasure cell missing treasure event")
	}
	if m.Grid.Entrance != (level.Coord{X: m.Start.X, Z: m.Start.Y}) {
		t.Errorf("entrance = %+v, want start %+v", m.Grid.Entrance, m.Start)
	}
}

func TestFaceInvariants(t *testing.T) {
	for lvl := 0; lvl < 25; lvl++ {
		g := Generate(lvl)
		if at, d, ok := level.CheckSymmetry(g); !ok {
			t.Errorf("level %d: asymmetric face %s at %+v", lvl, d, at)
		}
		if at, d, ok := level.CheckExclusive(g); !ok {
			t.Errorf("level %d: wall and door on face %s at %+v", lvl, d, at)
		}
	}
}

func TestStartReachesExit(t *testing.T) {
	for lvl := 0; lvl < 50; lvl++ {
		g := Generate(lvl)
		if !level.Reachable(g, g.Entrance).Has(g.Exit) {
			t.Errorf("level %d: exit %+v unreachable from start %+v", lvl, g.Exit, g.Entrance)
		}
	}
}

func TestWallsOnlyBetweenOpenAndClosed(t *testing.T) {
	m := Build(3)
	for y := 1; y < Size-1; y++ {
		for x := 1; x < Size-1; x++ {
			p := Point{X: x, Y: y}
			if !m.isOpen(p) {
				continue
			}
			c := m.Grid.At(x, 0, y)
			for _, d := range level.AllDirections() {
				want := !m.isOpen(p.step(d))
				if got := c.Walls[d].Present(); got != want {
					t.Errorf("cell (%d,%d) face %s: wall=%v, want %v", x, y, d, got, want)
				}
			}
		}
	}
}
