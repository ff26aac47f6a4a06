package roomgen

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/level"
)

func scenarioParams() Params {
	p := DefaultParams()
	p.Seed = 42
	p.Width, p.Height = 30, 30
	p.Complexity = 20
	p.DoorLockPercent = 0
	return p
}

func mustRun(t *testing.T, p Params) *Result {
	t.Helper()
	res, err := Run(p)
	if err != nil {
		t.Fatalf("Run(%+v): %v", p, err)
	}
	return res
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
		want   error
	}{
		{"defaults", func(p *Params) {}, nil},
		{"wall style", func(p *Params) { p.WallStyle = 2 }, ErrUnknownWallStyle},
		{"floor style", func(p *Params) { p.FloorStyle = 0 }, ErrUnknownFloorStyle},
		{"narrow", func(p *Params) { p.Width = MinSize - 1 }, ErrGridTooSmall},
		{"short", func(p *Params) { p.Height = 3 }, ErrGridTooSmall},
		{"seven square", func(p *Params) { p.Width, p.Height = 7, 7 }, ErrGridTooSmall},
		{"seven wide", func(p *Params) { p.Width = 7 }, ErrGridTooSmall},
		{"smallest", func(p *Params) { p.Width, p.Height = MinSize, MinSize }, nil},
		{"lock percent", func(p *Params) { p.DoorLockPercent = 101 }, ErrDoorLockPercent},
		{"negative lock percent", func(p *Params) { p.DoorLockPercent = -1 }, ErrDoorLockPercent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			err := p.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerateConfigErrors(t *testing.T) {
	p := scenarioParams()
	p.WallStyle = 7
	if _, err := Generate(p, make([]Flags, p.Width*p.Height)); !errors.Is(err, ErrUnknownWallStyle) {
		t.Errorf("Generate with wall style 7 = %v, want %v", err, ErrUnknownWallStyle)
	}

	p = scenarioParams()
	if _, err := Generate(p, make([]Flags, 10)); !errors.Is(err, ErrFlagBufferSize) {
		t.Errorf("Generate with short buffer = %v, want %v", err, ErrFlagBufferSize)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	p := scenarioParams()
	a := mustRun(t, p)
	b := mustRun(t, p)

	if !a.Grid.Equal(b.Grid) {
		t.Fatal("same seed produced different grids")
	}
	if a.Attempts != b.Attempts || a.Complexity != b.Complexity {
		t.Errorf("attempts/complexity differ: %d/%d vs %d/%d", a.Attempts, a.Complexity, b.Attempts, b.Complexity)
	}
	for i := range a.Flags {
		if a.Flags[i] != b.Flags[i] {
			t.Fatalf("flag %d differs: %v vs %v", i, a.Flags[i], b.Flags[i])
		}
	}

	flags := make([]Flags, p.Width*p.Height)
	g, err := Generate(p, flags)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if g.Fingerprint() != a.Grid.Fingerprint() {
		t.Error("Generate and Run disagree for the same params")
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	p := scenarioParams()
	a := mustRun(t, p)
	p.Seed = 43
	b := mustRun(t, p)
	if a.Grid.Fingerprint() == b.Grid.Fingerprint() {
		t.Error("seeds 42 and 43 produced identical grids")
	}
}

func TestScenarioInvariants(t *testing.T) {
	for seed := uint32(40); seed < 52; seed++ {
		p := scenarioParams()
		p.Seed = seed
		res := mustRun(t, p)
		g := res.Grid

		if g.SizeX != 30 || g.SizeY != 3 || g.SizeZ != 30 {
			t.Fatalf("seed %d: grid size = %dx%dx%d, want 30x3x30", seed, g.SizeX, g.SizeY, g.SizeZ)
		}
		if res.Complexity < min(p.Complexity, MaxRequiredComplexity) {
			t.Errorf("seed %d: complexity %d below target %d", seed, res.Complexity, p.Complexity)
		}
		if at, d, ok := level.CheckSymmetry(g); !ok {
			t.Errorf("seed %d: asymmetric face %s at %+v", seed, d, at)
		}
		if at, d, ok := level.CheckExclusive(g); !ok {
			t.Errorf("seed %d: wall and door share face %s at %+v", seed, d, at)
		}
		if !g.HasExit {
			t.Fatalf("seed %d: no exit recorded", seed)
		}
		if !level.Reachable(g, g.Entrance).Has(g.Exit) {
			t.Errorf("seed %d: exit %+v unreachable from entrance %+v", seed, g.Exit, g.Entrance)
		}

		for z := 0; z < g.SizeZ; z++ {
			for x := 0; x < g.SizeX; x++ {
				c := g.At(x, mainY, z)
				border := x == 0 || z == 0 || x == g.SizeX-1 || z == g.SizeZ-1
				if border && c.HasFloor() {
					t.Errorf("seed %d: floor on border cell (%d,%d)", seed, x, z)
				}
				for _, d := range level.AllDirections() {
					if c.Locked[d] {
						t.Errorf("seed %d: locked door at (%d,%d) %s with 0%% lock chance", seed, x, z, d)
					}
					if !c.Doors[d].Present() {
						continue
					}
					n, ok := g.Neighbor(x, mainY, z, d)
					if !c.HasFloor() || !ok || !n.HasFloor() {
						t.Errorf("seed %d: door at (%d,%d) %s does not join two floor cells", seed, x, z, d)
					}
				}
			}
		}
	}
}

func TestStairways(t *testing.T) {
	res := mustRun(t, scenarioParams())
	g := res.Grid

	var up *level.Cell
	for _, d := range level.AllDirections() {
		n, ok := g.Neighbor(g.Entrance.X, mainY, g.Entrance.Z, d)
		if ok && n.Stair.Is(level.StairUp) {
			up = n
		}
	}
	if up == nil {
		t.Fatalf("no up stairway next to entrance %+v", g.Entrance)
	}
	facing, ok := level.DirectionFromOrientation(up.StairDir)
	if !ok {
		t.Fatalf("up stairway orientation %d invalid", up.StairDir)
	}
	if up.Coord().Step(facing) != g.Entrance {
		t.Errorf("up stairway at %+v faces %s, away from entrance %+v", up.Coord(), facing, g.Entrance)
	}
	for _, d := range level.AllDirections() {
		if d == facing {
			if !up.Open(d) {
				t.Errorf("up stairway face %s toward the entrance is closed", d)
			}
		} else if !up.Walls[d].Is(StairWallTexture) {
			t.Errorf("up stairway face %s = %s, want stair wall", d, up.Walls[d])
		}
	}

	exit := g.AtCoord(g.Exit)
	if !exit.Stair.Is(level.StairDown) {
		t.Fatalf("exit %+v has stair %s, want down", g.Exit, exit.Stair)
	}
	open, ok := level.DirectionFromOrientation(exit.StairDir)
	if !ok {
		t.Fatalf("exit orientation %d invalid", exit.StairDir)
	}
	for _, d := range level.AllDirections() {
		if d == open {
			if !exit.Open(d) {
				t.Errorf("exit open face %s is blocked", d)
			}
			continue
		}
		if !exit.Walls[d].Present() {
			t.Errorf("exit face %s has no wall", d)
		}
	}
	if !g.At(g.Exit.X, landingY, g.Exit.Z).Floor.Is(ExitFloorTexture) {
		t.Error("exit landing below has no floor")
	}
}

func TestExitLanding(t *testing.T) {
	for seed := uint32(40); seed < 46; seed++ {
		p := scenarioParams()
		p.Seed = seed
		g := mustRun(t, p).Grid

		exit := g.AtCoord(g.Exit)
		open, ok := level.DirectionFromOrientation(exit.StairDir)
		if !ok {
			t.Fatalf("seed %d: exit orientation %d invalid", seed, exit.StairDir)
		}
		landing := g.At(g.Exit.X, landingY, g.Exit.Z)
		if !landing.Floor.Is(ExitFloorTexture) {
			t.Errorf("seed %d: landing floor = %s, want exit floor", seed, landing.Floor)
		}
		for _, d := range level.AllDirections() {
			if d == open {
				if landing.Walls[d].Present() {
					t.Errorf("seed %d: landing face %s toward the opening has a wall", seed, d)
				}
				if exit.Walls[d].Present() {
					t.Errorf("seed %d: exit face %s toward the opening has a wall", seed, d)
				}
				continue
			}
			if !landing.Walls[d].Is(ExitOuterWallTexture) {
				t.Errorf("seed %d: landing face %s = %s, want exit outer wall", seed, d, landing.Walls[d])
			}
			if !exit.Walls[d].Is(StairWallTexture) {
				t.Errorf("seed %d: exit face %s = %s, want stair wall", seed, d, exit.Walls[d])
			}
		}

		floors := 0
		for z := 0; z < g.SizeZ; z++ {
			for x := 0; x < g.SizeX; x++ {
				if g.At(x, landingY, z).HasFloor() {
					floors++
				}
			}
		}
		if floors != 1 {
			t.Errorf("seed %d: %d floor cells below the main floor, want 1", seed, floors)
		}
	}
}

func TestEntranceAndExitHaveNoPlacements(t *testing.T) {
	p := scenarioParams()
	res := mustRun(t, p)
	g := res.Grid

	// The entrance coordinate is the block's edge midpoint; find the block
	// center through the start floor texture.
	check := func(name string, cx, cz int) {
		for z := cz - 1; z <= cz+1; z++ {
			for x := cx - 1; x <= cx+1; x++ {
				f := res.Flags[FlagIndex(p.Width, x, z)]
				if f.HasPlacement() {
					t.Errorf("%s block cell (%d,%d) has placement flags %v", name, x, z, f)
				}
				if !f.Has(FlagNoPlacement) {
					t.Errorf("%s block cell (%d,%d) missing no-placement flag", name, x, z)
				}
			}
		}
	}

	found := false
	for z := 1; z < p.Height-1 && !found; z++ {
		for x := 1; x < p.Width-1 && !found; x++ {
			all := true
			for bz := z - 1; bz <= z+1; bz++ {
				for bx := x - 1; bx <= x+1; bx++ {
					if !g.At(bx, mainY, bz).Floor.Is(StartFloorTexture) {
						all = false
					}
				}
			}
			if all {
				check("entrance", x, z)
				found = true
			}
		}
	}
	if !found {
		t.Error("no 3x3 start-textured entrance block")
	}
	check("exit", g.Exit.X, g.Exit.Z)
}

func TestResetFlagsOnRetry(t *testing.T) {
	p := scenarioParams()
	p.ResetFlagsOnRetry = true
	res := mustRun(t, p)

	for z := 0; z < p.Height; z++ {
		for x := 0; x < p.Width; x++ {
			f := res.Flags[FlagIndex(p.Width, x, z)]
			if f.HasPlacement() && !res.Grid.At(x, mainY, z).HasFloor() {
				t.Errorf("placement flags %v on empty cell (%d,%d)", f, x, z)
			}
		}
	}
}

func TestLockEveryDoor(t *testing.T) {
	p := scenarioParams()
	p.DoorLockPercent = 100
	g := mustRun(t, p).Grid

	doors := 0
	for i := range g.Cells {
		c := &g.Cells[i]
		for _, d := range level.AllDirections() {
			if c.Doors[d].Present() {
				doors++
				if !c.Locked[d] {
					t.Errorf("door at %+v %s not locked", c.Coord(), d)
				}
			}
		}
	}
	if doors == 0 {
		t.Error("level has no doors")
	}
}
