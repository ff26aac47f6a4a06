package roomgen

import (
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/level"
	"github.com/lawnchairsociety/dungeongen/internal/rng"
)

func testContext(seed uint32) *genContext {
	p := DefaultParams()
	p.Seed = seed
	return newContext(p, rng.NewMT19937(seed), make([]Flags, p.Width*p.Height))
}

func TestRectMidpoint(t *testing.T) {
	r := rect{2, 3, 6, 7}
	tests := []struct {
		d    level.Direction
		x, z int
	}{
		{level.North, 4, 7},
		{level.South, 4, 3},
		{level.East, 6, 5},
		{level.West, 2, 5},
	}
	for _, tt := range tests {
		x, z := r.midpoint(tt.d)
		if x != tt.x || z != tt.z {
			t.Errorf("midpoint(%s) = (%d,%d), want (%d,%d)", tt.d, x, z, tt.x, tt.z)
		}
	}
	if got := len(r.edge(level.East)); got != 5 {
		t.Errorf("edge(East) has %d cells, want 5", got)
	}
}

func TestDirectionPoolDrawsEachOnce(t *testing.T) {
	c := testContext(3)
	pool := newDirectionPool()
	pool.remove(level.South)
	seen := map[level.Direction]int{}
	for !pool.empty() {
		seen[pool.draw(c)]++
	}
	if len(seen) != 3 || seen[level.South] != 0 {
		t.Errorf("drew %v, want North, East and West once each", seen)
	}
}

func TestAreaExtents(t *testing.T) {
	c := testContext(9)
	for i := 0; i < 200; i++ {
		d := level.AllDirections()[i%4]
		a := c.area(15, 15, d)
		along, cross := a.height(), a.width()
		if d == level.East || d == level.West {
			along, cross = a.width(), a.height()
		}
		if along < 2 || along > 6 || cross < 3 || cross > 7 || cross%2 != 1 {
			t.Fatalf("area toward %s = %+v: along %d cross %d", d, a, along, cross)
		}
		dx, dz := d.Offset()
		nx, nz := a.midpoint(d.Opposite())
		if nx != 15+dx || nz != 15+dz {
			t.Fatalf("area toward %s = %+v does not start next to the origin", d, a)
		}
	}
}

func TestExpandStopsAtTarget(t *testing.T) {
	c := testContext(1)
	c.stamp(rect{10, 10, 12, 12}, c.newRoom())
	c.target = 0
	if c.expand(12, 11, level.East) {
		t.Fatal("expand succeeded with target already reached")
	}
	if c.rooms != 1 {
		t.Errorf("rooms = %d, want 1", c.rooms)
	}
}

func TestExpandCollision(t *testing.T) {
	c := testContext(1)
	c.stamp(rect{1, 1, c.width - 2, c.height - 2}, c.newRoom())
	if c.expand(10, 10, level.North) {
		t.Fatal("expand succeeded into occupied space")
	}
	if c.rooms != 1 || c.complexity != 0 {
		t.Errorf("rooms = %d complexity = %d after failed expansion", c.rooms, c.complexity)
	}
}

func TestExpandGrowsConnectedRooms(t *testing.T) {
	c := testContext(5)
	c.stamp(rect{14, 14, 16, 16}, c.newRoom())
	c.target = 10
	if !c.expand(16, 15, level.East) {
		t.Fatal("expand into empty space failed")
	}
	if !c.hasDoor(16, 15, level.East) {
		t.Error("no door cut at the origin")
	}
	if c.rooms < 2 || c.complexity == 0 {
		t.Errorf("rooms = %d complexity = %d", c.rooms, c.complexity)
	}
	c.eachMain(func(x, z int) {
		if c.cell(x, z).HasFloor() && !c.interior(x, z) {
			t.Errorf("floor outside the interior at (%d,%d)", x, z)
		}
	})
}

func TestCrossPassageKeepsCenterLines(t *testing.T) {
	c := testContext(1)
	a := rect{5, 5, 7, 9}
	c.stamp(a, c.newRoom())
	c.crossPassage(a)

	a.each(func(x, z int) {
		want := x != 6 && z != 7
		if got := c.removal[c.idx(x, z)]; got != want {
			t.Errorf("(%d,%d) marked=%v, want %v", x, z, got, want)
		}
	})
	if c.complexity != 2 {
		t.Errorf("complexity = %d, want 2", c.complexity)
	}

	c.removeMarked()
	if c.cell(5, 5).HasFloor() || !c.cell(6, 5).HasFloor() || !c.cell(5, 7).HasFloor() {
		t.Error("cleanup did not leave a cross")
	}
}

func TestFourWayQuadrantsHaveOneDoor(t *testing.T) {
	c := testContext(11)
	a := rect{5, 5, 11, 11}
	id := c.newRoom()
	c.stamp(a, id)
	c.fourWay(a)

	cx, cz := a.center()
	quads := []rect{
		{a.x0, cz + 1, cx - 1, a.z1},
		{cx + 1, cz + 1, a.x1, a.z1},
		{a.x0, a.z0, cx - 1, cz - 1},
		{cx + 1, a.z0, a.x1, cz - 1},
	}
	for i, q := range quads {
		doors := 0
		q.each(func(x, z int) {
			if c.roomOf(x, z) == id {
				t.Errorf("quadrant %d cell (%d,%d) kept the parent id", i, x, z)
			}
			for _, d := range level.AllDirections() {
				if c.hasDoor(x, z, d) {
					doors++
				}
			}
		})
		if doors != 1 {
			t.Errorf("quadrant %d has %d doors, want 1", i, doors)
		}
	}
	if c.roomOf(cx, a.z0) != id || c.roomOf(a.x0, cz) != id {
		t.Error("corridor lost the parent id")
	}
	if c.complexity != 4 {
		t.Errorf("complexity = %d, want 4", c.complexity)
	}
}

func TestPruneCorridor(t *testing.T) {
	c := testContext(1)
	room := c.newRoom()
	c.stamp(rect{5, 5, 7, 7}, room)
	corridor := c.newRoom()
	c.stamp(rect{6, 8, 6, 10}, corridor)
	c.cutDoor(6, 7, level.North)

	if d, ok := c.deadEnd(6, 10); !ok || d != level.South {
		t.Fatalf("deadEnd(6,10) = %s,%v, want South,true", d, ok)
	}
	c.pruneCorridor(6, 10)

	for z := 8; z <= 10; z++ {
		if c.cell(6, z).HasFloor() {
			t.Errorf("corridor cell (6,%d) survived pruning", z)
		}
	}
	if c.hasDoor(6, 7, level.North) {
		t.Error("door into the pruned corridor remains")
	}
	if !c.cell(6, 7).HasFloor() || !c.cell(5, 5).HasFloor() {
		t.Error("pruning removed room cells")
	}
}

func TestExtendCorridor(t *testing.T) {
	c := testContext(1)
	c.stamp(rect{3, 5, 5, 7}, c.newRoom())
	corridor := c.newRoom()
	c.stamp(rect{6, 6, 6, 6}, corridor)
	c.cutDoor(5, 6, level.East)
	c.stamp(rect{10, 5, 12, 7}, c.newRoom())

	if !c.extendCorridor(6, 6, level.East) {
		t.Fatal("extension did not reach the far room")
	}
	for x := 7; x <= 9; x++ {
		if c.roomOf(x, 6) != corridor {
			t.Errorf("cell (%d,6) room = %d, want %d", x, c.roomOf(x, 6), corridor)
		}
	}
	if !c.hasDoor(9, 6, level.East) {
		t.Error("no door into the far room")
	}

	if c.extendCorridor(6, 6, level.North) {
		t.Error("extension toward the border succeeded")
	}
	if c.cell(6, 7).HasFloor() {
		t.Error("failed extension left floor behind")
	}
}

func TestAttachTreasureRoom(t *testing.T) {
	c := testContext(1)
	c.stamp(rect{5, 5, 7, 7}, c.newRoom())
	c.stamp(rect{6, 8, 6, 8}, c.newRoom())
	c.cutDoor(6, 7, level.North)

	c.attachTreasureRooms()

	if !c.hasDoor(6, 8, level.North) {
		t.Fatal("no door into the treasure room")
	}
	if !c.flags[c.idx(6, 10)].Has(FlagItem | FlagTreasureRoom) {
		t.Errorf("treasure room center flags = %v", c.flags[c.idx(6, 10)])
	}
	for z := 9; z <= 11; z++ {
		for x := 5; x <= 7; x++ {
			if !c.isFloor(x, z) {
				t.Errorf("treasure room cell (%d,%d) has no floor", x, z)
			}
		}
	}
}
