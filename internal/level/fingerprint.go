package level

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a blake2b-256 digest over every cell and the level
// metadata. Two grids with the same fingerprint are bit-identical for all
// fields the generators write.
func (g *Grid) Fingerprint() string {
	buf := make([]byte, 0, 64+len(g.Cells)*48)

	putInt := func(v int) {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(v)))
	}
	putID := func(id ID) {
		if v, ok := id.Get(); ok {
			buf = append(buf, 1)
			putInt(v)
			return
		}
		buf = append(buf, 0)
	}
	putBool := func(b bool) {
		if b {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}

	putInt(g.SizeX)
	putInt(g.SizeY)
	putInt(g.SizeZ)
	for _, c := range []Coord{g.Entrance, g.Exit} {
		putInt(c.X)
		putInt(c.Y)
		putInt(c.Z)
	}
	putBool(g.HasExit)

	for i := range g.Cells {
		c := &g.Cells[i]
		putID(c.Floor)
		putID(c.Ceiling)
		for d := 0; d < 4; d++ {
			putID(c.Walls[d])
			putID(c.Doors[d])
			putBool(c.Locked[d])
		}
		putID(c.Stair)
		putInt(c.StairDir)
		putID(c.Event)
		putInt(c.Cost)
	}

	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
