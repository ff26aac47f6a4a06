// Package roomgen is the recursive room-expansion dungeon generator. It seeds
// a 3x3 entrance room, grows shaped rooms outward through freshly cut doors,
// runs the grid-wide passes that turn room ids into walls, doors and
// textures, places the stairways and retries until the level is usable.
package roomgen

import (
	"errors"
	"fmt"
)

// Configuration errors. They are returned before any generation work.
var (
	ErrUnknownWallStyle  = errors.New("unknown wall style")
	ErrUnknownFloorStyle = errors.New("unknown floor style")
	ErrFlagBufferSize    = errors.New("flag buffer size does not match width*height")
	ErrGridTooSmall      = errors.New("grid too small")
	ErrDoorLockPercent   = errors.New("door lock percent out of range")
)

// MainFloor is the y index of the playable floor. The floor below holds the
// exit landing.
const MainFloor = 1

// MinSize is the smallest width or height that leaves room for an exit site
// beside the entrance block and both stairway reservations. At 7 the
// entrance is pinned to (3,3) and no cell ever qualifies as an exit.
const MinSize = 8

// Params are the inputs of one generation call.
type Params struct {
	Floor           int    `yaml:"floor" json:"floor"`
	Complexity      int    `yaml:"complexity" json:"complexity"`
	WallStyle       int    `yaml:"wall_style" json:"wall_style"`
	FloorStyle      int    `yaml:"floor_style" json:"floor_style"`
	Width           int    `yaml:"width" json:"width"`
	Height          int    `yaml:"height" json:"height"`
	DoorLockPercent int    `yaml:"door_lock_percent" json:"door_lock_percent"`
	Seed            uint32 `yaml:"seed" json:"seed"`

	// ResetFlagsOnRetry clears the flag buffer before every attempt. Off by
	// default: flags from rejected attempts stay in the buffer, which is
	// what previously saved seeds were generated with.
	ResetFlagsOnRetry bool `yaml:"reset_flags_on_retry" json:"reset_flags_on_retry"`
}

// DefaultParams returns a mid-sized level configuration.
func DefaultParams() Params {
	return Params{
		Floor:           1,
		Complexity:      20,
		WallStyle:       1,
		FloorStyle:      1,
		Width:           30,
		Height:          30,
		DoorLockPercent: 10,
		Seed:            42,
	}
}

// Validate reports configuration errors.
func (p Params) Validate() error {
	if _, ok := wallStyles[p.WallStyle]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWallStyle, p.WallStyle)
	}
	if _, ok := floorStyles[p.FloorStyle]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFloorStyle, p.FloorStyle)
	}
	if p.Width < MinSize || p.Height < MinSize {
		return fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrGridTooSmall, p.Width, p.Height, MinSize, MinSize)
	}
	if p.DoorLockPercent < 0 || p.DoorLockPercent > 100 {
		return fmt.Errorf("%w: %d", ErrDoorLockPercent, p.DoorLockPercent)
	}
	return nil
}

// Flags are per-(x,z) placement hints left for gameplay.
type Flags uint8

const (
	FlagItem Flags = 1 << iota
	FlagEnemy
	FlagTrap
	FlagTreasureRoom
	FlagNoPlacement
)

// placementFlags are the bits that put an object on a cell.
const placementFlags = FlagItem | FlagEnemy | FlagTrap

// Has reports whether all bits of mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// HasPlacement reports whether an item, enemy or trap is requested.
func (f Flags) HasPlacement() bool {
	return f&placementFlags != 0
}

// FlagIndex returns the flag buffer slot for (x,z) on a level of the given width.
func FlagIndex(width, x, z int) int {
	return z*width + x
}

// Fixed texture and door identifiers.
const (
	DoorTexture          = 1
	StartFloorTexture    = 600
	TreasureFloorTexture = 610
	TreasureWallTexture  = 620
	StairWallTexture     = 630
	ExitFloorTexture     = 640
	ExitOuterWallTexture = 650
	DarkCeilingTexture   = 660
)

// wallStyles maps a wall style to its decorative wall textures.
var wallStyles = map[int][]int{
	1: {400, 401, 402, 403},
}

// floorStyles maps a floor style to its four floor textures.
var floorStyles = map[int][4]int{
	1: {500, 501, 502, 503},
}

var ceilingTextures = []int{700, 701, 702}
