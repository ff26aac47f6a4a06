package level

// Direction is one of the four horizontal faces of a cell.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// AllDirections returns the four cardinal directions in their canonical order.
func AllDirections() []Direction {
	return []Direction{North, South, East, West}
}

// Opposite returns the face on the adjoining cell that shares this face.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	panic("level: invalid direction")
}

// Perpendicular returns the two directions at right angles to d.
func (d Direction) Perpendicular() (Direction, Direction) {
	if d == North || d == South {
		return East, West
	}
	return North, South
}

// Offset returns the x and z step for moving one cell in direction d.
// z increases to the north.
func (d Direction) Offset() (dx, dz int) {
	switch d {
	case North:
		return 0, 1
	case South:
		return 0, -1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	panic("level: invalid direction")
}

// Orientation maps a direction to the stairway orientation index
// (0 north, 1 east, 2 south, 3 west).
func (d Direction) Orientation() int {
	switch d {
	case North:
		return 0
	case East:
		return 1
	case South:
		return 2
	case West:
		return 3
	}
	panic("level: invalid direction")
}

// DirectionFromOrientation is the inverse of Orientation.
func DirectionFromOrientation(o int) (Direction, bool) {
	switch o {
	case 0:
		return North, true
	case 1:
		return East, true
	case 2:
		return South, true
	case 3:
		return West, true
	}
	return North, false
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "unknown"
}

// ParseDirection parses the names produced by String.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north":
		return North, true
	case "south":
		return South, true
	case "east":
		return East, true
	case "west":
		return West, true
	}
	return North, false
}
