package level

// Stairway kinds stored in Cell.Stair.
const (
	StairUp   = 1
	StairDown = 2
)

// Event identifiers stored in Cell.Event.
const (
	EventGoal     = 1
	EventTreasure = 2
	EventDarkness = 3
)
