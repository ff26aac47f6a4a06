package roomgen

import (
	"fmt"

	"github.com/lawnchairsociety/dungeongen/internal/level"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/rng"
)

// MaxRequiredComplexity caps the complexity an attempt must reach to be
// accepted; higher targets still drive expansion.
const MaxRequiredComplexity = 35

// Result is a generated level together with how it was reached.
type Result struct {
	Grid       *level.Grid
	Flags      []Flags
	Attempts   int
	Complexity int
	Rooms      int
}

// Generate builds a level into a new grid, writing placement hints into
// flags, which must hold Width*Height entries. Attempts are retried on the
// same random stream until one is accepted.
func Generate(p Params, flags []Flags) (*level.Grid, error) {
	res, err := GenerateInto(p, flags)
	if err != nil {
		return nil, err
	}
	return res.Grid, nil
}

// Run is Generate with a freshly allocated flag buffer.
func Run(p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return GenerateInto(p, make([]Flags, p.Width*p.Height))
}

// GenerateInto is Generate returning the full Result.
func GenerateInto(p Params, flags []Flags) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(flags) != p.Width*p.Height {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFlagBufferSize, len(flags), p.Width*p.Height)
	}

	r := rng.NewMT19937(p.Seed)
	required := min(p.Complexity, MaxRequiredComplexity)
	for attempt := 1; ; attempt++ {
		if p.ResetFlagsOnRetry {
			clear(flags)
		}
		c := newContext(p, r, flags)
		exit := c.attempt()
		// Reachability of the exit is required on top of the exit and
		// complexity checks, so a seed can settle on a later attempt than
		// it would under those two checks alone.
		if exit && c.complexity >= required && c.exitReachable() {
			logger.Info("Room expansion level generated",
				"seed", p.Seed,
				"floor", p.Floor,
				"size", fmt.Sprintf("%dx%d", p.Width, p.Height),
				"attempts", attempt,
				"complexity", c.complexity,
				"rooms", c.rooms)
			return &Result{
				Grid:       c.g,
				Flags:      flags,
				Attempts:   attempt,
				Complexity: c.complexity,
				Rooms:      c.rooms,
			}, nil
		}
		logger.Debug("Room expansion attempt rejected",
			"seed", p.Seed,
			"attempt", attempt,
			"complexity", c.complexity,
			"required", required,
			"exit", exit)
		c.g.Release()
	}
}

// attempt runs one full pass and reports whether an exit was placed.
func (c *genContext) attempt() bool {
	c.placeEntrance()
	c.postProcess()
	return c.finalize()
}

func (c *genContext) exitReachable() bool {
	return level.Reachable(c.g, c.g.Entrance).Has(c.g.Exit)
}
