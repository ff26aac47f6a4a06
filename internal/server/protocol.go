package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lawnchairsociety/dungeongen/internal/level"
	"github.com/lawnchairsociety/dungeongen/internal/maze"
	"github.com/lawnchairsociety/dungeongen/internal/roomgen"
)

// Level kinds a client may request.
const (
	KindMaze  = "maze"
	KindRooms = "rooms"
)

// minCellsPerComplexity keeps room expansion requests satisfiable: below
// this many cells per complexity point the retry loop may never finish.
const minCellsPerComplexity = 24

var (
	ErrUnknownKind   = errors.New("unknown level kind")
	ErrNegativeLevel = errors.New("maze level must not be negative")
	ErrTooLarge      = errors.New("requested level is too large")
	ErrUnsatisfiable = errors.New("requested complexity does not fit the level size")
)

// Request is one generation request. Rooms overlays the service's room
// expansion defaults, so a client only sends the fields it changes.
type Request struct {
	RequestID string          `json:"request_id,omitempty"`
	Kind      string          `json:"kind"`
	Level     int             `json:"level,omitempty"`
	Rooms     json.RawMessage `json:"rooms,omitempty"`
	PaintPath bool            `json:"paint_path,omitempty"`
	Save      bool            `json:"save,omitempty"`
}

// Response carries a generated level or an error.
type Response struct {
	RequestID   string       `json:"request_id,omitempty"`
	Kind        string       `json:"kind,omitempty"`
	ID          int64        `json:"id,omitempty"`
	Fingerprint string       `json:"fingerprint,omitempty"`
	SizeX       int          `json:"size_x,omitempty"`
	SizeY       int          `json:"size_y,omitempty"`
	SizeZ       int          `json:"size_z,omitempty"`
	Entrance    *level.Coord `json:"entrance,omitempty"`
	Exit        *level.Coord `json:"exit,omitempty"`
	Attempts    int          `json:"attempts,omitempty"`
	PathLength  int          `json:"path_length,omitempty"`
	Map         []string     `json:"map,omitempty"`
	Error       string       `json:"error,omitempty"`
}

func errorResponse(requestID string, err error) Response {
	return Response{RequestID: requestID, Error: err.Error()}
}

// generated is a level ready to be stored and sent.
type generated struct {
	kind     string
	seed     uint32
	params   any
	grid     *level.Grid
	attempts int
	mapY     int
}

// roomParams overlays the request's room parameters on base and checks the
// result against the service limits.
func roomParams(base roomgen.Params, raw json.RawMessage, maxSize int) (roomgen.Params, error) {
	p := base
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return p, fmt.Errorf("invalid room parameters: %w", err)
		}
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	if maxSize > 0 && (p.Width > maxSize || p.Height > maxSize) {
		return p, fmt.Errorf("%w: %dx%d exceeds %d", ErrTooLarge, p.Width, p.Height, maxSize)
	}
	if p.Width*p.Height < minCellsPerComplexity*p.Complexity {
		return p, fmt.Errorf("%w: complexity %d needs at least %d cells",
			ErrUnsatisfiable, p.Complexity, minCellsPerComplexity*p.Complexity)
	}
	return p, nil
}

// generate runs the generator the request names.
func generate(req Request, base roomgen.Params, maxSize int) (*generated, error) {
	switch req.Kind {
	case KindMaze:
		if req.Level < 0 {
			return nil, ErrNegativeLevel
		}
		return &generated{
			kind:     KindMaze,
			seed:     uint32(req.Level),
			params:   map[string]int{"level": req.Level},
			grid:     maze.Generate(req.Level),
			attempts: 1,
		}, nil

	case KindRooms:
		p, err := roomParams(base, req.Rooms, maxSize)
		if err != nil {
			return nil, err
		}
		res, err := roomgen.Run(p)
		if err != nil {
			return nil, err
		}
		return &generated{
			kind:     KindRooms,
			seed:     p.Seed,
			params:   p,
			grid:     res.Grid,
			attempts: res.Attempts,
			mapY:     roomgen.MainFloor,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
}

// response describes gen, painting the entrance-to-exit path first when
// asked.
func (gen *generated) response(paintPath bool) Response {
	g := gen.grid
	resp := Response{
		Kind:        gen.kind,
		Fingerprint: g.Fingerprint(),
		SizeX:       g.SizeX,
		SizeY:       g.SizeY,
		SizeZ:       g.SizeZ,
		Attempts:    gen.attempts,
	}

	entrance := g.Entrance
	resp.Entrance = &entrance
	if g.HasExit {
		exit := g.Exit
		resp.Exit = &exit
	}

	opts := level.RenderOptions{}
	if paintPath {
		maze.PaintShortestPath(g, g.Entrance.X, g.Entrance.Z)
		for _, c := range g.Cells {
			if c.Cost >= 0 {
				resp.PathLength++
			}
		}
		opts.ShowCost = true
	}
	resp.Map = level.RenderASCII(g, gen.mapY, opts)
	return resp
}
