package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LevelData is the serialized form of a grid. Only cells carrying at least
// one present field are written.
type LevelData struct {
	SizeX    int        `yaml:"size_x"`
	SizeY    int        `yaml:"size_y"`
	SizeZ    int        `yaml:"size_z"`
	Entrance Coord      `yaml:"entrance"`
	Exit     *Coord     `yaml:"exit,omitempty"`
	Cells    []CellData `yaml:"cells"`
}

// CellData is one serialized cell. Face maps are keyed by direction name.
type CellData struct {
	X        int             `yaml:"x"`
	Y        int             `yaml:"y"`
	Z        int             `yaml:"z"`
	Floor    *int            `yaml:"floor,omitempty"`
	Ceiling  *int            `yaml:"ceiling,omitempty"`
	Walls    map[string]int  `yaml:"walls,omitempty"`
	Doors    map[string]int  `yaml:"doors,omitempty"`
	Locked   map[string]bool `yaml:"locked,omitempty"`
	Stair    *int            `yaml:"stair,omitempty"`
	StairDir int             `yaml:"stair_dir,omitempty"`
	Event    *int            `yaml:"event,omitempty"`
	Cost     *int            `yaml:"cost,omitempty"`
}

func idPtr(id ID) *int {
	if v, ok := id.Get(); ok {
		return &v
	}
	return nil
}

func ptrID(p *int) ID {
	if p == nil {
		return Absent
	}
	return Some(*p)
}

// Encode converts a grid into its serialized form.
func Encode(g *Grid) *LevelData {
	data := &LevelData{
		SizeX:    g.SizeX,
		SizeY:    g.SizeY,
		SizeZ:    g.SizeZ,
		Entrance: g.Entrance,
	}
	if g.HasExit {
		exit := g.Exit
		data.Exit = &exit
	}

	for i := range g.Cells {
		c := &g.Cells[i]
		cd := CellData{
			X:        c.X,
			Y:        c.Y,
			Z:        c.Z,
			Floor:    idPtr(c.Floor),
			Ceiling:  idPtr(c.Ceiling),
			Stair:    idPtr(c.Stair),
			StairDir: c.StairDir,
			Event:    idPtr(c.Event),
		}
		if c.Cost >= 0 {
			cost := c.Cost
			cd.Cost = &cost
		}
		for _, d := range AllDirections() {
			if v, ok := c.Walls[d].Get(); ok {
				if cd.Walls == nil {
					cd.Walls = make(map[string]int)
				}
				cd.Walls[d.String()] = v
			}
			if v, ok := c.Doors[d].Get(); ok {
				if cd.Doors == nil {
					cd.Doors = make(map[string]int)
				}
				cd.Doors[d.String()] = v
			}
			if c.Locked[d] {
				if cd.Locked == nil {
					cd.Locked = make(map[string]bool)
				}
				cd.Locked[d.String()] = true
			}
		}

		if cd.Floor == nil && cd.Ceiling == nil && cd.Stair == nil && cd.Event == nil &&
			cd.Cost == nil && cd.Walls == nil && cd.Doors == nil && cd.Locked == nil {
			continue
		}
		data.Cells = append(data.Cells, cd)
	}

	return data
}

// Decode rebuilds a grid from its serialized form.
func Decode(data *LevelData) (*Grid, error) {
	if data.SizeX <= 0 || data.SizeY <= 0 || data.SizeZ <= 0 {
		return nil, fmt.Errorf("invalid level size %dx%dx%d", data.SizeX, data.SizeY, data.SizeZ)
	}

	g := New(data.SizeX, data.SizeY, data.SizeZ)
	g.Entrance = data.Entrance
	if data.Exit != nil {
		g.Exit = *data.Exit
		g.HasExit = true
	}

	for _, cd := range data.Cells {
		if !g.InBounds(cd.X, cd.Y, cd.Z) {
			return nil, fmt.Errorf("cell (%d,%d,%d) out of range", cd.X, cd.Y, cd.Z)
		}
		c := g.At(cd.X, cd.Y, cd.Z)
		c.Floor = ptrID(cd.Floor)
		c.Ceiling = ptrID(cd.Ceiling)
		c.Stair = ptrID(cd.Stair)
		c.StairDir = cd.StairDir
		c.Event = ptrID(cd.Event)
		if cd.Cost != nil {
			c.Cost = *cd.Cost
		}
		for name, v := range cd.Walls {
			d, ok := ParseDirection(name)
			if !ok {
				return nil, fmt.Errorf("cell (%d,%d,%d): unknown wall direction %q", cd.X, cd.Y, cd.Z, name)
			}
			c.Walls[d] = Some(v)
		}
		for name, v := range cd.Doors {
			d, ok := ParseDirection(name)
			if !ok {
				return nil, fmt.Errorf("cell (%d,%d,%d): unknown door direction %q", cd.X, cd.Y, cd.Z, name)
			}
			c.Doors[d] = Some(v)
		}
		for name, locked := range cd.Locked {
			d, ok := ParseDirection(name)
			if !ok {
				return nil, fmt.Errorf("cell (%d,%d,%d): unknown lock direction %q", cd.X, cd.Y, cd.Z, name)
			}
			c.Locked[d] = locked
		}
	}

	return g, nil
}

// Marshal encodes a grid as YAML.
func Marshal(g *Grid) ([]byte, error) {
	out, err := yaml.Marshal(Encode(g))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal level: %w", err)
	}
	return out, nil
}

// Unmarshal decodes a grid from YAML.
func Unmarshal(in []byte) (*Grid, error) {
	var data LevelData
	if err := yaml.Unmarshal(in, &data); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}
	return Decode(&data)
}

// SaveFile writes a grid to a YAML file.
func SaveFile(g *Grid, filename string) error {
	out, err := Marshal(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, out, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}
	return nil
}

// LoadFile reads a grid from a YAML file.
func LoadFile(filename string) (*Grid, error) {
	in, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}
	return Unmarshal(in)
}
