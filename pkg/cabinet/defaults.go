package cabinet

// Defaults are the dimensions and options a cabinet type starts with when
// the user switches to it.
type Defaults struct {
	Depth      float64
	Height     float64
	ShelfCount int
	// Orientation is empty when switching to the type leaves the current
	// door orientation untouched.
	Orientation DoorOrientation
	Division    DoorDivision
}

// DefaultsFor returns the defaults for t. Unknown types get base defaults.
func DefaultsFor(t Type) Defaults {
	switch t {
	case TypeWall:
		return Defaults{Depth: 32, Height: 83, ShelfCount: 1, Division: DivisionByLength}
	case TypeFull:
		return Defaults{Depth: 56, Height: 240, ShelfCount: 4, Orientation: OrientationVertical, Division: DivisionByLength}
	default:
		return Defaults{Depth: 56, Height: 72, ShelfCount: 1, Orientation: OrientationVertical, Division: DivisionByLength}
	}
}

// WithDefaults returns a copy of c with the defaults of c.Type applied.
func (c Config) WithDefaults() Config {
	d := DefaultsFor(c.Type)
	c.Depth = d.Depth
	c.Height = d.Height
	c.ShelfCount = d.ShelfCount
	if d.Orientation != "" {
		c.DoorOrientation = d.Orientation
	}
	c.DoorDivision = d.Division
	return c
}
