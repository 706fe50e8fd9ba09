package cabinet

import "fmt"

// Type is the kind of cabinet being built.
type Type string

const (
	TypeBase Type = "base" // floor-standing, open top with stretchers
	TypeWall Type = "wall" // hung on the wall
	TypeFull Type = "full" // floor-to-ceiling tall unit
)

var validTypes = []Type{TypeBase, TypeWall, TypeFull}

func (t Type) String() string { return string(t) }

// IsValid reports whether the value is a known Type.
func (t Type) IsValid() bool {
	for _, candidate := range validTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseType converts raw input into a Type.
func ParseType(value string) (Type, error) {
	for _, candidate := range validTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cabinet type %q", value)
}

// DoorOrientation selects how doors split a wall or full cabinet front.
type DoorOrientation string

const (
	OrientationVertical   DoorOrientation = "vertical"
	OrientationHorizontal DoorOrientation = "horizontal"
)

var validOrientations = []DoorOrientation{OrientationVertical, OrientationHorizontal}

func (o DoorOrientation) String() string { return string(o) }

// IsValid reports whether the value is a known DoorOrientation.
func (o DoorOrientation) IsValid() bool {
	for _, candidate := range validOrientations {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseDoorOrientation converts raw input into a DoorOrientation.
func ParseDoorOrientation(value string) (DoorOrientation, error) {
	for _, candidate := range validOrientations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid door orientation %q", value)
}

// DoorDivision selects whether a full cabinet's doors divide its length or
// its height.
type DoorDivision string

const (
	DivisionByLength DoorDivision = "length"
	DivisionByHeight DoorDivision = "height"
)

var validDivisions = []DoorDivision{DivisionByLength, DivisionByHeight}

func (d DoorDivision) String() string { return string(d) }

// IsValid reports whether the value is a known DoorDivision.
func (d DoorDivision) IsValid() bool {
	for _, candidate := range validDivisions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDoorDivision converts raw input into a DoorDivision.
func ParseDoorDivision(value string) (DoorDivision, error) {
	for _, candidate := range validDivisions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid door division %q", value)
}

// HandleType is the door handle style. It only affects the preview.
type HandleType string

const (
	HandleModern  HandleType = "modern"
	HandleClassic HandleType = "classic"
	HandleMagnet  HandleType = "magnet"
)

var validHandles = []HandleType{HandleModern, HandleClassic, HandleMagnet}

func (h HandleType) String() string { return string(h) }

// IsValid reports whether the value is a known HandleType.
func (h HandleType) IsValid() bool {
	for _, candidate := range validHandles {
		if candidate == h {
			return true
		}
	}
	return false
}

// ParseHandleType converts raw input into a HandleType.
func ParseHandleType(value string) (HandleType, error) {
	for _, candidate := range validHandles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid handle type %q", value)
}

// BackConnection is the joinery used to attach the back panel, which
// changes the size the back must be cut to.
type BackConnection string

const (
	BackMountedOnBody BackConnection = "mounted"
	BackFitting       BackConnection = "fitting"
	BackMdfFullFit    BackConnection = "mdf"
)

var validBackConnections = []BackConnection{BackMountedOnBody, BackFitting, BackMdfFullFit}

func (b BackConnection) String() string { return string(b) }

// IsValid reports whether the value is a known BackConnection.
func (b BackConnection) IsValid() bool {
	for _, candidate := range validBackConnections {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBackConnection converts raw input into a BackConnection.
func ParseBackConnection(value string) (BackConnection, error) {
	for _, candidate := range validBackConnections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid back connection %q", value)
}
