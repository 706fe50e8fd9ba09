package cutlist

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Role names a kind of cut piece.
type Role string

const (
	RoleFloor              Role = "floor"
	RoleSides              Role = "sides"
	RoleTop                Role = "top"
	RoleBack               Role = "back"
	RoleDoor               Role = "door"
	RoleMiddlePartition    Role = "middlePartition"
	RoleShelf              Role = "shelf"
	RoleDoorAlignmentStrip Role = "doorAlignmentStrip"
	RoleDoorQeyd           Role = "doorQeyd"
)

// Roles lists every role in display order.
var Roles = []Role{
	RoleFloor,
	RoleSides,
	RoleTop,
	RoleBack,
	RoleDoor,
	RoleMiddlePartition,
	RoleShelf,
	RoleDoorAlignmentStrip,
	RoleDoorQeyd,
}

var labels = map[Role]string{
	RoleFloor:              "Floor",
	RoleSides:              "Sides",
	RoleTop:                "Top",
	RoleBack:               "Back",
	RoleDoor:               "Door",
	RoleMiddlePartition:    "Middle partition",
	RoleShelf:              "Shelf",
	RoleDoorAlignmentStrip: "Door alignment strip",
	RoleDoorQeyd:           "Door qeyd",
}

func (r Role) String() string { return string(r) }

// Label is the English caption shown next to the role's row.
func (r Role) Label() string {
	if l, ok := labels[r]; ok {
		return l
	}
	return string(r)
}

// Required reports whether every cutlist contains the role.
func (r Role) Required() bool {
	switch r {
	case RoleFloor, RoleSides, RoleTop, RoleBack, RoleDoor, RoleDoorAlignmentStrip:
		return true
	}
	return false
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	_, ok := labels[r]
	return ok
}

func (r Role) rank() int {
	for i, candidate := range Roles {
		if candidate == r {
			return i
		}
	}
	return len(Roles)
}

// PieceSpec is the size and count of one role's pieces, in centimeters.
// Width and Height are the two cut dimensions in cut-sheet order.
type PieceSpec struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Quantity int     `json:"quantity"`
}

// Piece pairs a role with its spec.
type Piece struct {
	Role Role      `json:"role"`
	Spec PieceSpec `json:"spec"`
}

// CutList is the ordered set of pieces for one cabinet. The zero value is
// an empty cutlist. CutList has no exported mutators; values obtained from
// Compute are never changed afterwards.
type CutList struct {
	pieces []Piece
}

// New builds a cutlist from pieces, sorted into display order. Later
// pieces replace earlier ones with the same role.
func New(pieces ...Piece) CutList {
	byRole := make(map[Role]Piece, len(pieces))
	for _, p := range pieces {
		byRole[p.Role] = p
	}
	out := make([]Piece, 0, len(byRole))
	for _, p := range byRole {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Role.rank(), out[j].Role.rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Role < out[j].Role
	})
	return CutList{pieces: out}
}

// Get returns the spec for role and whether the role is present.
func (c CutList) Get(role Role) (PieceSpec, bool) {
	for _, p := range c.pieces {
		if p.Role == role {
			return p.Spec, true
		}
	}
	return PieceSpec{}, false
}

// Has reports whether role is present.
func (c CutList) Has(role Role) bool {
	_, ok := c.Get(role)
	return ok
}

// Pieces returns a copy of the pieces in display order.
func (c CutList) Pieces() []Piece {
	out := make([]Piece, len(c.pieces))
	copy(out, c.pieces)
	return out
}

// Len returns the number of roles present.
func (c CutList) Len() int { return len(c.pieces) }

// Clone returns an independent copy.
func (c CutList) Clone() CutList {
	return CutList{pieces: c.Pieces()}
}

// Equal reports whether both cutlists hold the same pieces.
func (c CutList) Equal(other CutList) bool {
	if len(c.pieces) != len(other.pieces) {
		return false
	}
	for i := range c.pieces {
		if c.pieces[i] != other.pieces[i] {
			return false
		}
	}
	return true
}

// Missing lists the required roles absent from c, in role order.
func (c CutList) Missing() []Role {
	var missing []Role
	for _, r := range Roles {
		if r.Required() && !c.Has(r) {
			missing = append(missing, r)
		}
	}
	return missing
}

// TotalQuantity sums the quantities of every piece.
func (c CutList) TotalQuantity() int {
	n := 0
	for _, p := range c.pieces {
		n += p.Spec.Quantity
	}
	return n
}

func (c CutList) MarshalJSON() ([]byte, error) {
	pieces := c.pieces
	if pieces == nil {
		pieces = []Piece{}
	}
	return json.Marshal(pieces)
}

func (c *CutList) UnmarshalJSON(data []byte) error {
	var pieces []Piece
	if err := json.Unmarshal(data, &pieces); err != nil {
		return err
	}
	for _, p := range pieces {
		if !p.Role.IsValid() {
			return fmt.Errorf("unknown cutlist role %q", p.Role)
		}
	}
	*c = New(pieces...)
	return nil
}
