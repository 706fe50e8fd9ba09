package graph

// MaterialSpec names a part's board material. The preview only uses it
// for labelling; cut dimensions never depend on it.
type MaterialSpec struct {
	Name      string  `json:"name,omitempty"`      // e.g. "mdf", "melamine"
	Thickness float64 `json:"thickness,omitempty"` // mm
	Finish    string  `json:"finish,omitempty"`
}

// PrimitiveKind tells boards from dowels.
type PrimitiveKind int

const (
	PrimBoard PrimitiveKind = iota
	PrimDowel
)

// BoardData is a rectangular solid. Dimensions are the extents along X, Y
// and Z in mm, with the minimum corner at the local origin.
type BoardData struct {
	PrimKind   PrimitiveKind `json:"prim_kind"`
	Dimensions Vec3          `json:"dimensions"`
	Grain      Axis          `json:"grain"`
	Material   MaterialSpec  `json:"material"`
}

func (BoardData) nodeData() {}

// DowelData is a cylinder standing on the local origin along Y, such as a
// cabinet leg.
type DowelData struct {
	PrimKind PrimitiveKind `json:"prim_kind"`
	Diameter float64       `json:"diameter"`
	Length   float64       `json:"length"`
	Material MaterialSpec  `json:"material"`
}

func (DowelData) nodeData() {}

// TransformData represents a spatial transformation applied to its
// children.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // degrees
}

func (TransformData) nodeData() {}

// GroupData represents a logical grouping (cabinet, door set). A merged
// group is rendered as one solid: the union of its descendants.
type GroupData struct {
	Description string `json:"description,omitempty"`
	Merge       bool   `json:"merge,omitempty"`
}

func (GroupData) nodeData() {}
