package kernel

// Mesh is a flat triangle list as the frontends draw it. Vertices and
// Normals hold x, y, z triples; Indices holds one triple per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	// Category groups parts for coloring: body, door, handle, countertop, leg.
	Category string `json:"category"`
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// Bounds returns the axis-aligned extent of the vertices. An empty mesh
// returns zero bounds.
func (m *Mesh) Bounds() (lo, hi [3]float32) {
	if m.IsEmpty() {
		return lo, hi
	}
	copy(lo[:], m.Vertices[:3])
	copy(hi[:], m.Vertices[:3])
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		for axis := range 3 {
			v := m.Vertices[i+axis]
			lo[axis] = min(lo[axis], v)
			hi[axis] = max(hi[axis], v)
		}
	}
	return lo, hi
}
