// Package sdfx meshes preview parts with the deadsy/sdfx signed distance
// field library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/cabinetcut/pkg/kernel"
)

var _ kernel.Kernel = (*Kernel)(nil)

// DefaultMeshCells is the marching cubes resolution along the longest axis
// of each solid.
const DefaultMeshCells = 64

const (
	// minCellsAcross keeps thin panels from falling between samples.
	minCellsAcross = 3
	minMeshCells   = 8
	maxMeshCells   = 1024
)

// field adapts an sdf.SDF3 to kernel.Solid.
type field struct {
	s sdf.SDF3
}

func (f field) BoundingBox() (lo, hi [3]float64) {
	bb := f.s.BoundingBox()
	return [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}, [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
}

func fieldOf(s kernel.Solid) sdf.SDF3 {
	return s.(field).s
}

// Kernel is the sdfx-backed kernel.Kernel.
type Kernel struct {
	meshCells int
}

// New returns a kernel meshing at DefaultMeshCells.
func New() *Kernel {
	return NewWithCells(DefaultMeshCells)
}

// NewWithCells returns a kernel meshing at the given resolution, raised to
// at least 8.
func NewWithCells(cells int) *Kernel {
	return &Kernel{meshCells: max(cells, minMeshCells)}
}

func (k *Kernel) MeshCells() int {
	return k.meshCells
}

func (k *Kernel) transform(s sdf.SDF3, m sdf.M44) kernel.Solid {
	return field{sdf.Transform3D(s, m)}
}

// Box returns a panel whose minimum corner sits at the origin. sdf.Box3D
// is centered, hence the half-size shift.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	size := v3.Vec{X: x, Y: y, Z: z}
	box, err := sdf.Box3D(size, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx: box %gx%gx%g: %v", x, y, z, err))
	}
	return k.transform(box, sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2}))
}

// Cylinder is centered on the origin along Z. SDF surfaces are smooth, so
// segments is unused.
func (k *Kernel) Cylinder(height, radius float64, _ int) kernel.Solid {
	cyl, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx: cylinder h=%g r=%g: %v", height, radius, err))
	}
	return field{cyl}
}

func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return field{sdf.Union3D(fieldOf(a), fieldOf(b))}
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.transform(fieldOf(s), sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate applies X, then Y, then Z rotations given in degrees.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	m := sdf.RotateZ(rad(z)).Mul(sdf.RotateY(rad(y))).Mul(sdf.RotateX(rad(x)))
	return k.transform(fieldOf(s), m)
}

// ToMesh samples s with uniform marching cubes. Triangles are not shared,
// so each one contributes three vertices with the face normal.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	f := fieldOf(s)
	cells := cellsFor(f.BoundingBox(), k.meshCells)
	tris := render.ToTriangles(f, render.NewMarchingCubesUniform(cells))
	if len(tris) == 0 {
		return nil, fmt.Errorf("sdfx: marching cubes produced no triangles at %d cells", cells)
	}

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, len(tris)*9),
		Normals:  make([]float32, 0, len(tris)*9),
		Indices:  make([]uint32, 0, len(tris)*3),
	}
	for _, t := range tris {
		n := t.Normal()
		for _, p := range t {
			m.Indices = append(m.Indices, uint32(len(m.Vertices)/3))
			m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
	}
	return m, nil
}

// cellsFor raises the resolution so the thinnest extent of bb spans at
// least minCellsAcross cells.
func cellsFor(bb sdf.Box3, base int) int {
	size := bb.Size()
	longest := math.Max(size.X, math.Max(size.Y, size.Z))
	shortest := math.Min(size.X, math.Min(size.Y, size.Z))
	if shortest <= 0 {
		return base
	}
	needed := int(math.Ceil(minCellsAcross * longest / shortest))
	return min(max(needed, base), maxMeshCells)
}
