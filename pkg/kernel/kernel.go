// Package kernel defines the geometry kernel interface the 3D preview is
// meshed through. The sdfx subpackage provides the implementation.
package kernel

// Solid is a kernel-owned shape. Only the kernel that made it may use it.
type Solid interface {
	// BoundingBox reports the solid's axis-aligned extent in mm.
	BoundingBox() (lo, hi [3]float64)
}

// Kernel builds solids for preview parts and meshes them. Lengths are mm.
type Kernel interface {
	// Box has its minimum corner at the origin, like a placed panel.
	Box(x, y, z float64) Solid
	// Cylinder is centered on the origin with its axis along Z.
	Cylinder(height, radius float64, segments int) Solid

	Union(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid
	// Rotate turns s about the origin; angles are degrees about X, Y, Z.
	Rotate(s Solid, x, y, z float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}
