// Package tessellate turns a preview design graph into triangle meshes
// using a geometry kernel. Each part becomes one mesh, except parts below a
// merged group, which share the group's mesh.
package tessellate

import (
	"fmt"

	"github.com/chazu/cabinetcut/pkg/graph"
	"github.com/chazu/cabinetcut/pkg/kernel"
)

// dowelSegments is passed to the kernel for cylinder approximation.
const dowelSegments = 32

// frame is the placement inherited from enclosing transform nodes. Offsets
// and rotations add up along the path from the root.
type frame struct {
	offset   graph.Vec3
	rotation graph.Vec3
}

func (f frame) enter(td graph.TransformData) frame {
	if td.Translation != nil {
		f.offset = f.offset.Add(*td.Translation)
	}
	if td.Rotation != nil {
		f.rotation = f.rotation.Add(*td.Rotation)
	}
	return f
}

// place rotates s about the origin, then moves it by the frame offset.
func (f frame) place(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	if r := f.rotation; !r.IsZero() {
		s = k.Rotate(s, r.X, r.Y, r.Z)
	}
	if o := f.offset; !o.IsZero() {
		s = k.Translate(s, o.X, o.Y, o.Z)
	}
	return s
}

type part struct {
	name     string
	category string
	solid    kernel.Solid
}

type walker struct {
	g *graph.DesignGraph
	k kernel.Kernel
}

// Tessellate meshes every part reachable from g's roots, in root order.
// The graph is only read.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}
	w := walker{g: g, k: k}

	var parts []part
	for _, id := range g.Roots {
		root := g.Get(id)
		if root == nil {
			continue
		}
		found, err := w.visit(root, frame{})
		if err != nil {
			return nil, fmt.Errorf("tessellate: root %s: %w", id.Short(), err)
		}
		parts = append(parts, found...)
	}

	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		m, err := k.ToMesh(p.solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: mesh %q: %w", p.name, err)
		}
		m.PartName, m.Category = p.name, p.category
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func (w walker) visit(n *graph.Node, f frame) ([]part, error) {
	switch n.Kind {
	case graph.NodePrimitive:
		s, err := w.primitive(n)
		if err != nil {
			return nil, err
		}
		return []part{{name: label(n), category: n.Category, solid: f.place(w.k, s)}}, nil

	case graph.NodeTransform:
		td, ok := n.Data.(graph.TransformData)
		if !ok {
			return nil, fmt.Errorf("transform %s carries %T", n.ID.Short(), n.Data)
		}
		return w.children(n, f.enter(td))

	case graph.NodeGroup:
		parts, err := w.children(n, f)
		if err != nil {
			return nil, err
		}
		if gd, _ := n.Data.(graph.GroupData); gd.Merge && len(parts) > 1 {
			return []part{w.merge(n, parts)}, nil
		}
		return parts, nil
	}
	return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
}

func (w walker) children(n *graph.Node, f frame) ([]part, error) {
	var parts []part
	for _, child := range w.g.Children(n) {
		found, err := w.visit(child, f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, found...)
	}
	return parts, nil
}

// primitive builds the unplaced solid for a board or dowel.
func (w walker) primitive(n *graph.Node) (kernel.Solid, error) {
	switch d := n.Data.(type) {
	case graph.BoardData:
		return w.k.Box(d.Dimensions.X, d.Dimensions.Y, d.Dimensions.Z), nil
	case graph.DowelData:
		// Stand the Z-centered kernel cylinder upright on the origin.
		s := w.k.Cylinder(d.Length, d.Diameter/2, dowelSegments)
		s = w.k.Rotate(s, 90, 0, 0)
		return w.k.Translate(s, 0, d.Length/2, 0), nil
	}
	return nil, fmt.Errorf("primitive %s has unsupported data %T", n.ID.Short(), n.Data)
}

// merge unions parts into one carrying the group's name. An uncategorized
// group takes its first part's category.
func (w walker) merge(n *graph.Node, parts []part) part {
	s := parts[0].solid
	for _, p := range parts[1:] {
		s = w.k.Union(s, p.solid)
	}
	category := n.Category
	if category == "" {
		category = parts[0].category
	}
	return part{name: label(n), category: category, solid: s}
}

func label(n *graph.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}
