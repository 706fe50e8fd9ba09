package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/cabinetcut/pkg/graph"
	"github.com/chazu/cabinetcut/pkg/kernel"
	"github.com/chazu/cabinetcut/pkg/kernel/sdfx"
	"github.com/chazu/cabinetcut/pkg/tessellate"
)

// Marching cubes is approximate; extents are checked within this many mm.
const tol = 12.0

// scene assembles preview graphs for the tests.
type scene struct {
	t *testing.T
	g *graph.DesignGraph
}

func newScene(t *testing.T) *scene {
	t.Helper()
	return &scene{t: t, g: graph.New()}
}

func (s *scene) add(n *graph.Node) graph.NodeID {
	s.g.AddNode(n)
	return n.ID
}

func (s *scene) board(name, category string, x, y, z float64) graph.NodeID {
	return s.add(&graph.Node{
		ID:       graph.NewNodeID("board:" + name),
		Kind:     graph.NodePrimitive,
		Name:     name,
		Category: category,
		Data: graph.BoardData{
			PrimKind:   graph.PrimBoard,
			Dimensions: graph.Vec3{X: x, Y: y, Z: z},
			Grain:      graph.AxisY,
		},
	})
}

func (s *scene) leg(name string, diameter, length float64) graph.NodeID {
	return s.add(&graph.Node{
		ID:       graph.NewNodeID("leg:" + name),
		Kind:     graph.NodePrimitive,
		Name:     name,
		Category: "leg",
		Data:     graph.DowelData{PrimKind: graph.PrimDowel, Diameter: diameter, Length: length},
	})
}

func (s *scene) at(name string, offset graph.Vec3, children ...graph.NodeID) graph.NodeID {
	return s.add(&graph.Node{
		ID:       graph.NewNodeID("at:" + name),
		Kind:     graph.NodeTransform,
		Name:     name,
		Children: children,
		Data:     graph.TransformData{Translation: &offset},
	})
}

func (s *scene) group(name string, merge bool, children ...graph.NodeID) *graph.Node {
	n := &graph.Node{
		ID:       graph.NewNodeID("group:" + name),
		Kind:     graph.NodeGroup,
		Name:     name,
		Children: children,
		Data:     graph.GroupData{Description: name, Merge: merge},
	}
	s.g.AddNode(n)
	return n
}

func (s *scene) render(roots ...graph.NodeID) []*kernel.Mesh {
	s.t.Helper()
	for _, r := range roots {
		s.g.AddRoot(r)
	}
	meshes, err := tessellate.Tessellate(s.g, sdfx.NewWithCells(32))
	if err != nil {
		s.t.Fatalf("Tessellate: %v", err)
	}
	for _, m := range meshes {
		if m.IsEmpty() || m.TriangleCount() == 0 {
			s.t.Errorf("mesh %q is empty", m.PartName)
		}
	}
	return meshes
}

func byName(meshes []*kernel.Mesh) map[string]*kernel.Mesh {
	out := make(map[string]*kernel.Mesh, len(meshes))
	for _, m := range meshes {
		out[m.PartName] = m
	}
	return out
}

func near(got float32, want float64) bool {
	return math.Abs(float64(got)-want) <= tol
}

func TestSingleBox(t *testing.T) {
	s := newScene(t)
	floor := s.board("floor", "body", 1000, 16, 560)

	meshes := s.render(floor)
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}
	if meshes[0].PartName != "floor" || meshes[0].Category != "body" {
		t.Errorf("mesh = %q/%q, want floor/body", meshes[0].PartName, meshes[0].Category)
	}
}

func TestTwoParts(t *testing.T) {
	s := newScene(t)
	left := s.board("left side", "body", 16, 700, 560)
	right := s.board("right side", "body", 16, 700, 560)

	meshes := s.render(left, right)
	if len(meshes) != 2 {
		t.Fatalf("got %d meshes, want 2", len(meshes))
	}
	// Root order is kept.
	if meshes[0].PartName != "left side" || meshes[1].PartName != "right side" {
		t.Errorf("order = %q, %q", meshes[0].PartName, meshes[1].PartName)
	}
}

func TestPartWithTransform(t *testing.T) {
	s := newScene(t)
	shelf := s.board("shelf", "body", 100, 16, 50)

	meshes := s.render(s.at("shelf@", graph.Vec3{X: 200, Y: 300, Z: 40}, shelf))
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}
	lo, hi := meshes[0].Bounds()
	want := [2][3]float64{{200, 300, 40}, {300, 316, 90}}
	for axis := 0; axis < 3; axis++ {
		if !near(lo[axis], want[0][axis]) || !near(hi[axis], want[1][axis]) {
			t.Errorf("axis %d span = %.1f..%.1f, want %.0f..%.0f",
				axis, lo[axis], hi[axis], want[0][axis], want[1][axis])
		}
	}
}

func TestNestedTransformsAccumulate(t *testing.T) {
	s := newScene(t)
	door := s.board("door", "door", 300, 700, 16)
	inner := s.at("door@", graph.Vec3{X: 100}, door)
	outer := s.at("front@", graph.Vec3{X: 50, Z: 560}, inner)

	meshes := s.render(outer)
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}
	lo, _ := meshes[0].Bounds()
	if !near(lo[0], 150) || !near(lo[2], 560) {
		t.Errorf("door corner = (%.1f, %.1f), want (150, 560)", lo[0], lo[2])
	}
}

func TestAssembly(t *testing.T) {
	s := newScene(t)
	left := s.at("left@", graph.Vec3{}, s.board("left", "body", 16, 700, 560))
	right := s.at("right@", graph.Vec3{X: 984}, s.board("right", "body", 16, 700, 560))
	floor := s.at("floor@", graph.Vec3{X: 16}, s.board("floor", "body", 968, 16, 560))
	body := s.group("body", false, left, right, floor)

	meshes := byName(s.render(body.ID))
	if len(meshes) != 3 {
		t.Fatalf("got %d meshes, want 3", len(meshes))
	}
	for _, name := range []string{"left", "right", "floor"} {
		if meshes[name] == nil {
			t.Errorf("missing mesh %q", name)
		}
	}
	lo, _ := meshes["right"].Bounds()
	if !near(lo[0], 984) {
		t.Errorf("right side X = %.1f, want 984", lo[0])
	}
}

func TestEmptyGraph(t *testing.T) {
	meshes, err := tessellate.Tessellate(graph.New(), sdfx.New())
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(meshes) != 0 {
		t.Fatalf("got %d meshes, want 0", len(meshes))
	}

	meshes, err = tessellate.Tessellate(nil, sdfx.New())
	if err != nil || meshes != nil {
		t.Fatalf("nil graph: meshes=%v err=%v", meshes, err)
	}
}

func TestLegStandsOnFloor(t *testing.T) {
	s := newScene(t)
	meshes := s.render(s.leg("leg front left", 40, 160))
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}
	if meshes[0].Category != "leg" {
		t.Errorf("Category = %q, want leg", meshes[0].Category)
	}
	lo, hi := meshes[0].Bounds()
	if !near(lo[1], 0) || !near(hi[1], 160) {
		t.Errorf("leg Y span = %.1f..%.1f, want 0..160", lo[1], hi[1])
	}
	if !near(hi[0]-lo[0], 40) {
		t.Errorf("leg diameter = %.1f, want 40", hi[0]-lo[0])
	}
}

func TestMergedGroup(t *testing.T) {
	s := newScene(t)
	web := s.board("profile web", "", 600, 70, 16)
	flange := s.at("flange@", graph.Vec3{Y: 54}, s.board("profile flange", "", 600, 16, 25))
	profile := s.group("l-profile", true, web, flange)
	profile.Category = "handle"

	meshes := s.render(profile.ID)
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1 merged mesh", len(meshes))
	}
	if m := meshes[0]; m.PartName != "l-profile" || m.Category != "handle" {
		t.Errorf("merged mesh = %q/%q, want l-profile/handle", m.PartName, m.Category)
	}
}

func TestMergedGroupInheritsFirstCategory(t *testing.T) {
	s := newScene(t)
	a := s.board("knob a", "handle", 10, 10, 20)
	b := s.at("knob b@", graph.Vec3{X: 5}, s.board("knob b", "handle", 10, 10, 20))
	knob := s.group("knob", true, a, b)

	meshes := s.render(knob.ID)
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}
	if meshes[0].Category != "handle" {
		t.Errorf("Category = %q, want handle", meshes[0].Category)
	}
}

func TestSingleChildMergeIsNotUnioned(t *testing.T) {
	s := newScene(t)
	only := s.board("countertop", "countertop", 1020, 40, 620)
	g := s.group("top", true, only)

	meshes := s.render(g.ID)
	if len(meshes) != 1 || meshes[0].PartName != "countertop" {
		t.Fatalf("want the child mesh itself, got %+v", meshes)
	}
}

func TestUnsupportedData(t *testing.T) {
	g := graph.New()
	bad := &graph.Node{
		ID:   graph.NewNodeID("bad"),
		Kind: graph.NodePrimitive,
		Name: "bad",
		Data: graph.GroupData{},
	}
	g.AddNode(bad)
	g.AddRoot(bad.ID)

	if _, err := tessellate.Tessellate(g, sdfx.New()); err == nil {
		t.Fatal("expected an error for a primitive carrying group data")
	}
}

func TestTransformWithWrongData(t *testing.T) {
	g := graph.New()
	bad := &graph.Node{
		ID:   graph.NewNodeID("bad transform"),
		Kind: graph.NodeTransform,
		Data: graph.GroupData{},
	}
	g.AddNode(bad)
	g.AddRoot(bad.ID)

	if _, err := tessellate.Tessellate(g, sdfx.New()); err == nil {
		t.Fatal("expected an error for a transform without transform data")
	}
}
