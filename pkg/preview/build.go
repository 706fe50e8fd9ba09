package preview

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/cabinetcut/pkg/cabinet"
	"github.com/chazu/cabinetcut/pkg/graph"
)

// Preview geometry in millimeters.
const (
	DoorThickness = 16.0
	FrameGap      = 5.0
	DoorGap       = 3.0

	CountertopOverhang  = 20.0 // added to the length
	CountertopThickness = 50.0
	CountertopDepthPlus = 50.0 // added to the depth
	CountertopBackShift = 5.0  // overhang behind the carcass

	LegRadius = 20.0
	LegLength = 160.0
	LegInset  = 50.0

	ProfileHeight    = 70.0
	ProfileDepth     = 25.0
	ProfileThickness = 16.0
	ModernDoorCut    = 45.0 // door height lost to the L-profile

	HandleLength    = 200.0
	HandleHeight    = 20.0
	HandleThickness = 10.0
	HandleInset     = 50.0 // from the door edge the handle sits near
)

// Part categories, used for coloring.
const (
	CategoryBody       = "body"
	CategoryDoor       = "door"
	CategoryHandle     = "handle"
	CategoryCountertop = "countertop"
	CategoryLeg        = "leg"
)

const cm = 10.0

var (
	bodyMaterial   = graph.MaterialSpec{Name: "melamine", Thickness: 16}
	doorMaterial   = graph.MaterialSpec{Name: "mdf", Thickness: DoorThickness, Finish: "high gloss"}
	handleMaterial = graph.MaterialSpec{Name: "aluminium"}
	topMaterial    = graph.MaterialSpec{Name: "laminate", Thickness: CountertopThickness}
	legMaterial    = graph.MaterialSpec{Name: "plastic"}
)

// rect is a door front in the XY plane.
type rect struct {
	x, y, w, h float64
}

// builder accumulates nodes under a single cabinet root.
type builder struct {
	g     *graph.DesignGraph
	items []graph.NodeID
}

func newBuilder() *builder {
	return &builder{g: graph.New()}
}

// place adds a primitive and a transform that positions its local origin at
// at, returning the transform's ID.
func (b *builder) place(name, category string, data graph.NodeData, at graph.Vec3) graph.NodeID {
	prim := &graph.Node{
		ID:       graph.NewNodeID("part:" + name),
		Kind:     graph.NodePrimitive,
		Name:     name,
		Category: category,
		Data:     data,
	}
	b.g.AddNode(prim)

	t := at
	xf := &graph.Node{
		ID:       graph.NewNodeID("place:" + name),
		Kind:     graph.NodeTransform,
		Name:     "place-" + name,
		Children: []graph.NodeID{prim.ID},
		Data:     graph.TransformData{Translation: &t},
	}
	b.g.AddNode(xf)
	return xf.ID
}

func (b *builder) add(id graph.NodeID) {
	b.items = append(b.items, id)
}

func (b *builder) board(name, category string, size graph.Vec3, grain graph.Axis, mat graph.MaterialSpec, at graph.Vec3) {
	b.add(b.place(name, category, graph.BoardData{
		PrimKind:   graph.PrimBoard,
		Dimensions: size,
		Grain:      grain,
		Material:   mat,
	}, at))
}

func (b *builder) finish(p Params) *graph.DesignGraph {
	root := &graph.Node{
		ID:       graph.NewNodeID("cabinet:" + string(p.Type)),
		Kind:     graph.NodeGroup,
		Name:     "cabinet",
		Children: b.items,
		Data:     graph.GroupData{Description: fmt.Sprintf("%s cabinet", p.Type)},
	}
	b.g.AddNode(root)
	b.g.AddRoot(root.ID)
	return b.g
}

// Build projects the params into a design graph. It fails when the params
// are invalid or when the dimensions are too small to fit the door gaps.
func Build(p Params) (*graph.DesignGraph, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	l, h, d := p.Length*cm, p.Height*cm, p.Depth*cm
	b := newBuilder()

	b.board("body", CategoryBody, graph.Vec3{X: l, Y: h, Z: d}, graph.AxisY, bodyMaterial, graph.Vec3{})

	modernBase := p.modernBase()
	doors := layoutDoors(l, p.doorSpan(), p.DoorCount, p.doorsStacked())
	for i, r := range doors {
		name := fmt.Sprintf("door-%d", i+1)
		b.board(name, CategoryDoor,
			graph.Vec3{X: r.w, Y: r.h, Z: DoorThickness}, graph.AxisY, doorMaterial,
			graph.Vec3{X: r.x, Y: r.y, Z: d})

		if p.HandleType == cabinet.HandleClassic {
			b.classicHandle(p.Type, i+1, r, d)
		}
	}

	if p.Type == cabinet.TypeBase {
		b.board("countertop", CategoryCountertop,
			graph.Vec3{X: l + CountertopOverhang, Y: CountertopThickness, Z: d + CountertopDepthPlus},
			graph.AxisX, topMaterial,
			graph.Vec3{X: -CountertopOverhang / 2, Y: h, Z: -CountertopBackShift})
		b.legs(l, d)
		if modernBase {
			b.lProfile(l, h, d)
		}
	}

	g := b.finish(p)
	if blocking := graph.Blocking(graph.Validate(g)); len(blocking) > 0 {
		msgs := make([]string, len(blocking))
		for i, e := range blocking {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("preview: %w: %s", cabinet.ErrInvalidDimension, strings.Join(msgs, "; "))
	}
	return g, nil
}

// doorSize is the size of each of count doors sharing a front of the given
// length and span, separated by the door gap and framed by the frame gap.
func doorSize(length, span float64, count int, stacked bool) (w, h float64) {
	n := float64(count)
	if stacked {
		return length - 2*FrameGap, (span - (n+1)*FrameGap - n*DoorGap) / n
	}
	return (length - (n+1)*FrameGap - (n-1)*DoorGap) / n, span - 2*FrameGap
}

// layoutDoors places the doors sized by doorSize. Stacked doors are ordered
// top to bottom.
func layoutDoors(length, span float64, count int, stacked bool) []rect {
	w, h := doorSize(length, span, count, stacked)
	doors := make([]rect, count)
	for i := range doors {
		step := float64(i) * (FrameGap + DoorGap)
		if stacked {
			top := span - FrameGap - float64(i)*h - step
			doors[i] = rect{x: FrameGap, y: top - h, w: w, h: h}
			continue
		}
		doors[i] = rect{x: FrameGap + float64(i)*w + step, y: FrameGap, w: w, h: h}
	}
	return doors
}

// classicHandle puts a horizontal bar on the door face: near the top on base
// cabinets, near the bottom on wall cabinets and centered on full ones.
func (b *builder) classicHandle(t cabinet.Type, index int, door rect, depth float64) {
	length := math.Min(HandleLength, door.w*0.8)
	x := door.x + (door.w-length)/2

	var y float64
	switch t {
	case cabinet.TypeBase:
		y = door.y + door.h - HandleInset - HandleHeight
	case cabinet.TypeWall:
		y = door.y + HandleInset
	default:
		y = door.y + (door.h-HandleHeight)/2
	}

	b.board(fmt.Sprintf("handle-%d", index), CategoryHandle,
		graph.Vec3{X: length, Y: HandleHeight, Z: HandleThickness}, graph.AxisX, handleMaterial,
		graph.Vec3{X: x, Y: y, Z: depth + DoorThickness})
}

func (b *builder) legs(length, depth float64) {
	corners := []struct{ x, z float64 }{
		{LegInset, LegInset},
		{length - LegInset, LegInset},
		{LegInset, depth - LegInset},
		{length - LegInset, depth - LegInset},
	}
	for i, c := range corners {
		b.add(b.place(fmt.Sprintf("leg-%d", i+1), CategoryLeg, graph.DowelData{
			PrimKind: graph.PrimDowel,
			Diameter: 2 * LegRadius,
			Length:   LegLength,
			Material: legMaterial,
		}, graph.Vec3{X: c.x, Y: -LegLength, Z: c.z}))
	}
}

// lProfile is the recessed grip rail of handleless base cabinets: a
// vertical web and a horizontal flange merged into one part.
func (b *builder) lProfile(length, height, depth float64) {
	origin := graph.Vec3{Y: height - ProfileHeight, Z: depth - ProfileDepth}

	web := b.place("l-profile-web", CategoryHandle, graph.BoardData{
		PrimKind:   graph.PrimBoard,
		Dimensions: graph.Vec3{X: length, Y: ProfileHeight, Z: ProfileThickness},
		Grain:      graph.AxisX,
		Material:   handleMaterial,
	}, origin)
	flange := b.place("l-profile-flange", CategoryHandle, graph.BoardData{
		PrimKind:   graph.PrimBoard,
		Dimensions: graph.Vec3{X: length, Y: ProfileThickness, Z: ProfileDepth},
		Grain:      graph.AxisX,
		Material:   handleMaterial,
	}, origin)

	group := &graph.Node{
		ID:       graph.NewNodeID("group:l-profile"),
		Kind:     graph.NodeGroup,
		Name:     "l-profile",
		Category: CategoryHandle,
		Children: []graph.NodeID{web, flange},
		Data:     graph.GroupData{Description: "L-profile grip rail", Merge: true},
	}
	b.g.AddNode(group)
	b.add(group.ID)
}
