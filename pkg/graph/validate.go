package graph

import (
	"fmt"
	"sort"
)

// ValidationSeverity tells whether a finding stops a graph from being
// rendered.
type ValidationSeverity int

const (
	SeverityError ValidationSeverity = iota
	SeverityWarning
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// ValidationError is one finding. NodeID is zero for graph-level findings.
type ValidationError struct {
	NodeID   NodeID
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

type findings []ValidationError

func (f *findings) fail(id NodeID, format string, args ...any) {
	*f = append(*f, ValidationError{NodeID: id, Message: fmt.Sprintf(format, args...), Severity: SeverityError})
}

func (f *findings) warn(id NodeID, format string, args ...any) {
	*f = append(*f, ValidationError{NodeID: id, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
}

var checks = []func(*DesignGraph, *findings){
	checkCycles,
	checkChildren,
	checkNames,
	checkRoots,
	checkDimensions,
}

// Validate returns every structural and dimensional finding for g, in a
// stable order. It never mutates the graph.
func Validate(g *DesignGraph) []ValidationError {
	var f findings
	for _, check := range checks {
		check(g, &f)
	}
	return f
}

// Blocking keeps only the findings with SeverityError.
func Blocking(all []ValidationError) []ValidationError {
	var out []ValidationError
	for _, f := range all {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

func sortedIDs(g *DesignGraph) []NodeID {
	ids := make([]NodeID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// checkCycles reports the first cycle found by a depth-first walk.
func checkCycles(g *DesignGraph, f *findings) {
	onPath := make(map[NodeID]bool)
	done := make(map[NodeID]bool)

	var walk func(id NodeID) bool
	walk = func(id NodeID) bool {
		if done[id] {
			return false
		}
		if onPath[id] {
			f.fail(id, "cycle detected through node %s", id.Short())
			return true
		}
		n, ok := g.Nodes[id]
		if !ok {
			return false
		}
		onPath[id] = true
		for _, child := range n.Children {
			if walk(child) {
				return true
			}
		}
		onPath[id] = false
		done[id] = true
		return false
	}

	for _, id := range sortedIDs(g) {
		if walk(id) {
			return
		}
	}
}

func checkChildren(g *DesignGraph, f *findings) {
	for _, id := range sortedIDs(g) {
		for _, child := range g.Nodes[id].Children {
			if _, ok := g.Nodes[child]; !ok {
				f.fail(id, "child %s does not exist", child.Short())
			}
		}
	}
}

// checkNames requires the name index to point at real nodes and node names
// to be unique.
func checkNames(g *DesignGraph, f *findings) {
	names := make([]string, 0, len(g.NameIndex))
	for name := range g.NameIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id := g.NameIndex[name]
		if _, ok := g.Nodes[id]; !ok {
			f.fail("", "name %q points at non-existent node %s", name, id.Short())
		}
	}

	seen := make(map[string]int)
	for _, id := range sortedIDs(g) {
		if name := g.Nodes[id].Name; name != "" {
			seen[name]++
		}
	}
	dups := make([]string, 0)
	for name, n := range seen {
		if n > 1 {
			dups = append(dups, name)
		}
	}
	sort.Strings(dups)
	for _, name := range dups {
		f.fail("", "duplicate name %q on %d nodes", name, seen[name])
	}
}

// checkRoots requires roots to exist and warns about nodes no root reaches.
func checkRoots(g *DesignGraph, f *findings) {
	reached := make(map[NodeID]bool, len(g.Nodes))
	var stack []NodeID
	for _, root := range g.Roots {
		if _, ok := g.Nodes[root]; !ok {
			f.fail("", "root reference %s does not exist", root.Short())
			continue
		}
		stack = append(stack, root)
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[id] {
			continue
		}
		reached[id] = true
		if n := g.Nodes[id]; n != nil {
			stack = append(stack, n.Children...)
		}
	}

	for _, id := range sortedIDs(g) {
		if reached[id] {
			continue
		}
		label := g.Nodes[id].Name
		if label == "" {
			label = id.Short()
		}
		f.warn(id, "orphan node %q is not reachable from any root", label)
	}
}

func checkDimensions(g *DesignGraph, f *findings) {
	for _, id := range sortedIDs(g) {
		switch d := g.Nodes[id].Data.(type) {
		case BoardData:
			extents := [...]struct {
				axis Axis
				v    float64
			}{{AxisX, d.Dimensions.X}, {AxisY, d.Dimensions.Y}, {AxisZ, d.Dimensions.Z}}
			for _, e := range extents {
				if e.v <= 0 {
					f.fail(id, "board dimension %s is %.4f, must be positive", e.axis, e.v)
				}
			}
		case DowelData:
			if d.Diameter <= 0 || d.Length <= 0 {
				f.fail(id, "dowel %.4f x %.4f needs a positive diameter and length", d.Diameter, d.Length)
			}
		}
	}
}
