package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/cabinetcut/pkg/cabinet"
)

// ---------------------------------------------------------------------------
// Cabinet collection
// ---------------------------------------------------------------------------

// collector accumulates the cabinets declared during one evaluation.
type collector struct {
	items []Item
	names map[string]bool
	max   int
}

func newCollector(max int) *collector {
	return &collector{names: make(map[string]bool), max: max}
}

func (c *collector) add(item Item) error {
	if c.names[item.Name] {
		return fmt.Errorf("duplicate cabinet name %q", item.Name)
	}
	if len(c.items) >= c.max {
		return fmt.Errorf("too many cabinets: limit is %d", c.max)
	}
	c.names[item.Name] = true
	c.items = append(c.items, item)
	return nil
}

// cabinetKeys lists the keywords `cabinet` accepts.
var cabinetKeys = map[string]bool{
	"type": true, "length": true, "height": true, "depth": true,
	"shelves": true, "doors": true, "orientation": true, "division": true,
	"handle": true, "back": true,
}

// buildConfig turns parsed keyword arguments into a config. Omitted values
// take the defaults of the cabinet type; an omitted door count is derived.
func buildConfig(pa kwArgs) (cabinet.Config, error) {
	for key := range pa.kw {
		if !cabinetKeys[key] {
			return cabinet.Config{}, fmt.Errorf("unknown keyword :%s", key)
		}
	}

	v, ok := pa.kw["type"]
	if !ok {
		return cabinet.Config{}, fmt.Errorf("missing :type")
	}
	name, err := toKeywordString(v)
	if err != nil {
		return cabinet.Config{}, fmt.Errorf("type: %w", err)
	}
	t, err := cabinet.ParseType(name)
	if err != nil {
		return cabinet.Config{}, err
	}

	v, ok = pa.kw["length"]
	if !ok {
		return cabinet.Config{}, fmt.Errorf("missing :length")
	}
	length, err := toFloat64(v)
	if err != nil {
		return cabinet.Config{}, fmt.Errorf("length: %w", err)
	}

	cfg := cabinet.New(t, length)
	cfg.ShelfCount = 0

	for key, dst := range map[string]*float64{"height": &cfg.Height, "depth": &cfg.Depth} {
		if v, ok := pa.kw[key]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return cabinet.Config{}, fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
	}

	if v, ok := pa.kw["shelves"]; ok {
		n, err := toInt(v)
		if err != nil {
			return cabinet.Config{}, fmt.Errorf("shelves: %w", err)
		}
		cfg.IncludeShelf = n != 0
		cfg.ShelfCount = n
	}

	if v, ok := pa.kw["orientation"]; ok {
		name, err := toKeywordString(v)
		if err != nil {
			return cabinet.Config{}, fmt.Errorf("orientation: %w", err)
		}
		if cfg.DoorOrientation, err = cabinet.ParseDoorOrientation(name); err != nil {
			return cabinet.Config{}, err
		}
	}
	if v, ok := pa.kw["division"]; ok {
		name, err := toKeywordString(v)
		if err != nil {
			return cabinet.Config{}, fmt.Errorf("division: %w", err)
		}
		if cfg.DoorDivision, err = cabinet.ParseDoorDivision(name); err != nil {
			return cabinet.Config{}, err
		}
	}
	if v, ok := pa.kw["handle"]; ok {
		name, err := toKeywordString(v)
		if err != nil {
			return cabinet.Config{}, fmt.Errorf("handle: %w", err)
		}
		if cfg.HandleType, err = cabinet.ParseHandleType(name); err != nil {
			return cabinet.Config{}, err
		}
	}
	if v, ok := pa.kw["back"]; ok {
		name, err := toKeywordString(v)
		if err != nil {
			return cabinet.Config{}, fmt.Errorf("back: %w", err)
		}
		if cfg.BackConnection, err = cabinet.ParseBackConnection(name); err != nil {
			return cabinet.Config{}, err
		}
	}

	if v, ok := pa.kw["doors"]; ok {
		n, err := toInt(v)
		if err != nil {
			return cabinet.Config{}, fmt.Errorf("doors: %w", err)
		}
		cfg.DoorCount = n
		cfg.DoorCountIsManual = true
	}

	return cfg.Resolve(), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the cabinet DSL builtins into a zygomys
// environment. Declared cabinets are recorded in c.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, c *collector) {
	// -----------------------------------------------------------------------
	// (cabinet "name" :type :base :length 120 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("cabinet", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("cabinet requires exactly one name argument")
		}
		cabName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cabinet: name: %w", err)
		}
		if strings.TrimSpace(cabName) == "" {
			return zygo.SexpNull, fmt.Errorf("cabinet: name must not be empty")
		}

		cfg, err := buildConfig(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cabinet %q: %w", cabName, err)
		}

		item := Item{Name: cabName, Config: cfg}
		if err := c.add(item); err != nil {
			return zygo.SexpNull, fmt.Errorf("cabinet: %w", err)
		}
		return &sexpCabinet{item: item}, nil
	})

	// -----------------------------------------------------------------------
	// (auto-doors :type :full :division :height :length 50) -> int
	// -----------------------------------------------------------------------
	env.AddFunction("auto_doors", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		t := cabinet.TypeBase
		if v, ok := pa.kw["type"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("auto-doors: type: %w", err)
			}
			if t, err = cabinet.ParseType(s); err != nil {
				return zygo.SexpNull, fmt.Errorf("auto-doors: %w", err)
			}
		}
		division := cabinet.DivisionByLength
		if v, ok := pa.kw["division"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("auto-doors: division: %w", err)
			}
			if division, err = cabinet.ParseDoorDivision(s); err != nil {
				return zygo.SexpNull, fmt.Errorf("auto-doors: %w", err)
			}
		}
		v, ok := pa.kw["length"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("auto-doors requires :length")
		}
		length, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("auto-doors: length: %w", err)
		}

		return &zygo.SexpInt{Val: int64(cabinet.AutoDoorCount(t, division, length))}, nil
	})
}
