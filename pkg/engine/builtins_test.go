package engine

import (
	"context"
	"testing"

	"github.com/chazu/cabinetcut/pkg/cabinet"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(cabinet "sink" :type :base)`,
			expect: `(cabinet "sink" "__kw_type" "__kw_base")`,
		},
		{
			name:   "multiple keywords",
			input:  `(cabinet "a" :length 120 :height 72)`,
			expect: `(cabinet "a" "__kw_length" 120 "__kw_height" 72)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(auto-doors :length base-len)`,
			expect: `(auto_doors "__kw_length" base_len)`,
		},
		{
			name:   "kebab-case inside name string preserved",
			input:  `(cabinet "sink-left")`,
			expect: `(cabinet "sink-left")`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `:length -5`,
			expect: `"__kw_length" -5`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:door-count`,
			expect: `"__kw_door-count"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// cabinet builtin
// ---------------------------------------------------------------------------

func evaluate(t *testing.T, source string) []Item {
	t.Helper()
	items, evalErrs, err := NewEngine().Evaluate(context.Background(), source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return items
}

func TestSimpleCabinet(t *testing.T) {
	items := evaluate(t, `(cabinet "sink" :type :base :length 120)`)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	it := items[0]
	if it.Name != "sink" {
		t.Errorf("Name = %q, want sink", it.Name)
	}
	cfg := it.Config
	if cfg.Type != cabinet.TypeBase || cfg.Length != 120 {
		t.Errorf("type/length = %s/%g", cfg.Type, cfg.Length)
	}
	if cfg.Height != 72 || cfg.Depth != 56 {
		t.Errorf("expected base defaults 72x56, got %gx%g", cfg.Height, cfg.Depth)
	}
	if cfg.DoorCount != 3 || cfg.DoorCountIsManual {
		t.Errorf("expected auto-derived 3 doors, got %d (manual=%v)", cfg.DoorCount, cfg.DoorCountIsManual)
	}
	if cfg.IncludeShelf {
		t.Error("omitted :shelves should mean no shelf")
	}
	if cfg.HandleType != cabinet.HandleModern || cfg.BackConnection != cabinet.BackMountedOnBody {
		t.Errorf("expected modern/mounted defaults, got %s/%s", cfg.HandleType, cfg.BackConnection)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("declared config should be valid: %v", err)
	}
}

func TestCabinetAllOptions(t *testing.T) {
	items := evaluate(t, `
(cabinet "pantry" :type :full :length 50 :height 220 :depth 60
         :shelves 5 :doors 3 :orientation :horizontal :division :height
         :handle :classic :back :mdf)
`)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	cfg := items[0].Config
	want := cabinet.Config{
		Type: cabinet.TypeFull, Length: 50, Height: 220, Depth: 60,
		IncludeShelf: true, ShelfCount: 5,
		DoorCount: 3, DoorCountIsManual: true,
		DoorOrientation: cabinet.OrientationHorizontal,
		DoorDivision:    cabinet.DivisionByHeight,
		HandleType:      cabinet.HandleClassic,
		BackConnection:  cabinet.BackMdfFullFit,
	}
	if cfg != want {
		t.Errorf("config = %+v\nwant %+v", cfg, want)
	}
}

func TestCabinetDivisionRederivesDoors(t *testing.T) {
	items := evaluate(t, `(cabinet "tall" :type :full :length 100 :division :height)`)
	if got := items[0].Config.DoorCount; got != 2 {
		t.Errorf("full by height should derive 2 doors, got %d", got)
	}
	if got := items[0].Config.Height; got != 240 {
		t.Errorf("full default height = %g, want 240", got)
	}
}

func TestCabinetsKeepDeclarationOrder(t *testing.T) {
	items := evaluate(t, `
; a small kitchen
(def base-len 80)
(cabinet "c" :type :base :length base-len)
(cabinet "a" :type :wall :length (+ base-len 20) :orientation :horizontal)
(cabinet "b" :type :full :length 60.5)
`)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"c", "a", "b"} {
		if items[i].Name != want {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Name, want)
		}
	}
	if items[1].Config.Length != 100 {
		t.Errorf("computed length = %g, want 100", items[1].Config.Length)
	}
	if items[2].Config.Length != 60.5 {
		t.Errorf("float length = %g, want 60.5", items[2].Config.Length)
	}
}

func TestCabinetZeroShelves(t *testing.T) {
	items := evaluate(t, `(cabinet "open" :type :wall :length 60 :shelves 0)`)
	if items[0].Config.IncludeShelf {
		t.Error(":shelves 0 should mean no shelf")
	}
}

func TestCabinetInvalidValuesAreNotRejected(t *testing.T) {
	// Range checks belong to the cutlist computation, not the script.
	items := evaluate(t, `(cabinet "bad" :type :base :length -5 :doors 0)`)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if err := items[0].Config.Validate(); err == nil {
		t.Error("expected the declared config to fail validation")
	}
}

func TestCabinetErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing name", `(cabinet :type :base :length 60)`},
		{"empty name", `(cabinet "" :type :base :length 60)`},
		{"missing type", `(cabinet "x" :length 60)`},
		{"missing length", `(cabinet "x" :type :base)`},
		{"unknown type", `(cabinet "x" :type :island :length 60)`},
		{"unknown handle", `(cabinet "x" :type :base :length 60 :handle :knob)`},
		{"unknown keyword", `(cabinet "x" :type :base :length 60 :colour "red")`},
		{"length not a number", `(cabinet "x" :type :base :length "sixty")`},
		{"fractional doors", `(cabinet "x" :type :base :length 60 :doors 1.5)`},
		{"duplicate name", `(cabinet "x" :type :base :length 60) (cabinet "x" :type :wall :length 60)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, evalErrs, err := NewEngine().Evaluate(context.Background(), tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if items != nil {
				t.Errorf("expected no items, got %v", items)
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected at least one eval error")
			}
			if evalErrs[0].Message == "" {
				t.Error("eval error should have a non-empty message")
			}
		})
	}
}

func TestMaxCabinets(t *testing.T) {
	eng := NewEngine(WithMaxCabinets(2))
	source := `
(cabinet "a" :type :base :length 60)
(cabinet "b" :type :base :length 60)
(cabinet "c" :type :base :length 60)
`
	_, evalErrs, err := eng.Evaluate(context.Background(), source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error past the cabinet limit")
	}
}

func TestAutoDoors(t *testing.T) {
	items := evaluate(t, `
(cabinet "x" :type :base :length 100 :doors (auto-doors :type :full :division :height :length 100))
(cabinet "y" :type :base :length 100 :doors (auto-doors :length 130))
`)
	if got := items[0].Config.DoorCount; got != 2 {
		t.Errorf("auto-doors full/height = %d, want 2", got)
	}
	if got := items[1].Config.DoorCount; got != 4 {
		t.Errorf("auto-doors base 130 = %d, want 4", got)
	}
}
