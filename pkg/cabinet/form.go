package cabinet

// MinDimension is the smallest length, height or depth a form accepts;
// smaller input is clamped up to it.
const MinDimension = 0.1

// Policy controls when a manually entered door count stops overriding
// auto-derivation.
type Policy struct {
	ResetOverrideOnTypeChange     bool
	ResetOverrideOnDivisionChange bool
}

// DefaultPolicy resets the manual door count whenever the cabinet type or
// door division changes.
func DefaultPolicy() Policy {
	return Policy{ResetOverrideOnTypeChange: true, ResetOverrideOnDivisionChange: true}
}

// Patch is a partial form update. Nil fields are left unchanged.
type Patch struct {
	Type            *Type            `json:"type,omitempty"`
	DoorDivision    *DoorDivision    `json:"doorDivision,omitempty"`
	DoorOrientation *DoorOrientation `json:"doorOrientation,omitempty"`
	Length          *float64         `json:"length,omitempty"`
	Height          *float64         `json:"height,omitempty"`
	Depth           *float64         `json:"depth,omitempty"`
	DoorCount       *int             `json:"doorCount,omitempty"`
	AutoDoorCount   bool             `json:"autoDoorCount,omitempty"` // drop a manual door count
	IncludeShelf    *bool            `json:"includeShelf,omitempty"`
	ShelfCount      *int             `json:"shelfCount,omitempty"`
	HandleType      *HandleType      `json:"handleType,omitempty"`
	BackConnection  *BackConnection  `json:"backConnection,omitempty"`
}

// Form is the live, editable configuration of one session. It re-derives
// the door count after every relevant change. A Form is not safe for
// concurrent use; each session owns its own.
type Form struct {
	cfg    Config
	policy Policy
}

// NewForm starts a form for a base cabinet with no length entered yet.
func NewForm(policy Policy) *Form {
	return &Form{cfg: New(TypeBase, 0), policy: policy}
}

// Config returns a copy of the current configuration.
func (f *Form) Config() Config {
	return f.cfg
}

// SetType switches the cabinet type and applies its defaults.
func (f *Form) SetType(t Type) {
	if t == f.cfg.Type {
		return
	}
	f.cfg.Type = t
	f.cfg = f.cfg.WithDefaults()
	if f.policy.ResetOverrideOnTypeChange {
		f.cfg.DoorCountIsManual = false
	}
	f.cfg = f.cfg.Resolve()
}

// SetDoorDivision changes how a full cabinet's doors are divided.
func (f *Form) SetDoorDivision(d DoorDivision) {
	if d == f.cfg.DoorDivision {
		return
	}
	f.cfg.DoorDivision = d
	if f.policy.ResetOverrideOnDivisionChange {
		f.cfg.DoorCountIsManual = false
	}
	f.cfg = f.cfg.Resolve()
}

func (f *Form) SetDoorOrientation(o DoorOrientation) {
	f.cfg.DoorOrientation = o
}

func (f *Form) SetLength(v float64) {
	f.cfg.Length = clampDimension(v)
	f.cfg = f.cfg.Resolve()
}

func (f *Form) SetHeight(v float64) {
	f.cfg.Height = clampDimension(v)
}

func (f *Form) SetDepth(v float64) {
	f.cfg.Depth = clampDimension(v)
}

// SetDoorCount enters a manual door count, suspending auto-derivation.
func (f *Form) SetDoorCount(n int) {
	n = min(max(n, 1), MaxDoorCount)
	f.cfg.DoorCount = n
	f.cfg.DoorCountIsManual = true
}

// ClearDoorOverride resumes auto-derivation of the door count.
func (f *Form) ClearDoorOverride() {
	f.cfg.DoorCountIsManual = false
	f.cfg = f.cfg.Resolve()
}

// SetShelves toggles shelves and sets how many. A count below one is
// raised to one.
func (f *Form) SetShelves(include bool, count int) {
	if count < 1 {
		count = 1
	}
	f.cfg.IncludeShelf = include
	f.cfg.ShelfCount = count
}

func (f *Form) SetHandleType(h HandleType) {
	f.cfg.HandleType = h
}

func (f *Form) SetBackConnection(b BackConnection) {
	f.cfg.BackConnection = b
}

// Apply applies a patch. Type and division go first so their defaults do
// not overwrite explicit dimensions in the same patch.
func (f *Form) Apply(p Patch) {
	if p.Type != nil {
		f.SetType(*p.Type)
	}
	if p.DoorDivision != nil {
		f.SetDoorDivision(*p.DoorDivision)
	}
	if p.DoorOrientation != nil {
		f.SetDoorOrientation(*p.DoorOrientation)
	}
	if p.Length != nil {
		f.SetLength(*p.Length)
	}
	if p.Height != nil {
		f.SetHeight(*p.Height)
	}
	if p.Depth != nil {
		f.SetDepth(*p.Depth)
	}
	if p.AutoDoorCount {
		f.ClearDoorOverride()
	}
	if p.DoorCount != nil {
		f.SetDoorCount(*p.DoorCount)
	}
	if p.IncludeShelf != nil || p.ShelfCount != nil {
		include, count := f.cfg.IncludeShelf, f.cfg.ShelfCount
		if p.IncludeShelf != nil {
			include = *p.IncludeShelf
		}
		if p.ShelfCount != nil {
			count = *p.ShelfCount
		}
		f.SetShelves(include, count)
	}
	if p.HandleType != nil {
		f.SetHandleType(*p.HandleType)
	}
	if p.BackConnection != nil {
		f.SetBackConnection(*p.BackConnection)
	}
}

func clampDimension(v float64) float64 {
	if v < MinDimension {
		return MinDimension
	}
	return v
}
