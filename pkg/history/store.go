// Package history keeps the append-only record of stored cabinets.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chazu/cabinetcut/pkg/cabinet"
	"github.com/chazu/cabinetcut/pkg/cutlist"
)

// Unit is an immutable snapshot of one stored cabinet. Rows are rendered
// when the unit is appended and never re-rendered.
type Unit struct {
	ID        uuid.UUID       `json:"id"`
	Seq       int             `json:"seq"`
	CreatedAt time.Time       `json:"createdAt"`
	Config    cabinet.Config  `json:"config"`
	CutList   cutlist.CutList `json:"cutList"`
	Rows      []cutlist.Row   `json:"rows"`
}

func (u Unit) clone() Unit {
	u.CutList = u.CutList.Clone()
	u.Rows = append([]cutlist.Row(nil), u.Rows...)
	return u
}

// Store is an in-memory, append-only sequence of units. It is safe for
// concurrent use; appends are serialized so Seq follows insertion order.
type Store struct {
	mu    sync.RWMutex
	units []Unit
	now   func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used to stamp units.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore seeds a store with previously persisted units, ordered by Seq.
// Later appends continue the sequence.
func Restore(units []Unit, opts ...Option) *Store {
	s := NewStore(opts...)
	s.units = make([]Unit, 0, len(units))
	for _, u := range units {
		s.units = append(s.units, u.clone())
	}
	sort.SliceStable(s.units, func(i, j int) bool { return s.units[i].Seq < s.units[j].Seq })
	return s
}

// Append stores a deep copy of cfg and cl and returns the new unit. It
// never fails.
func (s *Store) Append(cfg cabinet.Config, cl cutlist.CutList) Unit {
	cl = cl.Clone()
	rows := cutlist.Format(cl)

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := 1
	if n := len(s.units); n > 0 {
		seq = s.units[n-1].Seq + 1
	}
	u := Unit{
		ID:        uuid.New(),
		Seq:       seq,
		CreatedAt: s.now(),
		Config:    cfg,
		CutList:   cl,
		Rows:      rows,
	}
	s.units = append(s.units, u)
	return u.clone()
}

// List returns every unit in insertion order. The result is a copy; callers
// may keep or modify it freely.
func (s *Store) List() []Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Unit, len(s.units))
	for i, u := range s.units {
		out[i] = u.clone()
	}
	return out
}

// Len returns the number of stored units.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.units)
}
