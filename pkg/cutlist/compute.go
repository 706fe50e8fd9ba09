package cutlist

import (
	"github.com/chazu/cabinetcut/pkg/cabinet"
	"go.uber.org/multierr"
)

// Fixed construction allowances, in centimeters.
const (
	BoardThickness    = 1.6  // carcass board
	DoorGap           = 0.6  // total clearance around one door
	StripWidth        = 7.0  // stretchers, partitions and alignment strips
	BaseDoorReduction = 2.0  // base and full doors stop short of the carcass height
	MdfBackReduction  = 3.3  // full-fit MDF back
	QeydPerMeter      = 69.8 // door qeyd length per meter of cabinet length

	middlePartitionMinLength = 110.0
)

// Compute derives the cutlist for cfg. The door count is used as given;
// callers resolve it first (see cabinet.Config.Resolve).
//
// Invalid input is reported, never panicked on: the error is the one from
// cfg.Validate, or a combination of *cabinet.FieldError values wrapping
// cabinet.ErrInvalidDimension naming each role whose derived size would not
// be positive. No partial cutlist is returned.
func Compute(cfg cabinet.Config) (CutList, error) {
	if err := cfg.Validate(); err != nil {
		return CutList{}, err
	}

	l, h, d := cfg.Length, cfg.Height, cfg.Depth
	inner := l - 2*BoardThickness

	pieces := []Piece{
		{RoleFloor, PieceSpec{l, d, 1}},
		{RoleSides, PieceSpec{h - BoardThickness, d, 2}},
		topPiece(cfg, inner),
		{RoleBack, backSpec(cfg)},
		{RoleDoor, doorSpec(cfg)},
		{RoleDoorAlignmentStrip, PieceSpec{StripWidth, inner, 2}},
	}
	if cfg.Type == cabinet.TypeBase && l > middlePartitionMinLength {
		pieces = append(pieces, Piece{RoleMiddlePartition, PieceSpec{StripWidth, h, 3}})
	}
	if cfg.IncludeShelf {
		pieces = append(pieces, Piece{RoleShelf, PieceSpec{inner, d - shelfSetback(cfg.Type), cfg.ShelfCount}})
	}
	if cfg.Type == cabinet.TypeWall && cfg.EffectiveOrientation() == cabinet.OrientationHorizontal {
		pieces = append(pieces, Piece{RoleDoorQeyd, PieceSpec{StripWidth, l / 100 * QeydPerMeter, max(0, cfg.DoorCount-1)}})
	}

	if err := checkPositive(pieces); err != nil {
		return CutList{}, err
	}
	return New(pieces...), nil
}

// Base cabinets are open on top and get two stretcher strips.
func topPiece(cfg cabinet.Config, inner float64) Piece {
	if cfg.Type == cabinet.TypeBase {
		return Piece{RoleTop, PieceSpec{StripWidth, inner, 2}}
	}
	return Piece{RoleTop, PieceSpec{cfg.Length, cfg.Depth, 1}}
}

func backSpec(cfg cabinet.Config) PieceSpec {
	l, h := cfg.Length, cfg.Height
	switch cfg.BackConnection {
	case cabinet.BackFitting:
		return PieceSpec{l - BoardThickness, h - BoardThickness, 1}
	case cabinet.BackMdfFullFit:
		return PieceSpec{l - MdfBackReduction, h, 1}
	default:
		if cfg.Type == cabinet.TypeBase {
			return PieceSpec{l, h + BoardThickness, 1}
		}
		return PieceSpec{l, h, 1}
	}
}

// doorSpec lists doors height first. Doors split along the length share
// the full height; doors stacked along the height share the full length.
func doorSpec(cfg cabinet.Config) PieceSpec {
	l, h := cfg.Length, cfg.Height
	n := cfg.DoorCount
	perLength := l/float64(n) - DoorGap
	perHeight := h/float64(n) - DoorGap

	switch cfg.Type {
	case cabinet.TypeWall:
		if cfg.EffectiveOrientation() == cabinet.OrientationHorizontal {
			return PieceSpec{perHeight, l - DoorGap, n}
		}
		return PieceSpec{h - DoorGap, perLength, n}
	case cabinet.TypeFull:
		if cfg.EffectiveDivision() == cabinet.DivisionByHeight {
			return PieceSpec{perHeight, l - DoorGap, n}
		}
		return PieceSpec{h - BaseDoorReduction, perLength, n}
	default:
		return PieceSpec{h - BaseDoorReduction, perLength, n}
	}
}

func shelfSetback(t cabinet.Type) float64 {
	if t == cabinet.TypeWall {
		return 1
	}
	return 2
}

// checkPositive rejects pieces with a non-positive dimension or count. The
// door qeyd may legitimately have zero pieces.
func checkPositive(pieces []Piece) error {
	var err error
	for _, p := range pieces {
		s := p.Spec
		if s.Width <= 0 || s.Height <= 0 {
			err = multierr.Append(err, &cabinet.FieldError{
				Field: p.Role.String(),
				Value: s,
				Err:   cabinet.ErrInvalidDimension,
			})
			continue
		}
		if s.Quantity < 1 && p.Role != RoleDoorQeyd {
			err = multierr.Append(err, &cabinet.FieldError{
				Field: p.Role.String(),
				Value: s.Quantity,
				Err:   cabinet.ErrInvalidDimension,
			})
		}
	}
	return err
}
