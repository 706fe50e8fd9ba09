// Package preview projects a cabinet into an approximate 3D design graph.
//
// Preview space is millimeters with the origin at the back-left-bottom
// corner of the carcass: X runs along the length, Y up and Z towards the
// front. Door fronts sit in front of the carcass at Z = depth.
package preview

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/chazu/cabinetcut/pkg/cabinet"
)

// Params is the subset of a cabinet config the preview needs. Dimensions
// are in centimeters, like the config they come from.
type Params struct {
	Type            cabinet.Type            `json:"type"`
	Length          float64                 `json:"length"`
	Height          float64                 `json:"height"`
	Depth           float64                 `json:"depth"`
	DoorCount       int                     `json:"doorCount"`
	DoorOrientation cabinet.DoorOrientation `json:"doorOrientation"`
	DoorDivision    cabinet.DoorDivision    `json:"doorDivision"`
	HandleType      cabinet.HandleType      `json:"handleType"`
}

// FromConfig extracts the preview tuple from a config, deriving the door
// count when it is not set manually.
func FromConfig(cfg cabinet.Config) Params {
	cfg = cfg.Resolve()
	return Params{
		Type:            cfg.Type,
		Length:          cfg.Length,
		Height:          cfg.Height,
		Depth:           cfg.Depth,
		DoorCount:       cfg.DoorCount,
		DoorOrientation: cfg.EffectiveOrientation(),
		DoorDivision:    cfg.EffectiveDivision(),
		HandleType:      cfg.HandleType,
	}
}

// Validate reports every invalid field using the same field errors as
// cabinet.Config.Validate. Once the fields are valid it also checks that
// the doors fit, so Build never lays out doors of non-positive size.
func (p Params) Validate() error {
	var err error
	check := func(ok bool, field string, value any, sentinel error) {
		if !ok {
			err = multierr.Append(err, &cabinet.FieldError{Field: field, Value: value, Err: sentinel})
		}
	}
	check(p.Type.IsValid(), "type", p.Type, cabinet.ErrInvalidOption)
	check(p.Length > 0, "length", p.Length, cabinet.ErrInvalidDimension)
	check(p.Height > 0, "height", p.Height, cabinet.ErrInvalidDimension)
	check(p.Depth > 0, "depth", p.Depth, cabinet.ErrInvalidDimension)
	check(p.DoorCount >= 1 && p.DoorCount <= cabinet.MaxDoorCount, "doorCount", p.DoorCount, cabinet.ErrInvalidDoorCount)
	check(p.DoorOrientation.IsValid(), "doorOrientation", p.DoorOrientation, cabinet.ErrInvalidOption)
	check(p.DoorDivision.IsValid(), "doorDivision", p.DoorDivision, cabinet.ErrInvalidOption)
	check(p.HandleType.IsValid(), "handleType", p.HandleType, cabinet.ErrInvalidOption)
	if err != nil {
		return err
	}

	// The doors must keep a positive size once the gaps are taken out.
	w, h := doorSize(p.Length*cm, p.doorSpan(), p.DoorCount, p.doorsStacked())
	if w <= 0 || h <= 0 {
		field, value := "height", p.Height
		if w <= 0 {
			field, value = "length", p.Length
		}
		return &cabinet.FieldError{
			Field: field,
			Value: value,
			Err:   fmt.Errorf("%w: too small for %d doors", cabinet.ErrInvalidDimension, p.DoorCount),
		}
	}
	return nil
}

func (p Params) modernBase() bool {
	return p.Type == cabinet.TypeBase && p.HandleType == cabinet.HandleModern
}

// doorSpan is the front height in mm the doors share.
func (p Params) doorSpan() float64 {
	span := p.Height * cm
	if p.modernBase() {
		span -= ModernDoorCut
	}
	return span
}

// doorsStacked reports whether doors are laid out one above the other.
func (p Params) doorsStacked() bool {
	switch p.Type {
	case cabinet.TypeWall:
		return p.DoorOrientation == cabinet.OrientationHorizontal
	case cabinet.TypeFull:
		return p.DoorOrientation == cabinet.OrientationHorizontal || p.DoorDivision == cabinet.DivisionByHeight
	default:
		return false
	}
}
