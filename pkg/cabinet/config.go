package cabinet

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// Config is the full set of inputs a cutlist is computed from. Dimensions
// are outer measurements in centimeters. Config is a value type; copies
// are independent.
type Config struct {
	Type   Type    `json:"type" validate:"required,oneof=base wall full"`
	Length float64 `json:"length" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
	Depth  float64 `json:"depth" validate:"gt=0"`

	IncludeShelf bool `json:"includeShelf"`
	ShelfCount   int  `json:"shelfCount"` // only meaningful with IncludeShelf

	DoorCount         int  `json:"doorCount" validate:"min=1,max=50"`
	DoorCountIsManual bool `json:"doorCountIsManual"`

	DoorOrientation DoorOrientation `json:"doorOrientation" validate:"required,oneof=vertical horizontal"`
	DoorDivision    DoorDivision    `json:"doorDivision" validate:"required,oneof=length height"`
	HandleType      HandleType      `json:"handleType" validate:"required,oneof=modern classic magnet"`
	BackConnection  BackConnection  `json:"backConnection" validate:"required,oneof=mounted fitting mdf"`
}

// New returns a config of the given type and length with the type's default
// dimensions, modern handles, a body-mounted back and an auto-derived door
// count.
func New(t Type, length float64) Config {
	c := Config{
		Type:            t,
		Length:          length,
		DoorOrientation: OrientationVertical,
		DoorDivision:    DivisionByLength,
		HandleType:      HandleModern,
		BackConnection:  BackMountedOnBody,
	}
	c = c.WithDefaults()
	return c.Resolve()
}

// Resolve returns a copy with the door count auto-derived from the length
// unless the door count was set manually.
func (c Config) Resolve() Config {
	if !c.DoorCountIsManual {
		c.DoorCount = AutoDoorCount(c.Type, c.DoorDivision, c.Length)
	}
	return c
}

// EffectiveOrientation is the door orientation the engine honours. Base
// cabinets always use vertical doors.
func (c Config) EffectiveOrientation() DoorOrientation {
	if c.Type == TypeBase {
		return OrientationVertical
	}
	return c.DoorOrientation
}

// EffectiveDivision is the door division the engine honours. Only full
// cabinets consult it; every other type divides by length.
func (c Config) EffectiveDivision() DoorDivision {
	if c.Type != TypeFull {
		return DivisionByLength
	}
	return c.DoorDivision
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	v.RegisterStructValidation(validateShelves, Config{})
	return v
}

func validateShelves(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if c.IncludeShelf && c.ShelfCount < 1 {
		sl.ReportError(c.ShelfCount, "shelfCount", "ShelfCount", "min", "1")
	}
}

// Validate checks every invariant and returns all violations combined, or
// nil. Use FieldErrors to inspect them individually and errors.Is with the
// sentinel errors to classify them.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var combined error
	for _, fe := range fieldErrs {
		combined = multierr.Append(combined, &FieldError{
			Field: fe.Field(),
			Value: fe.Value(),
			Err:   sentinelFor(fe.StructField()),
		})
	}
	return combined
}

func sentinelFor(structField string) error {
	switch structField {
	case "Length", "Height", "Depth":
		return ErrInvalidDimension
	case "DoorCount":
		return ErrInvalidDoorCount
	case "ShelfCount":
		return ErrInvalidShelfCount
	default:
		return ErrInvalidOption
	}
}
