package calculator

import (
	"github.com/chazu/cabinetcut/pkg/cabinet"
	pkgerrors "github.com/chazu/cabinetcut/pkg/errors"
)

// FieldDetail is the public form of one invalid field.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// fieldDetails flattens config violations for error details. Errors that
// carry no field are reported under "config".
func fieldDetails(err error) []FieldDetail {
	fieldErrs := cabinet.FieldErrors(err)
	if len(fieldErrs) == 0 {
		return []FieldDetail{{Field: "config", Message: err.Error()}}
	}
	details := make([]FieldDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, FieldDetail{Field: fe.Field, Message: fe.Err.Error()})
	}
	return details
}

// classify maps a domain error onto a typed error.
func classify(err error) *pkgerrors.Error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if cabinet.IsValidation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cabinet configuration").
			WithDetails(fieldDetails(err))
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected failure")
}
