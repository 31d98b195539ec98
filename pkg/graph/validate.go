package graph

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/graphpad/pkg/errors"
)

// validate is the shared validator instance; validator caches struct
// metadata, so one instance serves every call.
var validate = validator.New()

// Validate checks a document's record shapes: ids present and bounded, known
// type and access values, non-negative layers.
func (d *Document) Validate() error { return validateStruct(d) }

// Validate checks a full-save request.
func (r *SaveRequest) Validate() error { return validateStruct(r) }

// Validate checks a positions-only save request.
func (r *PositionsRequest) Validate() error { return validateStruct(r) }

// Validate checks any struct carrying validate tags and reports the first
// failing field as INVALID_INPUT.
func Validate(v any) error { return validateStruct(v) }

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, formatValidationError(err), "invalid request")
	}
	return nil
}

// formatValidationError reduces validator output to the first failing field.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "max":
		return fmt.Errorf("%s: must not exceed %s", field, e.Param())
	case "min":
		return fmt.Errorf("%s: must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s]", field, e.Param())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}
