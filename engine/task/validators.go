package task

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// -----------------------------------------------------------------------------
// RuntimeValidator
// -----------------------------------------------------------------------------

var validate = validator.New()

// RuntimeValidator checks a decoded Runtime beyond presence: PDY must be an
// eight-digit date, cyc a valid hour of day, and the remaining keys
// non-empty.
type RuntimeValidator struct {
	runtime *Runtime
}

func NewRuntimeValidator(runtime *Runtime) *RuntimeValidator {
	return &RuntimeValidator{
		runtime: runtime,
	}
}

func (v *RuntimeValidator) Validate() error {
	if v.runtime == nil {
		return fmt.Errorf("no runtime to validate")
	}
	if err := validate.Struct(v.runtime); err != nil {
		return fmt.Errorf("runtime keys out of range: %w", err)
	}
	return nil
}
