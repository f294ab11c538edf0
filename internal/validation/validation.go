// Package validation binds request data and validates it.
//
// Request types carry go-playground/validator struct tags and implement
// Validatable. Failures are converted into errs.FieldError lists so clients
// get one entry per offending field.
package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator instance. validator.Validate caches
// struct metadata, so one instance serves the whole process.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
	})
	return instance
}

// Struct validates v against its struct tags.
func Struct(v any) error {
	return Validator().Struct(v)
}
