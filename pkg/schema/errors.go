// pkg/schema/errors.go
package schema

import "fmt"

// SchemaError reports an invalid model declaration: a descriptor that cannot
// be mapped, a foreign key referencing a missing or incompatible field, or a
// self-referential foreign key. It is always raised before any statement is
// sent to the database.
type SchemaError struct {
	Model   string
	Field   string // empty when the error concerns the model as a whole
	Message string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: model %s, field %s: %s", e.Model, e.Field, e.Message)
	}
	return fmt.Sprintf("schema: model %s: %s", e.Model, e.Message)
}

func schemaErrf(model, field, format string, args ...any) *SchemaError {
	return &SchemaError{Model: model, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports input that fails the boundary checks: a bad field
// descriptor, an unknown field, an invalid operator, an out-of-range or
// mistyped value, a missing required field, or a non-positive limit. It is
// always raised before any statement is sent.
type ValidationError struct {
	Field   string // empty when the error is not tied to one field
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: field %s: %s", e.Field, e.Message)
	}
	return "validation: " + e.Message
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
