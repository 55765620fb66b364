// ABOUTME: Attribute validation error shared by every entity setter.
// ABOUTME: Callers match it with errors.Is(err, ErrInvalidAttribute).
package models

import (
	"errors"
	"fmt"
)

// ErrInvalidAttribute is the sentinel wrapped by every AttributeError.
var ErrInvalidAttribute = errors.New("invalid attribute")

// AttributeError reports a single attribute that failed validation on assignment.
type AttributeError struct {
	Entity string
	Field  string
	Reason string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Reason)
}

func (e *AttributeError) Unwrap() error {
	return ErrInvalidAttribute
}

func invalid(entity, field, reason string) *AttributeError {
	return &AttributeError{Entity: entity, Field: field, Reason: reason}
}
