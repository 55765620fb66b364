// ABOUTME: ValidationError collects every failing field of an inbound payload.
// ABOUTME: Fields maps a field name (or _schema) to its list of reasons.
package schemas

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SchemaKey holds reasons that apply to the payload as a whole.
const SchemaKey = "_schema"

// ErrSchemaValidationFailed is the sentinel matched by every ValidationError.
var ErrSchemaValidationFailed = errors.New("schema validation failed")

// ValidationError reports all field failures of one load at once.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrSchemaValidationFailed
}

// Add appends a reason for field.
func (e *ValidationError) Add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], reason)
}

// Err returns e when it holds at least one failure, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
