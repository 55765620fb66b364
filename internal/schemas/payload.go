// ABOUTME: Typed field readers over loosely typed JSON-like payloads.
// ABOUTME: Each reader records failures on a shared ValidationError instead of stopping.
package schemas

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/gymlog/internal/models"
)

const (
	msgRequired = "Missing data for required field."
	msgNull     = "Field may not be null."
	msgString   = "Not a valid string."
	msgInteger  = "Not a valid integer."
	msgBoolean  = "Not a valid boolean."
	msgDate     = "Not a valid date."
	msgUnknown  = "Unknown field."
	msgInput    = "Invalid input type."
)

// DecodeObject reads a JSON object from r, keeping numbers exact.
func DecodeObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ValidationError{Fields: map[string][]string{SchemaKey: {"No input data provided."}}}
		}
		return nil, &ValidationError{Fields: map[string][]string{SchemaKey: {"Invalid JSON: " + err.Error()}}}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ValidationError{Fields: map[string][]string{SchemaKey: {msgInput}}}
	}
	return obj, nil
}

type reader struct {
	raw  map[string]any
	errs *ValidationError
}

func newReader(raw map[string]any) *reader {
	return &reader{raw: raw, errs: &ValidationError{}}
}

// rejectUnknown flags every key outside allowed, including dump-only fields.
func (r *reader) rejectUnknown(allowed ...string) {
	for key := range r.raw {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			r.errs.Add(key, msgUnknown)
		}
	}
}

func (r *reader) lookup(key string, required, nullable bool) (any, bool) {
	v, present := r.raw[key]
	if !present {
		if required {
			r.errs.Add(key, msgRequired)
		}
		return nil, false
	}
	if v == nil {
		if !nullable {
			r.errs.Add(key, msgNull)
		}
		return nil, false
	}
	return v, true
}

func (r *reader) has(key string) bool {
	_, ok := r.raw[key]
	return ok
}

func (r *reader) str(key string, required, nullable bool) *string {
	v, ok := r.lookup(key, required, nullable)
	if !ok {
		return nil
	}
	s, isString := v.(string)
	if !isString {
		r.errs.Add(key, msgString)
		return nil
	}
	return &s
}

func (r *reader) integer(key string, required, nullable bool) *int {
	v, ok := r.lookup(key, required, nullable)
	if !ok {
		return nil
	}
	n, valid := toInt(v)
	if !valid {
		r.errs.Add(key, msgInteger)
		return nil
	}
	return &n
}

// id reads a row id, which spans the full int64 range unlike measurements.
func (r *reader) id(key string, required bool) *int64 {
	v, ok := r.lookup(key, required, false)
	if !ok {
		return nil
	}
	n, valid := toInt64(v)
	if !valid {
		r.errs.Add(key, msgInteger)
		return nil
	}
	return &n
}

func (r *reader) boolean(key string, required bool) *bool {
	v, ok := r.lookup(key, required, false)
	if !ok {
		return nil
	}
	b, isBool := v.(bool)
	if !isBool {
		r.errs.Add(key, msgBoolean)
		return nil
	}
	return &b
}

func (r *reader) date(key string, required bool) *time.Time {
	s := r.str(key, required, false)
	if s == nil {
		return nil
	}
	d, err := models.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		r.errs.Add(key, msgDate)
		return nil
	}
	return &d
}

// attribute records an entity-level rejection under its field name.
func (r *reader) attribute(err error) {
	var attrErr *models.AttributeError
	if errors.As(err, &attrErr) {
		r.errs.Add(attrErr.Field, attrErr.Reason)
		return
	}
	r.errs.Add(SchemaKey, err.Error())
}

// toInt64 accepts any whole number that fits in an int64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// toInt bounds measurements to the 32-bit storage columns.
func toInt(v any) (int, bool) {
	i, ok := toInt64(v)
	if !ok || i > math.MaxInt32 || i < math.MinInt32 {
		return 0, false
	}
	return int(i), true
}
