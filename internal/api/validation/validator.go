// Package validation checks request payloads against named schemas before any
// business logic runs. Schemas are declared once at startup and are read-only
// afterwards, so a single Validator is shared by every request goroutine.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// FieldType is the expected JSON type of a field after coercion.
type FieldType int

const (
	String FieldType = iota
	Number
	// Integer is a Number that must be whole and fit in an int32.
	Integer
	Email
)

// Field describes one accepted payload key.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	// Rules is a go-playground/validator tag applied to the coerced value,
	// e.g. "min=1,max=50" for strings or "gte=0" for numbers.
	Rules string
	// Trim strips surrounding whitespace before Rules run. The trimmed value
	// is what ends up in the Payload.
	Trim bool
}

// Schema is a named list of fields. Keys not listed are dropped.
type Schema struct {
	Name   string
	Fields []Field
}

// Validator holds the registered schemas.
type Validator struct {
	v       *validator.Validate
	schemas map[string]Schema
}

// New registers schemas; a later schema with the same name replaces an earlier one.
func New(schemas ...Schema) *Validator {
	byName := make(map[string]Schema, len(schemas))
	for _, s := range schemas {
		byName[s.Name] = s
	}
	v := validator.New()
	// maxbytes bounds the encoded length, which is what bcrypt limits.
	if err := v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	}); err != nil {
		panic(fmt.Sprintf("validation: register maxbytes: %v", err))
	}
	return &Validator{v: v, schemas: byName}
}

// Has reports whether a schema called name is registered.
func (v *Validator) Has(name string) bool {
	_, ok := v.schemas[name]
	return ok
}

// Validate checks raw against the named schema. Every violation is collected;
// when any exist the result is a BadRequest listing all of them.
func (v *Validator) Validate(name string, raw map[string]any) (Payload, error) {
	schema, ok := v.schemas[name]
	if !ok {
		return nil, domain.NewInternal("validate", fmt.Errorf("unknown schema %q", name))
	}

	out := make(Payload, len(schema.Fields))
	var violations []string

	for _, f := range schema.Fields {
		value, present := raw[f.Name]
		if present && value == nil {
			present = false
		}

		if present {
			coerced, msg := coerce(f, value)
			if msg != "" {
				violations = append(violations, msg)
				continue
			}
			value = coerced
			if s, isString := value.(string); isString && s == "" && f.Required {
				present = false
			}
		}

		if !present {
			if f.Required {
				violations = append(violations, f.Name+" is required")
			}
			continue
		}

		if msgs := v.check(f, value); len(msgs) > 0 {
			violations = append(violations, msgs...)
			continue
		}
		out[f.Name] = value
	}

	if len(violations) > 0 {
		return nil, &domain.Error{
			Kind:       domain.KindBadRequest,
			Message:    strings.Join(violations, "; "),
			Violations: violations,
		}
	}
	return out, nil
}

// coerce converts value to the field's type. A non-empty message means the
// value could not be converted.
func coerce(f Field, value any) (any, string) {
	switch f.Type {
	case Number, Integer:
		n, ok := toFloat(value)
		if !ok || math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, f.Name + " must be a number"
		}
		if f.Type == Integer && (n != math.Trunc(n) || math.Abs(n) > math.MaxInt32) {
			return nil, f.Name + " must be a whole number"
		}
		return n, ""
	default:
		s, ok := value.(string)
		if !ok {
			return nil, f.Name + " must be a string"
		}
		if f.Trim || f.Type == Email {
			s = strings.TrimSpace(s)
		}
		return s, ""
	}
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func (v *Validator) check(f Field, value any) []string {
	rules := f.Rules
	if f.Type == Email {
		rules = joinRules("email", rules)
	}
	if rules == "" {
		return nil
	}

	err := v.v.Var(value, rules)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("%s failed validation", f.Name)}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(f.Name, fe))
	}
	return msgs
}

func joinRules(a, b string) string {
	if b == "" {
		return a
	}
	return a + "," + b
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(field string, fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
