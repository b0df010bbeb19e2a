// Package validate checks request payloads field by field and reports every failure
// under the field's JSON name.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"knowledge_hub/internal/domain"
)

// FieldError is a single failed field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is returned when a payload fails validation.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, f := range e {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field builds a single-field validation error.
func Field(field, message string) Errors {
	return Errors{{Field: field, Message: message}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		n := field.Interface().(domain.Nullable[string])
		if n.Value == nil {
			return nil
		}
		return *n.Value
	}, domain.Nullable[string]{})
	return v
}

// Struct validates s against its validate tags.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Message: formatFieldError(e)})
	}
	return out
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if e.Kind() == reflect.String && e.Param() == "1" {
			return fmt.Sprintf("%s must not be empty", field)
		}
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Decode reads a JSON object into dst and then validates it. Each field is
// decoded on its own so that a type mismatch on one field does not hide
// failures on the others; a mistyped field reports only its type. Malformed
// JSON and anything after the object are reported on "body".
func Decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Field("body", "body must be a JSON object")
		}
		return Field("body", "malformed JSON: "+err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Field("body", "unexpected data after JSON object")
	}

	out, err := assign(raw, dst)
	if err != nil {
		return err
	}
	mistyped := make(map[string]bool, len(out))
	for _, f := range out {
		mistyped[f.Field] = true
	}

	if err := Struct(dst); err != nil {
		var verrs Errors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, f := range verrs {
			if !mistyped[f.Field] {
				out = append(out, f)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// assign decodes every supplied member of raw into the matching field of the
// struct dst points to. Unknown members are ignored.
func assign(raw map[string]json.RawMessage, dst any) (Errors, error) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("validate: decode target must be a struct pointer, got %T", dst)
	}
	v = v.Elem()
	t := v.Type()

	var out Errors
	for i := range t.NumField() {
		sf := t.Field(i)
		name := jsonName(sf)
		if !sf.IsExported() || name == "" {
			continue
		}
		msg, ok := raw[name]
		if !ok {
			continue
		}
		target := reflect.New(sf.Type)
		if err := json.Unmarshal(msg, target.Interface()); err != nil {
			out = append(out, FieldError{
				Field:   name,
				Message: fmt.Sprintf("%s must be of type %s", name, jsonType(sf.Type)),
			})
			continue
		}
		v.Field(i).Set(target.Elem())
	}
	return out, nil
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

type valueTyped interface {
	ValueType() reflect.Type
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if vt, ok := reflect.Zero(t).Interface().(valueTyped); ok {
		return jsonType(vt.ValueType())
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice:
		return "array of " + jsonType(t.Elem())
	default:
		return t.Kind().String()
	}
}
