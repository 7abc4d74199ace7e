package roster

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/talent"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			}
			return name
		})

		_ = validate.RegisterValidation("measurement_key", func(fl validator.FieldLevel) bool {
			return measurement.Key(fl.Field().String()).Known()
		})

		validate.RegisterStructValidation(func(sl validator.StructLevel) {
			r := sl.Current().Interface().(talent.Range)
			if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
				sl.ReportError(*r.Max, "max", "Max", "gtefield", "min")
			}
		}, talent.Range{})
	})

	return validate
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// ValidationError lists every field of a document that failed validation.
type ValidationError struct {
	Source string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: validation failed", e.Source)
	}

	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, strings.Join(messages, "; "))
}

func (e *ValidationError) add(prefix string, err error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		e.Fields = append(e.Fields, FieldError{Field: prefix, Tag: "unknown", Message: err.Error()})
		return
	}

	for _, fe := range fieldErrs {
		field := fe.Namespace()
		// Drop the root type name.
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if prefix != "" {
			field = prefix + "." + field
		}
		e.Fields = append(e.Fields, FieldError{
			Field:   field,
			Tag:     fe.Tag(),
			Message: translate(field, fe),
		})
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func translate(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "measurement_key":
		return fmt.Sprintf("%s: unknown measurement %q", field, fmt.Sprint(fe.Value()))
	case "gtefield":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// ValidateRecords checks every record and reports duplicate ids.
func ValidateRecords(source string, records []*talent.Record) error {
	v := getValidator()
	verr := &ValidationError{Source: source}
	seen := make(map[string]int, len(records))

	for i, rec := range records {
		prefix := fmt.Sprintf("talent[%d]", i)
		if rec == nil {
			verr.Fields = append(verr.Fields, FieldError{Field: prefix, Tag: "required", Message: prefix + " is empty"})
			continue
		}
		if err := v.Struct(rec); err != nil {
			verr.add(prefix, err)
		}
		if rec.ID == "" {
			continue
		}
		if first, ok := seen[rec.ID]; ok {
			verr.Fields = append(verr.Fields, FieldError{
				Field:   prefix + ".id",
				Tag:     "unique",
				Message: fmt.Sprintf("%s.id %q duplicates talent[%d]", prefix, rec.ID, first),
			})
			continue
		}
		seen[rec.ID] = i
	}

	return verr.orNil()
}

// ValidateBrief checks that brief names a gender, known measurements and
// ordered bounds.
func ValidateBrief(source string, brief talent.Brief) error {
	verr := &ValidationError{Source: source}
	if err := getValidator().Struct(brief); err != nil {
		verr.add("", err)
	}
	return verr.orNil()
}

// ValidateRange rejects a range whose lower bound exceeds its upper bound.
func ValidateRange(source string, r talent.Range) error {
	verr := &ValidationError{Source: source}
	if err := getValidator().Struct(r); err != nil {
		verr.add("", err)
	}
	return verr.orNil()
}
