// Package validation is the submission boundary for parsed forms: it derives
// an OpenAPI 3 request schema from a form block and validates submitted values
// against it.
package validation

import (
	"net/mail"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/samber/lo"

	"github.com/goliatone/go-athn/pkg/model"
)

// FormatEmail is the string format registered for email fields.
const FormatEmail = "email"

var registerFormats sync.Once

func ensureFormats() {
	registerFormats.Do(func() {
		openapi3.DefineStringFormatValidator(FormatEmail, openapi3.NewCallbackValidator(func(value string) error {
			_, err := mail.ParseAddress(value)
			return err
		}))
	})
}

// SchemaFor builds the object schema of a whole form block. Fields that are
// neither optional nor conditional are required; submit fields are not part
// of the payload.
func SchemaFor(form model.Form) *openapi3.Schema {
	return objectSchema(form, form.Fields, func(input model.InputField) bool {
		common := input.Common()
		return !common.Optional && common.Conditional == nil
	})
}

// objectSchema describes fields as an object. required decides which of them
// must be present. Fields referenced as list children are nested under their
// list instead of appearing at the top level.
func objectSchema(form model.Form, fields []model.FormField, required func(model.InputField) bool) *openapi3.Schema {
	ensureFormats()

	children := childNames(form)
	obj := openapi3.NewObjectSchema()
	var names []string
	for _, input := range inputs(fields) {
		name := input.Name().String()
		if _, nested := children[name]; nested {
			continue
		}
		obj.WithProperty(name, fieldSchema(form, input))
		if required(input) {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		obj.WithRequired(names)
	}
	return obj
}

// FieldSchema returns the value schema for a single input field.
func FieldSchema(form model.Form, field model.InputField) *openapi3.Schema {
	ensureFormats()
	return fieldSchema(form, field)
}

func fieldSchema(form model.Form, field model.InputField) *openapi3.Schema {
	var s *openapi3.Schema

	switch f := field.(type) {
	case model.StringField:
		s = openapi3.NewStringSchema()
		if f.Min != nil {
			s.WithMinLength(int64(*f.Min))
		}
		if f.Max != nil {
			s.WithMaxLength(int64(*f.Max))
		}
		if len(f.Variants) > 0 {
			s.WithEnum(lo.ToAnySlice(f.Variants)...)
		}
		if f.Global.Default != nil {
			s.WithDefault(*f.Global.Default)
		}
	case model.IntegerField:
		s = openapi3.NewInt64Schema()
		numberBounds(s, f.Min, f.Max, f.Step, f.Positive)
		if f.Global.Default != nil {
			s.WithDefault(*f.Global.Default)
		}
	case model.FloatField:
		s = openapi3.NewFloat64Schema()
		numberBounds(s, f.Min, f.Max, f.Step, f.Positive)
		if f.Global.Default != nil {
			s.WithDefault(*f.Global.Default)
		}
	case model.BoolField:
		s = openapi3.NewBoolSchema()
		if f.Global.Default != nil {
			s.WithDefault(*f.Global.Default)
		}
	case model.FileField:
		// Files travel as their name; size and type are checked on upload.
		s = openapi3.NewStringSchema().WithMinLength(1)
	case model.ListField:
		s = openapi3.NewArraySchema()
		if f.Min != nil {
			s.WithMinItems(int64(*f.Min))
		}
		if f.Max != nil {
			s.WithMaxItems(int64(*f.Max))
		}
		s.WithItems(listItemSchema(form, f))
	case model.DateField:
		format := dateFormat(f)
		s = openapi3.NewStringSchema().WithFormat(format)
		if f.Global.Default != nil {
			layout := time.RFC3339
			if format == "date" {
				layout = time.DateOnly
			}
			s.WithDefault(f.Global.Default.Format(layout))
		}
	case model.EmailField:
		s = openapi3.NewStringSchema().WithFormat(FormatEmail)
		if f.Global.Default != nil {
			s.WithDefault(*f.Global.Default)
		}
	case model.PhoneField:
		s = openapi3.NewStringSchema()
		if f.Global.Default != nil {
			s.WithDefault(*f.Global.Default)
		}
	default:
		s = openapi3.NewSchema()
	}

	if label := field.Common().Label; label != nil {
		s.Title = *label
	}
	return s
}

func numberBounds[T int64 | float64](s *openapi3.Schema, minimum, maximum, step *T, positive bool) {
	if minimum != nil {
		s.WithMin(float64(*minimum))
	}
	if positive && (s.Min == nil || *s.Min < 0) {
		s.WithMin(0)
	}
	if maximum != nil {
		s.WithMax(float64(*maximum))
	}
	if step != nil && *step != 0 {
		multiple := float64(*step)
		s.MultipleOf = &multiple
	}
}

// dateFormat picks the wire format of a date field. A field that only asks
// for a date takes YYYY-MM-DD, anything else a full RFC 3339 timestamp.
func dateFormat(f model.DateField) string {
	if f.Date && !f.Time {
		return "date"
	}
	return "date-time"
}

func listItemSchema(form model.Form, list model.ListField) *openapi3.Schema {
	if len(list.Children) == 0 {
		return openapi3.NewSchema()
	}
	item := openapi3.NewObjectSchema()
	var required []string
	for _, child := range list.Children {
		field, ok := form.Field(child.String())
		if !ok {
			continue
		}
		input, ok := field.(model.InputField)
		if !ok {
			continue
		}
		item.WithProperty(child.String(), fieldSchema(form, input))
		if !input.Common().Optional {
			required = append(required, child.String())
		}
	}
	if len(required) > 0 {
		item.WithRequired(required)
	}
	return item
}

func childNames(form model.Form) map[string]struct{} {
	names := make(map[string]struct{})
	for _, field := range form.Fields {
		list, ok := field.(model.ListField)
		if !ok {
			continue
		}
		for _, child := range list.Children {
			if child.String() != list.ID.String() {
				names[child.String()] = struct{}{}
			}
		}
	}
	return names
}

func inputs(fields []model.FormField) []model.InputField {
	return lo.FilterMap(fields, func(field model.FormField, _ int) (model.InputField, bool) {
		input, ok := field.(model.InputField)
		return input, ok
	})
}
