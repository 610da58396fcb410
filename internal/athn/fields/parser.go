// Package fields implements the form field property micro-language. A field
// declaration has the shape
//
//	identifier:type \property value \flag \property value
//
// where each kind accepts its own set of properties on top of the global
// optional/label/default/conditional ones.
package fields

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-athn/pkg/model"
)

// Parser builds typed form fields from declarations.
type Parser struct {
	clock func() time.Time
}

// New constructs a Parser. clock supplies the value of the `now` literal and
// defaults to time.Now.
func New(clock func() time.Time) *Parser {
	if clock == nil {
		clock = time.Now
	}
	return &Parser{clock: clock}
}

// Parse converts one declaration into a model.FormField.
func (p *Parser) Parse(input string) (model.FormField, error) {
	rawID, rest, ok := strings.Cut(input, idDelimiter)
	if !ok {
		return nil, model.NewParseError(model.ErrMissingFieldID, "Form field with no ID found")
	}
	id, err := model.NewID(rawID)
	if err != nil {
		return nil, err
	}
	keyword, tail, _ := strings.Cut(rest, propertyDelimiter)
	props := tokenize(tail)

	switch model.FieldKind(keyword) {
	case model.FieldSubmit:
		return buildSubmit(id, props)
	case model.FieldString:
		return buildString(id, props)
	case model.FieldInteger:
		return buildInteger(id, props)
	case model.FieldFloat:
		return buildFloat(id, props)
	case model.FieldBoolean:
		return buildBool(id, props)
	case model.FieldFile:
		return buildFile(id, props)
	case model.FieldList:
		return buildList(id, props)
	case model.FieldDate:
		return buildDate(id, props, timestampParser(p.clock))
	case model.FieldEmail:
		return buildEmail(id, props)
	case model.FieldPhone:
		return buildPhone(id, props)
	default:
		return nil, &model.ParseError{
			Kind:    model.ErrInvalidFieldType,
			Message: fmt.Sprintf("Form field with invalid type %q found", keyword),
		}
	}
}

// parseGlobal resolves the properties shared by every non-submit kind. The
// default value goes through convert; a conversion failure aborts the field.
func parseGlobal[T any](props properties, kind model.FieldKind, convert func(string) (T, error)) (model.GlobalProperties[T], error) {
	global := model.GlobalProperties[T]{
		Optional: props.has(optionalNames...),
		Label:    props.label(),
	}

	if p, ok := props.first(defaultNames...); ok {
		value, err := convert(p.value)
		if err != nil {
			return global, defaultError(kind, err)
		}
		global.Default = &value
	}

	if p, ok := props.first(conditionalNames...); ok {
		target, err := model.NewID(p.value)
		if err != nil {
			return global, invalidValue(kind, "conditional")
		}
		global.Conditional = &model.ConditionalProperty{
			Inverse: strings.HasPrefix(p.name, "!"),
			Target:  target,
		}
	}
	return global, nil
}

// numberProperty converts the first property called name, if present.
func numberProperty[T any](props properties, kind model.FieldKind, name string, convert func(string) (T, error)) (*T, error) {
	p, ok := props.first(name)
	if !ok {
		return nil, nil
	}
	value, err := convert(p.value)
	if err != nil {
		return nil, invalidValue(kind, name)
	}
	return &value, nil
}

func defaultError(kind model.FieldKind, cause error) error {
	var parseErr *model.ParseError
	if !errors.As(cause, &parseErr) {
		parseErr = &model.ParseError{
			Kind:    model.ErrInvalidPropertyValue,
			Message: fmt.Sprintf("%s type form field with invalid default property found", kindName(kind)),
		}
	}
	parseErr.Field = kind
	parseErr.Property = "default"
	return parseErr
}

func invalidValue(kind model.FieldKind, name string) error {
	return &model.ParseError{
		Kind:     model.ErrInvalidPropertyValue,
		Field:    kind,
		Property: name,
		Message:  fmt.Sprintf("%s type form field with invalid %s property value found", kindName(kind), name),
	}
}

func kindName(kind model.FieldKind) string {
	switch kind {
	case model.FieldSubmit:
		return "Submit"
	case model.FieldString:
		return "String"
	case model.FieldInteger:
		return "Integer"
	case model.FieldFloat:
		return "Float"
	case model.FieldBoolean:
		return "Bool"
	case model.FieldFile:
		return "File"
	case model.FieldList:
		return "List"
	case model.FieldDate:
		return "Date"
	case model.FieldEmail:
		return "Email"
	case model.FieldPhone:
		return "Phone"
	default:
		return string(kind)
	}
}
