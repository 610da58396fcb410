package fields

import (
	"fmt"
	"time"

	"github.com/goliatone/go-athn/pkg/model"
)

func buildSubmit(id model.ID, props properties) (model.FormField, error) {
	dest, ok := props.first(destinationNames...)
	if !ok {
		return nil, &model.ParseError{
			Kind:     model.ErrMissingProperty,
			Field:    model.FieldSubmit,
			Property: "destination",
			Message:  "Submit type form field without destination found",
		}
	}
	return model.SubmitField{
		ID:          id,
		Destination: dest.value,
		Label:       props.label(),
		Redirect:    props.has("redirect"),
	}, nil
}

func buildString(id model.ID, props properties) (model.FormField, error) {
	kind := model.FieldString
	global, err := parseGlobal(props, kind, parseString)
	if err != nil {
		return nil, err
	}
	field := model.StringField{
		ID:        id,
		Global:    global,
		Multiline: props.has("multiline"),
		Secret:    props.has("secret"),
		Variants:  props.values(variantNames...),
	}
	if field.Min, err = numberProperty(props, kind, "min", parseUint32); err != nil {
		return nil, err
	}
	if field.Max, err = numberProperty(props, kind, "max", parseUint32); err != nil {
		return nil, err
	}
	return field, nil
}

func buildInteger(id model.ID, props properties) (model.FormField, error) {
	kind := model.FieldInteger
	global, err := parseGlobal(props, kind, parseInt64)
	if err != nil {
		return nil, err
	}
	field := model.IntegerField{ID: id, Global: global, Positive: props.has("positive")}
	if field.Min, err = numberProperty(props, kind, "min", parseInt64); err != nil {
		return nil, err
	}
	if field.Max, err = numberProperty(props, kind, "max", parseInt64); err != nil {
		return nil, err
	}
	if field.Step, err = numberProperty(props, kind, "step", parseInt64); err != nil {
		return nil, err
	}
	return field, nil
}

func buildFloat(id model.ID, props properties) (model.FormField, error) {
	kind := model.FieldFloat
	global, err := parseGlobal(props, kind, parseFloat64)
	if err != nil {
		return nil, err
	}
	field := model.FloatField{ID: id, Global: global, Positive: props.has("positive")}
	if field.Min, err = numberProperty(props, kind, "min", parseFloat64); err != nil {
		return nil, err
	}
	if field.Max, err = numberProperty(props, kind, "max", parseFloat64); err != nil {
		return nil, err
	}
	if field.Step, err = numberProperty(props, kind, "step", parseFloat64); err != nil {
		return nil, err
	}
	return field, nil
}

func buildBool(id model.ID, props properties) (model.FormField, error) {
	global, err := parseGlobal(props, model.FieldBoolean, parseBool)
	if err != nil {
		return nil, err
	}
	return model.BoolField{ID: id, Global: global}, nil
}

// buildFile rejects any default: a file input cannot be prefilled.
func buildFile(id model.ID, props properties) (model.FormField, error) {
	kind := model.FieldFile
	global, err := parseGlobal(props, kind, func(string) (struct{}, error) {
		return struct{}{}, &model.ParseError{
			Kind:    model.ErrForbiddenProperty,
			Message: "File type form field with default property found",
		}
	})
	if err != nil {
		return nil, err
	}
	field := model.FileField{ID: id, Global: global, Types: props.values("type")}
	if field.Max, err = numberProperty(props, kind, "max", parseUint64); err != nil {
		return nil, err
	}
	return field, nil
}

func buildList(id model.ID, props properties) (model.FormField, error) {
	kind := model.FieldList
	global, err := parseGlobal(props, kind, parseUint32)
	if err != nil {
		return nil, err
	}
	field := model.ListField{ID: id, Global: global}
	if field.Min, err = numberProperty(props, kind, "min", parseUint32); err != nil {
		return nil, err
	}
	if field.Max, err = numberProperty(props, kind, "max", parseUint32); err != nil {
		return nil, err
	}
	for _, raw := range props.values("child") {
		child, err := model.NewID(raw)
		if err != nil {
			return nil, &model.ParseError{
				Kind:     model.ErrInvalidPropertyValue,
				Field:    kind,
				Property: "child",
				Message:  fmt.Sprintf("List field with invalid child ID %q found", raw),
			}
		}
		field.Children = append(field.Children, child)
	}
	return field, nil
}

func buildDate(id model.ID, props properties, timestamp func(string) (time.Time, error)) (model.FormField, error) {
	kind := model.FieldDate
	global, err := parseGlobal(props, kind, timestamp)
	if err != nil {
		return nil, err
	}
	field := model.DateField{
		ID:     id,
		Global: global,
		Date:   props.has("date"),
		Time:   props.has("time"),
	}
	if field.Min, err = numberProperty(props, kind, "min", timestamp); err != nil {
		return nil, err
	}
	if field.Max, err = numberProperty(props, kind, "max", timestamp); err != nil {
		return nil, err
	}
	return field, nil
}

func buildEmail(id model.ID, props properties) (model.FormField, error) {
	global, err := parseGlobal(props, model.FieldEmail, parseEmail)
	if err != nil {
		return nil, err
	}
	return model.EmailField{ID: id, Global: global}, nil
}

func buildPhone(id model.ID, props properties) (model.FormField, error) {
	global, err := parseGlobal(props, model.FieldPhone, parseString)
	if err != nil {
		return nil, err
	}
	field := model.PhoneField{ID: id, Global: global}
	if p, ok := props.first("country"); ok {
		country := p.value
		field.Country = &country
	}
	return field, nil
}
