// Package fill collects the values of one form block interactively. Fields
// are asked in declaration order; conditional fields are only asked when
// their condition holds for the answers given so far.
package fill

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/goliatone/go-athn/pkg/model"
	"github.com/goliatone/go-athn/pkg/visibility"
)

// Filler drives a PromptDriver through the fields of a form.
type Filler struct {
	driver    PromptDriver
	evaluator visibility.Evaluator
}

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithEvaluator overrides the evaluator used for conditional fields.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(f *Filler) {
		if eval != nil {
			f.evaluator = eval
		}
	}
}

// New constructs a Filler. Without options it prompts on the terminal.
func New(options ...Option) *Filler {
	f := &Filler{evaluator: visibility.Conditional}
	for _, opt := range options {
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// Fill prompts for every active input of form and returns the answers keyed
// by field name. Optional fields left empty are omitted.
func (f *Filler) Fill(ctx context.Context, form model.Form) (map[string]any, error) {
	inputs := form.Inputs()
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	nested := make(map[string]struct{})
	for _, input := range inputs {
		if list, ok := input.(model.ListField); ok {
			for _, child := range list.Children {
				nested[child.String()] = struct{}{}
			}
		}
	}

	if form.Submit != nil && form.Submit.Label != nil {
		if err := f.driver.Info(ctx, *form.Submit.Label); err != nil {
			return nil, err
		}
	}

	values := make(map[string]any)
	for _, input := range inputs {
		name := input.Name().String()
		if _, ok := nested[name]; ok {
			continue
		}
		active, err := visibility.ActiveWith(f.evaluator, input, visibility.Context{Values: values})
		if err != nil {
			return nil, fmt.Errorf("fill: %s: %w", name, err)
		}
		if !active {
			continue
		}
		value, ok, err := f.ask(ctx, form, input, values)
		if err != nil {
			return nil, fmt.Errorf("fill: %s: %w", name, err)
		}
		if ok {
			values[name] = value
		}
	}
	return values, nil
}

// ask prompts for a single field. ok is false when an optional field was
// left empty.
func (f *Filler) ask(ctx context.Context, form model.Form, input model.InputField, values map[string]any) (any, bool, error) {
	common := input.Common()
	message := input.Name().String()
	if common.Label != nil {
		message = *common.Label
	}
	help := helpFor(input)

	switch field := input.(type) {
	case model.BoolField:
		answer, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: field.Global.Default != nil && *field.Global.Default,
			Help:    help,
		})
		return answer, err == nil, err

	case model.StringField:
		if len(field.Variants) > 0 {
			defaultIndex := 0
			if field.Global.Default != nil {
				defaultIndex = max(lo.IndexOf(field.Variants, *field.Global.Default), 0)
			}
			idx, err := f.driver.Select(ctx, SelectConfig{
				Message:      message,
				Options:      field.Variants,
				DefaultIndex: defaultIndex,
				Help:         help,
			})
			if err != nil {
				return nil, false, err
			}
			if idx < 0 || idx >= len(field.Variants) {
				return nil, false, fmt.Errorf("selection %d out of range", idx)
			}
			return field.Variants[idx], true, nil
		}
		return f.askText(ctx, input, message, help, stringDefault(field.Global.Default), field.Secret, field.Multiline, stringConverter(field))

	case model.IntegerField:
		return f.askText(ctx, input, message, help, numberDefault(field.Global.Default), false, false, integerConverter(field))
	case model.FloatField:
		return f.askText(ctx, input, message, help, numberDefault(field.Global.Default), false, false, floatConverter(field))
	case model.FileField:
		return f.askText(ctx, input, message, help, "", false, false, passthrough)
	case model.DateField:
		def := ""
		if field.Global.Default != nil {
			def = formatDate(field, *field.Global.Default)
		}
		return f.askText(ctx, input, message, help, def, false, false, dateConverter(field))
	case model.EmailField:
		return f.askText(ctx, input, message, help, stringDefault(field.Global.Default), false, false, parseEmail)
	case model.PhoneField:
		return f.askText(ctx, input, message, help, stringDefault(field.Global.Default), false, false, passthrough)
	case model.ListField:
		return f.askList(ctx, form, field, message, help, values)
	default:
		return nil, false, fmt.Errorf("unsupported field kind %q", input.Kind())
	}
}

type converter func(string) (any, error)

func (f *Filler) askText(ctx context.Context, input model.InputField, message, help, def string, secret, multiline bool, convert converter) (any, bool, error) {
	optional := input.Common().Optional
	validate := func(answer string) error {
		if strings.TrimSpace(answer) == "" {
			if optional {
				return nil
			}
			return errors.New("a value is required")
		}
		_, err := convert(answer)
		return err
	}

	var (
		answer string
		err    error
	)
	switch {
	case secret:
		answer, err = f.driver.Password(ctx, InputConfig{Message: message, Help: help, Validator: validate})
	case multiline:
		answer, err = f.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: def, Help: help})
	default:
		answer, err = f.driver.Input(ctx, InputConfig{Message: message, Default: def, Help: help, Validator: validate})
	}
	if err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(answer) == "" {
		if def != "" {
			answer = def
		} else if optional {
			return nil, false, nil
		}
	}
	if err := validate(answer); err != nil {
		return nil, false, err
	}
	value, err := convert(answer)
	return value, err == nil, err
}

// askList asks for the entry count and then for each entry's children.
// Child conditions see the entry being built first and the answers of the
// enclosing form second.
func (f *Filler) askList(ctx context.Context, form model.Form, list model.ListField, message, help string, values map[string]any) (any, bool, error) {
	def := ""
	switch {
	case list.Global.Default != nil:
		def = strconv.FormatUint(uint64(*list.Global.Default), 10)
	case list.Min != nil:
		def = strconv.FormatUint(uint64(*list.Min), 10)
	}
	countAnswer, ok, err := f.askText(ctx, list, message+" (number of entries)", help, def, false, false, countConverter(list))
	if err != nil || !ok {
		return nil, ok, err
	}
	count := countAnswer.(int)

	children := lo.FilterMap(list.Children, func(id model.ID, _ int) (model.InputField, bool) {
		field, found := form.Field(id.String())
		if !found {
			return nil, false
		}
		input, isInput := field.(model.InputField)
		return input, isInput
	})

	items := make([]any, 0, count)
	for i := 0; i < count; i++ {
		if len(children) == 0 {
			item, ok, err := f.askText(ctx, list, fmt.Sprintf("%s #%d", message, i+1), "", "", false, false, passthrough)
			if err != nil {
				return nil, false, err
			}
			if ok {
				items = append(items, item)
			}
			continue
		}
		entry := make(map[string]any, len(children))
		if err := f.driver.Info(ctx, fmt.Sprintf("%s #%d", message, i+1)); err != nil {
			return nil, false, err
		}
		for _, child := range children {
			name := child.Name().String()
			active, err := visibility.ActiveWith(f.evaluator, child, visibility.Context{Values: entry, Extras: values})
			if err != nil {
				return nil, false, fmt.Errorf("%s: %w", name, err)
			}
			if !active {
				continue
			}
			value, ok, err := f.ask(ctx, form, child, values)
			if err != nil {
				return nil, false, err
			}
			if ok {
				entry[name] = value
			}
		}
		items = append(items, entry)
	}
	return items, true, nil
}

func helpFor(input model.InputField) string {
	var parts []string
	if input.Common().Optional {
		parts = append(parts, "optional")
	}
	switch f := input.(type) {
	case model.StringField:
		parts = appendBounds(parts, "length", f.Min, f.Max)
	case model.IntegerField:
		parts = appendBounds(parts, "value", f.Min, f.Max)
		if f.Step != nil {
			parts = append(parts, fmt.Sprintf("step %d", *f.Step))
		}
	case model.FloatField:
		parts = appendBounds(parts, "value", f.Min, f.Max)
		if f.Step != nil {
			parts = append(parts, fmt.Sprintf("step %g", *f.Step))
		}
	case model.FileField:
		if len(f.Types) > 0 {
			parts = append(parts, "types "+strings.Join(f.Types, ", "))
		}
		if f.Max != nil {
			parts = append(parts, fmt.Sprintf("max %d bytes", *f.Max))
		}
	case model.DateField:
		parts = append(parts, "format "+dateLayout(f))
	case model.PhoneField:
		if f.Country != nil {
			parts = append(parts, "country "+*f.Country)
		}
	}
	return strings.Join(parts, "; ")
}

func appendBounds[T int64 | float64 | uint32](parts []string, what string, minimum, maximum *T) []string {
	if minimum != nil {
		parts = append(parts, fmt.Sprintf("min %s %v", what, *minimum))
	}
	if maximum != nil {
		parts = append(parts, fmt.Sprintf("max %s %v", what, *maximum))
	}
	return parts
}

func passthrough(answer string) (any, error) {
	return answer, nil
}

func parseEmail(answer string) (any, error) {
	addr, err := mail.ParseAddress(answer)
	if err != nil {
		return nil, err
	}
	return addr.Address, nil
}

func stringConverter(field model.StringField) converter {
	return func(answer string) (any, error) {
		length := uint32(len([]rune(answer)))
		if field.Min != nil && length < *field.Min {
			return nil, fmt.Errorf("must be at least %d characters", *field.Min)
		}
		if field.Max != nil && length > *field.Max {
			return nil, fmt.Errorf("must be at most %d characters", *field.Max)
		}
		return answer, nil
	}
}

func integerConverter(field model.IntegerField) converter {
	return func(answer string) (any, error) {
		value, err := strconv.ParseInt(strings.TrimSpace(answer), 10, 64)
		if err != nil {
			return nil, errors.New("must be a whole number")
		}
		if err := checkNumber(value, field.Min, field.Max, field.Positive); err != nil {
			return nil, err
		}
		if field.Step != nil && *field.Step != 0 && value%*field.Step != 0 {
			return nil, fmt.Errorf("must be a multiple of %d", *field.Step)
		}
		return value, nil
	}
}

func floatConverter(field model.FloatField) converter {
	return func(answer string) (any, error) {
		value, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
		if err != nil {
			return nil, errors.New("must be a number")
		}
		if err := checkNumber(value, field.Min, field.Max, field.Positive); err != nil {
			return nil, err
		}
		return value, nil
	}
}

func checkNumber[T int64 | float64](value T, minimum, maximum *T, positive bool) error {
	if positive && value < 0 {
		return errors.New("must not be negative")
	}
	if minimum != nil && value < *minimum {
		return fmt.Errorf("must be at least %v", *minimum)
	}
	if maximum != nil && value > *maximum {
		return fmt.Errorf("must be at most %v", *maximum)
	}
	return nil
}

func countConverter(list model.ListField) converter {
	return func(answer string) (any, error) {
		parsed, err := strconv.ParseUint(strings.TrimSpace(answer), 10, 32)
		if err != nil {
			return nil, errors.New("must be a number of entries")
		}
		count := uint32(parsed)
		if list.Min != nil && count < *list.Min {
			return nil, fmt.Errorf("needs at least %d entries", *list.Min)
		}
		if list.Max != nil && count > *list.Max {
			return nil, fmt.Errorf("allows at most %d entries", *list.Max)
		}
		return int(count), nil
	}
}

// dateLayout is the answer layout for a date field, matching the wire format
// used by the validation package.
func dateLayout(field model.DateField) string {
	if field.Date && !field.Time {
		return time.DateOnly
	}
	return time.RFC3339
}

func formatDate(field model.DateField, t time.Time) string {
	return t.UTC().Format(dateLayout(field))
}

func dateConverter(field model.DateField) converter {
	layout := dateLayout(field)
	return func(answer string) (any, error) {
		t, err := time.Parse(layout, strings.TrimSpace(answer))
		if err != nil {
			return nil, fmt.Errorf("must use the %s layout", layout)
		}
		if field.Min != nil && t.Before(*field.Min) {
			return nil, fmt.Errorf("must not be before %s", formatDate(field, *field.Min))
		}
		if field.Max != nil && t.After(*field.Max) {
			return nil, fmt.Errorf("must not be after %s", formatDate(field, *field.Max))
		}
		return formatDate(field, t), nil
	}
}

func stringDefault(def *string) string {
	if def == nil {
		return ""
	}
	return *def
}

func numberDefault[T int64 | float64](def *T) string {
	if def == nil {
		return ""
	}
	return fmt.Sprint(*def)
}
