package validation

import (
	"context"
	"fmt"
	"html"
	"maps"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-athn/pkg/model"
	"github.com/goliatone/go-athn/pkg/visibility"
)

// SchemaIssue represents a validation error with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// SchemaValidationResult captures the outcome of validating a submission.
// Values holds the sanitised submission restricted to active fields.
type SchemaValidationResult struct {
	Valid  bool           `json:"valid" yaml:"valid"`
	Issues []SchemaIssue  `json:"issues,omitempty" yaml:"issues,omitempty"`
	Values map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
}

type options struct {
	policy    *bluemonday.Policy
	evaluator visibility.Evaluator
}

// Option configures Validate.
type Option func(*options)

// WithPolicy replaces the markup policy applied to free text values.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(o *options) {
		if policy != nil {
			o.policy = policy
		}
	}
}

// WithEvaluator replaces the evaluator used for conditional fields.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(o *options) {
		if eval != nil {
			o.evaluator = eval
		}
	}
}

// Validate checks values against form. Conditional fields whose condition
// does not hold are ignored and their values dropped; every other field is
// required unless declared optional. Missing values with a declared default
// are filled in.
func Validate(ctx context.Context, form model.Form, values map[string]any, opts ...Option) SchemaValidationResult {
	cfg := options{policy: bluemonday.StrictPolicy(), evaluator: visibility.Conditional}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ctx.Err(); err != nil {
		return SchemaValidationResult{Issues: []SchemaIssue{{Message: err.Error()}}}
	}

	submitted := sanitize(form, values, cfg.policy)

	var (
		active []model.FormField
		issues []SchemaIssue
	)
	states, failures := visibility.Resolve(cfg.evaluator, form.Fields, submitted)
	for _, field := range form.Fields {
		name := field.Name().String()
		if err, failed := failures[name]; failed {
			issues = append(issues, SchemaIssue{Field: name, Message: err.Error()})
			continue
		}
		if states[name] {
			active = append(active, field)
		} else {
			delete(submitted, name)
		}
	}

	schema := objectSchema(form, active, func(input model.InputField) bool {
		return !input.Common().Optional
	})
	err := schema.VisitJSON(submitted,
		openapi3.MultiErrors(),
		openapi3.EnableFormatValidation(),
		openapi3.VisitAsRequest(),
		openapi3.DefaultsSet(func() {}),
	)
	if err != nil {
		issues = append(issues, collectIssues(err)...)
	}
	issues = append(issues, dateBoundIssues(active, submitted)...)

	return SchemaValidationResult{
		Valid:  len(issues) == 0,
		Issues: issues,
		Values: submitted,
	}
}

// sanitize strips markup from free text values. Secret strings are kept
// verbatim. The input map is not modified.
func sanitize(form model.Form, values map[string]any, policy *bluemonday.Policy) map[string]any {
	out := maps.Clone(values)
	if out == nil {
		out = map[string]any{}
	}
	for _, field := range form.Fields {
		name := field.Name().String()
		raw, ok := out[name].(string)
		if !ok {
			continue
		}
		switch f := field.(type) {
		case model.StringField:
			if f.Secret {
				continue
			}
		case model.EmailField, model.PhoneField:
		default:
			continue
		}
		out[name] = html.UnescapeString(policy.Sanitize(raw))
	}
	return out
}

func collectIssues(err error) []SchemaIssue {
	switch e := err.(type) {
	case openapi3.MultiError:
		var issues []SchemaIssue
		for _, inner := range e {
			issues = append(issues, collectIssues(inner)...)
		}
		return issues
	case *openapi3.SchemaError:
		pointer := e.JSONPointer()
		issue := SchemaIssue{Message: e.Reason}
		if issue.Message == "" {
			issue.Message = e.Error()
		}
		if len(pointer) > 0 {
			issue.Path = "/" + strings.Join(pointer, "/")
			issue.Field = strings.Join(pointer, ".")
		}
		return []SchemaIssue{issue}
	default:
		return []SchemaIssue{{Message: err.Error()}}
	}
}

// dateBoundIssues enforces min/max on date fields, which the schema format
// alone cannot express.
func dateBoundIssues(fields []model.FormField, values map[string]any) []SchemaIssue {
	var issues []SchemaIssue
	for _, field := range fields {
		date, ok := field.(model.DateField)
		if !ok || (date.Min == nil && date.Max == nil) {
			continue
		}
		name := date.ID.String()
		raw, ok := values[name].(string)
		if !ok {
			continue
		}
		value, err := parseSubmittedDate(raw)
		if err != nil {
			// Format errors are already reported by the schema.
			continue
		}
		if date.Min != nil && value.Before(*date.Min) {
			issues = append(issues, SchemaIssue{
				Path:    "/" + name,
				Field:   name,
				Message: fmt.Sprintf("date must not be before %s", date.Min.Format(time.RFC3339)),
			})
		}
		if date.Max != nil && value.After(*date.Max) {
			issues = append(issues, SchemaIssue{
				Path:    "/" + name,
				Field:   name,
				Message: fmt.Sprintf("date must not be after %s", date.Max.Format(time.RFC3339)),
			})
		}
	}
	return issues
}

func parseSubmittedDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}
