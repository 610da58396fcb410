// Package visibility decides whether a conditional form field is active given
// the values submitted so far.
package visibility

import (
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/samber/lo"

	"github.com/goliatone/go-athn/pkg/model"
)

// Evaluator determines whether a field should be visible based on a rule
// string and the current values.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the submitted values
// keyed by field name while Extras allows callers to inject arbitrary context
// such as defaults resolved elsewhere.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Rule renders a conditional property as a rule string: the target name,
// prefixed with `!` when inverted. A nil property yields the empty rule.
func Rule(cond *model.ConditionalProperty) string {
	if cond == nil {
		return ""
	}
	if cond.Inverse {
		return "!" + cond.Target.String()
	}
	return cond.Target.String()
}

// Conditional evaluates rules produced by Rule. An empty rule is always
// visible; otherwise the field is visible iff the target value is truthy,
// inverted by a leading `!`.
var Conditional Evaluator = EvaluatorFunc(evalConditional)

func evalConditional(_ string, rule string, ctx Context) (bool, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return true, nil
	}
	target, inverse := strings.CutPrefix(rule, "!")
	if _, err := model.NewID(target); err != nil || target == "" {
		return false, fmt.Errorf("visibility: invalid rule %q", rule)
	}
	return Truthy(lookup(ctx, target)) != inverse, nil
}

func lookup(ctx Context, name string) any {
	if v, ok := ctx.Values[name]; ok {
		return v
	}
	return ctx.Extras[name]
}

// Active reports whether field is active under values. Fields without a
// conditional property (and submit fields) are always active.
func Active(field model.FormField, values map[string]any) bool {
	ok, err := ActiveWith(Conditional, field, Context{Values: values})
	return err == nil && ok
}

// ActiveWith evaluates field with a custom evaluator.
func ActiveWith(eval Evaluator, field model.FormField, ctx Context) (bool, error) {
	input, ok := field.(model.InputField)
	if !ok {
		return true, nil
	}
	return eval.Eval(field.Name().String(), Rule(input.Common().Conditional), ctx)
}

// ActiveFields filters fields down to the active ones, keeping order.
func ActiveFields(fields []model.FormField, values map[string]any) []model.FormField {
	return lo.Filter(fields, func(field model.FormField, _ int) bool {
		return Active(field, values)
	})
}

// Resolve decides which fields of one form block are active. A condition
// sees its target's value only while the target is itself active, so the
// outcome does not depend on declaration order. Targets outside fields use
// the submitted value as is, and a cycle of conditions falls back to the
// submitted values. Fields whose rule fails to evaluate are reported in errs
// and are not active.
func Resolve(eval Evaluator, fields []model.FormField, values map[string]any) (active map[string]bool, errs map[string]error) {
	r := resolver{
		eval:   eval,
		fields: make(map[string]model.FormField, len(fields)),
		values: values,
		state:  make(map[string]resolveState, len(fields)),
		active: make(map[string]bool, len(fields)),
		errs:   make(map[string]error),
	}
	for _, field := range fields {
		r.fields[field.Name().String()] = field
	}
	for _, field := range fields {
		r.resolve(field.Name().String())
	}
	return r.active, r.errs
}

type resolveState int

const (
	unvisited resolveState = iota
	visiting
	resolved
)

type resolver struct {
	eval   Evaluator
	fields map[string]model.FormField
	values map[string]any
	state  map[string]resolveState
	active map[string]bool
	errs   map[string]error
}

func (r *resolver) resolve(name string) bool {
	switch r.state[name] {
	case resolved:
		return r.active[name]
	case visiting:
		return true
	}
	field, ok := r.fields[name]
	if !ok {
		return true
	}
	r.state[name] = visiting

	ctx := Context{Values: r.values}
	if input, isInput := field.(model.InputField); isInput {
		if cond := input.Common().Conditional; cond != nil {
			target := cond.Target.String()
			if !r.resolve(target) {
				pruned := maps.Clone(r.values)
				delete(pruned, target)
				ctx.Values = pruned
			}
		}
	}

	active, err := ActiveWith(r.eval, field, ctx)
	if err != nil {
		r.errs[name] = err
		active = false
	}
	r.state[name] = resolved
	r.active[name] = active
	return active
}

// Truthy implements the truthiness rules used by conditional properties: a
// bool is itself, a string is truthy unless empty, "false" or "0", numbers
// are truthy when non-zero, slices and maps when non-empty, nil is falsy and
// any other value is truthy.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "false" && v != "0"
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.String:
		return Truthy(rv.String())
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return Truthy(rv.Elem().Interface())
	}
	return true
}
