package fields

import (
	"strings"

	"github.com/samber/lo"
)

// Delimiters of the property micro-language.
const (
	idDelimiter       = ":"
	propertyDelimiter = ` \`
	valueDelimiter    = " "
)

// Property names and their shorthands shared by every non-submit kind.
var (
	optionalNames    = []string{"optional", "?"}
	labelNames       = []string{"label", "l"}
	defaultNames     = []string{"default", "d"}
	conditionalNames = []string{"conditional", "c", "!conditional", "!c"}
	destinationNames = []string{"destination", "dest"}
	variantNames     = []string{"variant", "e"}
)

// property is one `\name value` token. Boolean properties have an empty value.
type property struct {
	name  string
	value string
}

type properties []property

// tokenize splits a property tail into (name, value) pairs in declaration
// order. A token without a space is a boolean property.
func tokenize(tail string) properties {
	if tail == "" {
		return nil
	}
	return lo.Map(strings.Split(tail, propertyDelimiter), func(token string, _ int) property {
		name, value, _ := strings.Cut(token, valueDelimiter)
		return property{name: name, value: value}
	})
}

// first returns the first property matching any of names.
func (ps properties) first(names ...string) (property, bool) {
	return lo.Find(ps, func(p property) bool {
		return lo.Contains(names, p.name)
	})
}

// has reports whether any property matches names.
func (ps properties) has(names ...string) bool {
	_, ok := ps.first(names...)
	return ok
}

// values returns the values of every property matching names, or nil when
// none is present.
func (ps properties) values(names ...string) []string {
	matches := lo.FilterMap(ps, func(p property, _ int) (string, bool) {
		return p.value, lo.Contains(names, p.name)
	})
	if len(matches) == 0 {
		return nil
	}
	return matches
}

// label returns the first label value.
func (ps properties) label() *string {
	p, ok := ps.first(labelNames...)
	if !ok {
		return nil
	}
	value := p.value
	return &value
}
