package athn

import (
	"context"
	"time"

	"github.com/goliatone/go-athn/pkg/model"
)

// Default delimiters of the document format.
const (
	DefaultFormSentinel        = "[] "
	DefaultHeaderLinkDelimiter = "=> "
)

// Parser turns document text into a model.Document. Parsing is all-or-nothing:
// the first invalid line aborts with a *model.ParseError.
type Parser interface {
	Parse(ctx context.Context, text Text) (model.Document, error)
}

// ParserOptions configures the document scanner.
type ParserOptions struct {
	// Clock supplies the value of the `now` literal in date fields.
	Clock func() time.Time

	// FormSentinel marks a form field declaration inside a form block.
	FormSentinel string

	// HeaderLinkDelimiter separates the prefix from the link in header and
	// footer lines.
	HeaderLinkDelimiter string
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithClock overrides the clock used for the `now` literal.
func WithClock(clock func() time.Time) ParserOption {
	return func(opts *ParserOptions) {
		if clock != nil {
			opts.Clock = clock
		}
	}
}

// WithFixedTime pins the `now` literal to t.
func WithFixedTime(t time.Time) ParserOption {
	return WithClock(func() time.Time { return t })
}

// WithFormSentinel overrides the form field sentinel.
func WithFormSentinel(sentinel string) ParserOption {
	return func(opts *ParserOptions) {
		if sentinel != "" {
			opts.FormSentinel = sentinel
		}
	}
}

// WithHeaderLinkDelimiter overrides the header and footer link delimiter.
func WithHeaderLinkDelimiter(delimiter string) ParserOption {
	return func(opts *ParserOptions) {
		if delimiter != "" {
			opts.HeaderLinkDelimiter = delimiter
		}
	}
}

// NewParserOptions applies ParserOption functions over the defaults.
// Implementations under internal/athn call this helper to stay consistent.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		Clock:               time.Now,
		FormSentinel:        DefaultFormSentinel,
		HeaderLinkDelimiter: DefaultHeaderLinkDelimiter,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// Construction helpers live in the top-level athn package to avoid import cycles.
