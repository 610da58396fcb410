package athn

import (
	"context"

	internalLoader "github.com/goliatone/go-athn/internal/athn/loader"
	internalParser "github.com/goliatone/go-athn/internal/athn/parser"
	pkgathn "github.com/goliatone/go-athn/pkg/athn"
	"github.com/goliatone/go-athn/pkg/model"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgathn.LoaderOption) pkgathn.Loader {
	cfg := pkgathn.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgathn.ParserOption) pkgathn.Parser {
	cfg := pkgathn.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// Parse is the pure entry point: it turns document text into a Document or
// returns the first *model.ParseError encountered.
func Parse(text string, options ...pkgathn.ParserOption) (model.Document, error) {
	return NewParser(options...).Parse(context.Background(), pkgathn.InlineText(text))
}
