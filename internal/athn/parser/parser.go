// Package parser implements the ATHN document scanner: it walks a document
// line by line, tracks the active section and routes each line to the
// metadata tag parser, the line classifier or the form field parser.
package parser

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-athn/internal/athn/fields"
	pkgathn "github.com/goliatone/go-athn/pkg/athn"
	"github.com/goliatone/go-athn/pkg/model"
)

// sectionMarker opens every section marker line.
const sectionMarker = "+++"

// ltiWidth is the width of the line type indicator.
const ltiWidth = 3

// Parser implements pkgathn.Parser.
type Parser struct {
	options pkgathn.ParserOptions
	fields  *fields.Parser
}

// Ensure the implementation satisfies the public interface.
var _ pkgathn.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgathn.ParserOptions) *Parser {
	if options.FormSentinel == "" {
		options.FormSentinel = pkgathn.DefaultFormSentinel
	}
	if options.HeaderLinkDelimiter == "" {
		options.HeaderLinkDelimiter = pkgathn.DefaultHeaderLinkDelimiter
	}
	return &Parser{
		options: options,
		fields:  fields.New(options.Clock),
	}
}

// Parse scans text into a Document. The context is only consulted before the
// scan starts; the scan itself never blocks.
func (p *Parser) Parse(ctx context.Context, text pkgathn.Text) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}
	return p.ParseString(text.Raw())
}

// ParseString scans raw document text.
func (p *Parser) ParseString(raw string) (model.Document, error) {
	s := scanner{
		parser:  p,
		builder: model.NewDocumentBuilder(),
		section: sectionMain,
	}
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if err := s.scan(line); err != nil {
			return model.Document{}, annotate(err, i+1)
		}
	}
	return s.builder.Build(), nil
}

type section int

const (
	sectionMain section = iota
	sectionMeta
	sectionForm
	sectionHeader
	sectionFooter
)

// scanner holds the mutable state of a single parse.
type scanner struct {
	parser  *Parser
	builder *model.DocumentBuilder
	section section
	// forms counts the form markers seen so far.
	forms int
}

func (s *scanner) scan(line string) error {
	if line == "" {
		return nil
	}
	if strings.HasPrefix(line, sectionMarker) {
		s.switchSection(line)
		return nil
	}

	switch s.section {
	case sectionMeta:
		if len(line) < ltiWidth {
			return model.NewParseError(model.ErrMetadataTooShort, "Invalid Metadata tag line encountered (too short)")
		}
		return parseMetadata(s.builder.Metadata(), line)

	case sectionForm:
		if _, declaration, ok := strings.Cut(line, s.parser.options.FormSentinel); ok {
			field, err := s.parser.fields.Parse(declaration)
			if err != nil {
				return err
			}
			s.builder.AddMainLine(model.FormFieldLine{Form: s.forms - 1, Field: field})
			return nil
		}
		return s.addMain(line)

	case sectionHeader:
		_, rest, ok := strings.Cut(line, s.parser.options.HeaderLinkDelimiter)
		if !ok {
			return model.NewParseError(model.ErrInvalidHeaderLine, "Invalid header line encountered")
		}
		s.builder.AddHeaderLine(model.HeaderLink{Link: parseLink(rest)})
		return nil

	case sectionFooter:
		if _, rest, ok := strings.Cut(line, s.parser.options.HeaderLinkDelimiter); ok {
			s.builder.AddFooterLine(model.FooterLink{Link: parseLink(rest)})
		} else {
			s.builder.AddFooterLine(model.FooterText{Content: line})
		}
		return nil

	default:
		return s.addMain(line)
	}
}

func (s *scanner) addMain(line string) error {
	if len(line) < ltiWidth {
		s.builder.AddMainLine(model.TextLine{Content: line})
		return nil
	}
	parsed, err := classify(line)
	if err != nil {
		return err
	}
	s.builder.AddMainLine(parsed)
	return nil
}

func (s *scanner) switchSection(line string) {
	switch line {
	case "+++ Meta":
		s.section = sectionMeta
	case "+++ Header":
		s.section = sectionHeader
	case "+++ Footer":
		s.section = sectionFooter
	case "+++ Form":
		s.section = sectionForm
		s.forms++
	default:
		s.section = sectionMain
	}
}

// annotate attaches the 1-based line number to parse errors.
func annotate(err error, line int) error {
	var parseErr *model.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.AtLine(line)
	}
	return err
}
