package athn

import "errors"

// Text wraps raw ATHN document text and its origin.
type Text struct {
	source Source
	raw    string
}

// NewText constructs a Text wrapper. Empty text is valid and parses to an
// empty document.
func NewText(src Source, raw string) (Text, error) {
	if src == nil {
		return Text{}, errors.New("athn: source is required")
	}
	return Text{source: src, raw: raw}, nil
}

// InlineText wraps text that did not come from a loader.
func InlineText(raw string) Text {
	return Text{source: SourceInline(""), raw: raw}
}

// Source returns the origin metadata for the text.
func (t Text) Source() Source {
	return t.source
}

// Raw returns the document text.
func (t Text) Raw() string {
	return t.raw
}

// Location returns the string identifier for the origin.
func (t Text) Location() string {
	if t.source == nil {
		return ""
	}
	return t.source.Location()
}
