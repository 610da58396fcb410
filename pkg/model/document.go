package model

// Document is the fully parsed ATHN document.
type Document struct {
	Metadata Metadata
	Main     []MainLine
	// Header is nil when the document declares no header section lines.
	Header []HeaderLine
	// Footer is nil when the document declares no footer section lines.
	Footer []FooterLine
}

// Metadata is the content of the `+++ Meta` block. Repeatable tags are capped
// at MaxAuthors, MaxLicenses and MaxLanguages entries.
type Metadata struct {
	Title     string   `json:"title" yaml:"title"`
	Subtitle  *string  `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Authors   []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Licenses  []string `json:"licenses,omitempty" yaml:"licenses,omitempty"`
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`
	// Cache is the suggested cache duration in seconds.
	Cache *uint32 `json:"cache,omitempty" yaml:"cache,omitempty"`
}

// Link is a URL with an optional label. The URL is kept as written because
// relative URLs can only be resolved once the caller knows the base.
type Link struct {
	URL   string
	Label *string
}

// Level is a heading or list nesting level between LevelOne and LevelSix.
type Level uint8

const (
	LevelOne Level = iota + 1
	LevelTwo
	LevelThree
	LevelFour
	LevelFive
	LevelSix
)

// AdmonitionKind classifies admonition lines.
type AdmonitionKind string

const (
	AdmonitionNote    AdmonitionKind = "note"
	AdmonitionWarning AdmonitionKind = "warning"
	AdmonitionDanger  AdmonitionKind = "danger"
)

// MainLine is a single line of the main section (or of a form block). The set
// of implementations is closed; consumers switch on the concrete type.
type MainLine interface {
	isMainLine()
}

type (
	// TextLine is plain text, also the fallback for unrecognised prefixes.
	TextLine struct {
		Content string
	}

	LinkLine struct {
		Link Link
	}

	// PreformattedLine is a ``` (Textual=false) or ''' (Textual=true) line.
	PreformattedLine struct {
		Textual bool
		Content string
	}

	SeparatorLine struct{}

	UListLine struct {
		Level   Level
		Content string
	}

	OListLine struct {
		Level   Level
		Bullet  string
		Content string
	}

	DropdownLine struct {
		Summary string
		Content string
	}

	AdmonitionLine struct {
		Kind    AdmonitionKind
		Content string
	}

	HeadingLine struct {
		Level   Level
		Content string
	}

	QuoteLine struct {
		Content string
	}

	// FormFieldLine is a field declared inside a form block. Form is the
	// zero-based index of the enclosing block so fields of independent forms
	// are never conflated.
	FormFieldLine struct {
		Form  int
		Field FormField
	}
)

func (TextLine) isMainLine()         {}
func (LinkLine) isMainLine()         {}
func (PreformattedLine) isMainLine() {}
func (SeparatorLine) isMainLine()    {}
func (UListLine) isMainLine()        {}
func (OListLine) isMainLine()        {}
func (DropdownLine) isMainLine()     {}
func (AdmonitionLine) isMainLine()   {}
func (HeadingLine) isMainLine()      {}
func (QuoteLine) isMainLine()        {}
func (FormFieldLine) isMainLine()    {}

// HeaderLine is a line of the header section. Header lines are link-only.
type HeaderLine interface {
	isHeaderLine()
}

// HeaderLink is the only HeaderLine variant.
type HeaderLink struct {
	Link Link
}

func (HeaderLink) isHeaderLine() {}

// FooterLine is a line of the footer section: either a link or text.
type FooterLine interface {
	isFooterLine()
}

type (
	FooterLink struct {
		Link Link
	}

	FooterText struct {
		Content string
	}
)

func (FooterLink) isFooterLine() {}
func (FooterText) isFooterLine() {}
