package model

import (
	"time"

	"github.com/samber/lo"
)

// DocumentView is a tagged, serialisable rendition of a Document. The line
// interfaces carry no type information once encoded, so encoders (JSON, YAML)
// go through this view instead.
type DocumentView struct {
	Metadata Metadata   `json:"metadata" yaml:"metadata"`
	Main     []LineView `json:"main" yaml:"main"`
	Header   []LineView `json:"header,omitempty" yaml:"header,omitempty"`
	Footer   []LineView `json:"footer,omitempty" yaml:"footer,omitempty"`
}

// LineView describes any main, header or footer line.
type LineView struct {
	Kind    string     `json:"kind" yaml:"kind"`
	Level   Level      `json:"level,omitempty" yaml:"level,omitempty"`
	Content string     `json:"content,omitempty" yaml:"content,omitempty"`
	Bullet  string     `json:"bullet,omitempty" yaml:"bullet,omitempty"`
	Summary string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Textual bool       `json:"textual,omitempty" yaml:"textual,omitempty"`
	URL     string     `json:"url,omitempty" yaml:"url,omitempty"`
	Label   *string    `json:"label,omitempty" yaml:"label,omitempty"`
	Form    *int       `json:"form,omitempty" yaml:"form,omitempty"`
	Field   *FieldView `json:"field,omitempty" yaml:"field,omitempty"`
}

// FieldView flattens any FormField kind.
type FieldView struct {
	Name        string           `json:"name" yaml:"name"`
	Kind        FieldKind        `json:"kind" yaml:"kind"`
	Optional    bool             `json:"optional,omitempty" yaml:"optional,omitempty"`
	Label       *string          `json:"label,omitempty" yaml:"label,omitempty"`
	Default     any              `json:"default,omitempty" yaml:"default,omitempty"`
	Conditional *ConditionalView `json:"conditional,omitempty" yaml:"conditional,omitempty"`
	Min         any              `json:"min,omitempty" yaml:"min,omitempty"`
	Max         any              `json:"max,omitempty" yaml:"max,omitempty"`
	Step        any              `json:"step,omitempty" yaml:"step,omitempty"`
	Positive    bool             `json:"positive,omitempty" yaml:"positive,omitempty"`
	Multiline   bool             `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	Secret      bool             `json:"secret,omitempty" yaml:"secret,omitempty"`
	Date        bool             `json:"date,omitempty" yaml:"date,omitempty"`
	Time        bool             `json:"time,omitempty" yaml:"time,omitempty"`
	Redirect    bool             `json:"redirect,omitempty" yaml:"redirect,omitempty"`
	Destination string           `json:"destination,omitempty" yaml:"destination,omitempty"`
	Country     *string          `json:"country,omitempty" yaml:"country,omitempty"`
	Variants    []string         `json:"variants,omitempty" yaml:"variants,omitempty"`
	Types       []string         `json:"types,omitempty" yaml:"types,omitempty"`
	Children    []string         `json:"children,omitempty" yaml:"children,omitempty"`
}

// ConditionalView is the serialisable ConditionalProperty.
type ConditionalView struct {
	Inverse bool   `json:"inverse,omitempty" yaml:"inverse,omitempty"`
	Target  string `json:"target" yaml:"target"`
}

// Snapshot converts doc into its serialisable view.
func Snapshot(doc Document) DocumentView {
	view := DocumentView{
		Metadata: doc.Metadata,
		Main:     lo.Map(doc.Main, func(line MainLine, _ int) LineView { return mainLineView(line) }),
	}
	for _, line := range doc.Header {
		if link, ok := line.(HeaderLink); ok {
			view.Header = append(view.Header, linkView(link.Link))
		}
	}
	for _, line := range doc.Footer {
		switch typed := line.(type) {
		case FooterLink:
			view.Footer = append(view.Footer, linkView(typed.Link))
		case FooterText:
			view.Footer = append(view.Footer, LineView{Kind: "text", Content: typed.Content})
		}
	}
	return view
}

// ViewField converts a single field into its serialisable view.
func ViewField(field FormField) FieldView {
	view := FieldView{Name: field.Name().String(), Kind: field.Kind()}
	switch f := field.(type) {
	case SubmitField:
		view.Destination = f.Destination
		view.Label = f.Label
		view.Redirect = f.Redirect
	case StringField:
		applyGlobal(&view, f.Global)
		view.Min, view.Max = optional(f.Min), optional(f.Max)
		view.Multiline, view.Secret = f.Multiline, f.Secret
		view.Variants = f.Variants
	case IntegerField:
		applyGlobal(&view, f.Global)
		view.Min, view.Max, view.Step = optional(f.Min), optional(f.Max), optional(f.Step)
		view.Positive = f.Positive
	case FloatField:
		applyGlobal(&view, f.Global)
		view.Min, view.Max, view.Step = optional(f.Min), optional(f.Max), optional(f.Step)
		view.Positive = f.Positive
	case BoolField:
		applyGlobal(&view, f.Global)
	case FileField:
		applyGlobal(&view, f.Global)
		view.Max = optional(f.Max)
		view.Types = f.Types
	case ListField:
		applyGlobal(&view, f.Global)
		view.Min, view.Max = optional(f.Min), optional(f.Max)
		view.Children = lo.Map(f.Children, func(id ID, _ int) string { return id.String() })
	case DateField:
		applyGlobal(&view, f.Global)
		if f.Global.Default != nil {
			view.Default = f.Global.Default.Format(time.RFC3339)
		}
		if f.Min != nil {
			view.Min = f.Min.Format(time.RFC3339)
		}
		if f.Max != nil {
			view.Max = f.Max.Format(time.RFC3339)
		}
		view.Date, view.Time = f.Date, f.Time
	case EmailField:
		applyGlobal(&view, f.Global)
	case PhoneField:
		applyGlobal(&view, f.Global)
		view.Country = f.Country
	}
	return view
}

func mainLineView(line MainLine) LineView {
	switch l := line.(type) {
	case TextLine:
		return LineView{Kind: "text", Content: l.Content}
	case LinkLine:
		return linkView(l.Link)
	case PreformattedLine:
		return LineView{Kind: "preformatted", Textual: l.Textual, Content: l.Content}
	case SeparatorLine:
		return LineView{Kind: "separator"}
	case UListLine:
		return LineView{Kind: "ulist", Level: l.Level, Content: l.Content}
	case OListLine:
		return LineView{Kind: "olist", Level: l.Level, Bullet: l.Bullet, Content: l.Content}
	case DropdownLine:
		return LineView{Kind: "dropdown", Summary: l.Summary, Content: l.Content}
	case AdmonitionLine:
		return LineView{Kind: "admonition:" + string(l.Kind), Content: l.Content}
	case HeadingLine:
		return LineView{Kind: "heading", Level: l.Level, Content: l.Content}
	case QuoteLine:
		return LineView{Kind: "quote", Content: l.Content}
	case FormFieldLine:
		form := l.Form
		field := ViewField(l.Field)
		return LineView{Kind: "field", Form: &form, Field: &field}
	default:
		return LineView{Kind: "unknown"}
	}
}

func linkView(link Link) LineView {
	return LineView{Kind: "link", URL: link.URL, Label: link.Label}
}

func applyGlobal[T any](view *FieldView, global GlobalProperties[T]) {
	view.Optional = global.Optional
	view.Label = global.Label
	if global.Default != nil {
		view.Default = *global.Default
	}
	if global.Conditional != nil {
		view.Conditional = &ConditionalView{
			Inverse: global.Conditional.Inverse,
			Target:  global.Conditional.Target.String(),
		}
	}
}

func optional[T any](value *T) any {
	if value == nil {
		return nil
	}
	return *value
}
