package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	pkgathn "github.com/goliatone/go-athn/pkg/athn"
	"github.com/goliatone/go-athn/pkg/model"
)

func ptr[T any](v T) *T { return &v }

func newTestParser() *Parser {
	return New(pkgathn.NewParserOptions(
		pkgathn.WithFixedTime(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)),
	))
}

func mustParse(t *testing.T, raw string) model.Document {
	t.Helper()

	doc, err := newTestParser().ParseString(raw)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

const fullDocument = `
+++ Meta
TI Test
ST Subtitle test
AU Author 1
AU Author 2
LI CC0-1.0
LA en
CH 0
+++ Header
=> /index.athn Homepage
=> /about.athn About
+++

()
Little text line
=> https://example.com/ Link line with label, the next one will be without
=> https://localhost/
` + "```Preformatted line" + `
'''Textual preformatted line
---
1* Unordered list
2* Subitem
6* Subsubsubsubsubitem
1- 1. Ordered list
1- 2. With multiple lines
2- a) And subitems
\/ Dropdown | This is a dropdown line
_! Note admonition
*! Warning admonition
!! Danger admonition
1# Heading 1
2# Heading 2
4# Heading 4
>> I never said that  - Albert Einstein
+++ Footer
This is just a boring old footer
=> /privacy.athn Privacy policy`

func TestParseFullDocument(t *testing.T) {
	t.Parallel()

	got := mustParse(t, fullDocument)

	want := model.Document{
		Metadata: model.Metadata{
			Title:     "Test",
			Subtitle:  ptr("Subtitle test"),
			Authors:   []string{"Author 1", "Author 2"},
			Licenses:  []string{"CC0-1.0"},
			Languages: []string{"en"},
			Cache:     ptr(uint32(0)),
		},
		Header: []model.HeaderLine{
			model.HeaderLink{Link: model.Link{URL: "/index.athn", Label: ptr("Homepage")}},
			model.HeaderLink{Link: model.Link{URL: "/about.athn", Label: ptr("About")}},
		},
		Main: []model.MainLine{
			model.TextLine{Content: "()"},
			model.TextLine{Content: "Little text line"},
			model.LinkLine{Link: model.Link{URL: "https://example.com/", Label: ptr("Link line with label, the next one will be without")}},
			model.LinkLine{Link: model.Link{URL: "https://localhost/"}},
			model.PreformattedLine{Content: "Preformatted line"},
			model.PreformattedLine{Textual: true, Content: "Textual preformatted line"},
			model.SeparatorLine{},
			model.UListLine{Level: model.LevelOne, Content: "Unordered list"},
			model.UListLine{Level: model.LevelTwo, Content: "Subitem"},
			model.UListLine{Level: model.LevelSix, Content: "Subsubsubsubsubitem"},
			model.OListLine{Level: model.LevelOne, Bullet: "1.", Content: "Ordered list"},
			model.OListLine{Level: model.LevelOne, Bullet: "2.", Content: "With multiple lines"},
			model.OListLine{Level: model.LevelTwo, Bullet: "a)", Content: "And subitems"},
			model.DropdownLine{Summary: "Dropdown", Content: "This is a dropdown line"},
			model.AdmonitionLine{Kind: model.AdmonitionNote, Content: "Note admonition"},
			model.AdmonitionLine{Kind: model.AdmonitionWarning, Content: "Warning admonition"},
			model.AdmonitionLine{Kind: model.AdmonitionDanger, Content: "Danger admonition"},
			model.HeadingLine{Level: model.LevelOne, Content: "Heading 1"},
			model.HeadingLine{Level: model.LevelTwo, Content: "Heading 2"},
			model.HeadingLine{Level: model.LevelFour, Content: "Heading 4"},
			model.QuoteLine{Content: "I never said that  - Albert Einstein"},
		},
		Footer: []model.FooterLine{
			model.FooterText{Content: "This is just a boring old footer"},
			model.FooterLink{Link: model.Link{URL: "/privacy.athn", Label: ptr("Privacy policy")}},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFormsAreIndexed(t *testing.T) {
	t.Parallel()

	const raw = "+++ Meta\nTI Form test\n+++\nThe next line is where the first form starts\n" +
		"+++ Form\nThis form has a single field\n[] Test:int \\max 100\n[] Send:submit \\dest /one\n+++\n" +
		"Then the second form\n+++ Form\n1# Second\n[] Send:submit \\dest /two\n"

	got := mustParse(t, raw)

	want := []model.MainLine{
		model.TextLine{Content: "The next line is where the first form starts"},
		model.TextLine{Content: "This form has a single field"},
		model.FormFieldLine{Form: 0, Field: model.IntegerField{ID: model.MustID("Test"), Max: ptr(int64(100))}},
		model.FormFieldLine{Form: 0, Field: model.SubmitField{ID: model.MustID("Send"), Destination: "/one"}},
		model.TextLine{Content: "Then the second form"},
		model.HeadingLine{Level: model.LevelOne, Content: "Second"},
		model.FormFieldLine{Form: 1, Field: model.SubmitField{ID: model.MustID("Send"), Destination: "/two"}},
	}
	if diff := cmp.Diff(want, got.Main); diff != "" {
		t.Fatalf("main lines mismatch (-want +got):\n%s", diff)
	}
	if got.Metadata.Title != "Form test" {
		t.Fatalf("unexpected title %q", got.Metadata.Title)
	}
	if got.Header != nil || got.Footer != nil {
		t.Fatalf("expected no header or footer, got %v / %v", got.Header, got.Footer)
	}
}

func TestParseSentinelOutsideFormIsText(t *testing.T) {
	got := mustParse(t, "[] Send:submit \\dest /one")
	want := []model.MainLine{model.TextLine{Content: "[] Send:submit \\dest /one"}}
	if diff := cmp.Diff(want, got.Main); diff != "" {
		t.Fatalf("main lines mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMetadataExample(t *testing.T) {
	t.Parallel()

	got := mustParse(t, "+++ Meta\nTI Test\nAU Some author\nLI GPL-3.0-or-later\nCH 100\n")
	want := model.Metadata{
		Title:    "Test",
		Authors:  []string{"Some author"},
		Licenses: []string{"GPL-3.0-or-later"},
		Cache:    ptr(uint32(100)),
	}
	if diff := cmp.Diff(want, got.Metadata); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}

	_, err := newTestParser().ParseString("+++ Meta\nTI Test\nAU Some author\nLI GPL-3.0-or-later\nCH 1o0\n")
	if !errors.Is(err, model.ErrInvalidCacheValue) {
		t.Fatalf("expected invalid cache value, got %v", err)
	}
}

func TestParseMetadataCapacity(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("+++ Meta\n")
	for i := 1; i <= 18; i++ {
		fmt.Fprintf(&b, "AU %d\n", i)
	}
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, "LI L%d\n", i)
	}
	for i := 1; i <= 300; i++ {
		fmt.Fprintf(&b, "LA l%d\n", i)
	}
	b.WriteString("TI Still parsed\n")

	got := mustParse(t, b.String())
	if len(got.Metadata.Authors) != model.MaxAuthors {
		t.Fatalf("expected %d authors, got %d", model.MaxAuthors, len(got.Metadata.Authors))
	}
	if got.Metadata.Authors[15] != "16" {
		t.Fatalf("expected last author to be 16, got %q", got.Metadata.Authors[15])
	}
	if diff := cmp.Diff([]string{"L1", "L2", "L3", "L4"}, got.Metadata.Licenses); diff != "" {
		t.Fatalf("licenses mismatch (-want +got):\n%s", diff)
	}
	if len(got.Metadata.Languages) != model.MaxLanguages {
		t.Fatalf("expected %d languages, got %d", model.MaxLanguages, len(got.Metadata.Languages))
	}
	if got.Metadata.Title != "Still parsed" {
		t.Fatalf("expected title after overflow, got %q", got.Metadata.Title)
	}
}

func TestParseFailsFast(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		kind model.ErrorKind
		line int
	}{
		{name: "short metadata line", raw: "+++ Meta\nTI Test\nAU", kind: model.ErrMetadataTooShort, line: 3},
		{name: "unknown metadata tag", raw: "+++ Meta\nXX nope", kind: model.ErrInvalidMetadataTag, line: 2},
		{name: "header without link", raw: "+++ Header\n/index.athn Home", kind: model.ErrInvalidHeaderLine, line: 2},
		{name: "ordered list without bullet", raw: "intro\n1- lonely", kind: model.ErrInvalidOrderedList, line: 2},
		{name: "dropdown without delimiter", raw: "\\/ Summary only", kind: model.ErrInvalidDropdown, line: 1},
		{name: "file default in form", raw: "+++ Form\n[] f:file \\d a.png \\max 10", kind: model.ErrForbiddenProperty, line: 2},
		{name: "invalid field id", raw: "+++ Form\n\n[] 1nv4lid_ID:bool", kind: model.ErrInvalidIdentifier, line: 3},
		{name: "error after valid content", raw: "1# Title\nSome text\n+++ Form\n[] x:unknown", kind: model.ErrInvalidFieldType, line: 4},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc, err := newTestParser().ParseString(tc.raw)
			if err == nil {
				t.Fatalf("expected error, got document %+v", doc)
			}
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected kind %q, got %v", tc.kind, err)
			}
			var parseErr *model.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *model.ParseError, got %T", err)
			}
			if parseErr.Line != tc.line {
				t.Fatalf("expected line %d, got %d", tc.line, parseErr.Line)
			}
			if diff := cmp.Diff(model.Document{}, doc); diff != "" {
				t.Fatalf("expected zero document on failure (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFooterAndHeaderDelimiterAnywhere(t *testing.T) {
	got := mustParse(t, "+++ Header\nHome => /index.athn\n+++ Footer\nmade with => care")

	wantHeader := []model.HeaderLine{model.HeaderLink{Link: model.Link{URL: "/index.athn"}}}
	if diff := cmp.Diff(wantHeader, got.Header); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	wantFooter := []model.FooterLine{model.FooterLink{Link: model.Link{URL: "care"}}}
	if diff := cmp.Diff(wantFooter, got.Footer); diff != "" {
		t.Fatalf("footer mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAcceptsCRLF(t *testing.T) {
	got := mustParse(t, "+++ Meta\r\nTI Windows\r\n+++\r\n1# Heading\r\nok\r\n")

	if got.Metadata.Title != "Windows" {
		t.Fatalf("unexpected title %q", got.Metadata.Title)
	}
	want := []model.MainLine{
		model.HeadingLine{Level: model.LevelOne, Content: "Heading"},
		model.TextLine{Content: "ok"},
	}
	if diff := cmp.Diff(want, got.Main); diff != "" {
		t.Fatalf("main mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	got := mustParse(t, "")
	want := model.Document{Main: []model.MainLine{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("empty document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestParser().Parse(ctx, pkgathn.InlineText("1# Title"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClassifyFallsBackToText(t *testing.T) {
	t.Parallel()

	cases := []string{"7* too deep", "1*no space", "#1 legacy heading", "Plain text"}
	for _, line := range cases {
		got, err := classify(line)
		if err != nil {
			t.Fatalf("classify %q: %v", line, err)
		}
		if diff := cmp.Diff(model.MainLine(model.TextLine{Content: line}), got); diff != "" {
			t.Fatalf("classify %q mismatch (-want +got):\n%s", line, diff)
		}
	}
}

func TestClassifyLiteralPrefixes(t *testing.T) {
	got, err := classify("=> not really a link")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	want := model.LinkLine{Link: model.Link{URL: "not", Label: ptr("really a link")}}
	if diff := cmp.Diff(model.MainLine(want), got); diff != "" {
		t.Fatalf("classify mismatch (-want +got):\n%s", diff)
	}

	sep, err := classify("------ trailing")
	if err != nil {
		t.Fatalf("classify separator: %v", err)
	}
	if _, ok := sep.(model.SeparatorLine); !ok {
		t.Fatalf("expected separator, got %T", sep)
	}
}

func TestParseUnknownMarkersSwitchToMain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want []model.MainLine
		meta model.Metadata
	}{
		{
			name: "named marker leaves a form",
			raw:  "+++ Form\n[] a:string\n+++ Something\n[] b:string",
			want: []model.MainLine{
				model.FormFieldLine{Form: 0, Field: model.StringField{ID: model.MustID("a")}},
				model.TextLine{Content: "[] b:string"},
			},
		},
		{
			name: "marker without space is not a form",
			raw:  "+++Form\n[] a:string\n+++ Form\n[] b:string",
			want: []model.MainLine{
				model.TextLine{Content: "[] a:string"},
				model.FormFieldLine{Form: 0, Field: model.StringField{ID: model.MustID("b")}},
			},
		},
		{
			name: "lowercase marker leaves metadata",
			raw:  "+++ Meta\nTI Title\n+++ meta\nAU Someone",
			want: []model.MainLine{model.TextLine{Content: "AU Someone"}},
			meta: model.Metadata{Title: "Title"},
		},
		{
			name: "marker with trailing text leaves the header",
			raw:  "+++ Header\n=> /a A\n+++ Header please\nno link here",
			want: []model.MainLine{model.TextLine{Content: "no link here"}},
		},
	}
	for _, tc := range cases {
		got := mustParse(t, tc.raw)
		if diff := cmp.Diff(tc.want, got.Main); diff != "" {
			t.Errorf("%s: main lines mismatch (-want +got):\n%s", tc.name, diff)
		}
		if diff := cmp.Diff(tc.meta, got.Metadata); diff != "" {
			t.Errorf("%s: metadata mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}
