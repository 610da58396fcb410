package parser

import (
	"strings"

	"github.com/goliatone/go-athn/pkg/model"
)

const (
	linkLTI         = "=> "
	preformattedLTI = "```"
	textualLTI      = "'''"
	separatorLTI    = "---"
	dropdownLTI     = `\/ `
	noteLTI         = "_! "
	warningLTI      = "*! "
	dangerLTI       = "!! "
	quoteLTI        = ">> "

	dropdownDelimiter = " | "
)

// classify maps a main or form line of at least three bytes to its line kind.
// Prefixes are matched literally; a line that merely happens to start with an
// indicator is still classified as that construct.
func classify(line string) (model.MainLine, error) {
	lti, rest := line[:ltiWidth], line[ltiWidth:]

	switch lti {
	case linkLTI:
		return model.LinkLine{Link: parseLink(rest)}, nil
	case preformattedLTI:
		return model.PreformattedLine{Content: rest}, nil
	case textualLTI:
		return model.PreformattedLine{Textual: true, Content: rest}, nil
	case separatorLTI:
		return model.SeparatorLine{}, nil
	case dropdownLTI:
		summary, content, ok := strings.Cut(rest, dropdownDelimiter)
		if !ok {
			return nil, model.NewParseError(model.ErrInvalidDropdown, "Dropdown line without ' | ' delimiter found")
		}
		return model.DropdownLine{Summary: summary, Content: content}, nil
	case noteLTI:
		return model.AdmonitionLine{Kind: model.AdmonitionNote, Content: rest}, nil
	case warningLTI:
		return model.AdmonitionLine{Kind: model.AdmonitionWarning, Content: rest}, nil
	case dangerLTI:
		return model.AdmonitionLine{Kind: model.AdmonitionDanger, Content: rest}, nil
	case quoteLTI:
		return model.QuoteLine{Content: rest}, nil
	}

	if level, marker, ok := leveled(lti); ok {
		switch marker {
		case '*':
			return model.UListLine{Level: level, Content: rest}, nil
		case '#':
			return model.HeadingLine{Level: level, Content: rest}, nil
		case '-':
			bullet, content, found := strings.Cut(rest, " ")
			if !found {
				return nil, model.NewParseError(model.ErrInvalidOrderedList, "Invalid ordered list line found")
			}
			return model.OListLine{Level: level, Bullet: bullet, Content: content}, nil
		}
	}

	return model.TextLine{Content: line}, nil
}

// leveled recognises the `N* `, `N- ` and `N# ` indicators for N in 1..6.
func leveled(lti string) (model.Level, byte, bool) {
	digit, marker, space := lti[0], lti[1], lti[2]
	if digit < '1' || digit > '6' || space != ' ' {
		return 0, 0, false
	}
	switch marker {
	case '*', '-', '#':
		return model.Level(digit - '0'), marker, true
	}
	return 0, 0, false
}

// parseLink splits a link payload into its URL and an optional label on the
// first space.
func parseLink(input string) model.Link {
	url, label, ok := strings.Cut(input, " ")
	if !ok {
		return model.Link{URL: input}
	}
	return model.Link{URL: url, Label: &label}
}
