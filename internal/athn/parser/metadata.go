package parser

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-athn/pkg/model"
)

// parseMetadata folds one metadata line into b. Repeatable tags past their
// cap are ignored.
func parseMetadata(b *model.MetadataBuilder, line string) error {
	tag, value := line[:ltiWidth], line[ltiWidth:]

	switch tag {
	case "TI ":
		b.SetTitle(value)
	case "ST ":
		b.SetSubtitle(value)
	case "AU ":
		b.AddAuthor(value)
	case "LI ":
		b.AddLicense(value)
	case "LA ":
		b.AddLanguage(value)
	case "CH ":
		seconds, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return &model.ParseError{
				Kind:    model.ErrInvalidCacheValue,
				Message: fmt.Sprintf("Invalid cache tag value %q", value),
			}
		}
		b.SetCache(uint32(seconds))
	default:
		return &model.ParseError{
			Kind:    model.ErrInvalidMetadataTag,
			Message: fmt.Sprintf("Invalid Metadata tag line encountered: %q", tag),
		}
	}
	return nil
}
