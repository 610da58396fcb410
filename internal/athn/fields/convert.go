package fields

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"
)

const nowLiteral = "now"

var errNotBool = errors.New("fields: boolean must be true or false")

func parseUint32(raw string) (uint32, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	return uint32(v), err
}

func parseUint64(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

func parseInt64(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func parseFloat64(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}

func parseString(raw string) (string, error) {
	return raw, nil
}

// parseBool only accepts the literal spellings true and false.
func parseBool(raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, errNotBool
	}
}

// parseEmail accepts a bare address (no display name or angle brackets).
func parseEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", err
	}
	if addr.Name != "" || addr.Address != raw {
		return "", errors.New("fields: email must be a bare address")
	}
	return raw, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// timestampParser returns a converter for date values. The `now` literal
// resolves through clock at parse time; integers are Unix seconds.
func timestampParser(clock func() time.Time) func(string) (time.Time, error) {
	return func(raw string) (time.Time, error) {
		value := strings.TrimSpace(raw)
		if value == nowLiteral {
			return clock().UTC(), nil
		}
		if seconds, err := strconv.ParseUint(value, 10, 63); err == nil {
			return time.Unix(int64(seconds), 0).UTC(), nil
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, errors.New("fields: unrecognised timestamp")
	}
}
