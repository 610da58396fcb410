package model

// ID names a form field. It is restricted to ASCII letters and underscores.
type ID struct {
	value string
}

// NewID validates input and wraps it as an ID.
func NewID(input string) (ID, error) {
	for i := 0; i < len(input); i++ {
		if !isIDByte(input[i]) {
			return ID{}, NewParseError(ErrInvalidIdentifier, "Found form field with invalid ID")
		}
	}
	return ID{value: input}, nil
}

// MustID panics if input is not a valid ID. Useful for tests and literals.
func MustID(input string) ID {
	id, err := NewID(input)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string {
	return id.value
}

// Equal reports whether both IDs carry the same name.
func (id ID) Equal(other ID) bool {
	return id.value == other.value
}

// MarshalText lets IDs serialise as plain strings in JSON and YAML.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

func isIDByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
