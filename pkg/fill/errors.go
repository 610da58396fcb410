package fill

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("fill: aborted")
	// ErrNoInputs is returned for a form block without input fields.
	ErrNoInputs = errors.New("fill: form has no input fields")
)
