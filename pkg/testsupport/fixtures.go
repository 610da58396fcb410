package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	pkgathn "github.com/goliatone/go-athn/pkg/athn"
)

// FixedTime is the clock value tests pin the `now` literal to.
var FixedTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// FixedClock returns FixedTime; pass it to athn.WithClock.
func FixedClock() time.Time {
	return FixedTime
}

// LoadText reads a fixture into an athn.Text with a file source. Testing
// helpers fail the test on error to keep table tests concise.
func LoadText(t *testing.T, path string) pkgathn.Text {
	t.Helper()

	text, err := LoadTextFromPath(path)
	if err != nil {
		t.Fatalf("load text: %v", err)
	}
	return text
}

// LoadTextFromPath returns a Text without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadTextFromPath(path string) (pkgathn.Text, error) {
	if path == "" {
		return pkgathn.Text{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgathn.Text{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	text, err := pkgathn.NewText(pkgathn.SourceFromFile(path), string(data))
	if err != nil {
		return pkgathn.Text{}, fmt.Errorf("testsupport: new text: %w", err)
	}
	return text, nil
}

// WriteGolden writes value as indented JSON to a golden file when
// UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// CompareJSONGolden encodes got as JSON and diffs it against the golden file
// at path. Both sides are decoded generically so key order and numeric types
// do not matter.
func CompareJSONGolden(t *testing.T, path string, got any) string {
	t.Helper()

	WriteGolden(t, path, got)

	var want any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	payload, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var actual any
	if err := json.Unmarshal(payload, &actual); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	return cmp.Diff(want, actual)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
