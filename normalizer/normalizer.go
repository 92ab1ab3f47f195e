package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Mode string

const (
	ModeStructured Mode = "structured"
	ModeFreeform   Mode = "freeform"
)

var ErrMalformedResponse = errors.New("malformed response")

// MalformedResponseError carries the model text that failed to parse so
// callers can surface it for diagnostics.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() []error {
	return []error{ErrMalformedResponse, e.Err}
}

func Malformed(raw string, err error) error {
	return &MalformedResponseError{Raw: raw, Err: err}
}

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?[ \t]*```$")
)

// StripFences removes one enclosing markdown code fence, optionally tagged
// json, and trims surrounding whitespace.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}

// Structured decodes the model text into v. The payload must be a single
// JSON object once fences are removed.
func Structured(raw string, v any) error {
	text := StripFences(raw)

	if !strings.HasPrefix(text, "{") {
		return Malformed(raw, errors.New("response is not a JSON object"))
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return Malformed(raw, err)
	}

	return nil
}

func Freeform(raw string) string {
	return strings.TrimSpace(raw)
}

// Normalize returns a map[string]any in structured mode and a string in
// freeform mode.
func Normalize(raw string, mode Mode) (any, error) {
	switch mode {
	case ModeStructured:
		var obj map[string]any
		if err := Structured(raw, &obj); err != nil {
			return nil, err
		}
		return obj, nil
	case ModeFreeform:
		return Freeform(raw), nil
	}

	return nil, fmt.Errorf("unknown normalizer mode %q", mode)
}
