package types

import (
	"fmt"
	"strings"
)

// PatternKind selects the language a search pattern is written in.
type PatternKind int

const (
	// PlainText matches names containing the pattern as a substring.
	PlainText PatternKind = iota
	// Mask matches whole names with * and ? wildcards.
	Mask
	// Regex matches names with a regular expression.
	Regex
)

// String returns the canonical name of the kind
func (k PatternKind) String() string {
	switch k {
	case PlainText:
		return "plain"
	case Mask:
		return "mask"
	case Regex:
		return "regex"
	default:
		return fmt.Sprintf("PatternKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k PatternKind) Valid() bool {
	return k >= PlainText && k <= Regex
}

// ParsePatternKind accepts the canonical names, a few aliases and the
// numeric searching modes used by the desktop bridge (0, 1, 2).
func ParsePatternKind(s string) (PatternKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "text", "plaintext", "0":
		return PlainText, nil
	case "mask", "glob", "1":
		return Mask, nil
	case "regex", "regexp", "re", "2":
		return Regex, nil
	}
	return PlainText, fmt.Errorf("unknown pattern kind %q", s)
}

// MarshalText implements encoding.TextMarshaler so kinds read naturally in YAML and JSON.
func (k PatternKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid pattern kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PatternKind) UnmarshalText(text []byte) error {
	parsed, err := ParsePatternKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// SearchRequest describes one search invocation. It is built once and not modified.
type SearchRequest struct {
	Root                    string      `json:"root"`
	Pattern                 string      `json:"pattern"`
	Kind                    PatternKind `json:"kind"`
	IncludeHidden           bool        `json:"include_hidden"`
	IncludeExtensionInMatch bool        `json:"include_extension_in_match"`
}
