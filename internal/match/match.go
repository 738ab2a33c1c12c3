// Package match compiles search patterns into name matchers.
//
// Three pattern languages are supported: plain text (substring), masks
// (* and ? wildcards, anchored at both ends) and regular expressions.
// Matching is case-insensitive unless CaseSensitive is given.
package match

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"ferret/internal/errors"
	"ferret/pkg/types"
)

// Matcher reports whether a name satisfies a compiled pattern.
type Matcher interface {
	Match(name string) bool
}

type options struct {
	caseSensitive    bool
	anchorRegex      bool
	includeExtension bool
}

// Option tunes Compile.
type Option func(*options)

// CaseSensitive disables case folding.
func CaseSensitive() Option {
	return func(o *options) { o.caseSensitive = true }
}

// AnchorRegex makes regular expressions match the whole name.
func AnchorRegex() Option {
	return func(o *options) { o.anchorRegex = true }
}

// MatchExtension selects whether file names are matched with their extension.
// Without it only the stem is matched. Folders always use the full name.
func MatchExtension(include bool) Option {
	return func(o *options) { o.includeExtension = include }
}

// Compile builds a Matcher for pattern. Invalid patterns yield a *errors.PatternError.
func Compile(pattern string, kind types.PatternKind, opts ...Option) (Matcher, error) {
	o := options{includeExtension: true}
	for _, opt := range opts {
		opt(&o)
	}

	switch kind {
	case types.PlainText:
		return newPlain(pattern, o.caseSensitive), nil
	case types.Mask:
		return newMask(pattern, o.caseSensitive)
	case types.Regex:
		return newRegex(pattern, o.caseSensitive, o.anchorRegex)
	}
	return nil, errors.NewPatternError("unsupported pattern kind", pattern, kind.String(), nil)
}

// Target returns the part of e a pattern is matched against.
func Target(e types.Entry, includeExtension bool) string {
	if e.IsFolder || includeExtension {
		return e.Name
	}
	return e.Stem()
}

// EntryMatcher matches entries instead of bare names.
type EntryMatcher struct {
	m                Matcher
	includeExtension bool
}

// CompileRequest compiles the pattern of req for matching walked entries.
func CompileRequest(req types.SearchRequest, opts ...Option) (*EntryMatcher, error) {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, MatchExtension(req.IncludeExtensionInMatch))
	m, err := Compile(req.Pattern, req.Kind, all...)
	if err != nil {
		return nil, err
	}
	return &EntryMatcher{m: m, includeExtension: req.IncludeExtensionInMatch}, nil
}

// Match reports whether the entry's target name matches.
func (em *EntryMatcher) Match(e types.Entry) bool {
	return em.m.Match(Target(e, em.includeExtension))
}

type plainMatcher struct {
	needle string
	fold   bool
}

func newPlain(pattern string, caseSensitive bool) *plainMatcher {
	if !caseSensitive {
		pattern = strings.ToLower(pattern)
	}
	return &plainMatcher{needle: pattern, fold: !caseSensitive}
}

func (m *plainMatcher) Match(name string) bool {
	if m.fold {
		name = strings.ToLower(name)
	}
	return strings.Contains(name, m.needle)
}

type maskMatcher struct {
	g    glob.Glob
	fold bool
}

// newMask translates a mask to a gobwas glob. Only * and ? are special;
// everything else, brackets and braces included, is quoted.
func newMask(pattern string, caseSensitive bool) (*maskMatcher, error) {
	if !caseSensitive {
		pattern = strings.ToLower(pattern)
	}

	var b, lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			b.WriteString(glob.QuoteMeta(lit.String()))
			lit.Reset()
		}
	}
	for _, r := range pattern {
		switch r {
		case '*', '?':
			flush()
			b.WriteRune(r)
		default:
			lit.WriteRune(r)
		}
	}
	flush()

	// No separators: * must be able to span any character of a name.
	g, err := glob.Compile(b.String())
	if err != nil {
		return nil, errors.NewPatternError("invalid pattern", pattern, types.Mask.String(), err)
	}
	return &maskMatcher{g: g, fold: !caseSensitive}, nil
}

func (m *maskMatcher) Match(name string) bool {
	if m.fold {
		name = strings.ToLower(name)
	}
	return m.g.Match(name)
}

type regexMatcher struct {
	re *regexp.Regexp
}

func newRegex(pattern string, caseSensitive, anchor bool) (*regexMatcher, error) {
	expr := pattern
	if anchor {
		expr = "^(?:" + expr + ")$"
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.NewPatternError("invalid pattern", pattern, types.Regex.String(), err)
	}
	return &regexMatcher{re: re}, nil
}

func (m *regexMatcher) Match(name string) bool {
	return m.re.MatchString(name)
}
