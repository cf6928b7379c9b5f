// Package pathmatch implements find -path glob matching.
//
// Semantics follow fnmatch(3) without FNM_PATHNAME: *, ? and [...] all match
// across directory separators, and \ escapes the next character. This differs
// from Go's filepath.Match, where * stops at a slash.
package pathmatch

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Matcher holds a set of pre-compiled patterns.
type Matcher struct {
	res []*regexp.Regexp
}

// NewMatcher compiles the given patterns into a reusable matcher.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{res: make([]*regexp.Regexp, 0, len(patterns))}

	for _, pattern := range patterns {
		re, err := compiled(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}

		m.res = append(m.res, re)
	}

	return m, nil
}

// MatchAny reports whether path matches at least one of the patterns.
func (m *Matcher) MatchAny(path string) bool {
	for _, re := range m.res {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// Match reports whether path matches the single pattern.
func Match(pattern, path string) (bool, error) {
	re, err := compiled(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(path), nil
}

//nolint:gochecknoglobals // compiled patterns are shared across all matchers
var (
	cacheMu sync.Mutex
	cache   = map[string]*regexp.Regexp{}
)

// compiled returns the compiled form of pattern, translating and caching it
// on first use.
func compiled(pattern string) (*regexp.Regexp, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if re, ok := cache[pattern]; ok {
		return re, nil
	}

	expr, err := translate(pattern)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	cache[pattern] = re

	return re, nil
}

// translate converts a find -path glob into an anchored regular expression.
func translate(pattern string) (string, error) {
	var out strings.Builder

	out.WriteByte('^')

	for i := 0; i < len(pattern); {
		switch c := pattern[i]; c {
		case '*':
			out.WriteString(".*")
			i++
		case '?':
			out.WriteByte('.')
			i++
		case '\\':
			if i == len(pattern)-1 {
				return "", fmt.Errorf("trailing backslash in pattern %q", pattern)
			}

			out.WriteString(regexp.QuoteMeta(pattern[i+1 : i+2]))
			i += 2
		case '[':
			next, err := writeClass(&out, pattern, i)
			if err != nil {
				return "", err
			}

			i = next
		default:
			out.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}

	out.WriteByte('$')

	return out.String(), nil
}

// writeClass emits the character class starting at pattern[start] and returns
// the index just past its closing bracket. A leading ! negates the class; a ]
// directly after the opening bracket (or negation) is a literal.
func writeClass(out *strings.Builder, pattern string, start int) (int, error) {
	i := start + 1

	negated := i < len(pattern) && pattern[i] == '!'
	if negated {
		i++
	}

	// Literal ] as the first class member.
	body := i
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}

	for i < len(pattern) && pattern[i] != ']' {
		i++
	}

	if i == len(pattern) {
		return 0, fmt.Errorf("unclosed character class in pattern %q", pattern)
	}

	out.WriteByte('[')

	if negated {
		out.WriteByte('^')
	}

	out.WriteString(pattern[body:i])
	out.WriteByte(']')

	return i + 1, nil
}
