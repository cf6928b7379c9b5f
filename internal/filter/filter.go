// Package filter resolves candidate files for processing: positional
// arguments are expanded (directories are walked recursively, hidden files
// skipped) and matched against include/exclude patterns with find -path
// semantics.
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"crlock/pkg/pathmatch"
)

// Filter selects files based on include/exclude patterns.
// Empty includes means "match all". Excludes always win.
type Filter struct {
	includes *pathmatch.Matcher
	excludes *pathmatch.Matcher

	hasIncludes bool
}

// NewFilter compiles include/exclude patterns into a reusable filter.
// hasIncludes indicates whether include filtering was requested at all,
// regardless of whether the pattern list is empty.
func NewFilter(includes, excludes []string, hasIncludes bool) (*Filter, error) {
	inc, err := pathmatch.NewMatcher(normalize(includes))
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}

	exc, err := pathmatch.NewMatcher(normalize(excludes))
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{includes: inc, excludes: exc, hasIncludes: hasIncludes}, nil
}

// Match returns true if the slash-separated path should be included.
func (f *Filter) Match(path string) bool {
	included := !f.hasIncludes || f.includes.MatchAny(path)

	return included && !f.excludes.MatchAny(path)
}

// normalize strips leading "./" from patterns so they match cleaned paths.
func normalize(patterns []string) []string {
	out := make([]string, len(patterns))

	for i, p := range patterns {
		out[i] = strings.TrimPrefix(p, "./")
	}

	return out
}

// Resolve expands positional args into the list of candidate files.
// Explicit files are taken as-is, bypassing pattern filtering; directories
// are walked recursively and filtered. Returns matched files and the total
// number of candidates scanned.
func Resolve(args []string, flt *Filter) (files []string, scanned int, err error) {
	seen := make(map[string]struct{})

	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			add(arg)

			continue
		}

		walked, total, err := walkDir(arg, flt)
		if err != nil {
			return nil, 0, err
		}

		scanned += total

		for _, path := range walked {
			add(path)
		}
	}

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("no files matched under: %v", args)
	}

	return files, scanned, nil
}

// walkDir walks root recursively, returning files that pass the filter.
// Hidden (dot-prefixed) files are skipped, which also protects leftover
// ".tmp-*" files from interrupted runs.
func walkDir(root string, flt *Filter) (files []string, total int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		total++

		// Forward slashes for pattern matching consistency.
		if !flt.Match(filepath.ToSlash(filepath.Clean(path))) {
			return nil
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, total, nil
}
