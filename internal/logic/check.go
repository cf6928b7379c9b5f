package logic

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"crlock/internal/config"
	"crlock/pkg/pathmatch"
)

// RunCheck validates that every include/exclude pattern matches at least one file.
func RunCheck(cfg *config.Config) error {
	includes, excludes, err := loadPatterns(cfg)
	if err != nil {
		return err
	}

	if len(includes) == 0 && len(excludes) == 0 {
		return errors.New("no include or exclude patterns to check")
	}

	candidates, err := collectFiles(cfg.Files)
	if err != nil {
		return err
	}

	var failures int

	failures += checkPatterns("include", includes, candidates, cfg.Quiet)
	failures += checkPatterns("exclude", excludes, candidates, cfg.Quiet)

	if failures > 0 {
		return fmt.Errorf("%d pattern(s) matched no files", failures)
	}

	return nil
}

// checkPatterns reports patterns in the given group that match no candidate.
func checkPatterns(group string, patterns, candidates []string, quiet bool) (failures int) {
	for _, pattern := range patterns {
		cleaned := strings.TrimPrefix(pattern, "./")

		matched := false

		for _, candidate := range candidates {
			ok, err := pathmatch.Match(cleaned, candidate)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid %s pattern %q: %v\n", group, pattern, err)

				failures++

				matched = true

				break
			}

			if ok {
				matched = true

				break
			}
		}

		if !matched {
			failures++

			fmt.Fprintf(os.Stderr, "%s pattern %q matched no files\n", group, pattern)
		} else if !quiet {
			fmt.Printf("%s pattern %q ok\n", group, pattern) //nolint:forbidigo
		}
	}

	return failures
}

// collectFiles walks all positional args and returns every file path found.
func collectFiles(args []string) ([]string, error) {
	var paths []string

	seen := make(map[string]struct{})

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			clean := filepath.ToSlash(arg)
			if _, ok := seen[clean]; !ok {
				seen[clean] = struct{}{}
				paths = append(paths, clean)
			}

			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			clean := filepath.ToSlash(filepath.Clean(path))
			if _, ok := seen[clean]; !ok {
				seen[clean] = struct{}{}
				paths = append(paths, clean)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", arg, err)
		}
	}

	return paths, nil
}
