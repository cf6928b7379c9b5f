// Package logic implements the core business logic for the encryption/decryption run.
package logic

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"crlock/internal/config"
	"crlock/internal/encryption"
	"crlock/internal/filter"
)

// Run is the main logic of the application: resolve candidate files, then
// process them one at a time and report the outcome.
func Run(cfg *config.Config) error {
	start := time.Now()

	scanned, err := resolveFiles(cfg)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	excluded := scanned - len(cfg.Files)

	if cfg.Dry {
		return dryRun(cfg, scanned, excluded, start)
	}

	proc, err := encryption.NewProcessor(cfg)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	processed, errored, skipped, totalBytes := proc.ProcessFiles()

	if !cfg.Quiet {
		printSummary(processed, totalBytes)
	}

	if cfg.Stats {
		printStats(scanned, excluded+skipped, processed, errored, time.Since(start))
	}

	return nil
}

// resolveFiles normalizes positional args, expands directories, and applies
// include/exclude filtering. Returns the total number of files scanned
// before filtering.
func resolveFiles(cfg *config.Config) (int, error) {
	includes, excludes, err := loadPatterns(cfg)
	if err != nil {
		return 0, err
	}

	hasIncludes := len(cfg.Include) > 0 || cfg.IncludeFrom != ""

	// Decryption only concerns container files; encryption must never pick
	// one up again.
	if cfg.Decrypt {
		if !hasIncludes {
			includes = append(includes, "*"+cfg.Suffixes.Encrypt)
			hasIncludes = true
		}
	} else {
		excludes = append(excludes, "*"+cfg.Suffixes.Encrypt)
	}

	flt, err := filter.NewFilter(includes, excludes, hasIncludes)
	if err != nil {
		return 0, err
	}

	files, scanned, err := filter.Resolve(cfg.Files, flt)
	if err != nil {
		return scanned, fmt.Errorf("filtering files: %w", err)
	}

	cfg.Files = files

	return scanned, nil
}

// loadPatterns merges CLI and file-based include/exclude patterns.
func loadPatterns(cfg *config.Config) (includes, excludes []string, err error) {
	includes = append(includes, cfg.Include...)
	excludes = append(excludes, cfg.Exclude...)

	if cfg.IncludeFrom != "" {
		patterns, err := filter.LoadPatterns(cfg.IncludeFrom)
		if err != nil {
			return nil, nil, fmt.Errorf("loading include patterns: %w", err)
		}

		includes = append(includes, patterns...)
	}

	if cfg.ExcludeFrom != "" {
		patterns, err := filter.LoadPatterns(cfg.ExcludeFrom)
		if err != nil {
			return nil, nil, fmt.Errorf("loading exclude patterns: %w", err)
		}

		excludes = append(excludes, patterns...)
	}

	return includes, excludes, nil
}

// dryRun previews what would be processed without touching any file.
func dryRun(cfg *config.Config, scanned, excluded int, start time.Time) error {
	var totalBytes int64

	for _, file := range cfg.Files {
		if !cfg.Quiet {
			fmt.Printf("Processed %q -> %q\n", file, encryption.OutputPath(file, cfg)) //nolint:forbidigo
		}

		if info, err := os.Stat(file); err == nil {
			totalBytes += info.Size()
		}
	}

	if !cfg.Quiet {
		printSummary(len(cfg.Files), totalBytes)
	}

	if cfg.Stats {
		printStats(scanned, excluded, len(cfg.Files), 0, time.Since(start))
	}

	return nil
}

// printSummary reports the committed files and processed volume.
func printSummary(processed int, totalBytes int64) {
	//nolint:forbidigo // summary is the tool's primary output
	fmt.Printf("\nFiles: %d\nVolume: %s\n", processed, humanize.IBytes(uint64(max(0, totalBytes))))
}

func printStats(scanned, excluded, processed, errored int, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(os.Stderr, "  Excluded:  %d\n", excluded)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errored)
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
