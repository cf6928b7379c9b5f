// Package fileutil provides the crash-safe file write used to commit
// encryption and decryption results atomically.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Transaction holds the state of one atomic file replacement: the source
// being processed and a temporary sibling of the final destination. The
// rename in Commit is the single operation that makes output visible; until
// then the destination name never exists in a partial state.
type Transaction struct {
	SrcInfo os.FileInfo
	IsExec  bool
	TmpFile *os.File
	TmpName string

	outPath string
}

// NewTransaction stats the source file and creates a temporary file next to
// the final destination. Caller must defer CleanupOnError.
func NewTransaction(filename, outPath string) (*Transaction, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", filename, err)
	}

	const executableBits = 0o111

	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &Transaction{
		SrcInfo: info,
		IsExec:  info.Mode()&executableBits != 0,
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
		outPath: outPath,
	}, nil
}

// CleanupOnError closes the temp file and removes it if the operation failed,
// leaving the original file exactly as it was.
func (t *Transaction) CleanupOnError(errp *error) {
	t.TmpFile.Close() //nolint:gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(t.TmpName) //nolint:gosec // best-effort cleanup
	}
}

// Commit closes the temp file and atomically renames it to the final
// destination.
func (t *Transaction) Commit() error {
	if err := t.TmpFile.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(t.TmpName, t.outPath); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	return nil
}

// FinalizeOutput optionally restores the source timestamps on the committed
// output file.
func FinalizeOutput(outPath string, preserveTimestamps bool, modTime time.Time) error {
	if preserveTimestamps {
		if err := os.Chtimes(outPath, modTime, modTime); err != nil {
			return fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	return nil
}
