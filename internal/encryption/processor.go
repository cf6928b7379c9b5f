package encryption

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"crlock/internal/config"
	"crlock/internal/fileutil"
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// key is the derived 32-byte key material
	key KeyMaterial

	// self is the absolute path of the running executable, never processed
	self string
}

// NewProcessor creates a new Processor with the given configuration, deriving
// the key material from the configured source. A key that cannot be obtained
// is a fatal configuration error, reported before any file is touched.
func NewProcessor(cfg *config.Config) (*Processor, error) {
	var (
		km  KeyMaterial
		err error
	)

	switch {
	case cfg.Key != "":
		km, err = KeyFromHex(cfg.Key)
	case cfg.KeyFile != "":
		km, err = KeyFromFile(cfg.KeyFile)
	default:
		km, err = KeyFromPrompt()
	}

	if err != nil {
		return nil, fmt.Errorf("obtaining key: %w", err)
	}

	self, err := os.Executable()
	if err == nil {
		self, _ = filepath.Abs(self)
	}

	return &Processor{cfg: cfg, key: km, self: self}, nil
}

// ProcessFiles processes all configured files strictly sequentially: one
// file is fully encrypted or decrypted and committed before the next begins.
// Per-file errors are reported and do not stop the run.
func (p *Processor) ProcessFiles() (processed, errored, skipped int, totalBytes int64) {
	for _, file := range p.cfg.Files {
		if !p.eligible(file) {
			skipped++

			continue
		}

		result := p.processOne(file)

		if result.Error != nil {
			errored++

			fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error)

			continue
		}

		processed++

		totalBytes += result.Bytes

		if !p.cfg.Quiet {
			fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
		}
	}

	return processed, errored, skipped, totalBytes
}

// processOne runs one file through its transaction and removes the
// superseded original after a successful commit.
func (p *Processor) processOne(file string) Result {
	outPath := p.OutputPath(file)

	bytes, err := p.processFile(file, outPath)
	if err != nil {
		return Result{Input: file, Error: err}
	}

	if !p.cfg.Keep {
		if err := os.Remove(file); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", file, err)
		}
	}

	return Result{Input: file, Output: outPath, Bytes: bytes}
}

// processFile encrypts or decrypts a single file into a temporary sibling of
// outPath and atomically renames it on success. On any failure the temporary
// file is removed and the original is left untouched.
func (p *Processor) processFile(filename, outPath string) (bytes int64, err error) {
	tx, err := fileutil.NewTransaction(filename, outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tx.CleanupOnError(&err)

	inFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return 0, fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	if p.cfg.Decrypt {
		bytes, err = Decrypt(inFile, tx.TmpFile, p.key)
		if err != nil {
			return 0, fmt.Errorf("decrypting file: %w", err)
		}
	} else {
		bytes, err = Encrypt(inFile, tx.TmpFile, p.key)
		if err != nil {
			return 0, fmt.Errorf("encrypting file: %w", err)
		}
	}

	const ownerReadWrite = 0o600

	perm := os.FileMode(ownerReadWrite)

	if tx.IsExec {
		perm |= 0o111
	}

	if err := os.Chmod(tx.TmpName, perm); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	if err := inFile.Close(); err != nil {
		return 0, fmt.Errorf("closing input file: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	if err := fileutil.FinalizeOutput(outPath, p.cfg.PreserveTimestamps, tx.SrcInfo.ModTime()); err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	return bytes, nil
}

// eligible applies the suffix and self filters: already-encrypted files are
// never re-encrypted, files lacking the suffix are never decrypted, and the
// tool's own executable is never touched.
func (p *Processor) eligible(file string) bool {
	hasSuffix := strings.HasSuffix(file, p.cfg.Suffixes.Encrypt)

	if p.cfg.Decrypt != hasSuffix {
		return false
	}

	if p.self != "" {
		if abs, err := filepath.Abs(file); err == nil && abs == p.self {
			return false
		}
	}

	return true
}

// OutputPath generates the output file path based on the input filename
// and the configured suffixes for encryption/decryption.
func (p *Processor) OutputPath(filename string) string {
	return OutputPath(filename, p.cfg)
}

// OutputPath generates the output file path for filename under the given
// configuration.
func OutputPath(filename string, cfg *config.Config) string {
	ext := cfg.Suffixes.Encrypt

	if cfg.Decrypt {
		filename = strings.TrimSuffix(filename, cfg.Suffixes.Encrypt)
		ext = cfg.Suffixes.Decrypt
	}

	return filepath.Join(filepath.Dir(filename),
		filepath.Base(filename)+ext)
}
