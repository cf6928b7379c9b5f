// Package config holds the runtime configuration assembled from flags and
// environment variables.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Suffixes controls output file naming.
type Suffixes struct {
	// Encrypt is appended to encrypted files and stripped on decryption.
	Encrypt string `mapstructure:"encrypt-ext" validate:"required"`
	// Decrypt is appended after stripping the encrypted suffix.
	Decrypt string `mapstructure:"decrypt-ext"`
}

// Config is the runtime configuration for a single invocation.
type Config struct {
	// Key is a hex-encoded 32-byte key, used as-is.
	Key string `mapstructure:"key" validate:"omitempty,len=64,hexadecimal,excluded_with=KeyFile"`

	// KeyFile is a path whose raw contents are hashed into the key.
	KeyFile string `mapstructure:"key-file"`

	// Suffixes for output naming.
	Suffixes Suffixes `mapstructure:",squash"`

	// Quiet suppresses non-error output.
	Quiet bool `mapstructure:"quiet"`

	// Keep preserves the superseded original after a successful commit.
	Keep bool `mapstructure:"keep"`

	// Dry previews the run without touching any file.
	Dry bool `mapstructure:"dry"`

	// Stats prints detailed run statistics.
	Stats bool `mapstructure:"stats"`

	// PreserveTimestamps restores source timestamps on output files.
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	// Decrypt selects decryption mode.
	Decrypt bool `mapstructure:"-"`

	// Include/Exclude hold glob patterns with find -path semantics.
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`

	// IncludeFrom/ExcludeFrom point at JSONC files with additional patterns.
	IncludeFrom string `mapstructure:"include-from"`
	ExcludeFrom string `mapstructure:"exclude-from"`

	// Files are the resolved positional arguments.
	Files []string `mapstructure:"-" validate:"min=1"`
}

// Validate checks the configuration against the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}
