package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"crlock/internal/config"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "crlock [flags] command [flags] [paths...]",
		Short: "File encryption utility",
		Long: `A file encryption utility using AES-256-CBC with HMAC-SHA-256 integrity
protection. Encrypts and decrypts files in place across directory trees,
committing each file atomically.`,
		Version:      version,
		SilenceUsage: true,
	}

	viper.SetEnvPrefix("CRLOCK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.PersistentFlags().StringP("key", "k", "", "Hex-encoded 32-byte encryption key (64 hex characters)")
	root.PersistentFlags().StringP("key-file", "f", "", "Path to the key file; its raw contents are hashed into the key")
	root.PersistentFlags().String("encrypt-ext", ".cr", "Suffix appended to encrypted files")
	root.PersistentFlags().String("decrypt-ext", "", "Suffix appended to decrypted files, after stripping the encrypted suffix")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().Bool("keep", false, "Keep the original file after successful encryption/decryption")
	root.PersistentFlags().Bool("dry", false, "Preview the run without touching any file")
	root.PersistentFlags().Bool("stats", false, "Print run statistics")
	root.PersistentFlags().Bool("preserve-timestamps", false, "Restore source timestamps on output files")
	root.PersistentFlags().StringSliceP("include", "i", nil, "Include patterns (find -path semantics)")
	root.PersistentFlags().StringSliceP("exclude", "x", nil, "Exclude patterns (find -path semantics)")
	root.PersistentFlags().String("include-from", "", "JSONC file with include patterns")
	root.PersistentFlags().String("exclude-from", "", "JSONC file with exclude patterns")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("binding flags: %w", err)
		}

		if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
			return fmt.Errorf("binding inherited flags: %w", err)
		}

		return nil
	}

	root.AddCommand(NewEncryptCommand(), NewDecryptCommand(), NewCheckCommand())

	return root
}

// loadConfig unmarshals the bound flags and environment into a Config,
// resolves positional args, and validates the result.
func loadConfig(args []string, decrypt bool) (*config.Config, error) {
	var cfg config.Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(args) == 0 {
		cfg.Files = []string{"."}
	} else {
		cfg.Files = args
	}

	cfg.Decrypt = decrypt

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
