package mojibake

import (
	"fmt"
	"os"
	"strings"
)

type Validator interface {
	ValidatePath(path string) error
	ValidateConfig(config *Config) error
}

type DefaultValidator struct {
	config *Config
}

func NewDefaultValidator(config *Config) *DefaultValidator {
	return &DefaultValidator{
		config: config,
	}
}

// ValidatePath checks that a root path exists and is a directory. This is
// the only fatal precondition of a run; everything past it is per-file.
func (v *DefaultValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory %q does not exist", path)
		}
		return fmt.Errorf("cannot access %q: %w", path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", path)
	}

	return nil
}

func (v *DefaultValidator) ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if len(config.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}

	for _, ext := range config.Extensions {
		if strings.TrimPrefix(ext, ".") == "" {
			return fmt.Errorf("invalid extension %q", ext)
		}
	}

	if config.BackupSuffix == "" {
		return fmt.Errorf("backup_suffix cannot be empty")
	}

	for _, p := range config.ExtraPatterns {
		if p.Corrupted == "" {
			return fmt.Errorf("extra pattern for %q has an empty corrupted sequence", p.Correct)
		}
		if p.Correct == "" {
			return fmt.Errorf("extra pattern %q has an empty correct sequence", p.Corrupted)
		}
	}

	if _, err := config.PatternTable(); err != nil {
		return err
	}

	return nil
}
