package mojibake

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Extensions      []string  `yaml:"extensions"`
	ExcludeDirs     []string  `yaml:"exclude_dirs"`
	ExcludePatterns []string  `yaml:"exclude_patterns"`
	BackupSuffix    string    `yaml:"backup_suffix"`
	ExtraPatterns   []Pattern `yaml:"extra_patterns"`
}

func DefaultConfig() *Config {
	return &Config{
		Extensions:   []string{".php", ".html", ".htm", ".css", ".js", ".xml", ".json"},
		ExcludeDirs:  []string{".git", "node_modules", "vendor"},
		BackupSuffix: ".backup",
	}
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// PatternTable merges the default pattern set with any extra patterns from
// the config and returns the validated, longest-first table.
func (c *Config) PatternTable() (PatternTable, error) {
	patterns := DefaultPatterns()
	patterns = append(patterns, c.ExtraPatterns...)
	return NewPatternTable(patterns)
}
