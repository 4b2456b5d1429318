package mojibake_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrawn01/mojibake"
)

func TestValidatePath(t *testing.T) {
	tempDir := t.TempDir()
	validator := mojibake.NewDefaultValidator(mojibake.DefaultConfig())

	t.Run("ValidDirectory", func(t *testing.T) {
		assert.NoError(t, validator.ValidatePath(tempDir))
	})

	t.Run("EmptyPath", func(t *testing.T) {
		assert.Error(t, validator.ValidatePath(""))
	})

	t.Run("NonexistentPath", func(t *testing.T) {
		assert.Error(t, validator.ValidatePath(filepath.Join(tempDir, "missing")))
	})

	t.Run("FileNotDirectory", func(t *testing.T) {
		filePath := filepath.Join(tempDir, "file.php")
		require.NoError(t, os.WriteFile(filePath, []byte("x"), 0644))
		assert.Error(t, validator.ValidatePath(filePath))
	})
}

func TestValidateConfig(t *testing.T) {
	validator := mojibake.NewDefaultValidator(mojibake.DefaultConfig())

	t.Run("DefaultConfigValid", func(t *testing.T) {
		assert.NoError(t, validator.ValidateConfig(mojibake.DefaultConfig()))
	})

	t.Run("NilConfig", func(t *testing.T) {
		assert.Error(t, validator.ValidateConfig(nil))
	})

	t.Run("NoExtensions", func(t *testing.T) {
		config := mojibake.DefaultConfig()
		config.Extensions = nil
		assert.Error(t, validator.ValidateConfig(config))
	})

	t.Run("BlankExtension", func(t *testing.T) {
		config := mojibake.DefaultConfig()
		config.Extensions = append(config.Extensions, ".")
		assert.Error(t, validator.ValidateConfig(config))
	})

	t.Run("EmptyBackupSuffix", func(t *testing.T) {
		config := mojibake.DefaultConfig()
		config.BackupSuffix = ""
		assert.Error(t, validator.ValidateConfig(config))
	})

	t.Run("ExtraPatternMissingFields", func(t *testing.T) {
		config := mojibake.DefaultConfig()
		config.ExtraPatterns = []mojibake.Pattern{{Corrupted: "", Correct: "x"}}
		assert.Error(t, validator.ValidateConfig(config))

		config.ExtraPatterns = []mojibake.Pattern{{Corrupted: "x", Correct: ""}}
		assert.Error(t, validator.ValidateConfig(config))
	})

	t.Run("ExtraPatternDuplicatesBuiltin", func(t *testing.T) {
		config := mojibake.DefaultConfig()
		config.ExtraPatterns = []mojibake.Pattern{{Corrupted: "Ã¼", Correct: "u"}}
		assert.Error(t, validator.ValidateConfig(config))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("EmptyPathUsesDefaults", func(t *testing.T) {
		config, err := mojibake.LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, mojibake.DefaultConfig(), config)
	})

	t.Run("OverridesFromYAML", func(t *testing.T) {
		tempDir := t.TempDir()
		configPath := filepath.Join(tempDir, "config.yaml")
		configYAML := `
extensions: [".php", ".tpl"]
backup_suffix: ".orig"
extra_patterns:
  - corrupted: "abc"
    correct: "x"
`
		require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0644))

		config, err := mojibake.LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, []string{".php", ".tpl"}, config.Extensions)
		assert.Equal(t, ".orig", config.BackupSuffix)
		require.Len(t, config.ExtraPatterns, 1)
		assert.Equal(t, "abc", config.ExtraPatterns[0].Corrupted)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := mojibake.LoadConfig("/does/not/exist.yaml")
		assert.Error(t, err)
	})
}
