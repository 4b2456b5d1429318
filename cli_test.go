package mojibake_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrawn01/mojibake"
)

func TestCLIIntegration(t *testing.T) {
	tempDir := t.TempDir()

	testFiles := map[string]string{
		"broken.php": "<?php echo 'fÃ¼r'; ?>",
		"clean.html": "<p>Grüße</p>",
	}

	for path, content := range testFiles {
		fullPath := filepath.Join(tempDir, path)
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
	}

	tests := []struct {
		name        string
		args        []string
		expectError bool
	}{
		{
			name: "Help",
			args: []string{"mojibake", "-h"},
		},
		{
			name: "HelpLongFlag",
			args: []string{"mojibake", "--help"},
		},
		{
			name: "ScanVerboseLongFlag",
			args: []string{"mojibake", "--verbose", "scan", "--path=" + tempDir},
		},
		{
			name: "ScanCommand",
			args: []string{"mojibake", "scan", "--path=" + tempDir, "--json"},
		},
		{
			name: "FixDryRun",
			args: []string{"mojibake", "fix", "--path=" + tempDir, "--dry-run", "--json"},
		},
		{
			name: "FixDryRunGlobalFlag",
			args: []string{"mojibake", "--dry-run", "fix", "--path=" + tempDir, "--json"},
		},
		{
			name: "PatternsCommand",
			args: []string{"mojibake", "patterns", "--json"},
		},
		{
			name: "TextCommand",
			args: []string{"mojibake", "text", "GrÃ¼ÃŸen"},
		},
		{
			name:        "TextCommandMissingArg",
			args:        []string{"mojibake", "text"},
			expectError: true,
		},
		{
			name:        "InvalidCommand",
			args:        []string{"mojibake", "invalid"},
			expectError: true,
		},
		{
			name:        "FixNonexistentPath",
			args:        []string{"mojibake", "fix", "--path=/nonexistent", "--json"},
			expectError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := mojibake.RunCmdWithOptions(test.args, &mojibake.RunCmdOptions{
				Stdout: &stdout,
				Stderr: &stderr,
			})
			if test.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	// The dry runs above must not have touched anything.
	content, err := os.ReadFile(filepath.Join(tempDir, "broken.php"))
	require.NoError(t, err)
	assert.Equal(t, testFiles["broken.php"], string(content))
}

func TestCLIFixRepairsFiles(t *testing.T) {
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "signature.php")
	require.NoError(t, os.WriteFile(path, []byte("GrÃ¼ÃŸen"), 0644))

	var stdout bytes.Buffer
	err := mojibake.RunCmdWithOptions(
		[]string{"mojibake", "fix", "--path=" + tempDir, "--json"},
		&mojibake.RunCmdOptions{Stdout: &stdout},
	)
	require.NoError(t, err)

	var result mojibake.RunResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, 1, result.FilesChanged)
	assert.Equal(t, 2, result.TotalCorrections)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Grüßen", string(content))

	_, err = os.Stat(path + ".backup")
	assert.NoError(t, err)
}

func TestCLITextCommand(t *testing.T) {
	var stdout bytes.Buffer
	err := mojibake.RunCmdWithOptions(
		[]string{"mojibake", "text", "VOLLSTÃ„NDIG"},
		&mojibake.RunCmdOptions{Stdout: &stdout},
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout.String(), "VOLLSTÄNDIG\n"))
}

func TestMCPServerCapabilities(t *testing.T) {
	t.Run("MCPServerToolDiscovery", func(t *testing.T) {
		ctx := context.Background()

		clientTransport, serverTransport := mcp.NewInMemoryTransports()

		serverDone := make(chan error, 1)
		go func() {
			options := &mojibake.RunCmdOptions{
				MCPTransport: serverTransport,
			}
			serverDone <- mojibake.RunCmdWithOptions([]string{"mojibake", "-mcp"}, options)
		}()

		client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v1.0.0"}, nil)
		session, err := client.Connect(ctx, clientTransport, nil)
		require.NoError(t, err)
		defer func() {
			_ = session.Close()
		}()

		err = session.Ping(ctx, nil)
		require.NoError(t, err)

		tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
		require.NoError(t, err)

		expectedTools := map[string]string{
			"repair_directory": "Repair encoding corruption in all web files under a directory",
			"repair_file":      "Repair encoding corruption in a single file",
			"repair_text":      "Repair encoding corruption in a raw text string without touching the filesystem",
			"list_patterns":    "List the active corruption patterns in application order",
		}

		foundTools := make(map[string]bool)
		for _, tool := range tools.Tools {
			if expectedDesc, expected := expectedTools[tool.Name]; expected {
				foundTools[tool.Name] = true
				assert.Equal(t, expectedDesc, tool.Description)
			} else {
				assert.Failf(t, "Unexpected tool found", "tool: %s", tool.Name)
			}
		}

		for toolName := range expectedTools {
			assert.True(t, foundTools[toolName])
		}

		assert.Len(t, tools.Tools, 4)
	})
}
