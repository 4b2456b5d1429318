package mojibake

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RunCmdOptions contains options for customizing RunCmd behavior
type RunCmdOptions struct {
	// MCPTransport allows providing a custom transport for MCP server (used for testing)
	MCPTransport *mcp.InMemoryTransport
	// Stdout writer for normal output (defaults to os.Stdout)
	Stdout io.Writer
	// Stderr writer for error output (defaults to os.Stderr)
	Stderr io.Writer
}

// commandContext holds runtime context for command execution
type commandContext struct {
	stdout io.Writer
	stderr io.Writer
	config *Config
}

func RunCmd(args []string) error {
	return RunCmdWithOptions(args, nil)
}

func RunCmdWithOptions(args []string, options *RunCmdOptions) error {
	stdout := io.Writer(os.Stdout)
	stderr := io.Writer(os.Stderr)
	if options != nil {
		if options.Stdout != nil {
			stdout = options.Stdout
		}
		if options.Stderr != nil {
			stderr = options.Stderr
		}
	}

	if len(args) < 1 {
		return ShowHelp(stdout)
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		help        = fs.Bool("h", false, "Show help")
		helpLong    = fs.Bool("help", false, "Show help")
		mcpOption   = fs.Bool("mcp", false, "Run as MCP server")
		verbose     = fs.Bool("v", false, "Verbose output")
		verboseLong = fs.Bool("verbose", false, "Verbose output")
		dryRun      = fs.Bool("dry-run", false, "Show what would be changed without making changes")
		configFile  = fs.String("config", "", "Path to configuration file")
	)

	if len(args) > 1 {
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
	}

	if *help || *helpLong {
		return ShowHelp(stdout)
	}

	if *mcpOption {
		var transport *mcp.InMemoryTransport
		if options != nil && options.MCPTransport != nil {
			transport = options.MCPTransport
		}
		return RunMCPServer(*configFile, transport)
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return ShowHelp(stdout)
	}

	config, err := LoadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := NewDefaultValidator(config).ValidateConfig(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cmdCtx := &commandContext{
		stdout: stdout,
		stderr: stderr,
		config: config,
	}

	ctx := context.Background()
	verboseOutput := *verbose || *verboseLong

	switch remaining[0] {
	case "fix":
		return fixCommand(ctx, cmdCtx, remaining[1:], *dryRun, verboseOutput)
	case "scan":
		return scanCommand(ctx, cmdCtx, remaining[1:], verboseOutput)
	case "patterns":
		return patternsCommand(cmdCtx, remaining[1:])
	case "text":
		return textCommand(cmdCtx, remaining[1:])
	default:
		return fmt.Errorf("unknown command: %s", remaining[0])
	}
}

func ShowHelp(w io.Writer) error {
	help := `mojibake - Repair German umlaut encoding corruption in web files

Usage:
  mojibake [OPTIONS] COMMAND [ARGS...]
  mojibake -mcp                 Run as MCP server

Options:
  -h, --help           Show this help message
  -v, --verbose        Enable verbose output
  --dry-run            Preview changes without modifying files
  --config FILE        Path to configuration file
  -mcp                 Run as MCP server

Commands:
  fix          Repair corrupted files under a directory
  scan         Report corrupted files without modifying anything
  patterns     Print the active corruption pattern table
  text         Repair a literal text argument and print the result

Examples:
  mojibake fix --path=/var/www --dry-run
  mojibake fix --path=/var/www
  mojibake scan --path=/var/www --json
  mojibake patterns
  mojibake text "GrÃ¼ÃŸen"
  mojibake -mcp --config=/path/to/config.yaml

Repaired files are rewritten as UTF-8; the original bytes are kept in a
sibling .backup file.

For more information, visit: https://github.com/thrawn01/mojibake
`
	_, _ = fmt.Fprint(w, help)
	return nil
}

func fixCommand(ctx context.Context, cmdCtx *commandContext, args []string, globalDryRun, verbose bool) error {
	fs := flag.NewFlagSet("fix", flag.ContinueOnError)
	fs.SetOutput(cmdCtx.stderr)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	path := fs.String("path", cwd, "Root directory to repair")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	localDryRun := fs.Bool("dry-run", false, "Show what would be changed without making changes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	dryRun := globalDryRun || *localDryRun

	var reporter *Reporter
	if !*jsonOutput {
		reporter = NewReporter(cmdCtx.stdout, verbose)
	}

	repairer, err := NewDefaultRepairer(cmdCtx.config, reporter)
	if err != nil {
		return fmt.Errorf("failed to create repairer: %w", err)
	}

	result, err := repairer.RepairDirectory(ctx, *path, dryRun)
	if err != nil {
		return err
	}

	if *jsonOutput {
		if err := json.NewEncoder(cmdCtx.stdout).Encode(result); err != nil {
			return err
		}
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("completed with %d errors", len(result.Errors))
	}
	return nil
}

func scanCommand(ctx context.Context, cmdCtx *commandContext, args []string, verbose bool) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(cmdCtx.stderr)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	path := fs.String("path", cwd, "Root directory to scan")
	jsonOutput := fs.Bool("json", false, "Output as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var reporter *Reporter
	if !*jsonOutput {
		reporter = NewReporter(cmdCtx.stdout, verbose)
	}

	repairer, err := NewDefaultRepairer(cmdCtx.config, reporter)
	if err != nil {
		return fmt.Errorf("failed to create repairer: %w", err)
	}

	result, err := repairer.RepairDirectory(ctx, *path, true)
	if err != nil {
		return err
	}

	if *jsonOutput {
		return json.NewEncoder(cmdCtx.stdout).Encode(result)
	}
	return nil
}

func patternsCommand(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("patterns", flag.ContinueOnError)
	fs.SetOutput(cmdCtx.stderr)
	jsonOutput := fs.Bool("json", false, "Output as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	table, err := cmdCtx.config.PatternTable()
	if err != nil {
		return err
	}

	if *jsonOutput {
		return json.NewEncoder(cmdCtx.stdout).Encode(table)
	}

	_, _ = fmt.Fprintf(cmdCtx.stdout, "Active patterns (%d, applied in order):\n", len(table))
	for _, p := range table {
		_, _ = fmt.Fprintf(cmdCtx.stdout, "  %-8s → %s\n", p.Corrupted, p.Correct)
	}
	return nil
}

func textCommand(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("text", flag.ContinueOnError)
	fs.SetOutput(cmdCtx.stderr)
	jsonOutput := fs.Bool("json", false, "Output as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if len(fs.Args()) == 0 {
		return fmt.Errorf("text argument is required")
	}

	table, err := cmdCtx.config.PatternTable()
	if err != nil {
		return err
	}

	result := table.Repair(strings.Join(fs.Args(), " "))

	if *jsonOutput {
		return json.NewEncoder(cmdCtx.stdout).Encode(result)
	}

	_, _ = fmt.Fprintln(cmdCtx.stdout, result.Text)
	for _, c := range result.Corrections {
		_, _ = fmt.Fprintf(cmdCtx.stdout, "  %s → %s (%d times)\n", c.Pattern.Corrupted, c.Pattern.Correct, c.Count)
	}
	return nil
}
