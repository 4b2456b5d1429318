package mojibake

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Styles mirror the original tool's console palette: green for success,
// yellow for warnings/backups, red for errors, cyan for values, magenta
// for dry-run notices, gray for file listings.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dryRunStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// NoColor reports whether colored output is disabled.
func NoColor() bool {
	return os.Getenv("NO_COLOR") != ""
}

func render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// Reporter prints per-file progress and the final summary. A nil Reporter
// is valid and silent, which is what the JSON and MCP paths use.
type Reporter struct {
	out     io.Writer
	verbose bool
}

func NewReporter(out io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, verbose: verbose}
}

func (r *Reporter) Starting(root string, dryRun bool) {
	if r == nil {
		return
	}
	fmt.Fprintln(r.out, render(successStyle, "Encoding repair started..."))
	fmt.Fprintf(r.out, "Directory: %s\n", render(valueStyle, root))
	fmt.Fprintf(r.out, "Dry-run mode: %s\n\n", render(warningStyle, fmt.Sprintf("%t", dryRun)))
}

func (r *Reporter) CheckingFile(path string) {
	if r == nil || !r.verbose {
		return
	}
	fmt.Fprintf(r.out, "Checking: %s\n", render(mutedStyle, path))
}

func (r *Reporter) Correction(c Correction) {
	if r == nil {
		return
	}
	fmt.Fprintf(r.out, "  → %s → %s (%d times)\n", c.Pattern.Corrupted, c.Pattern.Correct, c.Count)
}

func (r *Reporter) FileRepaired(file FileRepair, dryRun bool) {
	if r == nil {
		return
	}
	total := 0
	for _, c := range file.Corrections {
		total += c.Count
	}
	if dryRun {
		fmt.Fprintf(r.out, "%s: %s (%d corrections)\n",
			file.Path, render(dryRunStyle, "! would be repaired"), total)
		return
	}
	fmt.Fprintf(r.out, "%s: %s (%d corrections)\n",
		file.Path, render(successStyle, "✓ repaired"), total)
}

func (r *Reporter) Warning(msg string) {
	if r == nil {
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", render(warningStyle, "!"), msg)
}

func (r *Reporter) Error(msg string) {
	if r == nil {
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", render(errorStyle, "✗"), msg)
}

func (r *Reporter) Summary(result *RunResult) {
	if r == nil {
		return
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, render(successStyle, "=== SUMMARY ==="))
	fmt.Fprintf(r.out, "Files checked: %s\n", render(valueStyle, fmt.Sprintf("%d", result.FilesChecked)))
	fmt.Fprintf(r.out, "Files changed: %s\n", render(warningStyle, fmt.Sprintf("%d", result.FilesChanged)))
	fmt.Fprintf(r.out, "Total corrections: %s\n", render(successStyle, fmt.Sprintf("%d", result.TotalCorrections)))

	if result.DryRun {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, render(dryRunStyle, "DRY-RUN: no files were modified."))
	} else if result.FilesChanged > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, render(warningStyle, "Originals were saved as .backup files."))
	}
}
