package mojibake

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const DefaultFilePermissions = 0644

type Repairer interface {
	RepairDirectory(ctx context.Context, rootPath string, dryRun bool) (*RunResult, error)
	RepairFile(ctx context.Context, filePath string, dryRun bool) (*FileRepair, error)
	Preview(text string) RepairResult
}

type DefaultRepairer struct {
	scanner   Scanner
	validator Validator
	table     PatternTable
	config    *Config
	reporter  *Reporter
}

// NewDefaultRepairer wires the scanner and pattern table together. The
// reporter may be nil for silent operation (JSON output, MCP tools).
func NewDefaultRepairer(config *Config, reporter *Reporter) (*DefaultRepairer, error) {
	scanner, err := NewFilesystemScanner(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	table, err := config.PatternTable()
	if err != nil {
		return nil, fmt.Errorf("invalid pattern configuration: %w", err)
	}

	return &DefaultRepairer{
		scanner:   scanner,
		validator: NewDefaultValidator(config),
		table:     table,
		config:    config,
		reporter:  reporter,
	}, nil
}

// Patterns returns the active table in application order.
func (r *DefaultRepairer) Patterns() PatternTable {
	return r.table
}

// Preview repairs a raw text buffer without touching the filesystem.
func (r *DefaultRepairer) Preview(text string) RepairResult {
	return r.table.Repair(text)
}

// RepairDirectory walks rootPath and repairs every candidate file. Only an
// invalid root is fatal; per-file failures are recorded in the result and
// the run continues.
func (r *DefaultRepairer) RepairDirectory(ctx context.Context, rootPath string, dryRun bool) (*RunResult, error) {
	if err := r.validator.ValidatePath(rootPath); err != nil {
		return nil, fmt.Errorf("invalid root path: %w", err)
	}

	result := &RunResult{DryRun: dryRun}
	r.reporter.Starting(rootPath, dryRun)

	for file, err := range r.scanner.ScanDirectory(ctx, rootPath, nil) {
		if err != nil {
			if errors.Is(err, ErrUndecodable) {
				result.Skipped = append(result.Skipped, file.Path)
				r.reporter.Warning(fmt.Sprintf("%s: skipped, unknown encoding", file.Path))
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Path, err))
			r.reporter.Error(fmt.Sprintf("%s: %v", file.Path, err))
			continue
		}

		repair := r.repairCandidate(file, dryRun, result)
		result.FilesChecked++
		result.Files = append(result.Files, repair)

		if repair.Changed {
			result.FilesChanged++
			for _, c := range repair.Corrections {
				result.TotalCorrections += c.Count
			}
		}
	}

	r.reporter.Summary(result)
	return result, nil
}

// RepairFile repairs a single file outside of a directory walk.
func (r *DefaultRepairer) RepairFile(ctx context.Context, filePath string, dryRun bool) (*FileRepair, error) {
	file, err := r.scanner.ScanFile(ctx, filePath)
	if err != nil {
		return nil, err
	}

	result := &RunResult{DryRun: dryRun}
	repair := r.repairCandidate(file, dryRun, result)
	if len(result.Errors) > 0 {
		return &repair, fmt.Errorf("%s", result.Errors[0])
	}
	return &repair, nil
}

// repairCandidate applies the table to one decoded file and, when anything
// changed, performs the backup-then-write sequence. Write failures are
// appended to result.Errors; the file on disk is never left half-written.
func (r *DefaultRepairer) repairCandidate(file CandidateFile, dryRun bool, result *RunResult) FileRepair {
	r.reporter.CheckingFile(file.Path)

	repaired := r.table.Repair(file.Text)
	repair := FileRepair{
		Path:        file.Path,
		Encoding:    file.Encoding,
		Corrections: repaired.Corrections,
	}

	if !repaired.Changed() {
		return repair
	}

	for _, c := range repaired.Corrections {
		r.reporter.Correction(c)
	}

	if dryRun {
		repair.Changed = true
		r.reporter.FileRepaired(repair, true)
		return repair
	}

	backupPath, err := r.writeBackup(file)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: backup failed: %v", file.Path, err))
		r.reporter.Error(fmt.Sprintf("%s: backup failed: %v", file.Path, err))
		return repair
	}
	repair.BackupPath = backupPath

	if err := r.writeRepaired(file.Path, repaired.Text); err != nil {
		// Keep the backup; the original is still intact on disk.
		result.Errors = append(result.Errors, fmt.Sprintf("%s: write failed: %v", file.Path, err))
		r.reporter.Error(fmt.Sprintf("%s: write failed: %v", file.Path, err))
		return repair
	}

	repair.Changed = true
	r.reporter.FileRepaired(repair, false)
	return repair
}

// writeBackup copies the original bytes to a sibling path with the backup
// suffix, preserving the original file's permission bits.
func (r *DefaultRepairer) writeBackup(file CandidateFile) (string, error) {
	perm := r.filePermissions(file.Path)
	backupPath := file.Path + r.config.BackupSuffix
	if err := os.WriteFile(backupPath, file.Raw, perm); err != nil {
		return "", err
	}
	return backupPath, nil
}

// writeRepaired replaces the file's content with UTF-8 text (no BOM). The
// new content lands in a temporary file first and is renamed over the
// original so a failed write cannot truncate it.
func (r *DefaultRepairer) writeRepaired(path, text string) error {
	perm := r.filePermissions(path)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, []byte(text), perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func (r *DefaultRepairer) filePermissions(path string) fs.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return DefaultFilePermissions
	}
	return info.Mode().Perm()
}
