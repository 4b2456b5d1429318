package mojibake

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

type Scanner interface {
	ScanDirectory(ctx context.Context, rootPath string, excludePaths []string) iter.Seq2[CandidateFile, error]
	ScanFile(ctx context.Context, filePath string) (CandidateFile, error)
}

type FilesystemScanner struct {
	config     *Config
	extensions map[string]bool
}

func NewFilesystemScanner(config *Config) (*FilesystemScanner, error) {
	if len(config.Extensions) == 0 {
		return nil, fmt.Errorf("no file extensions configured")
	}
	if config.BackupSuffix == "" {
		return nil, fmt.Errorf("backup suffix cannot be empty")
	}

	extensions := make(map[string]bool, len(config.Extensions))
	for _, ext := range config.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}

	return &FilesystemScanner{
		config:     config,
		extensions: extensions,
	}, nil
}

func (s *FilesystemScanner) ScanDirectory(ctx context.Context, rootPath string, excludePaths []string) iter.Seq2[CandidateFile, error] {
	return func(yield func(CandidateFile, error) bool) {
		allExcludes := append(s.config.ExcludeDirs, excludePaths...)

		// Once yield returns false the iterator must never be called again.
		terminated := false

		if err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if err != nil {
				if !yield(CandidateFile{Path: path}, err) {
					terminated = true
					return fmt.Errorf("scan terminated by consumer")
				}
				return nil
			}

			relPath, _ := filepath.Rel(rootPath, path)

			for _, exclude := range allExcludes {
				if strings.Contains(relPath, exclude) {
					if d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
			}

			if d.IsDir() {
				return nil
			}

			if !s.isCandidate(path) {
				return nil
			}

			for _, pattern := range s.config.ExcludePatterns {
				if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
					return nil
				}
			}

			file, err := s.ScanFile(ctx, path)
			if !yield(file, err) {
				terminated = true
				return fmt.Errorf("scan terminated by consumer")
			}
			return nil
		}); err != nil && !terminated {
			yield(CandidateFile{}, err)
		}
	}
}

// ScanFile reads and decodes a single file. A decode failure is returned
// wrapped in ErrUndecodable so callers can treat it as a skip.
func (s *FilesystemScanner) ScanFile(ctx context.Context, filePath string) (CandidateFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return CandidateFile{Path: filePath}, err
	}

	text, encoding, err := DecodeBytes(data)
	if err != nil {
		return CandidateFile{Path: filePath}, err
	}

	return CandidateFile{
		Path:     filePath,
		Raw:      data,
		Text:     text,
		Encoding: encoding,
	}, nil
}

func (s *FilesystemScanner) isCandidate(path string) bool {
	// Never re-process the backups a previous run left behind.
	if strings.HasSuffix(path, s.config.BackupSuffix) {
		return false
	}
	return s.extensions[strings.ToLower(filepath.Ext(path))]
}
