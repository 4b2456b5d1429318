package mojibake

// Pattern is a single corruption->correction pair. Corrupted holds the
// mojibake character sequence as it appears in a mis-decoded file, Correct
// holds the text it should have been.
type Pattern struct {
	Corrupted string `json:"corrupted"`
	Correct   string `json:"correct"`
}

// Correction records how many times one pattern fired during a repair.
type Correction struct {
	Pattern Pattern `json:"pattern"`
	Count   int     `json:"count"`
}

// RepairResult is the outcome of repairing one text buffer. Corrections
// preserves pattern-table order; patterns that never fired are omitted.
type RepairResult struct {
	Text        string       `json:"text"`
	Corrections []Correction `json:"corrections,omitempty"`
}

// Changed reports whether any pattern fired.
func (r RepairResult) Changed() bool {
	return len(r.Corrections) > 0
}

// Total is the number of substitutions across all patterns.
func (r RepairResult) Total() int {
	total := 0
	for _, c := range r.Corrections {
		total += c.Count
	}
	return total
}

// CandidateFile is a file selected by the scanner, already decoded to text.
type CandidateFile struct {
	Path     string `json:"path"`
	Raw      []byte `json:"-"`
	Text     string `json:"-"`
	Encoding string `json:"encoding"`
}

// FileRepair describes what happened to a single file during a run.
type FileRepair struct {
	Path        string       `json:"path"`
	Encoding    string       `json:"encoding"`
	Corrections []Correction `json:"corrections,omitempty"`
	Changed     bool         `json:"changed"`
	BackupPath  string       `json:"backup_path,omitempty"`
}

// RunResult aggregates a whole directory run.
type RunResult struct {
	FilesChecked     int          `json:"files_checked"`
	FilesChanged     int          `json:"files_changed"`
	TotalCorrections int          `json:"total_corrections"`
	Files            []FileRepair `json:"files,omitempty"`
	Skipped          []string     `json:"skipped,omitempty"`
	Errors           []string     `json:"errors,omitempty"`
	DryRun           bool         `json:"dry_run"`
}
