package mojibake

import (
	"fmt"
	"sort"
	"strings"
)

// PatternTable is an ordered list of corruption patterns, longest corrupted
// sequence first. The ordering is a correctness invariant: the truncated
// capital-umlaut sequence is a prefix of the eszett sequences, so shorter
// entries must never run before longer ones.
type PatternTable []Pattern

// NewPatternTable validates patterns and returns them sorted longest-first.
// Two entries with the same corrupted sequence are a configuration error.
func NewPatternTable(patterns []Pattern) (PatternTable, error) {
	seen := make(map[string]bool, len(patterns))
	table := make(PatternTable, 0, len(patterns))

	for _, p := range patterns {
		if p.Corrupted == "" {
			return nil, fmt.Errorf("pattern for %q has an empty corrupted sequence", p.Correct)
		}
		if seen[p.Corrupted] {
			return nil, fmt.Errorf("duplicate corrupted sequence %q", p.Corrupted)
		}
		seen[p.Corrupted] = true
		table = append(table, p)
	}

	sort.SliceStable(table, func(i, j int) bool {
		return len(table[i].Corrupted) > len(table[j].Corrupted)
	})

	return table, nil
}

// Repair applies every pattern in table order as a literal global replace,
// counting non-overlapping occurrences. It is a pure function; the table is
// never modified, so a single table may be shared across goroutines.
func (t PatternTable) Repair(text string) RepairResult {
	result := RepairResult{Text: text}

	for _, p := range t {
		count := strings.Count(result.Text, p.Corrupted)
		if count == 0 {
			continue
		}
		result.Text = strings.ReplaceAll(result.Text, p.Corrupted, p.Correct)
		result.Corrections = append(result.Corrections, Correction{Pattern: p, Count: count})
	}

	return result
}

// DefaultPatterns returns the baseline German umlaut corruption set. Each
// corrupted sequence is what UTF-8 bytes for an umlaut or eszett look like
// after one or two rounds of being mis-decoded as Windows-1252/ISO-8859-1
// and re-encoded. Sequences were derived by round-tripping real German text
// through those decoders, not guessed.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// Double mojibake, both mis-decode rounds visible.
		{Corrupted: "ÃƒÂ¼", Correct: "ü"},
		{Corrupted: "ÃƒÂ¤", Correct: "ä"},
		{Corrupted: "ÃƒÂ¶", Correct: "ö"},
		{Corrupted: "ÃƒÅ¸", Correct: "ß"},
		{Corrupted: "ÃƒÅ¡", Correct: "ß"}, // alternate eszett round trip
		{Corrupted: "ÃƒÂ„", Correct: "Ä"},
		{Corrupted: "ÃƒÂ–", Correct: "Ö"},

		// Truncated double mojibake for capital Ü; the trailing character is
		// swallowed by the second mis-decode. Prefix of the eszett sequences
		// above, which is why table order matters.
		{Corrupted: "ÃƒÅ", Correct: "Ü"},

		// Single-round mojibake, the common case.
		{Corrupted: "Ã¼", Correct: "ü"},
		{Corrupted: "Ã¤", Correct: "ä"},
		{Corrupted: "Ã¶", Correct: "ö"},
		{Corrupted: "ÃŸ", Correct: "ß"},
		{Corrupted: "Ã„", Correct: "Ä"},
		{Corrupted: "Ã–", Correct: "Ö"},
		{Corrupted: "Ãœ", Correct: "Ü"},
	}
}

// DefaultPatternTable builds the table from DefaultPatterns. It panics on
// error because the default set is validated by tests; user-supplied
// patterns go through NewPatternTable instead.
func DefaultPatternTable() PatternTable {
	table, err := NewPatternTable(DefaultPatterns())
	if err != nil {
		panic(fmt.Sprintf("invalid default pattern set: %v", err))
	}
	return table
}
