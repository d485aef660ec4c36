// Package normalize reshapes provider results into the uniform search
// envelope (or, for formatted text, a display string with a summary footer)
// so the caller sees the same keys whichever generation answered.
package normalize

import (
	"fmt"

	"github.com/emirks/yokatlas-bridge/internal/provider"
)

// SearchEnvelope is the normalized search response.
type SearchEnvelope struct {
	Programs      []any  `json:"programs"`
	TotalFound    int    `json:"total_found"`
	SearchMethod  string `json:"search_method"`
	FuzzyMatching bool   `json:"fuzzy_matching"`
	ProgramType   string `json:"program_type,omitempty"`
}

// Options control envelope assembly.
type Options struct {
	// SearchMethod names the path that produced the result.
	SearchMethod string
	// MethodLabel is the human-readable method line for formatted output.
	MethodLabel string
	// Fuzzy reports whether fuzzy matching was active.
	Fuzzy bool
	// ProgramType tags associate-degree envelopes.
	ProgramType string
	// MaxResults truncates the program list. Zero means no truncation.
	MaxResults int
	// Siralama is the target ranking noted in the formatted footer.
	Siralama int
}

// Search unifies the three provider result shapes. Formatted text gets the
// summary footer appended; row results become an envelope. Truncation is
// applied strictly after the total count is captured, so total_found stays
// truthful.
func Search(res *provider.Result, opts Options) any {
	if res.Formatted != "" {
		return res.Formatted + footer(opts, res.TotalFound)
	}

	total := res.TotalFound
	rows := res.Rows
	if opts.MaxResults > 0 && len(rows) > opts.MaxResults {
		rows = rows[:opts.MaxResults]
	}

	programs := make([]any, 0, len(rows))
	for _, row := range rows {
		if !res.Typed {
			programs = append(programs, row)
			continue
		}
		rec, err := provider.CoerceProgram(row)
		if err != nil {
			// Partial validation beats dropping the record.
			programs = append(programs, row)
			continue
		}
		programs = append(programs, rec)
	}

	return &SearchEnvelope{
		Programs:      programs,
		TotalFound:    total,
		SearchMethod:  opts.SearchMethod,
		FuzzyMatching: opts.Fuzzy,
		ProgramType:   opts.ProgramType,
	}
}

// footer renders the human-readable summary appended to formatted results.
func footer(opts Options, total int) string {
	method := opts.MethodLabel
	if method == "" {
		method = opts.SearchMethod
	}
	s := fmt.Sprintf("\n\n🔍 Search method: %s", method)
	if opts.Siralama > 0 {
		s += fmt.Sprintf(" (centered at ranking %d)", opts.Siralama)
	}
	s += fmt.Sprintf("\n📊 Total found: %d programs", total)
	return s
}
