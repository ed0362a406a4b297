// Package tabular loads heterogeneously-named CSV/XLSX exports into string
// tables and resolves logical columns against them.
package tabular

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/etax-pipeline/internal/domain"
)

// Table is a fully loaded tabular input. Every cell is a string so leading
// zeros and locale formatting survive.
type Table struct {
	Headers []string
	Rows    [][]string
}

var folder = cases.Fold()

func normalizeHeader(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// ResolveColumn finds the index of the header matching any of the candidate
// logical names: first an exact match after trimming and case folding, tried
// in candidate priority order, then a substring containment pass. Returns -1
// when nothing matches. When more than one header contains a candidate the
// first in header order wins; callers rely on that tie-break.
func (t *Table) ResolveColumn(candidates ...string) int {
	normalized := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		normalized[i] = normalizeHeader(h)
	}

	for _, cand := range candidates {
		c := normalizeHeader(cand)
		for i, h := range normalized {
			if h == c {
				return i
			}
		}
	}

	for _, cand := range candidates {
		c := normalizeHeader(cand)
		for i, h := range normalized {
			if strings.Contains(h, c) {
				return i
			}
		}
	}

	return -1
}

// MissingColumnError reports a mandatory column that could not be resolved.
func MissingColumnError(name string) error {
	return fmt.Errorf("%w: %s", domain.ErrColumnMissing, name)
}

// Value returns the cell at column idx of a row, empty when the column was
// not resolved or the row is short.
func (t *Table) Value(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
