package edit

import (
	"strings"

	"github.com/jafarshop/productconsole/internal/domain"
)

// Cell is the feedback attached to one field or metafield cell
type Cell struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Severity returns the display bucket of the cell
func (c Cell) Severity() domain.Severity {
	return BucketOf(c.Level)
}

// BucketOf maps an issue level to its display bucket: OK is informational,
// WARNING and WARN are warnings, everything else blocks.
func BucketOf(level string) domain.Severity {
	return domain.SeverityForLevel(level)
}

// FieldErrorIndex maps a field path, in both its original and normalized
// notation, to its feedback cell. Every key of one logical field holds the
// same cell.
type FieldErrorIndex map[string]Cell

// ApplyIssues builds an index from a validator issue list. Issues with a blank
// path are skipped, a missing level defaults to WARNING, and a later issue for
// the same logical field replaces an earlier one under every notation.
func ApplyIssues(issues []domain.ValidationIssue) FieldErrorIndex {
	idx := make(FieldErrorIndex, len(issues)*2)
	for _, it := range issues {
		path := strings.TrimSpace(it.FieldPath)
		if path == "" {
			continue
		}
		level := strings.TrimSpace(it.Level)
		if level == "" {
			level = domain.IssueLevelWarning
		}
		idx.put(path, Cell{Level: level, Message: it.Message})
	}
	return idx
}

// put stores cell under path and its normalized form, dropping aliases an
// earlier issue left for the same logical field.
func (idx FieldErrorIndex) put(path string, cell Cell) {
	original, normalized := PathKeys(path)
	for k := range idx {
		if k != normalized && NormalizePath(k) == normalized {
			delete(idx, k)
		}
	}
	idx[original] = cell
	idx[normalized] = cell
}

// Lookup returns the cell of the logical field named by key, in either notation
func (idx FieldErrorIndex) Lookup(key string) (Cell, bool) {
	key = strings.TrimSpace(key)
	if c, ok := idx[key]; ok {
		return c, true
	}
	c, ok := idx[NormalizePath(key)]
	return c, ok
}

// SummaryCell returns the cell of a summary field such as "title"
func (idx FieldErrorIndex) SummaryCell(field string) (Cell, bool) {
	return idx.Lookup(field)
}

// MetafieldCell returns the cell of a metafield attribute, probing the dot
// form and then the bracket form.
func (idx FieldErrorIndex) MetafieldCell(index int, attr string) (Cell, bool) {
	for _, k := range MetafieldCellKeys(index, attr) {
		if c, ok := idx[k]; ok {
			return c, true
		}
	}
	return Cell{}, false
}

// Counts returns the number of distinct logical fields per severity
func (idx FieldErrorIndex) Counts() map[domain.Severity]int {
	out := map[domain.Severity]int{
		domain.SeverityInfo:     0,
		domain.SeverityWarning:  0,
		domain.SeverityBlocking: 0,
	}
	for k, c := range idx {
		if NormalizePath(k) != k {
			continue
		}
		out[c.Severity()]++
	}
	return out
}

func (idx FieldErrorIndex) clone() FieldErrorIndex {
	out := make(FieldErrorIndex, len(idx))
	for k, v := range idx {
		out[k] = v
	}
	return out
}

func isMetafieldPath(p string) bool {
	return strings.HasPrefix(p, "metafields.") || strings.HasPrefix(p, "metafields[")
}
