package edit

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/pkg/errors"
)

// Editable summary fields
const (
	FieldTitle           = "title"
	FieldVendor          = "vendor"
	FieldProductType     = "productType"
	FieldTags            = "tags"
	FieldDescriptionHTML = "descriptionHtml"
)

// SummaryFields lists the editable summary fields in display order
var SummaryFields = []string{FieldTitle, FieldVendor, FieldProductType, FieldTags, FieldDescriptionHTML}

// EditableSummary is the mutable subset of the summary
type EditableSummary struct {
	Title           string   `json:"title"`
	Vendor          string   `json:"vendor"`
	ProductType     string   `json:"productType"`
	Tags            []string `json:"tags"`
	DescriptionHTML string   `json:"descriptionHtml"`
}

func (s EditableSummary) clone() EditableSummary {
	s.Tags = append([]string{}, s.Tags...)
	return s
}

// MetafieldRow is a metafield addressed by its position in the loaded list.
// Namespace, Key and Type never change after load.
type MetafieldRow struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// ValidationOutcome is the last validation result applied to a session
type ValidationOutcome struct {
	Pass   bool                     `json:"pass"`
	Total  int                      `json:"total"`
	Failed int                      `json:"failed"`
	Issues []domain.ValidationIssue `json:"issues"`
}

// EditSession is the working copy of one product. It is not safe for
// concurrent use; the workflow orchestrator serializes access.
type EditSession struct {
	original   domain.RawProductRecord
	productID  string
	initial    EditableSummary
	summary    EditableSummary
	tagOptions []string
	rows       []MetafieldRow // as loaded
	values     []string       // current metafield values, same length as rows
	errors     FieldErrorIndex
	last       *ValidationOutcome
	generation uint64
}

// Build turns a raw record into an edit session. A zero record yields a valid,
// empty session.
func Build(raw domain.RawProductRecord) *EditSession {
	var summary domain.RawSummary
	if raw.Summary != nil {
		summary = *raw.Summary
	}

	tags := ParseTags(summary.Tags)
	initial := EditableSummary{
		Title:           summary.Title,
		Vendor:          summary.Vendor,
		ProductType:     summary.ProductType,
		Tags:            tags,
		DescriptionHTML: summary.DescriptionHTML,
	}

	rows := make([]MetafieldRow, len(raw.Metafields))
	values := make([]string, len(raw.Metafields))
	for i, m := range raw.Metafields {
		rows[i] = MetafieldRow{
			Index:     i,
			ID:        Canonicalize(m.ID),
			Namespace: m.Namespace,
			Key:       m.Key,
			Type:      m.Type,
			Value:     m.Value,
		}
		values[i] = m.Value
	}

	return &EditSession{
		original:   cloneRecord(raw),
		productID:  Canonicalize(summary.ID),
		initial:    initial.clone(),
		summary:    initial,
		tagOptions: MergeTagOptions(ParseTags(raw.TagOptions), tags),
		rows:       rows,
		values:     values,
		errors:     FieldErrorIndex{},
	}
}

func cloneRecord(raw domain.RawProductRecord) domain.RawProductRecord {
	out := domain.RawProductRecord{
		Metafields: append([]domain.RawMetafield{}, raw.Metafields...),
		Variants:   append([]domain.Variant{}, raw.Variants...),
		Images:     append([]domain.Image{}, raw.Images...),
		TagOptions: append([]string{}, raw.TagOptions...),
	}
	if raw.Summary != nil {
		s := *raw.Summary
		s.Tags = append([]string{}, s.Tags...)
		if s.FeaturedImage != nil {
			img := *s.FeaturedImage
			s.FeaturedImage = &img
		}
		out.Summary = &s
	}
	return out
}

// ProductID returns the canonical id of the loaded product, "" if unknown
func (s *EditSession) ProductID() string {
	return s.productID
}

// Original returns the immutable snapshot the session was built from
func (s *EditSession) Original() domain.RawProductRecord {
	return cloneRecord(s.original)
}

// Summary returns a copy of the current editable summary
func (s *EditSession) Summary() EditableSummary {
	return s.summary.clone()
}

// Tags returns the currently assigned tags
func (s *EditSession) Tags() []string {
	return append([]string{}, s.summary.Tags...)
}

// TagOptions returns the selectable tag vocabulary. It is display-only and is
// never part of a commit payload.
func (s *EditSession) TagOptions() []string {
	return append([]string{}, s.tagOptions...)
}

// Metafields returns the metafield rows with their current values
func (s *EditSession) Metafields() []MetafieldRow {
	out := make([]MetafieldRow, len(s.rows))
	for i, r := range s.rows {
		r.Value = s.values[i]
		out[i] = r
	}
	return out
}

// MetafieldsByNamespace groups the current rows by namespace, keeping row order
func (s *EditSession) MetafieldsByNamespace() map[string][]MetafieldRow {
	out := make(map[string][]MetafieldRow)
	for _, r := range s.Metafields() {
		ns := r.Namespace
		if ns == "" {
			ns = "unknown"
		}
		out[ns] = append(out[ns], r)
	}
	return out
}

// Generation increases with every successful edit
func (s *EditSession) Generation() uint64 {
	return s.generation
}

// SetSummaryField updates exactly one summary field. Tags accept a list or a
// comma separated string.
func (s *EditSession) SetSummaryField(field string, value interface{}) error {
	switch field {
	case FieldTitle:
		s.summary.Title = Stringify(value)
	case FieldVendor:
		s.summary.Vendor = Stringify(value)
	case FieldProductType:
		s.summary.ProductType = Stringify(value)
	case FieldDescriptionHTML:
		s.summary.DescriptionHTML = Stringify(value)
	case FieldTags:
		s.summary.Tags = ParseTags(value)
	default:
		return &errors.ErrValidation{
			Message: fmt.Sprintf("unknown summary field %q", field),
			Fields:  map[string]string{"field": field},
		}
	}
	s.generation++
	return nil
}

// SetTags replaces the assigned tags
func (s *EditSession) SetTags(tags []string) {
	s.summary.Tags = ParseTags(tags)
	s.generation++
}

// SetMetafieldValue updates the value of the row at index. Out of range
// indexes are rejected and leave every row untouched.
func (s *EditSession) SetMetafieldValue(index int, value interface{}) error {
	if index < 0 || index >= len(s.values) {
		return &errors.ErrValidation{
			Message: fmt.Sprintf("metafield index %d out of range (0..%d)", index, len(s.values)-1),
			Fields:  map[string]string{"index": strconv.Itoa(index)},
		}
	}
	s.values[index] = Stringify(value)
	s.generation++
	return nil
}

// Dirty returns the keys of fields whose current value differs from the loaded
// one: summary field names and "metafields.<i>.value".
func (s *EditSession) Dirty() []string {
	var out []string
	if s.summary.Title != s.initial.Title {
		out = append(out, FieldTitle)
	}
	if s.summary.Vendor != s.initial.Vendor {
		out = append(out, FieldVendor)
	}
	if s.summary.ProductType != s.initial.ProductType {
		out = append(out, FieldProductType)
	}
	if !equalStrings(s.summary.Tags, s.initial.Tags) {
		out = append(out, FieldTags)
	}
	if s.summary.DescriptionHTML != s.initial.DescriptionHTML {
		out = append(out, FieldDescriptionHTML)
	}
	for i, r := range s.rows {
		if s.values[i] != r.Value {
			out = append(out, MetafieldCellKeys(i, "value")[0])
		}
	}
	return out
}

// Reset restores the loaded values and clears validation feedback
func (s *EditSession) Reset() {
	s.summary = s.initial.clone()
	for i, r := range s.rows {
		s.values[i] = r.Value
	}
	s.errors = FieldErrorIndex{}
	s.last = nil
	s.generation++
}

// Errors returns the current field error index
func (s *EditSession) Errors() FieldErrorIndex {
	return s.errors.clone()
}

// LastValidation returns the last applied validation result, nil if none
func (s *EditSession) LastValidation() *ValidationOutcome {
	if s.last == nil {
		return nil
	}
	out := *s.last
	out.Issues = append([]domain.ValidationIssue{}, s.last.Issues...)
	return &out
}

// ApplyValidation replaces the error index with the issues of result
func (s *EditSession) ApplyValidation(result domain.ValidationResult) {
	s.errors = ApplyIssues(result.Issues)
	total := result.Total
	if total == 0 {
		total = len(result.Issues)
	}
	s.last = &ValidationOutcome{
		Pass:   result.Pass,
		Total:  total,
		Failed: result.Failed,
		Issues: append([]domain.ValidationIssue{}, result.Issues...),
	}
}

// FieldErrors returns the cells of the summary fields that have one, keyed by
// field name
func (s *EditSession) FieldErrors() map[string]Cell {
	out := make(map[string]Cell)
	for _, f := range SummaryFields {
		if c, ok := s.errors.SummaryCell(f); ok {
			out[f] = c
		}
	}
	// fields the validator reports that are not editable (e.g. categoryId, images)
	keys := make([]string, 0, len(s.errors))
	for k := range s.errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if NormalizePath(k) != k || isMetafieldPath(k) {
			continue
		}
		if _, ok := out[k]; !ok {
			out[k] = s.errors[k]
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
