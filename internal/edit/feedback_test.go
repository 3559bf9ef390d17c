package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/productconsole/internal/domain"
)

func TestApplyIssues(t *testing.T) {
	t.Run("writes original and normalized keys", func(t *testing.T) {
		idx := ApplyIssues([]domain.ValidationIssue{
			{FieldPath: "metafields[0].value", Message: "too long", Level: "ERROR"},
		})

		byBracket, ok := idx.Lookup("metafields[0].value")
		require.True(t, ok)
		byDot, ok := idx.Lookup("metafields.0.value")
		require.True(t, ok)

		assert.Equal(t, byBracket, byDot)
		assert.Equal(t, "too long", byDot.Message)
		assert.Equal(t, domain.SeverityBlocking, byDot.Severity())
	})

	t.Run("skips blank paths", func(t *testing.T) {
		idx := ApplyIssues([]domain.ValidationIssue{
			{FieldPath: "", Message: "a"},
			{FieldPath: "   ", Message: "b"},
		})
		assert.Empty(t, idx)
	})

	t.Run("defaults level to WARNING", func(t *testing.T) {
		idx := ApplyIssues([]domain.ValidationIssue{{FieldPath: "vendor", Message: "check"}})
		c, ok := idx.SummaryCell("vendor")
		require.True(t, ok)
		assert.Equal(t, "WARNING", c.Level)
		assert.Equal(t, domain.SeverityWarning, c.Severity())
	})

	t.Run("last write wins", func(t *testing.T) {
		idx := ApplyIssues([]domain.ValidationIssue{
			{FieldPath: "title", Message: "A"},
			{FieldPath: "title", Message: "B"},
		})
		c, ok := idx.Lookup("title")
		require.True(t, ok)
		assert.Equal(t, "B", c.Message)
	})

	t.Run("mixed notations for one field keep a single cell", func(t *testing.T) {
		idx := ApplyIssues([]domain.ValidationIssue{
			{FieldPath: "metafields[0].value", Message: "A", Level: "ERROR"},
			{FieldPath: "metafields.0.value", Message: "B", Level: "OK"},
		})

		byBracket, ok := idx.Lookup("metafields[0].value")
		require.True(t, ok)
		byDot, ok := idx.Lookup("metafields.0.value")
		require.True(t, ok)
		assert.Equal(t, Cell{Level: "OK", Message: "B"}, byBracket)
		assert.Equal(t, byDot, byBracket)

		cell, ok := idx.MetafieldCell(0, "value")
		require.True(t, ok)
		assert.Equal(t, "B", cell.Message)
		assert.Equal(t, 1, idx.Counts()[domain.SeverityInfo])
		assert.Zero(t, idx.Counts()[domain.SeverityBlocking])
	})

	t.Run("dot then bracket keeps the bracket write", func(t *testing.T) {
		idx := ApplyIssues([]domain.ValidationIssue{
			{FieldPath: "metafields.2.value", Message: "A"},
			{FieldPath: "metafields[2].value", Message: "B"},
		})
		for _, key := range []string{"metafields.2.value", "metafields[2].value"} {
			c, ok := idx.Lookup(key)
			require.True(t, ok, key)
			assert.Equal(t, "B", c.Message, key)
		}
	})

	t.Run("paths are trimmed before indexing", func(t *testing.T) {
		idx := ApplyIssues([]domain.ValidationIssue{
			{FieldPath: " title ", Message: "required", Level: "ERROR"},
			{FieldPath: " metafields[1].value\t", Message: "bad", Level: "ERROR"},
		})

		c, ok := idx.SummaryCell("title")
		require.True(t, ok)
		assert.Equal(t, "required", c.Message)
		_, ok = idx.MetafieldCell(1, "value")
		assert.True(t, ok)
		assert.NotContains(t, idx, " title ")
	})

	t.Run("every non-blank path hits under both notations", func(t *testing.T) {
		issues := []domain.ValidationIssue{
			{FieldPath: "title", Message: "1", Level: "OK"},
			{FieldPath: "metafields[1].value", Message: "2", Level: "WARN"},
			{FieldPath: "metafields.2.key", Message: "3", Level: "ERROR"},
			{FieldPath: "images", Message: "4", Level: "weird"},
		}
		idx := ApplyIssues(issues)
		for _, it := range issues {
			_, ok := idx.Lookup(it.FieldPath)
			assert.True(t, ok, it.FieldPath)
			_, ok = idx.Lookup(NormalizePath(it.FieldPath))
			assert.True(t, ok, NormalizePath(it.FieldPath))
		}
	})
}

func TestMetafieldCell(t *testing.T) {
	t.Run("finds dot form", func(t *testing.T) {
		idx := FieldErrorIndex{"metafields.1.value": {Level: "ERROR", Message: "x"}}
		c, ok := idx.MetafieldCell(1, "value")
		require.True(t, ok)
		assert.Equal(t, "x", c.Message)
	})

	t.Run("falls back to bracket form", func(t *testing.T) {
		idx := FieldErrorIndex{"metafields[1].value": {Level: "ERROR", Message: "legacy"}}
		c, ok := idx.MetafieldCell(1, "value")
		require.True(t, ok)
		assert.Equal(t, "legacy", c.Message)
	})

	t.Run("no error", func(t *testing.T) {
		_, ok := FieldErrorIndex{}.MetafieldCell(0, "value")
		assert.False(t, ok)
	})
}

func TestBucketOf(t *testing.T) {
	tests := []struct {
		level string
		want  domain.Severity
	}{
		{"OK", domain.SeverityInfo},
		{"ok", domain.SeverityInfo},
		{"WARNING", domain.SeverityWarning},
		{"WARN", domain.SeverityWarning},
		{" warn ", domain.SeverityWarning},
		{"ERROR", domain.SeverityBlocking},
		{"FATAL", domain.SeverityBlocking},
		{"", domain.SeverityBlocking},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketOf(tt.level))
		})
	}
}

func TestCounts(t *testing.T) {
	idx := ApplyIssues([]domain.ValidationIssue{
		{FieldPath: "title", Level: "ERROR"},
		{FieldPath: "metafields[0].value", Level: "ERROR"},
		{FieldPath: "vendor", Level: "WARN"},
		{FieldPath: "images", Level: "OK"},
	})
	counts := idx.Counts()
	assert.Equal(t, 2, counts[domain.SeverityBlocking])
	assert.Equal(t, 1, counts[domain.SeverityWarning])
	assert.Equal(t, 1, counts[domain.SeverityInfo])
}
