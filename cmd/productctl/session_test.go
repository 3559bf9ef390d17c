package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummaryEdits(t *testing.T) {
	edits, err := parseSummaryEdits([]string{"title=New = title", "tags= a, ,b ", "vendor="})
	require.NoError(t, err)
	require.Len(t, edits, 3)

	assert.Equal(t, "title", edits[0].field)
	assert.Equal(t, "New = title", edits[0].value)
	assert.Equal(t, []string{"a", "b"}, edits[1].value)
	assert.Equal(t, "", edits[2].value)
}

func TestParseSummaryEdits_Invalid(t *testing.T) {
	_, err := parseSummaryEdits([]string{"title"})
	assert.Error(t, err)

	_, err = parseSummaryEdits([]string{"=value"})
	assert.Error(t, err)
}

func TestParseMetafieldEdits(t *testing.T) {
	edits, err := parseMetafieldEdits([]string{"0=cotton", "3=a=b"})
	require.NoError(t, err)
	assert.Equal(t, []metafieldEdit{{index: 0, value: "cotton"}, {index: 3, value: "a=b"}}, edits)

	_, err = parseMetafieldEdits([]string{"x=1"})
	assert.Error(t, err)

	_, err = parseMetafieldEdits([]string{"-1=1"})
	assert.Error(t, err)
}
