package edit

import (
	"regexp"
	"strconv"
	"strings"
)

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// NormalizePath rewrites bracket indexes to dot indexes:
// "metafields[3].value" becomes "metafields.3.value".
func NormalizePath(path string) string {
	out := bracketIndex.ReplaceAllString(path, ".$1")
	return strings.TrimPrefix(out, ".")
}

// PathKeys returns the original path and its normalized form. Both are used as
// keys of a FieldErrorIndex.
func PathKeys(path string) (original, normalized string) {
	return path, NormalizePath(path)
}

// MetafieldCellKeys returns the lookup keys of a metafield cell, dot form first,
// then the bracket form older validators emit.
func MetafieldCellKeys(index int, attr string) []string {
	i := strconv.Itoa(index)
	return []string{
		"metafields." + i + "." + attr,
		"metafields[" + i + "]." + attr,
	}
}
