package edit

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// gidPattern matches the trailing ".../<Type>/<digits>" of a globally qualified
// id such as gid://shopify/Product/8112925769802?variant=1.
var gidPattern = regexp.MustCompile(`/[A-Za-z][A-Za-z0-9_]*/(\d+)(?:\?.*)?$`)

// Canonicalize converts a possibly qualified identifier into its plain digit
// form. Unrecognized input comes back trimmed. It never fails and
// Canonicalize(Canonicalize(x)) == Canonicalize(x).
func Canonicalize(raw interface{}) string {
	s := strings.TrimSpace(scalarString(raw))
	if s == "" {
		return ""
	}
	if m := gidPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// ProductGID returns the Shopify global id for a product id. Qualified ids are
// returned unchanged.
func ProductGID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "gid://") {
		return id
	}
	return "gid://shopify/Product/" + Canonicalize(id)
}

// Stringify coerces any decoded JSON value into the string shown in an input
// cell: nil is "", lists are joined with ", ", objects become compact JSON.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case []interface{}:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = Stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ", ")
	case reflect.Ptr:
		if rv.IsNil() {
			return ""
		}
		return Stringify(rv.Elem().Interface())
	}
	return scalarString(v)
}

// scalarString renders numbers without exponent so that large ids survive a
// round trip through float64.
func scalarString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	}
	return fmt.Sprint(v)
}
