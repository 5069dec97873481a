package docfill

import (
	"fmt"
	"strconv"
)

// TemplateData is the caller-supplied evaluation environment: identifier
// bindings looked up by token expressions. The engine reads it and never
// writes to it.
//
// Value shapes with special meaning:
//   - image tokens: a path string, or a three-element slice of
//     (path, width, height) with millimetre dimensions; nil or zero leaves
//     that axis at the image's natural size
//   - table tokens: a slice of rows, each row a slice of cell values
type TemplateData map[string]interface{}

// FormatValue renders a value the way it should appear in document text.
// Strings pass through; integers render without exponents; floats use the
// shortest representation that survives a round trip.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// isEmptyValue reports whether a value counts as empty for the image and
// table handlers: nil, an empty string, zero, false, or a zero-length
// slice or map.
func isEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	case []interface{}:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case [][]interface{}:
		return len(val) == 0
	case [][]string:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	case TemplateData:
		return len(val) == 0
	default:
		return false
	}
}
