package docfill

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The expression language is a deliberately narrow subset: a root
// identifier followed by field and index accessors, or a bare literal.
// There are no function calls, no operators, and no names beyond the data
// mapping, so evaluating a token can never touch ambient process state.
var (
	identPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	fieldPattern  = regexp.MustCompile(`^\.([A-Za-z_][A-Za-z0-9_]*)`)
	indexPattern  = regexp.MustCompile(`^\[(-?\d+)\]`)
	keyPattern    = regexp.MustCompile(`^\[(?:'([^']*)'|"([^"]*)")\]`)
	numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// EvaluateExpression evaluates a token's expression body against the data
// mapping.
//
// A missing root identifier returns an UnresolvedReferenceError, which
// callers treat as recoverable. Every other failure (unsupported syntax, a
// missing nested field, an index out of range, an access on a value of the
// wrong shape) returns an EvaluationError and is fatal to the compilation.
//
// Evaluation is pure: the same expression and data always produce the same
// value, and the data mapping is never written to.
func EvaluateExpression(expr string, data TemplateData) (interface{}, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &EvaluationError{Expression: expr, Cause: fmt.Errorf("empty expression")}
	}

	if v, ok, err := parseLiteral(expr); err != nil {
		return nil, &EvaluationError{Expression: expr, Cause: err}
	} else if ok {
		return v, nil
	}

	ident := identPattern.FindString(expr)
	if ident == "" {
		return nil, &EvaluationError{Expression: expr, Cause: fmt.Errorf("expected identifier or literal")}
	}
	value, ok := data[ident]
	if !ok {
		return nil, &UnresolvedReferenceError{Name: ident}
	}

	rest := expr[len(ident):]
	for rest != "" {
		if m := fieldPattern.FindStringSubmatch(rest); m != nil {
			v, err := accessField(value, m[1])
			if err != nil {
				return nil, &EvaluationError{Expression: expr, Cause: err}
			}
			value = v
			rest = rest[len(m[0]):]
			continue
		}
		if m := keyPattern.FindStringSubmatch(rest); m != nil {
			key := m[1]
			if key == "" {
				key = m[2]
			}
			v, err := accessField(value, key)
			if err != nil {
				return nil, &EvaluationError{Expression: expr, Cause: err}
			}
			value = v
			rest = rest[len(m[0]):]
			continue
		}
		if m := indexPattern.FindStringSubmatch(rest); m != nil {
			idx, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, &EvaluationError{Expression: expr, Cause: err}
			}
			v, err := accessIndex(value, idx)
			if err != nil {
				return nil, &EvaluationError{Expression: expr, Cause: err}
			}
			value = v
			rest = rest[len(m[0]):]
			continue
		}
		return nil, &EvaluationError{Expression: expr, Cause: fmt.Errorf("unsupported syntax at %q", rest)}
	}
	return value, nil
}

// parseLiteral recognizes quoted string and numeric literals. The second
// return reports whether expr was a literal at all.
func parseLiteral(expr string) (interface{}, bool, error) {
	if len(expr) >= 2 {
		first, last := expr[0], expr[len(expr)-1]
		if (first == '\'' || first == '"') && first == last {
			inner := expr[1 : len(expr)-1]
			if strings.ContainsRune(inner, rune(first)) {
				return nil, false, fmt.Errorf("malformed string literal %s", expr)
			}
			return inner, true, nil
		}
	}
	if numberPattern.MatchString(expr) {
		if !strings.Contains(expr, ".") {
			n, err := strconv.Atoi(expr)
			if err != nil {
				return nil, false, err
			}
			return n, true, nil
		}
		f, err := strconv.ParseFloat(expr, 64)
		if err != nil {
			return nil, false, err
		}
		return f, true, nil
	}
	return nil, false, nil
}

func accessField(value interface{}, name string) (interface{}, error) {
	switch v := value.(type) {
	case TemplateData:
		if field, ok := v[name]; ok {
			return field, nil
		}
		return nil, fmt.Errorf("no field %q", name)
	case map[string]interface{}:
		if field, ok := v[name]; ok {
			return field, nil
		}
		return nil, fmt.Errorf("no field %q", name)
	case map[string]string:
		if field, ok := v[name]; ok {
			return field, nil
		}
		return nil, fmt.Errorf("no field %q", name)
	default:
		return nil, fmt.Errorf("cannot access field %q on %T", name, value)
	}
}

// accessIndex indexes into a slice value. Negative indices address from the
// end.
func accessIndex(value interface{}, idx int) (interface{}, error) {
	normalize := func(length int) (int, error) {
		i := idx
		if i < 0 {
			i += length
		}
		if i < 0 || i >= length {
			return 0, fmt.Errorf("index %d out of range for length %d", idx, length)
		}
		return i, nil
	}
	switch v := value.(type) {
	case []interface{}:
		i, err := normalize(len(v))
		if err != nil {
			return nil, err
		}
		return v[i], nil
	case []string:
		i, err := normalize(len(v))
		if err != nil {
			return nil, err
		}
		return v[i], nil
	case []int:
		i, err := normalize(len(v))
		if err != nil {
			return nil, err
		}
		return v[i], nil
	case []float64:
		i, err := normalize(len(v))
		if err != nil {
			return nil, err
		}
		return v[i], nil
	case []bool:
		i, err := normalize(len(v))
		if err != nil {
			return nil, err
		}
		return v[i], nil
	case [][]interface{}:
		i, err := normalize(len(v))
		if err != nil {
			return nil, err
		}
		return v[i], nil
	case []map[string]interface{}:
		i, err := normalize(len(v))
		if err != nil {
			return nil, err
		}
		return v[i], nil
	default:
		return nil, fmt.Errorf("cannot index into %T", value)
	}
}
