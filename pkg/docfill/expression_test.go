package docfill

import (
	"reflect"
	"strings"
	"testing"
)

func evalData() TemplateData {
	return TemplateData{
		"name":   "Ada",
		"count":  42,
		"price":  19.5,
		"active": true,
		"company": map[string]interface{}{
			"name": "ACME",
			"city": "Berlin",
		},
		"config": map[string]string{"env": "prod"},
		"nested": TemplateData{"inner": "deep"},
		"tags":   []string{"a", "b", "c"},
		"items":  []interface{}{1, "two", 3.5},
		"nums":   []int{10, 20},
		"floats": []float64{1.5},
		"flags":  []bool{true},
		"rows": [][]interface{}{
			{"r0c0", "r0c1"},
			{"r1c0", "r1c1"},
		},
		"people": []map[string]interface{}{
			{"name": "Bob"},
		},
	}
}

func TestEvaluateExpression(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want interface{}
	}{
		{"root identifier", "name", "Ada"},
		{"integer value", "count", 42},
		{"float value", "price", 19.5},
		{"bool value", "active", true},
		{"field access", "company.city", "Berlin"},
		{"single quoted key", "company['city']", "Berlin"},
		{"double quoted key", `company["city"]`, "Berlin"},
		{"string map field", "config.env", "prod"},
		{"nested template data", "nested.inner", "deep"},
		{"index access", "tags[0]", "a"},
		{"negative index", "tags[-1]", "c"},
		{"negative index from middle", "nums[-2]", 10},
		{"mixed slice", "items[1]", "two"},
		{"float slice", "floats[0]", 1.5},
		{"bool slice", "flags[0]", true},
		{"chained index", "rows[1][0]", "r1c0"},
		{"index then field", "people[0].name", "Bob"},
		{"surrounding whitespace", "  name  ", "Ada"},
		{"single quoted literal", "'hello'", "hello"},
		{"double quoted literal", `"hi"`, "hi"},
		{"empty string literal", "''", ""},
		{"integer literal", "42", 42},
		{"negative integer literal", "-7", -7},
		{"float literal", "3.14", 3.14},
		{"negative float literal", "-0.5", -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateExpression(tt.expr, evalData())
			if err != nil {
				t.Fatalf("EvaluateExpression(%q) error = %v", tt.expr, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EvaluateExpression(%q) = %v (%T), want %v (%T)", tt.expr, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestEvaluateExpressionUnresolved(t *testing.T) {
	// Only a missing root identifier is recoverable; the accessors after it
	// are not even parsed.
	for _, expr := range []string{"missing", "missing.field", "missing[0]"} {
		got, err := EvaluateExpression(expr, evalData())
		if err == nil {
			t.Fatalf("EvaluateExpression(%q) = %v, want error", expr, got)
		}
		if !IsUnresolved(err) {
			t.Errorf("EvaluateExpression(%q) error = %v, want unresolved", expr, err)
		}
		if IsEvaluationError(err) {
			t.Errorf("EvaluateExpression(%q) error = %v, should not be fatal", expr, err)
		}
	}

	_, err := EvaluateExpression("missing", evalData())
	if got, want := err.Error(), "unresolved reference: missing"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestEvaluateExpressionFatal(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"trailing dot", "name."},
		{"trailing paren", "name)"},
		{"missing nested field", "company.missing"},
		{"index out of range", "tags[3]"},
		{"negative index out of range", "tags[-4]"},
		{"field access on string", "name.field"},
		{"index into map", "company[0]"},
		{"key access on slice", "tags['x']"},
		{"leading digit identifier", "123abc"},
		{"malformed string literal", "'a'b'"},
		{"empty expression", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateExpression(tt.expr, evalData())
			if err == nil {
				t.Fatalf("EvaluateExpression(%q) = %v, want error", tt.expr, got)
			}
			if !IsEvaluationError(err) {
				t.Errorf("EvaluateExpression(%q) error = %v, want evaluation error", tt.expr, err)
			}
			if IsUnresolved(err) {
				t.Errorf("EvaluateExpression(%q) error = %v, should not be unresolved", tt.expr, err)
			}
			if !strings.Contains(err.Error(), "failed to evaluate expression") {
				t.Errorf("error = %q, want evaluation failure message", err.Error())
			}
		})
	}
}

func TestEvaluateExpressionIsPure(t *testing.T) {
	data := evalData()
	first, err := EvaluateExpression("rows[0][1]", data)
	if err != nil {
		t.Fatalf("EvaluateExpression() error = %v", err)
	}
	second, err := EvaluateExpression("rows[0][1]", data)
	if err != nil {
		t.Fatalf("EvaluateExpression() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated evaluation differs: %v then %v", first, second)
	}
	if !reflect.DeepEqual(data, evalData()) {
		t.Error("evaluation modified the data mapping")
	}
}
