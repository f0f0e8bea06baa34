package customfield_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/temirov/jirate/internal/customfield"
)

func TestEvaluateComputesDisplayValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		expression string
		value      any
		expected   any
	}{
		{
			name:       "member_access",
			expression: "field.value",
			value:      map[string]any{"value": "Gold"},
			expected:   "Gold",
		},
		{
			name:       "string_concatenation",
			expression: `"points: " + string(field)`,
			value:      5,
			expected:   "points: 5",
		},
		{
			name:       "comparison",
			expression: "field > 3",
			value:      5,
			expected:   true,
		},
		{
			name:       "missing_member_is_nil",
			expression: "field.absent",
			value:      map[string]any{"value": "Gold"},
			expected:   nil,
		},
	}

	evaluator := customfield.NewEvaluator(true)
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			result, evaluateError := evaluator.Evaluate(testCase.expression, testCase.value)
			if evaluateError != nil {
				t.Fatalf("unexpected error: %v", evaluateError)
			}
			if result != testCase.expected {
				t.Fatalf("expected %#v, got %#v", testCase.expected, result)
			}
		})
	}
}

func TestEvaluateRefusesReservedToken(t *testing.T) {
	t.Parallel()

	expressions := []string{
		"__code__",
		"field + __code__",
		`"__code__"`,
	}
	for _, enabled := range []bool{true, false} {
		evaluator := customfield.NewEvaluator(enabled)
		for _, expression := range expressions {
			for attempt := 0; attempt < 2; attempt++ {
				result, evaluateError := evaluator.Evaluate(expression, "value")
				var reserved *customfield.ReservedKeywordError
				if !errors.As(evaluateError, &reserved) {
					t.Fatalf("expected ReservedKeywordError for %q (enabled=%t), got %v", expression, enabled, evaluateError)
				}
				if result != nil {
					t.Fatalf("expected no result for refused expression, got %#v", result)
				}
			}
		}
	}
}

func TestEvaluateReportsFailuresAsText(t *testing.T) {
	t.Parallel()

	evaluator := customfield.NewEvaluator(true)
	testCases := []struct {
		name       string
		expression string
		fragment   string
	}{
		{name: "unknown_variable", expression: "os", fragment: "unknown name os"},
		{name: "syntax_error", expression: "field +", fragment: "unexpected token"},
	}
	for _, testCase := range testCases {
		result, evaluateError := evaluator.Evaluate(testCase.expression, 1)
		if evaluateError != nil {
			t.Fatalf("%s: failures must not be returned as errors: %v", testCase.name, evaluateError)
		}
		text, isText := result.(string)
		if !isText || !strings.Contains(text, testCase.fragment) {
			t.Fatalf("%s: expected message containing %q, got %#v", testCase.name, testCase.fragment, result)
		}
	}
}

func TestDisabledEvaluatorPassesValueThrough(t *testing.T) {
	t.Parallel()

	evaluator := customfield.NewEvaluator(false)
	if evaluator.Enabled() {
		t.Fatalf("expected evaluator to be disabled")
	}
	result, evaluateError := evaluator.Evaluate("field.value", "raw")
	if evaluateError != nil || result != "raw" {
		t.Fatalf("expected raw value, got %#v, %v", result, evaluateError)
	}
}
