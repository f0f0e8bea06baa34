// Package customfield evaluates configured display expressions for custom
// issue fields.
//
// Evaluation is opt-in (here_there_be_dragons: true). Expressions come from the
// user's configuration file and are written in the expr language: they see a
// single variable, field, holding the raw value, and have no access to the
// filesystem, network, environment or process. Whoever controls the
// configuration file still controls what jirate prints for those fields.
package customfield

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

const (
	// ReservedToken may not appear in an expression.
	ReservedToken = "__code__"
	// ParameterName is the only variable an expression can reference.
	ParameterName = "field"

	reservedKeywordMessage = "reserved keyword %s in code snippet"
)

// ReservedKeywordError is returned, without evaluating, for expressions containing ReservedToken.
type ReservedKeywordError struct {
	Token string
}

func (reserved *ReservedKeywordError) Error() string {
	return fmt.Sprintf(reservedKeywordMessage, reserved.Token)
}

// Evaluator maps a field value through an expression.
type Evaluator struct {
	enabled bool
}

// NewEvaluator returns an evaluator; a disabled evaluator passes values through.
func NewEvaluator(enabled bool) *Evaluator {
	return &Evaluator{enabled: enabled}
}

// Enabled reports whether expressions are evaluated.
func (evaluator *Evaluator) Enabled() bool {
	return evaluator != nil && evaluator.enabled
}

// Evaluate runs expression against value. The only error it returns is
// *ReservedKeywordError; compile and runtime failures come back as the failure
// message in place of the result.
func (evaluator *Evaluator) Evaluate(expression string, value any) (any, error) {
	if strings.Contains(expression, ReservedToken) {
		return nil, &ReservedKeywordError{Token: ReservedToken}
	}
	if !evaluator.Enabled() || strings.TrimSpace(expression) == "" {
		return value, nil
	}
	environment := map[string]any{ParameterName: value}
	program, compileError := expr.Compile(expression, expr.Env(environment))
	if compileError != nil {
		return compileError.Error(), nil
	}
	result, runError := expr.Run(program, environment)
	if runError != nil {
		return runError.Error(), nil
	}
	return result, nil
}
