// Package condition decides whether an item applies to a checklist given the
// producer's scope answers. Pure functions, no external state: the scorer and
// the lifecycle manager both evaluate through here so item scope never
// diverges between achievement and derivation.
package condition

import (
	"strconv"

	"fieldaudit/internal/checklist/models"
)

// Verdict is the outcome of evaluating an item's conditions.
type Verdict struct {
	// Active is false when any remove condition matched.
	Active bool
	// Optional is true when an optional condition matched on a still-active
	// item. Irrelevant once Active is false.
	Optional bool
}

// Evaluate applies an item's conditions against the scope answers.
//
// Two explicit passes keep the precedence a contract rather than a loop-order
// accident: any matching remove condition wins outright; optional conditions
// are consulted only while the item remains active. Conditions whose scope
// answer is absent are skipped - not yet determinable, never blocking.
func Evaluate(item *models.Item, scope models.ScopeAnswers) Verdict {
	if len(item.Conditions) == 0 {
		return Verdict{Active: true}
	}

	for _, c := range item.Conditions {
		if c.Action != models.ActionRemove {
			continue
		}
		if answer, ok := scope[c.ScopeFieldID]; ok && matches(c, answer) {
			return Verdict{Active: false}
		}
	}

	for _, c := range item.Conditions {
		if c.Action != models.ActionOptional {
			continue
		}
		if answer, ok := scope[c.ScopeFieldID]; ok && matches(c, answer) {
			return Verdict{Active: true, Optional: true}
		}
	}

	return Verdict{Active: true}
}

// matches compares a scope answer against the condition's literal. Equality
// operators compare strings; ordering operators parse both sides as floats
// and evaluate false on non-numeric input rather than erroring.
func matches(c models.Condition, answer string) bool {
	switch c.Operator {
	case models.OperatorEQ:
		return answer == c.Value
	case models.OperatorNEQ:
		return answer != c.Value
	case models.OperatorGT, models.OperatorLT, models.OperatorGTE, models.OperatorLTE:
		left, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return false
		}
		right, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return false
		}
		switch c.Operator {
		case models.OperatorGT:
			return left > right
		case models.OperatorLT:
			return left < right
		case models.OperatorGTE:
			return left >= right
		default:
			return left <= right
		}
	}
	return false
}
