package notification

import (
	"errors"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/skillswap/skillswap/internal/domain/notification"
)

// Filter decides whether an event is delivered. An empty expression lets
// everything through.
type Filter struct {
	source string
	expr   *govaluate.EvaluableExpression
}

// NewFilter compiles expression against the parameters of notification.Event.Params,
// e.g. `type != 'meeting.completed' && !self`.
func NewFilter(expression string) (*Filter, error) {
	cond := strings.TrimSpace(expression)
	f := &Filter{source: cond}
	switch strings.ToLower(cond) {
	case "", "true":
		return f, nil
	}
	expr, err := govaluate.NewEvaluableExpression(cond)
	if err != nil {
		return nil, err
	}
	f.expr = expr
	return f, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.source
}

// Allow evaluates the filter for e.
func (f *Filter) Allow(e *notification.Event) (bool, error) {
	if f == nil || f.expr == nil {
		return true, nil
	}
	result, err := f.expr.Evaluate(e.Params())
	if err != nil {
		return false, err
	}
	v, ok := result.(bool)
	if !ok {
		return false, errors.New("filter did not evaluate to boolean")
	}
	return v, nil
}
