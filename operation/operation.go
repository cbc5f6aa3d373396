package operation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"finbench/truncation"
)

// Operation is an immutable benchmark request of one fixed kind. The set of
// implementations is closed: the structs of this package, passed by value.
type Operation interface {
	Kind() Kind
	// Validate checks the semantic constraints of the parameters
	Validate() error
	sealed()
}

// ErrInvalidParameter is matched by every parameter arity, type or value failure.
var ErrInvalidParameter = errors.New("invalid operation parameter")

type ParameterError struct {
	Kind     Kind
	Param    string
	Position int
	Reason   string
}

func (e *ParameterError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidParameter, e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s.%s (#%d): %s", ErrInvalidParameter, e.Kind, e.Param, e.Position, e.Reason)
}

func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// Window is the half-open time range [StartTime, EndTime) a read looks at.
type Window struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

func NewWindow(start, end time.Time) Window {
	return Window{StartTime: start.UTC(), EndTime: end.UTC()}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.StartTime) && t.Before(w.EndTime)
}

// Truncation bounds the number of edges expanded per vertex.
type Truncation struct {
	TruncationLimit int              `json:"truncationLimit"`
	TruncationOrder truncation.Order `json:"truncationOrder"`
}

// Collects the first validation failure of an operation
type checker struct {
	kind Kind
	err  error
}

func (c *checker) fail(param, format string, args ...any) {
	if c.err == nil {
		c.err = &ParameterError{Kind: c.kind, Param: param, Position: -1, Reason: fmt.Sprintf(format, args...)}
	}
}

func (c *checker) id(param string, v int64) {
	if v < 0 {
		c.fail(param, "negative id %d", v)
	}
}

func (c *checker) amount(param string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		c.fail(param, "amount must be finite and non-negative, got %v", v)
	}
}

func (c *checker) window(w Window) {
	if w.EndTime.Before(w.StartTime) {
		c.fail("endTime", "window ends (%s) before it starts (%s)", w.EndTime, w.StartTime)
	}
}

func (c *checker) truncation(t Truncation) {
	if t.TruncationLimit < truncation.NoLimit {
		c.fail("truncationLimit", "limit must be >= %d, got %d", truncation.NoLimit, t.TruncationLimit)
	}
	if t.TruncationLimit != 0 && !t.TruncationOrder.Valid() {
		c.fail("truncationOrder", "unknown truncation order %d", int(t.TruncationOrder))
	}
}
