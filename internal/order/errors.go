package order

import "fmt"

// ValidationError reports malformed input, e.g. an empty item list or a
// non-positive quantity.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// InvalidTransitionError reports an illegal state-machine edge. The state it
// refers to is left unchanged.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition from %q to %q", e.Entity, e.From, e.To)
}

// TerminalStateError reports a mutation attempted on a completed or cancelled
// order.
type TerminalStateError struct {
	Status string
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("order is %s and can no longer change", e.Status)
}

// ImmutableOrderError reports an item edit attempted after the order left the
// pending status.
type ImmutableOrderError struct {
	Status string
}

func (e *ImmutableOrderError) Error() string {
	return fmt.Sprintf("order items can only be edited while pending, current status is %q", e.Status)
}
