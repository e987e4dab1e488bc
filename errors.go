package playout

import "fmt"

// InvalidInput reports a static violation of the input contract: an empty
// [Text] literal, or a hard [Line] break authored inside a [Fix] scope.
type InvalidInput struct {
	Reason string
}

func (e *InvalidInput) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// StackOverflow reports that [Compile] exceeded its recursion depth budget.
// Callers may retry with a higher limit via [CompileWithDepth], or flatten
// the offending Layout.
type StackOverflow struct {
	Depth int
	Limit int
}

func (e *StackOverflow) Error() string {
	return fmt.Sprintf("recursion depth %d exceeds limit %d", e.Depth, e.Limit)
}

// AllocationFailed reports that a pass's scoped arena could not satisfy an
// allocation.
type AllocationFailed struct {
	Cause error
}

func (e *AllocationFailed) Error() string {
	return fmt.Sprintf("arena allocation failed: %v", e.Cause)
}

func (e *AllocationFailed) Unwrap() error {
	return e.Cause
}
