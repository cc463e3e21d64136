package billing

import "fmt"

// ValidationError reports invalid input (missing items, negative amounts).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidTransitionError reports a status change not permitted by the
// lifecycle tables.
type InvalidTransitionError struct {
	Kind DocumentKind
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: invalid transition %s -> %s", e.Kind, e.From, e.To)
}

// InvalidStateError reports an operation attempted on a document whose
// current status does not allow it (e.g. converting an unaccepted quote).
type InvalidStateError struct {
	Kind   DocumentKind
	Status string
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", e.Kind, e.Op, e.Status)
}
