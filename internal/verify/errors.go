package verify

import "fmt"

// VerifierNotFoundError is raised when a requested verifier is not
// registered.
type VerifierNotFoundError struct {
	Name      string
	Available []string
}

func (e *VerifierNotFoundError) Error() string {
	return fmt.Sprintf("verifier %q not found", e.Name)
}

// InvalidConfigError is raised when a request's config carries keys outside
// a verifier's declared option set.
type InvalidConfigError struct {
	Message        string
	InvalidOptions []string
}

func (e *InvalidConfigError) Error() string { return e.Message }

// InvalidFilterError is raised when a request's filter spec uses roles
// outside a verifier's allowed_filter_roles.
type InvalidFilterError struct {
	Message      string
	InvalidRoles []string
}

func (e *InvalidFilterError) Error() string { return e.Message }

// VerificationError wraps a framework-level exception raised outside any
// handler's recovered Handle call: these never originate inside a
// check, only at pipeline construction or dispatch boundaries.
type VerificationError struct {
	Message string
	Cause   error
}

func (e *VerificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *VerificationError) Unwrap() error { return e.Cause }

// FilteringError is an internal error evaluating a filter predicate.
type FilteringError struct {
	Message string
}

func (e *FilteringError) Error() string { return e.Message }

// TimeoutError is raised by the dispatcher when a request exceeds its
// configured deadline.
type TimeoutError struct {
	RequestID string
	Timeout   string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request %s exceeded timeout %s", e.RequestID, e.Timeout)
}

// QueueFullError reports a saturated worker pool queue. The dispatch
// Service's queue is unbounded (callers wait for a free slot), so Service
// itself does not return it.
type QueueFullError struct{}

func (e *QueueFullError) Error() string { return "worker pool queue is full" }
