// Package source adapts exchange clients into never-failing feature sources.
//
// Every source method returns a Result: either live data or the source's
// fixed fallback together with the reason the live path failed. Nothing in this
// package returns an error to its caller.
package source

// Status tags a Result as live or substituted.
type Status int

const (
	StatusOK Status = iota
	StatusDegraded
)

func (s Status) String() string {
	if s == StatusDegraded {
		return "degraded"
	}
	return "ok"
}

// Result carries a source's output and whether it is real.
type Result[T any] struct {
	Data   T
	Status Status
	Reason error // nil when Status is StatusOK
}

// OK wraps live data.
func OK[T any](data T) Result[T] {
	return Result[T]{Data: data, Status: StatusOK}
}

// Degraded wraps fallback data and the failure that caused it.
func Degraded[T any](fallback T, reason error) Result[T] {
	return Result[T]{Data: fallback, Status: StatusDegraded, Reason: reason}
}

// IsDegraded reports whether Data is a fallback.
func (r Result[T]) IsDegraded() bool {
	return r.Status == StatusDegraded
}
