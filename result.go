package momentoredis

import "github.com/redis/go-redis/v9"

// Outcome classifies how a command finished.
type Outcome uint8

const (
	// Success: the backend answered; the value may still be absent (a miss).
	Success Outcome = iota
	// RemoteFailure: the backend failed or answered unexpectedly. The value is
	// the command's fallback and Err is the *CommandError already published
	// to Hooks.
	RemoteFailure
	// UsageViolation: the call itself was wrong or unsupported. Nothing was
	// sent and nothing was published.
	UsageViolation
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case RemoteFailure:
		return "remote_failure"
	case UsageViolation:
		return "usage_violation"
	}
	return "unknown"
}

// Result is what Exec returns.
type Result[T any] struct {
	val     T
	absent  bool
	outcome Outcome
	err     error
}

func (r Result[T]) Val() T           { return r.val }
func (r Result[T]) Absent() bool     { return r.absent }
func (r Result[T]) Outcome() Outcome { return r.outcome }
func (r Result[T]) Err() error       { return r.err }

// Result mirrors go-redis: a usage violation is returned as the error, an
// absent value as redis.Nil. Remote failures yield the fallback and no error;
// they were reported through Hooks.
func (r Result[T]) Result() (T, error) {
	switch {
	case r.outcome == UsageViolation:
		return r.val, r.err
	case r.absent:
		return r.val, redis.Nil
	}
	return r.val, nil
}

func okResult[T any](v T) Result[T] { return Result[T]{val: v} }

func absentResult[T any]() Result[T] { return Result[T]{absent: true} }

func remoteResult[T any](fallback T, absent bool, err *CommandError) Result[T] {
	return Result[T]{val: fallback, absent: absent, outcome: RemoteFailure, err: err}
}

func usageResult[T any](err error) Result[T] {
	return Result[T]{outcome: UsageViolation, err: err}
}

// anyResult erases T for the generic command path.
func anyResult[T any](r Result[T]) Result[any] {
	out := Result[any]{absent: r.absent, outcome: r.outcome, err: r.err}
	if !r.absent && r.outcome != UsageViolation {
		out.val = r.val
	}
	return out
}
