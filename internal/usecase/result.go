package usecase

// Outcome tags how a value was produced.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeDegraded Outcome = "degraded"
	OutcomeFailed   Outcome = "failed"
)

// Result carries a value together with whether a fallback produced it.
// A failed result still holds the neutral value callers should report.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Reason  string
}

func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value, Outcome: OutcomeOK}
}

func Degraded[T any](value T, reason string) Result[T] {
	return Result[T]{Value: value, Outcome: OutcomeDegraded, Reason: reason}
}

func Failed[T any](fallback T, reason string) Result[T] {
	return Result[T]{Value: fallback, Outcome: OutcomeFailed, Reason: reason}
}

func (r Result[T]) OK() bool {
	return r.Outcome == OutcomeOK
}

// worse returns the more severe of two outcomes.
func worse(a, b Outcome) Outcome {
	rank := func(o Outcome) int {
		switch o {
		case OutcomeFailed:
			return 2
		case OutcomeDegraded:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

func joinReasons(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "" || a == b:
		return a
	default:
		return a + "; " + b
	}
}
