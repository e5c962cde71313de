package gameweek

import "time"

const DefaultTrustBuffer = 90 * time.Minute

// Resolve maps event metadata to a status using the provider flags only.
func Resolve(event Event) Status {
	if event.Finished {
		return StatusCompleted
	}
	if event.IsCurrent || event.DataChecked {
		return StatusLive
	}
	return StatusUpcoming
}

// ResolveOrLive resolves the event, or reports live when the feed failed.
// A failed lookup must not hide started matches nor route to unchecked aggregates.
func ResolveOrLive(event Event, fetchErr error) Status {
	if fetchErr != nil {
		return StatusLive
	}
	return Resolve(event)
}

// Resolver applies the trust-buffer policy on top of Resolve.
type Resolver struct {
	TrustBuffer time.Duration
	now         func() time.Time
}

func NewResolver(trustBuffer time.Duration) *Resolver {
	if trustBuffer < 0 {
		trustBuffer = 0
	}
	return &Resolver{
		TrustBuffer: trustBuffer,
		now:         time.Now,
	}
}

// WithClock returns a copy of the resolver reading time from now.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	out := *r
	out.now = now
	return &out
}

func (r *Resolver) Resolve(event Event) Status {
	return Resolve(event)
}

// ResolveTrusted reports completed only once persisted aggregates for the
// gameweek can be trusted: the gameweek is finished and the next one is
// underway. Finished but untrusted gameweeks resolve to live.
func (r *Resolver) ResolveTrusted(event Event, next *Event) Status {
	status := Resolve(event)
	if status != StatusCompleted {
		return status
	}
	if next == nil {
		if event.DataChecked {
			return StatusCompleted
		}
		return StatusLive
	}
	if r.nextUnderway(*next) {
		return StatusCompleted
	}
	return StatusLive
}

func (r *Resolver) nextUnderway(next Event) bool {
	if next.Finished {
		return true
	}
	if next.DeadlineTime.IsZero() {
		return next.IsCurrent || next.DataChecked
	}

	now := r.clock().UTC()
	return !now.Before(next.DeadlineTime.Add(r.TrustBuffer))
}

func (r *Resolver) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}
