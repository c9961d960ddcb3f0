package stream

// sessionState tracks a session through its lifecycle. Tuning is only legal
// in stateCreated; the first data call binds the engine session and moves to
// stateActive.
type sessionState uint8

const (
	stateCreated sessionState = iota
	stateActive
	stateFinished
	stateDisposed
)

func (s sessionState) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateActive:
		return "active"
	case stateFinished:
		return "finished"
	case stateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Capability reports the outcome of a best-effort tuning probe, so callers
// and tests can distinguish "the engine applied it" from "the engine
// silently lacks the feature".
type Capability uint8

const (
	// CapabilityApplied means the engine accepted and applied the parameter.
	CapabilityApplied Capability = iota
	// CapabilityIgnored means the engine lacks the feature and the request
	// was downgraded to a no-op.
	CapabilityIgnored
	// CapabilityFailed means the request was rejected outright.
	CapabilityFailed
)

func (c Capability) String() string {
	switch c {
	case CapabilityApplied:
		return "applied"
	case CapabilityIgnored:
		return "ignored"
	case CapabilityFailed:
		return "failed"
	default:
		return "unknown"
	}
}
