package state

// Phase is where a store is in its sync cycle. A store never reaches a
// terminal phase: every poll moves it back to PhaseSyncing.
type Phase int32

const (
	PhaseUninitialized Phase = iota // constructed, nothing loaded
	PhaseHydrated                   // loaded from the local slot (or defaults)
	PhaseSyncing                    // fetch in flight
	PhaseSettled                    // last fetch answered
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseHydrated:
		return "hydrated"
	case PhaseSyncing:
		return "syncing"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}
