package state

import (
	"errors"

	"github.com/sakif/navidash/internal/apperror"
)

// RollbackPolicy decides what happens to an optimistic change whose write
// failed.
type RollbackPolicy int

const (
	// RollbackNever keeps the change; the failure is only logged.
	RollbackNever RollbackPolicy = iota
	// RollbackAlways restores the snapshot on any failure.
	RollbackAlways
	// RollbackOutsideDemo restores the snapshot unless the failure is a demo
	// mode refusal, which is kept as if it had succeeded.
	RollbackOutsideDemo
)

// Outcome is how an optimistic mutation ended.
type Outcome int

const (
	OutcomeCommitted  Outcome = iota // write succeeded
	OutcomeKept                      // write failed, change kept
	OutcomeDemo                      // refused by demo mode, change kept
	OutcomeRolledBack                // write failed, snapshot restored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeKept:
		return "kept"
	case OutcomeDemo:
		return "demo"
	case OutcomeRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

// settle is the last step of snapshot → apply → await → commit-or-restore.
// The first two happen in the caller (cell.update); err is the result of
// the await.
func settle[T any](c *cell[T], policy RollbackPolicy, snapshot T, err error) Outcome {
	if err == nil {
		return OutcomeCommitted
	}
	demo := errors.Is(err, apperror.ErrDemoMode)

	switch {
	case policy == RollbackAlways,
		policy == RollbackOutsideDemo && !demo:
		c.set(snapshot)
		return OutcomeRolledBack
	case demo:
		return OutcomeDemo
	default:
		return OutcomeKept
	}
}
