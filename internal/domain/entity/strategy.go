package entity

import (
	"errors"
	"time"
)

// ApprovalState is the review classification of a submitted strategy.
// pending -> approved | rejected; both outcomes are terminal, there is
// no transition back to pending.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

func (s ApprovalState) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is a review outcome an admin may set.
func (s ApprovalState) IsDecision() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// RunState is the simulated execution state of a strategy.
type RunState string

const (
	RunStopped RunState = "stopped"
	RunRunning RunState = "running"
)

func (s RunState) Valid() bool {
	return s == RunStopped || s == RunRunning
}

var (
	// ErrNotApproved guards the run-state machine: only approved
	// strategies may be started.
	ErrNotApproved = errors.New("strategy is not approved")
)

// Strategy is a user-submitted trading strategy together with its
// fabricated analysis. StrategyCode and Analysis are opaque to the
// workflow core. OwnerName/OwnerEmail are denormalized snapshots for
// the review console.
type Strategy struct {
	ID            string
	UserID        string
	Name          string
	StrategyCode  string
	Analysis      *StrategyAnalysis
	RunState      RunState
	ApprovalState ApprovalState
	OwnerName     string
	OwnerEmail    string
	CreatedAt     time.Time
}

// OwnedBy reports whether userID owns the strategy.
func (s *Strategy) OwnedBy(userID string) bool {
	return s.UserID == userID
}

// CanTransitionRun checks the composite-state guard for a desired
// run-state. Starting requires the strategy to be approved; stopping is
// always allowed. Approval is read from the strategy as persisted, so
// stale rows violating the invariant are still refused here.
func (s *Strategy) CanTransitionRun(desired RunState) error {
	if desired == RunRunning && s.ApprovalState != ApprovalApproved {
		return ErrNotApproved
	}
	return nil
}
