package controller

import "errors"

// State is the job state after Run returns.
type State uint8

const (
	Running State = iota
	Converged
	Failed
)

func (s State) String() string {
	switch s {
	case Converged:
		return "converged"
	case Failed:
		return "failed"
	}
	return "running"
}

var (
	// ErrConvergenceNotReached means max_rounds was used up while rounds
	// still merged. The last committed snapshot remains valid.
	ErrConvergenceNotReached = errors.New("convergence not reached within max_rounds")

	ErrRoundTimeout  = errors.New("round exceeded round_timeout")
	ErrNotImported   = errors.New("store holds no imported graph")
	ErrSeedMismatch  = errors.New("seed differs from the run that owns the store")
	ErrOverlapChange = errors.New("overlap differs from the imported graph")
)
