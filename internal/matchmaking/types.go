// Package matchmaking implements the matchmaking data model and the
// three core operations built on top of it: end-turn registration,
// candidate listing, and the pair-attempt protocol orchestrated by the
// driver.
package matchmaking

import "turn-matchmaking-coordinator/internal/keyschema"

// Skey re-exports keyschema.Skey so callers only need to import this
// package for the common case.
type Skey = keyschema.Skey

// AsyncRequest is a worker's assertion "pair *this* player for *this*
// turn".
type AsyncRequest struct {
	TurnNumber uint32
	Skey       Skey
}

// PairOutcomeKind enumerates the four-valued result of a single pair
// attempt.
type PairOutcomeKind int

const (
	// Matched means both records were deleted atomically.
	Matched PairOutcomeKind = iota
	// P1ConditionError means the requester's own record is gone — it
	// was already consumed by another worker.
	P1ConditionError
	// P2ConditionError means only the candidate's record is gone — the
	// candidate was taken by another worker; the requester should try
	// the next candidate.
	P2ConditionError
	// UnrecoverableError means the transaction failed for a reason
	// other than a condition check (or the transport call itself
	// failed).
	UnrecoverableError
)

// PairOutcome is the result of a single AttemptMatch call.
type PairOutcome struct {
	Kind PairOutcomeKind
	P1   Skey
	P2   Skey
	// Message is populated only when Kind == UnrecoverableError.
	Message string
}

// ResultKind enumerates the driver's three possible outcomes.
type ResultKind int

const (
	// ResultMatched means a real opponent was paired.
	ResultMatched ResultKind = iota
	// ResultCanDrop means the requester was already consumed by
	// another worker; the caller may discard this request.
	ResultCanDrop
	// ResultFakeSimulate means no real pair was formed; the caller
	// should simulate against a synthetic opponent.
	ResultFakeSimulate
)

// Result is the Driver's output.
type Result struct {
	Kind ResultKind
	// Opponent is set only when Kind == ResultMatched.
	Opponent Skey
	// DegradedReason is nil when Kind == ResultFakeSimulate because
	// the candidate pool was empty, and non-nil when it's present
	// because an UnrecoverableError occurred mid-search. Operators use
	// this split to track degraded-fallback rate separately from
	// empty-pool rate.
	DegradedReason *string
}
