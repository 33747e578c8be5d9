package matchmaking

import (
	"context"
	"fmt"

	"turn-matchmaking-coordinator/internal/kvstore"
)

// ListFunc lists the candidate pool for a turn. Production callers pass
// a thin wrapper around ListCandidates; tests inject a ListFunc that can
// observe or perturb the candidate set between listing and attempts, to
// simulate concurrent workers racing for the same partition.
type ListFunc func(ctx context.Context, turnNumber uint32) ([]Skey, error)

// ProductionListFunc returns a ListFunc backed by the real Candidate
// Listing operation against store.
func ProductionListFunc(store kvstore.Store) ListFunc {
	return func(ctx context.Context, turnNumber uint32) ([]Skey, error) {
		return ListCandidates(ctx, store, turnNumber)
	}
}

// AttemptMatchmaking runs the pairing decision tree:
//
//  1. List candidates for the request's turn. A listing failure
//     propagates as an error — the only path that returns an error
//     instead of a Result.
//  2. Drop any candidate that is the requester itself, by the
//     conjunction of RunID and RandomComponent (not RunID alone — a
//     replayed registration under the same run_id but a fresh
//     RandomComponent is a legitimate distinct candidate).
//  3. Walk the remaining candidates in listing order, attempting a pair
//     against each. A P2ConditionError continues to the next candidate;
//     a P1ConditionError or UnrecoverableError short-circuits
//     immediately; a Matched outcome returns immediately.
//  4. Exhausting the candidate list without matching yields
//     FakeSimulate(nil).
func AttemptMatchmaking(ctx context.Context, store kvstore.Store, request AsyncRequest, list ListFunc) (Result, error) {
	candidates, err := list(ctx, request.TurnNumber)
	if err != nil {
		return Result{}, fmt.Errorf("matchmaking: failed to attempt matchmaking for turn %d: %w", request.TurnNumber, err)
	}

	for _, candidate := range candidates {
		if request.Skey.Equal(candidate) {
			continue
		}

		outcome := AttemptMatch(ctx, store, request.TurnNumber, request.Skey, candidate)
		switch outcome.Kind {
		case Matched:
			return Result{Kind: ResultMatched, Opponent: outcome.P2}, nil
		case P2ConditionError:
			continue
		case P1ConditionError:
			return Result{Kind: ResultCanDrop}, nil
		case UnrecoverableError:
			msg := outcome.Message
			return Result{Kind: ResultFakeSimulate, DegradedReason: &msg}, nil
		}
	}

	return Result{Kind: ResultFakeSimulate, DegradedReason: nil}, nil
}
