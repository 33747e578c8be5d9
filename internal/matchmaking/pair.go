package matchmaking

import (
	"context"
	"errors"

	"turn-matchmaking-coordinator/internal/keyschema"
	"turn-matchmaking-coordinator/internal/kvstore"
)

// AttemptMatch tries to atomically consume both p1's and p2's
// registrations for turnNumber. It interprets the transaction's
// cancellation reasons as follows:
//
//   - success                                         -> Matched
//   - canceled, reason[0] is a condition failure       -> P1ConditionError
//   - canceled, reason[1] is a condition failure        -> P2ConditionError
//     (only when reason[0] was not)
//   - canceled, neither reason is a condition failure -> UnrecoverableError
//   - any other transport error                        -> UnrecoverableError
//
// The p1-trumps-p2 tie-break is load-bearing: when both conditions fail
// simultaneously, the result is P1ConditionError, not P2ConditionError.
// It encodes "my own record is gone, so I've already been paired — stop
// trying", which is a stronger signal than "this particular candidate is
// taken". Do not reorder the checks below.
func AttemptMatch(ctx context.Context, store kvstore.Store, turnNumber uint32, p1, p2 Skey) PairOutcome {
	partitionKey := keyschema.PartitionFor(turnNumber)
	deletes := []kvstore.TransactDelete{
		{PartitionKey: partitionKey, SortKey: p1.Format()},
		{PartitionKey: partitionKey, SortKey: p2.Format()},
	}

	err := store.TransactWrite(ctx, deletes)
	if err == nil {
		return PairOutcome{Kind: Matched, P1: p1, P2: p2}
	}

	var canceled *kvstore.TransactionCanceledError
	if errors.As(err, &canceled) {
		reason0 := len(canceled.Reasons) > 0 && canceled.Reasons[0].ConditionFailed()
		reason1 := len(canceled.Reasons) > 1 && canceled.Reasons[1].ConditionFailed()
		switch {
		case reason0:
			return PairOutcome{Kind: P1ConditionError, P1: p1, P2: p2}
		case reason1:
			return PairOutcome{Kind: P2ConditionError, P1: p1, P2: p2}
		default:
			return PairOutcome{Kind: UnrecoverableError, P1: p1, P2: p2, Message: canceled.Error()}
		}
	}

	return PairOutcome{Kind: UnrecoverableError, P1: p1, P2: p2, Message: err.Error()}
}
