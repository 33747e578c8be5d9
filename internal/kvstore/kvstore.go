// Package kvstore defines the thin capability contract the matchmaking
// core needs from a partitioned key-value store with conditional writes
// and multi-item transactions, plus a real DynamoDB-backed implementation
// and an in-memory fake used by tests.
package kvstore

import "context"

// Item is a single store record keyed by partition key + sort key. Callers
// never need to inspect anything else about a matchmaking record, so Item
// carries only the two key attributes.
type Item struct {
	PartitionKey string
	SortKey      string
}

// PutCondition enumerates the conditional-put behaviors the core uses.
type PutCondition int

const (
	// PutIfNotExists requires that no item already occupy this key —
	// used by registration to guarantee a fresh random component per turn.
	PutIfNotExists PutCondition = iota
)

// ErrConditionFailed is returned by Put when the condition did not hold.
var ErrConditionFailed = conditionFailedError{}

type conditionFailedError struct{}

func (conditionFailedError) Error() string { return "kvstore: condition check failed" }

// CancellationReason describes one item's outcome within a canceled
// transaction. Message is non-nil only when the store populated a
// diagnostic for a condition-check failure (we asked for
// ReturnValuesOnConditionCheckFailure=ALL_OLD, so DynamoDB always
// populates a per-item reason on cancellation; the core only inspects
// whether Message is present, never its content).
type CancellationReason struct {
	Message *string
}

// ConditionFailed reports whether this item's cancellation was a
// condition-check failure rather than some other abort reason.
func (r CancellationReason) ConditionFailed() bool {
	return r.Message != nil
}

// TransactionCanceledError is returned by TransactWrite when the store
// aborted the whole transaction. Reasons is in the same order as the
// items passed to TransactWrite.
type TransactionCanceledError struct {
	Reasons []CancellationReason
}

func (e *TransactionCanceledError) Error() string {
	return "kvstore: transaction canceled"
}

// TransactDelete is one item of a TransactWrite call: delete the record
// at (PartitionKey, SortKey) if it exists.
type TransactDelete struct {
	PartitionKey string
	SortKey      string
}

// Store is the capability contract the matchmaking core depends on. It
// never depends on the concrete DynamoDB client directly — DDBStore and
// MemoryStore both satisfy it.
type Store interface {
	// Put writes item, enforcing condition. Returns ErrConditionFailed
	// when the condition does not hold, or a wrapped transport error
	// otherwise. The returned error always preserves the store's
	// diagnostic class as a substring, e.g. "ResourceNotFoundException"
	// when the table is absent.
	Put(ctx context.Context, item Item, condition PutCondition) error

	// Delete unconditionally removes the item at (pk, sk). Used only by
	// tests and out-of-band administration; the core's own pairing path
	// never calls it directly.
	Delete(ctx context.Context, partitionKey, sortKey string) error

	// Query returns a single page of items sharing partitionKey, in
	// whatever order the store delivers them. Never paginates — items
	// beyond the first page are not returned.
	Query(ctx context.Context, partitionKey string) ([]Item, error)

	// TransactWrite atomically applies all of deletes, each conditioned
	// on "the item currently exists". Returns *TransactionCanceledError
	// when the store aborted due to a failed per-item condition (or any
	// other abort reason — reasons[i].Message is nil when the abort
	// reason was not a condition-check failure), or a wrapped transport
	// error for any other failure.
	TransactWrite(ctx context.Context, deletes []TransactDelete) error
}
