package kvstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used by tests. It reproduces the
// DynamoDB semantics the matchmaking core depends on: conditional put,
// conditional transactional delete with per-item cancellation reasons,
// and single-page query sorted lexically by sort key (the same ordering
// property a real DynamoDB table gives us, which candidate listing
// exploits for pseudo-randomization — see keyschema).
//
// A MemoryStore constructed with MissingTableName reproduces the
// "table does not exist" unrecoverable error a real client returns
// against a table that was never created.
type MemoryStore struct {
	mu        sync.Mutex
	items     map[string]map[string]struct{} // partitionKey -> sortKey set
	tableName string
}

// MissingTableName, when used to construct a MemoryStore, makes every
// operation fail the way a real DynamoDB client fails against a table
// that was never created.
const MissingTableName = "does-not-exist"

// NewMemoryStore constructs an empty MemoryStore bound to tableName.
func NewMemoryStore(tableName string) *MemoryStore {
	return &MemoryStore{
		items:     make(map[string]map[string]struct{}),
		tableName: tableName,
	}
}

func (m *MemoryStore) checkTable() error {
	if m.tableName == MissingTableName {
		return fmt.Errorf("kvstore: operation failed: ResourceNotFoundException: Requested resource not found: Table: %s not found", m.tableName)
	}
	return nil
}

func (m *MemoryStore) exists(partitionKey, sortKey string) bool {
	sortKeys, ok := m.items[partitionKey]
	if !ok {
		return false
	}
	_, ok = sortKeys[sortKey]
	return ok
}

// Put implements Store.
func (m *MemoryStore) Put(ctx context.Context, item Item, condition PutCondition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTable(); err != nil {
		return err
	}
	if condition != PutIfNotExists {
		return fmt.Errorf("kvstore: unsupported put condition %v", condition)
	}

	if m.exists(item.PartitionKey, item.SortKey) {
		return ErrConditionFailed
	}

	if m.items[item.PartitionKey] == nil {
		m.items[item.PartitionKey] = make(map[string]struct{})
	}
	m.items[item.PartitionKey][item.SortKey] = struct{}{}
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, partitionKey, sortKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTable(); err != nil {
		return err
	}
	if sortKeys, ok := m.items[partitionKey]; ok {
		delete(sortKeys, sortKey)
	}
	return nil
}

// Query implements Store. Results are returned sorted lexically by sort
// key, the same order a DynamoDB range key query returns them in.
func (m *MemoryStore) Query(ctx context.Context, partitionKey string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTable(); err != nil {
		return nil, err
	}

	sortKeys := make([]string, 0, len(m.items[partitionKey]))
	for sk := range m.items[partitionKey] {
		sortKeys = append(sortKeys, sk)
	}
	sort.Strings(sortKeys)

	items := make([]Item, 0, len(sortKeys))
	for _, sk := range sortKeys {
		items = append(items, Item{PartitionKey: partitionKey, SortKey: sk})
	}
	return items, nil
}

// TransactWrite implements Store. Deletes are applied atomically: either
// every item is deleted (both conditions held) or none are, and a
// TransactionCanceledError is returned with one CancellationReason per
// item in the order passed in, mirroring DynamoDB's per-item
// ReturnValuesOnConditionCheckFailure=ALL_OLD behavior.
func (m *MemoryStore) TransactWrite(ctx context.Context, deletes []TransactDelete) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTable(); err != nil {
		return err
	}

	reasons := make([]CancellationReason, len(deletes))
	anyFailed := false
	for i, d := range deletes {
		if !m.exists(d.PartitionKey, d.SortKey) {
			msg := "ConditionalCheckFailed"
			reasons[i] = CancellationReason{Message: &msg}
			anyFailed = true
		}
	}
	if anyFailed {
		return &TransactionCanceledError{Reasons: reasons}
	}

	for _, d := range deletes {
		delete(m.items[d.PartitionKey], d.SortKey)
	}
	return nil
}

// Seed inserts an item directly, bypassing the conditional-put check.
// Test helper only — production code never needs this.
func (m *MemoryStore) Seed(partitionKey, sortKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[partitionKey] == nil {
		m.items[partitionKey] = make(map[string]struct{})
	}
	m.items[partitionKey][sortKey] = struct{}{}
}

// Has reports whether an item is currently present. Test helper only.
func (m *MemoryStore) Has(partitionKey, sortKey string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists(partitionKey, sortKey)
}
