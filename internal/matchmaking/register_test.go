package matchmaking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turn-matchmaking-coordinator/internal/keyschema"
	"turn-matchmaking-coordinator/internal/kvstore"
	"turn-matchmaking-coordinator/internal/matchmaking"
)

func TestEndTurnReturnsUsableSkey(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	ctx := context.Background()

	skey, err := matchmaking.EndTurn(ctx, store, 1, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", skey.RunID)
	assert.Len(t, skey.RandomComponent, 16)

	assert.True(t, store.Has(keyschema.PartitionFor(1), skey.Format()))
}

func TestEndTurnRandomComponentIsLowercaseLetters(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	skey, err := matchmaking.EndTurn(context.Background(), store, 1, "a")
	require.NoError(t, err)
	for _, r := range skey.RandomComponent {
		assert.True(t, r >= 'a' && r <= 'z', "unexpected character %q in random component", r)
	}
}

func TestEndTurnConflictIsNotRetried(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	ctx := context.Background()

	// A second Put at the same (pk, sk) fails the condition.
	skey, err := matchmaking.EndTurn(ctx, store, 1, "a")
	require.NoError(t, err)

	err = store.Put(ctx, kvstore.Item{
		PartitionKey: keyschema.PartitionFor(1),
		SortKey:      skey.Format(),
	}, kvstore.PutIfNotExists)
	assert.ErrorIs(t, err, kvstore.ErrConditionFailed)

	// A random collision is astronomically unlikely, so a store that
	// rejects every Put stands in for one: EndTurn must surface the
	// conflict as an error after a single Put, without retrying.
	conflicting := &conflictStore{MemoryStore: kvstore.NewMemoryStore("t")}
	_, err = matchmaking.EndTurn(ctx, conflicting, 1, "a")
	assert.Error(t, err)
	assert.Equal(t, 1, conflicting.puts)
}

// conflictStore wraps MemoryStore, rejecting every Put with
// ErrConditionFailed and counting the calls.
type conflictStore struct {
	*kvstore.MemoryStore
	puts int
}

func (c *conflictStore) Put(ctx context.Context, item kvstore.Item, condition kvstore.PutCondition) error {
	c.puts++
	return kvstore.ErrConditionFailed
}
