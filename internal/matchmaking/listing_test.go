package matchmaking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turn-matchmaking-coordinator/internal/kvstore"
	"turn-matchmaking-coordinator/internal/matchmaking"
)

func TestListCandidatesSinglePage(t *testing.T) {
	store := &countingStore{MemoryStore: kvstore.NewMemoryStore("t")}
	ctx := context.Background()

	_, err := matchmaking.EndTurn(ctx, store, 1, "a")
	require.NoError(t, err)
	_, err = matchmaking.EndTurn(ctx, store, 1, "b")
	require.NoError(t, err)

	candidates, err := matchmaking.ListCandidates(ctx, store, 1)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	assert.Equal(t, 1, store.queries)
}

func TestListCandidatesMalformedSortKeyIsFatal(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	store.Seed("matchmaking#turn_1", "nounderscore")

	_, err := matchmaking.ListCandidates(context.Background(), store, 1)
	assert.Error(t, err)
}

// countingStore wraps MemoryStore to count Query invocations without
// reaching into MemoryStore internals.
type countingStore struct {
	*kvstore.MemoryStore
	queries int
}

func (c *countingStore) Query(ctx context.Context, partitionKey string) ([]kvstore.Item, error) {
	c.queries++
	return c.MemoryStore.Query(ctx, partitionKey)
}
