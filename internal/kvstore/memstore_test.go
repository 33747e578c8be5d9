package kvstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turn-matchmaking-coordinator/internal/kvstore"
)

func TestMemoryStorePutConditionFailed(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	ctx := context.Background()
	item := kvstore.Item{PartitionKey: "pk", SortKey: "sk"}

	require.NoError(t, store.Put(ctx, item, kvstore.PutIfNotExists))

	err := store.Put(ctx, item, kvstore.PutIfNotExists)
	assert.ErrorIs(t, err, kvstore.ErrConditionFailed)
}

func TestMemoryStoreQuerySortedBySortKey(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	store.Seed("pk", "ccc_p3")
	store.Seed("pk", "aaa_p1")
	store.Seed("pk", "bbb_p2")

	items, err := store.Query(context.Background(), "pk")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "aaa_p1", items[0].SortKey)
	assert.Equal(t, "bbb_p2", items[1].SortKey)
	assert.Equal(t, "ccc_p3", items[2].SortKey)
}

func TestMemoryStoreTransactWriteBothPresent(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	store.Seed("pk", "aaa_p1")
	store.Seed("pk", "bbb_p2")

	err := store.TransactWrite(context.Background(), []kvstore.TransactDelete{
		{PartitionKey: "pk", SortKey: "aaa_p1"},
		{PartitionKey: "pk", SortKey: "bbb_p2"},
	})
	require.NoError(t, err)
	assert.False(t, store.Has("pk", "aaa_p1"))
	assert.False(t, store.Has("pk", "bbb_p2"))
}

func TestMemoryStoreTransactWriteP2Missing(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	store.Seed("pk", "aaa_p1")

	err := store.TransactWrite(context.Background(), []kvstore.TransactDelete{
		{PartitionKey: "pk", SortKey: "aaa_p1"},
		{PartitionKey: "pk", SortKey: "bbb_p2"},
	})

	var canceled *kvstore.TransactionCanceledError
	require.True(t, errors.As(err, &canceled))
	require.Len(t, canceled.Reasons, 2)
	assert.False(t, canceled.Reasons[0].ConditionFailed())
	assert.True(t, canceled.Reasons[1].ConditionFailed())
	assert.True(t, store.Has("pk", "aaa_p1"), "p1 must remain present when the transaction is aborted")
}

func TestMemoryStoreMissingTable(t *testing.T) {
	store := kvstore.NewMemoryStore(kvstore.MissingTableName)
	ctx := context.Background()

	_, err := store.Query(ctx, "pk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ResourceNotFoundException")
}
