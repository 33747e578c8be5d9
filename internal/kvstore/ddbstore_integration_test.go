//go:build integration

package kvstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turn-matchmaking-coordinator/internal/kvstore"
)

// These tests exercise DDBStore against a real (or locally dockerized)
// DynamoDB endpoint. They are skipped unless DYNAMODB_ENDPOINT is set,
// so `go test ./...` without that variable never touches the network.
func newIntegrationStore(t *testing.T) *kvstore.DDBStore {
	t.Helper()
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	if endpoint == "" {
		t.Skip("DYNAMODB_ENDPOINT not set, skipping DynamoDB integration test")
	}
	tableName := os.Getenv("DYNAMODB_TABLE_NAME")
	if tableName == "" {
		tableName = "matchmaking-integration-test"
	}

	store, err := kvstore.NewDDBStore(context.Background(), kvstore.DDBStoreConfig{
		TableName: tableName,
		Region:    envOrDefault("AWS_REGION", "us-east-1"),
		Endpoint:  endpoint,
	})
	require.NoError(t, err)
	return store
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestDDBStorePutConditionFailed(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	item := kvstore.Item{PartitionKey: "integration#put", SortKey: "aaaaaaaaaaaaaaaa_caller"}
	require.NoError(t, store.Put(ctx, item, kvstore.PutIfNotExists))
	defer store.Delete(ctx, item.PartitionKey, item.SortKey)

	err := store.Put(ctx, item, kvstore.PutIfNotExists)
	assert.ErrorIs(t, err, kvstore.ErrConditionFailed)
}

func TestDDBStoreTransactWriteBothPresent(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	p1 := kvstore.Item{PartitionKey: "integration#transact", SortKey: "aaaaaaaaaaaaaaaa_p1"}
	p2 := kvstore.Item{PartitionKey: "integration#transact", SortKey: "bbbbbbbbbbbbbbbb_p2"}
	require.NoError(t, store.Put(ctx, p1, kvstore.PutIfNotExists))
	require.NoError(t, store.Put(ctx, p2, kvstore.PutIfNotExists))

	err := store.TransactWrite(ctx, []kvstore.TransactDelete{
		{PartitionKey: p1.PartitionKey, SortKey: p1.SortKey},
		{PartitionKey: p2.PartitionKey, SortKey: p2.SortKey},
	})
	assert.NoError(t, err)
}

func TestDDBStoreAgainstMissingTableIsUnrecoverable(t *testing.T) {
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	if endpoint == "" {
		t.Skip("DYNAMODB_ENDPOINT not set, skipping DynamoDB integration test")
	}
	store, err := kvstore.NewDDBStore(context.Background(), kvstore.DDBStoreConfig{
		TableName: "this-table-does-not-exist",
		Region:    envOrDefault("AWS_REGION", "us-east-1"),
		Endpoint:  endpoint,
	})
	require.NoError(t, err)

	_, err = store.Query(context.Background(), "integration#missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ResourceNotFoundException")
}
