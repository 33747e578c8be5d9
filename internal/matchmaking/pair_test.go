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

func TestAttemptMatchHappyPath(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	ctx := context.Background()

	p1, err := matchmaking.EndTurn(ctx, store, 1, "a")
	require.NoError(t, err)
	p2, err := matchmaking.EndTurn(ctx, store, 1, "b")
	require.NoError(t, err)

	outcome := matchmaking.AttemptMatch(ctx, store, 1, p1, p2)
	require.Equal(t, matchmaking.Matched, outcome.Kind)
	assert.Equal(t, "a", outcome.P1.RunID)
	assert.Equal(t, "b", outcome.P2.RunID)

	pk := keyschema.PartitionFor(1)
	assert.False(t, store.Has(pk, p1.Format()))
	assert.False(t, store.Has(pk, p2.Format()))
}

// p1 present, p2 absent: P2ConditionError, p1 remains present.
func TestAttemptMatchP2ConditionError(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	ctx := context.Background()

	p1, err := matchmaking.EndTurn(ctx, store, 1, "a")
	require.NoError(t, err)
	p2Fake := keyschema.Skey{RandomComponent: "bbbbbbbbbbbbbbbb", RunID: "b"}

	outcome := matchmaking.AttemptMatch(ctx, store, 1, p1, p2Fake)
	assert.Equal(t, matchmaking.P2ConditionError, outcome.Kind)
	assert.True(t, store.Has(keyschema.PartitionFor(1), p1.Format()))
}

// p1 absent, p2 present: P1ConditionError, p2 remains present.
func TestAttemptMatchP1ConditionError(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	ctx := context.Background()

	p1Fake := keyschema.Skey{RandomComponent: "aaaaaaaaaaaaaaaa", RunID: "a"}
	p2, err := matchmaking.EndTurn(ctx, store, 1, "b")
	require.NoError(t, err)

	outcome := matchmaking.AttemptMatch(ctx, store, 1, p1Fake, p2)
	assert.Equal(t, matchmaking.P1ConditionError, outcome.Kind)
	assert.True(t, store.Has(keyschema.PartitionFor(1), p2.Format()))
}

// Both absent: P1ConditionError (tie-break favors p1's error).
func TestAttemptMatchBothAbsentTieBreak(t *testing.T) {
	store := kvstore.NewMemoryStore("t")
	ctx := context.Background()

	p1Fake := keyschema.Skey{RandomComponent: "aaaaaaaaaaaaaaaa", RunID: "a"}
	p2Fake := keyschema.Skey{RandomComponent: "bbbbbbbbbbbbbbbb", RunID: "b"}

	outcome := matchmaking.AttemptMatch(ctx, store, 1, p1Fake, p2Fake)
	assert.Equal(t, matchmaking.P1ConditionError, outcome.Kind)
}

// An unrecoverable error against a nonexistent table preserves the
// store's error class as a substring of the outcome message.
func TestAttemptMatchUnrecoverableError(t *testing.T) {
	store := kvstore.NewMemoryStore(kvstore.MissingTableName)
	ctx := context.Background()

	p1Fake := keyschema.Skey{RandomComponent: "aaaaaaaaaaaaaaaa", RunID: "a"}

	outcome := matchmaking.AttemptMatch(ctx, store, 1, p1Fake, p1Fake)
	require.Equal(t, matchmaking.UnrecoverableError, outcome.Kind)
	assert.Contains(t, outcome.Message, "ResourceNotFoundException")
}
