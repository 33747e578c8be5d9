package matchmaking

import (
	"context"
	"fmt"

	"turn-matchmaking-coordinator/internal/keyschema"
	"turn-matchmaking-coordinator/internal/kvstore"
)

// ListCandidates queries the single page of records registered for
// turnNumber and parses each one's sort key. Any item with a malformed
// sort key is a fatal error for the whole call. Never paginates —
// records beyond the store's first page are not listed.
func ListCandidates(ctx context.Context, store kvstore.Store, turnNumber uint32) ([]Skey, error) {
	items, err := store.Query(ctx, keyschema.PartitionFor(turnNumber))
	if err != nil {
		return nil, fmt.Errorf("matchmaking: failed to list candidates for turn %d: %w", turnNumber, err)
	}

	skeys := make([]Skey, 0, len(items))
	for _, item := range items {
		skey, err := keyschema.ParseSkey(item.SortKey)
		if err != nil {
			return nil, fmt.Errorf("matchmaking: failed to list candidates for turn %d: %w", turnNumber, err)
		}
		skeys = append(skeys, skey)
	}
	return skeys, nil
}
