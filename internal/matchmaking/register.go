package matchmaking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"turn-matchmaking-coordinator/internal/keyschema"
	"turn-matchmaking-coordinator/internal/kvstore"
)

const randomComponentLen = 16
const randomComponentAlphabet = "abcdefghijklmnopqrstuvwxyz"

// newRandomComponent generates 16 i.i.d. uniform picks from [a-z].
// crypto/rand backs it instead of math/rand since this string also
// doubles as the registration's uniqueness guard — a predictable
// generator would weaken that guarantee.
func newRandomComponent() (string, error) {
	// Bytes at or above the largest multiple of the alphabet size are
	// rejected, so every letter is equally likely.
	const limit = 256 - 256%len(randomComponentAlphabet)
	buf := make([]byte, randomComponentLen)
	out := make([]byte, 0, randomComponentLen)
	for len(out) < randomComponentLen {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("matchmaking: failed to generate random component: %w", err)
		}
		for _, b := range buf {
			if int(b) < limit && len(out) < randomComponentLen {
				out = append(out, randomComponentAlphabet[int(b)%len(randomComponentAlphabet)])
			}
		}
	}
	return string(out), nil
}

// EndTurn registers runID as available for turnNumber and returns the
// generated Skey the caller needs to drive pairing later. Not retried by
// this package on failure.
func EndTurn(ctx context.Context, store kvstore.Store, turnNumber uint32, runID string) (Skey, error) {
	randomComponent, err := newRandomComponent()
	if err != nil {
		return Skey{}, err
	}
	skey := Skey{RandomComponent: randomComponent, RunID: runID}

	item := kvstore.Item{
		PartitionKey: keyschema.PartitionFor(turnNumber),
		SortKey:      skey.Format(),
	}
	if err := store.Put(ctx, item, kvstore.PutIfNotExists); err != nil {
		if errors.Is(err, kvstore.ErrConditionFailed) {
			return Skey{}, fmt.Errorf("matchmaking: registration conflict for turn %d: sort key %q already exists", turnNumber, item.SortKey)
		}
		return Skey{}, fmt.Errorf("matchmaking: failed to end turn: %w", err)
	}
	return skey, nil
}
