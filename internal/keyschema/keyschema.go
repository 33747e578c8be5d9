// Package keyschema maps matchmaking domain values onto the partitioned
// key-value store's partition/sort key grammar.
package keyschema

import (
	"fmt"
	"strings"
)

// DefaultPartitionKeyAttribute and DefaultSortKeyAttribute are the default attribute
// names the store uses for the partition and sort key, overridable via
// config.Config.
const (
	DefaultPartitionKeyAttribute = "pk"
	DefaultSortKeyAttribute      = "sk"
)

// PartitionFor returns the deterministic partition key for a turn. Two
// calls with the same turnNumber always return the same string; different
// turn numbers always return different strings.
func PartitionFor(turnNumber uint32) string {
	return fmt.Sprintf("matchmaking#turn_%d", turnNumber)
}

// Skey is the in-memory view of a sort key.
type Skey struct {
	RandomComponent string
	RunID           string
}

// Format renders a Skey back into its sort-key string form.
func (s Skey) Format() string {
	return s.RandomComponent + "_" + s.RunID
}

// Equal reports whether two skeys refer to the same registration. Both
// RunID and RandomComponent must match — this is the conjunction the
// Driver relies on for self-exclusion (see matchmaking.AttemptMatchmaking).
func (s Skey) Equal(other Skey) bool {
	return s.RunID == other.RunID && s.RandomComponent == other.RandomComponent
}

// ParseSkey splits a sort-key string on the first underscore: everything
// to the left is the random component, everything to the right (which may
// itself contain underscores) is the run_id. A string with no underscore
// is a parse error.
func ParseSkey(s string) (Skey, error) {
	idx := strings.IndexByte(s, '_')
	if idx < 0 {
		return Skey{}, fmt.Errorf("keyschema: failed to parse sort key %q: missing '_' separator", s)
	}
	return Skey{
		RandomComponent: s[:idx],
		RunID:           s[idx+1:],
	}, nil
}
