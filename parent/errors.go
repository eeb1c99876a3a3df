package parent

import (
	"errors"
	"fmt"
)

// Sentinel errors for the tracker's fatal and rejectable conditions (spec
// §7), in the style of go-ethereum's core.ErrNoGenesis sentinel.
var (
	// ErrNonMonotonicTip is returned when a connector delivers a tip whose
	// height is lower than the tracker's current height. The spec leaves
	// this case as an Open Question; per its own recommendation the event
	// is rejected before the machine ever enters fetched.
	ErrNonMonotonicTip = errors.New("parent: connector published a non-monotonic tip")

	// ErrMissingAncestor is returned when a backward walk cannot find an
	// expected ancestor in the store, indicating store corruption (spec
	// §7, "Missing ancestor in store during walk").
	ErrMissingAncestor = errors.New("parent: missing ancestor in store")

	// ErrNoGenesisRecord is returned by init-state when the store still has
	// no tracker-state record for the configured genesis pointer after the
	// initial record was written. A connector that cannot produce the
	// genesis block yields the connector's own error instead.
	ErrNoGenesisRecord = errors.New("parent: genesis pointer not found")

	// ErrStopped is returned to any in-flight request when the tracker
	// has terminated.
	ErrStopped = errors.New("parent: tracker stopped")
)

// GenesisExceededError is the fatal diagnostic of spec §4.1 ("State
// machine got exceeded genesis entry"), raised when a reorg walk would
// need to cross below the configured genesis height.
type GenesisExceededError struct {
	Genesis uint64
	Height  uint64
}

func (e *GenesisExceededError) Error() string {
	return fmt.Sprintf("State machine got exceeded genesis entry (genesis: %d, height: %d)", e.Genesis, e.Height)
}
