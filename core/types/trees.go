package types

import (
	"bytes"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// DelegateEntry is a single (account -> delegate) binding, the unit the RLP
// wire format uses to represent a Trees snapshot (Go maps have no native
// RLP encoding, so Trees round-trips through a slice of entries).
type DelegateEntry struct {
	Account  common.Address
	Delegate common.Address
}

// Trees is the accumulated delegate key/value tree snapshot carried by the
// tracker and persisted alongside every parent block (spec §3, "state").
type Trees map[common.Address]common.Address

// Enter returns a new Trees with account bound to delegate, leaving the
// receiver untouched. The state machine's fold step (spec §4.2 step 4)
// calls Enter once per delegate transaction found in a block.
func (t Trees) Enter(account, delegate common.Address) Trees {
	next := make(Trees, len(t)+1)
	for k, v := range t {
		next[k] = v
	}
	next[account] = delegate
	return next
}

// Clone returns a shallow copy, used when a caller needs to mutate a
// snapshot obtained from the store without affecting the cached copy.
func (t Trees) Clone() Trees {
	next := make(Trees, len(t))
	for k, v := range t {
		next[k] = v
	}
	return next
}

// EncodeRLP implements rlp.Encoder by flattening the map into a
// deterministically ordered slice of entries.
func (t Trees) EncodeRLP(w io.Writer) error {
	entries := make([]DelegateEntry, 0, len(t))
	for account, delegate := range t {
		entries = append(entries, DelegateEntry{Account: account, Delegate: delegate})
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Account[:], entries[j].Account[:]) < 0
	})
	return rlp.Encode(w, entries)
}

// DecodeRLP implements rlp.Decoder.
func (t *Trees) DecodeRLP(s *rlp.Stream) error {
	var entries []DelegateEntry
	if err := s.Decode(&entries); err != nil {
		return err
	}
	trees := make(Trees, len(entries))
	for _, e := range entries {
		trees[e.Account] = e.Delegate
	}
	*t = trees
	return nil
}
