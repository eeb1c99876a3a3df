// Package rawdb implements the on-disk store accessors for the parent-chain
// tracker, following the key-prefixing convention of
// github.com/ethereum/go-ethereum/core/rawdb.
package rawdb

import (
	"github.com/ethereum/go-ethereum/common"
)

// Key prefixes for the tracker's three keyspaces (spec §4.5, §6 "Persistent
// layout"). Each is namespaced the way go-ethereum namespaces header/body
// keys, so multiple trackers (one per pointer) can safely share a database.
var (
	parentStatePrefix      = []byte("parent-state-")
	parentBlockPrefix      = []byte("parent-block-")
	parentBlockStatePrefix = []byte("parent-block-state-")
)

func parentStateKey(pointer common.Hash) []byte {
	return append(append([]byte{}, parentStatePrefix...), pointer.Bytes()...)
}

func parentBlockKey(hash common.Hash) []byte {
	return append(append([]byte{}, parentBlockPrefix...), hash.Bytes()...)
}

func parentBlockStateKey(hash common.Hash) []byte {
	return append(append([]byte{}, parentBlockStatePrefix...), hash.Bytes()...)
}
