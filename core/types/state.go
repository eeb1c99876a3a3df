package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// ParentStateRecord is the wire-persisted form of the tracker's state (spec
// §4.5): Data with Queue and Args stripped, as required by the store
// contract ("Data.queue and Data.args must be zeroed by caller before
// write").
type ParentStateRecord struct {
	Pointer   common.Hash
	Genesis   uint64
	Indicator common.Hash
	Height    uint64
	Cursor    common.Hash
	Index     uint64
	State     Trees
}

// ParentBlockState is the delegate-trees snapshot associated with one
// persisted parent block, addressable by that block's hash (spec §3,
// "parent_block_state(hash) -> trees_snapshot").
type ParentBlockState = Trees
