package parent

import (
	"github.com/ethereum/go-ethereum/common"

	parenttypes "github.com/aeternity/hctracker/core/types"
)

// Store is the persistence capability the tracker consumes (spec §4.5). It
// is deliberately small and polymorphic, per the design note in spec §9, so
// tests can swap in an in-memory fake (see parent/parenttest).
//
// Atomicity is per-key; the tracker never requires a multi-key transaction.
type Store interface {
	// GetParentState returns the last committed tracker snapshot for
	// pointer, or nil if none exists yet.
	GetParentState(pointer common.Hash) *parenttypes.ParentStateRecord

	// WriteParentState persists a tracker snapshot atomically. The caller
	// is responsible for recording the shape described by spec §4.5; the
	// wire type has no Queue/Args fields so nothing extra can leak in.
	WriteParentState(pointer common.Hash, rec *parenttypes.ParentStateRecord)

	// GetParentBlock returns a previously persisted parent block, or nil.
	GetParentBlock(hash common.Hash) *parenttypes.ParentBlock

	// WriteParentBlock stores a parent block and its delegate-trees
	// snapshot; overwrites by hash are permitted.
	WriteParentBlock(block *parenttypes.ParentBlock, trees parenttypes.Trees)

	// GetParentBlockState returns the delegate-trees snapshot associated
	// with a stored parent block, or nil if the hash is unknown.
	GetParentBlockState(hash common.Hash) parenttypes.Trees
}
