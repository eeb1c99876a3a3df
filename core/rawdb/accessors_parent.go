package rawdb

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"

	parenttypes "github.com/aeternity/hctracker/core/types"
)

// blockStateRecord is the on-disk pairing of a parent block with its
// delegate-trees snapshot (spec §3: "parent_block(hash) -> (header,
// commitments, trees_snapshot)").
type blockStateRecord struct {
	Block *parenttypes.ParentBlock
	State parenttypes.Trees
}

// ReadParentBlock retrieves a previously written parent block, or nil if the
// hash is unknown to this store (spec §4.5: total on hashes the tracker has
// ever persisted).
func ReadParentBlock(db ethdb.Reader, hash common.Hash) *parenttypes.ParentBlock {
	data, err := db.Get(parentBlockKey(hash))
	if err != nil || len(data) == 0 {
		return nil
	}
	var rec blockStateRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		log.Error("Invalid parent block RLP", "hash", hash, "err", err)
		return nil
	}
	return rec.Block
}

// ReadParentBlockState retrieves the delegate-trees snapshot stored
// alongside a parent block, or nil if absent.
func ReadParentBlockState(db ethdb.Reader, hash common.Hash) parenttypes.Trees {
	data, err := db.Get(parentBlockStateKey(hash))
	if err != nil || len(data) == 0 {
		return nil
	}
	var trees parenttypes.Trees
	if err := rlp.DecodeBytes(data, &trees); err != nil {
		log.Error("Invalid parent block state RLP", "hash", hash, "err", err)
		return nil
	}
	return trees
}

// WriteParentBlock stores a parent block and its delegate-trees snapshot.
// Overwrites are permitted: a block reprocessed during a reorg walk yields
// byte-identical records (spec §4.2, idempotence), so last-writer-wins is
// safe.
func WriteParentBlock(db ethdb.KeyValueWriter, block *parenttypes.ParentBlock, trees parenttypes.Trees) {
	rec := blockStateRecord{Block: block, State: trees}
	data, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		log.Crit("Failed to RLP encode parent block", "err", err)
	}
	if err := db.Put(parentBlockKey(block.Header.Hash), data); err != nil {
		log.Crit("Failed to store parent block", "err", err)
	}

	stateData, err := rlp.EncodeToBytes(&trees)
	if err != nil {
		log.Crit("Failed to RLP encode parent block state", "err", err)
	}
	if err := db.Put(parentBlockStateKey(block.Header.Hash), stateData); err != nil {
		log.Crit("Failed to store parent block state", "err", err)
	}
}

// ReadParentState retrieves the last committed tracker snapshot for
// pointer, or nil if the store has no record for it (spec §2 "Init-state").
func ReadParentState(db ethdb.Reader, pointer common.Hash) *parenttypes.ParentStateRecord {
	data, err := db.Get(parentStateKey(pointer))
	if err != nil || len(data) == 0 {
		return nil
	}
	var rec parenttypes.ParentStateRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		log.Error("Invalid parent state RLP", "pointer", pointer, "err", err)
		return nil
	}
	return &rec
}

// WriteParentState persists the tracker snapshot, atomically, under
// pointer. Callers must have already stripped Queue and Args (spec §4.5);
// ParentStateRecord has no field for either, so this is enforced by type.
func WriteParentState(db ethdb.KeyValueWriter, pointer common.Hash, rec *parenttypes.ParentStateRecord) {
	data, err := rlp.EncodeToBytes(rec)
	if err != nil {
		log.Crit("Failed to RLP encode parent state", "err", err)
	}
	if err := db.Put(parentStateKey(pointer), data); err != nil {
		log.Crit("Failed to store parent state", "err", err)
	}
}
