package parent

import (
	"github.com/ethereum/go-ethereum/common"

	parenttypes "github.com/aeternity/hctracker/core/types"
)

// data is the tracker's mutable working state (spec §3 "Data"), owned
// exclusively by the state-machine goroutine. pointer and genesis are
// write-once/config-derived and live on Tracker instead, since they never
// change across the lifetime of one instance (spec §3 "Lifecycles").
type data struct {
	indicator common.Hash
	height    uint64
	cursor    common.Hash
	index     uint64
	queue     []*parenttypes.ParentBlock
	state     parenttypes.Trees

	// pending accumulates blocks produced by the walk currently in
	// progress, most-recently-processed first. Because the walk visits
	// blocks from the new tip backward (highest height first), prepending
	// here and installing it as queue only once the walk reaches synced
	// yields the ascending-height pop order spec §8 scenario 6 expects,
	// without requiring a stack-then-reverse step.
	pending []*parenttypes.ParentBlock
}

// indicate applies the bookkeeping rule of spec §4.3 when a new tip b
// enters the machine: height/indicator/index are updated; cursor is left
// untouched so the walk can recognise "I have reached what I already had"
// by hash equality or shared prev_hash.
//
// Per the Open Question in spec §9, the source does not specify behavior
// for a non-monotonic tip; this implementation rejects a tip whose height
// is lower than the current height before entering fetched. A tip at the
// same height is accepted (index 0), so a same-height reorg still reaches
// migrated.
func indicate(d *data, b *Block) error {
	oldHeight := d.height
	if b.Height < oldHeight {
		return ErrNonMonotonicTip
	}
	d.height = b.Height
	d.indicator = b.Hash
	d.index = b.Height - oldHeight
	return nil
}

// locate applies the second bookkeeping rule of spec §4.3: decrement index
// by one after a single backward step succeeds. The block parameter of the
// source rule is reserved for future use and has no analogue here.
func locate(d *data) {
	if d.index > 0 {
		d.index--
	}
}
