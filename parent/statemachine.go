package parent

import (
	"fmt"

	parenttypes "github.com/aeternity/hctracker/core/types"
)

// loop is the tracker's single cooperative task (spec §5): it owns Data
// exclusively, connects, runs init-state/sync-state/prime, then services
// the mailbox forever. Any fatal condition (store corruption, reorg past
// genesis) logs and returns, leaving the instance to an external
// supervisor to restart (spec §7).
func (t *Tracker) loop() {
	defer t.wg.Done()

	handle, err := t.connector.Connect(t.connectorID, t.connArgs, t.Publish)
	if err != nil {
		t.log.Error("Failed to connect to parent chain", "err", err)
		return
	}
	t.handle = handle
	defer t.connector.Disconnect(t.handle)

	d, err := t.initAndSyncState()
	if err != nil {
		t.log.Error("Failed to initialize tracker state", "err", err)
		return
	}

	if err := t.prime(&d); err != nil {
		t.log.Error("Fatal error while priming tracker", "err", err)
		return
	}
	// Blocks walked while priming are persisted but not queued: the queue
	// is empty on the first entry into synced after every (re)start.
	d.pending = nil
	t.onEnterSynced(&d)

	for {
		select {
		case <-t.quit:
			return
		case ev := <-t.mailbox:
			if !t.dispatch(&d, ev) {
				return
			}
		}
	}
}

// dispatch handles one mailbox event while in synced. Returning false
// signals the caller to terminate the task (a fatal condition occurred).
func (t *Tracker) dispatch(d *data, ev interface{}) bool {
	switch e := ev.(type) {
	case publishRequest:
		if err := indicate(d, e.block); err != nil {
			t.log.Warn("Dropping non-monotonic tip", "height", e.block.Height, "err", err)
			return true
		}
		if err := t.runFetched(d, e.block); err != nil {
			t.log.Error("Fatal reorg error", "err", err)
			return false
		}
		t.onEnterSynced(d)
	case sendTxRequest:
		err := t.connector.SendTx(e.payload)
		e.reply <- SendTxResult{Err: err}
	case processBlockRequest:
		e.reply <- t.store.GetParentBlock(e.hash)
	case popRequest:
		if len(d.queue) == 0 {
			e.reply <- PopResult{Empty: true}
			break
		}
		block := d.queue[0]
		d.queue = d.queue[1:]
		e.reply <- PopResult{Block: block}
	}
	return true
}

// initAndSyncState implements spec §4.1's init_state followed by
// sync_state: create the genesis parent block and initial tracker-state
// record if the store has never seen this pointer, then (re)load the
// persisted record regardless, discarding any in-memory computation (spec
// §9 Open Question: the source's commit_state during init_state is
// treated as a persisted-only side effect).
func (t *Tracker) initAndSyncState() (data, error) {
	if t.store.GetParentState(t.pointer) == nil {
		genesisBlock, err := t.connector.GetBlockByHash(t.pointer)
		if err != nil {
			return data{}, fmt.Errorf("fetching genesis block: %w", err)
		}
		parentBlock, trees := ProcessBlock(genesisBlock, parenttypes.Trees{}, t.recognizer)
		t.store.WriteParentBlock(parentBlock, trees)
		t.store.WriteParentState(t.pointer, &parenttypes.ParentStateRecord{
			Pointer:   t.pointer,
			Genesis:   t.genesis,
			Indicator: t.pointer,
			Height:    genesisBlock.Height,
			Cursor:    t.pointer,
			Index:     0,
			State:     trees,
		})
	}

	rec := t.store.GetParentState(t.pointer)
	if rec == nil {
		return data{}, ErrNoGenesisRecord
	}
	return data{
		indicator: rec.Indicator,
		height:    rec.Height,
		cursor:    rec.Cursor,
		index:     rec.Index,
		state:     rec.State,
	}, nil
}

// prime implements spec §4.1's "Prime" step: obtain the connector's
// current top block and drive the machine into fetched with it as the
// first internal event.
func (t *Tracker) prime(d *data) error {
	topHash, err := t.connector.GetTopBlock()
	if err != nil {
		return fmt.Errorf("fetching top block hash: %w", err)
	}
	top, err := t.connector.GetBlockByHash(topHash)
	if err != nil {
		return fmt.Errorf("fetching top block: %w", err)
	}
	if err := indicate(d, top); err != nil {
		t.log.Warn("Dropping non-monotonic tip while priming", "err", err)
		return nil
	}
	return t.runFetched(d, top)
}

// runFetched implements state `fetched` (spec §4.1): linear extension from
// a new tip down to the previously known canonical chain. The self-posted
// added_block(prev) step is a plain loop (spec §9 design note) rather than
// a mailbox round-trip.
func (t *Tracker) runFetched(d *data, b *Block) error {
	cur := b
	for {
		if cur.Hash == d.cursor {
			return nil
		}
		if d.index == 0 {
			return t.runMigrated(d, cur)
		}
		t.processAndEnqueue(d, cur)

		prev, err := t.connector.GetBlockByHash(cur.PrevHash)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMissingAncestor, err)
		}
		locate(d)
		cur = prev
	}
}

// runMigrated implements state `migrated` (spec §4.1): backward walk
// across a fork until the new and old histories share an ancestor, or the
// walk would cross below the configured genesis height.
//
// cursor walks the old, previously-canonical chain one step backward each
// time this loop fails to converge, in lockstep with cur walking the new
// chain. Comparing against a fixed cursor would only ever detect a fork
// exactly one block deep; advancing it each step is what lets the walk find
// a shared ancestor at arbitrary depth (spec §4.1, cursor "mutates ...
// during fetched/migrated").
func (t *Tracker) runMigrated(d *data, b *Block) error {
	cur := b
	for {
		t.processAndEnqueue(d, cur)

		oldCursorBlock := t.store.GetParentBlock(d.cursor)
		if oldCursorBlock == nil {
			return ErrMissingAncestor
		}
		dbPrevHash := oldCursorBlock.Header.PrevHash
		if cur.PrevHash == dbPrevHash {
			return nil
		}
		if cur.Height < t.genesis {
			return &GenesisExceededError{Genesis: t.genesis, Height: cur.Height}
		}

		prev, err := t.connector.GetBlockByHash(cur.PrevHash)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMissingAncestor, err)
		}
		d.cursor = dbPrevHash
		locate(d)
		cur = prev
	}
}

// processAndEnqueue runs the block processor for cur (spec §4.2),
// persists the result, and stages it in d.pending for the walk currently
// in progress. The delegate-tree snapshot used is always the one stored
// for cur's parent, never the carried d.state (spec §9 Open Question).
//
// The walk visits blocks from the new tip backward, i.e. highest height
// first, but downstream Pop callers expect ascending-height order (spec
// §8 scenario 6). Prepending here, then installing the whole batch as
// d.queue once the walk reaches synced, produces that order without a
// separate reverse step.
func (t *Tracker) processAndEnqueue(d *data, cur *Block) {
	trees := t.store.GetParentBlockState(cur.PrevHash)
	if trees == nil {
		trees = parenttypes.Trees{}
	}
	block, nextTrees := ProcessBlock(cur, trees, t.recognizer)
	t.store.WriteParentBlock(block, nextTrees)
	d.pending = append([]*parenttypes.ParentBlock{block}, d.pending...)
	d.state = nextTrees
}

// onEnterSynced implements spec §4.1's state `synced` entry actions:
// cursor becomes the reference point for the next reorg, any blocks
// produced by the walk just completed replace the queue in
// ascending-height order (blocks of an earlier sync that were not popped
// are dropped), the tracker state is committed, and the new tip is
// announced.
func (t *Tracker) onEnterSynced(d *data) {
	d.cursor = d.indicator
	d.index = 0

	if len(d.pending) > 0 {
		d.queue = d.pending
		d.pending = nil
	}

	t.store.WriteParentState(t.pointer, &parenttypes.ParentStateRecord{
		Pointer:   t.pointer,
		Genesis:   t.genesis,
		Indicator: d.indicator,
		Height:    d.height,
		Cursor:    d.cursor,
		Index:     d.index,
		State:     d.state,
	})
	t.bus.Announce(TipAnnouncement{Pointer: t.pointer, Indicator: d.indicator})
}
