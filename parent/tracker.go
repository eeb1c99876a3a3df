// Package parent implements the parent-chain tracker: a per-chain state
// machine that mirrors an external parent blockchain into a local,
// content-addressed store (spec.md §1-§2).
package parent

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	parenttypes "github.com/aeternity/hctracker/core/types"
	"github.com/aeternity/hctracker/parent/parentconfig"
	"github.com/aeternity/hctracker/parent/txdecode"
)

const mailboxCapacity = 256

// Tracker owns one parent-chain connector and mirrors it into Store,
// running the three-state traversal/reorg state machine of spec §4.1 as a
// single goroutine with a conventional Start()/Stop() lifecycle.
type Tracker struct {
	name        string
	pointer     common.Hash
	genesis     uint64
	connectorID string
	connArgs    map[string]string

	connector  Connector
	store      Store
	bus        *AnnounceBus
	recognizer txdecode.Recognizer

	log log.Logger

	mailbox chan interface{}
	quit    chan struct{}
	wg      sync.WaitGroup

	handle Handle
}

// New constructs a Tracker for one configured parent chain (spec §2,
// "(connector_id, connector_args, genesis_pointer)"). It does not connect
// or start the state machine; call Start for that.
func New(cfg parentconfig.Config, connector Connector, store Store, bus *AnnounceBus, recognizer txdecode.Recognizer) (*Tracker, error) {
	pointer, err := decodePointer(cfg.GenesisPointer)
	if err != nil {
		return nil, fmt.Errorf("parent: invalid genesis pointer: %w", err)
	}
	if recognizer == nil {
		recognizer = txdecode.RLPRecognizer{}
	}
	return &Tracker{
		name:        cfg.Name,
		pointer:     pointer,
		genesis:     cfg.Genesis,
		connectorID: cfg.ConnectorID,
		connArgs:    cfg.ConnectorArgs,
		connector:   connector,
		store:       store,
		bus:         bus,
		recognizer:  recognizer,
		log:         log.New("pointer", pointer, "connector", cfg.ConnectorID),
		mailbox:     make(chan interface{}, mailboxCapacity),
		quit:        make(chan struct{}),
	}, nil
}

func decodePointer(hexStr string) (common.Hash, error) {
	s := strings.TrimPrefix(hexStr, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return common.Hash{}, err
	}
	if len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("expected %d bytes, got %d", common.HashLength, len(raw))
	}
	return common.BytesToHash(raw), nil
}

// Start launches the state machine in its own goroutine and returns
// immediately; it does not wait for the tracker to connect or sync.
func (t *Tracker) Start() error {
	t.wg.Add(1)
	go t.loop()
	return nil
}

// Stop terminates the tracker. It does not attempt to flush the
// in-progress queue (spec §4.1, "Termination"): callers re-pop after
// restart.
func (t *Tracker) Stop() error {
	close(t.quit)
	t.wg.Wait()
	return nil
}

// Publish is called by a Connector's on_block callback only (spec §6). It
// is a fire-and-forget cast: the caller does not block on the tracker
// having processed the tip.
func (t *Tracker) Publish(b *Block) {
	select {
	case t.mailbox <- publishRequest{block: b}:
	case <-t.quit:
	}
}

// SendTx forwards payload to the connector, deferred until the tracker is
// in synced if a sync is in progress (spec §4.4, request postponement).
func (t *Tracker) SendTx(ctx context.Context, payload []byte) error {
	reply := make(chan SendTxResult, 1)
	if err := t.send(ctx, sendTxRequest{payload: payload, reply: reply}); err != nil {
		return err
	}
	select {
	case res := <-reply:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	case <-t.quit:
		return ErrStopped
	}
}

// ProcessBlock returns the persisted parent block for hash, or nil if
// unknown to the store (spec §6).
func (t *Tracker) ProcessBlock(ctx context.Context, hash common.Hash) (*parenttypes.ParentBlock, error) {
	reply := make(chan *parenttypes.ParentBlock, 1)
	if err := t.send(ctx, processBlockRequest{hash: hash, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case block := <-reply:
		return block, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.quit:
		return nil, ErrStopped
	}
}

// Pop dequeues the head of the produced-parent-block queue (spec §6).
func (t *Tracker) Pop(ctx context.Context) (PopResult, error) {
	reply := make(chan PopResult, 1)
	if err := t.send(ctx, popRequest{reply: reply}); err != nil {
		return PopResult{}, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-ctx.Done():
		return PopResult{}, ctx.Err()
	case <-t.quit:
		return PopResult{}, ErrStopped
	}
}

func (t *Tracker) send(ctx context.Context, req interface{}) error {
	select {
	case t.mailbox <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.quit:
		return ErrStopped
	}
}
