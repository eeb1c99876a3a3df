// Package parenttest provides in-memory fakes for parent.Store and
// parent.Connector, following the capability-interface design note in
// spec §9 that calls out tests substituting simple fakes for the
// production store/connector.
package parenttest

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	parenttypes "github.com/aeternity/hctracker/core/types"
	"github.com/aeternity/hctracker/parent"
)

// Store is an in-memory parent.Store backed by plain maps, for tests that
// don't need rawdbstore's LevelDB/LRU machinery.
type Store struct {
	mu     sync.Mutex
	states map[common.Hash]*parenttypes.ParentStateRecord
	blocks map[common.Hash]*parenttypes.ParentBlock
	trees  map[common.Hash]parenttypes.Trees
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		states: make(map[common.Hash]*parenttypes.ParentStateRecord),
		blocks: make(map[common.Hash]*parenttypes.ParentBlock),
		trees:  make(map[common.Hash]parenttypes.Trees),
	}
}

func (s *Store) GetParentState(pointer common.Hash) *parenttypes.ParentStateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.states[pointer]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

func (s *Store) WriteParentState(pointer common.Hash, rec *parenttypes.ParentStateRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.states[pointer] = &cp
}

func (s *Store) GetParentBlock(hash common.Hash) *parenttypes.ParentBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks[hash]
}

func (s *Store) WriteParentBlock(block *parenttypes.ParentBlock, trees parenttypes.Trees) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[block.Header.Hash] = block
	s.trees[block.Header.Hash] = trees.Clone()
}

func (s *Store) GetParentBlockState(hash common.Hash) parenttypes.Trees {
	s.mu.Lock()
	defer s.mu.Unlock()
	trees, ok := s.trees[hash]
	if !ok {
		return nil
	}
	return trees.Clone()
}

// Connector is an in-memory parent.Connector driven entirely by test code:
// Deliver publishes a block as if the real chain had produced it, and
// blocks are looked up from a fixed map built ahead of time with Seed.
type Connector struct {
	mu      sync.Mutex
	blocks  map[common.Hash]*parent.Block
	top     common.Hash
	onBlock parent.OnBlock

	SentTxs [][]byte
	SendErr error
}

// NewConnector returns a Connector with no blocks seeded yet.
func NewConnector() *Connector {
	return &Connector{blocks: make(map[common.Hash]*parent.Block)}
}

// Seed registers a block the connector can answer GetBlockByHash for, and
// sets it as the current top.
func (c *Connector) Seed(b *parent.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks[b.Hash] = b
	c.top = b.Hash
}

// SetTop updates the hash GetTopBlock returns without adding a new block.
func (c *Connector) SetTop(hash common.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.top = hash
}

// Deliver adds b to the known block set and, if connected, invokes
// onBlock(b) synchronously, exactly as a real Connector's subscription
// callback would (spec §6 "on_block").
func (c *Connector) Deliver(b *parent.Block) {
	c.mu.Lock()
	c.blocks[b.Hash] = b
	c.top = b.Hash
	onBlock := c.onBlock
	c.mu.Unlock()

	if onBlock != nil {
		onBlock(b)
	}
}

func (c *Connector) Connect(_ string, _ map[string]string, onBlock parent.OnBlock) (parent.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onBlock = onBlock
	return struct{}{}, nil
}

func (c *Connector) Disconnect(_ parent.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onBlock = nil
	return nil
}

func (c *Connector) GetTopBlock() (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.top == (common.Hash{}) {
		return common.Hash{}, fmt.Errorf("parenttest: no top block seeded")
	}
	return c.top, nil
}

func (c *Connector) GetBlockByHash(hash common.Hash) (*parent.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.blocks[hash]
	if !ok {
		return nil, fmt.Errorf("parenttest: unknown block %s", hash)
	}
	return b, nil
}

func (c *Connector) SendTx(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return c.SendErr
	}
	c.SentTxs = append(c.SentTxs, payload)
	return nil
}
