// Package rawdbstore is the default parent.Store implementation: an
// ethdb.Database-backed store with an LRU cache in front of hot parent
// blocks, the way go-ethereum's core.HeaderChain caches headers in front of
// its own chain database.
package rawdbstore

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/lru"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"

	parentrawdb "github.com/aeternity/hctracker/core/rawdb"
	parenttypes "github.com/aeternity/hctracker/core/types"
)

const blockCacheLimit = 512

// Store wraps an ethdb.Database with the key accessors of core/rawdb and a
// small read-through cache for parent blocks, the way core.HeaderChain
// caches headers in front of its chain database.
type Store struct {
	db         ethdb.Database
	blockCache *lru.Cache[common.Hash, *parenttypes.ParentBlock]
}

// New opens (or creates) a LevelDB-backed store at path. Passing an empty
// path opens an ephemeral in-memory database, convenient for tests that
// don't want a filesystem dependency.
func New(path string, cache, handles int) (*Store, error) {
	var (
		db  ethdb.Database
		err error
	)
	if path == "" {
		db = rawdb.NewMemoryDatabase()
	} else {
		db, err = rawdb.NewLevelDBDatabase(path, cache, handles, "hctracker/parent/", false)
		if err != nil {
			return nil, err
		}
	}
	return NewWithDatabase(db), nil
}

// NewWithDatabase wraps an already-open ethdb.Database, letting callers
// share a single database across multiple tracker instances keyed by
// disjoint pointers (spec §5, "Shared resources").
func NewWithDatabase(db ethdb.Database) *Store {
	return &Store{
		db:         db,
		blockCache: lru.NewCache[common.Hash, *parenttypes.ParentBlock](blockCacheLimit),
	}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetParentState(pointer common.Hash) *parenttypes.ParentStateRecord {
	return parentrawdb.ReadParentState(s.db, pointer)
}

func (s *Store) WriteParentState(pointer common.Hash, rec *parenttypes.ParentStateRecord) {
	parentrawdb.WriteParentState(s.db, pointer, rec)
}

func (s *Store) GetParentBlock(hash common.Hash) *parenttypes.ParentBlock {
	if cached, ok := s.blockCache.Get(hash); ok {
		return cached
	}
	block := parentrawdb.ReadParentBlock(s.db, hash)
	if block != nil {
		s.blockCache.Add(hash, block)
	}
	return block
}

func (s *Store) WriteParentBlock(block *parenttypes.ParentBlock, trees parenttypes.Trees) {
	parentrawdb.WriteParentBlock(s.db, block, trees)
	s.blockCache.Add(block.Header.Hash, block)
}

func (s *Store) GetParentBlockState(hash common.Hash) parenttypes.Trees {
	return parentrawdb.ReadParentBlockState(s.db, hash)
}
