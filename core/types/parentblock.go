// Package types defines the content-addressed records the tracker derives
// from parent-chain blocks and persists in the local store.
package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// ParentHeader is the content-addressed header of a derived parent block.
type ParentHeader struct {
	Hash             common.Hash   `json:"hash"       gencodec:"required"`
	PrevHash         common.Hash   `json:"prevHash"   gencodec:"required"`
	Height           uint64        `json:"height"     gencodec:"required"`
	CommitmentHashes []common.Hash `json:"commitmentHashes"`
}

// Commitment is a decoded (delegate_account, committed_keyblock_hash) pair
// extracted from a commitment transaction on the parent chain.
type Commitment struct {
	Delegate          common.Address `json:"delegate"`
	CommittedKeyBlock common.Hash    `json:"committedKeyBlock"`
}

// Hash returns the content hash of a single commitment, used to populate
// ParentHeader.CommitmentHashes in transaction order.
func (c Commitment) Hash() common.Hash {
	return hashCommitment(c)
}

// ParentBlock is the full derived record for one parent-chain block: its
// header plus the commitments found in it. The accompanying delegate-tree
// snapshot is stored separately (ParentBlockState) so that it can be
// addressed by hash independent of the block body.
type ParentBlock struct {
	Header      ParentHeader `json:"header"`
	Commitments []Commitment `json:"commitments"`
}

// NewParentBlock builds a ParentBlock from a hash/prevHash/height triple and
// the commitments found in the block, deriving the header's commitment hash
// list in the same order the commitments were extracted (spec P7).
func NewParentBlock(hash, prevHash common.Hash, height uint64, commitments []Commitment) *ParentBlock {
	if commitments == nil {
		commitments = []Commitment{}
	}
	hashes := make([]common.Hash, len(commitments))
	for i, c := range commitments {
		hashes[i] = c.Hash()
	}
	return &ParentBlock{
		Header: ParentHeader{
			Hash:             hash,
			PrevHash:         prevHash,
			Height:           height,
			CommitmentHashes: hashes,
		},
		Commitments: commitments,
	}
}
