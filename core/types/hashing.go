package types

import (
	"hash"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// hasherPool holds LegacyKeccak256 hashers for rlpHash, following the same
// pooling trick go-ethereum's core/types package uses to avoid reallocating
// a hasher for every header/commitment hash computed.
var hasherPool = sync.Pool{
	New: func() interface{} { return sha3.NewLegacyKeccak256() },
}

// rlpHash encodes x and hashes the encoding, mirroring
// github.com/ethereum/go-ethereum/core/types.rlpHash.
func rlpHash(x interface{}) (h common.Hash) {
	sha := hasherPool.Get().(hash.Hash)
	defer hasherPool.Put(sha)
	sha.Reset()
	rlp.Encode(sha, x)
	sha.Sum(h[:0])
	return h
}

func hashCommitment(c Commitment) common.Hash {
	return rlpHash(&c)
}
