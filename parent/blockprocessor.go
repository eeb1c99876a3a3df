package parent

import (
	parenttypes "github.com/aeternity/hctracker/core/types"
	"github.com/aeternity/hctracker/parent/txdecode"
)

// ProcessBlock implements the block processor contract of spec §4.2: it
// partitions b.Txs into commitments and delegate registrations, builds the
// content-addressed ParentBlock, folds delegate registrations into trees,
// and returns both. It is pure and deterministic: the same (b, trees) pair
// always yields byte-identical output, so reprocessing a block during a
// reorg walk is safe (spec's idempotence requirement).
//
// Recognizer.Classify/Decode are total, so a malformed or unrecognised
// transaction is simply ignored rather than aborting the block.
func ProcessBlock(b *Block, trees parenttypes.Trees, recognizer txdecode.Recognizer) (*parenttypes.ParentBlock, parenttypes.Trees) {
	var commitments []parenttypes.Commitment
	next := trees

	for _, tx := range b.Txs {
		switch recognizer.Classify(tx.Payload) {
		case txdecode.Commitment:
			keyBlockHash, ok := recognizer.DecodeCommitment(tx.Payload)
			if !ok {
				continue
			}
			commitments = append(commitments, parenttypes.Commitment{
				Delegate:          tx.Account,
				CommittedKeyBlock: keyBlockHash,
			})
		case txdecode.Delegate:
			delegate, ok := recognizer.DecodeDelegate(tx.Payload)
			if !ok {
				continue
			}
			next = next.Enter(tx.Account, delegate)
		}
	}

	block := parenttypes.NewParentBlock(b.Hash, b.PrevHash, b.Height, commitments)
	return block, next
}
