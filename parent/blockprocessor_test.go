package parent

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	parenttypes "github.com/aeternity/hctracker/core/types"
	"github.com/aeternity/hctracker/parent/txdecode"
)

func TestProcessBlockExtractsCommitmentsInOrder(t *testing.T) {
	keyBlockA := common.Hash{0xA}
	keyBlockB := common.Hash{0xB}
	sender1 := common.Address{1}
	sender2 := common.Address{2}

	b := &Block{
		Hash:     common.Hash{0xC},
		PrevHash: common.Hash{0xD},
		Height:   3,
		Txs: []RawTx{
			{Account: sender1, Payload: txdecode.EncodeCommitment(keyBlockA)},
			{Account: sender2, Payload: []byte("garbage")},
			{Account: sender2, Payload: txdecode.EncodeCommitment(keyBlockB)},
		},
	}

	block, trees := ProcessBlock(b, parenttypes.Trees{}, txdecode.RLPRecognizer{})

	require.Len(t, block.Commitments, 2)
	require.Equal(t, sender1, block.Commitments[0].Delegate)
	require.Equal(t, keyBlockA, block.Commitments[0].CommittedKeyBlock)
	require.Equal(t, sender2, block.Commitments[1].Delegate)
	require.Equal(t, keyBlockB, block.Commitments[1].CommittedKeyBlock)
	require.Empty(t, trees)
}

func TestProcessBlockFoldsDelegateRegistrations(t *testing.T) {
	account := common.Address{1}
	delegate := common.Address{2}

	b := &Block{
		Hash:   common.Hash{0xC},
		Height: 1,
		Txs: []RawTx{
			{Account: account, Payload: txdecode.EncodeDelegate(delegate)},
		},
	}

	_, trees := ProcessBlock(b, parenttypes.Trees{}, txdecode.RLPRecognizer{})

	require.Equal(t, delegate, trees[account])
}

func TestProcessBlockIsDeterministic(t *testing.T) {
	b := &Block{
		Hash:   common.Hash{0xC},
		Height: 1,
		Txs: []RawTx{
			{Account: common.Address{1}, Payload: txdecode.EncodeCommitment(common.Hash{1})},
			{Account: common.Address{2}, Payload: txdecode.EncodeDelegate(common.Address{3})},
		},
	}

	block1, trees1 := ProcessBlock(b, parenttypes.Trees{}, txdecode.RLPRecognizer{})
	block2, trees2 := ProcessBlock(b, parenttypes.Trees{}, txdecode.RLPRecognizer{})

	require.Equal(t, *block1, *block2)
	require.Equal(t, trees1, trees2)
}
