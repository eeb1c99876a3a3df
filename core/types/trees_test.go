package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"
)

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func TestTreesEnterDoesNotMutateReceiver(t *testing.T) {
	base := Trees{}
	next := base.Enter(addr(1), addr(2))

	require.Empty(t, base)
	require.Equal(t, addr(2), next[addr(1)])
}

func TestTreesRLPRoundTrip(t *testing.T) {
	trees := Trees{
		addr(1): addr(10),
		addr(2): addr(20),
		addr(3): addr(30),
	}

	enc, err := rlp.EncodeToBytes(trees)
	require.NoError(t, err)

	var out Trees
	require.NoError(t, rlp.DecodeBytes(enc, &out))
	require.Equal(t, trees, out)
}

func TestTreesRLPEncodingIsOrderIndependent(t *testing.T) {
	a := Trees{addr(1): addr(10), addr(2): addr(20)}
	b := Trees{addr(2): addr(20), addr(1): addr(10)}

	encA, err := rlp.EncodeToBytes(a)
	require.NoError(t, err)
	encB, err := rlp.EncodeToBytes(b)
	require.NoError(t, err)

	require.Equal(t, encA, encB)
}

func TestTreesCloneIsIndependent(t *testing.T) {
	original := Trees{addr(1): addr(10)}
	clone := original.Clone()
	clone[addr(2)] = addr(20)

	require.Len(t, original, 1)
	require.Len(t, clone, 2)
}
