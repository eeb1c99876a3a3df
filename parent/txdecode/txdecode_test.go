package txdecode

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestRLPRecognizerCommitmentRoundTrip(t *testing.T) {
	r := RLPRecognizer{}
	keyBlock := common.Hash{0x42}

	payload := EncodeCommitment(keyBlock)

	require.Equal(t, Commitment, r.Classify(payload))
	got, ok := r.DecodeCommitment(payload)
	require.True(t, ok)
	require.Equal(t, keyBlock, got)

	_, ok = r.DecodeDelegate(payload)
	require.False(t, ok)
}

func TestRLPRecognizerDelegateRoundTrip(t *testing.T) {
	r := RLPRecognizer{}
	delegate := common.Address{0x7}

	payload := EncodeDelegate(delegate)

	require.Equal(t, Delegate, r.Classify(payload))
	got, ok := r.DecodeDelegate(payload)
	require.True(t, ok)
	require.Equal(t, delegate, got)
}

func TestRLPRecognizerIsTotalOnGarbage(t *testing.T) {
	r := RLPRecognizer{}
	garbage := [][]byte{
		nil,
		{},
		{0xff, 0xff, 0xff},
		[]byte("not rlp at all, just bytes"),
	}

	for _, payload := range garbage {
		require.NotPanics(t, func() {
			require.Equal(t, Other, r.Classify(payload))
			_, ok := r.DecodeCommitment(payload)
			require.False(t, ok)
			_, ok = r.DecodeDelegate(payload)
			require.False(t, ok)
		})
	}
}
