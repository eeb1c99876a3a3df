// Package txdecode classifies and decodes parent-chain transaction
// payloads into commitments and delegate registrations. It is the
// pluggable collaborator spec.md §1 calls out as external ("commitment/
// delegate binary decoding helpers"); this package supplies the default,
// total implementation the tracker ships with.
package txdecode

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// Kind classifies a transaction payload, replacing the is_commitment/
// is_delegate predicate pair of spec.md §4.2 with a single tagged-variant
// decode, per the design note in spec.md §9 ("prefer the latter to
// eliminate double-parsing").
type Kind uint8

const (
	Other Kind = iota
	Commitment
	Delegate
)

// commitmentPayload is the RLP shape of a recognised commitment
// transaction payload: a tag byte followed by the committed key-block
// hash.
type commitmentPayload struct {
	Tag          uint8
	KeyBlockHash common.Hash
}

// delegatePayload is the RLP shape of a recognised delegate transaction
// payload: a tag byte followed by the delegate address being registered.
type delegatePayload struct {
	Tag      uint8
	Delegate common.Address
}

const (
	tagCommitment uint8 = 1
	tagDelegate   uint8 = 2
)

// Recognizer classifies a raw transaction payload and, for recognised
// kinds, decodes it. Classify and Decode must be total: malformed or
// unrecognised payloads are reported via Other/ok=false, never a panic
// (spec §4.2, "Recognition predicates must be total").
type Recognizer interface {
	Classify(payload []byte) Kind
	DecodeCommitment(payload []byte) (keyBlockHash common.Hash, ok bool)
	DecodeDelegate(payload []byte) (delegate common.Address, ok bool)
}

// RLPRecognizer is the default Recognizer: payloads are RLP-encoded
// structs tagged with a leading byte, giving each domain value its own
// RLP encode/decode pair the way go-ethereum's core/types does.
type RLPRecognizer struct{}

// Classify reports which kind, if any, payload decodes as. It never
// panics: a payload that fails to decode as either shape is Other.
func (RLPRecognizer) Classify(payload []byte) Kind {
	if _, ok := (RLPRecognizer{}).DecodeCommitment(payload); ok {
		return Commitment
	}
	if _, ok := (RLPRecognizer{}).DecodeDelegate(payload); ok {
		return Delegate
	}
	return Other
}

func (RLPRecognizer) DecodeCommitment(payload []byte) (common.Hash, bool) {
	var p commitmentPayload
	if err := rlp.DecodeBytes(payload, &p); err != nil || p.Tag != tagCommitment {
		return common.Hash{}, false
	}
	return p.KeyBlockHash, true
}

func (RLPRecognizer) DecodeDelegate(payload []byte) (common.Address, bool) {
	var p delegatePayload
	if err := rlp.DecodeBytes(payload, &p); err != nil || p.Tag != tagDelegate {
		return common.Address{}, false
	}
	return p.Delegate, true
}

// EncodeCommitment builds the wire payload for a commitment transaction,
// the inverse of DecodeCommitment. Used by tests to synthesize fixture
// blocks.
func EncodeCommitment(keyBlockHash common.Hash) []byte {
	return mustEncode(commitmentPayload{Tag: tagCommitment, KeyBlockHash: keyBlockHash})
}

// EncodeDelegate builds the wire payload for a delegate transaction, the
// inverse of DecodeDelegate.
func EncodeDelegate(delegate common.Address) []byte {
	return mustEncode(delegatePayload{Tag: tagDelegate, Delegate: delegate})
}

func mustEncode(v interface{}) []byte {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		panic(err)
	}
	return data
}
