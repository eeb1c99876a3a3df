package parent

import (
	"github.com/ethereum/go-ethereum/common"
)

// RawTx is a single decoded parent-chain transaction, as handed to the
// block processor by the connector. Payload is the raw transaction payload
// a txdecode.Recognizer classifies and decodes; Account is the sender.
type RawTx struct {
	Account common.Address
	Payload []byte
}

// Block is a parent-chain block as the connector hands it to the tracker.
// It carries just enough to drive the state machine (spec §3's "header:
// (hash, prev_hash, height, ...)") plus the transactions the block
// processor partitions into commitments and delegate registrations.
type Block struct {
	Hash     common.Hash
	PrevHash common.Hash
	Height   uint64
	Txs      []RawTx
}

// OnBlock is invoked by a Connector for every new top block it observes.
// The tracker treats every delivery as untrusted and re-validates height
// and hash continuity itself (spec §4.6).
type OnBlock func(*Block)

// Handle is an opaque connector session, returned by Connect and later
// passed to Disconnect.
type Handle interface{}

// Connector is the capability interface the tracker uses to talk to the
// real parent chain (spec §4.6). It is intentionally small so that tests
// can substitute an in-memory fake (see parent/parenttest) and so that
// production code can substitute parent/ethconnector for any Ethereum-
// family chain, or another adapter entirely, without touching the state
// machine.
type Connector interface {
	// Connect installs onBlock to be invoked for every new parent-chain
	// top block and returns a handle identifying this session.
	Connect(id string, args map[string]string, onBlock OnBlock) (Handle, error)

	// Disconnect tears down a session. Idempotent.
	Disconnect(h Handle) error

	// GetTopBlock returns the hash of the current best tip known to the
	// connector.
	GetTopBlock() (common.Hash, error)

	// GetBlockByHash returns the block for hash. Total on hashes the
	// connector has ever produced; fails cleanly otherwise.
	GetBlockByHash(hash common.Hash) (*Block, error)

	// SendTx submits a transaction to the parent chain. Semantics mirror
	// the parent chain; errors are returned verbatim to tracker callers.
	SendTx(payload []byte) error
}
