package parent

import (
	"github.com/ethereum/go-ethereum/common"

	parenttypes "github.com/aeternity/hctracker/core/types"
)

// The tracker's mailbox carries one of the following request types. Internal
// added_block continuation (spec §4.1) is implemented as a plain Go loop
// inside runFetched/runMigrated rather than a mailbox round-trip (spec §9,
// "a loop is usually clearer and avoids mailbox pressure during deep
// walks"), so it has no event type here.
//
// Every external request carries its own reply channel, following the
// reply-channel idiom used throughout the pack's channel-driven event
// loops (e.g. the rollup driver's hashAndErrorChannel requests).
type (
	publishRequest struct {
		block *Block
	}

	sendTxRequest struct {
		payload []byte
		reply   chan<- SendTxResult
	}

	processBlockRequest struct {
		hash  common.Hash
		reply chan<- *parenttypes.ParentBlock
	}

	popRequest struct {
		reply chan<- PopResult
	}
)

// SendTxResult is the reply to a SendTx request.
type SendTxResult struct {
	Err error
}

// PopResult is the reply to a Pop request: either the head of the queue, or
// Empty set when the queue has nothing to drain (spec §6, "{value,
// parent_block} | empty").
type PopResult struct {
	Block *parenttypes.ParentBlock
	Empty bool
}
