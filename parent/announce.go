package parent

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
)

// TipAnnouncement is published exactly once per successful entry into
// synced (spec §6, "announce(from, indicator_hash)").
type TipAnnouncement struct {
	Pointer   common.Hash
	Indicator common.Hash
}

// AnnounceBus is the process-wide announcement bus downstream consumers
// (the "parent manager" of spec §1) poll. It wraps a go-ethereum
// event.Feed/event.SubscriptionScope pair, the same mechanism
// core.BlockChain uses for its own chainHeadFeed.
type AnnounceBus struct {
	feed  event.Feed
	scope event.SubscriptionScope
}

// NewAnnounceBus returns a ready-to-use bus.
func NewAnnounceBus() *AnnounceBus {
	return &AnnounceBus{}
}

// Subscribe registers ch to receive every future TipAnnouncement. Callers
// must call Unsubscribe on the returned subscription when done.
func (b *AnnounceBus) Subscribe(ch chan<- TipAnnouncement) event.Subscription {
	return b.scope.Track(b.feed.Subscribe(ch))
}

// Announce publishes a. It happens-after every WriteParentBlock issued
// during the sync and after WriteParentState (spec §5, ordering
// guarantees), since the caller only invokes it from onEnterSynced, after
// those writes have already completed.
func (b *AnnounceBus) Announce(a TipAnnouncement) {
	b.feed.Send(a)
}

// Close terminates all subscriptions, following the shutdown idiom
// core.BlockChain.Stop uses for its own event feeds.
func (b *AnnounceBus) Close() {
	b.scope.Close()
}
