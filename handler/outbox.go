package handler

import (
	"context"

	"github.com/autonity/emerald/types"
)

// ChannelOutbox is the default Outbox: a buffered channel handed to
// whatever owns the network/gossip transport, mirroring the
// channel-based Inbox consensus drives the handler through. Publish
// blocks until the channel accepts the message or ctx is done; a
// message not accepted before ctx is done is discarded and not resent.
type ChannelOutbox struct {
	out chan<- types.StreamMessage
}

// NewChannelOutbox wraps a send-only channel as an Outbox.
func NewChannelOutbox(out chan<- types.StreamMessage) *ChannelOutbox {
	return &ChannelOutbox{out: out}
}

func (o *ChannelOutbox) Publish(ctx context.Context, msg types.StreamMessage) {
	select {
	case o.out <- msg:
	case <-ctx.Done():
	}
}
