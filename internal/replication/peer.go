package replication

import "sync"

// Peer is the transport-neutral interface for delivering deltas to one
// subscriber.
type Peer interface {
	// ID returns the unique peer identifier.
	ID() PeerID

	// Send delivers a delta. Must be non-blocking.
	Send(d Delta)

	// Done returns a channel that closes when the peer goes away.
	Done() <-chan struct{}
}

// ChannelPeer is a Peer backed by a buffered Go channel.
// A peer that falls a full buffer behind is closed and marked lagged: a
// dropped delta would desync it, so it must resynchronize from the journal.
type ChannelPeer struct {
	id       PeerID
	deltas   chan Delta
	done     chan struct{}
	doneOnce sync.Once

	mu     sync.Mutex
	lagged bool
}

// NewChannelPeer creates a channel-based peer.
// bufferSize controls how many deltas can be pending before the peer lags.
func NewChannelPeer(id PeerID, bufferSize int) *ChannelPeer {
	if bufferSize < 1 {
		bufferSize = 256
	}
	return &ChannelPeer{
		id:     id,
		deltas: make(chan Delta, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the peer identifier.
func (p *ChannelPeer) ID() PeerID {
	return p.id
}

// Send queues a delta, closing the peer if its buffer is full.
func (p *ChannelPeer) Send(d Delta) {
	select {
	case <-p.done:
		return
	default:
	}

	select {
	case p.deltas <- d:
	default:
		p.mu.Lock()
		p.lagged = true
		p.mu.Unlock()
		p.Close()
	}
}

// Deltas returns the channel to receive deltas from.
func (p *ChannelPeer) Deltas() <-chan Delta {
	return p.deltas
}

// Done returns the done channel.
func (p *ChannelPeer) Done() <-chan struct{} {
	return p.done
}

// Lagged reports whether the peer was closed for falling behind.
func (p *ChannelPeer) Lagged() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lagged
}

// Close marks the peer as done.
// Safe to call multiple times.
func (p *ChannelPeer) Close() {
	p.doneOnce.Do(func() {
		close(p.done)
	})
}
