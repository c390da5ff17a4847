package streaming

import (
	"container/heap"
	"sync"

	"github.com/autonity/emerald/types"
)

// PeerID identifies the remote end of an inbound stream. The network
// layer that produces these is out of scope (§1); this is left as an
// opaque, comparable identifier.
type PeerID string

// CompletedStream is the result of a fully re-assembled proposal
// stream: parts ordered by ascending sequence (§4.2 "Ordering
// guarantees").
type CompletedStream struct {
	Peer     PeerID
	StreamID types.StreamID
	Init     types.PartInit
	Parts    []types.ProposalPart // ordered, Init excluded
}

type seqEntry struct {
	sequence uint32
	message  types.StreamMessage
}

// seqHeap is a min-heap by sequence number, the ordering mechanism
// described in §4.2 ("A min-heap of messages keyed by sequence").
type seqHeap []seqEntry

func (h seqHeap) Len() int            { return len(h) }
func (h seqHeap) Less(i, j int) bool  { return h[i].sequence < h[j].sequence }
func (h seqHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *seqHeap) Push(x interface{}) { *h = append(*h, x.(seqEntry)) }
func (h *seqHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type streamBuffer struct {
	mu            sync.Mutex
	buffer        seqHeap
	seen          map[uint32]bool
	init          *types.PartInit
	finReceived   bool
	totalExpected *uint32 // known once the terminator arrives
}

type streamKey struct {
	peer PeerID
	id   types.StreamID
}

// Reassembler holds one streamBuffer per (peer, stream_id), per §4.2
// "Inbound". It is the structural adaptation of the teacher's
// MsgStore: a guarded map keyed by protocol coordinates, buffering
// until a completion predicate holds.
type Reassembler struct {
	mu      sync.Mutex
	streams map[streamKey]*streamBuffer
}

func NewReassembler() *Reassembler {
	return &Reassembler{streams: make(map[streamKey]*streamBuffer)}
}

func (r *Reassembler) bufferFor(key streamKey) *streamBuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.streams[key]
	if !ok {
		b = &streamBuffer{seen: make(map[uint32]bool)}
		r.streams[key] = b
	}
	return b
}

func (r *Reassembler) release(key streamKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.streams, key)
}

// AddPart feeds one inbound StreamMessage. It returns (nil, nil) while
// the stream is incomplete, and the assembled result once the
// completion predicate first holds (§4.2: "init_seen ∧ fin_received ∧
// buffer.len() == total_expected"). Duplicate sequences from the same
// peer are ignored (idempotent), per the edge cases in §4.2.
func (r *Reassembler) AddPart(peer PeerID, msg types.StreamMessage) (*CompletedStream, error) {
	key := streamKey{peer: peer, id: msg.StreamID}
	buf := r.bufferFor(key)

	buf.mu.Lock()
	defer buf.mu.Unlock()

	if buf.seen[msg.Sequence] {
		return nil, nil
	}
	buf.seen[msg.Sequence] = true

	if msg.Terminator {
		total := msg.Sequence + 1
		buf.totalExpected = &total
	} else {
		heap.Push(&buf.buffer, seqEntry{sequence: msg.Sequence, message: msg})
		if msg.Part != nil && msg.Part.Init != nil {
			buf.init = msg.Part.Init
		}
		if msg.Part != nil && msg.Part.Fin != nil {
			buf.finReceived = true
		}
	}

	complete := buf.init != nil && buf.finReceived && buf.totalExpected != nil &&
		uint32(len(buf.buffer))+1 == *buf.totalExpected // +1 for the terminator, which never enters buffer

	if !complete {
		return nil, nil
	}

	ordered := make([]types.ProposalPart, 0, buf.buffer.Len())
	sorted := make(seqHeap, buf.buffer.Len())
	copy(sorted, buf.buffer)
	for sorted.Len() > 0 {
		entry := heap.Pop(&sorted).(seqEntry)
		if entry.message.Part != nil && entry.message.Part.Init != nil {
			continue // Init is surfaced separately as CompletedStream.Init
		}
		ordered = append(ordered, *entry.message.Part)
	}

	result := &CompletedStream{
		Peer:     peer,
		StreamID: msg.StreamID,
		Init:     *buf.init,
		Parts:    ordered,
	}
	r.release(key)
	return result, nil
}
