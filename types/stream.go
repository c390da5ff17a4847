package types

import (
	"errors"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// StreamMessage is the outer envelope published on the network
// channel for a proposal stream: a sequenced, stream-identified
// carrier of either a ProposalPart or the stream terminator (§3, §4.2
// invariant I6: exactly one Init, N Data, one Fin, one terminator).
type StreamMessage struct {
	StreamID   StreamID
	Sequence   uint32
	Part       *ProposalPart // non-nil when this carries a part
	Terminator bool          // true for the trailing terminator message
}

func NewPartMessage(id StreamID, seq uint32, part ProposalPart) StreamMessage {
	return StreamMessage{StreamID: id, Sequence: seq, Part: &part}
}

func NewTerminatorMessage(id StreamID, seq uint32) StreamMessage {
	return StreamMessage{StreamID: id, Sequence: seq, Terminator: true}
}

type streamContentKind uint8

const (
	streamContentPart streamContentKind = iota
	streamContentTerminator
)

var errEmptyStreamMessage = errors.New("types: empty StreamMessage content")

func (m StreamMessage) EncodeRLP(w io.Writer) error {
	if m.Terminator {
		return rlp.Encode(w, []interface{}{m.StreamID, m.Sequence, uint8(streamContentTerminator), []byte{}})
	}
	if m.Part == nil {
		return errEmptyStreamMessage
	}
	var buf []byte
	var err error
	if buf, err = rlp.EncodeToBytes(*m.Part); err != nil {
		return err
	}
	return rlp.Encode(w, []interface{}{m.StreamID, m.Sequence, uint8(streamContentPart), buf})
}

func (m *StreamMessage) DecodeRLP(stream *rlp.Stream) error {
	if _, err := stream.List(); err != nil {
		return err
	}
	if err := stream.Decode(&m.StreamID); err != nil {
		return err
	}
	if err := stream.Decode(&m.Sequence); err != nil {
		return err
	}
	var kind uint8
	if err := stream.Decode(&kind); err != nil {
		return err
	}
	var raw []byte
	if err := stream.Decode(&raw); err != nil {
		return err
	}
	switch streamContentKind(kind) {
	case streamContentTerminator:
		m.Terminator = true
		m.Part = nil
	case streamContentPart:
		var part ProposalPart
		if err := rlp.DecodeBytes(raw, &part); err != nil {
			return err
		}
		m.Terminator = false
		m.Part = &part
	default:
		return errors.New("types: unknown stream content kind")
	}
	return stream.ListEnd()
}
