// Package streaming implements component B: chunking an outbound
// proposal into ordered StreamMessage parts, and re-assembling
// inbound parts per (peer, stream) until a stream completes (§4.2).
package streaming

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/autonity/emerald/signing"
	"github.com/autonity/emerald/types"
)

// BuildOutboundStream produces the ordered StreamMessage sequence for
// a locally-proposed value: Init, N Data chunks, Fin, terminator
// (§4.2 "Outbound").
func BuildOutboundStream(id types.StreamID, height types.Height, round, polRound types.Round, proposer common.Address, value types.Value, signer signing.Signer) ([]types.StreamMessage, error) {
	chunks := value.Chunks(types.DefaultChunkSize)

	var seq uint32
	messages := make([]types.StreamMessage, 0, len(chunks)+3)

	messages = append(messages, types.NewPartMessage(id, seq, types.NewInitPart(height, round, polRound, proposer)))
	seq++

	for _, chunk := range chunks {
		messages = append(messages, types.NewPartMessage(id, seq, types.NewDataPart(chunk)))
		seq++
	}

	digest := signing.FinDigest(height, round, chunks)
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	messages = append(messages, types.NewPartMessage(id, seq, types.NewFinPart(sig)))
	seq++

	messages = append(messages, types.NewTerminatorMessage(id, seq))
	return messages, nil
}
