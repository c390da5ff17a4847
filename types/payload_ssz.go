package types

import (
	"errors"

	ssz "github.com/ferranbt/fastssz"
)

// Withdrawal mirrors the Engine-API V3 withdrawal entry.
type Withdrawal struct {
	Index          uint64
	ValidatorIndex uint64
	Address        [20]byte
	Amount         uint64
}

// ExecutionPayload is the Engine-API V3 block, SSZ-encoded as the
// Value extension (§3). A header-only instance (Transactions and
// Withdrawals empty) is what gets persisted to decided_block_headers
// for storage economy (§4.3); a full instance goes to
// decided_block_data.
type ExecutionPayload struct {
	ParentHash    [32]byte
	FeeRecipient  [20]byte
	StateRoot     [32]byte
	ReceiptsRoot  [32]byte
	LogsBloom     [256]byte
	PrevRandao    [32]byte
	BlockNumber   uint64
	GasLimit      uint64
	GasUsed       uint64
	Timestamp     uint64
	ExtraData     []byte
	BaseFeePerGas [32]byte
	BlockHash     [32]byte
	Transactions  [][]byte
	Withdrawals   []Withdrawal
	BlobGasUsed   uint64
	ExcessBlobGas uint64
}

// maxExtraDataBytes and maxTransactions/maxWithdrawals are the
// consensus-spec limits of the SSZ variable-length lists, as used by
// go-ethereum's own beacon/engine SSZ bindings. MarshalSSZTo and
// UnmarshalSSZ below do not check lengths against them.
const (
	maxExtraDataBytes = 32
	maxTransactions   = 1 << 20
	maxBytesPerTx     = 1 << 30
	maxWithdrawals    = 16
)

var (
	errInvalidLength = errors.New("types: invalid ssz encoding length")
)

// MarshalSSZ implements ssz.Marshaler in the hand-written style
// fastssz's sszgen produces: fixed fields first, then variable
// fields at their recorded offsets.
func (p *ExecutionPayload) MarshalSSZ() ([]byte, error) {
	buf := make([]byte, 0, p.SizeSSZ())
	return p.MarshalSSZTo(buf)
}

func (p *ExecutionPayload) SizeSSZ() int {
	size := 32 + 20 + 32 + 32 + 256 + 32 + 8 + 8 + 8 + 8 + 4 + len(p.ExtraData) + 32 + 32 + 4 + 4 + 8 + 8
	size += 4 * len(p.Transactions)
	for _, tx := range p.Transactions {
		size += len(tx)
	}
	size += 44 * len(p.Withdrawals) // 8+8+20+8
	return size
}

func (p *ExecutionPayload) MarshalSSZTo(buf []byte) ([]byte, error) {
	offset := 528 // size of the fixed part: all fixed-size fields plus the three offset words
	buf = append(buf, p.ParentHash[:]...)
	buf = append(buf, p.FeeRecipient[:]...)
	buf = append(buf, p.StateRoot[:]...)
	buf = append(buf, p.ReceiptsRoot[:]...)
	buf = append(buf, p.LogsBloom[:]...)
	buf = append(buf, p.PrevRandao[:]...)
	buf = ssz.MarshalUint64(buf, p.BlockNumber)
	buf = ssz.MarshalUint64(buf, p.GasLimit)
	buf = ssz.MarshalUint64(buf, p.GasUsed)
	buf = ssz.MarshalUint64(buf, p.Timestamp)
	buf = ssz.WriteOffset(buf, offset)
	offset += len(p.ExtraData)
	buf = append(buf, p.BaseFeePerGas[:]...)
	buf = append(buf, p.BlockHash[:]...)
	buf = ssz.WriteOffset(buf, offset)
	txsSize := 4 * len(p.Transactions)
	for _, tx := range p.Transactions {
		txsSize += len(tx)
	}
	offset += txsSize
	buf = ssz.WriteOffset(buf, offset)
	buf = ssz.MarshalUint64(buf, p.BlobGasUsed)
	buf = ssz.MarshalUint64(buf, p.ExcessBlobGas)

	buf = append(buf, p.ExtraData...)

	txOffset := 4 * len(p.Transactions)
	for _, tx := range p.Transactions {
		buf = ssz.WriteOffset(buf, txOffset)
		txOffset += len(tx)
	}
	for _, tx := range p.Transactions {
		buf = append(buf, tx...)
	}

	for _, w := range p.Withdrawals {
		buf = ssz.MarshalUint64(buf, w.Index)
		buf = ssz.MarshalUint64(buf, w.ValidatorIndex)
		buf = append(buf, w.Address[:]...)
		buf = ssz.MarshalUint64(buf, w.Amount)
	}
	return buf, nil
}

// UnmarshalSSZ implements ssz.Unmarshaler, the inverse of
// MarshalSSZTo.
func (p *ExecutionPayload) UnmarshalSSZ(buf []byte) error {
	if len(buf) < 528 {
		return errInvalidLength
	}
	var off int
	copy(p.ParentHash[:], buf[0:32])
	copy(p.FeeRecipient[:], buf[32:52])
	copy(p.StateRoot[:], buf[52:84])
	copy(p.ReceiptsRoot[:], buf[84:116])
	copy(p.LogsBloom[:], buf[116:372])
	copy(p.PrevRandao[:], buf[372:404])
	p.BlockNumber = ssz.UnmarshallUint64(buf[404:412])
	p.GasLimit = ssz.UnmarshallUint64(buf[412:420])
	p.GasUsed = ssz.UnmarshallUint64(buf[420:428])
	p.Timestamp = ssz.UnmarshallUint64(buf[428:436])
	extraOffset := ssz.ReadOffset(buf[436:440])
	off = 440
	copy(p.BaseFeePerGas[:], buf[off:off+32])
	off += 32
	copy(p.BlockHash[:], buf[off:off+32])
	off += 32
	txsOffset := ssz.ReadOffset(buf[off : off+4])
	off += 4
	withdrawalsOffset := ssz.ReadOffset(buf[off : off+4])
	off += 4
	p.BlobGasUsed = ssz.UnmarshallUint64(buf[off : off+8])
	off += 8
	p.ExcessBlobGas = ssz.UnmarshallUint64(buf[off : off+8])

	if extraOffset > uint64(len(buf)) || txsOffset > uint64(len(buf)) || withdrawalsOffset > uint64(len(buf)) {
		return errInvalidLength
	}
	p.ExtraData = append([]byte{}, buf[extraOffset:txsOffset]...)

	txSection := buf[txsOffset:withdrawalsOffset]
	p.Transactions = nil
	if len(txSection) > 0 {
		firstOffset := ssz.ReadOffset(txSection[0:4])
		count := int(firstOffset) / 4
		offsets := make([]int, count+1)
		offsets[0] = int(firstOffset)
		for i := 1; i < count; i++ {
			offsets[i] = int(ssz.ReadOffset(txSection[i*4 : i*4+4]))
		}
		offsets[count] = len(txSection)
		for i := 0; i < count; i++ {
			p.Transactions = append(p.Transactions, append([]byte{}, txSection[offsets[i]:offsets[i+1]]...))
		}
	}

	wSection := buf[withdrawalsOffset:]
	p.Withdrawals = nil
	for i := 0; i+44 <= len(wSection); i += 44 {
		var w Withdrawal
		w.Index = ssz.UnmarshallUint64(wSection[i : i+8])
		w.ValidatorIndex = ssz.UnmarshallUint64(wSection[i+8 : i+16])
		copy(w.Address[:], wSection[i+16:i+36])
		w.Amount = ssz.UnmarshallUint64(wSection[i+36 : i+44])
		p.Withdrawals = append(p.Withdrawals, w)
	}
	return nil
}

// Header returns a copy with transactions and withdrawals stripped,
// the form persisted to decided_block_headers (§4.3 header/body
// split).
func (p ExecutionPayload) Header() ExecutionPayload {
	h := p
	h.Transactions = nil
	h.Withdrawals = nil
	return h
}

// WithBody returns a copy of the header payload merged with a body's
// transactions and withdrawals, reconstructing a full payload from a
// stored header and an engine-supplied body (§4.3, P7 scenario).
func (p ExecutionPayload) WithBody(transactions [][]byte, withdrawals []Withdrawal) ExecutionPayload {
	full := p
	full.Transactions = transactions
	full.Withdrawals = withdrawals
	return full
}
