// Package signing implements the Proposal Signer/Verifier capability
// (component F): computing the canonical hash signed over a
// proposal's data chunks, and signing/verifying it. The scheme is
// secp256k1 with Ethereum-style address derivation, per spec §9
// ("Keccak of uncompressed secp256k1 key").
package signing

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/autonity/emerald/types"
)

// Signer is the capability described in spec §9: sign(bytes) →
// Signature, verify(bytes, signature, public_key) → bool.
type Signer interface {
	Sign(digest []byte) ([]byte, error)
	Verify(digest, signature []byte, publicKey []byte) bool
	Address() common.Address
	PublicKey() []byte // uncompressed SEC1
}

type secp256k1Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	pubkey  []byte
}

// NewSigner loads a secp256k1 key (hex-encoded, no 0x prefix) the way
// a node's validator key is provisioned.
func NewSigner(hexKey string) (Signer, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("signing: parse private key: %w", err)
	}
	return signerFromKey(key), nil
}

func signerFromKey(key *ecdsa.PrivateKey) Signer {
	return &secp256k1Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		pubkey:  crypto.FromECDSAPub(&key.PublicKey),
	}
}

func (s *secp256k1Signer) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		digest = crypto.Keccak256(digest)
	}
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, fmt.Errorf("signing: sign: %w", err)
	}
	return sig, nil
}

func (s *secp256k1Signer) Verify(digest, signature []byte, publicKey []byte) bool {
	if len(digest) != 32 {
		digest = crypto.Keccak256(digest)
	}
	if len(signature) == 65 {
		signature = signature[:64] // drop recovery id for VerifySignature
	}
	return crypto.VerifySignature(publicKey, digest, signature)
}

func (s *secp256k1Signer) Address() common.Address { return s.address }

func (s *secp256k1Signer) PublicKey() []byte { return s.pubkey }

// FinDigest computes Keccak256(height || round || data chunks in
// order), the exact message signed into a stream's Fin part (§4.2).
func FinDigest(height types.Height, round types.Round, chunks [][]byte) []byte {
	h := crypto.NewKeccakState()
	h.Write(height.Bytes())
	var roundBuf [8]byte
	for i := 0; i < 8; i++ {
		roundBuf[i] = byte(int64(round) >> (56 - 8*i))
	}
	h.Write(roundBuf[:])
	for _, c := range chunks {
		h.Write(c)
	}
	var sum common.Hash
	h.Read(sum[:])
	return sum[:]
}
