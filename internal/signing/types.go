// Package signing computes transaction signing hashes, drives the external
// card signer, resolves recovery ids and assembles the final RLP-encoded
// transaction. The card only ever sees an opaque 32-byte digest; everything
// chain-specific happens here.
package signing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Mode selects how the signing hash binds to a chain. The same Mode value
// governs both the hash tuple and the final version-byte formula; it is
// fixed once per Coordinator so the two can never diverge. The zero value
// is invalid and rejected everywhere, so the mode cannot be silently
// omitted.
type Mode uint8

const (
	// ModeLegacy hashes the 6-tuple without a chain id and uses
	// v = 27 + recovery id. No replay protection across chains.
	ModeLegacy Mode = iota + 1

	// ModeEIP155 folds the chain id into the hashed 9-tuple and uses
	// v = chainID*2 + 35 + recovery id.
	ModeEIP155
)

// ParseMode maps the configuration strings to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "legacy":
		return ModeLegacy, nil
	case "eip155":
		return ModeEIP155, nil
	default:
		return 0, errors.Errorf("unknown signing mode %q (want legacy or eip155)", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeLegacy:
		return "legacy"
	case ModeEIP155:
		return "eip155"
	default:
		return "invalid"
	}
}

func (m Mode) valid() bool {
	return m == ModeLegacy || m == ModeEIP155
}

const (
	legacyVersionBase = 27
	eip155VersionBase = 35
)

// VersionByte computes the transaction v value for the resolved recovery id
// under this mode. Must only be called with the mode that produced the
// signing hash.
func (m Mode) VersionByte(chainID int64, recoveryID byte) (*big.Int, error) {
	if recoveryID > 1 {
		return nil, errors.Errorf("recovery id must be 0 or 1, got %d", recoveryID)
	}
	switch m {
	case ModeLegacy:
		return big.NewInt(legacyVersionBase + int64(recoveryID)), nil
	case ModeEIP155:
		if chainID <= 0 {
			return nil, errors.Errorf("eip155 mode requires a positive chain id, got %d", chainID)
		}
		v := new(big.Int).SetInt64(chainID)
		v.Mul(v, big.NewInt(2))
		v.Add(v, big.NewInt(eip155VersionBase+int64(recoveryID)))
		return v, nil
	default:
		return nil, errors.Errorf("invalid signing mode %d", m)
	}
}

// UnsignedTx is a fully parameterized transaction waiting for a signature.
// Payload is empty for native transfers and carries the ABI-encoded
// transfer call for tokens.
type UnsignedTx struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       common.Address
	Value    *big.Int
	Data     []byte
}

// SignatureLength is the raw card signature size: 32-byte r followed by
// 32-byte s, no recovery information.
const SignatureLength = 64

// RawSignature is the card's output, exactly r ‖ s.
type RawSignature [SignatureLength]byte

// ParseRawSignature validates the exact 64-byte length.
func ParseRawSignature(b []byte) (RawSignature, error) {
	var sig RawSignature
	if len(b) != SignatureLength {
		return sig, errors.Errorf("raw signature must be %d bytes, got %d", SignatureLength, len(b))
	}
	copy(sig[:], b)
	return sig, nil
}

// R returns the signature's r component as a big integer.
func (s RawSignature) R() *big.Int {
	return new(big.Int).SetBytes(s[:32])
}

// S returns the signature's s component as a big integer.
func (s RawSignature) S() *big.Int {
	return new(big.Int).SetBytes(s[32:])
}
