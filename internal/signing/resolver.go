package signing

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/cardwallet/evm-core/internal/faults"
)

const (
	rawPublicKeyLength          = 64
	compressedPublicKeyLength   = 33
	uncompressedPublicKeyLength = 65
	uncompressedPrefix          = 0x04
)

// NormalizePublicKey brings a public key into raw 64-byte X ‖ Y form.
// Accepts 33-byte compressed, 65-byte 0x04-prefixed uncompressed and raw
// 64-byte keys.
func NormalizePublicKey(pub []byte) ([]byte, error) {
	switch len(pub) {
	case rawPublicKeyLength:
		out := make([]byte, rawPublicKeyLength)
		copy(out, pub)
		return out, nil
	case uncompressedPublicKeyLength:
		if pub[0] != uncompressedPrefix {
			return nil, errors.Errorf("unexpected public key prefix 0x%02x", pub[0])
		}
		out := make([]byte, rawPublicKeyLength)
		copy(out, pub[1:])
		return out, nil
	case compressedPublicKeyLength:
		key, err := crypto.DecompressPubkey(pub)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decompress public key")
		}
		return crypto.FromECDSAPub(key)[1:], nil
	default:
		return nil, errors.Errorf("unsupported public key length %d", len(pub))
	}
}

// PublicKeyAddress derives the account address from a raw 64-byte public
// key: the last 20 bytes of its Keccak-256 hash.
func PublicKeyAddress(rawPub []byte) (common.Address, error) {
	if len(rawPub) != rawPublicKeyLength {
		return common.Address{}, errors.Errorf("raw public key must be %d bytes, got %d", rawPublicKeyLength, len(rawPub))
	}
	return common.BytesToAddress(crypto.Keccak256(rawPub)[12:]), nil
}

// ResolveRecoveryID determines which of the two candidate public keys
// consistent with (digest, r, s) is the expected signer. The recovery math
// itself is chain-agnostic: candidates are tried with the legacy recovery
// values regardless of which mode produced the digest.
//
// Exactly two candidates exist, so this is a fixed two-iteration search.
// When neither matches the result is terminal; an arbitrary guess would be
// rejected by every node.
func ResolveRecoveryID(digest common.Hash, sig RawSignature, expectedPub []byte) (byte, error) {
	expected, err := NormalizePublicKey(expectedPub)
	if err != nil {
		return 0, faults.E(faults.Cryptographic, "signing.ResolveRecoveryID", err)
	}

	candidate := make([]byte, SignatureLength+1)
	copy(candidate, sig[:])

	for recoveryID := byte(0); recoveryID <= 1; recoveryID++ {
		candidate[SignatureLength] = recoveryID

		recovered, err := crypto.Ecrecover(digest[:], candidate)
		if err != nil {
			// This candidate does not yield a valid curve point;
			// the other one may still match.
			continue
		}

		if bytes.Equal(recovered[1:], expected) {
			return recoveryID, nil
		}
	}

	return 0, faults.Errorf(faults.Cryptographic, "signing.ResolveRecoveryID",
		"neither recovery id candidate matches the expected signer")
}
