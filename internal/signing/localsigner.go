package signing

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// LocalSigner is an in-memory CardSigner for development and tests. It
// behaves exactly like the card from the pipeline's point of view: digest
// in, r ‖ s out, recovery bit discarded.
type LocalSigner struct {
	key *ecdsa.PrivateKey
}

// NewLocalSigner wraps an existing secp256k1 key.
func NewLocalSigner(key *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{key: key}
}

// NewLocalSignerFromHex parses a hex-encoded private key (no 0x prefix).
func NewLocalSignerFromHex(hexKey string) (*LocalSigner, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}
	return &LocalSigner{key: key}, nil
}

// Address returns the signer's account address.
func (s *LocalSigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// PublicKey returns the 65-byte uncompressed public key.
func (s *LocalSigner) PublicKey(_ context.Context, _ KeyRef) ([]byte, error) {
	return crypto.FromECDSAPub(&s.key.PublicKey), nil
}

// SignHash signs the digest and strips the recovery byte, mirroring what
// the card returns.
func (s *LocalSigner) SignHash(ctx context.Context, _ KeyRef, digest common.Hash) (RawSignature, error) {
	if err := ctx.Err(); err != nil {
		return RawSignature{}, err
	}

	sig, err := crypto.Sign(digest[:], s.key)
	if err != nil {
		return RawSignature{}, errors.Wrap(err, "failed to sign digest")
	}

	return ParseRawSignature(sig[:SignatureLength])
}
