package signing

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// KeyRef identifies a key slot on the card. Opaque to this package; the
// transport layer knows how to map it onto the secure element.
type KeyRef string

// CardSigner is the hardware signing device. It produces raw secp256k1
// signatures over opaque 32-byte digests and has no notion of chains or
// transaction formats. It never exposes a private key or recovery bit.
//
// SignHash may block for a human-timescale duration (physical card tap,
// access-code entry); implementations must honor ctx cancellation and
// return ctx.Err() when aborted.
type CardSigner interface {
	// PublicKey returns the public key for the referenced slot in any
	// standard encoding: 33-byte compressed, 64-byte raw or 65-byte
	// uncompressed with the 0x04 prefix.
	PublicKey(ctx context.Context, key KeyRef) ([]byte, error)

	// SignHash signs the digest and returns r ‖ s with no recovery
	// information.
	SignHash(ctx context.Context, key KeyRef, digest common.Hash) (RawSignature, error)
}
