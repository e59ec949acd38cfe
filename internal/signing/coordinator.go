package signing

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/cardwallet/evm-core/internal/faults"
	"github.com/cardwallet/evm-core/internal/metrics"
)

// Coordinator computes signing hashes and drives the card. The card is a
// single physical resource: exactly one signing operation may be
// outstanding at a time, a second request waits until the first completes,
// fails or is cancelled.
//
// The hash mode is fixed at construction and threads through both the hash
// computation and the later version-byte formula, so the two cannot be
// mixed.
type Coordinator struct {
	signer CardSigner
	mode   Mode

	// slot is the one-outstanding-signature semaphore.
	slot chan struct{}
}

// NewCoordinator binds a card signer to an explicit hash mode. The mode is
// a deployment policy choice and is never auto-detected.
func NewCoordinator(signer CardSigner, mode Mode) (*Coordinator, error) {
	if signer == nil {
		return nil, errors.New("nil card signer")
	}
	if !mode.valid() {
		return nil, errors.Errorf("invalid signing mode %d", mode)
	}
	return &Coordinator{
		signer: signer,
		mode:   mode,
		slot:   make(chan struct{}, 1),
	}, nil
}

// Mode returns the configured hash mode. Assembly must use the same value.
func (c *Coordinator) Mode() Mode {
	return c.mode
}

// SignResult pairs the digest that was signed with the card's signature, so
// that recovery-id resolution runs against exactly the signed bytes.
type SignResult struct {
	Digest    common.Hash
	Signature RawSignature
}

// Sign computes the signing hash for the transaction and hands it to the
// card. Blocks while another signature is outstanding; cancelling ctx while
// waiting or while the card interaction is in flight discards the attempt
// with no side effects.
func (c *Coordinator) Sign(ctx context.Context, key KeyRef, tx *UnsignedTx, chainID int64) (*SignResult, error) {
	select {
	case c.slot <- struct{}{}:
		defer func() { <-c.slot }()
	case <-ctx.Done():
		return nil, faults.E(faults.Cancelled, "signing.Sign", ctx.Err())
	}

	digest, err := SigningHash(tx, c.mode, chainID)
	if err != nil {
		return nil, faults.E(faults.Cryptographic, "signing.SigningHash", err)
	}

	log.Debug().
		Str("mode", c.mode.String()).
		Int64("chain_id", chainID).
		Str("digest", digest.Hex()).
		Msg("Requesting card signature")

	started := time.Now()
	sig, err := c.signer.SignHash(ctx, key, digest)
	metrics.SignDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, faults.E(faults.Cancelled, "signing.Sign", err)
		}
		return nil, faults.E(faults.Cryptographic, "signing.Sign", errors.Wrap(err, "card signing failed"))
	}

	return &SignResult{Digest: digest, Signature: sig}, nil
}
