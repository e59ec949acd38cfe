package signing_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwallet/evm-core/internal/faults"
	"github.com/cardwallet/evm-core/internal/signing"
)

func signSample(t *testing.T, mode signing.Mode, chainID int64) (*signingFixture, signing.RawSignature) {
	t.Helper()

	fx := newSigningFixture(t)
	digest, err := signing.SigningHash(sampleTx(), mode, chainID)
	require.NoError(t, err)

	full, err := crypto.Sign(digest[:], fx.key)
	require.NoError(t, err)

	sig, err := signing.ParseRawSignature(full[:signing.SignatureLength])
	require.NoError(t, err)

	fx.digest = digest
	fx.wantRecoveryID = full[signing.SignatureLength]
	return fx, sig
}

func TestResolveRecoveryIDExactlyOneMatches(t *testing.T) {
	fx, sig := signSample(t, signing.ModeEIP155, 137)

	recoveryID, err := signing.ResolveRecoveryID(fx.digest, sig, fx.pub)
	require.NoError(t, err)
	assert.Equal(t, fx.wantRecoveryID, recoveryID)

	// The other candidate must recover a different key, never ours.
	other := fx.wantRecoveryID ^ 1
	candidate := append(sig[:], other)
	recovered, err := crypto.Ecrecover(fx.digest[:], candidate)
	if err == nil {
		assert.NotEqual(t, fx.pub, recovered)
	}
}

func TestResolveRecoveryIDAcceptsAllKeyForms(t *testing.T) {
	fx, sig := signSample(t, signing.ModeLegacy, 0)

	compressed := crypto.CompressPubkey(&fx.key.PublicKey)
	raw := fx.pub[1:]

	for _, pub := range [][]byte{fx.pub, compressed, raw} {
		recoveryID, err := signing.ResolveRecoveryID(fx.digest, sig, pub)
		require.NoError(t, err)
		assert.Equal(t, fx.wantRecoveryID, recoveryID)
	}
}

func TestResolveRecoveryIDWrongSigner(t *testing.T) {
	fx, sig := signSample(t, signing.ModeEIP155, 1)

	stranger := newSigningFixture(t)
	_, err := signing.ResolveRecoveryID(fx.digest, sig, stranger.pub)
	require.Error(t, err)
	assert.Equal(t, faults.Cryptographic, faults.KindOf(err))
}

func TestResolveRecoveryIDDetectsModeMismatch(t *testing.T) {
	// A signature over the chain-bound digest never matches when checked
	// against the legacy digest of the same transaction: the mode
	// mismatch is detected, not silently tolerated.
	fx, sig := signSample(t, signing.ModeEIP155, 137)

	legacyDigest, err := signing.SigningHash(sampleTx(), signing.ModeLegacy, 0)
	require.NoError(t, err)

	_, err = signing.ResolveRecoveryID(legacyDigest, sig, fx.pub)
	require.Error(t, err)
	assert.Equal(t, faults.Cryptographic, faults.KindOf(err))
}

func TestNormalizePublicKey(t *testing.T) {
	fx := newSigningFixture(t)

	raw, err := signing.NormalizePublicKey(fx.pub)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Equal(t, fx.pub[1:], raw)

	fromCompressed, err := signing.NormalizePublicKey(crypto.CompressPubkey(&fx.key.PublicKey))
	require.NoError(t, err)
	assert.Equal(t, raw, fromCompressed)

	fromRaw, err := signing.NormalizePublicKey(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, fromRaw)

	_, err = signing.NormalizePublicKey(raw[:10])
	assert.Error(t, err)
}

func TestPublicKeyAddress(t *testing.T) {
	fx := newSigningFixture(t)

	addr, err := signing.PublicKeyAddress(fx.pub[1:])
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(fx.key.PublicKey), addr)

	_, err = signing.PublicKeyAddress(fx.pub)
	assert.Error(t, err)
}
