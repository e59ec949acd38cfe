package signing_test

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// signingFixture bundles a fresh key pair with signature data filled in by
// the individual tests.
type signingFixture struct {
	key *ecdsa.PrivateKey
	pub []byte // 65-byte uncompressed

	digest         common.Hash
	wantRecoveryID byte
}

func newSigningFixture(t *testing.T) *signingFixture {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	return &signingFixture{
		key: key,
		pub: crypto.FromECDSAPub(&key.PublicKey),
	}
}
