package faults_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/cardwallet/evm-core/internal/faults"
)

func TestKindOfWalksWrappedChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := faults.E(faults.Network, "node.PendingNonce", cause)
	wrapped := errors.Wrap(err, "building transfer")

	assert.Equal(t, faults.Network, faults.KindOf(wrapped))
	assert.True(t, faults.IsKind(wrapped, faults.Network))
	assert.False(t, faults.IsKind(wrapped, faults.Validation))
	assert.True(t, errors.Is(wrapped, cause))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, faults.Unknown, faults.KindOf(errors.New("plain")))
	assert.Equal(t, faults.Unknown, faults.KindOf(nil))
}

func TestENilPassthrough(t *testing.T) {
	assert.NoError(t, faults.E(faults.Network, "node.Dial", nil))
}

func TestErrorMessageIncludesKindAndOp(t *testing.T) {
	err := faults.Errorf(faults.Validation, "txbuilder.Build", "amount %s is not positive", "-1")
	assert.Contains(t, err.Error(), "validation")
	assert.Contains(t, err.Error(), "txbuilder.Build")
	assert.Contains(t, err.Error(), "amount -1 is not positive")
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "configuration", faults.Configuration.String())
	assert.Equal(t, "network", faults.Network.String())
	assert.Equal(t, "validation", faults.Validation.String())
	assert.Equal(t, "cryptographic", faults.Cryptographic.String())
	assert.Equal(t, "cancelled", faults.Cancelled.String())
	assert.Equal(t, "unknown", faults.Unknown.String())
}
