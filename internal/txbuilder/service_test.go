package txbuilder_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwallet/evm-core/internal/faults"
	"github.com/cardwallet/evm-core/internal/registry"
	"github.com/cardwallet/evm-core/internal/txbuilder"
)

type fakeReader struct {
	nonce        uint64
	gasPrice     *big.Int
	nativeFunds  *big.Int
	tokenFunds   *big.Int
	gasEstimate  uint64
	estimateErr  error
	nonceErr     error
	lastEstimate ethereum.CallMsg
}

func (f *fakeReader) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	return f.nonce, f.nonceErr
}

func (f *fakeReader) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return f.gasPrice, nil
}

func (f *fakeReader) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	f.lastEstimate = msg
	return f.gasEstimate, f.estimateErr
}

func (f *fakeReader) BalanceAt(_ context.Context, _ common.Address) (*big.Int, error) {
	return f.nativeFunds, nil
}

func (f *fakeReader) TokenBalance(_ context.Context, _, _ common.Address) (*big.Int, error) {
	return f.tokenFunds, nil
}

func eth(amount int64) *big.Int {
	wei, _ := new(big.Int).SetString("1000000000000000000", 10)
	return wei.Mul(wei, big.NewInt(amount))
}

func testFixture(t *testing.T) (registry.Service, registry.Chain, *fakeReader) {
	t.Helper()

	reg, err := registry.NewBuiltinService()
	require.NoError(t, err)
	chain, ok := reg.FindChain(registry.ChainIDEthereum)
	require.True(t, ok)

	reader := &fakeReader{
		nonce:       7,
		gasPrice:    big.NewInt(2_000_000_000),
		nativeFunds: eth(10),
		tokenFunds:  big.NewInt(500_000_000), // 500 USDC
		gasEstimate: 50000,
	}
	return reg, chain, reader
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

var (
	sender    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	recipient = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func TestBuildNativeTransfer(t *testing.T) {
	reg, chain, reader := testFixture(t)
	builder := txbuilder.NewService(reg)

	tx, err := builder.Build(context.Background(), reader, txbuilder.Intent{
		Chain:  chain,
		Token:  registry.NativeToken(chain),
		From:   sender,
		To:     recipient,
		Amount: mustDecimal(t, "1.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(7), tx.Nonce)
	assert.Equal(t, recipient, tx.To)
	wantValue, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, wantValue, tx.Value)
	assert.Empty(t, tx.Data)
	// 50000 estimate, exact x1.2
	assert.Equal(t, uint64(60000), tx.GasLimit)
}

func TestBuildGasBufferCeiling(t *testing.T) {
	reg, chain, reader := testFixture(t)
	reader.gasEstimate = 50001
	builder := txbuilder.NewService(reg)

	tx, err := builder.Build(context.Background(), reader, txbuilder.Intent{
		Chain:  chain,
		Token:  registry.NativeToken(chain),
		From:   sender,
		To:     recipient,
		Amount: mustDecimal(t, "1"),
	})
	require.NoError(t, err)

	// 50001 x 1.2 = 60001.2, rounded up.
	assert.Equal(t, uint64(60002), tx.GasLimit)
}

func TestBuildGasEstimateFallback(t *testing.T) {
	reg, chain, reader := testFixture(t)
	reader.estimateErr = errors.New("execution reverted")
	builder := txbuilder.NewService(reg)

	token, ok := registry.FindToken(reg, chain, "USDC")
	require.True(t, ok)

	tx, err := builder.Build(context.Background(), reader, txbuilder.Intent{
		Chain:  chain,
		Token:  token,
		From:   sender,
		To:     recipient,
		Amount: mustDecimal(t, "10"),
	})
	require.NoError(t, err)
	assert.Equal(t, token.DefaultGasLimit, tx.GasLimit)
}

func TestBuildGasOverrideIsVerbatim(t *testing.T) {
	reg, chain, reader := testFixture(t)
	builder := txbuilder.NewService(reg)

	tx, err := builder.Build(context.Background(), reader, txbuilder.Intent{
		Chain:            chain,
		Token:            registry.NativeToken(chain),
		From:             sender,
		To:               recipient,
		Amount:           mustDecimal(t, "1"),
		GasLimitOverride: 23000,
	})
	require.NoError(t, err)

	// Never buffered, never reduced.
	assert.Equal(t, uint64(23000), tx.GasLimit)
	assert.Zero(t, reader.lastEstimate.From, "no estimate call expected with an override")
}

func TestBuildERC20Transfer(t *testing.T) {
	reg, chain, reader := testFixture(t)
	builder := txbuilder.NewService(reg)

	token, ok := registry.FindToken(reg, chain, "USDC")
	require.True(t, ok)
	contract, ok := reg.ContractAddress(token, chain)
	require.True(t, ok)

	tx, err := builder.Build(context.Background(), reader, txbuilder.Intent{
		Chain:  chain,
		Token:  token,
		From:   sender,
		To:     recipient,
		Amount: mustDecimal(t, "12.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, contract, tx.To)
	assert.Zero(t, tx.Value.Sign())

	want := txbuilder.TransferCallData(recipient, big.NewInt(12_500_000))
	assert.Equal(t, want, tx.Data)
	assert.Equal(t, common.Hex2Bytes("a9059cbb"), tx.Data[:4])
}

func TestBuildTokenUnavailableOnChain(t *testing.T) {
	reg, chain, reader := testFixture(t)
	builder := txbuilder.NewService(reg)

	ghost := registry.Token{Kind: registry.TokenERC20, Symbol: "GHOST", Decimals: 18, DefaultGasLimit: 100000}

	_, err := builder.Build(context.Background(), reader, txbuilder.Intent{
		Chain:  chain,
		Token:  ghost,
		From:   sender,
		To:     recipient,
		Amount: mustDecimal(t, "1"),
	})
	require.Error(t, err)
	assert.Equal(t, faults.Configuration, faults.KindOf(err))
}

func TestBuildValidation(t *testing.T) {
	reg, chain, reader := testFixture(t)
	builder := txbuilder.NewService(reg)

	cases := []struct {
		name   string
		intent txbuilder.Intent
	}{
		{"empty recipient", txbuilder.Intent{Chain: chain, Token: registry.NativeToken(chain), From: sender, Amount: mustDecimal(t, "1")}},
		{"self transfer", txbuilder.Intent{Chain: chain, Token: registry.NativeToken(chain), From: sender, To: sender, Amount: mustDecimal(t, "1")}},
		{"zero amount", txbuilder.Intent{Chain: chain, Token: registry.NativeToken(chain), From: sender, To: recipient}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.Build(context.Background(), reader, tc.intent)
			require.Error(t, err)
			assert.Equal(t, faults.Validation, faults.KindOf(err))
		})
	}
}

func TestBuildInsufficientBalance(t *testing.T) {
	reg, chain, reader := testFixture(t)
	reader.nativeFunds = big.NewInt(1) // cannot even cover fees
	builder := txbuilder.NewService(reg)

	_, err := builder.Build(context.Background(), reader, txbuilder.Intent{
		Chain:  chain,
		Token:  registry.NativeToken(chain),
		From:   sender,
		To:     recipient,
		Amount: mustDecimal(t, "1"),
	})
	require.Error(t, err)
	assert.Equal(t, faults.Validation, faults.KindOf(err))
}

func TestBuildInsufficientTokenBalance(t *testing.T) {
	reg, chain, reader := testFixture(t)
	reader.tokenFunds = big.NewInt(1)
	builder := txbuilder.NewService(reg)

	token, ok := registry.FindToken(reg, chain, "USDC")
	require.True(t, ok)

	_, err := builder.Build(context.Background(), reader, txbuilder.Intent{
		Chain:  chain,
		Token:  token,
		From:   sender,
		To:     recipient,
		Amount: mustDecimal(t, "10"),
	})
	require.Error(t, err)
	assert.Equal(t, faults.Validation, faults.KindOf(err))
}

func TestBuildNetworkFailurePropagates(t *testing.T) {
	reg, chain, reader := testFixture(t)
	reader.nonceErr = faults.Errorf(faults.Network, "node.PendingNonce", "boom")
	builder := txbuilder.NewService(reg)

	_, err := builder.Build(context.Background(), reader, txbuilder.Intent{
		Chain:  chain,
		Token:  registry.NativeToken(chain),
		From:   sender,
		To:     recipient,
		Amount: mustDecimal(t, "1"),
	})
	require.Error(t, err)
	assert.Equal(t, faults.Network, faults.KindOf(err))
}
