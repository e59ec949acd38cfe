package broadcast_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwallet/evm-core/internal/broadcast"
	"github.com/cardwallet/evm-core/internal/faults"
	"github.com/cardwallet/evm-core/internal/registry"
)

type fakeEndpoint struct {
	url     string
	txHash  common.Hash
	sendErr error
	sent    [][]byte
}

func (f *fakeEndpoint) URL() string { return f.url }
func (f *fakeEndpoint) Close()      {}

func (f *fakeEndpoint) SendRawTransaction(_ context.Context, raw []byte) (common.Hash, error) {
	f.sent = append(f.sent, raw)
	return f.txHash, f.sendErr
}

type fakeNetwork struct {
	endpoints map[string]*fakeEndpoint
	dialErrs  map[string]error
	dialed    []string
}

func (n *fakeNetwork) dial(_ context.Context, url string) (broadcast.Endpoint, error) {
	n.dialed = append(n.dialed, url)
	if err, ok := n.dialErrs[url]; ok {
		return nil, err
	}
	return n.endpoints[url], nil
}

func testChain(urls ...string) registry.Chain {
	return registry.Chain{ID: 1, Name: "Testnet", Symbol: "ETH", Decimals: 18, RPCURLs: urls}
}

func TestBroadcastFirstEndpointSucceeds(t *testing.T) {
	hashA := common.HexToHash("0xaa")
	network := &fakeNetwork{endpoints: map[string]*fakeEndpoint{
		"http://a": {url: "http://a", txHash: hashA},
		"http://b": {url: "http://b"},
	}}
	dispatcher := broadcast.NewDispatcher(network.dial)

	got, err := dispatcher.Broadcast(context.Background(), testChain("http://a", "http://b"), []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, hashA, got)
	assert.Equal(t, []string{"http://a"}, network.dialed, "fallback endpoint must not be touched")
}

func TestBroadcastFallsBackToNextEndpoint(t *testing.T) {
	hashB := common.HexToHash("0xbb")
	network := &fakeNetwork{
		endpoints: map[string]*fakeEndpoint{
			"http://a": {url: "http://a", sendErr: errors.New("nonce too low")},
			"http://b": {url: "http://b", txHash: hashB},
		},
	}
	dispatcher := broadcast.NewDispatcher(network.dial)

	got, err := dispatcher.Broadcast(context.Background(), testChain("http://a", "http://b"), []byte{0x01})
	require.NoError(t, err)

	// A's failure is recorded but B's success is the result.
	assert.Equal(t, hashB, got)
	assert.Equal(t, []string{"http://a", "http://b"}, network.dialed)
}

func TestBroadcastDialFailureAdvances(t *testing.T) {
	hashB := common.HexToHash("0xbb")
	network := &fakeNetwork{
		endpoints: map[string]*fakeEndpoint{
			"http://b": {url: "http://b", txHash: hashB},
		},
		dialErrs: map[string]error{"http://a": errors.New("connection refused")},
	}
	dispatcher := broadcast.NewDispatcher(network.dial)

	got, err := dispatcher.Broadcast(context.Background(), testChain("http://a", "http://b"), []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, hashB, got)
}

func TestBroadcastAllEndpointsFail(t *testing.T) {
	network := &fakeNetwork{
		endpoints: map[string]*fakeEndpoint{
			"http://a": {url: "http://a", sendErr: errors.New("first failure")},
			"http://b": {url: "http://b", sendErr: errors.New("last failure")},
		},
	}
	dispatcher := broadcast.NewDispatcher(network.dial)

	_, err := dispatcher.Broadcast(context.Background(), testChain("http://a", "http://b"), []byte{0x01})
	require.Error(t, err)

	// The terminal error references the last attempt, not the first.
	assert.Equal(t, faults.Network, faults.KindOf(err))
	assert.Contains(t, err.Error(), "http://b")
	assert.Contains(t, err.Error(), "last failure")
	assert.NotContains(t, err.Error(), "first failure")
}

func TestBroadcastNoEndpointsConfigured(t *testing.T) {
	dispatcher := broadcast.NewDispatcher((&fakeNetwork{}).dial)

	_, err := dispatcher.Broadcast(context.Background(), testChain(), []byte{0x01})
	require.Error(t, err)
	assert.Equal(t, faults.Configuration, faults.KindOf(err))
}

func TestBroadcastHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	network := &fakeNetwork{endpoints: map[string]*fakeEndpoint{"http://a": {url: "http://a"}}}
	dispatcher := broadcast.NewDispatcher(network.dial)

	_, err := dispatcher.Broadcast(ctx, testChain("http://a"), []byte{0x01})
	require.Error(t, err)
	assert.Equal(t, faults.Cancelled, faults.KindOf(err))
	assert.Empty(t, network.dialed)
}
