// Package broadcast submits encoded transactions with ordered
// multi-endpoint fallback: primary first, then each fallback in the chain's
// configured order. "Retry" here strictly means trying the next endpoint;
// there is no backoff and no second attempt against the same node.
package broadcast

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/cardwallet/evm-core/internal/faults"
	"github.com/cardwallet/evm-core/internal/metrics"
	"github.com/cardwallet/evm-core/internal/node"
	"github.com/cardwallet/evm-core/internal/registry"
)

// Endpoint is one node the dispatcher can submit to.
type Endpoint interface {
	URL() string
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	Close()
}

// Dialer opens a connection to one endpoint URL.
type Dialer func(ctx context.Context, url string) (Endpoint, error)

// NodeDialer is the production Dialer backed by the node package.
func NodeDialer(ctx context.Context, url string) (Endpoint, error) {
	return node.Dial(ctx, url)
}

// Dispatcher walks a chain's endpoints in priority order.
type Dispatcher struct {
	dial Dialer
}

// NewDispatcher creates a dispatcher with the given dial function.
func NewDispatcher(dial Dialer) *Dispatcher {
	if dial == nil {
		dial = NodeDialer
	}
	return &Dispatcher{dial: dial}
}

// Broadcast submits raw to the chain, returning the first successful
// transaction hash. Each failed endpoint is recorded and skipped; when
// every endpoint fails, the returned error references the last attempt.
// Each attempt is bounded only by the endpoint's own network timeout, a
// deliberate tradeoff favoring eventual success over bounded latency.
func (d *Dispatcher) Broadcast(ctx context.Context, chain registry.Chain, raw []byte) (common.Hash, error) {
	if len(chain.RPCURLs) == 0 {
		return common.Hash{}, faults.Errorf(faults.Configuration, "broadcast.Broadcast",
			"chain %s has no RPC endpoints", chain.Name)
	}

	var lastErr error
	lastURL := ""

	for _, url := range chain.RPCURLs {
		if err := ctx.Err(); err != nil {
			return common.Hash{}, faults.E(faults.Cancelled, "broadcast.Broadcast", err)
		}

		endpoint, err := d.dial(ctx, url)
		if err != nil {
			metrics.BroadcastAttempts.WithLabelValues(url, "dial_failed").Inc()
			log.Warn().Err(err).Str("endpoint", url).Msg("Endpoint dial failed, trying next")
			lastErr, lastURL = err, url
			continue
		}

		txHash, err := endpoint.SendRawTransaction(ctx, raw)
		endpoint.Close()
		if err != nil {
			metrics.BroadcastAttempts.WithLabelValues(url, "rejected").Inc()
			log.Warn().Err(err).Str("endpoint", url).Msg("Endpoint rejected transaction, trying next")
			lastErr, lastURL = err, url
			continue
		}

		metrics.BroadcastAttempts.WithLabelValues(url, "ok").Inc()
		log.Info().
			Str("endpoint", url).
			Str("tx_hash", txHash.Hex()).
			Msg("Transaction broadcast")
		return txHash, nil
	}

	return common.Hash{}, faults.E(faults.Network, "broadcast.Broadcast",
		errors.Wrapf(lastErr, "all %d endpoints failed, last was %s", len(chain.RPCURLs), lastURL))
}
