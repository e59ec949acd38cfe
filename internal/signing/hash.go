package signing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// legacySigHash is the 6-tuple hashed in legacy mode. Field order is the
// wire order and must not change.
type legacySigHash struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       common.Address
	Value    *big.Int
	Data     []byte
}

// eip155SigHash appends (chainID, 0, 0) per EIP-155 so the digest cannot be
// replayed on another chain.
type eip155SigHash struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       common.Address
	Value    *big.Int
	Data     []byte
	ChainID  *big.Int
	Zero1    uint
	Zero2    uint
}

// SigningHash computes the exact 32-byte digest the card signs. The digest
// is deterministic: any later verification step reproduces it byte for byte
// from the same transaction, mode and chain id.
func SigningHash(tx *UnsignedTx, mode Mode, chainID int64) (common.Hash, error) {
	if tx == nil {
		return common.Hash{}, errors.New("nil unsigned transaction")
	}

	gasPrice := tx.GasPrice
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}

	var payload interface{}
	switch mode {
	case ModeLegacy:
		payload = &legacySigHash{
			Nonce:    tx.Nonce,
			GasPrice: gasPrice,
			Gas:      tx.GasLimit,
			To:       tx.To,
			Value:    value,
			Data:     tx.Data,
		}
	case ModeEIP155:
		if chainID <= 0 {
			return common.Hash{}, errors.Errorf("eip155 mode requires a positive chain id, got %d", chainID)
		}
		payload = &eip155SigHash{
			Nonce:    tx.Nonce,
			GasPrice: gasPrice,
			Gas:      tx.GasLimit,
			To:       tx.To,
			Value:    value,
			Data:     tx.Data,
			ChainID:  big.NewInt(chainID),
		}
	default:
		return common.Hash{}, errors.Errorf("invalid signing mode %d", mode)
	}

	encoded, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to encode signing payload")
	}

	return crypto.Keccak256Hash(encoded), nil
}
