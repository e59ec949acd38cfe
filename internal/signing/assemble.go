package signing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// SignedTx is a transaction with its resolved (v, r, s), ready for wire
// serialization.
type SignedTx struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       common.Address
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
}

// Assemble computes v from the mode that produced the signing hash and
// attaches the signature to the transaction. Passing a different mode than
// the one used for hashing produces a transaction that recovers to the
// wrong identity, which is why both steps take the mode from the same
// Coordinator.
func Assemble(tx *UnsignedTx, mode Mode, chainID int64, sig RawSignature, recoveryID byte) (*SignedTx, error) {
	if tx == nil {
		return nil, errors.New("nil unsigned transaction")
	}

	v, err := mode.VersionByte(chainID, recoveryID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute version byte")
	}

	gasPrice := tx.GasPrice
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}

	return &SignedTx{
		Nonce:    tx.Nonce,
		GasPrice: gasPrice,
		GasLimit: tx.GasLimit,
		To:       tx.To,
		Value:    value,
		Data:     tx.Data,
		V:        v,
		R:        sig.R(),
		S:        sig.S(),
	}, nil
}

// signedWire fixes the canonical 9-field wire order. r and s are encoded as
// big integers, so leading zero bytes are stripped per RLP rules rather
// than left-padded.
type signedWire struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       common.Address
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
}

// Encode serializes the signed transaction for broadcasting.
func (tx *SignedTx) Encode() ([]byte, error) {
	encoded, err := rlp.EncodeToBytes(&signedWire{
		Nonce:    tx.Nonce,
		GasPrice: tx.GasPrice,
		Gas:      tx.GasLimit,
		To:       tx.To,
		Value:    tx.Value,
		Data:     tx.Data,
		V:        tx.V,
		R:        tx.R,
		S:        tx.S,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode signed transaction")
	}
	return encoded, nil
}

// Hash returns the transaction identifier: the Keccak-256 hash of the wire
// encoding.
func (tx *SignedTx) Hash() (common.Hash, error) {
	encoded, err := tx.Encode()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}
