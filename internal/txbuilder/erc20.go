package txbuilder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// transfer(address,uint256)
var transferMethodID = common.Hex2Bytes("a9059cbb")

const abiWordLength = 32

// TransferCallData encodes an ERC-20 transfer(recipient, amount) call.
func TransferCallData(recipient common.Address, amount *big.Int) []byte {
	data := make([]byte, 0, len(transferMethodID)+2*abiWordLength)
	data = append(data, transferMethodID...)
	data = append(data, common.LeftPadBytes(recipient.Bytes(), abiWordLength)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), abiWordLength)...)
	return data
}
