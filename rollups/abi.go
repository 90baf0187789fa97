package rollups

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Minimal ABI fragments for the on-chain calls that vouchers can carry. The
// application contract executes these calls during voucher settlement.
const (
	applicationABIJSON = `[{"type":"function","name":"withdrawEther","inputs":[{"name":"receiver","type":"address"},{"name":"value","type":"uint256"}]}]`

	erc20ABIJSON = `[{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}]}]`

	erc721ABIJSON = `[{"type":"function","name":"safeTransferFrom","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}]}]`

	erc1155ABIJSON = `[{"type":"function","name":"safeTransferFrom","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"value","type":"uint256"},{"name":"data","type":"bytes"}]},{"type":"function","name":"safeBatchTransferFrom","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"ids","type":"uint256[]"},{"name":"values","type":"uint256[]"},{"name":"data","type":"bytes"}]}]`
)

var (
	applicationABI = mustParseABI(applicationABIJSON)
	erc20ABI       = mustParseABI(erc20ABIJSON)
	erc721ABI      = mustParseABI(erc721ABIJSON)
	erc1155ABI     = mustParseABI(erc1155ABIJSON)
)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("rollups: parse abi: %v", err))
	}
	return parsed
}

// EncodeWithdrawEther encodes a withdrawEther call on the application
// contract, releasing value to the receiver.
func EncodeWithdrawEther(receiver common.Address, value *big.Int) ([]byte, error) {
	return applicationABI.Pack("withdrawEther", receiver, value)
}

// EncodeERC20Transfer encodes a standard ERC-20 transfer call.
func EncodeERC20Transfer(to common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("transfer", to, amount)
}

// EncodeERC721SafeTransferFrom encodes an ERC-721 safeTransferFrom call.
func EncodeERC721SafeTransferFrom(from, to common.Address, tokenID *big.Int) ([]byte, error) {
	return erc721ABI.Pack("safeTransferFrom", from, to, tokenID)
}

// EncodeERC1155SafeTransferFrom encodes a single-id ERC-1155 safeTransferFrom
// call with empty data.
func EncodeERC1155SafeTransferFrom(from, to common.Address, id, value *big.Int) ([]byte, error) {
	return erc1155ABI.Pack("safeTransferFrom", from, to, id, value, []byte{})
}

// EncodeERC1155SafeBatchTransferFrom encodes an ERC-1155
// safeBatchTransferFrom call with empty data.
func EncodeERC1155SafeBatchTransferFrom(from, to common.Address, ids, values []*big.Int) ([]byte, error) {
	return erc1155ABI.Pack("safeBatchTransferFrom", from, to, ids, values, []byte{})
}
