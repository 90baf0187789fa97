package wallet

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Deposit payload layouts are fixed by the portal contracts and decoded
// byte-exact. The fixed-width formats pack an address per 20 bytes and a
// uint256 per 32 bytes at hard-coded offsets; the ERC-1155 batch format is a
// dynamically encoded ABI tuple.

// EtherDeposit is a decoded Ether portal payload.
type EtherDeposit struct {
	Sender common.Address
	Value  *big.Int
}

// ERC20Deposit is a decoded ERC-20 portal payload. Success mirrors the
// outcome of the on-chain transfer: a false flag must be acknowledged
// without crediting any balance.
type ERC20Deposit struct {
	Success bool
	Token   common.Address
	Sender  common.Address
	Amount  *big.Int
}

// ERC721Deposit is a decoded ERC-721 portal payload. Data carries the
// trailing auxiliary bytes, which the ledger never inspects.
type ERC721Deposit struct {
	Token   common.Address
	Sender  common.Address
	TokenID *big.Int
	Data    []byte
}

// ERC1155SingleDeposit is a decoded single-transfer ERC-1155 portal payload.
type ERC1155SingleDeposit struct {
	Token   common.Address
	Sender  common.Address
	TokenID *big.Int
	Value   *big.Int
	Data    []byte
}

// ERC1155BatchDeposit is a decoded batch-transfer ERC-1155 portal payload.
// TokenIDs and Values correspond positionally.
type ERC1155BatchDeposit struct {
	Token         common.Address
	Sender        common.Address
	TokenIDs      []*big.Int
	Values        []*big.Int
	BaseLayerData []byte
	ExecLayerData []byte
}

// ParseEtherDeposit decodes an Ether portal payload: 20 bytes sender
// followed by a 32-byte big-endian value.
func ParseEtherDeposit(payload []byte) (*EtherDeposit, error) {
	if len(payload) < 52 {
		return nil, shortPayloadError("ether", len(payload), 52)
	}
	return &EtherDeposit{
		Sender: common.BytesToAddress(payload[0:20]),
		Value:  new(big.Int).SetBytes(payload[20:52]),
	}, nil
}

// ParseERC20Deposit decodes an ERC-20 portal payload: 1 byte success flag,
// 20 bytes token, 20 bytes sender, 32 bytes amount.
func ParseERC20Deposit(payload []byte) (*ERC20Deposit, error) {
	if len(payload) < 73 {
		return nil, shortPayloadError("erc20", len(payload), 73)
	}
	return &ERC20Deposit{
		Success: payload[0] != 0,
		Token:   common.BytesToAddress(payload[1:21]),
		Sender:  common.BytesToAddress(payload[21:41]),
		Amount:  new(big.Int).SetBytes(payload[41:73]),
	}, nil
}

// ParseERC721Deposit decodes an ERC-721 portal payload: 20 bytes token,
// 20 bytes sender, 32 bytes token id, then auxiliary bytes.
func ParseERC721Deposit(payload []byte) (*ERC721Deposit, error) {
	if len(payload) < 72 {
		return nil, shortPayloadError("erc721", len(payload), 72)
	}
	return &ERC721Deposit{
		Token:   common.BytesToAddress(payload[0:20]),
		Sender:  common.BytesToAddress(payload[20:40]),
		TokenID: new(big.Int).SetBytes(payload[40:72]),
		Data:    append([]byte(nil), payload[72:]...),
	}, nil
}

// ParseERC1155SingleDeposit decodes a single-transfer ERC-1155 portal
// payload: 20 bytes token, 20 bytes sender, 32 bytes token id, 32 bytes
// value, then auxiliary bytes.
func ParseERC1155SingleDeposit(payload []byte) (*ERC1155SingleDeposit, error) {
	if len(payload) < 104 {
		return nil, shortPayloadError("erc1155 single", len(payload), 104)
	}
	return &ERC1155SingleDeposit{
		Token:   common.BytesToAddress(payload[0:20]),
		Sender:  common.BytesToAddress(payload[20:40]),
		TokenID: new(big.Int).SetBytes(payload[40:72]),
		Value:   new(big.Int).SetBytes(payload[72:104]),
		Data:    append([]byte(nil), payload[104:]...),
	}, nil
}

var erc1155BatchArguments = buildERC1155BatchArguments()

func buildERC1155BatchArguments() abi.Arguments {
	addressType, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(fmt.Sprintf("wallet: build address type: %v", err))
	}
	uint256SliceType, err := abi.NewType("uint256[]", "", nil)
	if err != nil {
		panic(fmt.Sprintf("wallet: build uint256[] type: %v", err))
	}
	bytesType, err := abi.NewType("bytes", "", nil)
	if err != nil {
		panic(fmt.Sprintf("wallet: build bytes type: %v", err))
	}
	return abi.Arguments{
		{Name: "token", Type: addressType},
		{Name: "sender", Type: addressType},
		{Name: "tokenIds", Type: uint256SliceType},
		{Name: "values", Type: uint256SliceType},
		{Name: "baseLayerData", Type: bytesType},
		{Name: "execLayerData", Type: bytesType},
	}
}

// ParseERC1155BatchDeposit decodes a batch-transfer ERC-1155 portal payload,
// an ABI-encoded tuple of (address token, address sender, uint256[] tokenIds,
// uint256[] values, bytes baseLayerData, bytes execLayerData).
func ParseERC1155BatchDeposit(payload []byte) (*ERC1155BatchDeposit, error) {
	values, err := erc1155BatchArguments.Unpack(payload)
	if err != nil {
		return nil, &DecodeError{Asset: "erc1155 batch", Reason: "malformed tuple", Err: err}
	}
	deposit := &ERC1155BatchDeposit{}
	var ok bool
	if deposit.Token, ok = values[0].(common.Address); !ok {
		return nil, &DecodeError{Asset: "erc1155 batch", Reason: "token is not an address"}
	}
	if deposit.Sender, ok = values[1].(common.Address); !ok {
		return nil, &DecodeError{Asset: "erc1155 batch", Reason: "sender is not an address"}
	}
	if deposit.TokenIDs, ok = values[2].([]*big.Int); !ok {
		return nil, &DecodeError{Asset: "erc1155 batch", Reason: "tokenIds is not a uint256 array"}
	}
	if deposit.Values, ok = values[3].([]*big.Int); !ok {
		return nil, &DecodeError{Asset: "erc1155 batch", Reason: "values is not a uint256 array"}
	}
	if deposit.BaseLayerData, ok = values[4].([]byte); !ok {
		return nil, &DecodeError{Asset: "erc1155 batch", Reason: "baseLayerData is not bytes"}
	}
	if deposit.ExecLayerData, ok = values[5].([]byte); !ok {
		return nil, &DecodeError{Asset: "erc1155 batch", Reason: "execLayerData is not bytes"}
	}
	if len(deposit.TokenIDs) != len(deposit.Values) {
		return nil, &DecodeError{
			Asset:  "erc1155 batch",
			Reason: fmt.Sprintf("tokenIds has %d entries, values has %d", len(deposit.TokenIDs), len(deposit.Values)),
		}
	}
	return deposit, nil
}
