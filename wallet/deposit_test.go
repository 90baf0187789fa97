package wallet

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	testSender = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testToken  = common.HexToAddress("0x3aa5ebB10DC797CAC828524e59A333d0A371443c")
)

func etherDepositPayload(sender common.Address, value *big.Int) []byte {
	payload := make([]byte, 52)
	copy(payload[0:20], sender.Bytes())
	value.FillBytes(payload[20:52])
	return payload
}

func erc20DepositPayload(success bool, token, sender common.Address, amount *big.Int) []byte {
	payload := make([]byte, 73)
	if success {
		payload[0] = 1
	}
	copy(payload[1:21], token.Bytes())
	copy(payload[21:41], sender.Bytes())
	amount.FillBytes(payload[41:73])
	return payload
}

func erc721DepositPayload(token, sender common.Address, tokenID *big.Int, data []byte) []byte {
	payload := make([]byte, 72, 72+len(data))
	copy(payload[0:20], token.Bytes())
	copy(payload[20:40], sender.Bytes())
	tokenID.FillBytes(payload[40:72])
	return append(payload, data...)
}

func erc1155SingleDepositPayload(token, sender common.Address, tokenID, value *big.Int, data []byte) []byte {
	payload := make([]byte, 104, 104+len(data))
	copy(payload[0:20], token.Bytes())
	copy(payload[20:40], sender.Bytes())
	tokenID.FillBytes(payload[40:72])
	value.FillBytes(payload[72:104])
	return append(payload, data...)
}

func erc1155BatchDepositPayload(t *testing.T, token, sender common.Address, tokenIDs, values []*big.Int, base, exec []byte) []byte {
	t.Helper()
	payload, err := erc1155BatchArguments.Pack(token, sender, tokenIDs, values, base, exec)
	require.NoError(t, err)
	return payload
}

func TestParseEtherDeposit(t *testing.T) {
	value := big.NewInt(123456789)
	deposit, err := ParseEtherDeposit(etherDepositPayload(testSender, value))
	require.NoError(t, err)
	require.Equal(t, testSender, deposit.Sender)
	require.Equal(t, value, deposit.Value)
}

func TestParseEtherDepositTooShort(t *testing.T) {
	_, err := ParseEtherDeposit(make([]byte, 51))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "ether", decodeErr.Asset)
}

func TestParseERC20Deposit(t *testing.T) {
	amount := big.NewInt(500)
	deposit, err := ParseERC20Deposit(erc20DepositPayload(true, testToken, testSender, amount))
	require.NoError(t, err)
	require.True(t, deposit.Success)
	require.Equal(t, testToken, deposit.Token)
	require.Equal(t, testSender, deposit.Sender)
	require.Equal(t, amount, deposit.Amount)

	deposit, err = ParseERC20Deposit(erc20DepositPayload(false, testToken, testSender, amount))
	require.NoError(t, err)
	require.False(t, deposit.Success)
}

func TestParseERC20DepositTooShort(t *testing.T) {
	_, err := ParseERC20Deposit(make([]byte, 72))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestParseERC721Deposit(t *testing.T) {
	tokenID := big.NewInt(42)
	aux := []byte{0xde, 0xad}
	deposit, err := ParseERC721Deposit(erc721DepositPayload(testToken, testSender, tokenID, aux))
	require.NoError(t, err)
	require.Equal(t, testToken, deposit.Token)
	require.Equal(t, testSender, deposit.Sender)
	require.Equal(t, tokenID, deposit.TokenID)
	require.Equal(t, aux, deposit.Data)
}

func TestParseERC1155SingleDeposit(t *testing.T) {
	tokenID := big.NewInt(3)
	value := big.NewInt(7)
	deposit, err := ParseERC1155SingleDeposit(erc1155SingleDepositPayload(testToken, testSender, tokenID, value, nil))
	require.NoError(t, err)
	require.Equal(t, testToken, deposit.Token)
	require.Equal(t, testSender, deposit.Sender)
	require.Equal(t, tokenID, deposit.TokenID)
	require.Equal(t, value, deposit.Value)
	require.Empty(t, deposit.Data)
}

func TestParseERC1155BatchDeposit(t *testing.T) {
	tokenIDs := []*big.Int{big.NewInt(3), big.NewInt(4)}
	values := []*big.Int{big.NewInt(5), big.NewInt(7)}
	payload := erc1155BatchDepositPayload(t, testToken, testSender, tokenIDs, values, []byte{}, []byte{})

	deposit, err := ParseERC1155BatchDeposit(payload)
	require.NoError(t, err)
	require.Equal(t, testToken, deposit.Token)
	require.Equal(t, testSender, deposit.Sender)
	require.Equal(t, tokenIDs, deposit.TokenIDs)
	require.Equal(t, values, deposit.Values)
	require.Empty(t, deposit.BaseLayerData)
	require.Empty(t, deposit.ExecLayerData)
}

func TestParseERC1155BatchDepositMalformed(t *testing.T) {
	_, err := ParseERC1155BatchDeposit([]byte{0x01, 0x02, 0x03})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "erc1155 batch", decodeErr.Asset)
	require.True(t, errors.Unwrap(err) != nil || decodeErr.Reason != "")
}
