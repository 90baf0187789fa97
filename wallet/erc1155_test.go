package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"rollwallet/rollups"
)

func depositERC1155Batch(t *testing.T, app *App, token, sender common.Address, tokenIDs, values []*big.Int) {
	t.Helper()
	payload := erc1155BatchDepositPayload(t, token, sender, tokenIDs, values, []byte{}, []byte{})
	req := advanceRequest(rollups.ERC1155BatchPortalAddress, payload)
	require.Equal(t, rollups.Accept, app.Handler(context.Background(), req))
}

func TestERC1155SingleDepositAndBalance(t *testing.T) {
	app := New()
	payload := erc1155SingleDepositPayload(testToken, testSender, big.NewInt(3), big.NewInt(10), nil)
	req := advanceRequest(rollups.ERC1155SinglePortalAddress, payload)
	require.Equal(t, rollups.Accept, app.Handler(context.Background(), req))

	require.Equal(t, big.NewInt(10), app.BalanceOfERC1155(testToken, big.NewInt(3), testSender.Hex()))
	require.Equal(t, big.NewInt(0), app.BalanceOfERC1155(testToken, big.NewInt(4), testSender.Hex()))
}

func TestERC1155BatchDepositPositionalCorrespondence(t *testing.T) {
	app := New()
	depositERC1155Batch(t, app, testToken, testSender,
		[]*big.Int{big.NewInt(3), big.NewInt(4)},
		[]*big.Int{big.NewInt(5), big.NewInt(7)})

	require.Equal(t, big.NewInt(5), app.BalanceOfERC1155(testToken, big.NewInt(3), testSender.Hex()))
	require.Equal(t, big.NewInt(7), app.BalanceOfERC1155(testToken, big.NewInt(4), testSender.Hex()))
}

func TestERC1155BatchDepositRepeatedIDAccumulates(t *testing.T) {
	app := New()
	depositERC1155Batch(t, app, testToken, testSender,
		[]*big.Int{big.NewInt(3), big.NewInt(3)},
		[]*big.Int{big.NewInt(5), big.NewInt(2)})

	require.Equal(t, big.NewInt(7), app.BalanceOfERC1155(testToken, big.NewInt(3), testSender.Hex()))
}

func TestERC1155BatchBalanceOf(t *testing.T) {
	app := New()
	depositERC1155Batch(t, app, testToken, testSender,
		[]*big.Int{big.NewInt(1), big.NewInt(2)},
		[]*big.Int{big.NewInt(11), big.NewInt(22)})

	balances, err := app.BalanceOfERC1155Batch(
		[]common.Address{testToken, testToken},
		[]*big.Int{big.NewInt(2), big.NewInt(1)},
		testSender.Hex())
	require.NoError(t, err)
	require.Equal(t, []*big.Int{big.NewInt(22), big.NewInt(11)}, balances)

	_, err = app.BalanceOfERC1155Batch(
		[]common.Address{testToken},
		[]*big.Int{big.NewInt(1), big.NewInt(2)},
		testSender.Hex())
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestERC1155BatchTransferAllOrNothing(t *testing.T) {
	app := New()
	depositERC1155Batch(t, app, testToken, testSender,
		[]*big.Int{big.NewInt(1), big.NewInt(2)},
		[]*big.Int{big.NewInt(10), big.NewInt(5)})

	recipient := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	// the second pair exceeds the balance, so nothing may move
	err := app.TransferERC1155(testToken, testSender.Hex(), recipient.Hex(),
		[]*big.Int{big.NewInt(1), big.NewInt(2)},
		[]*big.Int{big.NewInt(1), big.NewInt(6)})
	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, big.NewInt(10), app.BalanceOfERC1155(testToken, big.NewInt(1), testSender.Hex()))
	require.Equal(t, big.NewInt(5), app.BalanceOfERC1155(testToken, big.NewInt(2), testSender.Hex()))
	require.Equal(t, big.NewInt(0), app.BalanceOfERC1155(testToken, big.NewInt(1), recipient.Hex()))

	require.NoError(t, app.TransferERC1155(testToken, testSender.Hex(), recipient.Hex(),
		[]*big.Int{big.NewInt(1), big.NewInt(2)},
		[]*big.Int{big.NewInt(4), big.NewInt(5)}))
	require.Equal(t, big.NewInt(6), app.BalanceOfERC1155(testToken, big.NewInt(1), testSender.Hex()))
	require.Equal(t, big.NewInt(4), app.BalanceOfERC1155(testToken, big.NewInt(1), recipient.Hex()))
	require.Equal(t, big.NewInt(5), app.BalanceOfERC1155(testToken, big.NewInt(2), recipient.Hex()))
}

func TestERC1155BatchTransferRepeatedIDCheckedCumulatively(t *testing.T) {
	app := New()
	depositERC1155Batch(t, app, testToken, testSender,
		[]*big.Int{big.NewInt(1)},
		[]*big.Int{big.NewInt(5)})

	// each pair alone fits the balance, but together they exceed it
	err := app.TransferERC1155(testToken, testSender.Hex(), "someone",
		[]*big.Int{big.NewInt(1), big.NewInt(1)},
		[]*big.Int{big.NewInt(3), big.NewInt(3)})
	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, big.NewInt(5), app.BalanceOfERC1155(testToken, big.NewInt(1), testSender.Hex()))
}

func TestERC1155BatchTransferLengthMismatch(t *testing.T) {
	app := New()
	err := app.TransferERC1155(testToken, testSender.Hex(), "someone",
		[]*big.Int{big.NewInt(1)},
		[]*big.Int{big.NewInt(1), big.NewInt(2)})
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestWithdrawERC1155SingleCallForm(t *testing.T) {
	app := New()
	dapp := common.HexToAddress("0xab7528bb862fB57E8A2BCd567a2e929a0Be56a5e")
	relayApplicationAddress(t, app, dapp)
	depositERC1155Batch(t, app, testToken, testSender,
		[]*big.Int{big.NewInt(3)},
		[]*big.Int{big.NewInt(9)})

	voucher, err := app.WithdrawERC1155(testToken, testSender,
		[]*big.Int{big.NewInt(3)}, []*big.Int{big.NewInt(4)})
	require.NoError(t, err)
	require.Equal(t, testToken, voucher.Destination)

	// one-element batches prefer the single-transfer call form
	expected, err := rollups.EncodeERC1155SafeTransferFrom(dapp, testSender, big.NewInt(3), big.NewInt(4))
	require.NoError(t, err)
	require.Equal(t, expected, []byte(voucher.Payload))
	require.Equal(t, big.NewInt(5), app.BalanceOfERC1155(testToken, big.NewInt(3), testSender.Hex()))
}

func TestWithdrawERC1155BatchCallForm(t *testing.T) {
	app := New()
	dapp := common.HexToAddress("0xab7528bb862fB57E8A2BCd567a2e929a0Be56a5e")
	relayApplicationAddress(t, app, dapp)
	ids := []*big.Int{big.NewInt(3), big.NewInt(4)}
	values := []*big.Int{big.NewInt(5), big.NewInt(7)}
	depositERC1155Batch(t, app, testToken, testSender, ids, values)

	voucher, err := app.WithdrawERC1155(testToken, testSender, ids, values)
	require.NoError(t, err)
	expected, err := rollups.EncodeERC1155SafeBatchTransferFrom(dapp, testSender, ids, values)
	require.NoError(t, err)
	require.Equal(t, expected, []byte(voucher.Payload))
	require.Equal(t, big.NewInt(0), app.BalanceOfERC1155(testToken, big.NewInt(3), testSender.Hex()))
}

func TestWithdrawERC1155EmptyBatch(t *testing.T) {
	app := New()
	dapp := common.HexToAddress("0xab7528bb862fB57E8A2BCd567a2e929a0Be56a5e")
	relayApplicationAddress(t, app, dapp)

	_, err := app.WithdrawERC1155(testToken, testSender, nil, nil)
	require.ErrorIs(t, err, ErrEmptyBatch)
}

func TestERC1155SingleTransfer(t *testing.T) {
	app := New()
	payload := erc1155SingleDepositPayload(testToken, testSender, big.NewInt(3), big.NewInt(10), nil)
	req := advanceRequest(rollups.ERC1155SinglePortalAddress, payload)
	require.Equal(t, rollups.Accept, app.Handler(context.Background(), req))

	recipient := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	err := app.Tokens().ERC1155Single.Transfer(ERC1155SingleTransfer{
		Token:     testToken,
		From:      testSender.Hex(),
		To:        recipient.Hex(),
		TokenID:   big.NewInt(3),
		Value:     big.NewInt(4),
		GetWallet: app.getWalletOrNew,
		SetWallet: app.setWallet,
	})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(6), app.BalanceOfERC1155(testToken, big.NewInt(3), testSender.Hex()))
	require.Equal(t, big.NewInt(4), app.BalanceOfERC1155(testToken, big.NewInt(3), recipient.Hex()))
}
