package rollups

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestEncodeSelectors(t *testing.T) {
	receiver := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	app := common.HexToAddress("0xab7528bb862fB57E8A2BCd567a2e929a0Be56a5e")
	amount := big.NewInt(1000)
	id := big.NewInt(7)

	cases := []struct {
		name     string
		encode   func() ([]byte, error)
		selector string
	}{
		{
			name:     "withdrawEther",
			encode:   func() ([]byte, error) { return EncodeWithdrawEther(receiver, amount) },
			selector: "522f6815",
		},
		{
			name:     "erc20Transfer",
			encode:   func() ([]byte, error) { return EncodeERC20Transfer(receiver, amount) },
			selector: "a9059cbb",
		},
		{
			name:     "erc721SafeTransferFrom",
			encode:   func() ([]byte, error) { return EncodeERC721SafeTransferFrom(app, receiver, id) },
			selector: "42842e0e",
		},
		{
			name:     "erc1155SafeTransferFrom",
			encode:   func() ([]byte, error) { return EncodeERC1155SafeTransferFrom(app, receiver, id, amount) },
			selector: "f242432a",
		},
		{
			name: "erc1155SafeBatchTransferFrom",
			encode: func() ([]byte, error) {
				return EncodeERC1155SafeBatchTransferFrom(app, receiver, []*big.Int{id}, []*big.Int{amount})
			},
			selector: "2eb2c2d6",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := tc.encode()
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(payload), 4)
			require.Equal(t, tc.selector, hex.EncodeToString(payload[:4]))
		})
	}
}

func TestEncodeWithdrawEtherArguments(t *testing.T) {
	receiver := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	payload, err := EncodeWithdrawEther(receiver, big.NewInt(42))
	require.NoError(t, err)
	require.Len(t, payload, 4+32+32)
	require.Equal(t, receiver.Bytes(), payload[4+12:4+32])
	require.Equal(t, big.NewInt(42), new(big.Int).SetBytes(payload[4+32:]))
}

func TestDefaultPortalBook(t *testing.T) {
	book := DefaultPortalBook()
	require.Equal(t, EtherPortalAddress, book.EtherPortal)
	require.Equal(t, ERC20PortalAddress, book.ERC20Portal)
	require.Equal(t, ERC721PortalAddress, book.ERC721Portal)
	require.Equal(t, ERC1155SinglePortalAddress, book.ERC1155SinglePortal)
	require.Equal(t, ERC1155BatchPortalAddress, book.ERC1155BatchPortal)
	require.Equal(t, DAppAddressRelayAddress, book.DAppAddressRelay)

	// portal senders must be pairwise distinct for dispatch to be unambiguous
	seen := map[common.Address]bool{}
	for _, addr := range []common.Address{
		book.EtherPortal, book.ERC20Portal, book.ERC721Portal,
		book.ERC1155SinglePortal, book.ERC1155BatchPortal, book.DAppAddressRelay,
	} {
		require.False(t, seen[addr], "duplicate portal address %s", addr)
		seen[addr] = true
	}
}
