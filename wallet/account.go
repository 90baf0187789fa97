package wallet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Wallet holds the balances of a single account across all asset classes.
// All fields are zero-initialized at construction; absent map entries mean a
// zero balance. ERC-721 and ERC-1155 entries are keyed by token id.
type Wallet struct {
	Ether   *big.Int
	ERC20   map[common.Address]*big.Int
	ERC721  map[common.Address]map[uint256.Int]struct{}
	ERC1155 map[common.Address]map[uint256.Int]*big.Int
}

// NewWallet returns an account record with all balances at zero.
func NewWallet() *Wallet {
	return &Wallet{
		Ether:   big.NewInt(0),
		ERC20:   make(map[common.Address]*big.Int),
		ERC721:  make(map[common.Address]map[uint256.Int]struct{}),
		ERC1155: make(map[common.Address]map[uint256.Int]*big.Int),
	}
}

// Copy returns a deep copy to avoid callers mutating shared state.
func (w *Wallet) Copy() *Wallet {
	if w == nil {
		return nil
	}
	clone := NewWallet()
	if w.Ether != nil {
		clone.Ether = new(big.Int).Set(w.Ether)
	}
	for token, balance := range w.ERC20 {
		clone.ERC20[token] = new(big.Int).Set(balance)
	}
	for token, ids := range w.ERC721 {
		set := make(map[uint256.Int]struct{}, len(ids))
		for id := range ids {
			set[id] = struct{}{}
		}
		clone.ERC721[token] = set
	}
	for token, quantities := range w.ERC1155 {
		amounts := make(map[uint256.Int]*big.Int, len(quantities))
		for id, amount := range quantities {
			amounts[id] = new(big.Int).Set(amount)
		}
		clone.ERC1155[token] = amounts
	}
	return clone
}

func (w *Wallet) erc20Balance(token common.Address) *big.Int {
	if w == nil {
		return big.NewInt(0)
	}
	if balance, ok := w.ERC20[token]; ok && balance != nil {
		return balance
	}
	return big.NewInt(0)
}

func (w *Wallet) erc721Collection(token common.Address) map[uint256.Int]struct{} {
	ids, ok := w.ERC721[token]
	if !ok {
		ids = make(map[uint256.Int]struct{})
		w.ERC721[token] = ids
	}
	return ids
}

func (w *Wallet) erc1155Collection(token common.Address) map[uint256.Int]*big.Int {
	quantities, ok := w.ERC1155[token]
	if !ok {
		quantities = make(map[uint256.Int]*big.Int)
		w.ERC1155[token] = quantities
	}
	return quantities
}

func (w *Wallet) erc1155Balance(token common.Address, id uint256.Int) *big.Int {
	if w == nil {
		return big.NewInt(0)
	}
	if quantities, ok := w.ERC1155[token]; ok {
		if amount, ok := quantities[id]; ok && amount != nil {
			return amount
		}
	}
	return big.NewInt(0)
}

// NormalizeAddress returns the canonical EIP-55 checksummed form when the
// input parses as a hex address. Other strings are legal account keys and
// pass through verbatim.
func NormalizeAddress(address string) string {
	if common.IsHexAddress(address) {
		return common.HexToAddress(address).Hex()
	}
	return address
}

// tokenIDKey converts an API-supplied token id into the comparable map key
// form. Negative ids and ids wider than 256 bits cannot exist on-chain.
func tokenIDKey(id *big.Int) (uint256.Int, error) {
	if id == nil || id.Sign() < 0 {
		return uint256.Int{}, ErrTokenIDOutOfRange
	}
	key, overflow := uint256.FromBig(id)
	if overflow {
		return uint256.Int{}, ErrTokenIDOutOfRange
	}
	return *key, nil
}
