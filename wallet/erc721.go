package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"rollwallet/rollups"
)

// ERC721 handles deposits from the ERC-721 portal and the corresponding
// internal transfers and withdrawals. Ownership is a set of token ids; an id
// is held by at most one account because it only ever moves, never copies.
type ERC721 struct {
	portal common.Address
}

// ERC721BalanceOf queries how many ids of one collection an account owns.
type ERC721BalanceOf struct {
	Token     common.Address
	Owner     string
	GetWallet func(address string) *Wallet
}

// ERC721Transfer moves one token id between two internal accounts.
type ERC721Transfer struct {
	Token     common.Address
	From      string
	To        string
	TokenID   *big.Int
	GetWallet func(address string) *Wallet
	SetWallet func(address string, w *Wallet)
}

// ERC721Withdraw removes one token id and builds the settlement voucher.
type ERC721Withdraw struct {
	Token     common.Address
	Address   common.Address
	TokenID   *big.Int
	GetWallet func(address string) *Wallet
	GetDapp   func() (common.Address, error)
}

func (e *ERC721) IsDeposit(msgSender common.Address) bool {
	return msgSender == e.portal
}

func (e *ERC721) Deposit(_ context.Context, deposit DepositContext) error {
	parsed, err := ParseERC721Deposit(deposit.Payload)
	if err != nil {
		return err
	}
	id, err := tokenIDKey(parsed.TokenID)
	if err != nil {
		return err
	}
	sender := parsed.Sender.Hex()
	w := deposit.GetWallet(sender)
	w.erc721Collection(parsed.Token)[id] = struct{}{}
	deposit.SetWallet(sender, w)
	return nil
}

// BalanceOf returns the cardinality of the owned-id set, zero for any
// missing entry.
func (e *ERC721) BalanceOf(q ERC721BalanceOf) *big.Int {
	w := q.GetWallet(NormalizeAddress(q.Owner))
	if w == nil {
		return big.NewInt(0)
	}
	return big.NewInt(int64(len(w.ERC721[q.Token])))
}

// Transfer moves TokenID from one account to another. Ownership is presence
// in the id set, checked before anything is mutated.
func (e *ERC721) Transfer(t ERC721Transfer) error {
	id, err := tokenIDKey(t.TokenID)
	if err != nil {
		return err
	}
	from := NormalizeAddress(t.From)
	to := NormalizeAddress(t.To)
	walletFrom := t.GetWallet(from)
	walletTo := t.GetWallet(to)
	owned := walletFrom.erc721Collection(t.Token)
	if _, ok := owned[id]; !ok {
		return &InsufficientBalanceError{Account: from, Token: t.Token.Hex(), TokenID: t.TokenID}
	}
	walletTo.erc721Collection(t.Token)[id] = struct{}{}
	delete(owned, id)
	t.SetWallet(from, walletFrom)
	t.SetWallet(to, walletTo)
	return nil
}

// Withdraw removes TokenID from the account and returns a voucher carrying a
// safeTransferFrom call destined at the collection contract.
func (e *ERC721) Withdraw(w ERC721Withdraw) (*rollups.Voucher, error) {
	id, err := tokenIDKey(w.TokenID)
	if err != nil {
		return nil, err
	}
	dapp, err := w.GetDapp()
	if err != nil {
		return nil, err
	}
	account := w.GetWallet(w.Address.Hex())
	owned := account.erc721Collection(w.Token)
	if _, ok := owned[id]; !ok {
		return nil, &InsufficientBalanceError{Account: w.Address.Hex(), Token: w.Token.Hex(), TokenID: w.TokenID}
	}
	delete(owned, id)
	payload, err := rollups.EncodeERC721SafeTransferFrom(dapp, w.Address, w.TokenID)
	if err != nil {
		return nil, err
	}
	return &rollups.Voucher{Destination: w.Token, Payload: payload}, nil
}
