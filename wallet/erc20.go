package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"rollwallet/rollups"
)

// ERC20 handles deposits from the ERC-20 portal and the corresponding
// internal transfers and withdrawals.
type ERC20 struct {
	portal common.Address
}

// ERC20BalanceOf queries one account's balance for one token contract.
type ERC20BalanceOf struct {
	Token     common.Address
	Address   string
	GetWallet func(address string) *Wallet
}

// ERC20Transfer moves token units between two internal accounts.
type ERC20Transfer struct {
	Token     common.Address
	From      string
	To        string
	Amount    *big.Int
	GetWallet func(address string) *Wallet
	SetWallet func(address string, w *Wallet)
}

// ERC20Withdraw debits an account and builds the settlement voucher.
type ERC20Withdraw struct {
	Token     common.Address
	Address   common.Address
	Amount    *big.Int
	GetWallet func(address string) *Wallet
	GetDapp   func() (common.Address, error)
}

func (e *ERC20) IsDeposit(msgSender common.Address) bool {
	return msgSender == e.portal
}

// Deposit credits the sender with the transferred amount. Payloads carrying
// a false success flag record a failed on-chain transfer: the input is
// consumed without error and without crediting anything.
func (e *ERC20) Deposit(_ context.Context, deposit DepositContext) error {
	parsed, err := ParseERC20Deposit(deposit.Payload)
	if err != nil {
		return err
	}
	if !parsed.Success {
		return nil
	}
	sender := parsed.Sender.Hex()
	w := deposit.GetWallet(sender)
	w.ERC20[parsed.Token] = new(big.Int).Add(w.erc20Balance(parsed.Token), parsed.Amount)
	deposit.SetWallet(sender, w)
	return nil
}

// BalanceOf returns the token balance, zero for any missing entry.
func (e *ERC20) BalanceOf(q ERC20BalanceOf) *big.Int {
	w := q.GetWallet(NormalizeAddress(q.Address))
	if w == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(w.erc20Balance(q.Token))
}

// Transfer moves Amount of Token from one account to another, checking the
// source balance before mutating anything.
func (e *ERC20) Transfer(t ERC20Transfer) error {
	if t.Amount == nil || t.Amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	from := NormalizeAddress(t.From)
	to := NormalizeAddress(t.To)
	walletFrom := t.GetWallet(from)
	walletTo := t.GetWallet(to)
	balance := walletFrom.erc20Balance(t.Token)
	if balance.Cmp(t.Amount) < 0 {
		return &InsufficientBalanceError{Account: from, Token: t.Token.Hex()}
	}
	walletFrom.ERC20[t.Token] = new(big.Int).Sub(balance, t.Amount)
	walletTo.ERC20[t.Token] = new(big.Int).Add(walletTo.erc20Balance(t.Token), t.Amount)
	t.SetWallet(from, walletFrom)
	t.SetWallet(to, walletTo)
	return nil
}

// Withdraw debits the account and returns a voucher carrying a transfer
// call destined at the token contract.
func (e *ERC20) Withdraw(w ERC20Withdraw) (*rollups.Voucher, error) {
	if w.Amount == nil || w.Amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if _, err := w.GetDapp(); err != nil {
		return nil, err
	}
	account := w.GetWallet(w.Address.Hex())
	balance := account.erc20Balance(w.Token)
	if balance.Cmp(w.Amount) < 0 {
		return nil, &InsufficientBalanceError{Account: w.Address.Hex(), Token: w.Token.Hex()}
	}
	account.ERC20[w.Token] = new(big.Int).Sub(balance, w.Amount)
	payload, err := rollups.EncodeERC20Transfer(w.Address, w.Amount)
	if err != nil {
		return nil, err
	}
	return &rollups.Voucher{Destination: w.Token, Payload: payload}, nil
}
