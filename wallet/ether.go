package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"rollwallet/rollups"
)

// Ether handles deposits from the Ether portal and the corresponding
// internal transfers and withdrawals.
type Ether struct {
	portal common.Address
}

// EtherBalanceOf queries the Ether balance of one account.
type EtherBalanceOf struct {
	Address   string
	GetWallet func(address string) *Wallet
}

// EtherTransfer moves Ether between two internal accounts.
type EtherTransfer struct {
	From      string
	To        string
	Amount    *big.Int
	GetWallet func(address string) *Wallet
	SetWallet func(address string, w *Wallet)
}

// EtherWithdraw debits an account and builds the settlement voucher.
type EtherWithdraw struct {
	Address   common.Address
	Amount    *big.Int
	GetWallet func(address string) *Wallet
	GetDapp   func() (common.Address, error)
}

func (e *Ether) IsDeposit(msgSender common.Address) bool {
	return msgSender == e.portal
}

func (e *Ether) Deposit(_ context.Context, deposit DepositContext) error {
	parsed, err := ParseEtherDeposit(deposit.Payload)
	if err != nil {
		return err
	}
	sender := parsed.Sender.Hex()
	w := deposit.GetWallet(sender)
	w.Ether = new(big.Int).Add(w.Ether, parsed.Value)
	deposit.SetWallet(sender, w)
	return nil
}

// BalanceOf returns the Ether balance, zero for unknown accounts.
func (e *Ether) BalanceOf(q EtherBalanceOf) *big.Int {
	w := q.GetWallet(NormalizeAddress(q.Address))
	if w == nil || w.Ether == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(w.Ether)
}

// Transfer moves Amount from one account to another. The source balance is
// checked before anything is mutated.
func (e *Ether) Transfer(t EtherTransfer) error {
	if t.Amount == nil || t.Amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	from := NormalizeAddress(t.From)
	to := NormalizeAddress(t.To)
	walletFrom := t.GetWallet(from)
	walletTo := t.GetWallet(to)
	if walletFrom.Ether.Cmp(t.Amount) < 0 {
		return &InsufficientBalanceError{Account: from}
	}
	walletFrom.Ether = new(big.Int).Sub(walletFrom.Ether, t.Amount)
	walletTo.Ether = new(big.Int).Add(walletTo.Ether, t.Amount)
	t.SetWallet(from, walletFrom)
	t.SetWallet(to, walletTo)
	return nil
}

// Withdraw debits the account and returns a voucher carrying a
// withdrawEther call destined at the application contract.
func (e *Ether) Withdraw(w EtherWithdraw) (*rollups.Voucher, error) {
	if w.Amount == nil || w.Amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	dapp, err := w.GetDapp()
	if err != nil {
		return nil, err
	}
	account := w.GetWallet(w.Address.Hex())
	if account.Ether.Cmp(w.Amount) < 0 {
		return nil, &InsufficientBalanceError{Account: w.Address.Hex()}
	}
	account.Ether = new(big.Int).Sub(account.Ether, w.Amount)
	payload, err := rollups.EncodeWithdrawEther(w.Address, w.Amount)
	if err != nil {
		return nil, err
	}
	return &rollups.Voucher{Destination: dapp, Payload: payload}, nil
}
