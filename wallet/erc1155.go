package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"rollwallet/rollups"
)

// ERC1155Single handles deposits from the single-transfer ERC-1155 portal
// and the corresponding internal transfers and withdrawals.
type ERC1155Single struct {
	portal common.Address
}

// ERC1155SingleBalanceOf queries one account's quantity of one token id.
type ERC1155SingleBalanceOf struct {
	Token     common.Address
	TokenID   *big.Int
	Owner     string
	GetWallet func(address string) *Wallet
}

// ERC1155SingleTransfer moves a quantity of one token id between accounts.
type ERC1155SingleTransfer struct {
	Token     common.Address
	From      string
	To        string
	TokenID   *big.Int
	Value     *big.Int
	GetWallet func(address string) *Wallet
	SetWallet func(address string, w *Wallet)
}

// ERC1155SingleWithdraw debits one token id and builds the settlement
// voucher.
type ERC1155SingleWithdraw struct {
	Token     common.Address
	Address   common.Address
	TokenID   *big.Int
	Value     *big.Int
	GetWallet func(address string) *Wallet
	GetDapp   func() (common.Address, error)
}

func (e *ERC1155Single) IsDeposit(msgSender common.Address) bool {
	return msgSender == e.portal
}

func (e *ERC1155Single) Deposit(_ context.Context, deposit DepositContext) error {
	parsed, err := ParseERC1155SingleDeposit(deposit.Payload)
	if err != nil {
		return err
	}
	id, err := tokenIDKey(parsed.TokenID)
	if err != nil {
		return err
	}
	sender := parsed.Sender.Hex()
	w := deposit.GetWallet(sender)
	quantities := w.erc1155Collection(parsed.Token)
	quantities[id] = new(big.Int).Add(w.erc1155Balance(parsed.Token, id), parsed.Value)
	deposit.SetWallet(sender, w)
	return nil
}

// BalanceOf returns the quantity held for the token id, zero for any
// missing entry.
func (e *ERC1155Single) BalanceOf(q ERC1155SingleBalanceOf) *big.Int {
	id, err := tokenIDKey(q.TokenID)
	if err != nil {
		return big.NewInt(0)
	}
	w := q.GetWallet(NormalizeAddress(q.Owner))
	if w == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(w.erc1155Balance(q.Token, id))
}

// Transfer moves Value units of TokenID between accounts, checking the
// source quantity before mutating anything.
func (e *ERC1155Single) Transfer(t ERC1155SingleTransfer) error {
	if t.Value == nil || t.Value.Sign() < 0 {
		return ErrNegativeAmount
	}
	id, err := tokenIDKey(t.TokenID)
	if err != nil {
		return err
	}
	from := NormalizeAddress(t.From)
	to := NormalizeAddress(t.To)
	walletFrom := t.GetWallet(from)
	walletTo := t.GetWallet(to)
	balance := walletFrom.erc1155Balance(t.Token, id)
	if balance.Cmp(t.Value) < 0 {
		return &InsufficientBalanceError{Account: from, Token: t.Token.Hex(), TokenID: t.TokenID}
	}
	walletFrom.erc1155Collection(t.Token)[id] = new(big.Int).Sub(balance, t.Value)
	walletTo.erc1155Collection(t.Token)[id] = new(big.Int).Add(walletTo.erc1155Balance(t.Token, id), t.Value)
	t.SetWallet(from, walletFrom)
	t.SetWallet(to, walletTo)
	return nil
}

// Withdraw debits the account and returns a voucher carrying a
// safeTransferFrom call destined at the token contract.
func (e *ERC1155Single) Withdraw(w ERC1155SingleWithdraw) (*rollups.Voucher, error) {
	if w.Value == nil || w.Value.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	id, err := tokenIDKey(w.TokenID)
	if err != nil {
		return nil, err
	}
	dapp, err := w.GetDapp()
	if err != nil {
		return nil, err
	}
	account := w.GetWallet(w.Address.Hex())
	balance := account.erc1155Balance(w.Token, id)
	if balance.Cmp(w.Value) < 0 {
		return nil, &InsufficientBalanceError{Account: w.Address.Hex(), Token: w.Token.Hex(), TokenID: w.TokenID}
	}
	account.erc1155Collection(w.Token)[id] = new(big.Int).Sub(balance, w.Value)
	payload, err := rollups.EncodeERC1155SafeTransferFrom(dapp, w.Address, w.TokenID, w.Value)
	if err != nil {
		return nil, err
	}
	return &rollups.Voucher{Destination: w.Token, Payload: payload}, nil
}

// ERC1155Batch handles deposits from the batch-transfer ERC-1155 portal and
// the corresponding internal transfers and withdrawals over parallel
// token-id and value arrays.
type ERC1155Batch struct {
	portal common.Address
}

// ERC1155BatchBalanceOf queries quantities for parallel (token, id) pairs.
type ERC1155BatchBalanceOf struct {
	Tokens    []common.Address
	TokenIDs  []*big.Int
	Owner     string
	GetWallet func(address string) *Wallet
}

// ERC1155BatchTransfer moves quantities of several token ids between
// accounts, all-or-nothing.
type ERC1155BatchTransfer struct {
	Token     common.Address
	From      string
	To        string
	TokenIDs  []*big.Int
	Values    []*big.Int
	GetWallet func(address string) *Wallet
	SetWallet func(address string, w *Wallet)
}

// ERC1155BatchWithdraw debits several token ids and builds the settlement
// voucher.
type ERC1155BatchWithdraw struct {
	Token     common.Address
	Address   common.Address
	TokenIDs  []*big.Int
	Values    []*big.Int
	GetWallet func(address string) *Wallet
	GetDapp   func() (common.Address, error)
}

func (e *ERC1155Batch) IsDeposit(msgSender common.Address) bool {
	return msgSender == e.portal
}

// Deposit credits every (id, value) pair. A repeated id within one batch
// accumulates.
func (e *ERC1155Batch) Deposit(_ context.Context, deposit DepositContext) error {
	parsed, err := ParseERC1155BatchDeposit(deposit.Payload)
	if err != nil {
		return err
	}
	keys := make([]uint256.Int, len(parsed.TokenIDs))
	for i, tokenID := range parsed.TokenIDs {
		if keys[i], err = tokenIDKey(tokenID); err != nil {
			return err
		}
	}
	sender := parsed.Sender.Hex()
	w := deposit.GetWallet(sender)
	quantities := w.erc1155Collection(parsed.Token)
	for i, id := range keys {
		quantities[id] = new(big.Int).Add(w.erc1155Balance(parsed.Token, id), parsed.Values[i])
	}
	deposit.SetWallet(sender, w)
	return nil
}

// BalanceOf returns one quantity per (token, id) pair, positionally.
func (e *ERC1155Batch) BalanceOf(q ERC1155BatchBalanceOf) ([]*big.Int, error) {
	if len(q.Tokens) != len(q.TokenIDs) {
		return nil, ErrLengthMismatch
	}
	w := q.GetWallet(NormalizeAddress(q.Owner))
	balances := make([]*big.Int, len(q.Tokens))
	for i, token := range q.Tokens {
		id, err := tokenIDKey(q.TokenIDs[i])
		if err != nil || w == nil {
			balances[i] = big.NewInt(0)
			continue
		}
		balances[i] = new(big.Int).Set(w.erc1155Balance(token, id))
	}
	return balances, nil
}

// requiredQuantities folds the parallel arrays into the total debit per
// token id, so a repeated id cannot drive a balance below zero.
func requiredQuantities(tokenIDs, values []*big.Int) (map[uint256.Int]*big.Int, []uint256.Int, error) {
	required := make(map[uint256.Int]*big.Int, len(tokenIDs))
	order := make([]uint256.Int, 0, len(tokenIDs))
	for i, tokenID := range tokenIDs {
		value := values[i]
		if value == nil || value.Sign() < 0 {
			return nil, nil, ErrNegativeAmount
		}
		id, err := tokenIDKey(tokenID)
		if err != nil {
			return nil, nil, err
		}
		if total, ok := required[id]; ok {
			required[id] = new(big.Int).Add(total, value)
			continue
		}
		required[id] = new(big.Int).Set(value)
		order = append(order, id)
	}
	return required, order, nil
}

// Transfer moves every (id, value) pair from one account to another. All
// pairs are checked for sufficiency before any is applied.
func (e *ERC1155Batch) Transfer(t ERC1155BatchTransfer) error {
	if len(t.TokenIDs) != len(t.Values) {
		return ErrLengthMismatch
	}
	required, order, err := requiredQuantities(t.TokenIDs, t.Values)
	if err != nil {
		return err
	}
	from := NormalizeAddress(t.From)
	to := NormalizeAddress(t.To)
	walletFrom := t.GetWallet(from)
	walletTo := t.GetWallet(to)
	for _, id := range order {
		if walletFrom.erc1155Balance(t.Token, id).Cmp(required[id]) < 0 {
			return &InsufficientBalanceError{Account: from, Token: t.Token.Hex(), TokenID: id.ToBig()}
		}
	}
	fromQuantities := walletFrom.erc1155Collection(t.Token)
	toQuantities := walletTo.erc1155Collection(t.Token)
	for _, id := range order {
		fromQuantities[id] = new(big.Int).Sub(walletFrom.erc1155Balance(t.Token, id), required[id])
		toQuantities[id] = new(big.Int).Add(walletTo.erc1155Balance(t.Token, id), required[id])
	}
	t.SetWallet(from, walletFrom)
	t.SetWallet(to, walletTo)
	return nil
}

// Withdraw debits every (id, value) pair and returns a voucher destined at
// the token contract. One-element batches encode the single-transfer call
// form instead of the batch form.
func (e *ERC1155Batch) Withdraw(w ERC1155BatchWithdraw) (*rollups.Voucher, error) {
	if len(w.TokenIDs) == 0 || len(w.Values) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(w.TokenIDs) != len(w.Values) {
		return nil, ErrLengthMismatch
	}
	required, order, err := requiredQuantities(w.TokenIDs, w.Values)
	if err != nil {
		return nil, err
	}
	dapp, err := w.GetDapp()
	if err != nil {
		return nil, err
	}
	account := w.GetWallet(w.Address.Hex())
	for _, id := range order {
		if account.erc1155Balance(w.Token, id).Cmp(required[id]) < 0 {
			return nil, &InsufficientBalanceError{Account: w.Address.Hex(), Token: w.Token.Hex(), TokenID: id.ToBig()}
		}
	}
	quantities := account.erc1155Collection(w.Token)
	for _, id := range order {
		quantities[id] = new(big.Int).Sub(account.erc1155Balance(w.Token, id), required[id])
	}
	var payload []byte
	if len(w.TokenIDs) == 1 {
		payload, err = rollups.EncodeERC1155SafeTransferFrom(dapp, w.Address, w.TokenIDs[0], w.Values[0])
	} else {
		payload, err = rollups.EncodeERC1155SafeBatchTransferFrom(dapp, w.Address, w.TokenIDs, w.Values)
	}
	if err != nil {
		return nil, err
	}
	return &rollups.Voucher{Destination: w.Token, Payload: payload}, nil
}
