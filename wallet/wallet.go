package wallet

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"rollwallet/rollups"
)

// App is the off-chain ledger. It owns the account table and the lazily-set
// application address, routes inbound deposits to the asset handlers, and
// exposes balance, transfer and withdrawal operations to the hosted
// application.
//
// Inputs are applied strictly sequentially: the App performs no internal
// locking and expects one advance input to be fully processed before the
// next is presented.
type App struct {
	dapp    *common.Address
	wallets map[string]*Wallet
	tokens  *TokenHandler
	portals rollups.PortalBook
	logger  *slog.Logger
}

// Option configures an App at construction time.
type Option func(*App)

// WithLogger sets the logger used to record rejected inputs.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithPortals overrides the default portal address book.
func WithPortals(book rollups.PortalBook) Option {
	return func(a *App) {
		a.portals = book
	}
}

// New constructs an empty ledger.
func New(opts ...Option) *App {
	a := &App{
		wallets: make(map[string]*Wallet),
		portals: rollups.DefaultPortalBook(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.tokens = NewTokenHandler(a.portals)
	return a
}

// Tokens exposes the asset handler set, primarily so applications can call
// handler capabilities not wrapped by the App surface.
func (a *App) Tokens() *TokenHandler { return a.tokens }

// getWalletOrNew returns the account record for the address, creating a
// zero-balance record on first reference.
func (a *App) getWalletOrNew(address string) *Wallet {
	key := NormalizeAddress(address)
	if w, ok := a.wallets[key]; ok {
		return w
	}
	w := NewWallet()
	a.wallets[key] = w
	return w
}

// lookupWallet returns the account record or nil. Reads never create
// accounts.
func (a *App) lookupWallet(address string) *Wallet {
	return a.wallets[NormalizeAddress(address)]
}

func (a *App) setWallet(address string, w *Wallet) {
	a.wallets[NormalizeAddress(address)] = w
}

func (a *App) setApplicationAddress(address common.Address) {
	a.dapp = &address
}

// ApplicationAddress returns the settlement contract address announced by
// the relay input, or ErrMissingApplicationAddress if none arrived yet.
func (a *App) ApplicationAddress() (common.Address, error) {
	if a.dapp == nil {
		return common.Address{}, ErrMissingApplicationAddress
	}
	return *a.dapp, nil
}

// Handler is the entry point for every inbound advance input. It never
// fails: any error on the deposit path is logged and converted to a reject
// verdict, leaving the account table untouched.
func (a *App) Handler(ctx context.Context, req *rollups.AdvanceRequest) rollups.FinishStatus {
	op, payload, err := a.tokens.FindDeposit(req)
	if err != nil {
		a.logger.Error("rejecting malformed input", slog.Any("error", err))
		return rollups.Reject
	}
	if op == nil {
		a.logger.Debug("rejecting input from unknown sender", slog.String("msg_sender", req.Metadata.MsgSender))
		return rollups.Reject
	}
	deposit := DepositContext{
		Payload:   payload,
		GetWallet: a.getWalletOrNew,
		SetWallet: a.setWallet,
		SetDapp:   a.setApplicationAddress,
	}
	if err := op.Deposit(ctx, deposit); err != nil {
		a.logger.Error("rejecting deposit",
			slog.String("msg_sender", req.Metadata.MsgSender),
			slog.Any("error", err))
		return rollups.Reject
	}
	return rollups.Accept
}

// BalanceOf returns the Ether balance when called with one argument and the
// ERC-20 balance of token tokenOrAddress when called with two.
//
// Deprecated: use BalanceOfEther or BalanceOfERC20.
func (a *App) BalanceOf(tokenOrAddress string, address ...string) *big.Int {
	if len(address) > 0 && common.IsHexAddress(tokenOrAddress) {
		return a.BalanceOfERC20(common.HexToAddress(tokenOrAddress), address[0])
	}
	return a.BalanceOfEther(tokenOrAddress)
}

// BalanceOfEther returns the Ether balance of the account.
func (a *App) BalanceOfEther(address string) *big.Int {
	return a.tokens.Ether.BalanceOf(EtherBalanceOf{
		Address:   address,
		GetWallet: a.lookupWallet,
	})
}

// BalanceOfERC20 returns the account's balance for the token contract.
func (a *App) BalanceOfERC20(token common.Address, address string) *big.Int {
	return a.tokens.ERC20.BalanceOf(ERC20BalanceOf{
		Token:     token,
		Address:   address,
		GetWallet: a.lookupWallet,
	})
}

// BalanceOfERC721 returns how many ids of the collection the owner holds.
func (a *App) BalanceOfERC721(token common.Address, owner string) *big.Int {
	return a.tokens.ERC721.BalanceOf(ERC721BalanceOf{
		Token:     token,
		Owner:     owner,
		GetWallet: a.lookupWallet,
	})
}

// BalanceOfERC1155 returns the owner's quantity of one token id.
func (a *App) BalanceOfERC1155(token common.Address, tokenID *big.Int, owner string) *big.Int {
	return a.tokens.ERC1155Single.BalanceOf(ERC1155SingleBalanceOf{
		Token:     token,
		TokenID:   tokenID,
		Owner:     owner,
		GetWallet: a.lookupWallet,
	})
}

// BalanceOfERC1155Batch returns one quantity per (token, id) pair.
func (a *App) BalanceOfERC1155Batch(tokens []common.Address, tokenIDs []*big.Int, owner string) ([]*big.Int, error) {
	return a.tokens.ERC1155Batch.BalanceOf(ERC1155BatchBalanceOf{
		Tokens:    tokens,
		TokenIDs:  tokenIDs,
		Owner:     owner,
		GetWallet: a.lookupWallet,
	})
}

// TransferEther moves Ether between two internal accounts.
func (a *App) TransferEther(from, to string, amount *big.Int) error {
	return a.tokens.Ether.Transfer(EtherTransfer{
		From:      from,
		To:        to,
		Amount:    amount,
		GetWallet: a.getWalletOrNew,
		SetWallet: a.setWallet,
	})
}

// TransferERC20 moves token units between two internal accounts.
func (a *App) TransferERC20(token common.Address, from, to string, amount *big.Int) error {
	return a.tokens.ERC20.Transfer(ERC20Transfer{
		Token:     token,
		From:      from,
		To:        to,
		Amount:    amount,
		GetWallet: a.getWalletOrNew,
		SetWallet: a.setWallet,
	})
}

// TransferERC721 moves one token id between two internal accounts.
func (a *App) TransferERC721(token common.Address, from, to string, tokenID *big.Int) error {
	return a.tokens.ERC721.Transfer(ERC721Transfer{
		Token:     token,
		From:      from,
		To:        to,
		TokenID:   tokenID,
		GetWallet: a.getWalletOrNew,
		SetWallet: a.setWallet,
	})
}

// TransferERC1155 moves quantities of several token ids between two internal
// accounts, all-or-nothing.
func (a *App) TransferERC1155(token common.Address, from, to string, tokenIDs, values []*big.Int) error {
	return a.tokens.ERC1155Batch.Transfer(ERC1155BatchTransfer{
		Token:     token,
		From:      from,
		To:        to,
		TokenIDs:  tokenIDs,
		Values:    values,
		GetWallet: a.getWalletOrNew,
		SetWallet: a.setWallet,
	})
}

// WithdrawEther debits the account and returns the settlement voucher.
func (a *App) WithdrawEther(address common.Address, amount *big.Int) (*rollups.Voucher, error) {
	return a.tokens.Ether.Withdraw(EtherWithdraw{
		Address:   address,
		Amount:    amount,
		GetWallet: a.getWalletOrNew,
		GetDapp:   a.ApplicationAddress,
	})
}

// WithdrawERC20 debits the account and returns the settlement voucher.
func (a *App) WithdrawERC20(token, address common.Address, amount *big.Int) (*rollups.Voucher, error) {
	return a.tokens.ERC20.Withdraw(ERC20Withdraw{
		Token:     token,
		Address:   address,
		Amount:    amount,
		GetWallet: a.getWalletOrNew,
		GetDapp:   a.ApplicationAddress,
	})
}

// WithdrawERC721 removes the token id from the account and returns the
// settlement voucher.
func (a *App) WithdrawERC721(token, address common.Address, tokenID *big.Int) (*rollups.Voucher, error) {
	return a.tokens.ERC721.Withdraw(ERC721Withdraw{
		Token:     token,
		Address:   address,
		TokenID:   tokenID,
		GetWallet: a.getWalletOrNew,
		GetDapp:   a.ApplicationAddress,
	})
}

// WithdrawERC1155 debits every (id, value) pair and returns the settlement
// voucher. A one-element batch produces the single-transfer call form.
func (a *App) WithdrawERC1155(token, address common.Address, tokenIDs, values []*big.Int) (*rollups.Voucher, error) {
	return a.tokens.ERC1155Batch.Withdraw(ERC1155BatchWithdraw{
		Token:     token,
		Address:   address,
		TokenIDs:  tokenIDs,
		Values:    values,
		GetWallet: a.getWalletOrNew,
		GetDapp:   a.ApplicationAddress,
	})
}

// Dump returns a deep copy of the account table keyed by canonical address.
func (a *App) Dump() map[string]*Wallet {
	dump := make(map[string]*Wallet, len(a.wallets))
	for address, w := range a.wallets {
		dump[address] = w.Copy()
	}
	return dump
}

// Restore replaces the ledger state wholesale. It is intended for loading a
// persisted snapshot before any inputs are processed.
func (a *App) Restore(wallets map[string]*Wallet, dapp *common.Address) {
	a.wallets = make(map[string]*Wallet, len(wallets))
	for address, w := range wallets {
		a.wallets[NormalizeAddress(address)] = w.Copy()
	}
	if dapp != nil {
		address := *dapp
		a.dapp = &address
	} else {
		a.dapp = nil
	}
}
