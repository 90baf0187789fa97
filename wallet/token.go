package wallet

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"rollwallet/rollups"
)

// DepositContext carries a decoded input payload together with the ledger
// accessors a handler may use while applying it. Handlers hold no state of
// their own; every mutation goes through these capability-scoped callbacks.
type DepositContext struct {
	Payload   []byte
	GetWallet func(address string) *Wallet
	SetWallet func(address string, w *Wallet)
	SetDapp   func(address common.Address)
}

// TokenOperation is the dispatch surface shared by all asset handlers: each
// recognizes deposits from its own portal sender and knows how to apply them.
type TokenOperation interface {
	IsDeposit(msgSender common.Address) bool
	Deposit(ctx context.Context, deposit DepositContext) error
}

// TokenHandler routes inbound advance inputs to the asset handler trusted
// for their sender. The handler set is fixed configuration; portal addresses
// are disjoint, so scan order does not affect correctness.
type TokenHandler struct {
	Ether         *Ether
	ERC20         *ERC20
	ERC721        *ERC721
	ERC1155Single *ERC1155Single
	ERC1155Batch  *ERC1155Batch
	Relay         *Relay

	handlers []TokenOperation
}

// NewTokenHandler constructs the handler set for the given portal book.
func NewTokenHandler(book rollups.PortalBook) *TokenHandler {
	h := &TokenHandler{
		Ether:         &Ether{portal: book.EtherPortal},
		ERC20:         &ERC20{portal: book.ERC20Portal},
		ERC721:        &ERC721{portal: book.ERC721Portal},
		ERC1155Single: &ERC1155Single{portal: book.ERC1155SinglePortal},
		ERC1155Batch:  &ERC1155Batch{portal: book.ERC1155BatchPortal},
		Relay:         &Relay{relay: book.DAppAddressRelay},
	}
	h.handlers = []TokenOperation{
		h.Ether,
		h.ERC20,
		h.ERC721,
		h.ERC1155Single,
		h.ERC1155Batch,
		h.Relay,
	}
	return h
}

// FindDeposit validates the shape of an advance request and resolves the
// handler trusted for its sender. A nil operation with a nil error means no
// portal claims the sender and the input should be rejected.
func (h *TokenHandler) FindDeposit(req *rollups.AdvanceRequest) (TokenOperation, []byte, error) {
	if req == nil {
		return nil, nil, fmt.Errorf("%w: nil request", ErrInvalidPayload)
	}
	if !common.IsHexAddress(req.Metadata.MsgSender) {
		return nil, nil, fmt.Errorf("%w: malformed msg_sender %q", ErrInvalidPayload, req.Metadata.MsgSender)
	}
	payload, err := hexutil.Decode(req.Payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: payload: %v", ErrInvalidPayload, err)
	}
	msgSender := common.HexToAddress(req.Metadata.MsgSender)
	for _, op := range h.handlers {
		if op.IsDeposit(msgSender) {
			return op, payload, nil
		}
	}
	return nil, nil, nil
}
