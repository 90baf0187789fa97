package wallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"rollwallet/rollups"
)

// Relay handles the address-relay input that announces the on-chain
// application contract. It is a pseudo-asset: only deposits apply.
type Relay struct {
	relay common.Address
}

func (r *Relay) IsDeposit(msgSender common.Address) bool {
	return msgSender == r.relay
}

// Deposit parses the payload as a bare 20-byte address and stores it as the
// application address.
func (r *Relay) Deposit(_ context.Context, deposit DepositContext) error {
	if len(deposit.Payload) != common.AddressLength {
		return &DecodeError{
			Asset:  "relay",
			Reason: fmt.Sprintf("payload is %d bytes, want %d", len(deposit.Payload), common.AddressLength),
		}
	}
	deposit.SetDapp(common.BytesToAddress(deposit.Payload))
	return nil
}

// BalanceOf is not applicable to the relay pseudo-asset.
func (r *Relay) BalanceOf() (*big.Int, error) {
	return nil, ErrNotApplicable
}

// Transfer is not applicable to the relay pseudo-asset.
func (r *Relay) Transfer() error {
	return ErrNotApplicable
}

// Withdraw is not applicable to the relay pseudo-asset.
func (r *Relay) Withdraw() (*rollups.Voucher, error) {
	return nil, ErrNotApplicable
}
