package wallet

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrInvalidPayload marks an advance request that is structurally
	// malformed before any asset-specific decoding is attempted.
	ErrInvalidPayload = errors.New("wallet: invalid advance request")

	// ErrNegativeAmount rejects transfer and withdrawal amounts below zero.
	ErrNegativeAmount = errors.New("wallet: amount must not be negative")

	// ErrMissingApplicationAddress is returned by withdrawals attempted
	// before the relay input has set the application address.
	ErrMissingApplicationAddress = errors.New("wallet: application address not set")

	// ErrNotApplicable is returned when an operation is invoked on an asset
	// that only supports deposits.
	ErrNotApplicable = errors.New("wallet: operation not applicable to this asset")

	// ErrLengthMismatch rejects parallel token-id and value arrays of
	// different lengths.
	ErrLengthMismatch = errors.New("wallet: tokenIds and values must have the same length")

	// ErrEmptyBatch rejects batch withdrawals with no entries.
	ErrEmptyBatch = errors.New("wallet: tokenIds and values must not be empty")

	// ErrTokenIDOutOfRange rejects token ids outside the uint256 range.
	ErrTokenIDOutOfRange = errors.New("wallet: token id out of uint256 range")
)

// DecodeError reports a deposit payload whose byte layout does not match the
// wire format of the claimed asset class.
type DecodeError struct {
	Asset  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wallet: decode %s deposit: %s: %v", e.Asset, e.Reason, e.Err)
	}
	return fmt.Sprintf("wallet: decode %s deposit: %s", e.Asset, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func shortPayloadError(asset string, got, want int) *DecodeError {
	return &DecodeError{
		Asset:  asset,
		Reason: fmt.Sprintf("payload is %d bytes, want at least %d", got, want),
	}
}

// InsufficientBalanceError reports a transfer or withdrawal exceeding the
// source account's holdings. Token is empty for Ether and TokenID is nil
// unless the asset is id-based.
type InsufficientBalanceError struct {
	Account string
	Token   string
	TokenID *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	switch {
	case e.Token == "":
		return fmt.Sprintf("wallet: insufficient balance of account %s", e.Account)
	case e.TokenID != nil:
		return fmt.Sprintf("wallet: insufficient balance of account %s for token %s id %s", e.Account, e.Token, e.TokenID)
	default:
		return fmt.Sprintf("wallet: insufficient balance of account %s for token %s", e.Account, e.Token)
	}
}
