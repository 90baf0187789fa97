package rollups

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FinishStatus is the verdict reported back to the rollup node for each
// processed input. The node uses it to decide on-chain acknowledgment.
type FinishStatus string

const (
	Accept FinishStatus = "accept"
	Reject FinishStatus = "reject"
)

// RequestMetadata carries the on-chain context of an advance-state input as
// delivered by the rollup node.
type RequestMetadata struct {
	MsgSender   string `json:"msg_sender"`
	BlockNumber uint64 `json:"block_number"`
	EpochIndex  uint64 `json:"epoch_index"`
	InputIndex  uint64 `json:"input_index"`
	Timestamp   uint64 `json:"timestamp"`
}

// AdvanceRequest is a state-mutating input. The payload is a 0x-prefixed hex
// string whose binary layout depends on the originating portal contract.
type AdvanceRequest struct {
	Metadata RequestMetadata `json:"metadata"`
	Payload  string          `json:"payload"`
}

// InspectRequest is a read-only query input.
type InspectRequest struct {
	Payload string `json:"payload"`
}

// Voucher is an instruction for the settlement layer to execute a call
// on-chain: an ABI-encoded function call destined at a specific contract.
type Voucher struct {
	Destination common.Address `json:"destination"`
	Payload     hexutil.Bytes  `json:"payload"`
}

// Notice is an informational output, verifiable on-chain but with no
// associated execution.
type Notice struct {
	Payload hexutil.Bytes `json:"payload"`
}

// Report is a diagnostic output associated with an input. Reports are not
// provable on-chain and are typically used for inspect responses and errors.
type Report struct {
	Payload hexutil.Bytes `json:"payload"`
}
