package codec

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// depositDataArgs decodes the non-indexed tail of a TransactionDeposited
// log: (uint256 version, bytes opaqueData), with opaqueData itself packing
// (mint, value, gasLimit, isCreation, data) Optimism-style. from/to arrive
// as the log's indexed topics.
var depositDataArgs = ethabi.Arguments{
	{Type: mustType("uint256")},
	{Type: mustType("bytes")},
}

var opaqueDataArgs = ethabi.Arguments{
	{Type: mustType("uint256")}, // mint
	{Type: mustType("uint256")}, // value
	{Type: mustType("uint64")},  // gasLimit
	{Type: mustType("bool")},    // isCreation
	{Type: mustType("bytes")},   // data
}

// DecodeDepositV0 decodes a TransactionDeposited log. from and to are the
// log's second and third topics (indexed event args); data is the log's
// non-indexed payload. A version other than 0 is MalformedInput — the
// contract reserves other versions for payload layouts this decoder does
// not understand.
func DecodeDepositV0(txHash, blockHash domain.Hash32, logIndex uint32, blockNumber domain.BlockNumber, from, to domain.Address, data []byte) (domain.DepositV0, error) {
	values, err := depositDataArgs.Unpack(data)
	if err != nil || len(values) != 2 {
		return domain.DepositV0{}, indexererrors.Malformed("decode TransactionDeposited envelope", err)
	}
	version, ok := values[0].(*big.Int)
	if !ok {
		return domain.DepositV0{}, indexererrors.New(indexererrors.MalformedInput, "TransactionDeposited version is not a uint256")
	}
	if version.Sign() != 0 {
		return domain.DepositV0{}, indexererrors.New(indexererrors.MalformedInput, "TransactionDeposited version must be 0")
	}
	opaque, ok := values[1].([]byte)
	if !ok {
		return domain.DepositV0{}, indexererrors.New(indexererrors.MalformedInput, "TransactionDeposited opaqueData is not bytes")
	}

	opaqueValues, err := opaqueDataArgs.Unpack(opaque)
	if err != nil || len(opaqueValues) != 5 {
		return domain.DepositV0{}, indexererrors.Malformed("decode TransactionDeposited opaqueData", err)
	}
	mint, _ := opaqueValues[0].(*big.Int)
	value, _ := opaqueValues[1].(*big.Int)
	gasLimit, _ := opaqueValues[2].(uint64)
	isCreation, _ := opaqueValues[3].(bool)
	calldata, _ := opaqueValues[4].([]byte)

	return domain.DepositV0{
		TxHash:      txHash,
		BlockHash:   blockHash,
		LogIndex:    logIndex,
		BlockNumber: blockNumber,
		SourceHash:  SourceHash(blockHash, uint64(logIndex)),
		From:        from,
		To:          to,
		Mint:        domain.NewCurrencyAmount(defaultBig(mint)),
		Value:       domain.NewCurrencyAmount(defaultBig(value)),
		GasLimit:    gasLimit,
		IsCreation:  isCreation,
		Calldata:    calldata,
	}, nil
}

func defaultBig(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

// DecodeWithdrawalProven decodes a WithdrawalProven log: withdrawalHash is
// the first indexed topic, from/to the second and third.
func DecodeWithdrawalProven(txHash, blockHash domain.Hash32, logIndex uint32, blockNumber domain.BlockNumber, withdrawalHash domain.Hash32, from, to domain.Address) domain.WithdrawalProvenEvent {
	return domain.WithdrawalProvenEvent{
		TxHash:         txHash,
		BlockHash:      blockHash,
		LogIndex:       logIndex,
		BlockNumber:    blockNumber,
		WithdrawalHash: withdrawalHash,
		From:           from,
		To:             to,
	}
}

var withdrawalFinalizedDataArgs = ethabi.Arguments{{Type: mustType("bool")}}

// DecodeWithdrawalFinalized decodes a WithdrawalFinalized log: withdrawalHash
// is the indexed topic, success is the single non-indexed data field.
func DecodeWithdrawalFinalized(txHash, blockHash domain.Hash32, logIndex uint32, blockNumber domain.BlockNumber, withdrawalHash domain.Hash32, data []byte) (domain.WithdrawalFinalizedEvent, error) {
	values, err := withdrawalFinalizedDataArgs.Unpack(data)
	if err != nil || len(values) != 1 {
		return domain.WithdrawalFinalizedEvent{}, indexererrors.Malformed("decode WithdrawalFinalized data", err)
	}
	success, ok := values[0].(bool)
	if !ok {
		return domain.WithdrawalFinalizedEvent{}, indexererrors.New(indexererrors.MalformedInput, "WithdrawalFinalized success is not bool")
	}
	return domain.WithdrawalFinalizedEvent{
		TxHash:         txHash,
		BlockHash:      blockHash,
		LogIndex:       logIndex,
		BlockNumber:    blockNumber,
		WithdrawalHash: withdrawalHash,
		Success:        success,
	}, nil
}

var messagePassedDataArgs = ethabi.Arguments{
	{Type: mustType("uint256")}, // nonce
	{Type: mustType("address")}, // sender
	{Type: mustType("address")}, // target
	{Type: mustType("uint256")}, // value
	{Type: mustType("uint256")}, // gasLimit
	{Type: mustType("bytes")},   // data
	{Type: mustType("bytes32")}, // withdrawalHash
}

// DecodeMessagePassed decodes an L2ToL1MessagePasser MessagePassed log
// emitted on the L3 chain; all fields arrive in the log's data (none are
// indexed in this schema), matching the shape extract_withdrawals expects.
func DecodeMessagePassed(chainID uint64, txHash, blockHash domain.Hash32, blockNumber domain.BlockNumber, data []byte) (domain.L3Withdrawal, error) {
	values, err := messagePassedDataArgs.Unpack(data)
	if err != nil || len(values) != 7 {
		return domain.L3Withdrawal{}, indexererrors.Malformed("decode MessagePassed data", err)
	}
	nonce, _ := values[0].(*big.Int)
	sender, _ := values[1].(ethcommon.Address)
	target, _ := values[2].(ethcommon.Address)
	value, _ := values[3].(*big.Int)
	gasLimit, _ := values[4].(*big.Int)
	msgData, _ := values[5].([]byte)
	withdrawalHash, _ := values[6].([32]byte)

	return domain.L3Withdrawal{
		ChainID:        chainID,
		BlockNumber:    blockNumber,
		BlockHash:      blockHash,
		TxHash:         txHash,
		Nonce:          domain.NewCurrencyAmount(defaultBig(nonce)),
		Sender:         domain.Address(sender),
		Target:         domain.Address(target),
		Value:          domain.NewCurrencyAmount(defaultBig(value)),
		GasLimit:       bigToUint64OrZero(gasLimit),
		Data:           msgData,
		WithdrawalHash: domain.Hash32(withdrawalHash),
	}, nil
}

func bigToUint64OrZero(v *big.Int) uint64 {
	u, err := bigToUint64(v)
	if err != nil {
		return 0
	}
	return u
}
