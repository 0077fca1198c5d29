package codec

import (
	"math/big"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// storageTxSchema is not a real contract ABI: it is a fixed schema used
// purely as a length- and type-checked decoding target for storage-tx
// calldata, which is laid out as a tuple of five arrays (one per operation
// kind). Describing it as a function's return values lets us reuse
// go-ethereum's ABI decoder — with its built-in bounds and type
// validation — instead of hand-rolling a calldata walker.
const storageTxSchemaJSON = `[{
	"name": "decode",
	"type": "function",
	"stateMutability": "view",
	"inputs": [],
	"outputs": [
		{"name": "creates", "type": "tuple[]", "components": [
			{"name": "data", "type": "bytes"},
			{"name": "btl", "type": "uint256"},
			{"name": "contentType", "type": "string"},
			{"name": "stringAnnotations", "type": "tuple[]", "components": [
				{"name": "key", "type": "string"},
				{"name": "value", "type": "string"}
			]},
			{"name": "numericAnnotations", "type": "tuple[]", "components": [
				{"name": "key", "type": "string"},
				{"name": "value", "type": "uint256"}
			]}
		]},
		{"name": "updates", "type": "tuple[]", "components": [
			{"name": "entityKey", "type": "bytes32"},
			{"name": "data", "type": "bytes"},
			{"name": "btl", "type": "uint256"},
			{"name": "contentType", "type": "string"},
			{"name": "stringAnnotations", "type": "tuple[]", "components": [
				{"name": "key", "type": "string"},
				{"name": "value", "type": "string"}
			]},
			{"name": "numericAnnotations", "type": "tuple[]", "components": [
				{"name": "key", "type": "string"},
				{"name": "value", "type": "uint256"}
			]}
		]},
		{"name": "deletes", "type": "tuple[]", "components": [
			{"name": "entityKey", "type": "bytes32"}
		]},
		{"name": "extends", "type": "tuple[]", "components": [
			{"name": "entityKey", "type": "bytes32"},
			{"name": "btl", "type": "uint256"}
		]},
		{"name": "changeOwners", "type": "tuple[]", "components": [
			{"name": "entityKey", "type": "bytes32"},
			{"name": "newOwner", "type": "address"}
		]}
	]
}]`

var storageTxABI = mustParseABI(storageTxSchemaJSON)

func mustParseABI(raw string) ethabi.ABI {
	parsed, err := ethabi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("codec: invalid embedded ABI schema: " + err.Error())
	}
	return parsed
}

type rawStringAnnotation struct {
	Key   string
	Value string
}

type rawNumericAnnotation struct {
	Key   string
	Value *big.Int
}

type rawCreate struct {
	Data               []byte
	Btl                *big.Int
	ContentType        string
	StringAnnotations  []rawStringAnnotation
	NumericAnnotations []rawNumericAnnotation
}

type rawUpdate struct {
	EntityKey          [32]byte
	Data               []byte
	Btl                *big.Int
	ContentType        string
	StringAnnotations  []rawStringAnnotation
	NumericAnnotations []rawNumericAnnotation
}

type rawDelete struct {
	EntityKey [32]byte
}

type rawExtend struct {
	EntityKey [32]byte
	Btl       *big.Int
}

type rawChangeOwner struct {
	EntityKey [32]byte
	NewOwner  [20]byte
}

type rawStorageTx struct {
	Creates      []rawCreate
	Updates      []rawUpdate
	Deletes      []rawDelete
	Extends      []rawExtend
	ChangeOwners []rawChangeOwner
}

// DecodeStorageTx decodes a storage transaction's calldata into its ordered
// bundle of operations. A malformed payload — wrong tuple arity, an
// out-of-range length prefix, a BTL that doesn't fit a uint64 — is always
// MalformedInput, never a panic or a silent zero value.
func DecodeStorageTx(input []byte) (domain.StorageTx, error) {
	var raw rawStorageTx
	if err := storageTxABI.UnpackIntoInterface(&raw, "decode", input); err != nil {
		return domain.StorageTx{}, indexererrors.Malformed("decode storage tx calldata", err)
	}

	out := domain.StorageTx{
		Creates:      make([]domain.CreateOp, len(raw.Creates)),
		Updates:      make([]domain.UpdateOp, len(raw.Updates)),
		Deletes:      make([]domain.DeleteOp, len(raw.Deletes)),
		Extends:      make([]domain.ExtendOp, len(raw.Extends)),
		ChangeOwners: make([]domain.ChangeOwnerOp, len(raw.ChangeOwners)),
	}

	for i, c := range raw.Creates {
		btl, err := bigToUint64(c.Btl)
		if err != nil {
			return domain.StorageTx{}, indexererrors.Malformed("create btl out of range", err)
		}
		numeric, err := convertNumericAnnotations(c.NumericAnnotations)
		if err != nil {
			return domain.StorageTx{}, indexererrors.Malformed("create numeric annotation out of range", err)
		}
		out.Creates[i] = domain.CreateOp{
			Data:               c.Data,
			BTL:                btl,
			ContentType:        c.ContentType,
			StringAnnotations:  convertStringAnnotations(c.StringAnnotations),
			NumericAnnotations: numeric,
		}
	}
	for i, u := range raw.Updates {
		btl, err := bigToUint64(u.Btl)
		if err != nil {
			return domain.StorageTx{}, indexererrors.Malformed("update btl out of range", err)
		}
		numeric, err := convertNumericAnnotations(u.NumericAnnotations)
		if err != nil {
			return domain.StorageTx{}, indexererrors.Malformed("update numeric annotation out of range", err)
		}
		out.Updates[i] = domain.UpdateOp{
			EntityKey:          domain.Hash32(u.EntityKey),
			Data:               u.Data,
			BTL:                btl,
			ContentType:        u.ContentType,
			StringAnnotations:  convertStringAnnotations(u.StringAnnotations),
			NumericAnnotations: numeric,
		}
	}
	for i, d := range raw.Deletes {
		out.Deletes[i] = domain.DeleteOp{EntityKey: domain.Hash32(d.EntityKey)}
	}
	for i, e := range raw.Extends {
		btl, err := bigToUint64(e.Btl)
		if err != nil {
			return domain.StorageTx{}, indexererrors.Malformed("extend btl out of range", err)
		}
		out.Extends[i] = domain.ExtendOp{EntityKey: domain.Hash32(e.EntityKey), BTL: btl}
	}
	for i, c := range raw.ChangeOwners {
		out.ChangeOwners[i] = domain.ChangeOwnerOp{
			EntityKey: domain.Hash32(c.EntityKey),
			NewOwner:  domain.Address(c.NewOwner),
		}
	}
	return out, nil
}

func convertStringAnnotations(raw []rawStringAnnotation) []domain.AnnotationInput {
	if len(raw) == 0 {
		return nil
	}
	out := make([]domain.AnnotationInput, len(raw))
	for i, a := range raw {
		out[i] = domain.AnnotationInput{Key: a.Key, Value: a.Value}
	}
	return out
}

func convertNumericAnnotations(raw []rawNumericAnnotation) ([]domain.NumericAnnotationInput, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]domain.NumericAnnotationInput, len(raw))
	for i, a := range raw {
		v, err := bigToUint64(a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = domain.NumericAnnotationInput{Key: a.Key, Value: v}
	}
	return out, nil
}

func bigToUint64(v *big.Int) (uint64, error) {
	if v == nil {
		return 0, nil
	}
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, indexererrors.New(indexererrors.MalformedInput, "value does not fit in uint64")
	}
	return v.Uint64(), nil
}

// DecodeExtendLogData decodes the single uint256 new-BTL value carried by an
// EntityBTLExtended log's data field.
func DecodeExtendLogData(data []byte) (uint64, error) {
	args := ethabi.Arguments{{Type: uint256Type}}
	values, err := args.Unpack(data)
	if err != nil || len(values) != 1 {
		return 0, indexererrors.Malformed("decode EntityBTLExtended log data", err)
	}
	btl, ok := values[0].(*big.Int)
	if !ok {
		return 0, indexererrors.New(indexererrors.MalformedInput, "EntityBTLExtended log data is not a uint256")
	}
	return bigToUint64(btl)
}

// DecodeCostLogData decodes the single uint256 cost value carried by a
// per-operation cost-enrichment log's data field.
func DecodeCostLogData(data []byte) (domain.CurrencyAmount, error) {
	args := ethabi.Arguments{{Type: uint256Type}}
	values, err := args.Unpack(data)
	if err != nil || len(values) != 1 {
		return domain.CurrencyAmount{}, indexererrors.Malformed("decode cost log data", err)
	}
	cost, ok := values[0].(*big.Int)
	if !ok {
		return domain.CurrencyAmount{}, indexererrors.New(indexererrors.MalformedInput, "cost log data is not a uint256")
	}
	return domain.NewCurrencyAmount(cost), nil
}

var uint256Type = mustType("uint256")

func mustType(t string) ethabi.Type {
	typ, err := ethabi.NewType(t, "", nil)
	if err != nil {
		panic("codec: invalid embedded ABI type " + t + ": " + err.Error())
	}
	return typ
}
