package domain

// StringAnnotation is a UTF-8 key/value bound to the operation that set it.
// Not unique per (key, value, entity_key): multiplicity is allowed.
type StringAnnotation struct {
	EntityKey Hash32 `db:"entity_key"`
	TxHash    Hash32 `db:"tx_hash"`
	OpIndex   uint64 `db:"op_index"`
	Key       string `db:"key"`
	Value     string `db:"value"`
	Active    bool   `db:"active"`
}

// NumericAnnotation is a u64-valued key/value bound to the operation that
// set it.
type NumericAnnotation struct {
	EntityKey Hash32 `db:"entity_key"`
	TxHash    Hash32 `db:"tx_hash"`
	OpIndex   uint64 `db:"op_index"`
	Key       string `db:"key"`
	Value     uint64 `db:"value"`
	Active    bool   `db:"active"`
}
