package sorosan

import (
	"fmt"
	"time"
)

// DefaultBaseFee is the classic per-operation fee in stroops.
const DefaultBaseFee = 100

// BuilderOption configures a TransactionBuilder.
type BuilderOption func(*TransactionBuilder)

// WithFee sets the classic per-operation fee. Default is DefaultBaseFee.
func WithFee(fee uint32) BuilderOption {
	return func(b *TransactionBuilder) {
		b.baseFee = fee
	}
}

// WithTimeBounds sets an explicit validity window.
func WithTimeBounds(tb TimeBounds) BuilderOption {
	return func(b *TransactionBuilder) {
		b.timeBounds = &tb
	}
}

// WithTimeout makes the transaction invalid timeout after now.
func WithTimeout(now time.Time, timeout time.Duration) BuilderOption {
	return func(b *TransactionBuilder) {
		b.timeBounds = &TimeBounds{MaxTime: uint64(now.Add(timeout).Unix())}
	}
}

// WithMemo attaches a memo.
func WithMemo(m Memo) BuilderOption {
	return func(b *TransactionBuilder) {
		b.memo = m
	}
}

// TransactionBuilder collects operations for one source account.
type TransactionBuilder struct {
	source     Address
	sequence   int64
	baseFee    uint32
	timeBounds *TimeBounds
	memo       Memo
	ops        []Operation
}

// NewTransactionBuilder starts a transaction for source, whose current
// sequence number is sequence. The built transaction consumes sequence+1.
func NewTransactionBuilder(source Address, sequence int64, opts ...BuilderOption) *TransactionBuilder {
	b := &TransactionBuilder{
		source:   source,
		sequence: sequence,
		baseFee:  DefaultBaseFee,
		ops:      make([]Operation, 0, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add appends an operation.
func (b *TransactionBuilder) Add(op Operation) *TransactionBuilder {
	b.ops = append(b.ops, op)
	return b
}

// Len returns the number of operations added so far.
func (b *TransactionBuilder) Len() int {
	return len(b.ops)
}

// Build validates the operations and returns the transaction. The fee is
// the base fee times the operation count; Prepare adds the resource fee.
func (b *TransactionBuilder) Build() (*Transaction, error) {
	if b.source.IsContract() {
		return nil, fmt.Errorf("sorosan: transaction source must be an account, got %s", b.source)
	}
	if len(b.ops) == 0 {
		return nil, ErrNoOperations
	}
	if len(b.ops) > MaxOperations {
		return nil, ErrTooManyOperations
	}
	for i, op := range b.ops {
		if op.IsSoroban() && len(b.ops) != 1 {
			return nil, &StageError{Stage: StageBuilt, Err: fmt.Errorf("operation %d (%s) must be the only operation", i, op.typ)}
		}
		if err := op.validate(); err != nil {
			return nil, &StageError{Stage: StageBuilt, Err: fmt.Errorf("operation %d: %w", i, err)}
		}
	}
	fee := uint64(b.baseFee) * uint64(len(b.ops))
	if fee > uint64(^uint32(0)) {
		return nil, errFeeOverflow
	}
	tx := &Transaction{
		source: b.source,
		fee:    uint32(fee),
		seq:    b.sequence + 1,
		memo:   b.memo,
		ops:    append([]Operation{}, b.ops...),
	}
	if b.timeBounds != nil {
		tb := *b.timeBounds
		tx.timeBounds = &tb
	}
	return tx, nil
}

// ContractTxBuilder adds contract and account operations to a wrapped
// TransactionBuilder. The first failing append is reported by Build.
type ContractTxBuilder struct {
	tx  *TransactionBuilder
	err error
}

// NewContractTxBuilder wraps tx.
func NewContractTxBuilder(tx *TransactionBuilder) *ContractTxBuilder {
	return &ContractTxBuilder{tx: tx}
}

// Transaction returns the wrapped builder.
func (b *ContractTxBuilder) Transaction() *TransactionBuilder {
	return b.tx
}

// Invoke calls method on contract, converting each argument with ToScVal
// and no hint.
func (b *ContractTxBuilder) Invoke(contract Address, method string, args ...any) *ContractTxBuilder {
	if b.err != nil {
		return b
	}
	vals := make([]ScVal, len(args))
	for i, arg := range args {
		v, err := ToScVal(arg, "")
		if err != nil {
			b.err = &ArgumentError{Method: method, Index: i, Err: err}
			return b
		}
		vals[i] = v
	}
	b.tx.Add(InvokeContract(contract, method, vals...))
	return b
}

// Call adds a spec-checked contract call.
func (b *ContractTxBuilder) Call(c *Contract, method string, args ...any) *ContractTxBuilder {
	if b.err != nil {
		return b
	}
	op, err := c.Invoke(method, args...)
	if err != nil {
		b.err = err
		return b
	}
	b.tx.Add(op)
	return b
}

// UploadWasm installs contract code.
func (b *ContractTxBuilder) UploadWasm(wasm []byte) *ContractTxBuilder {
	b.tx.Add(UploadWasm(wasm))
	return b
}

// CreateContract deploys uploaded wasm with the builder's source as
// deployer.
func (b *ContractTxBuilder) CreateContract(wasmHash, salt [32]byte) *ContractTxBuilder {
	b.tx.Add(CreateContract(b.tx.source, wasmHash, salt))
	return b
}

// CreateContractFromAsset deploys the token contract of a classic asset.
func (b *ContractTxBuilder) CreateContractFromAsset(asset Asset) *ContractTxBuilder {
	b.tx.Add(CreateContractFromAsset(asset))
	return b
}

// Payment sends amount stroops of asset.
func (b *ContractTxBuilder) Payment(destination Address, asset Asset, amount int64) *ContractTxBuilder {
	b.tx.Add(Payment(destination, asset, amount))
	return b
}

// ChangeTrust trusts asset up to limit stroops.
func (b *ContractTxBuilder) ChangeTrust(asset Asset, limit int64) *ContractTxBuilder {
	b.tx.Add(ChangeTrust(asset, limit))
	return b
}

// RestoreFootprint restores archived entries.
func (b *ContractTxBuilder) RestoreFootprint() *ContractTxBuilder {
	b.tx.Add(RestoreFootprint())
	return b
}

// ExtendTTL extends the footprint's time to live.
func (b *ContractTxBuilder) ExtendTTL(extendTo uint32) *ContractTxBuilder {
	b.tx.Add(ExtendFootprintTTL(extendTo))
	return b
}

// BumpSequence moves the source sequence number to to.
func (b *ContractTxBuilder) BumpSequence(to int64) *ContractTxBuilder {
	b.tx.Add(BumpSequence(to))
	return b
}

// Build returns the first append error or the built transaction.
func (b *ContractTxBuilder) Build() (*Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx.Build()
}
