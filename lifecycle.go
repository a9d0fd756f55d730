package sorosan

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Stage is a step of the transaction lifecycle.
type Stage int

const (
	StageBuilt Stage = iota
	StageSimulated
	StagePrepared
	StageSigned
	StageSubmitted
)

func (s Stage) String() string {
	switch s {
	case StageBuilt:
		return "build"
	case StageSimulated:
		return "simulate"
	case StagePrepared:
		return "prepare"
	case StageSigned:
		return "sign"
	case StageSubmitted:
		return "submit"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// OutcomeStatus is the final state of a submitted transaction.
type OutcomeStatus int

const (
	OutcomeSuccess OutcomeStatus = iota
	OutcomeFailed
	OutcomeTimedOut
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed out"
	}
	return fmt.Sprintf("outcome(%d)", int(s))
}

// Outcome is the result of waiting for a transaction. ReturnValue is void
// unless Status is OutcomeSuccess and the meta carried a value.
type Outcome struct {
	Status        OutcomeStatus
	Hash          string
	Ledger        uint32
	ReturnValue   ScVal
	ResultMetaXDR string
	ResultXDR     string
	Reason        string
}

// ContractID returns the contract address a deploy returned.
func (o *Outcome) ContractID() (Address, error) {
	if o.Status != OutcomeSuccess || o.ReturnValue.Type() != ScvAddress || !o.ReturnValue.Address().IsContract() {
		return Address{}, fmt.Errorf("%w: want contract address, got %s", ErrUnexpectedResult, o.ReturnValue.Type())
	}
	return o.ReturnValue.Address(), nil
}

// WasmID returns the code hash an upload returned.
func (o *Outcome) WasmID() ([32]byte, error) {
	var id [32]byte
	if o.Status != OutcomeSuccess || o.ReturnValue.Type() != ScvBytes || len(o.ReturnValue.Bytes()) != 32 {
		return id, fmt.Errorf("%w: want 32 bytes, got %s", ErrUnexpectedResult, o.ReturnValue.Type())
	}
	copy(id[:], o.ReturnValue.Bytes())
	return id, nil
}

// Simulate runs tx against current ledger state without changing it. A
// host failure returns *SimulationError with the diagnostic verbatim. An
// invocation that yields no return value fails with ErrNoReturnValue.
func (c *Client) Simulate(ctx context.Context, tx *Transaction) (*Simulation, error) {
	sim, err := c.simulate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(tx.ops) == 1 && tx.ops[0].typ == OpInvokeHostFunction && !sim.HasReturn {
		return nil, ErrNoReturnValue
	}
	return sim, nil
}

func (c *Client) simulate(ctx context.Context, tx *Transaction) (*Simulation, error) {
	envelope, err := tx.EnvelopeXDR()
	if err != nil {
		return nil, &StageError{Stage: StageSimulated, Err: err}
	}
	res, err := c.service.SimulateTransaction(ctx, envelope)
	if err != nil {
		c.metrics.simulations.WithLabelValues("error").Inc()
		return nil, &StageError{Stage: StageSimulated, Err: err}
	}
	sim, err := res.decode()
	if err != nil {
		c.metrics.simulations.WithLabelValues("failed").Inc()
		c.logger.Debug("Simulation failed", "err", err)
		return nil, err
	}
	c.metrics.simulations.WithLabelValues("ok").Inc()
	c.logger.Debug("Simulated transaction", "minResourceFee", sim.MinResourceFee, "auth", len(sim.Auth), "ledger", sim.LatestLedger)
	return sim, nil
}

// Assemble applies a simulation to tx: its soroban data, auth entries, and
// a fee of the classic fee plus the minimum resource fee. tx is not
// modified.
func Assemble(tx *Transaction, sim *Simulation) (*Transaction, error) {
	if !tx.IsSoroban() {
		return nil, &StageError{Stage: StagePrepared, Err: errors.New("not a soroban transaction")}
	}
	if sim.MinResourceFee < 0 {
		return nil, &StageError{Stage: StagePrepared, Err: fmt.Errorf("negative resource fee %d", sim.MinResourceFee)}
	}
	fee := uint64(tx.fee) + uint64(sim.MinResourceFee)
	if fee > uint64(^uint32(0)) {
		return nil, &StageError{Stage: StagePrepared, Err: errFeeOverflow}
	}
	return tx.withSoroban(sim.Data, uint32(fee), sim.Auth), nil
}

// Prepare simulates tx and assembles the result.
func (c *Client) Prepare(ctx context.Context, tx *Transaction) (*Transaction, *Simulation, error) {
	sim, err := c.Simulate(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	prepared, err := Assemble(tx, sim)
	if err != nil {
		return nil, nil, err
	}
	return prepared, sim, nil
}

// BuildAndPrepare builds a transaction for source from ops and prepares it.
func (c *Client) BuildAndPrepare(ctx context.Context, source Address, ops ...Operation) (*Transaction, error) {
	b, err := c.NewTransaction(ctx, source)
	if err != nil {
		return nil, err
	}
	for _, op := range ops {
		b.Transaction().Add(op)
	}
	tx, err := b.Build()
	if err != nil {
		return nil, err
	}
	prepared, _, err := c.Prepare(ctx, tx)
	return prepared, err
}

// Sign hands tx to the configured signer. A signer that answers with a
// status returns *SignerCancelledError, which matches ErrSignerCancelled.
func (c *Client) Sign(ctx context.Context, tx *Transaction) (SignedEnvelope, error) {
	if c.signer == nil {
		return SignedEnvelope{}, &StageError{Stage: StageSigned, Err: errors.New("no signer configured")}
	}
	envelope, err := tx.EnvelopeXDR()
	if err != nil {
		return SignedEnvelope{}, &StageError{Stage: StageSigned, Err: err}
	}
	hash, err := tx.HashHex(c.passphrase)
	if err != nil {
		return SignedEnvelope{}, &StageError{Stage: StageSigned, Err: err}
	}
	resp, err := c.signer.Sign(ctx, envelope, SignOptions{
		Network:           c.network,
		NetworkPassphrase: c.passphrase,
		Account:           tx.source.String(),
	})
	if err != nil {
		return SignedEnvelope{}, &StageError{Stage: StageSigned, Err: err}
	}
	if resp.Status != "" {
		c.logger.Debug("Signer declined transaction", "status", resp.Status)
		return SignedEnvelope{}, &SignerCancelledError{Status: resp.Status}
	}
	return NewSignedEnvelope(resp.SignedXDR, hash), nil
}

// Submit sends a signed envelope once and returns its hash. A rejected
// submission returns *SubmissionError carrying the result XDR verbatim.
func (c *Client) Submit(ctx context.Context, env SignedEnvelope) (string, error) {
	res, err := c.service.SendTransaction(ctx, env.XDR())
	if err != nil {
		return "", &StageError{Stage: StageSubmitted, Err: err}
	}
	c.metrics.submissions.WithLabelValues(res.Status).Inc()
	hash := res.Hash
	if hash == "" {
		hash = env.Hash()
	}
	if res.ErrorResultXDR != "" || res.Status == StatusError || res.Status == StatusTryAgainLater {
		return "", &SubmissionError{Hash: hash, Status: res.Status, ErrorResultXDR: res.ErrorResultXDR}
	}
	c.logger.Debug("Submitted transaction", "hash", hash, "status", res.Status)
	return hash, nil
}

// WaitForFinality polls the transaction at a fixed interval until it is no
// longer NOT_FOUND. There is no retry limit; bound the wait with ctx. A
// cancelled wait returns a TimedOut outcome and *PollTimeoutError.
func (c *Client) WaitForFinality(ctx context.Context, hash string) (*Outcome, error) {
	start := time.Now()
	for attempts := 1; ; attempts++ {
		c.metrics.polls.Inc()
		res, err := c.service.GetTransaction(ctx, hash)
		if err != nil {
			if ctx.Err() != nil {
				return c.timedOut(hash, attempts, ctx.Err())
			}
			return nil, &StageError{Stage: StageSubmitted, Err: err}
		}
		if res.Status != StatusNotFound {
			out := finalOutcome(hash, res)
			c.metrics.outcomes.WithLabelValues(out.Status.String()).Inc()
			c.metrics.pollDuration.Observe(time.Since(start).Seconds())
			c.logger.Debug("Transaction final", "hash", hash, "status", res.Status, "polls", attempts)
			return out, nil
		}
		c.logger.Trace("Waiting for transaction", "hash", hash, "polls", attempts)
		if err := c.wait(ctx, c.pollInterval); err != nil {
			return c.timedOut(hash, attempts, err)
		}
	}
}

func (c *Client) timedOut(hash string, attempts int, err error) (*Outcome, error) {
	c.metrics.outcomes.WithLabelValues(OutcomeTimedOut.String()).Inc()
	return &Outcome{Status: OutcomeTimedOut, Hash: hash, ReturnValue: NewVoid()},
		&PollTimeoutError{Hash: hash, Attempts: attempts, Err: err}
}

// finalOutcome maps a terminal status. Statuses other than SUCCESS are
// failures.
func finalOutcome(hash string, res *TransactionResult) *Outcome {
	out := &Outcome{
		Hash:          hash,
		Ledger:        res.Ledger,
		ResultMetaXDR: res.ResultMetaXDR,
		ResultXDR:     res.ResultXDR,
		ReturnValue:   NewVoid(),
	}
	if res.Status != StatusSuccess {
		out.Status = OutcomeFailed
		out.Reason = res.Status
		return out
	}
	out.Status = OutcomeSuccess
	if res.ResultMetaXDR != "" {
		out.ReturnValue = ReturnValueFromMeta(res.ResultMetaXDR)
	}
	return out
}

// Execute prepares, signs, submits and waits for tx.
func (c *Client) Execute(ctx context.Context, tx *Transaction) (*Outcome, error) {
	prepared := tx
	if tx.IsSoroban() {
		var err error
		if prepared, _, err = c.Prepare(ctx, tx); err != nil {
			return nil, err
		}
	}
	env, err := c.Sign(ctx, prepared)
	if err != nil {
		return nil, err
	}
	hash, err := c.Submit(ctx, env)
	if err != nil {
		return nil, err
	}
	return c.WaitForFinality(ctx, hash)
}

// Invoke calls method on contract from source and waits for the result.
func (c *Client) Invoke(ctx context.Context, source, contract Address, method string, args ...any) (*Outcome, error) {
	b, err := c.NewTransaction(ctx, source)
	if err != nil {
		return nil, err
	}
	tx, err := b.Invoke(contract, method, args...).Build()
	if err != nil {
		return nil, err
	}
	return c.Execute(ctx, tx)
}

// CallScVal simulates a read-only call from the placeholder account and
// returns the raw return value.
func (c *Client) CallScVal(ctx context.Context, contract Address, method string, args ...any) (ScVal, error) {
	b, err := c.placeholderBuilder(ctx)
	if err != nil {
		return ScVal{}, err
	}
	tx, err := b.Invoke(contract, method, args...).Build()
	if err != nil {
		return ScVal{}, err
	}
	sim, err := c.Simulate(ctx, tx)
	if err != nil {
		return ScVal{}, err
	}
	return sim.ReturnValue, nil
}

// Call is CallScVal with the result converted by ScValToNative.
func (c *Client) Call(ctx context.Context, contract Address, method string, args ...any) (any, error) {
	v, err := c.CallScVal(ctx, contract, method, args...)
	if err != nil {
		return nil, err
	}
	return ScValToNative(v)
}

// UploadWasm installs code and returns its hash.
func (c *Client) UploadWasm(ctx context.Context, source Address, wasm []byte) ([32]byte, *Outcome, error) {
	b, err := c.NewTransaction(ctx, source)
	if err != nil {
		return [32]byte{}, nil, err
	}
	tx, err := b.UploadWasm(wasm).Build()
	if err != nil {
		return [32]byte{}, nil, err
	}
	out, err := c.Execute(ctx, tx)
	if err != nil {
		return [32]byte{}, out, err
	}
	id, err := out.WasmID()
	return id, out, err
}

// Deploy creates a contract from uploaded code with source as deployer.
func (c *Client) Deploy(ctx context.Context, source Address, wasmHash, salt [32]byte) (Address, *Outcome, error) {
	b, err := c.NewTransaction(ctx, source)
	if err != nil {
		return Address{}, nil, err
	}
	tx, err := b.CreateContract(wasmHash, salt).Build()
	if err != nil {
		return Address{}, nil, err
	}
	out, err := c.Execute(ctx, tx)
	if err != nil {
		return Address{}, out, err
	}
	id, err := out.ContractID()
	return id, out, err
}

// Restore brings an archived contract instance and its code back to the
// live state.
func (c *Client) Restore(ctx context.Context, source, contract Address) (*Outcome, error) {
	keys, err := c.contractKeys(ctx, contract)
	if err != nil {
		return nil, err
	}
	return c.footprintOp(ctx, source, RestoreFootprint(), NewFootprint(nil, keys))
}

// ExtendTTL extends the contract instance and its code to live at least
// extendTo ledgers from now.
func (c *Client) ExtendTTL(ctx context.Context, source, contract Address, extendTo uint32) (*Outcome, error) {
	keys, err := c.contractKeys(ctx, contract)
	if err != nil {
		return nil, err
	}
	return c.footprintOp(ctx, source, ExtendFootprintTTL(extendTo), NewFootprint(keys, nil))
}

// contractKeys returns the instance key and, for wasm contracts, the code
// key of contract.
func (c *Client) contractKeys(ctx context.Context, contract Address) ([]LedgerKey, error) {
	keys := []LedgerKey{ContractInstanceKey(contract)}
	hash, err := c.WasmID(ctx, contract)
	switch {
	case err == nil:
		keys = append(keys, ContractCodeKey(hash))
	case !errors.Is(err, ErrEntryNotFound):
		return nil, err
	}
	return keys, nil
}

// footprintOp runs a restore or extend operation. Simulation needs the
// footprint up front, so it is attached before preparing.
func (c *Client) footprintOp(ctx context.Context, source Address, op Operation, fp Footprint) (*Outcome, error) {
	b, err := c.NewTransaction(ctx, source)
	if err != nil {
		return nil, err
	}
	tx, err := b.Transaction().Add(op).Build()
	if err != nil {
		return nil, err
	}
	tx = tx.withSoroban(SorobanData{Resources: SorobanResources{Footprint: fp}}, tx.fee, nil)
	return c.Execute(ctx, tx)
}
