package sorosan

import (
	"context"
	"errors"
	"fmt"
)

// MethodDescriptor describes one contract function.
type MethodDescriptor struct {
	Name    string             `json:"name"`
	Doc     string             `json:"doc,omitempty"`
	Inputs  []InputDescriptor  `json:"inputs"`
	Outputs []OutputDescriptor `json:"outputs"`
}

// InputDescriptor describes a function parameter. Type is the name of the
// outer type tag, such as "scSpecTypeVec"; Def holds the full type.
type InputDescriptor struct {
	Name  string   `json:"name"`
	Doc   string   `json:"doc,omitempty"`
	Type  string   `json:"type"`
	Value SpecType `json:"value"`
	Def   TypeDef  `json:"-"`
}

// OutputDescriptor describes a function result.
type OutputDescriptor struct {
	Type  string   `json:"type"`
	Value SpecType `json:"value"`
	Def   TypeDef  `json:"-"`
}

// Describe projects a function spec entry.
func Describe(fn FunctionSpec) MethodDescriptor {
	m := MethodDescriptor{
		Name:    fn.Name,
		Doc:     fn.Doc,
		Inputs:  make([]InputDescriptor, len(fn.Inputs)),
		Outputs: make([]OutputDescriptor, len(fn.Outputs)),
	}
	for i, in := range fn.Inputs {
		m.Inputs[i] = InputDescriptor{
			Name:  in.Name,
			Doc:   in.Doc,
			Type:  in.Type.Type.String(),
			Value: in.Type.Type,
			Def:   in.Type,
		}
	}
	for i, out := range fn.Outputs {
		m.Outputs[i] = OutputDescriptor{
			Type:  out.Type.String(),
			Value: out.Type,
			Def:   out,
		}
	}
	return m
}

// instance loads the contract instance entry.
func (c *Client) instance(ctx context.Context, contract Address) (LedgerEntryResult, *ContractInstance, error) {
	if !contract.IsContract() {
		return LedgerEntryResult{}, nil, fmt.Errorf("sorosan: %s is not a contract address", contract)
	}
	res, ok, err := c.ledgerEntry(ctx, ContractInstanceKey(contract))
	if err != nil {
		return LedgerEntryResult{}, nil, err
	}
	if !ok {
		return LedgerEntryResult{}, nil, fmt.Errorf("%w: instance of %s", ErrEntryNotFound, contract)
	}
	data, err := res.Data()
	if err != nil {
		return LedgerEntryResult{}, nil, err
	}
	if data.ContractData == nil || data.ContractData.Val.Instance() == nil {
		return LedgerEntryResult{}, nil, fmt.Errorf("%w: %s has no instance", ErrEntryNotFound, contract)
	}
	return res, data.ContractData.Val.Instance(), nil
}

// WasmID returns the hash of the code a contract runs. Stellar asset
// contracts have no code and return ErrEntryNotFound.
func (c *Client) WasmID(ctx context.Context, contract Address) ([32]byte, error) {
	_, inst, err := c.instance(ctx, contract)
	if err != nil {
		return [32]byte{}, err
	}
	if inst.Executable.Kind != ExecutableWasm {
		return [32]byte{}, fmt.Errorf("%w: %s is a stellar asset contract", ErrEntryNotFound, contract)
	}
	return inst.Executable.WasmHash, nil
}

// CodeByHash loads uploaded wasm.
func (c *Client) CodeByHash(ctx context.Context, hash [32]byte) ([]byte, error) {
	res, ok, err := c.ledgerEntry(ctx, ContractCodeKey(hash))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: code %x", ErrEntryNotFound, hash)
	}
	data, err := res.Data()
	if err != nil {
		return nil, err
	}
	if data.ContractCode == nil {
		return nil, fmt.Errorf("%w: code %x", ErrEntryNotFound, hash)
	}
	return data.ContractCode.Code, nil
}

// Code loads the wasm a contract runs. A contract without instance or code,
// including a stellar asset contract, yields nil code and a nil error.
func (c *Client) Code(ctx context.Context, contract Address) ([]byte, error) {
	hash, err := c.WasmID(ctx, contract)
	if err == nil {
		var code []byte
		code, err = c.CodeByHash(ctx, hash)
		if err == nil {
			return code, nil
		}
	}
	if errors.Is(err, ErrEntryNotFound) {
		c.logger.Debug("No contract code", "contract", contract, "err", err)
		return nil, nil
	}
	return nil, err
}

// Decompile returns the spec entries embedded in a contract's code. A
// contract without instance, code or spec section yields no entries and a
// nil error.
func (c *Client) Decompile(ctx context.Context, contract Address) ([]SpecEntry, error) {
	code, err := c.Code(ctx, contract)
	if err != nil || code == nil {
		return nil, err
	}
	return c.DecodeWasm(ctx, code)
}

// DecodeWasm reads the spec entries of wasm.
func (c *Client) DecodeWasm(ctx context.Context, wasm []byte) ([]SpecEntry, error) {
	sections, err := c.modules.CustomSections(ctx, wasm, SpecSectionName)
	if err != nil {
		return nil, err
	}
	var entries []SpecEntry
	for _, section := range sections {
		entries = append(entries, DecodeSpecEntries(section, WithSpecLogger(c.logger))...)
	}
	c.metrics.specEntries.Add(float64(len(entries)))
	return entries, nil
}

// ABI describes the functions of a contract, in declaration order.
func (c *Client) ABI(ctx context.Context, contract Address) ([]MethodDescriptor, error) {
	entries, err := c.Decompile(ctx, contract)
	if err != nil {
		return nil, err
	}
	return ABI(entries), nil
}

// ABI describes the function entries among entries.
func ABI(entries []SpecEntry) []MethodDescriptor {
	var out []MethodDescriptor
	for _, e := range entries {
		if fn, ok := e.(FunctionSpec); ok {
			out = append(out, Describe(fn))
		}
	}
	return out
}

// ContractSpec decompiles a contract into a Spec.
func (c *Client) ContractSpec(ctx context.Context, contract Address) (*Spec, error) {
	entries, err := c.Decompile(ctx, contract)
	if err != nil {
		return nil, err
	}
	return NewSpec(entries), nil
}

// Storage returns the instance storage of a contract as native values. A
// missing instance yields an empty map.
func (c *Client) Storage(ctx context.Context, contract Address) (map[string]any, error) {
	_, inst, err := c.instance(ctx, contract)
	if errors.Is(err, ErrEntryNotFound) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	m, err := mapToNative(inst.Storage)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// LiveUntilLedger returns the last ledger the contract instance is live, or
// zero when the instance or its TTL is missing.
func (c *Client) LiveUntilLedger(ctx context.Context, contract Address) (uint32, error) {
	res, _, err := c.instance(ctx, contract)
	if errors.Is(err, ErrEntryNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if res.LiveUntilLedger == nil {
		return 0, nil
	}
	return *res.LiveUntilLedger, nil
}

// LastModifiedLedger returns the ledger that last changed the contract
// instance, or zero when there is no instance.
func (c *Client) LastModifiedLedger(ctx context.Context, contract Address) (uint32, error) {
	res, _, err := c.instance(ctx, contract)
	if errors.Is(err, ErrEntryNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return res.LastModifiedLedger, nil
}
