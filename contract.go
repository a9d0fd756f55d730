package sorosan

import (
	"fmt"
	"sort"
)

// Contract wraps a deployed contract and, optionally, its decoded spec.
type Contract struct {
	address Address
	spec    *Spec
}

// ContractOption configures a Contract.
type ContractOption func(*Contract)

// WithSpec attaches a decoded spec. Invoke then checks method names and
// argument counts and converts arguments using the declared input types.
func WithSpec(spec *Spec) ContractOption {
	return func(c *Contract) {
		c.spec = spec
	}
}

// NewContract creates a Contract wrapper for a contract address.
func NewContract(address Address, opts ...ContractOption) *Contract {
	c := &Contract{address: address}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Address returns the contract address.
func (c *Contract) Address() Address {
	return c.address
}

// Spec returns the attached spec, or nil.
func (c *Contract) Spec() *Spec {
	return c.spec
}

// Invoke creates an invoke operation for the named method. Arguments may
// be Go values or ScVal. With a spec attached, each Go value is converted
// with the hint its declared type implies.
func (c *Contract) Invoke(methodName string, args ...any) (Operation, error) {
	vals, err := c.Args(methodName, args...)
	if err != nil {
		return Operation{}, err
	}
	return InvokeContract(c.address, methodName, vals...), nil
}

// MustInvoke is like Invoke but panics on error.
func (c *Contract) MustInvoke(methodName string, args ...any) Operation {
	op, err := c.Invoke(methodName, args...)
	if err != nil {
		panic(err)
	}
	return op
}

// Args converts call arguments to ScVal.
func (c *Contract) Args(methodName string, args ...any) ([]ScVal, error) {
	var inputs []FunctionInput
	if c.spec != nil {
		fn, ok := c.spec.Function(methodName)
		if !ok {
			return nil, fmt.Errorf("%w: %q in contract %s", ErrMethodNotFound, methodName, c.address)
		}
		if len(args) != len(fn.Inputs) {
			return nil, &ArgumentError{
				Method: methodName,
				Index:  len(args),
				Err:    fmt.Errorf("expected %d arguments, got %d", len(fn.Inputs), len(args)),
			}
		}
		inputs = fn.Inputs
	}

	vals := make([]ScVal, len(args))
	for i, arg := range args {
		hint := ""
		if inputs != nil {
			hint = hintFor(inputs[i].Type)
		}
		v, err := ToScVal(arg, hint)
		if err != nil {
			return nil, &ArgumentError{Method: methodName, Index: i, Err: err}
		}
		vals[i] = v
	}
	return vals, nil
}

// HasMethod returns true if the spec declares the method. Without a spec
// it always returns false.
func (c *Contract) HasMethod(methodName string) bool {
	if c.spec == nil {
		return false
	}
	_, ok := c.spec.Function(methodName)
	return ok
}

// MethodNames returns the declared function names, sorted.
func (c *Contract) MethodNames() []string {
	if c.spec == nil {
		return nil
	}
	fns := c.spec.Functions()
	names := make([]string, 0, len(fns))
	for _, fn := range fns {
		names = append(names, fn.Name)
	}
	sort.Strings(names)
	return names
}

// hintFor maps a declared type to the ToScVal hint that produces it.
func hintFor(t TypeDef) string {
	switch t.Type {
	case SpecTypeAddress, SpecTypeMuxedAddress:
		return "address"
	case SpecTypeBytes, SpecTypeBytesN:
		return "bytes"
	case SpecTypeSymbol:
		return "symbol"
	case SpecTypeU32:
		return "u32"
	case SpecTypeI32:
		return "i32"
	case SpecTypeU64:
		return "u64"
	case SpecTypeI64:
		return "i64"
	case SpecTypeU128:
		return "u128"
	case SpecTypeI128:
		return "i128"
	case SpecTypeU256:
		return "u256"
	case SpecTypeI256:
		return "i256"
	case SpecTypeTimepoint:
		return "timepoint"
	case SpecTypeDuration:
		return "duration"
	}
	return ""
}
