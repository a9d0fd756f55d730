package sorosan

import (
	"crypto/sha256"
	"fmt"
	"math"

	"github.com/stellar/go-stellar-sdk/network"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// OperationType is the discriminant of an operation body.
type OperationType uint32

const (
	OpPayment            OperationType = 1
	OpChangeTrust        OperationType = 6
	OpBumpSequence       OperationType = 11
	OpInvokeHostFunction OperationType = 24
	OpExtendFootprintTTL OperationType = 25
	OpRestoreFootprint   OperationType = 26
)

func (t OperationType) String() string {
	switch t {
	case OpPayment:
		return "payment"
	case OpChangeTrust:
		return "change_trust"
	case OpBumpSequence:
		return "bump_sequence"
	case OpInvokeHostFunction:
		return "invoke_host_function"
	case OpExtendFootprintTTL:
		return "extend_footprint_ttl"
	case OpRestoreFootprint:
		return "restore_footprint"
	}
	return fmt.Sprintf("OperationType(%d)", uint32(t))
}

// HostFunctionType selects what an invoke-host-function operation does.
type HostFunctionType uint32

const (
	HostFunctionInvokeContract HostFunctionType = 0
	HostFunctionCreateContract HostFunctionType = 1
	HostFunctionUploadWasm     HostFunctionType = 2
)

// ContractIDPreimage determines the id of a new contract: either a deployer
// address plus salt, or a classic asset.
type ContractIDPreimage struct {
	FromAsset bool
	Deployer  Address
	Salt      [32]byte
	Asset     Asset
}

func (p ContractIDPreimage) toXDR() xdr.ContractIdPreimage {
	if p.FromAsset {
		asset := p.Asset.toXDR()
		return xdr.ContractIdPreimage{
			Type:      xdr.ContractIdPreimageTypeContractIdPreimageFromAsset,
			FromAsset: &asset,
		}
	}
	return xdr.ContractIdPreimage{
		Type: xdr.ContractIdPreimageTypeContractIdPreimageFromAddress,
		FromAddress: &xdr.ContractIdPreimageFromAddress{
			Address: p.Deployer.toXDR(),
			Salt:    xdr.Uint256(p.Salt),
		},
	}
}

// ContractID derives the contract address a preimage deploys to on the
// network identified by passphrase.
func (p ContractIDPreimage) ContractID(passphrase string) Address {
	preimage := xdr.HashIdPreimage{
		Type: xdr.EnvelopeTypeEnvelopeTypeContractId,
		ContractId: &xdr.HashIdPreimageContractId{
			NetworkId:          xdr.Hash(network.ID(passphrase)),
			ContractIdPreimage: p.toXDR(),
		},
	}
	return ContractAddress(sha256.Sum256(mustEncodeXDR(preimage)))
}

// HostFunction is the body of an invoke-host-function operation.
type HostFunction struct {
	Type HostFunctionType

	// Invoke contract.
	Contract Address
	Function string
	Args     []ScVal

	// Create contract.
	Preimage   ContractIDPreimage
	Executable ContractExecutable

	// Upload wasm.
	Wasm []byte
}

func (h HostFunction) toXDR() xdr.HostFunction {
	out := xdr.HostFunction{Type: xdr.HostFunctionType(h.Type)}
	switch h.Type {
	case HostFunctionInvokeContract:
		args := make([]xdr.ScVal, len(h.Args))
		for i, arg := range h.Args {
			args[i] = arg.toXDR()
		}
		out.InvokeContract = &xdr.InvokeContractArgs{
			ContractAddress: h.Contract.toXDR(),
			FunctionName:    xdr.ScSymbol(h.Function),
			Args:            args,
		}
	case HostFunctionCreateContract:
		out.CreateContract = &xdr.CreateContractArgs{
			ContractIdPreimage: h.Preimage.toXDR(),
			Executable:         h.Executable.toXDR(),
		}
	case HostFunctionUploadWasm:
		wasm := nonNil(h.Wasm)
		out.Wasm = &wasm
	}
	return out
}

// Operation is one unsigned action of a transaction. Operation is
// immutable - modifier methods return new instances.
type Operation struct {
	typ    OperationType
	source *Address

	destination Address
	asset       Asset
	amount      int64
	bumpTo      int64
	extendTo    uint32

	hostFn HostFunction
	auth   [][]byte
}

// InvokeContract calls method on contract with already encoded arguments.
func InvokeContract(contract Address, method string, args ...ScVal) Operation {
	return Operation{typ: OpInvokeHostFunction, hostFn: HostFunction{
		Type:     HostFunctionInvokeContract,
		Contract: contract,
		Function: method,
		Args:     append([]ScVal{}, args...),
	}}
}

// UploadWasm installs contract code.
func UploadWasm(wasm []byte) Operation {
	return Operation{typ: OpInvokeHostFunction, hostFn: HostFunction{
		Type: HostFunctionUploadWasm,
		Wasm: append([]byte{}, wasm...),
	}}
}

// CreateContract instantiates uploaded wasm under an id derived from
// deployer and salt.
func CreateContract(deployer Address, wasmHash, salt [32]byte) Operation {
	return Operation{typ: OpInvokeHostFunction, hostFn: HostFunction{
		Type:       HostFunctionCreateContract,
		Preimage:   ContractIDPreimage{Deployer: deployer, Salt: salt},
		Executable: ContractExecutable{Kind: ExecutableWasm, WasmHash: wasmHash},
	}}
}

// CreateContractFromAsset deploys the built-in token contract of asset.
func CreateContractFromAsset(asset Asset) Operation {
	return Operation{typ: OpInvokeHostFunction, hostFn: HostFunction{
		Type:       HostFunctionCreateContract,
		Preimage:   ContractIDPreimage{FromAsset: true, Asset: asset},
		Executable: ContractExecutable{Kind: ExecutableStellarAsset},
	}}
}

// Payment sends amount stroops of asset to an account.
func Payment(destination Address, asset Asset, amount int64) Operation {
	return Operation{typ: OpPayment, destination: destination, asset: asset, amount: amount}
}

// ChangeTrust creates or updates a trustline. A limit of zero removes it.
func ChangeTrust(asset Asset, limit int64) Operation {
	return Operation{typ: OpChangeTrust, asset: asset, amount: limit}
}

// ChangeTrustMax trusts asset up to the maximum limit.
func ChangeTrustMax(asset Asset) Operation {
	return ChangeTrust(asset, math.MaxInt64)
}

// BumpSequence moves the source account sequence number forward.
func BumpSequence(to int64) Operation {
	return Operation{typ: OpBumpSequence, bumpTo: to}
}

// RestoreFootprint restores archived entries of the read-write footprint.
func RestoreFootprint() Operation {
	return Operation{typ: OpRestoreFootprint}
}

// ExtendFootprintTTL extends the read-only footprint to live until at least
// extendTo ledgers from now.
func ExtendFootprintTTL(extendTo uint32) Operation {
	return Operation{typ: OpExtendFootprintTTL, extendTo: extendTo}
}

// Type returns the operation type.
func (o Operation) Type() OperationType {
	return o.typ
}

// IsSoroban reports whether o must be the only operation of a transaction
// carrying soroban data.
func (o Operation) IsSoroban() bool {
	switch o.typ {
	case OpInvokeHostFunction, OpExtendFootprintTTL, OpRestoreFootprint:
		return true
	}
	return false
}

// HostFunction returns the host function of an invoke operation.
func (o Operation) HostFunction() HostFunction {
	return o.hostFn
}

// Auth returns the XDR authorization entries attached by Prepare.
func (o Operation) Auth() [][]byte {
	return o.auth
}

// Source returns the operation source, if it overrides the transaction's.
func (o Operation) Source() (Address, bool) {
	if o.source == nil {
		return Address{}, false
	}
	return *o.source, true
}

// WithSource overrides the source account of this operation.
//
// Returns a new Operation with the source set.
func (o Operation) WithSource(source Address) Operation {
	clone := o.clone()
	clone.source = &source
	return clone
}

// WithAuth replaces the soroban authorization entries.
//
// Returns a new Operation with the entries set.
func (o Operation) WithAuth(auth [][]byte) Operation {
	clone := o.clone()
	clone.auth = make([][]byte, len(auth))
	for i, a := range auth {
		clone.auth[i] = append([]byte{}, a...)
	}
	return clone
}

func (o Operation) clone() Operation {
	clone := o
	clone.hostFn.Args = append([]ScVal{}, o.hostFn.Args...)
	clone.auth = append([][]byte{}, o.auth...)
	return clone
}

// validate checks the operation can be encoded.
func (o Operation) validate() error {
	if o.source != nil && o.source.IsContract() {
		return fmt.Errorf("sorosan: %s: source must be an account", o.typ)
	}
	switch o.typ {
	case OpInvokeHostFunction:
		if o.hostFn.Type == HostFunctionInvokeContract {
			if !o.hostFn.Contract.IsContract() {
				return fmt.Errorf("sorosan: invoke target %s is not a contract", o.hostFn.Contract)
			}
			if len(o.hostFn.Function) == 0 || len(o.hostFn.Function) > maxSymbolLength {
				return fmt.Errorf("sorosan: invalid function name %q", o.hostFn.Function)
			}
		}
	case OpPayment:
		if o.destination.IsContract() {
			return fmt.Errorf("sorosan: payment destination must be an account")
		}
		if o.amount <= 0 {
			return fmt.Errorf("sorosan: payment amount must be positive")
		}
	case OpChangeTrust:
		if o.asset.IsNative() {
			return fmt.Errorf("sorosan: cannot change trust for the native asset")
		}
		if o.amount < 0 {
			return fmt.Errorf("sorosan: trust limit must not be negative")
		}
	}
	return nil
}

// toXDR fails only when an attached authorization entry is not valid XDR.
func (o Operation) toXDR() (xdr.Operation, error) {
	var out xdr.Operation
	if o.source != nil {
		source := muxedAccount(o.source.key)
		out.SourceAccount = &source
	}
	body := xdr.OperationBody{Type: xdr.OperationType(o.typ)}
	switch o.typ {
	case OpPayment:
		body.PaymentOp = &xdr.PaymentOp{
			Destination: muxedAccount(o.destination.key),
			Asset:       o.asset.toXDR(),
			Amount:      xdr.Int64(o.amount),
		}
	case OpChangeTrust:
		body.ChangeTrustOp = &xdr.ChangeTrustOp{
			Line:  o.asset.toXDR().ToChangeTrustAsset(),
			Limit: xdr.Int64(o.amount),
		}
	case OpBumpSequence:
		body.BumpSequenceOp = &xdr.BumpSequenceOp{BumpTo: xdr.SequenceNumber(o.bumpTo)}
	case OpInvokeHostFunction:
		auth, err := authEntriesFromBytes(o.auth)
		if err != nil {
			return xdr.Operation{}, err
		}
		body.InvokeHostFunctionOp = &xdr.InvokeHostFunctionOp{
			HostFunction: o.hostFn.toXDR(),
			Auth:         auth,
		}
	case OpExtendFootprintTTL:
		body.ExtendFootprintTtlOp = &xdr.ExtendFootprintTtlOp{ExtendTo: xdr.Uint32(o.extendTo)}
	case OpRestoreFootprint:
		body.RestoreFootprintOp = &xdr.RestoreFootprintOp{}
	}
	out.Body = body
	return out, nil
}

// authEntriesFromBytes decodes raw SorobanAuthorizationEntry values.
func authEntriesFromBytes(raw [][]byte) ([]xdr.SorobanAuthorizationEntry, error) {
	out := make([]xdr.SorobanAuthorizationEntry, len(raw))
	for i, entry := range raw {
		if err := decodeXDR(entry, &out[i]); err != nil {
			return nil, fmt.Errorf("sorosan: auth entry %d: %w", i, err)
		}
	}
	return out, nil
}
