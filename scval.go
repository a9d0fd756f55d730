package sorosan

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// ScValType is the discriminant of the ScVal union.
type ScValType uint32

const (
	ScvBool                      ScValType = 0
	ScvVoid                      ScValType = 1
	ScvError                     ScValType = 2
	ScvU32                       ScValType = 3
	ScvI32                       ScValType = 4
	ScvU64                       ScValType = 5
	ScvI64                       ScValType = 6
	ScvTimepoint                 ScValType = 7
	ScvDuration                  ScValType = 8
	ScvU128                      ScValType = 9
	ScvI128                      ScValType = 10
	ScvU256                      ScValType = 11
	ScvI256                      ScValType = 12
	ScvBytes                     ScValType = 13
	ScvString                    ScValType = 14
	ScvSymbol                    ScValType = 15
	ScvVec                       ScValType = 16
	ScvMap                       ScValType = 17
	ScvAddress                   ScValType = 18
	ScvContractInstance          ScValType = 19
	ScvLedgerKeyContractInstance ScValType = 20
	ScvLedgerKeyNonce            ScValType = 21
)

var scValTypeNames = map[ScValType]string{
	ScvBool:                      "scvBool",
	ScvVoid:                      "scvVoid",
	ScvError:                     "scvError",
	ScvU32:                       "scvU32",
	ScvI32:                       "scvI32",
	ScvU64:                       "scvU64",
	ScvI64:                       "scvI64",
	ScvTimepoint:                 "scvTimepoint",
	ScvDuration:                  "scvDuration",
	ScvU128:                      "scvU128",
	ScvI128:                      "scvI128",
	ScvU256:                      "scvU256",
	ScvI256:                      "scvI256",
	ScvBytes:                     "scvBytes",
	ScvString:                    "scvString",
	ScvSymbol:                    "scvSymbol",
	ScvVec:                       "scvVec",
	ScvMap:                       "scvMap",
	ScvAddress:                   "scvAddress",
	ScvContractInstance:          "scvContractInstance",
	ScvLedgerKeyContractInstance: "scvLedgerKeyContractInstance",
	ScvLedgerKeyNonce:            "scvLedgerKeyNonce",
}

func (t ScValType) String() string {
	if name, ok := scValTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ScValType(%d)", uint32(t))
}

// maxSymbolLength is the XDR bound of SCSymbol.
const maxSymbolLength = 32

// ScError is the contract or host error carried by scvError.
type ScError struct {
	Type uint32
	Code uint32
}

// ScMapEntry is one key/value pair of an scvMap.
type ScMapEntry struct {
	Key ScVal
	Val ScVal
}

// ExecutableKind selects how a contract instance is executed.
type ExecutableKind uint32

const (
	ExecutableWasm         ExecutableKind = 0
	ExecutableStellarAsset ExecutableKind = 1
)

// ContractExecutable points a contract instance at its code.
type ContractExecutable struct {
	Kind     ExecutableKind
	WasmHash [32]byte
}

// ContractInstance is the payload of scvContractInstance. A nil Storage
// encodes as an absent map.
type ContractInstance struct {
	Executable ContractExecutable
	Storage    []ScMapEntry
}

// ScVal is the tagged value union passed to and returned from contracts.
// Values are immutable; constructors copy their inputs.
type ScVal struct {
	typ   ScValType
	num   uint64      // bool, 32/64-bit integers, timepoint, duration, nonce
	wide  uint256.Int // 128/256-bit integers, two's complement in their width
	raw   []byte      // bytes, string, symbol
	vec   []ScVal     // nil means an absent vec
	m     []ScMapEntry
	addr  Address
	inst  *ContractInstance
	scErr ScError
}

// NewBool creates an scvBool.
func NewBool(b bool) ScVal {
	v := ScVal{typ: ScvBool}
	if b {
		v.num = 1
	}
	return v
}

// NewVoid creates an scvVoid.
func NewVoid() ScVal {
	return ScVal{typ: ScvVoid}
}

// NewU32 creates an scvU32.
func NewU32(n uint32) ScVal {
	return ScVal{typ: ScvU32, num: uint64(n)}
}

// NewI32 creates an scvI32.
func NewI32(n int32) ScVal {
	return ScVal{typ: ScvI32, num: uint64(uint32(n))}
}

// NewU64 creates an scvU64.
func NewU64(n uint64) ScVal {
	return ScVal{typ: ScvU64, num: n}
}

// NewI64 creates an scvI64.
func NewI64(n int64) ScVal {
	return ScVal{typ: ScvI64, num: uint64(n)}
}

// NewTimepoint creates an scvTimepoint (seconds since epoch).
func NewTimepoint(n uint64) ScVal {
	return ScVal{typ: ScvTimepoint, num: n}
}

// NewDuration creates an scvDuration (seconds).
func NewDuration(n uint64) ScVal {
	return ScVal{typ: ScvDuration, num: n}
}

// NewU128 creates an scvU128, failing with RangeError outside [0, 2^128).
func NewU128(n *big.Int) (ScVal, error) {
	return newWide(ScvU128, n)
}

// NewI128 creates an scvI128, failing with RangeError outside [-2^127, 2^127).
func NewI128(n *big.Int) (ScVal, error) {
	return newWide(ScvI128, n)
}

// NewU256 creates an scvU256.
func NewU256(n *big.Int) (ScVal, error) {
	return newWide(ScvU256, n)
}

// NewI256 creates an scvI256.
func NewI256(n *big.Int) (ScVal, error) {
	return newWide(ScvI256, n)
}

// NewBytes creates an scvBytes.
func NewBytes(b []byte) ScVal {
	return ScVal{typ: ScvBytes, raw: bytes.Clone(nonNil(b))}
}

// NewString creates an scvString.
func NewString(s string) ScVal {
	return ScVal{typ: ScvString, raw: []byte(s)}
}

// NewSymbol creates an scvSymbol. Symbols longer than 32 bytes cannot be
// decoded by the network.
func NewSymbol(s string) ScVal {
	return ScVal{typ: ScvSymbol, raw: []byte(s)}
}

// NewVec creates an scvVec.
func NewVec(items []ScVal) ScVal {
	vec := make([]ScVal, len(items))
	copy(vec, items)
	return ScVal{typ: ScvVec, vec: vec}
}

// NewMap creates an scvMap. Entries keep the given order.
func NewMap(entries []ScMapEntry) ScVal {
	m := make([]ScMapEntry, len(entries))
	copy(m, entries)
	return ScVal{typ: ScvMap, m: m}
}

// NewAddress creates an scvAddress.
func NewAddress(a Address) ScVal {
	return ScVal{typ: ScvAddress, addr: a}
}

// NewError creates an scvError.
func NewError(e ScError) ScVal {
	return ScVal{typ: ScvError, scErr: e}
}

// NewContractInstance creates an scvContractInstance.
func NewContractInstance(inst ContractInstance) ScVal {
	c := inst
	if inst.Storage != nil {
		c.Storage = append([]ScMapEntry{}, inst.Storage...)
	}
	return ScVal{typ: ScvContractInstance, inst: &c}
}

// NewLedgerKeyContractInstance creates the instance storage key.
func NewLedgerKeyContractInstance() ScVal {
	return ScVal{typ: ScvLedgerKeyContractInstance}
}

// NewLedgerKeyNonce creates a nonce storage key.
func NewLedgerKeyNonce(nonce int64) ScVal {
	return ScVal{typ: ScvLedgerKeyNonce, num: uint64(nonce)}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func wideBits(t ScValType) uint {
	if t == ScvU128 || t == ScvI128 {
		return 128
	}
	return 256
}

func wideSigned(t ScValType) bool {
	return t == ScvI128 || t == ScvI256
}

func newWide(t ScValType, n *big.Int) (ScVal, error) {
	if n == nil {
		n = new(big.Int)
	}
	bits := wideBits(t)
	if !fitsWidth(n, bits, wideSigned(t)) {
		return ScVal{}, &RangeError{Type: t, Value: n.String()}
	}
	x := n
	if n.Sign() < 0 {
		x = new(big.Int).Add(n, new(big.Int).Lsh(big.NewInt(1), bits))
	}
	u, overflow := uint256.FromBig(x)
	if overflow {
		return ScVal{}, &RangeError{Type: t, Value: n.String()}
	}
	return ScVal{typ: t, wide: *u}, nil
}

// fitsWidth reports whether n is representable in the given integer width.
func fitsWidth(n *big.Int, bits uint, signed bool) bool {
	if !signed {
		return n.Sign() >= 0 && uint(n.BitLen()) <= bits
	}
	if n.Sign() >= 0 {
		return uint(n.BitLen()) <= bits-1
	}
	// -2^(bits-1) <= n  <=>  (-n - 1) < 2^(bits-1)
	m := new(big.Int).Neg(n)
	m.Sub(m, big.NewInt(1))
	return uint(m.BitLen()) <= bits-1
}

// Type returns the union discriminant.
func (v ScVal) Type() ScValType {
	return v.typ
}

// IsVoid reports whether v is scvVoid.
func (v ScVal) IsVoid() bool {
	return v.typ == ScvVoid
}

// Bool returns the payload of an scvBool.
func (v ScVal) Bool() bool {
	return v.typ == ScvBool && v.num == 1
}

// IsInteger reports whether v carries an integer payload.
func (v ScVal) IsInteger() bool {
	switch v.typ {
	case ScvU32, ScvI32, ScvU64, ScvI64, ScvTimepoint, ScvDuration,
		ScvU128, ScvI128, ScvU256, ScvI256, ScvLedgerKeyNonce:
		return true
	}
	return false
}

// BigInt returns the integer payload of any integer type, or nil.
func (v ScVal) BigInt() *big.Int {
	switch v.typ {
	case ScvU32, ScvU64, ScvTimepoint, ScvDuration:
		return new(big.Int).SetUint64(v.num)
	case ScvI32:
		return big.NewInt(int64(int32(uint32(v.num))))
	case ScvI64, ScvLedgerKeyNonce:
		return big.NewInt(int64(v.num))
	case ScvU128, ScvI128, ScvU256, ScvI256:
		b := v.wide.ToBig()
		bits := wideBits(v.typ)
		if wideSigned(v.typ) && b.Bit(int(bits-1)) == 1 {
			b.Sub(b, new(big.Int).Lsh(big.NewInt(1), bits))
		}
		return b
	}
	return nil
}

// U32 returns the payload of an scvU32, or zero for other types.
func (v ScVal) U32() uint32 {
	if v.typ != ScvU32 {
		return 0
	}
	return uint32(v.num)
}

// Uint256 returns the raw two's complement payload of a wide integer.
func (v ScVal) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&v.wide)
}

// Bytes returns the payload of scvBytes, scvString or scvSymbol.
func (v ScVal) Bytes() []byte {
	return bytes.Clone(v.raw)
}

// Text returns the payload of scvString or scvSymbol as a Go string.
func (v ScVal) Text() string {
	return string(v.raw)
}

// Vec returns the elements of an scvVec. It is nil for an absent vec.
func (v ScVal) Vec() []ScVal {
	if v.vec == nil {
		return nil
	}
	return append([]ScVal{}, v.vec...)
}

// Map returns the entries of an scvMap. It is nil for an absent map.
func (v ScVal) Map() []ScMapEntry {
	if v.m == nil {
		return nil
	}
	return append([]ScMapEntry{}, v.m...)
}

// Address returns the payload of an scvAddress.
func (v ScVal) Address() Address {
	return v.addr
}

// Instance returns the payload of an scvContractInstance, or nil.
func (v ScVal) Instance() *ContractInstance {
	if v.inst == nil {
		return nil
	}
	c := *v.inst
	return &c
}

// ScError returns the payload of an scvError.
func (v ScVal) ScError() ScError {
	return v.scErr
}

// Equal reports whether v and o have identical encodings.
func (v ScVal) Equal(o ScVal) bool {
	a, _ := v.MarshalBinary()
	b, _ := o.MarshalBinary()
	return bytes.Equal(a, b)
}

func (v ScVal) String() string {
	native, err := ScValToNative(v)
	if err != nil {
		return v.typ.String()
	}
	return fmt.Sprintf("%s(%v)", v.typ, native)
}

// MarshalBinary returns the XDR encoding of v.
func (v ScVal) MarshalBinary() ([]byte, error) {
	return v.toXDR().MarshalBinary()
}

// UnmarshalBinary decodes exactly one XDR ScVal.
func (v *ScVal) UnmarshalBinary(data []byte) error {
	var x xdr.ScVal
	if err := decodeXDR(data, &x); err != nil {
		return err
	}
	out, err := scValFromXDR(x)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// MarshalBase64 returns the base64 XDR encoding used by the RPC service.
func (v ScVal) MarshalBase64() string {
	return mustEncodeXDRBase64(v.toXDR())
}

// ScValFromBase64 decodes a base64 XDR ScVal.
func ScValFromBase64(s string) (ScVal, error) {
	var x xdr.ScVal
	if err := decodeXDRBase64(s, &x); err != nil {
		return ScVal{}, err
	}
	return scValFromXDR(x)
}

func (v ScVal) toXDR() xdr.ScVal {
	out := xdr.ScVal{Type: xdr.ScValType(v.typ)}
	switch v.typ {
	case ScvBool:
		b := v.num == 1
		out.B = &b
	case ScvError:
		out.Error = v.scErr.toXDR()
	case ScvU32:
		n := xdr.Uint32(v.num)
		out.U32 = &n
	case ScvI32:
		n := xdr.Int32(int32(uint32(v.num)))
		out.I32 = &n
	case ScvU64:
		n := xdr.Uint64(v.num)
		out.U64 = &n
	case ScvI64:
		n := xdr.Int64(v.num)
		out.I64 = &n
	case ScvTimepoint:
		n := xdr.TimePoint(v.num)
		out.Timepoint = &n
	case ScvDuration:
		n := xdr.Duration(v.num)
		out.Duration = &n
	case ScvU128:
		out.U128 = &xdr.UInt128Parts{Hi: xdr.Uint64(v.wide[1]), Lo: xdr.Uint64(v.wide[0])}
	case ScvI128:
		out.I128 = &xdr.Int128Parts{Hi: xdr.Int64(v.wide[1]), Lo: xdr.Uint64(v.wide[0])}
	case ScvU256:
		out.U256 = &xdr.UInt256Parts{
			HiHi: xdr.Uint64(v.wide[3]),
			HiLo: xdr.Uint64(v.wide[2]),
			LoHi: xdr.Uint64(v.wide[1]),
			LoLo: xdr.Uint64(v.wide[0]),
		}
	case ScvI256:
		out.I256 = &xdr.Int256Parts{
			HiHi: xdr.Int64(v.wide[3]),
			HiLo: xdr.Uint64(v.wide[2]),
			LoHi: xdr.Uint64(v.wide[1]),
			LoLo: xdr.Uint64(v.wide[0]),
		}
	case ScvBytes:
		b := xdr.ScBytes(nonNil(v.raw))
		out.Bytes = &b
	case ScvString:
		s := xdr.ScString(v.raw)
		out.Str = &s
	case ScvSymbol:
		s := xdr.ScSymbol(v.raw)
		out.Sym = &s
	case ScvVec:
		var vec *xdr.ScVec
		if v.vec != nil {
			items := make(xdr.ScVec, len(v.vec))
			for i, item := range v.vec {
				items[i] = item.toXDR()
			}
			vec = &items
		}
		out.Vec = &vec
	case ScvMap:
		m := mapToXDR(v.m)
		out.Map = &m
	case ScvAddress:
		a := v.addr.toXDR()
		out.Address = &a
	case ScvContractInstance:
		inst := ContractInstance{}
		if v.inst != nil {
			inst = *v.inst
		}
		out.Instance = &xdr.ScContractInstance{
			Executable: inst.Executable.toXDR(),
			Storage:    mapToXDR(inst.Storage),
		}
	case ScvLedgerKeyNonce:
		out.NonceKey = &xdr.ScNonceKey{Nonce: xdr.Int64(v.num)}
	}
	return out
}

func (e ScError) toXDR() *xdr.ScError {
	out := &xdr.ScError{Type: xdr.ScErrorType(e.Type)}
	// Only contract errors carry a free-form code.
	if e.Type == 0 {
		code := xdr.Uint32(e.Code)
		out.ContractCode = &code
	} else {
		code := xdr.ScErrorCode(e.Code)
		out.Code = &code
	}
	return out
}

func (e ContractExecutable) toXDR() xdr.ContractExecutable {
	out := xdr.ContractExecutable{Type: xdr.ContractExecutableType(e.Kind)}
	if e.Kind == ExecutableWasm {
		h := xdr.Hash(e.WasmHash)
		out.WasmHash = &h
	}
	return out
}

func executableFromXDR(x xdr.ContractExecutable) (ContractExecutable, error) {
	switch ExecutableKind(x.Type) {
	case ExecutableWasm:
		if x.WasmHash != nil {
			return ContractExecutable{Kind: ExecutableWasm, WasmHash: [32]byte(*x.WasmHash)}, nil
		}
	case ExecutableStellarAsset:
		return ContractExecutable{Kind: ExecutableStellarAsset}, nil
	}
	return ContractExecutable{}, unknownArm("ContractExecutable", int32(x.Type))
}

// mapToXDR keeps the distinction between an absent map (nil) and an empty
// one.
func mapToXDR(m []ScMapEntry) *xdr.ScMap {
	if m == nil {
		return nil
	}
	out := make(xdr.ScMap, len(m))
	for i, entry := range m {
		out[i] = xdr.ScMapEntry{Key: entry.Key.toXDR(), Val: entry.Val.toXDR()}
	}
	return &out
}

func mapFromXDR(m *xdr.ScMap) ([]ScMapEntry, error) {
	if m == nil {
		return nil, nil
	}
	out := make([]ScMapEntry, len(*m))
	for i, entry := range *m {
		key, err := scValFromXDR(entry.Key)
		if err != nil {
			return nil, err
		}
		val, err := scValFromXDR(entry.Val)
		if err != nil {
			return nil, err
		}
		out[i] = ScMapEntry{Key: key, Val: val}
	}
	return out, nil
}

// scValFromXDR converts a decoded value. The decoder guarantees the arm
// matching x.Type is set.
func scValFromXDR(x xdr.ScVal) (ScVal, error) {
	v := ScVal{typ: ScValType(x.Type)}
	switch v.typ {
	case ScvBool:
		return NewBool(bool(*x.B)), nil
	case ScvVoid, ScvLedgerKeyContractInstance:
	case ScvError:
		v.scErr.Type = uint32(x.Error.Type)
		if x.Error.ContractCode != nil {
			v.scErr.Code = uint32(*x.Error.ContractCode)
		} else if x.Error.Code != nil {
			v.scErr.Code = uint32(*x.Error.Code)
		}
	case ScvU32:
		v.num = uint64(*x.U32)
	case ScvI32:
		v.num = uint64(uint32(*x.I32))
	case ScvU64:
		v.num = uint64(*x.U64)
	case ScvI64:
		v.num = uint64(*x.I64)
	case ScvTimepoint:
		v.num = uint64(*x.Timepoint)
	case ScvDuration:
		v.num = uint64(*x.Duration)
	case ScvU128:
		v.wide[1], v.wide[0] = uint64(x.U128.Hi), uint64(x.U128.Lo)
	case ScvI128:
		v.wide[1], v.wide[0] = uint64(x.I128.Hi), uint64(x.I128.Lo)
	case ScvU256:
		p := x.U256
		v.wide = [4]uint64{uint64(p.LoLo), uint64(p.LoHi), uint64(p.HiLo), uint64(p.HiHi)}
	case ScvI256:
		p := x.I256
		v.wide = [4]uint64{uint64(p.LoLo), uint64(p.LoHi), uint64(p.HiLo), uint64(p.HiHi)}
	case ScvBytes:
		v.raw = bytes.Clone(nonNil(*x.Bytes))
	case ScvString:
		v.raw = []byte(*x.Str)
	case ScvSymbol:
		v.raw = []byte(*x.Sym)
	case ScvVec:
		if x.Vec == nil || *x.Vec == nil {
			return v, nil
		}
		items := **x.Vec
		v.vec = make([]ScVal, len(items))
		for i, item := range items {
			el, err := scValFromXDR(item)
			if err != nil {
				return ScVal{}, err
			}
			v.vec[i] = el
		}
	case ScvMap:
		if x.Map == nil {
			return v, nil
		}
		m, err := mapFromXDR(*x.Map)
		if err != nil {
			return ScVal{}, err
		}
		v.m = m
	case ScvAddress:
		a, err := addressFromXDR(*x.Address)
		if err != nil {
			return ScVal{}, err
		}
		v.addr = a
	case ScvContractInstance:
		exec, err := executableFromXDR(x.Instance.Executable)
		if err != nil {
			return ScVal{}, err
		}
		storage, err := mapFromXDR(x.Instance.Storage)
		if err != nil {
			return ScVal{}, err
		}
		v.inst = &ContractInstance{Executable: exec, Storage: storage}
	case ScvLedgerKeyNonce:
		v.num = uint64(x.NonceKey.Nonce)
	default:
		return ScVal{}, unknownArm("ScVal", int32(x.Type))
	}
	return v, nil
}
