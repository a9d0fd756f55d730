package sorosan

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	errNotInteger = errors.New("not an integer")
	errInvalidHex = errors.New("invalid hex string")
	errSymbolLong = errors.New("symbol longer than 32 bytes")
)

// integerHints maps lowercased hints to the integer type they select. It is
// shared by string and number arguments.
var integerHints = map[string]ScValType{
	"i32": ScvI32, "scvi32": ScvI32,
	"u32": ScvU32, "scvu32": ScvU32,
	"i64": ScvI64, "scvi64": ScvI64,
	"u64": ScvU64, "scvu64": ScvU64,
	"i128": ScvI128, "scvi128": ScvI128,
	"u128": ScvU128, "scvu128": ScvU128,
	"i256": ScvI256, "scvi256": ScvI256,
	"u256": ScvU256, "scvu256": ScvU256,
	"timepoint": ScvTimepoint, "scvtimepoint": ScvTimepoint,
	"duration": ScvDuration, "scvduration": ScvDuration,
}

// ToScVal converts a native Go value to an ScVal, guided by an optional,
// case-insensitive type hint.
//
// Strings become scvString unless the hint names an address, bytes (hex),
// symbol, scvBool or integer type. Numbers become scvI32 unless the hint
// names another integer type; a "bool" hint on a number still yields
// scvI32. Booleans ignore the hint. Integers that do not fit the selected
// width fail with *RangeError and unsupported values with
// *UnsupportedTypeError.
func ToScVal(arg any, hint string) (ScVal, error) {
	hint = strings.ToLower(hint)

	switch v := arg.(type) {
	case nil:
		return NewVoid(), nil
	case ScVal:
		return v, nil
	case *ScVal:
		if v == nil {
			return NewVoid(), nil
		}
		return *v, nil
	case Address:
		return NewAddress(v), nil
	case string:
		return stringToScVal(v, hint)
	case bool:
		return NewBool(v), nil
	case []byte:
		return NewBytes(v), nil
	case *big.Int:
		if v == nil {
			return NewVoid(), nil
		}
		return numberToScVal(v, hint)
	case *uint256.Int:
		if v == nil {
			return NewVoid(), nil
		}
		return numberToScVal(v.ToBig(), hint)
	}

	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return numberToScVal(big.NewInt(rv.Int()), hint)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return numberToScVal(new(big.Int).SetUint64(rv.Uint()), hint)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			return ScVal{}, &EncodingError{Value: arg, Hint: hint, Err: errNotInteger}
		}
		n, _ := big.NewFloat(f).Int(nil)
		return numberToScVal(n, hint)
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return NewBytes(b), nil
		}
		items := make([]ScVal, rv.Len())
		for i := range items {
			item, err := ToScVal(rv.Index(i).Interface(), "")
			if err != nil {
				return ScVal{}, err
			}
			items[i] = item
		}
		return NewVec(items), nil
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return stringMapToScVal(rv)
		}
	}
	return ScVal{}, &UnsupportedTypeError{Type: fmt.Sprintf("%T", arg)}
}

// MustScVal is like ToScVal but panics on error.
func MustScVal(arg any, hint string) ScVal {
	v, err := ToScVal(arg, hint)
	if err != nil {
		panic(err)
	}
	return v
}

func stringToScVal(s, hint string) (ScVal, error) {
	switch hint {
	case "address", "scvaddress", "scvcontractinstance":
		a, err := ParseAddress(s)
		if err != nil {
			return ScVal{}, &EncodingError{Value: s, Hint: hint, Err: err}
		}
		return NewAddress(a), nil
	case "bytes", "scvbytes", "scvbytesn":
		b, err := parseHex(s)
		if err != nil {
			return ScVal{}, &EncodingError{Value: s, Hint: hint, Err: err}
		}
		return NewBytes(b), nil
	case "symbol", "scvsymbol":
		if len(s) > maxSymbolLength {
			return ScVal{}, &EncodingError{Value: s, Hint: hint, Err: errSymbolLong}
		}
		return NewSymbol(s), nil
	case "scvbool":
		return NewBool(true), nil
	}
	if t, ok := integerHints[hint]; ok {
		n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
		if !ok {
			return ScVal{}, &EncodingError{Value: s, Hint: hint, Err: errNotInteger}
		}
		return integerToScVal(n, t)
	}
	return NewString(s), nil
}

func numberToScVal(n *big.Int, hint string) (ScVal, error) {
	if t, ok := integerHints[hint]; ok {
		return integerToScVal(n, t)
	}
	// Every other hint, "bool" included, selects the 32-bit default.
	return integerToScVal(n, ScvI32)
}

func integerToScVal(n *big.Int, t ScValType) (ScVal, error) {
	switch t {
	case ScvU32:
		if !fitsWidth(n, 32, false) {
			return ScVal{}, &RangeError{Type: t, Value: n.String()}
		}
		return NewU32(uint32(n.Uint64())), nil
	case ScvI32:
		if !fitsWidth(n, 32, true) {
			return ScVal{}, &RangeError{Type: t, Value: n.String()}
		}
		return NewI32(int32(n.Int64())), nil
	case ScvU64, ScvTimepoint, ScvDuration:
		if !fitsWidth(n, 64, false) {
			return ScVal{}, &RangeError{Type: t, Value: n.String()}
		}
		return ScVal{typ: t, num: n.Uint64()}, nil
	case ScvI64:
		if !fitsWidth(n, 64, true) {
			return ScVal{}, &RangeError{Type: t, Value: n.String()}
		}
		return NewI64(n.Int64()), nil
	}
	return newWide(t, n)
}

func stringMapToScVal(rv reflect.Value) (ScVal, error) {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	entries := make([]ScMapEntry, 0, len(keys))
	for _, k := range keys {
		val, err := ToScVal(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface(), "")
		if err != nil {
			return ScVal{}, err
		}
		entries = append(entries, ScMapEntry{Key: NewSymbol(k), Val: val})
	}
	return NewMap(entries), nil
}

// parseHex decodes an even-length hex string with an optional 0x prefix.
func parseHex(s string) ([]byte, error) {
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(body)%2 != 0 {
		return nil, errInvalidHex
	}
	for _, c := range body {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return nil, errInvalidHex
		}
	}
	return common.FromHex(body), nil
}

// ScValToNative converts an ScVal to a plain Go value:
//
//	scvBool                 bool
//	scvVoid                 nil
//	scvU32 / scvI32         uint32 / int32
//	scvU64 / scvI64         uint64 / int64
//	scvTimepoint/Duration   uint64
//	128/256-bit integers    *big.Int
//	scvBytes                []byte
//	scvString / scvSymbol   string
//	scvVec                  []any
//	scvMap                  map[string]any
//	scvAddress              strkey string
//	scvError                ScError
//	scvContractInstance     *ContractInstance
func ScValToNative(v ScVal) (any, error) {
	switch v.typ {
	case ScvBool:
		return v.Bool(), nil
	case ScvVoid, ScvLedgerKeyContractInstance:
		return nil, nil
	case ScvU32:
		return uint32(v.num), nil
	case ScvI32:
		return int32(uint32(v.num)), nil
	case ScvU64, ScvTimepoint, ScvDuration:
		return v.num, nil
	case ScvI64, ScvLedgerKeyNonce:
		return int64(v.num), nil
	case ScvU128, ScvI128, ScvU256, ScvI256:
		return v.BigInt(), nil
	case ScvBytes:
		return v.Bytes(), nil
	case ScvString, ScvSymbol:
		return v.Text(), nil
	case ScvVec:
		if v.vec == nil {
			return nil, nil
		}
		out := make([]any, len(v.vec))
		for i, item := range v.vec {
			n, err := ScValToNative(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case ScvMap:
		return mapToNative(v.m)
	case ScvAddress:
		return v.addr.String(), nil
	case ScvError:
		return v.scErr, nil
	case ScvContractInstance:
		return v.Instance(), nil
	}
	return nil, &UnsupportedTypeError{Type: v.typ.String()}
}

func mapToNative(entries []ScMapEntry) (map[string]any, error) {
	if entries == nil {
		return nil, nil
	}
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		k, err := ScValToNative(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := ScValToNative(e.Val)
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			key = fmt.Sprint(k)
		}
		out[key] = val
	}
	return out, nil
}
