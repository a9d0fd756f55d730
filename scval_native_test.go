package sorosan

import (
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccount  = "GDUY7J7A33TQWOSOQGDO776GGLM3UQERL4J3SPT56F6YS4ID7MLDERI4"
	testContract = "CAZNM4AAQCQPUQGR72MIC7NPWHZBDOQKZBUQ3WTULIDALOWMOG23L6JT"
)

func TestToScValStrings(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		hint string
		typ  ScValType
	}{
		{"no hint", "hello", "", ScvString},
		{"numeric text without hint", "42", "", ScvString},
		{"unknown hint", "42", "float", ScvString},
		{"plain bool hint", "true", "bool", ScvString},
		{"scvbool hint", "false", "scvBool", ScvBool},
		{"symbol", "transfer", "symbol", ScvSymbol},
		{"scvsymbol", "transfer", "scvSymbol", ScvSymbol},
		{"address", testAccount, "address", ScvAddress},
		{"scvaddress", testContract, "scvAddress", ScvAddress},
		{"contract instance hint", testContract, "scvContractInstance", ScvAddress},
		{"bytes", "deadbeef", "bytes", ScvBytes},
		{"scvbytesn", "0xdeadbeef", "scvBytesN", ScvBytes},
		{"i32", "-7", "i32", ScvI32},
		{"u32", "7", "u32", ScvU32},
		{"i64", "-7", "scvI64", ScvI64},
		{"u64", "7", "u64", ScvU64},
		{"i128", "-7", "i128", ScvI128},
		{"u128", "7", "u128", ScvU128},
		{"i256", "-7", "i256", ScvI256},
		{"u256", "7", "U256", ScvU256},
		{"timepoint", "1700000000", "timepoint", ScvTimepoint},
		{"duration", "60", "scvDuration", ScvDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ToScVal(tt.arg, tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, v.Type())
		})
	}
}

func TestToScValStringPayloads(t *testing.T) {
	t.Run("scvbool is always true", func(t *testing.T) {
		v, err := ToScVal("false", "scvbool")
		require.NoError(t, err)
		assert.True(t, v.Bool())
	})

	t.Run("bytes are hex decoded", func(t *testing.T) {
		v, err := ToScVal("00ff10", "bytes")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff, 0x10}, v.Bytes())
	})

	t.Run("address round trip", func(t *testing.T) {
		v, err := ToScVal(testAccount, "address")
		require.NoError(t, err)
		assert.Equal(t, testAccount, v.Address().String())
		native, err := ScValToNative(v)
		require.NoError(t, err)
		assert.Equal(t, testAccount, native)
	})

	t.Run("wide integer text", func(t *testing.T) {
		v, err := ToScVal("-170141183460469231731687303715884105728", "i128")
		require.NoError(t, err)
		want, _ := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)
		assert.Equal(t, 0, want.Cmp(v.BigInt()))
	})
}

func TestToScValStringErrors(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		hint string
	}{
		{"invalid address", "GABC", "address"},
		{"odd hex", "abc", "bytes"},
		{"non hex", "zz", "bytes"},
		{"long symbol", "abcdefghijklmnopqrstuvwxyz0123456789", "symbol"},
		{"not a number", "ten", "u32"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToScVal(tt.arg, tt.hint)
			var encErr *EncodingError
			require.ErrorAs(t, err, &encErr)
			assert.Equal(t, tt.hint, encErr.Hint)
		})
	}
}

func TestToScValNumbers(t *testing.T) {
	t.Run("bool hint yields i32", func(t *testing.T) {
		v, err := ToScVal(1, "bool")
		require.NoError(t, err)
		assert.Equal(t, ScvI32, v.Type())
		assert.Equal(t, int64(1), v.BigInt().Int64())
	})

	t.Run("no hint yields i32", func(t *testing.T) {
		v, err := ToScVal(-5, "")
		require.NoError(t, err)
		assert.Equal(t, ScvI32, v.Type())
		native, err := ScValToNative(v)
		require.NoError(t, err)
		assert.Equal(t, int32(-5), native)
	})

	t.Run("integral float", func(t *testing.T) {
		v, err := ToScVal(3.0, "u64")
		require.NoError(t, err)
		assert.Equal(t, ScvU64, v.Type())
	})

	t.Run("fractional float", func(t *testing.T) {
		_, err := ToScVal(3.5, "")
		assert.ErrorIs(t, err, errNotInteger)
	})

	t.Run("big.Int and uint256", func(t *testing.T) {
		v, err := ToScVal(new(big.Int).Lsh(big.NewInt(1), 100), "u128")
		require.NoError(t, err)
		assert.Equal(t, ScvU128, v.Type())

		v, err = ToScVal(uint256.NewInt(9), "u256")
		require.NoError(t, err)
		assert.Equal(t, int64(9), v.BigInt().Int64())
	})

	ranges := []struct {
		name string
		arg  any
		hint string
		typ  ScValType
	}{
		{"i32 default overflow", int64(1) << 31, "", ScvI32},
		{"u32 negative", -1, "u32", ScvU32},
		{"u32 overflow", uint64(1) << 32, "u32", ScvU32},
		{"i64 overflow", uint64(1) << 63, "i64", ScvI64},
		{"u128 overflow", new(big.Int).Lsh(big.NewInt(1), 128), "u128", ScvU128},
		{"i128 overflow", new(big.Int).Lsh(big.NewInt(1), 127), "i128", ScvI128},
		{"u256 negative", big.NewInt(-1), "u256", ScvU256},
		{"i256 underflow", new(big.Int).Neg(new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))), "i256", ScvI256},
	}
	for _, tt := range ranges {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToScVal(tt.arg, tt.hint)
			var rangeErr *RangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tt.typ, rangeErr.Type)
		})
	}

	bounds := []struct {
		name string
		arg  *big.Int
		hint string
	}{
		{"i32 min", big.NewInt(-1 << 31), "i32"},
		{"u32 max", big.NewInt(1<<32 - 1), "u32"},
		{"i128 min", new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127)), "i128"},
		{"u256 max", new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)), "u256"},
	}
	for _, tt := range bounds {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ToScVal(tt.arg, tt.hint)
			require.NoError(t, err)
			assert.Equal(t, 0, tt.arg.Cmp(v.BigInt()))

			var decoded ScVal
			data, _ := v.MarshalBinary()
			require.NoError(t, decoded.UnmarshalBinary(data))
			assert.Equal(t, 0, tt.arg.Cmp(decoded.BigInt()))
		})
	}
}

func TestToScValComposites(t *testing.T) {
	t.Run("bool ignores hint", func(t *testing.T) {
		v, err := ToScVal(true, "u32")
		require.NoError(t, err)
		assert.Equal(t, ScvBool, v.Type())
		assert.True(t, v.Bool())
	})

	t.Run("bytes", func(t *testing.T) {
		v, err := ToScVal([]byte{1, 2}, "")
		require.NoError(t, err)
		assert.Equal(t, ScvBytes, v.Type())

		v, err = ToScVal([4]byte{1, 2, 3, 4}, "")
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4}, v.Bytes())
	})

	t.Run("scval passthrough", func(t *testing.T) {
		in := NewSymbol("x")
		v, err := ToScVal(in, "u32")
		require.NoError(t, err)
		assert.True(t, in.Equal(v))
	})

	t.Run("nil is void", func(t *testing.T) {
		v, err := ToScVal(nil, "")
		require.NoError(t, err)
		assert.True(t, v.IsVoid())
	})

	t.Run("slice becomes vec", func(t *testing.T) {
		v, err := ToScVal([]any{1, "a", true}, "")
		require.NoError(t, err)
		items := v.Vec()
		require.Len(t, items, 3)
		assert.Equal(t, ScvI32, items[0].Type())
		assert.Equal(t, ScvString, items[1].Type())
		assert.Equal(t, ScvBool, items[2].Type())
	})

	t.Run("map becomes sorted symbol map", func(t *testing.T) {
		v, err := ToScVal(map[string]any{"b": 2, "a": 1, "c": "x"}, "")
		require.NoError(t, err)
		entries := v.Map()
		require.Len(t, entries, 3)
		for i, key := range []string{"a", "b", "c"} {
			assert.Equal(t, ScvSymbol, entries[i].Key.Type())
			assert.Equal(t, key, entries[i].Key.Text())
		}
	})

	unsupported := []struct {
		name string
		arg  any
	}{
		{"func", func() {}},
		{"chan", make(chan int)},
		{"struct", struct{ A int }{1}},
		{"int keyed map", map[int]string{1: "a"}},
	}
	for _, tt := range unsupported {
		t.Run("unsupported "+tt.name, func(t *testing.T) {
			_, err := ToScVal(tt.arg, "")
			var typeErr *UnsupportedTypeError
			assert.ErrorAs(t, err, &typeErr)
		})
	}

	t.Run("unsupported element", func(t *testing.T) {
		_, err := ToScVal([]any{1, func() {}}, "")
		var typeErr *UnsupportedTypeError
		assert.True(t, errors.As(err, &typeErr))
	})
}

func TestMustScVal(t *testing.T) {
	assert.NotPanics(t, func() { MustScVal(1, "u32") })
	assert.Panics(t, func() { MustScVal(-1, "u32") })
}

func TestScValToNative(t *testing.T) {
	tests := []struct {
		name string
		in   ScVal
		want any
	}{
		{"bool", NewBool(true), true},
		{"void", NewVoid(), nil},
		{"u32", NewU32(7), uint32(7)},
		{"i32", NewI32(-7), int32(-7)},
		{"u64", NewU64(7), uint64(7)},
		{"i64", NewI64(-7), int64(-7)},
		{"timepoint", NewTimepoint(9), uint64(9)},
		{"bytes", NewBytes([]byte{1}), []byte{1}},
		{"string", NewString("s"), "s"},
		{"symbol", NewSymbol("sym"), "sym"},
		{"vec", NewVec([]ScVal{NewU32(1), NewString("a")}), []any{uint32(1), "a"}},
		{"map", NewMap([]ScMapEntry{{Key: NewSymbol("k"), Val: NewBool(false)}}), map[string]any{"k": false}},
		{"address", NewAddress(MustParseAddress(testContract)), testContract},
		{"error", NewError(ScError{Type: 0, Code: 42}), ScError{Type: 0, Code: 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScValToNative(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("wide integers", func(t *testing.T) {
		v, err := NewI128(big.NewInt(-12))
		require.NoError(t, err)
		got, err := ScValToNative(v)
		require.NoError(t, err)
		n, ok := got.(*big.Int)
		require.True(t, ok)
		assert.Equal(t, "-12", n.String())
	})

	t.Run("absent vec and map", func(t *testing.T) {
		got, err := ScValToNative(ScVal{typ: ScvVec})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ScValToNative(ScVal{typ: 99})
		var typeErr *UnsupportedTypeError
		assert.ErrorAs(t, err, &typeErr)
	})
}
