package sorosan

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScValEncoding(t *testing.T) {
	minusOne, err := NewI128(big.NewInt(-1))
	require.NoError(t, err)
	big256, err := NewU256(new(big.Int).Lsh(big.NewInt(1), 192))
	require.NoError(t, err)

	tests := []struct {
		name string
		val  ScVal
		want string
	}{
		{"bool", NewBool(true), "00000000" + "00000001"},
		{"void", NewVoid(), "00000001"},
		{"u32", NewU32(7), "00000003" + "00000007"},
		{"i32", NewI32(-2), "00000004" + "fffffffe"},
		{"i64", NewI64(-1), "00000006" + "ffffffffffffffff"},
		{"i128 minus one", minusOne, "0000000a" + "ffffffffffffffff" + "ffffffffffffffff"},
		{"u256 high word", big256, "0000000b" + "0000000000000001" + "0000000000000000" + "0000000000000000" + "0000000000000000"},
		{"symbol padded", NewSymbol("abc"), "0000000f" + "00000003" + "61626300"},
		{"empty bytes", NewBytes(nil), "0000000d" + "00000000"},
		{"absent vec", ScVal{typ: ScvVec}, "00000010" + "00000000"},
		{"empty vec", NewVec(nil), "00000010" + "00000001" + "00000000"},
		{"map", NewMap([]ScMapEntry{{Key: NewSymbol("a"), Val: NewU32(1)}}),
			"00000011" + "00000001" + "00000001" + "0000000f" + "00000001" + "61000000" + "00000003" + "00000001"},
		{"account address", NewAddress(MustParseAddress(testAccount)),
			"00000012" + "00000000" + "00000000" + "e98fa7e0dee70b3a4e8186efffc632d9ba40915f13b93e7df17d897103fb1632"},
		{"contract address", NewAddress(MustParseAddress(testContract)),
			"00000012" + "00000001" + "32d6700080a0fa40d1fe98817dafb1f211ba0ac8690dda745a0605bacc71b5b5"},
		{"contract error", NewError(ScError{Type: 0, Code: 3}), "00000002" + "00000000" + "00000003"},
		{"instance key", NewLedgerKeyContractInstance(), "00000014"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.val.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(data))

			var decoded ScVal
			require.NoError(t, decoded.UnmarshalBinary(data))
			assert.True(t, tt.val.Equal(decoded))
			assert.Equal(t, tt.val.Type(), decoded.Type())
		})
	}
}

func TestScValBase64(t *testing.T) {
	v := NewVec([]ScVal{NewString("hi"), NewU64(9)})
	decoded, err := ScValFromBase64(v.MarshalBase64())
	require.NoError(t, err)
	assert.True(t, v.Equal(decoded))

	_, err = ScValFromBase64("not base64!")
	assert.Error(t, err)
}

func TestScValDecodeStrict(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"unknown type", "00000063"},
		{"bool out of range", "00000000" + "00000002"},
		{"symbol too long", "0000000f" + "00000021" + "6161616161616161616161616161616161616161616161616161616161616161" + "61000000"},
		{"truncated u64", "00000005" + "00000000"},
		{"vec count beyond data", "00000010" + "00000001" + "000000ff"},
		{"trailing bytes", "00000001" + "00000000"},
		{"unknown address arm", "00000012" + "00000002"},
		{"host error code", "00000002" + "00000001" + "0000000a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := hex.DecodeString(tt.data)
			require.NoError(t, err)
			var v ScVal
			assert.Error(t, v.UnmarshalBinary(data))
		})
	}
}

func TestScValDepthLimit(t *testing.T) {
	v := NewVoid()
	for i := 0; i < 1000; i++ {
		v = NewVec([]ScVal{v})
	}
	data, err := v.MarshalBinary()
	require.NoError(t, err)

	var decoded ScVal
	assert.Error(t, decoded.UnmarshalBinary(data))
}

func TestScValContractInstance(t *testing.T) {
	inst := ContractInstance{
		Executable: ContractExecutable{Kind: ExecutableWasm, WasmHash: [32]byte{1, 2, 3}},
		Storage:    []ScMapEntry{{Key: NewSymbol("admin"), Val: NewAddress(MustParseAddress(testAccount))}},
	}
	v := NewContractInstance(inst)
	data, err := v.MarshalBinary()
	require.NoError(t, err)

	var decoded ScVal
	require.NoError(t, decoded.UnmarshalBinary(data))
	got := decoded.Instance()
	require.NotNil(t, got)
	assert.Equal(t, inst.Executable, got.Executable)
	require.Len(t, got.Storage, 1)
	assert.Equal(t, "admin", got.Storage[0].Key.Text())

	asset := NewContractInstance(ContractInstance{Executable: ContractExecutable{Kind: ExecutableStellarAsset}})
	data, err = asset.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, "00000013"+"00000001"+"00000000", hex.EncodeToString(data))
}

func TestScValAccessors(t *testing.T) {
	t.Run("immutable inputs", func(t *testing.T) {
		raw := []byte{1, 2, 3}
		v := NewBytes(raw)
		raw[0] = 9
		assert.Equal(t, []byte{1, 2, 3}, v.Bytes())

		out := v.Bytes()
		out[1] = 9
		assert.Equal(t, []byte{1, 2, 3}, v.Bytes())
	})

	t.Run("big int of non integers", func(t *testing.T) {
		assert.Nil(t, NewString("1").BigInt())
		assert.False(t, NewString("1").IsInteger())
		assert.True(t, NewTimepoint(1).IsInteger())
	})

	t.Run("bool on other types", func(t *testing.T) {
		assert.False(t, NewU32(1).Bool())
	})

	t.Run("u32", func(t *testing.T) {
		assert.Equal(t, uint32(7), NewU32(7).U32())
		assert.Equal(t, uint32(0xffffffff), NewU32(0xffffffff).U32())
		assert.Zero(t, NewI32(7).U32())
		assert.Zero(t, NewU64(7).U32())
	})

	t.Run("type names", func(t *testing.T) {
		assert.Equal(t, "scvU32", ScvU32.String())
		assert.Equal(t, "ScValType(99)", ScValType(99).String())
	})

	t.Run("string form", func(t *testing.T) {
		assert.Equal(t, "scvU32(7)", NewU32(7).String())
	})
}

func TestWideIntegerRange(t *testing.T) {
	max128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	v, err := NewI128(max128)
	require.NoError(t, err)
	assert.Equal(t, 0, max128.Cmp(v.BigInt()))

	_, err = NewI128(new(big.Int).Add(max128, big.NewInt(1)))
	var rangeErr *RangeError
	assert.ErrorAs(t, err, &rangeErr)

	min256 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	v, err = NewI256(min256)
	require.NoError(t, err)
	data, _ := v.MarshalBinary()
	assert.Equal(t, "0000000c"+"8000000000000000"+"0000000000000000"+"0000000000000000"+"0000000000000000", hex.EncodeToString(data))
	assert.Equal(t, 0, min256.Cmp(v.BigInt()))
}
