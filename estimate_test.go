package sorosan

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGasEstimator(t *testing.T) {
	contract := MustParseAddress(testContract)

	t.Run("base fee plus resource fee", func(t *testing.T) {
		svc := newFakeService()
		svc.simulate = simulation(NewU32(1), 48_213)
		c := newTestClient(t, svc)

		fee, err := NewGasEstimator(c).Estimate(context.Background(), contract, "increment")
		require.NoError(t, err)
		assert.Equal(t, int64(DefaultBaseFee+48_213), fee)
		assert.Empty(t, svc.sent)
	})

	t.Run("custom base fee", func(t *testing.T) {
		svc := newFakeService()
		svc.simulate = simulation(NewU32(1), 1_000)
		c := newTestClient(t, svc, WithBaseFee(500))

		fee, err := c.Estimate(context.Background(), contract, "increment")
		require.NoError(t, err)
		assert.Equal(t, int64(1_500), fee)
	})

	t.Run("calls without a return value are priced", func(t *testing.T) {
		svc := newFakeService()
		svc.simulate = func(string) (*SimulateResult, error) {
			return &SimulateResult{MinResourceFee: 10}, nil
		}
		c := newTestClient(t, svc)
		fee, err := c.Estimate(context.Background(), contract, "noop")
		require.NoError(t, err)
		assert.Equal(t, int64(110), fee)
	})

	t.Run("simulation error", func(t *testing.T) {
		svc := newFakeService()
		svc.simulate = func(string) (*SimulateResult, error) {
			return &SimulateResult{Error: "HostError: Error(WasmVm, MissingValue)"}, nil
		}
		_, err := newTestClient(t, svc).Estimate(context.Background(), contract, "missing")
		var simErr *SimulationError
		assert.ErrorAs(t, err, &simErr)
	})

	t.Run("operation", func(t *testing.T) {
		svc := newFakeService()
		svc.simulate = simulation(NewVoid(), 2_000)
		c := newTestClient(t, svc)
		fee, err := NewGasEstimator(c).EstimateOperation(context.Background(), UploadWasm([]byte{0, 0x61, 0x73, 0x6d}))
		require.NoError(t, err)
		assert.Equal(t, int64(2_100), fee)
	})

	t.Run("invalid operation", func(t *testing.T) {
		c := newTestClient(t, newFakeService())
		_, err := NewGasEstimator(c).EstimateOperation(context.Background(), InvokeContract(contract, ""))
		assert.Error(t, err)
	})
}

func TestToken(t *testing.T) {
	contract := MustParseAddress(testContract)

	call := func(t *testing.T, ret ScVal) *Token {
		t.Helper()
		svc := newFakeService()
		svc.simulate = simulation(ret, 10)
		return newTestClient(t, svc).Token(contract)
	}

	t.Run("name and symbol", func(t *testing.T) {
		name, err := call(t, NewString("Lumens")).Name(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Lumens", name)

		sym, err := call(t, NewSymbol("XLM")).Symbol(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "XLM", sym)
	})

	t.Run("decimals", func(t *testing.T) {
		d, err := call(t, NewU32(7)).Decimals(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint32(7), d)
	})

	t.Run("balance", func(t *testing.T) {
		amount, err := NewI128(big.NewInt(12_345_678))
		require.NoError(t, err)
		tok := call(t, amount)
		assert.Equal(t, contract, tok.Address())

		bal, err := tok.Balance(context.Background(), MustParseAddress(testAccount))
		require.NoError(t, err)
		assert.Equal(t, "12345678", bal.String())
	})

	t.Run("unexpected types", func(t *testing.T) {
		_, err := call(t, NewU32(1)).Name(context.Background())
		assert.True(t, errors.Is(err, ErrUnexpectedResult))
		_, err = call(t, NewI32(7)).Decimals(context.Background())
		assert.True(t, errors.Is(err, ErrUnexpectedResult))
		_, err = call(t, NewU64(5)).Balance(context.Background(), MustParseAddress(testAccount))
		assert.True(t, errors.Is(err, ErrUnexpectedResult))
	})

	t.Run("asset contract", func(t *testing.T) {
		c := newTestClient(t, newFakeService())
		assert.Equal(t, "CDLZFC3SYJYDZT7K67VZ75HPJVIEUVNIXF47ZG2FB2RMQQVU2HHGCYSC", c.AssetContract(NativeAsset()).String())
	})
}
