package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/branched-services/go-sorosan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nativeTestnetContract is the stellar asset contract of XLM on testnet.
const nativeTestnetContract = "CDLZFC3SYJYDZT7K67VZ75HPJVIEUVNIXF47ZG2FB2RMQQVU2HHGCYSC"

func testClient(t *testing.T) *sorosan.Client {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("Set INTEGRATION_TEST=1 to run integration tests")
	}
	cfg := sorosan.DefaultConfig(sorosan.NetworkTestnet)
	if url := os.Getenv("SOROSAN_RPC_URL"); url != "" {
		cfg.RPCURL = url
	}
	client, err := sorosan.Dial(cfg)
	require.NoError(t, err)
	return client
}

func TestNetwork(t *testing.T) {
	client := testClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := client.Service().GetNetwork(ctx)
	require.NoError(t, err)
	assert.Equal(t, sorosan.TestnetPassphrase, info.Passphrase)
	t.Logf("Protocol version: %d", info.ProtocolVersion)

	latest, err := client.Service().GetLatestLedger(ctx)
	require.NoError(t, err)
	assert.NotZero(t, latest.Sequence)
}

func TestNativeAssetContract(t *testing.T) {
	client := testClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	native := client.AssetContract(sorosan.NativeAsset())
	assert.Equal(t, nativeTestnetContract, native.String())

	// Asset contracts run no wasm, so there is nothing to decompile.
	entries, err := client.Decompile(ctx, native)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = client.WasmID(ctx, native)
	assert.ErrorIs(t, err, sorosan.ErrEntryNotFound)

	ttl, err := client.LiveUntilLedger(ctx, native)
	require.NoError(t, err)
	t.Logf("Native contract live until ledger %d", ttl)
}

func TestNativeToken(t *testing.T) {
	client := testClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	token := client.Token(sorosan.MustParseAddress(nativeTestnetContract))

	decimals, err := token.Decimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), decimals)

	symbol, err := token.Symbol(ctx)
	require.NoError(t, err)
	assert.Equal(t, "native", symbol)

	fee, err := client.Estimate(ctx, token.Address(), "decimals")
	require.NoError(t, err)
	assert.Greater(t, fee, int64(sorosan.DefaultBaseFee))
	t.Logf("decimals() costs %d stroops", fee)
}
