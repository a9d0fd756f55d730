package sorosan

import (
	"encoding/base64"
	"testing"

	"github.com/stellar/go-stellar-sdk/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// metaFixture assembles TransactionMeta XDR around a return value.
type metaFixture struct {
	version   int32
	withEntry bool
	withEvent bool
	noSoroban bool
	noReturn  bool
	ret       ScVal
}

func (m metaFixture) encode(t *testing.T) string {
	var changes xdr.LedgerEntryChanges
	if m.withEntry {
		ttl := LedgerEntryData{Type: LedgerEntryTTL, TTL: &TTLEntry{KeyHash: [32]byte{1}, LiveUntilLedgerSeq: 99}}
		changes = xdr.LedgerEntryChanges{{
			Type:  xdr.LedgerEntryChangeType(3), // state
			State: &xdr.LedgerEntry{LastModifiedLedgerSeq: 77, Data: ttl.toXDR()},
		}}
	}

	meta := xdr.TransactionMeta{V: m.version}
	switch m.version {
	case 3:
		v3 := &xdr.TransactionMetaV3{
			TxChangesBefore: changes,
			Operations:      []xdr.OperationMeta{{}},
		}
		if !m.noSoroban {
			v3.SorobanMeta = &xdr.SorobanTransactionMeta{Events: m.events(), ReturnValue: m.ret.toXDR()}
		}
		meta.V3 = v3
	case 4:
		v4 := &xdr.TransactionMetaV4{
			TxChangesBefore: changes,
			Operations:      []xdr.OperationMetaV2{{Events: m.events()}},
		}
		if !m.noSoroban {
			v4.SorobanMeta = &xdr.SorobanTransactionMetaV2{}
			if !m.noReturn {
				ret := m.ret.toXDR()
				v4.SorobanMeta.ReturnValue = &ret
			}
		}
		meta.V4 = v4
	default:
		meta.V2 = &xdr.TransactionMetaV2{TxChangesBefore: changes}
	}
	s, err := xdr.MarshalBase64(meta)
	require.NoError(t, err)
	return s
}

func (m metaFixture) events() []xdr.ContractEvent {
	if !m.withEvent {
		return nil
	}
	id := xdr.ContractId(MustParseAddress(testContract).Key())
	return []xdr.ContractEvent{{
		ContractId: &id,
		Type:       xdr.ContractEventTypeContract,
		Body: xdr.ContractEventBody{V: 0, V0: &xdr.ContractEventV0{
			Topics: []xdr.ScVal{NewSymbol("transfer").toXDR(), NewAddress(MustParseAddress(testAccount)).toXDR()},
			Data:   NewI64(5).toXDR(),
		}},
	}}
}

func TestReturnValueFromMeta(t *testing.T) {
	ret := NewVec([]ScVal{NewSymbol("Hello"), NewSymbol("Dev")})

	tests := []struct {
		name    string
		fixture metaFixture
		want    ScVal
	}{
		{"v3", metaFixture{version: 3, ret: ret}, ret},
		{"v3 with entries and events", metaFixture{version: 3, withEntry: true, withEvent: true, ret: ret}, ret},
		{"v4", metaFixture{version: 4, ret: NewU32(7)}, NewU32(7)},
		{"v4 with entries and events", metaFixture{version: 4, withEntry: true, withEvent: true, ret: ret}, ret},
		{"v4 without return value", metaFixture{version: 4, noReturn: true}, NewVoid()},
		{"v3 without soroban meta", metaFixture{version: 3, noSoroban: true}, NewVoid()},
		{"v4 without soroban meta", metaFixture{version: 4, noSoroban: true}, NewVoid()},
		{"unknown version", metaFixture{version: 2, noSoroban: true}, NewVoid()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReturnValueFromMeta(tt.fixture.encode(t))
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestReturnValueFromMetaMalformed(t *testing.T) {
	full := metaFixture{version: 3, withEntry: true, withEvent: true, ret: NewU32(1)}.encode(t)
	raw, _ := base64.StdEncoding.DecodeString(full)

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"not base64", "%%%"},
		{"truncated", base64.StdEncoding.EncodeToString(raw[:len(raw)/2])},
		{"bad change type", base64.StdEncoding.EncodeToString(append([]byte{0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 9}, raw[16:]...))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ReturnValueFromMeta(tt.in).IsVoid())
		})
	}
}
