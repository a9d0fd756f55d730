package sorosan

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/stellar/go-stellar-sdk/xdr"
)

// LedgerEntryType is the discriminant shared by ledger keys and entries.
type LedgerEntryType uint32

const (
	LedgerEntryAccount      LedgerEntryType = 0
	LedgerEntryTrustline    LedgerEntryType = 1
	LedgerEntryContractData LedgerEntryType = 6
	LedgerEntryContractCode LedgerEntryType = 7
	LedgerEntryTTL          LedgerEntryType = 9
)

// Durability selects the storage class of contract data.
type Durability uint32

const (
	DurabilityTemporary  Durability = 0
	DurabilityPersistent Durability = 1
)

// Asset is a classic asset. The zero value is the native asset.
type Asset struct {
	Code   string
	Issuer Address
}

// NativeAsset returns the native asset (XLM).
func NativeAsset() Asset {
	return Asset{}
}

// CreditAsset returns an issued asset with a 1 to 12 character code.
func CreditAsset(code string, issuer Address) (Asset, error) {
	if len(code) == 0 || len(code) > 12 {
		return Asset{}, fmt.Errorf("sorosan: invalid asset code %q", code)
	}
	if issuer.IsContract() {
		return Asset{}, fmt.Errorf("sorosan: asset issuer must be an account, got %s", issuer)
	}
	return Asset{Code: code, Issuer: issuer}, nil
}

// IsNative reports whether a is XLM.
func (a Asset) IsNative() bool {
	return a.Code == ""
}

// String returns "native" or "CODE:ISSUER".
func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return a.Code + ":" + a.Issuer.String()
}

func (a Asset) toXDR() xdr.Asset {
	switch {
	case a.IsNative():
		return xdr.Asset{Type: xdr.AssetTypeAssetTypeNative}
	case len(a.Code) <= 4:
		var code xdr.AssetCode4
		copy(code[:], a.Code)
		return xdr.Asset{
			Type:      xdr.AssetTypeAssetTypeCreditAlphanum4,
			AlphaNum4: &xdr.AlphaNum4{AssetCode: code, Issuer: accountID(a.Issuer.key)},
		}
	default:
		var code xdr.AssetCode12
		copy(code[:], a.Code)
		return xdr.Asset{
			Type:       xdr.AssetTypeAssetTypeCreditAlphanum12,
			AlphaNum12: &xdr.AlphaNum12{AssetCode: code, Issuer: accountID(a.Issuer.key)},
		}
	}
}

func assetFromXDR(x xdr.Asset) (Asset, error) {
	switch x.Type {
	case xdr.AssetTypeAssetTypeNative:
		return NativeAsset(), nil
	case xdr.AssetTypeAssetTypeCreditAlphanum4:
		return creditFromXDR(x.AlphaNum4.AssetCode[:], x.AlphaNum4.Issuer)
	case xdr.AssetTypeAssetTypeCreditAlphanum12:
		return creditFromXDR(x.AlphaNum12.AssetCode[:], x.AlphaNum12.Issuer)
	}
	return Asset{}, unknownArm("AssetType", int32(x.Type))
}

// trustLineAssetFromXDR reports pool share trustlines separately; they have
// no Asset.
func trustLineAssetFromXDR(x xdr.TrustLineAsset) (asset Asset, poolShare bool, err error) {
	switch x.Type {
	case xdr.AssetTypeAssetTypeNative:
		return NativeAsset(), false, nil
	case xdr.AssetTypeAssetTypeCreditAlphanum4:
		asset, err = creditFromXDR(x.AlphaNum4.AssetCode[:], x.AlphaNum4.Issuer)
		return asset, false, err
	case xdr.AssetTypeAssetTypeCreditAlphanum12:
		asset, err = creditFromXDR(x.AlphaNum12.AssetCode[:], x.AlphaNum12.Issuer)
		return asset, false, err
	case xdr.AssetTypeAssetTypePoolShare:
		return Asset{}, true, nil
	}
	return Asset{}, false, unknownArm("AssetType", int32(x.Type))
}

// creditFromXDR strips the zero padding of a fixed-width asset code.
func creditFromXDR(code []byte, issuer xdr.AccountId) (Asset, error) {
	addr, err := accountFromXDR(issuer)
	if err != nil {
		return Asset{}, err
	}
	if n := bytes.IndexByte(code, 0); n >= 0 {
		code = code[:n]
	}
	return Asset{Code: string(code), Issuer: addr}, nil
}

// LedgerKey identifies one ledger entry. Only the fields of the active Type
// are meaningful.
type LedgerKey struct {
	Type       LedgerEntryType
	Account    Address    // account, trustline
	Asset      Asset      // trustline
	Contract   Address    // contract data
	Key        ScVal      // contract data
	Durability Durability // contract data
	Hash       [32]byte   // contract code, ttl
}

// AccountKey returns the key of an account entry.
func AccountKey(account Address) LedgerKey {
	return LedgerKey{Type: LedgerEntryAccount, Account: account}
}

// TrustlineKey returns the key of a trustline entry.
func TrustlineKey(account Address, asset Asset) LedgerKey {
	return LedgerKey{Type: LedgerEntryTrustline, Account: account, Asset: asset}
}

// ContractDataKey returns the key of one contract storage slot.
func ContractDataKey(contract Address, key ScVal, durability Durability) LedgerKey {
	return LedgerKey{Type: LedgerEntryContractData, Contract: contract, Key: key, Durability: durability}
}

// ContractInstanceKey returns the key of a contract's instance entry.
func ContractInstanceKey(contract Address) LedgerKey {
	return ContractDataKey(contract, NewLedgerKeyContractInstance(), DurabilityPersistent)
}

// ContractCodeKey returns the key of uploaded wasm.
func ContractCodeKey(hash [32]byte) LedgerKey {
	return LedgerKey{Type: LedgerEntryContractCode, Hash: hash}
}

// MarshalBase64 returns the base64 XDR form used by getLedgerEntries.
func (k LedgerKey) MarshalBase64() string {
	return mustEncodeXDRBase64(k.toXDR())
}

// LedgerKeyFromBase64 decodes a base64 XDR ledger key.
func LedgerKeyFromBase64(s string) (LedgerKey, error) {
	var x xdr.LedgerKey
	if err := decodeXDRBase64(s, &x); err != nil {
		return LedgerKey{}, err
	}
	return ledgerKeyFromXDR(x)
}

// Hex returns the hex XDR encoding; equal keys have equal Hex.
func (k LedgerKey) Hex() string {
	return hex.EncodeToString(mustEncodeXDR(k.toXDR()))
}

// toXDR expects Type to be one of the LedgerEntry constants.
func (k LedgerKey) toXDR() xdr.LedgerKey {
	out := xdr.LedgerKey{Type: xdr.LedgerEntryType(k.Type)}
	switch k.Type {
	case LedgerEntryAccount:
		out.Account = &xdr.LedgerKeyAccount{AccountId: accountID(k.Account.key)}
	case LedgerEntryTrustline:
		out.TrustLine = &xdr.LedgerKeyTrustLine{
			AccountId: accountID(k.Account.key),
			Asset:     k.Asset.toXDR().ToTrustLineAsset(),
		}
	case LedgerEntryContractData:
		out.ContractData = &xdr.LedgerKeyContractData{
			Contract:   k.Contract.toXDR(),
			Key:        k.Key.toXDR(),
			Durability: xdr.ContractDataDurability(k.Durability),
		}
	case LedgerEntryContractCode:
		out.ContractCode = &xdr.LedgerKeyContractCode{Hash: xdr.Hash(k.Hash)}
	case LedgerEntryTTL:
		out.Ttl = &xdr.LedgerKeyTtl{KeyHash: xdr.Hash(k.Hash)}
	}
	return out
}

func ledgerKeyFromXDR(x xdr.LedgerKey) (LedgerKey, error) {
	k := LedgerKey{Type: LedgerEntryType(x.Type)}
	var err error
	switch k.Type {
	case LedgerEntryAccount:
		k.Account, err = accountFromXDR(x.Account.AccountId)
	case LedgerEntryTrustline:
		if k.Account, err = accountFromXDR(x.TrustLine.AccountId); err != nil {
			return LedgerKey{}, err
		}
		var pool bool
		k.Asset, pool, err = trustLineAssetFromXDR(x.TrustLine.Asset)
		if err == nil && pool {
			err = unknownArm("TrustLineAsset", int32(x.TrustLine.Asset.Type))
		}
	case LedgerEntryContractData:
		if k.Contract, err = addressFromXDR(x.ContractData.Contract); err != nil {
			return LedgerKey{}, err
		}
		k.Key, err = scValFromXDR(x.ContractData.Key)
		k.Durability = Durability(x.ContractData.Durability)
	case LedgerEntryContractCode:
		k.Hash = [32]byte(x.ContractCode.Hash)
	case LedgerEntryTTL:
		k.Hash = [32]byte(x.Ttl.KeyHash)
	default:
		err = unknownArm("LedgerEntryType", int32(x.Type))
	}
	if err != nil {
		return LedgerKey{}, err
	}
	return k, nil
}

// AccountEntry holds the parts of an account entry this package uses.
type AccountEntry struct {
	AccountID     Address
	Balance       int64
	SeqNum        int64
	NumSubEntries uint32
	Flags         uint32
	HomeDomain    string
}

// TrustlineEntry holds a classic balance of a non-native asset. PoolShare
// is set for liquidity pool shares, whose Asset is the zero value.
type TrustlineEntry struct {
	Account   Address
	Asset     Asset
	PoolShare bool
	Balance   int64
	Limit     int64
	Flags     uint32
}

// ContractDataEntry is one contract storage slot.
type ContractDataEntry struct {
	Contract   Address
	Key        ScVal
	Durability Durability
	Val        ScVal
}

// ContractCodeEntry is uploaded wasm.
type ContractCodeEntry struct {
	Hash [32]byte
	Code []byte
}

// TTLEntry records when a soroban entry expires.
type TTLEntry struct {
	KeyHash            [32]byte
	LiveUntilLedgerSeq uint32
}

// LedgerEntryData is the body of a ledger entry. Exactly one pointer
// matching Type is set.
type LedgerEntryData struct {
	Type         LedgerEntryType
	Account      *AccountEntry
	Trustline    *TrustlineEntry
	ContractData *ContractDataEntry
	ContractCode *ContractCodeEntry
	TTL          *TTLEntry
}

// LedgerEntryDataFromBase64 decodes the "xdr" field of a getLedgerEntries
// result.
func LedgerEntryDataFromBase64(s string) (LedgerEntryData, error) {
	var x xdr.LedgerEntryData
	if err := decodeXDRBase64(s, &x); err != nil {
		return LedgerEntryData{}, err
	}
	return ledgerEntryDataFromXDR(x)
}

// MarshalBase64 returns the base64 XDR encoding. Fields this package does
// not model are written with their zero values.
func (l LedgerEntryData) MarshalBase64() string {
	return mustEncodeXDRBase64(l.toXDR())
}

func (l LedgerEntryData) toXDR() xdr.LedgerEntryData {
	out := xdr.LedgerEntryData{Type: xdr.LedgerEntryType(l.Type)}
	switch l.Type {
	case LedgerEntryAccount:
		a := l.Account
		out.Account = &xdr.AccountEntry{
			AccountId:     accountID(a.AccountID.key),
			Balance:       xdr.Int64(a.Balance),
			SeqNum:        xdr.SequenceNumber(a.SeqNum),
			NumSubEntries: xdr.Uint32(a.NumSubEntries),
			Flags:         xdr.Uint32(a.Flags),
			HomeDomain:    xdr.String32(a.HomeDomain),
			Thresholds:    xdr.Thresholds{1, 0, 0, 0},
		}
	case LedgerEntryTrustline:
		t := l.Trustline
		asset := t.Asset.toXDR().ToTrustLineAsset()
		if t.PoolShare {
			asset = xdr.TrustLineAsset{Type: xdr.AssetTypeAssetTypePoolShare, LiquidityPoolId: &xdr.PoolId{}}
		}
		out.TrustLine = &xdr.TrustLineEntry{
			AccountId: accountID(t.Account.key),
			Asset:     asset,
			Balance:   xdr.Int64(t.Balance),
			Limit:     xdr.Int64(t.Limit),
			Flags:     xdr.Uint32(t.Flags),
		}
	case LedgerEntryContractData:
		c := l.ContractData
		out.ContractData = &xdr.ContractDataEntry{
			Contract:   c.Contract.toXDR(),
			Key:        c.Key.toXDR(),
			Durability: xdr.ContractDataDurability(c.Durability),
			Val:        c.Val.toXDR(),
		}
	case LedgerEntryContractCode:
		c := l.ContractCode
		out.ContractCode = &xdr.ContractCodeEntry{Hash: xdr.Hash(c.Hash), Code: nonNil(c.Code)}
	case LedgerEntryTTL:
		out.Ttl = &xdr.TtlEntry{
			KeyHash:            xdr.Hash(l.TTL.KeyHash),
			LiveUntilLedgerSeq: xdr.Uint32(l.TTL.LiveUntilLedgerSeq),
		}
	}
	return out
}

func ledgerEntryDataFromXDR(x xdr.LedgerEntryData) (LedgerEntryData, error) {
	l := LedgerEntryData{Type: LedgerEntryType(x.Type)}
	switch l.Type {
	case LedgerEntryAccount:
		a := x.Account
		id, err := accountFromXDR(a.AccountId)
		if err != nil {
			return LedgerEntryData{}, err
		}
		l.Account = &AccountEntry{
			AccountID:     id,
			Balance:       int64(a.Balance),
			SeqNum:        int64(a.SeqNum),
			NumSubEntries: uint32(a.NumSubEntries),
			Flags:         uint32(a.Flags),
			HomeDomain:    string(a.HomeDomain),
		}
	case LedgerEntryTrustline:
		t := x.TrustLine
		account, err := accountFromXDR(t.AccountId)
		if err != nil {
			return LedgerEntryData{}, err
		}
		asset, pool, err := trustLineAssetFromXDR(t.Asset)
		if err != nil {
			return LedgerEntryData{}, err
		}
		l.Trustline = &TrustlineEntry{
			Account:   account,
			Asset:     asset,
			PoolShare: pool,
			Balance:   int64(t.Balance),
			Limit:     int64(t.Limit),
			Flags:     uint32(t.Flags),
		}
	case LedgerEntryContractData:
		c := x.ContractData
		contract, err := addressFromXDR(c.Contract)
		if err != nil {
			return LedgerEntryData{}, err
		}
		key, err := scValFromXDR(c.Key)
		if err != nil {
			return LedgerEntryData{}, err
		}
		val, err := scValFromXDR(c.Val)
		if err != nil {
			return LedgerEntryData{}, err
		}
		l.ContractData = &ContractDataEntry{
			Contract:   contract,
			Key:        key,
			Durability: Durability(c.Durability),
			Val:        val,
		}
	case LedgerEntryContractCode:
		l.ContractCode = &ContractCodeEntry{
			Hash: [32]byte(x.ContractCode.Hash),
			Code: bytes.Clone(nonNil(x.ContractCode.Code)),
		}
	case LedgerEntryTTL:
		l.TTL = &TTLEntry{
			KeyHash:            [32]byte(x.Ttl.KeyHash),
			LiveUntilLedgerSeq: uint32(x.Ttl.LiveUntilLedgerSeq),
		}
	default:
		return LedgerEntryData{}, unknownArm("LedgerEntryData", int32(x.Type))
	}
	return l, nil
}
