package sorosan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stellar/go-stellar-sdk/strkey"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// ErrInvalidStrKey indicates a malformed G... or C... address.
var ErrInvalidStrKey = errors.New("sorosan: invalid strkey")

// strkeyLength is the encoded length of a 32-byte key: 1 version byte, 32
// payload bytes and a 2-byte checksum in unpadded base32.
const strkeyLength = 56

// AddressKind distinguishes the two ScAddress arms.
type AddressKind uint32

const (
	// AddressAccount is an ed25519 account (G...).
	AddressAccount AddressKind = 0

	// AddressContract is a contract id (C...).
	AddressContract AddressKind = 1
)

// Address is an account or contract address as carried in ScVal and ledger
// keys. The zero value is the all-zero account key.
type Address struct {
	kind AddressKind
	key  [32]byte
}

// ParseAddress decodes a G... account or C... contract strkey.
func ParseAddress(s string) (Address, error) {
	var (
		version strkey.VersionByte
		kind    AddressKind
	)
	switch {
	case strings.HasPrefix(s, "G"):
		version, kind = strkey.VersionByteAccountID, AddressAccount
	case strings.HasPrefix(s, "C"):
		version, kind = strkey.VersionByteContract, AddressContract
	default:
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidStrKey, s)
	}
	raw, err := strkey.Decode(version, s)
	if err != nil || len(raw) != 32 {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidStrKey, s)
	}
	return Address{kind: kind, key: [32]byte(raw)}, nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AccountAddress wraps an ed25519 public key.
func AccountAddress(pub [32]byte) Address {
	return Address{kind: AddressAccount, key: pub}
}

// ContractAddress wraps a 32-byte contract id.
func ContractAddress(id [32]byte) Address {
	return Address{kind: AddressContract, key: id}
}

// Kind returns the address arm.
func (a Address) Kind() AddressKind {
	return a.kind
}

// IsContract reports whether a is a contract address.
func (a Address) IsContract() bool {
	return a.kind == AddressContract
}

// Key returns the raw 32-byte public key or contract id.
func (a Address) Key() [32]byte {
	return a.key
}

// String returns the strkey form.
func (a Address) String() string {
	version := strkey.VersionByteAccountID
	if a.kind == AddressContract {
		version = strkey.VersionByteContract
	}
	return strkey.MustEncode(version, a.key[:])
}

func (a Address) toXDR() xdr.ScAddress {
	if a.kind == AddressContract {
		id := xdr.ContractId(a.key)
		return xdr.ScAddress{Type: xdr.ScAddressType(AddressContract), ContractId: &id}
	}
	account := accountID(a.key)
	return xdr.ScAddress{Type: xdr.ScAddressType(AddressAccount), AccountId: &account}
}

// addressFromXDR accepts the account and contract arms. Muxed, claimable
// balance and liquidity pool addresses are not modelled.
func addressFromXDR(a xdr.ScAddress) (Address, error) {
	switch AddressKind(a.Type) {
	case AddressAccount:
		if a.AccountId == nil {
			break
		}
		return accountFromXDR(*a.AccountId)
	case AddressContract:
		if a.ContractId == nil {
			break
		}
		return ContractAddress([32]byte(*a.ContractId)), nil
	}
	return Address{}, unknownArm("ScAddress", int32(a.Type))
}

func accountID(key [32]byte) xdr.AccountId {
	pub := xdr.Uint256(key)
	return xdr.AccountId{Type: xdr.PublicKeyTypePublicKeyTypeEd25519, Ed25519: &pub}
}

func accountFromXDR(id xdr.AccountId) (Address, error) {
	if id.Ed25519 == nil {
		return Address{}, unknownArm("PublicKey", int32(id.Type))
	}
	return AccountAddress([32]byte(*id.Ed25519)), nil
}

func muxedAccount(key [32]byte) xdr.MuxedAccount {
	pub := xdr.Uint256(key)
	return xdr.MuxedAccount{Type: xdr.CryptoKeyTypeKeyTypeEd25519, Ed25519: &pub}
}

