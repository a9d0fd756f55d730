package sorosan

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// StroopsPerXLM is the number of stroops in one lumen.
const StroopsPerXLM = 10_000_000

// Mask shortens an address for display to its first 6 and last 3
// characters. Strings shorter than 10 characters are returned unchanged.
func Mask(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-3:]
}

// IsAddress reports whether s has the shape of a strkey: 56 ASCII letters
// or digits. It does not verify the checksum; use ParseAddress for that.
func IsAddress(s string) bool {
	return len(s) == strkeyLength && isAlnum(s)
}

// IsAccountAddress reports whether s is a valid account strkey.
func IsAccountAddress(s string) bool {
	a, err := ParseAddress(s)
	return err == nil && !a.IsContract()
}

// IsContractAddress reports whether s is a valid contract strkey.
func IsContractAddress(s string) bool {
	a, err := ParseAddress(s)
	return err == nil && a.IsContract()
}

// IsContractHash reports whether s has the shape of a hex contract hash:
// 64 ASCII letters or digits.
func IsContractHash(s string) bool {
	return len(s) == 64 && isAlnum(s)
}

func isAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// ContractHashToID converts a hex contract hash to its contract address.
func ContractHashToID(hash string) (Address, error) {
	raw, err := parseHex(hash)
	if err != nil {
		return Address{}, err
	}
	if len(raw) != 32 {
		return Address{}, fmt.Errorf("sorosan: contract hash must be 32 bytes, got %d", len(raw))
	}
	var id [32]byte
	copy(id[:], raw)
	return ContractAddress(id), nil
}

// ContractIDToHash returns the hex contract hash of a contract strkey.
func ContractIDToHash(id string) (string, error) {
	a, err := ParseAddress(id)
	if err != nil {
		return "", err
	}
	if !a.IsContract() {
		return "", fmt.Errorf("sorosan: %s is not a contract address", id)
	}
	key := a.Key()
	return hex.EncodeToString(key[:]), nil
}

// StroopsToXLM formats an amount of stroops in lumens, without trailing
// zeros.
func StroopsToXLM(stroops int64) string {
	r := new(big.Rat).SetFrac(big.NewInt(stroops), big.NewInt(StroopsPerXLM))
	s := r.FloatString(7)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

var errNegativeAmount = errors.New("sorosan: negative amount")

// XLMToStroops parses a decimal lumen amount. Negative amounts and
// amounts finer than one stroop are rejected.
func XLMToStroops(lumens string) (int64, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(lumens))
	if !ok {
		return 0, fmt.Errorf("sorosan: invalid amount %q", lumens)
	}
	if r.Sign() < 0 {
		return 0, errNegativeAmount
	}
	r.Mul(r, new(big.Rat).SetInt64(StroopsPerXLM))
	if !r.IsInt() {
		return 0, fmt.Errorf("sorosan: amount %q is finer than one stroop", lumens)
	}
	n := r.Num()
	if !n.IsInt64() {
		return 0, fmt.Errorf("sorosan: amount %q overflows int64 stroops", lumens)
	}
	return n.Int64(), nil
}
