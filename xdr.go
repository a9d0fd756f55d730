package sorosan

import (
	"encoding"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/stellar/go-stellar-sdk/xdr"
)

// errXDRUnknownArm reports a well-formed union arm this package does not
// model, such as a muxed ScAddress or an offer ledger key.
var errXDRUnknownArm = errors.New("sorosan: xdr: unsupported union discriminant")

func unknownArm(kind string, v int32) error {
	return fmt.Errorf("%w: %s %d", errXDRUnknownArm, kind, v)
}

// mustEncodeXDR marshals a value assembled by this package. The converters
// always populate the arm selected by the discriminant, so a failure here
// is a programming error.
func mustEncodeXDR(v encoding.BinaryMarshaler) []byte {
	data, err := v.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("sorosan: xdr: %v", err))
	}
	return data
}

func mustEncodeXDRBase64(v encoding.BinaryMarshaler) string {
	return base64.StdEncoding.EncodeToString(mustEncodeXDR(v))
}

// decodeXDR decodes data as exactly one value. Truncated input, unknown
// discriminants, oversized arrays and trailing bytes are all rejected.
func decodeXDR(data []byte, dest any) error {
	if err := xdr.SafeUnmarshal(data, dest); err != nil {
		return fmt.Errorf("sorosan: xdr: %w", err)
	}
	return nil
}

func decodeXDRBase64(s string, dest any) error {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("sorosan: invalid base64: %w", err)
	}
	return decodeXDR(raw, dest)
}
