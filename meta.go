package sorosan

import "github.com/stellar/go-stellar-sdk/xdr"

// ReturnValueFromMeta extracts the contract return value from a base64
// TransactionMeta. Versions 3 and 4 are understood. Anything else, an
// absent soroban section, or malformed data yields void.
func ReturnValueFromMeta(metaXDR string) ScVal {
	var meta xdr.TransactionMeta
	if decodeXDRBase64(metaXDR, &meta) != nil {
		return NewVoid()
	}
	ret, ok := metaReturnValue(meta)
	if !ok {
		return NewVoid()
	}
	v, err := scValFromXDR(ret)
	if err != nil {
		return NewVoid()
	}
	return v
}

func metaReturnValue(meta xdr.TransactionMeta) (xdr.ScVal, bool) {
	switch meta.V {
	case 3:
		if meta.V3.SorobanMeta == nil {
			return xdr.ScVal{}, false
		}
		return meta.V3.SorobanMeta.ReturnValue, true
	case 4:
		if meta.V4.SorobanMeta == nil || meta.V4.SorobanMeta.ReturnValue == nil {
			return xdr.ScVal{}, false
		}
		return *meta.V4.SorobanMeta.ReturnValue, true
	}
	return xdr.ScVal{}, false
}
