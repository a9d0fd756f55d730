package sorosan

import "context"

// SignOptions tells the signer which network and account to sign for.
type SignOptions struct {
	Network           string
	NetworkPassphrase string
	Account           string
}

// SignResponse is the signer's answer. A non-empty Status means the
// signer declined or failed; SignedXDR is then ignored.
type SignResponse struct {
	Status    string
	SignedXDR string
}

// Signer signs transaction envelopes outside this package, typically in
// a wallet.
type Signer interface {
	Sign(ctx context.Context, envelopeXDR string, opts SignOptions) (SignResponse, error)
}

// SignerFunc adapts a function to Signer.
type SignerFunc func(ctx context.Context, envelopeXDR string, opts SignOptions) (SignResponse, error)

// Sign calls f.
func (f SignerFunc) Sign(ctx context.Context, envelopeXDR string, opts SignOptions) (SignResponse, error) {
	return f(ctx, envelopeXDR, opts)
}
