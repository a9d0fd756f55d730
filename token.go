package sorosan

import (
	"context"
	"fmt"
	"math/big"
)

// Token reads a token contract that follows the standard token interface.
type Token struct {
	client   *Client
	contract Address
}

// Token returns a reader for the token contract.
func (c *Client) Token(contract Address) *Token {
	return &Token{client: c, contract: contract}
}

// AssetContract returns the stellar asset contract address of asset on
// the client's network.
func (c *Client) AssetContract(asset Asset) Address {
	return ContractIDPreimage{FromAsset: true, Asset: asset}.ContractID(c.passphrase)
}

// Address returns the token contract.
func (t *Token) Address() Address {
	return t.contract
}

// Name returns the token name.
func (t *Token) Name(ctx context.Context) (string, error) {
	return t.text(ctx, "name")
}

// Symbol returns the token symbol.
func (t *Token) Symbol(ctx context.Context) (string, error) {
	return t.text(ctx, "symbol")
}

// Decimals returns the number of decimals of the token amount.
func (t *Token) Decimals(ctx context.Context) (uint32, error) {
	v, err := t.client.CallScVal(ctx, t.contract, "decimals")
	if err != nil {
		return 0, err
	}
	if v.Type() != ScvU32 {
		return 0, fmt.Errorf("%w: decimals is %s", ErrUnexpectedResult, v.Type())
	}
	return v.U32(), nil
}

// Balance returns the token balance of holder.
func (t *Token) Balance(ctx context.Context, holder Address) (*big.Int, error) {
	v, err := t.client.CallScVal(ctx, t.contract, "balance", holder)
	if err != nil {
		return nil, err
	}
	if v.Type() != ScvI128 {
		return nil, fmt.Errorf("%w: balance is %s", ErrUnexpectedResult, v.Type())
	}
	return v.BigInt(), nil
}

func (t *Token) text(ctx context.Context, method string) (string, error) {
	v, err := t.client.CallScVal(ctx, t.contract, method)
	if err != nil {
		return "", err
	}
	if v.Type() != ScvString && v.Type() != ScvSymbol {
		return "", fmt.Errorf("%w: %s is %s", ErrUnexpectedResult, method, v.Type())
	}
	return v.Text(), nil
}
