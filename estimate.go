package sorosan

import (
	"context"
)

// GasEstimator prices contract calls by simulating them from the
// placeholder account.
type GasEstimator struct {
	client *Client
}

// NewGasEstimator returns an estimator using client's service, base fee
// and placeholder account.
func NewGasEstimator(client *Client) *GasEstimator {
	return &GasEstimator{client: client}
}

// Estimate returns the fee, in stroops, of calling method on contract: the
// classic base fee plus the simulated minimum resource fee.
func (g *GasEstimator) Estimate(ctx context.Context, contract Address, method string, args ...any) (int64, error) {
	b, err := g.client.placeholderBuilder(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := b.Invoke(contract, method, args...).Build()
	if err != nil {
		return 0, err
	}
	return g.estimate(ctx, tx)
}

// EstimateOperation prices a single soroban operation.
func (g *GasEstimator) EstimateOperation(ctx context.Context, op Operation) (int64, error) {
	b, err := g.client.placeholderBuilder(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := b.Transaction().Add(op).Build()
	if err != nil {
		return 0, err
	}
	return g.estimate(ctx, tx)
}

func (g *GasEstimator) estimate(ctx context.Context, tx *Transaction) (int64, error) {
	sim, err := g.client.simulate(ctx, tx)
	if err != nil {
		return 0, err
	}
	fee := int64(tx.Fee()) + sim.MinResourceFee
	g.client.logger.Debug("Estimated fee", "classic", tx.Fee(), "resource", sim.MinResourceFee, "total", fee)
	return fee, nil
}

// Estimate is a shorthand for NewGasEstimator(c).Estimate.
func (c *Client) Estimate(ctx context.Context, contract Address, method string, args ...any) (int64, error) {
	return NewGasEstimator(c).Estimate(ctx, contract, method, args...)
}
