package sorosan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Client drives contract introspection and the transaction lifecycle
// against one network. It is read-only after construction and safe for
// concurrent use.
type Client struct {
	service      LedgerService
	network      string
	passphrase   string
	baseFee      uint32
	placeholder  Address
	pollInterval time.Duration
	txTimeout    time.Duration
	logger       log.Logger
	metrics      *Metrics
	modules      ModuleReader
	signer       Signer
	wait         WaitFunc
	now          func() time.Time
}

// NewClient creates a client for service on the network described by cfg.
func NewClient(service LedgerService, cfg Config, opts ...ClientOption) (*Client, error) {
	if service == nil {
		return nil, errors.New("sorosan: nil ledger service")
	}
	cc := defaultClientConfig(cfg)
	for _, opt := range opts {
		opt(cc)
	}
	cfg.BaseFee = cc.baseFee
	cfg.PollInterval = cc.pollInterval
	cfg.PlaceholderAccount = cc.placeholder
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	placeholder, err := ParseAddress(cc.placeholder)
	if err != nil {
		return nil, err
	}
	return &Client{
		service:      service,
		network:      cfg.Network,
		passphrase:   cfg.NetworkPassphrase,
		baseFee:      cc.baseFee,
		placeholder:  placeholder,
		pollInterval: cc.pollInterval,
		txTimeout:    cc.txTimeout,
		logger:       cc.logger,
		metrics:      NewMetrics(cc.registerer),
		modules:      cc.modules,
		signer:       cc.signer,
		wait:         cc.wait,
		now:          cc.now,
	}, nil
}

// Dial creates a client backed by an RPCClient for cfg.RPCURL.
func Dial(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("sorosan: rpc_url is required")
	}
	rpcOpts := []RPCOption{}
	if cfg.RequestTimeout > 0 {
		rpcOpts = append(rpcOpts, WithRequestTimeout(cfg.RequestTimeout))
	}
	return NewClient(NewRPCClient(cfg.RPCURL, rpcOpts...), cfg, opts...)
}

// Service returns the underlying ledger service.
func (c *Client) Service() LedgerService {
	return c.service
}

// NetworkPassphrase returns the passphrase transactions are hashed with.
func (c *Client) NetworkPassphrase() string {
	return c.passphrase
}

// GetAccount loads an account entry.
func (c *Client) GetAccount(ctx context.Context, account Address) (*AccountEntry, error) {
	if account.IsContract() {
		return nil, fmt.Errorf("sorosan: %s is not an account", account)
	}
	res, ok, err := c.ledgerEntry(ctx, AccountKey(account))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}
	data, err := res.Data()
	if err != nil {
		return nil, err
	}
	if data.Account == nil {
		return nil, fmt.Errorf("sorosan: entry for %s is %d, not an account", account, data.Type)
	}
	return data.Account, nil
}

// ledgerEntry fetches a single key. ok is false when it has no live entry.
func (c *Client) ledgerEntry(ctx context.Context, key LedgerKey) (LedgerEntryResult, bool, error) {
	res, err := c.service.GetLedgerEntries(ctx, []LedgerKey{key})
	if err != nil {
		return LedgerEntryResult{}, false, err
	}
	if len(res.Entries) == 0 {
		return LedgerEntryResult{}, false, nil
	}
	return res.Entries[0], true, nil
}

// NewTransaction starts a transaction for source at its current sequence
// number, with the client's base fee and time bounds.
func (c *Client) NewTransaction(ctx context.Context, source Address, opts ...BuilderOption) (*ContractTxBuilder, error) {
	acct, err := c.GetAccount(ctx, source)
	if err != nil {
		return nil, err
	}
	return c.newBuilder(source, acct.SeqNum, opts...), nil
}

func (c *Client) newBuilder(source Address, seq int64, opts ...BuilderOption) *ContractTxBuilder {
	base := []BuilderOption{WithFee(c.baseFee)}
	if c.txTimeout > 0 {
		base = append(base, WithTimeout(c.now(), c.txTimeout))
	} else {
		base = append(base, WithTimeBounds(TimeBounds{}))
	}
	return NewContractTxBuilder(NewTransactionBuilder(source, seq, append(base, opts...)...))
}

// placeholderBuilder starts a transaction from the placeholder account. A
// placeholder without a ledger entry simulates with sequence zero.
func (c *Client) placeholderBuilder(ctx context.Context) (*ContractTxBuilder, error) {
	acct, err := c.GetAccount(ctx, c.placeholder)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		c.logger.Debug("Placeholder account missing, simulating with sequence 0", "account", c.placeholder)
		return c.newBuilder(c.placeholder, 0), nil
	case err != nil:
		return nil, err
	}
	return c.newBuilder(c.placeholder, acct.SeqNum), nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
