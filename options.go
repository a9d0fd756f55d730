package sorosan

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
)

// ClientOption configures a Client. Options override the Config passed to
// NewClient.
type ClientOption func(*clientConfig)

// WaitFunc blocks for d or until ctx is done, returning ctx.Err() in the
// latter case.
type WaitFunc func(ctx context.Context, d time.Duration) error

// clientConfig holds the settings NewClient resolves from Config and options.
type clientConfig struct {
	baseFee      uint32
	pollInterval time.Duration
	placeholder  string
	txTimeout    time.Duration
	logger       log.Logger
	registerer   prometheus.Registerer
	modules      ModuleReader
	signer       Signer
	wait         WaitFunc
	now          func() time.Time
}

func defaultClientConfig(cfg Config) *clientConfig {
	return &clientConfig{
		baseFee:      cfg.BaseFee,
		pollInterval: cfg.PollInterval,
		placeholder:  cfg.PlaceholderAccount,
		logger:       log.Root(),
		modules:      NewWazeroModuleReader(),
		wait:         sleepContext,
		now:          time.Now,
	}
}

// WithBaseFee sets the classic per-operation fee in stroops.
func WithBaseFee(fee uint32) ClientOption {
	return func(c *clientConfig) {
		c.baseFee = fee
	}
}

// WithPollInterval sets the finality polling cadence. Default is one
// second.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.pollInterval = d
	}
}

// WithPlaceholderAccount sets the source account used for read-only calls
// and fee estimates.
func WithPlaceholderAccount(account string) ClientOption {
	return func(c *clientConfig) {
		c.placeholder = account
	}
}

// WithTxTimeout bounds the validity of built transactions. Zero, the
// default, leaves them valid indefinitely.
func WithTxTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.txTimeout = d
	}
}

// WithLogger sets the logger. Default is log.Root().
func WithLogger(logger log.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithRegisterer registers the client's metrics on reg. Without it the
// metrics are collected but not registered.
func WithRegisterer(reg prometheus.Registerer) ClientOption {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

// WithModuleReader replaces the wasm custom section reader.
func WithModuleReader(r ModuleReader) ClientOption {
	return func(c *clientConfig) {
		c.modules = r
	}
}

// WithSigner sets the signer used by Sign and the full lifecycle flows.
func WithSigner(s Signer) ClientOption {
	return func(c *clientConfig) {
		c.signer = s
	}
}

// WithWait replaces the function that waits between finality polls.
func WithWait(wait WaitFunc) ClientOption {
	return func(c *clientConfig) {
		c.wait = wait
	}
}

// WithClock replaces the time source used for transaction time bounds.
func WithClock(now func() time.Time) ClientOption {
	return func(c *clientConfig) {
		c.now = now
	}
}
