package sorosan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/stellar/go-stellar-sdk/clients/rpcclient"
	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"
)

// DefaultRequestTimeout bounds a single RPC request.
const DefaultRequestTimeout = 30 * time.Second

// RPCOption configures an RPCClient.
type RPCOption func(*RPCClient)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) RPCOption {
	return func(c *RPCClient) {
		c.httpClient = hc
	}
}

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(d time.Duration) RPCOption {
	return func(c *RPCClient) {
		c.httpClient.Timeout = d
	}
}

// WithRPCLogger sets the request logger.
func WithRPCLogger(logger log.Logger) RPCOption {
	return func(c *RPCClient) {
		c.logger = logger
	}
}

// RPCClient is a LedgerService speaking JSON-RPC 2.0 over HTTP.
type RPCClient struct {
	endpoint   string
	httpClient *http.Client
	logger     log.Logger
	rpc        *rpcclient.Client
}

var _ LedgerService = (*RPCClient)(nil)

// NewRPCClient creates a client for the RPC endpoint at url.
func NewRPCClient(url string, opts ...RPCOption) *RPCClient {
	c := &RPCClient{
		endpoint:   url,
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
		logger:     log.Root(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rpc = rpcclient.NewClient(c.endpoint, c.httpClient)
	return c
}

// Close releases the underlying connection.
func (c *RPCClient) Close() error {
	return c.rpc.Close()
}

// call runs one request, tagging its log lines with a correlation id.
// Error objects returned by the service become *RPCError.
func (c *RPCClient) call(method string, fn func() error) error {
	id := uuid.NewString()
	c.logger.Trace("RPC request", "method", method, "id", id)
	err := fn()
	if err == nil {
		c.logger.Trace("RPC response", "method", method, "id", id)
		return nil
	}
	c.logger.Debug("RPC request failed", "method", method, "id", id, "err", err)
	var jerr *jrpc2.Error
	if errors.As(err, &jerr) {
		rerr := &RPCError{Code: int(jerr.Code), Message: jerr.Message}
		if len(jerr.Data) > 0 {
			var data any
			if json.Unmarshal(jerr.Data, &data) == nil {
				rerr.Data = data
			}
		}
		return rerr
	}
	return fmt.Errorf("sorosan: %s: %w", method, err)
}

// GetLedgerEntries fetches live entries for keys.
func (c *RPCClient) GetLedgerEntries(ctx context.Context, keys []LedgerKey) (*LedgerEntriesResult, error) {
	encoded := make([]string, len(keys))
	for i, k := range keys {
		encoded[i] = k.MarshalBase64()
	}
	var resp protocol.GetLedgerEntriesResponse
	err := c.call("getLedgerEntries", func() (err error) {
		resp, err = c.rpc.GetLedgerEntries(ctx, protocol.GetLedgerEntriesRequest{Keys: encoded})
		return err
	})
	if err != nil {
		return nil, err
	}
	res := &LedgerEntriesResult{
		Entries:      make([]LedgerEntryResult, len(resp.Entries)),
		LatestLedger: resp.LatestLedger,
	}
	for i, e := range resp.Entries {
		res.Entries[i] = LedgerEntryResult{
			Key:                e.KeyXDR,
			XDR:                e.DataXDR,
			LastModifiedLedger: e.LastModifiedLedger,
			LiveUntilLedger:    e.LiveUntilLedgerSeq,
		}
	}
	return res, nil
}

// SimulateTransaction runs an unsigned envelope against current state.
func (c *RPCClient) SimulateTransaction(ctx context.Context, envelopeXDR string) (*SimulateResult, error) {
	var resp protocol.SimulateTransactionResponse
	err := c.call("simulateTransaction", func() (err error) {
		resp, err = c.rpc.SimulateTransaction(ctx, protocol.SimulateTransactionRequest{Transaction: envelopeXDR})
		return err
	})
	if err != nil {
		return nil, err
	}
	res := &SimulateResult{
		TransactionData: resp.TransactionDataXDR,
		MinResourceFee:  resp.MinResourceFee,
		Events:          resp.EventsXDR,
		Error:           resp.Error,
		LatestLedger:    resp.LatestLedger,
	}
	for _, r := range resp.Results {
		var hr SimulateHostResult
		if r.AuthXDR != nil {
			hr.Auth = *r.AuthXDR
		}
		if r.ReturnValueXDR != nil {
			hr.XDR = *r.ReturnValueXDR
		}
		res.Results = append(res.Results, hr)
	}
	if p := resp.RestorePreamble; p != nil {
		res.RestorePreamble = &RestorePreamble{
			TransactionData: p.TransactionDataXDR,
			MinResourceFee:  p.MinResourceFee,
		}
	}
	return res, nil
}

// SendTransaction submits a signed envelope.
func (c *RPCClient) SendTransaction(ctx context.Context, envelopeXDR string) (*SendResult, error) {
	var resp protocol.SendTransactionResponse
	err := c.call("sendTransaction", func() (err error) {
		resp, err = c.rpc.SendTransaction(ctx, protocol.SendTransactionRequest{Transaction: envelopeXDR})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &SendResult{
		Status:         resp.Status,
		Hash:           resp.Hash,
		LatestLedger:   resp.LatestLedger,
		ErrorResultXDR: resp.ErrorResultXDR,
		Diagnostics:    resp.DiagnosticEventsXDR,
	}, nil
}

// GetTransaction returns the status of a submitted transaction.
func (c *RPCClient) GetTransaction(ctx context.Context, hash string) (*TransactionResult, error) {
	var resp protocol.GetTransactionResponse
	err := c.call("getTransaction", func() (err error) {
		resp, err = c.rpc.GetTransaction(ctx, protocol.GetTransactionRequest{Hash: hash})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &TransactionResult{
		Status:        resp.Status,
		LatestLedger:  resp.LatestLedger,
		Ledger:        resp.Ledger,
		EnvelopeXDR:   resp.EnvelopeXDR,
		ResultXDR:     resp.ResultXDR,
		ResultMetaXDR: resp.ResultMetaXDR,
	}, nil
}

// GetLatestLedger returns the most recent closed ledger.
func (c *RPCClient) GetLatestLedger(ctx context.Context) (*LatestLedger, error) {
	var resp protocol.GetLatestLedgerResponse
	err := c.call("getLatestLedger", func() (err error) {
		resp, err = c.rpc.GetLatestLedger(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &LatestLedger{
		ID:              resp.Hash,
		ProtocolVersion: resp.ProtocolVersion,
		Sequence:        resp.Sequence,
	}, nil
}

// GetNetwork returns the network passphrase and protocol version.
func (c *RPCClient) GetNetwork(ctx context.Context) (*NetworkInfo, error) {
	var resp protocol.GetNetworkResponse
	err := c.call("getNetwork", func() (err error) {
		resp, err = c.rpc.GetNetwork(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &NetworkInfo{
		FriendbotURL:    resp.FriendbotURL,
		Passphrase:      resp.Passphrase,
		ProtocolVersion: uint32(resp.ProtocolVersion),
	}, nil
}
