package sorosan

import (
	"context"
	"fmt"

	"github.com/stellar/go-stellar-sdk/xdr"
)

// Transaction statuses reported by the ledger service.
const (
	StatusPending       = "PENDING"
	StatusDuplicate     = "DUPLICATE"
	StatusTryAgainLater = "TRY_AGAIN_LATER"
	StatusError         = "ERROR"

	StatusSuccess  = "SUCCESS"
	StatusFailed   = "FAILED"
	StatusNotFound = "NOT_FOUND"
)

// LedgerService is the subset of the soroban RPC API the client uses.
// Implementations must be safe for concurrent use.
type LedgerService interface {
	GetLedgerEntries(ctx context.Context, keys []LedgerKey) (*LedgerEntriesResult, error)
	SimulateTransaction(ctx context.Context, envelopeXDR string) (*SimulateResult, error)
	SendTransaction(ctx context.Context, envelopeXDR string) (*SendResult, error)
	GetTransaction(ctx context.Context, hash string) (*TransactionResult, error)
	GetLatestLedger(ctx context.Context) (*LatestLedger, error)
	GetNetwork(ctx context.Context) (*NetworkInfo, error)
}

// LedgerEntriesResult is the result of getLedgerEntries. Keys without a
// live entry are omitted.
type LedgerEntriesResult struct {
	Entries      []LedgerEntryResult `json:"entries"`
	LatestLedger uint32              `json:"latestLedger"`
}

// LedgerEntryResult is one entry of getLedgerEntries.
type LedgerEntryResult struct {
	Key                string  `json:"key"`
	XDR                string  `json:"xdr"`
	LastModifiedLedger uint32  `json:"lastModifiedLedgerSeq"`
	LiveUntilLedger    *uint32 `json:"liveUntilLedgerSeq,omitempty"`
}

// Data decodes the entry body.
func (r LedgerEntryResult) Data() (LedgerEntryData, error) {
	return LedgerEntryDataFromBase64(r.XDR)
}

// SimulateResult is the result of simulateTransaction. Error is set when
// the host failed; the other fields are then unreliable.
type SimulateResult struct {
	TransactionData string               `json:"transactionData,omitempty"`
	MinResourceFee  int64                `json:"minResourceFee,string,omitempty"`
	Results         []SimulateHostResult `json:"results,omitempty"`
	Events          []string             `json:"events,omitempty"`
	Error           string               `json:"error,omitempty"`
	LatestLedger    uint32               `json:"latestLedger"`
	RestorePreamble *RestorePreamble     `json:"restorePreamble,omitempty"`
}

// SimulateHostResult is the outcome of the simulated host function.
type SimulateHostResult struct {
	Auth []string `json:"auth"`
	XDR  string   `json:"xdr"`
}

// RestorePreamble is returned when the simulated call reads archived
// entries that must be restored first.
type RestorePreamble struct {
	TransactionData string `json:"transactionData"`
	MinResourceFee  int64  `json:"minResourceFee,string"`
}

// SendResult is the result of sendTransaction.
type SendResult struct {
	Status         string   `json:"status"`
	Hash           string   `json:"hash"`
	LatestLedger   uint32   `json:"latestLedger"`
	ErrorResultXDR string   `json:"errorResultXdr,omitempty"`
	Diagnostics    []string `json:"diagnosticEventsXdr,omitempty"`
}

// TransactionResult is the result of getTransaction.
type TransactionResult struct {
	Status        string `json:"status"`
	LatestLedger  uint32 `json:"latestLedger"`
	Ledger        uint32 `json:"ledger,omitempty"`
	EnvelopeXDR   string `json:"envelopeXdr,omitempty"`
	ResultXDR     string `json:"resultXdr,omitempty"`
	ResultMetaXDR string `json:"resultMetaXdr,omitempty"`
}

// LatestLedger is the result of getLatestLedger.
type LatestLedger struct {
	ID              string `json:"id"`
	ProtocolVersion uint32 `json:"protocolVersion"`
	Sequence        uint32 `json:"sequence"`
}

// NetworkInfo is the result of getNetwork.
type NetworkInfo struct {
	FriendbotURL    string `json:"friendbotUrl,omitempty"`
	Passphrase      string `json:"passphrase"`
	ProtocolVersion uint32 `json:"protocolVersion"`
}

// Simulation is a decoded simulateTransaction result.
type Simulation struct {
	Data           SorobanData
	MinResourceFee int64
	Auth           [][]byte
	ReturnValue    ScVal
	HasReturn      bool
	Events         []string
	LatestLedger   uint32
	Restore        *RestorePreamble
}

// decode converts the raw result. Host failures are reported as
// *SimulationError with the diagnostic verbatim.
func (r *SimulateResult) decode() (*Simulation, error) {
	if r.Error != "" {
		return nil, &SimulationError{Diagnostic: r.Error, Events: r.Events}
	}
	sim := &Simulation{
		MinResourceFee: r.MinResourceFee,
		Events:         r.Events,
		LatestLedger:   r.LatestLedger,
		Restore:        r.RestorePreamble,
		ReturnValue:    NewVoid(),
	}
	if r.TransactionData != "" {
		sd, err := SorobanDataFromBase64(r.TransactionData)
		if err != nil {
			return nil, fmt.Errorf("sorosan: decode transaction data: %w", err)
		}
		sim.Data = sd
	}
	if len(r.Results) == 0 {
		return sim, nil
	}
	res := r.Results[0]
	for i, a := range res.Auth {
		var entry xdr.SorobanAuthorizationEntry
		if err := decodeXDRBase64(a, &entry); err != nil {
			return nil, fmt.Errorf("sorosan: decode auth entry %d: %w", i, err)
		}
		sim.Auth = append(sim.Auth, mustEncodeXDR(entry))
	}
	if res.XDR != "" {
		v, err := ScValFromBase64(res.XDR)
		if err != nil {
			return nil, fmt.Errorf("sorosan: decode return value: %w", err)
		}
		sim.ReturnValue = v
		sim.HasReturn = true
	}
	return sim, nil
}
