package sorosan

import (
	"iter"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// SpecOption configures SpecEntries and DecodeSpecEntries.
type SpecOption func(*specConfig)

type specConfig struct {
	logger log.Logger
}

// WithSpecLogger routes decoder diagnostics to logger. Default is
// log.Root(). Client.DecodeWasm passes the client's logger.
func WithSpecLogger(logger log.Logger) SpecOption {
	return func(c *specConfig) {
		c.logger = logger
	}
}

func newSpecConfig(opts []SpecOption) *specConfig {
	cfg := &specConfig{logger: log.Root()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// SpecEntries returns a lazy sequence over the spec entries packed
// back-to-back in blob, as found in a contract's metadata section.
//
// Records carry no length prefix, so each boundary is found by trying every
// candidate length from 1 upwards and accepting the first one that decodes
// as exactly one entry. The shortest match always wins. When no length
// decodes, the sequence ends and the undecodable tail is ignored. Each range
// over the sequence scans blob again from the start.
func SpecEntries(blob []byte, opts ...SpecOption) iter.Seq[SpecEntry] {
	logger := newSpecConfig(opts).logger
	return func(yield func(SpecEntry) bool) {
		scanSpecEntries(blob, logger, yield)
	}
}

// DecodeSpecEntries collects SpecEntries into a slice. It never fails; an
// undecodable tail only shortens the result.
func DecodeSpecEntries(blob []byte, opts ...SpecOption) []SpecEntry {
	var out []SpecEntry
	for entry := range SpecEntries(blob, opts...) {
		out = append(out, entry)
	}
	return out
}

// scanSpecEntries feeds decoded entries to yield and returns the number of
// bytes consumed.
func scanSpecEntries(blob []byte, logger log.Logger, yield func(SpecEntry) bool) int {
	offset := 0
	for offset < len(blob) {
		entry, n := nextSpecEntry(blob[offset:])
		if n == 0 {
			logger.Debug("Stopped decoding contract spec", "offset", offset, "remaining", len(blob)-offset)
			return offset
		}
		offset += n
		if !yield(entry) {
			return offset
		}
	}
	return offset
}

// nextSpecEntry finds the shortest prefix of data that is one complete
// entry. It returns a zero length when there is none.
func nextSpecEntry(data []byte) (SpecEntry, int) {
	for n := 1; n <= len(data); n++ {
		var x xdr.ScSpecEntry
		if xdr.SafeUnmarshal(data[:n], &x) != nil {
			continue
		}
		entry, err := specEntryFromXDR(x)
		if err != nil {
			continue
		}
		return entry, n
	}
	return nil, 0
}
