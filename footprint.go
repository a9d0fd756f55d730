package sorosan

import "github.com/stellar/go-stellar-sdk/xdr"

// Footprint is the set of ledger keys a soroban operation reads and writes.
type Footprint struct {
	ReadOnly  []LedgerKey
	ReadWrite []LedgerKey
}

// NewFootprint builds a footprint with duplicate keys removed. A key listed
// as both read-only and read-write is kept only as read-write. First-seen
// order is preserved.
func NewFootprint(readOnly, readWrite []LedgerKey) Footprint {
	fp := footprintSet{seen: make(map[string]bool)}
	for _, k := range readWrite {
		fp.add(k, true)
	}
	for _, k := range readOnly {
		fp.add(k, false)
	}
	return Footprint{ReadOnly: fp.readOnly, ReadWrite: fp.readWrite}
}

// Contains reports whether k is in either set.
func (f Footprint) Contains(k LedgerKey) bool {
	h := k.Hex()
	for _, set := range [][]LedgerKey{f.ReadOnly, f.ReadWrite} {
		for _, x := range set {
			if x.Hex() == h {
				return true
			}
		}
	}
	return false
}

// footprintSet deduplicates keys by their XDR encoding.
type footprintSet struct {
	readOnly  []LedgerKey
	readWrite []LedgerKey
	seen      map[string]bool
}

func (s *footprintSet) add(k LedgerKey, write bool) {
	key := k.Hex()
	if _, exists := s.seen[key]; exists {
		return
	}
	s.seen[key] = write
	if write {
		s.readWrite = append(s.readWrite, k)
	} else {
		s.readOnly = append(s.readOnly, k)
	}
}

func (f Footprint) toXDR() xdr.LedgerFootprint {
	return xdr.LedgerFootprint{
		ReadOnly:  ledgerKeysToXDR(f.ReadOnly),
		ReadWrite: ledgerKeysToXDR(f.ReadWrite),
	}
}

func footprintFromXDR(x xdr.LedgerFootprint) (Footprint, error) {
	ro, err := ledgerKeysFromXDR(x.ReadOnly)
	if err != nil {
		return Footprint{}, err
	}
	rw, err := ledgerKeysFromXDR(x.ReadWrite)
	if err != nil {
		return Footprint{}, err
	}
	return Footprint{ReadOnly: ro, ReadWrite: rw}, nil
}

func ledgerKeysToXDR(keys []LedgerKey) []xdr.LedgerKey {
	out := make([]xdr.LedgerKey, len(keys))
	for i, k := range keys {
		out[i] = k.toXDR()
	}
	return out
}

func ledgerKeysFromXDR(keys []xdr.LedgerKey) ([]LedgerKey, error) {
	out := make([]LedgerKey, len(keys))
	for i, x := range keys {
		k, err := ledgerKeyFromXDR(x)
		if err != nil {
			return nil, err
		}
		out[i] = k
	}
	return out, nil
}

// SorobanResources declares the resources a soroban transaction may use.
type SorobanResources struct {
	Footprint     Footprint
	Instructions  uint32
	DiskReadBytes uint32
	WriteBytes    uint32
}

// SorobanData is the soroban extension of a transaction, as returned by
// simulation. ArchivedEntries lists read-write footprint indexes that are
// restored automatically.
type SorobanData struct {
	ArchivedEntries []uint32
	Resources       SorobanResources
	ResourceFee     int64
}

// SorobanDataFromBase64 decodes the transactionData of a simulation.
func SorobanDataFromBase64(s string) (SorobanData, error) {
	var x xdr.SorobanTransactionData
	if err := decodeXDRBase64(s, &x); err != nil {
		return SorobanData{}, err
	}
	return sorobanDataFromXDR(x)
}

// MarshalBase64 returns the base64 XDR encoding.
func (s SorobanData) MarshalBase64() string {
	return mustEncodeXDRBase64(s.toXDR())
}

func (s SorobanData) toXDR() xdr.SorobanTransactionData {
	var ext xdr.SorobanTransactionDataExt
	if s.ArchivedEntries != nil {
		archived := make([]xdr.Uint32, len(s.ArchivedEntries))
		for i, idx := range s.ArchivedEntries {
			archived[i] = xdr.Uint32(idx)
		}
		ext = xdr.SorobanTransactionDataExt{
			V:           1,
			ResourceExt: &xdr.SorobanResourcesExtV0{ArchivedSorobanEntries: archived},
		}
	}
	return xdr.SorobanTransactionData{
		Ext: ext,
		Resources: xdr.SorobanResources{
			Footprint:     s.Resources.Footprint.toXDR(),
			Instructions:  xdr.Uint32(s.Resources.Instructions),
			DiskReadBytes: xdr.Uint32(s.Resources.DiskReadBytes),
			WriteBytes:    xdr.Uint32(s.Resources.WriteBytes),
		},
		ResourceFee: xdr.Int64(s.ResourceFee),
	}
}

func sorobanDataFromXDR(x xdr.SorobanTransactionData) (SorobanData, error) {
	fp, err := footprintFromXDR(x.Resources.Footprint)
	if err != nil {
		return SorobanData{}, err
	}
	sd := SorobanData{
		Resources: SorobanResources{
			Footprint:     fp,
			Instructions:  uint32(x.Resources.Instructions),
			DiskReadBytes: uint32(x.Resources.DiskReadBytes),
			WriteBytes:    uint32(x.Resources.WriteBytes),
		},
		ResourceFee: int64(x.ResourceFee),
	}
	switch x.Ext.V {
	case 0:
	case 1:
		sd.ArchivedEntries = make([]uint32, len(x.Ext.ResourceExt.ArchivedSorobanEntries))
		for i, idx := range x.Ext.ResourceExt.ArchivedSorobanEntries {
			sd.ArchivedEntries[i] = uint32(idx)
		}
	default:
		return SorobanData{}, unknownArm("SorobanTransactionData.ext", x.Ext.V)
	}
	return sd, nil
}
