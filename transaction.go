package sorosan

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/stellar/go-stellar-sdk/network"
	"github.com/stellar/go-stellar-sdk/xdr"
)

const (
	// MaxOperations is the most operations one transaction may carry.
	MaxOperations = 100

	maxMemoText = 28
)

// MemoType is the discriminant of a transaction memo.
type MemoType uint32

const (
	MemoNone   MemoType = 0
	MemoText   MemoType = 1
	MemoID     MemoType = 2
	MemoHash   MemoType = 3
	MemoReturn MemoType = 4
)

// Memo is optional data attached to a transaction.
type Memo struct {
	Type MemoType
	Text string
	ID   uint64
	Hash [32]byte
}

// TextMemo returns a text memo of at most 28 bytes.
func TextMemo(text string) (Memo, error) {
	if len(text) > maxMemoText {
		return Memo{}, fmt.Errorf("sorosan: memo text longer than %d bytes", maxMemoText)
	}
	return Memo{Type: MemoText, Text: text}, nil
}

// IDMemo returns an id memo.
func IDMemo(id uint64) Memo {
	return Memo{Type: MemoID, ID: id}
}

func (m Memo) toXDR() xdr.Memo {
	out := xdr.Memo{Type: xdr.MemoType(m.Type)}
	switch m.Type {
	case MemoText:
		text := m.Text
		out.Text = &text
	case MemoID:
		id := xdr.Uint64(m.ID)
		out.Id = &id
	case MemoHash:
		hash := xdr.Hash(m.Hash)
		out.Hash = &hash
	case MemoReturn:
		hash := xdr.Hash(m.Hash)
		out.RetHash = &hash
	}
	return out
}

// TimeBounds limits when a transaction is valid. A zero MaxTime means no
// upper bound.
type TimeBounds struct {
	MinTime uint64
	MaxTime uint64
}

// Transaction is a built, possibly prepared, unsigned transaction.
// Transaction is immutable; Prepare returns a new instance.
type Transaction struct {
	source     Address
	fee        uint32
	seq        int64
	timeBounds *TimeBounds
	memo       Memo
	ops        []Operation
	soroban    *SorobanData
}

// Source returns the source account.
func (t *Transaction) Source() Address {
	return t.source
}

// Fee returns the total fee in stroops.
func (t *Transaction) Fee() uint32 {
	return t.fee
}

// SequenceNumber returns the sequence number the transaction consumes.
func (t *Transaction) SequenceNumber() int64 {
	return t.seq
}

// Memo returns the memo.
func (t *Transaction) Memo() Memo {
	return t.memo
}

// TimeBounds returns the validity window, or nil.
func (t *Transaction) TimeBounds() *TimeBounds {
	if t.timeBounds == nil {
		return nil
	}
	tb := *t.timeBounds
	return &tb
}

// Operations returns the operations in order.
func (t *Transaction) Operations() []Operation {
	return append([]Operation{}, t.ops...)
}

// SorobanData returns the soroban extension set by Prepare, or nil.
func (t *Transaction) SorobanData() *SorobanData {
	if t.soroban == nil {
		return nil
	}
	sd := *t.soroban
	return &sd
}

// IsSoroban reports whether the transaction invokes soroban.
func (t *Transaction) IsSoroban() bool {
	return len(t.ops) == 1 && t.ops[0].IsSoroban()
}

// MarshalBinary returns the XDR of the transaction body.
func (t *Transaction) MarshalBinary() ([]byte, error) {
	tx, err := t.toXDR()
	if err != nil {
		return nil, err
	}
	return tx.MarshalBinary()
}

// EnvelopeXDR returns the base64 XDR of an unsigned v1 envelope, the form
// accepted by simulation and external signers.
func (t *Transaction) EnvelopeXDR() (string, error) {
	env, err := t.envelope()
	if err != nil {
		return "", err
	}
	return xdr.MarshalBase64(env)
}

// Hash returns the transaction hash on the network identified by
// passphrase. Signatures sign this hash.
func (t *Transaction) Hash(passphrase string) ([32]byte, error) {
	env, err := t.envelope()
	if err != nil {
		return [32]byte{}, err
	}
	return network.HashTransactionInEnvelope(env, passphrase)
}

// HashHex returns Hash as lowercase hex, the form the RPC service uses.
func (t *Transaction) HashHex(passphrase string) (string, error) {
	h, err := t.Hash(passphrase)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h[:]), nil
}

func (t *Transaction) envelope() (xdr.TransactionEnvelope, error) {
	tx, err := t.toXDR()
	if err != nil {
		return xdr.TransactionEnvelope{}, err
	}
	return xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeEnvelopeTypeTx,
		V1:   &xdr.TransactionV1Envelope{Tx: tx},
	}, nil
}

func (t *Transaction) toXDR() (xdr.Transaction, error) {
	tx := xdr.Transaction{
		SourceAccount: muxedAccount(t.source.key),
		Fee:           xdr.Uint32(t.fee),
		SeqNum:        xdr.SequenceNumber(t.seq),
		Cond:          xdr.Preconditions{Type: xdr.PreconditionTypePrecondNone},
		Memo:          t.memo.toXDR(),
		Operations:    make([]xdr.Operation, len(t.ops)),
	}
	if t.timeBounds != nil {
		tx.Cond = xdr.Preconditions{
			Type: xdr.PreconditionTypePrecondTime,
			TimeBounds: &xdr.TimeBounds{
				MinTime: xdr.TimePoint(t.timeBounds.MinTime),
				MaxTime: xdr.TimePoint(t.timeBounds.MaxTime),
			},
		}
	}
	for i, op := range t.ops {
		x, err := op.toXDR()
		if err != nil {
			return xdr.Transaction{}, err
		}
		tx.Operations[i] = x
	}
	if t.soroban != nil {
		sd := t.soroban.toXDR()
		tx.Ext = xdr.TransactionExt{V: 1, SorobanData: &sd}
	}
	return tx, nil
}

// withSoroban returns a copy carrying soroban data, a new fee, and auth
// entries for its single invoke operation.
func (t *Transaction) withSoroban(sd SorobanData, fee uint32, auth [][]byte) *Transaction {
	clone := *t
	clone.soroban = &sd
	clone.fee = fee
	clone.ops = append([]Operation{}, t.ops...)
	if len(clone.ops) == 1 && clone.ops[0].typ == OpInvokeHostFunction && len(clone.ops[0].auth) == 0 && auth != nil {
		clone.ops[0] = clone.ops[0].WithAuth(auth)
	}
	return &clone
}

var errFeeOverflow = errors.New("sorosan: fee exceeds uint32")

// SignedEnvelope is a transaction envelope returned by an external signer.
// It is submitted as-is; the ledger rejects replays.
type SignedEnvelope struct {
	xdr  string
	hash string
}

// NewSignedEnvelope wraps signed envelope XDR together with the hash of the
// transaction it signs.
func NewSignedEnvelope(envelopeXDR, hash string) SignedEnvelope {
	return SignedEnvelope{xdr: envelopeXDR, hash: hash}
}

// XDR returns the base64 envelope.
func (s SignedEnvelope) XDR() string {
	return s.xdr
}

// Hash returns the hex transaction hash.
func (s SignedEnvelope) Hash() string {
	return s.hash
}
