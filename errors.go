package sorosan

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrNoReturnValue indicates a simulation produced no return value.
	ErrNoReturnValue = errors.New("sorosan: simulation returned no value")

	// ErrSignerCancelled indicates the external signer declined or failed to
	// sign. It is an expected outcome; match it with errors.Is.
	ErrSignerCancelled = errors.New("sorosan: signing cancelled")

	// ErrMethodNotFound indicates the contract spec has no such function.
	ErrMethodNotFound = errors.New("sorosan: method not found")

	// ErrAccountNotFound indicates the source account has no ledger entry.
	ErrAccountNotFound = errors.New("sorosan: account not found")

	// ErrEntryNotFound indicates a ledger key has no live entry.
	ErrEntryNotFound = errors.New("sorosan: ledger entry not found")

	// ErrNoOperations indicates a transaction was built without operations.
	ErrNoOperations = errors.New("sorosan: transaction has no operations")

	// ErrTooManyOperations indicates more than MaxOperations were added.
	ErrTooManyOperations = errors.New("sorosan: too many operations (max 100)")

	// ErrUnexpectedResult indicates a successful transaction whose return
	// value does not have the expected shape.
	ErrUnexpectedResult = errors.New("sorosan: unexpected result value")
)

// UnsupportedTypeError indicates a native value that has no ScVal encoding.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("sorosan: unsupported type %s", e.Type)
}

// RangeError indicates an integer that does not fit the requested width.
type RangeError struct {
	Type  ScValType
	Value string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("sorosan: value %s out of range for %s", e.Value, e.Type)
}

// EncodingError indicates a failure while converting a value.
type EncodingError struct {
	Value any
	Hint  string
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("sorosan: encoding %T as %s: %v", e.Value, e.Hint, e.Err)
	}
	return fmt.Sprintf("sorosan: encoding %T: %v", e.Value, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// ArgumentError indicates an issue with a contract call argument.
type ArgumentError struct {
	Method string
	Index  int
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("sorosan: argument %d for method %q: %v", e.Index, e.Method, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// SimulationError carries the engine diagnostic of a failed simulation.
type SimulationError struct {
	Diagnostic string
	Events     []string
}

func (e *SimulationError) Error() string {
	return "sorosan: simulation error: " + e.Diagnostic
}

// SubmissionError indicates the ledger rejected a transaction at submission.
type SubmissionError struct {
	Hash           string
	Status         string
	ErrorResultXDR string
}

func (e *SubmissionError) Error() string {
	if e.ErrorResultXDR != "" {
		return fmt.Sprintf("sorosan: error submitting transaction %s (%s): %s", e.Hash, e.Status, e.ErrorResultXDR)
	}
	return fmt.Sprintf("sorosan: error submitting transaction %s (%s)", e.Hash, e.Status)
}

// SignerCancelledError reports the status the signer answered with.
type SignerCancelledError struct {
	Status string
}

func (e *SignerCancelledError) Error() string {
	return fmt.Sprintf("sorosan: signing cancelled: %s", e.Status)
}

func (e *SignerCancelledError) Is(target error) bool {
	return target == ErrSignerCancelled
}

// PollTimeoutError indicates polling was cut short by the caller's context.
type PollTimeoutError struct {
	Hash     string
	Attempts int
	Err      error
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("sorosan: transaction %s not final after %d polls: %v", e.Hash, e.Attempts, e.Err)
}

func (e *PollTimeoutError) Unwrap() error {
	return e.Err
}

// StageError wraps a failure in one lifecycle stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("sorosan: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RPCError is a JSON-RPC error object returned by the ledger service.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("sorosan: rpc error %d: %s", e.Code, e.Message)
}
