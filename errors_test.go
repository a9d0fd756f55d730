package sorosan

import (
	"context"
	"errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNoReturnValue", ErrNoReturnValue, "sorosan: simulation returned no value"},
		{"ErrSignerCancelled", ErrSignerCancelled, "sorosan: signing cancelled"},
		{"ErrMethodNotFound", ErrMethodNotFound, "sorosan: method not found"},
		{"ErrAccountNotFound", ErrAccountNotFound, "sorosan: account not found"},
		{"ErrEntryNotFound", ErrEntryNotFound, "sorosan: ledger entry not found"},
		{"ErrNoOperations", ErrNoOperations, "sorosan: transaction has no operations"},
		{"ErrTooManyOperations", ErrTooManyOperations, "sorosan: too many operations (max 100)"},
		{"ErrUnexpectedResult", ErrUnexpectedResult, "sorosan: unexpected result value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("Expected error message %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestArgumentError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		innerErr := errors.New("invalid type")
		err := &ArgumentError{
			Method: "add",
			Index:  1,
			Err:    innerErr,
		}

		expected := `sorosan: argument 1 for method "add": invalid type`
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}

		if err.Unwrap() != innerErr {
			t.Error("Unwrap should return the inner error")
		}
	})

	t.Run("error chain with errors.Is", func(t *testing.T) {
		err := &ArgumentError{
			Method: "transfer",
			Index:  0,
			Err:    ErrMethodNotFound,
		}

		if !errors.Is(err, ErrMethodNotFound) {
			t.Error("errors.Is should find ErrMethodNotFound in chain")
		}
	})
}

func TestRangeError(t *testing.T) {
	err := &RangeError{Type: ScvU32, Value: "-1"}

	expected := "sorosan: value -1 out of range for scvU32"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestUnsupportedTypeError(t *testing.T) {
	err := &UnsupportedTypeError{Type: "chan int"}

	expected := "sorosan: unsupported type chan int"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestEncodingError(t *testing.T) {
	t.Run("with hint", func(t *testing.T) {
		innerErr := errors.New("invalid checksum")
		err := &EncodingError{
			Value: "GABC",
			Hint:  "address",
			Err:   innerErr,
		}

		expected := "sorosan: encoding string as address: invalid checksum"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}

		if err.Unwrap() != innerErr {
			t.Error("Unwrap should return the inner error")
		}
	})

	t.Run("without hint", func(t *testing.T) {
		err := &EncodingError{
			Value: 12345,
			Err:   errors.New("overflow"),
		}

		expected := "sorosan: encoding int: overflow"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
	})

	t.Run("error chain", func(t *testing.T) {
		err := &EncodingError{
			Value: []byte{1, 2, 3},
			Err:   &RangeError{Type: ScvU32, Value: "1"},
		}

		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) {
			t.Error("errors.As should find RangeError in chain")
		}
	})
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Diagnostic: "HostError: Error(Contract, #1)"}

	expected := "sorosan: simulation error: HostError: Error(Contract, #1)"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestSubmissionError(t *testing.T) {
	t.Run("with result xdr", func(t *testing.T) {
		err := &SubmissionError{Hash: "ab12", Status: StatusError, ErrorResultXDR: "AAAAAAAAAGT////7AAAAAA=="}

		expected := "sorosan: error submitting transaction ab12 (ERROR): AAAAAAAAAGT////7AAAAAA=="
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
	})

	t.Run("without result xdr", func(t *testing.T) {
		err := &SubmissionError{Hash: "ab12", Status: StatusTryAgainLater}

		expected := "sorosan: error submitting transaction ab12 (TRY_AGAIN_LATER)"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
	})
}

func TestSignerCancelledError(t *testing.T) {
	err := &SignerCancelledError{Status: "User declined access"}

	expected := "sorosan: signing cancelled: User declined access"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrSignerCancelled) {
		t.Error("errors.Is should match ErrSignerCancelled")
	}
	if errors.Is(err, ErrNoReturnValue) {
		t.Error("errors.Is should not match other sentinels")
	}
}

func TestPollTimeoutError(t *testing.T) {
	err := &PollTimeoutError{Hash: "ab12", Attempts: 4, Err: context.DeadlineExceeded}

	expected := "sorosan: transaction ab12 not final after 4 polls: context deadline exceeded"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is should find context.DeadlineExceeded in chain")
	}
}

func TestStageError(t *testing.T) {
	innerErr := errors.New("connection refused")
	err := &StageError{Stage: StageSimulated, Err: innerErr}

	expected := "sorosan: simulate: connection refused"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if err.Unwrap() != innerErr {
		t.Error("Unwrap should return the inner error")
	}
}

func TestRPCError(t *testing.T) {
	err := &RPCError{Code: -32602, Message: "invalid params"}

	expected := "sorosan: rpc error -32602: invalid params"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	sentinelErrors := []error{
		ErrNoReturnValue,
		ErrSignerCancelled,
		ErrMethodNotFound,
		ErrAccountNotFound,
		ErrEntryNotFound,
		ErrNoOperations,
		ErrTooManyOperations,
		ErrUnexpectedResult,
	}

	for i, err1 := range sentinelErrors {
		for j, err2 := range sentinelErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors %d and %d should be distinct", i, j)
			}
		}
	}
}
