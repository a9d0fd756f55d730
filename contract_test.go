package sorosan

import (
	"errors"
	"math/big"
	"testing"
)

// tokenSpec is a minimal token interface used across contract tests.
func tokenSpec() *Spec {
	return NewSpec([]SpecEntry{
		FunctionSpec{
			Name: "transfer",
			Inputs: []FunctionInput{
				{Name: "from", Type: Simple(SpecTypeAddress)},
				{Name: "to", Type: Simple(SpecTypeAddress)},
				{Name: "amount", Type: Simple(SpecTypeI128)},
			},
		},
		FunctionSpec{
			Name:    "balance",
			Inputs:  []FunctionInput{{Name: "id", Type: Simple(SpecTypeAddress)}},
			Outputs: []TypeDef{Simple(SpecTypeI128)},
		},
		FunctionSpec{
			Name:    "decimals",
			Outputs: []TypeDef{Simple(SpecTypeU32)},
		},
	})
}

func TestNewContract(t *testing.T) {
	addr := MustParseAddress(testContract)

	t.Run("without spec", func(t *testing.T) {
		contract := NewContract(addr)

		if contract == nil {
			t.Fatal("Expected contract to be non-nil")
		}
		if contract.Address() != addr {
			t.Errorf("Expected address %s, got %s", addr, contract.Address())
		}
		if contract.Spec() != nil {
			t.Error("Expected no spec")
		}
		if contract.HasMethod("transfer") {
			t.Error("Expected HasMethod to be false without a spec")
		}
		if names := contract.MethodNames(); names != nil {
			t.Errorf("Expected nil method names, got %v", names)
		}
	})

	t.Run("with spec", func(t *testing.T) {
		spec := tokenSpec()
		contract := NewContract(addr, WithSpec(spec))

		if contract.Spec() != spec {
			t.Error("Expected attached spec")
		}
		if !contract.HasMethod("balance") {
			t.Error("Expected balance to be declared")
		}
		if contract.HasMethod("mint") {
			t.Error("Expected mint to be undeclared")
		}
	})
}

func TestContractMethodNames(t *testing.T) {
	contract := NewContract(MustParseAddress(testContract), WithSpec(tokenSpec()))

	names := contract.MethodNames()
	expected := []string{"balance", "decimals", "transfer"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d names, got %v", len(expected), names)
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Expected names[%d] = %q, got %q", i, name, names[i])
		}
	}
}

func TestContractInvoke(t *testing.T) {
	addr := MustParseAddress(testContract)
	contract := NewContract(addr, WithSpec(tokenSpec()))

	t.Run("converts arguments with declared types", func(t *testing.T) {
		op, err := contract.Invoke("transfer", testAccount, DefaultPlaceholderAccount, 1000)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if op.Type() != OpInvokeHostFunction {
			t.Fatalf("Expected invoke operation, got %s", op.Type())
		}

		fn := op.HostFunction()
		if fn.Function != "transfer" {
			t.Errorf("Expected function transfer, got %q", fn.Function)
		}
		if fn.Contract != addr {
			t.Errorf("Expected contract %s, got %s", addr, fn.Contract)
		}
		if len(fn.Args) != 3 {
			t.Fatalf("Expected 3 args, got %d", len(fn.Args))
		}
		if fn.Args[0].Type() != ScvAddress || fn.Args[1].Type() != ScvAddress {
			t.Errorf("Expected address args, got %s and %s", fn.Args[0].Type(), fn.Args[1].Type())
		}
		if fn.Args[2].Type() != ScvI128 {
			t.Errorf("Expected i128 amount, got %s", fn.Args[2].Type())
		}
		if fn.Args[2].BigInt().Cmp(big.NewInt(1000)) != 0 {
			t.Errorf("Expected amount 1000, got %s", fn.Args[2].BigInt())
		}
	})

	t.Run("accepts ScVal arguments", func(t *testing.T) {
		holder := NewAddress(MustParseAddress(testAccount))
		op, err := contract.Invoke("balance", holder)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !op.HostFunction().Args[0].Equal(holder) {
			t.Error("Expected ScVal to pass through unchanged")
		}
	})

	t.Run("returns error for unknown method", func(t *testing.T) {
		_, err := contract.Invoke("mint", 1)

		if err == nil {
			t.Fatal("Expected error for unknown method")
		}
		if !errors.Is(err, ErrMethodNotFound) {
			t.Errorf("Expected ErrMethodNotFound, got %v", err)
		}
	})

	t.Run("returns error for wrong argument count", func(t *testing.T) {
		_, err := contract.Invoke("balance")

		var argErr *ArgumentError
		if !errors.As(err, &argErr) {
			t.Fatalf("Expected ArgumentError, got %v", err)
		}
		if argErr.Method != "balance" {
			t.Errorf("Expected method balance, got %q", argErr.Method)
		}
	})

	t.Run("reports the failing argument index", func(t *testing.T) {
		_, err := contract.Invoke("transfer", testAccount, "not-an-address", 1)

		var argErr *ArgumentError
		if !errors.As(err, &argErr) {
			t.Fatalf("Expected ArgumentError, got %v", err)
		}
		if argErr.Index != 1 {
			t.Errorf("Expected index 1, got %d", argErr.Index)
		}
		var encErr *EncodingError
		if !errors.As(err, &encErr) {
			t.Errorf("Expected wrapped EncodingError, got %v", err)
		}
	})

	t.Run("negative amount is in range for i128", func(t *testing.T) {
		if _, err := contract.Invoke("transfer", testAccount, testAccount, -5); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

func TestContractInvokeWithoutSpec(t *testing.T) {
	contract := NewContract(MustParseAddress(testContract))

	op, err := contract.Invoke("anything", "text", 7, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	args := op.HostFunction().Args
	expected := []ScValType{ScvString, ScvI32, ScvBool}
	for i, typ := range expected {
		if args[i].Type() != typ {
			t.Errorf("Expected args[%d] to be %s, got %s", i, typ, args[i].Type())
		}
	}
}

func TestContractMustInvoke(t *testing.T) {
	contract := NewContract(MustParseAddress(testContract), WithSpec(tokenSpec()))

	t.Run("returns operation", func(t *testing.T) {
		op := contract.MustInvoke("decimals")
		if op.HostFunction().Function != "decimals" {
			t.Errorf("Expected decimals, got %q", op.HostFunction().Function)
		}
	})

	t.Run("panics on error", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic for unknown method")
			}
		}()
		contract.MustInvoke("mint")
	})
}

func TestHintFor(t *testing.T) {
	tests := []struct {
		in   SpecType
		want string
	}{
		{SpecTypeAddress, "address"},
		{SpecTypeMuxedAddress, "address"},
		{SpecTypeBytesN, "bytes"},
		{SpecTypeSymbol, "symbol"},
		{SpecTypeU64, "u64"},
		{SpecTypeI256, "i256"},
		{SpecTypeDuration, "duration"},
		{SpecTypeString, ""},
		{SpecTypeBool, ""},
		{SpecTypeVec, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			if got := hintFor(Simple(tt.in)); got != tt.want {
				t.Errorf("Expected hint %q, got %q", tt.want, got)
			}
		})
	}
}
