package sorosan

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
)

// SpecSectionName is the custom section holding a contract's spec entries.
const SpecSectionName = "contractspecv0"

// ModuleReader extracts custom sections from compiled contract code.
type ModuleReader interface {
	// CustomSections returns the payloads of every custom section called
	// name, in module order.
	CustomSections(ctx context.Context, wasm []byte, name string) ([][]byte, error)
}

// WazeroModuleReader parses modules with wazero without instantiating them.
type WazeroModuleReader struct{}

// NewWazeroModuleReader returns a ModuleReader backed by wazero.
func NewWazeroModuleReader() *WazeroModuleReader {
	return &WazeroModuleReader{}
}

// CustomSections compiles wasm to read its custom sections. Compilation
// validates the module; nothing is executed.
func (WazeroModuleReader) CustomSections(ctx context.Context, wasm []byte, name string) ([][]byte, error) {
	cfg := wazero.NewRuntimeConfigInterpreter().WithCustomSections(true)
	runtime := wazero.NewRuntimeWithConfig(ctx, cfg)
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("sorosan: parse wasm module: %w", err)
	}
	defer compiled.Close(ctx)

	var out [][]byte
	for _, section := range compiled.CustomSections() {
		if section.Name() != name {
			continue
		}
		out = append(out, append([]byte{}, section.Data()...))
	}
	return out, nil
}

// SpecFromWasm decodes every spec entry embedded in wasm, concatenating
// sections in module order.
func SpecFromWasm(ctx context.Context, reader ModuleReader, wasm []byte, opts ...SpecOption) ([]SpecEntry, error) {
	sections, err := reader.CustomSections(ctx, wasm, SpecSectionName)
	if err != nil {
		return nil, err
	}
	var entries []SpecEntry
	for _, section := range sections {
		entries = append(entries, DecodeSpecEntries(section, opts...)...)
	}
	return entries, nil
}
