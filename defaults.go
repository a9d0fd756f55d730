package sorosan

import (
	"sort"
)

// PlaceholderAddress is the account used for address-typed example values.
const PlaceholderAddress = "GDUY7J7A33TQWOSOQGDO776GGLM3UQERL4J3SPT56F6YS4ID7MLDERI4"

// maxDefaultDepth bounds expansion of self-referencing user types.
const maxDefaultDepth = 32

var placeholderAddress = MustParseAddress(PlaceholderAddress)

// DefaultScVal returns the zero value for t: zero integers, false, empty
// string, bytes, vec and map, void, and PlaceholderAddress for addresses.
// Options default to void, results to their ok type and tuples to a vec of
// element defaults. User-defined types and types without a natural zero
// value default to an empty string; Spec.DefaultValue expands them.
func DefaultScVal(t TypeDef) ScVal {
	return defaultScVal(t, nil, 0)
}

// StructDefault projects a struct definition onto an example value. Tuple
// structs, whose fields are named "0".."n-1", become a vec of field
// defaults; any other struct becomes a map from field-name symbols to
// defaults, ordered by name.
func StructDefault(s StructSpec) ScVal {
	return structDefault(s, nil, 0)
}

func defaultScVal(t TypeDef, spec *Spec, depth int) ScVal {
	switch t.Type {
	case SpecTypeAddress, SpecTypeMuxedAddress:
		return NewAddress(placeholderAddress)
	case SpecTypeBool:
		return NewBool(false)
	case SpecTypeBytes, SpecTypeBytesN:
		return NewBytes(nil)
	case SpecTypeU32:
		return NewU32(0)
	case SpecTypeI32:
		return NewI32(0)
	case SpecTypeU64:
		return NewU64(0)
	case SpecTypeI64:
		return NewI64(0)
	case SpecTypeTimepoint:
		return NewTimepoint(0)
	case SpecTypeDuration:
		return NewDuration(0)
	case SpecTypeU128:
		return ScVal{typ: ScvU128}
	case SpecTypeI128:
		return ScVal{typ: ScvI128}
	case SpecTypeU256:
		return ScVal{typ: ScvU256}
	case SpecTypeI256:
		return ScVal{typ: ScvI256}
	case SpecTypeMap:
		return NewMap(nil)
	case SpecTypeVec:
		return NewVec(nil)
	case SpecTypeString:
		return NewString("")
	case SpecTypeSymbol:
		return NewSymbol("")
	case SpecTypeVoid, SpecTypeOption:
		return NewVoid()
	case SpecTypeResult:
		return defaultScVal(deref(t.Ok), spec, depth+1)
	case SpecTypeTuple:
		items := make([]ScVal, len(t.Elems))
		for i, el := range t.Elems {
			items[i] = defaultScVal(el, spec, depth+1)
		}
		return NewVec(items)
	case SpecTypeUDT:
		if spec != nil && depth < maxDefaultDepth {
			if entry, ok := spec.Lookup(t.Name); ok {
				return udtDefault(entry, spec, depth+1)
			}
		}
	}
	return NewString("")
}

func structDefault(s StructSpec, spec *Spec, depth int) ScVal {
	if s.IsPositional() {
		items := make([]ScVal, len(s.Fields))
		for i, f := range s.Fields {
			items[i] = defaultScVal(f.Type, spec, depth)
		}
		return NewVec(items)
	}
	fields := append([]StructField{}, s.Fields...)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	entries := make([]ScMapEntry, len(fields))
	for i, f := range fields {
		entries[i] = ScMapEntry{Key: NewSymbol(f.Name), Val: defaultScVal(f.Type, spec, depth)}
	}
	return NewMap(entries)
}

func udtDefault(entry SpecEntry, spec *Spec, depth int) ScVal {
	switch e := entry.(type) {
	case StructSpec:
		return structDefault(e, spec, depth)
	case EnumSpec:
		if len(e.Cases) > 0 {
			return NewU32(e.Cases[0].Value)
		}
		return NewU32(0)
	case ErrorEnumSpec:
		if len(e.Cases) > 0 {
			return NewU32(e.Cases[0].Value)
		}
		return NewU32(0)
	case UnionSpec:
		if len(e.Cases) == 0 {
			return NewVec(nil)
		}
		c := e.Cases[0]
		items := []ScVal{NewSymbol(c.Name)}
		for _, t := range c.Types {
			items = append(items, defaultScVal(t, spec, depth))
		}
		return NewVec(items)
	}
	return NewString("")
}

// Spec indexes the entries of one contract.
type Spec struct {
	entries []SpecEntry
	types   map[string]SpecEntry
	funcs   map[string]FunctionSpec
}

// NewSpec indexes entries by name. Later entries with a duplicate name
// replace earlier ones.
func NewSpec(entries []SpecEntry) *Spec {
	s := &Spec{
		entries: append([]SpecEntry{}, entries...),
		types:   make(map[string]SpecEntry),
		funcs:   make(map[string]FunctionSpec),
	}
	for _, entry := range entries {
		switch e := entry.(type) {
		case FunctionSpec:
			s.funcs[e.Name] = e
		case StructSpec:
			s.types[e.Name] = e
		case UnionSpec:
			s.types[e.Name] = e
		case EnumSpec:
			s.types[e.Name] = e
		case ErrorEnumSpec:
			s.types[e.Name] = e
		}
	}
	return s
}

// Entries returns all entries in decoding order.
func (s *Spec) Entries() []SpecEntry {
	return append([]SpecEntry{}, s.entries...)
}

// Functions returns the function entries in decoding order.
func (s *Spec) Functions() []FunctionSpec {
	var out []FunctionSpec
	for _, entry := range s.entries {
		if f, ok := entry.(FunctionSpec); ok {
			out = append(out, f)
		}
	}
	return out
}

// Function looks up a function by name.
func (s *Spec) Function(name string) (FunctionSpec, bool) {
	f, ok := s.funcs[name]
	return f, ok
}

// Lookup finds a user-defined type by name.
func (s *Spec) Lookup(name string) (SpecEntry, bool) {
	e, ok := s.types[name]
	return e, ok
}

// DefaultValue is DefaultScVal with user-defined types expanded: structs
// as in StructDefault, enums as their first case value, and unions as a
// vec holding the first case name and its element defaults.
func (s *Spec) DefaultValue(t TypeDef) ScVal {
	return defaultScVal(t, s, 0)
}

// ExampleArgs returns default values for every input of a function.
func (s *Spec) ExampleArgs(method string) ([]ScVal, error) {
	f, ok := s.Function(method)
	if !ok {
		return nil, ErrMethodNotFound
	}
	args := make([]ScVal, len(f.Inputs))
	for i, in := range f.Inputs {
		args[i] = s.DefaultValue(in.Type)
	}
	return args, nil
}
