package sorosan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stellar/go-stellar-sdk/xdr"
)

// SpecType is the discriminant of a spec type definition.
type SpecType uint32

const (
	SpecTypeVal          SpecType = 0
	SpecTypeBool         SpecType = 1
	SpecTypeVoid         SpecType = 2
	SpecTypeError        SpecType = 3
	SpecTypeU32          SpecType = 4
	SpecTypeI32          SpecType = 5
	SpecTypeU64          SpecType = 6
	SpecTypeI64          SpecType = 7
	SpecTypeTimepoint    SpecType = 8
	SpecTypeDuration     SpecType = 9
	SpecTypeU128         SpecType = 10
	SpecTypeI128         SpecType = 11
	SpecTypeU256         SpecType = 12
	SpecTypeI256         SpecType = 13
	SpecTypeBytes        SpecType = 14
	SpecTypeString       SpecType = 16
	SpecTypeSymbol       SpecType = 17
	SpecTypeAddress      SpecType = 19
	SpecTypeMuxedAddress SpecType = 20
	SpecTypeOption       SpecType = 1000
	SpecTypeResult       SpecType = 1001
	SpecTypeVec          SpecType = 1002
	SpecTypeMap          SpecType = 1004
	SpecTypeTuple        SpecType = 1005
	SpecTypeBytesN       SpecType = 1006
	SpecTypeUDT          SpecType = 2000
)

var specTypeNames = map[SpecType]string{
	SpecTypeVal:          "scSpecTypeVal",
	SpecTypeBool:         "scSpecTypeBool",
	SpecTypeVoid:         "scSpecTypeVoid",
	SpecTypeError:        "scSpecTypeError",
	SpecTypeU32:          "scSpecTypeU32",
	SpecTypeI32:          "scSpecTypeI32",
	SpecTypeU64:          "scSpecTypeU64",
	SpecTypeI64:          "scSpecTypeI64",
	SpecTypeTimepoint:    "scSpecTypeTimepoint",
	SpecTypeDuration:     "scSpecTypeDuration",
	SpecTypeU128:         "scSpecTypeU128",
	SpecTypeI128:         "scSpecTypeI128",
	SpecTypeU256:         "scSpecTypeU256",
	SpecTypeI256:         "scSpecTypeI256",
	SpecTypeBytes:        "scSpecTypeBytes",
	SpecTypeString:       "scSpecTypeString",
	SpecTypeSymbol:       "scSpecTypeSymbol",
	SpecTypeAddress:      "scSpecTypeAddress",
	SpecTypeMuxedAddress: "scSpecTypeMuxedAddress",
	SpecTypeOption:       "scSpecTypeOption",
	SpecTypeResult:       "scSpecTypeResult",
	SpecTypeVec:          "scSpecTypeVec",
	SpecTypeMap:          "scSpecTypeMap",
	SpecTypeTuple:        "scSpecTypeTuple",
	SpecTypeBytesN:       "scSpecTypeBytesN",
	SpecTypeUDT:          "scSpecTypeUdt",
}

func (t SpecType) String() string {
	if name, ok := specTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SpecType(%d)", uint32(t))
}


// TypeDef is a spec type reference. Only the fields of the active Type are
// set: Elem for option and vec, Key/Value for map, Ok/Err for result, Elems
// for tuple, N for bytesN and Name for udt.
type TypeDef struct {
	Type  SpecType
	Elem  *TypeDef
	Key   *TypeDef
	Value *TypeDef
	Ok    *TypeDef
	Err   *TypeDef
	Elems []TypeDef
	N     uint32
	Name  string
}

// Simple returns a TypeDef without parameters.
func Simple(t SpecType) TypeDef {
	return TypeDef{Type: t}
}

// deref treats a missing parameter as void.
func deref(p *TypeDef) TypeDef {
	if p == nil {
		return Simple(SpecTypeVoid)
	}
	return *p
}

// String renders t in contract source notation, e.g. "vec<address>".
func (t TypeDef) String() string {
	switch t.Type {
	case SpecTypeOption:
		return "option<" + deref(t.Elem).String() + ">"
	case SpecTypeVec:
		return "vec<" + deref(t.Elem).String() + ">"
	case SpecTypeResult:
		return "result<" + deref(t.Ok).String() + "," + deref(t.Err).String() + ">"
	case SpecTypeMap:
		return "map<" + deref(t.Key).String() + "," + deref(t.Value).String() + ">"
	case SpecTypeTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "tuple<" + strings.Join(parts, ",") + ">"
	case SpecTypeBytesN:
		return fmt.Sprintf("bytesN<%d>", t.N)
	case SpecTypeUDT:
		return t.Name
	}
	return strings.ToLower(strings.TrimPrefix(t.Type.String(), "scSpecType"))
}

func (t TypeDef) toXDR() xdr.ScSpecTypeDef {
	out := xdr.ScSpecTypeDef{Type: xdr.ScSpecType(t.Type)}
	switch t.Type {
	case SpecTypeOption:
		out.Option = &xdr.ScSpecTypeOption{ValueType: deref(t.Elem).toXDR()}
	case SpecTypeVec:
		out.Vec = &xdr.ScSpecTypeVec{ElementType: deref(t.Elem).toXDR()}
	case SpecTypeResult:
		out.Result = &xdr.ScSpecTypeResult{OkType: deref(t.Ok).toXDR(), ErrorType: deref(t.Err).toXDR()}
	case SpecTypeMap:
		out.Map = &xdr.ScSpecTypeMap{KeyType: deref(t.Key).toXDR(), ValueType: deref(t.Value).toXDR()}
	case SpecTypeTuple:
		out.Tuple = &xdr.ScSpecTypeTuple{ValueTypes: typeDefsToXDR(t.Elems)}
	case SpecTypeBytesN:
		out.BytesN = &xdr.ScSpecTypeBytesN{N: xdr.Uint32(t.N)}
	case SpecTypeUDT:
		out.Udt = &xdr.ScSpecTypeUdt{Name: t.Name}
	}
	return out
}

func typeDefsToXDR(defs []TypeDef) []xdr.ScSpecTypeDef {
	out := make([]xdr.ScSpecTypeDef, len(defs))
	for i, d := range defs {
		out[i] = d.toXDR()
	}
	return out
}

func typeDefFromXDR(x xdr.ScSpecTypeDef) TypeDef {
	t := TypeDef{Type: SpecType(x.Type)}
	sub := func(x xdr.ScSpecTypeDef) *TypeDef {
		s := typeDefFromXDR(x)
		return &s
	}
	switch t.Type {
	case SpecTypeOption:
		t.Elem = sub(x.Option.ValueType)
	case SpecTypeVec:
		t.Elem = sub(x.Vec.ElementType)
	case SpecTypeResult:
		t.Ok, t.Err = sub(x.Result.OkType), sub(x.Result.ErrorType)
	case SpecTypeMap:
		t.Key, t.Value = sub(x.Map.KeyType), sub(x.Map.ValueType)
	case SpecTypeTuple:
		t.Elems = typeDefsFromXDR(x.Tuple.ValueTypes)
	case SpecTypeBytesN:
		t.N = uint32(x.BytesN.N)
	case SpecTypeUDT:
		t.Name = x.Udt.Name
	}
	return t
}

func typeDefsFromXDR(defs []xdr.ScSpecTypeDef) []TypeDef {
	out := make([]TypeDef, len(defs))
	for i, d := range defs {
		out[i] = typeDefFromXDR(d)
	}
	return out
}

// SpecEntryKind is the discriminant of a spec entry.
type SpecEntryKind uint32

const (
	SpecEntryFunctionV0     SpecEntryKind = 0
	SpecEntryUDTStructV0    SpecEntryKind = 1
	SpecEntryUDTUnionV0     SpecEntryKind = 2
	SpecEntryUDTEnumV0      SpecEntryKind = 3
	SpecEntryUDTErrorEnumV0 SpecEntryKind = 4
	SpecEntryEventV0        SpecEntryKind = 5
)

func (k SpecEntryKind) String() string {
	switch k {
	case SpecEntryFunctionV0:
		return "function"
	case SpecEntryUDTStructV0:
		return "struct"
	case SpecEntryUDTUnionV0:
		return "union"
	case SpecEntryUDTEnumV0:
		return "enum"
	case SpecEntryUDTErrorEnumV0:
		return "error_enum"
	case SpecEntryEventV0:
		return "event"
	}
	return fmt.Sprintf("SpecEntryKind(%d)", uint32(k))
}

// SpecEntry is one decoded record of a contract's interface metadata.
// This is a sealed interface implemented by FunctionSpec, StructSpec,
// UnionSpec, EnumSpec, ErrorEnumSpec and EventSpec.
type SpecEntry interface {
	isSpecEntry()

	// Kind returns the entry discriminant.
	Kind() SpecEntryKind

	toXDR() xdr.ScSpecEntry
}

// FunctionInput is one named parameter of a contract function.
type FunctionInput struct {
	Doc  string
	Name string
	Type TypeDef
}

// FunctionSpec describes an exported contract function.
type FunctionSpec struct {
	Doc     string
	Name    string
	Inputs  []FunctionInput
	Outputs []TypeDef
}

// StructField is one field of a user-defined struct.
type StructField struct {
	Doc  string
	Name string
	Type TypeDef
}

// StructSpec describes a user-defined struct.
type StructSpec struct {
	Doc    string
	Lib    string
	Name   string
	Fields []StructField
}

// UnionCase is one case of a user-defined union. Void cases have no Types.
type UnionCase struct {
	Tuple bool
	Doc   string
	Name  string
	Types []TypeDef
}

// UnionSpec describes a user-defined union.
type UnionSpec struct {
	Doc   string
	Lib   string
	Name  string
	Cases []UnionCase
}

// EnumCase is one case of an integer enum or error enum.
type EnumCase struct {
	Doc   string
	Name  string
	Value uint32
}

// EnumSpec describes a user-defined integer enum.
type EnumSpec struct {
	Doc   string
	Lib   string
	Name  string
	Cases []EnumCase
}

// ErrorEnumSpec describes a contract error enum.
type ErrorEnumSpec struct {
	Doc   string
	Lib   string
	Name  string
	Cases []EnumCase
}

// EventParam is one parameter of a contract event.
type EventParam struct {
	Doc     string
	Name    string
	Type    TypeDef
	InTopic bool
}

// EventSpec describes a contract event.
type EventSpec struct {
	Doc          string
	Lib          string
	Name         string
	PrefixTopics []string
	Params       []EventParam
	DataFormat   uint32
}

func (FunctionSpec) isSpecEntry()  {}
func (StructSpec) isSpecEntry()    {}
func (UnionSpec) isSpecEntry()     {}
func (EnumSpec) isSpecEntry()      {}
func (ErrorEnumSpec) isSpecEntry() {}
func (EventSpec) isSpecEntry()     {}

func (FunctionSpec) Kind() SpecEntryKind  { return SpecEntryFunctionV0 }
func (StructSpec) Kind() SpecEntryKind    { return SpecEntryUDTStructV0 }
func (UnionSpec) Kind() SpecEntryKind     { return SpecEntryUDTUnionV0 }
func (EnumSpec) Kind() SpecEntryKind      { return SpecEntryUDTEnumV0 }
func (ErrorEnumSpec) Kind() SpecEntryKind { return SpecEntryUDTErrorEnumV0 }
func (EventSpec) Kind() SpecEntryKind     { return SpecEntryEventV0 }

// IsPositional reports whether the struct's fields are named "0".."n-1",
// the shape of a tuple struct.
func (s StructSpec) IsPositional() bool {
	for i, f := range s.Fields {
		if f.Name != strconv.Itoa(i) {
			return false
		}
	}
	return len(s.Fields) > 0
}

// MarshalSpecEntry returns the XDR encoding of one entry. It fails when
// the entry uses a type or discriminant the network does not define.
func MarshalSpecEntry(entry SpecEntry) ([]byte, error) {
	return entry.toXDR().MarshalBinary()
}

// UnmarshalSpecEntry decodes data as exactly one spec entry.
func UnmarshalSpecEntry(data []byte) (SpecEntry, error) {
	var x xdr.ScSpecEntry
	if err := decodeXDR(data, &x); err != nil {
		return nil, err
	}
	return specEntryFromXDR(x)
}

func (f FunctionSpec) toXDR() xdr.ScSpecEntry {
	fn := &xdr.ScSpecFunctionV0{
		Doc:     f.Doc,
		Name:    xdr.ScSymbol(f.Name),
		Inputs:  make([]xdr.ScSpecFunctionInputV0, len(f.Inputs)),
		Outputs: typeDefsToXDR(f.Outputs),
	}
	for i, in := range f.Inputs {
		fn.Inputs[i] = xdr.ScSpecFunctionInputV0{Doc: in.Doc, Name: in.Name, Type: in.Type.toXDR()}
	}
	return xdr.ScSpecEntry{Kind: xdr.ScSpecEntryKind(SpecEntryFunctionV0), FunctionV0: fn}
}

func (s StructSpec) toXDR() xdr.ScSpecEntry {
	st := &xdr.ScSpecUdtStructV0{
		Doc:    s.Doc,
		Lib:    s.Lib,
		Name:   s.Name,
		Fields: make([]xdr.ScSpecUdtStructFieldV0, len(s.Fields)),
	}
	for i, f := range s.Fields {
		st.Fields[i] = xdr.ScSpecUdtStructFieldV0{Doc: f.Doc, Name: f.Name, Type: f.Type.toXDR()}
	}
	return xdr.ScSpecEntry{Kind: xdr.ScSpecEntryKind(SpecEntryUDTStructV0), UdtStructV0: st}
}

func (u UnionSpec) toXDR() xdr.ScSpecEntry {
	un := &xdr.ScSpecUdtUnionV0{
		Doc:   u.Doc,
		Lib:   u.Lib,
		Name:  u.Name,
		Cases: make([]xdr.ScSpecUdtUnionCaseV0, len(u.Cases)),
	}
	for i, c := range u.Cases {
		if c.Tuple {
			un.Cases[i] = xdr.ScSpecUdtUnionCaseV0{
				Kind:      xdr.ScSpecUdtUnionCaseV0Kind(1),
				TupleCase: &xdr.ScSpecUdtUnionCaseTupleV0{Doc: c.Doc, Name: c.Name, Type: typeDefsToXDR(c.Types)},
			}
			continue
		}
		un.Cases[i] = xdr.ScSpecUdtUnionCaseV0{
			Kind:     xdr.ScSpecUdtUnionCaseV0Kind(0),
			VoidCase: &xdr.ScSpecUdtUnionCaseVoidV0{Doc: c.Doc, Name: c.Name},
		}
	}
	return xdr.ScSpecEntry{Kind: xdr.ScSpecEntryKind(SpecEntryUDTUnionV0), UdtUnionV0: un}
}

func (s EnumSpec) toXDR() xdr.ScSpecEntry {
	en := &xdr.ScSpecUdtEnumV0{Doc: s.Doc, Lib: s.Lib, Name: s.Name, Cases: make([]xdr.ScSpecUdtEnumCaseV0, len(s.Cases))}
	for i, c := range s.Cases {
		en.Cases[i] = xdr.ScSpecUdtEnumCaseV0{Doc: c.Doc, Name: c.Name, Value: xdr.Uint32(c.Value)}
	}
	return xdr.ScSpecEntry{Kind: xdr.ScSpecEntryKind(SpecEntryUDTEnumV0), UdtEnumV0: en}
}

func (s ErrorEnumSpec) toXDR() xdr.ScSpecEntry {
	en := &xdr.ScSpecUdtErrorEnumV0{Doc: s.Doc, Lib: s.Lib, Name: s.Name, Cases: make([]xdr.ScSpecUdtErrorEnumCaseV0, len(s.Cases))}
	for i, c := range s.Cases {
		en.Cases[i] = xdr.ScSpecUdtErrorEnumCaseV0{Doc: c.Doc, Name: c.Name, Value: xdr.Uint32(c.Value)}
	}
	return xdr.ScSpecEntry{Kind: xdr.ScSpecEntryKind(SpecEntryUDTErrorEnumV0), UdtErrorEnumV0: en}
}

func (s EventSpec) toXDR() xdr.ScSpecEntry {
	ev := &xdr.ScSpecEventV0{
		Doc:          s.Doc,
		Lib:          s.Lib,
		Name:         xdr.ScSymbol(s.Name),
		PrefixTopics: make([]xdr.ScSymbol, len(s.PrefixTopics)),
		Params:       make([]xdr.ScSpecEventParamV0, len(s.Params)),
		DataFormat:   xdr.ScSpecEventDataFormat(s.DataFormat),
	}
	for i, t := range s.PrefixTopics {
		ev.PrefixTopics[i] = xdr.ScSymbol(t)
	}
	for i, p := range s.Params {
		var loc xdr.ScSpecEventParamLocationV0
		if p.InTopic {
			loc = 1
		}
		ev.Params[i] = xdr.ScSpecEventParamV0{Doc: p.Doc, Name: p.Name, Type: p.Type.toXDR(), Location: loc}
	}
	return xdr.ScSpecEntry{Kind: xdr.ScSpecEntryKind(SpecEntryEventV0), EventV0: ev}
}

func specEntryFromXDR(x xdr.ScSpecEntry) (SpecEntry, error) {
	switch SpecEntryKind(x.Kind) {
	case SpecEntryFunctionV0:
		fn := x.FunctionV0
		f := FunctionSpec{
			Doc:     fn.Doc,
			Name:    string(fn.Name),
			Inputs:  make([]FunctionInput, len(fn.Inputs)),
			Outputs: typeDefsFromXDR(fn.Outputs),
		}
		for i, in := range fn.Inputs {
			f.Inputs[i] = FunctionInput{Doc: in.Doc, Name: in.Name, Type: typeDefFromXDR(in.Type)}
		}
		return f, nil
	case SpecEntryUDTStructV0:
		st := x.UdtStructV0
		s := StructSpec{Doc: st.Doc, Lib: st.Lib, Name: st.Name, Fields: make([]StructField, len(st.Fields))}
		for i, f := range st.Fields {
			s.Fields[i] = StructField{Doc: f.Doc, Name: f.Name, Type: typeDefFromXDR(f.Type)}
		}
		return s, nil
	case SpecEntryUDTUnionV0:
		un := x.UdtUnionV0
		u := UnionSpec{Doc: un.Doc, Lib: un.Lib, Name: un.Name, Cases: make([]UnionCase, len(un.Cases))}
		for i, c := range un.Cases {
			switch {
			case c.TupleCase != nil:
				u.Cases[i] = UnionCase{Tuple: true, Doc: c.TupleCase.Doc, Name: c.TupleCase.Name, Types: typeDefsFromXDR(c.TupleCase.Type)}
			case c.VoidCase != nil:
				u.Cases[i] = UnionCase{Doc: c.VoidCase.Doc, Name: c.VoidCase.Name}
			default:
				return nil, unknownArm("ScSpecUdtUnionCaseV0Kind", int32(c.Kind))
			}
		}
		return u, nil
	case SpecEntryUDTEnumV0:
		en := x.UdtEnumV0
		s := EnumSpec{Doc: en.Doc, Lib: en.Lib, Name: en.Name, Cases: make([]EnumCase, len(en.Cases))}
		for i, c := range en.Cases {
			s.Cases[i] = EnumCase{Doc: c.Doc, Name: c.Name, Value: uint32(c.Value)}
		}
		return s, nil
	case SpecEntryUDTErrorEnumV0:
		en := x.UdtErrorEnumV0
		s := ErrorEnumSpec{Doc: en.Doc, Lib: en.Lib, Name: en.Name, Cases: make([]EnumCase, len(en.Cases))}
		for i, c := range en.Cases {
			s.Cases[i] = EnumCase{Doc: c.Doc, Name: c.Name, Value: uint32(c.Value)}
		}
		return s, nil
	case SpecEntryEventV0:
		ev := x.EventV0
		e := EventSpec{
			Doc:          ev.Doc,
			Lib:          ev.Lib,
			Name:         string(ev.Name),
			PrefixTopics: make([]string, len(ev.PrefixTopics)),
			Params:       make([]EventParam, len(ev.Params)),
			DataFormat:   uint32(ev.DataFormat),
		}
		for i, t := range ev.PrefixTopics {
			e.PrefixTopics[i] = string(t)
		}
		for i, p := range ev.Params {
			e.Params[i] = EventParam{Doc: p.Doc, Name: p.Name, Type: typeDefFromXDR(p.Type), InTopic: p.Location == 1}
		}
		return e, nil
	}
	return nil, unknownArm("ScSpecEntryKind", int32(x.Kind))
}
