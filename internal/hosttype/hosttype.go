// Package hosttype maps resolved IDL types onto Go type expressions and
// maps flattened Wasm primitive categories onto their Go equivalents.
package hosttype

import (
	"fmt"

	"github.com/go-hostgen/hostgen/internal/identmint"
	"github.com/go-hostgen/hostgen/internal/visitor"
	"github.com/go-hostgen/hostgen/wit"
)

// GoType is a Go type expression together with the information C4/C7 need
// to reference it: its textual spelling, whether it names a declared type
// (as opposed to a predeclared/builtin type), and the declaring [wit.TypeDef]
// when Named is true.
type GoType struct {
	// Expr is the Go type expression, e.g. "string", "uint32", "Status".
	Expr string

	// Named is true if Expr refers to a type declaration C7 must emit
	// (Record, Enum, Variant, Flags), as opposed to a builtin.
	Named bool

	// Def is the originating type definition when Named is true.
	Def *wit.TypeDef
}

// ResolveType maps WIT type t to its Go type expression. Every primitive
// maps to the Go type with the same value range; string maps to Go's
// owned, UTF-8 string; a type-id reference is dereferenced, recursing on
// the named type, except that Record/Enum/Variant/Flags definitions
// resolve to a named Go type minted by [identmint.Public] from the type's
// WIT name.
func ResolveType(t wit.Type, r *wit.Resolve) (GoType, error) {
	switch t := t.(type) {
	case wit.Bool:
		return GoType{Expr: "bool"}, nil
	case wit.S8:
		return GoType{Expr: "int8"}, nil
	case wit.U8:
		return GoType{Expr: "uint8"}, nil
	case wit.S16:
		return GoType{Expr: "int16"}, nil
	case wit.U16:
		return GoType{Expr: "uint16"}, nil
	case wit.S32:
		return GoType{Expr: "int32"}, nil
	case wit.U32:
		return GoType{Expr: "uint32"}, nil
	case wit.S64:
		return GoType{Expr: "int64"}, nil
	case wit.U64:
		return GoType{Expr: "uint64"}, nil
	case wit.F32:
		return GoType{Expr: "float32"}, nil
	case wit.F64:
		return GoType{Expr: "float64"}, nil
	case wit.Char:
		return GoType{Expr: "rune"}, nil
	case wit.String:
		return GoType{Expr: "string"}, nil
	case wit.ErrorContext:
		return GoType{Expr: "uint32"}, nil
	case *wit.TypeDef:
		return resolveTypeDef(t, r)
	default:
		return GoType{}, fmt.Errorf("hosttype: unrecognized WIT type %T", t)
	}
}

func resolveTypeDef(t *wit.TypeDef, r *wit.Resolve) (GoType, error) {
	// A named type may alias another named type, which may alias another,
	// and so on; walk the chain rather than recursing so a cycle (which
	// would never arise from a well-formed Resolve, but would otherwise
	// hang the generator on a malformed one) is caught instead of
	// overflowing the stack.
	seen := visitor.New(func(*wit.TypeDef) bool { return true })
	for {
		if seen.Visited(t) {
			return GoType{}, fmt.Errorf("%w: cyclic type alias at %v", wit.ErrResolverInconsistency, t)
		}
		seen.Yield(t)
		switch k := t.Kind.(type) {
		case *wit.Record, *wit.Enum, *wit.Variant, *wit.Flags:
			if t.Name == nil {
				return GoType{}, fmt.Errorf("hosttype: anonymous %T has no name to mint a Go type from", t.Kind)
			}
			return GoType{Expr: identmint.Public(*t.Name).Name, Named: true, Def: t}, nil
		case *wit.TypeDef:
			t = k
		default:
			return resolveAnonymous(t, r)
		}
	}
}

// resolveAnonymous handles anonymous TypeDefKinds not covered by the
// named-declaration arm of resolveTypeDef: aliases over primitives
// resolve to the aliased primitive's Go type, handles (own/borrow) flatten
// to a single i32 and resolve to uint32, and the remaining constructors
// whose flattening is not a single core word (list, option, result,
// multi-element tuple, future, stream) surface an explicit
// unsupported-type error rather than a silent guess.
func resolveAnonymous(t *wit.TypeDef, r *wit.Resolve) (GoType, error) {
	if len(t.Kind.Flat()) == 1 {
		switch wit.CoreType(t.Kind.Flat()[0]) {
		case wit.WasmI32:
			return GoType{Expr: "uint32"}, nil
		case wit.WasmI64:
			return GoType{Expr: "uint64"}, nil
		case wit.WasmF32:
			return GoType{Expr: "float32"}, nil
		case wit.WasmF64:
			return GoType{Expr: "float64"}, nil
		}
	}
	return GoType{}, fmt.Errorf("%w: %T", wit.ErrUnsupportedTypeDef, t.Kind)
}

// ResolveWasmType maps a flattened core Wasm value category to its Go
// type: I32/Length/Pointer map to an unsigned 32-bit value, I64/
// PointerOrI64 to an unsigned 64-bit value, F32/F64 to their IEEE 754
// widths.
func ResolveWasmType(wt wit.WasmType) GoType {
	switch wt {
	case wit.WasmI64, wit.WasmPointerOrI64:
		return GoType{Expr: "uint64"}
	case wit.WasmF32:
		return GoType{Expr: "float32"}
	case wit.WasmF64:
		return GoType{Expr: "float64"}
	default: // WasmI32, WasmPointer, WasmLength
		return GoType{Expr: "uint32"}
	}
}
