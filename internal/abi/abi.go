// Package abi implements the Canonical ABI lifting/lowering visitor: given
// a resolved function signature, it walks each parameter and result type
// and produces Go source fragments that convert values between the native
// Go calling convention and the flattened core WebAssembly calling
// convention, tracked on an operand stack backed by a statement buffer.
//
// The visitor is parameterized by direction. On the import path
// ([BuildImportClosure]) core Wasm values already arrive as identity-typed
// Go values (wazero's reflection-based host function binding does this);
// casts are therefore plain Go type conversions. On the export path
// ([BuildExportCall]) values cross through wazero's generic uint64 "value"
// slots and must be packed/unpacked with api.EncodeX/DecodeX. Using the
// wrong one on either side double-converts a value and silently produces
// the wrong result, so the two paths share every leaf conversion rule in
// this file and differ only in how a core word is read (wordSource) or
// written (wordSink).
package abi

import (
	"fmt"

	"github.com/go-hostgen/hostgen/internal/hosttype"
	"github.com/go-hostgen/hostgen/internal/identmint"
	"github.com/go-hostgen/hostgen/wit"
)

// builder accumulates the statement buffer and hands out fresh temporary
// names for one function body.
type builder struct {
	stmts []string
	tmp   int

	// usesMod is set once the body references the guest module's linear
	// memory (a string lift or lower), so callers know whether they must
	// bind a "mod" identifier in scope.
	usesMod bool
}

func (b *builder) fresh(prefix string) string {
	name := fmt.Sprintf("%s%d", prefix, b.tmp)
	b.tmp++
	return name
}

func (b *builder) emit(format string, args ...any) {
	b.stmts = append(b.stmts, fmt.Sprintf(format, args...))
}

// wordSource yields the next core Wasm word of the requested category as a
// ready-to-use Go expression already typed uint32/uint64/float32/float64.
type wordSource func(wit.WasmType) string

// wordSink consumes a lowered value, already typed uint32/uint64/
// float32/float64 for the given core Wasm category.
type wordSink func(wit.WasmType, string)

// liftValue lifts WIT type t into a native Go expression, reading core
// words from src in declared order and emitting any supporting statements
// (memory reads, nil checks) into b.
func liftValue(b *builder, t wit.Type, src wordSource, res *wit.Resolve) (string, error) {
	switch t := t.(type) {
	case wit.Bool:
		return fmt.Sprintf("%s != 0", src(wit.WasmI32)), nil
	case wit.S8:
		return fmt.Sprintf("int8(%s)", src(wit.WasmI32)), nil
	case wit.U8:
		return fmt.Sprintf("uint8(%s)", src(wit.WasmI32)), nil
	case wit.S16:
		return fmt.Sprintf("int16(%s)", src(wit.WasmI32)), nil
	case wit.U16:
		return fmt.Sprintf("uint16(%s)", src(wit.WasmI32)), nil
	case wit.S32:
		return fmt.Sprintf("int32(%s)", src(wit.WasmI32)), nil
	case wit.U32:
		return src(wit.WasmI32), nil
	case wit.S64:
		return fmt.Sprintf("int64(%s)", src(wit.WasmI64)), nil
	case wit.U64:
		return src(wit.WasmI64), nil
	case wit.F32:
		return src(wit.WasmF32), nil
	case wit.F64:
		return src(wit.WasmF64), nil
	case wit.Char:
		return fmt.Sprintf("rune(%s)", src(wit.WasmI32)), nil
	case wit.ErrorContext:
		return src(wit.WasmI32), nil
	case wit.String:
		ptr, length := src(wit.WasmI32), src(wit.WasmI32)
		buf := b.fresh("buf")
		b.usesMod = true
		b.emit("%s, ok := mod.Memory().Read(%s, %s)", buf, ptr, length)
		b.emit("if !ok {")
		b.emit("\tpanic(\"hostgen: guest memory read out of bounds\")")
		b.emit("}")
		return fmt.Sprintf("string(%s)", buf), nil
	case *wit.TypeDef:
		return liftTypeDef(b, t, src, res)
	default:
		return "", fmt.Errorf("%w: cannot lift %T", wit.ErrUnsupportedTypeDef, t)
	}
}

func liftTypeDef(b *builder, t *wit.TypeDef, src wordSource, res *wit.Resolve) (string, error) {
	switch k := t.Kind.(type) {
	case *wit.Record:
		gt, err := hosttype.ResolveType(t, res)
		if err != nil {
			return "", err
		}
		fields := make([]string, len(k.Fields))
		for i, f := range k.Fields {
			v, err := liftValue(b, f.Type, src, res)
			if err != nil {
				return "", err
			}
			fields[i] = fmt.Sprintf("%s: %s", identmint.Public(f.Name).Name, v)
		}
		expr := fmt.Sprintf("%s{", gt.Expr)
		for i, f := range fields {
			if i > 0 {
				expr += ", "
			}
			expr += f
		}
		return expr + "}", nil

	case *wit.Enum:
		gt, err := hosttype.ResolveType(t, res)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", gt.Expr, src(wit.WasmI32)), nil

	case *wit.TypeDef:
		return liftTypeDef(b, k, src, res)

	default:
		if len(t.Kind.Flat()) == 1 {
			gt, err := hosttype.ResolveType(t, res)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s(%s)", gt.Expr, src(wit.CoreType(t.Kind.Flat()[0]))), nil
		}
		return "", fmt.Errorf("%w: cannot lift %T", wit.ErrUnsupportedTypeDef, t.Kind)
	}
}

// lowerValue lowers native Go expression expr of WIT type t, writing core
// words to sink in declared order.
func lowerValue(b *builder, t wit.Type, expr string, sink wordSink, res *wit.Resolve) error {
	switch t := t.(type) {
	case wit.Bool:
		tmp := b.fresh("w")
		b.emit("var %s uint32", tmp)
		b.emit("if %s {", expr)
		b.emit("\t%s = 1", tmp)
		b.emit("}")
		sink(wit.WasmI32, tmp)
		return nil
	case wit.S8, wit.U8, wit.S16, wit.U16, wit.S32, wit.U32:
		sink(wit.WasmI32, fmt.Sprintf("uint32(%s)", expr))
		return nil
	case wit.S64, wit.U64:
		sink(wit.WasmI64, fmt.Sprintf("uint64(%s)", expr))
		return nil
	case wit.F32:
		sink(wit.WasmF32, expr)
		return nil
	case wit.F64:
		sink(wit.WasmF64, expr)
		return nil
	case wit.Char:
		sink(wit.WasmI32, fmt.Sprintf("uint32(%s)", expr))
		return nil
	case wit.ErrorContext:
		sink(wit.WasmI32, expr)
		return nil
	case wit.String:
		bytesVar := b.fresh("bytes")
		ptrVar := b.fresh("ptr")
		lenVar := b.fresh("strlen")
		b.usesMod = true
		b.emit("%s := []byte(%s)", bytesVar, expr)
		b.emit("%s, err := allocGuestBytes(ctx, mod, %s)", ptrVar, bytesVar)
		b.emit("if err != nil {")
		b.emit("\tpanic(err)")
		b.emit("}")
		b.emit("%s := uint32(len(%s))", lenVar, bytesVar)
		sink(wit.WasmI32, ptrVar)
		sink(wit.WasmI32, lenVar)
		return nil
	case *wit.TypeDef:
		return lowerTypeDef(b, t, expr, sink, res)
	default:
		return fmt.Errorf("%w: cannot lower %T", wit.ErrUnsupportedTypeDef, t)
	}
}

func lowerTypeDef(b *builder, t *wit.TypeDef, expr string, sink wordSink, res *wit.Resolve) error {
	switch k := t.Kind.(type) {
	case *wit.Record:
		for _, f := range k.Fields {
			fieldExpr := fmt.Sprintf("%s.%s", expr, identmint.Public(f.Name).Name)
			if err := lowerValue(b, f.Type, fieldExpr, sink, res); err != nil {
				return err
			}
		}
		return nil

	case *wit.Enum:
		sink(wit.WasmI32, fmt.Sprintf("uint32(%s)", expr))
		return nil

	case *wit.TypeDef:
		return lowerTypeDef(b, k, expr, sink, res)

	default:
		if len(t.Kind.Flat()) == 1 {
			core := wit.CoreType(t.Kind.Flat()[0])
			sink(core, fmt.Sprintf("%s(%s)", hosttype.ResolveWasmType(core).Expr, expr))
			return nil
		}
		return fmt.Errorf("%w: cannot lower %T", wit.ErrUnsupportedTypeDef, t.Kind)
	}
}
