package abi

import (
	"fmt"

	"github.com/go-hostgen/hostgen/internal/hosttype"
	"github.com/go-hostgen/hostgen/internal/identmint"
	"github.com/go-hostgen/hostgen/internal/ir"
	"github.com/go-hostgen/hostgen/wit"
)

// ExportParam is one native Go parameter of a generated instance method.
type ExportParam struct {
	Name string
	Type string
}

// ExportMethod is the generated body of an instance method wrapping one
// guest-exported function.
type ExportMethod struct {
	Params []ExportParam

	// ResultType is m's native Go result type, or "" if the function has
	// no result. The method always also returns a trailing error.
	ResultType string

	// Body is the statement buffer; the last statement is the return
	// statement.
	Body []string

	// UsesMod is true if Body references the guest module's linear
	// memory (a string parameter or result), so the caller must bind a
	// "mod" identifier in scope before emitting Body.
	UsesMod bool
}

// BuildExportCall builds an instance method body that lowers m's
// parameters into a []uint64 Wasm argument list, invokes
// wasmFuncExpr.Call(ctx, ...), and lifts the result back into a native Go
// value. Unlike the import path, values cross wazero's api.Function.Call
// boundary through generic uint64 "value" slots and must be packed and
// unpacked with api.EncodeX/DecodeX rather than identity casts.
func BuildExportCall(res *wit.Resolve, wasmFuncExpr string, m *ir.InterfaceMethod) (*ExportMethod, error) {
	f := m.WITFunction
	if _, err := res.WasmSignature(wit.GuestExport, f); err != nil {
		return nil, err
	}

	b := &builder{}
	var params []ExportParam
	var args []string
	sink := func(wasm wit.WasmType, expr string) {
		switch wasm {
		case wit.WasmI64, wit.WasmPointerOrI64:
			args = append(args, fmt.Sprintf("api.EncodeI64(int64(%s))", expr))
		case wit.WasmF32:
			args = append(args, fmt.Sprintf("api.EncodeF32(%s)", expr))
		case wit.WasmF64:
			args = append(args, fmt.Sprintf("api.EncodeF64(%s)", expr))
		default: // WasmI32, WasmPointer, WasmLength
			args = append(args, fmt.Sprintf("api.EncodeI32(int32(%s))", expr))
		}
	}

	for _, p := range f.Params {
		gt, err := hosttype.ResolveType(p.Type, res)
		if err != nil {
			return nil, fmt.Errorf("resolving parameter %q of %q: %w", p.Name, f.Name, err)
		}
		pname := paramIdent(p.Name)
		params = append(params, ExportParam{Name: pname, Type: gt.Expr})
		if err := lowerValue(b, p.Type, pname, sink, res); err != nil {
			return nil, fmt.Errorf("lowering parameter %q of %q: %w", p.Name, f.Name, err)
		}
	}

	resultsVar := b.fresh("results")
	errVar := b.fresh("err")
	callArgs := "ctx"
	if len(args) > 0 {
		callArgs += ", " + joinArgs(args)
	}
	b.emit("%s, %s := %s.Call(%s)", resultsVar, errVar, wasmFuncExpr, callArgs)
	b.emit("if %s != nil {", errVar)
	method := &ExportMethod{Params: params}
	if m.Return != nil {
		gt, err := hosttype.ResolveType(m.Return.WITType, res)
		if err != nil {
			return nil, fmt.Errorf("resolving result of %q: %w", f.Name, err)
		}
		method.ResultType = gt.Expr
		b.emit("\treturn %s, %s", zeroValue(gt.Expr), errVar)
	} else {
		b.emit("\treturn %s", errVar)
	}
	b.emit("}")

	if m.Return == nil {
		b.emit("return nil")
		method.Body = b.stmts
		method.UsesMod = b.usesMod
		return method, nil
	}

	idx := 0
	src := func(wasm wit.WasmType) string {
		var e string
		switch wasm {
		case wit.WasmI64, wit.WasmPointerOrI64:
			e = fmt.Sprintf("uint64(api.DecodeI64(%s[%d]))", resultsVar, idx)
		case wit.WasmF32:
			e = fmt.Sprintf("api.DecodeF32(%s[%d])", resultsVar, idx)
		case wit.WasmF64:
			e = fmt.Sprintf("api.DecodeF64(%s[%d])", resultsVar, idx)
		default: // WasmI32, WasmPointer, WasmLength
			e = fmt.Sprintf("uint32(api.DecodeI32(%s[%d]))", resultsVar, idx)
		}
		idx++
		return e
	}

	retExpr, err := liftValue(b, m.Return.WITType, src, res)
	if err != nil {
		return nil, fmt.Errorf("lifting result of %q: %w", f.Name, err)
	}
	b.emit("return %s, nil", retExpr)
	method.Body = b.stmts
	method.UsesMod = b.usesMod
	return method, nil
}

func paramIdent(raw string) string {
	return identmint.Private(raw).Name
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}

func zeroValue(expr string) string {
	switch expr {
	case "string":
		return `""`
	case "bool":
		return "false"
	case "int8", "uint8", "int16", "uint16", "int32", "uint32", "int64", "uint64", "float32", "float64", "rune":
		return expr + "(0)"
	default:
		return expr + "{}"
	}
}
