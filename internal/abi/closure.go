package abi

import (
	"fmt"
	"strings"

	"github.com/go-hostgen/hostgen/internal/hosttype"
	"github.com/go-hostgen/hostgen/internal/ir"
	"github.com/go-hostgen/hostgen/wit"
)

// FlatParam is one parameter of a generated closure's Core Wasm-level
// signature: the wazero host function receives these in addition to the
// leading (ctx context.Context, mod api.Module) pair.
type FlatParam struct {
	Name string
	Type string
}

// ImportClosure is the generated body of a host function satisfying one
// guest-imported function, ready to pass to wazero's
// HostFunctionBuilder.WithFunc.
type ImportClosure struct {
	// Params is the flattened Wasm-level parameter list, identity-typed.
	Params []FlatParam

	// ResultType is the single flattened Wasm-level Go return type, or ""
	// if the function has no result.
	ResultType string

	// Body is the statement buffer; the last statement is the return
	// statement when ResultType is non-empty.
	Body []string
}

// BuildImportClosure builds the host function body satisfying m, which
// dispatches to implExpr (a Go expression evaluating to the interface
// implementation, e.g. "h.logging" or "impl"). Wasm arguments arrive
// already identity-typed by wazero's reflection-based WithFunc binding;
// BuildImportClosure casts them to m's native parameter types, calls
// implExpr.HostMethodName, and lowers the native result (if any) back to
// a single identity-typed Wasm return value.
func BuildImportClosure(res *wit.Resolve, implExpr string, m *ir.InterfaceMethod) (*ImportClosure, error) {
	f := m.WITFunction
	sig, err := res.WasmSignature(wit.GuestImport, f)
	if err != nil {
		return nil, err
	}

	b := &builder{}
	var params []FlatParam
	idx := 0
	src := func(wasm wit.WasmType) string {
		name := fmt.Sprintf("arg%d", idx)
		params = append(params, FlatParam{Name: name, Type: hosttype.ResolveWasmType(wasm).Expr})
		idx++
		return name
	}

	argExprs := make([]string, len(f.Params))
	for i, p := range f.Params {
		v, err := liftValue(b, p.Type, src, res)
		if err != nil {
			return nil, fmt.Errorf("lifting parameter %q of %q: %w", p.Name, f.Name, err)
		}
		argExprs[i] = v
	}
	if idx != len(sig.Params) {
		return nil, fmt.Errorf("%w: %q consumed %d of %d flattened Wasm params", wit.ErrResolverInconsistency, f.Name, idx, len(sig.Params))
	}

	call := fmt.Sprintf("%s.%s(%s)", implExpr, m.HostMethodName, strings.Join(argExprs, ", "))

	closure := &ImportClosure{Params: params}
	if m.Return == nil {
		b.emit(call)
	} else {
		retVar := b.fresh("result")
		b.emit("%s := %s", retVar, call)

		var resultWasm wit.WasmType
		var resultExpr string
		sink := func(wasm wit.WasmType, expr string) {
			resultWasm = wasm
			resultExpr = expr
		}
		if err := lowerValue(b, m.Return.WITType, retVar, sink, res); err != nil {
			return nil, fmt.Errorf("lowering result of %q: %w", f.Name, err)
		}
		closure.ResultType = hosttype.ResolveWasmType(resultWasm).Expr
		b.emit("return %s", resultExpr)
	}
	closure.Body = b.stmts
	return closure, nil
}
