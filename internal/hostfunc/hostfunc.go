// Package hostfunc assembles the host-function builder chain that
// registers a world's imported interfaces against a wazero runtime: for
// each imported WIT function it renders a Go closure literal from the
// ABI visitor's output, then chains it onto a
// wazero.HostModuleBuilder.NewFunctionBuilder().WithFunc(...).Export(...)
// call per the Wasm module name the interface was bound to.
package hostfunc

import (
	"fmt"
	"strings"

	"github.com/go-hostgen/hostgen/internal/abi"
	"github.com/go-hostgen/hostgen/internal/ir"
	"github.com/go-hostgen/hostgen/wit"
)

// ClosureLiteral renders closure as a Go function literal suitable as the
// sole argument to HostFunctionBuilder.WithFunc. Every host function takes
// (ctx context.Context, mod api.Module) plus its flattened Wasm
// parameters; the result, if any, is the single identity-typed Wasm
// return value WithFunc's reflection-based binding requires.
func ClosureLiteral(closure *abi.ImportClosure) string {
	var b strings.Builder
	b.WriteString("func(ctx context.Context, mod api.Module")
	for _, p := range closure.Params {
		fmt.Fprintf(&b, ", %s %s", p.Name, p.Type)
	}
	b.WriteString(")")
	if closure.ResultType != "" {
		fmt.Fprintf(&b, " %s", closure.ResultType)
	}
	b.WriteString(" {\n")
	for _, stmt := range closure.Body {
		fmt.Fprintf(&b, "\t\t%s\n", stmt)
	}
	b.WriteString("\t}")
	return b.String()
}

// ModuleRegistration is one imported interface's host module, rendered as
// a Go statement sequence that builds and instantiates a
// wazero.HostModuleBuilder.
type ModuleRegistration struct {
	// WasmModuleName is the host module name the guest's import section
	// names, e.g. "example:host/logging".
	WasmModuleName string

	// Stmts builds and instantiates the host module. The last statement
	// instantiates it against ctx and, on failure, returns nil and the
	// wrapped error from the enclosing function.
	Stmts []string
}

// BuildModuleRegistration renders iface's import functions into a
// ModuleRegistration. implExpr is a Go expression evaluating to iface's
// implementation, e.g. "impl.logging". index distinguishes this
// registration's local variable names from any other registration spliced
// into the same constructor body.
func BuildModuleRegistration(res *wit.Resolve, runtimeExpr, implExpr string, iface *ir.AnalyzedInterface, index int) (*ModuleRegistration, error) {
	builderVar := fmt.Sprintf("builder%d", index)
	reg := &ModuleRegistration{WasmModuleName: iface.WasmModuleName}
	reg.Stmts = append(reg.Stmts, fmt.Sprintf("%s := %s.NewHostModuleBuilder(%q)", builderVar, runtimeExpr, iface.WasmModuleName))

	for i := range iface.Methods {
		m := &iface.Methods[i]
		closure, err := abi.BuildImportClosure(res, implExpr, m)
		if err != nil {
			return nil, fmt.Errorf("building import closure for %q.%q: %w", iface.WasmModuleName, m.Name, err)
		}
		reg.Stmts = append(reg.Stmts, fmt.Sprintf(
			"%s.NewFunctionBuilder().WithFunc(%s).Export(%q)",
			builderVar, ClosureLiteral(closure), m.Name,
		))
	}

	reg.Stmts = append(reg.Stmts, fmt.Sprintf("if _, err := %s.Instantiate(ctx); err != nil {", builderVar))
	reg.Stmts = append(reg.Stmts, fmt.Sprintf("\treturn nil, fmt.Errorf(%q, err)", "instantiating host module "+iface.WasmModuleName+": %w"))
	reg.Stmts = append(reg.Stmts, "}")
	return reg, nil
}

// BuildStandaloneRegistration renders a world's top-level (non-interface)
// imported functions into a single ModuleRegistration bound to the
// world's own Wasm module name, moduleName. index distinguishes this
// registration's local variable names from any other registration spliced
// into the same constructor body.
func BuildStandaloneRegistration(res *wit.Resolve, runtimeExpr, implExpr, moduleName string, methods []ir.InterfaceMethod, index int) (*ModuleRegistration, error) {
	builderVar := fmt.Sprintf("builder%d", index)
	reg := &ModuleRegistration{WasmModuleName: moduleName}
	reg.Stmts = append(reg.Stmts, fmt.Sprintf("%s := %s.NewHostModuleBuilder(%q)", builderVar, runtimeExpr, moduleName))

	for i := range methods {
		m := &methods[i]
		closure, err := abi.BuildImportClosure(res, implExpr, m)
		if err != nil {
			return nil, fmt.Errorf("building import closure for %q.%q: %w", moduleName, m.Name, err)
		}
		reg.Stmts = append(reg.Stmts, fmt.Sprintf(
			"%s.NewFunctionBuilder().WithFunc(%s).Export(%q)",
			builderVar, ClosureLiteral(closure), m.Name,
		))
	}

	reg.Stmts = append(reg.Stmts, fmt.Sprintf("if _, err := %s.Instantiate(ctx); err != nil {", builderVar))
	reg.Stmts = append(reg.Stmts, fmt.Sprintf("\treturn nil, fmt.Errorf(%q, err)", "instantiating host module "+moduleName+": %w"))
	reg.Stmts = append(reg.Stmts, "}")
	return reg, nil
}
