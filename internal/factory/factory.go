// Package factory renders a world's factory and instance types: the
// factory compiles the guest Wasm binary and registers host modules for
// every imported interface, and each factory produces instances whose
// methods call the guest's exported functions through the ABI visitor's
// generated wrappers.
package factory

import (
	"fmt"
	"strings"

	"github.com/go-hostgen/hostgen/internal/abi"
	"github.com/go-hostgen/hostgen/internal/hostfunc"
	"github.com/go-hostgen/hostgen/internal/ir"
	"github.com/go-hostgen/hostgen/wit"
)

// Factory is the rendered source for a world's factory type: its
// constructor compiles the guest module and registers one host module
// per imported interface (and one for the world's standalone imports, if
// any).
type Factory struct {
	TypeName         string
	ConstructorName  string
	InstanceTypeName string

	// ImplParamName and ImplTypeName name the constructor's host
	// implementation parameter, e.g. "impl Imports".
	ImplParamName string
	ImplTypeName  string

	// Registrations builds and instantiates every imported host module,
	// in declaration order.
	Registrations []*hostfunc.ModuleRegistration
}

// Instance is the rendered source for a world's instance type: one
// method per exported interface function and per standalone exported
// function, each calling through to the guest module.
type Instance struct {
	TypeName string
	Methods  []Method
}

// Method is one rendered instance method.
type Method struct {
	Name   string
	Source string
}

// Build renders imports and exports into a Factory and Instance pair.
// runtimeExpr is the Go expression evaluating to the wazero.Runtime used
// to build host modules, e.g. "runtime".
func Build(res *wit.Resolve, runtimeExpr string, imports *ir.AnalyzedImports, exports *ir.AnalyzedExports, implTypeName string) (*Factory, *Instance, error) {
	f := &Factory{
		TypeName:         imports.InstanceName + "Factory",
		ConstructorName:  imports.ConstructorName,
		InstanceTypeName: imports.InstanceName,
		ImplParamName:    "impl",
		ImplTypeName:     implTypeName,
	}

	regIndex := 0
	for i := range imports.Interfaces {
		iface := &imports.Interfaces[i]
		implExpr := fmt.Sprintf("%s.%s", f.ImplParamName, iface.ConstructorParamName)
		reg, err := hostfunc.BuildModuleRegistration(res, runtimeExpr, implExpr, iface, regIndex)
		if err != nil {
			return nil, nil, err
		}
		f.Registrations = append(f.Registrations, reg)
		regIndex++
	}
	if len(imports.StandaloneFunctions) > 0 {
		reg, err := hostfunc.BuildStandaloneRegistration(res, runtimeExpr, f.ImplParamName, "$root", imports.StandaloneFunctions, regIndex)
		if err != nil {
			return nil, nil, err
		}
		f.Registrations = append(f.Registrations, reg)
		regIndex++
	}

	inst := &Instance{TypeName: imports.InstanceName}
	for i := range exports.Interfaces {
		iface := &exports.Interfaces[i]
		for j := range iface.Methods {
			m := &iface.Methods[j]
			wasmFuncExpr := fmt.Sprintf("inst.mod.ExportedFunction(%q)", iface.Name+"#"+m.Name)
			method, err := renderMethod(res, inst.TypeName, wasmFuncExpr, m)
			if err != nil {
				return nil, nil, err
			}
			inst.Methods = append(inst.Methods, *method)
		}
	}
	for i := range exports.StandaloneFunctions {
		m := &exports.StandaloneFunctions[i]
		wasmFuncExpr := fmt.Sprintf("inst.mod.ExportedFunction(%q)", m.Name)
		method, err := renderMethod(res, inst.TypeName, wasmFuncExpr, m)
		if err != nil {
			return nil, nil, err
		}
		inst.Methods = append(inst.Methods, *method)
	}

	return f, inst, nil
}

func renderMethod(res *wit.Resolve, receiverType, wasmFuncExprLiteral string, m *ir.InterfaceMethod) (*Method, error) {
	fnVar := "fn"
	built, err := abi.BuildExportCall(res, fnVar, m)
	if err != nil {
		return nil, fmt.Errorf("building export call for %q: %w", m.Name, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "func (inst *%s) %s(ctx context.Context", receiverType, m.HostMethodName)
	for _, p := range built.Params {
		fmt.Fprintf(&b, ", %s %s", p.Name, p.Type)
	}
	b.WriteString(") (")
	if built.ResultType != "" {
		fmt.Fprintf(&b, "%s, ", built.ResultType)
	}
	b.WriteString("error) {\n")
	if built.UsesMod {
		b.WriteString("\tmod := inst.mod\n")
	}
	fmt.Fprintf(&b, "\t%s := %s\n", fnVar, wasmFuncExprLiteral)
	for _, stmt := range built.Body {
		fmt.Fprintf(&b, "\t%s\n", stmt)
	}
	b.WriteString("}")

	return &Method{Name: m.HostMethodName, Source: b.String()}, nil
}
