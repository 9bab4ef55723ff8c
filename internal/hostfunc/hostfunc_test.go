package hostfunc

import (
	"strings"
	"testing"

	"github.com/go-hostgen/hostgen/internal/ir"
	"github.com/go-hostgen/hostgen/wit"
)

func TestBuildModuleRegistration(t *testing.T) {
	res := &wit.Resolve{}
	f := &wit.Function{
		Name:   "log",
		Kind:   &wit.Freestanding{},
		Params: []wit.Param{{Name: "message", Type: wit.String{}}},
	}
	iface := &ir.AnalyzedInterface{
		Name:           "logging",
		WasmModuleName: "example:host/logging",
		Methods: []ir.InterfaceMethod{
			{
				Name:           f.Name,
				HostMethodName: "Log",
				WITFunction:    f,
				Parameters: []ir.Parameter{
					{Name: "message", HostName: "message", WITType: wit.String{}},
				},
			},
		},
	}

	reg, err := BuildModuleRegistration(res, "runtime", "impl.logging", iface, 0)
	if err != nil {
		t.Fatalf("BuildModuleRegistration: %v", err)
	}
	if reg.WasmModuleName != "example:host/logging" {
		t.Fatalf("WasmModuleName = %q", reg.WasmModuleName)
	}
	body := strings.Join(reg.Stmts, "\n")
	if !strings.Contains(body, `runtime.NewHostModuleBuilder("example:host/logging")`) {
		t.Fatalf("missing host module builder construction:\n%s", body)
	}
	if !strings.Contains(body, `.Export("log")`) {
		t.Fatalf("missing export of the closure under its Wasm name:\n%s", body)
	}
	if !strings.Contains(body, "impl.logging.Log(string(buf0))") {
		t.Fatalf("missing dispatch call to the implementation:\n%s", body)
	}
	if !strings.Contains(body, "builder0.Instantiate(ctx)") {
		t.Fatalf("missing host module instantiation:\n%s", body)
	}
}
