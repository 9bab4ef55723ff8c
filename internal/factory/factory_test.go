package factory

import (
	"strings"
	"testing"

	"github.com/go-hostgen/hostgen/internal/ir"
	"github.com/go-hostgen/hostgen/wit"
)

func TestBuild_GreetExport(t *testing.T) {
	res := &wit.Resolve{}
	f := &wit.Function{
		Name:    "greet",
		Kind:    &wit.Freestanding{},
		Results: []wit.Param{{Type: wit.String{}}},
	}
	imports := &ir.AnalyzedImports{
		FactoryName:     "newGreeterFactory",
		InstanceName:    "GreeterInstance",
		ConstructorName: "NewGreeterFactory",
	}
	exports := &ir.AnalyzedExports{
		StandaloneFunctions: []ir.InterfaceMethod{
			{Name: f.Name, HostMethodName: "Greet", WITFunction: f, Return: &ir.Return{WITType: wit.String{}}},
		},
	}

	fty, inst, err := Build(res, "runtime", imports, exports, "Imports")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if fty.TypeName != "GreeterInstanceFactory" {
		t.Fatalf("TypeName = %q", fty.TypeName)
	}
	if len(inst.Methods) != 1 {
		t.Fatalf("Methods = %v, want 1", inst.Methods)
	}
	src := inst.Methods[0].Source
	if !strings.Contains(src, "func (inst *GreeterInstance) Greet(ctx context.Context) (string, error) {") {
		t.Fatalf("unexpected method signature:\n%s", src)
	}
	if !strings.Contains(src, `inst.mod.ExportedFunction("greet")`) {
		t.Fatalf("missing exported function lookup:\n%s", src)
	}
}
