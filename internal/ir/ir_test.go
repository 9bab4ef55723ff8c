package ir

import (
	"testing"

	"github.com/go-hostgen/hostgen/wit"
)

func mustName(s string) *string { return &s }

func TestBuild_StandaloneImportAndExport(t *testing.T) {
	world := &wit.World{Name: "greeter"}
	world.Imports.Set("log", &wit.Function{
		Name:   "log",
		Kind:   &wit.Freestanding{},
		Params: []wit.Param{{Name: "message", Type: wit.String{}}},
	})
	world.Exports.Set("greet", &wit.Function{
		Name:    "greet",
		Kind:    &wit.Freestanding{},
		Params:  []wit.Param{{Name: "name", Type: wit.String{}}},
		Results: []wit.Param{{Type: wit.String{}}},
	})
	res := &wit.Resolve{Worlds: []*wit.World{world}}

	imports, exports, err := Build(res, world)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(imports.StandaloneFunctions) != 1 {
		t.Fatalf("StandaloneFunctions = %d, want 1", len(imports.StandaloneFunctions))
	}
	logFn := imports.StandaloneFunctions[0]
	if logFn.HostMethodName != "Log" {
		t.Errorf("HostMethodName = %q, want Log", logFn.HostMethodName)
	}
	if logFn.Return != nil {
		t.Errorf("log has a Return, want nil")
	}
	if len(logFn.Parameters) != 1 || logFn.Parameters[0].HostType.Expr != "string" {
		t.Errorf("log parameters = %+v", logFn.Parameters)
	}

	if imports.InstanceName != "GreeterInstance" {
		t.Errorf("InstanceName = %q, want GreeterInstance", imports.InstanceName)
	}
	if imports.ConstructorName != "NewGreeterFactory" {
		t.Errorf("ConstructorName = %q, want NewGreeterFactory", imports.ConstructorName)
	}

	if len(exports.StandaloneFunctions) != 1 {
		t.Fatalf("export StandaloneFunctions = %d, want 1", len(exports.StandaloneFunctions))
	}
	greetFn := exports.StandaloneFunctions[0]
	if greetFn.HostMethodName != "Greet" {
		t.Errorf("HostMethodName = %q, want Greet", greetFn.HostMethodName)
	}
	if greetFn.Return == nil || greetFn.Return.HostType.Expr != "string" {
		t.Errorf("greet Return = %+v, want string", greetFn.Return)
	}
}

func TestBuild_RejectsMultiResultFunction(t *testing.T) {
	world := &wit.World{Name: "broken"}
	world.Exports.Set("split", &wit.Function{
		Name: "split",
		Kind: &wit.Freestanding{},
		Results: []wit.Param{
			{Name: "head", Type: wit.String{}},
			{Name: "tail", Type: wit.String{}},
		},
	})
	res := &wit.Resolve{Worlds: []*wit.World{world}}

	if _, _, err := Build(res, world); err == nil {
		t.Fatal("Build: expected error for a function with 2 named results, got nil")
	}
}

func TestAnalyzeRecordType(t *testing.T) {
	point := &wit.TypeDef{
		Name: mustName("point"),
		Kind: &wit.Record{
			Fields: []wit.Field{
				{Name: "x", Type: wit.F32{}},
				{Name: "y", Type: wit.F32{}},
			},
		},
	}
	iface := &wit.Interface{
		Name: mustName("geometry"),
	}
	iface.TypeDefs.Set("point", point)
	world := &wit.World{Name: "shapes"}
	world.Imports.Set("geometry", iface)
	res := &wit.Resolve{Worlds: []*wit.World{world}}

	imports, _, err := Build(res, world)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(imports.Interfaces) != 1 {
		t.Fatalf("Interfaces = %d, want 1", len(imports.Interfaces))
	}
	types := imports.Interfaces[0].Types
	if len(types) != 1 {
		t.Fatalf("Types = %d, want 1", len(types))
	}
	if types[0].HostTypeName != "Point" {
		t.Errorf("HostTypeName = %q, want Point", types[0].HostTypeName)
	}
	if types[0].Definition.Kind != TypeDefinitionRecord {
		t.Fatalf("Kind = %v, want TypeDefinitionRecord", types[0].Definition.Kind)
	}
	if len(types[0].Definition.Fields) != 2 || types[0].Definition.Fields[0].Type.Expr != "float32" {
		t.Errorf("Fields = %+v", types[0].Definition.Fields)
	}
}
