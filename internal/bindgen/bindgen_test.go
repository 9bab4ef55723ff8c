package bindgen

import (
	"strings"
	"testing"

	"github.com/go-hostgen/hostgen/wit"
)

func TestGo_GreetWorld(t *testing.T) {
	world := &wit.World{Name: "greeter"}
	world.Exports.Set("greet", &wit.Function{
		Name:    "greet",
		Kind:    &wit.Freestanding{},
		Results: []wit.Param{{Type: wit.String{}}},
	})
	res := &wit.Resolve{Worlds: []*wit.World{world}}

	packages, err := Go(res, GeneratedBy("hostgen"), World("greeter"), PackageRoot("example.com/greeter"))
	if err != nil {
		t.Fatalf("Go: %v", err)
	}
	if len(packages) != 1 {
		t.Fatalf("packages = %d, want 1", len(packages))
	}
	pkg := packages[0]
	if pkg.Path != "example.com/greeter" {
		t.Fatalf("Path = %q", pkg.Path)
	}

	var src []byte
	for _, f := range pkg.Files {
		b, err := f.Bytes()
		if err != nil {
			t.Fatalf("Bytes: %v", err)
		}
		src = b
	}
	if len(src) == 0 {
		t.Fatal("no file generated")
	}
	text := string(src)
	if !strings.Contains(text, "package greeter") {
		t.Fatalf("missing package clause:\n%s", text)
	}
	if !strings.Contains(text, "func (inst *GreeterInstance) Greet(ctx context.Context) (string, error) {") {
		t.Fatalf("missing generated Greet method:\n%s", text)
	}
	if !strings.Contains(text, `inst.mod.ExportedFunction("greet")`) {
		t.Fatalf("missing exported function lookup:\n%s", text)
	}
	if !strings.Contains(text, "wazero.Runtime") {
		t.Fatalf("missing wazero import usage:\n%s", text)
	}
}
