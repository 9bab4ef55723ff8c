package bindgen

import (
	"go/token"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"golang.org/x/tools/go/packages"

	"github.com/go-hostgen/hostgen/internal/go/gen"
	"github.com/go-hostgen/hostgen/wit"
)

var canGo = sync.OnceValue[bool](func() bool {
	return exec.Command("go", "version").Run() == nil
})

// writeGenerated renders pkg's non-empty files into an in-memory overlay
// keyed by their path under dir; nothing is written to disk.
func writeGenerated(t *testing.T, dir string, pkg *gen.Package) map[string][]byte {
	t.Helper()
	overlay := make(map[string][]byte)
	for name, file := range pkg.Files {
		if !file.HasContent() {
			continue
		}
		src, err := file.Bytes()
		if err != nil {
			t.Fatalf("rendering %s: %v", name, err)
		}
		overlay[filepath.Join(dir, name)] = src
	}
	return overlay
}

// validateGeneratedGo asserts that the Go source bindgen.Go produces for res
// type-checks as a standalone package: every identifier it references
// (context, wazero, api) resolves, and every declaration it emits is
// syntactically well-formed.
func validateGeneratedGo(t *testing.T, res *wit.Resolve, opts ...Option) {
	if !canGo() {
		t.Skip("skipping: no go toolchain on PATH")
	}

	pkgs, err := Go(res, opts...)
	if err != nil {
		t.Fatalf("Go: %v", err)
	}

	dir := t.TempDir()
	for _, pkg := range pkgs {
		if !pkg.HasContent() {
			continue
		}

		overlay := writeGenerated(t, dir, pkg)
		if len(overlay) == 0 {
			continue
		}

		cfg := &packages.Config{
			Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
				packages.NeedImports | packages.NeedDeps | packages.NeedTypes | packages.NeedTypesInfo,
			Dir:     dir,
			Fset:    token.NewFileSet(),
			Overlay: overlay,
		}

		goPkgs, err := packages.Load(cfg, ".")
		if err != nil {
			t.Fatalf("packages.Load: %v", err)
		}
		for _, goPkg := range goPkgs {
			for _, e := range goPkg.Errors {
				t.Errorf("%s: %v", pkg.Path, e)
			}
			for _, e := range goPkg.TypeErrors {
				t.Errorf("%s: %v", pkg.Path, e)
			}
		}
	}
}

func TestValidateGeneratedGo_Greeter(t *testing.T) {
	world := &wit.World{Name: "greeter"}
	world.Exports.Set("greet", &wit.Function{
		Name:    "greet",
		Kind:    &wit.Freestanding{},
		Results: []wit.Param{{Type: wit.String{}}},
	})
	res := &wit.Resolve{Worlds: []*wit.World{world}}

	validateGeneratedGo(t, res, GeneratedBy("hostgen"), World("greeter"), PackageRoot("example.com/greeter"))
}

func TestGo_EmptyWorldKeepsFactoryScaffolding(t *testing.T) {
	// A world with no exports and no imports still renders a loadable,
	// if nearly empty, package: the factory and instance scaffolding is
	// always present regardless of how many functions a world declares.
	world := &wit.World{Name: "empty"}
	res := &wit.Resolve{Worlds: []*wit.World{world}}

	pkgs, err := Go(res, World("empty"), PackageRoot("example.com/empty"))
	if err != nil {
		t.Fatalf("Go: %v", err)
	}
	if len(pkgs) != 1 || !pkgs[0].HasContent() {
		t.Fatalf("expected one non-empty package, got %d", len(pkgs))
	}
	for _, f := range pkgs[0].Files {
		src, err := f.Bytes()
		if err != nil {
			t.Fatalf("Bytes: %v", err)
		}
		if !strings.Contains(string(src), "EmptyInstanceFactory") {
			t.Fatalf("missing factory type in generated source:\n%s", src)
		}
	}
}
