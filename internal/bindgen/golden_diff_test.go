package bindgen

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/go-hostgen/hostgen/wit"
)

// TestGo_Deterministic regenerates the same world twice and asserts
// byte-identical output: the generator must not depend on map iteration
// order or any other source of nondeterminism, since a regenerated
// binding that drifts from a checked-in golden file on an unrelated
// rebuild is worse than one that simply never matches.
func TestGo_Deterministic(t *testing.T) {
	newResolve := func() *wit.Resolve {
		world := &wit.World{Name: "greeter"}
		world.Exports.Set("greet", &wit.Function{
			Name:    "greet",
			Kind:    &wit.Freestanding{},
			Results: []wit.Param{{Type: wit.String{}}},
		})
		world.Exports.Set("log", &wit.Function{
			Name:    "log",
			Kind:    &wit.Freestanding{},
			Params:  []wit.Param{{Name: "message", Type: wit.String{}}},
			Results: nil,
		})
		return &wit.Resolve{Worlds: []*wit.World{world}}
	}

	render := func() string {
		pkgs, err := Go(newResolve(), GeneratedBy("hostgen"), World("greeter"), PackageRoot("example.com/greeter"))
		if err != nil {
			t.Fatalf("Go: %v", err)
		}
		var out string
		for _, f := range pkgs[0].Files {
			b, err := f.Bytes()
			if err != nil {
				t.Fatalf("Bytes: %v", err)
			}
			out += string(b)
		}
		return out
	}

	first := render()
	second := render()
	if first != second {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(first, second, false)
		t.Fatalf("generated output is nondeterministic:\n%s", dmp.DiffPrettyText(diffs))
	}
}
