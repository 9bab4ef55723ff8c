// Package bindgen orchestrates the core's components into the final
// generated Go package: it builds the IR ([ir.Build]) for the selected
// world, renders its types ([identmint], [hosttype]), its host-function
// registrations ([hostfunc]) and ABI wrappers ([abi]), and its factory
// and instance types ([factory]), then assembles the result into a
// [gen.Package] ready for [gen.File.Bytes].
package bindgen

import (
	"fmt"
	"strings"

	"github.com/go-hostgen/hostgen/internal/factory"
	"github.com/go-hostgen/hostgen/internal/go/gen"
	"github.com/go-hostgen/hostgen/internal/identmint"
	"github.com/go-hostgen/hostgen/internal/ir"
	"github.com/go-hostgen/hostgen/internal/stringio"
	"github.com/go-hostgen/hostgen/wit"
)

// Go generates the Go host integration layer for a world in res,
// returning one [gen.Package] per Go package produced. Currently a
// single package is produced, rooted at the configured or derived
// package path.
func Go(res *wit.Resolve, opts ...Option) ([]*gen.Package, error) {
	cfg := newConfig(opts...)

	if err := res.Differentiate(); err != nil {
		return nil, fmt.Errorf("differentiating imports and exports: %w", err)
	}

	world, err := selectWorld(res, cfg.world)
	if err != nil {
		return nil, err
	}
	cfg.logger.Info("selected world", "world", world.Name)

	imports, exports, err := ir.Build(res, world)
	if err != nil {
		return nil, fmt.Errorf("building IR for world %q: %w", world.Name, err)
	}

	pkgPath := cfg.pkgRoot
	if pkgPath == "" {
		pkgPath = derivePackagePath(world, cfg.versioned)
	}
	pkg := gen.NewPackage(pkgPath)

	implTypeName := identmint.Public(world.Name + "-imports").Name
	fty, inst, err := factory.Build(res, "runtime", imports, exports, implTypeName)
	if err != nil {
		return nil, fmt.Errorf("building factory and instance for world %q: %w", world.Name, err)
	}

	file := pkg.File(identmint.Private(world.Name).Name + ".wit.go")
	file.GeneratedBy = cfg.generatedBy
	file.PackageDocs = fmt.Sprintf("Package %s provides the host integration layer for the %q world.", pkg.Name, world.Name)

	ctxImport := file.Import("context")
	fmtImport := file.Import("fmt")
	wazeroImport := file.Import("github.com/tetratelabs/wazero")
	apiImport := file.Import("github.com/tetratelabs/wazero/api")

	var b strings.Builder
	writeTypes(&b, imports.StandaloneTypes)
	for i := range imports.Interfaces {
		writeInterfaceContract(&b, &imports.Interfaces[i])
		writeTypes(&b, imports.Interfaces[i].Types)
	}
	writeTypes(&b, exports.StandaloneTypes)
	for i := range exports.Interfaces {
		writeTypes(&b, exports.Interfaces[i].Types)
	}

	fmt.Fprintf(&b, "// %s implements the host side of world %q: it compiles the guest\n", implTypeName, world.Name)
	b.WriteString("// module and registers host functions satisfying every imported interface.\n")
	fmt.Fprintf(&b, "type %s struct {\n", implTypeName)
	for i := range imports.Interfaces {
		iface := &imports.Interfaces[i]
		fmt.Fprintf(&b, "\t%s %s\n", iface.ConstructorParamName, iface.HostInterfaceName)
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// %s compiles wasmBytes and prepares it to satisfy world %q's imports\n", fty.TypeName, world.Name)
	b.WriteString("// against impl.\n")
	fmt.Fprintf(&b, "type %s struct {\n", fty.TypeName)
	fmt.Fprintf(&b, "\truntime  %s.Runtime\n", wazeroImport)
	fmt.Fprintf(&b, "\tcompiled %s.CompiledModule\n", wazeroImport)
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func %s(ctx %s.Context, runtime %s.Runtime, %s %s, wasmBytes []byte) (*%s, error) {\n",
		fty.ConstructorName, ctxImport, wazeroImport, fty.ImplParamName, fty.ImplTypeName, fty.TypeName)
	for _, reg := range fty.Registrations {
		for _, stmt := range reg.Stmts {
			fmt.Fprintf(&b, "\t%s\n", stmt)
		}
	}
	fmt.Fprintf(&b, "\tcompiled, err := runtime.CompileModule(ctx, wasmBytes)\n")
	fmt.Fprintf(&b, "\tif err != nil {\n\t\treturn nil, %s.Errorf(\"compiling module: %%w\", err)\n\t}\n", fmtImport)
	fmt.Fprintf(&b, "\treturn &%s{runtime: runtime, compiled: compiled}, nil\n", fty.TypeName)
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// %s wraps one instantiation of the guest module.\n", inst.TypeName)
	fmt.Fprintf(&b, "type %s struct {\n\tmod %s.Module\n}\n\n", inst.TypeName, apiImport)

	fmt.Fprintf(&b, "func (f *%s) Instantiate(ctx %s.Context) (*%s, error) {\n", fty.TypeName, ctxImport, inst.TypeName)
	fmt.Fprintf(&b, "\tmod, err := f.runtime.InstantiateModule(ctx, f.compiled, %s.NewModuleConfig())\n", wazeroImport)
	fmt.Fprintf(&b, "\tif err != nil {\n\t\treturn nil, %s.Errorf(\"instantiating module: %%w\", err)\n\t}\n", fmtImport)
	fmt.Fprintf(&b, "\treturn &%s{mod: mod}, nil\n", inst.TypeName)
	b.WriteString("}\n\n")

	needsAlloc := false
	for _, reg := range fty.Registrations {
		for _, stmt := range reg.Stmts {
			if strings.Contains(stmt, "allocGuestBytes(") {
				needsAlloc = true
			}
		}
	}
	for _, m := range inst.Methods {
		b.WriteString(m.Source)
		b.WriteString("\n\n")
		if strings.Contains(m.Source, "allocGuestBytes(") {
			needsAlloc = true
		}
	}

	if needsAlloc {
		writeAllocGuestBytes(&b, ctxImport, apiImport, fmtImport)
	}

	file.Content = []byte(b.String())
	return []*gen.Package{pkg}, nil
}

func selectWorld(res *wit.Resolve, name string) (*wit.World, error) {
	if name != "" {
		for _, w := range res.Worlds {
			if w.Name == name {
				return w, nil
			}
		}
		return nil, fmt.Errorf("world %q not found", name)
	}
	if len(res.Worlds) == 1 {
		return res.Worlds[0], nil
	}
	return nil, fmt.Errorf("resolve declares %d worlds, specify one with World(name)", len(res.Worlds))
}

func derivePackagePath(world *wit.World, versioned bool) string {
	if world.Package == nil {
		return identmint.Private(world.Name).Name
	}
	ident := world.Package.Name
	path := ident.Namespace + "/" + ident.Package
	if versioned && ident.Version != nil {
		path += "/v" + ident.Version.String()
	}
	return path
}

func writeInterfaceContract(b *strings.Builder, iface *ir.AnalyzedInterface) {
	fmt.Fprintf(b, "// %s is the host-side contract for the %q interface.\n", iface.HostInterfaceName, iface.WasmModuleName)
	fmt.Fprintf(b, "type %s interface {\n", iface.HostInterfaceName)
	for _, m := range iface.Methods {
		fmt.Fprintf(b, "\t%s(%s)", m.HostMethodName, paramList(m.Parameters))
		if m.Return != nil {
			fmt.Fprintf(b, " %s", m.Return.HostType.Expr)
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func paramList(params []ir.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s %s", p.HostName, p.HostType.Expr)
	}
	return strings.Join(parts, ", ")
}

// writeAllocGuestBytes emits the helper string lowering calls to allocate
// guest-owned memory before writing into it: it invokes the guest's
// exported cabi_realloc(orig_ptr, orig_size, align, new_size) -> ptr the
// way the Canonical ABI specifies for allocating fresh memory (orig_ptr
// and orig_size zero), then copies data into the returned region.
func writeAllocGuestBytes(b *strings.Builder, ctxImport, apiImport, fmtImport string) {
	fmt.Fprintf(b, "func allocGuestBytes(ctx %s.Context, mod %s.Module, data []byte) (uint32, error) {\n", ctxImport, apiImport)
	b.WriteString("\talloc := mod.ExportedFunction(\"cabi_realloc\")\n")
	b.WriteString("\tif alloc == nil {\n")
	fmt.Fprintf(b, "\t\treturn 0, %s.Errorf(\"hostgen: guest module does not export cabi_realloc\")\n", fmtImport)
	b.WriteString("\t}\n")
	b.WriteString("\tresults, err := alloc.Call(ctx, 0, 0, 1, uint64(len(data)))\n")
	b.WriteString("\tif err != nil {\n")
	fmt.Fprintf(b, "\t\treturn 0, %s.Errorf(\"calling cabi_realloc: %%w\", err)\n", fmtImport)
	b.WriteString("\t}\n")
	b.WriteString("\tptr := uint32(results[0])\n")
	b.WriteString("\tif !mod.Memory().Write(ptr, data) {\n")
	fmt.Fprintf(b, "\t\treturn 0, %s.Errorf(\"hostgen: guest memory write out of bounds at %%d\", ptr)\n", fmtImport)
	b.WriteString("\t}\n")
	b.WriteString("\treturn ptr, nil\n")
	b.WriteString("}\n\n")
}

func writeTypes(b *strings.Builder, types []ir.AnalyzedType) {
	for _, t := range types {
		switch t.Definition.Kind {
		case ir.TypeDefinitionRecord:
			fmt.Fprintf(b, "type %s struct {\n", t.HostTypeName)
			for _, f := range t.Definition.Fields {
				fmt.Fprintf(b, "\t%s %s\n", f.HostName, f.Type.Expr)
			}
			b.WriteString("}\n\n")

		case ir.TypeDefinitionEnum:
			fmt.Fprintf(b, "type %s uint32\n\n", t.HostTypeName)
			b.WriteString("const (\n")
			for i, c := range t.Definition.Cases {
				name := identmint.Public(c).Name
				if i == 0 {
					fmt.Fprintf(b, "\t%s %s = iota\n", name, t.HostTypeName)
				} else {
					fmt.Fprintf(b, "\t%s\n", name)
				}
			}
			b.WriteString(")\n\n")

		case ir.TypeDefinitionVariant:
			fmt.Fprintf(b, "// %s is a tagged union; at most one of its payload-bearing\n", t.HostTypeName)
			b.WriteString("// cases applies, selected by Kind.\n")
			fmt.Fprintf(b, "type %s struct {\n", t.HostTypeName)
			fmt.Fprintf(b, "\tKind %sKind\n", t.HostTypeName)
			stringio.Write(b, "\tPayload any\n", "}\n\n")
			fmt.Fprintf(b, "type %sKind uint32\n\n", t.HostTypeName)
			b.WriteString("const (\n")
			for i, c := range t.Definition.VariantCases {
				name := t.HostTypeName + identmint.Public(c.Name).Name
				if i == 0 {
					fmt.Fprintf(b, "\t%s %sKind = iota\n", name, t.HostTypeName)
				} else {
					fmt.Fprintf(b, "\t%s\n", name)
				}
			}
			b.WriteString(")\n\n")

		case ir.TypeDefinitionAlias:
			fmt.Fprintf(b, "type %s = %s\n\n", t.HostTypeName, t.Definition.Alias.Expr)
		}
	}
}
