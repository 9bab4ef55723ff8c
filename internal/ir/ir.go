// Package ir builds the intermediate representation consumed by the
// host-function builder, factory emitter, and module root emitter: a
// flattened, ordered, named mirror of a resolved WIT world's imports and
// exports.
package ir

import (
	"fmt"

	"github.com/go-hostgen/hostgen/internal/hosttype"
	"github.com/go-hostgen/hostgen/internal/identmint"
	"github.com/go-hostgen/hostgen/wit"
)

// TypeDefinitionKind discriminates the shape of an [AnalyzedType].
type TypeDefinitionKind int

const (
	TypeDefinitionRecord TypeDefinitionKind = iota
	TypeDefinitionEnum
	TypeDefinitionVariant
	TypeDefinitionAlias
	TypeDefinitionPrimitive
)

// TypeDefinition is the analyzed shape of a named WIT type.
type TypeDefinition struct {
	Kind TypeDefinitionKind

	// Fields holds Record field definitions, in declared order.
	Fields []RecordField

	// Cases holds Enum case names, in declared order; ordinal value is
	// the slice index.
	Cases []string

	// VariantCases holds Variant case definitions, in declared order.
	VariantCases []VariantCase

	// Alias holds the aliased Go type for TypeDefinitionAlias.
	Alias hosttype.GoType
}

// RecordField is one field of an analyzed Record.
type RecordField struct {
	Name     string
	HostName string
	Type     hosttype.GoType
}

// VariantCase is one case of an analyzed Variant.
type VariantCase struct {
	Name     string
	HostName string
	Payload  *hosttype.GoType
}

// AnalyzedType is a named WIT type def, resolved to its Go declaration
// shape.
type AnalyzedType struct {
	Name         string
	HostTypeName string
	Definition   TypeDefinition
}

// Parameter is an analyzed function parameter.
type Parameter struct {
	Name     string
	HostName string
	HostType hosttype.GoType
	WITType  wit.Type
}

// Return is an analyzed function result.
type Return struct {
	HostType hosttype.GoType
	WITType  wit.Type
}

// InterfaceMethod is an analyzed function belonging to an interface, or a
// standalone world-level function.
type InterfaceMethod struct {
	Name           string
	HostMethodName string
	Parameters     []Parameter
	Return         *Return
	WITFunction    *wit.Function
}

// AnalyzedInterface is one imported or exported interface.
type AnalyzedInterface struct {
	Name                string
	Methods             []InterfaceMethod
	Types               []AnalyzedType
	ConstructorParamName string
	HostInterfaceName   string
	WasmModuleName      string
}

// AnalyzedImports is the full IR for a world's import side.
type AnalyzedImports struct {
	Interfaces          []AnalyzedInterface
	StandaloneTypes     []AnalyzedType
	StandaloneFunctions []InterfaceMethod
	FactoryName         string
	InstanceName        string
	ConstructorName     string
}

// AnalyzedExports is the full IR for a world's export side. It shares
// AnalyzedImports' shape; factory/instance/constructor names are shared
// with the import side since both describe the same world.
type AnalyzedExports struct {
	Interfaces          []AnalyzedInterface
	StandaloneTypes     []AnalyzedType
	StandaloneFunctions []InterfaceMethod
}

// Build analyzes world's imports and exports into an [AnalyzedImports] and
// an [AnalyzedExports]. world must already have been differentiated via
// [wit.Resolve.Differentiate].
func Build(res *wit.Resolve, world *wit.World) (*AnalyzedImports, *AnalyzedExports, error) {
	a := &analyzer{res: res}

	imports := &AnalyzedImports{
		FactoryName:     identmint.Private("new-" + world.Name + "-factory").Name,
		InstanceName:    identmint.Public(world.Name + "-instance").Name,
		ConstructorName: identmint.Public("new-" + world.Name + "-factory").Name,
	}
	exports := &AnalyzedExports{}

	var buildErr error
	world.Imports.All()(func(_ string, item wit.WorldItem) bool {
		switch item := item.(type) {
		case *wit.Interface:
			ai, err := a.analyzeInterface(item)
			if err != nil {
				buildErr = err
				return false
			}
			imports.Interfaces = append(imports.Interfaces, *ai)
		case *wit.TypeDef:
			at, skip, err := a.analyzeStandaloneType(item)
			if err != nil {
				buildErr = err
				return false
			}
			if !skip {
				imports.StandaloneTypes = append(imports.StandaloneTypes, *at)
			}
		case *wit.Function:
			m, err := a.analyzeFunction(item)
			if err != nil {
				buildErr = err
				return false
			}
			imports.StandaloneFunctions = append(imports.StandaloneFunctions, *m)
		}
		return true
	})
	if buildErr != nil {
		return nil, nil, buildErr
	}

	world.Exports.All()(func(_ string, item wit.WorldItem) bool {
		switch item := item.(type) {
		case *wit.Interface:
			ai, err := a.analyzeInterface(item)
			if err != nil {
				buildErr = err
				return false
			}
			exports.Interfaces = append(exports.Interfaces, *ai)
		case *wit.Function:
			m, err := a.analyzeFunction(item)
			if err != nil {
				buildErr = err
				return false
			}
			exports.StandaloneFunctions = append(exports.StandaloneFunctions, *m)
		}
		return true
	})
	if buildErr != nil {
		return nil, nil, buildErr
	}

	return imports, exports, nil
}

type analyzer struct {
	res *wit.Resolve
}

func (a *analyzer) analyzeInterface(i *wit.Interface) (*AnalyzedInterface, error) {
	if i.Name == nil {
		return nil, fmt.Errorf("%w: interface with no name", ErrMissingName)
	}
	name := *i.Name

	ai := &AnalyzedInterface{
		Name:                 name,
		ConstructorParamName: identmint.Private(name).Name,
		HostInterfaceName:    identmint.Public(name).Name,
		WasmModuleName:       wasmModuleName(i),
	}

	var err error
	i.Functions.All()(func(_ string, f *wit.Function) bool {
		var m *InterfaceMethod
		m, err = a.analyzeFunction(f)
		if err != nil {
			return false
		}
		ai.Methods = append(ai.Methods, *m)
		return true
	})
	if err != nil {
		return nil, err
	}

	i.TypeDefs.All()(func(_ string, t *wit.TypeDef) bool {
		var at *AnalyzedType
		var skip bool
		at, skip, err = a.analyzeStandaloneType(t)
		if err != nil {
			return false
		}
		if !skip {
			ai.Types = append(ai.Types, *at)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	return ai, nil
}

// analyzeStandaloneType analyzes a named [wit.TypeDef]. It returns
// skip=true for a TypeDefKind::Type(Type::Id) self-reference, which would
// otherwise generate a self-referential `type Foo = Foo` alias (invariant
// 4; P3).
func (a *analyzer) analyzeStandaloneType(t *wit.TypeDef) (*AnalyzedType, bool, error) {
	if td, ok := t.Kind.(*wit.TypeDef); ok && td.Name != nil {
		return nil, true, nil
	}

	if t.Name == nil {
		return nil, false, fmt.Errorf("%w: unnamed type definition", ErrMissingName)
	}
	name := *t.Name
	hostName := identmint.Public(name).Name

	def, err := a.analyzeTypeDefinition(t)
	if err != nil {
		return nil, false, err
	}

	return &AnalyzedType{Name: name, HostTypeName: hostName, Definition: def}, false, nil
}

func (a *analyzer) analyzeTypeDefinition(t *wit.TypeDef) (TypeDefinition, error) {
	switch k := t.Kind.(type) {
	case *wit.Record:
		fields := make([]RecordField, len(k.Fields))
		for i, f := range k.Fields {
			rf := RecordField{Name: f.Name, HostName: identmint.Public(f.Name).Name}
			gt, err := hosttype.ResolveType(f.Type, a.res)
			if err != nil {
				return TypeDefinition{}, err
			}
			rf.Type = gt
			fields[i] = rf
		}
		return TypeDefinition{Kind: TypeDefinitionRecord, Fields: fields}, nil

	case *wit.Enum:
		cases := make([]string, len(k.Cases))
		for i, c := range k.Cases {
			cases[i] = c.Name
		}
		return TypeDefinition{Kind: TypeDefinitionEnum, Cases: cases}, nil

	case *wit.Variant:
		cases := make([]VariantCase, len(k.Cases))
		for i, c := range k.Cases {
			vc := VariantCase{Name: c.Name, HostName: identmint.Public(c.Name).Name}
			if c.Type != nil {
				if gt, err := hosttype.ResolveType(c.Type, a.res); err == nil {
					vc.Payload = &gt
				}
			}
			cases[i] = vc
		}
		return TypeDefinition{Kind: TypeDefinitionVariant, VariantCases: cases}, nil

	case *wit.Flags:
		cases := make([]string, len(k.Flags))
		for i, f := range k.Flags {
			cases[i] = f.Name
		}
		return TypeDefinition{Kind: TypeDefinitionEnum, Cases: cases}, nil

	default:
		// Everything else is an alias over a primitive-shaped kind
		// (TypeDefinition::Alias): t.Kind is not itself a named
		// Record/Enum/Variant/Flags/TypeDef, so resolve its Go
		// representation directly.
		gt, err := hosttype.ResolveType(t, a.res)
		if err != nil {
			return TypeDefinition{}, err
		}
		return TypeDefinition{Kind: TypeDefinitionAlias, Alias: gt}, nil
	}
}

func (a *analyzer) analyzeFunction(f *wit.Function) (*InterfaceMethod, error) {
	m := &InterfaceMethod{
		Name:           f.Name,
		HostMethodName: identmint.Public(f.Name).Name,
		WITFunction:    f,
	}
	for _, p := range f.Params {
		gt, err := hosttype.ResolveType(p.Type, a.res)
		if err != nil {
			return nil, err
		}
		m.Parameters = append(m.Parameters, Parameter{
			Name:     p.Name,
			HostName: identmint.Private(p.Name).Name,
			HostType: gt,
			WITType:  p.Type,
		})
	}
	if len(f.Results) == 1 {
		gt, err := hosttype.ResolveType(f.Results[0].Type, a.res)
		if err != nil {
			return nil, err
		}
		m.Return = &Return{HostType: gt, WITType: f.Results[0].Type}
	} else if len(f.Results) > 1 {
		return nil, fmt.Errorf("%w: function %q has %d named results, indirect return is unsupported", wit.ErrUnsupportedWasmSignature, f.Name, len(f.Results))
	}
	return m, nil
}

func wasmModuleName(i *wit.Interface) string {
	name := ""
	if i.Name != nil {
		name = *i.Name
	}
	if i.Package == nil {
		return name
	}
	pkg := i.Package.Name
	return pkg.Namespace + ":" + pkg.Package + "/" + name
}
