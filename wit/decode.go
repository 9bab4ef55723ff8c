package wit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/coreos/go-semver/semver"
)

// LoadJSON loads a resolved [WIT] JSON document from path.
// If path is "" or "-", it reads from [os.Stdin].
//
// [WIT]: https://github.com/WebAssembly/component-model/blob/main/design/mvp/WIT.md
func LoadJSON(path string) (*Resolve, error) {
	if path == "" || path == "-" {
		return DecodeJSON(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeJSON(f)
}

// ParseWIT decodes a resolved WIT JSON document held in buf.
// It is equivalent to calling [DecodeJSON] on a reader over buf.
func ParseWIT(buf []byte) (*Resolve, error) {
	return decodeWire(buf)
}

// DecodeJSON decodes a resolved WIT JSON document from r, as produced by
// a WIT resolver (e.g. `wasm-tools component wit -j`). This decoder
// implements the subset of that schema the data model in this package
// represents.
func DecodeJSON(r io.Reader) (*Resolve, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decodeWire(buf)
}

// wire mirrors the arena-indexed JSON shape a WIT resolver emits: flat
// arrays of worlds/interfaces/types/packages, cross-referenced by integer
// index rather than pointer.
type wire struct {
	Worlds     []wireWorld     `json:"worlds"`
	Interfaces []wireInterface `json:"interfaces"`
	Types      []wireTypeDef   `json:"types"`
	Packages   []wirePackage   `json:"packages"`
}

type wireWorld struct {
	Name    string               `json:"name"`
	Package *int                 `json:"package"`
	Imports map[string]wireItem  `json:"imports"`
	Exports map[string]wireItem  `json:"exports"`
	Docs    wireDocs             `json:"docs"`
}

type wireItem struct {
	Interface *int          `json:"interface"`
	Type      *int          `json:"type"`
	Function  *wireFunction `json:"function"`
}

type wireInterface struct {
	Name      *string                  `json:"name"`
	Package   *int                     `json:"package"`
	TypeDefs  map[string]int           `json:"types"`
	Functions map[string]wireFunction  `json:"functions"`
	Docs      wireDocs                 `json:"docs"`
}

type wireTypeDef struct {
	Name  *string    `json:"name"`
	Owner wireOwner  `json:"owner"`
	Kind  wireKind   `json:"kind"`
	Docs  wireDocs   `json:"docs"`
}

type wireOwner struct {
	World     *int `json:"world"`
	Interface *int `json:"interface"`
}

// wireKind is a tagged union over every TypeDefKind this package models.
// Exactly one field is populated, selected by Tag.
type wireKind struct {
	Tag string `json:"tag"`

	Record  *wireRecordKind  `json:"record,omitempty"`
	Variant *wireVariantKind `json:"variant,omitempty"`
	Enum    *wireEnumKind    `json:"enum,omitempty"`
	Flags   *wireFlagsKind   `json:"flags,omitempty"`
	Tuple   *wireTupleKind   `json:"tuple,omitempty"`
	Option  *wireTypeRef     `json:"option,omitempty"`
	Result  *wireResultKind  `json:"result,omitempty"`
	List    *wireTypeRef     `json:"list,omitempty"`
	Own     *int             `json:"own,omitempty"`
	Borrow  *int             `json:"borrow,omitempty"`
	Type    *wireTypeRef     `json:"type,omitempty"`
}

type wireRecordKind struct {
	Fields []wireField `json:"fields"`
}

type wireField struct {
	Name string      `json:"name"`
	Type wireTypeRef `json:"type"`
	Docs wireDocs    `json:"docs"`
}

type wireVariantKind struct {
	Cases []wireCase `json:"cases"`
}

type wireCase struct {
	Name string       `json:"name"`
	Type *wireTypeRef `json:"type"`
	Docs wireDocs     `json:"docs"`
}

type wireEnumKind struct {
	Cases []wireEnumCase `json:"cases"`
}

type wireEnumCase struct {
	Name string   `json:"name"`
	Docs wireDocs `json:"docs"`
}

type wireFlagsKind struct {
	Flags []wireFlag `json:"flags"`
}

type wireFlag struct {
	Name string   `json:"name"`
	Docs wireDocs `json:"docs"`
}

type wireTupleKind struct {
	Types []wireTypeRef `json:"types"`
}

type wireResultKind struct {
	OK  *wireTypeRef `json:"ok"`
	Err *wireTypeRef `json:"err"`
}

// wireTypeRef is either a named reference (by arena index) or an inline
// primitive spelled by name, e.g. "u32" or "string".
type wireTypeRef struct {
	Id        *int   `json:"id,omitempty"`
	Primitive string `json:"primitive,omitempty"`
}

type wireFunction struct {
	Name    string       `json:"name"`
	Params  []wireParam  `json:"params"`
	Results []wireParam  `json:"results"`
	Docs    wireDocs     `json:"docs"`
}

type wireParam struct {
	Name string      `json:"name"`
	Type wireTypeRef `json:"type"`
}

type wirePackage struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Version   string `json:"version"`
}

type wireDocs struct {
	Contents string `json:"contents"`
}

func decodeWire(buf []byte) (*Resolve, error) {
	var w wire
	if err := json.Unmarshal(buf, &w); err != nil {
		return nil, fmt.Errorf("decoding WIT JSON: %w", err)
	}

	r := &Resolve{}

	// Packages first: no forward references.
	for _, wp := range w.Packages {
		pkg := &Package{Name: Ident{Namespace: wp.Namespace, Package: wp.Name}}
		if wp.Version != "" {
			if v, err := semver.NewVersion(wp.Version); err == nil {
				pkg.Name.Version = v
			}
		}
		r.Packages = append(r.Packages, pkg)
	}

	// Allocate every TypeDef up front so cross-references resolve regardless
	// of declaration order, then fill in each Kind in a second pass.
	r.TypeDefs = make([]*TypeDef, len(w.Types))
	for i := range w.Types {
		r.TypeDefs[i] = &TypeDef{}
	}
	r.Interfaces = make([]*Interface, len(w.Interfaces))
	for i := range w.Interfaces {
		r.Interfaces[i] = &Interface{}
	}

	resolveRef := func(ref wireTypeRef) (Type, error) {
		if ref.Primitive != "" {
			return ParseType(ref.Primitive)
		}
		if ref.Id == nil {
			return nil, fmt.Errorf("%w: empty type reference", ErrResolverInconsistency)
		}
		if *ref.Id < 0 || *ref.Id >= len(r.TypeDefs) {
			return nil, fmt.Errorf("%w: type id %d out of range", ErrResolverInconsistency, *ref.Id)
		}
		return r.TypeDefs[*ref.Id], nil
	}

	decodeFunction := func(wf wireFunction) (*Function, error) {
		f := &Function{Name: wf.Name, Kind: &Freestanding{}, Docs: Docs(wf.Docs)}
		for _, wp := range wf.Params {
			t, err := resolveRef(wp.Type)
			if err != nil {
				return nil, err
			}
			f.Params = append(f.Params, Param{Name: wp.Name, Type: t})
		}
		for _, wp := range wf.Results {
			t, err := resolveRef(wp.Type)
			if err != nil {
				return nil, err
			}
			f.Results = append(f.Results, Param{Name: wp.Name, Type: t})
		}
		return f, nil
	}

	for i, wt := range w.Types {
		td := r.TypeDefs[i]
		td.Name = wt.Name
		td.Docs = Docs(wt.Docs)
		if wt.Owner.Interface != nil {
			if *wt.Owner.Interface < 0 || *wt.Owner.Interface >= len(r.Interfaces) {
				return nil, fmt.Errorf("%w: interface owner %d out of range", ErrResolverInconsistency, *wt.Owner.Interface)
			}
			td.Owner = r.Interfaces[*wt.Owner.Interface]
		}
		kind, err := decodeKind(wt.Kind, resolveRef)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", td.TypeName(), err)
		}
		td.Kind = kind
	}

	for i, wi := range w.Interfaces {
		iface := r.Interfaces[i]
		iface.Name = wi.Name
		iface.Docs = Docs(wi.Docs)
		if wi.Package != nil && *wi.Package >= 0 && *wi.Package < len(r.Packages) {
			iface.Package = r.Packages[*wi.Package]
		}
		for name, id := range wi.TypeDefs {
			if id < 0 || id >= len(r.TypeDefs) {
				return nil, fmt.Errorf("%w: interface %q references type id %d out of range", ErrResolverInconsistency, name, id)
			}
			iface.TypeDefs.Set(name, r.TypeDefs[id])
		}
		for name, wf := range wi.Functions {
			f, err := decodeFunction(wf)
			if err != nil {
				return nil, err
			}
			iface.Functions.Set(name, f)
		}
	}

	for _, ww := range w.Worlds {
		world := &World{Name: ww.Name, Docs: Docs(ww.Docs)}
		if ww.Package != nil && *ww.Package >= 0 && *ww.Package < len(r.Packages) {
			world.Package = r.Packages[*ww.Package]
		}
		if err := decodeItems(ww.Imports, &world.Imports, r, decodeFunction); err != nil {
			return nil, err
		}
		if err := decodeItems(ww.Exports, &world.Exports, r, decodeFunction); err != nil {
			return nil, err
		}
		r.Worlds = append(r.Worlds, world)
	}

	return r, nil
}

func decodeItems(src map[string]wireItem, dst *orderedMap[WorldItem], r *Resolve, decodeFunction func(wireFunction) (*Function, error)) error {
	for name, item := range src {
		switch {
		case item.Interface != nil:
			if *item.Interface < 0 || *item.Interface >= len(r.Interfaces) {
				return fmt.Errorf("%w: world item %q references interface %d out of range", ErrResolverInconsistency, name, *item.Interface)
			}
			dst.Set(name, r.Interfaces[*item.Interface])
		case item.Type != nil:
			if *item.Type < 0 || *item.Type >= len(r.TypeDefs) {
				return fmt.Errorf("%w: world item %q references type %d out of range", ErrResolverInconsistency, name, *item.Type)
			}
			dst.Set(name, r.TypeDefs[*item.Type])
		case item.Function != nil:
			f, err := decodeFunction(*item.Function)
			if err != nil {
				return err
			}
			dst.Set(name, f)
		default:
			return fmt.Errorf("%w: world item %q has no interface, type, or function", ErrResolverInconsistency, name)
		}
	}
	return nil
}

func decodeKind(k wireKind, resolveRef func(wireTypeRef) (Type, error)) (TypeDefKind, error) {
	switch k.Tag {
	case "record":
		if k.Record == nil {
			return nil, fmt.Errorf("%w: record kind missing fields", ErrResolverInconsistency)
		}
		rec := &Record{Fields: make([]Field, len(k.Record.Fields))}
		for i, wf := range k.Record.Fields {
			t, err := resolveRef(wf.Type)
			if err != nil {
				return nil, err
			}
			rec.Fields[i] = Field{Name: wf.Name, Type: t, Docs: Docs(wf.Docs)}
		}
		return rec, nil
	case "enum":
		if k.Enum == nil {
			return nil, fmt.Errorf("%w: enum kind missing cases", ErrResolverInconsistency)
		}
		e := &Enum{Cases: make([]EnumCase, len(k.Enum.Cases))}
		for i, wc := range k.Enum.Cases {
			e.Cases[i] = EnumCase{Name: wc.Name, Docs: Docs(wc.Docs)}
		}
		return e, nil
	case "variant":
		if k.Variant == nil {
			return nil, fmt.Errorf("%w: variant kind missing cases", ErrResolverInconsistency)
		}
		v := &Variant{Cases: make([]Case, len(k.Variant.Cases))}
		for i, wc := range k.Variant.Cases {
			c := Case{Name: wc.Name, Docs: Docs(wc.Docs)}
			if wc.Type != nil {
				t, err := resolveRef(*wc.Type)
				if err != nil {
					return nil, err
				}
				c.Type = t
			}
			v.Cases[i] = c
		}
		return v, nil
	case "flags":
		if k.Flags == nil {
			return nil, fmt.Errorf("%w: flags kind missing flags", ErrResolverInconsistency)
		}
		fl := &Flags{Flags: make([]Flag, len(k.Flags.Flags))}
		for i, wf := range k.Flags.Flags {
			fl.Flags[i] = Flag{Name: wf.Name, Docs: Docs(wf.Docs)}
		}
		return fl, nil
	case "tuple":
		if k.Tuple == nil {
			return nil, fmt.Errorf("%w: tuple kind missing types", ErrResolverInconsistency)
		}
		tup := &Tuple{Types: make([]Type, len(k.Tuple.Types))}
		for i, wt := range k.Tuple.Types {
			t, err := resolveRef(wt)
			if err != nil {
				return nil, err
			}
			tup.Types[i] = t
		}
		return tup, nil
	case "option":
		if k.Option == nil {
			return nil, fmt.Errorf("%w: option kind missing type", ErrResolverInconsistency)
		}
		t, err := resolveRef(*k.Option)
		if err != nil {
			return nil, err
		}
		return &Option{Type: t}, nil
	case "result":
		if k.Result == nil {
			return nil, fmt.Errorf("%w: result kind missing ok/err", ErrResolverInconsistency)
		}
		res := &Result{}
		if k.Result.OK != nil {
			t, err := resolveRef(*k.Result.OK)
			if err != nil {
				return nil, err
			}
			res.OK = t
		}
		if k.Result.Err != nil {
			t, err := resolveRef(*k.Result.Err)
			if err != nil {
				return nil, err
			}
			res.Err = t
		}
		return res, nil
	case "list":
		if k.List == nil {
			return nil, fmt.Errorf("%w: list kind missing element type", ErrResolverInconsistency)
		}
		t, err := resolveRef(*k.List)
		if err != nil {
			return nil, err
		}
		return &List{Type: t}, nil
	case "resource":
		return &Resource{}, nil
	case "own":
		if k.Own == nil {
			return nil, fmt.Errorf("%w: own handle missing resource reference", ErrResolverInconsistency)
		}
		t, err := resolveRef(wireTypeRef{Id: k.Own})
		if err != nil {
			return nil, err
		}
		td, ok := t.(*TypeDef)
		if !ok {
			return nil, fmt.Errorf("%w: own handle target is not a resource TypeDef", ErrResolverInconsistency)
		}
		return &Own{Type: td}, nil
	case "borrow":
		if k.Borrow == nil {
			return nil, fmt.Errorf("%w: borrow handle missing resource reference", ErrResolverInconsistency)
		}
		t, err := resolveRef(wireTypeRef{Id: k.Borrow})
		if err != nil {
			return nil, err
		}
		td, ok := t.(*TypeDef)
		if !ok {
			return nil, fmt.Errorf("%w: borrow handle target is not a resource TypeDef", ErrResolverInconsistency)
		}
		return &Borrow{Type: td}, nil
	case "type":
		if k.Type == nil {
			return nil, fmt.Errorf("%w: type alias missing target", ErrResolverInconsistency)
		}
		t, err := resolveRef(*k.Type)
		if err != nil {
			return nil, err
		}
		if td, ok := t.(*TypeDef); ok {
			return td, nil
		}
		return &_aliasPrimitive{Type: t}, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized type kind %q", ErrUnsupportedTypeDef, k.Tag)
	}
}

// _aliasPrimitive wraps a primitive [Type] so that `type X = T` alias kinds
// (invariant 4: only Type::Id self-references are skipped, every other
// alias produces a TypeDefinition::Alias) have a concrete TypeDefKind to
// carry the underlying primitive through the IR builder.
type _aliasPrimitive struct {
	_typeDefKind
	Type Type
}

func (a *_aliasPrimitive) Size() uintptr      { return a.Type.Size() }
func (a *_aliasPrimitive) Align() uintptr     { return a.Type.Align() }
func (a *_aliasPrimitive) Flat() []Type       { return a.Type.Flat() }
func (a *_aliasPrimitive) hasPointer() bool   { return HasPointer(a.Type) }
func (a *_aliasPrimitive) hasBorrow() bool    { return HasBorrow(a.Type) }
func (a *_aliasPrimitive) hasResource() bool { return HasResource(a.Type) }
