package wit

import "fmt"

// Align aligns ptr with alignment align.
func Align(ptr, align uintptr) uintptr {
	// (dividend + divisor - 1) / divisor
	// http://www.cs.nott.ac.uk/~rcb/G51MPC/slides/NumberLogic.pdf
	return ((ptr + align - 1) / align) * align
}

// Discriminant returns the smallest integer type that can represent 0...n-1,
// the case indices of a type with n cases.
func Discriminant(n int) Type {
	switch {
	case n <= 1<<8:
		return U8{}
	case n <= 1<<16:
		return U16{}
	}
	return U32{}
}

// Sized is the interface implemented by any type that reports its [ABI byte size] and [alignment].
//
// [ABI byte size]: https://github.com/WebAssembly/component-model/blob/main/design/mvp/CanonicalABI.md#size
// [alignment]: https://github.com/WebAssembly/component-model/blob/main/design/mvp/CanonicalABI.md#alignment
type Sized interface {
	Size() uintptr
	Align() uintptr
}

type _sized struct{}

func (_sized) Size() uintptr  { panic("BUG: unimplemented") }
func (_sized) Align() uintptr { panic("BUG: unimplemented") }

// Despecializer is the interface implemented by any [TypeDefKind] that can
// [despecialize] itself into another TypeDefKind. Examples include [Result],
// which despecializes into a [Variant] with two cases, "ok" and "error".
// See the [canonical ABI documentation] for more information.
//
// [despecialize]: https://github.com/WebAssembly/component-model/blob/main/design/mvp/CanonicalABI.md#despecialization
// [canonical ABI documentation]: https://github.com/WebAssembly/component-model/blob/main/design/mvp/CanonicalABI.md#despecialization
type Despecializer interface {
	Despecialize() TypeDefKind
}

// Despecialize [despecializes] k if k implements [Despecializer].
// Otherwise, it returns k unmodified.
// See the [canonical ABI documentation] for more information.
//
// [despecializes]: https://github.com/WebAssembly/component-model/blob/main/design/mvp/CanonicalABI.md#despecialization
// [canonical ABI documentation]: https://github.com/WebAssembly/component-model/blob/main/design/mvp/CanonicalABI.md#despecialization
func Despecialize(k TypeDefKind) TypeDefKind {
	if d, ok := k.(Despecializer); ok {
		return d.Despecialize()
	}
	return k
}

// WasmType represents the abstract category of one core WebAssembly value
// produced by flattening an IDL type's Canonical ABI representation.
// Pointer, Length, and PointerOrI64 share a Core Wasm representation with
// I32/I64 but carry distinct roles for the host-language type resolver:
// a Pointer indexes guest linear memory, a Length is an element count, and
// PointerOrI64 is either depending on whether the guest enables the
// memory64 proposal.
type WasmType int

const (
	WasmI32 WasmType = iota
	WasmI64
	WasmF32
	WasmF64
	WasmPointer
	WasmPointerOrI64
	WasmLength
)

// String implements [fmt.Stringer].
func (t WasmType) String() string {
	switch t {
	case WasmI32:
		return "i32"
	case WasmI64:
		return "i64"
	case WasmF32:
		return "f32"
	case WasmF64:
		return "f64"
	case WasmPointer:
		return "pointer"
	case WasmPointerOrI64:
		return "pointer-or-i64"
	case WasmLength:
		return "length"
	default:
		return "unknown"
	}
}

// CoreType classifies a single element of a [Type]'s flattened ([Flat])
// representation into its base [WasmType] category (I32/I64/F32/F64/Pointer).
// Callers that know an element plays a more specific role, such as the
// trailing length word of a lowered string or list, may re-tag it as
// [WasmLength] or [WasmPointerOrI64] themselves.
func CoreType(t Type) WasmType {
	switch t.(type) {
	case *TypeDef: // only produced by PointerTo
		return WasmPointer
	case U64, S64:
		return WasmI64
	case F32:
		return WasmF32
	case F64:
		return WasmF64
	default:
		return WasmI32
	}
}

// AbiVariant selects which side of the Canonical ABI boundary the visitor
// is generating code for.
type AbiVariant int

const (
	// GuestImport generates the host-side implementation of a function the
	// guest component imports.
	GuestImport AbiVariant = iota
	// GuestExport generates the host-side wrapper that calls a function
	// the guest component exports.
	GuestExport
)

// LiftLower selects the direction values move across the boundary for a
// given [AbiVariant].
type LiftLower int

const (
	// LiftArgsLowerResults lifts Wasm arguments into native values and
	// lowers a native result back into Wasm primitives; used for
	// [GuestImport].
	LiftArgsLowerResults LiftLower = iota
	// LowerArgsLiftResults lowers native arguments into Wasm primitives
	// and lifts the Wasm result into a native value; used for
	// [GuestExport].
	LowerArgsLiftResults
)

// WasmSignature is the flattened Core WebAssembly signature of a
// [Function], as produced by [Resolve.WasmSignature].
type WasmSignature struct {
	Variant AbiVariant
	Params  []WasmType
	Results []WasmType
}

// WasmSignature computes the flattened Core WebAssembly signature of f for
// the given [AbiVariant], by concatenating the [Flat] representation of
// every parameter and of the result (if any).
//
// A GuestImport host function is registered through wazero's
// HostFunctionBuilder.WithFunc, which maps a Go function by reflection and
// therefore supports only a single Go return value; a flattened result
// with more than one core value has no such mapping and is rejected here.
// A GuestExport wrapper instead calls the guest through
// api.Function.Call, which already returns a []uint64 of arbitrary
// length, so multi-value flattened results are not rejected for that
// variant.
func (r *Resolve) WasmSignature(variant AbiVariant, f *Function) (WasmSignature, error) {
	sig := WasmSignature{Variant: variant}
	for _, p := range f.Params {
		for _, flat := range p.Type.Flat() {
			sig.Params = append(sig.Params, CoreType(flat))
		}
	}
	for _, res := range f.Results {
		for _, flat := range res.Type.Flat() {
			sig.Results = append(sig.Results, CoreType(flat))
		}
	}
	if variant == GuestImport && len(sig.Results) > 1 {
		return sig, fmt.Errorf("%w: function %q has %d flattened results, indirect return is unsupported for a guest-imported host function",
			ErrUnsupportedWasmSignature, f.Name, len(sig.Results))
	}
	return sig, nil
}
