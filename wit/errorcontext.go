package wit

// ErrorContext represents the WIT [primitive type] error-context, an opaque
// handle carrying diagnostic information for an async operation. It is part
// of [WASI Preview 3]. The type resolver maps it to uint32, and the ABI
// visitor lifts and lowers it as a single i32 word.
//
// [primitive type]: https://component-model.bytecodealliance.org/design/wit.html#primitive-types
// [WASI Preview 3]: https://bytecodealliance.org/articles/webassembly-the-updated-roadmap-for-developers
type ErrorContext struct{ _type }

// Size returns the [ABI byte size] for [ErrorContext]: an opaque i32 handle.
//
// [ABI byte size]: https://github.com/WebAssembly/component-model/blob/main/design/mvp/CanonicalABI.md#size
func (ErrorContext) Size() uintptr { return 4 }

// Align returns the [ABI byte alignment] for [ErrorContext].
//
// [ABI byte alignment]: https://github.com/WebAssembly/component-model/blob/main/design/mvp/CanonicalABI.md#alignment
func (ErrorContext) Align() uintptr { return 4 }

// Flat returns the [flattened] ABI representation of [ErrorContext].
//
// [flattened]: https://github.com/WebAssembly/component-model/blob/main/design/mvp/CanonicalABI.md#flattening
func (ErrorContext) Flat() []Type { return []Type{U32{}} }

func (ErrorContext) hasPointer() bool  { return false }
func (ErrorContext) hasBorrow() bool   { return false }
func (ErrorContext) hasResource() bool { return false }
