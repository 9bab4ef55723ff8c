package wit

import "errors"

// Sentinel errors identifying the error kinds the core generator can
// surface. Concrete error values wrap one of these with
// errors.Wrap-style formatting so callers can classify a failure with
// errors.Is without depending on its message text.
var (
	// ErrUnsupportedTypeDef marks a type constructor not yet implemented
	// by the IR builder or ABI visitor.
	ErrUnsupportedTypeDef = errors.New("unsupported type definition")

	// ErrUnsupportedWasmSignature marks a Wasm function signature the
	// core cannot represent, such as more than one flattened result.
	ErrUnsupportedWasmSignature = errors.New("unsupported wasm signature")

	// ErrNameCollision marks two distinct IDL names that normalize to the
	// same host identifier at the same visibility.
	ErrNameCollision = errors.New("identifier collision")

	// ErrMissingName marks an interface or named type that lacks the name
	// the IR requires.
	ErrMissingName = errors.New("missing name")

	// ErrResolverInconsistency marks an input Resolve that violates an
	// assumed invariant: a dangling id, or a cycle in a non-recursive
	// position.
	ErrResolverInconsistency = errors.New("resolver inconsistency")
)
