package wit

// Node is the interface implemented by every node in a [Resolve] graph:
// [World], [Interface], [TypeDef], [Function], and their constituent parts.
// It exists so that generic graph helpers (printers, walkers, docs
// extraction) have a single type to dispatch on without a type switch over
// every concrete node kind.
type Node interface {
	isNode()
}

// _node is an embeddable type that conforms to the [Node] interface.
type _node struct{}

func (_node) isNode() {}

// ABI is the interface implemented by any [TypeDefKind] or [Type] that can
// report its own Canonical ABI representation: byte size, byte alignment,
// and flattened primitive signature, plus whether its representation
// contains a linear-memory pointer, a borrowed handle, or a resource handle.
type ABI interface {
	Sized
	Flat() []Type

	hasPointer() bool
	hasBorrow() bool
	hasResource() bool
}

// HasPointer returns true if the ABI representation of k contains a pointer.
func HasPointer(k TypeDefKind) bool {
	if k == nil {
		return false
	}
	return k.hasPointer()
}

// HasBorrow returns true if the ABI representation of k contains a borrowed handle.
func HasBorrow(k TypeDefKind) bool {
	if k == nil {
		return false
	}
	return k.hasBorrow()
}

// HasResource returns true if the ABI representation of k contains a resource handle.
func HasResource(k TypeDefKind) bool {
	if k == nil {
		return false
	}
	return k.hasResource()
}
