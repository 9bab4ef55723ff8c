package ir

import "github.com/go-hostgen/hostgen/wit"

// ErrMissingName and ErrUnsupportedTypeDef are re-exported from [wit] so
// callers of this package can match errors from the IR builder with
// errors.Is without importing wit directly.
var (
	ErrMissingName        = wit.ErrMissingName
	ErrUnsupportedTypeDef = wit.ErrUnsupportedTypeDef
)
