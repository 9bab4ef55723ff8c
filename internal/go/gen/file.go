package gen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// File represents a single Go (or assembly) source file belonging to a
// [Package]. It accumulates a package-level doc comment, a deduplicated set
// of imports, and a body, then renders itself to bytes with [File.Bytes].
type File struct {
	// Name is the file's base name, e.g. "types.wit.go".
	Name string

	// Package is the [Package] this file belongs to.
	Package *Package

	// GeneratedBy, if non-empty, is emitted as a "// Code generated by ...
	// DO NOT EDIT." comment at the top of the file.
	GeneratedBy string

	// GoBuild, if non-empty, is emitted as a "//go:build" constraint.
	GoBuild string

	// PackageDocs, if non-empty, is emitted as the package-level doc
	// comment immediately preceding the package clause.
	PackageDocs string

	// Header is emitted verbatim after the package clause and imports.
	Header string

	// Imports maps an import path to its local name in this file. A local
	// name of "_" is a blank import; a local name equal to the default
	// name for its path is omitted from the rendered import spec.
	Imports map[string]string

	// Content is the body of the file: declarations, functions, types.
	Content []byte

	// Trailer is emitted verbatim at the end of the file.
	Trailer string
}

// IsGo returns true if f is a Go source file, as opposed to e.g. assembly.
func (f *File) IsGo() bool {
	return strings.HasSuffix(f.Name, ".go")
}

// HasContent returns true if f would render any declarations, a package
// doc comment, header/trailer text, or at least one blank import. A file
// with only a GeneratedBy comment, a build tag, or ordinary (non-blank)
// imports has no content of its own and should be omitted from output.
func (f *File) HasContent() bool {
	if len(f.Content) > 0 || f.PackageDocs != "" || f.Header != "" || f.Trailer != "" {
		return true
	}
	for _, name := range f.Imports {
		if name == "_" {
			return true
		}
	}
	return false
}

// Import declares an import of path in f, returning its local name. Path
// may carry a "#name" suffix requesting a preferred local name (see
// [ParseSelector]); the suffix is ignored if path's package path was
// already imported under a different name. Repeated calls for the same
// package path return the same name.
func (f *File) Import(path string) string {
	p, name := ParseSelector(path)
	if existing, ok := f.Imports[p]; ok {
		return existing
	}
	name = UniqueName(name, IsReserved, f.importNameTaken)
	f.Imports[p] = name
	return name
}

func (f *File) importNameTaken(name string) bool {
	for _, v := range f.Imports {
		if v == name {
			return true
		}
	}
	return false
}

// Bytes renders f to its final source text.
func (f *File) Bytes() ([]byte, error) {
	if !f.IsGo() {
		return f.Content, nil
	}

	var b bytes.Buffer

	if f.GoBuild != "" {
		fmt.Fprintf(&b, "//go:build %s\n\n", f.GoBuild)
	}
	if f.GeneratedBy != "" {
		fmt.Fprintf(&b, "// Code generated by %s. DO NOT EDIT.\n\n", f.GeneratedBy)
	}
	if f.PackageDocs != "" {
		b.WriteString(FormatDocComments(f.PackageDocs, false))
	}
	if f.Package == nil {
		return nil, fmt.Errorf("file %s has no Package", f.Name)
	}
	fmt.Fprintf(&b, "package %s\n\n", f.Package.Name)

	if len(f.Imports) > 0 {
		paths := make([]string, 0, len(f.Imports))
		for p := range f.Imports {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		b.WriteString("import (\n")
		for _, p := range paths {
			name := f.Imports[p]
			_, defaultName := ParseSelector(p)
			if name == defaultName {
				fmt.Fprintf(&b, "\t%q\n", p)
			} else {
				fmt.Fprintf(&b, "\t%s %q\n", name, p)
			}
		}
		b.WriteString(")\n\n")
	}

	if f.Header != "" {
		b.WriteString(f.Header)
		b.WriteString("\n")
	}

	b.Write(f.Content)

	if f.Trailer != "" {
		b.WriteString("\n")
		b.WriteString(f.Trailer)
	}

	return b.Bytes(), nil
}
