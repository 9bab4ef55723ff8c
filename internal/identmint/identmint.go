// Package identmint mints host-language (Go) identifiers from IDL names:
// kebab-case, namespaced WIT identifiers like "get-status" or
// "wasi:io/error" become UpperCamel (public) or lowerCamel (private) Go
// identifiers, with keyword collisions suffixed per Go's own rules.
package identmint

import (
	"strings"
	"unicode"

	"github.com/go-hostgen/hostgen/internal/go/gen"
)

// Ident is a minted Go identifier. Two Idents are equal if their Name
// fields are equal; Name is always a syntactically valid, non-keyword Go
// identifier.
type Ident struct {
	// Name is the minted Go identifier.
	Name string

	// raw is the original IDL name this was minted from, kept for
	// diagnostics and for stable re-minting of the same input.
	raw string
}

// String returns the minted identifier.
func (id Ident) String() string { return id.Name }

// Keyword reports whether the raw input required keyword/predeclared-name
// disambiguation (i.e. the minted name carries a trailing "_" guard).
func (id Ident) Keyword() bool {
	return strings.HasSuffix(id.Name, "_")
}

// commonWords maps frequently-seen WIT words to their opinionated Go
// capitalization, mirroring initialism handling for words that aren't
// pure acronyms.
var commonWords = map[string]string{
	"cabi":     "CABI",
	"datetime": "DateTime",
	"filesize": "FileSize",
	"ipv4":     "IPv4",
	"ipv6":     "IPv6",
}

func words(raw string) []string {
	return strings.FieldsFunc(strings.ToLower(raw), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
}

func titleWord(word string) string {
	if s, ok := commonWords[word]; ok {
		return s
	}
	if gen.Initialisms[word] {
		return strings.ToUpper(word)
	}
	runes := []rune(word)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Public mints an exported (UpperCamel) Go identifier from raw.
func Public(raw string) Ident {
	var b strings.Builder
	for _, w := range words(raw) {
		b.WriteString(titleWord(w))
	}
	name := b.String()
	if name == "" {
		name = "X"
	}
	if gen.IsReserved(name) {
		name += "_"
	}
	return Ident{Name: name, raw: raw}
}

// Private mints an unexported (lowerCamel) Go identifier from raw.
func Private(raw string) Ident {
	ws := words(raw)
	var b strings.Builder
	for i, w := range ws {
		if i == 0 {
			if gen.Initialisms[w] {
				b.WriteString(w)
			} else {
				runes := []rune(w)
				runes[0] = unicode.ToLower(runes[0])
				b.WriteString(string(runes))
			}
			continue
		}
		b.WriteString(titleWord(w))
	}
	name := b.String()
	if name == "" {
		name = "x"
	}
	if gen.IsReserved(name) {
		name += "_"
	}
	return Ident{Name: name, raw: raw}
}
