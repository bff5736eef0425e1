package geod

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ident names a definition inside one authority namespace, e.g. EPSG:4326.
type Ident struct {
	Authority string
	Code      string
}

func (id Ident) IsZero() bool {
	return id.Authority == "" && id.Code == ""
}

func (id Ident) String() string {
	if id.IsZero() {
		return ""
	}
	return id.Authority + ":" + id.Code
}

// ObjectMeta carries the attributes shared by every geodetic entity.
// The zero value is usable; Name() substitutes "unnamed" when empty.
type ObjectMeta struct {
	ObjName    string
	Idents     []Ident
	Aliases    []string
	Remarks    string
	Deprecated bool
}

func (m ObjectMeta) Name() string {
	if m.ObjName == "" {
		return "unnamed"
	}
	return m.ObjName
}

func (m ObjectMeta) Identifiers() []Ident { return m.Idents }

func (m ObjectMeta) IsDeprecated() bool { return m.Deprecated }

// ID returns the first identifier, or the zero Ident when the object
// carries none.
func (m ObjectMeta) ID() Ident {
	if len(m.Idents) == 0 {
		return Ident{}
	}
	return m.Idents[0]
}

// AuthorityCode returns the code of the first identifier registered under
// the given authority ("" matches any authority).
func (m ObjectMeta) AuthorityCode(authority string) (string, bool) {
	for _, id := range m.Idents {
		if authority == "" || strings.EqualFold(id.Authority, authority) {
			return id.Code, true
		}
	}
	return "", false
}

// metaEquivalent compares metadata for the Strict criterion. Under the
// laxer criteria metadata is ignored entirely.
func (m ObjectMeta) metaEquivalent(other ObjectMeta) bool {
	if m.Name() != other.Name() || m.Deprecated != other.Deprecated || m.Remarks != other.Remarks {
		return false
	}
	if len(m.Idents) != len(other.Idents) || len(m.Aliases) != len(other.Aliases) {
		return false
	}
	for i, id := range m.Idents {
		if id != other.Idents[i] {
			return false
		}
	}
	for i, a := range m.Aliases {
		if a != other.Aliases[i] {
			return false
		}
	}
	return true
}

// nameMatches reports whether the object's primary name or any alias equals
// the given name after case and diacritic folding.
func (m ObjectMeta) nameMatches(name string) bool {
	n := foldName(name)
	if foldName(m.Name()) == n {
		return true
	}
	for _, a := range m.Aliases {
		if foldName(a) == n {
			return true
		}
	}
	return false
}

var nameFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldName normalizes a name for comparison: lower case, diacritics
// stripped, underscores treated as spaces, runs of spaces collapsed.
func foldName(name string) string {
	s, _, err := transform.String(nameFolder, name)
	if err != nil {
		s = name
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// NamesAreSimilar is the loose comparison used by the codec and by CRS
// identification: folded equality, or one folded name containing the other.
func NamesAreSimilar(a, b string) bool {
	fa, fb := foldName(a), foldName(b)
	if fa == "" || fb == "" {
		return false
	}
	if fa == fb {
		return true
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}

// FoldName exposes the canonical name folding used for catalog matching.
func FoldName(name string) string { return foldName(name) }
