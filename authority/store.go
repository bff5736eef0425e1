// Package authority resolves geodetic objects from registry codes, such
// as the EPSG dataset: units, ellipsoids, prime meridians, datums,
// coordinate reference systems, and coordinate operations. A Store is the
// catalog backend; the Resolver is the lookup façade bound to one
// authority.
package authority

import (
	"github.com/geodetic-io/georef/geod"
)

// ObjectKind selects a catalog entity category.
type ObjectKind int

const (
	KindAny ObjectKind = iota
	KindUnit
	KindEllipsoid
	KindPrimeMeridian
	KindDatum
	KindCRS
	KindOperation
)

var objectKindNames = []string{
	"any", "unit", "ellipsoid", "prime meridian", "datum", "crs", "operation",
}

func (k ObjectKind) String() string {
	if k >= 0 && int(k) < len(objectKindNames) {
		return objectKindNames[k]
	}
	return "unknown"
}

// NamedObject is one search result: the decoded object plus the catalog
// attributes the search ranked it by.
type NamedObject struct {
	Kind       ObjectKind
	Authority  string
	Code       string
	Name       string
	Deprecated bool
	Object     any
}

// Store is the catalog backend contract. Implementations decode rows
// into geod objects; lookups for absent codes return a NoSuchCodeError.
type Store interface {
	// LookupObject resolves one object by category and code. KindAny
	// searches every category.
	LookupObject(kind ObjectKind, authority, code string) (any, error)

	// SearchByName returns every object of the category whose name or
	// alias folds to name. An empty authority searches all authorities.
	SearchByName(kind ObjectKind, authority, name string) ([]NamedObject, error)

	// AllNames lists the (name, kind) pairs of the category, for
	// similarity matching. KindAny lists everything.
	AllNames(kind ObjectKind, authority string) ([]NamedObject, error)

	// AliasToOfficialName maps a legacy or vendor alias within a
	// category ("geodetic_datum", "crs", ...) to the official name.
	AliasToOfficialName(alias, category string) (string, bool, error)

	// Codes lists the codes of a category under one authority.
	Codes(kind ObjectKind, authority string, includeDeprecated bool) ([]string, error)

	// Authorities lists the authority names present in the catalog.
	Authorities() ([]string, error)

	// OperationsBetweenCRS returns the cataloged operations whose source
	// and target match the given CRS codes, in catalog order. The
	// reverse direction is the caller's concern.
	OperationsBetweenCRS(sourceKey, targetKey geod.Ident) ([]geod.Operation, error)

	// PivotCandidates returns the CRS through which both the source and
	// the target have a cataloged operation.
	PivotCandidates(sourceKey, targetKey geod.Ident) ([]geod.Ident, error)

	// CRSForDatum lists the geodetic CRS built on the given datum.
	CRSForDatum(datumKey geod.Ident) ([]*geod.GeodeticCRS, error)

	// Metadata reads a catalog property, such as the dataset version.
	Metadata(key string) (string, bool, error)
}
