package resolve

import (
	"sort"

	"github.com/geodetic-io/georef/geod"
)

// Match is one identification result. Confidence runs 0 to 100; see
// Identify for the anchor points.
type Match struct {
	CRS        geod.CRS
	Authority  string
	Code       string
	Confidence int
}

// wellKnownPool is the hard-coded reference set consulted even without a
// catalog.
func wellKnownPool() []geod.CRS {
	return []geod.CRS{
		geod.WGS84(),
		geod.WGS84LonLat(),
		geod.WGS84Geographic3D(),
		geod.WGS84Geocentric(),
		geod.NAD27(),
		geod.NAD83(),
		geod.ETRS89(),
		geod.OSGB36(),
		geod.WebMercator(),
		geod.EGM96Height(),
	}
}

// crsCategory folds the CRS kinds into the families compared during
// identification: all geodetic variants compare against each other.
func crsCategory(kind geod.CRSKind) geod.CRSKind {
	switch kind {
	case geod.CRSGeographic2D, geod.CRSGeographic3D, geod.CRSGeocentric:
		return geod.CRSGeographic2D
	default:
		return kind
	}
}

// Identify compares candidate against the well-known reference CRS plus,
// when a catalog is attached, every catalog CRS of the same family.
// authorityFilter restricts the pool to one namespace, empty means all.
//
// Confidence anchors: 100 when equivalent with the same name (a single
// result, short-circuited), 90 when equivalent with a similar name, 70
// when equivalent with an unrelated name, 25 when not equivalent but
// named alike. Anything below 25 is excluded. An empty result is not an
// error.
func (f *Finder) Identify(candidate geod.CRS, authorityFilter string) ([]Match, error) {
	if candidate == nil {
		return nil, geod.NewNotApplicable("identification requires a CRS")
	}
	category := crsCategory(candidate.Kind())

	type entry struct {
		crs  geod.CRS
		id   geod.Ident
		name string
	}
	var pool []entry
	seen := make(map[geod.Ident]bool)
	add := func(crs geod.CRS) {
		if crsCategory(crs.Kind()) != category {
			return
		}
		id, _ := crsIdent(crs)
		if authorityFilter != "" && id.Authority != authorityFilter {
			return
		}
		if !id.IsZero() {
			if seen[id] {
				return
			}
			seen[id] = true
		}
		pool = append(pool, entry{crs: crs, id: id, name: crs.Name()})
	}

	for _, crs := range wellKnownPool() {
		add(crs)
	}
	if f.Catalog != nil {
		cataloged, err := f.Catalog.CRSPool()
		if err != nil {
			return nil, err
		}
		for _, no := range cataloged {
			if crs, ok := no.Object.(geod.CRS); ok {
				add(crs)
			}
		}
	}

	candidateName := geod.FoldName(candidate.Name())
	var matches []Match
	for _, e := range pool {
		equivalent := candidate.EquivalentToCRS(e.crs, geod.Equivalent)
		sameName := candidateName != "" && geod.FoldName(e.name) == candidateName
		similar := geod.NamesAreSimilar(candidate.Name(), e.name)

		var confidence int
		switch {
		case equivalent && sameName:
			confidence = 100
		case equivalent && similar:
			confidence = 90
		case equivalent:
			confidence = 70
		case similar:
			confidence = 25
		default:
			continue
		}
		m := Match{CRS: e.crs, Authority: e.id.Authority, Code: e.id.Code, Confidence: confidence}
		if confidence == 100 {
			return []Match{m}, nil
		}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches, nil
}
