package authority

import (
	"fmt"
	"sort"

	"github.com/geodetic-io/georef/geod"
)

type memEntry struct {
	NamedObject
	aliases []string
}

type memOperation struct {
	authority string
	code      string
	op        geod.Operation
	source    geod.Ident
	target    geod.Ident
}

// MemStore is a map-backed Store used for the built-in definitions and
// for tests. It is not safe for concurrent mutation.
type MemStore struct {
	entries map[ObjectKind]map[string]*memEntry
	order   map[ObjectKind][]string
	aliases map[string]string
	ops     []memOperation
	meta    map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		entries: make(map[ObjectKind]map[string]*memEntry),
		order:   make(map[ObjectKind][]string),
		aliases: make(map[string]string),
		meta:    make(map[string]string),
	}
}

func entryKey(authority, code string) string { return authority + ":" + code }

// Add registers one object. Aliases are searchable alternative names.
func (s *MemStore) Add(kind ObjectKind, authority, code, name string, deprecated bool, obj any, aliases ...string) *MemStore {
	m, ok := s.entries[kind]
	if !ok {
		m = make(map[string]*memEntry)
		s.entries[kind] = m
	}
	key := entryKey(authority, code)
	m[key] = &memEntry{
		NamedObject: NamedObject{
			Kind: kind, Authority: authority, Code: code,
			Name: name, Deprecated: deprecated, Object: obj,
		},
		aliases: aliases,
	}
	s.order[kind] = append(s.order[kind], key)
	return s
}

// AddAlias registers a legacy name within a category.
func (s *MemStore) AddAlias(category, alias, official string) *MemStore {
	s.aliases[category+"|"+geod.FoldName(alias)] = official
	return s
}

// AddOperation registers a coordinate operation; its source and target
// CRS must carry identifiers.
func (s *MemStore) AddOperation(authority, code string, op geod.Operation) error {
	src := op.Source()
	dst := op.Target()
	if src == nil || dst == nil || len(src.Identifiers()) == 0 || len(dst.Identifiers()) == 0 {
		return geod.NewInvalidDefinition("operation %q: source and target must carry identifiers", op.Name())
	}
	s.ops = append(s.ops, memOperation{
		authority: authority, code: code, op: op,
		source: src.Identifiers()[0], target: dst.Identifiers()[0],
	})
	s.Add(KindOperation, authority, code, op.Name(), op.IsDeprecated(), op)
	return nil
}

// SetMetadata stores a catalog property.
func (s *MemStore) SetMetadata(key, value string) *MemStore {
	s.meta[key] = value
	return s
}

var lookupKinds = []ObjectKind{
	KindCRS, KindDatum, KindEllipsoid, KindPrimeMeridian, KindUnit, KindOperation,
}

func (s *MemStore) LookupObject(kind ObjectKind, authority, code string) (any, error) {
	if kind == KindAny {
		for _, k := range lookupKinds {
			if obj, err := s.LookupObject(k, authority, code); err == nil {
				return obj, nil
			}
		}
		return nil, &geod.NoSuchCodeError{Authority: authority, Code: code}
	}
	e, ok := s.entries[kind][entryKey(authority, code)]
	if !ok {
		return nil, &geod.NoSuchCodeError{Authority: authority, Code: code}
	}
	return e.Object, nil
}

func (s *MemStore) SearchByName(kind ObjectKind, authority, name string) ([]NamedObject, error) {
	folded := geod.FoldName(name)
	var out []NamedObject
	for _, k := range s.searchKinds(kind) {
		for _, key := range s.order[k] {
			e := s.entries[k][key]
			if authority != "" && e.Authority != authority {
				continue
			}
			if geod.FoldName(e.Name) == folded {
				out = append(out, e.NamedObject)
				continue
			}
			for _, alias := range e.aliases {
				if geod.FoldName(alias) == folded {
					out = append(out, e.NamedObject)
					break
				}
			}
		}
	}
	return out, nil
}

func (s *MemStore) AllNames(kind ObjectKind, authority string) ([]NamedObject, error) {
	var out []NamedObject
	for _, k := range s.searchKinds(kind) {
		for _, key := range s.order[k] {
			e := s.entries[k][key]
			if authority != "" && e.Authority != authority {
				continue
			}
			out = append(out, e.NamedObject)
		}
	}
	return out, nil
}

func (s *MemStore) searchKinds(kind ObjectKind) []ObjectKind {
	if kind == KindAny {
		return lookupKinds
	}
	return []ObjectKind{kind}
}

func (s *MemStore) AliasToOfficialName(alias, category string) (string, bool, error) {
	official, ok := s.aliases[category+"|"+geod.FoldName(alias)]
	return official, ok, nil
}

func (s *MemStore) Codes(kind ObjectKind, authority string, includeDeprecated bool) ([]string, error) {
	var out []string
	for _, key := range s.order[kind] {
		e := s.entries[kind][key]
		if e.Authority != authority {
			continue
		}
		if e.Deprecated && !includeDeprecated {
			continue
		}
		out = append(out, e.Code)
	}
	return out, nil
}

func (s *MemStore) Authorities() ([]string, error) {
	seen := make(map[string]bool)
	for _, m := range s.entries {
		for _, e := range m {
			seen[e.Authority] = true
		}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemStore) OperationsBetweenCRS(sourceKey, targetKey geod.Ident) ([]geod.Operation, error) {
	var out []geod.Operation
	for _, mo := range s.ops {
		if mo.op.IsDeprecated() {
			continue
		}
		if mo.source == sourceKey && mo.target == targetKey {
			out = append(out, mo.op)
		}
	}
	return out, nil
}

func (s *MemStore) PivotCandidates(sourceKey, targetKey geod.Ident) ([]geod.Ident, error) {
	touches := func(mo memOperation, key geod.Ident) (geod.Ident, bool) {
		switch key {
		case mo.source:
			return mo.target, true
		case mo.target:
			return mo.source, true
		}
		return geod.Ident{}, false
	}
	fromSource := make(map[geod.Ident]bool)
	for _, mo := range s.ops {
		if other, ok := touches(mo, sourceKey); ok && other != targetKey {
			fromSource[other] = true
		}
	}
	var out []geod.Ident
	seen := make(map[geod.Ident]bool)
	for _, mo := range s.ops {
		other, ok := touches(mo, targetKey)
		if !ok || other == sourceKey || !fromSource[other] || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out, nil
}

func (s *MemStore) CRSForDatum(datumKey geod.Ident) ([]*geod.GeodeticCRS, error) {
	var out []*geod.GeodeticCRS
	for _, key := range s.order[KindCRS] {
		e := s.entries[KindCRS][key]
		g, ok := e.Object.(*geod.GeodeticCRS)
		if !ok {
			continue
		}
		for _, id := range datumIdents(g.Datum) {
			if id == datumKey {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func datumIdents(d geod.Datum) []geod.Ident {
	return d.Identifiers()
}

func (s *MemStore) Metadata(key string) (string, bool, error) {
	v, ok := s.meta[key]
	return v, ok, nil
}

// NewWellKnownStore seeds a MemStore with the built-in definitions: the
// WGS 84 family, the common North American and European frames, Web
// Mercator, a UTM zone sample, EGM96 height, and the transformations
// between them.
func NewWellKnownStore() *MemStore {
	s := NewMemStore()

	s.Add(KindUnit, "EPSG", "9001", "metre", false, geod.Metre, "meter", "m")
	s.Add(KindUnit, "EPSG", "9122", "degree", false, geod.Degree, "degrees")
	s.Add(KindUnit, "EPSG", "9002", "foot", false, geod.Foot)
	s.Add(KindUnit, "EPSG", "9003", "US survey foot", false, geod.USSurveyFoot)
	s.Add(KindUnit, "EPSG", "9101", "radian", false, geod.Radian)
	s.Add(KindUnit, "EPSG", "9201", "unity", false, geod.Unity)

	s.Add(KindEllipsoid, "EPSG", "7030", "WGS 84", false, geod.WGS84Ellipsoid(), "WGS84", "WGS_1984")
	s.Add(KindEllipsoid, "EPSG", "7019", "GRS 1980", false, geod.GRS80Ellipsoid(), "GRS80")
	s.Add(KindEllipsoid, "EPSG", "7008", "Clarke 1866", false, geod.Clarke1866Ellipsoid())
	s.Add(KindEllipsoid, "EPSG", "7001", "Airy 1830", false, geod.AiryEllipsoid())

	s.Add(KindPrimeMeridian, "EPSG", "8901", "Greenwich", false, geod.Greenwich)

	s.Add(KindDatum, "EPSG", "6326", "World Geodetic System 1984", false, geod.WGS84Frame(), "WGS_1984", "WGS 1984", "WGS84")
	s.Add(KindDatum, "EPSG", "6269", "North American Datum 1983", false, geod.NAD83Frame(), "NAD83")
	s.Add(KindDatum, "EPSG", "6267", "North American Datum 1927", false, geod.NAD27Frame(), "NAD27")
	s.Add(KindDatum, "EPSG", "6258", "European Terrestrial Reference System 1989", false, geod.ETRS89Frame(), "ETRS89")
	s.Add(KindDatum, "EPSG", "6277", "Ordnance Survey of Great Britain 1936", false, geod.OSGB36Frame(), "OSGB_1936", "OSGB36")

	s.Add(KindCRS, "EPSG", "4326", "WGS 84", false, geod.WGS84(), "WGS84", "GCS_WGS_1984")
	s.Add(KindCRS, "OGC", "CRS84", "WGS 84 (CRS84)", false, geod.WGS84LonLat())
	s.Add(KindCRS, "EPSG", "4979", "WGS 84 (3D)", false, geod.WGS84Geographic3D())
	s.Add(KindCRS, "EPSG", "4978", "WGS 84 (geocentric)", false, geod.WGS84Geocentric())
	s.Add(KindCRS, "EPSG", "4269", "NAD83", false, geod.NAD83())
	s.Add(KindCRS, "EPSG", "4267", "NAD27", false, geod.NAD27())
	s.Add(KindCRS, "EPSG", "4258", "ETRS89", false, geod.ETRS89())
	s.Add(KindCRS, "EPSG", "4277", "OSGB36", false, geod.OSGB36(), "OSGB 1936")
	s.Add(KindCRS, "EPSG", "3857", "WGS 84 / Pseudo-Mercator", false, geod.WebMercator(), "Web Mercator", "WGS_1984_Web_Mercator_Auxiliary_Sphere")
	s.Add(KindCRS, "EPSG", "5773", "EGM96 height", false, geod.EGM96Height())
	for _, zone := range []int{10, 32, 33} {
		crs, err := geod.UTMZoneN(zone)
		if err != nil {
			continue
		}
		s.Add(KindCRS, "EPSG", fmt.Sprintf("326%02d", zone), crs.Name(), false, crs)
	}

	s.AddAlias("geodetic_datum", "WGS_1984", "World Geodetic System 1984")
	s.AddAlias("geodetic_datum", "D_WGS_1984", "World Geodetic System 1984")
	s.AddAlias("geodetic_datum", "North_American_Datum_1927", "North American Datum 1927")
	s.AddAlias("geodetic_datum", "North_American_Datum_1983", "North American Datum 1983")
	s.AddAlias("geodetic_datum", "OSGB_1936", "Ordnance Survey of Great Britain 1936")
	s.AddAlias("crs", "GCS_WGS_1984", "WGS 84")
	s.AddAlias("crs", "WGS_1984_Web_Mercator_Auxiliary_Sphere", "WGS 84 / Pseudo-Mercator")

	seedOperations(s)

	s.SetMetadata("DATABASE.VERSION", "builtin-1")
	return s
}

func seedOperations(s *MemStore) {
	nad27ToWGS84, err := geod.NewTransformation(
		geod.ObjectMeta{ObjName: "NAD27 to WGS 84 (4)", Idents: []geod.Ident{{Authority: "EPSG", Code: "1173"}}},
		geod.NAD27(), geod.WGS84(),
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "Geocentric translations (geog2D domain)"}},
		[]geod.ParamValue{
			geod.MeasureParam("X-axis translation", -8, geod.Metre),
			geod.MeasureParam("Y-axis translation", 160, geod.Metre),
			geod.MeasureParam("Z-axis translation", 176, geod.Metre),
		},
		[]geod.Accuracy{geod.KnownAccuracy(10)},
		geod.Usage{Area: "North America", BBox: geod.NewExtent(-172.54, 23.81, -47.74, 86.46)})
	if err == nil {
		s.AddOperation("EPSG", "1173", nad27ToWGS84)
	}

	nad27Grid, err := geod.NewTransformation(
		geod.ObjectMeta{ObjName: "NAD27 to WGS 84 (33)", Idents: []geod.Ident{{Authority: "EPSG", Code: "1313"}}},
		geod.NAD27(), geod.WGS84(),
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "NTv2"}},
		[]geod.ParamValue{geod.FileParam("Latitude and longitude difference file", "ntv2_0.gsb")},
		[]geod.Accuracy{geod.KnownAccuracy(1.5)},
		geod.Usage{Area: "Canada", BBox: geod.NewExtent(-141.01, 40.04, -47.74, 86.46)})
	if err == nil {
		s.AddOperation("EPSG", "1313", nad27Grid)
	}

	osgb36ToWGS84, err := geod.NewTransformation(
		geod.ObjectMeta{ObjName: "OSGB36 to WGS 84 (6)", Idents: []geod.Ident{{Authority: "EPSG", Code: "1314"}}},
		geod.OSGB36(), geod.WGS84(),
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "Position Vector transformation (geog2D domain)"}},
		[]geod.ParamValue{
			geod.MeasureParam("X-axis translation", 446.448, geod.Metre),
			geod.MeasureParam("Y-axis translation", -125.157, geod.Metre),
			geod.MeasureParam("Z-axis translation", 542.06, geod.Metre),
			geod.MeasureParam("X-axis rotation", 0.15, geod.ArcSecond),
			geod.MeasureParam("Y-axis rotation", 0.247, geod.ArcSecond),
			geod.MeasureParam("Z-axis rotation", 0.842, geod.ArcSecond),
			geod.MeasureParam("Scale difference", -20.489, geod.PartsPerMill),
		},
		[]geod.Accuracy{geod.KnownAccuracy(2)},
		geod.Usage{Area: "United Kingdom", BBox: geod.NewExtent(-8.82, 49.79, 1.92, 60.94)})
	if err == nil {
		s.AddOperation("EPSG", "1314", osgb36ToWGS84)
	}

	etrs89ToWGS84, err := geod.NewTransformation(
		geod.ObjectMeta{ObjName: "ETRS89 to WGS 84 (1)", Idents: []geod.Ident{{Authority: "EPSG", Code: "1149"}}},
		geod.ETRS89(), geod.WGS84(),
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "Geocentric translations (geog2D domain)"}},
		[]geod.ParamValue{
			geod.MeasureParam("X-axis translation", 0, geod.Metre),
			geod.MeasureParam("Y-axis translation", 0, geod.Metre),
			geod.MeasureParam("Z-axis translation", 0, geod.Metre),
		},
		[]geod.Accuracy{geod.KnownAccuracy(1)},
		geod.Usage{Area: "Europe", BBox: geod.NewExtent(-16.1, 32.88, 40.18, 84.73)})
	if err == nil {
		s.AddOperation("EPSG", "1149", etrs89ToWGS84)
	}
}
