package authority_test

import (
	"path/filepath"
	"testing"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/require"

	"github.com/geodetic-io/georef/authority"
	"github.com/geodetic-io/georef/geod"
	"github.com/geodetic-io/georef/logging"
)

func TestWellKnownStoreLookup(t *testing.T) {
	store := authority.NewWellKnownStore()

	obj, err := store.LookupObject(authority.KindCRS, "EPSG", "4326")
	require.NoError(t, err)
	crs := obj.(*geod.GeodeticCRS)
	require.True(t, crs.EquivalentToCRS(geod.WGS84(), geod.Equivalent))

	obj, err = store.LookupObject(authority.KindEllipsoid, "EPSG", "7030")
	require.NoError(t, err)
	require.True(t, obj.(*geod.Ellipsoid).EquivalentTo(geod.WGS84Ellipsoid(), geod.Equivalent))

	obj, err = store.LookupObject(authority.KindUnit, "EPSG", "9001")
	require.NoError(t, err)
	require.True(t, obj.(geod.Unit).Equal(geod.Metre))

	// KindAny falls through the categories
	obj, err = store.LookupObject(authority.KindAny, "EPSG", "6326")
	require.NoError(t, err)
	require.Equal(t, "World Geodetic System 1984", obj.(geod.Datum).Name())

	_, err = store.LookupObject(authority.KindCRS, "EPSG", "999999")
	require.Error(t, err)
	require.True(t, geod.IsNoSuchCode(err))
}

func TestWellKnownStoreSearchByName(t *testing.T) {
	store := authority.NewWellKnownStore()

	found, err := store.SearchByName(authority.KindCRS, "EPSG", "WGS 84")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "4326", found[0].Code)

	// vendor alias, fold-insensitive
	found, err = store.SearchByName(authority.KindCRS, "", "gcs_wgs_1984")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "4326", found[0].Code)

	found, err = store.SearchByName(authority.KindCRS, "EPSG", "Atlantis 2000")
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestWellKnownStoreOperations(t *testing.T) {
	store := authority.NewWellKnownStore()
	nad27 := geod.Ident{Authority: "EPSG", Code: "4267"}
	osgb36 := geod.Ident{Authority: "EPSG", Code: "4277"}
	wgs84 := geod.Ident{Authority: "EPSG", Code: "4326"}

	ops, err := store.OperationsBetweenCRS(nad27, wgs84)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	require.Equal(t, "NAD27 to WGS 84 (4)", ops[0].Name())

	// no cataloged reverse rows; reversal is the resolver's concern
	ops, err = store.OperationsBetweenCRS(wgs84, nad27)
	require.NoError(t, err)
	require.Empty(t, ops)

	pivots, err := store.PivotCandidates(nad27, osgb36)
	require.NoError(t, err)
	require.Len(t, pivots, 1)
	require.Equal(t, wgs84, pivots[0])
}

func TestWellKnownStoreCRSForDatum(t *testing.T) {
	store := authority.NewWellKnownStore()
	crss, err := store.CRSForDatum(geod.Ident{Authority: "EPSG", Code: "6277"})
	require.NoError(t, err)
	require.Len(t, crss, 1)
	require.Equal(t, "OSGB36", crss[0].Name())
}

func TestResolverLookup(t *testing.T) {
	r := authority.NewResolver(authority.NewWellKnownStore(), "EPSG")

	crs, err := r.CreateCRS("4326")
	require.NoError(t, err)
	require.Equal(t, "WGS 84", crs.Name())

	// explicit prefix overrides the bound authority
	crs, err = r.CreateCRS("OGC:CRS84")
	require.NoError(t, err)
	require.Equal(t, geod.DirEast, crs.(*geod.GeodeticCRS).CS.Axes[0].Direction)

	ell, err := r.CreateEllipsoid("7019")
	require.NoError(t, err)
	require.Equal(t, "GRS 1980", ell.Name())

	pm, err := r.CreatePrimeMeridian("8901")
	require.NoError(t, err)
	require.True(t, pm.IsGreenwich())

	datum, err := r.CreateDatum("6267")
	require.NoError(t, err)
	require.Equal(t, "North American Datum 1927", datum.Name())

	op, err := r.CreateOperation("1314")
	require.NoError(t, err)
	require.Equal(t, "OSGB36 to WGS 84 (6)", op.Name())

	_, err = r.CreateUnit("0")
	require.Error(t, err)
	require.True(t, geod.IsNoSuchCode(err))
}

func TestResolverMemoization(t *testing.T) {
	r := authority.NewResolver(authority.NewWellKnownStore(), "EPSG")
	first, err := r.CreateCRS("4326")
	require.NoError(t, err)
	second, err := r.CreateCRS("4326")
	require.NoError(t, err)
	require.Same(t, first.(*geod.GeodeticCRS), second.(*geod.GeodeticCRS))
}

func TestResolverObjectsFromName(t *testing.T) {
	r := authority.NewResolver(authority.NewWellKnownStore(), "")

	found, err := r.CreateObjectsFromName("WGS 84", []authority.ObjectKind{authority.KindCRS}, false, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "4326", found[0].Code)

	// a near miss only resolves in approximate mode
	found, err = r.CreateObjectsFromName("WGS 85", []authority.ObjectKind{authority.KindCRS}, false, 0)
	require.NoError(t, err)
	require.Empty(t, found)

	found, err = r.CreateObjectsFromName("WGS 85", []authority.ObjectKind{authority.KindCRS}, true, 3)
	require.NoError(t, err)
	require.NotEmpty(t, found)
	require.LessOrEqual(t, len(found), 3)
	require.Equal(t, "WGS 84", found[0].Name)
	require.NotNil(t, found[0].Object)
}

func TestResolverAliases(t *testing.T) {
	r := authority.NewResolver(authority.NewWellKnownStore(), "EPSG")

	official, ok := r.OfficialNameFromAlias("D_WGS_1984", "geodetic_datum")
	require.True(t, ok)
	require.Equal(t, "World Geodetic System 1984", official)

	_, ok = r.OfficialNameFromAlias("D_ATLANTIS", "geodetic_datum")
	require.False(t, ok)
}

func TestResolverCodesAndAuthorities(t *testing.T) {
	r := authority.NewResolver(authority.NewWellKnownStore(), "EPSG")

	codes, err := r.Codes(authority.KindDatum, false)
	require.NoError(t, err)
	require.Contains(t, codes, "6326")
	require.Contains(t, codes, "6277")

	auths, err := r.Authorities()
	require.NoError(t, err)
	require.Equal(t, []string{"EPSG", "OGC"}, auths)

	unbound := authority.NewResolver(authority.NewWellKnownStore(), "")
	_, err = unbound.Codes(authority.KindDatum, false)
	require.Error(t, err)
}

func TestResolverGeodeticCRSFromDatum(t *testing.T) {
	r := authority.NewResolver(authority.NewWellKnownStore(), "EPSG")
	crss, err := r.CreateGeodeticCRSFromDatum("6326")
	require.NoError(t, err)
	require.NotEmpty(t, crss)
	names := make([]string, 0, len(crss))
	for _, c := range crss {
		names = append(names, c.Name())
	}
	require.Contains(t, names, "WGS 84")
}

func openTestCatalog(t *testing.T) *authority.SQLStore {
	t.Helper()
	store, err := authority.OpenSQLStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Import(authority.NewWellKnownStore()))
	return store
}

func TestSQLStoreRoundTrip(t *testing.T) {
	store := openTestCatalog(t)

	obj, err := store.LookupObject(authority.KindCRS, "EPSG", "4326")
	require.NoError(t, err)
	require.True(t, obj.(geod.CRS).EquivalentToCRS(geod.WGS84(), geod.Equivalent))

	obj, err = store.LookupObject(authority.KindCRS, "EPSG", "3857")
	require.NoError(t, err)
	require.True(t, obj.(geod.CRS).EquivalentToCRS(geod.WebMercator(), geod.Equivalent))

	obj, err = store.LookupObject(authority.KindUnit, "EPSG", "9122")
	require.NoError(t, err)
	require.True(t, obj.(geod.Unit).Equal(geod.Degree))

	obj, err = store.LookupObject(authority.KindPrimeMeridian, "EPSG", "8901")
	require.NoError(t, err)
	require.True(t, obj.(*geod.PrimeMeridian).IsGreenwich())

	obj, err = store.LookupObject(authority.KindEllipsoid, "EPSG", "7001")
	require.NoError(t, err)
	require.True(t, obj.(*geod.Ellipsoid).EquivalentTo(geod.AiryEllipsoid(), geod.Equivalent))

	_, err = store.LookupObject(authority.KindCRS, "EPSG", "999999")
	require.Error(t, err)
	require.True(t, geod.IsNoSuchCode(err))
}

func TestSQLStoreOperations(t *testing.T) {
	store := openTestCatalog(t)

	obj, err := store.LookupObject(authority.KindOperation, "EPSG", "1314")
	require.NoError(t, err)
	op := obj.(*geod.Transformation)
	require.Equal(t, "OSGB36 to WGS 84 (6)", op.Name())
	require.Equal(t, "Position Vector transformation (geog2D domain)", op.Method.Name())
	require.Len(t, op.Params, 7)
	require.True(t, op.Accuracy().Known)
	require.InDelta(t, 2.0, op.Accuracy().Value, 1e-9)
	require.NotNil(t, op.Extent())

	tx, ok := op.TOWGS84Parameters()
	require.True(t, ok)
	require.InDelta(t, 446.448, tx[0], 1e-9)

	ops, err := store.OperationsBetweenCRS(
		geod.Ident{Authority: "EPSG", Code: "4267"},
		geod.Ident{Authority: "EPSG", Code: "4326"})
	require.NoError(t, err)
	require.Len(t, ops, 2)

	pivots, err := store.PivotCandidates(
		geod.Ident{Authority: "EPSG", Code: "4267"},
		geod.Ident{Authority: "EPSG", Code: "4277"})
	require.NoError(t, err)
	require.Equal(t, []geod.Ident{{Authority: "EPSG", Code: "4326"}}, pivots)
}

func TestSQLStoreNamesAndAliases(t *testing.T) {
	store := openTestCatalog(t)

	found, err := store.SearchByName(authority.KindCRS, "EPSG", "WGS 84")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "4326", found[0].Code)
	require.NotNil(t, found[0].Object)

	found, err = store.SearchByName(authority.KindCRS, "", "GCS_WGS_1984")
	require.NoError(t, err)
	require.Len(t, found, 1)

	official, ok, err := store.AliasToOfficialName("OSGB_1936", "geodetic_datum")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Ordnance Survey of Great Britain 1936", official)

	names, err := store.AllNames(authority.KindDatum, "EPSG")
	require.NoError(t, err)
	require.Len(t, names, 5)

	version, ok, err := store.Metadata("DATABASE.VERSION")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "builtin-1", version)

	crss, err := store.CRSForDatum(geod.Ident{Authority: "EPSG", Code: "6267"})
	require.NoError(t, err)
	require.Len(t, crss, 1)
	require.Equal(t, "NAD27", crss[0].Name())
}

func TestResolverNonDeprecated(t *testing.T) {
	old, err := geod.NewGeodeticCRS(geod.ObjectMeta{
		ObjName:    "Voirol 1875",
		Idents:     []geod.Ident{{Authority: "TEST", Code: "1001"}},
		Deprecated: true,
	}, geod.WGS84Frame(), geod.EllipsoidalCS2DLatLon(geod.Degree))
	require.NoError(t, err)
	replacement, err := geod.NewGeodeticCRS(geod.ObjectMeta{
		ObjName: "Voirol 1875",
		Idents:  []geod.Ident{{Authority: "TEST", Code: "1002"}},
	}, geod.WGS84Frame(), geod.EllipsoidalCS2DLatLon(geod.Degree))
	require.NoError(t, err)

	store := authority.NewMemStore().
		Add(authority.KindCRS, "TEST", "1001", old.Name(), true, old).
		Add(authority.KindCRS, "TEST", "1002", replacement.Name(), false, replacement)
	r := authority.NewResolver(store, "TEST")

	out, err := r.NonDeprecated(old)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "TEST:1002", out[0].Identifiers()[0].String())

	out, err = r.NonDeprecated(replacement)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Same(t, geod.CRS(replacement), out[0])
}

func TestResolverAlternativeGridNames(t *testing.T) {
	r := authority.NewResolver(authority.NewWellKnownStore(), "EPSG")

	op, err := r.CreateOperation("1313")
	require.NoError(t, err)
	grids := geod.OperationGrids(op)
	require.Len(t, grids, 1)
	require.Equal(t, "ntv2_0.gsb", grids[0].ShortName)

	r.SetUsePROJAlternativeGridNames(true)
	op, err = r.CreateOperation("1313")
	require.NoError(t, err)
	grids = geod.OperationGrids(op)
	require.Len(t, grids, 1)
	require.Equal(t, "ca_nrc_ntv2_0.tif", grids[0].ShortName)

	require.Equal(t, "ca_nrc_ntv2_0.tif", authority.AlternativeGridName("ntv2_0.gsb"))
	require.Equal(t, "other.gsb", authority.AlternativeGridName("other.gsb"))
}

func TestResolverLookupLogs(t *testing.T) {
	cfg := logging.PresetConfigDiscard
	logging.Configure(&cfg)

	total := gometrics.GetOrRegisterCounter("log.total", gometrics.DefaultRegistry)
	before := total.Count()

	r := authority.NewResolver(authority.NewWellKnownStore(), "EPSG")
	_, err := r.CreateCRS("4326")
	require.NoError(t, err)
	require.Greater(t, total.Count(), before)

	// cache hits resolve silently
	after := total.Count()
	_, err = r.CreateCRS("4326")
	require.NoError(t, err)
	require.Equal(t, after, total.Count())
}
