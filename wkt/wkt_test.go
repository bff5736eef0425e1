package wkt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geodetic-io/georef/geod"
	"github.com/geodetic-io/georef/wkt"
)

func TestGuessDialect(t *testing.T) {
	tests := []struct {
		text   string
		expect wkt.Dialect
	}{
		{`GEOGCRS["WGS 84"]`, wkt.DialectWKT2_2019},
		{`GEODCRS["WGS 84",USAGE[SCOPE["x"]]]`, wkt.DialectWKT2_2019},
		{`PROJCRS["x",BASEGEOGCRS["WGS 84"]]`, wkt.DialectWKT2_2019},
		{`GEODCRS["WGS 84",DATUM["d"]]`, wkt.DialectWKT2_2015},
		{`GEOGCS["WGS 84",DATUM["WGS_1984"]]`, wkt.DialectWKT1_GDAL},
		{`GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984"]]`, wkt.DialectWKT1_ESRI},
		{`VERTCS["EGM96",VDATUM["EGM96_Geoid"]]`, wkt.DialectWKT1_ESRI},
		{`  PROJCS ["x",GEOGCS["y"]]`, wkt.DialectWKT1_GDAL},
		{`+proj=longlat +datum=WGS84`, wkt.DialectNotWKT},
		{`{"type":"name"}`, wkt.DialectNotWKT},
		{``, wkt.DialectNotWKT},
		{`GEOGCRS`, wkt.DialectNotWKT},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expect, wkt.GuessDialect(tt.text), "input: %s", tt.text)
	}
}

const wgs84WKT2 = `GEOGCRS["WGS 84",
    DATUM["World Geodetic System 1984",
        ELLIPSOID["WGS 84",6378137,298.257223563,
            LENGTHUNIT["metre",1]]],
    CS[ellipsoidal,2],
        AXIS["geodetic latitude (Lat)",north,
            ORDER[1],
            ANGLEUNIT["degree",0.0174532925199433]],
        AXIS["geodetic longitude (Lon)",east,
            ORDER[2],
            ANGLEUNIT["degree",0.0174532925199433]],
    ID["EPSG",4326]]`

func TestParseWKT2Geographic(t *testing.T) {
	crs, err := wkt.ParseCRS(wgs84WKT2, nil)
	require.NoError(t, err)
	require.Equal(t, geod.CRSGeographic2D, crs.Kind())
	require.Equal(t, "WGS 84", crs.Name())
	require.Equal(t, []geod.Ident{{Authority: "EPSG", Code: "4326"}}, crs.Identifiers())

	g := crs.(*geod.GeodeticCRS)
	require.InDelta(t, 6378137.0, g.Ellipsoid().SemiMajor, 1e-9)
	require.InDelta(t, 298.257223563, g.Ellipsoid().ComputedInvFlattening(), 1e-9)
	require.Equal(t, geod.DirNorth, g.CS.Axes[0].Direction)
	require.True(t, crs.EquivalentToCRS(geod.WGS84(), geod.Equivalent))
}

func TestParseAxisOrderMatters(t *testing.T) {
	lonLat := strings.Replace(wgs84WKT2, `AXIS["geodetic latitude (Lat)",north,
            ORDER[1],`, `AXIS["geodetic longitude (Lon)",east,
            ORDER[1],`, 1)
	lonLat = strings.Replace(lonLat, `AXIS["geodetic longitude (Lon)",east,
            ORDER[2],`, `AXIS["geodetic latitude (Lat)",north,
            ORDER[2],`, 1)
	crs, err := wkt.ParseCRS(lonLat, nil)
	require.NoError(t, err)
	require.False(t, crs.EquivalentToCRS(geod.WGS84(), geod.Equivalent))
	require.True(t, crs.EquivalentToCRS(geod.WGS84(), geod.EquivalentExceptAxisOrder))
}

func TestParseStandaloneEllipsoid(t *testing.T) {
	obj, err := wkt.Parse(`ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]]`, nil)
	require.NoError(t, err)
	ell := obj.(*geod.Ellipsoid)
	require.True(t, ell.EquivalentTo(geod.WGS84Ellipsoid(), geod.Equivalent))
	require.Equal(t, geod.BodyEarth, ell.CelestialBody())
}

func TestParseSphereFromZeroFlattening(t *testing.T) {
	obj, err := wkt.Parse(`ELLIPSOID["sphere",6371000,0,LENGTHUNIT["metre",1]]`, nil)
	require.NoError(t, err)
	require.True(t, obj.(*geod.Ellipsoid).IsSphere())
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		``,
		`GEOGCRS`,
		`GEOGCRS["WGS 84"`,
		`GEOGCRS["WGS 84",DATUM["x",ELLIPSOID["e",6378137,298.3]]] trailing`,
		`FROBNICATE["x"]`,
		`GEOGCRS["x",DATUM["d"],CS[ellipsoidal,2]]`,
	}
	for _, text := range tests {
		_, err := wkt.Parse(text, nil)
		require.Error(t, err, "input: %s", text)
	}
}

func TestParseWKT1WithTOWGS84(t *testing.T) {
	text := `GEOGCS["OSGB 1936",
        DATUM["OSGB_1936",
            SPHEROID["Airy 1830",6377563.396,299.3249646],
            TOWGS84[446.448,-125.157,542.06,0.15,0.247,0.842,-20.489]],
        PRIMEM["Greenwich",0],
        UNIT["degree",0.0174532925199433],
        AUTHORITY["EPSG","4277"]]`
	crs, err := wkt.ParseCRS(text, nil)
	require.NoError(t, err)
	require.Equal(t, geod.CRSBound, crs.Kind())

	bound := crs.(*geod.BoundCRS)
	require.Equal(t, "WGS 84", bound.Hub.Name())
	require.Equal(t, "Position Vector transformation (geog2D domain)", bound.Transform.Method.Name())
	p, ok := bound.Transform.Parameter("X-axis translation")
	require.True(t, ok)
	require.InDelta(t, 446.448, p.Value, 1e-9)

	// implied longitude/latitude order when AXIS is omitted
	base := bound.Base.(*geod.GeodeticCRS)
	require.Equal(t, geod.DirEast, base.CS.Axes[0].Direction)
}

func TestParseWKT1ThreeParamTOWGS84(t *testing.T) {
	text := `GEOGCS["NAD27",
        DATUM["North_American_Datum_1927",
            SPHEROID["Clarke 1866",6378206.4,294.978698213898],
            TOWGS84[-8,160,176]],
        PRIMEM["Greenwich",0],
        UNIT["degree",0.0174532925199433]]`
	crs, err := wkt.ParseCRS(text, nil)
	require.NoError(t, err)
	bound := crs.(*geod.BoundCRS)
	require.Equal(t, "Geocentric translations (geog2D domain)", bound.Transform.Method.Name())
	require.Len(t, bound.Transform.Params, 3)
}

func TestParseESRINames(t *testing.T) {
	text := `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`
	require.Equal(t, wkt.DialectWKT1_ESRI, wkt.GuessDialect(text))

	crs, err := wkt.ParseCRS(text, nil)
	require.NoError(t, err)
	g := crs.(*geod.GeodeticCRS)
	require.Equal(t, "World Geodetic System 1984", g.Datum.Name())
	require.True(t, crs.EquivalentToCRS(geod.WGS84LonLat(), geod.Equivalent))
}

type staticAliases map[string]string

func (s staticAliases) OfficialNameFromAlias(alias, category string) (string, bool) {
	v, ok := s[alias]
	return v, ok
}

func TestParseWithAliasResolver(t *testing.T) {
	text := `GEOGCS["GCS_Custom",DATUM["D_Custom_1950",SPHEROID["Intl_1924",6378388.0,297.0]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`
	crs, err := wkt.ParseCRS(text, &wkt.ParseOptions{
		Resolver: staticAliases{"Custom_1950": "Custom Datum 1950"},
	})
	require.NoError(t, err)
	require.Equal(t, "Custom Datum 1950", crs.(*geod.GeodeticCRS).Datum.Name())
}

func TestParseWKT1Projected(t *testing.T) {
	text := `PROJCS["OSGB 1936 / British National Grid",
        GEOGCS["OSGB 1936",
            DATUM["OSGB_1936",SPHEROID["Airy 1830",6377563.396,299.3249646]],
            PRIMEM["Greenwich",0],
            UNIT["degree",0.0174532925199433]],
        PROJECTION["Transverse_Mercator"],
        PARAMETER["latitude_of_origin",49],
        PARAMETER["central_meridian",-2],
        PARAMETER["scale_factor",0.9996012717],
        PARAMETER["false_easting",400000],
        PARAMETER["false_northing",-100000],
        UNIT["metre",1],
        AUTHORITY["EPSG","27700"]]`
	crs, err := wkt.ParseCRS(text, nil)
	require.NoError(t, err)
	proj := crs.(*geod.ProjectedCRS)
	require.Equal(t, "Transverse Mercator", proj.Conversion.Method.Name())

	lat, ok := proj.Conversion.Parameter("Latitude of natural origin")
	require.True(t, ok)
	require.InDelta(t, 49.0, lat.Value, 1e-9)
	require.Equal(t, geod.UnitAngular, lat.Unit.Kind)

	fe, ok := proj.Conversion.Parameter("False easting")
	require.True(t, ok)
	require.Equal(t, geod.UnitLinear, fe.Unit.Kind)
}

func TestParseCompoundAndVertical(t *testing.T) {
	text := `COMPD_CS["WGS 84 + EGM96",
        GEOGCS["WGS 84",
            DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],
            PRIMEM["Greenwich",0],
            UNIT["degree",0.0174532925199433]],
        VERT_CS["EGM96 height",
            VERT_DATUM["EGM96 geoid",2005],
            UNIT["metre",1],
            AXIS["Gravity-related height",UP]]]`
	crs, err := wkt.ParseCRS(text, nil)
	require.NoError(t, err)
	comp := crs.(*geod.CompoundCRS)
	require.Len(t, comp.Components, 2)
	require.Equal(t, geod.CRSVertical, comp.Components[1].Kind())
}

func TestFormatWKT2RoundTrip(t *testing.T) {
	samples := []geod.CRS{
		geod.WGS84(),
		geod.WGS84Geographic3D(),
		geod.WGS84Geocentric(),
		geod.WebMercator(),
		geod.EGM96Height(),
		geod.OSGB36(),
	}
	for _, conv := range []wkt.Convention{wkt.WKT2_2019, wkt.WKT2_2015} {
		for _, crs := range samples {
			text, err := wkt.Format(crs, conv, nil)
			require.NoError(t, err, "%s / %s", crs.Name(), conv)
			back, err := wkt.ParseCRS(text, nil)
			require.NoError(t, err, "%s / %s:\n%s", crs.Name(), conv, text)
			require.True(t, back.EquivalentToCRS(crs, geod.Equivalent),
				"%s / %s:\n%s", crs.Name(), conv, text)
		}
	}
}

func TestFormatWKT2CompoundRoundTrip(t *testing.T) {
	comp, err := geod.NewCompoundCRS(geod.ObjectMeta{ObjName: "WGS 84 + EGM96 height"},
		[]geod.CRS{geod.WGS84(), geod.EGM96Height()})
	require.NoError(t, err)
	text, err := wkt.Format(comp, wkt.WKT2_2019, nil)
	require.NoError(t, err)
	back, err := wkt.ParseCRS(text, nil)
	require.NoError(t, err)
	require.True(t, back.EquivalentToCRS(comp, geod.Equivalent), text)
}

func TestFormatWKT1GDALProjected(t *testing.T) {
	text, err := wkt.Format(geod.WebMercator(), wkt.WKT1_GDAL, nil)
	require.NoError(t, err)
	require.Contains(t, text, `PROJCS["WGS 84 / Pseudo-Mercator"`)
	require.Contains(t, text, `DATUM["WGS_1984"`)
	require.Contains(t, text, `PARAMETER["central_meridian",0]`)

	back, err := wkt.ParseCRS(text, nil)
	require.NoError(t, err)
	require.Equal(t, geod.CRSProjected, back.Kind())
	require.Equal(t, "Popular Visualisation Pseudo Mercator",
		back.(*geod.ProjectedCRS).Conversion.Method.Name())
}

func TestFormatESRI(t *testing.T) {
	text, err := wkt.Format(geod.WGS84(), wkt.WKT1_ESRI, nil)
	require.NoError(t, err)
	require.Contains(t, text, `GEOGCS["GCS_WGS_1984"`)
	require.Contains(t, text, `DATUM["D_WGS_1984"`)
	require.Contains(t, text, `SPHEROID["WGS_1984",6378137.0`)
	require.Contains(t, text, `UNIT["Degree"`)
	// single line by default
	require.NotContains(t, text, "\n")
}

func TestFormatMultilineDefaults(t *testing.T) {
	text, err := wkt.Format(geod.WGS84(), wkt.WKT2_2019, nil)
	require.NoError(t, err)
	require.Contains(t, text, "\n")
	require.Contains(t, text, `GEOGCRS["WGS 84"`)

	flat, err := wkt.Format(geod.WGS84(), wkt.WKT2_2019, &wkt.FormatOptions{})
	require.NoError(t, err)
	require.NotContains(t, flat, "\n")
}

func TestFormatAxisOutput(t *testing.T) {
	// auto: projected easting/northing carries axes in WKT1
	text, err := wkt.Format(geod.WebMercator(), wkt.WKT1_GDAL, nil)
	require.NoError(t, err)
	require.Contains(t, text, `AXIS["Easting",EAST]`)

	// auto: geographic WKT1 does not
	text, err = wkt.Format(geod.WGS84(), wkt.WKT1_GDAL, nil)
	require.NoError(t, err)
	require.NotContains(t, text, "AXIS[")

	text, err = wkt.Format(geod.WGS84(), wkt.WKT1_GDAL,
		&wkt.FormatOptions{OutputAxis: wkt.AxisYes})
	require.NoError(t, err)
	require.Contains(t, text, "AXIS[")

	text, err = wkt.Format(geod.WebMercator(), wkt.WKT1_GDAL,
		&wkt.FormatOptions{OutputAxis: wkt.AxisNo})
	require.NoError(t, err)
	require.NotContains(t, text, "AXIS[")
}

func TestFormatNotSupported(t *testing.T) {
	_, err := wkt.Format(geod.WGS84Geographic3D(), wkt.WKT1_GDAL, nil)
	require.Error(t, err)
	require.True(t, geod.IsFormattingNotSupported(err))

	_, err = wkt.Format(geod.WGS84Geocentric(), wkt.WKT1_ESRI, nil)
	require.Error(t, err)
	require.True(t, geod.IsFormattingNotSupported(err))
}

func TestFormatBoundCRS(t *testing.T) {
	text := `GEOGCS["NAD27",
        DATUM["North_American_Datum_1927",
            SPHEROID["Clarke 1866",6378206.4,294.978698213898],
            TOWGS84[-8,160,176]],
        PRIMEM["Greenwich",0],
        UNIT["degree",0.0174532925199433]]`
	crs, err := wkt.ParseCRS(text, nil)
	require.NoError(t, err)
	require.Equal(t, geod.CRSBound, crs.Kind())

	// WKT2 spells the transformation out
	out2, err := wkt.Format(crs, wkt.WKT2_2019, nil)
	require.NoError(t, err)
	require.Contains(t, out2, "BOUNDCRS[")
	require.Contains(t, out2, "ABRIDGEDTRANSFORMATION[")

	back, err := wkt.ParseCRS(out2, nil)
	require.NoError(t, err)
	require.True(t, back.EquivalentToCRS(crs, geod.Equivalent), out2)

	// WKT1 folds it back into TOWGS84
	out1, err := wkt.Format(crs, wkt.WKT1_GDAL, nil)
	require.NoError(t, err)
	require.Contains(t, out1, "TOWGS84[-8,160,176]")
}

func TestFormatCoordinateOperation(t *testing.T) {
	tr, err := geod.NewTransformation(
		geod.ObjectMeta{ObjName: "NAD27 to WGS 84 (1)", Idents: []geod.Ident{{Authority: "EPSG", Code: "1173"}}},
		geod.NAD27(), geod.WGS84(),
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "Geocentric translations (geog2D domain)"}},
		[]geod.ParamValue{
			geod.MeasureParam("X-axis translation", -8, geod.Metre),
			geod.MeasureParam("Y-axis translation", 160, geod.Metre),
			geod.MeasureParam("Z-axis translation", 176, geod.Metre),
		},
		[]geod.Accuracy{geod.KnownAccuracy(5)})
	require.NoError(t, err)

	text, err := wkt.Format(tr, wkt.WKT2_2019, nil)
	require.NoError(t, err)
	require.Contains(t, text, "COORDINATEOPERATION[")
	require.Contains(t, text, "OPERATIONACCURACY[5]")

	obj, err := wkt.Parse(text, nil)
	require.NoError(t, err)
	back := obj.(*geod.Transformation)
	require.True(t, back.EquivalentToOperation(tr, geod.Equivalent), text)

	_, err = wkt.Format(tr, wkt.WKT1_GDAL, nil)
	require.Error(t, err)
	require.True(t, geod.IsFormattingNotSupported(err))
}

func TestFormatTemporalCRS(t *testing.T) {
	cs, err := geod.NewCoordinateSystem(geod.CSTemporalDateTime,
		geod.Axis{Name: "Time", Abbrev: "T", Direction: geod.DirFuture, Unit: geod.Year})
	require.NoError(t, err)
	crs, err := geod.NewTemporalCRS(geod.ObjectMeta{ObjName: "DateTime"},
		geod.NewTemporalDatum(geod.ObjectMeta{ObjName: "Unix epoch"}, "", "1970-01-01T00:00:00Z"), cs)
	require.NoError(t, err)

	text, err := wkt.Format(crs, wkt.WKT2_2019, nil)
	require.NoError(t, err)
	back, err := wkt.ParseCRS(text, nil)
	require.NoError(t, err)
	require.True(t, back.EquivalentToCRS(crs, geod.Equivalent), text)

	_, err = wkt.Format(crs, wkt.WKT1_GDAL, nil)
	require.Error(t, err)
	require.True(t, geod.IsFormattingNotSupported(err))
}
