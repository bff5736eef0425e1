package projstr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geodetic-io/georef/geod"
	"github.com/geodetic-io/georef/projstr"
)

func TestParseLongLat(t *testing.T) {
	crs, err := projstr.Parse("+proj=longlat +datum=WGS84 +no_defs", nil)
	require.NoError(t, err)
	require.Equal(t, geod.CRSGeographic2D, crs.Kind())

	g := crs.(*geod.GeodeticCRS)
	require.Equal(t, "World Geodetic System 1984", g.Datum.Name())
	// chain order is longitude first
	require.Equal(t, geod.DirEast, g.CS.Axes[0].Direction)
	require.True(t, geod.Degree.Equal(g.CS.Axes[0].Unit))
	require.True(t, crs.EquivalentToCRS(geod.WGS84LonLat(), geod.Equivalent))
}

func TestParseLegacyMode(t *testing.T) {
	crs, err := projstr.Parse("+proj=longlat", &projstr.Options{Legacy: true})
	require.NoError(t, err)
	bound := crs.(*geod.BoundCRS)
	base := bound.Base.(*geod.GeodeticCRS)
	require.True(t, geod.Radian.Equal(base.CS.Axes[0].Unit))
	require.True(t, base.Ellipsoid().EquivalentTo(geod.GRS80Ellipsoid(), geod.Equivalent))
}

func TestParseGeocent(t *testing.T) {
	crs, err := projstr.Parse("+proj=geocent +datum=WGS84 +units=m", nil)
	require.NoError(t, err)
	require.Equal(t, geod.CRSGeocentric, crs.Kind())
	require.True(t, crs.EquivalentToCRS(geod.WGS84Geocentric(), geod.Equivalent))
}

func TestParseEllipsoidVariants(t *testing.T) {
	tests := []struct {
		text      string
		semiMajor float64
		sphere    bool
	}{
		{"+proj=longlat +ellps=GRS80", 6378137, false},
		{"+proj=longlat +ellps=airy", 6377563.396, false},
		{"+proj=longlat +ellps=intl", 6378388, false},
		{"+proj=longlat +a=6378137 +rf=298.257223563", 6378137, false},
		{"+proj=longlat +a=6378137 +b=6356752.3142", 6378137, false},
		{"+proj=longlat +a=6371000", 6371000, true},
		{"+proj=longlat +ellps=sphere", 6370997, true},
	}
	for _, tt := range tests {
		crs, err := projstr.Parse(tt.text, nil)
		require.NoError(t, err, tt.text)
		ell := crs.(*geod.GeodeticCRS).Ellipsoid()
		require.InDelta(t, tt.semiMajor, ell.SemiMajor, 1e-6, tt.text)
		require.Equal(t, tt.sphere, ell.IsSphere(), tt.text)
	}
}

func TestParseTOWGS84(t *testing.T) {
	crs, err := projstr.Parse("+proj=longlat +ellps=airy +towgs84=446.448,-125.157,542.06,0.15,0.247,0.842,-20.489", nil)
	require.NoError(t, err)
	bound := crs.(*geod.BoundCRS)
	require.Equal(t, "Position Vector transformation (geog2D domain)", bound.Transform.Method.Name())

	values, ok := bound.Transform.TOWGS84Parameters()
	require.True(t, ok)
	require.Len(t, values, 7)
	require.InDelta(t, 446.448, values[0], 1e-9)

	// an all-zero three-value shift is the identity and adds nothing
	crs, err = projstr.Parse("+proj=longlat +ellps=WGS84 +towgs84=0,0,0", nil)
	require.NoError(t, err)
	require.Equal(t, geod.CRSGeographic2D, crs.Kind())
}

func TestParseDatumImpliedShift(t *testing.T) {
	crs, err := projstr.Parse("+proj=longlat +datum=OSGB36", nil)
	require.NoError(t, err)
	bound := crs.(*geod.BoundCRS)
	values, ok := bound.Transform.TOWGS84Parameters()
	require.True(t, ok)
	require.InDelta(t, 446.448, values[0], 1e-9)
}

func TestParseNadgrids(t *testing.T) {
	crs, err := projstr.Parse("+proj=longlat +datum=NAD27 +nadgrids=ntv2_0.gsb", nil)
	require.NoError(t, err)
	bound := crs.(*geod.BoundCRS)
	grids := bound.Transform.GridsNeeded()
	require.Len(t, grids, 1)
	require.Equal(t, "ntv2_0.gsb", grids[0].ShortName)
}

func TestParseUTM(t *testing.T) {
	crs, err := projstr.Parse("+proj=utm +zone=33 +datum=WGS84", nil)
	require.NoError(t, err)
	proj := crs.(*geod.ProjectedCRS)
	require.Equal(t, "Transverse Mercator", proj.Conversion.Method.Name())

	lon0, ok := proj.Conversion.Parameter("Longitude of natural origin")
	require.True(t, ok)
	require.InDelta(t, 15.0, lon0.Value, 1e-9)

	utm33, err := geod.UTMZoneN(33)
	require.NoError(t, err)
	require.True(t, crs.EquivalentToCRS(utm33, geod.Equivalent))

	_, err = projstr.Parse("+proj=utm +zone=0 +datum=WGS84", nil)
	require.Error(t, err)
	require.True(t, geod.IsParseError(err))

	south, err := projstr.Parse("+proj=utm +zone=33 +south +datum=WGS84", nil)
	require.NoError(t, err)
	fn, ok := south.(*geod.ProjectedCRS).Conversion.Parameter("False northing")
	require.True(t, ok)
	require.InDelta(t, 10000000.0, fn.Value, 1e-9)
}

func TestParseTmerc(t *testing.T) {
	crs, err := projstr.Parse("+proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000 +y_0=-100000 +ellps=airy +units=m", nil)
	require.NoError(t, err)
	proj := crs.(*geod.ProjectedCRS)
	k, ok := proj.Conversion.Parameter("Scale factor at natural origin")
	require.True(t, ok)
	require.InDelta(t, 0.9996012717, k.Value, 1e-12)
}

func TestParseLCC(t *testing.T) {
	crs, err := projstr.Parse("+proj=lcc +lat_1=33 +lat_2=45 +lat_0=39 +lon_0=-96 +x_0=0 +y_0=0 +ellps=GRS80", nil)
	require.NoError(t, err)
	proj := crs.(*geod.ProjectedCRS)
	require.Equal(t, "Lambert Conic Conformal (2SP)", proj.Conversion.Method.Name())

	crs, err = projstr.Parse("+proj=lcc +lat_1=49 +lon_0=-95 +k_0=1 +ellps=GRS80", nil)
	require.NoError(t, err)
	proj = crs.(*geod.ProjectedCRS)
	require.Equal(t, "Lambert Conic Conformal (1SP)", proj.Conversion.Method.Name())
	lat0, ok := proj.Conversion.Parameter("Latitude of natural origin")
	require.True(t, ok)
	require.InDelta(t, 49.0, lat0.Value, 1e-9)
}

func TestParseStere(t *testing.T) {
	crs, err := projstr.Parse("+proj=stere +lat_0=90 +lon_0=0 +k=0.994 +x_0=2000000 +y_0=2000000 +datum=WGS84", nil)
	require.NoError(t, err)
	require.Equal(t, "Polar Stereographic (variant A)",
		crs.(*geod.ProjectedCRS).Conversion.Method.Name())

	crs, err = projstr.Parse("+proj=stere +lat_0=52 +lon_0=5 +ellps=bessel", nil)
	require.NoError(t, err)
	require.Equal(t, "Stereographic", crs.(*geod.ProjectedCRS).Conversion.Method.Name())
}

func TestParseAxisOrder(t *testing.T) {
	crs, err := projstr.Parse("+proj=longlat +datum=WGS84 +axis=neu", nil)
	require.NoError(t, err)
	g := crs.(*geod.GeodeticCRS)
	require.Equal(t, geod.DirNorth, g.CS.Axes[0].Direction)
	require.True(t, crs.EquivalentToCRS(geod.WGS84(), geod.Equivalent))

	crs, err = projstr.Parse("+proj=longlat +datum=WGS84 +axis=wsu", nil)
	require.NoError(t, err)
	g = crs.(*geod.GeodeticCRS)
	require.Equal(t, geod.DirWest, g.CS.Axes[0].Direction)
	require.Equal(t, geod.DirSouth, g.CS.Axes[1].Direction)
}

func TestParsePrimeMeridian(t *testing.T) {
	crs, err := projstr.Parse("+proj=longlat +ellps=clrk66 +pm=paris", nil)
	require.NoError(t, err)
	frame := crs.(*geod.GeodeticCRS).GeodeticFrame()
	require.NotNil(t, frame.PrimeMeridian)
	require.InDelta(t, 2.33722917, frame.PrimeMeridian.Longitude, 1e-8)
	require.False(t, frame.PrimeMeridian.IsGreenwich())
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"proj=longlat",
		"+proj=longlat extra",
		"+proj",
		"+proj=frobnicate",
		"+proj=longlat +datum=ATLANTIS",
		"+proj=longlat +ellps=unobtainium",
		"+proj=longlat +ellps=WGS84 +towgs84=1,2,nope",
		"+proj=tmerc +lat_0=bad +ellps=WGS84",
		"+proj=longlat +datum=WGS84 +axis=xyz",
	}
	for _, text := range tests {
		_, err := projstr.Parse(text, nil)
		require.Error(t, err, "input: %s", text)
		require.True(t, geod.IsParseError(err), "input: %s", text)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	chains := []string{
		"+proj=longlat +datum=WGS84",
		"+proj=longlat +ellps=airy +towgs84=446.448,-125.157,542.06,0.15,0.247,0.842,-20.489",
		"+proj=geocent +datum=WGS84 +units=m",
		"+proj=utm +zone=33 +datum=WGS84",
		"+proj=utm +zone=19 +south +ellps=GRS80",
		"+proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000 +y_0=-100000 +ellps=airy",
		"+proj=lcc +lat_1=33 +lat_2=45 +lat_0=39 +lon_0=-96 +ellps=GRS80",
		"+proj=webmerc +datum=WGS84",
	}
	for _, text := range chains {
		crs, err := projstr.Parse(text, nil)
		require.NoError(t, err, text)
		out, err := projstr.Format(crs)
		require.NoError(t, err, text)
		back, err := projstr.Parse(out, nil)
		require.NoError(t, err, "%s -> %s", text, out)
		require.True(t, back.EquivalentToCRS(crs, geod.Equivalent), "%s -> %s", text, out)
	}
}

func TestFormatWellKnown(t *testing.T) {
	out, err := projstr.Format(geod.WGS84LonLat())
	require.NoError(t, err)
	require.Contains(t, out, "+proj=longlat")
	require.Contains(t, out, "+datum=WGS84")
	require.Contains(t, out, "+type=crs")

	// latitude-first axis order survives
	out, err = projstr.Format(geod.WGS84())
	require.NoError(t, err)
	require.Contains(t, out, "+axis=neu")

	utm33, err := geod.UTMZoneN(33)
	require.NoError(t, err)
	out, err = projstr.Format(utm33)
	require.NoError(t, err)
	require.Contains(t, out, "+proj=utm")
	require.Contains(t, out, "+zone=33")
}

func TestFormatNotSupported(t *testing.T) {
	_, err := projstr.Format(geod.EGM96Height())
	require.Error(t, err)
	require.True(t, geod.IsFormattingNotSupported(err))
}
