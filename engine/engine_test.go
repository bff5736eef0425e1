package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geodetic-io/georef/engine"
	"github.com/geodetic-io/georef/geod"
)

func TestTransformUTMRoundTrip(t *testing.T) {
	utm, err := geod.UTMZoneN(32)
	require.NoError(t, err)

	forward, err := engine.Transform(geod.WGS84LonLat(), utm)
	require.NoError(t, err)
	backward, err := engine.Transform(utm, geod.WGS84LonLat())
	require.NoError(t, err)

	// the central meridian of zone 32 maps to the false easting
	east, north, _ := forward(9, 60, 0)
	require.InDelta(t, 500000, east, 1e-3)
	require.Greater(t, north, 6600000.0)

	lon, lat, _ := backward(east, north, 0)
	require.InDelta(t, 9, lon, 1e-9)
	require.InDelta(t, 60, lat, 1e-9)
}

func TestTransformWebMercator(t *testing.T) {
	forward, err := engine.Transform(geod.WGS84LonLat(), geod.WebMercator())
	require.NoError(t, err)

	x, y, _ := forward(0, 0, 0)
	require.InDelta(t, 0, x, 1e-6)
	require.InDelta(t, 0, y, 1e-6)
}

func TestBuildCRSUnsupported(t *testing.T) {
	_, err := engine.BuildCRS(geod.EGM96Height())
	require.Error(t, err)

	_, err = engine.BuildCRS(geod.WGS84Geographic3D())
	require.Error(t, err)
}
