package geod_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geodetic-io/georef/geod"
)

func TestEllipsoidComputedValues(t *testing.T) {
	e, err := geod.NewEllipsoid(geod.ObjectMeta{ObjName: "WGS 84"}, 6378137.0, 298.257223563, geod.Metre)
	require.NoError(t, err)
	require.True(t, e.HasInvFlattening)
	require.False(t, e.HasSemiMinor)
	require.InDelta(t, 6356752.3142, e.ComputedSemiMinor(), 1e-4)
	require.Equal(t, geod.BodyEarth, e.CelestialBody())
	require.False(t, e.IsSphere())

	fromAxes, err := geod.NewEllipsoidFromAxes(geod.ObjectMeta{ObjName: "Clarke 1866"}, 6378206.4, 6356583.8, geod.Metre)
	require.NoError(t, err)
	require.False(t, fromAxes.HasInvFlattening)
	require.InDelta(t, 294.978698, fromAxes.ComputedInvFlattening(), 1e-5)

	sphere, err := geod.NewSphere(geod.ObjectMeta{ObjName: "Moon sphere"}, 1737400, geod.Metre)
	require.NoError(t, err)
	require.True(t, sphere.IsSphere())
	require.Equal(t, geod.BodyUnknown, sphere.CelestialBody())
	require.Equal(t, 0.0, sphere.ComputedInvFlattening())
}

func TestEllipsoidInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"negative semi-major", func() error {
			_, err := geod.NewEllipsoid(geod.ObjectMeta{}, -1, 298, geod.Metre)
			return err
		}},
		{"negative inverse flattening", func() error {
			_, err := geod.NewEllipsoid(geod.ObjectMeta{}, 6378137, -5, geod.Metre)
			return err
		}},
		{"angular axis unit", func() error {
			_, err := geod.NewEllipsoid(geod.ObjectMeta{}, 6378137, 298, geod.Degree)
			return err
		}},
		{"semi-minor above semi-major", func() error {
			_, err := geod.NewEllipsoidFromAxes(geod.ObjectMeta{}, 6378137, 6400000, geod.Metre)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.Error(t, err)
			require.True(t, geod.IsInvalidDefinition(err))
		})
	}
}

func TestUnnamedDefault(t *testing.T) {
	var meta geod.ObjectMeta
	require.Equal(t, "unnamed", meta.Name())
}

func TestUnitEquality(t *testing.T) {
	require.True(t, geod.Metre.Equal(geod.Unit{Name: "meter", Factor: 1.0, Kind: geod.UnitLinear}))
	require.False(t, geod.Metre.Equal(geod.Radian))
	require.False(t, geod.Degree.Equal(geod.Radian))

	v, err := geod.Degree.Convert(180, geod.Radian)
	require.NoError(t, err)
	require.InDelta(t, 3.14159265358979, v, 1e-12)

	_, err = geod.Degree.Convert(1, geod.Metre)
	require.Error(t, err)
	require.True(t, geod.IsNotApplicable(err))
}

func TestUnitByName(t *testing.T) {
	for name, want := range map[string]geod.Unit{
		"metre":          geod.Metre,
		"Meter":          geod.Metre,
		"DEGREE":         geod.Degree,
		"US survey foot": geod.USSurveyFoot,
		"grads":          geod.Grad,
	} {
		got, ok := geod.UnitByName(name)
		require.True(t, ok, name)
		require.True(t, want.Equal(got), name)
	}
	_, ok := geod.UnitByName("furlong")
	require.False(t, ok)
}

func TestCoordinateSystemAxisCounts(t *testing.T) {
	_, err := geod.NewCoordinateSystem(geod.CSVertical,
		geod.Axis{Name: "H", Direction: geod.DirUp, Unit: geod.Metre},
		geod.Axis{Name: "H2", Direction: geod.DirUp, Unit: geod.Metre})
	require.Error(t, err)

	_, err = geod.NewCoordinateSystem(geod.CSEllipsoidal,
		geod.Axis{Name: "Longitude", Direction: geod.DirEast, Unit: geod.Metre},
		geod.Axis{Name: "Latitude", Direction: geod.DirNorth, Unit: geod.Degree})
	require.Error(t, err, "angular unit required on ellipsoidal axes")

	cs, err := geod.NewCoordinateSystem(geod.CSEllipsoidal,
		geod.Axis{Name: "Longitude", Direction: geod.DirEast, Unit: geod.Degree},
		geod.Axis{Name: "Latitude", Direction: geod.DirNorth, Unit: geod.Degree})
	require.NoError(t, err)
	require.Equal(t, 2, cs.Dimension())
}

func TestGeodeticCRSRequiresDatum(t *testing.T) {
	_, err := geod.NewGeodeticCRS(geod.ObjectMeta{ObjName: "broken"}, nil, geod.EllipsoidalCS2D(geod.Degree))
	require.Error(t, err)
	require.True(t, geod.IsInvalidDefinition(err))
}

func TestCompoundCRSComponents(t *testing.T) {
	_, err := geod.NewCompoundCRS(geod.ObjectMeta{ObjName: "empty"}, nil)
	require.Error(t, err)
	require.True(t, geod.IsInvalidDefinition(err))

	comp, err := geod.NewCompoundCRS(geod.ObjectMeta{ObjName: "WGS 84 + EGM96"},
		[]geod.CRS{geod.WGS84(), geod.EGM96Height()})
	require.NoError(t, err)

	sub, err := comp.SubCRS(1)
	require.NoError(t, err)
	require.Equal(t, "EGM96 height", sub.Name())

	_, err = comp.SubCRS(5)
	require.Error(t, err)
	require.True(t, geod.IsNotApplicable(err))
}

func TestDatumEnsemble(t *testing.T) {
	_, err := geod.NewDatumEnsemble(geod.ObjectMeta{ObjName: "lonely"}, []geod.Datum{geod.WGS84Frame()}, 2.0)
	require.Error(t, err)

	ens, err := geod.NewDatumEnsemble(geod.ObjectMeta{ObjName: "WGS 84 ensemble"},
		[]geod.Datum{geod.WGS84Frame(), geod.WGS84Frame()}, 2.0)
	require.NoError(t, err)

	crs, err := geod.NewGeodeticCRS(geod.ObjectMeta{ObjName: "WGS 84"}, ens, geod.EllipsoidalCS2DLatLon(geod.Degree))
	require.NoError(t, err)
	// an ensemble is interchangeable with its members under Equivalent
	require.True(t, crs.EquivalentToCRS(geod.WGS84(), geod.Equivalent))
}

func TestExtractGeodeticCRS(t *testing.T) {
	require.Same(t, geod.WebMercator().Base, geod.ExtractGeodeticCRS(geod.WebMercator()))

	comp, err := geod.NewCompoundCRS(geod.ObjectMeta{ObjName: "compound"},
		[]geod.CRS{geod.WGS84(), geod.EGM96Height()})
	require.NoError(t, err)
	g := geod.ExtractGeodeticCRS(comp)
	require.NotNil(t, g)
	require.Equal(t, "WGS 84", g.Name())

	require.Nil(t, geod.ExtractGeodeticCRS(geod.EGM96Height()))
}

func TestConcatenatedOperationChainValidation(t *testing.T) {
	nadShift, err := geod.NewTransformation(geod.ObjectMeta{ObjName: "NAD27 to WGS 84"},
		geod.NAD27(), geod.WGS84(),
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "Geocentric translations"}},
		[]geod.ParamValue{
			geod.MeasureParam("X-axis translation", -8, geod.Metre),
			geod.MeasureParam("Y-axis translation", 160, geod.Metre),
			geod.MeasureParam("Z-axis translation", 176, geod.Metre),
		},
		[]geod.Accuracy{geod.KnownAccuracy(5)})
	require.NoError(t, err)

	etrsShift, err := geod.NewTransformation(geod.ObjectMeta{ObjName: "WGS 84 to ETRS89"},
		geod.WGS84(), geod.ETRS89(),
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "Geocentric translations"}},
		nil, []geod.Accuracy{geod.KnownAccuracy(1)})
	require.NoError(t, err)

	chain, err := geod.NewConcatenatedOperation(geod.ObjectMeta{ObjName: "NAD27 to ETRS89"},
		[]geod.Operation{nadShift, etrsShift})
	require.NoError(t, err)
	require.Equal(t, geod.KnownAccuracy(6), chain.Accuracy())
	require.Equal(t, "NAD27", chain.Source().Name())
	require.Equal(t, "ETRS89", chain.Target().Name())

	// broken chain: join CRS does not match
	_, err = geod.NewConcatenatedOperation(geod.ObjectMeta{ObjName: "broken"},
		[]geod.Operation{etrsShift, etrsShift})
	require.Error(t, err)
	require.True(t, geod.IsInvalidDefinition(err))
}

func TestTransformationGridsNeeded(t *testing.T) {
	tr, err := geod.NewTransformation(geod.ObjectMeta{ObjName: "NAD27 to NAD83 (NADCON)"},
		geod.NAD27(), geod.NAD83(),
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "NADCON"}},
		[]geod.ParamValue{
			geod.FileParam("Latitude difference file", "conus.las"),
			geod.FileParam("Longitude difference file", "conus.los"),
		}, nil)
	require.NoError(t, err)

	grids := tr.GridsNeeded()
	require.Len(t, grids, 2)
	require.Equal(t, "conus.las", grids[0].ShortName)
	// memoized: same backing array on second call
	require.Same(t, &grids[0], &tr.GridsNeeded()[0])

	all := geod.OperationGrids(tr)
	require.Len(t, all, 2)
}

func TestExtentAntiMeridian(t *testing.T) {
	// the NAD83 area of use wraps from the Aleutians to Greenland
	nad83 := geod.NAD83().Extent()
	require.Greater(t, nad83.West(), nad83.East())

	centralUS := geod.NewExtent(-100, 30, -90, 40)
	require.True(t, nad83.Intersects(centralUS))
	require.True(t, nad83.Contains(centralUS))
	overlap := nad83.Intersection(centralUS)
	require.NotNil(t, overlap)
	require.InDelta(t, 100.0, overlap.Area(), 1e-9)

	// the far side of the anti-meridian belongs to the same box
	aleutians := geod.NewExtent(170, 50, 175, 55)
	require.True(t, nad83.Intersects(aleutians))
	require.True(t, nad83.Contains(aleutians))

	// two wrapping boxes rejoin across the anti-meridian
	pacific := geod.NewExtent(150, 0, -120, 60)
	joint := nad83.Intersection(pacific)
	require.NotNil(t, joint)
	require.InDelta(t, 167.65, joint.West(), 1e-9)
	require.InDelta(t, -120.0, joint.East(), 1e-9)
	require.InDelta(t, 14.92, joint.South(), 1e-9)
	require.InDelta(t, 60.0, joint.North(), 1e-9)

	require.False(t, nad83.Intersects(geod.NewExtent(0, 30, 20, 40)))
	require.False(t, nad83.Contains(geod.NewExtent(-60, 5, -50, 20)))
	require.True(t, geod.WorldExtent().Contains(nad83))
	require.Nil(t, pacific.Intersection(geod.NewExtent(-60, 70, -40, 80)))
}

func TestAccuracyOrdering(t *testing.T) {
	require.True(t, geod.KnownAccuracy(5).WorseThan(1))
	require.False(t, geod.KnownAccuracy(1).WorseThan(1))
	require.False(t, geod.UnknownAccuracy.WorseThan(0.001))
}
