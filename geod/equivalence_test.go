package geod_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geodetic-io/georef/geod"
)

func sampleCRSSet() []geod.CRS {
	utm32, _ := geod.UTMZoneN(32)
	compound, _ := geod.NewCompoundCRS(geod.ObjectMeta{ObjName: "WGS 84 + EGM96 height"},
		[]geod.CRS{geod.WGS84(), geod.EGM96Height()})
	return []geod.CRS{
		geod.WGS84(),
		geod.WGS84Geographic3D(),
		geod.WGS84Geocentric(),
		geod.NAD27(),
		geod.ETRS89(),
		geod.WebMercator(),
		utm32,
		geod.EGM96Height(),
		compound,
	}
}

// equivalence must be an equivalence relation for all three criteria
func TestEquivalenceRelationProperties(t *testing.T) {
	criteria := []geod.Criterion{geod.Strict, geod.Equivalent, geod.EquivalentExceptAxisOrder}
	set := sampleCRSSet()
	for _, crit := range criteria {
		for i, a := range set {
			require.True(t, a.EquivalentToCRS(a, crit), "reflexive: %s under %s", a.Name(), crit)
			for j, b := range set {
				if a.EquivalentToCRS(b, crit) != b.EquivalentToCRS(a, crit) {
					t.Fatalf("symmetry violated for %d/%d under %v", i, j, crit)
				}
				for _, c := range set {
					if a.EquivalentToCRS(b, crit) && b.EquivalentToCRS(c, crit) {
						require.True(t, a.EquivalentToCRS(c, crit),
							"transitivity: %s ~ %s ~ %s under %s", a.Name(), b.Name(), c.Name(), crit)
					}
				}
			}
		}
	}
}

func TestDistinctCRSAreNotEquivalent(t *testing.T) {
	set := sampleCRSSet()
	for i, a := range set {
		for j, b := range set {
			if i == j {
				continue
			}
			require.False(t, a.EquivalentToCRS(b, geod.Equivalent),
				"%s should not be equivalent to %s", a.Name(), b.Name())
		}
	}
}

func TestAxisOrderCriterion(t *testing.T) {
	latLon := geod.WGS84()

	lonLat, err := geod.NewGeodeticCRS(geod.ObjectMeta{ObjName: "WGS 84"},
		geod.WGS84Frame(), geod.EllipsoidalCS2D(geod.Degree))
	require.NoError(t, err)

	require.False(t, latLon.EquivalentToCRS(lonLat, geod.Equivalent))
	require.True(t, latLon.EquivalentToCRS(lonLat, geod.EquivalentExceptAxisOrder))

	// the exception applies only at geographic CRS nodes: geocentric systems
	// with shuffled axes stay different
	shuffled, err := geod.NewCoordinateSystem(geod.CSCartesian,
		geod.Axis{Name: "Geocentric Y", Abbrev: "Y", Direction: geod.DirGeocentricY, Unit: geod.Metre},
		geod.Axis{Name: "Geocentric X", Abbrev: "X", Direction: geod.DirGeocentricX, Unit: geod.Metre},
		geod.Axis{Name: "Geocentric Z", Abbrev: "Z", Direction: geod.DirGeocentricZ, Unit: geod.Metre},
	)
	require.NoError(t, err)
	geocentricShuffled, err := geod.NewGeodeticCRS(geod.ObjectMeta{ObjName: "WGS 84"},
		geod.WGS84Frame(), shuffled)
	require.NoError(t, err)
	require.False(t, geod.WGS84Geocentric().EquivalentToCRS(geocentricShuffled, geod.EquivalentExceptAxisOrder))
}

func TestMetadataIgnoredUnderEquivalent(t *testing.T) {
	a := geod.WGS84()
	b := geod.AlterName(geod.WGS84(), "my WGS84 flavour")

	require.False(t, a.EquivalentToCRS(b, geod.Strict))
	require.True(t, a.EquivalentToCRS(b, geod.Equivalent))
}

func TestEllipsoidEquivalenceAcrossDefinitionStyle(t *testing.T) {
	byFlattening, err := geod.NewEllipsoid(geod.ObjectMeta{ObjName: "A"}, 6378137.0, 298.257223563, geod.Metre)
	require.NoError(t, err)
	byAxes, err := geod.NewEllipsoidFromAxes(geod.ObjectMeta{ObjName: "B"}, 6378137.0, byFlattening.ComputedSemiMinor(), geod.Metre)
	require.NoError(t, err)

	require.True(t, byFlattening.EquivalentTo(byAxes, geod.Equivalent))
	require.False(t, byFlattening.EquivalentTo(byAxes, geod.Strict))
}

func TestPrimeMeridianGreenwichIdentity(t *testing.T) {
	zeroRad, err := geod.NewPrimeMeridian(geod.ObjectMeta{ObjName: "Reference meridian"}, 0, geod.Radian)
	require.NoError(t, err)
	require.True(t, zeroRad.EquivalentTo(geod.Greenwich, geod.Equivalent))

	paris, err := geod.NewPrimeMeridian(geod.ObjectMeta{ObjName: "Paris"}, 2.5969213, geod.Grad)
	require.NoError(t, err)
	require.False(t, paris.EquivalentTo(geod.Greenwich, geod.Equivalent))
}
