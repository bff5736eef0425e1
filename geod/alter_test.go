package geod_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geodetic-io/georef/geod"
)

func TestAlterNameIsIdempotent(t *testing.T) {
	once := geod.AlterName(geod.WGS84(), "X")
	twice := geod.AlterName(once, "X")
	require.True(t, once.EquivalentToCRS(twice, geod.Strict))
	require.Equal(t, "X", once.Name())
	require.Empty(t, once.Identifiers())
}

func TestAlterNameLeavesOriginalUntouched(t *testing.T) {
	orig := geod.WGS84()
	_ = geod.AlterName(orig, "renamed")
	require.Equal(t, "WGS 84", orig.Name())
	require.Len(t, orig.Identifiers(), 1)
}

func TestAlterID(t *testing.T) {
	altered := geod.AlterID(geod.WGS84(), geod.Ident{Authority: "TEST", Code: "1"})
	require.Equal(t, []geod.Ident{{Authority: "TEST", Code: "1"}}, altered.Identifiers())
	require.True(t, altered.EquivalentToCRS(geod.WGS84(), geod.Equivalent))
}

func TestAlterGeodeticCRS(t *testing.T) {
	merc := geod.WebMercator()
	altered := geod.AlterGeodeticCRS(merc, geod.ETRS89())
	require.Equal(t, "ETRS89", geod.ExtractGeodeticCRS(altered).Name())
	// original untouched
	require.Equal(t, "WGS 84", geod.ExtractGeodeticCRS(merc).Name())

	comp, err := geod.NewCompoundCRS(geod.ObjectMeta{ObjName: "comp"},
		[]geod.CRS{geod.WGS84(), geod.EGM96Height()})
	require.NoError(t, err)
	alteredComp := geod.AlterGeodeticCRS(comp, geod.NAD83())
	require.Equal(t, "NAD83", geod.ExtractGeodeticCRS(alteredComp).Name())
}

func TestAlterCSLinearUnit(t *testing.T) {
	merc := geod.WebMercator()
	altered, err := geod.AlterCSLinearUnit(merc, geod.Foot)
	require.NoError(t, err)
	for _, ax := range altered.(*geod.ProjectedCRS).CS.Axes {
		require.True(t, geod.Foot.Equal(ax.Unit))
	}
	// original untouched
	for _, ax := range merc.CS.Axes {
		require.True(t, geod.Metre.Equal(ax.Unit))
	}

	_, err = geod.AlterCSLinearUnit(geod.WGS84(), geod.Degree)
	require.Error(t, err)
	require.True(t, geod.IsInvalidDefinition(err))
}

func TestAlterCSAngularUnit(t *testing.T) {
	altered, err := geod.AlterCSAngularUnit(geod.WGS84(), geod.Grad)
	require.NoError(t, err)
	for _, ax := range altered.(*geod.GeodeticCRS).CS.Axes {
		require.True(t, geod.Grad.Equal(ax.Unit))
	}

	_, err = geod.AlterCSAngularUnit(geod.WebMercator(), geod.Grad)
	require.Error(t, err)
	require.True(t, geod.IsNotApplicable(err))
}

func TestPromoteAndDemote(t *testing.T) {
	promoted, err := geod.PromoteTo3D(geod.WGS84(), "WGS 84 3D")
	require.NoError(t, err)
	require.Equal(t, geod.CRSGeographic3D, promoted.Kind())

	demoted, err := geod.DemoteTo2D(promoted, "WGS 84 2D")
	require.NoError(t, err)
	require.Equal(t, geod.CRSGeographic2D, demoted.Kind())
	require.True(t, demoted.EquivalentToCRS(geod.WGS84(), geod.Equivalent))

	_, err = geod.PromoteTo3D(geod.EGM96Height(), "")
	require.Error(t, err)
	require.True(t, geod.IsNotApplicable(err))
}

type staticWGS84Source struct {
	tr *geod.Transformation
}

func (s staticWGS84Source) TransformationToWGS84(crs geod.CRS, allowIntermediate bool) (*geod.Transformation, geod.CRS, error) {
	if s.tr == nil {
		return nil, nil, nil
	}
	return s.tr, geod.WGS84(), nil
}

func TestToBoundCRSWithWGS84(t *testing.T) {
	tr, err := geod.NewTransformation(geod.ObjectMeta{ObjName: "NAD27 to WGS 84 (1)"},
		geod.NAD27(), geod.WGS84(),
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "Geocentric translations"}},
		nil, []geod.Accuracy{geod.KnownAccuracy(5)})
	require.NoError(t, err)

	bound := geod.ToBoundCRSWithWGS84(geod.NAD27(), staticWGS84Source{tr: tr}, false)
	require.Equal(t, geod.CRSBound, bound.Kind())
	require.Equal(t, "WGS 84", bound.(*geod.BoundCRS).Hub.Name())

	// no transformation found: original CRS comes back unchanged
	orig := geod.NAD27()
	same := geod.ToBoundCRSWithWGS84(orig, staticWGS84Source{}, false)
	require.Same(t, geod.CRS(orig), same)
}
