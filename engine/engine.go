// Package engine bridges resolved CRS definitions to the numeric
// projection engine. It maps the object model onto wgs84 coordinate
// reference systems and returns plain transform functions; projection
// formulas themselves are the engine's concern.
package engine

import (
	"github.com/wroge/wgs84"

	"github.com/geodetic-io/georef/geod"
)

type spheroid struct {
	a, fi float64
}

func (s spheroid) A() float64  { return s.a }
func (s spheroid) Fi() float64 { return s.fi }

// TransformFunc converts one coordinate triple.
type TransformFunc func(a, b, c float64) (a2, b2, c2 float64)

// Transform builds the numeric transform between two CRS. Both must be
// expressible in the engine; see BuildCRS.
func Transform(source, target geod.CRS) (TransformFunc, error) {
	from, err := BuildCRS(source)
	if err != nil {
		return nil, err
	}
	to, err := BuildCRS(target)
	if err != nil {
		return nil, err
	}
	f := wgs84.Transform(from, to)
	return func(a, b, c float64) (float64, float64, float64) {
		return f(a, b, c)
	}, nil
}

// BuildCRS maps a geodetic, projected, or bound CRS onto the engine.
// Transverse Mercator and Web Mercator projections are supported;
// anything else is reported as not supported.
func BuildCRS(crs geod.CRS) (wgs84.CoordinateReferenceSystem, error) {
	switch c := crs.(type) {
	case *geod.GeodeticCRS:
		return buildGeodetic(c, nil)
	case *geod.ProjectedCRS:
		return buildProjected(c, nil)
	case *geod.BoundCRS:
		return buildBound(c)
	default:
		return nil, geod.NewNotApplicable("cannot evaluate a %s CRS numerically", crs.Kind())
	}
}

func buildBound(c *geod.BoundCRS) (wgs84.CoordinateReferenceSystem, error) {
	values, ok := c.Transform.TOWGS84Parameters()
	if !ok {
		return nil, geod.NewNotApplicable("transformation %q is not a Helmert shift", c.Transform.Name())
	}
	var rx, ry, rz, ds float64
	if len(values) == 7 {
		rx, ry, rz, ds = values[3], values[4], values[5], values[6]
	}
	helmert := wgs84.Helmert(0, 0, values[0], values[1], values[2], rx, ry, rz, ds).Transformation
	switch base := c.Base.(type) {
	case *geod.GeodeticCRS:
		return buildGeodetic(base, helmert)
	case *geod.ProjectedCRS:
		return buildProjected(base, helmert)
	default:
		return nil, geod.NewNotApplicable("cannot evaluate a bound %s CRS numerically", c.Base.Kind())
	}
}

func datumOf(g *geod.GeodeticCRS, shift wgs84.Transformation) (wgs84.Datum, error) {
	ell := g.Ellipsoid()
	if ell == nil {
		return wgs84.Datum{}, geod.NewNotApplicable("CRS %q has no ellipsoid", g.Name())
	}
	return wgs84.Datum{
		Spheroid:       spheroid{a: ell.Unit.ToSI(ell.SemiMajor), fi: ell.ComputedInvFlattening()},
		Transformation: shift,
	}, nil
}

func buildGeodetic(g *geod.GeodeticCRS, shift wgs84.Transformation) (wgs84.CoordinateReferenceSystem, error) {
	datum, err := datumOf(g, shift)
	if err != nil {
		return nil, err
	}
	if g.IsGeographic() {
		if len(g.CS.Axes) == 3 {
			return nil, geod.NewNotApplicable("cannot evaluate a geographic 3D CRS numerically")
		}
		return datum.LonLat(), nil
	}
	return datum.XYZ(), nil
}

func buildProjected(p *geod.ProjectedCRS, shift wgs84.Transformation) (wgs84.CoordinateReferenceSystem, error) {
	datum, err := datumOf(p.Base, shift)
	if err != nil {
		return nil, err
	}
	deg := func(name string) float64 {
		v, ok := p.Conversion.Parameter(name)
		if !ok {
			return 0
		}
		return v.Unit.ToSI(v.Value) / geod.Degree.Factor
	}
	metres := func(name string) float64 {
		v, ok := p.Conversion.Parameter(name)
		if !ok {
			return 0
		}
		return v.Unit.ToSI(v.Value)
	}
	scale := func(name string, fallback float64) float64 {
		v, ok := p.Conversion.Parameter(name)
		if !ok {
			return fallback
		}
		return v.Unit.ToSI(v.Value)
	}

	switch p.Conversion.Method.Name() {
	case "Transverse Mercator":
		return datum.TransverseMercator(
			deg("Longitude of natural origin"),
			deg("Latitude of natural origin"),
			scale("Scale factor at natural origin", 1),
			metres("False easting"),
			metres("False northing"),
		), nil
	case "Popular Visualisation Pseudo Mercator":
		return datum.WebMercator(), nil
	default:
		return nil, geod.NewNotApplicable("cannot evaluate method %q numerically", p.Conversion.Method.Name())
	}
}
