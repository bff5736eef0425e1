package wkt

import (
	"strings"

	"github.com/geodetic-io/georef/geod"
)

// WKT1 carries no CS node; axis lists are flat and often omitted entirely,
// in which case the dialect's implied order applies (longitude/latitude for
// GEOGCS, easting/northing for PROJCS).

// builtinDatumAliases covers the common legacy spellings when no catalog
// is attached.
var builtinDatumAliases = map[string]string{
	"wgs 1984":                    "World Geodetic System 1984",
	"wgs84":                       "World Geodetic System 1984",
	"north american datum 1927":   "North American Datum 1927",
	"north american 1927":         "North American Datum 1927",
	"north american datum 1983":   "North American Datum 1983",
	"osgb 1936":                   "Ordnance Survey of Great Britain 1936",
	"european terrestrial reference system 1989": "European Terrestrial Reference System 1989",
	"etrs 1989": "European Terrestrial Reference System 1989",
}

// resolveDatumName maps a legacy underscore-separated datum name to the
// catalog's official name, falling back to the built-in aliases and then
// to the literal name with underscores unfolded.
func (b *builder) resolveDatumName(raw string) string {
	name := strings.TrimPrefix(raw, "D_")
	if b.opts.Resolver != nil {
		if official, ok := b.opts.Resolver.OfficialNameFromAlias(name, "geodetic_datum"); ok {
			return official
		}
	}
	if official, ok := builtinDatumAliases[geod.FoldName(name)]; ok {
		return official
	}
	return strings.ReplaceAll(name, "_", " ")
}

func (b *builder) resolveCRSName(raw string) string {
	name := strings.TrimPrefix(raw, "GCS_")
	if !strings.Contains(name, "_") {
		return name
	}
	if b.opts.Resolver != nil {
		if official, ok := b.opts.Resolver.OfficialNameFromAlias(name, "crs"); ok {
			return official
		}
	}
	return strings.ReplaceAll(name, "_", " ")
}

var wkt1AxisDirections = map[string]geod.AxisDirection{
	"north": geod.DirNorth, "south": geod.DirSouth,
	"east": geod.DirEast, "west": geod.DirWest,
	"up": geod.DirUp, "down": geod.DirDown,
	"other": geod.DirUnspecified,
}

func (b *builder) wkt1Axes(n *node, unit geod.Unit) ([]geod.Axis, error) {
	var axes []geod.Axis
	for _, an := range n.children("AXIS") {
		name, _ := an.stringAt(0)
		dir := geod.DirUnspecified
		for _, v := range an.values[1:] {
			if v.kind == valKeywordLiteral {
				d, ok := wkt1AxisDirections[strings.ToLower(v.str)]
				if !ok {
					return nil, geod.NewParseError(v.pos, "unknown axis direction %q", v.str)
				}
				dir = d
				break
			}
		}
		axes = append(axes, geod.Axis{Name: name, Direction: dir, Unit: unit})
	}
	return axes, nil
}

// wkt1GeodeticFrame parses DATUM[name, SPHEROID[...], TOWGS84?] and
// returns the frame plus the optional TOWGS84 parameter list.
func (b *builder) wkt1GeodeticFrame(n *node, pm *geod.PrimeMeridian) (*geod.GeodeticFrame, []float64, error) {
	dn := n.child("DATUM")
	if dn == nil {
		return nil, nil, geod.NewParseError(n.pos, "%s %q: missing datum", n.keyword, b.meta(n).Name())
	}
	meta := b.meta(dn)
	meta.ObjName = b.resolveDatumName(meta.Name())

	sn := dn.child("SPHEROID", "ELLIPSOID")
	if sn == nil {
		return nil, nil, geod.NewParseError(dn.pos, "datum %q: missing spheroid", meta.Name())
	}
	ell, err := b.buildEllipsoid(sn)
	if err != nil {
		return nil, nil, err
	}
	ell.ObjName = strings.ReplaceAll(ell.ObjName, "_", " ")

	var toWGS84 []float64
	if tn := dn.child("TOWGS84"); tn != nil {
		for i := range tn.values {
			if v, ok := tn.numberAt(i); ok {
				toWGS84 = append(toWGS84, v)
			}
		}
	}
	frame, err := geod.NewGeodeticFrame(meta, ell, pm)
	if err != nil {
		return nil, nil, err
	}
	return frame, toWGS84, nil
}

func (b *builder) buildGeogCS1(n *node) (geod.CRS, error) {
	meta := b.meta(n)
	meta.ObjName = b.resolveCRSName(meta.Name())

	angular := b.unitIn(n, geod.UnitAngular, geod.Degree)
	var pm *geod.PrimeMeridian
	var err error
	if pmn := n.child("PRIMEM"); pmn != nil {
		pm, err = b.buildPrimeMeridian(pmn, angular)
		if err != nil {
			return nil, err
		}
	}
	frame, toWGS84, err := b.wkt1GeodeticFrame(n, pm)
	if err != nil {
		return nil, err
	}

	axes, err := b.wkt1Axes(n, angular)
	if err != nil {
		return nil, err
	}
	var cs *geod.CoordinateSystem
	if len(axes) == 0 {
		// the legacy grammar implies longitude/latitude
		cs = geod.EllipsoidalCS2D(angular)
	} else {
		cs, err = geod.NewCoordinateSystem(geod.CSEllipsoidal, axes...)
		if err != nil {
			return nil, err
		}
	}
	crs, err := geod.NewGeodeticCRS(meta, frame, cs)
	if err != nil {
		return nil, err
	}
	return b.wrapTOWGS84(crs, toWGS84)
}

func (b *builder) buildGeocCS1(n *node) (geod.CRS, error) {
	meta := b.meta(n)
	linear := b.unitIn(n, geod.UnitLinear, geod.Metre)
	var pm *geod.PrimeMeridian
	var err error
	if pmn := n.child("PRIMEM"); pmn != nil {
		pm, err = b.buildPrimeMeridian(pmn, geod.Degree)
		if err != nil {
			return nil, err
		}
	}
	frame, toWGS84, err := b.wkt1GeodeticFrame(n, pm)
	if err != nil {
		return nil, err
	}
	crs, err := geod.NewGeodeticCRS(meta, frame, geod.GeocentricCS(linear))
	if err != nil {
		return nil, err
	}
	return b.wrapTOWGS84(crs, toWGS84)
}

// wkt1ParamNames maps the legacy snake_case projection parameter names to
// the catalog spellings.
var wkt1ParamNames = map[string]string{
	"latitude_of_origin":  "Latitude of natural origin",
	"central_meridian":    "Longitude of natural origin",
	"scale_factor":        "Scale factor at natural origin",
	"false_easting":       "False easting",
	"false_northing":      "False northing",
	"standard_parallel_1": "Latitude of 1st standard parallel",
	"standard_parallel_2": "Latitude of 2nd standard parallel",
	"latitude_of_center":  "Latitude of projection centre",
	"longitude_of_center": "Longitude of projection centre",
	"azimuth":             "Azimuth of initial line",
}

var wkt1MethodNames = map[string]string{
	"transverse_mercator":                      "Transverse Mercator",
	"mercator_1sp":                             "Mercator (variant A)",
	"mercator_2sp":                             "Mercator (variant B)",
	"mercator_auxiliary_sphere":                "Popular Visualisation Pseudo Mercator",
	"lambert_conformal_conic_1sp":              "Lambert Conic Conformal (1SP)",
	"lambert_conformal_conic_2sp":              "Lambert Conic Conformal (2SP)",
	"oblique_stereographic":                    "Oblique Stereographic",
	"polar_stereographic":                      "Polar Stereographic (variant A)",
	"albers_conic_equal_area":                  "Albers Equal Area",
	"popular_visualisation_pseudo_mercator":    "Popular Visualisation Pseudo Mercator",
	"lambert_azimuthal_equal_area":             "Lambert Azimuthal Equal Area",
	"hotine_oblique_mercator":                  "Hotine Oblique Mercator (variant A)",
	"hotine_oblique_mercator_azimuth_center":   "Hotine Oblique Mercator (variant B)",
	"geostationary_satellite":                  "Geostationary Satellite (Sweep Y)",
	"oblique_mercator":                         "Hotine Oblique Mercator (variant B)",
	"equirectangular":                          "Equidistant Cylindrical",
	"cassini_soldner":                          "Cassini-Soldner",
	"new_zealand_map_grid":                     "New Zealand Map Grid",
	"transverse_mercator_south_orientated":     "Transverse Mercator (South Orientated)",
}

func (b *builder) buildProjCS1(n *node) (geod.CRS, error) {
	meta := b.meta(n)
	gn := n.child("GEOGCS")
	if gn == nil {
		return nil, geod.NewParseError(n.pos, "PROJCS %q: missing GEOGCS", meta.Name())
	}
	baseCRS, err := b.buildGeogCS1(gn)
	if err != nil {
		return nil, err
	}
	var base *geod.GeodeticCRS
	var toWGS84Bound *geod.BoundCRS
	switch c := baseCRS.(type) {
	case *geod.GeodeticCRS:
		base = c
	case *geod.BoundCRS:
		toWGS84Bound = c
		base = c.Base.(*geod.GeodeticCRS)
	}

	pn := n.child("PROJECTION")
	if pn == nil {
		return nil, geod.NewParseError(n.pos, "PROJCS %q: missing PROJECTION", meta.Name())
	}
	methodMeta := b.meta(pn)
	rawMethod := methodMeta.Name()
	if official, ok := wkt1MethodNames[strings.ToLower(rawMethod)]; ok {
		methodMeta.ObjName = official
	} else {
		methodMeta.ObjName = strings.ReplaceAll(rawMethod, "_", " ")
	}

	linear := b.unitIn(n, geod.UnitLinear, geod.Metre)
	angular := geod.Degree
	if gu := gn.child("UNIT"); gu != nil {
		if u, err := b.unit(gu, geod.UnitAngular); err == nil {
			angular = u
		}
	}

	var params []geod.ParamValue
	for _, prm := range n.children("PARAMETER") {
		name, _ := prm.stringAt(0)
		value, ok := prm.numberAt(1)
		if !ok {
			return nil, geod.NewParseError(prm.pos, "parameter %q: missing value", name)
		}
		if official, found := wkt1ParamNames[strings.ToLower(name)]; found {
			name = official
		} else {
			name = strings.ReplaceAll(name, "_", " ")
		}
		params = append(params, geod.MeasureParam(name, value, guessParamUnit(name, angular, linear)))
	}

	conv, err := geod.NewConversion(geod.ObjectMeta{ObjName: "unnamed"}, geod.Method{ObjectMeta: methodMeta}, params)
	if err != nil {
		return nil, err
	}

	axes, err := b.wkt1Axes(n, linear)
	if err != nil {
		return nil, err
	}
	var cs *geod.CoordinateSystem
	if len(axes) == 0 {
		cs = geod.CartesianCS2D(linear)
	} else {
		cs, err = geod.NewCoordinateSystem(geod.CSCartesian, axes...)
		if err != nil {
			return nil, err
		}
	}

	crs, err := geod.NewProjectedCRS(meta, base, conv, cs)
	if err != nil {
		return nil, err
	}
	if toWGS84Bound != nil {
		transform, terr := geod.NewTransformation(
			geod.ObjectMeta{ObjName: "Transformation from " + base.Name() + " to WGS84"},
			crs, toWGS84Bound.Hub,
			toWGS84Bound.Transform.Method, toWGS84Bound.Transform.Params, nil)
		if terr != nil {
			return nil, terr
		}
		return geod.NewBoundCRS(crs, toWGS84Bound.Hub, transform)
	}
	return crs, nil
}

func (b *builder) buildVertCS1(n *node) (geod.CRS, error) {
	meta := b.meta(n)
	var datumMeta geod.ObjectMeta
	if dn := n.child("VERT_DATUM", "VDATUM"); dn != nil {
		datumMeta = b.meta(dn)
		datumMeta.ObjName = strings.ReplaceAll(datumMeta.Name(), "_", " ")
	} else {
		return nil, geod.NewParseError(n.pos, "VERT_CS %q: missing vertical datum", meta.Name())
	}
	unit := b.unitIn(n, geod.UnitLinear, geod.Metre)

	axes, err := b.wkt1Axes(n, unit)
	if err != nil {
		return nil, err
	}
	var cs *geod.CoordinateSystem
	if len(axes) == 0 {
		cs = geod.VerticalCS(unit)
	} else {
		cs, err = geod.NewCoordinateSystem(geod.CSVertical, axes...)
		if err != nil {
			return nil, err
		}
	}
	return geod.NewVerticalCRS(meta, geod.NewVerticalFrame(datumMeta), cs)
}

func (b *builder) buildCompdCS1(n *node) (geod.CRS, error) {
	var components []geod.CRS
	for _, v := range n.values {
		if v.kind != valNode {
			continue
		}
		switch v.child.keyword {
		case "GEOGCS", "PROJCS", "GEOCCS", "VERT_CS", "VERTCS", "LOCAL_CS":
			obj, err := b.buildObject(v.child)
			if err != nil {
				return nil, err
			}
			components = append(components, obj.(geod.CRS))
		}
	}
	return geod.NewCompoundCRS(b.meta(n), components)
}

func (b *builder) buildLocalCS1(n *node) (geod.CRS, error) {
	meta := b.meta(n)
	var datum *geod.EngineeringDatum
	if dn := n.child("LOCAL_DATUM"); dn != nil {
		datum = geod.NewEngineeringDatum(b.meta(dn), "")
	} else {
		datum = geod.NewEngineeringDatum(geod.ObjectMeta{ObjName: meta.Name()}, "")
	}
	unit := b.unitIn(n, geod.UnitLinear, geod.Metre)
	axes, err := b.wkt1Axes(n, unit)
	if err != nil {
		return nil, err
	}
	var cs *geod.CoordinateSystem
	if len(axes) == 0 {
		cs = geod.CartesianCS2D(unit)
	} else {
		cs, err = geod.NewCoordinateSystem(geod.CSCartesian, axes...)
		if err != nil {
			cs, err = geod.NewCoordinateSystem(geod.CSOrdinal, axes...)
			if err != nil {
				return nil, err
			}
		}
	}
	return geod.NewEngineeringCRS(meta, datum, cs)
}

// wrapTOWGS84 turns a CRS carrying a TOWGS84 parameter list into a
// BoundCRS with hub WGS 84.
func (b *builder) wrapTOWGS84(crs geod.CRS, toWGS84 []float64) (geod.CRS, error) {
	if len(toWGS84) == 0 {
		return crs, nil
	}
	return geod.BindToWGS84(crs, toWGS84)
}
