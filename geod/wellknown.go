package geod

import "fmt"

// Well-known definitions available without a catalog. These back the
// identification candidate pool and the built-in entries of the in-memory
// catalog store.

func WGS84Ellipsoid() *Ellipsoid {
	e, _ := NewEllipsoid(ObjectMeta{
		ObjName: "WGS 84",
		Idents:  []Ident{{Authority: "EPSG", Code: "7030"}},
	}, 6378137.0, 298.257223563, Metre)
	return e
}

func GRS80Ellipsoid() *Ellipsoid {
	e, _ := NewEllipsoid(ObjectMeta{
		ObjName: "GRS 1980",
		Idents:  []Ident{{Authority: "EPSG", Code: "7019"}},
	}, 6378137.0, 298.257222101, Metre)
	return e
}

func Clarke1866Ellipsoid() *Ellipsoid {
	e, _ := NewEllipsoidFromAxes(ObjectMeta{
		ObjName: "Clarke 1866",
		Idents:  []Ident{{Authority: "EPSG", Code: "7008"}},
	}, 6378206.4, 6356583.8, Metre)
	return e
}

func AiryEllipsoid() *Ellipsoid {
	e, _ := NewEllipsoid(ObjectMeta{
		ObjName: "Airy 1830",
		Idents:  []Ident{{Authority: "EPSG", Code: "7001"}},
	}, 6377563.396, 299.3249646, Metre)
	return e
}

func WGS84Frame() *GeodeticFrame {
	f, _ := NewGeodeticFrame(ObjectMeta{
		ObjName: "World Geodetic System 1984",
		Idents:  []Ident{{Authority: "EPSG", Code: "6326"}},
	}, WGS84Ellipsoid(), Greenwich)
	return f
}

func NAD83Frame() *GeodeticFrame {
	f, _ := NewGeodeticFrame(ObjectMeta{
		ObjName: "North American Datum 1983",
		Idents:  []Ident{{Authority: "EPSG", Code: "6269"}},
	}, GRS80Ellipsoid(), Greenwich)
	return f
}

func NAD27Frame() *GeodeticFrame {
	f, _ := NewGeodeticFrame(ObjectMeta{
		ObjName: "North American Datum 1927",
		Idents:  []Ident{{Authority: "EPSG", Code: "6267"}},
	}, Clarke1866Ellipsoid(), Greenwich)
	return f
}

func ETRS89Frame() *GeodeticFrame {
	f, _ := NewGeodeticFrame(ObjectMeta{
		ObjName: "European Terrestrial Reference System 1989",
		Idents:  []Ident{{Authority: "EPSG", Code: "6258"}},
	}, GRS80Ellipsoid(), Greenwich)
	return f
}

func OSGB36Frame() *GeodeticFrame {
	f, _ := NewGeodeticFrame(ObjectMeta{
		ObjName: "Ordnance Survey of Great Britain 1936",
		Idents:  []Ident{{Authority: "EPSG", Code: "6277"}},
	}, AiryEllipsoid(), Greenwich)
	return f
}

// WGS84 is the geographic 2D WGS 84 CRS in EPSG latitude/longitude axis
// order (EPSG:4326).
func WGS84() *GeodeticCRS {
	c, _ := NewGeodeticCRS(ObjectMeta{
		ObjName: "WGS 84",
		Idents:  []Ident{{Authority: "EPSG", Code: "4326"}},
	}, WGS84Frame(), EllipsoidalCS2DLatLon(Degree),
		Usage{Scope: "Horizontal component of 3D system.", Area: "World.", BBox: WorldExtent()})
	return c
}

// WGS84LonLat is the axis-swapped variant most tooling expects.
func WGS84LonLat() *GeodeticCRS {
	c, _ := NewGeodeticCRS(ObjectMeta{
		ObjName: "WGS 84 (CRS84)",
		Idents:  []Ident{{Authority: "OGC", Code: "CRS84"}},
	}, WGS84Frame(), EllipsoidalCS2D(Degree),
		Usage{Area: "World.", BBox: WorldExtent()})
	return c
}

func WGS84Geographic3D() *GeodeticCRS {
	c, _ := NewGeodeticCRS(ObjectMeta{
		ObjName: "WGS 84",
		Idents:  []Ident{{Authority: "EPSG", Code: "4979"}},
	}, WGS84Frame(), EllipsoidalCS3D(Degree, Metre),
		Usage{Area: "World.", BBox: WorldExtent()})
	return c
}

func WGS84Geocentric() *GeodeticCRS {
	c, _ := NewGeodeticCRS(ObjectMeta{
		ObjName: "WGS 84",
		Idents:  []Ident{{Authority: "EPSG", Code: "4978"}},
	}, WGS84Frame(), GeocentricCS(Metre),
		Usage{Area: "World.", BBox: WorldExtent()})
	return c
}

func NAD83() *GeodeticCRS {
	c, _ := NewGeodeticCRS(ObjectMeta{
		ObjName: "NAD83",
		Idents:  []Ident{{Authority: "EPSG", Code: "4269"}},
	}, NAD83Frame(), EllipsoidalCS2DLatLon(Degree),
		Usage{Area: "North America.", BBox: NewExtent(167.65, 14.92, -40.73, 86.45)})
	return c
}

func NAD27() *GeodeticCRS {
	c, _ := NewGeodeticCRS(ObjectMeta{
		ObjName: "NAD27",
		Idents:  []Ident{{Authority: "EPSG", Code: "4267"}},
	}, NAD27Frame(), EllipsoidalCS2DLatLon(Degree),
		Usage{Area: "North and central America.", BBox: NewExtent(167.65, 7.15, -47.74, 83.17)})
	return c
}

func ETRS89() *GeodeticCRS {
	c, _ := NewGeodeticCRS(ObjectMeta{
		ObjName: "ETRS89",
		Idents:  []Ident{{Authority: "EPSG", Code: "4258"}},
	}, ETRS89Frame(), EllipsoidalCS2DLatLon(Degree),
		Usage{Area: "Europe.", BBox: NewExtent(-16.1, 32.88, 40.18, 84.73)})
	return c
}

func OSGB36() *GeodeticCRS {
	c, _ := NewGeodeticCRS(ObjectMeta{
		ObjName: "OSGB36",
		Idents:  []Ident{{Authority: "EPSG", Code: "4277"}},
	}, OSGB36Frame(), EllipsoidalCS2DLatLon(Degree),
		Usage{Area: "United Kingdom Ordnance Survey.", BBox: NewExtent(-8.82, 49.79, 1.92, 60.94)})
	return c
}

// WebMercator is EPSG:3857, the pseudo-Mercator used by web maps.
func WebMercator() *ProjectedCRS {
	conv, _ := NewConversion(ObjectMeta{
		ObjName: "Popular Visualisation Pseudo-Mercator",
		Idents:  []Ident{{Authority: "EPSG", Code: "3856"}},
	}, Method{
		ObjectMeta: ObjectMeta{
			ObjName: "Popular Visualisation Pseudo Mercator",
			Idents:  []Ident{{Authority: "EPSG", Code: "1024"}},
		},
	}, []ParamValue{
		MeasureParam("Latitude of natural origin", 0, Degree),
		MeasureParam("Longitude of natural origin", 0, Degree),
		MeasureParam("False easting", 0, Metre),
		MeasureParam("False northing", 0, Metre),
	})
	c, _ := NewProjectedCRS(ObjectMeta{
		ObjName: "WGS 84 / Pseudo-Mercator",
		Idents:  []Ident{{Authority: "EPSG", Code: "3857"}},
	}, WGS84Base(), conv, CartesianCS2D(Metre),
		Usage{Area: "World between 85.06 S and 85.06 N.", BBox: NewExtent(-180, -85.06, 180, 85.06)})
	return c
}

// WGS84Base is the identifier-carrying EPSG:4326 used as the base of
// projected CRS definitions, without the usage block of WGS84().
func WGS84Base() *GeodeticCRS {
	c, _ := NewGeodeticCRS(ObjectMeta{
		ObjName: "WGS 84",
		Idents:  []Ident{{Authority: "EPSG", Code: "4326"}},
	}, WGS84Frame(), EllipsoidalCS2DLatLon(Degree))
	return c
}

// UTMZoneN builds the WGS 84 UTM northern-hemisphere projected CRS for the
// given zone (EPSG:326zz).
func UTMZoneN(zone int) (*ProjectedCRS, error) {
	if zone < 1 || zone > 60 {
		return nil, NewInvalidDefinition("UTM zone must be in 1..60, got %d", zone)
	}
	lon0 := float64(-183 + 6*zone)
	conv, _ := NewConversion(ObjectMeta{
		ObjName: fmt.Sprintf("UTM zone %dN", zone),
	}, Method{
		ObjectMeta: ObjectMeta{
			ObjName: "Transverse Mercator",
			Idents:  []Ident{{Authority: "EPSG", Code: "9807"}},
		},
	}, []ParamValue{
		MeasureParam("Latitude of natural origin", 0, Degree),
		MeasureParam("Longitude of natural origin", lon0, Degree),
		MeasureParam("Scale factor at natural origin", 0.9996, Unity),
		MeasureParam("False easting", 500000, Metre),
		MeasureParam("False northing", 0, Metre),
	})
	west := lon0 - 3
	return NewProjectedCRS(ObjectMeta{
		ObjName: fmt.Sprintf("WGS 84 / UTM zone %dN", zone),
		Idents:  []Ident{{Authority: "EPSG", Code: fmt.Sprintf("326%02d", zone)}},
	}, WGS84Base(), conv, CartesianCS2D(Metre),
		Usage{Area: fmt.Sprintf("Northern hemisphere between %g°E and %g°E.", west, west+6), BBox: NewExtent(west, 0, west+6, 84)})
}

// EGM96Height is the EPSG:5773 gravity-related height CRS.
func EGM96Height() *VerticalCRS {
	frame := NewVerticalFrame(ObjectMeta{
		ObjName: "EGM96 geoid",
		Idents:  []Ident{{Authority: "EPSG", Code: "5171"}},
	})
	c, _ := NewVerticalCRS(ObjectMeta{
		ObjName: "EGM96 height",
		Idents:  []Ident{{Authority: "EPSG", Code: "5773"}},
	}, frame, VerticalCS(Metre),
		Usage{Area: "World.", BBox: WorldExtent()})
	return c
}
