package projstr

import (
	"fmt"
	"math"

	"github.com/geodetic-io/georef/geod"
)

// projectedCRS builds the projected CRS for one of the supported
// projection names.
func (b *chainBuilder) projectedCRS(proj string, pos int) (geod.CRS, error) {
	frame, _, err := b.frame()
	if err != nil {
		return nil, err
	}
	// projected bases carry the cataloged latitude-first order
	base, err := geod.NewGeodeticCRS(geod.ObjectMeta{ObjName: b.crsName(frame)},
		frame, geod.EllipsoidalCS2DLatLon(geod.Degree))
	if err != nil {
		return nil, err
	}
	linear, err := b.linearUnit()
	if err != nil {
		return nil, err
	}

	var methodName, convName string
	var params []geod.ParamValue
	switch proj {
	case "tmerc":
		methodName = "Transverse Mercator"
		params, err = b.naturalOriginParams(1)
	case "utm":
		methodName = "Transverse Mercator"
		convName, params, err = b.utmParams()
	case "merc":
		if b.has("lat_ts") {
			methodName = "Mercator (variant B)"
			var latTS, lon0, x0, y0 float64
			latTS, _, err = b.num("lat_ts")
			if err == nil {
				lon0, x0, y0, err = b.commonOffsets()
			}
			params = []geod.ParamValue{
				geod.MeasureParam("Latitude of 1st standard parallel", latTS, geod.Degree),
				geod.MeasureParam("Longitude of natural origin", lon0, geod.Degree),
				geod.MeasureParam("False easting", x0, geod.Metre),
				geod.MeasureParam("False northing", y0, geod.Metre),
			}
		} else {
			methodName = "Mercator (variant A)"
			params, err = b.naturalOriginParams(1)
		}
	case "webmerc":
		methodName = "Popular Visualisation Pseudo Mercator"
		var lat0, lon0, x0, y0 float64
		lat0, err = b.numOr(0, "lat_0")
		if err == nil {
			lon0, x0, y0, err = b.commonOffsets()
		}
		params = []geod.ParamValue{
			geod.MeasureParam("Latitude of natural origin", lat0, geod.Degree),
			geod.MeasureParam("Longitude of natural origin", lon0, geod.Degree),
			geod.MeasureParam("False easting", x0, geod.Metre),
			geod.MeasureParam("False northing", y0, geod.Metre),
		}
	case "lcc":
		methodName, params, err = b.lccParams()
	case "stere":
		var lat0 float64
		lat0, err = b.numOr(0, "lat_0")
		if err == nil {
			if math.Abs(lat0) == 90 {
				methodName = "Polar Stereographic (variant A)"
			} else {
				methodName = "Stereographic"
			}
			params, err = b.naturalOriginParams(1)
		}
	default:
		return nil, geod.NewParseError(pos, "unsupported projection %q", proj)
	}
	if err != nil {
		return nil, err
	}

	if convName == "" {
		convName = "unnamed"
	}
	conv, err := geod.NewConversion(geod.ObjectMeta{ObjName: convName},
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: methodName}}, params)
	if err != nil {
		return nil, err
	}
	cs := geod.CartesianCS2D(linear)
	axes, err := b.applyAxis(cs.Axes)
	if err != nil {
		return nil, err
	}
	cs, err = geod.NewCoordinateSystem(geod.CSCartesian, axes...)
	if err != nil {
		return nil, err
	}
	name := "unknown"
	if base.Name() != "unknown" {
		name = base.Name() + " / " + methodName
	}
	return geod.NewProjectedCRS(geod.ObjectMeta{ObjName: name}, base, conv, cs)
}

func (b *chainBuilder) commonOffsets() (lon0, x0, y0 float64, err error) {
	if lon0, err = b.numOr(0, "lon_0"); err != nil {
		return
	}
	if x0, err = b.numOr(0, "x_0"); err != nil {
		return
	}
	y0, err = b.numOr(0, "y_0")
	return
}

// naturalOriginParams covers the projections parameterized on a natural
// origin with a scale factor.
func (b *chainBuilder) naturalOriginParams(defaultScale float64) ([]geod.ParamValue, error) {
	lat0, err := b.numOr(0, "lat_0")
	if err != nil {
		return nil, err
	}
	lon0, x0, y0, err := b.commonOffsets()
	if err != nil {
		return nil, err
	}
	k0, err := b.numOr(defaultScale, "k", "k_0")
	if err != nil {
		return nil, err
	}
	return []geod.ParamValue{
		geod.MeasureParam("Latitude of natural origin", lat0, geod.Degree),
		geod.MeasureParam("Longitude of natural origin", lon0, geod.Degree),
		geod.MeasureParam("Scale factor at natural origin", k0, geod.Unity),
		geod.MeasureParam("False easting", x0, geod.Metre),
		geod.MeasureParam("False northing", y0, geod.Metre),
	}, nil
}

func (b *chainBuilder) utmParams() (string, []geod.ParamValue, error) {
	zone, ok, err := b.num("zone")
	if err != nil {
		return "", nil, err
	}
	if !ok || zone < 1 || zone > 60 || zone != math.Trunc(zone) {
		return "", nil, geod.NewParseError(b.byKey["proj"].pos, "utm requires +zone=1..60")
	}
	falseNorthing := 0.0
	hemisphere := "N"
	if b.has("south") {
		falseNorthing = 10000000
		hemisphere = "S"
	}
	name := fmt.Sprintf("UTM zone %d%s", int(zone), hemisphere)
	return name, []geod.ParamValue{
		geod.MeasureParam("Latitude of natural origin", 0, geod.Degree),
		geod.MeasureParam("Longitude of natural origin", zone*6-183, geod.Degree),
		geod.MeasureParam("Scale factor at natural origin", 0.9996, geod.Unity),
		geod.MeasureParam("False easting", 500000, geod.Metre),
		geod.MeasureParam("False northing", falseNorthing, geod.Metre),
	}, nil
}

func (b *chainBuilder) lccParams() (string, []geod.ParamValue, error) {
	lat1, hasLat1, err := b.num("lat_1")
	if err != nil {
		return "", nil, err
	}
	lat2, hasLat2, err := b.num("lat_2")
	if err != nil {
		return "", nil, err
	}
	lat0, err := b.numOr(0, "lat_0")
	if err != nil {
		return "", nil, err
	}
	lon0, x0, y0, err := b.commonOffsets()
	if err != nil {
		return "", nil, err
	}
	if hasLat1 && hasLat2 && lat1 != lat2 {
		return "Lambert Conic Conformal (2SP)", []geod.ParamValue{
			geod.MeasureParam("Latitude of false origin", lat0, geod.Degree),
			geod.MeasureParam("Longitude of false origin", lon0, geod.Degree),
			geod.MeasureParam("Latitude of 1st standard parallel", lat1, geod.Degree),
			geod.MeasureParam("Latitude of 2nd standard parallel", lat2, geod.Degree),
			geod.MeasureParam("Easting at false origin", x0, geod.Metre),
			geod.MeasureParam("Northing at false origin", y0, geod.Metre),
		}, nil
	}
	// one standard parallel: lat_1 doubles as the natural origin
	origin := lat0
	if hasLat1 {
		origin = lat1
	}
	k0, err := b.numOr(1, "k", "k_0")
	if err != nil {
		return "", nil, err
	}
	return "Lambert Conic Conformal (1SP)", []geod.ParamValue{
		geod.MeasureParam("Latitude of natural origin", origin, geod.Degree),
		geod.MeasureParam("Longitude of natural origin", lon0, geod.Degree),
		geod.MeasureParam("Scale factor at natural origin", k0, geod.Unity),
		geod.MeasureParam("False easting", x0, geod.Metre),
		geod.MeasureParam("False northing", y0, geod.Metre),
	}, nil
}
