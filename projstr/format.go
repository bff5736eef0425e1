package projstr

import (
	"strconv"
	"strings"

	"github.com/geodetic-io/georef/geod"
)

// Format writes crs as a +key=value chain. Geographic, geocentric, and
// projected CRS are supported, plus a BoundCRS whose transformation is
// expressible as +towgs84 or +nadgrids; anything else yields a
// FormattingNotSupported error.
func Format(crs geod.CRS) (string, error) {
	f := &strFormatter{}
	parts, err := f.crs(crs)
	if err != nil {
		return "", err
	}
	parts = append(parts, "+no_defs", "+type=crs")
	return strings.Join(parts, " "), nil
}

type strFormatter struct {
	// suppressDatum forces +ellps output so that a datum shorthand does
	// not smuggle its own shift next to an explicit +towgs84
	suppressDatum bool
}

func fnum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (f *strFormatter) crs(crs geod.CRS) ([]string, error) {
	switch c := crs.(type) {
	case *geod.GeodeticCRS:
		if c.IsGeographic() {
			return f.geographic(c)
		}
		return f.geocentric(c)
	case *geod.ProjectedCRS:
		return f.projected(c)
	case *geod.BoundCRS:
		return f.bound(c)
	default:
		return nil, geod.NewFormattingNotSupported("cannot express a %s CRS as a proj string", crs.Kind())
	}
}

func (f *strFormatter) bound(c *geod.BoundCRS) ([]string, error) {
	f.suppressDatum = true
	parts, err := f.crs(c.Base)
	if err != nil {
		return nil, err
	}
	if values, ok := c.Transform.TOWGS84Parameters(); ok {
		strs := make([]string, len(values))
		for i, v := range values {
			strs[i] = fnum(v)
		}
		return append(parts, "+towgs84="+strings.Join(strs, ",")), nil
	}
	if strings.EqualFold(c.Transform.Method.Name(), "NTv2") {
		for _, p := range c.Transform.Params {
			if p.Kind == geod.ParamFile {
				return append(parts, "+nadgrids="+p.File), nil
			}
		}
	}
	return nil, geod.NewFormattingNotSupported("cannot express transformation %q as a proj string", c.Transform.Name())
}

var ellipsoidCodes = []string{
	"WGS84", "GRS80", "airy", "clrk66", "intl", "krass", "bessel", "WGS72", "sphere",
}

// datumCodes reverses the +datum table for the zero-shift datums.
var datumCodes = map[string]string{
	"World Geodetic System 1984":          "WGS84",
	"World Geodetic System 1984 ensemble": "WGS84",
	"North American Datum 1983":           "NAD83",
}

func (f *strFormatter) datumParts(d geod.Datum) ([]string, error) {
	if !f.suppressDatum {
		if code, ok := datumCodes[d.Name()]; ok {
			return []string{"+datum=" + code}, nil
		}
	}
	var ell *geod.Ellipsoid
	switch frame := d.(type) {
	case *geod.GeodeticFrame:
		ell = frame.Ellipsoid
	case *geod.DatumEnsemble:
		for _, m := range frame.Members {
			if gf, ok := m.(*geod.GeodeticFrame); ok {
				ell = gf.Ellipsoid
				break
			}
		}
	}
	if ell == nil {
		return nil, geod.NewFormattingNotSupported("datum %q has no ellipsoid", d.Name())
	}
	// matched tighter than the equivalence tolerance: WGS84 and GRS80
	// differ in the sixth decimal of the inverse flattening
	for _, code := range ellipsoidCodes {
		known, err := knownEllipsoids[code]()
		if err != nil {
			continue
		}
		if known.IsSphere() != ell.IsSphere() {
			continue
		}
		if !nearly(known.SemiMajor, ell.Unit.ToSI(ell.SemiMajor)) {
			continue
		}
		if !ell.IsSphere() && !nearly(known.ComputedInvFlattening(), ell.ComputedInvFlattening()) {
			continue
		}
		return []string{"+ellps=" + code}, nil
	}
	a := ell.Unit.ToSI(ell.SemiMajor)
	if ell.IsSphere() {
		return []string{"+a=" + fnum(a), "+b=" + fnum(a)}, nil
	}
	return []string{"+a=" + fnum(a), "+rf=" + fnum(ell.ComputedInvFlattening())}, nil
}

func (f *strFormatter) meridianParts(d geod.Datum) []string {
	gf, ok := d.(*geod.GeodeticFrame)
	if !ok || gf.PrimeMeridian == nil || gf.PrimeMeridian.IsGreenwich() {
		return nil
	}
	lonDeg := gf.PrimeMeridian.Unit.ToSI(gf.PrimeMeridian.Longitude) / geod.Degree.Factor
	for name, known := range knownMeridians {
		if name != "greenwich" && nearly(known, lonDeg) {
			return []string{"+pm=" + name}
		}
	}
	return []string{"+pm=" + fnum(lonDeg)}
}

func nearly(a, b float64) bool {
	d := a - b
	return d < 1e-8 && d > -1e-8
}

// axisSpec encodes the axis order; the conventional east,north order
// yields nothing.
func axisSpec(cs *geod.CoordinateSystem) ([]string, error) {
	chars := map[geod.AxisDirection]byte{
		geod.DirEast: 'e', geod.DirWest: 'w',
		geod.DirNorth: 'n', geod.DirSouth: 's',
		geod.DirUp: 'u', geod.DirDown: 'd',
	}
	var sb strings.Builder
	for _, ax := range cs.Axes {
		ch, ok := chars[ax.Direction]
		if !ok {
			return nil, geod.NewFormattingNotSupported("cannot express axis direction %q as a proj string", ax.Direction)
		}
		sb.WriteByte(ch)
	}
	spec := sb.String()
	if len(spec) == 2 {
		spec += "u"
	}
	if spec == "enu" {
		return nil, nil
	}
	return []string{"+axis=" + spec}, nil
}

func unitParts(u geod.Unit) []string {
	for code, known := range knownUnits {
		if u.Equal(known) {
			return []string{"+units=" + code}
		}
	}
	return []string{"+to_meter=" + fnum(u.Factor)}
}

func (f *strFormatter) geographic(c *geod.GeodeticCRS) ([]string, error) {
	parts := []string{"+proj=longlat"}
	dp, err := f.datumParts(c.Datum)
	if err != nil {
		return nil, err
	}
	parts = append(parts, dp...)
	parts = append(parts, f.meridianParts(c.Datum)...)
	ap, err := axisSpec(c.CS)
	if err != nil {
		return nil, err
	}
	return append(parts, ap...), nil
}

func (f *strFormatter) geocentric(c *geod.GeodeticCRS) ([]string, error) {
	parts := []string{"+proj=geocent"}
	dp, err := f.datumParts(c.Datum)
	if err != nil {
		return nil, err
	}
	parts = append(parts, dp...)
	return append(parts, unitParts(c.CS.Axes[0].Unit)...), nil
}

// projParamKeys maps catalog parameter names to chain keys.
var projParamKeys = map[string]string{
	"Latitude of natural origin":        "lat_0",
	"Longitude of natural origin":       "lon_0",
	"Scale factor at natural origin":    "k",
	"False easting":                     "x_0",
	"False northing":                    "y_0",
	"Latitude of false origin":          "lat_0",
	"Longitude of false origin":         "lon_0",
	"Latitude of 1st standard parallel": "lat_1",
	"Latitude of 2nd standard parallel": "lat_2",
	"Easting at false origin":           "x_0",
	"Northing at false origin":          "y_0",
}

func (f *strFormatter) projected(c *geod.ProjectedCRS) ([]string, error) {
	parts, err := f.projectionParts(c.Conversion)
	if err != nil {
		return nil, err
	}
	dp, err := f.datumParts(c.Base.Datum)
	if err != nil {
		return nil, err
	}
	parts = append(parts, dp...)
	parts = append(parts, f.meridianParts(c.Base.Datum)...)
	parts = append(parts, unitParts(c.CS.Axes[0].Unit)...)
	ap, err := axisSpec(c.CS)
	if err != nil {
		return nil, err
	}
	return append(parts, ap...), nil
}

func (f *strFormatter) projectionParts(conv *geod.Conversion) ([]string, error) {
	method := conv.Method.Name()
	paramDeg := func(name string) float64 {
		p, ok := conv.Parameter(name)
		if !ok {
			return 0
		}
		return p.Unit.ToSI(p.Value) / geod.Degree.Factor
	}
	paramM := func(name string) float64 {
		p, ok := conv.Parameter(name)
		if !ok {
			return 0
		}
		return p.Unit.ToSI(p.Value)
	}

	if method == "Transverse Mercator" {
		if zone, south, ok := utmZoneOf(conv); ok {
			parts := []string{"+proj=utm", "+zone=" + strconv.Itoa(zone)}
			if south {
				parts = append(parts, "+south")
			}
			return parts, nil
		}
	}

	var projName string
	latTSKey := "lat_1"
	switch method {
	case "Transverse Mercator":
		projName = "tmerc"
	case "Mercator (variant A)":
		projName = "merc"
	case "Mercator (variant B)":
		projName = "merc"
		latTSKey = "lat_ts"
	case "Popular Visualisation Pseudo Mercator":
		projName = "webmerc"
	case "Lambert Conic Conformal (1SP)", "Lambert Conic Conformal (2SP)":
		projName = "lcc"
	case "Polar Stereographic (variant A)", "Stereographic":
		projName = "stere"
	default:
		return nil, geod.NewFormattingNotSupported("cannot express method %q as a proj string", method)
	}

	parts := []string{"+proj=" + projName}
	for _, p := range conv.Params {
		if p.Kind != geod.ParamMeasure {
			continue
		}
		key, ok := projParamKeys[p.Name]
		if !ok {
			return nil, geod.NewFormattingNotSupported("cannot express parameter %q as a proj string", p.Name)
		}
		if key == "lat_1" && latTSKey == "lat_ts" {
			key = "lat_ts"
		}
		var value float64
		switch p.Unit.Kind {
		case geod.UnitAngular:
			value = paramDeg(p.Name)
		case geod.UnitLinear:
			value = paramM(p.Name)
		default:
			value = p.Value
		}
		parts = append(parts, "+"+key+"="+fnum(value))
	}
	return parts, nil
}

// utmZoneOf recognizes the UTM parameterization of a Transverse Mercator
// conversion.
func utmZoneOf(conv *geod.Conversion) (zone int, south bool, ok bool) {
	get := func(name string) (float64, bool) {
		p, found := conv.Parameter(name)
		if !found || p.Kind != geod.ParamMeasure {
			return 0, false
		}
		return p.Unit.ToSI(p.Value), true
	}
	lat0, ok1 := get("Latitude of natural origin")
	lon0, ok2 := get("Longitude of natural origin")
	k0, ok3 := get("Scale factor at natural origin")
	x0, ok4 := get("False easting")
	y0, ok5 := get("False northing")
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return 0, false, false
	}
	if lat0 != 0 || !nearly(k0, 0.9996) || !nearly(x0, 500000) {
		return 0, false, false
	}
	lon0deg := lon0 / geod.Degree.Factor
	z := (lon0deg + 183) / 6
	if z < 1 || z > 60 || !nearly(z, float64(int(z+0.5))) {
		return 0, false, false
	}
	switch {
	case y0 == 0:
		return int(z + 0.5), false, true
	case nearly(y0, 10000000):
		return int(z + 0.5), true, true
	}
	return 0, false, false
}
