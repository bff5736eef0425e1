// Package projstr parses and formats the compact "+key=value" chain
// grammar for coordinate reference systems.
package projstr

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/geodetic-io/georef/geod"
)

// Options tunes parsing. The zero value selects the modern
// interpretation: angular coordinates in degrees and a plain WGS 84
// datum when none is named.
type Options struct {
	// Legacy selects the historical interpretation of a bare chain:
	// angular coordinates in radians and, when no datum or ellipsoid is
	// named, a GRS80 ellipsoid pinned to WGS 84 with a zero shift.
	Legacy bool
}

// token is one +key or +key=value element with its byte offset, kept
// for error positions.
type token struct {
	key   string
	value string
	pos   int
}

func tokenize(text string) ([]token, error) {
	var out []token
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		if i >= len(runes) {
			break
		}
		start := i
		if runes[i] != '+' {
			return nil, geod.NewParseError(start, "expected '+', got %q", string(runes[i]))
		}
		i++
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			i++
		}
		word := string(runes[start+1 : i])
		if word == "" {
			return nil, geod.NewParseError(start, "empty parameter")
		}
		key, value, _ := strings.Cut(word, "=")
		out = append(out, token{key: key, value: value, pos: start})
	}
	if len(out) == 0 {
		return nil, geod.NewParseError(0, "empty definition")
	}
	return out, nil
}

// chain gives keyed access to the token list.
type chain struct {
	tokens []token
	byKey  map[string]token
}

func newChain(tokens []token) *chain {
	c := &chain{tokens: tokens, byKey: make(map[string]token, len(tokens))}
	for _, t := range tokens {
		if _, dup := c.byKey[t.key]; !dup {
			c.byKey[t.key] = t
		}
	}
	return c
}

func (c *chain) has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

func (c *chain) str(key string) (string, bool) {
	t, ok := c.byKey[key]
	return t.value, ok
}

func (c *chain) num(key string) (float64, bool, error) {
	t, ok := c.byKey[key]
	if !ok {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(t.value, 64)
	if err != nil {
		return 0, false, geod.NewParseError(t.pos, "parameter %q: malformed number %q", t.key, t.value)
	}
	return f, true, nil
}

// numOr returns the value of the first present key, or def.
func (c *chain) numOr(def float64, keys ...string) (float64, error) {
	for _, key := range keys {
		v, ok, err := c.num(key)
		if err != nil {
			return 0, err
		}
		if ok {
			return v, nil
		}
	}
	return def, nil
}

// knownEllipsoids is the builtin +ellps table.
var knownEllipsoids = map[string]func() (*geod.Ellipsoid, error){
	"WGS84": func() (*geod.Ellipsoid, error) { return geod.WGS84Ellipsoid(), nil },
	"GRS80": func() (*geod.Ellipsoid, error) { return geod.GRS80Ellipsoid(), nil },
	"airy":  func() (*geod.Ellipsoid, error) { return geod.AiryEllipsoid(), nil },
	"clrk66": func() (*geod.Ellipsoid, error) {
		return geod.Clarke1866Ellipsoid(), nil
	},
	"intl": func() (*geod.Ellipsoid, error) {
		return geod.NewEllipsoid(geod.ObjectMeta{ObjName: "International 1924"}, 6378388, 297, geod.Metre)
	},
	"krass": func() (*geod.Ellipsoid, error) {
		return geod.NewEllipsoid(geod.ObjectMeta{ObjName: "Krassowsky 1940"}, 6378245, 298.3, geod.Metre)
	},
	"bessel": func() (*geod.Ellipsoid, error) {
		return geod.NewEllipsoid(geod.ObjectMeta{ObjName: "Bessel 1841"}, 6377397.155, 299.1528128, geod.Metre)
	},
	"WGS72": func() (*geod.Ellipsoid, error) {
		return geod.NewEllipsoid(geod.ObjectMeta{ObjName: "WGS 72"}, 6378135, 298.26, geod.Metre)
	},
	"sphere": func() (*geod.Ellipsoid, error) {
		return geod.NewSphere(geod.ObjectMeta{ObjName: "Normal Sphere (r=6370997)"}, 6370997, geod.Metre)
	},
}

// knownDatums maps +datum codes to a frame and the implied WGS 84 shift.
type datumEntry struct {
	frame   func() *geod.GeodeticFrame
	toWGS84 []float64
}

var knownDatums = map[string]datumEntry{
	"WGS84":  {frame: geod.WGS84Frame},
	"NAD83":  {frame: geod.NAD83Frame},
	"NAD27":  {frame: geod.NAD27Frame},
	"OSGB36": {frame: geod.OSGB36Frame, toWGS84: []float64{446.448, -125.157, 542.06, 0.15, 0.247, 0.842, -20.489}},
}

// knownMeridians is the builtin +pm table, longitudes in degrees east of
// Greenwich.
var knownMeridians = map[string]float64{
	"greenwich": 0,
	"paris":     2.33722917,
	"madrid":    -3.687375,
	"rome":      12.45233333333333,
	"bern":      7.439583333333333,
	"jakarta":   106.80771944444444,
	"ferro":     -17.66666666666667,
	"oslo":      10.72291666666667,
}

var knownUnits = map[string]geod.Unit{
	"m":     geod.Metre,
	"ft":    geod.Foot,
	"us-ft": geod.USSurveyFoot,
	"km":    geod.Kilometre,
}

// Parse reads one +key=value chain and returns the CRS it describes. A
// +towgs84 or +nadgrids parameter yields a BoundCRS with hub WGS 84.
func Parse(text string, opts *Options) (geod.CRS, error) {
	if opts == nil {
		opts = &Options{}
	}
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	c := newChain(tokens)

	projTok, ok := c.byKey["proj"]
	if !ok {
		return nil, geod.NewParseError(0, "missing +proj parameter")
	}
	proj := projTok.value
	if proj == "" {
		return nil, geod.NewParseError(projTok.pos, "+proj requires a value")
	}

	b := &chainBuilder{chain: c, opts: opts}
	var crs geod.CRS
	switch proj {
	case "longlat", "latlong", "latlon", "lonlat":
		crs, err = b.geographicCRS()
	case "geocent":
		crs, err = b.geocentricCRS()
	default:
		crs, err = b.projectedCRS(proj, projTok.pos)
	}
	if err != nil {
		return nil, err
	}
	return b.bindToWGS84(crs)
}

type chainBuilder struct {
	*chain
	opts *Options
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// frame resolves +datum / +ellps / +a+b+rf into a geodetic frame, and
// remembers the datum-implied WGS 84 shift.
func (b *chainBuilder) frame() (*geod.GeodeticFrame, []float64, error) {
	var pm *geod.PrimeMeridian
	if v, ok := b.str("pm"); ok {
		lon, found := knownMeridians[strings.ToLower(v)]
		if !found {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, nil, geod.NewParseError(b.byKey["pm"].pos, "unknown prime meridian %q", v)
			}
			lon = f
		}
		var err error
		pm, err = geod.NewPrimeMeridian(geod.ObjectMeta{ObjName: capitalize(v)}, lon, geod.Degree)
		if err != nil {
			return nil, nil, err
		}
	}

	if name, ok := b.str("datum"); ok {
		entry, found := knownDatums[name]
		if !found {
			return nil, nil, geod.NewParseError(b.byKey["datum"].pos, "unknown datum %q", name)
		}
		frame := entry.frame()
		if pm != nil {
			dup := *frame
			dup.PrimeMeridian = pm
			frame = &dup
		}
		return frame, entry.toWGS84, nil
	}

	ell, err := b.ellipsoid()
	if err != nil {
		return nil, nil, err
	}
	frame, err := geod.NewGeodeticFrame(geod.ObjectMeta{ObjName: "unknown"}, ell, pm)
	return frame, nil, err
}

func (b *chainBuilder) ellipsoid() (*geod.Ellipsoid, error) {
	if name, ok := b.str("ellps"); ok {
		mk, found := knownEllipsoids[name]
		if !found {
			return nil, geod.NewParseError(b.byKey["ellps"].pos, "unknown ellipsoid %q", name)
		}
		return mk()
	}
	if a, ok, err := b.num("a"); err != nil {
		return nil, err
	} else if ok {
		if rf, okRF, err := b.num("rf"); err != nil {
			return nil, err
		} else if okRF {
			return geod.NewEllipsoid(geod.ObjectMeta{ObjName: "unknown"}, a, rf, geod.Metre)
		}
		if bAxis, okB, err := b.num("b"); err != nil {
			return nil, err
		} else if okB {
			return geod.NewEllipsoidFromAxes(geod.ObjectMeta{ObjName: "unknown"}, a, bAxis, geod.Metre)
		}
		return geod.NewSphere(geod.ObjectMeta{ObjName: "unknown"}, a, geod.Metre)
	}
	if b.opts.Legacy {
		return geod.GRS80Ellipsoid(), nil
	}
	return geod.WGS84Ellipsoid(), nil
}

func (b *chainBuilder) angularUnit() geod.Unit {
	if b.opts.Legacy {
		return geod.Radian
	}
	return geod.Degree
}

func (b *chainBuilder) linearUnit() (geod.Unit, error) {
	if name, ok := b.str("units"); ok {
		u, found := knownUnits[name]
		if !found {
			return geod.Unit{}, geod.NewParseError(b.byKey["units"].pos, "unknown unit %q", name)
		}
		return u, nil
	}
	if factor, ok, err := b.num("to_meter"); err != nil {
		return geod.Unit{}, err
	} else if ok {
		return geod.Unit{Name: "unknown", Factor: factor, Kind: geod.UnitLinear}, nil
	}
	return geod.Metre, nil
}

// axisSwapped applies a +axis permutation to a two-axis system. Only the
// common whole-axis permutations are supported; the vertical component of
// a three-letter spec is ignored for 2D systems.
func (b *chainBuilder) applyAxis(axes []geod.Axis) ([]geod.Axis, error) {
	spec, ok := b.str("axis")
	if !ok || spec == "enu" {
		return axes, nil
	}
	dirFor := map[byte]geod.AxisDirection{
		'e': geod.DirEast, 'w': geod.DirWest,
		'n': geod.DirNorth, 's': geod.DirSouth,
		'u': geod.DirUp, 'd': geod.DirDown,
	}
	byDir := func(d geod.AxisDirection) (geod.Axis, bool) {
		flip := map[geod.AxisDirection]geod.AxisDirection{
			geod.DirEast: geod.DirWest, geod.DirWest: geod.DirEast,
			geod.DirNorth: geod.DirSouth, geod.DirSouth: geod.DirNorth,
			geod.DirUp: geod.DirDown, geod.DirDown: geod.DirUp,
		}
		for _, ax := range axes {
			if ax.Direction == d {
				return ax, true
			}
			if flip[ax.Direction] == d {
				ax.Direction = d
				return ax, true
			}
		}
		return geod.Axis{}, false
	}
	var out []geod.Axis
	for i := 0; i < len(spec) && len(out) < len(axes); i++ {
		d, known := dirFor[spec[i]]
		if !known {
			return nil, geod.NewParseError(b.byKey["axis"].pos, "unknown axis specification %q", spec)
		}
		ax, found := byDir(d)
		if !found {
			continue
		}
		out = append(out, ax)
	}
	if len(out) != len(axes) {
		return nil, geod.NewParseError(b.byKey["axis"].pos, "axis specification %q does not cover the system", spec)
	}
	return out, nil
}

func (b *chainBuilder) geographicCRS() (geod.CRS, error) {
	frame, _, err := b.frame()
	if err != nil {
		return nil, err
	}
	angular := b.angularUnit()
	axes := geod.EllipsoidalCS2D(angular).Axes
	axes, err = b.applyAxis(axes)
	if err != nil {
		return nil, err
	}
	cs, err := geod.NewCoordinateSystem(geod.CSEllipsoidal, axes...)
	if err != nil {
		return nil, err
	}
	return geod.NewGeodeticCRS(geod.ObjectMeta{ObjName: b.crsName(frame)}, frame, cs)
}

func (b *chainBuilder) geocentricCRS() (geod.CRS, error) {
	frame, _, err := b.frame()
	if err != nil {
		return nil, err
	}
	linear, err := b.linearUnit()
	if err != nil {
		return nil, err
	}
	return geod.NewGeodeticCRS(geod.ObjectMeta{ObjName: b.crsName(frame)}, frame, geod.GeocentricCS(linear))
}

func (b *chainBuilder) crsName(frame *geod.GeodeticFrame) string {
	if name, ok := b.str("datum"); ok {
		if name == "WGS84" {
			return "WGS 84"
		}
		return name
	}
	if frame.Name() != "unknown" {
		return frame.Name()
	}
	return "unknown"
}

// bindToWGS84 wraps the CRS when the chain carries +towgs84, +nadgrids,
// or a datum with an implied shift.
func (b *chainBuilder) bindToWGS84(crs geod.CRS) (geod.CRS, error) {
	if v, ok := b.str("towgs84"); ok {
		parts := strings.Split(v, ",")
		values := make([]float64, 0, len(parts))
		allZero := true
		for _, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, geod.NewParseError(b.byKey["towgs84"].pos, "malformed towgs84 value %q", p)
			}
			if f != 0 {
				allZero = false
			}
			values = append(values, f)
		}
		if allZero && len(values) == 3 {
			return crs, nil
		}
		return geod.BindToWGS84(crs, values)
	}

	if files, ok := b.str("nadgrids"); ok {
		hub := geod.WGS84()
		transform, err := geod.NewTransformation(
			geod.ObjectMeta{ObjName: "Transformation from " + crs.Name() + " to WGS84"},
			crs, hub,
			geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "NTv2"}},
			[]geod.ParamValue{geod.FileParam("Latitude and longitude difference file", files)},
			nil)
		if err != nil {
			return nil, err
		}
		return geod.NewBoundCRS(crs, hub, transform)
	}

	if name, ok := b.str("datum"); ok {
		if entry, found := knownDatums[name]; found && len(entry.toWGS84) > 0 {
			return geod.BindToWGS84(crs, entry.toWGS84)
		}
	}
	if b.opts.Legacy && !b.has("datum") && !b.has("ellps") && !b.has("a") {
		return geod.BindToWGS84(crs, []float64{0, 0, 0, 0, 0, 0, 0})
	}
	return crs, nil
}
