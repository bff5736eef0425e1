package wkt

import (
	"math"
	"strconv"
	"strings"

	"github.com/geodetic-io/georef/geod"
)

// AxisOutput controls whether AXIS nodes are written in the legacy
// dialects. WKT2 always carries axes regardless of this setting.
type AxisOutput int

const (
	// AxisAuto writes axes in WKT1:GDAL only for projected CRS in the
	// conventional easting/northing order, and never in WKT1:ESRI.
	AxisAuto AxisOutput = iota
	AxisYes
	AxisNo
)

// FormatOptions tunes the text layout. Nil selects the defaults of the
// chosen convention: indented multi-line output, except single-line for
// WKT1:ESRI.
type FormatOptions struct {
	Multiline  bool
	Indent     string
	OutputAxis AxisOutput

	// the ESRI dialect writes whole numbers with a trailing ".0"
	esriNumbers bool
}

func defaultFormatOptions(conv Convention) *FormatOptions {
	if conv == WKT1_ESRI {
		return &FormatOptions{}
	}
	return &FormatOptions{Multiline: true, Indent: "    "}
}

// Format writes obj in the requested convention. Supported objects are
// every geod.CRS variant, operations, and the standalone components
// (*geod.Ellipsoid, *geod.PrimeMeridian, geod.Datum). Constructs the
// target dialect cannot express yield a FormattingNotSupported error.
func Format(obj any, conv Convention, opts *FormatOptions) (string, error) {
	if opts == nil {
		opts = defaultFormatOptions(conv)
	}
	opts.esriNumbers = conv == WKT1_ESRI
	f := &formatter{conv: conv, opts: opts}
	var root *onode
	switch o := obj.(type) {
	case geod.CRS:
		root = f.crs(o)
	case *geod.Conversion:
		root = f.conversion(o)
	case *geod.Transformation:
		root = f.coordinateOperation(o)
	case *geod.ConcatenatedOperation:
		root = f.concatenatedOperation(o)
	case *geod.Ellipsoid:
		root = f.ellipsoid(o)
	case *geod.PrimeMeridian:
		root = f.primeMeridian(o)
	case geod.Datum:
		root = f.datum(o)
	default:
		return "", geod.NewFormattingNotSupported("cannot format %T", obj)
	}
	if f.err != nil {
		return "", f.err
	}
	var sb strings.Builder
	renderNode(&sb, root, 0, opts)
	return sb.String(), nil
}

// onode mirrors the parse-side node for output.
type onode struct {
	keyword string
	vals    []oval
}

type oval struct {
	kind  valueKind
	str   string
	num   float64
	child *onode
}

func newONode(keyword string, name string) *onode {
	n := &onode{keyword: keyword}
	n.s(name)
	return n
}

func (n *onode) s(v string) *onode   { n.vals = append(n.vals, oval{kind: valString, str: v}); return n }
func (n *onode) num(v float64) *onode {
	n.vals = append(n.vals, oval{kind: valNumber, num: v})
	return n
}
func (n *onode) lit(v string) *onode {
	n.vals = append(n.vals, oval{kind: valKeywordLiteral, str: v})
	return n
}
func (n *onode) add(children ...*onode) *onode {
	for _, c := range children {
		if c != nil {
			n.vals = append(n.vals, oval{kind: valNode, child: c})
		}
	}
	return n
}

func renderNode(sb *strings.Builder, n *onode, depth int, opts *FormatOptions) {
	sb.WriteString(n.keyword)
	sb.WriteByte('[')
	for i, v := range n.vals {
		if i > 0 {
			sb.WriteByte(',')
		}
		switch v.kind {
		case valString:
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(v.str, `"`, `""`))
			sb.WriteByte('"')
		case valNumber:
			sb.WriteString(v.str)
			if v.str == "" {
				sb.WriteString(formatNumber(v.num, opts))
			}
		case valKeywordLiteral:
			sb.WriteString(v.str)
		case valNode:
			if opts.Multiline {
				sb.WriteByte('\n')
				for j := 0; j <= depth; j++ {
					sb.WriteString(opts.Indent)
				}
			}
			renderNode(sb, v.child, depth+1, opts)
		}
	}
	sb.WriteByte(']')
}

func formatNumber(f float64, opts *FormatOptions) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if opts.esriNumbers {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

type formatter struct {
	conv Convention
	opts *FormatOptions
	err  error

	// TOWGS84 values pending injection into the next DATUM node, set
	// while formatting a bound CRS in WKT1
	pendingTOWGS84 []float64
}

func (f *formatter) fail(format string, args ...any) *onode {
	if f.err == nil {
		f.err = geod.NewFormattingNotSupported(format, args...)
	}
	return &onode{keyword: "INVALID"}
}

func (f *formatter) isWKT2() bool { return f.conv == WKT2_2019 || f.conv == WKT2_2015 }

// esri rewrites a name to the underscore-separated vendor spelling.
func esri(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// idNode emits the first identifier as ID (WKT2) or AUTHORITY (WKT1).
func (f *formatter) idNode(idents []geod.Ident) *onode {
	if len(idents) == 0 || f.conv == WKT1_ESRI {
		return nil
	}
	id := idents[0]
	if f.isWKT2() {
		n := &onode{keyword: "ID"}
		n.s(id.Authority)
		if code, err := strconv.Atoi(id.Code); err == nil {
			n.num(float64(code))
		} else {
			n.s(id.Code)
		}
		return n
	}
	return newONode("AUTHORITY", id.Authority).s(id.Code)
}

var wkt2UnitKeywords = map[geod.UnitKind]string{
	geod.UnitAngular:    "ANGLEUNIT",
	geod.UnitLinear:     "LENGTHUNIT",
	geod.UnitScale:      "SCALEUNIT",
	geod.UnitTime:       "TIMEUNIT",
	geod.UnitParametric: "PARAMETRICUNIT",
}

// esriUnitNames are the capitalized vendor spellings.
var esriUnitNames = map[string]string{
	"metre":  "Meter",
	"degree": "Degree",
	"foot":   "Foot",
	"US survey foot": "Foot_US",
	"grad":   "Grad",
}

func (f *formatter) unitNode(u geod.Unit) *onode {
	keyword := "UNIT"
	name := u.Name
	if f.isWKT2() {
		if kw, ok := wkt2UnitKeywords[u.Kind]; ok {
			keyword = kw
		}
	} else if f.conv == WKT1_ESRI {
		if esriName, ok := esriUnitNames[u.Name]; ok {
			name = esriName
		} else {
			name = esri(u.Name)
		}
	}
	n := newONode(keyword, name).num(u.Factor)
	if u.Authority != "" {
		n.add(f.idNode([]geod.Ident{{Authority: u.Authority, Code: u.Code}}))
	}
	return n
}

func (f *formatter) ellipsoid(e *geod.Ellipsoid) *onode {
	keyword := "ELLIPSOID"
	name := e.Name()
	if !f.isWKT2() {
		keyword = "SPHEROID"
		if f.conv == WKT1_ESRI {
			name = esriSpheroidName(name)
		}
	}
	invF := 0.0
	if !e.IsSphere() {
		invF = e.ComputedInvFlattening()
	}
	n := newONode(keyword, name).num(e.SemiMajor).num(invF)
	if f.isWKT2() {
		n.add(f.unitNode(e.Unit))
		n.add(f.idNode(e.Idents))
	}
	return n
}

var esriSpheroidNames = map[string]string{
	"WGS 84":      "WGS_1984",
	"GRS 1980":    "GRS_1980",
	"Clarke 1866": "Clarke_1866",
	"Airy 1830":   "Airy_1830",
}

func esriSpheroidName(name string) string {
	if v, ok := esriSpheroidNames[name]; ok {
		return v
	}
	return esri(name)
}

func (f *formatter) primeMeridian(pm *geod.PrimeMeridian) *onode {
	n := newONode("PRIMEM", pm.Name()).num(pm.Longitude)
	if f.isWKT2() {
		n.add(f.unitNode(pm.Unit))
		n.add(f.idNode(pm.Idents))
	}
	return n
}

// wkt1DatumNames are the legacy spellings of the common frames.
var wkt1DatumNames = map[string]string{
	"World Geodetic System 1984":                 "WGS_1984",
	"North American Datum 1927":                  "North_American_Datum_1927",
	"North American Datum 1983":                  "North_American_Datum_1983",
	"European Terrestrial Reference System 1989": "European_Terrestrial_Reference_System_1989",
	"Ordnance Survey of Great Britain 1936":      "OSGB_1936",
}

func wkt1DatumName(name string, conv Convention) string {
	if v, ok := wkt1DatumNames[name]; ok {
		if conv == WKT1_ESRI {
			return "D_" + v
		}
		return v
	}
	name = esri(name)
	if conv == WKT1_ESRI && !strings.HasPrefix(name, "D_") {
		return "D_" + name
	}
	return name
}

func (f *formatter) datum(d geod.Datum) *onode {
	switch dt := d.(type) {
	case *geod.GeodeticFrame:
		return f.geodeticFrame(dt)
	case *geod.DatumEnsemble:
		return f.ensemble(dt)
	case *geod.VerticalFrame:
		return f.verticalFrame(dt)
	case *geod.EngineeringDatum:
		return f.engineeringDatum(dt)
	default:
		return f.fail("cannot format datum %q", d.Name())
	}
}

func (f *formatter) geodeticFrame(d *geod.GeodeticFrame) *onode {
	if f.isWKT2() {
		n := newONode("DATUM", d.Name()).add(f.ellipsoid(d.Ellipsoid))
		n.add(f.idNode(d.Idents))
		return n
	}
	n := newONode("DATUM", wkt1DatumName(d.Name(), f.conv)).add(f.ellipsoid(d.Ellipsoid))
	f.injectTOWGS84(n)
	if f.conv == WKT1_GDAL {
		n.add(f.idNode(d.Idents))
	}
	return n
}

func (f *formatter) injectTOWGS84(datumNode *onode) {
	if len(f.pendingTOWGS84) == 0 || f.conv == WKT1_ESRI {
		return
	}
	t := &onode{keyword: "TOWGS84"}
	for _, v := range f.pendingTOWGS84 {
		t.num(v)
	}
	datumNode.add(t)
	f.pendingTOWGS84 = nil
}

func (f *formatter) ensemble(d *geod.DatumEnsemble) *onode {
	if f.conv == WKT2_2019 {
		n := newONode("ENSEMBLE", d.Name())
		for _, m := range d.Members {
			mn := newONode("MEMBER", m.Name())
			if gf, ok := m.(*geod.GeodeticFrame); ok {
				mn.add(f.idNode(gf.Idents))
			}
			n.add(mn)
		}
		for _, m := range d.Members {
			if gf, ok := m.(*geod.GeodeticFrame); ok {
				n.add(f.ellipsoid(gf.Ellipsoid))
				break
			}
		}
		n.add((&onode{keyword: "ENSEMBLEACCURACY"}).num(d.Accuracy))
		n.add(f.idNode(d.Idents))
		return n
	}
	// older dialects have no ensemble construct; the ensemble name
	// stands in as a datum name
	var ell *geod.Ellipsoid
	for _, m := range d.Members {
		if gf, ok := m.(*geod.GeodeticFrame); ok {
			ell = gf.Ellipsoid
			break
		}
	}
	if ell == nil {
		// vertical ensemble
		if f.isWKT2() {
			return newONode("VDATUM", d.Name()).add(f.idNode(d.Idents))
		}
		return newONode("VERT_DATUM", d.Name()).num(2005)
	}
	name := d.Name()
	if !f.isWKT2() {
		name = wkt1DatumName(strings.TrimSuffix(name, " ensemble"), f.conv)
	}
	n := newONode("DATUM", name).add(f.ellipsoid(ell))
	if !f.isWKT2() {
		f.injectTOWGS84(n)
	}
	if f.conv != WKT1_ESRI {
		n.add(f.idNode(d.Idents))
	}
	return n
}

func (f *formatter) verticalFrame(d *geod.VerticalFrame) *onode {
	if f.isWKT2() {
		return newONode("VDATUM", d.Name()).add(f.idNode(d.Idents))
	}
	if f.conv == WKT1_ESRI {
		return newONode("VDATUM", esri(d.Name()))
	}
	return newONode("VERT_DATUM", d.Name()).num(2005).add(f.idNode(d.Idents))
}

func (f *formatter) engineeringDatum(d *geod.EngineeringDatum) *onode {
	if f.isWKT2() {
		n := newONode("EDATUM", d.Name())
		if d.Anchor != "" {
			n.add(newONode("ANCHOR", d.Anchor))
		}
		return n
	}
	return newONode("LOCAL_DATUM", d.Name()).num(32767)
}
