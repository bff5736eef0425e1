package wkt

import (
	"strconv"
	"strings"

	"github.com/geodetic-io/georef/geod"
)

// AliasResolver resolves legacy and vendor names against a catalog. The
// authority resolver implements it; parsing works without one by falling
// back to literal names.
type AliasResolver interface {
	OfficialNameFromAlias(alias, category string) (string, bool)
}

// ParseOptions tunes parsing. The zero value parses without a catalog.
type ParseOptions struct {
	Resolver AliasResolver
}

// Parse reads one WKT definition in any supported dialect and returns the
// corresponding object: a geod.CRS, a *geod.Conversion, a
// *geod.Transformation, or a standalone component (*geod.Ellipsoid,
// geod.Datum).
func Parse(text string, opts *ParseOptions) (any, error) {
	if opts == nil {
		opts = &ParseOptions{}
	}
	ls := newLexerStream(text)
	root, err := parseNodeTree(ls)
	if err != nil {
		return nil, err
	}
	ls.skipSpace()
	if ls.canRead() {
		return nil, geod.NewParseError(ls.position, "trailing content after %s", root.keyword)
	}
	b := &builder{opts: opts}
	return b.buildObject(root)
}

// ParseCRS parses text and requires the result to be a CRS.
func ParseCRS(text string, opts *ParseOptions) (geod.CRS, error) {
	obj, err := Parse(text, opts)
	if err != nil {
		return nil, err
	}
	crs, ok := obj.(geod.CRS)
	if !ok {
		return nil, geod.NewNotApplicable("%T is not a coordinate reference system", obj)
	}
	return crs, nil
}

type builder struct {
	opts *ParseOptions
}

func (b *builder) buildObject(n *node) (any, error) {
	switch n.keyword {
	case "GEOGCRS", "GEODCRS":
		return b.buildGeodeticCRS2(n)
	case "PROJCRS":
		return b.buildProjectedCRS2(n)
	case "VERTCRS":
		return b.buildVerticalCRS2(n)
	case "COMPOUNDCRS":
		return b.buildCompoundCRS2(n)
	case "BOUNDCRS":
		return b.buildBoundCRS2(n)
	case "TIMECRS":
		return b.buildTemporalCRS2(n)
	case "ENGCRS", "ENGINEERINGCRS":
		return b.buildEngineeringCRS2(n)
	case "CONVERSION":
		return b.buildConversion(n)
	case "COORDINATEOPERATION":
		return b.buildCoordinateOperation(n)
	case "ELLIPSOID", "SPHEROID":
		return b.buildEllipsoid(n)
	case "DATUM", "TRF", "GEODETICDATUM":
		return b.buildGeodeticFrame(n, nil, false, 0)
	case "ENSEMBLE":
		return b.buildEnsemble(n)

	case "GEOGCS":
		return b.buildGeogCS1(n)
	case "PROJCS":
		return b.buildProjCS1(n)
	case "GEOCCS":
		return b.buildGeocCS1(n)
	case "VERT_CS", "VERTCS":
		return b.buildVertCS1(n)
	case "COMPD_CS":
		return b.buildCompdCS1(n)
	case "LOCAL_CS":
		return b.buildLocalCS1(n)
	}
	return nil, geod.NewParseError(n.pos, "unsupported keyword %s", n.keyword)
}

// ---- shared helpers ----

func (b *builder) meta(n *node) geod.ObjectMeta {
	meta := geod.ObjectMeta{}
	if name, ok := n.stringAt(0); ok {
		meta.ObjName = name
	}
	for _, idn := range n.children("ID", "AUTHORITY") {
		auth, _ := idn.stringAt(0)
		var code string
		if s, ok := idn.stringAt(1); ok {
			code = s
		} else if f, ok := idn.numberAt(1); ok {
			code = strconv.FormatFloat(f, 'f', -1, 64)
		}
		if auth != "" && code != "" {
			meta.Idents = append(meta.Idents, geod.Ident{Authority: auth, Code: code})
		}
	}
	if rn := n.child("REMARK"); rn != nil {
		meta.Remarks, _ = rn.stringAt(0)
	}
	return meta
}

func (b *builder) usages(n *node) []geod.Usage {
	var out []geod.Usage
	for _, un := range n.children("USAGE") {
		u := geod.Usage{}
		if sn := un.child("SCOPE"); sn != nil {
			u.Scope, _ = sn.stringAt(0)
		}
		if an := un.child("AREA"); an != nil {
			u.Area, _ = an.stringAt(0)
		}
		if bn := un.child("BBOX"); bn != nil {
			u.BBox = bboxFromNode(bn)
		}
		out = append(out, u)
	}
	// WKT2:2015 spells SCOPE/AREA/BBOX directly at the CRS level
	if len(out) == 0 {
		u := geod.Usage{}
		found := false
		if sn := n.child("SCOPE"); sn != nil {
			u.Scope, _ = sn.stringAt(0)
			found = true
		}
		if an := n.child("AREA"); an != nil {
			u.Area, _ = an.stringAt(0)
			found = true
		}
		if bn := n.child("BBOX"); bn != nil {
			u.BBox = bboxFromNode(bn)
			found = true
		}
		if found {
			out = append(out, u)
		}
	}
	return out
}

// BBOX values are ordered south, west, north, east.
func bboxFromNode(bn *node) *geod.Extent {
	south, ok1 := bn.numberAt(0)
	west, ok2 := bn.numberAt(1)
	north, ok3 := bn.numberAt(2)
	east, ok4 := bn.numberAt(3)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil
	}
	return geod.NewExtent(west, south, east, north)
}

func (b *builder) unit(n *node, defaultKind geod.UnitKind) (geod.Unit, error) {
	kind := defaultKind
	switch n.keyword {
	case "LENGTHUNIT":
		kind = geod.UnitLinear
	case "ANGLEUNIT":
		kind = geod.UnitAngular
	case "SCALEUNIT":
		kind = geod.UnitScale
	case "TIMEUNIT":
		kind = geod.UnitTime
	case "PARAMETRICUNIT":
		kind = geod.UnitParametric
	}
	name, _ := n.stringAt(0)
	factor, ok := n.numberAt(1)
	if !ok {
		// a UNIT without a factor is resolvable by name only
		if u, found := geod.UnitByName(name); found {
			return u, nil
		}
		return geod.Unit{}, geod.NewParseError(n.pos, "unit %q has no conversion factor", name)
	}
	u := geod.Unit{Name: name, Factor: factor, Kind: kind}
	if kind == geod.UnitUnknown {
		// generic UNIT keyword: infer the kind from the well-known name
		if known, found := geod.UnitByName(name); found {
			u.Kind = known.Kind
		}
	}
	meta := b.meta(n)
	if id := meta.ID(); !id.IsZero() {
		u.Authority, u.Code = id.Authority, id.Code
	}
	return u, nil
}

func (b *builder) unitIn(n *node, defaultKind geod.UnitKind, fallback geod.Unit) geod.Unit {
	un := n.child("UNIT", "LENGTHUNIT", "ANGLEUNIT", "SCALEUNIT", "TIMEUNIT", "PARAMETRICUNIT")
	if un == nil {
		return fallback
	}
	u, err := b.unit(un, defaultKind)
	if err != nil {
		return fallback
	}
	return u
}

func (b *builder) buildEllipsoid(n *node) (*geod.Ellipsoid, error) {
	meta := b.meta(n)
	semiMajor, ok := n.numberAt(1)
	if !ok {
		return nil, geod.NewParseError(n.pos, "ellipsoid %q: missing semi-major axis", meta.Name())
	}
	invF, ok := n.numberAt(2)
	if !ok {
		return nil, geod.NewParseError(n.pos, "ellipsoid %q: missing inverse flattening", meta.Name())
	}
	unit := b.unitIn(n, geod.UnitLinear, geod.Metre)
	if invF == 0 {
		return geod.NewSphere(meta, semiMajor, unit)
	}
	return geod.NewEllipsoid(meta, semiMajor, invF, unit)
}

func (b *builder) buildPrimeMeridian(n *node, fallbackUnit geod.Unit) (*geod.PrimeMeridian, error) {
	meta := b.meta(n)
	lon, ok := n.numberAt(1)
	if !ok {
		return nil, geod.NewParseError(n.pos, "prime meridian %q: missing longitude", meta.Name())
	}
	unit := b.unitIn(n, geod.UnitAngular, fallbackUnit)
	return geod.NewPrimeMeridian(meta, lon, unit)
}

// ---- WKT2 ----

func (b *builder) buildGeodeticFrame(n *node, pm *geod.PrimeMeridian, dynamic bool, epoch float64) (*geod.GeodeticFrame, error) {
	meta := b.meta(n)
	en := n.child("ELLIPSOID", "SPHEROID")
	if en == nil {
		return nil, geod.NewParseError(n.pos, "datum %q: missing ellipsoid", meta.Name())
	}
	ell, err := b.buildEllipsoid(en)
	if err != nil {
		return nil, err
	}
	if pmn := n.child("PRIMEM", "PRIMEMERIDIAN"); pmn != nil {
		pm, err = b.buildPrimeMeridian(pmn, geod.Degree)
		if err != nil {
			return nil, err
		}
	}
	if dynamic {
		return geod.NewDynamicGeodeticFrame(meta, ell, pm, epoch)
	}
	return geod.NewGeodeticFrame(meta, ell, pm)
}

func (b *builder) buildEnsemble(n *node) (*geod.DatumEnsemble, error) {
	meta := b.meta(n)
	var members []geod.Datum
	en := n.child("ELLIPSOID", "SPHEROID")
	var ell *geod.Ellipsoid
	var err error
	if en != nil {
		ell, err = b.buildEllipsoid(en)
		if err != nil {
			return nil, err
		}
	}
	for _, mn := range n.children("MEMBER") {
		mMeta := b.meta(mn)
		if ell != nil {
			frame, err := geod.NewGeodeticFrame(mMeta, ell, nil)
			if err != nil {
				return nil, err
			}
			members = append(members, frame)
		} else {
			members = append(members, geod.NewVerticalFrame(mMeta))
		}
	}
	accuracy := 0.0
	if an := n.child("ENSEMBLEACCURACY"); an != nil {
		accuracy, _ = an.numberAt(0)
	}
	return geod.NewDatumEnsemble(meta, members, accuracy)
}

func (b *builder) datumOrEnsemble(n *node) (geod.Datum, error) {
	dynamic := false
	epoch := 0.0
	if dn := n.child("DYNAMIC"); dn != nil {
		dynamic = true
		if fe := dn.child("FRAMEEPOCH"); fe != nil {
			epoch, _ = fe.numberAt(0)
		}
	}
	if en := n.child("ENSEMBLE"); en != nil {
		return b.buildEnsemble(en)
	}
	dn := n.child("DATUM", "TRF", "GEODETICDATUM")
	if dn == nil {
		return nil, geod.NewParseError(n.pos, "%s %q: missing datum or ensemble", n.keyword, b.meta(n).Name())
	}
	var pm *geod.PrimeMeridian
	var err error
	if pmn := n.child("PRIMEM", "PRIMEMERIDIAN"); pmn != nil {
		pm, err = b.buildPrimeMeridian(pmn, geod.Degree)
		if err != nil {
			return nil, err
		}
	}
	return b.buildGeodeticFrame(dn, pm, dynamic, epoch)
}

var axisDirections = map[string]geod.AxisDirection{
	"north": geod.DirNorth, "south": geod.DirSouth,
	"east": geod.DirEast, "west": geod.DirWest,
	"up": geod.DirUp, "down": geod.DirDown,
	"geocentricx": geod.DirGeocentricX,
	"geocentricy": geod.DirGeocentricY,
	"geocentricz": geod.DirGeocentricZ,
	"future": geod.DirFuture, "past": geod.DirPast,
	"unspecified": geod.DirUnspecified,
	"other":       geod.DirUnspecified,
}

// axisFromNode parses AXIS["name (abbrev)", direction, ORDER[i], UNIT].
func (b *builder) axisFromNode(n *node, fallbackUnit geod.Unit) (geod.Axis, error) {
	full, _ := n.stringAt(0)
	name, abbrev := splitAxisName(full)
	ax := geod.Axis{Name: name, Abbrev: abbrev, Unit: fallbackUnit}
	for _, v := range n.values[1:] {
		if v.kind == valKeywordLiteral {
			dir, ok := axisDirections[strings.ToLower(v.str)]
			if !ok {
				return ax, geod.NewParseError(v.pos, "unknown axis direction %q", v.str)
			}
			ax.Direction = dir
			break
		}
	}
	if ax.Direction == "" {
		return ax, geod.NewParseError(n.pos, "axis %q: missing direction", full)
	}
	defKind := geod.UnitUnknown
	switch ax.Direction {
	case geod.DirNorth, geod.DirSouth, geod.DirEast, geod.DirWest:
		defKind = fallbackUnit.Kind
	}
	ax.Unit = b.unitIn(n, defKind, fallbackUnit)
	return ax, nil
}

func splitAxisName(full string) (name, abbrev string) {
	name = full
	if i := strings.LastIndex(full, "("); i >= 0 && strings.HasSuffix(full, ")") {
		abbrev = strings.TrimSuffix(full[i+1:], ")")
		name = strings.TrimSpace(full[:i])
	}
	return
}

var csKinds = map[string]geod.CSKind{
	"cartesian": geod.CSCartesian, "ellipsoidal": geod.CSEllipsoidal,
	"vertical": geod.CSVertical, "spherical": geod.CSSpherical,
	"ordinal": geod.CSOrdinal, "parametric": geod.CSParametric,
	"temporaldatetime": geod.CSTemporalDateTime,
	"temporalcount":    geod.CSTemporalCount,
	"temporalmeasure":  geod.CSTemporalMeasure,
}

// coordinateSystem parses the CS node, its sibling AXIS nodes and an
// optional CS-level unit that applies to axes without one of their own.
func (b *builder) coordinateSystem(n *node) (*geod.CoordinateSystem, error) {
	csn := n.child("CS")
	if csn == nil {
		return nil, geod.NewParseError(n.pos, "%s %q: missing CS node", n.keyword, b.meta(n).Name())
	}
	var kind geod.CSKind
	if len(csn.values) == 0 || csn.values[0].kind != valKeywordLiteral {
		return nil, geod.NewParseError(csn.pos, "CS node: missing type")
	}
	kind, ok := csKinds[strings.ToLower(csn.values[0].str)]
	if !ok {
		return nil, geod.NewParseError(csn.pos, "unknown coordinate system type %q", csn.values[0].str)
	}

	csUnit := geod.Unit{}
	if un := n.child("UNIT", "LENGTHUNIT", "ANGLEUNIT", "SCALEUNIT", "TIMEUNIT", "PARAMETRICUNIT"); un != nil {
		if u, err := b.unit(un, geod.UnitUnknown); err == nil {
			csUnit = u
		}
	}
	fallback := csUnit
	if fallback.Kind == geod.UnitUnknown {
		switch kind {
		case geod.CSEllipsoidal, geod.CSSpherical:
			fallback = geod.Degree
		default:
			fallback = geod.Metre
		}
	}

	var axes []geod.Axis
	for _, an := range n.children("AXIS") {
		ax, err := b.axisFromNode(an, fallback)
		if err != nil {
			return nil, err
		}
		axes = append(axes, ax)
	}
	cs, err := geod.NewCoordinateSystem(kind, axes...)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (b *builder) buildGeodeticCRS2(n *node) (*geod.GeodeticCRS, error) {
	datum, err := b.datumOrEnsemble(n)
	if err != nil {
		return nil, err
	}
	cs, err := b.coordinateSystem(n)
	if err != nil {
		return nil, err
	}
	return geod.NewGeodeticCRS(b.meta(n), datum, cs, b.usages(n)...)
}

// baseGeodeticCRS parses BASEGEOGCRS/BASEGEODCRS, which carries no CS;
// the conventional latitude/longitude degree system is implied.
func (b *builder) baseGeodeticCRS(n *node) (*geod.GeodeticCRS, error) {
	datum, err := b.datumOrEnsemble(n)
	if err != nil {
		return nil, err
	}
	cs := geod.EllipsoidalCS2DLatLon(geod.Degree)
	if un := n.child("ANGLEUNIT", "UNIT"); un != nil {
		if u, err := b.unit(un, geod.UnitAngular); err == nil {
			cs = geod.EllipsoidalCS2DLatLon(u)
		}
	}
	return geod.NewGeodeticCRS(b.meta(n), datum, cs)
}

func (b *builder) buildMethodParams(n *node, angular, linear geod.Unit) (geod.Method, []geod.ParamValue, error) {
	mn := n.child("METHOD", "PROJECTION")
	if mn == nil {
		return geod.Method{}, nil, geod.NewParseError(n.pos, "%s %q: missing method", n.keyword, b.meta(n).Name())
	}
	method := geod.Method{ObjectMeta: b.meta(mn)}

	var params []geod.ParamValue
	for _, v := range n.values {
		if v.kind != valNode {
			continue
		}
		switch v.child.keyword {
		case "PARAMETER":
			pn := v.child
			name, _ := pn.stringAt(0)
			if num, ok := pn.numberAt(1); ok {
				unit := b.unitIn(pn, geod.UnitUnknown, geod.Unit{})
				if unit.Kind == geod.UnitUnknown {
					unit = guessParamUnit(name, angular, linear)
				}
				p := geod.MeasureParam(name, num, unit)
				p.Ident = b.meta(pn).ID()
				params = append(params, p)
			} else if s, ok := pn.stringAt(1); ok {
				params = append(params, geod.StringParam(name, s))
			} else {
				return method, nil, geod.NewParseError(pn.pos, "parameter %q: missing value", name)
			}
		case "PARAMETERFILE":
			pn := v.child
			name, _ := pn.stringAt(0)
			file, _ := pn.stringAt(1)
			params = append(params, geod.FileParam(name, file))
		}
	}
	return method, params, nil
}

func guessParamUnit(name string, angular, linear geod.Unit) geod.Unit {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "latitude"), strings.Contains(n, "longitude"),
		strings.Contains(n, "azimuth"), strings.Contains(n, "parallel"),
		strings.Contains(n, "rotation"), strings.Contains(n, "meridian"):
		return angular
	case strings.Contains(n, "scale"):
		return geod.Unity
	default:
		return linear
	}
}

func (b *builder) buildConversion(n *node) (*geod.Conversion, error) {
	method, params, err := b.buildMethodParams(n, geod.Degree, geod.Metre)
	if err != nil {
		return nil, err
	}
	return geod.NewConversion(b.meta(n), method, params, b.usages(n)...)
}

func (b *builder) buildProjectedCRS2(n *node) (*geod.ProjectedCRS, error) {
	bn := n.child("BASEGEOGCRS", "BASEGEODCRS")
	if bn == nil {
		return nil, geod.NewParseError(n.pos, "PROJCRS %q: missing base CRS", b.meta(n).Name())
	}
	base, err := b.baseGeodeticCRS(bn)
	if err != nil {
		return nil, err
	}
	cn := n.child("CONVERSION")
	if cn == nil {
		return nil, geod.NewParseError(n.pos, "PROJCRS %q: missing conversion", b.meta(n).Name())
	}
	conv, err := b.buildConversion(cn)
	if err != nil {
		return nil, err
	}
	cs, err := b.coordinateSystem(n)
	if err != nil {
		return nil, err
	}
	return geod.NewProjectedCRS(b.meta(n), base, conv, cs, b.usages(n)...)
}

func (b *builder) buildVerticalCRS2(n *node) (*geod.VerticalCRS, error) {
	var datum geod.Datum
	if en := n.child("ENSEMBLE"); en != nil {
		ens, err := b.buildEnsemble(en)
		if err != nil {
			return nil, err
		}
		datum = ens
	} else if dn := n.child("VDATUM", "VRF", "VERTICALDATUM"); dn != nil {
		meta := b.meta(dn)
		if dyn := n.child("DYNAMIC"); dyn != nil {
			epoch := 0.0
			if fe := dyn.child("FRAMEEPOCH"); fe != nil {
				epoch, _ = fe.numberAt(0)
			}
			datum = geod.NewDynamicVerticalFrame(meta, epoch)
		} else {
			datum = geod.NewVerticalFrame(meta)
		}
	} else {
		return nil, geod.NewParseError(n.pos, "VERTCRS %q: missing vertical datum", b.meta(n).Name())
	}
	cs, err := b.coordinateSystem(n)
	if err != nil {
		return nil, err
	}
	return geod.NewVerticalCRS(b.meta(n), datum, cs, b.usages(n)...)
}

func (b *builder) buildCompoundCRS2(n *node) (*geod.CompoundCRS, error) {
	var components []geod.CRS
	for _, v := range n.values {
		if v.kind != valNode {
			continue
		}
		switch v.child.keyword {
		case "GEOGCRS", "GEODCRS", "PROJCRS", "VERTCRS", "TIMECRS", "ENGCRS", "BOUNDCRS":
			obj, err := b.buildObject(v.child)
			if err != nil {
				return nil, err
			}
			components = append(components, obj.(geod.CRS))
		}
	}
	return geod.NewCompoundCRS(b.meta(n), components, b.usages(n)...)
}

func (b *builder) buildBoundCRS2(n *node) (*geod.BoundCRS, error) {
	sn := n.child("SOURCECRS")
	tn := n.child("TARGETCRS")
	an := n.child("ABRIDGEDTRANSFORMATION")
	if sn == nil || tn == nil || an == nil {
		return nil, geod.NewParseError(n.pos, "BOUNDCRS: SOURCECRS, TARGETCRS and ABRIDGEDTRANSFORMATION are required")
	}
	source, err := b.firstCRSIn(sn)
	if err != nil {
		return nil, err
	}
	target, err := b.firstCRSIn(tn)
	if err != nil {
		return nil, err
	}
	method, params, err := b.buildMethodParams(an, geod.Degree, geod.Metre)
	if err != nil {
		return nil, err
	}
	transform, err := geod.NewTransformation(b.meta(an), source, target, method, params, nil)
	if err != nil {
		return nil, err
	}
	return geod.NewBoundCRS(source, target, transform)
}

func (b *builder) firstCRSIn(n *node) (geod.CRS, error) {
	for _, v := range n.values {
		if v.kind == valNode {
			obj, err := b.buildObject(v.child)
			if err != nil {
				return nil, err
			}
			if crs, ok := obj.(geod.CRS); ok {
				return crs, nil
			}
		}
	}
	return nil, geod.NewParseError(n.pos, "%s: missing nested CRS", n.keyword)
}

func (b *builder) buildCoordinateOperation(n *node) (*geod.Transformation, error) {
	sn := n.child("SOURCECRS")
	tn := n.child("TARGETCRS")
	if sn == nil || tn == nil {
		return nil, geod.NewParseError(n.pos, "COORDINATEOPERATION %q: source and target CRS are required", b.meta(n).Name())
	}
	source, err := b.firstCRSIn(sn)
	if err != nil {
		return nil, err
	}
	target, err := b.firstCRSIn(tn)
	if err != nil {
		return nil, err
	}
	method, params, err := b.buildMethodParams(n, geod.Degree, geod.Metre)
	if err != nil {
		return nil, err
	}
	var accuracies []geod.Accuracy
	if an := n.child("OPERATIONACCURACY"); an != nil {
		if v, ok := an.numberAt(0); ok {
			accuracies = append(accuracies, geod.KnownAccuracy(v))
		}
	}
	return geod.NewTransformation(b.meta(n), source, target, method, params, accuracies, b.usages(n)...)
}

func (b *builder) buildTemporalCRS2(n *node) (*geod.TemporalCRS, error) {
	dn := n.child("TDATUM", "TIMEDATUM")
	if dn == nil {
		return nil, geod.NewParseError(n.pos, "TIMECRS %q: missing temporal datum", b.meta(n).Name())
	}
	meta := b.meta(dn)
	calendar := ""
	if cn := dn.child("CALENDAR"); cn != nil {
		calendar, _ = cn.stringAt(0)
	}
	origin := ""
	if on := dn.child("TIMEORIGIN"); on != nil {
		if s, ok := on.stringAt(0); ok {
			origin = s
		} else if f, ok := on.numberAt(0); ok {
			origin = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	datum := geod.NewTemporalDatum(meta, calendar, origin)
	cs, err := b.coordinateSystem(n)
	if err != nil {
		return nil, err
	}
	return geod.NewTemporalCRS(b.meta(n), datum, cs, b.usages(n)...)
}

func (b *builder) buildEngineeringCRS2(n *node) (*geod.EngineeringCRS, error) {
	dn := n.child("EDATUM", "ENGINEERINGDATUM")
	if dn == nil {
		return nil, geod.NewParseError(n.pos, "ENGCRS %q: missing engineering datum", b.meta(n).Name())
	}
	anchor := ""
	if an := dn.child("ANCHOR"); an != nil {
		anchor, _ = an.stringAt(0)
	}
	datum := geod.NewEngineeringDatum(b.meta(dn), anchor)
	cs, err := b.coordinateSystem(n)
	if err != nil {
		return nil, err
	}
	return geod.NewEngineeringCRS(b.meta(n), datum, cs, b.usages(n)...)
}
