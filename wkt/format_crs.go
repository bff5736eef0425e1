package wkt

import (
	"fmt"
	"strings"

	"github.com/geodetic-io/georef/geod"
)

var csKindLiterals = map[geod.CSKind]string{
	geod.CSCartesian:        "Cartesian",
	geod.CSEllipsoidal:      "ellipsoidal",
	geod.CSVertical:         "vertical",
	geod.CSSpherical:        "spherical",
	geod.CSOrdinal:          "ordinal",
	geod.CSParametric:       "parametric",
	geod.CSTemporalDateTime: "temporalDateTime",
	geod.CSTemporalCount:    "temporalCount",
	geod.CSTemporalMeasure:  "temporalMeasure",
}

func (f *formatter) crs(c geod.CRS) *onode {
	switch v := c.(type) {
	case *geod.GeodeticCRS:
		return f.geodeticCRS(v)
	case *geod.ProjectedCRS:
		return f.projectedCRS(v)
	case *geod.VerticalCRS:
		return f.verticalCRS(v)
	case *geod.CompoundCRS:
		return f.compoundCRS(v)
	case *geod.BoundCRS:
		return f.boundCRS(v)
	case *geod.EngineeringCRS:
		return f.engineeringCRS(v)
	case *geod.TemporalCRS:
		return f.temporalCRS(v)
	default:
		return f.fail("cannot format CRS %q", c.Name())
	}
}

func axisText(ax geod.Axis) string {
	if ax.Abbrev != "" {
		return fmt.Sprintf("%s (%s)", ax.Name, ax.Abbrev)
	}
	return ax.Name
}

// csNodes emits the WKT2 CS node followed by one AXIS node per axis.
func (f *formatter) csNodes(cs *geod.CoordinateSystem) []*onode {
	csn := &onode{keyword: "CS"}
	csn.lit(csKindLiterals[cs.Kind])
	csn.num(float64(len(cs.Axes)))
	out := []*onode{csn}
	for i, ax := range cs.Axes {
		an := newONode("AXIS", axisText(ax)).lit(string(ax.Direction))
		an.add((&onode{keyword: "ORDER"}).num(float64(i + 1)))
		an.add(f.unitNode(ax.Unit))
		out = append(out, an)
	}
	return out
}

func (f *formatter) usageNodes(usages []geod.Usage) []*onode {
	if len(usages) == 0 {
		return nil
	}
	if f.conv == WKT2_2019 {
		var out []*onode
		for _, u := range usages {
			un := &onode{keyword: "USAGE"}
			scope := u.Scope
			if scope == "" {
				scope = "unknown"
			}
			un.add(newONode("SCOPE", scope))
			if u.Area != "" {
				un.add(newONode("AREA", u.Area))
			}
			if u.BBox != nil {
				un.add(bboxNode(u.BBox))
			}
			out = append(out, un)
		}
		return out
	}
	// the 2015 grammar writes a single flat scope and extent
	u := usages[0]
	var out []*onode
	if u.Scope != "" {
		out = append(out, newONode("SCOPE", u.Scope))
	}
	if u.Area != "" {
		out = append(out, newONode("AREA", u.Area))
	}
	if u.BBox != nil {
		out = append(out, bboxNode(u.BBox))
	}
	return out
}

// BBOX values are ordered south, west, north, east.
func bboxNode(e *geod.Extent) *onode {
	return (&onode{keyword: "BBOX"}).num(e.South()).num(e.West()).num(e.North()).num(e.East())
}

func (f *formatter) geodeticCRS(c *geod.GeodeticCRS) *onode {
	if !f.isWKT2() {
		return f.wkt1GeogCS(c)
	}
	keyword := "GEODCRS"
	if f.conv == WKT2_2019 && c.IsGeographic() {
		keyword = "GEOGCRS"
	}
	n := newONode(keyword, c.Name())
	f.addDynamic(n, c.Datum)
	n.add(f.datum(c.Datum))
	f.addPrimeMeridian(n, c.Datum)
	n.add(f.csNodes(c.CS)...)
	n.add(f.usageNodes(c.Usages)...)
	n.add(f.idNode(c.Idents))
	return n
}

func (f *formatter) addDynamic(n *onode, d geod.Datum) {
	if f.conv != WKT2_2019 {
		return
	}
	if gf, ok := d.(*geod.GeodeticFrame); ok && gf.Dynamic {
		n.add((&onode{keyword: "DYNAMIC"}).add((&onode{keyword: "FRAMEEPOCH"}).num(gf.FrameEpoch)))
	}
	if vf, ok := d.(*geod.VerticalFrame); ok && vf.Dynamic {
		n.add((&onode{keyword: "DYNAMIC"}).add((&onode{keyword: "FRAMEEPOCH"}).num(vf.FrameEpoch)))
	}
}

// addPrimeMeridian writes the PRIMEM node when the meridian is not
// Greenwich; WKT1 always spells it out.
func (f *formatter) addPrimeMeridian(n *onode, d geod.Datum) {
	gf, ok := d.(*geod.GeodeticFrame)
	if !ok {
		if ens, isEns := d.(*geod.DatumEnsemble); isEns {
			for _, m := range ens.Members {
				if g, isFrame := m.(*geod.GeodeticFrame); isFrame {
					gf = g
					break
				}
			}
		}
	}
	if gf == nil {
		return
	}
	pm := gf.PrimeMeridian
	if pm == nil {
		pm = geod.Greenwich
	}
	if f.isWKT2() && pm.IsGreenwich() {
		return
	}
	n.add(f.primeMeridian(pm))
}

// wkt1 axis direction literals are upper case.
func wkt1Direction(d geod.AxisDirection) (string, bool) {
	switch d {
	case geod.DirNorth, geod.DirSouth, geod.DirEast, geod.DirWest, geod.DirUp, geod.DirDown:
		return strings.ToUpper(string(d)), true
	case geod.DirUnspecified:
		return "OTHER", true
	}
	return "", false
}

func (f *formatter) wkt1AxisNodes(cs *geod.CoordinateSystem, projected bool) []*onode {
	switch f.opts.OutputAxis {
	case AxisNo:
		return nil
	case AxisAuto:
		if f.conv == WKT1_ESRI {
			return nil
		}
		if !projected || !cs.IsEastingNorthing() {
			return nil
		}
	}
	var out []*onode
	for _, ax := range cs.Axes {
		lit, ok := wkt1Direction(ax.Direction)
		if !ok {
			return nil
		}
		out = append(out, newONode("AXIS", ax.Name).lit(lit))
	}
	return out
}

var esriGCSNames = map[string]string{
	"WGS 84":    "GCS_WGS_1984",
	"NAD83":     "GCS_North_American_1983",
	"NAD27":     "GCS_North_American_1927",
	"ETRS89":    "GCS_ETRS_1989",
	"OSGB36":    "GCS_OSGB_1936",
	"OSGB 1936": "GCS_OSGB_1936",
}

func (f *formatter) wkt1GeogCS(c *geod.GeodeticCRS) *onode {
	switch c.Kind() {
	case geod.CRSGeographic3D:
		return f.fail("%s cannot express a geographic 3D CRS", f.conv)
	case geod.CRSGeocentric:
		if f.conv == WKT1_ESRI {
			return f.fail("WKT1:ESRI cannot express a geocentric CRS")
		}
		n := newONode("GEOCCS", c.Name())
		n.add(f.datum(c.Datum))
		f.addPrimeMeridian(n, c.Datum)
		n.add(f.unitNode(c.CS.Axes[0].Unit))
		n.add(f.wkt1AxisNodes(c.CS, false)...)
		n.add(f.idNode(c.Idents))
		return n
	}
	name := c.Name()
	if f.conv == WKT1_ESRI {
		if v, ok := esriGCSNames[name]; ok {
			name = v
		} else if !strings.HasPrefix(name, "GCS_") {
			name = "GCS_" + esri(name)
		}
	}
	n := newONode("GEOGCS", name)
	n.add(f.datum(c.Datum))
	f.addPrimeMeridian(n, c.Datum)
	n.add(f.unitNode(c.CS.Axes[0].Unit))
	n.add(f.wkt1AxisNodes(c.CS, false)...)
	n.add(f.idNode(c.Idents))
	return n
}

func (f *formatter) methodNode(m geod.Method) *onode {
	keyword := "METHOD"
	name := m.Name()
	if !f.isWKT2() {
		keyword = "PROJECTION"
		name = legacyMethodName(name, f.conv)
	}
	n := newONode(keyword, name)
	if f.isWKT2() {
		n.add(f.idNode(m.Idents))
	}
	return n
}

func (f *formatter) paramNodes(params []geod.ParamValue) []*onode {
	var out []*onode
	for _, p := range params {
		switch p.Kind {
		case geod.ParamFile:
			out = append(out, newONode("PARAMETERFILE", p.Name).s(p.File))
		case geod.ParamString:
			out = append(out, newONode("PARAMETER", p.Name).s(p.Str))
		default:
			pn := newONode("PARAMETER", p.Name).num(p.Value)
			pn.add(f.unitNode(p.Unit))
			if p.Ident.Authority != "" {
				pn.add(f.idNode([]geod.Ident{p.Ident}))
			}
			out = append(out, pn)
		}
	}
	return out
}

func (f *formatter) conversion(c *geod.Conversion) *onode {
	if !f.isWKT2() {
		return f.fail("%s cannot express a standalone conversion", f.conv)
	}
	n := newONode("CONVERSION", c.Name())
	n.add(f.methodNode(c.Method))
	n.add(f.paramNodes(c.Params)...)
	n.add(f.idNode(c.Idents))
	return n
}

func (f *formatter) baseCRSNode(base *geod.GeodeticCRS) *onode {
	keyword := "BASEGEODCRS"
	if f.conv == WKT2_2019 && base.IsGeographic() {
		keyword = "BASEGEOGCRS"
	}
	n := newONode(keyword, base.Name())
	f.addDynamic(n, base.Datum)
	n.add(f.datum(base.Datum))
	f.addPrimeMeridian(n, base.Datum)
	n.add(f.idNode(base.Idents))
	return n
}

func (f *formatter) projectedCRS(c *geod.ProjectedCRS) *onode {
	if !f.isWKT2() {
		return f.wkt1ProjCS(c)
	}
	n := newONode("PROJCRS", c.Name())
	n.add(f.baseCRSNode(c.Base))
	conv := newONode("CONVERSION", c.Conversion.Name())
	conv.add(f.methodNode(c.Conversion.Method))
	conv.add(f.paramNodes(c.Conversion.Params)...)
	conv.add(f.idNode(c.Conversion.Idents))
	n.add(conv)
	n.add(f.csNodes(c.CS)...)
	n.add(f.usageNodes(c.Usages)...)
	n.add(f.idNode(c.Idents))
	return n
}

func (f *formatter) wkt1ProjCS(c *geod.ProjectedCRS) *onode {
	name := c.Name()
	if f.conv == WKT1_ESRI {
		name = esri(name)
	}
	n := newONode("PROJCS", name)
	n.add(f.wkt1GeogCS(c.Base))
	n.add(f.methodNode(c.Conversion.Method))

	linear := geod.Metre
	if len(c.CS.Axes) > 0 {
		linear = c.CS.Axes[0].Unit
	}
	for _, p := range c.Conversion.Params {
		if p.Kind != geod.ParamMeasure {
			continue
		}
		pname := legacyParamName(p.Name, f.conv)
		value := p.Value
		switch p.Unit.Kind {
		case geod.UnitAngular:
			value = p.Unit.ToSI(p.Value) / geod.Degree.Factor
		case geod.UnitLinear:
			value = p.Unit.ToSI(p.Value) / linear.Factor
		}
		n.add(newONode("PARAMETER", pname).num(value))
	}
	n.add(f.unitNode(linear))
	n.add(f.wkt1AxisNodes(c.CS, true)...)
	n.add(f.idNode(c.Idents))
	return n
}

func (f *formatter) verticalCRS(c *geod.VerticalCRS) *onode {
	if f.isWKT2() {
		n := newONode("VERTCRS", c.Name())
		f.addDynamic(n, c.Datum)
		n.add(f.datum(c.Datum))
		n.add(f.csNodes(c.CS)...)
		n.add(f.usageNodes(c.Usages)...)
		n.add(f.idNode(c.Idents))
		return n
	}
	if f.conv == WKT1_ESRI {
		n := newONode("VERTCS", esri(c.Name()))
		n.add(newONode("VDATUM", esri(c.Datum.Name())))
		n.add(newONode("PARAMETER", "Vertical_Shift").num(0))
		n.add(newONode("PARAMETER", "Direction").num(1))
		n.add(f.unitNode(c.CS.Axes[0].Unit))
		return n
	}
	n := newONode("VERT_CS", c.Name())
	n.add(f.datum(c.Datum))
	n.add(f.unitNode(c.CS.Axes[0].Unit))
	n.add(f.wkt1AxisNodes(c.CS, false)...)
	n.add(f.idNode(c.Idents))
	return n
}

func (f *formatter) compoundCRS(c *geod.CompoundCRS) *onode {
	if f.conv == WKT1_ESRI {
		return f.fail("WKT1:ESRI cannot express a compound CRS")
	}
	keyword := "COMPOUNDCRS"
	if !f.isWKT2() {
		keyword = "COMPD_CS"
	}
	n := newONode(keyword, c.Name())
	for _, comp := range c.Components {
		n.add(f.crs(comp))
	}
	if f.isWKT2() {
		n.add(f.usageNodes(c.Usages)...)
	}
	n.add(f.idNode(c.Idents))
	return n
}

func (f *formatter) boundCRS(c *geod.BoundCRS) *onode {
	if f.isWKT2() {
		n := &onode{keyword: "BOUNDCRS"}
		n.add((&onode{keyword: "SOURCECRS"}).add(f.crs(c.Base)))
		n.add((&onode{keyword: "TARGETCRS"}).add(f.crs(c.Hub)))
		tr := newONode("ABRIDGEDTRANSFORMATION", c.Transform.Name())
		tr.add(f.methodNode(c.Transform.Method))
		tr.add(f.paramNodes(c.Transform.Params)...)
		tr.add(f.idNode(c.Transform.Idents))
		n.add(tr)
		return n
	}
	if f.conv == WKT1_ESRI {
		// the vendor dialect has no hub construct; the base stands alone
		return f.crs(c.Base)
	}
	values, ok := c.Transform.TOWGS84Parameters()
	if !ok {
		return f.fail("WKT1 cannot express transformation %q", c.Transform.Name())
	}
	f.pendingTOWGS84 = values
	return f.crs(c.Base)
}

func (f *formatter) engineeringCRS(c *geod.EngineeringCRS) *onode {
	if f.isWKT2() {
		n := newONode("ENGCRS", c.Name())
		n.add(f.engineeringDatum(c.Datum))
		n.add(f.csNodes(c.CS)...)
		n.add(f.usageNodes(c.Usages)...)
		n.add(f.idNode(c.Idents))
		return n
	}
	if f.conv == WKT1_ESRI {
		return f.fail("WKT1:ESRI cannot express an engineering CRS")
	}
	n := newONode("LOCAL_CS", c.Name())
	n.add(f.engineeringDatum(c.Datum))
	n.add(f.unitNode(c.CS.Axes[0].Unit))
	n.add(f.wkt1AxisNodes(c.CS, false)...)
	n.add(f.idNode(c.Idents))
	return n
}

func (f *formatter) temporalCRS(c *geod.TemporalCRS) *onode {
	if !f.isWKT2() {
		return f.fail("%s cannot express a temporal CRS", f.conv)
	}
	n := newONode("TIMECRS", c.Name())
	dn := newONode("TDATUM", c.Datum.Name())
	if c.Datum.Calendar != "" {
		dn.add(newONode("CALENDAR", c.Datum.Calendar))
	}
	if c.Datum.Origin != "" {
		dn.add(newONode("TIMEORIGIN", c.Datum.Origin))
	}
	n.add(dn)
	n.add(f.csNodes(c.CS)...)
	n.add(f.usageNodes(c.Usages)...)
	n.add(f.idNode(c.Idents))
	return n
}

func (f *formatter) coordinateOperation(t *geod.Transformation) *onode {
	if !f.isWKT2() {
		return f.fail("%s cannot express a coordinate operation", f.conv)
	}
	n := newONode("COORDINATEOPERATION", t.Name())
	n.add((&onode{keyword: "SOURCECRS"}).add(f.crs(t.SourceCRS)))
	n.add((&onode{keyword: "TARGETCRS"}).add(f.crs(t.TargetCRS)))
	n.add(f.methodNode(t.Method))
	n.add(f.paramNodes(t.Params)...)
	if acc := t.Accuracy(); acc.Known {
		n.add((&onode{keyword: "OPERATIONACCURACY"}).num(acc.Value))
	}
	n.add(f.usageNodes(t.Usages)...)
	n.add(f.idNode(t.Idents))
	return n
}

func (f *formatter) concatenatedOperation(c *geod.ConcatenatedOperation) *onode {
	if f.conv != WKT2_2019 {
		return f.fail("%s cannot express a concatenated operation", f.conv)
	}
	n := newONode("CONCATENATEDOPERATION", c.Name())
	n.add((&onode{keyword: "SOURCECRS"}).add(f.crs(c.Source())))
	n.add((&onode{keyword: "TARGETCRS"}).add(f.crs(c.Target())))
	for _, step := range c.Steps {
		sn := &onode{keyword: "STEP"}
		switch op := step.(type) {
		case *geod.Transformation:
			sn.add(f.coordinateOperation(op))
		case *geod.Conversion:
			sn.add(f.conversion(op))
		default:
			return f.fail("cannot express step %q", step.Name())
		}
		n.add(sn)
	}
	n.add(f.usageNodes(c.Usages)...)
	n.add(f.idNode(c.Idents))
	return n
}

// legacy method and parameter spellings

var legacyMethodNames = map[string]string{
	"Transverse Mercator":                    "Transverse_Mercator",
	"Transverse Mercator (South Orientated)": "Transverse_Mercator_South_Orientated",
	"Mercator (variant A)":                   "Mercator_1SP",
	"Mercator (variant B)":                   "Mercator_2SP",
	"Lambert Conic Conformal (1SP)":          "Lambert_Conformal_Conic_1SP",
	"Lambert Conic Conformal (2SP)":          "Lambert_Conformal_Conic_2SP",
	"Oblique Stereographic":                  "Oblique_Stereographic",
	"Polar Stereographic (variant A)":        "Polar_Stereographic",
	"Albers Equal Area":                      "Albers_Conic_Equal_Area",
	"Lambert Azimuthal Equal Area":           "Lambert_Azimuthal_Equal_Area",
	"Hotine Oblique Mercator (variant A)":    "Hotine_Oblique_Mercator",
	"Hotine Oblique Mercator (variant B)":    "Hotine_Oblique_Mercator_Azimuth_Center",
	"Equidistant Cylindrical":                "Equirectangular",
	"Cassini-Soldner":                        "Cassini_Soldner",
	"New Zealand Map Grid":                   "New_Zealand_Map_Grid",
	"Popular Visualisation Pseudo Mercator":  "Popular_Visualisation_Pseudo_Mercator",
}

func legacyMethodName(name string, conv Convention) string {
	if conv == WKT1_ESRI && name == "Popular Visualisation Pseudo Mercator" {
		return "Mercator_Auxiliary_Sphere"
	}
	if v, ok := legacyMethodNames[name]; ok {
		return v
	}
	return esri(name)
}

var legacyParamNames = map[string]string{
	"Latitude of natural origin":        "latitude_of_origin",
	"Longitude of natural origin":       "central_meridian",
	"Scale factor at natural origin":    "scale_factor",
	"False easting":                     "false_easting",
	"False northing":                    "false_northing",
	"Latitude of 1st standard parallel": "standard_parallel_1",
	"Latitude of 2nd standard parallel": "standard_parallel_2",
	"Latitude of projection centre":     "latitude_of_center",
	"Longitude of projection centre":    "longitude_of_center",
	"Azimuth of initial line":           "azimuth",
}

var esriParamNames = map[string]string{
	"Latitude of natural origin":        "Latitude_Of_Origin",
	"Longitude of natural origin":       "Central_Meridian",
	"Scale factor at natural origin":    "Scale_Factor",
	"False easting":                     "False_Easting",
	"False northing":                    "False_Northing",
	"Latitude of 1st standard parallel": "Standard_Parallel_1",
	"Latitude of 2nd standard parallel": "Standard_Parallel_2",
	"Latitude of projection centre":     "Latitude_Of_Center",
	"Longitude of projection centre":    "Longitude_Of_Center",
	"Azimuth of initial line":           "Azimuth",
}

func legacyParamName(name string, conv Convention) string {
	if conv == WKT1_ESRI {
		if v, ok := esriParamNames[name]; ok {
			return v
		}
		return esri(name)
	}
	if v, ok := legacyParamNames[name]; ok {
		return v
	}
	return strings.ToLower(esri(name))
}
