package geod

// Alteration operations. Entities are immutable; every alteration returns a
// new, independent entity and leaves the receiver untouched. Component
// entities that are not affected by the alteration stay shared between the
// original and the derived instance.

// AlterName returns a copy of the CRS carrying the new primary name. The
// previous identifiers are dropped since they named the old definition.
func AlterName(crs CRS, name string) CRS {
	switch c := crs.(type) {
	case *GeodeticCRS:
		dup := *c
		dup.ObjName = name
		dup.Idents = nil
		return &dup
	case *ProjectedCRS:
		dup := *c
		dup.ObjName = name
		dup.Idents = nil
		return &dup
	case *VerticalCRS:
		dup := *c
		dup.ObjName = name
		dup.Idents = nil
		return &dup
	case *CompoundCRS:
		dup := *c
		dup.ObjName = name
		dup.Idents = nil
		return &dup
	case *BoundCRS:
		dup := *c
		dup.ObjName = name
		dup.Idents = nil
		return &dup
	case *EngineeringCRS:
		dup := *c
		dup.ObjName = name
		dup.Idents = nil
		return &dup
	case *TemporalCRS:
		dup := *c
		dup.ObjName = name
		dup.Idents = nil
		return &dup
	default:
		return crs
	}
}

// AlterID returns a copy of the CRS carrying exactly one identifier.
func AlterID(crs CRS, id Ident) CRS {
	dup := AlterName(crs, crs.Name())
	switch c := dup.(type) {
	case *GeodeticCRS:
		c.Idents = []Ident{id}
	case *ProjectedCRS:
		c.Idents = []Ident{id}
	case *VerticalCRS:
		c.Idents = []Ident{id}
	case *CompoundCRS:
		c.Idents = []Ident{id}
	case *BoundCRS:
		c.Idents = []Ident{id}
	case *EngineeringCRS:
		c.Idents = []Ident{id}
	case *TemporalCRS:
		c.Idents = []Ident{id}
	}
	return dup
}

// AlterGeodeticCRS substitutes the geodetic component of the CRS,
// recursively for projected, compound and bound CRS. CRS variants without a
// geodetic component are returned unchanged (as a clone).
func AlterGeodeticCRS(crs CRS, newGeod *GeodeticCRS) CRS {
	switch c := crs.(type) {
	case *GeodeticCRS:
		return newGeod
	case *ProjectedCRS:
		dup := *c
		dup.Base = newGeod
		return &dup
	case *CompoundCRS:
		dup := *c
		dup.Components = make([]CRS, len(c.Components))
		for i, comp := range c.Components {
			dup.Components[i] = AlterGeodeticCRS(comp, newGeod)
		}
		return &dup
	case *BoundCRS:
		dup := *c
		dup.Base = AlterGeodeticCRS(c.Base, newGeod)
		return &dup
	default:
		return AlterName(crs, crs.Name())
	}
}

// AlterCSLinearUnit rebuilds the coordinate system of the CRS on a new
// linear unit. Applicable to projected, geocentric, vertical, bound and
// compound CRS (component-wise); NotApplicable otherwise.
func AlterCSLinearUnit(crs CRS, unit Unit) (CRS, error) {
	if unit.Kind != UnitLinear {
		return nil, NewInvalidDefinition("unit %q is not linear", unit.Name)
	}
	switch c := crs.(type) {
	case *ProjectedCRS:
		dup := *c
		dup.CS = c.CS.WithUnit(unit)
		return &dup, nil
	case *GeodeticCRS:
		dup := *c
		dup.CS = c.CS.WithUnit(unit)
		return &dup, nil
	case *VerticalCRS:
		dup := *c
		dup.CS = c.CS.WithUnit(unit)
		return &dup, nil
	case *BoundCRS:
		base, err := AlterCSLinearUnit(c.Base, unit)
		if err != nil {
			return nil, err
		}
		dup := *c
		dup.Base = base
		return &dup, nil
	case *CompoundCRS:
		dup := *c
		dup.Components = make([]CRS, len(c.Components))
		for i, comp := range c.Components {
			altered, err := AlterCSLinearUnit(comp, unit)
			if err != nil {
				dup.Components[i] = comp
				continue
			}
			dup.Components[i] = altered
		}
		return &dup, nil
	default:
		return nil, NewNotApplicable("cannot alter linear unit of a %s CRS", crs.Kind())
	}
}

// AlterCSAngularUnit rebuilds the ellipsoidal coordinate system of a
// geographic CRS on a new angular unit.
func AlterCSAngularUnit(crs CRS, unit Unit) (CRS, error) {
	if unit.Kind != UnitAngular {
		return nil, NewInvalidDefinition("unit %q is not angular", unit.Name)
	}
	switch c := crs.(type) {
	case *GeodeticCRS:
		if !c.IsGeographic() {
			return nil, NewNotApplicable("cannot alter angular unit of a %s CRS", c.Kind())
		}
		dup := *c
		dup.CS = c.CS.WithUnit(unit)
		return &dup, nil
	case *BoundCRS:
		base, err := AlterCSAngularUnit(c.Base, unit)
		if err != nil {
			return nil, err
		}
		dup := *c
		dup.Base = base
		return &dup, nil
	default:
		return nil, NewNotApplicable("cannot alter angular unit of a %s CRS", crs.Kind())
	}
}

// PromoteTo3D returns a 3D variant of a geographic 2D CRS (or of the base
// of a projected CRS), adding an ellipsoidal height axis in metres.
func PromoteTo3D(crs CRS, name string) (CRS, error) {
	switch c := crs.(type) {
	case *GeodeticCRS:
		if !c.IsGeographic() || c.CS.Dimension() != 2 {
			return nil, NewNotApplicable("cannot promote a %s CRS to 3D", c.Kind())
		}
		if name == "" {
			name = c.Name()
		}
		axes := append(append([]Axis{}, c.CS.Axes...),
			Axis{Name: "Ellipsoidal height", Abbrev: "h", Direction: DirUp, Unit: Metre})
		cs, err := NewCoordinateSystem(CSEllipsoidal, axes...)
		if err != nil {
			return nil, err
		}
		return NewGeodeticCRS(ObjectMeta{ObjName: name}, c.Datum, cs, c.Usages...)
	case *ProjectedCRS:
		base, err := PromoteTo3D(c.Base, "")
		if err != nil {
			return nil, err
		}
		dup := *c
		if name != "" {
			dup.ObjName = name
			dup.Idents = nil
		}
		dup.Base = base.(*GeodeticCRS)
		return &dup, nil
	default:
		return nil, NewNotApplicable("cannot promote a %s CRS to 3D", crs.Kind())
	}
}

// DemoteTo2D strips the height axis of a geographic 3D CRS.
func DemoteTo2D(crs CRS, name string) (CRS, error) {
	c, ok := crs.(*GeodeticCRS)
	if !ok || !c.IsGeographic() || c.CS.Dimension() != 3 {
		return nil, NewNotApplicable("cannot demote a %s CRS to 2D", crs.Kind())
	}
	if name == "" {
		name = c.Name()
	}
	var axes []Axis
	for _, ax := range c.CS.Axes {
		if ax.Direction == DirUp || ax.Direction == DirDown {
			continue
		}
		axes = append(axes, ax)
	}
	cs, err := NewCoordinateSystem(CSEllipsoidal, axes...)
	if err != nil {
		return nil, err
	}
	return NewGeodeticCRS(ObjectMeta{ObjName: name}, c.Datum, cs, c.Usages...)
}

// WGS84TransformationSource finds a cataloged transformation from the given
// CRS to a WGS 84 class target. Implemented by the operation resolver; kept
// as an interface here so the object model does not depend on the catalog
// layer.
type WGS84TransformationSource interface {
	TransformationToWGS84(crs CRS, allowIntermediate bool) (*Transformation, CRS, error)
}

// ToBoundCRSWithWGS84 attempts to rewrite the CRS as a BoundCRS whose hub
// is WGS 84, using a cataloged transformation. The original CRS is returned
// unchanged when no transformation is found.
func ToBoundCRSWithWGS84(crs CRS, source WGS84TransformationSource, allowIntermediate bool) CRS {
	if crs == nil || source == nil {
		return crs
	}
	if crs.Kind() == CRSBound {
		return crs
	}
	if c, ok := crs.(*CompoundCRS); ok {
		dup := *c
		dup.Components = make([]CRS, len(c.Components))
		changed := false
		for i, comp := range c.Components {
			dup.Components[i] = ToBoundCRSWithWGS84(comp, source, allowIntermediate)
			if dup.Components[i] != comp {
				changed = true
			}
		}
		if !changed {
			return crs
		}
		return &dup
	}
	transform, hub, err := source.TransformationToWGS84(crs, allowIntermediate)
	if err != nil || transform == nil {
		return crs
	}
	bound, err := NewBoundCRS(crs, hub, transform)
	if err != nil {
		return crs
	}
	return bound
}

// BindToWGS84 wraps crs in a BoundCRS whose hub is WGS 84, with the
// Helmert transformation implied by a 3-value (translation only) or
// 7-value (position vector) parameter list.
func BindToWGS84(crs CRS, values []float64) (CRS, error) {
	var methodName string
	var params []ParamValue
	switch len(values) {
	case 3:
		methodName = "Geocentric translations (geog2D domain)"
		params = []ParamValue{
			MeasureParam("X-axis translation", values[0], Metre),
			MeasureParam("Y-axis translation", values[1], Metre),
			MeasureParam("Z-axis translation", values[2], Metre),
		}
	case 7:
		methodName = "Position Vector transformation (geog2D domain)"
		params = []ParamValue{
			MeasureParam("X-axis translation", values[0], Metre),
			MeasureParam("Y-axis translation", values[1], Metre),
			MeasureParam("Z-axis translation", values[2], Metre),
			MeasureParam("X-axis rotation", values[3], ArcSecond),
			MeasureParam("Y-axis rotation", values[4], ArcSecond),
			MeasureParam("Z-axis rotation", values[5], ArcSecond),
			MeasureParam("Scale difference", values[6], PartsPerMill),
		}
	default:
		return nil, NewInvalidDefinition("a WGS 84 binding requires 3 or 7 values, got %d", len(values))
	}
	hub := WGS84()
	transform, err := NewTransformation(
		ObjectMeta{ObjName: "Transformation from " + crs.Name() + " to WGS84"},
		crs, hub,
		Method{ObjectMeta: ObjectMeta{ObjName: methodName}},
		params, nil)
	if err != nil {
		return nil, err
	}
	return NewBoundCRS(crs, hub, transform)
}
