package geod

// CRSKind closes the CRS variant set.
type CRSKind int

const (
	CRSGeographic2D CRSKind = iota
	CRSGeographic3D
	CRSGeocentric
	CRSProjected
	CRSVertical
	CRSCompound
	CRSBound
	CRSEngineering
	CRSTemporal
)

var crsKindNames = []string{
	"geographic 2D", "geographic 3D", "geocentric", "projected",
	"vertical", "compound", "bound", "engineering", "temporal",
}

func (k CRSKind) String() string {
	if k >= 0 && int(k) < len(crsKindNames) {
		return crsKindNames[k]
	}
	return "unknown"
}

// CRS is the sealed union of coordinate reference system variants.
type CRS interface {
	Name() string
	Identifiers() []Ident
	IsDeprecated() bool
	Kind() CRSKind
	Extent() *Extent
	EquivalentToCRS(other CRS, crit Criterion) bool

	sealedCRS()
}

// GeodeticCRS is a geographic or geocentric CRS: a geodetic reference frame
// (or an ensemble of them) with an ellipsoidal or Cartesian/spherical
// coordinate system.
type GeodeticCRS struct {
	ObjectUsage
	Datum Datum // *GeodeticFrame or *DatumEnsemble, never nil
	CS    *CoordinateSystem
}

func NewGeodeticCRS(meta ObjectMeta, datum Datum, cs *CoordinateSystem, usages ...Usage) (*GeodeticCRS, error) {
	if datum == nil {
		return nil, NewInvalidDefinition("geodetic CRS %q: datum or datum ensemble is required", meta.Name())
	}
	switch datum.Kind() {
	case DatumGeodetic, DatumEnsembleKind:
	default:
		return nil, NewInvalidDefinition("geodetic CRS %q: datum must be a geodetic frame or ensemble", meta.Name())
	}
	if cs == nil {
		return nil, NewInvalidDefinition("geodetic CRS %q: coordinate system is required", meta.Name())
	}
	switch cs.Kind {
	case CSEllipsoidal, CSSpherical:
	case CSCartesian:
		if !cs.IsGeocentric() {
			return nil, NewInvalidDefinition("geodetic CRS %q: Cartesian system must be geocentric", meta.Name())
		}
	default:
		return nil, NewInvalidDefinition("geodetic CRS %q: %s coordinate system is not allowed", meta.Name(), cs.Kind)
	}
	return &GeodeticCRS{ObjectUsage: ObjectUsage{ObjectMeta: meta, Usages: usages}, Datum: datum, CS: cs}, nil
}

func (c *GeodeticCRS) Kind() CRSKind {
	switch c.CS.Kind {
	case CSEllipsoidal:
		if c.CS.Dimension() == 3 {
			return CRSGeographic3D
		}
		return CRSGeographic2D
	default:
		return CRSGeocentric
	}
}

// IsGeographic reports an ellipsoidal coordinate system.
func (c *GeodeticCRS) IsGeographic() bool { return c.CS.Kind == CSEllipsoidal }

// GeodeticFrame returns the frame, resolving an ensemble to nil.
func (c *GeodeticCRS) GeodeticFrame() *GeodeticFrame {
	if f, ok := c.Datum.(*GeodeticFrame); ok {
		return f
	}
	return nil
}

// Ellipsoid returns the ellipsoid of the frame or of the first ensemble
// member.
func (c *GeodeticCRS) Ellipsoid() *Ellipsoid {
	if f := c.GeodeticFrame(); f != nil {
		return f.Ellipsoid
	}
	if ens, ok := c.Datum.(*DatumEnsemble); ok {
		if f, ok := ens.Members[0].(*GeodeticFrame); ok {
			return f.Ellipsoid
		}
	}
	return nil
}

func (c *GeodeticCRS) sealedCRS() {}

func (c *GeodeticCRS) EquivalentToCRS(other CRS, crit Criterion) bool {
	o, ok := other.(*GeodeticCRS)
	if !ok {
		return false
	}
	if !c.usageEquivalent(o.ObjectUsage, crit) {
		return false
	}
	if !datumOrEnsembleEquivalent(c.Datum, o.Datum, crit) {
		return false
	}
	ignoreAxisOrder := crit == EquivalentExceptAxisOrder && c.IsGeographic() && o.IsGeographic()
	return c.CS.EquivalentTo(o.CS, crit, ignoreAxisOrder)
}

// ProjectedCRS applies a conversion (a map projection) to a base geodetic
// CRS, yielding a Cartesian system.
type ProjectedCRS struct {
	ObjectUsage
	Base       *GeodeticCRS
	Conversion *Conversion
	CS         *CoordinateSystem
}

func NewProjectedCRS(meta ObjectMeta, base *GeodeticCRS, conv *Conversion, cs *CoordinateSystem, usages ...Usage) (*ProjectedCRS, error) {
	if base == nil {
		return nil, NewInvalidDefinition("projected CRS %q: base geodetic CRS is required", meta.Name())
	}
	if conv == nil {
		return nil, NewInvalidDefinition("projected CRS %q: conversion is required", meta.Name())
	}
	if cs == nil || cs.Kind != CSCartesian {
		return nil, NewInvalidDefinition("projected CRS %q: Cartesian coordinate system is required", meta.Name())
	}
	return &ProjectedCRS{ObjectUsage: ObjectUsage{ObjectMeta: meta, Usages: usages}, Base: base, Conversion: conv, CS: cs}, nil
}

func (c *ProjectedCRS) Kind() CRSKind { return CRSProjected }
func (c *ProjectedCRS) sealedCRS()    {}

func (c *ProjectedCRS) EquivalentToCRS(other CRS, crit Criterion) bool {
	o, ok := other.(*ProjectedCRS)
	if !ok {
		return false
	}
	return c.usageEquivalent(o.ObjectUsage, crit) &&
		c.Base.EquivalentToCRS(o.Base, crit) &&
		c.Conversion.EquivalentToOperation(o.Conversion, crit) &&
		c.CS.EquivalentTo(o.CS, crit, false)
}

// VerticalCRS measures gravity-related heights or depths.
type VerticalCRS struct {
	ObjectUsage
	Datum Datum // *VerticalFrame or *DatumEnsemble
	CS    *CoordinateSystem
}

func NewVerticalCRS(meta ObjectMeta, datum Datum, cs *CoordinateSystem, usages ...Usage) (*VerticalCRS, error) {
	if datum == nil {
		return nil, NewInvalidDefinition("vertical CRS %q: datum is required", meta.Name())
	}
	switch datum.Kind() {
	case DatumVertical, DatumEnsembleKind:
	default:
		return nil, NewInvalidDefinition("vertical CRS %q: datum must be a vertical frame or ensemble", meta.Name())
	}
	if cs == nil || cs.Kind != CSVertical {
		return nil, NewInvalidDefinition("vertical CRS %q: vertical coordinate system is required", meta.Name())
	}
	return &VerticalCRS{ObjectUsage: ObjectUsage{ObjectMeta: meta, Usages: usages}, Datum: datum, CS: cs}, nil
}

func (c *VerticalCRS) Kind() CRSKind { return CRSVertical }
func (c *VerticalCRS) sealedCRS()    {}

func (c *VerticalCRS) EquivalentToCRS(other CRS, crit Criterion) bool {
	o, ok := other.(*VerticalCRS)
	if !ok {
		return false
	}
	return c.usageEquivalent(o.ObjectUsage, crit) &&
		datumOrEnsembleEquivalent(c.Datum, o.Datum, crit) &&
		c.CS.EquivalentTo(o.CS, crit, false)
}

// CompoundCRS is an ordered list of component CRS, conventionally the
// horizontal component first.
type CompoundCRS struct {
	ObjectUsage
	Components []CRS
}

func NewCompoundCRS(meta ObjectMeta, components []CRS, usages ...Usage) (*CompoundCRS, error) {
	if len(components) < 2 {
		return nil, NewInvalidDefinition("compound CRS %q: at least two components required, got %d", meta.Name(), len(components))
	}
	for _, comp := range components {
		if comp.Kind() == CRSCompound {
			return nil, NewInvalidDefinition("compound CRS %q: nesting compound CRS is not allowed", meta.Name())
		}
	}
	return &CompoundCRS{ObjectUsage: ObjectUsage{ObjectMeta: meta, Usages: usages}, Components: components}, nil
}

func (c *CompoundCRS) Kind() CRSKind { return CRSCompound }
func (c *CompoundCRS) sealedCRS()    {}

// SubCRS returns the i-th component.
func (c *CompoundCRS) SubCRS(i int) (CRS, error) {
	if i < 0 || i >= len(c.Components) {
		return nil, NewNotApplicable("compound CRS %q has no component %d", c.Name(), i)
	}
	return c.Components[i], nil
}

func (c *CompoundCRS) EquivalentToCRS(other CRS, crit Criterion) bool {
	o, ok := other.(*CompoundCRS)
	if !ok {
		return false
	}
	if !c.usageEquivalent(o.ObjectUsage, crit) || len(c.Components) != len(o.Components) {
		return false
	}
	for i, comp := range c.Components {
		if !comp.EquivalentToCRS(o.Components[i], crit) {
			return false
		}
	}
	return true
}

// BoundCRS attaches to a base CRS the transformation that relates it to a
// hub CRS, typically a shift to a global reference like WGS 84.
type BoundCRS struct {
	ObjectMeta
	Base      CRS
	Hub       CRS
	Transform *Transformation
}

func NewBoundCRS(base, hub CRS, transform *Transformation) (*BoundCRS, error) {
	if base == nil || hub == nil {
		return nil, NewInvalidDefinition("bound CRS: base and hub CRS are required")
	}
	if transform == nil {
		return nil, NewInvalidDefinition("bound CRS: transformation is required")
	}
	meta := ObjectMeta{ObjName: base.Name()}
	return &BoundCRS{ObjectMeta: meta, Base: base, Hub: hub, Transform: transform}, nil
}

func (c *BoundCRS) Kind() CRSKind   { return CRSBound }
func (c *BoundCRS) sealedCRS()      {}
func (c *BoundCRS) Extent() *Extent { return c.Base.Extent() }

func (c *BoundCRS) EquivalentToCRS(other CRS, crit Criterion) bool {
	o, ok := other.(*BoundCRS)
	if !ok {
		return false
	}
	return c.Base.EquivalentToCRS(o.Base, crit) &&
		c.Hub.EquivalentToCRS(o.Hub, crit) &&
		c.Transform.EquivalentToOperation(o.Transform, crit)
}

// EngineeringCRS is a local CRS with no relationship to the Earth.
type EngineeringCRS struct {
	ObjectUsage
	Datum *EngineeringDatum
	CS    *CoordinateSystem
}

func NewEngineeringCRS(meta ObjectMeta, datum *EngineeringDatum, cs *CoordinateSystem, usages ...Usage) (*EngineeringCRS, error) {
	if datum == nil {
		return nil, NewInvalidDefinition("engineering CRS %q: datum is required", meta.Name())
	}
	if cs == nil {
		return nil, NewInvalidDefinition("engineering CRS %q: coordinate system is required", meta.Name())
	}
	return &EngineeringCRS{ObjectUsage: ObjectUsage{ObjectMeta: meta, Usages: usages}, Datum: datum, CS: cs}, nil
}

func (c *EngineeringCRS) Kind() CRSKind { return CRSEngineering }
func (c *EngineeringCRS) sealedCRS()    {}

func (c *EngineeringCRS) EquivalentToCRS(other CRS, crit Criterion) bool {
	o, ok := other.(*EngineeringCRS)
	if !ok {
		return false
	}
	return c.usageEquivalent(o.ObjectUsage, crit) &&
		c.Datum.EquivalentToDatum(o.Datum, crit) &&
		c.CS.EquivalentTo(o.CS, crit, false)
}

// TemporalDatum fixes the origin of a temporal CRS.
type TemporalDatum struct {
	ObjectMeta
	Calendar string
	Origin   string // ISO-8601 origin instant
}

func NewTemporalDatum(meta ObjectMeta, calendar, origin string) *TemporalDatum {
	if calendar == "" {
		calendar = "proleptic Gregorian"
	}
	return &TemporalDatum{ObjectMeta: meta, Calendar: calendar, Origin: origin}
}

// TemporalCRS measures time against a temporal datum.
type TemporalCRS struct {
	ObjectUsage
	Datum *TemporalDatum
	CS    *CoordinateSystem
}

func NewTemporalCRS(meta ObjectMeta, datum *TemporalDatum, cs *CoordinateSystem, usages ...Usage) (*TemporalCRS, error) {
	if datum == nil {
		return nil, NewInvalidDefinition("temporal CRS %q: datum is required", meta.Name())
	}
	if cs == nil {
		return nil, NewInvalidDefinition("temporal CRS %q: coordinate system is required", meta.Name())
	}
	switch cs.Kind {
	case CSTemporalDateTime, CSTemporalCount, CSTemporalMeasure:
	default:
		return nil, NewInvalidDefinition("temporal CRS %q: %s coordinate system is not allowed", meta.Name(), cs.Kind)
	}
	return &TemporalCRS{ObjectUsage: ObjectUsage{ObjectMeta: meta, Usages: usages}, Datum: datum, CS: cs}, nil
}

func (c *TemporalCRS) Kind() CRSKind { return CRSTemporal }
func (c *TemporalCRS) sealedCRS()    {}

func (c *TemporalCRS) EquivalentToCRS(other CRS, crit Criterion) bool {
	o, ok := other.(*TemporalCRS)
	if !ok {
		return false
	}
	if !c.usageEquivalent(o.ObjectUsage, crit) {
		return false
	}
	if crit == Strict && !c.Datum.metaEquivalent(o.Datum.ObjectMeta) {
		return false
	}
	return c.Datum.Calendar == o.Datum.Calendar && c.Datum.Origin == o.Datum.Origin &&
		c.CS.EquivalentTo(o.CS, crit, false)
}

// ExtractGeodeticCRS returns the geodetic CRS embedded in crs: the CRS
// itself when already geodetic, the base of a projected CRS, the first
// geodetic component of a compound CRS, or the extraction of a bound CRS
// base. Nil when the CRS carries none.
func ExtractGeodeticCRS(crs CRS) *GeodeticCRS {
	switch c := crs.(type) {
	case *GeodeticCRS:
		return c
	case *ProjectedCRS:
		return c.Base
	case *BoundCRS:
		return ExtractGeodeticCRS(c.Base)
	case *CompoundCRS:
		for _, comp := range c.Components {
			if g := ExtractGeodeticCRS(comp); g != nil {
				return g
			}
		}
	}
	return nil
}
