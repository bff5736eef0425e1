package geod

import "math"

// CelestialBody names the body an ellipsoid approximates. Guessed from the
// semi-major axis when the definition does not say.
type CelestialBody string

const (
	BodyEarth   CelestialBody = "Earth"
	BodyUnknown CelestialBody = "Non-Earth body"
)

// earthSemiMajorTolerance is the +/- band around the WGS84 semi-major axis
// within which an ellipsoid is assumed to model the Earth.
const (
	earthSemiMajor          = 6378137.0
	earthSemiMajorTolerance = 500000.0
)

// Ellipsoid is an oblate spheroid (or sphere) defined by a semi-major axis
// and, unless spherical, an inverse flattening or an explicit semi-minor
// axis. The struct records which of the two was given so that serialization
// can reproduce the original definition.
type Ellipsoid struct {
	ObjectMeta
	SemiMajor     float64 // in Unit
	Unit          Unit    // linear unit of both axes
	InvFlattening float64 // valid when HasInvFlattening
	SemiMinor     float64 // valid when HasSemiMinor

	HasInvFlattening bool
	HasSemiMinor     bool

	Body CelestialBody
}

// NewEllipsoid builds a flattened ellipsoid from semi-major axis and
// inverse flattening.
func NewEllipsoid(meta ObjectMeta, semiMajor, invFlattening float64, unit Unit) (*Ellipsoid, error) {
	if semiMajor <= 0 {
		return nil, NewInvalidDefinition("ellipsoid %q: semi-major axis must be positive, got %v", meta.Name(), semiMajor)
	}
	if invFlattening < 0 {
		return nil, NewInvalidDefinition("ellipsoid %q: inverse flattening must not be negative, got %v", meta.Name(), invFlattening)
	}
	if unit.Kind != UnitLinear {
		return nil, NewInvalidDefinition("ellipsoid %q: axis unit must be linear, got %s", meta.Name(), unit.Kind)
	}
	e := &Ellipsoid{
		ObjectMeta:       meta,
		SemiMajor:        semiMajor,
		Unit:             unit,
		InvFlattening:    invFlattening,
		HasInvFlattening: true,
	}
	e.Body = guessBody(unit.ToSI(semiMajor))
	return e, nil
}

// NewSphere builds a sphere of the given radius.
func NewSphere(meta ObjectMeta, radius float64, unit Unit) (*Ellipsoid, error) {
	if radius <= 0 {
		return nil, NewInvalidDefinition("sphere %q: radius must be positive, got %v", meta.Name(), radius)
	}
	if unit.Kind != UnitLinear {
		return nil, NewInvalidDefinition("sphere %q: radius unit must be linear, got %s", meta.Name(), unit.Kind)
	}
	e := &Ellipsoid{
		ObjectMeta: meta,
		SemiMajor:  radius,
		Unit:       unit,
	}
	e.Body = guessBody(unit.ToSI(radius))
	return e, nil
}

// NewEllipsoidFromAxes builds an ellipsoid from explicit semi-major and
// semi-minor axes.
func NewEllipsoidFromAxes(meta ObjectMeta, semiMajor, semiMinor float64, unit Unit) (*Ellipsoid, error) {
	if semiMajor <= 0 || semiMinor <= 0 {
		return nil, NewInvalidDefinition("ellipsoid %q: axes must be positive, got %v / %v", meta.Name(), semiMajor, semiMinor)
	}
	if semiMinor > semiMajor {
		return nil, NewInvalidDefinition("ellipsoid %q: semi-minor axis %v exceeds semi-major axis %v", meta.Name(), semiMinor, semiMajor)
	}
	if unit.Kind != UnitLinear {
		return nil, NewInvalidDefinition("ellipsoid %q: axis unit must be linear, got %s", meta.Name(), unit.Kind)
	}
	e := &Ellipsoid{
		ObjectMeta:   meta,
		SemiMajor:    semiMajor,
		Unit:         unit,
		SemiMinor:    semiMinor,
		HasSemiMinor: true,
	}
	e.Body = guessBody(unit.ToSI(semiMajor))
	return e, nil
}

func guessBody(semiMajorMetres float64) CelestialBody {
	if math.Abs(semiMajorMetres-earthSemiMajor) <= earthSemiMajorTolerance {
		return BodyEarth
	}
	return BodyUnknown
}

// IsSphere reports whether the ellipsoid has no flattening.
func (e *Ellipsoid) IsSphere() bool {
	if e.HasInvFlattening {
		return e.InvFlattening == 0
	}
	if e.HasSemiMinor {
		return e.SemiMinor == e.SemiMajor
	}
	return true
}

// ComputedSemiMinor returns the semi-minor axis, derived from the inverse
// flattening when it was not given directly.
func (e *Ellipsoid) ComputedSemiMinor() float64 {
	if e.HasSemiMinor {
		return e.SemiMinor
	}
	if e.HasInvFlattening && e.InvFlattening != 0 {
		return e.SemiMajor * (1 - 1/e.InvFlattening)
	}
	return e.SemiMajor
}

// ComputedInvFlattening returns the inverse flattening, derived from the
// axes when it was not given directly. Zero means a sphere.
func (e *Ellipsoid) ComputedInvFlattening() float64 {
	if e.HasInvFlattening {
		return e.InvFlattening
	}
	if e.HasSemiMinor && e.SemiMinor != e.SemiMajor {
		return e.SemiMajor / (e.SemiMajor - e.SemiMinor)
	}
	return 0
}

// CelestialBody returns the body this ellipsoid models.
func (e *Ellipsoid) CelestialBody() CelestialBody { return e.Body }

const ellipsoidAxisTolerance = 1e-8

// EquivalentTo compares two ellipsoids. Under the non-strict criteria only
// the numeric shape matters: same semi-major axis in metres and same
// computed semi-minor axis, however each was defined.
func (e *Ellipsoid) EquivalentTo(other *Ellipsoid, crit Criterion) bool {
	if e == nil || other == nil {
		return e == other
	}
	if crit == Strict {
		if !e.metaEquivalent(other.ObjectMeta) {
			return false
		}
		if e.HasInvFlattening != other.HasInvFlattening || e.HasSemiMinor != other.HasSemiMinor {
			return false
		}
		if !e.Unit.Equal(other.Unit) {
			return false
		}
	}
	a1, a2 := e.Unit.ToSI(e.SemiMajor), other.Unit.ToSI(other.SemiMajor)
	b1, b2 := e.Unit.ToSI(e.ComputedSemiMinor()), other.Unit.ToSI(other.ComputedSemiMinor())
	return nearlyEqual(a1, a2, ellipsoidAxisTolerance) && nearlyEqual(b1, b2, ellipsoidAxisTolerance)
}

func nearlyEqual(a, b, relTol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= relTol*scale
}

// PrimeMeridian is a reference meridian given as a longitude offset from
// Greenwich in an angular unit.
type PrimeMeridian struct {
	ObjectMeta
	Longitude float64
	Unit      Unit
}

func NewPrimeMeridian(meta ObjectMeta, longitude float64, unit Unit) (*PrimeMeridian, error) {
	if unit.Kind != UnitAngular {
		return nil, NewInvalidDefinition("prime meridian %q: unit must be angular, got %s", meta.Name(), unit.Kind)
	}
	return &PrimeMeridian{ObjectMeta: meta, Longitude: longitude, Unit: unit}, nil
}

// Greenwich is the implied prime meridian when a definition names none.
var Greenwich = &PrimeMeridian{
	ObjectMeta: ObjectMeta{ObjName: "Greenwich", Idents: []Ident{{Authority: "EPSG", Code: "8901"}}},
	Longitude:  0,
	Unit:       Degree,
}

// IsGreenwich reports a zero longitude offset, whatever the unit.
func (pm *PrimeMeridian) IsGreenwich() bool {
	return pm.Longitude == 0
}

func (pm *PrimeMeridian) EquivalentTo(other *PrimeMeridian, crit Criterion) bool {
	if pm == nil || other == nil {
		return pm == other
	}
	if crit == Strict {
		if !pm.metaEquivalent(other.ObjectMeta) || !pm.Unit.Equal(other.Unit) {
			return false
		}
	}
	// zero offset is Greenwich regardless of unit
	if pm.IsGreenwich() && other.IsGreenwich() {
		return true
	}
	return nearlyEqual(pm.Unit.ToSI(pm.Longitude), other.Unit.ToSI(other.Longitude), 1e-10)
}
