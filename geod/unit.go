package geod

import "math"

// UnitKind classifies a unit of measure.
type UnitKind int

const (
	UnitUnknown UnitKind = iota
	UnitNone
	UnitAngular
	UnitLinear
	UnitScale
	UnitTime
	UnitParametric
)

var unitKindNames = []string{"unknown", "none", "angular", "linear", "scale", "time", "parametric"}

func (k UnitKind) String() string {
	if k >= 0 && int(k) < len(unitKindNames) {
		return unitKindNames[k]
	}
	return "unknown"
}

// Unit is a unit of measure with a conversion factor to the SI base unit of
// its kind (metre, radian, second, or unity). The name is informational;
// equality is decided by factor and kind only.
type Unit struct {
	Name      string
	Factor    float64
	Kind      UnitKind
	Authority string
	Code      string
}

var (
	Metre         = Unit{Name: "metre", Factor: 1.0, Kind: UnitLinear, Authority: "EPSG", Code: "9001"}
	Foot          = Unit{Name: "foot", Factor: 0.3048, Kind: UnitLinear, Authority: "EPSG", Code: "9002"}
	USSurveyFoot  = Unit{Name: "US survey foot", Factor: 0.3048006096012192, Kind: UnitLinear, Authority: "EPSG", Code: "9003"}
	Kilometre     = Unit{Name: "kilometre", Factor: 1000.0, Kind: UnitLinear, Authority: "EPSG", Code: "9036"}
	Radian        = Unit{Name: "radian", Factor: 1.0, Kind: UnitAngular, Authority: "EPSG", Code: "9101"}
	Degree        = Unit{Name: "degree", Factor: math.Pi / 180.0, Kind: UnitAngular, Authority: "EPSG", Code: "9122"}
	ArcSecond     = Unit{Name: "arc-second", Factor: math.Pi / 648000.0, Kind: UnitAngular, Authority: "EPSG", Code: "9104"}
	Grad          = Unit{Name: "grad", Factor: math.Pi / 200.0, Kind: UnitAngular, Authority: "EPSG", Code: "9105"}
	Unity         = Unit{Name: "unity", Factor: 1.0, Kind: UnitScale, Authority: "EPSG", Code: "9201"}
	PartsPerMill  = Unit{Name: "parts per million", Factor: 1e-6, Kind: UnitScale, Authority: "EPSG", Code: "9202"}
	Second        = Unit{Name: "second", Factor: 1.0, Kind: UnitTime, Authority: "EPSG", Code: "1040"}
	Year          = Unit{Name: "year", Factor: 31556925.445, Kind: UnitTime, Authority: "EPSG", Code: "1029"}
	UnitOne       = Unit{Name: "one", Factor: 1.0, Kind: UnitNone}
	UnknownDegree = Unit{Name: "degree (unknown authority)", Factor: math.Pi / 180.0, Kind: UnitAngular}
)

// wellKnownUnits is the lookup table used when the codec meets a unit
// by name without an attached catalog.
var wellKnownUnits = []Unit{
	Metre, Foot, USSurveyFoot, Kilometre,
	Radian, Degree, ArcSecond, Grad,
	Unity, PartsPerMill, Second, Year,
}

const unitFactorTolerance = 1e-10

// Equal reports unit identity: same kind and same conversion factor within
// tolerance. Names and authority codes are not considered.
func (u Unit) Equal(other Unit) bool {
	if u.Kind != other.Kind {
		return false
	}
	return math.Abs(u.Factor-other.Factor) <= unitFactorTolerance*math.Max(math.Abs(u.Factor), math.Abs(other.Factor))
}

// Convert converts a value expressed in u into the unit to. Both units must
// be of the same kind.
func (u Unit) Convert(value float64, to Unit) (float64, error) {
	if u.Kind != to.Kind {
		return 0, NewNotApplicable("cannot convert %s value to %s unit", u.Kind, to.Kind)
	}
	if to.Factor == 0 {
		return 0, NewInvalidDefinition("unit %q has zero conversion factor", to.Name)
	}
	return value * u.Factor / to.Factor, nil
}

// ToSI converts a value expressed in u to the SI base unit of its kind.
func (u Unit) ToSI(value float64) float64 {
	return value * u.Factor
}

// UnitByName returns the well-known unit with the given name, matching
// case-insensitively and tolerating the common aliases seen in legacy
// definitions.
func UnitByName(name string) (Unit, bool) {
	n := foldName(name)
	for _, u := range wellKnownUnits {
		if foldName(u.Name) == n {
			return u, true
		}
	}
	switch n {
	case "meter", "metres", "meters", "m":
		return Metre, true
	case "degrees", "dega", "deg":
		return Degree, true
	case "ft", "international foot":
		return Foot, true
	case "us survey foot", "foot us", "us-ft":
		return USSurveyFoot, true
	case "rad", "radians":
		return Radian, true
	case "grads", "gon":
		return Grad, true
	case "km":
		return Kilometre, true
	case "arcsecond", "arc second", "arcsec":
		return ArcSecond, true
	}
	return Unit{}, false
}
