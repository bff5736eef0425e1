package geod

// CSKind closes the coordinate system variant set.
type CSKind int

const (
	CSCartesian CSKind = iota
	CSEllipsoidal
	CSVertical
	CSSpherical
	CSOrdinal
	CSParametric
	CSTemporalDateTime
	CSTemporalCount
	CSTemporalMeasure
)

var csKindNames = []string{
	"Cartesian", "ellipsoidal", "vertical", "spherical", "ordinal",
	"parametric", "temporal datetime", "temporal count", "temporal measure",
}

func (k CSKind) String() string {
	if k >= 0 && int(k) < len(csKindNames) {
		return csKindNames[k]
	}
	return "unknown"
}

// AxisDirection is the direction an axis points at; the set is fixed by the
// coordinate system kind.
type AxisDirection string

const (
	DirNorth          AxisDirection = "north"
	DirSouth          AxisDirection = "south"
	DirEast           AxisDirection = "east"
	DirWest           AxisDirection = "west"
	DirUp             AxisDirection = "up"
	DirDown           AxisDirection = "down"
	DirGeocentricX    AxisDirection = "geocentricX"
	DirGeocentricY    AxisDirection = "geocentricY"
	DirGeocentricZ    AxisDirection = "geocentricZ"
	DirFuture         AxisDirection = "future"
	DirPast           AxisDirection = "past"
	DirUnspecified    AxisDirection = "unspecified"
	DirCounterClockWs AxisDirection = "counterClockwise"
)

// Axis describes one coordinate of a coordinate system.
type Axis struct {
	Name      string
	Abbrev    string
	Direction AxisDirection
	Unit      Unit
}

func (a Axis) equivalent(other Axis, crit Criterion) bool {
	if crit == Strict && (a.Name != other.Name || a.Abbrev != other.Abbrev) {
		return false
	}
	return a.Direction == other.Direction && a.Unit.Equal(other.Unit)
}

// CoordinateSystem is an ordered list of one to three axes of a fixed kind.
type CoordinateSystem struct {
	ObjectMeta
	Kind CSKind
	Axes []Axis
}

// axis count limits per kind
var csAxisCounts = map[CSKind][2]int{
	CSCartesian:        {2, 3},
	CSEllipsoidal:      {2, 3},
	CSVertical:         {1, 1},
	CSSpherical:        {3, 3},
	CSOrdinal:          {1, 3},
	CSParametric:       {1, 1},
	CSTemporalDateTime: {1, 1},
	CSTemporalCount:    {1, 1},
	CSTemporalMeasure:  {1, 1},
}

func NewCoordinateSystem(kind CSKind, axes ...Axis) (*CoordinateSystem, error) {
	limits, ok := csAxisCounts[kind]
	if !ok {
		return nil, NewInvalidDefinition("unknown coordinate system kind %d", kind)
	}
	if len(axes) < limits[0] || len(axes) > limits[1] {
		return nil, NewInvalidDefinition("%s coordinate system requires %d..%d axes, got %d",
			kind, limits[0], limits[1], len(axes))
	}
	for _, ax := range axes {
		if err := validateAxis(kind, ax); err != nil {
			return nil, err
		}
	}
	return &CoordinateSystem{Kind: kind, Axes: axes}, nil
}

func validateAxis(kind CSKind, ax Axis) error {
	switch kind {
	case CSEllipsoidal:
		switch ax.Direction {
		case DirNorth, DirSouth, DirEast, DirWest:
			if ax.Unit.Kind != UnitAngular {
				return NewInvalidDefinition("ellipsoidal axis %q requires an angular unit", ax.Name)
			}
		case DirUp, DirDown:
			if ax.Unit.Kind != UnitLinear {
				return NewInvalidDefinition("ellipsoidal height axis %q requires a linear unit", ax.Name)
			}
		default:
			return NewInvalidDefinition("direction %q is not valid in an ellipsoidal system", ax.Direction)
		}
	case CSCartesian:
		if ax.Unit.Kind != UnitLinear {
			return NewInvalidDefinition("Cartesian axis %q requires a linear unit", ax.Name)
		}
	case CSVertical:
		if ax.Direction != DirUp && ax.Direction != DirDown {
			return NewInvalidDefinition("vertical axis %q must point up or down", ax.Name)
		}
		if ax.Unit.Kind != UnitLinear {
			return NewInvalidDefinition("vertical axis %q requires a linear unit", ax.Name)
		}
	case CSTemporalDateTime, CSTemporalCount, CSTemporalMeasure:
		if ax.Direction != DirFuture && ax.Direction != DirPast {
			return NewInvalidDefinition("temporal axis %q must point to future or past", ax.Name)
		}
	}
	return nil
}

// convenience constructors for the common systems

func EllipsoidalCS2D(angular Unit) *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSEllipsoidal,
		Axis{Name: "Geodetic longitude", Abbrev: "Lon", Direction: DirEast, Unit: angular},
		Axis{Name: "Geodetic latitude", Abbrev: "Lat", Direction: DirNorth, Unit: angular},
	)
	return cs
}

// EllipsoidalCS2DLatLon is the EPSG axis order used by most cataloged
// geographic CRS.
func EllipsoidalCS2DLatLon(angular Unit) *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSEllipsoidal,
		Axis{Name: "Geodetic latitude", Abbrev: "Lat", Direction: DirNorth, Unit: angular},
		Axis{Name: "Geodetic longitude", Abbrev: "Lon", Direction: DirEast, Unit: angular},
	)
	return cs
}

func EllipsoidalCS3D(angular, linear Unit) *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSEllipsoidal,
		Axis{Name: "Geodetic longitude", Abbrev: "Lon", Direction: DirEast, Unit: angular},
		Axis{Name: "Geodetic latitude", Abbrev: "Lat", Direction: DirNorth, Unit: angular},
		Axis{Name: "Ellipsoidal height", Abbrev: "h", Direction: DirUp, Unit: linear},
	)
	return cs
}

func CartesianCS2D(linear Unit) *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSCartesian,
		Axis{Name: "Easting", Abbrev: "E", Direction: DirEast, Unit: linear},
		Axis{Name: "Northing", Abbrev: "N", Direction: DirNorth, Unit: linear},
	)
	return cs
}

func GeocentricCS(linear Unit) *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSCartesian,
		Axis{Name: "Geocentric X", Abbrev: "X", Direction: DirGeocentricX, Unit: linear},
		Axis{Name: "Geocentric Y", Abbrev: "Y", Direction: DirGeocentricY, Unit: linear},
		Axis{Name: "Geocentric Z", Abbrev: "Z", Direction: DirGeocentricZ, Unit: linear},
	)
	return cs
}

func VerticalCS(linear Unit) *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSVertical,
		Axis{Name: "Gravity-related height", Abbrev: "H", Direction: DirUp, Unit: linear},
	)
	return cs
}

func (cs *CoordinateSystem) Dimension() int { return len(cs.Axes) }

// IsGeocentric reports a 3-axis Cartesian system with geocentric
// directions.
func (cs *CoordinateSystem) IsGeocentric() bool {
	if cs.Kind != CSCartesian || len(cs.Axes) != 3 {
		return false
	}
	for _, ax := range cs.Axes {
		switch ax.Direction {
		case DirGeocentricX, DirGeocentricY, DirGeocentricZ:
		default:
			return false
		}
	}
	return true
}

// IsEastingNorthing reports a 2D Cartesian system ordered easting then
// northing, the convention legacy dialects require.
func (cs *CoordinateSystem) IsEastingNorthing() bool {
	return cs.Kind == CSCartesian && len(cs.Axes) == 2 &&
		cs.Axes[0].Direction == DirEast && cs.Axes[1].Direction == DirNorth
}

// EquivalentTo compares two coordinate systems. ignoreAxisOrder applies the
// geographic axis-order exception: the axis sets must match but their order
// may differ.
func (cs *CoordinateSystem) EquivalentTo(other *CoordinateSystem, crit Criterion, ignoreAxisOrder bool) bool {
	if cs == nil || other == nil {
		return cs == other
	}
	if cs.Kind != other.Kind || len(cs.Axes) != len(other.Axes) {
		return false
	}
	if crit == Strict && !cs.metaEquivalent(other.ObjectMeta) {
		return false
	}
	if !ignoreAxisOrder {
		for i, ax := range cs.Axes {
			if !ax.equivalent(other.Axes[i], crit) {
				return false
			}
		}
		return true
	}
	matched := make([]bool, len(other.Axes))
	for _, ax := range cs.Axes {
		found := false
		for j, ox := range other.Axes {
			if !matched[j] && ax.equivalent(ox, crit) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// WithUnit returns a copy of the coordinate system with every axis of the
// given unit kind rebuilt on the new unit.
func (cs *CoordinateSystem) WithUnit(unit Unit) *CoordinateSystem {
	axes := make([]Axis, len(cs.Axes))
	for i, ax := range cs.Axes {
		if ax.Unit.Kind == unit.Kind {
			ax.Unit = unit
		}
		axes[i] = ax
	}
	return &CoordinateSystem{ObjectMeta: cs.ObjectMeta, Kind: cs.Kind, Axes: axes}
}
