package geod

// DatumKind closes the datum variant set so that decision points can switch
// exhaustively instead of probing concrete types.
type DatumKind int

const (
	DatumGeodetic DatumKind = iota
	DatumVertical
	DatumEngineering
	DatumEnsembleKind
)

// Datum is the sealed union of reference frame variants.
type Datum interface {
	Name() string
	Identifiers() []Ident
	IsDeprecated() bool
	Kind() DatumKind
	EquivalentToDatum(other Datum, crit Criterion) bool

	sealedDatum()
}

// GeodeticFrame is a geodetic reference frame: an ellipsoid positioned by a
// prime meridian. A frame with FrameEpoch set is dynamic.
type GeodeticFrame struct {
	ObjectMeta
	Ellipsoid     *Ellipsoid
	PrimeMeridian *PrimeMeridian
	Dynamic       bool
	FrameEpoch    float64 // decimal year, valid when Dynamic
}

func NewGeodeticFrame(meta ObjectMeta, ellipsoid *Ellipsoid, pm *PrimeMeridian) (*GeodeticFrame, error) {
	if ellipsoid == nil {
		return nil, NewInvalidDefinition("geodetic frame %q: ellipsoid is required", meta.Name())
	}
	if pm == nil {
		pm = Greenwich
	}
	return &GeodeticFrame{ObjectMeta: meta, Ellipsoid: ellipsoid, PrimeMeridian: pm}, nil
}

func NewDynamicGeodeticFrame(meta ObjectMeta, ellipsoid *Ellipsoid, pm *PrimeMeridian, frameEpoch float64) (*GeodeticFrame, error) {
	f, err := NewGeodeticFrame(meta, ellipsoid, pm)
	if err != nil {
		return nil, err
	}
	f.Dynamic = true
	f.FrameEpoch = frameEpoch
	return f, nil
}

func (f *GeodeticFrame) Kind() DatumKind { return DatumGeodetic }
func (f *GeodeticFrame) sealedDatum()    {}

func (f *GeodeticFrame) EquivalentToDatum(other Datum, crit Criterion) bool {
	o, ok := other.(*GeodeticFrame)
	if !ok {
		return false
	}
	if crit == Strict {
		if !f.metaEquivalent(o.ObjectMeta) {
			return false
		}
		if f.Dynamic != o.Dynamic || (f.Dynamic && f.FrameEpoch != o.FrameEpoch) {
			return false
		}
	} else {
		// frames with near-identical ellipsoids (WGS 84 vs ETRS89) are still
		// different realizations; the frame name is part of its identity
		if !f.nameMatches(o.Name()) && !o.nameMatches(f.Name()) {
			return false
		}
	}
	return f.Ellipsoid.EquivalentTo(o.Ellipsoid, crit) &&
		f.PrimeMeridian.EquivalentTo(o.PrimeMeridian, crit)
}

// VerticalFrame is a vertical reference frame, optionally dynamic.
type VerticalFrame struct {
	ObjectMeta
	Dynamic    bool
	FrameEpoch float64
}

func NewVerticalFrame(meta ObjectMeta) *VerticalFrame {
	return &VerticalFrame{ObjectMeta: meta}
}

func NewDynamicVerticalFrame(meta ObjectMeta, frameEpoch float64) *VerticalFrame {
	return &VerticalFrame{ObjectMeta: meta, Dynamic: true, FrameEpoch: frameEpoch}
}

func (f *VerticalFrame) Kind() DatumKind { return DatumVertical }
func (f *VerticalFrame) sealedDatum()    {}

func (f *VerticalFrame) EquivalentToDatum(other Datum, crit Criterion) bool {
	o, ok := other.(*VerticalFrame)
	if !ok {
		return false
	}
	if crit == Strict {
		if !f.metaEquivalent(o.ObjectMeta) {
			return false
		}
		if f.Dynamic != o.Dynamic || (f.Dynamic && f.FrameEpoch != o.FrameEpoch) {
			return false
		}
		return true
	}
	// vertical frames carry no numeric content; compare by name
	return f.Name() == o.Name() || f.nameMatches(o.Name()) || o.nameMatches(f.Name())
}

// EngineeringDatum anchors a local, non-georeferenced CRS.
type EngineeringDatum struct {
	ObjectMeta
	Anchor string
}

func NewEngineeringDatum(meta ObjectMeta, anchor string) *EngineeringDatum {
	return &EngineeringDatum{ObjectMeta: meta, Anchor: anchor}
}

func (d *EngineeringDatum) Kind() DatumKind { return DatumEngineering }
func (d *EngineeringDatum) sealedDatum()    {}

func (d *EngineeringDatum) EquivalentToDatum(other Datum, crit Criterion) bool {
	o, ok := other.(*EngineeringDatum)
	if !ok {
		return false
	}
	if crit == Strict {
		return d.metaEquivalent(o.ObjectMeta) && d.Anchor == o.Anchor
	}
	return d.Name() == o.Name()
}

// DatumEnsemble groups datums that can be used interchangeably within the
// ensemble accuracy, when no single realization is authoritative.
type DatumEnsemble struct {
	ObjectMeta
	Members  []Datum
	Accuracy float64 // metres
}

func NewDatumEnsemble(meta ObjectMeta, members []Datum, accuracy float64) (*DatumEnsemble, error) {
	if len(members) < 2 {
		return nil, NewInvalidDefinition("datum ensemble %q: at least two members required, got %d", meta.Name(), len(members))
	}
	if accuracy <= 0 {
		return nil, NewInvalidDefinition("datum ensemble %q: accuracy must be positive, got %v", meta.Name(), accuracy)
	}
	kind := members[0].Kind()
	for _, m := range members[1:] {
		if m.Kind() != kind {
			return nil, NewInvalidDefinition("datum ensemble %q: members must share one datum kind", meta.Name())
		}
	}
	return &DatumEnsemble{ObjectMeta: meta, Members: members, Accuracy: accuracy}, nil
}

func (d *DatumEnsemble) Kind() DatumKind { return DatumEnsembleKind }
func (d *DatumEnsemble) sealedDatum()    {}

func (d *DatumEnsemble) EquivalentToDatum(other Datum, crit Criterion) bool {
	o, ok := other.(*DatumEnsemble)
	if !ok {
		return false
	}
	if crit == Strict && !d.metaEquivalent(o.ObjectMeta) {
		return false
	}
	if len(d.Members) != len(o.Members) || d.Accuracy != o.Accuracy {
		return false
	}
	for i, m := range d.Members {
		if !m.EquivalentToDatum(o.Members[i], crit) {
			return false
		}
	}
	return true
}

// datumOrEnsembleEquivalent compares a datum-or-ensemble slot the way CRS
// equivalence needs it: an ensemble is interchangeable with any of its
// members under the non-strict criteria.
func datumOrEnsembleEquivalent(a, b Datum, crit Criterion) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.EquivalentToDatum(b, crit) {
		return true
	}
	if crit == Strict {
		return false
	}
	if ens, ok := a.(*DatumEnsemble); ok {
		for _, m := range ens.Members {
			if m.EquivalentToDatum(b, crit) {
				return true
			}
		}
	}
	if ens, ok := b.(*DatumEnsemble); ok {
		for _, m := range ens.Members {
			if a.EquivalentToDatum(m, crit) {
				return true
			}
		}
	}
	return false
}
