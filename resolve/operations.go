package resolve

import (
	"fmt"
	"math"
	"sort"

	"github.com/geodetic-io/georef/authority"
	"github.com/geodetic-io/georef/geod"
	"github.com/geodetic-io/georef/logging"
)

// Finder discovers coordinate operations. The catalog and the grid
// checker are both optional; without a catalog only operations derivable
// from CRS structure are found, and without a grid checker every grid is
// treated as available.
type Finder struct {
	Catalog *authority.Resolver
	Grids   GridAvailability

	log logging.Log
}

func NewFinder(catalog *authority.Resolver, grids GridAvailability) *Finder {
	return &Finder{Catalog: catalog, Grids: grids, log: logging.GetLog("resolve")}
}

func (f *Finder) logger() logging.Log {
	if f.log == nil {
		f.log = logging.GetLog("resolve")
	}
	return f.log
}

// CreateOperations returns the admissible operations from source to
// target, best first. An empty list means no path was found; it is not
// an error.
func (f *Finder) CreateOperations(source, target geod.CRS, cfg *Config) ([]geod.Operation, error) {
	if source == nil || target == nil {
		return nil, geod.NewNotApplicable("operation search requires a source and a target CRS")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	candidates := structuralOperations(source, target)
	direct, err := f.catalogOperations(source, target)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, direct...)

	if cfg.AllowPivots && (len(candidates) == 0 || len(cfg.PivotAllowList) > 0) {
		chained, err := f.pivotOperations(source, target, cfg)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, chained...)
	}

	aois, rankAOI := f.areasOfInterest(source, target, cfg)
	kept := f.filter(candidates, cfg, aois)
	f.rank(kept, cfg, rankAOI)
	f.logger().Debugf("%s to %s: %d candidates, %d kept",
		source.Name(), target.Name(), len(candidates), len(kept))
	return kept, nil
}

// structuralOperations derives operations from the CRS pair alone: an
// identity when the CRS are equivalent, an axis swap or unit change when
// that is the only difference.
func structuralOperations(source, target geod.CRS) []geod.Operation {
	name := func(what string) geod.ObjectMeta {
		return geod.ObjectMeta{ObjName: fmt.Sprintf("%s from %s to %s", what, source.Name(), target.Name())}
	}
	if source.EquivalentToCRS(target, geod.Equivalent) {
		conv, err := geod.NewConversion(name("Identity"), geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "Identity"}}, nil)
		if err != nil {
			return nil
		}
		return []geod.Operation{conv.WithCRS(source, target)}
	}
	if source.EquivalentToCRS(target, geod.EquivalentExceptAxisOrder) {
		method := "Axis Order Reversal (2D)"
		if g, ok := source.(*geod.GeodeticCRS); ok && len(g.CS.Axes) == 3 {
			method = "Axis Order Reversal (Geographic3D horizontal)"
		}
		conv, err := geod.NewConversion(name("Axis order change"), geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: method}}, nil)
		if err != nil {
			return nil
		}
		return []geod.Operation{conv.WithCRS(source, target)}
	}
	if unitOnlyDifference(source, target) {
		conv, err := geod.NewConversion(name("Unit conversion"), geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: "Unit Conversion"}}, nil)
		if err != nil {
			return nil
		}
		return []geod.Operation{conv.WithCRS(source, target)}
	}
	return nil
}

func unitOnlyDifference(source, target geod.CRS) bool {
	s, ok := source.(*geod.GeodeticCRS)
	if !ok {
		return false
	}
	t, ok := target.(*geod.GeodeticCRS)
	if !ok {
		return false
	}
	if !s.Datum.EquivalentToDatum(t.Datum, geod.Equivalent) {
		return false
	}
	if s.CS.Kind != t.CS.Kind || len(s.CS.Axes) != len(t.CS.Axes) {
		return false
	}
	unitsDiffer := false
	for i := range s.CS.Axes {
		if s.CS.Axes[i].Direction != t.CS.Axes[i].Direction {
			return false
		}
		if !s.CS.Axes[i].Unit.Equal(t.CS.Axes[i].Unit) {
			unitsDiffer = true
		}
	}
	return unitsDiffer
}

func crsIdent(crs geod.CRS) (geod.Ident, bool) {
	ids := crs.Identifiers()
	if len(ids) == 0 {
		return geod.Ident{}, false
	}
	return ids[0], true
}

// catalogOperations queries the catalog for the forward direction and
// the inverse of every reversible backward operation.
func (f *Finder) catalogOperations(source, target geod.CRS) ([]geod.Operation, error) {
	if f.Catalog == nil {
		return nil, nil
	}
	srcID, ok := crsIdent(source)
	if !ok {
		return nil, nil
	}
	dstID, ok := crsIdent(target)
	if !ok {
		return nil, nil
	}
	forward, err := f.Catalog.OperationsBetween(srcID, dstID)
	if err != nil {
		return nil, err
	}
	backward, err := f.Catalog.OperationsBetween(dstID, srcID)
	if err != nil {
		return nil, err
	}
	out := append([]geod.Operation{}, forward...)
	for _, op := range backward {
		if t, ok := op.(*geod.Transformation); ok {
			out = append(out, t.Inverse())
		}
	}
	return out, nil
}

// pivotOperations chains one operation to a pivot CRS with one from it.
// The search depth is fixed at a single intermediate.
func (f *Finder) pivotOperations(source, target geod.CRS, cfg *Config) ([]geod.Operation, error) {
	if f.Catalog == nil {
		return nil, nil
	}
	srcID, ok := crsIdent(source)
	if !ok {
		return nil, nil
	}
	dstID, ok := crsIdent(target)
	if !ok {
		return nil, nil
	}
	pivots := cfg.PivotAllowList
	if len(pivots) == 0 {
		var err error
		pivots, err = f.Catalog.PivotCandidates(srcID, dstID)
		if err != nil {
			return nil, err
		}
	}
	var out []geod.Operation
	for _, pivot := range pivots {
		if pivot == srcID || pivot == dstID {
			continue
		}
		first, err := f.legOperations(srcID, pivot)
		if err != nil {
			return nil, err
		}
		second, err := f.legOperations(pivot, dstID)
		if err != nil {
			return nil, err
		}
		for _, l1 := range first {
			for _, l2 := range second {
				// the intermediate CRS must match exactly at the join
				if !l1.Target().EquivalentToCRS(l2.Source(), geod.Equivalent) {
					continue
				}
				meta := geod.ObjectMeta{ObjName: l1.Name() + " + " + l2.Name()}
				chain, err := geod.NewConcatenatedOperation(meta, []geod.Operation{l1, l2})
				if err != nil {
					continue
				}
				out = append(out, chain)
			}
		}
	}
	return out, nil
}

func (f *Finder) legOperations(from, to geod.Ident) ([]geod.Operation, error) {
	forward, err := f.Catalog.OperationsBetween(from, to)
	if err != nil {
		return nil, err
	}
	backward, err := f.Catalog.OperationsBetween(to, from)
	if err != nil {
		return nil, err
	}
	out := append([]geod.Operation{}, forward...)
	for _, op := range backward {
		if t, ok := op.(*geod.Transformation); ok {
			out = append(out, t.Inverse())
		}
	}
	return out, nil
}

// areasOfInterest returns the extents every kept operation must satisfy
// and the single extent used for overlap ranking.
func (f *Finder) areasOfInterest(source, target geod.CRS, cfg *Config) ([]*geod.Extent, *geod.Extent) {
	if cfg.AreaOfInterest != nil {
		return []*geod.Extent{cfg.AreaOfInterest}, cfg.AreaOfInterest
	}
	srcExt, dstExt := source.Extent(), target.Extent()
	switch cfg.ExtentPolicy {
	case ExtentBoth:
		var aois []*geod.Extent
		if srcExt != nil {
			aois = append(aois, srcExt)
		}
		if dstExt != nil {
			aois = append(aois, dstExt)
		}
		rank := srcExt.Intersection(dstExt)
		if rank == nil && len(aois) > 0 {
			rank = aois[0]
		}
		return aois, rank
	case ExtentIntersection:
		if overlap := srcExt.Intersection(dstExt); overlap != nil {
			return []*geod.Extent{overlap}, overlap
		}
		return nil, nil
	case ExtentSmallest:
		switch {
		case srcExt == nil:
			if dstExt == nil {
				return nil, nil
			}
			return []*geod.Extent{dstExt}, dstExt
		case dstExt == nil || srcExt.Area() <= dstExt.Area():
			return []*geod.Extent{srcExt}, srcExt
		default:
			return []*geod.Extent{dstExt}, dstExt
		}
	}
	return nil, nil
}

func (f *Finder) filter(candidates []geod.Operation, cfg *Config, aois []*geod.Extent) []geod.Operation {
	var kept []geod.Operation
	for _, op := range candidates {
		if cfg.DesiredAccuracy > 0 && op.Accuracy().WorseThan(cfg.DesiredAccuracy) {
			continue
		}
		if !satisfiesArea(op, cfg, aois) {
			continue
		}
		if cfg.GridPolicy == GridDiscard && !f.IsInstantiable(op, cfg) {
			continue
		}
		kept = append(kept, op)
	}
	return kept
}

// satisfiesArea treats an operation without a declared validity area as
// valid everywhere.
func satisfiesArea(op geod.Operation, cfg *Config, aois []*geod.Extent) bool {
	opExt := op.Extent()
	if opExt == nil {
		return true
	}
	for _, aoi := range aois {
		switch cfg.SpatialCriterion {
		case StrictContainment:
			if !opExt.Contains(aoi) {
				return false
			}
		case PartialIntersection:
			if !opExt.Intersects(aoi) {
				return false
			}
		}
	}
	return true
}

func (f *Finder) rank(ops []geod.Operation, cfg *Config, rankAOI *geod.Extent) {
	overlap := func(op geod.Operation) float64 {
		ext := op.Extent()
		if ext == nil || ext.IsWorld() {
			return math.Inf(1)
		}
		if rankAOI == nil {
			return ext.Area()
		}
		inter := ext.Intersection(rankAOI)
		if inter == nil {
			return 0
		}
		return inter.Area()
	}
	sort.SliceStable(ops, func(i, j int) bool {
		// unknown accuracy sorts last whatever the area
		ai, aj := ops[i].Accuracy(), ops[j].Accuracy()
		if ai.Known != aj.Known {
			return ai.Known
		}
		oi, oj := overlap(ops[i]), overlap(ops[j])
		if oi != oj {
			return oi > oj
		}
		if ai.Known && ai.Value != aj.Value {
			return ai.Value < aj.Value
		}
		if cfg.GridPolicy == GridSort {
			gi, gj := f.IsInstantiable(ops[i], cfg), f.IsInstantiable(ops[j], cfg)
			if gi != gj {
				return gi
			}
		}
		return false
	})
}

// IsInstantiable reports whether every grid the operation needs,
// transitively through concatenations, is available.
func (f *Finder) IsInstantiable(op geod.Operation, cfg *Config) bool {
	if f.Grids == nil {
		return true
	}
	usePROJNames := cfg != nil && cfg.UsePROJAlternativeGridNames
	for _, g := range geod.OperationGrids(op) {
		name := g.ShortName
		if usePROJNames {
			name = AlternativeGridName(name)
		}
		if !f.Grids.GridAvailable(name) {
			return false
		}
	}
	return true
}

// TransformationToWGS84 finds a cataloged transformation from crs to a
// WGS 84 class hub. It satisfies the object model's transformation
// source contract used by BoundCRS promotion.
func (f *Finder) TransformationToWGS84(crs geod.CRS, allowIntermediate bool) (*geod.Transformation, geod.CRS, error) {
	source := crs
	if _, ok := crsIdent(crs); !ok {
		matches, err := f.Identify(crs, "")
		if err != nil || len(matches) == 0 || matches[0].Confidence < 70 {
			return nil, nil, err
		}
		source = matches[0].CRS
	}
	hub := geod.WGS84()
	ops, err := f.CreateOperations(source, hub, &Config{AllowPivots: allowIntermediate})
	if err != nil {
		return nil, nil, err
	}
	for _, op := range ops {
		if t, ok := op.(*geod.Transformation); ok {
			return t, hub, nil
		}
	}
	return nil, nil, nil
}
