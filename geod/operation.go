package geod

import (
	"strings"
	"sync"
)

// OperationKind closes the coordinate operation variant set.
type OperationKind int

const (
	OpConversion OperationKind = iota
	OpTransformation
	OpConcatenated
)

// Operation is the sealed union of coordinate operation variants.
type Operation interface {
	Name() string
	Identifiers() []Ident
	IsDeprecated() bool
	OpKind() OperationKind
	Source() CRS
	Target() CRS
	Extent() *Extent
	// Accuracy returns the least accurate claim, Unknown when none is made.
	Accuracy() Accuracy
	EquivalentToOperation(other Operation, crit Criterion) bool

	sealedOperation()
}

// Accuracy is a positional accuracy claim in metres. Unknown accuracy is a
// first-class value, distinct from zero.
type Accuracy struct {
	Value float64
	Known bool
}

func KnownAccuracy(v float64) Accuracy { return Accuracy{Value: v, Known: true} }

var UnknownAccuracy = Accuracy{}

// WorseThan reports a strictly worse (larger) accuracy than the threshold.
// Unknown accuracies are never considered worse.
func (a Accuracy) WorseThan(threshold float64) bool {
	return a.Known && a.Value > threshold
}

// Method identifies the algorithm of a single operation together with its
// formal parameter descriptors.
type Method struct {
	ObjectMeta
	Params []MethodParam
}

type MethodParam struct {
	Name  string
	Ident Ident
}

// ParamKind distinguishes the three parameter value shapes.
type ParamKind int

const (
	ParamMeasure ParamKind = iota
	ParamFile
	ParamString
)

// ParamValue is one actual parameter of a single operation, parallel to the
// method's formal parameter list.
type ParamValue struct {
	Name  string
	Ident Ident
	Kind  ParamKind

	Value float64 // ParamMeasure
	Unit  Unit    // ParamMeasure
	File  string  // ParamFile
	Str   string  // ParamString
}

func MeasureParam(name string, value float64, unit Unit) ParamValue {
	return ParamValue{Name: name, Kind: ParamMeasure, Value: value, Unit: unit}
}

func FileParam(name, file string) ParamValue {
	return ParamValue{Name: name, Kind: ParamFile, File: file}
}

func StringParam(name, s string) ParamValue {
	return ParamValue{Name: name, Kind: ParamString, Str: s}
}

func (p ParamValue) equivalent(other ParamValue, crit Criterion) bool {
	if p.Kind != other.Kind {
		return false
	}
	if crit == Strict && (p.Name != other.Name || p.Ident != other.Ident) {
		return false
	}
	if crit != Strict && foldName(p.Name) != foldName(other.Name) && p.Ident != other.Ident {
		return false
	}
	switch p.Kind {
	case ParamMeasure:
		if crit == Strict {
			return p.Value == other.Value && p.Unit.Equal(other.Unit)
		}
		return p.Unit.Kind == other.Unit.Kind &&
			nearlyEqual(p.Unit.ToSI(p.Value), other.Unit.ToSI(other.Value), 1e-10)
	case ParamFile:
		return p.File == other.File
	default:
		return p.Str == other.Str
	}
}

// singleOpCore is shared by Conversion and Transformation.
type singleOpCore struct {
	ObjectUsage
	SourceCRS CRS // may be nil for conversions of a projected CRS
	TargetCRS CRS
	Method    Method
	Params    []ParamValue
}

func (c *singleOpCore) Source() CRS { return c.SourceCRS }
func (c *singleOpCore) Target() CRS { return c.TargetCRS }

func (c *singleOpCore) coreEquivalent(o *singleOpCore, crit Criterion) bool {
	if !c.usageEquivalent(o.ObjectUsage, crit) {
		return false
	}
	if crit == Strict {
		if !c.Method.metaEquivalent(o.Method.ObjectMeta) {
			return false
		}
	} else if foldName(c.Method.Name()) != foldName(o.Method.Name()) {
		if c.Method.ID().IsZero() || c.Method.ID() != o.Method.ID() {
			return false
		}
	}
	if len(c.Params) != len(o.Params) {
		return false
	}
	for i, p := range c.Params {
		if !p.equivalent(o.Params[i], crit) {
			return false
		}
	}
	return true
}

// Conversion is a coordinate operation that keeps the datum, e.g. a map
// projection.
type Conversion struct {
	singleOpCore
}

func NewConversion(meta ObjectMeta, method Method, params []ParamValue, usages ...Usage) (*Conversion, error) {
	if method.Name() == "unnamed" && method.ID().IsZero() {
		return nil, NewInvalidDefinition("conversion %q: method is required", meta.Name())
	}
	return &Conversion{singleOpCore{
		ObjectUsage: ObjectUsage{ObjectMeta: meta, Usages: usages},
		Method:      method,
		Params:      params,
	}}, nil
}

func (c *Conversion) OpKind() OperationKind { return OpConversion }
func (c *Conversion) sealedOperation()      {}
func (c *Conversion) Accuracy() Accuracy    { return UnknownAccuracy }

func (c *Conversion) EquivalentToOperation(other Operation, crit Criterion) bool {
	o, ok := other.(*Conversion)
	if !ok {
		return false
	}
	return c.coreEquivalent(&o.singleOpCore, crit)
}

// WithCRS returns a copy of the conversion bound to source and target CRS.
func (c *Conversion) WithCRS(source, target CRS) *Conversion {
	dup := *c
	dup.SourceCRS = source
	dup.TargetCRS = target
	return &dup
}

// Parameter returns the measure parameter with the given folded name.
func (c *singleOpCore) Parameter(name string) (ParamValue, bool) {
	n := foldName(name)
	for _, p := range c.Params {
		if foldName(p.Name) == n {
			return p, true
		}
	}
	return ParamValue{}, false
}

// Transformation is a coordinate operation across a datum change, carrying
// accuracy claims.
type Transformation struct {
	singleOpCore
	Accuracies []Accuracy

	gridsOnce sync.Once
	grids     []GridDescription
}

func NewTransformation(meta ObjectMeta, source, target CRS, method Method, params []ParamValue, accuracies []Accuracy, usages ...Usage) (*Transformation, error) {
	if source == nil || target == nil {
		return nil, NewInvalidDefinition("transformation %q: source and target CRS are required", meta.Name())
	}
	return &Transformation{
		singleOpCore: singleOpCore{
			ObjectUsage: ObjectUsage{ObjectMeta: meta, Usages: usages},
			SourceCRS:   source,
			TargetCRS:   target,
			Method:      method,
			Params:      params,
		},
		Accuracies: accuracies,
	}, nil
}

func (t *Transformation) OpKind() OperationKind { return OpTransformation }
func (t *Transformation) sealedOperation()      {}

func (t *Transformation) Accuracy() Accuracy {
	worst := UnknownAccuracy
	for _, a := range t.Accuracies {
		if !a.Known {
			continue
		}
		if !worst.Known || a.Value > worst.Value {
			worst = a
		}
	}
	return worst
}

func (t *Transformation) EquivalentToOperation(other Operation, crit Criterion) bool {
	o, ok := other.(*Transformation)
	if !ok {
		return false
	}
	if !t.coreEquivalent(&o.singleOpCore, crit) {
		return false
	}
	if crit == Strict {
		if len(t.Accuracies) != len(o.Accuracies) {
			return false
		}
		for i, a := range t.Accuracies {
			if a != o.Accuracies[i] {
				return false
			}
		}
	}
	return true
}

// GridDescription describes one correction grid file a transformation
// depends on at evaluation time.
type GridDescription struct {
	ShortName      string
	FullName       string
	PackageName    string
	URL            string
	DirectDownload bool
	OpenLicense    bool
	Available      bool
}

// GridsNeeded lists the grid files referenced by the transformation's file
// parameters. Memoized; first concurrent access from two goroutines on the
// same instance is not supported without external synchronization.
func (t *Transformation) GridsNeeded() []GridDescription {
	t.gridsOnce.Do(func() {
		for _, p := range t.Params {
			if p.Kind != ParamFile || p.File == "" || strings.EqualFold(p.File, "null") {
				continue
			}
			t.grids = append(t.grids, GridDescription{ShortName: p.File, FullName: p.File})
		}
	})
	return t.grids
}

// Inverse returns the transformation with source and target swapped. The
// method is kept; evaluation direction is the projection engine's concern.
func (t *Transformation) Inverse() *Transformation {
	inv := &Transformation{
		singleOpCore: singleOpCore{
			ObjectUsage: ObjectUsage{
				ObjectMeta: ObjectMeta{
					ObjName:    "Inverse of " + t.Name(),
					Deprecated: t.Deprecated,
				},
				Usages: t.Usages,
			},
			SourceCRS: t.TargetCRS,
			TargetCRS: t.SourceCRS,
			Method:    t.Method,
			Params:    t.Params,
		},
		Accuracies: t.Accuracies,
	}
	return inv
}

// ConcatenatedOperation chains single operations whose CRS ends meet.
type ConcatenatedOperation struct {
	ObjectUsage
	Steps []Operation
}

func NewConcatenatedOperation(meta ObjectMeta, steps []Operation, usages ...Usage) (*ConcatenatedOperation, error) {
	if len(steps) < 2 {
		return nil, NewInvalidDefinition("concatenated operation %q: at least two steps required, got %d", meta.Name(), len(steps))
	}
	for i := 0; i < len(steps)-1; i++ {
		cur, next := steps[i], steps[i+1]
		if cur.Target() == nil || next.Source() == nil {
			return nil, NewInvalidDefinition("concatenated operation %q: step %d does not declare its CRS ends", meta.Name(), i)
		}
		if !cur.Target().EquivalentToCRS(next.Source(), EquivalentExceptAxisOrder) {
			return nil, NewInvalidDefinition("concatenated operation %q: target of step %d does not match source of step %d", meta.Name(), i, i+1)
		}
	}
	return &ConcatenatedOperation{ObjectUsage: ObjectUsage{ObjectMeta: meta, Usages: usages}, Steps: steps}, nil
}

func (c *ConcatenatedOperation) OpKind() OperationKind { return OpConcatenated }
func (c *ConcatenatedOperation) sealedOperation()      {}

func (c *ConcatenatedOperation) Source() CRS { return c.Steps[0].Source() }
func (c *ConcatenatedOperation) Target() CRS { return c.Steps[len(c.Steps)-1].Target() }

// Accuracy of a chain is the sum of the known step accuracies; unknown when
// no step claims one.
func (c *ConcatenatedOperation) Accuracy() Accuracy {
	sum, known := 0.0, false
	for _, s := range c.Steps {
		if a := s.Accuracy(); a.Known {
			sum += a.Value
			known = true
		}
	}
	if !known {
		return UnknownAccuracy
	}
	return KnownAccuracy(sum)
}

// Extent of a chain is the intersection of the step extents that declare
// one.
func (c *ConcatenatedOperation) Extent() *Extent {
	var acc *Extent
	for _, s := range c.Steps {
		e := s.Extent()
		if e == nil {
			continue
		}
		if acc == nil {
			acc = e
			continue
		}
		acc = acc.Intersection(e)
		if acc == nil {
			return nil
		}
	}
	if acc == nil {
		return c.ObjectUsage.Extent()
	}
	return acc
}

func (c *ConcatenatedOperation) EquivalentToOperation(other Operation, crit Criterion) bool {
	o, ok := other.(*ConcatenatedOperation)
	if !ok {
		return false
	}
	if !c.usageEquivalent(o.ObjectUsage, crit) || len(c.Steps) != len(o.Steps) {
		return false
	}
	for i, s := range c.Steps {
		if !s.EquivalentToOperation(o.Steps[i], crit) {
			return false
		}
	}
	return true
}

// OperationGrids walks an operation transitively and collects every grid it
// needs.
func OperationGrids(op Operation) []GridDescription {
	switch o := op.(type) {
	case *Transformation:
		return o.GridsNeeded()
	case *ConcatenatedOperation:
		var all []GridDescription
		for _, s := range o.Steps {
			all = append(all, OperationGrids(s)...)
		}
		return all
	default:
		return nil
	}
}

// TOWGS84Parameters recovers the 3 or 7 Helmert values of a
// transformation whose method is one of the TOWGS84-capable ones:
// geocentric translations or position vector. The second return is false
// for any other method or when a value is missing.
func (t *Transformation) TOWGS84Parameters() ([]float64, bool) {
	method := strings.ToLower(t.Method.Name())
	translationOnly := strings.Contains(method, "geocentric translations")
	positionVector := strings.Contains(method, "position vector")
	if !translationOnly && !positionVector {
		return nil, false
	}
	names := []string{
		"X-axis translation", "Y-axis translation", "Z-axis translation",
		"X-axis rotation", "Y-axis rotation", "Z-axis rotation",
		"Scale difference",
	}
	count := 7
	if translationOnly {
		count = 3
	}
	out := make([]float64, 0, count)
	for _, name := range names[:count] {
		p, ok := t.Parameter(name)
		if !ok || p.Kind != ParamMeasure {
			return nil, false
		}
		out = append(out, p.Value)
	}
	return out, true
}
