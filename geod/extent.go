package geod

import (
	"math"

	"github.com/paulmach/orb"
)

// Extent is a geographic bounding box in degrees, west/south/east/north.
// An Extent wrapping the whole world is represented explicitly, not by a
// nil pointer.
type Extent struct {
	Bound orb.Bound
}

func NewExtent(west, south, east, north float64) *Extent {
	return &Extent{Bound: orb.Bound{
		Min: orb.Point{west, south},
		Max: orb.Point{east, north},
	}}
}

// WorldExtent covers the full longitude/latitude range.
func WorldExtent() *Extent {
	return NewExtent(-180, -90, 180, 90)
}

func (e *Extent) West() float64  { return e.Bound.Min[0] }
func (e *Extent) South() float64 { return e.Bound.Min[1] }
func (e *Extent) East() float64  { return e.Bound.Max[0] }
func (e *Extent) North() float64 { return e.Bound.Max[1] }

func (e *Extent) IsWorld() bool {
	return e.West() <= -180 && e.South() <= -90 && e.East() >= 180 && e.North() >= 90
}

// Area returns the bounding box area in square degrees. Longitude
// anti-meridian crossing (west > east) is handled by unwrapping.
func (e *Extent) Area() float64 {
	w := e.East() - e.West()
	if w < 0 {
		w += 360
	}
	h := e.North() - e.South()
	if h < 0 {
		return 0
	}
	return w * h
}

// lonRanges splits the longitude span into plain west<=east ranges. A box
// crossing the anti-meridian (west > east) contributes one range per side.
func (e *Extent) lonRanges() [][2]float64 {
	if e.West() <= e.East() {
		return [][2]float64{{e.West(), e.East()}}
	}
	return [][2]float64{{e.West(), 180}, {-180, e.East()}}
}

// Intersection returns the overlapping extent of e and other, or nil when
// they are disjoint. Two ranges meeting at the anti-meridian are rejoined
// into a single wrapping extent; when the overlap splits into two ranges
// apart from it, the wider one is kept.
func (e *Extent) Intersection(other *Extent) *Extent {
	if e == nil || other == nil {
		return nil
	}
	south := math.Max(e.South(), other.South())
	north := math.Min(e.North(), other.North())
	if south >= north {
		return nil
	}
	var ranges [][2]float64
	for _, a := range e.lonRanges() {
		for _, b := range other.lonRanges() {
			west := math.Max(a[0], b[0])
			east := math.Min(a[1], b[1])
			if west < east {
				ranges = append(ranges, [2]float64{west, east})
			}
		}
	}
	switch len(ranges) {
	case 0:
		return nil
	case 1:
		return NewExtent(ranges[0][0], south, ranges[0][1], north)
	}
	var upper, lower *[2]float64
	for i := range ranges {
		if ranges[i][1] >= 180 {
			upper = &ranges[i]
		} else if ranges[i][0] <= -180 {
			lower = &ranges[i]
		}
	}
	if upper != nil && lower != nil {
		return NewExtent(upper[0], south, lower[1], north)
	}
	widest := ranges[0]
	for _, r := range ranges[1:] {
		if r[1]-r[0] > widest[1]-widest[0] {
			widest = r
		}
	}
	return NewExtent(widest[0], south, widest[1], north)
}

// Contains reports whether other lies entirely inside e.
func (e *Extent) Contains(other *Extent) bool {
	if e == nil || other == nil {
		return false
	}
	if e.South() > other.South() || e.North() < other.North() {
		return false
	}
	for _, b := range other.lonRanges() {
		inside := false
		for _, a := range e.lonRanges() {
			if a[0] <= b[0] && a[1] >= b[1] {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

// Intersects reports whether e and other share any area.
func (e *Extent) Intersects(other *Extent) bool {
	return e.Intersection(other) != nil
}

func (e *Extent) equivalent(other *Extent) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Bound.Min.Equal(other.Bound.Min) && e.Bound.Max.Equal(other.Bound.Max)
}

// Usage is one domain of validity of a CRS or operation: a scope or area
// description with an optional bounding box.
type Usage struct {
	Scope string
	Area  string
	BBox  *Extent
}

func (u Usage) equivalent(other Usage, crit Criterion) bool {
	if crit == Strict && (u.Scope != other.Scope || u.Area != other.Area) {
		return false
	}
	return u.BBox.equivalent(other.BBox)
}

// ObjectUsage extends ObjectMeta with usage domains; embedded by CRS and
// coordinate operation variants.
type ObjectUsage struct {
	ObjectMeta
	Usages []Usage
}

// Extent returns the union bounding box over all usages, or nil when none
// of them declares one.
func (o ObjectUsage) Extent() *Extent {
	var acc *Extent
	for _, u := range o.Usages {
		if u.BBox == nil {
			continue
		}
		if acc == nil {
			b := *u.BBox
			acc = &b
			continue
		}
		acc = NewExtent(
			math.Min(acc.West(), u.BBox.West()),
			math.Min(acc.South(), u.BBox.South()),
			math.Max(acc.East(), u.BBox.East()),
			math.Max(acc.North(), u.BBox.North()),
		)
	}
	return acc
}

func (o ObjectUsage) usageEquivalent(other ObjectUsage, crit Criterion) bool {
	if crit == Strict {
		if !o.ObjectMeta.metaEquivalent(other.ObjectMeta) {
			return false
		}
		if len(o.Usages) != len(other.Usages) {
			return false
		}
		for i, u := range o.Usages {
			if !u.equivalent(other.Usages[i], crit) {
				return false
			}
		}
	}
	return true
}
