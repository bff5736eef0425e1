// Package resolve discovers and ranks coordinate operations between two
// CRS, and identifies an unknown CRS against a reference pool.
package resolve

import (
	"github.com/geodetic-io/georef/authority"
	"github.com/geodetic-io/georef/geod"
)

// ExtentPolicy selects how the source and target CRS extents form the
// effective area of interest when none is given explicitly.
type ExtentPolicy int

const (
	// ExtentIgnore derives no area of interest from the CRS.
	ExtentIgnore ExtentPolicy = iota
	// ExtentBoth requires operations to be valid over both CRS extents.
	ExtentBoth
	// ExtentIntersection uses the overlap of the two CRS extents.
	ExtentIntersection
	// ExtentSmallest uses whichever CRS extent covers less area.
	ExtentSmallest
)

// SpatialCriterion selects how an operation's validity area is compared
// against the area of interest.
type SpatialCriterion int

const (
	// StrictContainment keeps an operation only when its validity area
	// contains the whole area of interest.
	StrictContainment SpatialCriterion = iota
	// PartialIntersection keeps an operation when the areas overlap at all.
	PartialIntersection
)

// GridPolicy selects what a missing correction grid does to a candidate.
type GridPolicy int

const (
	GridIgnore GridPolicy = iota
	// GridSort keeps operations with missing grids but ranks them after
	// otherwise equal candidates.
	GridSort
	// GridDiscard drops operations whose grids are unavailable.
	GridDiscard
)

// Config is the search configuration of CreateOperations. The zero value
// searches without filters and without pivots.
type Config struct {
	// DesiredAccuracy discards operations strictly worse than this value
	// in metres. Zero disables the filter; unknown accuracies always pass.
	DesiredAccuracy float64

	// AreaOfInterest overrides the extent derived from the CRS.
	AreaOfInterest *geod.Extent

	ExtentPolicy     ExtentPolicy
	SpatialCriterion SpatialCriterion
	GridPolicy       GridPolicy

	// UsePROJAlternativeGridNames substitutes community grid file names
	// for the catalog's official names where a mapping exists.
	UsePROJAlternativeGridNames bool

	// AllowPivots enables one-hop chaining through an intermediate CRS
	// when no direct operation exists.
	AllowPivots bool

	// PivotAllowList restricts pivoting to the listed CRS. A non-empty
	// list makes the pivot search unconditional.
	PivotAllowList []geod.Ident
}

// GridAvailability reports whether a correction grid file can be used.
// The zero Finder treats every grid as available.
type GridAvailability interface {
	GridAvailable(name string) bool
}

// StaticGridChecker is a fixed set of available grid names.
type StaticGridChecker map[string]bool

func NewStaticGridChecker(names ...string) StaticGridChecker {
	c := make(StaticGridChecker, len(names))
	for _, n := range names {
		c[n] = true
	}
	return c
}

func (c StaticGridChecker) GridAvailable(name string) bool { return c[name] }

// AlternativeGridName returns the PROJ community name for a catalog grid
// file, or the input unchanged when no mapping exists.
func AlternativeGridName(name string) string {
	return authority.AlternativeGridName(name)
}
