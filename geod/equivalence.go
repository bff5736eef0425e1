package geod

// Criterion selects how much two entities must agree to be considered
// equivalent.
//
//   - Strict: identical structure and metadata (names, identifiers,
//     remarks, usage text).
//   - Equivalent: identical structure and numeric content; metadata is
//     ignored.
//   - EquivalentExceptAxisOrder: like Equivalent, but axis order on
//     geographic CRS may differ. The exception applies only at geographic
//     CRS nodes during the structural recursion.
type Criterion int

const (
	Strict Criterion = iota
	Equivalent
	EquivalentExceptAxisOrder
)

func (c Criterion) String() string {
	switch c {
	case Strict:
		return "strict"
	case Equivalent:
		return "equivalent"
	case EquivalentExceptAxisOrder:
		return "equivalent except axis order"
	default:
		return "unknown"
	}
}
