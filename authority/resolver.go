package authority

import (
	"sort"
	"strings"
	"time"

	"github.com/agext/levenshtein"
	"github.com/jellydator/ttlcache/v3"

	"github.com/geodetic-io/georef/geod"
	"github.com/geodetic-io/georef/logging"
)

// Resolver is the lookup façade over a Store, bound to one authority
// namespace. An empty authority searches every namespace. Decoded
// objects are memoized; repeated lookups of the same code return the
// same instance until the cache entry expires.
//
// A Resolver must not be shared between goroutines without external
// synchronization.
type Resolver struct {
	store     Store
	authority string
	cache     *ttlcache.Cache[string, any]
	log       logging.Log

	projGridNames bool
}

const (
	cacheCapacity = 1000
	cacheTTL      = time.Hour
)

func NewResolver(store Store, authority string) *Resolver {
	return &Resolver{
		store:     store,
		authority: authority,
		cache: ttlcache.New(
			ttlcache.WithCapacity[string, any](cacheCapacity),
			ttlcache.WithTTL[string, any](cacheTTL),
		),
		log: logging.GetLog("authority"),
	}
}

// Authority returns the bound namespace, empty when unbound.
func (r *Resolver) Authority() string { return r.authority }

// SetUsePROJAlternativeGridNames selects the PROJ community names for
// transformation grids instead of the authority's original file names.
func (r *Resolver) SetUsePROJAlternativeGridNames(use bool) { r.projGridNames = use }

func (r *Resolver) UsePROJAlternativeGridNames() bool { return r.projGridNames }

// splitCode peels an explicit "AUTH:CODE" prefix; a bare code falls back
// to the bound authority.
func (r *Resolver) splitCode(code string) (string, string) {
	if authority, rest, ok := strings.Cut(code, ":"); ok && authority != "" {
		return authority, rest
	}
	return r.authority, code
}

func (r *Resolver) lookup(kind ObjectKind, code string) (any, error) {
	authority, bare := r.splitCode(code)
	key := kind.String() + "|" + authority + "|" + bare
	if item := r.cache.Get(key); item != nil {
		return item.Value(), nil
	}
	obj, err := r.store.LookupObject(kind, authority, bare)
	if err != nil {
		return nil, err
	}
	r.log.Tracef("resolved %s %s:%s", kind, authority, bare)
	r.cache.Set(key, obj, ttlcache.DefaultTTL)
	return obj, nil
}

// CreateObject resolves a code of any category.
func (r *Resolver) CreateObject(code string) (any, error) {
	return r.lookup(KindAny, code)
}

func (r *Resolver) CreateUnit(code string) (geod.Unit, error) {
	obj, err := r.lookup(KindUnit, code)
	if err != nil {
		return geod.Unit{}, err
	}
	return obj.(geod.Unit), nil
}

func (r *Resolver) CreateEllipsoid(code string) (*geod.Ellipsoid, error) {
	obj, err := r.lookup(KindEllipsoid, code)
	if err != nil {
		return nil, err
	}
	return obj.(*geod.Ellipsoid), nil
}

func (r *Resolver) CreatePrimeMeridian(code string) (*geod.PrimeMeridian, error) {
	obj, err := r.lookup(KindPrimeMeridian, code)
	if err != nil {
		return nil, err
	}
	return obj.(*geod.PrimeMeridian), nil
}

func (r *Resolver) CreateDatum(code string) (geod.Datum, error) {
	obj, err := r.lookup(KindDatum, code)
	if err != nil {
		return nil, err
	}
	return obj.(geod.Datum), nil
}

func (r *Resolver) CreateCRS(code string) (geod.CRS, error) {
	obj, err := r.lookup(KindCRS, code)
	if err != nil {
		return nil, err
	}
	return obj.(geod.CRS), nil
}

// CreateOperation resolves a coordinate operation. When PROJ alternative
// grid names are enabled, file parameters are rewritten to the community
// names.
func (r *Resolver) CreateOperation(code string) (geod.Operation, error) {
	obj, err := r.lookup(KindOperation, code)
	if err != nil {
		return nil, err
	}
	op := obj.(geod.Operation)
	if r.projGridNames {
		op = substituteGridNames(op)
	}
	return op, nil
}

// CreateObjectsFromName resolves objects by name. An exact fold-insensitive
// match wins; when approximate is true and nothing matches exactly, the
// catalog names are ranked by edit distance instead. limit caps the result
// count, zero means no cap. Deprecated objects sort last.
func (r *Resolver) CreateObjectsFromName(name string, kinds []ObjectKind, approximate bool, limit int) ([]NamedObject, error) {
	if len(kinds) == 0 {
		kinds = []ObjectKind{KindAny}
	}
	var exact []NamedObject
	for _, kind := range kinds {
		found, err := r.store.SearchByName(kind, r.authority, name)
		if err != nil {
			return nil, err
		}
		exact = append(exact, found...)
	}
	if len(exact) > 0 || !approximate {
		sortDeprecatedLast(exact)
		return capResults(exact, limit), nil
	}
	r.log.Debugf("no exact match for %q, searching by edit distance", name)

	type scored struct {
		NamedObject
		distance int
	}
	var candidates []scored
	folded := geod.FoldName(name)
	for _, kind := range kinds {
		names, err := r.store.AllNames(kind, r.authority)
		if err != nil {
			return nil, err
		}
		for _, no := range names {
			d := levenshtein.Distance(folded, geod.FoldName(no.Name), nil)
			// anything further than half the query length is noise
			if d > len(folded)/2+1 {
				continue
			}
			candidates = append(candidates, scored{NamedObject: no, distance: d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Deprecated != candidates[j].Deprecated {
			return !candidates[i].Deprecated
		}
		return candidates[i].distance < candidates[j].distance
	})
	out := make([]NamedObject, 0, len(candidates))
	for _, c := range candidates {
		if limit > 0 && len(out) >= limit {
			break
		}
		if c.Object == nil {
			obj, err := r.store.LookupObject(c.Kind, c.Authority, c.Code)
			if err != nil {
				return nil, err
			}
			c.NamedObject.Object = obj
		}
		out = append(out, c.NamedObject)
	}
	return out, nil
}

func sortDeprecatedLast(objs []NamedObject) {
	sort.SliceStable(objs, func(i, j int) bool {
		return !objs[i].Deprecated && objs[j].Deprecated
	})
}

func capResults(objs []NamedObject, limit int) []NamedObject {
	if limit > 0 && len(objs) > limit {
		return objs[:limit]
	}
	return objs
}

// OfficialNameFromAlias maps a legacy or vendor name to the official
// catalog name. It satisfies the alias resolver contract of the WKT
// parser.
func (r *Resolver) OfficialNameFromAlias(alias, category string) (string, bool) {
	official, ok, err := r.store.AliasToOfficialName(alias, category)
	if err != nil {
		return "", false
	}
	return official, ok
}

// Codes lists the codes of one category in the bound authority.
func (r *Resolver) Codes(kind ObjectKind, includeDeprecated bool) ([]string, error) {
	authority := r.authority
	if authority == "" {
		return nil, geod.NewNotApplicable("listing codes requires a bound authority")
	}
	return r.store.Codes(kind, authority, includeDeprecated)
}

func (r *Resolver) Authorities() ([]string, error) {
	return r.store.Authorities()
}

// CreateGeodeticCRSFromDatum lists the geodetic CRS defined on a datum.
func (r *Resolver) CreateGeodeticCRSFromDatum(datumCode string) ([]*geod.GeodeticCRS, error) {
	authority, bare := r.splitCode(datumCode)
	return r.store.CRSForDatum(geod.Ident{Authority: authority, Code: bare})
}

// OperationsBetween returns the cataloged operations from source to
// target, forward direction only.
func (r *Resolver) OperationsBetween(source, target geod.Ident) ([]geod.Operation, error) {
	return r.store.OperationsBetweenCRS(source, target)
}

// PivotCandidates lists the CRS that have cataloged operations to both
// source and target.
func (r *Resolver) PivotCandidates(source, target geod.Ident) ([]geod.Ident, error) {
	return r.store.PivotCandidates(source, target)
}

// CRSPool decodes every catalog CRS in the bound namespace. Used by CRS
// identification to build its candidate pool.
func (r *Resolver) CRSPool() ([]NamedObject, error) {
	names, err := r.store.AllNames(KindCRS, r.authority)
	if err != nil {
		return nil, err
	}
	out := make([]NamedObject, 0, len(names))
	for _, no := range names {
		if no.Object == nil {
			obj, err := r.lookup(KindCRS, no.Authority+":"+no.Code)
			if err != nil {
				return nil, err
			}
			no.Object = obj
		}
		out = append(out, no)
	}
	return out, nil
}

// NonDeprecated returns the catalog CRS that replace a deprecated one,
// matched by shared name or alias. A CRS that is not deprecated is
// returned unchanged.
func (r *Resolver) NonDeprecated(crs geod.CRS) ([]geod.CRS, error) {
	if !crs.IsDeprecated() {
		return []geod.CRS{crs}, nil
	}
	found, err := r.store.SearchByName(KindCRS, r.authority, crs.Name())
	if err != nil {
		return nil, err
	}
	var out []geod.CRS
	for _, no := range found {
		if no.Deprecated {
			continue
		}
		if c, ok := no.Object.(geod.CRS); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// DatasetVersion reports the catalog release, empty when the catalog
// does not record one.
func (r *Resolver) DatasetVersion() string {
	v, _, err := r.store.Metadata("DATABASE.VERSION")
	if err != nil {
		return ""
	}
	return v
}
