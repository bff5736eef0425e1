package authority

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tidwall/gjson"

	"github.com/geodetic-io/georef/geod"
	"github.com/geodetic-io/georef/logging"
	"github.com/geodetic-io/georef/wkt"
)

// SQLStore is a Store backed by a sqlite catalog. Units are relational
// rows; ellipsoids, prime meridians, datums, and CRS are stored as WKT2
// definition text; operations are stored as JSON rows referencing their
// source and target CRS by code.
type SQLStore struct {
	db  *sql.DB
	log logging.Log
}

const sqlSchema = `
CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT NOT NULL PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS units (
	authority  TEXT NOT NULL,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL,
	kind       TEXT NOT NULL,
	factor     REAL NOT NULL,
	deprecated INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (authority, code)
);
CREATE TABLE IF NOT EXISTS prime_meridians (
	authority  TEXT NOT NULL,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL,
	longitude  REAL NOT NULL,
	deprecated INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (authority, code)
);
CREATE TABLE IF NOT EXISTS objects (
	kind       TEXT NOT NULL,
	authority  TEXT NOT NULL,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL,
	datum_auth TEXT,
	datum_code TEXT,
	wkt        TEXT NOT NULL,
	deprecated INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (kind, authority, code)
);
CREATE TABLE IF NOT EXISTS object_aliases (
	kind      TEXT NOT NULL,
	authority TEXT NOT NULL,
	code      TEXT NOT NULL,
	alias     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS operations (
	authority   TEXT NOT NULL,
	code        TEXT NOT NULL,
	name        TEXT NOT NULL,
	source_auth TEXT NOT NULL,
	source_code TEXT NOT NULL,
	target_auth TEXT NOT NULL,
	target_code TEXT NOT NULL,
	definition  TEXT NOT NULL,
	deprecated  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (authority, code)
);
CREATE TABLE IF NOT EXISTS aliases (
	category TEXT NOT NULL,
	alias    TEXT NOT NULL,
	official TEXT NOT NULL,
	PRIMARY KEY (category, alias)
);
CREATE INDEX IF NOT EXISTS idx_objects_name ON objects(kind, name);
CREATE INDEX IF NOT EXISTS idx_objects_datum ON objects(datum_auth, datum_code);
CREATE INDEX IF NOT EXISTS idx_operations_pair ON operations(source_auth, source_code, target_auth, target_code);
`

// OpenSQLStore opens (creating if absent) a sqlite catalog at path.
func OpenSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if _, err := db.Exec(sqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	log := logging.GetLog("authority.catalog")
	log.Debugf("opened catalog %s", path)
	return &SQLStore{db: db, log: log}, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

var sqlKindNames = map[ObjectKind]string{
	KindUnit:          "unit",
	KindEllipsoid:     "ellipsoid",
	KindPrimeMeridian: "prime_meridian",
	KindDatum:         "datum",
	KindCRS:           "crs",
	KindOperation:     "operation",
}

// Import copies every definition of src into the catalog, replacing
// rows that share a key.
func (s *SQLStore) Import(src *MemStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	objects := 0
	for kind, keys := range src.order {
		for _, key := range keys {
			e := src.entries[kind][key]
			if err := importEntry(tx, e); err != nil {
				return err
			}
			objects++
		}
	}
	for _, mo := range src.ops {
		def, err := encodeOperation(mo.op)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`INSERT OR REPLACE INTO operations
			(authority, code, name, source_auth, source_code, target_auth, target_code, definition, deprecated)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			mo.authority, mo.code, mo.op.Name(),
			mo.source.Authority, mo.source.Code, mo.target.Authority, mo.target.Code,
			def, mo.op.IsDeprecated())
		if err != nil {
			return err
		}
	}
	for key, official := range src.aliases {
		category, alias, _ := cutAliasKey(key)
		if _, err := tx.Exec(`INSERT OR REPLACE INTO aliases (category, alias, official) VALUES (?,?,?)`,
			category, alias, official); err != nil {
			return err
		}
	}
	for key, value := range src.meta {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO metadata (key, value) VALUES (?,?)`, key, value); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Infof("imported %d objects and %d operations", objects, len(src.ops))
	return nil
}

func cutAliasKey(key string) (category, alias string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:], true
		}
	}
	return "", key, false
}

func importEntry(tx *sql.Tx, e *memEntry) error {
	switch e.Kind {
	case KindUnit:
		u, ok := e.Object.(geod.Unit)
		if !ok {
			return geod.NewInvalidDefinition("unit %s:%s is a %T", e.Authority, e.Code, e.Object)
		}
		_, err := tx.Exec(`INSERT OR REPLACE INTO units (authority, code, name, kind, factor, deprecated) VALUES (?,?,?,?,?,?)`,
			e.Authority, e.Code, e.Name, u.Kind.String(), u.Factor, e.Deprecated)
		return err
	case KindPrimeMeridian:
		pm, ok := e.Object.(*geod.PrimeMeridian)
		if !ok {
			return geod.NewInvalidDefinition("prime meridian %s:%s is a %T", e.Authority, e.Code, e.Object)
		}
		lonDeg := pm.Unit.ToSI(pm.Longitude) / geod.Degree.Factor
		_, err := tx.Exec(`INSERT OR REPLACE INTO prime_meridians (authority, code, name, longitude, deprecated) VALUES (?,?,?,?,?)`,
			e.Authority, e.Code, e.Name, lonDeg, e.Deprecated)
		return err
	case KindOperation:
		// written from the operation list, which carries the CRS keys
		return nil
	}
	text, err := wkt.Format(e.Object, wkt.WKT2_2019, &wkt.FormatOptions{})
	if err != nil {
		return fmt.Errorf("encode %s %s:%s: %w", e.Kind, e.Authority, e.Code, err)
	}
	var datumAuth, datumCode any
	if g, ok := e.Object.(*geod.GeodeticCRS); ok {
		if ids := g.Datum.Identifiers(); len(ids) > 0 {
			datumAuth, datumCode = ids[0].Authority, ids[0].Code
		}
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO objects
		(kind, authority, code, name, datum_auth, datum_code, wkt, deprecated) VALUES (?,?,?,?,?,?,?,?)`,
		sqlKindNames[e.Kind], e.Authority, e.Code, e.Name, datumAuth, datumCode, text, e.Deprecated)
	if err != nil {
		return err
	}
	for _, alias := range e.aliases {
		if _, err := tx.Exec(`INSERT INTO object_aliases (kind, authority, code, alias) VALUES (?,?,?,?)`,
			sqlKindNames[e.Kind], e.Authority, e.Code, alias); err != nil {
			return err
		}
	}
	return nil
}

func encodeOperation(op geod.Operation) (string, error) {
	t, ok := op.(*geod.Transformation)
	if !ok {
		return "", geod.NewInvalidDefinition("cannot encode a %T operation", op)
	}
	type jsonParam struct {
		Name  string  `json:"name"`
		Value float64 `json:"value,omitempty"`
		Unit  string  `json:"unit,omitempty"`
		File  string  `json:"file,omitempty"`
	}
	doc := struct {
		Method   string      `json:"method"`
		Params   []jsonParam `json:"params"`
		Accuracy float64     `json:"accuracy,omitempty"`
		Area     string      `json:"area,omitempty"`
		BBox     []float64   `json:"bbox,omitempty"`
	}{Method: t.Method.Name()}
	for _, p := range t.Params {
		jp := jsonParam{Name: p.Name}
		switch p.Kind {
		case geod.ParamMeasure:
			jp.Value = p.Value
			jp.Unit = p.Unit.Name
		case geod.ParamFile:
			jp.File = p.File
		default:
			return "", geod.NewInvalidDefinition("cannot encode parameter %q", p.Name)
		}
		doc.Params = append(doc.Params, jp)
	}
	if acc := t.Accuracy(); acc.Known {
		doc.Accuracy = acc.Value
	}
	if len(t.Usages) > 0 {
		u := t.Usages[0]
		doc.Area = u.Area
		if u.BBox != nil {
			doc.BBox = []float64{u.BBox.West(), u.BBox.South(), u.BBox.East(), u.BBox.North()}
		}
	}
	raw, err := json.Marshal(doc)
	return string(raw), err
}

func (s *SQLStore) decodeOperation(authority, code, name string, source, target geod.Ident, def string, deprecated bool) (geod.Operation, error) {
	srcObj, err := s.LookupObject(KindCRS, source.Authority, source.Code)
	if err != nil {
		return nil, err
	}
	dstObj, err := s.LookupObject(KindCRS, target.Authority, target.Code)
	if err != nil {
		return nil, err
	}
	var params []geod.ParamValue
	for _, jp := range gjson.Get(def, "params").Array() {
		pname := jp.Get("name").String()
		if file := jp.Get("file").String(); file != "" {
			params = append(params, geod.FileParam(pname, file))
			continue
		}
		unit, ok := geod.UnitByName(jp.Get("unit").String())
		if !ok {
			return nil, geod.NewInvalidDefinition("operation %s:%s: unknown unit %q", authority, code, jp.Get("unit").String())
		}
		params = append(params, geod.MeasureParam(pname, jp.Get("value").Float(), unit))
	}
	var accuracies []geod.Accuracy
	if acc := gjson.Get(def, "accuracy"); acc.Exists() {
		accuracies = append(accuracies, geod.KnownAccuracy(acc.Float()))
	}
	usage := geod.Usage{Area: gjson.Get(def, "area").String()}
	if bbox := gjson.Get(def, "bbox").Array(); len(bbox) == 4 {
		usage.BBox = geod.NewExtent(bbox[0].Float(), bbox[1].Float(), bbox[2].Float(), bbox[3].Float())
	}
	return geod.NewTransformation(
		geod.ObjectMeta{ObjName: name, Idents: []geod.Ident{{Authority: authority, Code: code}}, Deprecated: deprecated},
		srcObj.(geod.CRS), dstObj.(geod.CRS),
		geod.Method{ObjectMeta: geod.ObjectMeta{ObjName: gjson.Get(def, "method").String()}},
		params, accuracies, usage)
}

func (s *SQLStore) LookupObject(kind ObjectKind, authority, code string) (any, error) {
	switch kind {
	case KindAny:
		for _, k := range lookupKinds {
			if obj, err := s.LookupObject(k, authority, code); err == nil {
				return obj, nil
			}
		}
		return nil, &geod.NoSuchCodeError{Authority: authority, Code: code}
	case KindUnit:
		return s.lookupUnit(authority, code)
	case KindPrimeMeridian:
		return s.lookupPrimeMeridian(authority, code)
	case KindOperation:
		return s.lookupOperation(authority, code)
	}
	var text string
	err := s.db.QueryRow(`SELECT wkt FROM objects WHERE kind=? AND authority=? AND code=?`,
		sqlKindNames[kind], authority, code).Scan(&text)
	if err == sql.ErrNoRows {
		return nil, &geod.NoSuchCodeError{Authority: authority, Code: code}
	}
	if err != nil {
		return nil, err
	}
	return wkt.Parse(text, nil)
}

func (s *SQLStore) lookupUnit(authority, code string) (any, error) {
	var name, kindName string
	var factor float64
	err := s.db.QueryRow(`SELECT name, kind, factor FROM units WHERE authority=? AND code=?`,
		authority, code).Scan(&name, &kindName, &factor)
	if err == sql.ErrNoRows {
		return nil, &geod.NoSuchCodeError{Authority: authority, Code: code}
	}
	if err != nil {
		return nil, err
	}
	return geod.Unit{Name: name, Factor: factor, Kind: unitKindByName(kindName), Authority: authority, Code: code}, nil
}

func (s *SQLStore) lookupPrimeMeridian(authority, code string) (any, error) {
	var name string
	var lonDeg float64
	err := s.db.QueryRow(`SELECT name, longitude FROM prime_meridians WHERE authority=? AND code=?`,
		authority, code).Scan(&name, &lonDeg)
	if err == sql.ErrNoRows {
		return nil, &geod.NoSuchCodeError{Authority: authority, Code: code}
	}
	if err != nil {
		return nil, err
	}
	return geod.NewPrimeMeridian(
		geod.ObjectMeta{ObjName: name, Idents: []geod.Ident{{Authority: authority, Code: code}}},
		lonDeg, geod.Degree)
}

func unitKindByName(name string) geod.UnitKind {
	for _, k := range []geod.UnitKind{geod.UnitNone, geod.UnitAngular, geod.UnitLinear, geod.UnitScale, geod.UnitTime, geod.UnitParametric} {
		if k.String() == name {
			return k
		}
	}
	return geod.UnitUnknown
}

func (s *SQLStore) lookupOperation(authority, code string) (any, error) {
	row := s.db.QueryRow(`SELECT name, source_auth, source_code, target_auth, target_code, definition, deprecated
		FROM operations WHERE authority=? AND code=?`, authority, code)
	var name, def string
	var src, dst geod.Ident
	var deprecated bool
	err := row.Scan(&name, &src.Authority, &src.Code, &dst.Authority, &dst.Code, &def, &deprecated)
	if err == sql.ErrNoRows {
		return nil, &geod.NoSuchCodeError{Authority: authority, Code: code}
	}
	if err != nil {
		return nil, err
	}
	return s.decodeOperation(authority, code, name, src, dst, def, deprecated)
}

func (s *SQLStore) SearchByName(kind ObjectKind, authority, name string) ([]NamedObject, error) {
	all, err := s.AllNames(kind, authority)
	if err != nil {
		return nil, err
	}
	folded := geod.FoldName(name)
	var out []NamedObject
	for _, no := range all {
		if geod.FoldName(no.Name) != folded && !s.aliasMatches(no, folded) {
			continue
		}
		obj, err := s.LookupObject(no.Kind, no.Authority, no.Code)
		if err != nil {
			return nil, err
		}
		no.Object = obj
		out = append(out, no)
	}
	return out, nil
}

func (s *SQLStore) aliasMatches(no NamedObject, folded string) bool {
	rows, err := s.db.Query(`SELECT alias FROM object_aliases WHERE kind=? AND authority=? AND code=?`,
		sqlKindNames[no.Kind], no.Authority, no.Code)
	if err != nil {
		return false
	}
	defer rows.Close()
	for rows.Next() {
		var alias string
		if rows.Scan(&alias) == nil && geod.FoldName(alias) == folded {
			return true
		}
	}
	return false
}

// AllNames returns names only; Object is left nil so that similarity
// scans do not decode the whole catalog.
func (s *SQLStore) AllNames(kind ObjectKind, authority string) ([]NamedObject, error) {
	var out []NamedObject
	for _, k := range s.searchKinds(kind) {
		rows, err := s.allNameRows(k, authority)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func (s *SQLStore) searchKinds(kind ObjectKind) []ObjectKind {
	if kind == KindAny {
		return lookupKinds
	}
	return []ObjectKind{kind}
}

func (s *SQLStore) allNameRows(kind ObjectKind, authority string) ([]NamedObject, error) {
	var query string
	args := []any{}
	switch kind {
	case KindUnit:
		query = `SELECT authority, code, name, deprecated FROM units`
	case KindPrimeMeridian:
		query = `SELECT authority, code, name, deprecated FROM prime_meridians`
	case KindOperation:
		query = `SELECT authority, code, name, deprecated FROM operations`
	default:
		query = `SELECT authority, code, name, deprecated FROM objects WHERE kind=?`
		args = append(args, sqlKindNames[kind])
	}
	if authority != "" {
		if len(args) == 0 {
			query += ` WHERE authority=?`
		} else {
			query += ` AND authority=?`
		}
		args = append(args, authority)
	}
	query += ` ORDER BY authority, code`
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []NamedObject
	for rows.Next() {
		no := NamedObject{Kind: kind}
		if err := rows.Scan(&no.Authority, &no.Code, &no.Name, &no.Deprecated); err != nil {
			return nil, err
		}
		out = append(out, no)
	}
	return out, rows.Err()
}

func (s *SQLStore) AliasToOfficialName(alias, category string) (string, bool, error) {
	var official string
	err := s.db.QueryRow(`SELECT official FROM aliases WHERE category=? AND alias=?`,
		category, geod.FoldName(alias)).Scan(&official)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return official, true, nil
}

func (s *SQLStore) Codes(kind ObjectKind, authority string, includeDeprecated bool) ([]string, error) {
	names, err := s.allNameRows(kind, authority)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, no := range names {
		if no.Deprecated && !includeDeprecated {
			continue
		}
		out = append(out, no.Code)
	}
	return out, nil
}

func (s *SQLStore) Authorities() ([]string, error) {
	seen := make(map[string]bool)
	for _, query := range []string{
		`SELECT DISTINCT authority FROM units`,
		`SELECT DISTINCT authority FROM prime_meridians`,
		`SELECT DISTINCT authority FROM objects`,
		`SELECT DISTINCT authority FROM operations`,
	} {
		rows, err := s.db.Query(query)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var a string
			if err := rows.Scan(&a); err != nil {
				rows.Close()
				return nil, err
			}
			seen[a] = true
		}
		rows.Close()
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out, nil
}

func (s *SQLStore) OperationsBetweenCRS(sourceKey, targetKey geod.Ident) ([]geod.Operation, error) {
	rows, err := s.db.Query(`SELECT authority, code, name, definition, deprecated FROM operations
		WHERE source_auth=? AND source_code=? AND target_auth=? AND target_code=? AND deprecated=0
		ORDER BY authority, code`,
		sourceKey.Authority, sourceKey.Code, targetKey.Authority, targetKey.Code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []geod.Operation
	for rows.Next() {
		var authority, code, name, def string
		var deprecated bool
		if err := rows.Scan(&authority, &code, &name, &def, &deprecated); err != nil {
			return nil, err
		}
		op, err := s.decodeOperation(authority, code, name, sourceKey, targetKey, def, deprecated)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

func (s *SQLStore) PivotCandidates(sourceKey, targetKey geod.Ident) ([]geod.Ident, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT a.other_auth, a.other_code FROM
			(SELECT target_auth AS other_auth, target_code AS other_code FROM operations WHERE source_auth=? AND source_code=?
			 UNION SELECT source_auth, source_code FROM operations WHERE target_auth=? AND target_code=?) a
		INNER JOIN
			(SELECT target_auth AS other_auth, target_code AS other_code FROM operations WHERE source_auth=? AND source_code=?
			 UNION SELECT source_auth, source_code FROM operations WHERE target_auth=? AND target_code=?) b
		ON a.other_auth=b.other_auth AND a.other_code=b.other_code
		ORDER BY a.other_auth, a.other_code`,
		sourceKey.Authority, sourceKey.Code, sourceKey.Authority, sourceKey.Code,
		targetKey.Authority, targetKey.Code, targetKey.Authority, targetKey.Code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []geod.Ident
	for rows.Next() {
		var id geod.Ident
		if err := rows.Scan(&id.Authority, &id.Code); err != nil {
			return nil, err
		}
		if id != sourceKey && id != targetKey {
			out = append(out, id)
		}
	}
	return out, rows.Err()
}

func (s *SQLStore) CRSForDatum(datumKey geod.Ident) ([]*geod.GeodeticCRS, error) {
	rows, err := s.db.Query(`SELECT wkt FROM objects WHERE kind='crs' AND datum_auth=? AND datum_code=? ORDER BY authority, code`,
		datumKey.Authority, datumKey.Code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*geod.GeodeticCRS
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		obj, err := wkt.Parse(text, nil)
		if err != nil {
			return nil, err
		}
		if g, ok := obj.(*geod.GeodeticCRS); ok {
			out = append(out, g)
		}
	}
	return out, rows.Err()
}

func (s *SQLStore) Metadata(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key=?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
