package wkt

import (
	"strings"
	"unicode"
)

// Convention selects the output dialect of the formatter.
type Convention int

const (
	WKT2_2019 Convention = iota
	WKT2_2015
	WKT1_GDAL
	WKT1_ESRI
)

func (c Convention) String() string {
	switch c {
	case WKT2_2019:
		return "WKT2:2019"
	case WKT2_2015:
		return "WKT2:2015"
	case WKT1_GDAL:
		return "WKT1:GDAL"
	case WKT1_ESRI:
		return "WKT1:ESRI"
	default:
		return "unknown"
	}
}

// Dialect is the result of GuessDialect.
type Dialect int

const (
	DialectWKT2_2019 Dialect = iota
	DialectWKT2_2015
	DialectWKT1_GDAL
	DialectWKT1_ESRI
	DialectNotWKT
)

func (d Dialect) String() string {
	switch d {
	case DialectWKT2_2019:
		return "WKT2:2019"
	case DialectWKT2_2015:
		return "WKT2:2015"
	case DialectWKT1_GDAL:
		return "WKT1:GDAL"
	case DialectWKT1_ESRI:
		return "WKT1:ESRI"
	default:
		return "not WKT"
	}
}

var wkt2OnlyIn2019 = []string{"USAGE[", "BASEGEOGCRS[", "GEOGCRS[", "FRAMEEPOCH[", "VELOCITYGRID["}

var wkt2Keywords = map[string]bool{
	"GEODCRS": true, "GEOGCRS": true, "PROJCRS": true, "VERTCRS": true,
	"COMPOUNDCRS": true, "BOUNDCRS": true, "TIMECRS": true, "ENGCRS": true,
	"ENGINEERINGCRS": true, "COORDINATEOPERATION": true, "CONVERSION": true,
	"DATUM": true, "ENSEMBLE": true, "ELLIPSOID": true, "PRIMEM": true,
	"DERIVEDPROJCRS": true,
}

var wkt1Keywords = map[string]bool{
	"GEOGCS": true, "PROJCS": true, "GEOCCS": true, "VERT_CS": true,
	"COMPD_CS": true, "LOCAL_CS": true, "VERTCS": true,
}

// GuessDialect inspects the leading tokens of text and reports which
// dialect it appears to be written in. It never fails: malformed or
// unrelated input yields DialectNotWKT.
func GuessDialect(text string) Dialect {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	var kw strings.Builder
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			kw.WriteRune(r)
			continue
		}
		break
	}
	keyword := strings.ToUpper(kw.String())
	if keyword == "" {
		return DialectNotWKT
	}
	rest := trimmed[kw.Len():]
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if !strings.HasPrefix(rest, "[") && !strings.HasPrefix(rest, "(") {
		return DialectNotWKT
	}

	if wkt2Keywords[keyword] {
		upper := strings.ToUpper(text)
		if keyword == "GEOGCRS" {
			return DialectWKT2_2019
		}
		for _, marker := range wkt2OnlyIn2019 {
			if strings.Contains(upper, marker) {
				return DialectWKT2_2019
			}
		}
		return DialectWKT2_2015
	}

	if keyword == "VERTCS" {
		// VERTCS (without underscore) is the ESRI vertical form
		return DialectWKT1_ESRI
	}
	if wkt1Keywords[keyword] {
		if looksLikeESRI(text) {
			return DialectWKT1_ESRI
		}
		return DialectWKT1_GDAL
	}
	return DialectNotWKT
}

// looksLikeESRI recognizes the ESRI naming convention: CRS names prefixed
// with GCS_, datum names prefixed with D_, and underscore-separated words.
func looksLikeESRI(text string) bool {
	upper := strings.ToUpper(text)
	if strings.Contains(upper, `["GCS_`) || strings.Contains(upper, `DATUM["D_`) {
		return true
	}
	if strings.Contains(upper, "VERTCS[") {
		return true
	}
	return false
}

// conventionForDialect maps a guessed input dialect to the matching output
// convention, defaulting to the current WKT2 generation.
func conventionForDialect(d Dialect) Convention {
	switch d {
	case DialectWKT2_2015:
		return WKT2_2015
	case DialectWKT1_GDAL:
		return WKT1_GDAL
	case DialectWKT1_ESRI:
		return WKT1_ESRI
	default:
		return WKT2_2019
	}
}
