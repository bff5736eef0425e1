package authority

import (
	"github.com/geodetic-io/georef/geod"
)

// projGridAliases maps catalog grid file names to the names the PROJ
// community distributes them under.
var projGridAliases = map[string]string{
	"ntv2_0.gsb":   "ca_nrc_ntv2_0.tif",
	"NTv2_0.gsb":   "ca_nrc_ntv2_0.tif",
	"conus":        "us_noaa_conus.tif",
	"OSTN15_NTv2":  "uk_os_OSTN15_NTv2_OSGBtoETRS.tif",
	"egm96_15.gtx": "us_nga_egm96_15.tif",
}

// AlternativeGridName returns the PROJ community name for a catalog grid
// file, or the input unchanged when no mapping exists.
func AlternativeGridName(name string) string {
	if alt, ok := projGridAliases[name]; ok {
		return alt
	}
	return name
}

// substituteGridNames rewrites the file parameters of a transformation to
// the PROJ community names. Operations without renamed grids pass through
// unchanged.
func substituteGridNames(op geod.Operation) geod.Operation {
	t, ok := op.(*geod.Transformation)
	if !ok {
		return op
	}
	changed := false
	params := make([]geod.ParamValue, len(t.Params))
	for i, p := range t.Params {
		if p.Kind == geod.ParamFile {
			if alt := AlternativeGridName(p.File); alt != p.File {
				p.File = alt
				changed = true
			}
		}
		params[i] = p
	}
	if !changed {
		return op
	}
	dup, err := geod.NewTransformation(t.ObjectMeta, t.SourceCRS, t.TargetCRS, t.Method, params, t.Accuracies, t.Usages...)
	if err != nil {
		return op
	}
	return dup
}
