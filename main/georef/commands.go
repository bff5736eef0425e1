package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geodetic-io/georef/authority"
	"github.com/geodetic-io/georef/engine"
	"github.com/geodetic-io/georef/geod"
	"github.com/geodetic-io/georef/projstr"
	"github.com/geodetic-io/georef/resolve"
	"github.com/geodetic-io/georef/wkt"
)

// openResolver builds the catalog resolver of the session: the sqlite
// file named by --catalog, or the builtin catalog.
func openResolver(cmd *cobra.Command) (*authority.Resolver, func(), error) {
	auth, err := cmd.Flags().GetString("authority")
	if err != nil {
		return nil, nil, err
	}
	path, err := cmd.Flags().GetString("catalog")
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return authority.NewResolver(authority.NewWellKnownStore(), auth), func() {}, nil
	}
	store, err := authority.OpenSQLStore(path)
	if err != nil {
		return nil, nil, err
	}
	return authority.NewResolver(store, auth), func() { store.Close() }, nil
}

// loadCRS accepts the three reference shapes: a WKT definition, a
// "+key=value" chain, or an authority code.
func loadCRS(r *authority.Resolver, text string) (geod.CRS, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "+") {
		return projstr.Parse(text, nil)
	}
	if wkt.GuessDialect(text) != wkt.DialectNotWKT {
		return wkt.ParseCRS(text, &wkt.ParseOptions{Resolver: r})
	}
	return r.CreateCRS(text)
}

func doParse(cmd *cobra.Command, args []string) error {
	r, closer, err := openResolver(cmd)
	if err != nil {
		return err
	}
	defer closer()

	crs, err := loadCRS(r, args[0])
	if err != nil {
		return err
	}

	to, err := cmd.Flags().GetString("to")
	if err != nil {
		return err
	}
	if to == "proj" {
		out, err := projstr.Format(crs)
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	}

	var conv wkt.Convention
	switch to {
	case "wkt2":
		conv = wkt.WKT2_2019
	case "wkt2015":
		conv = wkt.WKT2_2015
	case "wkt1":
		conv = wkt.WKT1_GDAL
	case "esri":
		conv = wkt.WKT1_ESRI
	default:
		return fmt.Errorf("unknown output format %q", to)
	}
	var opts *wkt.FormatOptions
	if single, _ := cmd.Flags().GetBool("single-line"); single {
		opts = &wkt.FormatOptions{}
	}
	out, err := wkt.Format(crs, conv, opts)
	if err != nil {
		return err
	}
	cmd.Println(out)
	return nil
}

func objectKindOf(name string) (authority.ObjectKind, error) {
	switch name {
	case "any", "":
		return authority.KindAny, nil
	case "unit":
		return authority.KindUnit, nil
	case "ellipsoid":
		return authority.KindEllipsoid, nil
	case "meridian":
		return authority.KindPrimeMeridian, nil
	case "datum":
		return authority.KindDatum, nil
	case "crs":
		return authority.KindCRS, nil
	case "operation":
		return authority.KindOperation, nil
	default:
		return authority.KindAny, fmt.Errorf("unknown object kind %q", name)
	}
}

func doSearch(cmd *cobra.Command, args []string) error {
	r, closer, err := openResolver(cmd)
	if err != nil {
		return err
	}
	defer closer()

	kindName, _ := cmd.Flags().GetString("kind")
	kind, err := objectKindOf(kindName)
	if err != nil {
		return err
	}
	approximate, _ := cmd.Flags().GetBool("approximate")
	limit, _ := cmd.Flags().GetInt("limit")

	var kinds []authority.ObjectKind
	if kind != authority.KindAny {
		kinds = []authority.ObjectKind{kind}
	}
	results, err := r.CreateObjectsFromName(args[0], kinds, approximate, limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		cmd.Printf("No object named %q found\n", args[0])
		return nil
	}
	for _, no := range results {
		mark := ""
		if no.Deprecated {
			mark = " (deprecated)"
		}
		cmd.Printf("%-14s %s:%s  %s%s\n", no.Kind, no.Authority, no.Code, no.Name, mark)
	}
	return nil
}

func doIdentify(cmd *cobra.Command, args []string) error {
	r, closer, err := openResolver(cmd)
	if err != nil {
		return err
	}
	defer closer()

	crs, err := loadCRS(r, args[0])
	if err != nil {
		return err
	}
	filter, _ := cmd.Flags().GetString("filter")

	finder := resolve.NewFinder(r, nil)
	matches, err := finder.Identify(crs, filter)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		cmd.Printf("No catalog CRS matches %q\n", crs.Name())
		return nil
	}
	for _, m := range matches {
		cmd.Printf("%s:%s  confidence %3d  %s\n", m.Authority, m.Code, m.Confidence, m.CRS.Name())
	}
	return nil
}

func parseBBox(text string) (*geod.Extent, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must be W,S,E,N, got %q", text)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bbox value %q: %w", p, err)
		}
		v[i] = f
	}
	return geod.NewExtent(v[0], v[1], v[2], v[3]), nil
}

func operationConfig(cmd *cobra.Command) (*resolve.Config, resolve.GridAvailability, error) {
	cfg := &resolve.Config{}

	cfg.DesiredAccuracy, _ = cmd.Flags().GetFloat64("accuracy")
	cfg.AllowPivots, _ = cmd.Flags().GetBool("pivot")

	if bbox, _ := cmd.Flags().GetString("bbox"); bbox != "" {
		aoi, err := parseBBox(bbox)
		if err != nil {
			return nil, nil, err
		}
		cfg.AreaOfInterest = aoi
	}

	switch spatial, _ := cmd.Flags().GetString("spatial"); spatial {
	case "contains":
		cfg.SpatialCriterion = resolve.StrictContainment
	case "intersects", "":
		cfg.SpatialCriterion = resolve.PartialIntersection
	default:
		return nil, nil, fmt.Errorf("unknown spatial criterion %q", spatial)
	}

	switch grid, _ := cmd.Flags().GetString("grid"); grid {
	case "ignore", "":
		cfg.GridPolicy = resolve.GridIgnore
	case "sort":
		cfg.GridPolicy = resolve.GridSort
	case "discard":
		cfg.GridPolicy = resolve.GridDiscard
	default:
		return nil, nil, fmt.Errorf("unknown grid policy %q", grid)
	}

	var checker resolve.GridAvailability
	if grids, _ := cmd.Flags().GetStringSlice("grids"); len(grids) > 0 {
		checker = resolve.NewStaticGridChecker(grids...)
	}
	return cfg, checker, nil
}

func operationKindName(k geod.OperationKind) string {
	switch k {
	case geod.OpConversion:
		return "conversion"
	case geod.OpTransformation:
		return "transformation"
	default:
		return "concatenated"
	}
}

func doOperations(cmd *cobra.Command, args []string) error {
	r, closer, err := openResolver(cmd)
	if err != nil {
		return err
	}
	defer closer()

	source, err := loadCRS(r, args[0])
	if err != nil {
		return err
	}
	target, err := loadCRS(r, args[1])
	if err != nil {
		return err
	}
	cfg, checker, err := operationConfig(cmd)
	if err != nil {
		return err
	}

	finder := resolve.NewFinder(r, checker)
	ops, err := finder.CreateOperations(source, target, cfg)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		cmd.Printf("No operation from %q to %q\n", source.Name(), target.Name())
		return nil
	}
	for i, op := range ops {
		acc := "unknown accuracy"
		if a := op.Accuracy(); a.Known {
			acc = fmt.Sprintf("%g m", a.Value)
		}
		cmd.Printf("%2d. %s (%s, %s)\n", i+1, op.Name(), operationKindName(op.OpKind()), acc)
		if ext := op.Extent(); ext != nil && !ext.IsWorld() {
			cmd.Printf("    extent %g %g %g %g\n", ext.West(), ext.South(), ext.East(), ext.North())
		}
		for _, g := range geod.OperationGrids(op) {
			cmd.Printf("    grid %s\n", g.ShortName)
		}
	}
	return nil
}

func doTransform(cmd *cobra.Command, args []string) error {
	r, closer, err := openResolver(cmd)
	if err != nil {
		return err
	}
	defer closer()

	source, err := loadCRS(r, args[0])
	if err != nil {
		return err
	}
	target, err := loadCRS(r, args[1])
	if err != nil {
		return err
	}

	parts := strings.Split(args[2], ",")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("coordinate must be a,b or a,b,c, got %q", args[2])
	}
	var coord [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("coordinate value %q: %w", p, err)
		}
		coord[i] = f
	}

	tr, err := engine.Transform(source, target)
	if err != nil {
		return err
	}
	a, b, c := tr(coord[0], coord[1], coord[2])
	cmd.Printf("%.9g %.9g %.9g\n", a, b, c)
	return nil
}

func doExport(cmd *cobra.Command, args []string) error {
	store, err := authority.OpenSQLStore(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Import(authority.NewWellKnownStore()); err != nil {
		return err
	}
	cmd.Printf("Catalog written to %s\n", args[0])
	return nil
}
