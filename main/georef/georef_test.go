package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestParseCommand(t *testing.T) {
	out := execute(t, "parse", "4326", "--to", "proj")
	require.Contains(t, out, "+proj=longlat")
	require.Contains(t, out, "+datum=WGS84")

	out = execute(t, "parse", "+proj=utm +zone=32 +datum=WGS84", "--to", "wkt2", "--single-line")
	require.Contains(t, out, "PROJCRS[")
	require.NotContains(t, out, "\n    ")
}

func TestSearchCommand(t *testing.T) {
	out := execute(t, "search", "WGS 84", "--kind", "crs")
	require.Contains(t, out, "EPSG:4326")

	out = execute(t, "search", "WGS 85", "--kind", "crs", "--approximate", "--limit", "2")
	require.Contains(t, out, "WGS 84")
}

func TestIdentifyCommand(t *testing.T) {
	out := execute(t, "identify", "4326")
	require.Contains(t, out, "EPSG:4326")
	require.Contains(t, out, "100")
}

func TestOperationsCommand(t *testing.T) {
	out := execute(t, "operations", "4267", "4326")
	require.Contains(t, out, "NAD27 to WGS 84 (4)")
	require.Contains(t, out, "10 m")

	out = execute(t, "operations", "4267", "4326", "--accuracy", "5")
	require.Contains(t, out, "NAD27 to WGS 84 (33)")
	require.NotContains(t, out, "NAD27 to WGS 84 (4)")
}

func TestTransformCommand(t *testing.T) {
	out := execute(t, "transform", "OGC:CRS84", "EPSG:3857", "0,0")
	require.Contains(t, out, "0 0 0")
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	out := execute(t, "export", path)
	require.Contains(t, out, "Catalog written")

	out = execute(t, "parse", "4326", "--catalog", path, "--to", "wkt2", "--single-line")
	require.Contains(t, out, `GEOGCRS["WGS 84"`)
}
