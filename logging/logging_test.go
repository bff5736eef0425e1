package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geodetic-io/georef/logging"
)

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, logging.LevelTrace, logging.ParseLogLevel("trace"))
	require.Equal(t, logging.LevelError, logging.ParseLogLevel("ERROR"))
	require.Equal(t, logging.LevelAll, logging.ParseLogLevel("bogus"))
	require.Equal(t, "WARN", logging.LogLevelName(logging.LevelWarn))
}

func TestLevelPatterns(t *testing.T) {
	logging.SetDefaultLevel(logging.LevelInfo)
	logging.SetLevel("authority*", logging.LevelDebug)
	logging.SetLevel("authority.sql", logging.LevelTrace)

	require.Equal(t, logging.LevelTrace, logging.GetLevel("authority.sql"))
	require.Equal(t, logging.LevelDebug, logging.GetLevel("authority.mem"))
	require.Equal(t, logging.LevelInfo, logging.GetLevel("resolve"))
}

func TestNamedLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewLog("codec", &buf)
	log.SetLevel(logging.LevelInfo)

	log.Debugf("not shown %d", 1)
	log.Infof("parsed %d objects", 7)
	log.Warn("fallback", "used")

	out := buf.String()
	require.NotContains(t, out, "not shown")
	require.Contains(t, out, "INFO")
	require.Contains(t, out, "parsed 7 objects")
	require.Contains(t, out, "fallback used")
	// escapes are stripped for non-terminal writers
	require.False(t, strings.Contains(out, "\033["))
}
