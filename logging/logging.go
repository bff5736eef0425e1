package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"
)

/*
	Log rotation schedule

	"0 30 * * * *"             Every hour on the half hour
	"@hourly"                  Every hour
	"@every 1h30m"             Every hour thirty

	@yearly
	@monthly
	@daily
	@hourly
	@midnight
*/

type Config struct {
	Console             bool          `json:"console"`
	Filename            string        `json:"filename"`
	Append              bool          `json:"append"`
	RotateSchedule      string        `json:"rotateSchedule"`
	MaxSize             int           `json:"maxSize"`
	MaxBackups          int           `json:"maxBackups"`
	MaxAge              int           `json:"maxAge"`
	Compress            bool          `json:"compress"`
	Levels              []LevelConfig `json:"levels"`
	UTC                 bool          `json:"utc"`
	DefaultPrefixWidth  int           `json:"defaultPrefixWidth"`
	DefaultEnableSrcLoc bool          `json:"defaultEnableSourceLocation"`
	DefaultLevel        string        `json:"defaultLevel"`
}

type LevelConfig struct {
	Pattern string `json:"pattern"`
	Level   string `json:"level"`
}

// PresetConfigStdout logs everything to stdout, for CLI use.
var PresetConfigStdout = Config{
	Filename:           "-",
	Append:             true,
	DefaultPrefixWidth: 20,
	DefaultLevel:       "INFO",
}

// PresetConfigDiscard drops all output, for tests.
var PresetConfigDiscard = Config{
	Filename:           ".",
	DefaultPrefixWidth: 20,
	DefaultLevel:       "TRACE",
}

var rotateCron = cron.New()

var defaultWriter []*logWriter

// Configure sets the process-wide log destination and per-name levels.
// Filename "-" means stdout, "." discards.
func Configure(cfg *Config) {
	for _, c := range cfg.Levels {
		levelConfig[c.Pattern] = ParseLogLevel(c.Level)
	}
	SetDefaultPrefixWidth(cfg.DefaultPrefixWidth)
	SetDefaultLevel(ParseLogLevel(cfg.DefaultLevel))
	SetDefaultEnableSourceLocation(cfg.DefaultEnableSrcLoc)

	if cfg.Filename == "." {
		defaultWriter = []*logWriter{}
	} else if cfg.Filename == "-" || cfg.Filename == "" {
		defaultWriter = []*logWriter{{Writer: os.Stdout, isTerm: true}}
	} else {
		lj := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  !cfg.UTC,
		}
		if !cfg.Append {
			lj.Rotate()
		}
		if len(cfg.RotateSchedule) > 0 {
			_, err := rotateCron.AddFunc(cfg.RotateSchedule, func() {
				lj.Rotate()
			})
			if err == nil {
				go rotateCron.Run()
			} else {
				fmt.Fprintf(os.Stderr, "ERR logger rotate schedule %s", err.Error())
			}
		}
		if cfg.Console {
			defaultWriter = []*logWriter{
				{Writer: lj, isTerm: false},
				{Writer: os.Stdout, isTerm: true},
			}
		} else {
			defaultWriter = []*logWriter{{Writer: lj, isTerm: false}}
		}
	}
}

// GetLog returns a named logger writing to the configured destination.
func GetLog(name string) Log {
	return &levelLogger{
		name:         name,
		level:        GetLevel(name),
		underlying:   defaultWriter,
		prefixWidth:  prefixWidthDefault,
		enableSrcLoc: enableSourceLocationDefault,
	}
}

// NewLog returns a named logger bound to the given writer, bypassing the
// process-wide configuration.
func NewLog(name string, writer io.Writer) Log {
	return &levelLogger{
		name:        name,
		level:       GetLevel(name),
		underlying:  []*logWriter{{Writer: writer, isTerm: false}},
		prefixWidth: prefixWidthDefault,
	}
}

type logWriter struct {
	io.Writer
	isTerm bool
}
