package logging

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

type levelLogger struct {
	name         string
	level        Level
	underlying   []*logWriter
	prefixWidth  int
	enableSrcLoc bool
}

func (l *levelLogger) SetLevel(level Level) { l.level = level }
func (l *levelLogger) Level() Level         { return l.level }

func (l *levelLogger) TraceEnabled() bool { return l.level <= LevelTrace }
func (l *levelLogger) DebugEnabled() bool { return l.level <= LevelDebug }
func (l *levelLogger) InfoEnabled() bool  { return l.level <= LevelInfo }
func (l *levelLogger) WarnEnabled() bool  { return l.level <= LevelWarn }
func (l *levelLogger) ErrorEnabled() bool { return l.level <= LevelError }

func (l *levelLogger) LogEnabled(lvl Level) bool { return l.level <= lvl }

func (l *levelLogger) Trace(m ...any) { l.log(LevelTrace, m) }
func (l *levelLogger) Debug(m ...any) { l.log(LevelDebug, m) }
func (l *levelLogger) Info(m ...any)  { l.log(LevelInfo, m) }
func (l *levelLogger) Warn(m ...any)  { l.log(LevelWarn, m) }
func (l *levelLogger) Error(m ...any) { l.log(LevelError, m) }

func (l *levelLogger) Tracef(format string, args ...any) { l.logf(LevelTrace, 0, format, args) }
func (l *levelLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, 0, format, args) }
func (l *levelLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, 0, format, args) }
func (l *levelLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, 0, format, args) }
func (l *levelLogger) Errorf(format string, args ...any) { l.logf(LevelError, 0, format, args) }

func (l *levelLogger) Log(lvl Level, m ...any)                    { l.log(lvl, m) }
func (l *levelLogger) Logf(lvl Level, format string, args ...any) { l.logf(lvl, 0, format, args) }

func (l *levelLogger) Write(buff []byte) (n int, err error) {
	ts := fmt.Sprintf("%s -     ", time.Now().Format("2006/01/02 15:04:05.000"))
	for _, w := range l.underlying {
		w.Write([]byte(ts))
		n, err = w.Write(buff)
	}
	return
}

func (l *levelLogger) log(lvl Level, args []any) {
	l.logf(lvl, 1, "", args)
}

func (l *levelLogger) logf(lvl Level, callstackOffset int, format string, args []any) {
	if lvl < l.level {
		return
	}

	totalCounter.Inc(1)
	if lvl == LevelWarn {
		warnCounter.Inc(1)
	} else if lvl == LevelError {
		errorCounter.Inc(1)
	}

	name := l.name
	if l.enableSrcLoc {
		_, srcFileName, srcFileLine, _ := runtime.Caller(2 + callstackOffset)
		srcFileName = filepath.Base(srcFileName)
		width := l.prefixWidth - len(srcFileName) - 5
		if width <= 0 {
			width = 1
		}
		name = fmt.Sprintf(fmt.Sprintf("%%-%ds %%s %%3d", width), name, srcFileName, srcFileLine)
	} else {
		name = fmt.Sprintf(fmt.Sprintf("%%-%ds", l.prefixWidth), l.name)
	}

	levelColorBegin, levelColorEnd := "", ""
	if lvl == LevelWarn {
		levelColorBegin, levelColorEnd = yellow, reset
	} else if lvl == LevelError {
		levelColorBegin, levelColorEnd = red, reset
	}

	timestamp := time.Now()
	levelName := fmt.Sprintf("%-5s", logLevelNames[lvl])

	for _, w := range l.underlying {
		forg := format
		if format == "" {
			forg = "%s"
		}
		var fnew string
		if w.isTerm {
			fnew = fmt.Sprintf("%v %s%s%s %s %s\n",
				timestamp.Format("2006/01/02 15:04:05.000"),
				levelColorBegin, levelName, levelColorEnd,
				name, forg)
		} else {
			fnew = fmt.Sprintf("%v %s %s %s\n",
				timestamp.Format("2006/01/02 15:04:05.000"),
				levelName, name, forg)
		}
		var line string
		if format == "" {
			toks := make([]string, len(args))
			for i, a := range args {
				if s, ok := a.(string); ok {
					toks[i] = s
				} else {
					toks[i] = fmt.Sprintf("%v", a)
				}
			}
			line = fmt.Sprintf(fnew, strings.Join(toks, " "))
		} else {
			line = fmt.Sprintf(fnew, args...)
		}
		if w.isTerm {
			w.Write([]byte(line))
		} else {
			w.Write([]byte(removeEscape(line)))
		}
	}
}

func removeEscape(str string) string {
	for {
		idx := strings.Index(str, "\033[")
		if idx == -1 {
			break
		}
		period := strings.Index(str[idx:], "m")
		str = str[0:idx] + str[idx+period+1:]
	}
	return str
}
