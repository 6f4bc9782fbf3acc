// SPDX-License-Identifier: MIT

// Package log is a small leveled logger shared by every component. Lines
// carry a bracketed level and the component name the caller puts first,
// e.g. "[INFO]  Feed: Listening on :3000".
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

// Level is a message severity. Higher is more severe.
type Level uint32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// levelTags are padded so messages line up after the tag.
var levelTags = [...]string{
	LevelDebug: "[DEBUG] ",
	LevelInfo:  "[INFO]  ",
	LevelWarn:  "[WARN]  ",
	LevelError: "[ERROR] ",
	LevelFatal: "[FATAL] ",
}

func (l Level) String() string {
	if int(l) >= len(levelTags) {
		return "UNKNOWN"
	}
	return strings.Trim(levelTags[l], "[] ")
}

// ParseLevel maps a config or env value onto a Level, ignoring case and
// surrounding space. Unknown names report false and LevelInfo.
func ParseLevel(s string) (Level, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	for l := LevelDebug; l <= LevelFatal; l++ {
		if l.String() == name {
			return l, true
		}
	}
	return LevelInfo, false
}

var (
	minLevel atomic.Uint32
	std      = stdlog.New(os.Stderr, "", stdlog.Ldate|stdlog.Ltime|stdlog.Lmicroseconds)
)

func init() {
	SetLevel(LevelInfo)
}

// SetLevel drops messages below level from now on. Safe to call from any
// goroutine.
func SetLevel(level Level) { minLevel.Store(uint32(level)) }

// GetLevel returns the current threshold.
func GetLevel() Level { return Level(minLevel.Load()) }

// SetOutput redirects output, mainly for tests.
func SetOutput(w io.Writer) { std.SetOutput(w) }

func logf(level Level, format string, v []any) {
	if level < GetLevel() && level != LevelFatal {
		return
	}
	_ = std.Output(3, levelTags[level]+fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...any) { logf(LevelDebug, format, v) }
func Infof(format string, v ...any)  { logf(LevelInfo, format, v) }
func Warnf(format string, v ...any)  { logf(LevelWarn, format, v) }
func Errorf(format string, v ...any) { logf(LevelError, format, v) }

// Fatalf logs regardless of level and exits with status 1.
func Fatalf(format string, v ...any) {
	logf(LevelFatal, format, v)
	os.Exit(1)
}
