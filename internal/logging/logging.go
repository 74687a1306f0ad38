// Package logging builds the leveled loggers shared by the command line and
// the frame loop.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
)

const header = `${time_rfc3339} ${level} ${prefix} ${short_file}:${line}`

var levels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

// ParseLevel maps a level name to a gommon level.
func ParseLevel(name string) (log.Lvl, error) {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return log.OFF, errors.Errorf("logging: unknown level %q", name)
	}
	return lvl, nil
}

// New returns a logger writing to w at the named level. A nil w means stderr.
func New(prefix, level string, w io.Writer) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	l := log.New(prefix)
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetHeader(header)
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	l := log.New("")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}
