// Package relaylog is the structured logging convention shared by every
// component above the pure codec: a level tag plus a field map, printed
// through the standard library's log.Logger. It generalizes the
// logInfo/logError helper pair the relay's websocket hub used, rather
// than introducing a third-party structured logger — nothing in the
// examined dependency pack declares one, so stdlib log stays the grain
// of the wood here.
package relaylog

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

// Fields is an ordered-on-print set of key/value pairs attached to a log
// line. Nil is valid and prints nothing.
type Fields map[string]any

// Logger wraps a standard library *log.Logger with level-tagged,
// field-carrying output. The zero value is not usable; construct one
// with New.
type Logger struct {
	std *log.Logger
}

// New returns a Logger writing to os.Stderr, the injected sink §6
// accepts as sufficient for the core's logging needs.
func New() *Logger {
	return &Logger{std: log.New(os.Stderr, "", log.LstdFlags)}
}

// NewTo returns a Logger writing to an arbitrary destination, mainly so
// tests can capture and assert on output.
func NewTo(w interface{ Write([]byte) (int, error) }) *Logger {
	return &Logger{std: log.New(w, "", log.LstdFlags)}
}

func (l *Logger) log(level, msg string, fields Fields) {
	if l == nil {
		return
	}
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(level)
	b.WriteString("] ")
	b.WriteString(msg)
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" |")
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	l.std.Println(b.String())
}

func (l *Logger) Info(msg string, fields Fields)  { l.log("INFO", msg, fields) }
func (l *Logger) Warn(msg string, fields Fields)  { l.log("WARN", msg, fields) }
func (l *Logger) Error(msg string, fields Fields) { l.log("ERROR", msg, fields) }
