// Package debug is the netcanvas diagnostic log.
//
// It is silent unless NC_DEBUG is set or a sink is installed with SetOutput.
// The TUI owns the terminal, so interactive sessions pass -debug-log to send
// the log to a file instead of stderr:
//
//	NC_DEBUG=1 netcanvas -export out.svg -tree network.json
//	netcanvas -tree network.json -debug-log /tmp/netcanvas.log
package debug

import (
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"
)

const prefix = "[NC_DEBUG] "

var logger atomic.Pointer[log.Logger]

func init() {
	if os.Getenv("NC_DEBUG") != "" {
		SetOutput(os.Stderr)
	}
}

// Enabled reports whether a sink is installed.
func Enabled() bool {
	return logger.Load() != nil
}

// SetOutput installs w as the sink. A nil w silences the log.
func SetOutput(w io.Writer) {
	if w == nil {
		logger.Store(nil)
		return
	}
	logger.Store(log.New(w, prefix, log.Ltime|log.Lmicroseconds))
}

// Log writes a printf-style line when enabled.
func Log(format string, args ...any) {
	if l := logger.Load(); l != nil {
		l.Printf(format, args...)
	}
}

// LogTiming records how long the named step took.
func LogTiming(name string, d time.Duration) {
	if l := logger.Load(); l != nil {
		l.Printf("%s took %v", name, d)
	}
}
