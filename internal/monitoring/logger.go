package monitoring

import (
	"log"
	"sync"
)

var mu sync.RWMutex

// Logf is the package-level diagnostic logger used by the analysis
// packages. It defaults to log.Printf and may be replaced by SetLogger.
// Batch runs log from several goroutines, so replace it only through
// SetLogger.
var Logf func(format string, v ...interface{}) = logf

var current func(format string, v ...interface{}) = log.Printf

func logf(format string, v ...interface{}) {
	mu.RLock()
	f := current
	mu.RUnlock()
	f(format, v...)
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		current = func(string, ...interface{}) {}
		return
	}
	current = f
}

// Warnf logs a per-session warning, such as an empty session or a
// degenerate trial, with a common prefix so batch output can be filtered.
func Warnf(sessionID, format string, v ...interface{}) {
	args := append([]interface{}{sessionID}, v...)
	Logf("[warn] session=%s "+format, args...)
}
