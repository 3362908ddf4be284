package db

import (
	"strings"
	"time"
)

const (
	busyRetries    = 5
	busyRetryDelay = 20 * time.Millisecond
)

// isBusy reports whether err is SQLite refusing the write because another
// connection holds the lock.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy runs fn, retrying with a doubling delay while it fails with a
// busy error. Batch runs write from several goroutines at once.
func retryOnBusy(fn func() error) error {
	delay := busyRetryDelay
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		if err = fn(); !isBusy(err) {
			return err
		}
		time.Sleep(delay)
		delay *= 2
	}
	return err
}
