package stores

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/scribe/internal/data/db"
)

// IsBusyError returns true if the error is a SQLITE_BUSY error.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsCorruptionError returns true if the error indicates database corruption.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database")
}

// busyRetries bounds write retries after SQLITE_BUSY, on top of the
// connection's busy_timeout.
const busyRetries = 3

// retryBusy runs fn until it succeeds, fails with a non-busy error, or the
// retries run out.
func retryBusy(ctx context.Context, fn func() error) error {
	var err error
	for attempt := range busyRetries {
		err = fn()
		if !IsBusyError(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
	return err
}

// OpenWithRecovery opens the database in dataDir. A corrupt database is
// moved aside and a fresh one created; the decision log is a convenience
// and never worth refusing to start over.
func OpenWithRecovery(dataDir string, opts db.OpenOptions) (*db.DB, error) {
	database, err := db.Open(dataDir, opts)
	if err == nil || !IsCorruptionError(err) {
		return database, err
	}

	if err := RecoverFromCorruption(dataDir); err != nil {
		return nil, err
	}
	return db.Open(dataDir, opts)
}

// RecoverFromCorruption moves a corrupted database and its WAL and SHM
// files aside so a new database can be created.
func RecoverFromCorruption(dataDir string) error {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupPath := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	for _, suffix := range []string{"", "-wal", "-shm"} {
		src := dbPath + suffix
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, backupPath+suffix); err != nil {
			// Orphaned WAL/SHM files must not survive into the new database.
			if delErr := os.Remove(src); delErr != nil {
				return fmt.Errorf("failed to move aside %s: %w", src, err)
			}
		}
	}

	return nil
}
