//go:build !libsql

package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver used by this build.
const DriverName = "sqlite3"

// openDB opens a local SQLite file. Hosted databases need the libsql build.
func openDB(dsn, _ string) (*sql.DB, error) {
	if isRemote(dsn) {
		return nil, fmt.Errorf("hosted database %q requires a build with -tags libsql", dsn)
	}
	if err := ensureDir(dsn); err != nil {
		return nil, err
	}
	return sql.Open(DriverName, fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", localPath(dsn)))
}
