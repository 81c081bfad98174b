//go:build libsql

package store

import (
	"database/sql"

	_ "github.com/tursodatabase/go-libsql"
)

// DriverName is the database/sql driver used by this build.
const DriverName = "libsql"

// openDB opens either a hosted Turso database over HTTP or a local libSQL file.
func openDB(dsn, authToken string) (*sql.DB, error) {
	if isRemote(dsn) {
		return sql.Open(DriverName, withAuthToken(dsn, authToken))
	}
	if err := ensureDir(dsn); err != nil {
		return nil, err
	}
	return sql.Open(DriverName, "file:"+localPath(dsn))
}
