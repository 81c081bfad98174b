package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// isRemote reports whether dsn points at a hosted libSQL database.
func isRemote(dsn string) bool {
	for _, scheme := range []string{"libsql://", "https://", "http://", "wss://", "ws://"} {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}

// localPath strips a file: prefix and query string from a local DSN.
func localPath(dsn string) string {
	clean := strings.TrimPrefix(dsn, "file:")
	return strings.Split(clean, "?")[0]
}

// isMemory reports whether dsn names an in-memory database.
func isMemory(dsn string) bool {
	return localPath(dsn) == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// ensureDir creates the parent directory of a local database file.
func ensureDir(dsn string) error {
	path := localPath(dsn)
	if path == "" || isMemory(dsn) {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %q: %w", dir, err)
	}
	return nil
}

// withAuthToken appends a Turso auth token to a remote URL.
func withAuthToken(dsn, token string) string {
	if token == "" || strings.Contains(dsn, "authToken=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "authToken=" + token
}
