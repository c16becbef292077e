package store

import "fmt"

const archiveSchemaSQL = `
CREATE TABLE IF NOT EXISTS archive_files (
	path     TEXT PRIMARY KEY,
	checksum TEXT NOT NULL DEFAULT ''
);
`

// ArchiveChecksums returns the checksum recorded for every imported
// archive file, used to skip files that have not changed.
func (db *DB) ArchiveChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM archive_files`)
	if err != nil {
		return nil, fmt.Errorf("store: archive checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// SetArchiveChecksum records that an archive file was imported.
func (db *DB) SetArchiveChecksum(path, cs string) error {
	_, err := db.conn.Exec(`
		INSERT INTO archive_files (path, checksum) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET checksum = excluded.checksum
	`, path, cs)
	if err != nil {
		return fmt.Errorf("store: set archive checksum: %w", err)
	}
	return nil
}

// ForgetArchiveFile drops the import record for a removed archive file.
// Imported persons are never hard-deleted; only the checksum row goes.
func (db *DB) ForgetArchiveFile(path string) error {
	_, err := db.conn.Exec(`DELETE FROM archive_files WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("store: forget archive file: %w", err)
	}
	return nil
}
