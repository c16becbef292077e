package archive

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/hearthhq/hearth/internal/checksum"
	"github.com/hearthhq/hearth/internal/storage"
	"github.com/hearthhq/hearth/internal/store"
)

// Sync walks the archive directory and imports every new or changed file:
//   - files whose checksum matches the recorded one are skipped
//   - files removed from disk lose their import record (the persons they
//     created stay; persons are never hard-deleted)
//
// Malformed files are logged and skipped, never fatal: a bad export must
// not block the rest of the archive.
func Sync(db store.Store, files storage.Provider, logger *slog.Logger) error {
	metas, err := files.List("")
	if err != nil {
		return err
	}

	imported, err := db.ArchiveChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if imported[m.Path] == m.Checksum {
			continue
		}

		data, err := files.Read(m.Path)
		if err != nil {
			logger.Warn("archive: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := importFile(db, m.Path, data, logger); err != nil {
			logger.Warn("archive: import failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		}
	}

	// Forget files no longer on disk.
	for p := range imported {
		if _, ok := disk[p]; !ok {
			if err := db.ForgetArchiveFile(p); err != nil {
				logger.Warn("archive: forget failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("archive: forgot removed file", slog.String("path", p))
			}
		}
	}

	return nil
}

// importFile decodes data and upserts its records; the file checksum is
// recorded only after every valid record was applied, so a failed import
// retries on the next pass. Records are upserted by id, making re-import
// of the same file idempotent.
func importFile(db store.Store, path string, data []byte, logger *slog.Logger) error {
	records, err := decode(data)
	if err != nil {
		return err
	}

	applied := 0
	for _, r := range records {
		if err := r.validate(); err != nil {
			logger.Warn("archive: skipping record", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		id := r.ID
		if id == "" {
			id = "anc-" + uuid.NewString()
		}
		if _, err := db.PutPerson(r.HouseholdID, id, r.patch()); err != nil {
			return err
		}
		applied++
	}

	if err := db.SetArchiveChecksum(path, checksum.Sum(data)); err != nil {
		return err
	}
	logger.Info("archive: imported",
		slog.String("path", path),
		slog.Int("records", applied))
	return nil
}
