// Package storage defines the archive-directory file abstraction used by
// the ancestor import pipeline.
package storage

import "time"

// FileMeta is lightweight metadata for one archive file.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for archive file operations.
type Provider interface {
	// List returns metadata for every .json file under dir (relative to the archive root).
	List(dir string) ([]FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to the archive root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the archive root).
	Write(path string, content []byte) error
}
