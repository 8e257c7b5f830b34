package fetch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manifest remembers, per URL, the validators and checksum of the last
// successful download so the next fetch can be conditional.
type Manifest struct {
	Version   string             `json:"version"`
	UpdatedAt time.Time          `json:"updated_at"`
	Entries   map[string]*Record `json:"entries"`
}

// Record describes one downloaded URL.
type Record struct {
	URL          string    `json:"url"`
	LocalPath    string    `json:"local_path"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	SizeBytes    int64     `json:"size_bytes"`
	SHA256       string    `json:"sha256"`
	FetchedAt    time.Time `json:"fetched_at"`
}

const manifestVersion = "1.0.0"

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Version:   manifestVersion,
		UpdatedAt: time.Now(),
		Entries:   make(map[string]*Record),
	}
}

// LoadManifest reads a manifest from disk. A missing file yields an empty manifest.
func LoadManifest(manifestPath string) (*Manifest, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	manifest := &Manifest{}
	if err := json.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if manifest.Entries == nil {
		manifest.Entries = make(map[string]*Record)
	}

	return manifest, nil
}

// Save writes the manifest to disk.
func (manifest *Manifest) Save(manifestPath string) error {
	manifest.UpdatedAt = time.Now()

	if err := os.MkdirAll(filepath.Dir(manifestPath), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Put stores the record for its URL, replacing any earlier one.
func (manifest *Manifest) Put(record *Record) {
	manifest.Entries[record.URL] = record
}

// Lookup returns the record for a URL, or nil.
func (manifest *Manifest) Lookup(url string) *Record {
	return manifest.Entries[url]
}
