package vectorstore

import "time"

// Entry represents a stored vector with its source text.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Vector    []float32 `json:"vector"`
	Timestamp time.Time `json:"timestamp"`
}

// DiskStoreOptions configures the disk-backed vector store.
type DiskStoreOptions struct {
	AutoSave         bool
	AutoSaveInterval time.Duration
	NormalizeVectors bool
	MinScore         float32
}

// DiskStoreOption is a function type for configuring DiskStore.
type DiskStoreOption func(*DiskStoreOptions)

// WithAutoSave enables periodic saving to disk.
func WithAutoSave(interval time.Duration) DiskStoreOption {
	return func(opts *DiskStoreOptions) {
		opts.AutoSave = true
		opts.AutoSaveInterval = interval
	}
}

// WithNormalization enables automatic vector normalization.
func WithNormalization() DiskStoreOption {
	return func(opts *DiskStoreOptions) {
		opts.NormalizeVectors = true
	}
}

// WithMinScore drops query results scoring below the cutoff.
// Zero disables the cutoff.
func WithMinScore(score float32) DiskStoreOption {
	return func(opts *DiskStoreOptions) {
		opts.MinScore = score
	}
}
