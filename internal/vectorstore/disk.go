package vectorstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// DiskStore is a JSON-persisted vector collection. Entries live in memory
// and are written back to <dir>/<collection>.json on Flush and Close.
// Queries are safe under concurrent readers; writes are single-writer.
type DiskStore struct {
	mu      sync.RWMutex
	path    string
	entries map[string]Entry
	order   []string
	options DiskStoreOptions
	ticker  *time.Ticker
	done    chan struct{}
}

// OpenDiskStore opens the named collection under dir, creating the
// directory and an empty collection as needed. A directory or file that
// cannot be opened yields ErrIndexUnavailable.
func OpenDiskStore(dir, collection string, options ...DiskStoreOption) (*DiskStore, error) {
	opts := DiskStoreOptions{
		AutoSaveInterval: 5 * time.Minute,
	}
	for _, option := range options {
		option(&opts)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	store := &DiskStore{
		path:    filepath.Join(dir, collection+".json"),
		entries: make(map[string]Entry),
		options: opts,
		done:    make(chan struct{}),
	}

	if err := store.load(); err != nil {
		return nil, err
	}

	if opts.AutoSave && opts.AutoSaveInterval > 0 {
		store.ticker = time.NewTicker(opts.AutoSaveInterval)
		go store.autoSaveRoutine()
	}

	return store, nil
}

// Upsert inserts or replaces the entry for id. Replacement keeps the
// entry's original insertion position so tie-breaking stays stable.
func (ds *DiskStore) Upsert(id, text string, vector []float32) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.options.NormalizeVectors {
		vector = NormalizeVector(vector)
	}

	if _, exists := ds.entries[id]; !exists {
		ds.order = append(ds.order, id)
	}
	ds.entries[id] = Entry{
		ID:        id,
		Text:      text,
		Vector:    vector,
		Timestamp: time.Now(),
	}
	return nil
}

// Query returns up to topK entries ranked by descending cosine
// similarity, ties broken by insertion order.
func (ds *DiskStore) Query(vector []float32, topK int) ([]SearchResult, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if topK <= 0 || len(ds.entries) == 0 {
		return []SearchResult{}, nil
	}

	queryVector := vector
	if ds.options.NormalizeVectors {
		queryVector = NormalizeVector(vector)
	}

	type scored struct {
		result SearchResult
		rank   int
	}

	results := make([]scored, 0, len(ds.entries))
	for rank, id := range ds.order {
		entry := ds.entries[id]
		score := CosineSimilarity(queryVector, entry.Vector)
		if ds.options.MinScore > 0 && score < ds.options.MinScore {
			continue
		}
		results = append(results, scored{
			result: SearchResult{ID: entry.ID, Score: score, Text: entry.Text},
			rank:   rank,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].result.Score != results[j].result.Score {
			return results[i].result.Score > results[j].result.Score
		}
		return results[i].rank < results[j].rank
	})

	if topK > len(results) {
		topK = len(results)
	}

	searchResults := make([]SearchResult, topK)
	for i := 0; i < topK; i++ {
		searchResults[i] = results[i].result
	}
	return searchResults, nil
}

// Count returns the number of entries in the collection.
func (ds *DiskStore) Count() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.entries)
}

// Flush writes the collection to disk.
func (ds *DiskStore) Flush() error {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.saveUnsafe()
}

// Close stops the auto-save routine and persists the collection.
func (ds *DiskStore) Close() error {
	if ds.ticker != nil {
		ds.ticker.Stop()
		close(ds.done)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.saveUnsafe()
}

// collectionFile is the on-disk shape; entries are stored in insertion
// order so tie-breaking survives restarts.
type collectionFile struct {
	Entries []Entry `json:"entries"`
}

func (ds *DiskStore) load() error {
	data, err := os.ReadFile(ds.path) // #nosec G304 -- path derived from configured index dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	var file collectionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %v", ErrIndexUnavailable, ds.path, err)
	}

	for _, entry := range file.Entries {
		if _, exists := ds.entries[entry.ID]; !exists {
			ds.order = append(ds.order, entry.ID)
		}
		ds.entries[entry.ID] = entry
	}
	return nil
}

// saveUnsafe saves without acquiring locks (internal use).
func (ds *DiskStore) saveUnsafe() error {
	file := collectionFile{Entries: make([]Entry, 0, len(ds.order))}
	for _, id := range ds.order {
		file.Entries = append(file.Entries, ds.entries[id])
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	tmp := ds.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write collection file: %w", err)
	}
	return os.Rename(tmp, ds.path)
}

func (ds *DiskStore) autoSaveRoutine() {
	for {
		select {
		case <-ds.ticker.C:
			if err := ds.Flush(); err != nil {
				continue
			}
		case <-ds.done:
			return
		}
	}
}
