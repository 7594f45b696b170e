package qdrant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/yildizm/ReviewRAG/internal/vectorstore"
)

// Store is a minimal REST client to a Qdrant collection.
// It assumes cosine distance and creates the collection on first upsert,
// once the vector dimension is known.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client

	mu        sync.Mutex
	dimension int
}

// Config contains connection details for a Qdrant vector store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// New creates a Qdrant-backed store for the configured collection.
func New(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Upsert inserts or replaces the point for id.
func (s *Store) Upsert(id, text string, vector []float32) error {
	if err := s.ensureCollection(len(vector)); err != nil {
		return err
	}

	point := map[string]any{
		"id":     pointID(id),
		"vector": vector,
		"payload": map[string]any{
			"text": text,
		},
	}
	body := map[string]any{"points": []map[string]any{point}}
	return s.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Query returns up to topK points ranked by descending similarity.
func (s *Store) Query(vector []float32, topK int) ([]vectorstore.SearchResult, error) {
	if topK <= 0 {
		return []vectorstore.SearchResult{}, nil
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	if err := s.postJSON(url, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", vectorstore.ErrIndexUnavailable, err)
	}

	results := make([]vectorstore.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		result := vectorstore.SearchResult{Score: float32(r.Score), ID: fmt.Sprintf("%v", r.ID)}
		if text, ok := r.Payload["text"].(string); ok {
			result.Text = text
		}
		results = append(results, result)
	}
	return results, nil
}

// Close is a no-op; the store holds no persistent connections.
func (s *Store) Close() error {
	return nil
}

func (s *Store) ensureCollection(dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == dimension {
		return nil
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant returns 200 OK if the collection already exists with the same schema
	if err := s.putJSON(fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrIndexUnavailable, err)
	}
	s.dimension = dimension
	return nil
}

// pointID prefers Qdrant's native unsigned integer ids; corpus row
// positions parse directly.
func pointID(id string) any {
	if n, err := strconv.Atoi(id); err == nil && n >= 0 {
		return n
	}
	return id
}

func (s *Store) putJSON(url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Store) postJSON(url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
