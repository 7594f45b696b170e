package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# ReviewRAG configuration file
version: "1.0"

# Review corpus source
corpus:
  # CSV file holding the reviews
  path: ./reviews.csv
  # Text column: a header name, or a zero-based numeric index
  column: review

# Vector index
index:
  # Backend: disk (local JSON persistence) or qdrant (remote)
  backend: disk
  # Storage directory for the disk backend
  dir: ~/.cache/reviewrag
  # Collection name
  collection: catalog
  # Similarity floor for retrieval results; 0 disables filtering
  min_score: 0
  # Qdrant settings, used when backend is qdrant
  qdrant_url: http://localhost:6333
  qdrant_api_key: ""

# Model provider
model:
  # Provider: ollama or openai
  provider: ollama
  # API endpoint; leave empty for the provider default
  endpoint: http://localhost:11434
  # API key, required for openai (or set REVIEWRAG_MODEL_API_KEY)
  api_key: ""
  generation_model: llama3.2
  embedding_model: nomic-embed-text
  # Per-request timeout
  timeout: 60s
  temperature: 0.2

# Pipeline behavior
pipeline:
  # Reviews retrieved per query
  top_k: 5
  # Generation output cap in tokens
  max_tokens: 512
  # Wall-clock bound for one answer
  generation_timeout: 120s
  # Indexing: reviews per embedding batch, concurrent batches
  batch_size: 32
  workers: 4

# HTTP server (serve command)
server:
  listen: 127.0.0.1:8080

# Output
output:
  # Format: text or json
  default_format: text
  # Color: auto, always or never
  color_mode: auto
  verbose: false
`
}

// MinimalSampleConfig returns a compact configuration with essentials only
func MinimalSampleConfig() string {
	return `# ReviewRAG configuration
corpus:
  path: ./reviews.csv
  column: review

model:
  provider: ollama
  endpoint: http://localhost:11434

pipeline:
  top_k: 5
`
}
