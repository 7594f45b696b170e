package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yildizm/ReviewRAG/internal/logger"
	"github.com/yildizm/ReviewRAG/internal/model"
	"github.com/yildizm/ReviewRAG/internal/rag"
)

// Answerer is the part of the pipeline the server needs.
type Answerer interface {
	AnswerK(ctx context.Context, query string, topK int) (*rag.Answer, error)
}

// AnswerRequest is the body of POST /v1/answer
type AnswerRequest struct {
	QueryText string `json:"query_text"`
	K         int    `json:"k,omitempty"`
}

// AnswerResponse is the success body of POST /v1/answer
type AnswerResponse struct {
	AnswerText   string   `json:"answer_text"`
	ItemName     string   `json:"item_name,omitempty"`
	CommonThemes []string `json:"common_themes,omitempty"`
	Parsed       bool     `json:"parsed"`
}

// ErrorResponse is the failure body of POST /v1/answer
type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// Server exposes the answer pipeline over HTTP.
type Server struct {
	answerer Answerer
	logger   *logger.Logger
}

// New creates an HTTP server around the given pipeline
func New(answerer Answerer, log *logger.Logger) *Server {
	if log == nil {
		log = logger.New("server", nil)
	}
	return &Server{answerer: answerer, logger: log}
}

// Handler returns the HTTP handler tree
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/answer", s.handleAnswer)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.QueryText == "" {
		s.writeError(w, http.StatusBadRequest, "query_text must not be empty", "")
		return
	}

	answer, err := s.answerer.AnswerK(r.Context(), req.QueryText, req.K)
	if err != nil {
		status, stage := classifyError(err)
		s.logger.ErrorWithFields("answer failed", []logger.Field{
			logger.F("stage", stage),
			logger.Error(err),
		})
		s.writeError(w, status, err.Error(), stage)
		return
	}

	s.writeJSON(w, http.StatusOK, &AnswerResponse{
		AnswerText:   answer.Text,
		ItemName:     answer.ItemName,
		CommonThemes: answer.CommonThemes,
		Parsed:       answer.Parsed,
	})
}

// classifyError maps pipeline failures to HTTP status codes and pulls
// out the stage tag when present.
func classifyError(err error) (status int, stage string) {
	status = http.StatusInternalServerError

	var stageErr *rag.StageError
	if errors.As(err, &stageErr) {
		stage = string(stageErr.Stage)
	}

	switch {
	case model.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case model.IsModelUnavailable(err):
		status = http.StatusBadGateway
	}
	return status, stage
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg, stage string) {
	s.writeJSON(w, status, &ErrorResponse{Error: msg, Stage: stage})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response: %v", err)
	}
}
