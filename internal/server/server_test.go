package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yildizm/ReviewRAG/internal/model"
	"github.com/yildizm/ReviewRAG/internal/rag"
)

type stubAnswerer struct {
	answer *rag.Answer
	err    error
	gotK   int
	gotQ   string
}

func (s *stubAnswerer) AnswerK(_ context.Context, query string, topK int) (*rag.Answer, error) {
	s.gotQ = query
	s.gotK = topK
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func postAnswer(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/answer", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Answer(t *testing.T) {
	answerer := &stubAnswerer{
		answer: &rag.Answer{
			Text:         `{"item_name": "latte", "common_themes": ["smooth"]}`,
			ItemName:     "latte",
			CommonThemes: []string{"smooth"},
			Parsed:       true,
		},
	}
	handler := New(answerer, nil).Handler()

	rec := postAnswer(t, handler, `{"query_text": "latte?", "k": 3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body)
	}

	var resp AnswerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ItemName != "latte" || !resp.Parsed {
		t.Errorf("unexpected response: %+v", resp)
	}
	if answerer.gotQ != "latte?" || answerer.gotK != 3 {
		t.Errorf("pipeline called with query %q, k %d", answerer.gotQ, answerer.gotK)
	}
}

func TestServer_Answer_BadRequests(t *testing.T) {
	handler := New(&stubAnswerer{answer: &rag.Answer{}}, nil).Handler()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "not json", body: "latte"},
		{name: "missing query", body: `{"k": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postAnswer(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestServer_Answer_MethodNotAllowed(t *testing.T) {
	handler := New(&stubAnswerer{}, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/answer", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestServer_Answer_StageErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantStage  string
	}{
		{
			name: "model unavailable during generation",
			err: &rag.StageError{
				Stage: rag.StageGenerating,
				Err:   model.NewProviderError(model.ErrTypeModelUnavailable, "model missing", "ollama"),
			},
			wantStatus: http.StatusBadGateway,
			wantStage:  "generating",
		},
		{
			name: "generation timeout",
			err: &rag.StageError{
				Stage: rag.StageGenerating,
				Err:   context.DeadlineExceeded,
			},
			wantStatus: http.StatusGatewayTimeout,
			wantStage:  "generating",
		},
		{
			name: "index failure during retrieval",
			err: &rag.StageError{
				Stage: rag.StageRetrieving,
				Err:   context.Canceled,
			},
			wantStatus: http.StatusInternalServerError,
			wantStage:  "retrieving",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := New(&stubAnswerer{err: tt.err}, nil).Handler()
			rec := postAnswer(t, handler, `{"query_text": "latte"}`)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Stage != tt.wantStage {
				t.Errorf("stage = %q, want %q", resp.Stage, tt.wantStage)
			}
			if resp.Error == "" {
				t.Error("expected a non-empty error message")
			}
		})
	}
}

func TestServer_Health(t *testing.T) {
	handler := New(&stubAnswerer{}, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q", rec.Body)
	}
}
