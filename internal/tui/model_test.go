package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/ReviewRAG/internal/rag"
)

type stubPipeline struct {
	answer *rag.Answer
	err    error
}

func (s *stubPipeline) Answer(context.Context, string) (*rag.Answer, error) {
	return s.answer, s.err
}

func TestModel_AnswerUpdatesTranscript(t *testing.T) {
	m := New(&stubPipeline{})
	updated, _ := m.Update(answerMsg{
		query: "latte?",
		answer: &rag.Answer{
			ItemName:     "latte",
			CommonThemes: []string{"smooth"},
			Parsed:       true,
		},
	})
	model := updated.(Model)

	transcript := model.renderTranscript()
	for _, want := range []string{"latte?", "latte", "smooth"} {
		if !strings.Contains(transcript, want) {
			t.Errorf("transcript missing %q:\n%s", want, transcript)
		}
	}
	if model.waiting {
		t.Error("model should stop waiting once the answer arrives")
	}
}

func TestModel_AnswerErrorShownInStatus(t *testing.T) {
	m := New(&stubPipeline{})
	updated, _ := m.Update(answerMsg{query: "latte?", err: errors.New("index unavailable")})
	model := updated.(Model)

	if !strings.Contains(model.status, "index unavailable") {
		t.Errorf("status = %q", model.status)
	}
	if !strings.Contains(model.renderTranscript(), "index unavailable") {
		t.Error("transcript should record the failure")
	}
}

func TestModel_EnterDispatchesQuery(t *testing.T) {
	m := New(&stubPipeline{answer: &rag.Answer{Text: "fine"}})
	m.input.SetValue("how is the espresso?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)

	if cmd == nil {
		t.Fatal("expected a command to run the pipeline")
	}
	if !model.waiting {
		t.Error("model should be waiting after dispatch")
	}
	if model.input.Value() != "" {
		t.Error("input should clear after dispatch")
	}

	msg := cmd()
	answer, ok := msg.(answerMsg)
	if !ok {
		t.Fatalf("command produced %T, want answerMsg", msg)
	}
	if answer.query != "how is the espresso?" {
		t.Errorf("query = %q", answer.query)
	}
	if answer.answer == nil || answer.answer.Text != "fine" {
		t.Errorf("answer = %+v", answer.answer)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := New(&stubPipeline{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
