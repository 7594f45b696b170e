package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/ReviewRAG/internal/rag"
)

// Answerer is the TUI-facing subset of the pipeline.
type Answerer interface {
	Answer(ctx context.Context, query string) (*rag.Answer, error)
}

// exchange is one question and its outcome in the transcript.
type exchange struct {
	query  string
	answer *rag.Answer
	err    error
}

type answerMsg struct {
	query  string
	answer *rag.Answer
	err    error
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	pipeline   Answerer
	input      textinput.Model
	viewport   viewport.Model
	transcript []exchange
	status     string
	waiting    bool
	ready      bool
}

// New creates a chat model over the given pipeline.
func New(pipeline Answerer) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the reviews and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		pipeline: pipeline,
		input:    ti,
		viewport: vp,
		status:   "Index loaded. Ask away.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, query box, spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case answerMsg:
		m.waiting = false
		m.transcript = append(m.transcript, exchange{
			query:  msg.query,
			answer: msg.answer,
			err:    msg.err,
		})
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Answered %q", msg.query)
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.String() == "esc" {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			query := strings.TrimSpace(m.input.Value())
			if query != "" {
				m.input.SetValue("")
				m.waiting = true
				m.status = "Thinking..."
				return m, m.ask(query)
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the pipeline off the UI goroutine
func (m Model) ask(query string) tea.Cmd {
	pipeline := m.pipeline
	return func() tea.Msg {
		answer, err := pipeline.Answer(context.Background(), query)
		return answerMsg{query: query, answer: answer, err: err}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("ReviewRAG Chat")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "No questions yet."
	}

	var b strings.Builder
	for i, ex := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(queryStyle.Render("You: " + ex.query))
		b.WriteString("\n")
		switch {
		case ex.err != nil:
			b.WriteString(errorStyle.Render("error: " + ex.err.Error()))
		case ex.answer.Parsed:
			b.WriteString(answerStyle.Render(ex.answer.ItemName))
			for _, theme := range ex.answer.CommonThemes {
				b.WriteString("\n  • " + theme)
			}
		default:
			b.WriteString(ex.answer.Text)
		}
	}
	return b.String()
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	queryStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
