package rag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yildizm/ReviewRAG/internal/logger"
	"github.com/yildizm/ReviewRAG/internal/model"
	"github.com/yildizm/ReviewRAG/internal/prompt"
)

// Stage identifies where the pipeline currently is, or where it failed.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageRetrieving Stage = "retrieving"
	StageComposing  Stage = "composing"
	StageGenerating Stage = "generating"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// StageError tags a pipeline failure with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Answer is the result of one pipeline run. Text always carries the raw
// generated output; ItemName and CommonThemes are filled only when the
// output parsed as the structured answer shape (Parsed reports which).
type Answer struct {
	Text         string
	ItemName     string
	CommonThemes []string
	Parsed       bool
	Retrieved    []string
	Elapsed      time.Duration
}

// Options configure a pipeline run.
type Options struct {
	// TopK is the number of reviews to retrieve per query
	TopK int

	// MaxTokens caps generation output length
	MaxTokens int

	// Timeout bounds the generation call wall-clock time. Zero means
	// the provider's own timeout applies.
	Timeout time.Duration

	// Temperature for generation; zero leaves the provider default
	Temperature float64
}

// DefaultOptions returns pipeline defaults
func DefaultOptions() Options {
	return Options{
		TopK:      5,
		MaxTokens: 512,
	}
}

// Orchestrator drives a query through retrieval, prompt composition and
// generation. Stages run strictly in order; the first failure aborts
// the run and no stage falls back to partial input.
type Orchestrator struct {
	retriever *Retriever
	generator model.Generator
	opts      Options
	logger    *logger.Logger

	mu    sync.RWMutex
	stage Stage
}

// NewOrchestrator creates a pipeline orchestrator
func NewOrchestrator(retriever *Retriever, generator model.Generator, opts Options, log *logger.Logger) *Orchestrator {
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultOptions().MaxTokens
	}
	if log == nil {
		log = logger.New("pipeline", nil)
	}
	return &Orchestrator{
		retriever: retriever,
		generator: generator,
		opts:      opts,
		logger:    log,
		stage:     StageIdle,
	}
}

// Stage returns the pipeline's current stage
func (o *Orchestrator) Stage() Stage {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.stage
}

func (o *Orchestrator) setStage(stage Stage) {
	o.mu.Lock()
	o.stage = stage
	o.mu.Unlock()
}

func (o *Orchestrator) fail(stage Stage, err error) (*Answer, error) {
	o.setStage(StageFailed)
	o.logger.ErrorWithFields("pipeline failed", []logger.Field{
		logger.F("stage", stage),
		logger.Error(err),
	})
	return nil, &StageError{Stage: stage, Err: err}
}

// Answer runs the full pipeline for one query.
func (o *Orchestrator) Answer(ctx context.Context, query string) (*Answer, error) {
	return o.AnswerK(ctx, query, 0)
}

// AnswerK runs the pipeline with a per-call retrieval width. A topK
// of zero or less falls back to the configured default.
func (o *Orchestrator) AnswerK(ctx context.Context, query string, topK int) (*Answer, error) {
	start := time.Now()
	if topK <= 0 {
		topK = o.opts.TopK
	}

	o.setStage(StageRetrieving)
	results, err := o.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return o.fail(StageRetrieving, err)
	}

	o.setStage(StageComposing)
	reviews := make([]string, 0, len(results))
	for _, result := range results {
		reviews = append(reviews, result.Text)
	}
	built := prompt.Compose(query, reviews)

	o.setStage(StageGenerating)
	genCtx := ctx
	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}
	resp, err := o.generator.Generate(genCtx, &model.GenerateRequest{
		Prompt:       built.String(),
		SystemPrompt: built.SystemPrompt,
		MaxTokens:    o.opts.MaxTokens,
		Temperature:  o.opts.Temperature,
	})
	if err != nil {
		return o.fail(StageGenerating, err)
	}

	o.setStage(StageDone)

	answer := &Answer{
		Text:      resp.Text,
		Retrieved: reviews,
		Elapsed:   time.Since(start),
	}
	// Parsing is attempted, never enforced; free-text output stands as-is.
	if parsed, ok := prompt.ParseAnswer(resp.Text); ok {
		answer.ItemName = parsed.ItemName
		answer.CommonThemes = parsed.CommonThemes
		answer.Parsed = true
	}

	o.logger.InfoWithFields("pipeline done", []logger.Field{
		logger.F("reviews", len(reviews)),
		logger.F("parsed", answer.Parsed),
		logger.Duration(answer.Elapsed),
	})
	return answer, nil
}
