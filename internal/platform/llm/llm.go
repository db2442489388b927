// Package llm talks to text-generation providers. A Fallback walks a
// priority-ordered list of models on one backend and returns the first
// non-empty answer.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// Provider is one backend able to run a prompt against a named model.
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// Generator is what services depend on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var ErrEmptyResponse = errors.New("empty response")

type Attempt struct {
	Model string
	Err   error
}

// ExhaustedError reports that every candidate model failed. It unwraps to the last failure.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Last() error {
	if e == nil || len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

func (e *ExhaustedError) Error() string {
	if e == nil || len(e.Attempts) == 0 {
		return "no candidate models configured"
	}
	last := e.Attempts[len(e.Attempts)-1]
	return fmt.Sprintf("all %d models failed; last (%s): %v", len(e.Attempts), last.Model, last.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Last() }

type Fallback struct {
	log      *logger.Logger
	provider Provider
	models   []string
	timeout  time.Duration
	observe  AttemptObserver
}

// AttemptObserver is told about every model attempt. outcome is "ok" or "error".
type AttemptObserver func(model, outcome string, dur time.Duration)

// NewFallback tries models in order. timeout bounds each attempt; zero means no per-attempt bound.
func NewFallback(log *logger.Logger, provider Provider, models []string, timeout time.Duration) *Fallback {
	cleaned := make([]string, 0, len(models))
	seen := map[string]bool{}
	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		cleaned = append(cleaned, m)
	}
	return &Fallback{
		log:      log.With("service", "LLMFallback", "provider", provider.Name()),
		provider: provider,
		models:   cleaned,
		timeout:  timeout,
	}
}

// WithObserver registers fn for per-attempt telemetry and returns f.
func (f *Fallback) WithObserver(fn AttemptObserver) *Fallback {
	f.observe = fn
	return f
}

func (f *Fallback) Models() []string {
	out := make([]string, len(f.models))
	copy(out, f.models)
	return out
}

func (f *Fallback) Generate(ctx context.Context, prompt string) (string, error) {
	exhausted := &ExhaustedError{}
	for _, model := range f.models {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		start := time.Now()
		text, err := f.attempt(ctx, model, prompt)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
		if f.observe != nil {
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			f.observe(model, outcome, time.Since(start))
		}
		if err == nil {
			f.log.Debug("Model succeeded", "model", model, "duration_ms", time.Since(start).Milliseconds())
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		f.log.Warn("Model failed, trying next candidate",
			"model", model,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		exhausted.Attempts = append(exhausted.Attempts, Attempt{Model: model, Err: err})
	}
	f.log.Error("All candidate models failed", "attempts", len(exhausted.Attempts))
	return "", exhausted
}

func (f *Fallback) attempt(ctx context.Context, model, prompt string) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	return f.provider.GenerateText(ctx, model, prompt)
}
