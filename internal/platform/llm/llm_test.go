package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type scriptedProvider struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	calls   []string
	block   bool
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	p.mu.Lock()
	p.calls = append(p.calls, model)
	p.mu.Unlock()
	if p.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err := p.errs[model]; err != nil {
		return "", err
	}
	return p.replies[model], nil
}

func TestFallback_ReturnsFirstSuccessInOrder(t *testing.T) {
	p := &scriptedProvider{
		errs:    map[string]error{"a": errors.New("quota")},
		replies: map[string]string{"b": "from b", "c": "from c"},
	}
	f := NewFallback(logger.Nop(), p, []string{"a", "b", "c"}, 0)

	got, err := f.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "from b" {
		t.Fatalf("expected b's reply, got %q", got)
	}
	if strings.Join(p.calls, ",") != "a,b" {
		t.Fatalf("expected calls a,b got %v", p.calls)
	}
}

func TestFallback_EmptyReplyCountsAsFailure(t *testing.T) {
	p := &scriptedProvider{replies: map[string]string{"a": "   ", "b": "ok"}}
	f := NewFallback(logger.Nop(), p, []string{"a", "b"}, 0)

	got, err := f.Generate(context.Background(), "prompt")
	if err != nil || got != "ok" {
		t.Fatalf("expected ok, got %q err %v", got, err)
	}
}

func TestFallback_ExhaustedCarriesLastError(t *testing.T) {
	last := errors.New("model c unavailable")
	p := &scriptedProvider{errs: map[string]error{
		"a": errors.New("a down"),
		"b": errors.New("b down"),
		"c": last,
	}}
	f := NewFallback(logger.Nop(), p, []string{"a", "b", "a", "c", " "}, 0)

	_, err := f.Generate(context.Background(), "prompt")
	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %T %v", err, err)
	}
	if len(ex.Attempts) != 3 {
		t.Fatalf("expected duplicates and blanks dropped, got %d attempts", len(ex.Attempts))
	}
	if !errors.Is(err, last) {
		t.Fatalf("expected error to unwrap to last failure")
	}
	if !strings.Contains(err.Error(), "model c unavailable") {
		t.Fatalf("expected last message in error, got %q", err.Error())
	}
}

func TestFallback_NoModelsIsExhausted(t *testing.T) {
	f := NewFallback(logger.Nop(), &scriptedProvider{}, nil, 0)
	_, err := f.Generate(context.Background(), "prompt")
	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
}

func TestFallback_PerAttemptTimeoutMovesOn(t *testing.T) {
	p := &scriptedProvider{block: true}
	f := NewFallback(logger.Nop(), p, []string{"a", "b"}, 20*time.Millisecond)

	_, err := f.Generate(context.Background(), "prompt")
	var ex *ExhaustedError
	if !errors.As(err, &ex) || len(ex.Attempts) != 2 {
		t.Fatalf("expected both attempts to time out, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestFallback_CallerCancellationStopsLoop(t *testing.T) {
	p := &scriptedProvider{errs: map[string]error{"a": errors.New("down")}}
	f := NewFallback(logger.Nop(), p, []string{"a", "b"}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Generate(ctx, "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Fatalf("expected no provider calls, got %v", p.calls)
	}
}

func TestFallback_ObserverSeesEveryAttempt(t *testing.T) {
	p := &scriptedProvider{
		errs:    map[string]error{"a": errors.New("quota")},
		replies: map[string]string{"b": "fine"},
	}
	var seen []string
	f := NewFallback(logger.Nop(), p, []string{"a", "b"}, 0).
		WithObserver(func(model, outcome string, _ time.Duration) {
			seen = append(seen, model+":"+outcome)
		})

	if _, err := f.Generate(context.Background(), "prompt"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Join(seen, ",") != "a:error,b:ok" {
		t.Fatalf("unexpected observations: %v", seen)
	}
}
