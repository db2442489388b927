package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	"github.com/yungbote/learnpath-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
)

type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	release chan struct{}
	calls   atomic.Int32
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type testEnv struct {
	db              *gorm.DB
	userRepo        repos.UserRepo
	userTokenRepo   repos.UserTokenRepo
	courseRepo      repos.CourseRepo
	topicRepo       repos.TopicRepo
	purchaseRepo    repos.PurchaseRepo
	quizRepo        repos.QuizRepo
	scoreRecordRepo repos.ScoreRecordRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &testEnv{
		db:              db,
		userRepo:        repos.NewUserRepo(db, log),
		userTokenRepo:   repos.NewUserTokenRepo(db, log),
		courseRepo:      repos.NewCourseRepo(db, log),
		topicRepo:       repos.NewTopicRepo(db, log),
		purchaseRepo:    repos.NewPurchaseRepo(db, log),
		quizRepo:        repos.NewQuizRepo(db, log),
		scoreRecordRepo: repos.NewScoreRecordRepo(db, log),
	}
}

func requireAPIError(t *testing.T, err error, status int, code string) *apierr.Error {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apierr.Error, got %T: %v", err, err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("expected %d %s, got %d %s (%v)", status, code, ae.Status, ae.Code, ae)
	}
	return ae
}
