package services

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
)

type analyticsFixture struct {
	env     *testEnv
	learner *types.User
	course  *types.Course
	topics  map[string]*types.Topic
	quizzes map[string]*types.Quiz
	at      time.Time
}

func newAnalyticsFixture(t *testing.T, titles ...string) *analyticsFixture {
	t.Helper()
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.SeedAdmin(t, ctx, env.db, "admin@example.com")
	f := &analyticsFixture{
		env:     env,
		learner: testutil.SeedUser(t, ctx, env.db, "learner@example.com"),
		course:  testutil.SeedCourse(t, ctx, env.db, admin.ID, "Course"),
		topics:  map[string]*types.Topic{},
		quizzes: map[string]*types.Quiz{},
		at:      time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, title := range titles {
		topic := testutil.SeedTopic(t, ctx, env.db, f.course.ID, title)
		f.topics[title] = topic
		f.quizzes[title] = testutil.SeedQuiz(t, ctx, env.db, topic, testutil.SampleQuestions(4))
	}
	return f
}

func (f *analyticsFixture) score(t *testing.T, title string, score, total int) {
	t.Helper()
	f.at = f.at.Add(time.Minute)
	testutil.SeedScore(t, context.Background(), f.env.db, f.learner.ID, f.quizzes[title], score, total, f.at)
}

func (f *analyticsFixture) service(t *testing.T, gen *fakeGenerator) AnalyticsService {
	t.Helper()
	if gen == nil {
		gen = &fakeGenerator{text: "study plan"}
	}
	e := f.env
	return NewAnalyticsService(e.db, testutil.Logger(t), e.scoreRecordRepo, e.topicRepo, e.courseRepo, e.purchaseRepo, gen, 0)
}

func TestWeakTopics(t *testing.T) {
	f := newAnalyticsFixture(t, "Algebra", "Biology", "Chemistry", "Databases")
	f.score(t, "Algebra", 1, 4)   // 25
	f.score(t, "Algebra", 2, 4)   // 50 -> mean 37.5
	f.score(t, "Biology", 3, 5)   // 60, not weak
	f.score(t, "Chemistry", 1, 3) // 33.3
	f.score(t, "Databases", 2, 4) // 50
	f.score(t, "Databases", 1, 4) // 25 -> mean 37.5

	got, err := f.service(t, nil).WeakTopics(context.Background(), f.learner.ID)
	if err != nil {
		t.Fatalf("WeakTopics: %v", err)
	}
	var titles []string
	var scores []int
	for _, w := range got {
		titles = append(titles, w.TopicTitle)
		scores = append(scores, w.AverageScore)
	}
	if !reflect.DeepEqual(titles, []string{"Chemistry", "Algebra", "Databases"}) {
		t.Fatalf("unexpected order: %v", titles)
	}
	if !reflect.DeepEqual(scores, []int{33, 38, 38}) {
		t.Fatalf("unexpected scores: %v", scores)
	}
	if got[0].TopicID != f.topics["Chemistry"].ID {
		t.Fatalf("topic id not carried through")
	}
}

func TestWeakTopics_MeanAtThresholdIsNotWeak(t *testing.T) {
	f := newAnalyticsFixture(t, "Graphs")
	f.score(t, "Graphs", 4, 5) // 80
	f.score(t, "Graphs", 2, 5) // 40 -> mean exactly 60

	got, err := f.service(t, nil).WeakTopics(context.Background(), f.learner.ID)
	if err != nil {
		t.Fatalf("WeakTopics: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("mean of 60 should not be weak, got %+v", got)
	}
}

func TestWeakTopics_UnknownTopicAndEmpty(t *testing.T) {
	f := newAnalyticsFixture(t, "Gone")
	f.score(t, "Gone", 0, 4)
	ctx := context.Background()
	if err := f.env.topicRepo.SoftDeleteByIDs(dbctx.Of(ctx), []uuid.UUID{f.topics["Gone"].ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	svc := f.service(t, nil)

	got, err := svc.WeakTopics(ctx, f.learner.ID)
	if err != nil {
		t.Fatalf("WeakTopics: %v", err)
	}
	if len(got) != 1 || got[0].TopicTitle != "Unknown Topic" || got[0].AverageScore != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}

	none, err := svc.WeakTopics(ctx, uuid.New())
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %v / %v", none, err)
	}
}

func TestAnalytics(t *testing.T) {
	f := newAnalyticsFixture(t, "Algebra", "Biology")
	f.score(t, "Algebra", 1, 2) // 50
	f.score(t, "Algebra", 2, 3) // 66.67 -> mean 58.33
	f.score(t, "Biology", 4, 4) // 100

	report, err := f.service(t, nil).Analytics(context.Background(), f.learner.ID)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	want := []TopicAccuracy{{Topic: "Algebra", Accuracy: 58}, {Topic: "Biology", Accuracy: 100}}
	if !reflect.DeepEqual(report.Analytics, want) {
		t.Fatalf("analytics=%+v, want %+v", report.Analytics, want)
	}
	// overall = round((58.333 + 100) / 2) = 79
	wantStats := AnalyticsStats{TotalQuizzes: 3, WeakTopicsCount: 1, OverallAccuracy: 79}
	if report.Stats != wantStats {
		t.Fatalf("stats=%+v, want %+v", report.Stats, wantStats)
	}
}

func TestAnalytics_StatsFollowRoundedAccuracy(t *testing.T) {
	f := newAnalyticsFixture(t, "A", "B", "Edge")
	f.score(t, "A", 5, 8)        // 62.5 -> 63
	f.score(t, "B", 1, 2)        // 50
	f.score(t, "Edge", 149, 250) // 59.6 -> 60, listed and counted as not weak

	report, err := f.service(t, nil).Analytics(context.Background(), f.learner.ID)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	want := []TopicAccuracy{{Topic: "A", Accuracy: 63}, {Topic: "B", Accuracy: 50}, {Topic: "Edge", Accuracy: 60}}
	if !reflect.DeepEqual(report.Analytics, want) {
		t.Fatalf("analytics=%+v, want %+v", report.Analytics, want)
	}
	// overall = round((63 + 50 + 60) / 3) = 58
	wantStats := AnalyticsStats{TotalQuizzes: 3, WeakTopicsCount: 1, OverallAccuracy: 58}
	if report.Stats != wantStats {
		t.Fatalf("stats=%+v, want %+v", report.Stats, wantStats)
	}
}

func TestAnalytics_OverallIsMeanOfListedAccuracies(t *testing.T) {
	f := newAnalyticsFixture(t, "A", "B")
	f.score(t, "A", 5, 8) // 63
	f.score(t, "B", 1, 2) // 50

	report, err := f.service(t, nil).Analytics(context.Background(), f.learner.ID)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	// round((63 + 50) / 2) = 57, while the unrounded means would give 56.
	if report.Stats.OverallAccuracy != 57 || report.Stats.WeakTopicsCount != 1 {
		t.Fatalf("unexpected stats: %+v", report.Stats)
	}
}

func TestAnalytics_NoRecords(t *testing.T) {
	f := newAnalyticsFixture(t)
	report, err := f.service(t, nil).Analytics(context.Background(), f.learner.ID)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if len(report.Analytics) != 0 || report.Stats != (AnalyticsStats{}) {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestRecommendations(t *testing.T) {
	f := newAnalyticsFixture(t, "Algebra", "Biology", "Chemistry")
	ctx := context.Background()
	testutil.SeedPurchase(t, ctx, f.env.db, f.learner.ID, f.course.ID)
	f.score(t, "Algebra", 1, 4) // weak
	f.score(t, "Biology", 4, 4) // strong

	gen := &fakeGenerator{text: "1. Revisit Algebra"}
	got, err := f.service(t, gen).Recommendations(ctx, f.learner.ID)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if got.Recommendations != "1. Revisit Algebra" {
		t.Fatalf("expected raw provider text, got %q", got.Recommendations)
	}
	if !reflect.DeepEqual(got.WeakTopics, []string{"Algebra"}) ||
		!reflect.DeepEqual(got.StrongTopics, []string{"Biology"}) ||
		!reflect.DeepEqual(got.RemainingTopics, []string{"Chemistry"}) {
		t.Fatalf("unexpected buckets: %+v", got)
	}
	prompt := gen.lastPrompt()
	for _, want := range []string{"(Strong): Biology", "(Need Revision): Algebra", "Remaining Topics: Chemistry"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestRecommendations_EmptyListsAndFailure(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()

	gen := &fakeGenerator{text: "Start anywhere"}
	got, err := f.service(t, gen).Recommendations(ctx, f.learner.ID)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(got.WeakTopics)+len(got.StrongTopics)+len(got.RemainingTopics) != 0 {
		t.Fatalf("expected empty buckets, got %+v", got)
	}
	if strings.Count(gen.lastPrompt(), "None") != 3 {
		t.Fatalf("expected None for every empty list:\n%s", gen.lastPrompt())
	}

	failing := &fakeGenerator{err: errors.New("all models failed")}
	_, err = f.service(t, failing).Recommendations(ctx, f.learner.ID)
	requireAPIError(t, err, http.StatusInternalServerError, "provider_failure")
}

func TestExplainTopic(t *testing.T) {
	f := newAnalyticsFixture(t, "Recursion")
	ctx := context.Background()
	gen := &fakeGenerator{text: "Recursion is a function calling itself."}
	svc := f.service(t, gen)

	got, err := svc.ExplainTopic(ctx, f.topics["Recursion"].ID)
	if err != nil {
		t.Fatalf("ExplainTopic: %v", err)
	}
	if got.TopicTitle != "Recursion" || got.Explanation != gen.text {
		t.Fatalf("unexpected explanation: %+v", got)
	}
	for _, want := range []string{"Topic: Recursion", "Description: Recursion description", "Course: Course"} {
		if !strings.Contains(gen.lastPrompt(), want) {
			t.Fatalf("prompt missing %q", want)
		}
	}

	_, err = svc.ExplainTopic(ctx, uuid.New())
	requireAPIError(t, err, http.StatusNotFound, "topic_not_found")
	if gen.calls.Load() != 1 {
		t.Fatalf("provider must not be called for a missing topic")
	}
}
