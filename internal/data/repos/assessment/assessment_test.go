package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/learnpath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
)

func TestQuizRepo_CreateIfAbsent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	admin := testutil.SeedAdmin(t, ctx, tx, "admin@example.com")
	course := testutil.SeedCourse(t, ctx, tx, admin.ID, "Go")
	topic := testutil.SeedTopic(t, ctx, tx, course.ID, "Loops")
	repo := NewQuizRepo(db, testutil.Logger(t))

	first := &types.Quiz{TopicID: topic.ID, CourseID: course.ID, Questions: datatypes.JSONSlice[types.Question](testutil.SampleQuestions(3))}
	stored, created, err := repo.CreateIfAbsent(dbc, first)
	if err != nil {
		t.Fatalf("CreateIfAbsent: %v", err)
	}
	if !created || stored.ID != first.ID {
		t.Fatalf("expected first insert to win, got created=%v id=%s", created, stored.ID)
	}

	second := &types.Quiz{TopicID: topic.ID, CourseID: course.ID, Questions: datatypes.JSONSlice[types.Question](testutil.SampleQuestions(5))}
	stored, created, err = repo.CreateIfAbsent(dbc, second)
	if err != nil {
		t.Fatalf("CreateIfAbsent (dup): %v", err)
	}
	if created {
		t.Fatalf("expected duplicate insert to be skipped")
	}
	if stored.ID != first.ID || len(stored.Questions) != 3 {
		t.Fatalf("expected existing quiz returned, got id=%s questions=%d", stored.ID, len(stored.Questions))
	}

	byTopic, err := repo.GetByTopicID(dbc, topic.ID)
	if err != nil || byTopic == nil || byTopic.ID != first.ID {
		t.Fatalf("GetByTopicID: got %+v err %v", byTopic, err)
	}
	if byTopic.Questions[0].CorrectAnswer != "B" || len(byTopic.Questions[0].Options) != 4 {
		t.Fatalf("questions did not round-trip: %+v", byTopic.Questions[0])
	}

	none, err := repo.GetByTopicID(dbc, uuid.New())
	if err != nil || none != nil {
		t.Fatalf("GetByTopicID (missing): expected nil, nil got %+v %v", none, err)
	}
	byID, err := repo.GetByID(dbc, first.ID)
	if err != nil || byID == nil {
		t.Fatalf("GetByID: got %+v err %v", byID, err)
	}
}

func TestScoreRecordRepo_NewestFirst(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	admin := testutil.SeedAdmin(t, ctx, tx, "admin@example.com")
	learner := testutil.SeedUser(t, ctx, tx, "learner@example.com")
	course := testutil.SeedCourse(t, ctx, tx, admin.ID, "Go")
	topic := testutil.SeedTopic(t, ctx, tx, course.ID, "Loops")
	quiz := testutil.SeedQuiz(t, ctx, tx, topic, testutil.SampleQuestions(4))
	repo := NewScoreRecordRepo(db, testutil.Logger(t))

	base := time.Now().UTC().Add(-time.Hour)
	older := &types.ScoreRecord{
		UserID: learner.ID, QuizID: quiz.ID, TopicID: topic.ID, CourseID: course.ID,
		Score: 1, TotalQuestions: 4, SubmittedAt: base,
		Answers: datatypes.JSONSlice[types.AnswerDetail]{{Question: "q", SelectedAnswer: "A", CorrectAnswer: "B"}},
	}
	newer := &types.ScoreRecord{
		UserID: learner.ID, QuizID: quiz.ID, TopicID: topic.ID, CourseID: course.ID,
		Score: 4, TotalQuestions: 4, SubmittedAt: base.Add(30 * time.Minute),
		Answers: datatypes.JSONSlice[types.AnswerDetail]{},
	}
	if _, err := repo.Create(dbc, []*types.ScoreRecord{older, newer}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SeedScore(t, ctx, tx, admin.ID, quiz, 2, 4, base)

	rows, err := repo.GetByUserID(dbc, learner.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 records for learner, got %d", len(rows))
	}
	if rows[0].ID != newer.ID {
		t.Fatalf("expected newest first")
	}
	if len(rows[1].Answers) != 1 || rows[1].Answers[0].SelectedAnswer != "A" {
		t.Fatalf("answers did not round-trip: %+v", rows[1].Answers)
	}
}
