package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	return seedUser(tb, ctx, tx, email, types.RoleUser, "pw")
}

// SeedAdmin creates an admin whose password is "secret123".
func SeedAdmin(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	return seedUser(tb, ctx, tx, email, types.RoleAdmin, string(hash))
}

func seedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role, password string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  password,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, creatorID uuid.UUID, title string) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:          uuid.New(),
		Title:       title,
		Description: title + " description",
		Price:       10,
		CreatorID:   creatorID,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, title string) *types.Topic {
	tb.Helper()
	t := &types.Topic{
		ID:          uuid.New(),
		Title:       title,
		Description: title + " description",
		CourseID:    courseID,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

func SeedPurchase(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) *types.Purchase {
	tb.Helper()
	p := &types.Purchase{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed purchase: %v", err)
	}
	return p
}

// SampleQuestions returns n questions whose correct answer is always "B".
func SampleQuestions(n int) []types.Question {
	out := make([]types.Question, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.Question{
			Question:      fmt.Sprintf("Question %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "B",
		})
	}
	return out
}

func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, topic *types.Topic, questions []types.Question) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		ID:        uuid.New(),
		TopicID:   topic.ID,
		CourseID:  topic.CourseID,
		Questions: datatypes.JSONSlice[types.Question](questions),
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedScore(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, quiz *types.Quiz, score, total int, at time.Time) *types.ScoreRecord {
	tb.Helper()
	r := &types.ScoreRecord{
		ID:             uuid.New(),
		UserID:         userID,
		QuizID:         quiz.ID,
		TopicID:        quiz.TopicID,
		CourseID:       quiz.CourseID,
		Score:          score,
		TotalQuestions: total,
		Answers:        datatypes.JSONSlice[types.AnswerDetail]{},
		SubmittedAt:    at,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed score: %v", err)
	}
	return r
}
