package services

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/llm"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

const (
	DefaultWeakThreshold = 60.0
	unknownTopicTitle    = "Unknown Topic"
)

type WeakTopic struct {
	TopicID      uuid.UUID `json:"topicId"`
	TopicTitle   string    `json:"topicTitle"`
	AverageScore int       `json:"averageScore"`
}

type TopicAccuracy struct {
	Topic    string `json:"topic"`
	Accuracy int    `json:"accuracy"`
}

type AnalyticsStats struct {
	TotalQuizzes    int `json:"totalQuizzes"`
	WeakTopicsCount int `json:"weakTopicsCount"`
	OverallAccuracy int `json:"overallAccuracy"`
}

type AnalyticsReport struct {
	Analytics []TopicAccuracy `json:"analytics"`
	Stats     AnalyticsStats  `json:"stats"`
}

type Recommendations struct {
	Recommendations string   `json:"recommendations"`
	WeakTopics      []string `json:"weakTopics"`
	StrongTopics    []string `json:"strongTopics"`
	RemainingTopics []string `json:"remainingTopics"`
}

type TopicExplanation struct {
	TopicTitle  string `json:"topicTitle"`
	Explanation string `json:"explanation"`
}

type AnalyticsService interface {
	WeakTopics(ctx context.Context, userID uuid.UUID) ([]WeakTopic, error)
	Analytics(ctx context.Context, userID uuid.UUID) (*AnalyticsReport, error)
	Recommendations(ctx context.Context, userID uuid.UUID) (*Recommendations, error)
	ExplainTopic(ctx context.Context, topicID uuid.UUID) (*TopicExplanation, error)
}

type analyticsService struct {
	db              *gorm.DB
	log             *logger.Logger
	scoreRecordRepo repos.ScoreRecordRepo
	topicRepo       repos.TopicRepo
	courseRepo      repos.CourseRepo
	purchaseRepo    repos.PurchaseRepo
	generator       llm.Generator
	weakThreshold   float64
}

func NewAnalyticsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	scoreRecordRepo repos.ScoreRecordRepo,
	topicRepo repos.TopicRepo,
	courseRepo repos.CourseRepo,
	purchaseRepo repos.PurchaseRepo,
	generator llm.Generator,
	weakThreshold float64,
) AnalyticsService {
	if weakThreshold <= 0 {
		weakThreshold = DefaultWeakThreshold
	}
	return &analyticsService{
		db:              db,
		log:             baseLog.With("service", "AnalyticsService"),
		scoreRecordRepo: scoreRecordRepo,
		topicRepo:       topicRepo,
		courseRepo:      courseRepo,
		purchaseRepo:    purchaseRepo,
		generator:       generator,
		weakThreshold:   weakThreshold,
	}
}

// topicStat accumulates per-record accuracies with equal weight per record.
type topicStat struct {
	topicID uuid.UUID
	title   string
	sum     float64
	n       int
}

func (s *topicStat) add(v float64) { s.sum += v; s.n++ }

func (s *topicStat) mean() float64 {
	if s.n == 0 {
		return 0
	}
	return s.sum / float64(s.n)
}

func roundHalfUp(v float64) int { return int(math.Floor(v + 0.5)) }

func (as *analyticsService) WeakTopics(ctx context.Context, userID uuid.UUID) ([]WeakTopic, error) {
	records, titles, err := as.recordsWithTitles(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := groupBy(records, func(r *types.ScoreRecord) (string, uuid.UUID, string) {
		title, ok := titles[r.TopicID]
		if !ok {
			title = unknownTopicTitle
		}
		return r.TopicID.String(), r.TopicID, title
	})

	out := []WeakTopic{}
	for _, s := range stats {
		m := s.mean()
		if m < as.weakThreshold {
			out = append(out, WeakTopic{TopicID: s.topicID, TopicTitle: s.title, AverageScore: roundHalfUp(m)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageScore != out[j].AverageScore {
			return out[i].AverageScore < out[j].AverageScore
		}
		return out[i].TopicTitle < out[j].TopicTitle
	})
	return out, nil
}

func (as *analyticsService) Analytics(ctx context.Context, userID uuid.UUID) (*AnalyticsReport, error) {
	records, titles, err := as.recordsWithTitles(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := groupBy(records, func(r *types.ScoreRecord) (string, uuid.UUID, string) {
		title, ok := titles[r.TopicID]
		if !ok {
			title = unknownTopicTitle
		}
		return title, r.TopicID, title
	})

	report := &AnalyticsReport{Analytics: []TopicAccuracy{}}
	report.Stats.TotalQuizzes = len(records)
	// Stats use the rounded per-topic accuracies.
	sum := 0
	for _, s := range stats {
		acc := roundHalfUp(s.mean())
		sum += acc
		if float64(acc) < as.weakThreshold {
			report.Stats.WeakTopicsCount++
		}
		report.Analytics = append(report.Analytics, TopicAccuracy{Topic: s.title, Accuracy: acc})
	}
	if len(stats) > 0 {
		report.Stats.OverallAccuracy = roundHalfUp(float64(sum) / float64(len(stats)))
	}
	sort.SliceStable(report.Analytics, func(i, j int) bool {
		return report.Analytics[i].Topic < report.Analytics[j].Topic
	})
	return report, nil
}

// recordsWithTitles loads the user's score records and the titles of the topics that still exist.
func (as *analyticsService) recordsWithTitles(ctx context.Context, userID uuid.UUID) ([]*types.ScoreRecord, map[uuid.UUID]string, error) {
	records, err := as.scoreRecordRepo.GetByUserID(dbctx.Of(ctx), userID)
	if err != nil {
		return nil, nil, apierr.Internal("load_scores_failed", err)
	}
	titles, err := as.topicTitles(ctx, records)
	if err != nil {
		return nil, nil, err
	}
	return records, titles, nil
}

func (as *analyticsService) topicTitles(ctx context.Context, records []*types.ScoreRecord) (map[uuid.UUID]string, error) {
	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0, len(records))
	for _, r := range records {
		if !seen[r.TopicID] {
			seen[r.TopicID] = true
			ids = append(ids, r.TopicID)
		}
	}
	titles := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	topics, err := as.topicRepo.GetByIDs(dbctx.Of(ctx), ids)
	if err != nil {
		return nil, apierr.Internal("load_topics_failed", err)
	}
	for _, t := range topics {
		titles[t.ID] = t.Title
	}
	return titles, nil
}

// groupBy buckets records by key in first-seen order.
func groupBy(records []*types.ScoreRecord, key func(*types.ScoreRecord) (string, uuid.UUID, string)) []*topicStat {
	index := map[string]*topicStat{}
	var out []*topicStat
	for _, r := range records {
		k, id, title := key(r)
		s, ok := index[k]
		if !ok {
			s = &topicStat{topicID: id, title: title}
			index[k] = s
			out = append(out, s)
		}
		s.add(r.Accuracy())
	}
	return out
}
