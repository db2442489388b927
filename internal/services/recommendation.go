package services

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
)

func (as *analyticsService) Recommendations(ctx context.Context, userID uuid.UUID) (*Recommendations, error) {
	var (
		records   []*types.ScoreRecord
		purchases []*types.Purchase
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = as.scoreRecordRepo.GetByUserID(dbctx.Of(gctx), userID)
		return err
	})
	g.Go(func() error {
		var err error
		purchases, err = as.purchaseRepo.GetByUserID(dbctx.Of(gctx), userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apierr.Internal("load_progress_failed", err)
	}

	courseIDs := make([]uuid.UUID, 0, len(purchases))
	for _, p := range purchases {
		courseIDs = append(courseIDs, p.CourseID)
	}
	candidates, err := as.topicRepo.GetByCourseIDs(dbctx.Of(ctx), courseIDs)
	if err != nil {
		return nil, apierr.Internal("load_topics_failed", err)
	}
	titles, err := as.topicTitles(ctx, records)
	if err != nil {
		return nil, err
	}

	// Attempted topics that no longer exist have no title to recommend and are skipped.
	stats := groupBy(records, func(r *types.ScoreRecord) (string, uuid.UUID, string) {
		return r.TopicID.String(), r.TopicID, titles[r.TopicID]
	})
	attempted := make(map[uuid.UUID]bool, len(stats))
	out := &Recommendations{WeakTopics: []string{}, StrongTopics: []string{}, RemainingTopics: []string{}}
	for _, s := range stats {
		attempted[s.topicID] = true
		if s.title == "" {
			continue
		}
		if s.mean() < as.weakThreshold {
			out.WeakTopics = append(out.WeakTopics, s.title)
		} else {
			out.StrongTopics = append(out.StrongTopics, s.title)
		}
	}
	for _, t := range candidates {
		if !attempted[t.ID] {
			out.RemainingTopics = append(out.RemainingTopics, t.Title)
		}
	}
	sort.Strings(out.WeakTopics)
	sort.Strings(out.StrongTopics)

	text, err := as.generator.Generate(ctx, recommendationPrompt(out.StrongTopics, out.WeakTopics, out.RemainingTopics))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		as.log.Error("Recommendation provider failed", "user_id", userID, "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "provider_failure", err).WithMessage("Failed to generate recommendations")
	}
	out.Recommendations = text
	return out, nil
}
