package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/savrly/savr/internal/core/logger"
	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/usecase"
)

const (
	badgeFirstGoalCompleted = "first_goal_completed"
	badgeGoalCompleted      = "goal_completed"

	dayFormat = "2006-01-02"
)

// Service keeps streaks and badges in Redis. It is a best-effort
// collaborator: callers log and ignore its errors on write paths.
type Service struct {
	rdb *redis.Client
	log logger.Logger
	now func() time.Time
}

var _ usecase.Gamification = (*Service)(nil)

func NewService(rdb *redis.Client, log logger.Logger) *Service {
	return &Service{rdb: rdb, log: log, now: time.Now}
}

func streakKey(userID uuid.UUID) string     { return "gamification:streak:" + userID.String() }
func streakLastKey(userID uuid.UUID) string { return "gamification:streak:last:" + userID.String() }
func badgesKey(userID uuid.UUID) string     { return "gamification:badges:" + userID.String() }

// UpdateStreak advances the daily savings streak: same day is a no-op,
// a save on the day after the last one increments, any gap resets to 1.
func (s *Service) UpdateStreak(ctx context.Context, userID uuid.UUID) error {
	today := s.now().Format(dayFormat)

	last, err := s.rdb.Get(ctx, streakLastKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("read last streak day: %w", err)
	}

	if last == today {
		return nil
	}

	yesterday := s.now().AddDate(0, 0, -1).Format(dayFormat)

	pipe := s.rdb.TxPipeline()
	if last == yesterday {
		pipe.Incr(ctx, streakKey(userID))
	} else {
		pipe.Set(ctx, streakKey(userID), 1, 0)
	}
	pipe.Set(ctx, streakLastKey(userID), today, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update streak: %w", err)
	}

	return nil
}

// CheckGoalCompletionBadges awards the completion badges. SADD keeps the
// award idempotent across repeated completions.
func (s *Service) CheckGoalCompletionBadges(ctx context.Context, userID uuid.UUID) error {
	added, err := s.rdb.SAdd(ctx, badgesKey(userID), badgeGoalCompleted, badgeFirstGoalCompleted).Result()
	if err != nil {
		return fmt.Errorf("award badges: %w", err)
	}

	if added > 0 {
		s.log.Info("badges awarded",
			logger.StringField("user_id", userID.String()),
			logger.Int64Field("new_badges", added),
		)
	}

	return nil
}

func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*models.GamificationStatus, error) {
	streak, err := s.rdb.Get(ctx, streakKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read streak: %w", err)
	}

	badges, err := s.rdb.SMembers(ctx, badgesKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read badges: %w", err)
	}

	return &models.GamificationStatus{
		Streak: streak,
		Badges: badges,
	}, nil
}
