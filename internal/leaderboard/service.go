package leaderboard

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
)

const MaxEntries = 50

var (
	ErrNotRanked = errors.New("user is not on the leaderboard")
	ErrInvalidID = errors.New("invalid id format")
)

// XPStore is the slice of the user repository the leaderboard reads and writes.
type XPStore interface {
	AddXP(ctx context.Context, id uuid.UUID, delta int) error
	ListLearnerXP(ctx context.Context) ([]user.XPEntry, error)
}

type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]RankedEntry, error)
	RankOf(ctx context.Context, actor auth.Actor) (*RankedEntry, error)
	AwardXP(ctx context.Context, userID uuid.UUID, delta int) error
	Invalidate(ctx context.Context)
	Refresh(ctx context.Context) (int, error)
}

type leaderboardService struct {
	store XPStore
	cache Cache
}

// NewService accepts a nil cache; rankings are then computed on every read.
func NewService(store XPStore, cache Cache) LeaderboardService {
	return &leaderboardService{store: store, cache: cache}
}

func (s *leaderboardService) compute(ctx context.Context) ([]RankedEntry, error) {
	rows, err := s.store.ListLearnerXP(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{UserID: row.UserID, Name: row.Name, XP: row.XP})
	}
	return Rank(entries), nil
}

func (s *leaderboardService) ranked(ctx context.Context) ([]RankedEntry, error) {
	log := config.WithContext(ctx)

	var version int64
	if s.cache != nil {
		entries, v, ok, err := s.cache.Load(ctx)
		if err != nil {
			log.WithError(err).Warn("Leaderboard cache read failed")
		}
		if ok {
			return entries, nil
		}
		version = v
	}

	entries, err := s.compute(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to compute leaderboard")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, entries, version); err != nil {
			log.WithError(err).Warn("Leaderboard cache write failed")
		}
	}
	return entries, nil
}

func (s *leaderboardService) Top(ctx context.Context, limit int) ([]RankedEntry, error) {
	if limit <= 0 || limit > MaxEntries {
		limit = MaxEntries
	}

	entries, err := s.ranked(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *leaderboardService) RankOf(ctx context.Context, actor auth.Actor) (*RankedEntry, error) {
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil, ErrInvalidID
	}

	entries, err := s.ranked(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].UserID == userID {
			return &entries[i], nil
		}
	}
	return nil, ErrNotRanked
}

func (s *leaderboardService) AwardXP(ctx context.Context, userID uuid.UUID, delta int) error {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"user_id": userID, "xp": delta})

	if delta == 0 {
		return nil
	}
	if err := s.store.AddXP(ctx, userID, delta); err != nil {
		log.WithError(err).Error("Failed to award XP")
		return err
	}

	s.Invalidate(ctx)

	log.Info("XP awarded")
	return nil
}

// Invalidate drops the cached ranking. Failures are logged; the TTL bounds staleness.
func (s *leaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Leaderboard cache invalidation failed")
	}
}

// Refresh recomputes the ranking and rewrites the cache. It returns the number
// of ranked learners.
func (s *leaderboardService) Refresh(ctx context.Context) (int, error) {
	if s.cache == nil {
		entries, err := s.compute(ctx)
		return len(entries), err
	}

	_, version, _, err := s.cache.Load(ctx)
	if err != nil {
		return 0, err
	}
	entries, err := s.compute(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Store(ctx, entries, version); err != nil {
		return 0, err
	}
	return len(entries), nil
}
