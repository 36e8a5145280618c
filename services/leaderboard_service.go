package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"eventwise/models"
	"eventwise/store"
)

// LeaderboardService maintains derived per-event rankings. The source of
// truth is the leaderboards collection; a Redis sorted set per event keeps
// an advisory rank that survives without transactional recomputation.
type LeaderboardService struct {
	store store.Store
	redis *redis.Client // optional
}

func NewLeaderboardService(s store.Store, redisClient *redis.Client) *LeaderboardService {
	return &LeaderboardService{store: s, redis: redisClient}
}

func leaderboardKey(eventID string) string {
	return fmt.Sprintf("leaderboard:%s", eventID)
}

// UpsertEntry records the attendee's current points, keyed by
// (userId, eventId). Called on every point change. The existing-entry path
// goes through Mutate so concurrent point awards serialize on the document.
func (s *LeaderboardService) UpsertEntry(ctx context.Context, userID, eventID, name, avatar string, points int) error {
	entryID := fmt.Sprintf("%s_%s", userID, eventID)

	mutate := func(doc store.Document) (store.Document, error) {
		var prev models.LeaderboardEntry
		if err := store.Decode(doc, &prev); err != nil {
			return nil, err
		}

		change := "same"
		if points > prev.Points {
			change = "up"
		} else if points < prev.Points {
			change = "down"
		}

		return store.Document{
			"name":        name,
			"avatar":      avatar,
			"points":      points,
			"change":      change,
			"lastUpdated": time.Now().UTC(),
		}, nil
	}

	err := s.store.Mutate(ctx, store.CollectionLeaderboards, entryID, mutate)
	if errors.Is(err, store.ErrNotFound) {
		doc, derr := store.ToDocument(&models.LeaderboardEntry{
			UserID:      userID,
			EventID:     eventID,
			Name:        name,
			Avatar:      avatar,
			Points:      points,
			Rank:        0,
			Change:      "same",
			LastUpdated: time.Now().UTC(),
		})
		if derr != nil {
			return derr
		}
		if _, cerr := s.store.Create(ctx, store.CollectionLeaderboards, doc, entryID); cerr != nil {
			// Lost the first-write race to a concurrent upsert; apply ours
			// on top of the entry that won.
			err = s.store.Mutate(ctx, store.CollectionLeaderboards, entryID, mutate)
			if errors.Is(err, store.ErrNotFound) {
				err = cerr
			}
		} else {
			err = nil
		}
	}
	if err != nil {
		return err
	}

	if s.redis != nil {
		if err := s.redis.ZAdd(ctx, leaderboardKey(eventID), redis.Z{
			Score:  float64(points),
			Member: userID,
		}).Err(); err != nil {
			slog.Warn("leaderboard redis zadd failed", "eventId", eventID, "userId", userID, "error", err)
		}
	}
	return nil
}

// Top returns the highest-scoring entries for an event. Ordering comes from
// the Redis sorted set when available, otherwise from the stored points.
func (s *LeaderboardService) Top(ctx context.Context, eventID string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.redis != nil {
		entries, err := s.topFromRedis(ctx, eventID, limit)
		if err == nil && entries != nil {
			return entries, nil
		}
		if err != nil {
			slog.Warn("leaderboard redis read failed, falling back to store", "eventId", eventID, "error", err)
		}
	}

	docs, err := s.store.GetMany(ctx, store.CollectionLeaderboards, store.Query{
		Filters: []store.Filter{store.Eq("eventId", eventID)},
		Sort:    "-points",
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	entries, err := store.DecodeAll[models.LeaderboardEntry](docs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *LeaderboardService) topFromRedis(ctx context.Context, eventID string, limit int) ([]models.LeaderboardEntry, error) {
	userIDs, err := s.redis.ZRevRange(ctx, leaderboardKey(eventID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, nil
	}

	entries := make([]models.LeaderboardEntry, 0, len(userIDs))
	for i, userID := range userIDs {
		doc, err := s.store.GetOne(ctx, store.CollectionLeaderboards, fmt.Sprintf("%s_%s", userID, eventID))
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		var entry models.LeaderboardEntry
		if err := store.Decode(doc, &entry); err != nil {
			return nil, err
		}
		entry.Rank = i + 1
		entries = append(entries, entry)
	}
	return entries, nil
}
