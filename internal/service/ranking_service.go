package service

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const rankingKey = "ranking:global"

// RankingService keeps a Redis sorted set of accumulated correct answers per
// user. It is a read model for the leaderboard only; the relational store
// remains the source of truth.
type RankingService struct {
	rdb *redis.Client
}

func NewRankingService(rdb *redis.Client) *RankingService {
	return &RankingService{rdb: rdb}
}

func (s *RankingService) RecordScore(ctx context.Context, userID uint, correct int) error {
	if correct <= 0 {
		return nil
	}
	member := strconv.FormatUint(uint64(userID), 10)
	return s.rdb.ZIncrBy(ctx, rankingKey, float64(correct), member).Err()
}

type RankingEntry struct {
	Rank   int     `json:"rank"`
	UserID uint    `json:"userId"`
	Score  float64 `json:"score"`
}

func (s *RankingService) Top(ctx context.Context, n int64) ([]RankingEntry, error) {
	if n <= 0 {
		n = 10
	}
	zs, err := s.rdb.ZRevRangeWithScores(ctx, rankingKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]RankingEntry, 0, len(zs))
	for i, z := range zs {
		member, _ := z.Member.(string)
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, RankingEntry{
			Rank:   i + 1,
			UserID: uint(id),
			Score:  z.Score,
		})
	}
	return entries, nil
}
