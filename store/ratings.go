package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rushteam/movierec/core"
)

// MemoryRatings 是内存实现的 RatingStore，用于测试/开发/原型。
// AddRating 对同一 (user, movie) 的重复评分按最新值覆盖，
// 均分统计随写入实时更新。
type MemoryRatings struct {
	mu     sync.RWMutex
	byUser map[int64]map[int64]float64 // userID -> movieId -> rating
	sums   map[int64]float64           // movieId -> 评分总和
	counts map[int64]int               // movieId -> 评分条数
}

func NewMemoryRatings() *MemoryRatings {
	return &MemoryRatings{
		byUser: make(map[int64]map[int64]float64),
		sums:   make(map[int64]float64),
		counts: make(map[int64]int),
	}
}

var _ core.RatingStore = (*MemoryRatings)(nil)

func (m *MemoryRatings) Name() string { return "memory" }

func (m *MemoryRatings) GetUserRatings(ctx context.Context, userID int64) (map[int64]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[int64]float64, len(m.byUser[userID]))
	for itemID, v := range m.byUser[userID] {
		out[itemID] = v
	}
	return out, nil
}

func (m *MemoryRatings) ItemMeans(ctx context.Context) (map[int64]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[int64]float64, len(m.sums))
	for itemID, sum := range m.sums {
		if n := m.counts[itemID]; n > 0 {
			out[itemID] = sum / float64(n)
		}
	}
	return out, nil
}

func (m *MemoryRatings) AddRating(ctx context.Context, r core.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.byUser[r.UserID] == nil {
		m.byUser[r.UserID] = make(map[int64]float64)
	}
	if old, ok := m.byUser[r.UserID][r.ItemID]; ok {
		m.sums[r.ItemID] -= old
		m.counts[r.ItemID]--
	}
	m.byUser[r.UserID][r.ItemID] = r.Value
	m.sums[r.ItemID] += r.Value
	m.counts[r.ItemID]++
	return nil
}

// StoreRatings 把评分数据放在 KeyValueStore 上（生产环境配 RedisStore）。
//
// 数据布局：
//   - ratings:user:<userID>  hash: field=movieId, value=评分
//   - ratings:means          hash: field=movieId, value=均分（离线任务产出）
//
// 写入只追加到用户 hash；均分 hash 由离线任务周期性重算，
// 新评分对推荐结果"最终可见"，与引擎的一致性约定相符。
type StoreRatings struct {
	Store core.KeyValueStore
}

func NewStoreRatings(kv core.KeyValueStore) *StoreRatings {
	return &StoreRatings{Store: kv}
}

var _ core.RatingStore = (*StoreRatings)(nil)

const meansKey = "ratings:means"

func userKey(userID int64) string {
	return fmt.Sprintf("ratings:user:%d", userID)
}

func (s *StoreRatings) Name() string { return "kv:" + s.Store.Name() }

func (s *StoreRatings) GetUserRatings(ctx context.Context, userID int64) (map[int64]float64, error) {
	fields, err := s.Store.HGetAll(ctx, userKey(userID))
	if err != nil {
		return nil, fmt.Errorf("ratings: user %d: %w", userID, err)
	}
	return parseRatingHash(fields)
}

func (s *StoreRatings) ItemMeans(ctx context.Context) (map[int64]float64, error) {
	fields, err := s.Store.HGetAll(ctx, meansKey)
	if err != nil {
		return nil, fmt.Errorf("ratings: means: %w", err)
	}
	return parseRatingHash(fields)
}

func (s *StoreRatings) AddRating(ctx context.Context, r core.Rating) error {
	field := strconv.FormatInt(r.ItemID, 10)
	value := strconv.FormatFloat(r.Value, 'f', -1, 64)
	if err := s.Store.HSet(ctx, userKey(r.UserID), field, []byte(value)); err != nil {
		return fmt.Errorf("ratings: add user=%d movie=%d: %w", r.UserID, r.ItemID, err)
	}
	return nil
}

// parseRatingHash 把 hash 字段解析为 map[movieId]score，跳过脏数据。
func parseRatingHash(fields map[string][]byte) (map[int64]float64, error) {
	out := make(map[int64]float64, len(fields))
	for field, raw := range fields {
		itemID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			continue
		}
		out[itemID] = v
	}
	return out, nil
}
