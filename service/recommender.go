// Package service 是引擎的进程内门面：参数校验、冷热判定、
// Pipeline 组装与模型快照的原子管理。
package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/rank"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/rerank"
)

// 请求参数边界。
const (
	MinN = 1
	MaxN = 50

	// DefaultAlpha 协同侧融合权重缺省值。
	DefaultAlpha = rank.DefaultAlpha
)

// Recommendation 是引擎的唯一输出形态：有序的 (movieId, score) 对。
// 元数据补全（标题/类型）由调用方按需通过 Catalog 完成，不属于排序核心。
type Recommendation struct {
	ItemID int64   `json:"movie_id"`
	Score  float64 `json:"score"`
}

// Recommender 是混合推荐引擎的门面。
//
// 模型快照经 atomic.Pointer 持有：请求无锁并发读取同一份只读快照；
// 重载（Watcher/手工 Swap）构建新快照后整体替换引用，旧快照随
// 在途请求结束被回收。未加载快照时所有打分请求返回 NOT_READY。
type Recommender struct {
	snap    atomic.Pointer[model.Snapshot]
	ratings core.RatingStore

	// 可选：离线热门榜单所在的有序集合
	store      core.Store
	popularKey string

	rnd *rand.Rand
	log zerolog.Logger
}

// Option 配置 Recommender 的可选依赖。
type Option func(*Recommender)

// WithSnapshot 预置初始快照。
func WithSnapshot(snap *model.Snapshot) Option {
	return func(r *Recommender) { r.snap.Store(snap) }
}

// WithPopular 配置离线热门榜单（有序集合）。
func WithPopular(s core.Store, key string) Option {
	return func(r *Recommender) {
		r.store = s
		r.popularKey = key
	}
}

// WithRand 注入冷启动采样源（固定种子可复现）。
func WithRand(rnd *rand.Rand) Option {
	return func(r *Recommender) { r.rnd = rnd }
}

// WithLogger 注入结构化日志。
func WithLogger(log zerolog.Logger) Option {
	return func(r *Recommender) { r.log = log }
}

func New(ratings core.RatingStore, opts ...Option) *Recommender {
	r := &Recommender{
		ratings: ratings,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Swap 原子替换当前模型快照（重载入口）。
func (r *Recommender) Swap(snap *model.Snapshot) {
	r.snap.Store(snap)
	if snap != nil {
		r.log.Info().
			Int("catalog", snap.Catalog.Len()).
			Int("embedding_dim", snap.Embeddings.Dim).
			Str("index", snap.Index.Name()).
			Msg("model snapshot swapped")
	}
}

// Snapshot 返回当前快照；未加载时为 nil。
func (r *Recommender) Snapshot() *model.Snapshot {
	return r.snap.Load()
}

// Ready 返回引擎是否可服务打分请求。
func (r *Recommender) Ready() bool {
	return r.snap.Load() != nil
}

// Health 返回各后端资源的就绪状态（调用方可直接序列化为健康检查响应）。
func (r *Recommender) Health() map[string]bool {
	snap := r.snap.Load()
	return map[string]bool{
		"als":        snap != nil && snap.ALS != nil,
		"embeddings": snap != nil && snap.Embeddings != nil,
		"index":      snap != nil && snap.Index != nil,
		"catalog":    snap != nil && snap.Catalog != nil,
	}
}

var errNotReady = core.NewDomainError(core.ModuleService, core.ErrorCodeNotReady, "service: model snapshot not loaded")

func invalidInput(format string, args ...any) error {
	return core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, fmt.Sprintf("service: "+format, args...))
}

// Recommend 为用户产出混合推荐：协同分与内容分按 alpha 线性融合。
//
// 冷热判定在这里一次性完成（History 是否为空），两个打分源读取
// 同一份判定结果。冷用户永远能拿到非空结果（热门 + 随机采样兜底），
// 不会触发 NOT_READY / NO_CONTENT_SIGNAL 之外的降级。
func (r *Recommender) Recommend(ctx context.Context, userID int64, n int, alpha float64) ([]Recommendation, error) {
	if userID < 1 {
		return nil, invalidInput("user_id must be >= 1, got %d", userID)
	}
	if n < MinN || n > MaxN {
		return nil, invalidInput("n must be in [%d, %d], got %d", MinN, MaxN, n)
	}
	if alpha < 0 || alpha > 1 {
		return nil, invalidInput("alpha must be in [0, 1], got %g", alpha)
	}

	snap := r.snap.Load()
	if snap == nil {
		return nil, errNotReady
	}

	history, err := r.ratings.GetUserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: load history for user %d: %w", userID, err)
	}

	rctx := &core.RecommendContext{
		UserID:  userID,
		N:       n,
		Alpha:   alpha,
		Warm:    len(history) > 0,
		History: history,
	}

	items, err := r.recommendPipeline(snap).Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		out = append(out, Recommendation{ItemID: it.ID, Score: it.Score})
	}
	return out, nil
}

// recommendPipeline 组装标准链路：双源 fan-out → alpha 融合 → TopN 截断。
func (r *Recommender) recommendPipeline(snap *model.Snapshot) *pipeline.Pipeline {
	popularity := &recall.Popularity{
		Store:   r.store,
		Key:     r.popularKey,
		Ratings: r.ratings,
	}
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.Fanout{
				Sources: []recall.Source{
					&recall.Collab{Model: snap.ALS, Popularity: popularity},
					&recall.Content{Snap: snap, Rand: r.rnd},
				},
			},
			&rank.Hybrid{},
			&rerank.TopN{},
		},
	}
}

// Similar 返回与指定影片内容最相似的 n 部影片（不做融合）。
//
// 索引里查询影片自身永远是最近邻（距离 0），先取 n+1 再剔除自身——
// 与用户画像检索（不剔除）的不对称是刻意的语义差异。
func (r *Recommender) Similar(ctx context.Context, itemID int64, n int) ([]Recommendation, error) {
	if itemID < 1 {
		return nil, invalidInput("movie_id must be >= 1, got %d", itemID)
	}
	if n < MinN || n > MaxN {
		return nil, invalidInput("n must be in [%d, %d], got %d", MinN, MaxN, n)
	}

	snap := r.snap.Load()
	if snap == nil {
		return nil, errNotReady
	}

	row, ok := snap.RowOf(itemID)
	if !ok {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotFound,
			fmt.Sprintf("service: movie %d not found", itemID))
	}

	rows, sims, err := snap.Index.Search(ctx, snap.Embeddings.Row(row), n+1)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, n)
	for i, got := range rows {
		if got == row {
			continue
		}
		id, ok := snap.IDAt(got)
		if !ok {
			continue
		}
		out = append(out, Recommendation{ItemID: id, Score: float64(sims[i])})
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// Rate 追加一条评分事件（对后续推荐最终可见）。
func (r *Recommender) Rate(ctx context.Context, rating core.Rating) error {
	if rating.UserID < 1 {
		return invalidInput("user_id must be >= 1, got %d", rating.UserID)
	}
	if rating.ItemID < 1 {
		return invalidInput("movie_id must be >= 1, got %d", rating.ItemID)
	}
	if rating.Value < core.MinRating || rating.Value > core.MaxRating {
		return invalidInput("rating must be in [%g, %g], got %g", core.MinRating, core.MaxRating, rating.Value)
	}
	if err := r.ratings.AddRating(ctx, rating); err != nil {
		return fmt.Errorf("service: add rating: %w", err)
	}
	r.log.Debug().
		Int64("user_id", rating.UserID).
		Int64("movie_id", rating.ItemID).
		Float64("rating", rating.Value).
		Msg("rating recorded")
	return nil
}
