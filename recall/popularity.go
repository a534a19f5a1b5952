package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// Popularity 是热门兜底源：按历史均分取 TopK 影片。
//
//   - 如果配置了 Store 且实现 KeyValueStore，优先读离线任务产出的
//     有序集合（ZRange，已按均分降序）
//   - 否则从 RatingStore 在线计算均分排序
//
// 两个用途：
//   - recall.Collab 的冷启动兜底（TopN 方法）
//   - 独立的召回源 / Pipeline Node（完全匿名流量直接出热门）
type Popularity struct {
	Store   core.Store       // 可选；实现 KeyValueStore 时走 ZRange 快路径
	Key     string           // 有序集合 key，例如 "popular:movies"
	Ratings core.RatingStore // 在线计算兜底

	// K 返回条数，默认 DefaultColdStartK。
	K int
}

func (r *Popularity) Name() string        { return "recall.popular" }
func (r *Popularity) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Popularity) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。热门属于协同侧信号（人群行为聚合），
// 候选统一给中性分。
func (r *Popularity) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	ids, err := r.TopN(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.Score = ColdStartScore
		it.PutLabel(LabelSignal, utils.Label{Value: SignalCollab, Source: "recall"})
		it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// TopN 返回按均分降序的前 K 部影片 ID，同分按 ID 升序。
func (r *Popularity) TopN(ctx context.Context) ([]int64, error) {
	k := r.K
	if k <= 0 {
		k = DefaultColdStartK
	}

	// 快路径：离线产出的有序集合
	if r.Store != nil && r.Key != "" {
		if kvStore, ok := r.Store.(core.KeyValueStore); ok {
			members, err := kvStore.ZRange(ctx, r.Key, 0, int64(k-1))
			if err == nil && len(members) > 0 {
				ids := make([]int64, 0, len(members))
				for _, member := range members {
					if id, err := strconv.ParseInt(member, 10, 64); err == nil {
						ids = append(ids, id)
					}
				}
				if len(ids) > 0 {
					return ids, nil
				}
			}
		}
	}

	// 兜底：在线按均分排序
	if r.Ratings == nil {
		return nil, nil
	}
	means, err := r.Ratings.ItemMeans(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(means))
	for id := range means {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		mi, mj := means[ids[i]], means[ids[j]]
		if mi != mj {
			return mi > mj
		}
		return ids[i] < ids[j]
	})
	if len(ids) > k {
		ids = ids[:k]
	}
	return ids, nil
}
