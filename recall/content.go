package recall

import (
	"context"
	"math/rand"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pkg/utils"
)

// ErrNoContentSignal 表示温用户的高分影片全部缺少嵌入行（数据不一致）。
// 这是"无法个性化"而不是"选择不个性化"，必须上抛给调用方，
// 不允许静默降级为冷路径。
var ErrNoContentSignal = core.NewDomainError(
	core.ModuleRecall,
	core.ErrorCodeNoContentSignal,
	"recall: none of the user's top rated movies have embedding rows",
)

// Content 是内容打分源：用嵌入向量近邻检索找相似影片。
//
// 温路径：
//  1. 取用户评分最高的前 TopRated 部影片，嵌入向量逐元素平均为画像向量
//  2. 近邻索引检索 n*Multiplier 个候选，分数为索引相似度
//  3. 不剔除画像影片本身——与 item-to-item 相似（Similar 剔除自身）
//     语义不同，这一不对称是刻意保留的
//
// 冷路径：从目录均匀采样 ColdK 部影片，每条给中性分 0.5。
type Content struct {
	Snap *model.Snapshot

	// TopRated 画像取用户最高分的前几部，默认 DefaultTopRated。
	TopRated int

	// Multiplier 候选放大倍数，默认 DefaultMultiplier。
	Multiplier int

	// ColdK 冷启动采样条数，默认 DefaultColdStartK。
	ColdK int

	// ColdScore 冷启动候选的分数，默认 ColdStartScore。
	ColdScore float64

	// Rand 冷启动采样源；为 nil 时使用全局源。注入固定种子可复现。
	Rand *rand.Rand
}

func (r *Content) Name() string { return "recall.content" }

func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Snap == nil || rctx == nil {
		return nil, nil
	}

	if !rctx.Warm {
		return r.recallCold()
	}

	topRated := r.TopRated
	if topRated <= 0 {
		topRated = DefaultTopRated
	}

	// 画像向量：Top5 高分影片嵌入的均值。目录里查不到的影片跳过；
	// 全部查不到说明评分数据与目录脱节，报 NO_CONTENT_SIGNAL。
	var rows [][]float32
	for _, itemID := range rctx.TopRated(topRated) {
		if row, ok := r.Snap.RowOf(itemID); ok {
			rows = append(rows, r.Snap.Embeddings.Row(row))
		}
	}
	if len(rows) == 0 {
		return nil, ErrNoContentSignal
	}
	query := model.Mean(rows)

	k := rctx.N * r.multiplier()
	idxRows, sims, err := r.Snap.Index.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(idxRows))
	for i, row := range idxRows {
		id, ok := r.Snap.IDAt(row)
		if !ok {
			continue
		}
		it := core.NewItem(id)
		it.Score = float64(sims[i])
		it.PutLabel(LabelSignal, utils.Label{Value: SignalContent, Source: "recall"})
		it.PutLabel("recall_source", utils.Label{Value: r.Snap.Index.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

func (r *Content) recallCold() ([]*core.Item, error) {
	ids := r.Snap.Catalog.IDs()
	k := r.ColdK
	if k <= 0 {
		k = DefaultColdStartK
	}
	if k > len(ids) {
		k = len(ids)
	}

	coldScore := r.ColdScore
	if coldScore == 0 {
		coldScore = ColdStartScore
	}

	// 均匀无放回采样
	var perm []int
	if r.Rand != nil {
		perm = r.Rand.Perm(len(ids))
	} else {
		perm = rand.Perm(len(ids))
	}

	out := make([]*core.Item, 0, k)
	for _, p := range perm[:k] {
		it := core.NewItem(ids[p])
		it.Score = coldScore
		it.PutLabel(LabelSignal, utils.Label{Value: SignalContent, Source: "recall"})
		it.PutLabel("recall_source", utils.Label{Value: "sample", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

func (r *Content) multiplier() int {
	if r.Multiplier > 0 {
		return r.Multiplier
	}
	return DefaultMultiplier
}
