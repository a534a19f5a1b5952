package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pkg/utils"
)

// Collab 是协同过滤打分源：温用户走 ALS 模型，冷用户走热门兜底。
//
// 温路径：
//  1. 外部 userID 经模型编码表翻译为内部行号
//  2. 隐向量点积为全部影片打分，剔除用户已评分影片
//  3. 返回 Top n*Multiplier 候选，分数为模型原始输出（无界）
//
// 冷路径（零评分记录，或用户不在训练期编码表里）：
// 取历史均分 TopK 影片，每条给中性分 0.5——冷用户永远能拿到
// 热门倾向的结果，而不是空集，也绝不报错。
type Collab struct {
	Model      *model.ALSModel
	Popularity *Popularity // 冷启动兜底，必配

	// Multiplier 候选放大倍数，默认 DefaultMultiplier。
	Multiplier int

	// ColdScore 冷启动候选的分数，默认 ColdStartScore。
	ColdScore float64
}

func (r *Collab) Name() string { return "recall.collab" }

func (r *Collab) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}

	// 冷热判定只读 rctx（service 层一次性判定）；
	// 训练后新增的用户不在编码表里，协同侧降级为冷路径。
	code := -1
	warm := false
	if rctx.Warm && r.Model != nil {
		if c, ok := r.Model.UserCode(rctx.UserID); ok {
			code = c
			warm = true
		}
	}

	if !warm {
		return r.recallCold(ctx)
	}

	topN := rctx.N * r.multiplier()
	ids, scores := r.Model.Recommend(code, rctx.History, topN)

	out := make([]*core.Item, 0, len(ids))
	for i, id := range ids {
		it := core.NewItem(id)
		it.Score = scores[i]
		it.PutLabel(LabelSignal, utils.Label{Value: SignalCollab, Source: "recall"})
		it.PutLabel("recall_source", utils.Label{Value: "als", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

func (r *Collab) recallCold(ctx context.Context) ([]*core.Item, error) {
	if r.Popularity == nil {
		return nil, nil
	}
	ids, err := r.Popularity.TopN(ctx)
	if err != nil {
		return nil, err
	}

	coldScore := r.ColdScore
	if coldScore == 0 {
		coldScore = ColdStartScore
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.Score = coldScore
		it.PutLabel(LabelSignal, utils.Label{Value: SignalCollab, Source: "recall"})
		it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

func (r *Collab) multiplier() int {
	if r.Multiplier > 0 {
		return r.Multiplier
	}
	return DefaultMultiplier
}
