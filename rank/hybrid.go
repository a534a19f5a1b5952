// Package rank 提供排序阶段的 Pipeline Node。
package rank

import (
	"context"
	"sort"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/recall"
)

// DefaultAlpha 是融合权重的缺省值（协同侧权重）。
const DefaultAlpha = 0.6

// Hybrid 是线性融合节点：
//
//	score = alpha * collab_score + (1-alpha) * content_score
//
// 并集语义：只出现在单侧的影片按缺失侧 0 分参与竞争——协同侧很强
// 但没有内容匹配的影片（或反之）不会被剔除，只是被缺失的那一半权重衰减。
//
// 同一侧重复出现同一影片时保留先到的分数（打分源内部本身不产生重复）。
// 两侧原始分写入 Features（collab_score / content_score），便于 explain。
//
// 排序：融合分降序，同分按影片 ID 升序——确定性的全序，结果可复现。
// 两侧输入都为空时输出为空（不是错误），由调用方处理零结果。
type Hybrid struct {
	// Alpha 融合权重缺省值；rctx.Alpha >= 0 时以请求为准（负数表示未指定）。
	Alpha float64
}

func (n *Hybrid) Name() string        { return "rank.hybrid" }
func (n *Hybrid) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *Hybrid) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return nil, nil
	}

	alpha := n.alpha(rctx)

	type sides struct {
		collab     float64
		content    float64
		hasCollab  bool
		hasContent bool
		first      *core.Item
	}

	merged := make(map[int64]*sides, len(items))
	order := make([]int64, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		s, ok := merged[it.ID]
		if !ok {
			s = &sides{first: it}
			merged[it.ID] = s
			order = append(order, it.ID)
		} else {
			// 合并两侧的 labels，保留可追踪性
			for k, v := range it.Labels {
				s.first.PutLabel(k, v)
			}
		}

		lbl, _ := it.Label(recall.LabelSignal)
		switch lbl.Value {
		case recall.SignalContent:
			if !s.hasContent {
				s.content = it.Score
				s.hasContent = true
			}
		default:
			// 协同侧（含热门兜底等人群行为信号）
			if !s.hasCollab {
				s.collab = it.Score
				s.hasCollab = true
			}
		}
	}

	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		s := merged[id]
		it := s.first
		it.Score = alpha*s.collab + (1-alpha)*s.content
		it.Features["collab_score"] = s.collab
		it.Features["content_score"] = s.content
		out = append(out, it)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// alpha 取融合权重：请求携带的 Alpha 优先（0 是合法取值，负数表示未指定），
// 其次节点配置，最后缺省 0.6。
func (n *Hybrid) alpha(rctx *core.RecommendContext) float64 {
	if rctx != nil && rctx.Alpha >= 0 {
		return rctx.Alpha
	}
	if n.Alpha > 0 {
		return n.Alpha
	}
	return DefaultAlpha
}
