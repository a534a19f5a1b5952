// Package rerank 提供排序之后的重排/截断 Node。
package rerank

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// TopN 是截断节点，在融合排序后截取前 N 个影片。
// 放在 rank.Hybrid 之后使用，保证返回条数 ≤ 请求的 n。
type TopN struct {
	// N 要保留的条数。
	// N <= 0 时回退为 rctx.N；两者都未指定则不截断。
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.N
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
