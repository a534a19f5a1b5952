package pipeline

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Pipeline 是引擎的核心抽象：把一次推荐请求拆成可组合的 Node 链。
// 标准链路：recall.Fanout → (filter.*) → rank.Hybrid → rerank.TopN。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
