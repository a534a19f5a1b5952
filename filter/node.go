package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// Node 把若干 Filter 组合为一个 Pipeline 节点，按注册顺序依次判定。
// 任一 Filter 命中即剔除该候选；Filter 报错则整个节点失败。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string        { return "filter.chain" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		drop := false
		for _, f := range n.Filters {
			hit, err := f.ShouldFilter(ctx, rctx, it)
			if err != nil {
				return nil, err
			}
			if hit {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, it)
		}
	}
	return out, nil
}
