package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Rated 剔除用户已评分的影片。
//
// 注意：默认的推荐链路不挂载此过滤器——参考语义是只有协同侧
// 在模型内部剔除已评分影片，内容侧允许召回用户看过的片子。
// 需要两侧都剔除时，在 Fanout 之后显式挂载。
type Rated struct{}

func (f *Rated) Name() string { return "filter.rated" }

func (f *Rated) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if rctx == nil || item == nil {
		return false, nil
	}
	_, rated := rctx.History[item.ID]
	return rated, nil
}
