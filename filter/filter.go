// Package filter 提供过滤阶段的 Pipeline Node 与常用过滤器。
package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Filter 是单个候选的过滤判定。
// 返回 true 表示该候选应被剔除。
type Filter interface {
	Name() string
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
