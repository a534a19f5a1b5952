package filter

import (
	"context"
	"sync"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/dsl"
)

// Rule 是基于 CEL 表达式的规则过滤器：表达式求值为 true 的候选被剔除。
//
// 典型用法（恐怖片免推场景）：
//
//	&filter.Rule{Expr: `item.meta.genres.contains("Horror")`}
//
// 表达式在首次使用时编译并缓存，之后每个候选只做求值。
type Rule struct {
	Expr string

	once sync.Once
	prog *dsl.Program
	err  error
}

func (f *Rule) Name() string { return "filter.rule" }

func (f *Rule) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	f.once.Do(func() {
		f.prog, f.err = dsl.Compile(f.Expr)
	})
	if f.err != nil {
		return false, f.err
	}
	return f.prog.Eval(item, rctx)
}
