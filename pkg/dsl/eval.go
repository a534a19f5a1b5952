// Package dsl 基于 CEL (Common Expression Language) 实现候选过滤规则的求值。
//
// 表达式语法（CEL 标准语法）：
//   - 标签：label.signal == "content"
//   - 数值：item.score > 0.7
//   - 元信息：item.meta.genres.contains("Horror")
//   - 上下文：rctx.warm == false && rctx.alpha >= 0.5
//   - 逻辑组合：label.signal == "collab" && item.score > 0.8
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/movierec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是一条编译后的规则表达式，可对任意 (item, rctx) 重复求值。
// 编译一次、多次求值：Filter 节点对每个候选调用 Eval。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译 CEL 表达式。空表达式非法（恒真规则没有意义）。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("dsl: empty expression")
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: init env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Eval 对单个候选求值，返回布尔结果。
// 非布尔结果视为求值错误。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", p.expr, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression %q did not evaluate to bool", p.expr)
	}
	return b, nil
}

// buildInput 把 Item/RecommendContext 展开为 CEL 可见的变量。
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	itemVal := map[string]any{}
	labelVal := map[string]string{}
	if item != nil {
		itemVal["id"] = item.ID
		itemVal["score"] = item.Score
		itemVal["meta"] = item.Meta
		for k, lbl := range item.Labels {
			labelVal[k] = lbl.Value
		}
	}

	rctxVal := map[string]any{}
	if rctx != nil {
		rctxVal["user_id"] = rctx.UserID
		rctxVal["n"] = rctx.N
		rctxVal["alpha"] = rctx.Alpha
		rctxVal["warm"] = rctx.Warm
	}

	return map[string]any{
		"item":  itemVal,
		"label": labelVal,
		"rctx":  rctxVal,
	}
}
