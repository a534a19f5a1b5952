// Package config 把 YAML/JSON 的 Pipeline 配置映射到具体 Node 构造器。
//
// 与 pipeline.NodeFactory 分离的原因：工厂本身不应依赖业务节点
// （避免循环依赖），节点的注册统一放在这里。
package config

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
	"github.com/rushteam/movierec/rank"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/rerank"
)

// Deps 是构建节点所需的运行时依赖（模型快照、存储等）。
// 配置文件只描述节点参数，活的依赖从这里注入。
type Deps struct {
	Snapshot *model.Snapshot
	Ratings  core.RatingStore

	// Store / PopularKey 可选：离线热门榜单所在的有序集合。
	Store      core.Store
	PopularKey string

	// Rand 冷启动采样源，可选；注入固定种子可复现。
	Rand *rand.Rand
}

// NewFactory 返回注册好全部内建节点的 NodeFactory。
//
// 支持的节点类型与配置项：
//   - recall.fanout   {multiplier, cold_k, timeout_ms}
//   - recall.popular  {k}
//   - filter.rated    {}
//   - filter.rule     {expr}
//   - rank.hybrid     {alpha}
//   - rerank.topn     {n}
func NewFactory(deps Deps) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("recall.fanout", func(cfg map[string]any) (pipeline.Node, error) {
		if deps.Snapshot == nil {
			return nil, fmt.Errorf("recall.fanout: missing snapshot")
		}
		popularity := &recall.Popularity{
			Store:   deps.Store,
			Key:     deps.PopularKey,
			Ratings: deps.Ratings,
		}
		collab := &recall.Collab{
			Model:      deps.Snapshot.ALS,
			Popularity: popularity,
		}
		content := &recall.Content{
			Snap: deps.Snapshot,
			Rand: deps.Rand,
		}
		if v, ok := conv.ToInt(cfg["multiplier"]); ok {
			collab.Multiplier = v
			content.Multiplier = v
		}
		if v, ok := conv.ToInt(cfg["cold_k"]); ok {
			popularity.K = v
			content.ColdK = v
		}
		node := &recall.Fanout{Sources: []recall.Source{collab, content}}
		if v, ok := conv.ToInt(cfg["timeout_ms"]); ok && v > 0 {
			node.Timeout = time.Duration(v) * time.Millisecond
		}
		return node, nil
	})

	f.Register("recall.popular", func(cfg map[string]any) (pipeline.Node, error) {
		node := &recall.Popularity{
			Store:   deps.Store,
			Key:     deps.PopularKey,
			Ratings: deps.Ratings,
		}
		if v, ok := conv.ToInt(cfg["k"]); ok {
			node.K = v
		}
		return node, nil
	})

	f.Register("filter.rated", func(_ map[string]any) (pipeline.Node, error) {
		return &filter.Node{Filters: []filter.Filter{&filter.Rated{}}}, nil
	})

	f.Register("filter.rule", func(cfg map[string]any) (pipeline.Node, error) {
		expr, ok := conv.ToString(cfg["expr"])
		if !ok || expr == "" {
			return nil, fmt.Errorf("filter.rule: missing expr")
		}
		return &filter.Node{Filters: []filter.Filter{&filter.Rule{Expr: expr}}}, nil
	})

	f.Register("rank.hybrid", func(cfg map[string]any) (pipeline.Node, error) {
		node := &rank.Hybrid{}
		if v, ok := conv.ToFloat64(cfg["alpha"]); ok {
			node.Alpha = v
		}
		return node, nil
	})

	f.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		node := &rerank.TopN{}
		if v, ok := conv.ToInt(cfg["n"]); ok {
			node.N = v
		}
		return node, nil
	})

	return f
}
