package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// Fanout 是一个 Recall Node：并发执行多个打分源，合并（并集）结果。
//
// 错误语义：任一打分源失败则整个 Fanout 失败。融合排序只有在
// 两个打分源的结果都拿到时才有意义——冷启动兜底路径自身不会失败，
// 而 NO_CONTENT_SIGNAL 这类失败必须上抛，不允许吞掉后单侧出结果。
//
// 合并语义：不去重。同一影片可以同时出现在协同侧和内容侧，
// 由 rank.Hybrid 按 signal label 分组加权融合。
type Fanout struct {
	Sources []Source

	// Timeout 每个打分源的超时时间，0 表示不限制。
	Timeout time.Duration

	// MaxConcurrent 最大并发数，0 表示不限制。
	MaxConcurrent int
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu  sync.Mutex
		all []*core.Item
	)
	eg, ectx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for _, src := range n.Sources {
		s := src
		eg.Go(func() error {
			recallCtx := ectx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ectx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				return err
			}

			mu.Lock()
			all = append(all, items...)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}
