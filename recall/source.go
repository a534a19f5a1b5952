package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Source 表示一个可复用的打分源（协同/内容/热门/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// 打分源共用的缺省参数。
const (
	// DefaultMultiplier 候选放大倍数：每个打分源产出 n*10 个候选，
	// 再由融合排序截断到 n。
	DefaultMultiplier = 10

	// DefaultColdStartK 冷启动兜底的候选条数。
	DefaultColdStartK = 100

	// ColdStartScore 冷启动候选的中性分。冷用户两侧都给 0.5，
	// 融合后 alpha*0.5+(1-alpha)*0.5 = 0.5，与 alpha 无关。
	ColdStartScore = 0.5

	// DefaultTopRated 温用户画像取评分最高的前几部影片。
	DefaultTopRated = 5
)

// Label 约定：signal 标记候选属于哪一侧，rank.Hybrid 据此融合。
const (
	LabelSignal   = "signal"
	SignalCollab  = "collab"
	SignalContent = "content"
)
