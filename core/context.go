package core

import (
	"sort"

	"github.com/rushteam/movierec/pkg/utils"
)

// RecommendContext 承载单次推荐请求的上下文，贯穿整个 Pipeline 透传。
//
// 冷热判定（Warm / History）由 service 层在请求入口一次性完成：
// 两个打分源必须读取同一份判定结果，不允许各自重新分类，
// 否则可能出现一侧按温用户、另一侧按冷用户处理的不一致。
type RecommendContext struct {
	UserID int64

	// N 目标返回条数。
	N int

	// Alpha 融合权重（协同侧权重，[0,1]）。0 是合法取值（纯内容侧）；
	// 手工构建 context 且不想指定时置为负数，表示沿用节点缺省。
	// service 层构建的 context 总是携带已校验的 Alpha。
	Alpha float64

	// Warm 表示用户是否有至少一条评分记录；History 是 map[movieId]rating。
	// 冷用户（History 为空）走各打分源的冷启动兜底，永不报错。
	Warm    bool
	History map[int64]float64

	// Params 请求级上下文参数（debug 开关、场景标识等）。
	Params map[string]any

	// Labels 用户级标签，可驱动 Filter / 策略节点行为。
	Labels map[string]utils.Label
}

// TopRated 返回用户评分最高的前 k 部影片 ID。
// 按评分降序，评分相同时按影片 ID 升序，保证结果可复现。
func (rctx *RecommendContext) TopRated(k int) []int64 {
	if len(rctx.History) == 0 || k <= 0 {
		return nil
	}
	ids := make([]int64, 0, len(rctx.History))
	for id := range rctx.History {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ri, rj := rctx.History[ids[i]], rctx.History[ids[j]]
		if ri != rj {
			return ri > rj
		}
		return ids[i] < ids[j]
	})
	if len(ids) > k {
		ids = ids[:k]
	}
	return ids
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
