package core

import "context"

// VectorIndex 是嵌入向量近邻检索的领域接口（由 vector 包实现）。
//
// 统一约定：返回的相似度"越大越相近"，尺度由实现文档化
// （Annoy 实现为角距离映射到 [0,1] 的相似度，暴力实现为余弦相似度）。
// 查询向量对应的行本身不会被剔除——是否剔除由调用方按语义决定：
// item-to-item 相似（Similar）剔除自身，用户画像检索（recall.Content）不剔除。
type VectorIndex interface {
	// Name 返回索引实现名称（用于日志/监控）
	Name() string

	// Search 返回与 query 最相近的 k 行：(行号, 相似度) 两个等长切片，
	// 按相似度降序。k 大于索引行数时返回全部行。
	Search(ctx context.Context, query []float32, k int) ([]int, []float32, error)

	// Len 返回索引中的行数。
	Len() int
}
