// Package vector 提供 core.VectorIndex 的两个实现：
// Annoy 近似检索（生产）与暴力余弦检索（测试/小目录）。
package vector

import (
	"context"
	"fmt"

	"github.com/mariotoffia/goannoy/builder"
	"github.com/mariotoffia/goannoy/interfaces"
)

// DefaultTrees 是 Annoy 索引的默认树数，树越多精度越高、构建越慢。
const DefaultTrees = 10

// AnnoyIndex 是基于 Annoy（角距离）的近似近邻索引。
//
// 分数约定：Annoy 返回的角距离落在 [0, 2]，这里统一映射为
// 相似度 sim = 1 - dist/2，落在 [0, 1]、越大越相近。
// 内容侧分数因此是有界的；协同侧分数保持模型原始尺度（无界），
// 这一不对称是文档化的设计取舍，不在融合前再做归一化。
type AnnoyIndex struct {
	idx  interfaces.AnnoyIndex[float32, uint32]
	dim  int
	size int
}

func newAnnoy(dim int) interfaces.AnnoyIndex[float32, uint32] {
	return builder.Index[float32, uint32]().
		AngularDistance(dim).
		UseMultiWorkerPolicy().
		MmapIndexAllocator().
		Build()
}

// BuildAnnoy 从嵌入矩阵行构建索引。行号即索引内的 item 编号，
// 与目录行序一致——不需要额外的映射文件。
func BuildAnnoy(rows [][]float32, trees int) (*AnnoyIndex, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("annoy: empty embedding matrix")
	}
	dim := len(rows[0])
	if dim == 0 {
		return nil, fmt.Errorf("annoy: zero-dim vectors")
	}
	if trees <= 0 {
		trees = DefaultTrees
	}

	idx := newAnnoy(dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("annoy: row %d has dim %d, want %d", i, len(row), dim)
		}
		idx.AddItem(uint32(i), row)
	}
	idx.Build(trees, -1)

	return &AnnoyIndex{idx: idx, dim: dim, size: len(rows)}, nil
}

// LoadAnnoy 从 .ann 工件文件加载索引。
// 行数与维度来自随行的嵌入矩阵，调用方（service.Loader）负责传入。
func LoadAnnoy(path string, dim, size int) (*AnnoyIndex, error) {
	if dim <= 0 || size <= 0 {
		return nil, fmt.Errorf("annoy: invalid dim %d / size %d", dim, size)
	}
	idx := newAnnoy(dim)
	if err := idx.Load(path); err != nil {
		return nil, fmt.Errorf("annoy: load %s: %w", path, err)
	}
	return &AnnoyIndex{idx: idx, dim: dim, size: size}, nil
}

// Save 把索引写入 .ann 工件文件。
func (a *AnnoyIndex) Save(path string) error {
	if err := a.idx.Save(path); err != nil {
		return fmt.Errorf("annoy: save %s: %w", path, err)
	}
	return nil
}

func (a *AnnoyIndex) Name() string { return "annoy" }

// Len 返回索引行数。
func (a *AnnoyIndex) Len() int { return a.size }

// Search 返回与 query 最相近的 k 行，按相似度降序。
func (a *AnnoyIndex) Search(_ context.Context, query []float32, k int) ([]int, []float32, error) {
	if len(query) != a.dim {
		return nil, nil, fmt.Errorf("annoy: query dim %d, want %d", len(query), a.dim)
	}
	if k > a.size {
		k = a.size
	}
	if k <= 0 {
		return nil, nil, nil
	}

	sctx := a.idx.CreateContext()
	ids, dists := a.idx.GetNnsByVector(query, k, -1, sctx)

	rows := make([]int, len(ids))
	sims := make([]float32, len(ids))
	for i, id := range ids {
		rows[i] = int(id)
		if i < len(dists) {
			sims[i] = 1.0 - dists[i]/2.0
		}
	}
	return rows, sims, nil
}
