package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// BruteForce 是精确余弦相似度索引，用于测试、开发与小目录场景。
// 分数即余弦相似度 [-1, 1]，越大越相近；排序结果稳定
// （相似度相同按行号升序），便于断言。
type BruteForce struct {
	dim  int
	rows [][]float32
}

// NewBruteForce 从嵌入矩阵行构建索引（持有引用，不拷贝——
// 行数据与 Snapshot 同生命周期，均为只读）。
func NewBruteForce(rows [][]float32) (*BruteForce, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("brute: empty embedding matrix")
	}
	dim := len(rows[0])
	if dim == 0 {
		return nil, fmt.Errorf("brute: zero-dim vectors")
	}
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("brute: row %d has dim %d, want %d", i, len(row), dim)
		}
	}
	return &BruteForce{dim: dim, rows: rows}, nil
}

func (b *BruteForce) Name() string { return "brute" }

// Len 返回索引行数。
func (b *BruteForce) Len() int { return len(b.rows) }

// Search 返回与 query 余弦相似度最高的 k 行，降序。
func (b *BruteForce) Search(_ context.Context, query []float32, k int) ([]int, []float32, error) {
	if len(query) != b.dim {
		return nil, nil, fmt.Errorf("brute: query dim %d, want %d", len(query), b.dim)
	}
	if k > len(b.rows) {
		k = len(b.rows)
	}
	if k <= 0 {
		return nil, nil, nil
	}

	type scoredRow struct {
		row int
		sim float32
	}
	scores := make([]scoredRow, len(b.rows))
	for i, row := range b.rows {
		scores[i] = scoredRow{row: i, sim: cosine(query, row)}
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].sim != scores[j].sim {
			return scores[i].sim > scores[j].sim
		}
		return scores[i].row < scores[j].row
	})

	rows := make([]int, k)
	sims := make([]float32, k)
	for i := 0; i < k; i++ {
		rows[i] = scores[i].row
		sims[i] = scores[i].sim
	}
	return rows, sims, nil
}

// cosine 计算两个向量的余弦相似度，零向量视为 0。
func cosine(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
