package model

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Embeddings 是行主序的影片嵌入矩阵。
// 行序与 Catalog.IDs() 严格一致（在 NewSnapshot 中校验），
// 行号即目录下标——引擎依赖这一份唯一的 行号↔movieId 映射。
type Embeddings struct {
	// Dim 向量维度 D
	Dim int

	// Vectors 每行一部影片的稠密向量
	Vectors [][]float32
}

// Len 返回矩阵行数。
func (e *Embeddings) Len() int { return len(e.Vectors) }

// Row 返回第 i 行向量；越界返回 nil。
func (e *Embeddings) Row(i int) []float32 {
	if i < 0 || i >= len(e.Vectors) {
		return nil
	}
	return e.Vectors[i]
}

// Validate 校验所有行的维度一致。
func (e *Embeddings) Validate() error {
	if e.Dim <= 0 {
		return fmt.Errorf("embeddings: non-positive dim %d", e.Dim)
	}
	for i, v := range e.Vectors {
		if len(v) != e.Dim {
			return fmt.Errorf("embeddings: row %d has dim %d, want %d", i, len(v), e.Dim)
		}
	}
	return nil
}

// Mean 计算若干向量的逐元素平均（用户画像向量 = Top5 高分影片嵌入的均值）。
// 输入为空返回 nil。
func Mean(rows [][]float32) []float32 {
	if len(rows) == 0 {
		return nil
	}
	out := make([]float32, len(rows[0]))
	for _, row := range rows {
		for i := range out {
			out[i] += row[i]
		}
	}
	n := float32(len(rows))
	for i := range out {
		out[i] /= n
	}
	return out
}

// SaveEmbeddings 把嵌入矩阵写入 gob 工件文件。
func SaveEmbeddings(path string, e *Embeddings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("embeddings: create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(e); err != nil {
		return fmt.Errorf("embeddings: encode: %w", err)
	}
	return nil
}

// LoadEmbeddings 从 gob 工件文件加载嵌入矩阵并校验。
func LoadEmbeddings(path string) (*Embeddings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("embeddings: open %s: %w", path, err)
	}
	defer f.Close()

	var e Embeddings
	if err := gob.NewDecoder(f).Decode(&e); err != nil {
		return nil, fmt.Errorf("embeddings: decode %s: %w", path, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
