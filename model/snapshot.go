package model

import (
	"fmt"

	"github.com/rushteam/movierec/core"
)

// Snapshot 是一次性构建、只读共享的服务快照：
// ALS 模型、嵌入矩阵、近邻索引、影片目录的一致组合。
//
// 并发模型：构建完成后不再修改，任意多个请求可无锁并发读取。
// 重新加载 = 构建新 Snapshot 后在持有方整体原子替换引用，绝不就地修改。
type Snapshot struct {
	ALS        *ALSModel
	Embeddings *Embeddings
	Index      core.VectorIndex
	Catalog    core.Catalog

	// rowOf movieId → 嵌入矩阵行号，由目录行序构建
	rowOf map[int64]int
}

// NewSnapshot 组装并校验一份服务快照。
//
// 行序不变量在这里强制执行：嵌入矩阵、近邻索引、影片目录三者的
// 行数必须一致，目录 ID 序列定义唯一的 行号↔movieId 映射。
// 任何错位都在加载期报错，而不是在服务期静默污染结果。
func NewSnapshot(als *ALSModel, emb *Embeddings, index core.VectorIndex, catalog core.Catalog) (*Snapshot, error) {
	if als == nil || emb == nil || index == nil || catalog == nil {
		return nil, fmt.Errorf("snapshot: missing component (als=%v emb=%v index=%v catalog=%v)",
			als != nil, emb != nil, index != nil, catalog != nil)
	}
	if err := als.Validate(); err != nil {
		return nil, err
	}
	if err := emb.Validate(); err != nil {
		return nil, err
	}
	if emb.Len() != catalog.Len() {
		return nil, fmt.Errorf("snapshot: embedding rows %d != catalog size %d", emb.Len(), catalog.Len())
	}
	if index.Len() != emb.Len() {
		return nil, fmt.Errorf("snapshot: index rows %d != embedding rows %d", index.Len(), emb.Len())
	}

	ids := catalog.IDs()
	rowOf := make(map[int64]int, len(ids))
	for row, id := range ids {
		if _, dup := rowOf[id]; dup {
			return nil, fmt.Errorf("snapshot: duplicate movie id %d in catalog order", id)
		}
		rowOf[id] = row
	}

	return &Snapshot{
		ALS:        als,
		Embeddings: emb,
		Index:      index,
		Catalog:    catalog,
		rowOf:      rowOf,
	}, nil
}

// RowOf 返回影片在嵌入矩阵中的行号。
func (s *Snapshot) RowOf(itemID int64) (int, bool) {
	row, ok := s.rowOf[itemID]
	return row, ok
}

// IDAt 返回嵌入矩阵第 row 行对应的影片 ID。
func (s *Snapshot) IDAt(row int) (int64, bool) {
	ids := s.Catalog.IDs()
	if row < 0 || row >= len(ids) {
		return 0, false
	}
	return ids[row], true
}
