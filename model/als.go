package model

import (
	"encoding/gob"
	"fmt"
	"os"
	"sort"
)

// ALSModel 是隐式矩阵分解（implicit ALS）模型的在线快照。
//
// 离线训练产出用户/物品隐向量与内外 ID 映射，在线只读、查表打分：
// 预测分数 = 用户隐向量 · 物品隐向量（无界实数，不做归一化）。
//
// UserIndex 是训练期的用户编码表：训练后新注册的用户不在表里，
// 这类用户即使有评分记录，协同侧也按冷用户兜底处理（不报错）。
type ALSModel struct {
	// Factors 隐向量维度
	Factors int

	// UserFactors / ItemFactors 按内部行号索引的隐向量矩阵
	UserFactors [][]float32
	ItemFactors [][]float32

	// UserIndex 外部 userID → 内部行号
	UserIndex map[int64]int

	// ItemIDs 内部行号 → 外部 movieId（训练期的编码表）
	ItemIDs []int64
}

// UserCode 把外部 userID 翻译为模型内部行号。
func (m *ALSModel) UserCode(userID int64) (int, bool) {
	code, ok := m.UserIndex[userID]
	return code, ok
}

// Validate 校验矩阵维度与映射表的一致性。
func (m *ALSModel) Validate() error {
	if m.Factors <= 0 {
		return fmt.Errorf("als: non-positive factor dim %d", m.Factors)
	}
	if len(m.ItemFactors) != len(m.ItemIDs) {
		return fmt.Errorf("als: item factors %d != item ids %d", len(m.ItemFactors), len(m.ItemIDs))
	}
	for i, v := range m.UserFactors {
		if len(v) != m.Factors {
			return fmt.Errorf("als: user row %d has dim %d, want %d", i, len(v), m.Factors)
		}
	}
	for i, v := range m.ItemFactors {
		if len(v) != m.Factors {
			return fmt.Errorf("als: item row %d has dim %d, want %d", i, len(v), m.Factors)
		}
	}
	for userID, code := range m.UserIndex {
		if code < 0 || code >= len(m.UserFactors) {
			return fmt.Errorf("als: user %d maps to row %d, matrix has %d rows", userID, code, len(m.UserFactors))
		}
	}
	return nil
}

// Recommend 为内部行号 userCode 的用户打分，返回 TopN 的
// (movieId, score) 对，按分数降序、同分按 ID 升序。
// rated 中的影片（用户已评分）被剔除，避免推荐已知物品。
func (m *ALSModel) Recommend(userCode int, rated map[int64]float64, topN int) ([]int64, []float64) {
	if userCode < 0 || userCode >= len(m.UserFactors) || topN <= 0 {
		return nil, nil
	}
	userVec := m.UserFactors[userCode]

	type scoredItem struct {
		itemID int64
		score  float64
	}
	scores := make([]scoredItem, 0, len(m.ItemFactors))

	for i, itemVec := range m.ItemFactors {
		itemID := m.ItemIDs[i]
		if _, ok := rated[itemID]; ok {
			continue
		}
		scores = append(scores, scoredItem{
			itemID: itemID,
			score:  dotProduct(userVec, itemVec),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].itemID < scores[j].itemID
	})
	if len(scores) > topN {
		scores = scores[:topN]
	}

	ids := make([]int64, len(scores))
	vals := make([]float64, len(scores))
	for i, s := range scores {
		ids[i] = s.itemID
		vals[i] = s.score
	}
	return ids, vals
}

// dotProduct 计算两个向量的点积。
func dotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// SaveALS 把模型写入 gob 工件文件（离线训练侧使用）。
func SaveALS(path string, m *ALSModel) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("als: create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("als: encode: %w", err)
	}
	return nil
}

// LoadALS 从 gob 工件文件加载模型并校验。
func LoadALS(path string) (*ALSModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("als: open %s: %w", path, err)
	}
	defer f.Close()

	var m ALSModel
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("als: decode %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
