package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/movierec/core"
)

// MemoryCatalog 是内存实现的 Catalog。
// movies 的传入顺序即行序——必须与嵌入矩阵的训练行序一致。
type MemoryCatalog struct {
	ids   []int64
	index map[int64]*core.Movie
}

func NewMemoryCatalog(movies []*core.Movie) *MemoryCatalog {
	c := &MemoryCatalog{
		ids:   make([]int64, 0, len(movies)),
		index: make(map[int64]*core.Movie, len(movies)),
	}
	for _, m := range movies {
		c.ids = append(c.ids, m.ID)
		c.index[m.ID] = m
	}
	return c
}

var _ core.Catalog = (*MemoryCatalog)(nil)

func (c *MemoryCatalog) Name() string { return "memory" }

func (c *MemoryCatalog) Get(ctx context.Context, itemID int64) (*core.Movie, error) {
	m, ok := c.index[itemID]
	if !ok {
		return nil, core.ErrMovieNotFound
	}
	return m, nil
}

func (c *MemoryCatalog) IDs() []int64 { return c.ids }

func (c *MemoryCatalog) Len() int { return len(c.ids) }

// StoreCatalog 把影片目录放在 Store 上（生产环境配 RedisStore）。
//
// 数据布局：
//   - catalog:ids        JSON 数组，定义行序（与嵌入矩阵一致）
//   - catalog:movie:<id> 单部影片的 JSON 元数据
//
// 行序列表在构建时一次性加载并常驻内存（行序是只读不变量），
// 元数据按需读取。
type StoreCatalog struct {
	store core.Store
	ids   []int64
}

const catalogIDsKey = "catalog:ids"

func catalogMovieKey(itemID int64) string {
	return fmt.Sprintf("catalog:movie:%d", itemID)
}

func NewStoreCatalog(ctx context.Context, s core.Store) (*StoreCatalog, error) {
	raw, err := s.Get(ctx, catalogIDsKey)
	if err != nil {
		return nil, fmt.Errorf("catalog: load ids: %w", err)
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("catalog: parse ids: %w", err)
	}
	return &StoreCatalog{store: s, ids: ids}, nil
}

var _ core.Catalog = (*StoreCatalog)(nil)

func (c *StoreCatalog) Name() string { return "kv:" + c.store.Name() }

func (c *StoreCatalog) Get(ctx context.Context, itemID int64) (*core.Movie, error) {
	raw, err := c.store.Get(ctx, catalogMovieKey(itemID))
	if core.IsStoreNotFound(err) {
		return nil, core.ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: movie %d: %w", itemID, err)
	}
	var m core.Movie
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("catalog: parse movie %d: %w", itemID, err)
	}
	return &m, nil
}

func (c *StoreCatalog) IDs() []int64 { return c.ids }

func (c *StoreCatalog) Len() int { return len(c.ids) }

// PutMovie 写入一部影片的元数据（离线导入任务使用）。
func PutMovie(ctx context.Context, s core.Store, m *core.Movie) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("catalog: marshal movie %d: %w", m.ID, err)
	}
	return s.Set(ctx, catalogMovieKey(m.ID), raw)
}

// PutCatalogOrder 写入目录行序（离线导入任务使用）。
func PutCatalogOrder(ctx context.Context, s core.Store, ids []int64) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("catalog: marshal ids: %w", err)
	}
	return s.Set(ctx, catalogIDsKey, raw)
}
