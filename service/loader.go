package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/store"
	"github.com/rushteam/movierec/vector"
)

// 模型目录下的工件文件名约定（由离线训练任务产出）。
const (
	ALSFile        = "als.gob"
	EmbeddingsFile = "embeddings.gob"
	IndexFile      = "index.ann"
	CatalogFile    = "movies.json"
)

// Loader 从模型目录构建服务快照。
//
// 四个工件缺一不可：ALS 因子、嵌入矩阵、影片目录为硬依赖；
// 近邻索引文件缺失时退化为从嵌入矩阵现场重建（启动慢一些，结果等价）。
type Loader struct {
	// Dir 模型工件所在目录。
	Dir string
	// Trees 现场重建索引时的树数，0 取 vector.DefaultTrees。
	Trees int

	Log zerolog.Logger
}

// Load 读取全部工件并组装为一致性校验过的 Snapshot。
func (l *Loader) Load() (*model.Snapshot, error) {
	als, err := model.LoadALS(filepath.Join(l.Dir, ALSFile))
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	emb, err := model.LoadEmbeddings(filepath.Join(l.Dir, EmbeddingsFile))
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	catalog, err := l.loadCatalog()
	if err != nil {
		return nil, err
	}

	index, err := l.loadIndex(emb)
	if err != nil {
		return nil, err
	}

	snap, err := model.NewSnapshot(als, emb, index, catalog)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	l.Log.Info().
		Str("dir", l.Dir).
		Int("users", len(als.UserFactors)).
		Int("movies", catalog.Len()).
		Int("embedding_dim", emb.Dim).
		Str("index", index.Name()).
		Msg("model snapshot loaded")
	return snap, nil
}

// loadCatalog 读取 movies.json：按行序排列的影片元数据数组。
func (l *Loader) loadCatalog() (core.Catalog, error) {
	path := filepath.Join(l.Dir, CatalogFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read catalog %s: %w", path, err)
	}
	var movies []*core.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		return nil, fmt.Errorf("loader: parse catalog %s: %w", path, err)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("loader: empty catalog %s", path)
	}
	return store.NewMemoryCatalog(movies), nil
}

// loadIndex 优先加载 .ann 工件，缺失时从嵌入矩阵重建。
func (l *Loader) loadIndex(emb *model.Embeddings) (core.VectorIndex, error) {
	path := filepath.Join(l.Dir, IndexFile)
	if _, err := os.Stat(path); err == nil {
		idx, err := vector.LoadAnnoy(path, emb.Dim, emb.Len())
		if err != nil {
			return nil, fmt.Errorf("loader: %w", err)
		}
		return idx, nil
	}

	l.Log.Warn().Str("path", path).Msg("index artifact missing, rebuilding from embeddings")
	idx, err := vector.BuildAnnoy(emb.Vectors, l.Trees)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return idx, nil
}
