package core

import "context"

// Movie 是影片的展示元数据，只用于结果补全，不参与排序。
type Movie struct {
	ID       int64  `json:"movie_id"`
	Title    string `json:"title"`
	Genres   string `json:"genres"`
	Overview string `json:"overview,omitempty"`
}

// Catalog 是影片目录的只读领域接口。
//
// 行序不变量：IDs() 的顺序就是嵌入矩阵的行序，两者必须逐行一致。
// 该不变量在 model.NewSnapshot 构建时校验，而不是作为隐含假设——
// 行序错位会静默污染所有内容侧结果。
type Catalog interface {
	// Name 返回目录后端名称（用于日志/监控）
	Name() string

	// Get 按影片 ID 读取元数据；不存在时返回 ErrMovieNotFound。
	Get(ctx context.Context, itemID int64) (*Movie, error)

	// IDs 返回全部影片 ID，顺序稳定且与嵌入矩阵行序一致。
	// 返回的切片为只读约定，调用方不得修改。
	IDs() []int64

	// Len 返回目录中的影片数。
	Len() int
}

// ErrMovieNotFound 表示影片不在目录中。
var ErrMovieNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: movie not found")
