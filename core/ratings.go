package core

import "context"

// 评分取值范围（MovieLens 半星制）。
const (
	MinRating = 0.5
	MaxRating = 5.0
)

// Rating 是一条不可变的用户-影片评分事件。
type Rating struct {
	UserID int64   `json:"user_id"`
	ItemID int64   `json:"movie_id"`
	Value  float64 `json:"rating"` // [0.5, 5.0]
}

// RatingStore 是交互数据的领域接口（外部协作方）。
//
// 本引擎对它只读 + 追加写：
//   - 读取用于冷热判定、已评分剔除、热门兜底
//   - AddRating 只追加，不修改历史事件
//
// 一致性要求：单次请求内的读取看到一份一致快照即可；
// 新写入的评分对后续请求"最终可见"即满足约定，不要求事务隔离。
type RatingStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// GetUserRatings 返回用户的全部评分，map[movieId]rating。
	// 用户无任何记录时返回空 map（而非错误）——零记录即冷用户。
	GetUserRatings(ctx context.Context, userID int64) (map[int64]float64, error)

	// ItemMeans 返回每部影片的历史平均评分（跨全体用户），
	// 用于冷启动时的热门兜底排序。
	ItemMeans(ctx context.Context) (map[int64]float64, error)

	// AddRating 追加一条评分事件。
	AddRating(ctx context.Context, r Rating) error
}
