package store

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/rushteam/movierec/core"
)

func TestMemoryRatings(t *testing.T) {
	ctx := context.Background()
	mr := NewMemoryRatings()

	ratings := []core.Rating{
		{UserID: 1, ItemID: 10, Value: 5.0},
		{UserID: 1, ItemID: 20, Value: 3.0},
		{UserID: 2, ItemID: 10, Value: 4.0},
	}
	for _, r := range ratings {
		if err := mr.AddRating(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := mr.GetUserRatings(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := map[int64]float64{10: 5.0, 20: 3.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetUserRatings(1) = %v, want %v", got, want)
	}

	// 冷用户：空 map，不报错
	cold, err := mr.GetUserRatings(ctx, 999)
	if err != nil || len(cold) != 0 {
		t.Errorf("GetUserRatings(cold) = %v, %v; want empty, nil", cold, err)
	}

	means, err := mr.ItemMeans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(means[10]-4.5) > 1e-9 {
		t.Errorf("mean(10) = %v, want 4.5", means[10])
	}
	if math.Abs(means[20]-3.0) > 1e-9 {
		t.Errorf("mean(20) = %v, want 3.0", means[20])
	}
}

func TestMemoryRatingsOverwrite(t *testing.T) {
	ctx := context.Background()
	mr := NewMemoryRatings()

	_ = mr.AddRating(ctx, core.Rating{UserID: 1, ItemID: 10, Value: 2.0})
	_ = mr.AddRating(ctx, core.Rating{UserID: 1, ItemID: 10, Value: 5.0})

	got, _ := mr.GetUserRatings(ctx, 1)
	if got[10] != 5.0 {
		t.Errorf("rating after overwrite = %v, want 5.0", got[10])
	}

	means, _ := mr.ItemMeans(ctx)
	if math.Abs(means[10]-5.0) > 1e-9 {
		t.Errorf("mean after overwrite = %v, want 5.0", means[10])
	}
}

func TestStoreRatings(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()
	sr := NewStoreRatings(ms)

	if err := sr.AddRating(ctx, core.Rating{UserID: 7, ItemID: 42, Value: 4.5}); err != nil {
		t.Fatal(err)
	}
	got, err := sr.GetUserRatings(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got[42] != 4.5 {
		t.Errorf("GetUserRatings = %v, want 42:4.5", got)
	}

	// 均分 hash 由离线任务产出，这里直接写入
	_ = ms.HSet(ctx, "ratings:means", "42", []byte("4.1"))
	_ = ms.HSet(ctx, "ratings:means", "junk", []byte("4.0")) // 脏 field 跳过
	_ = ms.HSet(ctx, "ratings:means", "43", []byte("oops"))  // 脏 value 跳过

	means, err := sr.ItemMeans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(means) != 1 || means[42] != 4.1 {
		t.Errorf("ItemMeans = %v, want {42:4.1}", means)
	}
}
