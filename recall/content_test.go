package recall

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/store"
	"github.com/rushteam/movierec/vector"
)

func contentSnapshot(t *testing.T) *model.Snapshot {
	t.Helper()
	emb := &model.Embeddings{
		Dim: 2,
		Vectors: [][]float32{
			{1, 0},     // 10
			{0.9, 0.1}, // 20
			{0, 1},     // 30
			{0.1, 0.9}, // 40
		},
	}
	idx, err := vector.NewBruteForce(emb.Vectors)
	if err != nil {
		t.Fatal(err)
	}
	catalog := store.NewMemoryCatalog([]*core.Movie{
		{ID: 10}, {ID: 20}, {ID: 30}, {ID: 40},
	})
	als := &model.ALSModel{
		Factors:     1,
		UserFactors: [][]float32{{1}},
		ItemFactors: [][]float32{{1}, {1}, {1}, {1}},
		UserIndex:   map[int64]int{1: 0},
		ItemIDs:     []int64{10, 20, 30, 40},
	}
	snap, err := model.NewSnapshot(als, emb, idx, catalog)
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestContentWarm(t *testing.T) {
	r := &Content{Snap: contentSnapshot(t), Multiplier: 1}
	rctx := &core.RecommendContext{
		UserID:  1,
		N:       2,
		Warm:    true,
		History: map[int64]float64{10: 5.0, 20: 4.5},
	}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	// 画像 = (10, 20) 嵌入均值，最近的是 10 和 20 本身（内容侧不剔除已评分）
	if items[0].ID != 10 && items[0].ID != 20 {
		t.Errorf("nearest = %d, want 10 or 20", items[0].ID)
	}
	if lbl, _ := items[0].Label(LabelSignal); lbl.Value != SignalContent {
		t.Errorf("signal = %q, want %q", lbl.Value, SignalContent)
	}
	if items[0].Score < items[1].Score {
		t.Errorf("scores not descending: %v < %v", items[0].Score, items[1].Score)
	}
}

func TestContentNoSignal(t *testing.T) {
	r := &Content{Snap: contentSnapshot(t)}
	rctx := &core.RecommendContext{
		UserID:  1,
		N:       2,
		Warm:    true,
		History: map[int64]float64{777: 5.0, 888: 4.0}, // 全部不在目录
	}

	_, err := r.Recall(context.Background(), rctx)
	if !errors.Is(err, ErrNoContentSignal) {
		t.Fatalf("err = %v, want ErrNoContentSignal", err)
	}
	if !core.IsNoContentSignal(err) {
		t.Error("IsNoContentSignal should be true")
	}
}

func TestContentPartialHistoryStillWarm(t *testing.T) {
	r := &Content{Snap: contentSnapshot(t), Multiplier: 1}
	rctx := &core.RecommendContext{
		UserID:  1,
		N:       2,
		Warm:    true,
		History: map[int64]float64{777: 5.0, 10: 4.0}, // 一部在目录即可个性化
	}

	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) == 0 {
		t.Fatal("expected personalized results")
	}
}

func TestContentCold(t *testing.T) {
	r := &Content{
		Snap:  contentSnapshot(t),
		ColdK: 3,
		Rand:  rand.New(rand.NewSource(7)),
	}

	items, err := r.Recall(context.Background(), &core.RecommendContext{UserID: 999, N: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want ColdK=3", len(items))
	}
	seen := map[int64]bool{}
	for _, it := range items {
		if it.Score != ColdStartScore {
			t.Errorf("cold score = %v, want %v", it.Score, ColdStartScore)
		}
		if lbl, _ := it.Label("recall_source"); lbl.Value != "sample" {
			t.Errorf("recall_source = %q, want sample", lbl.Value)
		}
		if seen[it.ID] {
			t.Errorf("duplicate id %d in sample", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestContentColdKClamped(t *testing.T) {
	r := &Content{
		Snap:  contentSnapshot(t),
		ColdK: 100, // 超过目录规模
		Rand:  rand.New(rand.NewSource(7)),
	}
	items, err := r.Recall(context.Background(), &core.RecommendContext{UserID: 999, N: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Fatalf("len(items) = %d, want full catalog 4", len(items))
	}
}
