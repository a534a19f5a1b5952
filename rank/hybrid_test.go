package rank

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
	"github.com/rushteam/movierec/recall"
)

func sided(id int64, score float64, signal string) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	it.PutLabel(recall.LabelSignal, utils.Label{Value: signal, Source: "recall"})
	return it
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestHybridBlend(t *testing.T) {
	// collab: {2: 0.8, 3: 0.2}  content: {2: 0.9, 3: 0.1}  alpha: 0.6
	// 2 -> 0.6*0.8 + 0.4*0.9 = 0.84
	// 3 -> 0.6*0.2 + 0.4*0.1 = 0.16
	items := []*core.Item{
		sided(2, 0.8, recall.SignalCollab),
		sided(3, 0.2, recall.SignalCollab),
		sided(2, 0.9, recall.SignalContent),
		sided(3, 0.1, recall.SignalContent),
	}
	n := &Hybrid{}
	rctx := &core.RecommendContext{N: 10, Alpha: 0.6}

	out, err := n.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].ID != 2 || !almostEqual(out[0].Score, 0.84) {
		t.Errorf("out[0] = (%d, %v), want (2, 0.84)", out[0].ID, out[0].Score)
	}
	if out[1].ID != 3 || !almostEqual(out[1].Score, 0.16) {
		t.Errorf("out[1] = (%d, %v), want (3, 0.16)", out[1].ID, out[1].Score)
	}
	if !almostEqual(out[0].Features["collab_score"], 0.8) ||
		!almostEqual(out[0].Features["content_score"], 0.9) {
		t.Errorf("features = %v", out[0].Features)
	}
}

// 并集语义：单侧影片按缺失侧 0 分参与竞争。
func TestHybridUnionMissingSideZero(t *testing.T) {
	items := []*core.Item{
		sided(1, 1.0, recall.SignalCollab),
		sided(2, 1.0, recall.SignalContent),
	}
	n := &Hybrid{}
	rctx := &core.RecommendContext{N: 10, Alpha: 0.6}

	out, err := n.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	// 1 -> 0.6*1.0 = 0.6   2 -> 0.4*1.0 = 0.4
	if out[0].ID != 1 || !almostEqual(out[0].Score, 0.6) {
		t.Errorf("out[0] = (%d, %v), want (1, 0.6)", out[0].ID, out[0].Score)
	}
	if out[1].ID != 2 || !almostEqual(out[1].Score, 0.4) {
		t.Errorf("out[1] = (%d, %v), want (2, 0.4)", out[1].ID, out[1].Score)
	}
}

func TestHybridAlphaExtremes(t *testing.T) {
	items := func() []*core.Item {
		return []*core.Item{
			sided(1, 1.0, recall.SignalCollab),
			sided(2, 1.0, recall.SignalContent),
		}
	}
	n := &Hybrid{}

	// alpha=1：纯协同
	out, err := n.Process(context.Background(), &core.RecommendContext{N: 10, Alpha: 1}, items())
	if err != nil {
		t.Fatal(err)
	}
	if out[0].ID != 1 || !almostEqual(out[0].Score, 1.0) || !almostEqual(out[1].Score, 0.0) {
		t.Errorf("alpha=1: out = [(%d,%v),(%d,%v)]", out[0].ID, out[0].Score, out[1].ID, out[1].Score)
	}

	// alpha=0 是合法取值：纯内容，不回退默认权重
	out, err = n.Process(context.Background(), &core.RecommendContext{N: 10, Alpha: 0}, items())
	if err != nil {
		t.Fatal(err)
	}
	if out[0].ID != 2 || !almostEqual(out[0].Score, 1.0) {
		t.Errorf("alpha=0: out[0] = (%d, %v), want (2, 1.0)", out[0].ID, out[0].Score)
	}
}

func TestHybridAlphaFallback(t *testing.T) {
	n := &Hybrid{Alpha: 0.9}

	// 负数表示请求未指定，用节点配置
	if got := n.alpha(&core.RecommendContext{Alpha: -1}); got != 0.9 {
		t.Errorf("alpha = %v, want 0.9", got)
	}
	// 节点也未配置时用缺省
	n2 := &Hybrid{}
	if got := n2.alpha(&core.RecommendContext{Alpha: -1}); got != DefaultAlpha {
		t.Errorf("alpha = %v, want %v", got, DefaultAlpha)
	}
	if got := n2.alpha(nil); got != DefaultAlpha {
		t.Errorf("alpha(nil) = %v, want %v", got, DefaultAlpha)
	}
	// 请求指定时覆盖节点配置
	if got := n.alpha(&core.RecommendContext{Alpha: 0.3}); got != 0.3 {
		t.Errorf("alpha = %v, want 0.3", got)
	}
}

func TestHybridTieBreakByID(t *testing.T) {
	items := []*core.Item{
		sided(5, 0.5, recall.SignalCollab),
		sided(3, 0.5, recall.SignalCollab),
		sided(4, 0.5, recall.SignalCollab),
	}
	n := &Hybrid{}
	out, err := n.Process(context.Background(), &core.RecommendContext{N: 10, Alpha: 1}, items)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []int64{3, 4, 5} {
		if out[i].ID != want {
			t.Errorf("out[%d].ID = %d, want %d", i, out[i].ID, want)
		}
	}
}

func TestHybridEmptyInput(t *testing.T) {
	n := &Hybrid{}
	out, err := n.Process(context.Background(), &core.RecommendContext{N: 10, Alpha: 0.6}, nil)
	if err != nil || out != nil {
		t.Errorf("Process(empty) = %v, %v; want nil, nil", out, err)
	}
}

// 同侧重复保留先到的分数。
func TestHybridDuplicateSameSide(t *testing.T) {
	items := []*core.Item{
		sided(1, 0.9, recall.SignalCollab),
		sided(1, 0.1, recall.SignalCollab),
	}
	n := &Hybrid{}
	out, err := n.Process(context.Background(), &core.RecommendContext{N: 10, Alpha: 1}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || !almostEqual(out[0].Score, 0.9) {
		t.Errorf("out = %v, want single item score 0.9", out)
	}
}
