package filter

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
)

func TestRatedFilter(t *testing.T) {
	node := &Node{Filters: []Filter{&Rated{}}}
	rctx := &core.RecommendContext{
		History: map[int64]float64{2: 5.0},
	}
	items := []*core.Item{core.NewItem(1), core.NewItem(2), core.NewItem(3)}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 3 {
		t.Errorf("out = %v, want ids [1 3]", out)
	}
}

func TestRuleFilter(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantIDs []int64
		wantErr bool
	}{
		{
			name:    "drop by id",
			expr:    "item.id == 2",
			wantIDs: []int64{1, 3},
		},
		{
			name:    "drop by score",
			expr:    "item.score < 0.5",
			wantIDs: []int64{2, 3},
		},
		{
			name:    "invalid expression",
			expr:    "item.id ===",
			wantErr: true,
		},
		{
			name:    "empty expression",
			expr:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &Node{Filters: []Filter{&Rule{Expr: tt.expr}}}
			items := []*core.Item{core.NewItem(1), core.NewItem(2), core.NewItem(3)}
			items[0].Score = 0.1
			items[1].Score = 0.6
			items[2].Score = 0.9

			out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != len(tt.wantIDs) {
				t.Fatalf("len(out) = %d, want %d", len(out), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if out[i].ID != want {
					t.Errorf("out[%d].ID = %d, want %d", i, out[i].ID, want)
				}
			}
		})
	}
}

func TestFilterNodeNoFilters(t *testing.T) {
	node := &Node{}
	items := []*core.Item{core.NewItem(1)}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Errorf("len(out) = %d, want 1", len(out))
	}
}
