package core

import (
	"reflect"
	"testing"
)

func TestTopRated(t *testing.T) {
	tests := []struct {
		name    string
		history map[int64]float64
		k       int
		want    []int64
	}{
		{
			name:    "rating desc",
			history: map[int64]float64{1: 3.0, 2: 5.0, 3: 4.0},
			k:       3,
			want:    []int64{2, 3, 1},
		},
		{
			name:    "tie breaks by id asc",
			history: map[int64]float64{7: 4.0, 3: 4.0, 5: 4.0},
			k:       3,
			want:    []int64{3, 5, 7},
		},
		{
			name:    "k truncates",
			history: map[int64]float64{1: 5.0, 2: 4.0, 3: 3.0},
			k:       2,
			want:    []int64{1, 2},
		},
		{
			name:    "k exceeds history",
			history: map[int64]float64{1: 5.0},
			k:       5,
			want:    []int64{1},
		},
		{
			name:    "empty history",
			history: nil,
			k:       5,
			want:    nil,
		},
		{
			name:    "non-positive k",
			history: map[int64]float64{1: 5.0},
			k:       0,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := &RecommendContext{History: tt.history}
			got := rctx.TopRated(tt.k)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopRated(%d) = %v, want %v", tt.k, got, tt.want)
			}
		})
	}
}
