package model

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		emb     *Embeddings
		wantErr bool
	}{
		{
			name: "valid",
			emb:  &Embeddings{Dim: 2, Vectors: [][]float32{{1, 0}, {0, 1}}},
		},
		{
			name:    "zero dim",
			emb:     &Embeddings{Dim: 0},
			wantErr: true,
		},
		{
			name:    "row dim mismatch",
			emb:     &Embeddings{Dim: 2, Vectors: [][]float32{{1, 0}, {1}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.emb.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMean(t *testing.T) {
	got := Mean([][]float32{{1, 0, 2}, {3, 2, 0}})
	want := []float32{2, 1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Mean = %v, want %v", got, want)
	}

	if got := Mean(nil); got != nil {
		t.Errorf("Mean(nil) = %v, want nil", got)
	}

	single := Mean([][]float32{{0.5, 0.25}})
	if math.Abs(float64(single[0])-0.5) > 1e-6 || math.Abs(float64(single[1])-0.25) > 1e-6 {
		t.Errorf("Mean(single) = %v", single)
	}
}

func TestEmbeddingsRow(t *testing.T) {
	emb := &Embeddings{Dim: 2, Vectors: [][]float32{{1, 0}, {0, 1}}}
	if got := emb.Row(1); !reflect.DeepEqual(got, []float32{0, 1}) {
		t.Errorf("Row(1) = %v", got)
	}
	if got := emb.Row(-1); got != nil {
		t.Errorf("Row(-1) = %v, want nil", got)
	}
	if got := emb.Row(2); got != nil {
		t.Errorf("Row(2) = %v, want nil", got)
	}
}

func TestEmbeddingsSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.gob")
	orig := &Embeddings{Dim: 3, Vectors: [][]float32{{1, 2, 3}, {4, 5, 6}}}

	if err := SaveEmbeddings(path, orig); err != nil {
		t.Fatalf("SaveEmbeddings: %v", err)
	}
	got, err := LoadEmbeddings(path)
	if err != nil {
		t.Fatalf("LoadEmbeddings: %v", err)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", got, orig)
	}
}
