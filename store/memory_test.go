package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/movierec/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) err = %v, want ErrStoreNotFound", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, err)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after delete err = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStoreBatchGet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	_ = ms.Set(ctx, "a", []byte("1"))
	_ = ms.Set(ctx, "b", []byte("2"))

	got, err := ms.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BatchGet = %v, want %v", got, want)
	}
}

func TestMemoryStoreZRange(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	_ = ms.ZAdd(ctx, "pop", 4.2, "10")
	_ = ms.ZAdd(ctx, "pop", 4.8, "20")
	_ = ms.ZAdd(ctx, "pop", 4.8, "15")
	_ = ms.ZAdd(ctx, "pop", 3.0, "30")

	tests := []struct {
		name        string
		start, stop int64
		want        []string
	}{
		{
			name: "full range score desc, tie member asc",
			stop: -1,
			want: []string{"15", "20", "10", "30"},
		},
		{
			name: "top 2",
			stop: 1,
			want: []string{"15", "20"},
		},
		{
			name:  "start beyond stop",
			start: 3,
			stop:  1,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ms.ZRange(ctx, "pop", tt.start, tt.stop)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ZRange(%d,%d) = %v, want %v", tt.start, tt.stop, got, tt.want)
			}
		})
	}

	if got, _ := ms.ZRange(ctx, "missing", 0, -1); got != nil {
		t.Errorf("ZRange(missing) = %v, want nil", got)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.HGet(ctx, "h", "f"); !core.IsStoreNotFound(err) {
		t.Errorf("HGet(missing) err = %v", err)
	}

	_ = ms.HSet(ctx, "h", "f1", []byte("a"))
	_ = ms.HSet(ctx, "h", "f2", []byte("b"))

	got, err := ms.HGet(ctx, "h", "f1")
	if err != nil || string(got) != "a" {
		t.Errorf("HGet = %q, %v", got, err)
	}

	all, err := ms.HGetAll(ctx, "h")
	if err != nil || len(all) != 2 {
		t.Errorf("HGetAll = %v, %v", all, err)
	}

	empty, err := ms.HGetAll(ctx, "missing")
	if err != nil || len(empty) != 0 {
		t.Errorf("HGetAll(missing) = %v, %v; want empty map", empty, err)
	}
}
