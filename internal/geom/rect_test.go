package geom

import (
	"math"
	"testing"
)

func TestOverlapRatio(t *testing.T) {
	word := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}

	tests := []struct {
		name   string
		region Rect
		want   float64
	}{
		{"full cover", Rect{X0: -5, Y0: -5, X1: 20, Y1: 20}, 1},
		{"half cover", Rect{X0: 5, Y0: 0, X1: 20, Y1: 10}, 0.5},
		{"corner", Rect{X0: 8, Y0: 8, X1: 20, Y1: 20}, 0.04},
		{"disjoint", Rect{X0: 11, Y0: 11, X1: 20, Y1: 20}, 0},
		{"touching edge", Rect{X0: 10, Y0: 0, X1: 20, Y1: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapRatio(word, tt.region)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("OverlapRatio = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapRatio_IsRelativeToFirstArgument(t *testing.T) {
	small := Rect{X0: 0, Y0: 0, X1: 2, Y1: 2}
	big := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	if got := OverlapRatio(small, big); got != 1 {
		t.Errorf("small in big = %v, want 1", got)
	}
	if got := OverlapRatio(big, small); math.Abs(got-0.04) > 1e-9 {
		t.Errorf("big in small = %v, want 0.04", got)
	}
}

func TestOverlapRatio_DegenerateWord(t *testing.T) {
	flat := Rect{X0: 0, Y0: 5, X1: 10, Y1: 5}
	if got := OverlapRatio(flat, Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}); got != 0 {
		t.Errorf("degenerate word overlap = %v, want 0", got)
	}
}

func TestNewRectNormalizesCorners(t *testing.T) {
	r := NewRect(10, 20, 0, 5)
	want := Rect{X0: 0, Y0: 5, X1: 10, Y1: 20}
	if r != want {
		t.Errorf("NewRect = %+v, want %+v", r, want)
	}
}

func TestUnion(t *testing.T) {
	a := Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}
	b := Rect{X0: 2, Y0: 3, X1: 4, Y1: 5}
	if got := a.Union(b); got != (Rect{X0: 0, Y0: 0, X1: 4, Y1: 5}) {
		t.Errorf("Union = %+v", got)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty Union = %+v, want %+v", got, b)
	}
}
