package vectorstore

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	var tests = []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 0}, b: []float32{1, 0}, want: 1.0},
		{name: "self non-unit", a: []float32{3, 4}, b: []float32{3, 4}, want: 1.0},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0.0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1.0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 0.0},
		{name: "empty", a: []float32{}, b: []float32{}, want: 0.0},
		{name: "nil", a: nil, b: []float32{1}, want: 0.0},
		{name: "length mismatch", a: []float32{1, 0, 0}, b: []float32{1, 0}, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got = Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestCosineSymmetric(t *testing.T) {
	var pairs = [][2][]float32{
		{{1, 2, 3}, {3, 2, 1}},
		{{0.5, -0.5}, {0.1, 0.9}},
		{{0, 0}, {1, 1}},
	}

	for _, p := range pairs {
		if Cosine(p[0], p[1]) != Cosine(p[1], p[0]) {
			t.Errorf("Expected symmetric cosine for %v and %v", p[0], p[1])
		}
	}
}
