// Package embedding turns short phrases and longer text into unit-length
// vectors and compares them.
package embedding

import (
	"context"
	"math"
)

// Encoder returns one unit-normalized vector per input text, in input order.
// Implementations must be deterministic for a fixed model version.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(ctx context.Context, texts []string) ([][]float32, error)

func (f EncoderFunc) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	return f(ctx, texts)
}

// Dot returns the dot product of a and b, or 0 when their lengths differ.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

// Cosine is the cosine similarity of two unit vectors.
func Cosine(a, b []float32) float64 {
	return Dot(a, b)
}

// Unit scales v to length 1 in place and returns it. A zero vector is left
// untouched.
func Unit(v []float32) []float32 {
	var n float64
	for _, x := range v {
		n += float64(x) * float64(x)
	}
	if n == 0 {
		return v
	}
	n = math.Sqrt(n)
	for i := range v {
		v[i] = float32(float64(v[i]) / n)
	}
	return v
}
