package services

import (
	"context"
	"testing"
)

func TestEmbedFallbackIsDeterministic(t *testing.T) {
	svc := NewEmbeddingService(testLogger(t), nil, 1536)

	a := svc.Embed(context.Background(), "computer science in germany")
	b := svc.Embed(context.Background(), "computer science in germany")
	if len(a) != len(b) {
		t.Fatalf("length: want=%d got=%d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("component %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestEmbedFallbackDependsOnInput(t *testing.T) {
	svc := NewEmbeddingService(testLogger(t), nil, 1536)

	a := svc.Embed(context.Background(), "computer science")
	b := svc.Embed(context.Background(), "fine arts")
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("distinct texts produced identical fallback vectors")
	}
}

func TestEmbedFallbackDimension(t *testing.T) {
	tests := []struct {
		name     string
		dim      int
		wantDim  int
		wantTail float32
	}{
		{name: "default", dim: 0, wantDim: 1536},
		{name: "explicit", dim: 768, wantDim: 768},
		{name: "narrower than native", dim: 128, wantDim: 128},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewEmbeddingService(testLogger(t), nil, tc.dim)
			got := svc.Embed(context.Background(), "anything")
			if len(got) != tc.wantDim {
				t.Fatalf("dimension: want=%d got=%d", tc.wantDim, len(got))
			}
			if svc.Dimension() != tc.wantDim {
				t.Fatalf("Dimension(): want=%d got=%d", tc.wantDim, svc.Dimension())
			}
		})
	}
}

func TestEmbedFallbackPadsPastNativeWidth(t *testing.T) {
	svc := NewEmbeddingService(testLogger(t), nil, 1536)
	got := svc.Embed(context.Background(), "padding check")

	nonZero := 0
	for _, v := range got[:fallbackNativeDim] {
		if v != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Fatalf("expected non-zero values in the native prefix")
	}
	for i := fallbackNativeDim; i < len(got); i++ {
		if got[i] != 0 {
			t.Fatalf("component %d past native width: want=0 got=%v", i, got[i])
		}
	}
}

func TestPadOrTruncate(t *testing.T) {
	v := []float32{1, 2, 3}
	padded := padOrTruncate(v, 5)
	if len(padded) != 5 || padded[2] != 3 || padded[4] != 0 {
		t.Fatalf("pad: got=%v", padded)
	}
	truncated := padOrTruncate(v, 2)
	if len(truncated) != 2 || truncated[1] != 2 {
		t.Fatalf("truncate: got=%v", truncated)
	}
}
