package rng

import "testing"

func TestSplit_Deterministic(t *testing.T) {
	root := InitKey(1337)
	k1 := Split(root, 3, 7)
	k2 := Split(root, 3, 7)
	if k1 != k2 {
		t.Fatalf("same split parameters produced different keys: %v vs %v", k1, k2)
	}

	s1 := New(k1)
	s2 := New(k2)
	for i := 0; i < 100; i++ {
		a := s1.SampleUniform()
		b := s2.SampleUniform()
		if a != b {
			t.Fatalf("stream divergence at draw %d: %v vs %v", i, a, b)
		}
	}
}

func TestSplit_IndependentStreams(t *testing.T) {
	root := InitKey(1337)
	pairs := [][2]uint32{{0, 0}, {0, 1}, {1, 0}, {2, 5}}
	seen := map[Key]bool{}
	for _, p := range pairs {
		k := Split(root, p[0], p[1])
		if seen[k] {
			t.Fatalf("key collision for split %v", p)
		}
		seen[k] = true
	}
}

func TestSampleUniform_Range(t *testing.T) {
	s := New(Split(InitKey(99), 0, 0))
	for i := 0; i < 10000; i++ {
		v := s.SampleUniform()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, v)
		}
	}
}

func TestSampleI32_Bounds(t *testing.T) {
	s := New(Split(InitKey(7), 1, 2))
	hit := map[int32]bool{}
	for i := 0; i < 10000; i++ {
		v := s.SampleI32(3, 10)
		if v < 3 || v >= 10 {
			t.Fatalf("draw %d out of [3,10): %d", i, v)
		}
		hit[v] = true
	}
	for want := int32(3); want < 10; want++ {
		if !hit[want] {
			t.Fatalf("value %d never drawn in 10000 samples", want)
		}
	}
	if got := s.SampleI32(5, 5); got != 5 {
		t.Fatalf("empty range: got %d want 5", got)
	}
}
