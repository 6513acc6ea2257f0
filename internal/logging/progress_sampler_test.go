package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize int
		wantSize   int
	}{
		{"default bucket size for zero", 0, 5},
		{"default bucket size for negative", -1, 5},
		{"custom bucket size", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "stage") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSampler_StageChange(t *testing.T) {
	s := NewProgressSampler(5)
	if !s.ShouldLog(0, "deck-to-document") {
		t.Error("first stage should log")
	}
	if s.ShouldLog(1, "deck-to-document") {
		t.Error("same bucket should not log again")
	}
	if !s.ShouldLog(0, "document-to-images") {
		t.Error("different stage should log")
	}
}

func TestProgressSampler_Buckets(t *testing.T) {
	s := NewProgressSampler(10)
	var logged []int
	for p := 0; p <= 100; p++ {
		if s.ShouldLog(p, "images-to-deck") {
			logged = append(logged, p)
		}
	}
	want := []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	if len(logged) != len(want) {
		t.Fatalf("logged %v, want %v", logged, want)
	}
	for i := range want {
		if logged[i] != want[i] {
			t.Fatalf("logged %v, want %v", logged, want)
		}
	}
}

func TestProgressSampler_ResetRestartsBuckets(t *testing.T) {
	s := NewProgressSampler(5)
	s.ShouldLog(50, "stage")
	s.Reset()
	if !s.ShouldLog(10, "stage") {
		t.Error("expected log after reset")
	}
}
