package progression

import "testing"

func TestLevel_KnownValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		exp  int64
		want int
	}{
		{exp: 0, want: 1},
		{exp: 1, want: 1},
		{exp: 45, want: 1},
		{exp: 49, want: 1},
		{exp: 50, want: 2},
		{exp: 100, want: 2},
		{exp: 196, want: 2},
		{exp: 197, want: 3},
	}

	for _, tt := range tests {
		got := Level(tt.exp)
		if got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.exp, got, tt.want)
		}
	}
}

func TestExperienceForLevel_KnownValues(t *testing.T) {
	t.Parallel()

	if got := ExperienceForLevel(1); got != 0 {
		t.Errorf("ExperienceForLevel(1) = %d, want 0", got)
	}
	if got := ExperienceForLevel(2); got != 50 {
		t.Errorf("ExperienceForLevel(2) = %d, want 50", got)
	}
	if got := NextLevelThreshold(1); got != 50 {
		t.Errorf("NextLevelThreshold(1) = %d, want 50", got)
	}
	if got := NextLevelThreshold(2); got != 197 {
		t.Errorf("NextLevelThreshold(2) = %d, want 197", got)
	}
}

// The three curve functions must agree at every level boundary: reaching
// exactly ExperienceForLevel(L) puts you at L, one point less leaves you at
// L-1, and the next threshold for L is where L+1 starts.
func TestLevelCurve_BoundaryExactness(t *testing.T) {
	t.Parallel()

	for l := 2; l <= 1000; l++ {
		e := ExperienceForLevel(l)

		if got := Level(e); got != l {
			t.Fatalf("Level(ExperienceForLevel(%d)) = Level(%d) = %d, want %d", l, e, got, l)
		}

		if got := Level(e - 1); got != l-1 {
			t.Fatalf("Level(ExperienceForLevel(%d)-1) = Level(%d) = %d, want %d", l, e-1, got, l-1)
		}

		if got := NextLevelThreshold(l - 1); got != e {
			t.Fatalf("NextLevelThreshold(%d) = %d, want %d", l-1, got, e)
		}
	}
}

func TestLevel_MonotonicNonDecreasing(t *testing.T) {
	t.Parallel()

	prev := Level(0)
	for x := int64(1); x <= 10_000; x++ {
		cur := Level(x)
		if cur < prev {
			t.Fatalf("Level decreased: Level(%d)=%d < Level(%d)=%d", x, cur, x-1, prev)
		}
		if cur > prev+1 {
			t.Fatalf("Level skipped: Level(%d)=%d jumped from Level(%d)=%d", x, cur, x-1, prev)
		}
		prev = cur
	}
}
