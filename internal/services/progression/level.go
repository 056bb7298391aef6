package progression

import "math"

// The leveling curve is a fixed contract: saved experience from older
// servers must map to the same levels forever.
//
//	Level(x)                = max(1, ceil(sqrt(x) / 7))
//	ExperienceForLevel(L)   = 49*(L-1)^2 + 1   (0 for level 1)
//	NextLevelThreshold(L)   = 49*L^2 + 1
//
// The three agree at every boundary: Level(ExperienceForLevel(L)) == L and
// Level(ExperienceForLevel(L)-1) == L-1, so levels are never skipped or
// revisited as experience grows.

// Level derives the current level from cumulative experience. It is never
// stored, only computed.
func Level(exp int64) int {
	if exp <= 0 {
		return 1
	}

	l := int(math.Ceil(math.Sqrt(float64(exp)) / 7))
	if l < 1 {
		return 1
	}

	return l
}

// ExperienceForLevel returns the cumulative experience needed to reach the
// level from zero.
func ExperienceForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}

	d := int64(level - 1)

	return 49*d*d + 1
}

// NextLevelThreshold returns the cumulative experience at which the given
// level rolls over into the next one.
func NextLevelThreshold(level int) int64 {
	if level < 1 {
		level = 1
	}

	l := int64(level)

	return 49*l*l + 1
}
