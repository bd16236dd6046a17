package models

// SkillLevel is a player proficiency grade on the board's fixed scale.
type SkillLevel string

const (
	SkillLevelNewbie       SkillLevel = "Newbie"
	SkillLevelWeak         SkillLevel = "Yếu"
	SkillLevelBelowAverage SkillLevel = "TB-"
	SkillLevelAverage      SkillLevel = "TB"
	SkillLevelAboveAverage SkillLevel = "TB+"
	SkillLevelFair         SkillLevel = "Khá"
	SkillLevelGood         SkillLevel = "Tốt"
	SkillLevelPro          SkillLevel = "Pro"
)

// DefaultSkillLevel is used when a stored requirement carries no level at all.
const DefaultSkillLevel = SkillLevelAverage

// skillLevels is ordered from lowest to highest proficiency.
var skillLevels = [...]SkillLevel{
	SkillLevelNewbie,
	SkillLevelWeak,
	SkillLevelBelowAverage,
	SkillLevelAverage,
	SkillLevelAboveAverage,
	SkillLevelFair,
	SkillLevelGood,
	SkillLevelPro,
}

// SkillLevels returns the scale in ascending order. The slice is a copy.
func SkillLevels() []SkillLevel {
	out := make([]SkillLevel, len(skillLevels))
	copy(out, skillLevels[:])
	return out
}

// IndexOf returns the position of level on the scale, or -1 if level is not
// part of it. Callers must read -1 as "no constraint", not as the lowest grade.
func IndexOf(level SkillLevel) int {
	for i, l := range skillLevels {
		if l == level {
			return i
		}
	}
	return -1
}

// IsValidSkillLevel checks if the provided string names a level on the scale.
func IsValidSkillLevel(level string) bool {
	return IndexOf(SkillLevel(level)) >= 0
}

// LevelInRange reports whether level lies inside the inclusive [min, max] band.
func LevelInRange(level, min, max SkillLevel) bool {
	idx := IndexOf(level)
	return IndexOf(min) <= idx && idx <= IndexOf(max)
}
