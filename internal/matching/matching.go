// Package matching decides which posts satisfy a viewer's filter.
package matching

import (
	"math"
	"strconv"
	"strings"

	"badminton_board_backend/internal/models"
)

// criteria is a FilterSpec resolved once per Filter call.
type criteria struct {
	location   string
	date       string
	level      models.SkillLevel
	levelIndex int // -1 means no level constraint
	gender     models.Gender
	maxCost    float64
}

func resolve(spec models.FilterSpec) criteria {
	c := criteria{
		location:   strings.ToLower(strings.TrimSpace(spec.Location)),
		date:       spec.Date,
		level:      models.SkillLevel(spec.Level),
		levelIndex: -1,
		gender:     models.Gender(spec.Gender),
		maxCost:    ParseMaxCost(spec.MaxCost),
	}
	if spec.Level != "" {
		c.levelIndex = models.IndexOf(c.level)
	}
	return c
}

// ParseMaxCost turns the raw cost bound into a number. Empty or non-numeric
// input means no bound.
func ParseMaxCost(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return math.Inf(1)
	}
	return v
}

// Filter returns the posts matching spec, in their original order. The input
// slice is not modified.
func Filter(posts []models.Post, spec models.FilterSpec) []models.Post {
	c := resolve(spec)
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		if c.matches(&posts[i]) {
			out = append(out, posts[i])
		}
	}
	return out
}

// Matches reports whether a single post satisfies spec.
func Matches(post *models.Post, spec models.FilterSpec) bool {
	return resolve(spec).matches(post)
}

func (c criteria) matches(p *models.Post) bool {
	if !c.matchLocation(p) || !c.matchDate(p) {
		return false
	}
	for _, side := range [...]models.Gender{models.GenderMale, models.GenderFemale} {
		if c.matchSide(p.Requirement(side), side) {
			return true
		}
	}
	return false
}

func (c criteria) matchLocation(p *models.Post) bool {
	if c.location == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.CourtName), c.location) ||
		strings.Contains(strings.ToLower(p.Address), c.location)
}

func (c criteria) matchDate(p *models.Post) bool {
	return c.date == "" || c.date == p.Date
}

// matchSide evaluates one gender's requirement. A side with no open slots
// never matches, even for an empty filter.
func (c criteria) matchSide(req models.PlayerRequirement, side models.Gender) bool {
	if req.Slots <= 0 {
		return false
	}
	if c.gender != models.GenderAny && c.gender != side {
		return false
	}
	if c.levelIndex >= 0 && !models.LevelInRange(c.level, req.MinLevel, req.MaxLevel) {
		return false
	}
	return req.Cost <= c.maxCost
}
