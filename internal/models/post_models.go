package models

// PostStatus defines the type for post statuses
type PostStatus string

const (
	PostStatusOpen PostStatus = "open"
	PostStatusFull PostStatus = "full"
)

// IsValidPostStatus checks if the provided status string is a valid PostStatus.
func IsValidPostStatus(status string) bool {
	switch PostStatus(status) {
	case PostStatusOpen, PostStatusFull:
		return true
	default:
		return false
	}
}

// Gender selects which side of a post a filter is evaluated against.
type Gender string

const (
	GenderAny    Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// IsValidGender accepts "male", "female" and the empty "any gender" value.
func IsValidGender(g string) bool {
	switch Gender(g) {
	case GenderAny, GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}

// PlayerRequirement describes the still-open slots for one gender on a post.
type PlayerRequirement struct {
	Slots    int        `json:"slots"`
	MinLevel SkillLevel `json:"minLevel"`
	MaxLevel SkillLevel `json:"maxLevel"`
	Cost     float64    `json:"cost"` // per hour
}

// Post is a single advertised session. JSON names match the stored payload.
type Post struct {
	ID           string            `json:"id"`
	CreatorID    *string           `json:"creatorId,omitempty"` // nil marks a legacy post
	CourtName    string            `json:"courtName"`
	Address      string            `json:"address"`
	ContactName  string            `json:"contactName"`
	ContactPhone string            `json:"contactPhone"`
	Date         string            `json:"date"`      // YYYY-MM-DD
	StartTime    string            `json:"startTime"` // HH:MM
	EndTime      string            `json:"endTime"`   // HH:MM
	Male         PlayerRequirement `json:"male"`
	Female       PlayerRequirement `json:"female"`
	Notes        string            `json:"notes"`
	CreatedAt    int64             `json:"createdAt"` // unix milliseconds
	Status       PostStatus        `json:"status"`
}

// IsLegacy reports whether the post predates ownership tracking.
func (p *Post) IsLegacy() bool {
	return p.CreatorID == nil || *p.CreatorID == ""
}

// Requirement returns the requirement for the given side.
func (p *Post) Requirement(g Gender) PlayerRequirement {
	if g == GenderFemale {
		return p.Female
	}
	return p.Male
}

// FilterSpec is the set of search constraints a viewer currently has applied.
// Every field uses its empty value for "not set".
type FilterSpec struct {
	Location string `form:"location"`
	Date     string `form:"date"`
	Level    string `form:"level"`
	Gender   string `form:"gender"`
	MaxCost  string `form:"maxCost"`
}
