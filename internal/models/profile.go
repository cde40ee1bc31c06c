// internal/models/profile.go
package models

import "strings"

const (
	WorkEnvironmentSolo = "solo"
	WorkEnvironmentTeam = "team"
)

// UserProfile is the self-reported input of a single recommendation request.
type UserProfile struct {
	Skills          []string `json:"skills"`
	Experience      string   `json:"experience,omitempty"`
	Location        string   `json:"location,omitempty"`
	Education       string   `json:"education,omitempty"`
	BusinessType    string   `json:"businessType,omitempty"`
	WorkEnvironment string   `json:"workEnvironment,omitempty"`
}

// NormalizedProfile is a UserProfile with every categorical field resolved to a
// known level. Normalization never fails.
type NormalizedProfile struct {
	Skills       []string        `json:"skills"`
	Experience   ExperienceLevel `json:"experience"`
	Location     LocationClass   `json:"location"`
	Education    EducationLevel  `json:"education"`
	BusinessType Category        `json:"businessType"`
	Team         bool            `json:"team"`
}

// NormalizeSkill lowercases and trims a skill phrase.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize resolves the profile. Blank skills are dropped; order and duplicates
// of the remaining skills are kept. A business type of "both" or an unknown
// value means no filter.
func (p UserProfile) Normalize() NormalizedProfile {
	skills := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		if n := NormalizeSkill(s); n != "" {
			skills = append(skills, n)
		}
	}

	businessType := ParseCategory(p.BusinessType)
	if businessType == CategoryBoth {
		businessType = ""
	}

	return NormalizedProfile{
		Skills:       skills,
		Experience:   ParseExperienceLevel(p.Experience),
		Location:     ParseLocationClass(p.Location),
		Education:    ParseEducationLevel(p.Education),
		BusinessType: businessType,
		Team:         strings.EqualFold(strings.TrimSpace(p.WorkEnvironment), WorkEnvironmentTeam),
	}
}
