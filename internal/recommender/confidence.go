package recommender

import (
	"math"
	"strings"

	"business-recommender/internal/models"
)

const (
	MinConfidence = 65
	MaxConfidence = 95

	baseConfidence   = 75
	perCategoryBonus = 5
)

// SkillCategories are the broad skill families that raise profile confidence.
var SkillCategories = []string{
	"sewing", "cooking", "art", "teaching", "beauty",
	"technology", "communication", "management", "craft", "sales",
}

var (
	experienceConfidence = map[models.ExperienceLevel]int{
		models.ExperienceNone:         0,
		models.ExperienceBeginner:     5,
		models.ExperienceIntermediate: 10,
		models.ExperienceExpert:       15,
	}
	educationConfidence = map[models.EducationLevel]int{
		models.EducationNone:     0,
		models.EducationTenth:    2,
		models.EducationTwelfth:  4,
		models.EducationGraduate: 8,
		models.EducationPG:       12,
	}
)

// ConfidenceMapper turns a candidate into a user-facing percentage in
// [MinConfidence, MaxConfidence].
type ConfidenceMapper interface {
	Confidence(candidate ScoredCandidate, profile models.NormalizedProfile) int
}

// ProfileConfidence derives confidence from the profile alone, so every
// candidate of one request shares the same value.
type ProfileConfidence struct{}

func (ProfileConfidence) Confidence(_ ScoredCandidate, profile models.NormalizedProfile) int {
	score := baseConfidence +
		perCategoryBonus*CategoryHits(profile.Skills) +
		experienceConfidence[profile.Experience] +
		educationConfidence[profile.Education]
	return clampConfidence(score)
}

// CategoryHits counts user skills contained in one of SkillCategories.
func CategoryHits(skills []string) int {
	hits := 0
	for _, raw := range skills {
		s := models.NormalizeSkill(raw)
		if s == "" {
			continue
		}
		for _, category := range SkillCategories {
			if strings.Contains(category, s) {
				hits++
				break
			}
		}
	}
	return hits
}

// ScoreConfidence scales the raw score to a percentage. It is non-decreasing
// in RawScore.
type ScoreConfidence struct{}

func (ScoreConfidence) Confidence(candidate ScoredCandidate, _ models.NormalizedProfile) int {
	return clampConfidence(int(math.Round(candidate.RawScore * 100)))
}

func clampConfidence(v int) int {
	if v < MinConfidence {
		return MinConfidence
	}
	if v > MaxConfidence {
		return MaxConfidence
	}
	return v
}
