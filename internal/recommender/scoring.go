package recommender

import (
	"fmt"
	"math"

	"business-recommender/internal/models"
)

// NeutralStatisticalScore is used when no statistical backend is configured.
const NeutralStatisticalScore = 0.5

// Weights is a fixed partition of the score across its components. The
// fields must sum to 1.0.
type Weights struct {
	Skills       float64 `json:"skills"`
	BusinessType float64 `json:"businessType"`
	Location     float64 `json:"location"`
	Experience   float64 `json:"experience"`
	Education    float64 `json:"education"`
	Statistical  float64 `json:"statistical"`
}

var (
	// RuleWeights is the partition of the rule-based variant.
	RuleWeights = Weights{Skills: 0.40, BusinessType: 0.20, Location: 0.20, Experience: 0.10, Education: 0.10}

	// StatisticalWeights gives the statistical sub-score a 0.30 slice.
	StatisticalWeights = Weights{Statistical: 0.30, Skills: 0.20, BusinessType: 0.15, Location: 0.15, Experience: 0.10, Education: 0.10}
)

func (w Weights) Sum() float64 {
	return w.Skills + w.BusinessType + w.Location + w.Experience + w.Education + w.Statistical
}

// Validate rejects negative weights and partitions that do not sum to 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"skills": w.Skills, "businessType": w.BusinessType, "location": w.Location,
		"experience": w.Experience, "education": w.Education, "statistical": w.Statistical,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is negative", name)
		}
	}
	if math.Abs(w.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("weights sum to %v, want 1.0", w.Sum())
	}
	return nil
}

// StatisticalScorer predicts how well a business suits a profile. Predictions
// are clamped to [0,1] by the caller. Implementations must be safe for
// concurrent use.
type StatisticalScorer interface {
	Predict(profile models.NormalizedProfile, business models.BusinessProfile) float64
}

// Breakdown holds the weighted contribution of each component.
type Breakdown struct {
	Skills       float64 `json:"skills"`
	BusinessType float64 `json:"businessType"`
	Location     float64 `json:"location"`
	Experience   float64 `json:"experience"`
	Education    float64 `json:"education"`
	Statistical  float64 `json:"statistical"`
}

// ScoredCandidate is a business with its raw score for one profile.
// SkillRatio is exact matches over the number of user skills.
type ScoredCandidate struct {
	BusinessID        string          `json:"businessId"`
	Category          models.Category `json:"category"`
	RawScore          float64         `json:"rawScore"`
	BaseScore         float64         `json:"baseScore"`
	ExactSkillMatches int             `json:"exactSkillMatches"`
	WeightedMatches   float64         `json:"weightedMatches"`
	SkillRatio        float64         `json:"skillRatio"`
	StatisticalScore  *float64        `json:"statisticalScore,omitempty"`
	Breakdown         Breakdown       `json:"breakdown"`
	Fallback          bool            `json:"fallback,omitempty"`
}

// Scorer computes raw scores for eligible businesses.
type Scorer struct {
	Weights     Weights
	Matcher     SkillMatcher
	Statistical StatisticalScorer
	TeamBonus   float64 // multiplier for team profiles; values <= 1 disable it
}

// Score returns the candidate and whether the business passed the exact-match
// gate. Ineligible businesses are returned unscored.
func (s Scorer) Score(profile models.NormalizedProfile, business models.BusinessProfile) (ScoredCandidate, bool) {
	match := s.Matcher.Match(profile.Skills, business.CanonicalSkills)

	candidate := ScoredCandidate{
		BusinessID:        business.ID,
		Category:          business.Category,
		ExactSkillMatches: match.ExactMatches,
		WeightedMatches:   match.WeightedMatches,
		SkillRatio:        match.ExactRatio,
	}
	if !match.Eligible() {
		return candidate, false
	}

	b := Breakdown{
		Skills:     match.SkillRatio * s.Weights.Skills,
		Location:   business.LocationAffinity[profile.Location] * s.Weights.Location,
		Experience: business.ExperienceMultiplier[profile.Experience] * s.Weights.Experience,
		Education:  business.EducationBonus[profile.Education] * s.Weights.Education,
	}
	if business.Category.Accepts(profile.BusinessType) {
		b.BusinessType = s.Weights.BusinessType
	}
	if s.Weights.Statistical > 0 {
		stat := s.statisticalScore(profile, business)
		candidate.StatisticalScore = &stat
		b.Statistical = stat * s.Weights.Statistical
	}

	base := b.Skills + b.BusinessType + b.Location + b.Experience + b.Education + b.Statistical
	raw := base * (1 + match.ExactRatio)
	if profile.Team && s.TeamBonus > 1 {
		raw *= s.TeamBonus
	}

	candidate.Breakdown = b
	candidate.BaseScore = base
	candidate.RawScore = raw
	return candidate, true
}

func (s Scorer) statisticalScore(profile models.NormalizedProfile, business models.BusinessProfile) float64 {
	if s.Statistical == nil {
		return NeutralStatisticalScore
	}
	return clampUnit(s.Statistical.Predict(profile, business))
}

// clampUnit bounds a prediction to [0,1]; NaN is treated as neutral.
func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return NeutralStatisticalScore
	}
	return math.Max(0, math.Min(1, v))
}
