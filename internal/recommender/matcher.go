package recommender

import (
	"strings"

	"business-recommender/internal/models"
)

// DefaultPartialCredit is the credit for a substring match when no exact match
// exists for that user skill.
const DefaultPartialCredit = 0.3

// SkillMatch is the overlap between a user's skills and one business.
type SkillMatch struct {
	ExactMatches    int      `json:"exactMatches"`
	PartialMatches  int      `json:"partialMatches"`
	WeightedMatches float64  `json:"weightedMatches"`
	SkillRatio      float64  `json:"skillRatio"`
	ExactRatio      float64  `json:"exactRatio"`
	Matched         []string `json:"matched,omitempty"`
}

// Eligible reports whether the business passes the exact-match gate.
func (m SkillMatch) Eligible() bool {
	return m.ExactMatches >= 1
}

// SkillMatcher counts exact and partial skill overlaps. A zero PartialCredit
// disables partial matching.
type SkillMatcher struct {
	PartialCredit float64
}

// Match compares userSkills against canonical. Both sides are normalized, so
// callers may pass raw input. Each user skill earns at most one credit: 1.0
// for an exact match, otherwise PartialCredit for the first canonical skill
// that contains it or is contained by it.
func (m SkillMatcher) Match(userSkills, canonical []string) SkillMatch {
	var result SkillMatch

	canon := make([]string, 0, len(canonical))
	exact := make(map[string]struct{}, len(canonical))
	for _, c := range canonical {
		if n := models.NormalizeSkill(c); n != "" {
			canon = append(canon, n)
			exact[n] = struct{}{}
		}
	}

	total := 0
	for _, raw := range userSkills {
		skill := models.NormalizeSkill(raw)
		if skill == "" {
			continue
		}
		total++

		if _, ok := exact[skill]; ok {
			result.ExactMatches++
			result.WeightedMatches += 1.0
			result.Matched = append(result.Matched, skill)
			continue
		}

		if m.PartialCredit <= 0 {
			continue
		}
		for _, c := range canon {
			if strings.Contains(c, skill) || strings.Contains(skill, c) {
				result.PartialMatches++
				result.WeightedMatches += m.PartialCredit
				result.Matched = append(result.Matched, c)
				break
			}
		}
	}

	if total > 0 {
		result.SkillRatio = result.WeightedMatches / float64(total)
		result.ExactRatio = float64(result.ExactMatches) / float64(total)
	}

	return result
}
