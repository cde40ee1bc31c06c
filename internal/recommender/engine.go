// Package recommender scores catalog businesses against a user profile and
// ranks the result. Engines are pure functions over an immutable catalog and
// are safe for concurrent use.
package recommender

import (
	"fmt"
	"strings"

	"business-recommender/internal/catalog"
	"business-recommender/internal/models"
)

// Algorithm selects a scoring variant.
type Algorithm string

const (
	AlgorithmRule Algorithm = "rule"
	AlgorithmML   Algorithm = "ml"
)

// ParseAlgorithm accepts "rule" and "ml" in any case. "default" and "" map to
// fallback.
func ParseAlgorithm(s string, fallback Algorithm) (Algorithm, bool) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", "default":
		return fallback, true
	case AlgorithmRule:
		return AlgorithmRule, true
	case AlgorithmML:
		return AlgorithmML, true
	}
	return "", false
}

// Info describes the variant for API responses.
func (a Algorithm) Info() models.AlgorithmInfo {
	info := models.AlgorithmInfo{
		Name:         string(a),
		Features:     []string{"Skill Matching", "Experience Level", "Location Preference", "Business Type Alignment"},
		TrainingData: "Business Profiles and Success Stories",
	}
	if a == AlgorithmML {
		info.Model = "Machine Learning Model"
		info.Accuracy = "85-92%"
	} else {
		info.Model = "Rule-based Algorithm"
		info.Accuracy = "75-85%"
	}
	return info
}

// Options tunes an Engine. Zero values select the defaults.
type Options struct {
	TeamBonus     float64
	FallbackScore float64
	FallbackLimit int
	// Statistical backs the ML variant; nil yields a neutral sub-score.
	Statistical StatisticalScorer
}

// RankedCandidate is a surviving candidate with its confidence.
type RankedCandidate struct {
	ScoredCandidate
	Confidence int `json:"confidenceScore"`
}

// Result is the ranked output of one request.
type Result struct {
	Algorithm      Algorithm                `json:"algorithm"`
	CatalogVersion string                   `json:"catalogVersion"`
	Profile        models.NormalizedProfile `json:"profile"`
	Candidates     []RankedCandidate        `json:"candidates"`
	Fallback       bool                     `json:"fallback"`
}

// Engine combines SkillMatcher, Scorer, RankingPolicy and ConfidenceMapper
// for one algorithm.
type Engine struct {
	algorithm  Algorithm
	catalog    *catalog.Catalog
	scorer     Scorer
	policy     RankingPolicy
	confidence ConfidenceMapper
}

// NewEngine builds the engine for algorithm. The rule variant uses partial
// skill credit, the team bonus and profile confidence; the ML variant uses
// exact matches only, a statistical sub-score and score confidence.
func NewEngine(cat *catalog.Catalog, algorithm Algorithm, opts Options) (*Engine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, fmt.Errorf("recommender: catalog is empty")
	}

	policy := DefaultRankingPolicy()
	if opts.FallbackScore > 0 {
		policy.FallbackScore = opts.FallbackScore
	}
	if opts.FallbackLimit > 0 {
		policy.FallbackLimit = opts.FallbackLimit
	}
	if !policy.coveredBy(cat) {
		return nil, fmt.Errorf("recommender: catalog %q holds none of the fallback businesses %v", cat.Version(), policy.FallbackPriority)
	}

	e := &Engine{
		algorithm: algorithm,
		catalog:   cat,
		policy:    policy,
	}

	switch algorithm {
	case AlgorithmRule:
		e.scorer = Scorer{
			Weights:   RuleWeights,
			Matcher:   SkillMatcher{PartialCredit: DefaultPartialCredit},
			TeamBonus: opts.TeamBonus,
		}
		e.confidence = ProfileConfidence{}
	case AlgorithmML:
		e.scorer = Scorer{
			Weights:     StatisticalWeights,
			Matcher:     SkillMatcher{},
			Statistical: opts.Statistical,
		}
		e.confidence = ScoreConfidence{}
	default:
		return nil, fmt.Errorf("recommender: unknown algorithm %q", algorithm)
	}

	if err := e.scorer.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("recommender: %w", err)
	}

	return e, nil
}

func (e *Engine) Algorithm() Algorithm {
	return e.algorithm
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Score returns every eligible candidate in catalog order, unfiltered and
// unranked.
func (e *Engine) Score(profile models.NormalizedProfile) []ScoredCandidate {
	businesses := e.catalog.All()
	out := make([]ScoredCandidate, 0, len(businesses))
	for _, b := range businesses {
		if c, ok := e.scorer.Score(profile, b); ok {
			out = append(out, c)
		}
	}
	return out
}

// Recommend normalizes the profile, scores the catalog and returns at most k
// ranked candidates. k <= 0 returns every surviving candidate.
func (e *Engine) Recommend(profile models.UserProfile, k int) Result {
	normalized := profile.Normalize()

	ranked, fallback := e.policy.Rank(e.Score(normalized), normalized.BusinessType, k, e.catalog)

	out := make([]RankedCandidate, len(ranked))
	for i, c := range ranked {
		out[i] = RankedCandidate{
			ScoredCandidate: c,
			Confidence:      e.confidence.Confidence(c, normalized),
		}
	}

	return Result{
		Algorithm:      e.algorithm,
		CatalogVersion: e.catalog.Version(),
		Profile:        normalized,
		Candidates:     out,
		Fallback:       fallback,
	}
}
