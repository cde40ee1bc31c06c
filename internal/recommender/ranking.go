package recommender

import (
	"sort"

	"business-recommender/internal/catalog"
	"business-recommender/internal/models"
)

// DefaultFallbackPriority is the order in which fallback businesses are offered.
var DefaultFallbackPriority = []string{"tailoring", "cooking", "handicrafts", "tutoring", "beauty_services"}

const (
	DefaultFallbackScore = 0.6
	DefaultFallbackLimit = 3
)

// RankingPolicy filters, orders and truncates scored candidates, and supplies
// a fixed default list when nothing survives filtering.
type RankingPolicy struct {
	FallbackPriority []string
	FallbackScore    float64
	FallbackLimit    int
}

// DefaultRankingPolicy returns the policy with the default fallback list.
func DefaultRankingPolicy() RankingPolicy {
	return RankingPolicy{
		FallbackPriority: append([]string(nil), DefaultFallbackPriority...),
		FallbackScore:    DefaultFallbackScore,
		FallbackLimit:    DefaultFallbackLimit,
	}
}

// Rank keeps candidates accepted by filter, sorts them by RawScore descending
// with input order breaking ties, and truncates to k. k <= 0 keeps every
// candidate. The bool result reports whether the fallback list was used.
func (p RankingPolicy) Rank(candidates []ScoredCandidate, filter models.Category, k int, cat *catalog.Catalog) ([]ScoredCandidate, bool) {
	kept := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Category.Accepts(filter) {
			kept = append(kept, c)
		}
	}

	if len(kept) == 0 {
		return p.fallback(filter, k, cat), true
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].RawScore > kept[j].RawScore
	})

	if k > 0 && len(kept) > k {
		kept = kept[:k]
	}
	return kept, false
}

// coveredBy reports whether cat holds at least one fallback business.
func (p RankingPolicy) coveredBy(cat *catalog.Catalog) bool {
	for _, id := range p.FallbackPriority {
		if _, ok := cat.Get(id); ok {
			return true
		}
	}
	return false
}

// fallback walks the priority list, skipping ids missing from the catalog or
// rejected by the filter, up to min(FallbackLimit, k).
func (p RankingPolicy) fallback(filter models.Category, k int, cat *catalog.Catalog) []ScoredCandidate {
	limit := p.FallbackLimit
	if k > 0 && k < limit {
		limit = k
	}

	out := make([]ScoredCandidate, 0, limit)
	for _, id := range p.FallbackPriority {
		if len(out) >= limit {
			break
		}
		b, ok := cat.Get(id)
		if !ok || !b.Category.Accepts(filter) {
			continue
		}
		out = append(out, ScoredCandidate{
			BusinessID: b.ID,
			Category:   b.Category,
			RawScore:   p.FallbackScore,
			BaseScore:  p.FallbackScore,
			Fallback:   true,
		})
	}
	return out
}
