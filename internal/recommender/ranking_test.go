package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"business-recommender/internal/models"
)

func candidate(id string, category models.Category, score float64) ScoredCandidate {
	return ScoredCandidate{BusinessID: id, Category: category, RawScore: score}
}

func ids(cs []ScoredCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.BusinessID
	}
	return out
}

func TestRankingPolicy_Rank(t *testing.T) {
	cat := defaultCatalog(t)
	policy := DefaultRankingPolicy()

	input := []ScoredCandidate{
		candidate("tailoring", models.CategoryGoods, 1.2),
		candidate("tutoring", models.CategoryService, 1.8),
		candidate("online_business", models.CategoryBoth, 1.2),
		candidate("cooking", models.CategoryGoods, 0.9),
		candidate("daycare", models.CategoryService, 1.5),
	}

	tests := []struct {
		name   string
		filter models.Category
		k      int
		want   []string
	}{
		{"no filter keeps ties in input order", "", 5, []string{"tutoring", "daycare", "tailoring", "online_business", "cooking"}},
		{"truncates to k", "", 2, []string{"tutoring", "daycare"}},
		{"non-positive k keeps all", "", 0, []string{"tutoring", "daycare", "tailoring", "online_business", "cooking"}},
		{"goods filter keeps both", models.CategoryGoods, 5, []string{"tailoring", "online_business", "cooking"}},
		{"service filter", models.CategoryService, 3, []string{"tutoring", "daycare", "online_business"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fallback := policy.Rank(input, tt.filter, tt.k, cat)
			assert.False(t, fallback)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	// input is not reordered
	assert.Equal(t, "tailoring", input[0].BusinessID)
}

func TestRankingPolicy_Fallback(t *testing.T) {
	cat := defaultCatalog(t)
	policy := DefaultRankingPolicy()

	tests := []struct {
		name       string
		candidates []ScoredCandidate
		filter     models.Category
		k          int
		want       []string
	}{
		{"no candidates", nil, "", 5, []string{"tailoring", "cooking", "handicrafts"}},
		{"goods filter", nil, models.CategoryGoods, 5, []string{"tailoring", "cooking", "handicrafts"}},
		{"service filter", nil, models.CategoryService, 5, []string{"tutoring", "beauty_services"}},
		{"k below limit", nil, "", 2, []string{"tailoring", "cooking"}},
		{
			name:       "all candidates filtered out",
			candidates: []ScoredCandidate{candidate("tutoring", models.CategoryService, 1.8)},
			filter:     models.CategoryGoods,
			k:          5,
			want:       []string{"tailoring", "cooking", "handicrafts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fallback := policy.Rank(tt.candidates, tt.filter, tt.k, cat)
			assert.True(t, fallback)
			assert.Equal(t, tt.want, ids(got))
			for _, c := range got {
				assert.True(t, c.Fallback)
				assert.InDelta(t, DefaultFallbackScore, c.RawScore, 1e-9)
			}
		})
	}
}

func TestRankingPolicy_FallbackSkipsUnknownIDs(t *testing.T) {
	cat := defaultCatalog(t)
	policy := RankingPolicy{
		FallbackPriority: []string{"spaceflight", "cooking"},
		FallbackScore:    0.5,
		FallbackLimit:    3,
	}

	got, fallback := policy.Rank(nil, "", 5, cat)
	assert.True(t, fallback)
	assert.Equal(t, []string{"cooking"}, ids(got))
	assert.InDelta(t, 0.5, got[0].RawScore, 1e-9)
}
