package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevels(t *testing.T) {
	assert.Equal(t, ExperienceExpert, ParseExperienceLevel("  EXPERT "))
	assert.Equal(t, ExperienceBeginner, ParseExperienceLevel("guru"))
	assert.Equal(t, ExperienceBeginner, ParseExperienceLevel(""))

	assert.Equal(t, EducationGraduate, ParseEducationLevel("Graduate"))
	assert.Equal(t, EducationTwelfth, ParseEducationLevel("phd"))

	assert.Equal(t, LocationSemiUrban, ParseLocationClass("Semi-Urban"))
	assert.Equal(t, LocationUrban, ParseLocationClass("mars"))

	assert.Equal(t, CategoryService, ParseCategory("Service"))
	assert.Equal(t, Category(""), ParseCategory("whatever"))
}

func TestCategoryAccepts(t *testing.T) {
	tests := []struct {
		category Category
		filter   Category
		want     bool
	}{
		{CategoryGoods, "", true},
		{CategoryGoods, CategoryGoods, true},
		{CategoryGoods, CategoryService, false},
		{CategoryService, CategoryGoods, false},
		{CategoryBoth, CategoryGoods, true},
		{CategoryBoth, CategoryService, true},
		{CategoryService, CategoryBoth, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.category.Accepts(tt.filter), "%s accepts %q", tt.category, tt.filter)
	}
}

func TestUserProfileNormalize(t *testing.T) {
	p := UserProfile{
		Skills:          []string{" Sewing ", "", "   ", "COOKING", "sewing"},
		Experience:      "Intermediate",
		Location:        "RURAL",
		Education:       "unknown",
		BusinessType:    "Goods",
		WorkEnvironment: "Team",
	}

	n := p.Normalize()
	assert.Equal(t, []string{"sewing", "cooking", "sewing"}, n.Skills)
	assert.Equal(t, ExperienceIntermediate, n.Experience)
	assert.Equal(t, LocationRural, n.Location)
	assert.Equal(t, EducationTwelfth, n.Education)
	assert.Equal(t, CategoryGoods, n.BusinessType)
	assert.True(t, n.Team)
}

func TestUserProfileNormalize_Defaults(t *testing.T) {
	n := UserProfile{BusinessType: "both"}.Normalize()

	assert.Empty(t, n.Skills)
	assert.NotNil(t, n.Skills)
	assert.Equal(t, ExperienceBeginner, n.Experience)
	assert.Equal(t, LocationUrban, n.Location)
	assert.Equal(t, EducationTwelfth, n.Education)
	assert.Equal(t, Category(""), n.BusinessType)
	assert.False(t, n.Team)
}
