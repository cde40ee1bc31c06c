package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-recommender/internal/models"
)

func validProfile(id string, category models.Category, skills ...string) models.BusinessProfile {
	return models.BusinessProfile{
		ID:              id,
		Category:        category,
		CanonicalSkills: skills,
		LocationAffinity: map[models.LocationClass]float64{
			models.LocationUrban: 1.0, models.LocationSemiUrban: 0.8, models.LocationRural: 0.6,
		},
		ExperienceMultiplier: map[models.ExperienceLevel]float64{
			models.ExperienceNone: 0.5, models.ExperienceBeginner: 0.7,
			models.ExperienceIntermediate: 0.9, models.ExperienceExpert: 1.2,
		},
		EducationBonus: map[models.EducationLevel]float64{
			models.EducationNone: 0, models.EducationTenth: 0.1, models.EducationTwelfth: 0.2,
			models.EducationGraduate: 0.4, models.EducationPG: 0.6,
		},
	}
}

// ==========================================
// Embedded catalog
// ==========================================

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 15, c.Len())
	assert.NotEmpty(t, c.Version())

	all := c.All()
	assert.Equal(t, "tailoring", all[0].ID)
	assert.Equal(t, "consulting", all[len(all)-1].ID)

	tailoring, ok := c.Get("tailoring")
	require.True(t, ok)
	assert.Equal(t, models.CategoryGoods, tailoring.Category)
	assert.Contains(t, tailoring.CanonicalSkills, "sewing")
	assert.InDelta(t, 0.9, tailoring.LocationAffinity[models.LocationRural], 1e-9)
	assert.InDelta(t, 1.2, tailoring.ExperienceMultiplier[models.ExperienceExpert], 1e-9)
	assert.InDelta(t, 0.4, tailoring.EducationBonus[models.EducationGraduate], 1e-9)
	assert.NotEmpty(t, tailoring.Description)

	online, ok := c.Get("online_business")
	require.True(t, ok)
	assert.Equal(t, models.CategoryBoth, online.Category)
	assert.Equal(t, "Online Business", online.Name)

	handicrafts, ok := c.Get("handicrafts")
	require.True(t, ok)
	assert.Contains(t, handicrafts.CanonicalSkills, "art & craft")

	_, ok = c.Get("spaceflight")
	assert.False(t, ok)
}

func TestDefault_SkillVocabulary(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	vocab := c.SkillVocabulary()
	assert.Equal(t, "sewing", vocab[0])

	seen := map[string]bool{}
	for _, s := range vocab {
		assert.False(t, seen[s], "duplicate vocabulary entry %q", s)
		seen[s] = true
	}
	assert.True(t, seen["customer service"])
}

// ==========================================
// Construction and validation
// ==========================================

func TestNew_NormalizesAndCopies(t *testing.T) {
	input := []models.BusinessProfile{validProfile("beauty_services", models.CategoryService, " Makeup ", "makeup", "", "Hair Styling")}

	c, err := New("test", input)
	require.NoError(t, err)

	b, ok := c.Get("beauty_services")
	require.True(t, ok)
	assert.Equal(t, []string{"makeup", "hair styling"}, b.CanonicalSkills)
	assert.Equal(t, "Beauty Services", b.Name)

	input[0].LocationAffinity[models.LocationUrban] = 0
	b, _ = c.Get("beauty_services")
	assert.InDelta(t, 1.0, b.LocationAffinity[models.LocationUrban], 1e-9)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.BusinessProfile)
		want   string
	}{
		{
			name:   "missing location key",
			mutate: func(b *models.BusinessProfile) { delete(b.LocationAffinity, models.LocationRural) },
			want:   "location_affinity missing",
		},
		{
			name:   "affinity above one",
			mutate: func(b *models.BusinessProfile) { b.LocationAffinity[models.LocationUrban] = 1.5 },
			want:   "outside [0,1]",
		},
		{
			name:   "missing experience key",
			mutate: func(b *models.BusinessProfile) { delete(b.ExperienceMultiplier, models.ExperienceNone) },
			want:   "experience_multiplier missing",
		},
		{
			name:   "expert not above one",
			mutate: func(b *models.BusinessProfile) { b.ExperienceMultiplier[models.ExperienceExpert] = 1.0 },
			want:   "must exceed 1.0",
		},
		{
			name:   "decreasing experience",
			mutate: func(b *models.BusinessProfile) { b.ExperienceMultiplier[models.ExperienceIntermediate] = 0.6 },
			want:   "decreases",
		},
		{
			name:   "missing education key",
			mutate: func(b *models.BusinessProfile) { delete(b.EducationBonus, models.EducationPG) },
			want:   "education_bonus missing",
		},
		{
			name:   "negative education bonus",
			mutate: func(b *models.BusinessProfile) { b.EducationBonus[models.EducationNone] = -0.1 },
			want:   "negative",
		},
		{
			name:   "unknown category",
			mutate: func(b *models.BusinessProfile) { b.Category = "barter" },
			want:   "unknown category",
		},
		{
			name:   "no skills",
			mutate: func(b *models.BusinessProfile) { b.CanonicalSkills = []string{"  "} },
			want:   "at least one skill",
		},
		{
			name:   "empty id",
			mutate: func(b *models.BusinessProfile) { b.ID = " " },
			want:   "id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validProfile("cooking", models.CategoryGoods, "cooking")
			tt.mutate(&b)

			_, err := New("test", []models.BusinessProfile{b})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNew_DuplicateID(t *testing.T) {
	_, err := New("test", []models.BusinessProfile{
		validProfile("cooking", models.CategoryGoods, "cooking"),
		validProfile("cooking", models.CategoryGoods, "baking"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestNew_EmptyInputs(t *testing.T) {
	_, err := New("", []models.BusinessProfile{validProfile("cooking", models.CategoryGoods, "cooking")})
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = New("v1", nil)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

// ==========================================
// Loading from YAML
// ==========================================

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("businesses: [this is: not valid"))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := `version: custom-1
businesses:
  - id: soap_making
    category: goods
    skills: [soap making, chemistry]
    location_affinity: {urban: 0.9, semi-urban: 1.0, rural: 1.0}
    experience_multiplier: {none: 0.5, beginner: 0.7, intermediate: 0.9, expert: 1.1}
    education_bonus: {none: 0, "10th": 0.1, "12th": 0.2, graduate: 0.3, pg: 0.4}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-1", c.Version())
	assert.Equal(t, 1, c.Len())

	b, ok := c.Get("soap_making")
	require.True(t, ok)
	assert.Equal(t, "Soap Making", b.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Tailoring", DisplayName("tailoring"))
	assert.Equal(t, "Beauty Services", DisplayName("beauty_services"))
	assert.Equal(t, "", DisplayName(""))
}
