// internal/models/business.go
package models

import "strings"

// Category classifies what a business sells.
type Category string

const (
	CategoryGoods   Category = "goods"
	CategoryService Category = "service"
	CategoryBoth    Category = "both"
)

// ParseCategory returns the category for s, or "" when s is not a known category.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryGoods:
		return CategoryGoods
	case CategoryService:
		return CategoryService
	case CategoryBoth:
		return CategoryBoth
	}
	return ""
}

// Accepts reports whether a business of category c passes a business-type filter.
// An empty filter accepts everything; "both" businesses pass any filter.
func (c Category) Accepts(filter Category) bool {
	return filter == "" || filter == CategoryBoth || c == filter || c == CategoryBoth
}

type LocationClass string

const (
	LocationUrban     LocationClass = "urban"
	LocationSemiUrban LocationClass = "semi-urban"
	LocationRural     LocationClass = "rural"
)

// LocationClasses lists every location class in index order.
var LocationClasses = []LocationClass{LocationUrban, LocationSemiUrban, LocationRural}

// ParseLocationClass buckets a free-text location. Unknown values map to urban.
func ParseLocationClass(s string) LocationClass {
	v := LocationClass(strings.ToLower(strings.TrimSpace(s)))
	for _, lc := range LocationClasses {
		if v == lc {
			return lc
		}
	}
	return LocationUrban
}

type ExperienceLevel string

const (
	ExperienceNone         ExperienceLevel = "none"
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceExpert       ExperienceLevel = "expert"
)

// ExperienceLevels lists every experience level from lowest to highest.
var ExperienceLevels = []ExperienceLevel{ExperienceNone, ExperienceBeginner, ExperienceIntermediate, ExperienceExpert}

// ParseExperienceLevel maps free text to a level. Unknown values map to beginner.
func ParseExperienceLevel(s string) ExperienceLevel {
	v := ExperienceLevel(strings.ToLower(strings.TrimSpace(s)))
	for _, lvl := range ExperienceLevels {
		if v == lvl {
			return lvl
		}
	}
	return ExperienceBeginner
}

type EducationLevel string

const (
	EducationNone     EducationLevel = "none"
	EducationTenth    EducationLevel = "10th"
	EducationTwelfth  EducationLevel = "12th"
	EducationGraduate EducationLevel = "graduate"
	EducationPG       EducationLevel = "pg"
)

// EducationLevels lists every education level from lowest to highest.
var EducationLevels = []EducationLevel{EducationNone, EducationTenth, EducationTwelfth, EducationGraduate, EducationPG}

// ParseEducationLevel maps free text to a level. Unknown values map to 12th.
func ParseEducationLevel(s string) EducationLevel {
	v := EducationLevel(strings.ToLower(strings.TrimSpace(s)))
	for _, lvl := range EducationLevels {
		if v == lvl {
			return lvl
		}
	}
	return EducationTwelfth
}

// BusinessProfile is one archetype in the catalog. Values are read-only once
// the catalog has been built.
type BusinessProfile struct {
	ID                   string                      `yaml:"id" json:"id"`
	Name                 string                      `yaml:"name" json:"name"`
	Category             Category                    `yaml:"category" json:"category"`
	Description          string                      `yaml:"description" json:"description,omitempty"`
	InvestmentLevel      string                      `yaml:"investment_level" json:"investmentLevel,omitempty"`
	CanonicalSkills      []string                    `yaml:"skills" json:"skills"`
	LocationAffinity     map[LocationClass]float64   `yaml:"location_affinity" json:"locationAffinity"`
	ExperienceMultiplier map[ExperienceLevel]float64 `yaml:"experience_multiplier" json:"experienceMultiplier"`
	EducationBonus       map[EducationLevel]float64  `yaml:"education_bonus" json:"educationBonus"`
}
