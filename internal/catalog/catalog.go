// Package catalog holds the immutable table of business archetypes scored by
// the recommendation engine.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"business-recommender/internal/models"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// ErrInvalidCatalog is wrapped by every catalog authoring error.
var ErrInvalidCatalog = errors.New("CATALOG_INVALID")

// Catalog is a versioned, read-only set of business profiles in declaration
// order. It is safe for concurrent use.
type Catalog struct {
	version    string
	businesses []models.BusinessProfile
	index      map[string]int
	vocabulary []string
}

type document struct {
	Version    string                   `yaml:"version"`
	Businesses []models.BusinessProfile `yaml:"businesses"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// LoadFile reads a catalog YAML document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog YAML document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}
	return New(doc.Version, doc.Businesses)
}

// New validates businesses and builds a catalog. The input is copied, so later
// changes by the caller do not affect the catalog.
func New(version string, businesses []models.BusinessProfile) (*Catalog, error) {
	if strings.TrimSpace(version) == "" {
		return nil, fmt.Errorf("%w: version is required", ErrInvalidCatalog)
	}
	if len(businesses) == 0 {
		return nil, fmt.Errorf("%w: no businesses defined", ErrInvalidCatalog)
	}

	c := &Catalog{
		version:    version,
		businesses: make([]models.BusinessProfile, 0, len(businesses)),
		index:      make(map[string]int, len(businesses)),
	}

	var problems []string
	seenSkill := make(map[string]struct{})

	for i, b := range businesses {
		b = clone(b)
		b.ID = strings.TrimSpace(b.ID)

		if errs := validate(b); len(errs) > 0 {
			label := b.ID
			if label == "" {
				label = fmt.Sprintf("#%d", i)
			}
			for _, e := range errs {
				problems = append(problems, fmt.Sprintf("%s: %s", label, e))
			}
			continue
		}
		if _, dup := c.index[b.ID]; dup {
			problems = append(problems, fmt.Sprintf("%s: duplicate id", b.ID))
			continue
		}

		b.CanonicalSkills = normalizeSkills(b.CanonicalSkills)
		if b.Name == "" {
			b.Name = DisplayName(b.ID)
		}

		for _, s := range b.CanonicalSkills {
			if _, ok := seenSkill[s]; !ok {
				seenSkill[s] = struct{}{}
				c.vocabulary = append(c.vocabulary, s)
			}
		}

		c.index[b.ID] = len(c.businesses)
		c.businesses = append(c.businesses, b)
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}

	return c, nil
}

func validate(b models.BusinessProfile) []string {
	var errs []string

	if b.ID == "" {
		errs = append(errs, "id is required")
	}
	switch b.Category {
	case models.CategoryGoods, models.CategoryService, models.CategoryBoth:
	default:
		errs = append(errs, fmt.Sprintf("unknown category %q", b.Category))
	}
	if len(normalizeSkills(b.CanonicalSkills)) == 0 {
		errs = append(errs, "at least one skill is required")
	}

	for _, lc := range models.LocationClasses {
		v, ok := b.LocationAffinity[lc]
		if !ok {
			errs = append(errs, fmt.Sprintf("location_affinity missing %q", lc))
			continue
		}
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("location_affinity[%s]=%v outside [0,1]", lc, v))
		}
	}

	prev := -1.0
	for _, lvl := range models.ExperienceLevels {
		v, ok := b.ExperienceMultiplier[lvl]
		if !ok {
			errs = append(errs, fmt.Sprintf("experience_multiplier missing %q", lvl))
			continue
		}
		if v < 0 {
			errs = append(errs, fmt.Sprintf("experience_multiplier[%s]=%v is negative", lvl, v))
		}
		if v < prev {
			errs = append(errs, fmt.Sprintf("experience_multiplier[%s] decreases", lvl))
		}
		prev = v
	}
	if v, ok := b.ExperienceMultiplier[models.ExperienceExpert]; ok && v <= 1.0 {
		errs = append(errs, "experience_multiplier[expert] must exceed 1.0")
	}

	prev = 0
	for _, lvl := range models.EducationLevels {
		v, ok := b.EducationBonus[lvl]
		if !ok {
			errs = append(errs, fmt.Sprintf("education_bonus missing %q", lvl))
			continue
		}
		if v < 0 {
			errs = append(errs, fmt.Sprintf("education_bonus[%s]=%v is negative", lvl, v))
		}
		if v < prev {
			errs = append(errs, fmt.Sprintf("education_bonus[%s] decreases", lvl))
		}
		prev = v
	}

	return errs
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		n := models.NormalizeSkill(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func clone(b models.BusinessProfile) models.BusinessProfile {
	b.CanonicalSkills = append([]string(nil), b.CanonicalSkills...)

	loc := make(map[models.LocationClass]float64, len(b.LocationAffinity))
	for k, v := range b.LocationAffinity {
		loc[k] = v
	}
	b.LocationAffinity = loc

	exp := make(map[models.ExperienceLevel]float64, len(b.ExperienceMultiplier))
	for k, v := range b.ExperienceMultiplier {
		exp[k] = v
	}
	b.ExperienceMultiplier = exp

	edu := make(map[models.EducationLevel]float64, len(b.EducationBonus))
	for k, v := range b.EducationBonus {
		edu[k] = v
	}
	b.EducationBonus = edu

	return b
}

// DisplayName turns an id such as "beauty_services" into "Beauty Services".
func DisplayName(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Version identifies the catalog contents; it is part of every cache key.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of businesses.
func (c *Catalog) Len() int {
	return len(c.businesses)
}

// All returns the businesses in declaration order. Profiles must be treated
// as read-only.
func (c *Catalog) All() []models.BusinessProfile {
	return append([]models.BusinessProfile(nil), c.businesses...)
}

// Get looks up a business by id.
func (c *Catalog) Get(id string) (models.BusinessProfile, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.BusinessProfile{}, false
	}
	return c.businesses[i], true
}

// SkillVocabulary returns every distinct canonical skill in first-seen order.
func (c *Catalog) SkillVocabulary() []string {
	return append([]string(nil), c.vocabulary...)
}
