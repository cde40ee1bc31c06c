// Package enrichment joins ranked business ids with collaborator data:
// learning resources, financial plans, case studies, workforce plans, mentors
// and long descriptions. Every lookup is total; an id without data gets an
// empty value.
package enrichment

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"business-recommender/internal/catalog"
	"business-recommender/internal/common/logger"
	"business-recommender/internal/models"
)

// GenericDescription is used when neither the description table nor the
// catalog describe a business.
const GenericDescription = "A promising business opportunity that matches your skills and preferences."

const (
	resourcesFile    = "resources.json"
	financialsFile   = "financials.json"
	caseStudiesFile  = "case_studies.json"
	workforceFile    = "workforce.json"
	mentorsFile      = "mentors.json"
	descriptionsFile = "descriptions.json"
)

//go:embed data/*.json
var embedded embed.FS

// Store is read-only after loading and safe for concurrent use.
type Store struct {
	resources    map[string][]models.Resource
	financials   map[string]models.FinancialPlan
	caseStudies  map[string][]models.CaseStudy
	workforce    map[string]models.WorkforcePlan
	mentors      map[string][]models.Mentor
	descriptions map[string]string
}

// Empty returns a store with no data.
func Empty() *Store {
	return &Store{
		resources:    map[string][]models.Resource{},
		financials:   map[string]models.FinancialPlan{},
		caseStudies:  map[string][]models.CaseStudy{},
		workforce:    map[string]models.WorkforcePlan{},
		mentors:      map[string][]models.Mentor{},
		descriptions: map[string]string{},
	}
}

// Default loads the data files compiled into the binary.
func Default(log logger.Logger) (*Store, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub, log)
}

// Load reads the data files from dir. An empty dir selects the embedded data.
func Load(dir string, log logger.Logger) (*Store, error) {
	if dir == "" {
		return Default(log)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("enrichment dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("enrichment dir %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), log)
}

// LoadFS reads every data file from fsys. Missing files leave that table
// empty; malformed files are an error.
func LoadFS(fsys fs.FS, log logger.Logger) (*Store, error) {
	s := Empty()

	tables := []struct {
		name string
		dst  interface{}
	}{
		{resourcesFile, &s.resources},
		{financialsFile, &s.financials},
		{caseStudiesFile, &s.caseStudies},
		{workforceFile, &s.workforce},
		{mentorsFile, &s.mentors},
		{descriptionsFile, &s.descriptions},
	}

	for _, t := range tables {
		data, err := fs.ReadFile(fsys, t.name)
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("enrichment file not found, using empty table", map[string]interface{}{
				"file": t.name,
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", t.name, err)
		}
		if err := json.Unmarshal(data, t.dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", t.name, err)
		}
	}

	log.Info("enrichment data loaded", map[string]interface{}{
		"resources":    len(s.resources),
		"financials":   len(s.financials),
		"caseStudies":  len(s.caseStudies),
		"workforce":    len(s.workforce),
		"mentors":      len(s.mentors),
		"descriptions": len(s.descriptions),
	})

	return s, nil
}

// ==========================
// Lookups
// ==========================

func (s *Store) Resources(id string) []models.Resource {
	if r := s.resources[id]; r != nil {
		return r
	}
	return []models.Resource{}
}

func (s *Store) Financials(id string) models.FinancialPlan {
	return s.financials[id]
}

func (s *Store) CaseStudies(id string) []models.CaseStudy {
	if c := s.caseStudies[id]; c != nil {
		return c
	}
	return []models.CaseStudy{}
}

func (s *Store) Workforce(id string) models.WorkforcePlan {
	return s.workforce[id]
}

func (s *Store) Mentors(id string) []models.Mentor {
	if m := s.mentors[id]; m != nil {
		return m
	}
	return []models.Mentor{}
}

// Description prefers the description table, then the catalog text, then
// GenericDescription.
func (s *Store) Description(b models.BusinessProfile) string {
	if d := s.descriptions[b.ID]; d != "" {
		return d
	}
	if b.Description != "" {
		return b.Description
	}
	return GenericDescription
}

// Join builds the enriched recommendation for a business. Scores are left
// for the caller.
func (s *Store) Join(b models.BusinessProfile) models.Recommendation {
	name := b.Name
	if name == "" {
		name = catalog.DisplayName(b.ID)
	}
	return models.Recommendation{
		ID:            b.ID,
		Name:          name,
		Description:   s.Description(b),
		BusinessType:  b.Category,
		Resources:     s.Resources(b.ID),
		Financials:    s.Financials(b.ID),
		CaseStudies:   s.CaseStudies(b.ID),
		WorkforcePlan: s.Workforce(b.ID),
		Mentors:       s.Mentors(b.ID),
		DataSources:   append([]string(nil), models.DataSources...),
	}
}
