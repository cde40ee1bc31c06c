package recommender

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"business-recommender/internal/catalog"
	"business-recommender/internal/models"
)

// SkillAffinityModel is a content-similarity model over skill terms. Each
// business is a TF-IDF vector of its canonical skill phrases and their words;
// a prediction is the cosine similarity between that vector and the user's.
// The model is fitted once and read-only afterwards.
type SkillAffinityModel struct {
	idf        map[string]float64
	unseenIDF  float64
	businesses map[string]termVector
}

type termVector map[string]float64

// FitSkillAffinityModel fits document frequencies over the catalog.
func FitSkillAffinityModel(cat *catalog.Catalog) *SkillAffinityModel {
	businesses := cat.All()
	n := float64(len(businesses))

	termFreqs := make(map[string]termVector, len(businesses))
	docFreq := make(map[string]int)
	for _, b := range businesses {
		tf := termCounts(b.CanonicalSkills)
		termFreqs[b.ID] = tf
		for term := range tf {
			docFreq[term]++
		}
	}

	m := &SkillAffinityModel{
		idf:        make(map[string]float64, len(docFreq)),
		unseenIDF:  smoothIDF(n, 0),
		businesses: make(map[string]termVector, len(businesses)),
	}
	for term, df := range docFreq {
		m.idf[term] = smoothIDF(n, float64(df))
	}
	for id, tf := range termFreqs {
		m.businesses[id] = m.weigh(tf)
	}

	return m
}

// smoothIDF matches the smoothed form ln((1+n)/(1+df)) + 1.
func smoothIDF(n, df float64) float64 {
	return math.Log((1+n)/(1+df)) + 1
}

// Predict returns a similarity in [0,1]. Unknown businesses and profiles
// without skills score 0; an unfitted model is neutral.
func (m *SkillAffinityModel) Predict(profile models.NormalizedProfile, business models.BusinessProfile) float64 {
	if m == nil {
		return NeutralStatisticalScore
	}
	bv, ok := m.businesses[business.ID]
	if !ok || len(profile.Skills) == 0 {
		return 0
	}
	return cosine(m.weigh(termCounts(profile.Skills)), bv)
}

func (m *SkillAffinityModel) weigh(tf termVector) termVector {
	out := make(termVector, len(tf))
	for term, count := range tf {
		idf, ok := m.idf[term]
		if !ok {
			idf = m.unseenIDF
		}
		out[term] = count * idf
	}
	return out
}

// termCounts indexes each skill phrase and each of its words.
func termCounts(skills []string) termVector {
	tf := make(termVector)
	for _, s := range skills {
		phrase := models.NormalizeSkill(s)
		if phrase == "" {
			continue
		}
		tf[phrase]++

		words := strings.FieldsFunc(phrase, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(words) < 2 {
			continue
		}
		for _, w := range words {
			if len(w) > 1 {
				tf[w]++
			}
		}
	}
	return tf
}

// terms returns the vector's terms in sorted order; cosine sums in this order.
func (v termVector) terms() []string {
	out := make([]string, 0, len(v))
	for term := range v {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

func cosine(a, b termVector) float64 {
	var dot, na, nb float64
	for _, term := range a.terms() {
		va := a[term]
		na += va * va
		if vb, ok := b[term]; ok {
			dot += va * vb
		}
	}
	for _, term := range b.terms() {
		vb := b[term]
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
