package recommendbusiness

import "business-recommender/internal/models"

// Input mirrors the HTTP request body plus an optional algorithm.
type Input struct {
	Skills          []string `json:"skills"`
	Experience      string   `json:"experience,omitempty"`
	Location        string   `json:"location,omitempty"`
	Education       string   `json:"education,omitempty"`
	BusinessType    string   `json:"businessType,omitempty"`
	WorkEnvironment string   `json:"workEnvironment,omitempty"`
	Algorithm       string   `json:"algorithm,omitempty"`
	UserID          string   `json:"userId,omitempty"`
}

func (i *Input) Profile() models.UserProfile {
	return models.UserProfile{
		Skills:          i.Skills,
		Experience:      i.Experience,
		Location:        i.Location,
		Education:       i.Education,
		BusinessType:    i.BusinessType,
		WorkEnvironment: i.WorkEnvironment,
	}
}

type Output struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Algorithm       models.AlgorithmInfo    `json:"algorithm"`
	Fallback        bool                    `json:"fallback"`
}
