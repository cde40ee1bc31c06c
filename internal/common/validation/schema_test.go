package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationRequestSchema_ValidateJSON(t *testing.T) {
	schema, err := NewSchema(RecommendationRequestSchema)
	require.NoError(t, err)

	tests := []struct {
		name      string
		body      string
		wantValid bool
		wantCode  string
		wantField string
	}{
		{
			name:      "full request",
			body:      `{"skills":["sewing"],"experience":"expert","location":"rural","education":"graduate","businessType":"goods","workEnvironment":"team"}`,
			wantValid: true,
		},
		{
			name:      "empty skills",
			body:      `{"skills":[]}`,
			wantValid: true,
		},
		{
			name:      "unknown fields allowed",
			body:      `{"skills":["cooking"],"budget":1000}`,
			wantValid: true,
		},
		{
			name:      "missing skills",
			body:      `{"experience":"expert"}`,
			wantValid: false,
			wantCode:  "REQUIRED",
		},
		{
			name:      "skills not an array",
			body:      `{"skills":"sewing"}`,
			wantValid: false,
			wantCode:  "INVALID_TYPE",
			wantField: "skills",
		},
		{
			name:      "non-string skill",
			body:      `{"skills":["sewing", 3]}`,
			wantValid: false,
			wantCode:  "INVALID_TYPE",
			wantField: "skills.1",
		},
		{
			name:      "malformed json",
			body:      `{"skills":`,
			wantValid: false,
			wantCode:  "INVALID_JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := schema.ValidateJSON([]byte(tt.body))
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
			if tt.wantField != "" {
				assert.Contains(t, fields(result), tt.wantField, result.Error())
			}
			assert.NotEmpty(t, result.Error())
		})
	}
}

func TestSchema_ValidateInput(t *testing.T) {
	schema := MustSchema(RecommendationRequestSchema)

	result := schema.ValidateInput(map[string]interface{}{
		"skills": []interface{}{"teaching", "communication"},
	})
	assert.True(t, result.Valid)

	result = schema.ValidateInput(map[string]interface{}{
		"skills": []interface{}{"teaching", true},
	})
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Field, "skills")
}

func TestNewSchema_Invalid(t *testing.T) {
	_, err := NewSchema(`{"type": 12}`)
	assert.Error(t, err)
}

func fields(result *ValidationResult) []string {
	out := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		out[i] = e.Field
	}
	return out
}
