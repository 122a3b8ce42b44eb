package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Categories
	}{
		{name: "single string", body: `{"categories":"change"}`, expected: Categories{"change"}},
		{name: "list", body: `{"categories":["owner_delay","change"]}`, expected: Categories{"change", "owner_delay"}},
		{name: "mixed case", body: `{"categories":" Force Majeure"}`, expected: Categories{"force_majeure"}},
		{name: "repeats collapse", body: `{"categories":["Change","change ","CHANGE","defect"]}`, expected: Categories{"change", "defect"}},
		{name: "empty list", body: `{"categories":[]}`, expected: Categories{}},
		{name: "null", body: `{"categories":null}`, expected: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p CaseCreated
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.expected, p.Categories)
		})
	}

	t.Run("scalar and list forms agree", func(t *testing.T) {
		var scalar, list CaseCreated
		require.NoError(t, json.Unmarshal([]byte(`{"subcategories":"Soil"}`), &scalar))
		require.NoError(t, json.Unmarshal([]byte(`{"subcategories":["soil"]}`), &list))
		assert.Equal(t, list.Subcategories, scalar.Subcategories)
	})

	t.Run("rejects other shapes", func(t *testing.T) {
		var p CaseCreated
		assert.Error(t, json.Unmarshal([]byte(`{"categories":42}`), &p))
		assert.Error(t, json.Unmarshal([]byte(`{"categories":{"main":"change"}}`), &p))
	})
}

func TestNormalizeCategories(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected Categories
	}{
		{name: "nil", input: nil, expected: Categories{}},
		{name: "blanks only", input: []string{" ", ""}, expected: Categories{}},
		{name: "sorted set", input: []string{"Other", "change", "other"}, expected: Categories{"change", "other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCategories(tt.input))
		})
	}
}

func TestCategoriesHas(t *testing.T) {
	c := NormalizeCategories([]string{"Force majeure", "change"})
	assert.True(t, c.Has(CategoryForceMajeure))
	assert.True(t, c.Has(CategoryChange))
	assert.False(t, c.Has(CategoryDefect))
	assert.True(t, IsMainCategory(CategoryOwnerDelay))
	assert.False(t, IsMainCategory("soil"))
}
