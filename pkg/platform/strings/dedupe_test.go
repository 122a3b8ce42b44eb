package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "trims whitespace", input: []string{" c-1 ", "c-2  "}, expected: []string{"c-1", "c-2"}},
		{name: "first occurrence wins", input: []string{"c-2", "c-1", "c-2 "}, expected: []string{"c-2", "c-1"}},
		{name: "drops blanks", input: []string{"", "  ", "c-1"}, expected: []string{"c-1"}},
		{name: "keeps case", input: []string{"C-1", "c-1"}, expected: []string{"C-1", "c-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "sorted and lower-cased", input: []string{"Irregulaer ", "endring"}, expected: []string{"endring", "irregulaer"}},
		{name: "inner spaces become underscores", input: []string{"force majeure"}, expected: []string{"force_majeure"}},
		{name: "case-insensitive repeats", input: []string{"ENDRING", "endring", " Endring"}, expected: []string{"endring"}},
		{name: "only blanks", input: []string{" ", ""}, expected: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tags(tt.input))
		})
	}
}
