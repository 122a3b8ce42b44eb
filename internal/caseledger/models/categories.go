package models

import (
	"encoding/json"
	"slices"

	kstrings "koe/pkg/platform/strings"
)

// Main basis categories. Force majeure cases carry deadline claims only.
const (
	CategoryChange       = "change"
	CategoryOwnerDelay   = "owner_delay"
	CategoryDefect       = "defect"
	CategoryForceMajeure = "force_majeure"
	CategoryOther        = "other"
)

var mainCategories = map[string]bool{
	CategoryChange:       true,
	CategoryOwnerDelay:   true,
	CategoryDefect:       true,
	CategoryForceMajeure: true,
	CategoryOther:        true,
}

// IsMainCategory reports whether tag is one of the main categories.
func IsMainCategory(tag string) bool {
	return mainCategories[tag]
}

// Categories is the canonical set representation of category tags. On the
// wire it accepts either a single string or a list; NormalizeCategories
// brings both to the same sorted, de-duplicated, lower-case form.
type Categories []string

func (c *Categories) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*c = NormalizeCategories([]string{single})
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*c = NormalizeCategories(list)
	return nil
}

// Has reports whether tag is present.
func (c Categories) Has(tag string) bool {
	return slices.Contains(c, tag)
}

// NormalizeCategories trims, lower-cases, de-duplicates and sorts tags.
func NormalizeCategories(tags []string) Categories {
	out := kstrings.Tags(tags)
	if out == nil {
		return Categories{}
	}
	return Categories(out)
}
