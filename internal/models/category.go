package models

import "strings"

// Category represents a habit domain
type Category string

const (
	CategoryMindfulness  Category = "mindfulness"
	CategoryPhysical     Category = "physical"
	CategoryProductivity Category = "productivity"
	CategoryRelaxation   Category = "relaxation"
	CategorySocial       Category = "social"
)

// Categories lists every recognized habit category
var Categories = []Category{
	CategoryMindfulness,
	CategoryPhysical,
	CategoryProductivity,
	CategoryRelaxation,
	CategorySocial,
}

// IsValid reports whether the category is one of the recognized values
func (c Category) IsValid() bool {
	switch c {
	case CategoryMindfulness, CategoryPhysical, CategoryProductivity, CategoryRelaxation, CategorySocial:
		return true
	default:
		return false
	}
}

// ParseCategory normalizes a string into a Category. Unrecognized input
// returns CategoryMindfulness and false so callers can fall back without failing.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.IsValid() {
		return c, true
	}
	return CategoryMindfulness, false
}
