package rules

import "strings"

// Category is a named group of sheets with their own sub-rules.
type Category string

const (
	CategoryNone           Category = ""
	CategoryGeneral        Category = "general"
	CategoryFundManagement Category = "fund_management"
	CategoryInternalAudit  Category = "internal_audit"
	CategoryRegTA          Category = "regta"
	CategoryZVFoBu         Category = "zv_fobu"
	CategoryCustodian      Category = "custodian"
)

// categoryKeywords matches a sheet when any keyword in anyOf is present,
// or when every keyword in allOf is present.
type categoryKeywords struct {
	category Category
	anyOf    []string
	allOf    []string
}

var categories = []categoryKeywords{
	{category: CategoryGeneral, anyOf: []string{"general", "allgemein"}},
	{category: CategoryFundManagement, anyOf: []string{"fund management", "fondsmanagement"}},
	{category: CategoryInternalAudit, anyOf: []string{"internal audit", "innenrevision"}},
	{category: CategoryRegTA, anyOf: []string{"regta"}},
	{category: CategoryZVFoBu, allOf: []string{"zv", "fobu"}},
	{category: CategoryCustodian, anyOf: []string{"custodian", "verwahrstelle"}},
}

func (k categoryKeywords) matches(sheet string) bool {
	s := strings.ToLower(sheet)
	if len(k.allOf) > 0 {
		for _, keyword := range k.allOf {
			if !strings.Contains(s, keyword) {
				return false
			}
		}
		return true
	}
	return containsAny(s, k.anyOf)
}

// Matches reports whether the sheet name carries the category's keywords.
func (c Category) Matches(sheet string) bool {
	for _, k := range categories {
		if k.category == c {
			return k.matches(sheet)
		}
	}
	return false
}

// Classify returns the first category whose keywords match the sheet name.
func Classify(sheet string) Category {
	for _, k := range categories {
		if k.matches(sheet) {
			return k.category
		}
	}
	return CategoryNone
}

// String returns the category identifier.
func (c Category) String() string {
	if c == CategoryNone {
		return "none"
	}
	return string(c)
}
