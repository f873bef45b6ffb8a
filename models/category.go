package models

import "strings"

// Business categories. The order of this list is load-bearing: Categorize
// walks it top to bottom and the first keyword hit wins, so a name matching
// several keyword sets is always classified by the earliest category.
const (
	CategoryHospitals     = "Hospitals"
	CategoryImportExport  = "Import/Export"
	CategoryRestaurants   = "Restaurants"
	CategoryRetail        = "Retail"
	CategoryServices      = "Services"
	CategoryTechnology    = "Technology"
	CategoryEducation     = "Education"
	CategoryEntertainment = "Entertainment"
	CategoryAutomotive    = "Automotive"
	CategoryRealEstate    = "Real Estate"
	CategoryFinance       = "Finance"
	CategoryLegal         = "Legal"
	CategoryOther         = "Other"
)

var Categories = []string{
	CategoryHospitals,
	CategoryImportExport,
	CategoryRestaurants,
	CategoryRetail,
	CategoryServices,
	CategoryTechnology,
	CategoryEducation,
	CategoryEntertainment,
	CategoryAutomotive,
	CategoryRealEstate,
	CategoryFinance,
	CategoryLegal,
	CategoryOther,
}

type categoryKeywords struct {
	category string
	keywords []string
}

var categoryKeywordTable = []categoryKeywords{
	{CategoryHospitals, []string{"hospital", "clinic", "medical", "pharmacy", "diagnostic"}},
	{CategoryImportExport, []string{"import", "export", "trading", "cargo", "freight"}},
	{CategoryRestaurants, []string{"restaurant", "cafe", "bar", "pizza", "bakery", "coffee"}},
	{CategoryRetail, []string{"shop", "store", "market", "supermarket", "boutique", "fashion"}},
	{CategoryServices, []string{"service", "consult", "agency", "salon", "cleaning"}},
	{CategoryTechnology, []string{"tech", "software", "computer", "digital", "system"}},
	{CategoryEducation, []string{"school", "college", "university", "academy", "training"}},
	{CategoryEntertainment, []string{"cinema", "theatre", "gaming", "sport", "entertainment"}},
	{CategoryAutomotive, []string{"auto", "car", "garage", "vehicle", "mechanic"}},
	{CategoryRealEstate, []string{"real estate", "property", "developer", "construction"}},
	{CategoryFinance, []string{"bank", "insurance", "loan", "credit", "financial", "finance"}},
	{CategoryLegal, []string{"law", "legal", "attorney", "advocate", "court"}},
}

// IsValidCategory reports whether c is one of the closed category set.
func IsValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// Categorize derives a category from a business name and description by
// substring keyword matching. It never fails; unmatched input falls
// through to CategoryOther.
func Categorize(name, description string) string {
	text := strings.ToLower(name + " " + description)
	for _, entry := range categoryKeywordTable {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.category
			}
		}
	}
	return CategoryOther
}
