package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		business    string
		description string
		want        string
	}{
		{"hospital keyword", "Central Hospital", "", CategoryHospitals},
		{"keyword in description", "Acme Inc", "a full-service clinic downtown", CategoryHospitals},
		{"case insensitive", "GLOBAL TRADING PLC", "", CategoryImportExport},
		{"restaurant", "Luigi's Pizza Corner", "", CategoryRestaurants},
		{"retail", "City Supermarket", "", CategoryRetail},
		{"technology", "TechFlow Solutions", "software development", CategoryTechnology},
		{"finance", "Awash Bank", "", CategoryFinance},
		{"legal", "Smith & Jones Attorneys", "", CategoryLegal},
		{"no match falls through", "Blue Horizon PLC", "", CategoryOther},
		{"empty input", "", "", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.business, tt.description))
		})
	}
}

func TestCategorizeFirstMatchWins(t *testing.T) {
	// "Hospital" and "Bank" both match, Hospitals is earlier in the table.
	assert.Equal(t, CategoryHospitals, Categorize("Hospital Bank", ""))
	// "Import" beats "Restaurant" for the same reason.
	assert.Equal(t, CategoryImportExport, Categorize("Import Restaurant", ""))
}

func TestCategorizeIsDeterministic(t *testing.T) {
	first := Categorize("Sunrise Cafe and Bakery", "fresh bread daily")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Categorize("Sunrise Cafe and Bakery", "fresh bread daily"))
	}
}

func TestCategorizeAlwaysReturnsKnownCategory(t *testing.T) {
	inputs := []string{"", "xyz", "Hospital", "Quantum Flux 9000", "shop shop shop"}
	for _, in := range inputs {
		assert.True(t, IsValidCategory(Categorize(in, in)), "input %q", in)
	}
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory(CategoryRealEstate))
	assert.False(t, IsValidCategory("Spaceships"))
	assert.False(t, IsValidCategory(""))
}
