package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredFieldsPrecedence(t *testing.T) {
	tx := Default()
	health := tx.RequiredFields("Health")

	cases := []struct {
		name  string
		input string
		tier  Tier
	}{
		{"exact", "Health", TierExact},
		{"exact case-insensitive", "  hEaLtH ", TierExact},
		{"substring", "health insurance", TierSubstring},
		{"subcategory label containing key", "Human - Health Insurance (Top-Up)", TierSubstring},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, health, tx.RequiredFields(tc.input))
			_, tier, ok := tx.Resolve(tc.input)
			assert.True(t, ok)
			assert.Equal(t, tc.tier, tier)
		})
	}
}

func TestRequiredFieldsReverseLookup(t *testing.T) {
	tx := Default()

	name, tier, ok := tx.Resolve("Human - Critical Illness Cover")
	assert.True(t, ok)
	assert.Equal(t, "Health", name)
	assert.Equal(t, TierSubcategory, tier)

	assert.Equal(t, tx.RequiredFields("Agriculture"), tx.RequiredFields("Rural - Package"))
	assert.Equal(t, tx.RequiredFields("Accident"), tx.RequiredFields("Human - Travel Insurance"))
}

func TestRequiredFieldsFallback(t *testing.T) {
	tx := Default()
	want := []string{"age", "occupation", "budget", "sum_insured_preference"}

	assert.Equal(t, want, tx.RequiredFields("xyz-unknown"))
	assert.Equal(t, want, tx.RequiredFields(""))

	_, tier, ok := tx.Resolve("xyz-unknown")
	assert.False(t, ok)
	assert.Equal(t, TierNone, tier)
}

func TestRequiredFieldsReturnsCopy(t *testing.T) {
	tx := Default()
	fields := tx.RequiredFields("Pet")
	fields[0] = "mutated"
	assert.Equal(t, "animal_species", tx.RequiredFields("Pet")[0])
}

func TestSpecificSubcategories(t *testing.T) {
	tx := Default()

	subs := tx.SpecificSubcategories("Vehicle")
	assert.Contains(t, subs, "Vehicle - Commercial (Trucks)")
	assert.Len(t, subs, 9)

	assert.NotNil(t, tx.SpecificSubcategories("Spaceship"))
	assert.Empty(t, tx.SpecificSubcategories("Spaceship"))
	assert.Empty(t, tx.SpecificSubcategories("vehicle"), "broad names are canonical")
}

func TestBroadCategoriesAndCanonical(t *testing.T) {
	tx := Default()
	assert.Equal(t,
		[]string{"Health", "Accident", "Vehicle", "Pet", "Agriculture", "Property", "Financial", "Specialized"},
		tx.BroadCategories())

	assert.Equal(t, "Vehicle", tx.Canonical("vehicle insurance"))
	assert.Equal(t, "Car Insurance", tx.Canonical(" Car Insurance "))
}
