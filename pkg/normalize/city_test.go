package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCity(t *testing.T) {
	tests := []struct {
		address string
		want    string
		wantOK  bool
	}{
		{"123 rue des Fleurs, Douala", "Douala", true},
		{"Rue principale, Douala", "Douala", true},
		{"Quartier X, Ville inconnue", "Ville inconnue", true},
		{"Quartier, Inconnue City", "Inconnue City", true},
		{"Akwa; DOUALA 237", "Douala", true},
		{"Bastos, Yaoundé, Centre", "Yaoundé", true},
		{"kribi", "Kribi", true},
		{"Rue 5, AB", "", false},
		{" , ; ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractCity(tt.address, nil)
		assert.Equal(t, tt.wantOK, ok, "ok for %q", tt.address)
		assert.Equal(t, tt.want, got, "city for %q", tt.address)
	}
}

func TestExtractCityFirstSegmentWins(t *testing.T) {
	got, ok := ExtractCity("Limbe road, Buea", nil)
	assert.True(t, ok)
	assert.Equal(t, "Limbe", got)
}

func TestExtractCityCustomList(t *testing.T) {
	cities := LoadCustomCities([]string{"Abidjan"})
	got, ok := ExtractCity("Cocody, Abidjan 01", cities)
	assert.True(t, ok)
	assert.Equal(t, "Abidjan", got)

	got, ok = ExtractCity("Centre, Douala", cities)
	assert.True(t, ok)
	assert.Equal(t, "Douala", got)
}

func TestLoadCustomCities(t *testing.T) {
	assert.Equal(t, DefaultCities, LoadCustomCities(nil))

	cities := LoadCustomCities([]string{"Abidjan", "Douala", " ", "Abidjan"})
	assert.Equal(t, "Abidjan", cities[0])
	assert.Equal(t, "Douala", cities[1])
	assert.Len(t, cities, len(DefaultCities)+1)
}
