package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("branch")
	assert.NoError(t, err)
	assert.Equal(t, VariantBranch, v)

	_, err = ParseVariant("students")
	assert.Error(t, err)
}

// TestRowMatchesHeader checks that every variant renders as many cells as its header has labels.
func TestRowMatchesHeader(t *testing.T) {
	record := Record{Id: 7, FirstName: "Aziz", PhoneNumber: "998901234567"}
	for _, v := range []Variant{VariantContact, VariantBranch} {
		assert.Equal(t, len(v.Header()), len(record.Row(v)), string(v))
		assert.Equal(t, len(v.Header())-1, len(v.Columns()), string(v))
	}
}

func TestRowContact(t *testing.T) {
	record := Record{
		Id:          3,
		FirstName:   "Aziz",
		LastName:    "Karimov",
		BirthDate:   "01-05-2000",
		PhoneNumber: "998901234567",
		Address:     "Navoi 12",
		City:        "Tashkent",
		Filial:      "ignored",
	}
	assert.Equal(t,
		[]string{"3", "Aziz", "Karimov", "01-05-2000", "998901234567", "Navoi 12", "Tashkent"},
		record.Row(VariantContact))
}

func TestRowBranch(t *testing.T) {
	record := Record{
		Id:             12,
		FirstName:      "Dilnoza",
		BirthDate:      "11-12-1995",
		PhoneNumber:    "998935550011",
		City:           "Samarkand",
		Filial:         "Chilanzar",
		CurrentDate:    "14-10-2026",
		SelectedSource: "Instagram",
	}
	assert.Equal(t,
		[]string{"12", "Dilnoza", "", "11-12-1995", "998935550011", "Samarkand", "Chilanzar", "14-10-2026", "Instagram"},
		record.Row(VariantBranch))
}
