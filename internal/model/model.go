package model

import (
	"fmt"
	"strconv"
)

// Variant selects which of the two form layouts and table schemas is active.
type Variant string

const (
	// VariantContact collects first name, last name, birth date, phone, address and city.
	VariantContact Variant = "contact"
	// VariantBranch replaces the address with a branch, the submission date and a referral source.
	VariantBranch Variant = "branch"
)

// BirthDateLayout is the layout of the stored birth date, e.g. "01-05-2000".
const BirthDateLayout = "02-01-2006"

// Record is one submitted form. Fields that do not belong to the active variant stay empty.
//
// The birth_year column holds a full DD-MM-YYYY date, not a year. The column name is kept so that
// existing databases stay readable.
type Record struct {
	Id             int64  `json:"id"                        db:"id"`
	FirstName      string `json:"first_name"                db:"first_name"`
	LastName       string `json:"last_name"                 db:"last_name"`
	BirthDate      string `json:"birth_year"                db:"birth_year"`
	PhoneNumber    string `json:"phone_number"              db:"phone_number"`
	Address        string `json:"address,omitempty"         db:"address"`
	City           string `json:"city"                      db:"city"`
	Filial         string `json:"filial,omitempty"          db:"filial"`
	CurrentDate    string `json:"current_date,omitempty"    db:"current_date"`
	SelectedSource string `json:"selected_source,omitempty" db:"selected_source"`
}

// ParseVariant converts a configuration value into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantContact, VariantBranch:
		return Variant(s), nil
	}
	return "", fmt.Errorf("unknown form variant %q", s)
}

// Columns returns the table columns of the variant in display order, excluding the id.
func (v Variant) Columns() []string {
	if v == VariantBranch {
		return []string{"first_name", "last_name", "birth_year", "phone_number", "city", "filial", "current_date", "selected_source"}
	}
	return []string{"first_name", "last_name", "birth_year", "phone_number", "address", "city"}
}

// Header returns the column labels shown in the listing, the export and the spreadsheet mirror.
func (v Variant) Header() []string {
	if v == VariantBranch {
		return []string{"ID", "Имя", "Фамилия", "Год рождения", "Телефон", "Город", "Филиал", "Дата", "Источник"}
	}
	return []string{"ID", "Имя", "Фамилия", "Год рождения", "Телефон", "Адрес", "Город"}
}

// Row renders the record as cell strings in the column order of the variant, starting with the id.
func (r Record) Row(v Variant) []string {
	id := strconv.FormatInt(r.Id, 10)
	if v == VariantBranch {
		return []string{id, r.FirstName, r.LastName, r.BirthDate, r.PhoneNumber, r.City, r.Filial, r.CurrentDate, r.SelectedSource}
	}
	return []string{id, r.FirstName, r.LastName, r.BirthDate, r.PhoneNumber, r.Address, r.City}
}
