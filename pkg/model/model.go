package model

// Submission is the data posted by the registration form. All fields are sent as strings, the birth
// date in the YYYY-MM-DD layout of an HTML date input. Only first name and phone number are required.
type Submission struct {
	FirstName      string `form:"first_name"      json:"first_name"`
	LastName       string `form:"last_name"       json:"last_name"`
	BirthDate      string `form:"birth_date"      json:"birth_date"`
	PhoneNumber    string `form:"phone_number"    json:"phone_number"`
	Address        string `form:"address"         json:"address,omitempty"`
	City           string `form:"city"            json:"city"`
	Filial         string `form:"filial"          json:"filial,omitempty"`
	SelectedSource string `form:"selected_source" json:"selected_source,omitempty"`
}

// Values returns the submission as form fields, ready to be URL-encoded.
func (s Submission) Values() map[string]string {
	return map[string]string{
		"first_name":      s.FirstName,
		"last_name":       s.LastName,
		"birth_date":      s.BirthDate,
		"phone_number":    s.PhoneNumber,
		"address":         s.Address,
		"city":            s.City,
		"filial":          s.Filial,
		"selected_source": s.SelectedSource,
	}
}
