// Package form holds the state of the registration form between rendering and submission.
package form

import (
	"slices"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/registration-form/internal/model"
	public "gitlab.com/dirk.krummacker/registration-form/pkg/model"
)

// inputDateLayout is the value format of an HTML date input.
const inputDateLayout = "2006-01-02"

// MinBirthDate is the earliest birth date the form accepts.
var MinBirthDate = time.Date(1940, time.January, 1, 0, 0, 0, 0, time.UTC)

// Messages shown to the visitor.
const (
	MsgRequired         = "Пожалуйста, заполните Имя и Телефон перед сохранением."
	MsgInvalidBirthDate = "Неверная дата рождения."
	MsgTooEarly         = "Дата рождения не может быть раньше 01-01-1940."
	MsgUnknownFilial    = "Пожалуйста, выберите филиал из списка."
	MsgSaved            = "Данные успешно сохранены."
)

// Status is the step the form is in.
type Status int

const (
	// Editing means the inputs are shown and no submission has been accepted yet.
	Editing Status = iota
	// Submitted means the submission passed validation and was turned into a record.
	Submitted
)

// State is the form as seen by one visitor: the current input values, the validation error of the
// last submission and the status.
type State struct {
	Values public.Submission
	Error  string
	Status Status
}

// Reset clears all inputs and errors and returns to Editing.
func (s *State) Reset() {
	*s = State{}
}

// Submit validates the submission. On success the state moves to Submitted and the record to be
// stored is returned. Otherwise the state stays in Editing, keeps the entered values and carries the
// validation error. In the branch variant the filial must be one of branches, unless branches is
// empty. now is used for the submission date of the branch variant.
func (s *State) Submit(submission public.Submission, variant model.Variant, branches []string, now time.Time) (model.Record, bool) {
	submission = trimmed(submission)
	s.Values = submission
	s.Status = Editing
	s.Error = ""

	if submission.FirstName == "" || submission.PhoneNumber == "" {
		s.Error = MsgRequired
		return model.Record{}, false
	}
	birthDate, msg := formatBirthDate(submission.BirthDate)
	if msg != "" {
		s.Error = msg
		return model.Record{}, false
	}

	record := model.Record{
		FirstName:   submission.FirstName,
		LastName:    submission.LastName,
		BirthDate:   birthDate,
		PhoneNumber: submission.PhoneNumber,
		City:        submission.City,
	}
	if variant == model.VariantBranch {
		if len(branches) > 0 && !slices.Contains(branches, submission.Filial) {
			s.Error = MsgUnknownFilial
			return model.Record{}, false
		}
		record.Filial = submission.Filial
		record.CurrentDate = now.Format(model.BirthDateLayout)
		record.SelectedSource = submission.SelectedSource
	} else {
		record.Address = submission.Address
	}
	s.Status = Submitted
	return record, true
}

// formatBirthDate converts the date input value to DD-MM-YYYY. An empty value stays empty.
func formatBirthDate(value string) (string, string) {
	if value == "" {
		return "", ""
	}
	date, err := time.Parse(inputDateLayout, value)
	if err != nil {
		return "", MsgInvalidBirthDate
	}
	if date.Before(MinBirthDate) {
		return "", MsgTooEarly
	}
	return date.Format(model.BirthDateLayout), ""
}

func trimmed(s public.Submission) public.Submission {
	return public.Submission{
		FirstName:      strings.TrimSpace(s.FirstName),
		LastName:       strings.TrimSpace(s.LastName),
		BirthDate:      strings.TrimSpace(s.BirthDate),
		PhoneNumber:    strings.TrimSpace(s.PhoneNumber),
		Address:        strings.TrimSpace(s.Address),
		City:           strings.TrimSpace(s.City),
		Filial:         strings.TrimSpace(s.Filial),
		SelectedSource: strings.TrimSpace(s.SelectedSource),
	}
}
