package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gitlab.com/dirk.krummacker/registration-form/internal/model"
	public "gitlab.com/dirk.krummacker/registration-form/pkg/model"
)

var now = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func TestSubmitFormatsBirthDate(t *testing.T) {
	var s State
	record, ok := s.Submit(public.Submission{
		FirstName:   "Aziz",
		PhoneNumber: "998901234567",
		BirthDate:   "2000-05-01",
		Address:     "Navoi 12",
		City:        "Tashkent",
	}, model.VariantContact, nil, now)

	assert.True(t, ok)
	assert.Equal(t, Submitted, s.Status)
	assert.Equal(t, "01-05-2000", record.BirthDate)
	assert.Equal(t, "Navoi 12", record.Address)
	assert.Empty(t, record.CurrentDate)
}

func TestSubmitBranchStampsCurrentDate(t *testing.T) {
	var s State
	record, ok := s.Submit(public.Submission{
		FirstName:      "Dilnoza",
		PhoneNumber:    "998935550011",
		Address:        "not part of this variant",
		Filial:         "Chilanzar",
		SelectedSource: "Instagram",
	}, model.VariantBranch, []string{"Chilanzar", "Yunusabad"}, now)

	assert.True(t, ok)
	assert.Equal(t, "14-10-2026", record.CurrentDate)
	assert.Equal(t, "Chilanzar", record.Filial)
	assert.Equal(t, "Instagram", record.SelectedSource)
	assert.Empty(t, record.Address)
	assert.Empty(t, record.BirthDate)
}

// TestSubmitRequiresNameAndPhone expects the form to stay in Editing with the values kept.
func TestSubmitRequiresNameAndPhone(t *testing.T) {
	submissions := []public.Submission{
		{PhoneNumber: "998901234567"},
		{FirstName: "Aziz"},
		{FirstName: "   ", PhoneNumber: "998901234567"},
		{},
	}
	for _, submission := range submissions {
		var s State
		_, ok := s.Submit(submission, model.VariantContact, nil, now)
		assert.False(t, ok)
		assert.Equal(t, Editing, s.Status)
		assert.Equal(t, MsgRequired, s.Error)
	}

	var s State
	s.Submit(public.Submission{FirstName: "Aziz", City: " Tashkent "}, model.VariantContact, nil, now)
	assert.Equal(t, "Tashkent", s.Values.City)
}

func TestSubmitRejectsBadBirthDates(t *testing.T) {
	var s State
	_, ok := s.Submit(public.Submission{FirstName: "Aziz", PhoneNumber: "1", BirthDate: "01.05.2000"}, model.VariantContact, nil, now)
	assert.False(t, ok)
	assert.Equal(t, MsgInvalidBirthDate, s.Error)

	_, ok = s.Submit(public.Submission{FirstName: "Aziz", PhoneNumber: "1", BirthDate: "1939-12-31"}, model.VariantContact, nil, now)
	assert.False(t, ok)
	assert.Equal(t, MsgTooEarly, s.Error)

	_, ok = s.Submit(public.Submission{FirstName: "Aziz", PhoneNumber: "1", BirthDate: "1940-01-01"}, model.VariantContact, nil, now)
	assert.True(t, ok)
	assert.Empty(t, s.Error)
}

func TestReset(t *testing.T) {
	var s State
	s.Submit(public.Submission{FirstName: "Aziz", PhoneNumber: "998901234567"}, model.VariantContact, nil, now)
	s.Reset()
	assert.Equal(t, State{}, s)
	assert.Equal(t, Editing, s.Status)
}

// TestSubmitRejectsUnknownFilial expects only the configured branches to be accepted.
func TestSubmitRejectsUnknownFilial(t *testing.T) {
	branches := []string{"Chilanzar", "Yunusabad"}
	for _, filial := range []string{"Nowhere", "", "chilanzar"} {
		var s State
		_, ok := s.Submit(public.Submission{
			FirstName:   "Dilnoza",
			PhoneNumber: "998935550011",
			Filial:      filial,
		}, model.VariantBranch, branches, now)

		assert.False(t, ok, filial)
		assert.Equal(t, MsgUnknownFilial, s.Error)
		assert.Equal(t, Editing, s.Status)
		assert.Equal(t, filial, s.Values.Filial)
	}

	// Without configured branches any filial is taken as entered.
	var s State
	record, ok := s.Submit(public.Submission{FirstName: "Dilnoza", PhoneNumber: "1", Filial: "Nowhere"}, model.VariantBranch, nil, now)
	assert.True(t, ok)
	assert.Equal(t, "Nowhere", record.Filial)
}
