package export

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gitlab.com/dirk.krummacker/registration-form/internal/model"
)

func TestWorkbook(t *testing.T) {
	records := []model.Record{
		{Id: 1, FirstName: "Aziz", BirthDate: "01-05-2000", PhoneNumber: "998901234567", City: "Tashkent"},
		{Id: 2, FirstName: "Bobur", PhoneNumber: "998907654321", Address: "Amir Temur 1"},
	}
	data, err := Workbook(model.VariantContact, records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.VariantContact.Header(), rows[0])
	assert.Equal(t, []string{"1", "Aziz", "", "01-05-2000", "998901234567", "", "Tashkent"}, rows[1])
	assert.Equal(t, "Amir Temur 1", rows[2][5])
}

func TestWorkbookWithoutRecords(t *testing.T) {
	data, err := Workbook(model.VariantBranch, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Источник", rows[0][8])
}

func TestDataURI(t *testing.T) {
	uri := DataURI([]byte("xlsx"))
	assert.True(t, strings.HasPrefix(uri, "data:"+ContentType+";base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:"+ContentType+";base64,"))
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(decoded))
}
