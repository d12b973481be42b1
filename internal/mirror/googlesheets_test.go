package mirror

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeSheetsAPI serves the two Sheets REST calls used by GoogleSheet from an in-memory grid.
type fakeSheetsAPI struct {
	mu    sync.Mutex
	rows  [][]interface{}
	paths []string
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/v4/spreadsheets/sheet-123/values/"):
		resp := map[string]interface{}{"range": "Data!A1:Z1000", "majorDimension": "ROWS"}
		if len(f.rows) > 0 {
			resp["values"] = f.rows
		}
		json.NewEncoder(w).Encode(resp)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.rows = append(f.rows, body.Values...)
		json.NewEncoder(w).Encode(map[string]interface{}{"spreadsheetId": "sheet-123"})
	default:
		http.NotFound(w, r)
	}
}

func newFakeGoogleSheet(t *testing.T, api *fakeSheetsAPI) *GoogleSheet {
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	sheet, err := NewGoogleSheet(context.Background(),
		GoogleConfig{SpreadsheetID: "sheet-123", Worksheet: "Data"},
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication())
	require.NoError(t, err)
	return sheet
}

func TestGoogleSheetValues(t *testing.T) {
	api := &fakeSheetsAPI{rows: [][]interface{}{{"ID", "Имя"}, {"1", "Aziz"}}}
	sheet := newFakeGoogleSheet(t, api)

	rows, err := sheet.Values(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID", "Имя"}, {"1", "Aziz"}}, rows)
	assert.Equal(t, "sheet-123", sheet.SpreadsheetID())
}

// TestGoogleSheetMirror runs the duplicate suppression against the REST client.
func TestGoogleSheetMirror(t *testing.T) {
	api := &fakeSheetsAPI{}
	w := New(newFakeGoogleSheet(t, api), []string{"ID", "Имя", "Телефон"})
	row := []string{"1", "Aziz", "998901234567"}

	first, err := w.AppendIfNew(context.Background(), row)
	require.NoError(t, err)
	second, err := w.AppendIfNew(context.Background(), row)
	require.NoError(t, err)

	assert.Equal(t, Appended, first)
	assert.Equal(t, Duplicate, second)
	assert.Equal(t, [][]interface{}{
		{"ID", "Имя", "Телефон"},
		{"1", "Aziz", "998901234567"},
	}, api.rows)
}

func TestNewGoogleSheetMissingCredentials(t *testing.T) {
	_, err := NewGoogleSheet(context.Background(), GoogleConfig{
		CredentialsFile: t.TempDir() + "/credits_mobi.json",
		SpreadsheetID:   "sheet-123",
		Worksheet:       "Data",
	})
	assert.Error(t, err)
}

func TestNewGoogleSheetNeedsSpreadsheet(t *testing.T) {
	_, err := NewGoogleSheet(context.Background(), GoogleConfig{Worksheet: "Data"}, option.WithoutAuthentication())
	assert.Error(t, err)
}

// fakeDriveAPI answers the files.list call of the Drive API with the configured files.
type fakeDriveAPI struct {
	mu      sync.Mutex
	files   []map[string]string
	queries []string
}

func (f *fakeDriveAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Method != http.MethodGet || r.URL.Path != "/files" {
		http.NotFound(w, r)
		return
	}
	f.queries = append(f.queries, r.URL.Query().Get("q"))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"files": f.files})
}

func newDriveServer(t *testing.T, api *fakeDriveAPI) string {
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return server.URL + "/"
}

// TestNewGoogleSheetFindsSpreadsheetByTitle resolves the spreadsheet id through a Drive search.
func TestNewGoogleSheetFindsSpreadsheetByTitle(t *testing.T) {
	api := &fakeDriveAPI{files: []map[string]string{{"id": "abc", "name": "O'Neil"}}}
	sheet, err := NewGoogleSheet(context.Background(),
		GoogleConfig{SpreadsheetTitle: "O'Neil", Worksheet: "Data"},
		option.WithEndpoint(newDriveServer(t, api)),
		option.WithoutAuthentication())
	require.NoError(t, err)

	assert.Equal(t, "abc", sheet.SpreadsheetID())
	require.Len(t, api.queries, 1)
	assert.Equal(t,
		`name = 'O\'Neil' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false`,
		api.queries[0])
}

func TestNewGoogleSheetSpreadsheetNotFound(t *testing.T) {
	api := &fakeDriveAPI{files: []map[string]string{}}
	_, err := NewGoogleSheet(context.Background(),
		GoogleConfig{SpreadsheetTitle: "MyTasks", Worksheet: "Data"},
		option.WithEndpoint(newDriveServer(t, api)),
		option.WithoutAuthentication())
	assert.ErrorContains(t, err, `spreadsheet "MyTasks" not found`)
}

func TestQuoteQueryValue(t *testing.T) {
	assert.Equal(t, `MyTasks`, quoteQueryValue(`MyTasks`))
	assert.Equal(t, `O\'Neil`, quoteQueryValue(`O'Neil`))
	assert.Equal(t, `Data\\`, quoteQueryValue(`Data\`))
	assert.Equal(t, `a\\\'b`, quoteQueryValue(`a\'b`))
}
