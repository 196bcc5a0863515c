package sheets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpreadsheetID = "sheet-123"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(testSpreadsheetID, "test-token")
	c.SetBaseURL(srv.URL)
	return c
}

func TestGetPartnerAbbreviations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Path, testSpreadsheetID+"/values/partners!B:B")
		w.Write([]byte(`{"range":"partners!B1:B4","values":[["Abbreviation"],["aa"],["  "],["bb"]]}`))
	})

	abbrs := c.GetPartnerAbbreviations()
	// Заголовок и пустые строки отброшены, порядок сохранён
	assert.Equal(t, []string{"aa", "bb"}, abbrs)
}

func TestGetPartnerAbbreviations_HeaderOnly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"values":[["Abbreviation"]]}`))
	})

	assert.Empty(t, c.GetPartnerAbbreviations())
}

func TestGetPartnerAbbreviations_ErrorDegradesToEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend error", http.StatusInternalServerError)
	})

	assert.Empty(t, c.GetPartnerAbbreviations())
}

func TestGetPartnerLinks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, testSpreadsheetID+"/values/event!C2:C")
		w.Write([]byte(`{"values":[["https://vk.cc/a1"],[""],["https://vk.cc/b2"]]}`))
	})

	links := c.GetPartnerLinks()
	assert.Equal(t, []string{"https://vk.cc/a1", "https://vk.cc/b2"}, links)
}

func TestGetPartnerLinks_ErrorDegradesToEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	assert.Empty(t, c.GetPartnerLinks())
}

func TestWriteColumn(t *testing.T) {
	var gotBody valueRange
	var gotMethod, gotPath, gotOption string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotOption = r.URL.Query().Get("valueInputOption")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"updatedCells":2}`))
	})

	require.NoError(t, c.WriteColumn("C", []string{"link1", "link2"}))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Contains(t, gotPath, "/values/event!C2:C")
	assert.Equal(t, "RAW", gotOption)
	// Каждое значение — отдельная строка из одной ячейки
	assert.Equal(t, [][]string{{"link1"}, {"link2"}}, gotBody.Values)
}

func TestWriteColumn_Empty(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := c.WriteColumn("C", nil)
	assert.ErrorIs(t, err, ErrEmptyValues)
	assert.False(t, called)
}

func TestWriteColumn_ErrorPropagates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	err := c.WriteColumn("F", []string{"0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error 403")
}

func TestCreateSheets_AddsOnlyMissing(t *testing.T) {
	var batch batchUpdateRequest
	batchCalled := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ":batchUpdate") {
			batchCalled = true
			require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
			w.Write([]byte(`{}`))
			return
		}
		// spreadsheets.get: лист event уже существует
		w.Write([]byte(`{"sheets":[{"properties":{"sheetId":0,"title":"event"}}]}`))
	})

	require.NoError(t, c.CreateSheets([]string{SheetEvent, SheetAnalytics, SheetPartners}))

	require.True(t, batchCalled)
	require.Len(t, batch.Requests, 2)
	assert.Equal(t, SheetAnalytics, batch.Requests[0].AddSheet.Properties.Title)
	assert.Equal(t, SheetPartners, batch.Requests[1].AddSheet.Properties.Title)
}

func TestCreateSheets_AllExist(t *testing.T) {
	batchCalled := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ":batchUpdate") {
			batchCalled = true
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"sheets":[
			{"properties":{"title":"event"}},
			{"properties":{"title":"analytics"}},
			{"properties":{"title":"partners"}}]}`))
	})

	require.NoError(t, c.CreateSheets([]string{SheetEvent, SheetAnalytics, SheetPartners}))
	assert.False(t, batchCalled)
}

func TestMakeHeaders(t *testing.T) {
	var ranges []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(r.URL.Path, "/values/", 2)
		require.Len(t, parts, 2)
		ranges = append(ranges, parts[1])
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.MakeHeaders())
	assert.Equal(t, []string{"event!A1", "analytics!A1", "partners!A1"}, ranges)
}

func TestInsertHeaders_ErrorPropagates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such sheet", http.StatusBadRequest)
	})

	err := c.InsertHeaders("event", [][]string{{"Partner"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error 400")
}
