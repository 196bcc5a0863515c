package sheets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	BaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

	// Fixed sheet titles of the campaign spreadsheet.
	SheetEvent     = "event"
	SheetAnalytics = "analytics"
	SheetPartners  = "partners"
)

// ErrEmptyValues is returned when a column write is attempted with no values.
var ErrEmptyValues = errors.New("values cannot be empty")

// Client works with one campaign spreadsheet via the Sheets values API.
type Client struct {
	spreadsheetID string
	token         string
	baseURL       string
	httpClient    *http.Client
}

// NewClient creates a Sheets client bound to one spreadsheet ID.
func NewClient(spreadsheetID, token string) *Client {
	return &Client{
		spreadsheetID: spreadsheetID,
		token:         token,
		baseURL:       BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint (used in tests).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// doRequest performs an HTTP request with auth against the bound spreadsheet.
// path is appended to the spreadsheet resource URL.
func (c *Client) doRequest(method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+"/"+c.spreadsheetID+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// InsertHeaders overwrites rows starting at the first cell of the sheet.
func (c *Client) InsertHeaders(sheetTitle string, rows [][]string) error {
	rng := sheetTitle + "!A1"
	body := valueRange{Values: rows}
	_, err := c.doRequest("PUT", "/values/"+url.PathEscape(rng)+"?valueInputOption=RAW", body)
	return err
}

// MakeHeaders writes the standard header rows of all three sheets.
func (c *Client) MakeHeaders() error {
	headers := map[string][][]string{
		SheetEvent: {
			{"Partner", "Abbreviation", "Partner link", "Post sent", "Post published", "Clicks"},
		},
		SheetAnalytics: {
			{"Partner", "Clicks"},
		},
		SheetPartners: {
			{"Partner", "Abbreviation", "Partner URL", "Contact", "Owner"},
		},
	}

	// Фиксированный порядок, чтобы ошибки были воспроизводимы
	for _, title := range []string{SheetEvent, SheetAnalytics, SheetPartners} {
		if err := c.InsertHeaders(title, headers[title]); err != nil {
			return fmt.Errorf("headers for %s: %w", title, err)
		}
	}
	return nil
}

// CreateSheets adds any sheet in titles that does not exist yet. Existing
// sheets are left untouched, so the call is idempotent.
func (c *Client) CreateSheets(titles []string) error {
	data, err := c.doRequest("GET", "", nil)
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}

	var doc spreadsheet
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal spreadsheet: %w", err)
	}

	existing := make(map[string]bool, len(doc.Sheets))
	for _, sh := range doc.Sheets {
		existing[sh.Properties.Title] = true
	}

	var reqs []request
	for _, title := range titles {
		if !existing[title] {
			reqs = append(reqs, request{
				AddSheet: &addSheetRequest{Properties: sheetProperties{Title: title}},
			})
		}
	}
	if len(reqs) == 0 {
		return nil
	}

	_, err = c.doRequest("POST", ":batchUpdate", batchUpdateRequest{Requests: reqs})
	return err
}

// GetPartnerAbbreviations returns the partner abbreviations from column B of
// the partners sheet, header excluded and blank rows dropped. Fetch errors
// are logged and degrade to an empty result: downstream loops become no-ops
// instead of crashing mid-campaign.
func (c *Client) GetPartnerAbbreviations() []string {
	values, err := c.getColumn(SheetPartners + "!B:B")
	if err != nil {
		log.Printf("Error fetching partner abbreviations: %v", err)
		return nil
	}
	if len(values) < 2 {
		return nil
	}
	// Первая строка — заголовок
	return dropBlank(values[1:])
}

// GetPartnerLinks returns the generated short links from column C of the
// event sheet, starting at row 2, blank rows dropped. Same degrade-to-empty
// policy as GetPartnerAbbreviations.
func (c *Client) GetPartnerLinks() []string {
	values, err := c.getColumn(SheetEvent + "!C2:C")
	if err != nil {
		log.Printf("Error fetching partner links: %v", err)
		return nil
	}
	return dropBlank(values)
}

func (c *Client) getColumn(rng string) ([][]string, error) {
	data, err := c.doRequest("GET", "/values/"+url.PathEscape(rng), nil)
	if err != nil {
		return nil, err
	}

	var vr valueRange
	if err := json.Unmarshal(data, &vr); err != nil {
		return nil, fmt.Errorf("unmarshal values: %w", err)
	}
	return vr.Values, nil
}

// dropBlank keeps the first cell of every row that has at least one
// non-blank cell.
func dropBlank(rows [][]string) []string {
	var out []string
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row[0])
				break
			}
		}
	}
	return out
}

// WriteColumn writes values as successive single-cell rows into the event
// sheet, starting at row 2 of the given column. Write failures propagate:
// a silent partial write would corrupt the spreadsheet.
func (c *Client) WriteColumn(column string, values []string) error {
	if len(values) == 0 {
		return ErrEmptyValues
	}

	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}

	rng := fmt.Sprintf("%s!%s2:%s", SheetEvent, column, column)
	body := valueRange{Values: rows}
	_, err := c.doRequest("PUT", "/values/"+url.PathEscape(rng)+"?valueInputOption=RAW", body)
	return err
}
