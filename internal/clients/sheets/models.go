package sheets

// spreadsheet is the subset of the spreadsheets.get response we use.
type spreadsheet struct {
	Sheets []sheet `json:"sheets"`
}

type sheet struct {
	Properties sheetProperties `json:"properties"`
}

type sheetProperties struct {
	SheetID int64  `json:"sheetId,omitempty"`
	Title   string `json:"title"`
}

type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values"`
}

type batchUpdateRequest struct {
	Requests []request `json:"requests"`
}

type request struct {
	AddSheet *addSheetRequest `json:"addSheet,omitempty"`
}

type addSheetRequest struct {
	Properties sheetProperties `json:"properties"`
}
