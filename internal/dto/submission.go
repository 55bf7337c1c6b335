package dto

import "time"

// SubmitRequest identifies the submitter and carries reviewer notes.
type SubmitRequest struct {
	Username string `json:"username"`
	Notes    string `json:"notes" binding:"max=4000"`
}

// SubmitResponse is returned after a successful submission.
type SubmitResponse struct {
	ChangeID      string `json:"changeId"`
	DocumentURL   string `json:"documentUrl"`
	ExcelFilePath string `json:"excelFilePath"`
	Message       string `json:"message"`
}

// HistoryQuery mirrors the history listing filters.
type HistoryQuery struct {
	Process  string     `form:"process"`
	Status   string     `form:"status"`
	FromDate *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"toDate" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"pageSize" binding:"omitempty,min=1,max=200"`
}

// DocumentLink points at a stored submission workbook.
type DocumentLink struct {
	ChangeID    string `json:"changeId"`
	DocumentURL string `json:"documentUrl"`
}
