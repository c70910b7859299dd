package model

import "time"

const (
	ReportStatusUnresolved = "unresolved"
	ReportStatusInProgress = "in-progress"
	ReportStatusResolved   = "resolved"
)

// Report is an incident report filed with the reporter's identity.
type Report struct {
	ID              int64      `db:"id" json:"id"`
	Title           *string    `db:"title" json:"title"`
	Type            string     `db:"type" json:"type"`
	Location        string     `db:"location" json:"location"`
	Description     string     `db:"description" json:"description"`
	Status          string     `db:"status" json:"status"`
	Priority        string     `db:"priority" json:"priority"`
	ReporterName    string     `db:"reporter_name" json:"reporter_name"`
	ReporterIC      string     `db:"reporter_ic" json:"reporter_ic"`
	ReporterContact string     `db:"reporter_contact" json:"reporter_contact"`
	DateReported    time.Time  `db:"date_reported" json:"date_reported"`
	DateUpdated     *time.Time `db:"date_updated" json:"date_updated"`
	AdminNotes      *string    `db:"admin_notes" json:"admin_notes"`
	ImageURL        *string    `db:"image_url" json:"image_url"`
	UserID          *int64     `db:"user_id" json:"user_id"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

func (r Report) Value(column string) any {
	switch column {
	case "id":
		return r.ID
	case "title":
		return strValue(r.Title)
	case "type":
		return r.Type
	case "location":
		return r.Location
	case "description":
		return r.Description
	case "status":
		return r.Status
	case "priority":
		return r.Priority
	case "reporter_name":
		return r.ReporterName
	case "date_reported":
		return r.DateReported
	case "date_updated":
		return timeValue(r.DateUpdated)
	case "user_id":
		return int64Value(r.UserID)
	case "created_at":
		return r.CreatedAt
	case "updated_at":
		return r.UpdatedAt
	}
	return nil
}

type CreateReportRequest struct {
	Title           *string `json:"title" binding:"omitempty,max=255"`
	Type            string  `json:"type" binding:"required,max=255"`
	Location        string  `json:"location" binding:"required,max=255"`
	Description     string  `json:"description" binding:"required"`
	Priority        string  `json:"priority" binding:"required,oneof=low medium high"`
	ReporterName    string  `json:"reporter_name" binding:"required,max=255"`
	ReporterIC      string  `json:"reporter_ic" binding:"required,max=255"`
	ReporterContact string  `json:"reporter_contact" binding:"required,max=255"`
	DateReported    string  `json:"date_reported" binding:"required,datetime_ymdhis"`
	AdminNotes      *string `json:"admin_notes"`
	ImageURL        *string `json:"image_url" binding:"omitempty,url"`
}

type UpdateReportRequest struct {
	Status     *string `json:"status" binding:"omitempty,oneof=unresolved in-progress resolved"`
	Priority   *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	AdminNotes *string `json:"admin_notes"`
}

type ReportStats struct {
	Total        int            `json:"total"`
	Unresolved   int            `json:"unresolved"`
	InProgress   int            `json:"in_progress"`
	Resolved     int            `json:"resolved"`
	HighPriority int            `json:"high_priority"`
	ByType       map[string]int `json:"by_type"`
}
