package model

import "time"

const (
	EmergencyStatusSubmitted = "Submitted"
	EmergencyStatusInProcess = "In Process"
	EmergencyStatusCompleted = "Completed"
)

type EmergencyReport struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	IncidentType     string    `db:"incident_type" json:"incident_type"`
	Description      *string   `db:"description" json:"description"`
	IncidentLocation string    `db:"incident_location" json:"incident_location"`
	Latitude         *float64  `db:"latitude" json:"latitude"`
	Longitude        *float64  `db:"longitude" json:"longitude"`
	IncidentPhoto    *string   `db:"incident_photo" json:"incident_photo"`
	Status           string    `db:"status" json:"status"`
	AdminRemarks     *string   `db:"admin_remarks" json:"admin_remarks"`
	AdminID          *int64    `db:"admin_id" json:"admin_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

func (e EmergencyReport) Value(column string) any {
	switch column {
	case "id":
		return e.ID
	case "user_id":
		return e.UserID
	case "incident_type":
		return e.IncidentType
	case "description":
		return strValue(e.Description)
	case "incident_location":
		return e.IncidentLocation
	case "status":
		return e.Status
	case "admin_id":
		return int64Value(e.AdminID)
	case "created_at":
		return e.CreatedAt
	case "updated_at":
		return e.UpdatedAt
	}
	return nil
}

type CreateEmergencyReportRequest struct {
	IncidentType     string   `json:"incident_type" binding:"required,oneof=Fire Flood Accident Health Other"`
	IncidentLocation string   `json:"incident_location" binding:"required,max=255"`
	Description      *string  `json:"description"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,longitude"`
	IncidentPhoto    *string  `json:"incident_photo" binding:"omitempty,max=2048"`
}

// AdminStatusUpdate is the combined status endpoint for emergency and aid reports.
type AdminStatusUpdate struct {
	Type      string  `json:"type" binding:"required,oneof=emergency aid"`
	ReportID  int64   `json:"report_id" binding:"required,gte=1"`
	Status    string  `json:"status" binding:"required,oneof=pending in_progress completed rejected Submitted 'In Process' Completed Rejected"`
	AdminNote *string `json:"admin_note"`
}

// NormalizeStatus maps the admin vocabulary onto stored status values.
func (u AdminStatusUpdate) NormalizeStatus() string {
	switch u.Status {
	case "pending":
		return AidStatusSubmitted
	case "in_progress":
		return AidStatusInProcess
	case "completed":
		return AidStatusCompleted
	case "rejected":
		return AidStatusRejected
	}
	return u.Status
}
