package model

import "time"

const (
	AidStatusSubmitted = "Submitted"
	AidStatusInProcess = "In Process"
	AidStatusCompleted = "Completed"
	AidStatusRejected  = "Rejected"
)

// AidRequest is a resident's application for assistance.
type AidRequest struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	AidType         string    `db:"aid_type" json:"aid_type"`
	HouseholdSize   int       `db:"household_size" json:"household_size"`
	IncomeLevel     *string   `db:"income_level" json:"income_level"`
	SupportingNotes *string   `db:"supporting_notes" json:"supporting_notes"`
	Status          string    `db:"status" json:"status"`
	AdminRemarks    *string   `db:"admin_remarks" json:"admin_remarks"`
	AdminID         *int64    `db:"admin_id" json:"admin_id"`
	SubmittedAt     time.Time `db:"submitted_at" json:"submitted_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (a AidRequest) Value(column string) any {
	switch column {
	case "id":
		return a.ID
	case "user_id":
		return a.UserID
	case "aid_type":
		return a.AidType
	case "household_size":
		return int64(a.HouseholdSize)
	case "income_level":
		return strValue(a.IncomeLevel)
	case "supporting_notes":
		return strValue(a.SupportingNotes)
	case "status":
		return a.Status
	case "admin_id":
		return int64Value(a.AdminID)
	case "submitted_at":
		return a.SubmittedAt
	case "created_at":
		return a.CreatedAt
	case "updated_at":
		return a.UpdatedAt
	}
	return nil
}

type CreateAidRequest struct {
	AidType         string  `json:"aid_type" binding:"required,oneof=Food Financial Medical Other"`
	HouseholdSize   int     `json:"household_size" binding:"required,gte=1"`
	IncomeLevel     *string `json:"income_level" binding:"omitempty,max=255"`
	SupportingNotes *string `json:"supporting_notes"`
}

type UpdateAidStatusRequest struct {
	Status       string  `json:"status" binding:"required,oneof=Submitted 'In Process' Completed Rejected"`
	AdminRemarks *string `json:"admin_remarks"`
}
