package model

import "time"

const (
	ProgramStatusActive   = "Active"
	ProgramStatusInactive = "Inactive"
)

// Program is a Bantuan assistance program published by administrators.
type Program struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Category     *string   `db:"category" json:"category"`
	ProgramType  *string   `db:"program_type" json:"program_type"`
	AidAmount    *float64  `db:"aid_amount" json:"aid_amount"`
	Criteria     *string   `db:"criteria" json:"criteria"`
	StartDate    *Date     `db:"start_date" json:"start_date"`
	EndDate      *Date     `db:"end_date" json:"end_date"`
	Status       string    `db:"status" json:"status"`
	AdminID      *int64    `db:"admin_id" json:"admin_id"`
	AdminRemarks *string   `db:"admin_remarks" json:"admin_remarks"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (p Program) Value(column string) any {
	switch column {
	case "id":
		return p.ID
	case "title":
		return p.Title
	case "description":
		return p.Description
	case "category":
		return strValue(p.Category)
	case "program_type":
		return strValue(p.ProgramType)
	case "aid_amount":
		return floatValue(p.AidAmount)
	case "criteria":
		return strValue(p.Criteria)
	case "start_date":
		return dateValue(p.StartDate)
	case "end_date":
		return dateValue(p.EndDate)
	case "status":
		return p.Status
	case "admin_id":
		return int64Value(p.AdminID)
	case "created_at":
		return p.CreatedAt
	case "updated_at":
		return p.UpdatedAt
	}
	return nil
}

// CreateProgramRequest has no admin_id: attribution comes from the caller.
type CreateProgramRequest struct {
	Title        string   `json:"title" binding:"required,max=255"`
	Description  string   `json:"description" binding:"required"`
	Category     *string  `json:"category" binding:"omitempty,max=255"`
	ProgramType  *string  `json:"program_type" binding:"omitempty,max=255"`
	AidAmount    *float64 `json:"aid_amount" binding:"omitempty,gte=0"`
	Criteria     *string  `json:"criteria"`
	StartDate    *Date    `json:"start_date"`
	EndDate      *Date    `json:"end_date"`
	AdminRemarks *string  `json:"admin_remarks"`
}

// UpdateProgramRequest applies only the fields that are present.
type UpdateProgramRequest struct {
	Title        *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description  *string  `json:"description" binding:"omitempty,min=1"`
	Category     *string  `json:"category" binding:"omitempty,max=255"`
	ProgramType  *string  `json:"program_type" binding:"omitempty,max=255"`
	AidAmount    *float64 `json:"aid_amount" binding:"omitempty,gte=0"`
	Criteria     *string  `json:"criteria"`
	StartDate    *Date    `json:"start_date"`
	EndDate      *Date    `json:"end_date"`
	Status       *string  `json:"status" binding:"omitempty,oneof=Active Inactive"`
	AdminRemarks *string  `json:"admin_remarks"`
}

// ProgramStats summarizes the program catalogue.
type ProgramStats struct {
	Total       int            `json:"total"`
	Active      int            `json:"active"`
	Inactive    int            `json:"inactive"`
	ByCategory  map[string]int `json:"by_category"`
	ByType      map[string]int `json:"by_type"`
	MinAmount   *float64       `json:"min_amount"`
	MaxAmount   *float64       `json:"max_amount"`
	AvgAmount   *float64       `json:"avg_amount"`
	TotalAmount float64        `json:"total_amount"`
}
