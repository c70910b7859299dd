package model

import "time"

const (
	NotificationReportStatus = "report_status"
	NotificationAidStatus    = "aid_status"
	NotificationWeatherAlert = "weather_alert"
	NotificationGeneral      = "general"
)

type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Data      JSONMap   `db:"data" json:"data"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BroadcastRequest sends a notification to every resident.
type BroadcastRequest struct {
	Type    string  `json:"type" binding:"required,oneof=weather_alert general"`
	Title   string  `json:"title" binding:"required,max=255"`
	Message string  `json:"message" binding:"required"`
	Data    JSONMap `json:"data"`
}
