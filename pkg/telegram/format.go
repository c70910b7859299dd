package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// Notification types understood by the formatter.
const (
	TypeReportStatus = "report_status"
	TypeAidStatus    = "aid_status"
	TypeWeatherAlert = "weather_alert"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━\n"

type fields map[string]interface{}

func (f fields) str(key, fallback string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return fallback
	}
	return html.EscapeString(s)
}

// Format renders a notification as Bot API HTML.
func Format(notificationType string, data map[string]interface{}, now time.Time) string {
	f := fields(data)
	switch notificationType {
	case TypeReportStatus:
		return formatReportStatus(f)
	case TypeAidStatus:
		return formatAidStatus(f)
	case TypeWeatherAlert:
		return formatWeatherAlert(f)
	default:
		return formatGeneric(f, now)
	}
}

func formatReportStatus(f fields) string {
	var b strings.Builder
	b.WriteString("<b>🚨 Report Status Update</b>\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "<b>📋 Report ID:</b> <code>%s</code>\n", f.str("report_id", ""))
	fmt.Fprintf(&b, "<b>🏷️ Type:</b> <code>%s</code>\n", f.str("report_type", ""))
	if v := f.str("category", ""); v != "" {
		fmt.Fprintf(&b, "<b>📂 Category:</b> %s\n", v)
	}
	fmt.Fprintf(&b, "<b>📍 Location:</b> %s\n", f.str("location", "Not specified"))
	if v := f.str("affected_area", ""); v != "" {
		fmt.Fprintf(&b, "<b>🗺️ Affected Area:</b> %s\n", v)
	}
	fmt.Fprintf(&b, "<b>⚡ Priority:</b> %s\n\n", f.str("priority", "Normal"))

	b.WriteString("<b>Status Change:</b>\n")
	fmt.Fprintf(&b, "  %s ➜ <code>%s</code>\n\n", f.str("old_status", ""), f.str("new_status", ""))

	fmt.Fprintf(&b, "<b>👤 Reported By:</b> %s\n", f.str("created_by", "Unknown"))
	if v := f.str("created_at", ""); v != "" {
		fmt.Fprintf(&b, "<b>⏰ Time:</b> %s\n", v)
	}
	if v := f.str("victim_count", ""); v != "" {
		fmt.Fprintf(&b, "<b>👥 Victims:</b> %s people\n", v)
	}
	if v := f.str("estimated_damage", ""); v != "" {
		fmt.Fprintf(&b, "<b>💔 Damage:</b> %s\n", v)
	}
	if v := f.str("description", ""); v != "" {
		fmt.Fprintf(&b, "\n<b>📝 Description:</b>\n%s\n", v)
	}
	if v := f.str("detailed_info", ""); v != "" {
		fmt.Fprintf(&b, "\n<b>ℹ️ Additional Details:</b>\n%s\n", v)
	}
	b.WriteString("\n" + rule)
	b.WriteString("<i>Open the app to view full details and take action</i>")
	return b.String()
}

func formatAidStatus(f fields) string {
	var b strings.Builder
	b.WriteString("<b>🤝 Aid Request Update</b>\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "<b>📋 Request ID:</b> <code>%s</code>\n", f.str("request_id", ""))
	fmt.Fprintf(&b, "<b>🏷️ Type:</b> <code>%s</code>\n", f.str("aid_type", ""))
	if v := f.str("amount", ""); v != "" {
		fmt.Fprintf(&b, "<b>💰 Amount:</b> %s\n", v)
	}
	if v := f.str("location", ""); v != "" {
		fmt.Fprintf(&b, "<b>📍 Location:</b> %s\n", v)
	}
	fmt.Fprintf(&b, "<b>⚡ Priority:</b> %s\n\n", f.str("priority", "Normal"))

	fmt.Fprintf(&b, "<b>Status:</b> %s ➜ <code>%s</code>\n\n", f.str("old_status", ""), f.str("new_status", ""))

	fmt.Fprintf(&b, "<b>👤 Requested By:</b> %s\n", f.str("requested_by", "Unknown"))
	if v := f.str("created_at", ""); v != "" {
		fmt.Fprintf(&b, "<b>⏰ Time:</b> %s\n", v)
	}
	if v := f.str("beneficiaries", ""); v != "" {
		fmt.Fprintf(&b, "<b>👥 Beneficiaries:</b> %s\n", v)
	}
	if v := f.str("contact_info", ""); v != "" {
		fmt.Fprintf(&b, "<b>📞 Contact:</b> %s\n", v)
	}
	if v := f.str("description", ""); v != "" {
		fmt.Fprintf(&b, "\n<b>📝 Details:</b>\n%s\n", v)
	}
	b.WriteString("\n" + rule)
	b.WriteString("<i>Open the app for full information and updates</i>")
	return b.String()
}

func formatWeatherAlert(f fields) string {
	var b strings.Builder
	b.WriteString("<b>⚠️ Weather Alert</b>\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "<b>🚨 Alert Type:</b> <code>%s</code>\n", f.str("alert_type", "Weather Alert"))
	fmt.Fprintf(&b, "<b>📍 Location:</b> %s\n", f.str("location", "Your area"))
	if v := f.str("affected_areas", ""); v != "" {
		fmt.Fprintf(&b, "<b>🗺️ Affected Areas:</b> %s\n", v)
	}
	fmt.Fprintf(&b, "<b>🔴 Severity:</b> %s\n\n", f.str("severity", "Unknown"))

	b.WriteString("<b>Weather Data:</b>\n")
	if v := f.str("temperature", ""); v != "" {
		fmt.Fprintf(&b, "  🌡️ Temperature: %s°C\n", v)
	}
	if v := f.str("humidity", ""); v != "" {
		fmt.Fprintf(&b, "  💧 Humidity: %s%%\n", v)
	}
	if v := f.str("wind_speed", ""); v != "" {
		fmt.Fprintf(&b, "  💨 Wind Speed: %s km/h\n", v)
	}
	if v := f.str("rainfall", ""); v != "" {
		fmt.Fprintf(&b, "  🌧️ Rainfall: %s mm\n", v)
	}

	start, end := f.str("start_time", ""), f.str("end_time", "")
	if start != "" || end != "" {
		b.WriteString("\n<b>⏰ Duration:</b>\n")
		if start != "" {
			fmt.Fprintf(&b, "  Start: %s\n", start)
		}
		if end != "" {
			fmt.Fprintf(&b, "  End: %s\n", end)
		}
	}
	if v := f.str("description", ""); v != "" {
		fmt.Fprintf(&b, "\n<b>📝 Alert Details:</b>\n%s\n", v)
	}
	if v := f.str("recommendations", ""); v != "" {
		fmt.Fprintf(&b, "\n<b>✅ Recommendations:</b>\n%s\n", v)
	}
	b.WriteString("\n" + rule)
	b.WriteString("<i>Take necessary precautions and stay safe</i>")
	return b.String()
}

func formatGeneric(f fields, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", f.str("title", "RescueNet Alert"))
	b.WriteString(rule + "\n")

	for _, row := range []struct{ label, key string }{
		{"📂 Category", "category"},
		{"📡 Source", "source"},
		{"⚡ Priority", "priority"},
		{"📍 Location", "location"},
		{"📊 Status", "status"},
	} {
		if v := f.str(row.key, ""); v != "" {
			fmt.Fprintf(&b, "<b>%s:</b> %s\n", row.label, v)
		}
	}

	fmt.Fprintf(&b, "\n<b>📝 Description:</b>\n%s\n\n", f.str("description", "New notification"))

	ts := now
	if raw := f.str("timestamp", ""); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			ts = parsed
		}
	}
	fmt.Fprintf(&b, "<b>⏰ Time:</b> %s\n", ts.Format("02 Jan 2006 15:04"))
	b.WriteString(rule)
	b.WriteString("<i>Open the app for complete details and actions</i>")
	return b.String()
}
