package seed

import (
	"time"

	"github.com/rescuenet/rescuenet-api/internal/model"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

func users() []model.User {
	return []model.User{
		{
			FullName: "Admin User",
			Email:    "admin@rescuenet.com",
			PhoneNo:  str("0123456789"),
			Address:  str("Admin Office, Lubok Antu"),
			Role:     model.RoleAdmin,
			IsActive: true,
		},
		{
			FullName: "John Citizen",
			Email:    "citizen@rescuenet.com",
			PhoneNo:  str("0129876543"),
			Address:  str("Block A, Jalan Sejahtera, Lubok Antu"),
			Role:     model.RoleResident,
			IsActive: true,
		},
	}
}

func programs(adminID int64) []model.Program {
	return []model.Program{
		{
			Title:        "B40 Financial Assistance 2025",
			Description:  "Monthly financial assistance for households in the B40 category. Program provides RM200-500 monthly aid based on household income verification.",
			Category:     str("Financial"),
			ProgramType:  str("Monthly"),
			AidAmount:    num(350),
			Criteria:     str("Household monthly income below RM2000, Malaysian citizen with valid IC"),
			StartDate:    date(2025, time.January, 1),
			EndDate:      date(2025, time.December, 31),
			Status:       model.ProgramStatusActive,
			AdminID:      &adminID,
			AdminRemarks: str("Active program for 2025"),
		},
		{
			Title:        "Disaster Relief Fund",
			Description:  "Emergency assistance for residents affected by floods, landslides, and other natural disasters. Immediate cash aid and recovery support.",
			Category:     str("Emergency"),
			ProgramType:  str("One-time"),
			AidAmount:    num(1500),
			Criteria:     str("Must be affected by natural disaster, provide proof of residence and damage"),
			StartDate:    date(2024, time.November, 1),
			EndDate:      date(2025, time.December, 31),
			Status:       model.ProgramStatusActive,
			AdminID:      &adminID,
			AdminRemarks: str("Ongoing program for disaster-affected residents"),
		},
		{
			Title:        "Medical Emergency Fund",
			Description:  "Assistance for medical emergencies and critical healthcare expenses. Covers hospitalization, emergency treatments, and essential medications.",
			Category:     str("Medical"),
			ProgramType:  str("One-time"),
			AidAmount:    num(2000),
			Criteria:     str("Diagnosed medical emergency, income below RM4000/month, valid medical documents"),
			StartDate:    date(2025, time.January, 1),
			EndDate:      date(2025, time.December, 31),
			Status:       model.ProgramStatusActive,
			AdminID:      &adminID,
			AdminRemarks: str("Medical assistance program"),
		},
		{
			Title:        "Education Scholarship Program",
			Description:  "Scholarships for underprivileged students pursuing primary, secondary, or tertiary education. Covers tuition fees and educational materials.",
			Category:     str("Education"),
			ProgramType:  str("Quarterly"),
			AidAmount:    num(500),
			Criteria:     str("Student with household income below RM3000/month, academic records required"),
			StartDate:    date(2025, time.January, 15),
			EndDate:      date(2025, time.December, 31),
			Status:       model.ProgramStatusActive,
			AdminID:      &adminID,
			AdminRemarks: str("Scholarship for deserving students"),
		},
		{
			Title:        "Housing Assistance Program",
			Description:  "Support for housing renovation, repairs, and construction for low-income families. Includes materials and labor support.",
			Category:     str("Housing"),
			ProgramType:  str("One-time"),
			AidAmount:    num(3000),
			Criteria:     str("Own residential land/house, household income below RM2500/month"),
			StartDate:    date(2025, time.February, 1),
			EndDate:      date(2025, time.December, 31),
			Status:       model.ProgramStatusInactive,
			AdminID:      &adminID,
			AdminRemarks: str("Program suspended for budget allocation"),
		},
	}
}

// reports are dated relative to now so the dashboard always has recent data.
func reports(now time.Time) []model.Report {
	at := func(daysAgo, hour, minute int) time.Time {
		d := now.AddDate(0, 0, -daysAgo)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
	}
	updated := func(t time.Time) *time.Time { return &t }

	return []model.Report{
		{
			Title:           str("House Fire in Taman Sejahtera"),
			Type:            "Fire",
			Location:        "Taman Sejahtera, Lubok Antu",
			Description:     "House fire reported at Taman Sejahtera. Smoke visible from nearby houses. Fire department has been notified. Residents evacuating.",
			Status:          model.ReportStatusUnresolved,
			Priority:        "high",
			ReporterName:    "John Doe",
			ReporterIC:      "901234-12-3456",
			ReporterContact: "011-9876 5432",
			DateReported:    at(1, 9, 30),
		},
		{
			Title:           str("Flood in Jalan Sungai Besar"),
			Type:            "Flood",
			Location:        "Jalan Sungai Besar, Lubok Antu",
			Description:     "Heavy flooding reported in residential area. Water level rising. Residents moving to higher ground. Emergency services on standby.",
			Status:          model.ReportStatusInProgress,
			Priority:        "high",
			ReporterName:    "Ahmad Abdullah",
			ReporterIC:      "850615-08-5678",
			ReporterContact: "012-3456 7890",
			DateReported:    at(2, 14, 15),
			DateUpdated:     updated(now.Add(-3 * time.Hour)),
			AdminNotes:      str("Emergency services deployed. Evacuation in progress."),
		},
		{
			Title:           str("Medical Emergency in Kampung Meruan"),
			Type:            "Medical Emergency",
			Location:        "Kampung Meruan, Lubok Antu",
			Description:     "Severe allergic reaction reported. Ambulance dispatched. Patient stable.",
			Status:          model.ReportStatusResolved,
			Priority:        "low",
			ReporterName:    "Ahmad Abdullah",
			ReporterIC:      "850615-08-5678",
			ReporterContact: "012-3456 7890",
			DateReported:    at(3, 11, 0),
			DateUpdated:     updated(at(2, 15, 30)),
			AdminNotes:      str("Patient transported to hospital. Status: Stable."),
		},
		{
			Title:           str("Car Accident on Jalan Raya"),
			Type:            "Accident",
			Location:        "Jalan Raya, Lubok Antu",
			Description:     "Two-vehicle collision reported. Traffic congestion. Police on scene.",
			Status:          model.ReportStatusUnresolved,
			Priority:        "medium",
			ReporterName:    "Ali Ahmad",
			ReporterIC:      "920101-14-9876",
			ReporterContact: "013-5555 6666",
			DateReported:    at(0, 16, 45),
		},
	}
}

func str(s string) *string { return &s }

func num(f float64) *float64 { return &f }

func date(y int, m time.Month, d int) *model.Date {
	v := model.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return &v
}
