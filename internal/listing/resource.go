package listing

// FilterKind selects how a filter parameter is matched.
type FilterKind int

const (
	// Exact is case-sensitive string equality.
	Exact FilterKind = iota
	// DateRange bounds a date column inclusively at day granularity.
	DateRange
	// NumberRange bounds a numeric column inclusively.
	NumberRange
)

// FilterField binds request parameters to a column.
type FilterField struct {
	Kind   FilterKind
	Column string
	// Param is the parameter of an Exact filter.
	Param string
	// FromParam and ToParam bound a range filter.
	FromParam string
	ToParam   string
	// Instant marks a DateRange column holding timestamps; its day is taken in UTC.
	Instant bool
}

func ExactField(param, column string) FilterField {
	return FilterField{Kind: Exact, Column: column, Param: param}
}

func DateRangeField(column, from, to string) FilterField {
	return FilterField{Kind: DateRange, Column: column, FromParam: from, ToParam: to}
}

// TimestampRangeField is a DateRange over a timestamptz column.
func TimestampRangeField(column, from, to string) FilterField {
	f := DateRangeField(column, from, to)
	f.Instant = true
	return f
}

func NumberRangeField(column, min, max string) FilterField {
	return FilterField{Kind: NumberRange, Column: column, FromParam: min, ToParam: max}
}

// Resource is the static listing configuration of one table.
type Resource struct {
	Name           string
	Table          string
	IDColumn       string
	Filters        []FilterField
	SearchColumns  []string
	Sortable       []string
	DefaultSort    Sort
	DefaultPerPage int
}

// IsSortable reports whether column is in the allow-list.
func (r Resource) IsSortable(column string) bool {
	for _, c := range r.Sortable {
		if c == column {
			return true
		}
	}
	return false
}

// DefaultPageSize is used when a resource does not set its own.
const DefaultPageSize = 15

var Programs = Resource{
	Name:     "programs",
	Table:    "bantuan_programs",
	IDColumn: "id",
	Filters: []FilterField{
		ExactField("status", "status"),
		ExactField("category", "category"),
		ExactField("program_type", "program_type"),
		NumberRangeField("aid_amount", "min_amount", "max_amount"),
		DateRangeField("start_date", "start_date_from", "start_date_to"),
	},
	SearchColumns: []string{"title", "description", "criteria"},
	Sortable: []string{
		"created_at", "title", "aid_amount", "start_date", "end_date",
		"status", "category", "program_type",
	},
	DefaultSort:    Sort{Column: "created_at", Direction: Desc},
	DefaultPerPage: DefaultPageSize,
}

var Reports = Resource{
	Name:     "reports",
	Table:    "reports",
	IDColumn: "id",
	Filters: []FilterField{
		ExactField("status", "status"),
		ExactField("priority", "priority"),
		ExactField("type", "type"),
		TimestampRangeField("date_reported", "date_reported_from", "date_reported_to"),
	},
	SearchColumns: []string{"title", "location", "type", "reporter_name"},
	Sortable: []string{
		"date_reported", "created_at", "title", "type", "status", "priority", "location",
	},
	DefaultSort:    Sort{Column: "date_reported", Direction: Desc},
	DefaultPerPage: DefaultPageSize,
}

// OwnReports is the resident's view of Reports. The reporter columns are not
// searchable there.
var OwnReports = func() Resource {
	r := Reports
	r.Name = "own_reports"
	r.SearchColumns = []string{"title", "location", "type"}
	return r
}()

var AidRequests = Resource{
	Name:     "aid_requests",
	Table:    "aid_requests",
	IDColumn: "id",
	Filters: []FilterField{
		ExactField("status", "status"),
		ExactField("aid_type", "aid_type"),
		NumberRangeField("household_size", "min_household_size", "max_household_size"),
		TimestampRangeField("submitted_at", "submitted_from", "submitted_to"),
	},
	SearchColumns:  []string{"aid_type", "income_level", "supporting_notes"},
	Sortable:       []string{"created_at", "submitted_at", "household_size", "status", "aid_type"},
	DefaultSort:    Sort{Column: "created_at", Direction: Desc},
	DefaultPerPage: DefaultPageSize,
}

var EmergencyReports = Resource{
	Name:     "emergency_reports",
	Table:    "emergency_reports",
	IDColumn: "id",
	Filters: []FilterField{
		ExactField("status", "status"),
		ExactField("incident_type", "incident_type"),
		TimestampRangeField("created_at", "created_from", "created_to"),
	},
	SearchColumns:  []string{"incident_type", "incident_location", "description"},
	Sortable:       []string{"created_at", "incident_type", "status"},
	DefaultSort:    Sort{Column: "created_at", Direction: Desc},
	DefaultPerPage: DefaultPageSize,
}
