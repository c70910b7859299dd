package listing

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row map[string]any

func (r row) Value(column string) any { return r[column] }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func programs() []row {
	return []row{
		{"id": int64(1), "title": "B40 Financial Assistance 2025", "description": "Cash aid", "criteria": "Household income below RM4850", "status": "Active", "category": "Financial", "program_type": "Government", "aid_amount": 500.0, "start_date": date("2025-01-01"), "created_at": date("2025-01-01")},
		{"id": int64(2), "title": "Flood Relief Kit", "description": "Food and hygiene kit", "criteria": "Flood victims", "status": "Active", "category": "Disaster", "program_type": "NGO", "aid_amount": 150.0, "start_date": date("2025-02-10"), "created_at": date("2025-02-10")},
		{"id": int64(3), "title": "School Uniform Aid", "description": "Uniforms", "criteria": "Students", "status": "Inactive", "category": "Education", "program_type": "Government", "aid_amount": nil, "start_date": nil, "created_at": date("2025-03-01")},
		{"id": int64(4), "title": "Medical Support", "description": "Clinic vouchers", "criteria": "Elderly", "status": "Active", "category": "Medical", "program_type": "Government", "aid_amount": 300.0, "start_date": date("2025-03-15"), "created_at": date("2025-03-15")},
		{"id": int64(5), "title": "Senior Citizens Aid", "description": "Monthly allowance", "criteria": "Aged 60+", "status": "Inactive", "category": "Financial", "program_type": "Government", "aid_amount": 1000.0, "start_date": date("2024-12-01"), "created_at": date("2024-12-01")},
	}
}

func ids(page Page[row]) []int64 {
	out := make([]int64, len(page.Items))
	for i, r := range page.Items {
		out[i] = r["id"].(int64)
	}
	return out
}

func TestStatusActiveScenario(t *testing.T) {
	page := Run(NewQuery(Programs, Params{"status": "Active", "page": "1", "per_page": "15"}), programs())

	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 15, page.PerPage)
}

func TestNoMatchScenario(t *testing.T) {
	page := Run(NewQuery(Programs, Params{"search": "zzznomatch"}), programs())

	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestRemainderPageScenario(t *testing.T) {
	records := make([]row, 12)
	for i := range records {
		records[i] = row{"id": int64(i + 1), "created_at": date("2025-01-01").AddDate(0, 0, i)}
	}

	page := Run(NewQuery(Programs, Params{"per_page": "5", "page": "3"}), records)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 12, page.Total)
	// created_at desc: the last page holds the two oldest.
	assert.Equal(t, []int64{2, 1}, ids(page))
}

func TestUnlistedSortColumnFallsBack(t *testing.T) {
	s := ResolveSort(Reports, "password", "asc")
	assert.Equal(t, Sort{Column: "date_reported", Direction: Desc}, s)

	q := NewQuery(Reports, Params{"sort_by": "password"})
	assert.Equal(t, Sort{Column: "date_reported", Direction: Desc}, q.Sort)
}

func TestResolveSort(t *testing.T) {
	tests := []struct {
		name      string
		column    string
		direction string
		want      Sort
	}{
		{"defaults", "", "", Sort{"created_at", Desc}},
		{"valid pair", "title", "asc", Sort{"title", Asc}},
		{"direction case-insensitive", "aid_amount", "ASC", Sort{"aid_amount", Asc}},
		{"column without direction", "title", "", Sort{"title", Desc}},
		{"direction without column", "", "asc", Sort{"created_at", Asc}},
		{"bad direction", "title", "sideways", Sort{"created_at", Desc}},
		{"bad column", "password", "desc", Sort{"created_at", Desc}},
		{"column is case-sensitive", "Title", "asc", Sort{"created_at", Desc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSort(Programs, tt.column, tt.direction))
		})
	}
}

func TestEveryUnlistedColumnYieldsDefault(t *testing.T) {
	for _, res := range []Resource{Programs, Reports, OwnReports, AidRequests, EmergencyReports} {
		for _, col := range []string{"password", "id; DROP TABLE users", "admin_id", "reporter_ic"} {
			for _, dir := range []string{"", "asc", "desc", "x"} {
				assert.Equal(t, res.DefaultSort, ResolveSort(res, col, dir), "%s %q %q", res.Name, col, dir)
			}
		}
	}
}

func TestResolvePage(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   PageRequest
	}{
		{"absent", Params{}, PageRequest{1, 15}},
		{"in range unchanged", Params{"per_page": "10"}, PageRequest{1, 10}},
		{"upper bound", Params{"per_page": "100"}, PageRequest{1, 100}},
		{"lower bound", Params{"per_page": "1"}, PageRequest{1, 1}},
		{"too large", Params{"per_page": "101"}, PageRequest{1, 15}},
		{"zero", Params{"per_page": "0"}, PageRequest{1, 15}},
		{"negative", Params{"per_page": "-5"}, PageRequest{1, 15}},
		{"non-numeric", Params{"per_page": "ten"}, PageRequest{1, 15}},
		{"page below one", Params{"page": "0"}, PageRequest{1, 15}},
		{"page negative", Params{"page": "-3"}, PageRequest{1, 15}},
		{"page non-numeric", Params{"page": "two"}, PageRequest{1, 15}},
		{"page", Params{"page": "4", "per_page": "20"}, PageRequest{4, 20}},
		{"page capped", Params{"page": "614891469123651722"}, PageRequest{MaxPage, 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePage(Programs, tt.params))
		})
	}
}

func TestPageBeyondLastIsEmpty(t *testing.T) {
	page := Run(NewQuery(Programs, Params{"page": "9", "per_page": "2"}), programs())
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 9, page.CurrentPage)
}

func TestHugePageIsEmptyWithoutOverflow(t *testing.T) {
	q := NewQuery(Programs, Params{"page": "614891469123651722"})
	assert.Equal(t, MaxPage, q.Page.Page)
	assert.Positive(t, q.Page.Offset())

	_, _, selectArgs, _ := q.SelectSQL("*")
	require.Len(t, selectArgs, 2)
	assert.Positive(t, selectArgs[1].(int))

	var page Page[row]
	require.NotPanics(t, func() { page = Run(q, programs()) })
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	for _, perPage := range []string{"1", "100"} {
		q := NewQuery(Programs, Params{"page": "9223372036854775807", "per_page": perPage})
		assert.Positive(t, q.Page.Offset(), "per_page %s", perPage)
	}
}

func TestPaginateTreatsNegativeOffsetAsPastEnd(t *testing.T) {
	page := Paginate(programs(), PageRequest{Page: -1, PerPage: 2})
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Total)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 15))
	assert.Equal(t, 1, TotalPages(1, 15))
	assert.Equal(t, 1, TotalPages(15, 15))
	assert.Equal(t, 2, TotalPages(16, 15))
	assert.Equal(t, 3, TotalPages(12, 5))
}

func TestEmptyValueEqualsAbsentKey(t *testing.T) {
	keys := []string{
		"status", "category", "program_type", "search", "min_amount", "max_amount",
		"start_date_from", "start_date_to", "sort_by", "sort_order", "per_page", "page",
	}
	base := Run(NewQuery(Programs, Params{}), programs())
	for _, k := range keys {
		for _, empty := range []string{"", "   "} {
			got := Run(NewQuery(Programs, Params{k: empty}), programs())
			assert.Equal(t, base, got, "key %s=%q", k, empty)
		}
	}
}

func TestEmptyFilterValueDoesNotMatchEmptyFields(t *testing.T) {
	records := append(programs(), row{"id": int64(6), "status": "", "created_at": date("2025-04-01")})
	page := Run(NewQuery(Programs, Params{"status": ""}), records)
	assert.Equal(t, 6, page.Total)
}

func TestUnrecognizedKeysIgnored(t *testing.T) {
	base := Run(NewQuery(Programs, Params{}), programs())
	got := Run(NewQuery(Programs, Params{"password": "x", "admin_id": "1", "reporter_ic": "9"}), programs())
	assert.Equal(t, base, got)
}

func TestIdempotence(t *testing.T) {
	records := programs()
	p := Params{"search": "aid", "sort_by": "aid_amount", "sort_order": "asc", "per_page": "2"}
	first := Run(NewQuery(Programs, p), records)
	second := Run(NewQuery(Programs, p), records)
	assert.Equal(t, first, second)
	// input order is untouched
	assert.Equal(t, int64(1), records[0]["id"])
}

func TestExactIsCaseSensitive(t *testing.T) {
	page := Run(NewQuery(Programs, Params{"status": "active"}), programs())
	assert.Equal(t, 0, page.Total)
}

func TestSearchIsCaseInsensitiveOrAcrossColumns(t *testing.T) {
	// "kit" in title, "elderly" in criteria, "vouchers" in description
	assert.Equal(t, []int64{2}, ids(Run(NewQuery(Programs, Params{"search": "KIT"}), programs())))
	assert.Equal(t, []int64{4}, ids(Run(NewQuery(Programs, Params{"search": "elderly"}), programs())))
	assert.Equal(t, []int64{4}, ids(Run(NewQuery(Programs, Params{"search": "Vouchers"}), programs())))
	// category is not a search column
	assert.Empty(t, Run(NewQuery(Programs, Params{"search": "Disaster"}), programs()).Items)
}

func TestNumberRangeInclusiveAndSkipsNull(t *testing.T) {
	page := Run(NewQuery(Programs, Params{"min_amount": "150", "max_amount": "500", "sort_by": "aid_amount", "sort_order": "asc"}), programs())
	assert.Equal(t, []int64{2, 4, 1}, ids(page))

	page = Run(NewQuery(Programs, Params{"min_amount": "0"}), programs())
	assert.Equal(t, 4, page.Total, "null aid_amount never satisfies a range")

	page = Run(NewQuery(Programs, Params{"min_amount": "abc"}), programs())
	assert.Equal(t, 5, page.Total, "unparseable bound is absent")
}

func TestNonFiniteBoundsAreAbsent(t *testing.T) {
	for _, v := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "infinity"} {
		t.Run(v, func(t *testing.T) {
			q := NewQuery(Programs, Params{"min_amount": v, "max_amount": v})
			assert.Empty(t, q.Filter.Conditions)
			where, args := q.Where()
			assert.Empty(t, where)
			assert.Empty(t, args)
			assert.Equal(t, 5, Run(q, programs()).Total)

			q = NewQuery(AidRequests, Params{"max_household_size": v})
			assert.Empty(t, q.Filter.Conditions)
		})
	}

	q := NewQuery(Programs, Params{"min_amount": "NaN", "max_amount": "500"})
	where, args := q.Where()
	assert.Equal(t, "WHERE aid_amount <= $1", where)
	assert.Equal(t, []any{500.0}, args)
}

func TestDateRangeInclusiveDayGranularity(t *testing.T) {
	records := []row{
		{"id": int64(1), "date_reported": time.Date(2025, 5, 1, 23, 59, 0, 0, time.UTC)},
		{"id": int64(2), "date_reported": time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)},
		{"id": int64(3), "date_reported": time.Date(2025, 5, 3, 8, 0, 0, 0, time.UTC)},
		{"id": int64(4), "date_reported": nil},
	}

	page := Run(NewQuery(Reports, Params{"date_reported_from": "2025-05-01", "date_reported_to": "2025-05-02"}), records)
	assert.Equal(t, []int64{2, 1}, ids(page))

	page = Run(NewQuery(Reports, Params{"date_reported_to": "2025-05-01"}), records)
	assert.Equal(t, []int64{1}, ids(page))

	page = Run(NewQuery(Reports, Params{"date_reported_from": "2025-05-03T00:00:00Z"}), records)
	assert.Equal(t, []int64{3}, ids(page))

	page = Run(NewQuery(Reports, Params{"date_reported_from": "yesterday"}), records)
	assert.Equal(t, 4, page.Total)
}

func TestFiltersCombineWithAnd(t *testing.T) {
	page := Run(NewQuery(Programs, Params{"status": "Active", "program_type": "Government", "search": "medical"}), programs())
	assert.Equal(t, []int64{4}, ids(page))
}

func TestSortNullsAndTieBreak(t *testing.T) {
	records := []row{
		{"id": int64(1), "aid_amount": 100.0},
		{"id": int64(2), "aid_amount": nil},
		{"id": int64(3), "aid_amount": 100.0},
		{"id": int64(4), "aid_amount": 50.0},
	}

	asc := Run(NewQuery(Programs, Params{"sort_by": "aid_amount", "sort_order": "asc"}), records)
	assert.Equal(t, []int64{4, 1, 3, 2}, ids(asc))

	desc := Run(NewQuery(Programs, Params{"sort_by": "aid_amount", "sort_order": "desc"}), records)
	assert.Equal(t, []int64{2, 3, 1, 4}, ids(desc))
}

func TestScopeAppliesOwnerCondition(t *testing.T) {
	records := []row{
		{"id": int64(1), "user_id": int64(7), "status": "Submitted", "created_at": date("2025-01-01")},
		{"id": int64(2), "user_id": int64(8), "status": "Submitted", "created_at": date("2025-01-02")},
		{"id": int64(3), "user_id": int64(7), "status": "Completed", "created_at": date("2025-01-03")},
		{"id": int64(4), "user_id": nil, "status": "Submitted", "created_at": date("2025-01-04")},
	}

	page := Run(NewQuery(AidRequests, Params{}).Scope("user_id", int64(7)), records)
	assert.Equal(t, []int64{3, 1}, ids(page))

	page = Run(NewQuery(AidRequests, Params{"status": "Submitted"}).Scope("user_id", int64(7)), records)
	assert.Equal(t, []int64{1}, ids(page))
}

func TestParamsFromValues(t *testing.T) {
	v := url.Values{
		"status":  {" Active ", "Inactive"},
		"search":  {""},
		"page":    {},
		"unknown": {"x"},
	}
	p := ParamsFromValues(v)
	assert.Equal(t, Params{"status": "Active", "unknown": "x"}, p)

	_, ok := p.Get("search")
	assert.False(t, ok)

	with := p.With("category", "Medical")
	assert.Equal(t, "Medical", with["category"])
	_, ok = p["category"]
	assert.False(t, ok, "With must not mutate the receiver")
}

func TestWhereRendersEveryKind(t *testing.T) {
	q := NewQuery(Programs, Params{
		"status":        "Active",
		"min_amount":    "100",
		"start_date_to": "2025-12-31",
		"search":        "50%_off",
		"sort_by":       "title",
		"sort_order":    "asc",
		"page":          "2",
		"per_page":      "10",
	}).Scope("admin_id", int64(3))

	where, args := q.Where()
	assert.Equal(t,
		"WHERE admin_id = $1 AND status = $2 AND aid_amount >= $3 AND start_date::date <= $4::date"+
			" AND (title ILIKE $5 OR description ILIKE $5 OR criteria ILIKE $5)",
		where)
	assert.Equal(t, []any{int64(3), "Active", 100.0, "2025-12-31", `%50\%\_off%`}, args)

	selectSQL, countSQL, selectArgs, countArgs := q.SelectSQL("*")
	assert.Equal(t, "SELECT COUNT(*) FROM bantuan_programs "+where, countSQL)
	assert.Equal(t, "SELECT * FROM bantuan_programs "+where+" ORDER BY title ASC, id ASC LIMIT $6 OFFSET $7", selectSQL)
	assert.Equal(t, args, countArgs)
	require.Len(t, selectArgs, 7)
	assert.Equal(t, []any{10, 10}, selectArgs[5:])
}

func TestTimestampDaysAreTakenInUTC(t *testing.T) {
	where, args := NewQuery(Reports, Params{"date_reported_from": "2025-05-01", "date_reported_to": "2025-05-02"}).Where()
	assert.Equal(t,
		"WHERE (date_reported AT TIME ZONE 'UTC')::date >= $1::date AND (date_reported AT TIME ZONE 'UTC')::date <= $2::date",
		where)
	assert.Equal(t, []any{"2025-05-01", "2025-05-02"}, args)

	where, _ = NewQuery(AidRequests, Params{"submitted_to": "2025-05-02"}).Where()
	assert.Equal(t, "WHERE (submitted_at AT TIME ZONE 'UTC')::date <= $1::date", where)

	where, _ = NewQuery(EmergencyReports, Params{"created_from": "2025-05-02"}).Where()
	assert.Equal(t, "WHERE (created_at AT TIME ZONE 'UTC')::date >= $1::date", where)

	// a record stamped in another zone is bucketed by its UTC day
	kl := time.FixedZone("MYT", 8*60*60)
	records := []row{{"id": int64(1), "date_reported": time.Date(2025, 5, 2, 7, 0, 0, 0, kl)}}
	assert.Equal(t, []int64{1}, ids(Run(NewQuery(Reports, Params{"date_reported_to": "2025-05-01"}), records)))
}

func TestWhereEmptyFilter(t *testing.T) {
	where, args := NewQuery(Reports, Params{}).Where()
	assert.Empty(t, where)
	assert.Empty(t, args)

	selectSQL, countSQL, _, _ := NewQuery(Reports, Params{}).SelectSQL("id, title")
	assert.Equal(t, "SELECT COUNT(*) FROM reports", countSQL)
	assert.Equal(t, "SELECT id, title FROM reports ORDER BY date_reported DESC, id DESC LIMIT $1 OFFSET $2", selectSQL)
}

func TestQueryKeyIsCanonical(t *testing.T) {
	a := NewQuery(Programs, Params{"status": "Active", "category": "Medical", "search": "AID"})
	b := NewQuery(Programs, Params{"category": "Medical", "search": "aid", "status": "Active", "ignored": "1"})
	assert.Equal(t, a.Key(), b.Key())

	c := NewQuery(Programs, Params{"status": "Active", "category": "Medical", "search": "aid", "page": "2"})
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestResourceTablesAreConsistent(t *testing.T) {
	for _, res := range []Resource{Programs, Reports, OwnReports, AidRequests, EmergencyReports} {
		t.Run(res.Name, func(t *testing.T) {
			assert.True(t, res.IsSortable(res.DefaultSort.Column), "default sort column must be sortable")
			assert.Equal(t, 15, res.DefaultPerPage)
			assert.GreaterOrEqual(t, len(res.SearchColumns), 2)
			assert.LessOrEqual(t, len(res.SearchColumns), 4)
			for _, f := range res.Filters {
				assert.NotEmpty(t, f.Column, fmt.Sprintf("%+v", f))
			}
		})
	}
}
