package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rescuenet/rescuenet-api/internal/config"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	"github.com/rescuenet/rescuenet-api/internal/repository/memory"
	"github.com/rescuenet/rescuenet-api/pkg/security"
	"github.com/rescuenet/rescuenet-api/pkg/telegram"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// response is the union of the plain and paginated envelopes.
type response struct {
	Code        int               `json:"-"`
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Data        json.RawMessage   `json:"data"`
	Errors      map[string]string `json:"errors"`
	Count       int               `json:"count"`
	CurrentPage int               `json:"current_page"`
	TotalPages  int               `json:"total_pages"`
	PerPage     int               `json:"per_page"`
}

func (r response) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v), string(r.Data))
}

type testAPI struct {
	t     *testing.T
	api   *API
	store *repository.Store
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{Port: 8080},
		Database:    config.DatabaseConfig{Driver: "memory"},
		JWT:         config.JWTConfig{Secret: "test-secret", Issuer: "rescuenet", Expiry: time.Hour},
		CORS:        config.CORSConfig{AllowedOrigins: []string{"*"}},
		Cache:       config.CacheConfig{TTL: time.Minute, CleanupInterval: time.Minute},
	}
}

func newTestAPI(t *testing.T) *testAPI {
	return newTestAPIWith(t, testConfig(), nil)
}

func newTestAPIWith(t *testing.T, cfg *config.Config, sender telegram.Sender) *testAPI {
	t.Helper()
	logger := zerolog.Nop()
	store := memory.New()
	api, err := NewAPI(Deps{
		Config:     cfg,
		Store:      store,
		Logger:     &logger,
		Sender:     sender,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	return &testAPI{t: t, api: api, store: store}
}

func (a *testAPI) makeRequest(method, path string, body interface{}, token string) response {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.api.Engine.ServeHTTP(w, req)

	resp := response{Code: w.Code}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return resp
}

// createUser inserts an account directly and returns a token for it.
func (a *testAPI) createUser(email, role string) (int64, string) {
	a.t.Helper()
	hash, err := security.NewBcryptHasher(bcrypt.MinCost).Hash("password123")
	require.NoError(a.t, err)
	u := &model.User{FullName: email, Email: email, PasswordHash: hash, Role: role, IsActive: true}
	require.NoError(a.t, a.store.Users.Create(context.Background(), u))

	resp := a.makeRequest(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "password123"}, "")
	require.Equal(a.t, http.StatusOK, resp.Code, resp.Message)
	var login struct {
		Token string `json:"token"`
	}
	resp.decode(a.t, &login)
	return u.ID, login.Token
}

func (a *testAPI) seedPrograms(statuses ...string) {
	a.t.Helper()
	for i, status := range statuses {
		amount := float64((i + 1) * 100)
		require.NoError(a.t, a.store.Programs.Create(context.Background(), &model.Program{
			Title:       fmt.Sprintf("Program %02d", i+1),
			Description: "Assistance",
			Status:      status,
			AidAmount:   &amount,
		}))
	}
}

func TestRegisterAndLogin(t *testing.T) {
	a := newTestAPI(t)

	resp := a.makeRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"full_name": "Siti Aminah",
		"email":     "citizen@rescuenet.com",
		"password":  "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "Registration successful", resp.Message)
	assert.NotContains(t, string(resp.Data), "password")

	resp = a.makeRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"full_name": "Siti Aminah",
		"email":     "CITIZEN@rescuenet.com",
		"password":  "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = a.makeRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "citizen@rescuenet.com", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid login credentials", resp.Message)

	resp = a.makeRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "citizen@rescuenet.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var login model.LoginResponse
	resp.decode(t, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, model.RoleResident, login.User.Role)

	resp = a.makeRequest(http.MethodGet, "/api/user", nil, login.Token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, string(resp.Data), "citizen@rescuenet.com")
}

func TestValidationErrorsAreFieldMapped(t *testing.T) {
	a := newTestAPI(t)

	resp := a.makeRequest(http.MethodPost, "/api/auth/register", map[string]string{"email": "not-an-email"}, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "full_name")
	assert.Contains(t, resp.Errors, "password")
}

func TestProgramListingEnvelope(t *testing.T) {
	a := newTestAPI(t)
	a.seedPrograms("Active", "Inactive", "Active", "Active", "Inactive")

	resp := a.makeRequest(http.MethodGet, "/api/programs?status=Active", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, 15, resp.PerPage)

	resp = a.makeRequest(http.MethodGet, "/api/programs?search=zzznomatch", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, "[]", string(resp.Data))

	resp = a.makeRequest(http.MethodGet, "/api/programs?sort_by=aid_amount&sort_order=asc&per_page=2&page=2", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var items []model.Program
	resp.decode(t, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "Program 03", items[0].Title)
	assert.Equal(t, 3, resp.TotalPages)

	resp = a.makeRequest(http.MethodGet, "/api/programs/active", nil, "")
	assert.Equal(t, 3, resp.Count)

	resp = a.makeRequest(http.MethodGet, "/api/programs/999", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Program not found", resp.Message)

	resp = a.makeRequest(http.MethodGet, "/api/programs/abc", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListingIgnoresMalformedInput(t *testing.T) {
	a := newTestAPI(t)
	a.seedPrograms("Active", "Active")

	resp := a.makeRequest(http.MethodGet, "/api/programs?per_page=-4&page=abc&sort_by=password&sort_order=sideways&min_amount=lots", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 1, resp.CurrentPage)
}

func TestProgramWritesRequireAdmin(t *testing.T) {
	a := newTestAPI(t)
	_, residentToken := a.createUser("citizen@rescuenet.com", model.RoleResident)
	adminID, adminToken := a.createUser("admin@rescuenet.com", model.RoleAdmin)

	body := map[string]interface{}{
		"title":       "B40 Financial Assistance 2025",
		"description": "Monthly cash aid",
		"aid_amount":  500,
		"admin_id":    42,
	}
	assert.Equal(t, http.StatusUnauthorized, a.makeRequest(http.MethodPost, "/api/programs", body, "").Code)
	assert.Equal(t, http.StatusForbidden, a.makeRequest(http.MethodPost, "/api/programs", body, residentToken).Code)

	resp := a.makeRequest(http.MethodPost, "/api/programs", body, adminToken)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Message)
	var p model.Program
	resp.decode(t, &p)
	require.NotNil(t, p.AdminID)
	assert.Equal(t, adminID, *p.AdminID, "attribution comes from the caller, not the body")

	path := fmt.Sprintf("/api/programs/%d/toggle-status", p.ID)
	resp = a.makeRequest(http.MethodPatch, path, nil, adminToken)
	require.Equal(t, http.StatusOK, resp.Code)
	resp.decode(t, &p)
	assert.Equal(t, model.ProgramStatusInactive, p.Status)

	resp = a.makeRequest(http.MethodGet, "/api/programs/active", nil, "")
	assert.Equal(t, 0, resp.Count, "listing cache is flushed by writes")

	resp = a.makeRequest(http.MethodDelete, fmt.Sprintf("/api/programs/%d", p.ID), nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = a.makeRequest(http.MethodDelete, fmt.Sprintf("/api/programs/%d", p.ID), nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestEmergencyReportTriage(t *testing.T) {
	a := newTestAPI(t)
	residentID, residentToken := a.createUser("citizen@rescuenet.com", model.RoleResident)
	_, adminToken := a.createUser("admin@rescuenet.com", model.RoleAdmin)

	resp := a.makeRequest(http.MethodPost, "/api/reports/emergency", map[string]interface{}{
		"incident_type":     "Flood",
		"incident_location": "Lubok Antu",
		"description":       "Water rising near the market",
	}, residentToken)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Message)
	var report model.EmergencyReport
	resp.decode(t, &report)
	assert.Equal(t, residentID, report.UserID)
	assert.Equal(t, model.EmergencyStatusSubmitted, report.Status)

	assert.Equal(t, http.StatusForbidden,
		a.makeRequest(http.MethodPost, "/api/reports/emergency", map[string]interface{}{}, adminToken).Code)

	resp = a.makeRequest(http.MethodGet, "/api/reports/my", nil, residentToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, resp.Count)

	resp = a.makeRequest(http.MethodPost, "/api/admin/reports/update", map[string]interface{}{
		"type":       "emergency",
		"report_id":  report.ID,
		"status":     "in_progress",
		"admin_note": "Team dispatched",
	}, adminToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Message)
	resp.decode(t, &report)
	assert.Equal(t, model.EmergencyStatusInProcess, report.Status)

	resp = a.makeRequest(http.MethodPost, "/api/admin/reports/update", map[string]interface{}{
		"type": "emergency", "report_id": report.ID, "status": "rejected",
	}, adminToken)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = a.makeRequest(http.MethodPost, "/api/admin/reports/update", map[string]interface{}{
		"type": "aid", "report_id": 404, "status": "completed",
	}, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Report not found", resp.Message)

	resp = a.makeRequest(http.MethodGet, "/api/notifications", nil, residentToken)
	require.Equal(t, http.StatusOK, resp.Code)
	var notes []model.Notification
	resp.decode(t, &notes)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationReportStatus, notes[0].Type)

	resp = a.makeRequest(http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", notes[0].ID), nil, residentToken)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAidRequestFlow(t *testing.T) {
	a := newTestAPI(t)
	_, residentToken := a.createUser("citizen@rescuenet.com", model.RoleResident)
	_, otherToken := a.createUser("neighbour@rescuenet.com", model.RoleResident)
	_, adminToken := a.createUser("admin@rescuenet.com", model.RoleAdmin)

	resp := a.makeRequest(http.MethodPost, "/api/reports/aid", map[string]interface{}{
		"aid_type": "Food", "household_size": 5,
	}, residentToken)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Message)
	var ar model.AidRequest
	resp.decode(t, &ar)

	resp = a.makeRequest(http.MethodPost, "/api/reports/aid", map[string]interface{}{
		"aid_type": "Jewellery", "household_size": 0,
	}, residentToken)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Errors, "aid_type")

	assert.Equal(t, 1, a.makeRequest(http.MethodGet, "/api/aid-requests/my", nil, residentToken).Count)
	assert.Equal(t, 0, a.makeRequest(http.MethodGet, "/api/aid-requests/my", nil, otherToken).Count)

	resp = a.makeRequest(http.MethodPut, fmt.Sprintf("/api/admin/aid-requests/%d/status", ar.ID), map[string]interface{}{
		"status": "Completed", "admin_remarks": "Delivered",
	}, adminToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Message)

	resp = a.makeRequest(http.MethodGet, "/api/admin/aid-requests?status=Completed", nil, adminToken)
	assert.Equal(t, 1, resp.Count)

	resp = a.makeRequest(http.MethodGet, "/api/admin/reports", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.Code)
	var queues struct {
		AidRequests []model.AidRequest `json:"aid_requests"`
	}
	resp.decode(t, &queues)
	assert.Len(t, queues.AidRequests, 1)

	resp = a.makeRequest(http.MethodGet, "/api/user/stats", nil, residentToken)
	require.Equal(t, http.StatusOK, resp.Code)
	var stats model.UserStats
	resp.decode(t, &stats)
	assert.Equal(t, 1, stats.AidRequests)
}

func TestIncidentReportsAdminListing(t *testing.T) {
	a := newTestAPI(t)
	_, residentToken := a.createUser("citizen@rescuenet.com", model.RoleResident)
	_, adminToken := a.createUser("admin@rescuenet.com", model.RoleAdmin)

	for _, priority := range []string{"high", "low", "high"} {
		resp := a.makeRequest(http.MethodPost, "/api/reports", map[string]interface{}{
			"type":             "Flood",
			"location":         "Lubok Antu",
			"description":      "Road cut off",
			"priority":         priority,
			"reporter_name":    "Ahmad",
			"reporter_ic":      "900101-13-5555",
			"reporter_contact": "012-3456789",
			"date_reported":    "2025-01-15 08:30:00",
		}, residentToken)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Message)
	}

	resp := a.makeRequest(http.MethodGet, "/api/reports", nil, residentToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = a.makeRequest(http.MethodGet, "/api/reports?priority=high&sort_by=password", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, resp.Count)

	resp = a.makeRequest(http.MethodPut, "/api/reports/1", map[string]interface{}{"status": "resolved"}, adminToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Message)

	resp = a.makeRequest(http.MethodGet, "/api/reports/stats", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.Code)
	var stats model.ReportStats
	resp.decode(t, &stats)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Resolved)
}

func TestResidentListsOwnIncidentReports(t *testing.T) {
	a := newTestAPI(t)
	_, aliToken := a.createUser("ali@rescuenet.com", model.RoleResident)
	_, sitiToken := a.createUser("siti@rescuenet.com", model.RoleResident)
	_, adminToken := a.createUser("admin@rescuenet.com", model.RoleAdmin)

	file := func(token, title, location, priority string) {
		resp := a.makeRequest(http.MethodPost, "/api/reports", map[string]interface{}{
			"title":            title,
			"type":             "Flood",
			"location":         location,
			"description":      "Water rising",
			"priority":         priority,
			"reporter_name":    "Reporter",
			"reporter_ic":      "900101-13-5555",
			"reporter_contact": "012-3456789",
			"date_reported":    "2025-01-15 08:30:00",
		}, token)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Message)
	}
	file(aliToken, "Kampung flood", "Sri Aman", "high")
	file(aliToken, "Bridge damage", "Betong", "low")
	file(sitiToken, "Landslide", "Kapit", "high")

	resp := a.makeRequest(http.MethodGet, "/api/reports/incidents/my", nil, aliToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Message)
	assert.Equal(t, 2, resp.Count)
	var mine []model.Report
	resp.decode(t, &mine)
	require.Len(t, mine, 2)
	for _, r := range mine {
		require.NotNil(t, r.Title)
		assert.NotEqual(t, "Landslide", *r.Title)
	}

	resp = a.makeRequest(http.MethodGet, "/api/reports/incidents/my?priority=high", nil, aliToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, resp.Count)

	resp = a.makeRequest(http.MethodGet, "/api/reports/incidents/my?search=betong", nil, aliToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, resp.Count)

	resp = a.makeRequest(http.MethodGet, "/api/reports/incidents/my?search=Reporter", nil, aliToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, resp.Count, "reporter name is not searchable here")

	resp = a.makeRequest(http.MethodGet, "/api/reports/incidents/my?page=614891469123651722", nil, aliToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, resp.Count)

	resp = a.makeRequest(http.MethodGet, "/api/reports/incidents/my", nil, adminToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = a.makeRequest(http.MethodGet, "/api/reports/incidents/my", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	a := newTestAPI(t)

	w := httptest.NewRecorder()
	a.api.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	resp := a.makeRequest(http.MethodGet, "/api/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.False(t, resp.Success)

	w = httptest.NewRecorder()
	a.api.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rescuenet_http_requests_total")
}

type recordingSender struct {
	chats []string
	texts []string
}

func (s *recordingSender) SendMessage(_ context.Context, chatID, text string) (*telegram.SentMessage, error) {
	s.chats = append(s.chats, chatID)
	s.texts = append(s.texts, text)
	return &telegram.SentMessage{}, nil
}

func TestTelegramWebhook(t *testing.T) {
	cfg := testConfig()
	cfg.Telegram.WebhookSecret = "hook-secret"
	sender := &recordingSender{}
	a := newTestAPIWith(t, cfg, sender)

	post := func(secret, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/telegram/webhook", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		if secret != "" {
			req.Header.Set("X-Telegram-Bot-Api-Secret-Token", secret)
		}
		w := httptest.NewRecorder()
		a.api.Engine.ServeHTTP(w, req)
		return w
	}

	start := `{"update_id":1,"message":{"message_id":1,"chat":{"id":555,"type":"private"},"text":"/start"}}`
	assert.Equal(t, http.StatusUnauthorized, post("wrong", start).Code)
	assert.Empty(t, sender.chats)

	w := post("hook-secret", start)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	require.Equal(t, []string{"555"}, sender.chats)
	assert.Contains(t, sender.texts[0], "RescueNet")

	w = post("hook-secret", `{"update_id":2,"message":{"message_id":2,"chat":{"id":555,"type":"private"},"text":"hello"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, sender.chats, 1, "plain chatter gets no reply")
}
