package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/repository"
	"github.com/noah-isme/training-crm-api/internal/service"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	router *gin.Engine
	kv     *repository.MemoryKV
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv := repository.NewMemoryKV()
	metrics := service.NewMetricsService()

	studentStore := service.NewEntityStore[models.Student](repository.NewCollectionRepository(kv, repository.KeyStudents, models.DemoStudents, nil), nil, nil)
	courseStore := service.NewEntityStore[models.Course](repository.NewCollectionRepository(kv, repository.KeyCourses, models.DemoCourses, nil), nil, nil)
	leadStore := service.NewEntityStore[models.Lead](repository.NewCollectionRepository(kv, repository.KeyLeads, models.DemoLeads, nil), nil, nil)
	scheduleStore := service.NewEntityStore[models.ScheduleEntry](repository.NewCollectionRepository(kv, repository.KeySchedule, models.DemoSchedule, nil), nil, nil)
	staffStore := service.NewEntityStore[models.StaffAccount](repository.NewCollectionRepository[models.StaffAccount](kv, repository.KeyStaff, nil, nil), nil, nil)

	director := service.DirectorCredential{Email: "director@example.com", Code: "0000", Name: "Director"}
	students := service.NewStudentService(studentStore, nil, nil)
	courses := service.NewCourseService(courseStore, nil, nil)
	leads := service.NewLeadService(leadStore, nil, nil)
	schedule := service.NewScheduleService(scheduleStore, courses, nil, nil)

	router := NewRouter(RouterParams{
		Auth: service.NewAuthService(staffStore, repository.NewSessionRepository(kv, nil), director, nil, nil, service.AuthConfig{
			AccessTokenSecret: "test-secret",
			AccessTokenExpiry: time.Hour,
			Issuer:            "training-crm-api",
		}),
		Students:  students,
		Courses:   courses,
		Leads:     leads,
		Schedule:  schedule,
		Staff:     service.NewStaffService(staffStore, director, nil, nil),
		Dashboard: service.NewDashboardService(service.DashboardServiceParams{Students: students, Courses: courses, Leads: leads, Schedule: schedule}),
		Finance:   service.NewFinanceService(students, 15000),
		Assistant: service.NewAssistantService(nil, metrics, nil, nil),
		Settings:  service.NewSettingsService(repository.NewPreferenceRepository(kv, nil), "ky", nil, nil),
		Exports:   service.NewExportService(students, nil, nil, nil),
		Metrics:   metrics,
	})
	return &testServer{router: router, kv: kv}
}

func (s *testServer) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email, code string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Email: email, Code: code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login models.LoginResponse
	decodeData(t, w, &login)
	return login.AccessToken
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	if dest != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, dest))
	}
	return envelope
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "", nil).Code)

	w := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/students", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/auth/session", "", nil).Code)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Email: "director@example.com", Code: "9999"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.login(t, "director@example.com", "0000")
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/auth/session", "", nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/students", token, nil).Code)
}

func TestStudentLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "director@example.com", "0000")

	w := s.do(t, http.MethodGet, "/api/v1/students?search=aigul", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []models.Student
	envelope := decodeData(t, w, &found)
	require.Len(t, found, 1)
	assert.Equal(t, float64(1), envelope.Meta["total"])

	w = s.do(t, http.MethodPost, "/api/v1/students", token, service.CreateStudentRequest{FirstName: "Nurlan", Email: "nurlan@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Student
	decodeData(t, w, &created)
	assert.Equal(t, models.StudentActive, created.Status)
	assert.Equal(t, models.PaymentUnpaid, created.PaymentStatus)

	var all []models.Student
	decodeData(t, s.do(t, http.MethodGet, "/api/v1/students", token, nil), &all)
	require.Len(t, all, 4)
	assert.Equal(t, created.ID, all[0].ID)

	w = s.do(t, http.MethodPatch, "/api/v1/students/"+created.ID, token, map[string]string{"paymentStatus": "Paid"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/students/"+created.ID, token, nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/students/"+created.ID+"?confirm=true", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/students/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/students", token, map[string]string{"lastName": "NoFirst"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentExport(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "director@example.com", "0000")

	w := s.do(t, http.MethodGet, "/api/v1/students/export?format=csv&status=Graduated", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"students-")
	assert.Contains(t, w.Body.String(), "Bermet")
	assert.NotContains(t, w.Body.String(), "Azamat")

	w = s.do(t, http.MethodGet, "/api/v1/students/export?format=doc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeadPipelineAndStatus(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "director@example.com", "0000")

	w := s.do(t, http.MethodPatch, "/api/v1/leads/l1/status", token, service.UpdateLeadStatusRequest{Status: models.LeadConverted})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stages []models.LeadStage
	decodeData(t, s.do(t, http.MethodGet, "/api/v1/leads/pipeline", token, nil), &stages)
	require.Len(t, stages, 4)
	assert.Equal(t, models.LeadConverted, stages[3].Status)
	assert.Len(t, stages[3].Leads, 1)

	w = s.do(t, http.MethodPatch, "/api/v1/leads/l1/status", token, map[string]string{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleLocalizedByDay(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "director@example.com", "0000")

	var days []models.DaySchedule
	decodeData(t, s.do(t, http.MethodGet, "/api/v1/schedule/by-day?lang=ru", token, nil), &days)
	require.NotEmpty(t, days)
	assert.Equal(t, models.Monday, days[0].Day)
	assert.Equal(t, "Понедельник", days[0].Label)

	var monday []models.ScheduleEntry
	decodeData(t, s.do(t, http.MethodGet, "/api/v1/schedule?day=Monday", token, nil), &monday)
	require.Len(t, monday, 2)
	assert.Equal(t, "10:00 - 12:00", monday[0].Time)
	assert.Equal(t, "18:00 - 20:00", monday[1].Time)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/schedule?day=Funday", token, nil).Code)
}

func TestStaffManagementIsDirectorOnly(t *testing.T) {
	s := newTestServer(t)
	director := s.login(t, "director@example.com", "0000")

	w := s.do(t, http.MethodPost, "/api/v1/staff", director, service.CreateStaffRequest{Name: "Manager", Email: "Manager@Example.com", Code: "1234"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "1234")

	var accounts []models.AccountInfo
	decodeData(t, s.do(t, http.MethodGet, "/api/v1/staff", director, nil), &accounts)
	require.Len(t, accounts, 1)
	assert.Equal(t, "manager@example.com", accounts[0].Email)

	manager := s.login(t, "manager@example.com", "1234")
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/staff", manager, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/dashboard", manager, nil).Code)

	// The director's token died when the manager signed in.
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/staff", director, nil).Code)
}

func TestDashboardFinanceAndAssistant(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "director@example.com", "0000")

	w := s.do(t, http.MethodGet, "/api/v1/dashboard?lang=en", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	var summary struct {
		Totals struct {
			Students int `json:"students"`
		} `json:"totals"`
		Language string `json:"language"`
	}
	decodeData(t, w, &summary)
	assert.Equal(t, 3, summary.Totals.Students)
	assert.Equal(t, "en", summary.Language)

	var pending struct {
		PendingCount int     `json:"pendingCount"`
		ExpectedDebt float64 `json:"expectedDebt"`
	}
	decodeData(t, s.do(t, http.MethodGet, "/api/v1/finance/pending", token, nil), &pending)
	assert.Equal(t, 1, pending.PendingCount)
	assert.Equal(t, 15000.0, pending.ExpectedDebt)

	var reply service.AssistantReply
	decodeData(t, s.do(t, http.MethodPost, "/api/v1/assistant/ask", token, service.AskRequest{Prompt: "How are sales?"}), &reply)
	assert.True(t, reply.Fallback)

	var suggestions service.AssistantSuggestions
	decodeData(t, s.do(t, http.MethodGet, "/api/v1/assistant/suggestions", token, nil), &suggestions)
	assert.Len(t, suggestions.Suggestions, 4)
}

func TestSettingsDriveRequestLanguage(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "director@example.com", "0000")

	w := s.do(t, http.MethodPut, "/api/v1/settings", token, map[string]interface{}{"darkMode": true, "language": "en"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/settings", token, nil)
	assert.True(t, strings.Contains(w.Body.String(), `"darkMode":true`))
	assert.Equal(t, "en", w.Header().Get("Content-Language"))

	w = s.do(t, http.MethodPut, "/api/v1/settings", token, map[string]interface{}{"language": "fr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
