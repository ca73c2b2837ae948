package routes

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salescheck/constants"
	"salescheck/controllers"
	"salescheck/i18n"
	"salescheck/response"
	"salescheck/services"
	"salescheck/services/logger"
	"salescheck/store"
	"salescheck/validator"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type stubGeocoder struct{}

func (stubGeocoder) ResolveAddress(ctx context.Context, lat, lng float64) string {
	return "Race Course Road, Rajkot"
}

type envelope struct {
	response.Response
	Data json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, checks map[string]HealthCheck) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	i18n.Init("en")
	if err := validator.RegisterBindings(); err != nil {
		t.Fatalf("register bindings: %v", err)
	}

	records := store.NewMemoryStore()
	reports := services.NewReportService(services.ReportOptions{Store: records, Logger: logger.Nop{}})
	notifier := services.NewNotifier(nil, reports, logger.Nop{})
	idp := services.NewLocalIdentityProvider(services.AuthOptions{
		Users:       store.NewMemoryUserStore(),
		Tokens:      services.NewTokenManager("test-secret", 60),
		AdminEmails: []string{"boss@example.com"},
		Logger:      logger.Nop{},
	})

	router := gin.New()
	SetupRoutes(router, Dependencies{
		Identity: idp,
		CheckIn: controllers.NewCheckInController(controllers.CheckInControllerOptions{
			Store:    records,
			Geocoder: stubGeocoder{},
			Lock:     services.NewLocalSessionLock(),
			Matcher:  services.NewLocationMatcher(constants.Locations),
			Notifier: notifier,
			Logger:   logger.Nop{},
		}),
		History:      controllers.NewHistoryController(reports),
		Auth:         controllers.NewAuthController(idp),
		HealthChecks: checks,
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w, env
}

func (s *testServer) register(email, name string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "secret1", "displayName": name,
	})
	if w.Code != http.StatusOK {
		s.t.Fatalf("register %s: %d %s", email, w.Code, w.Body.String())
	}
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		s.t.Fatalf("register response: %v %s", err, env.Data)
	}
	return data.AccessToken
}

func rajkot() gin.H {
	return gin.H{"latitude": 22.3039, "longitude": 70.8022, "accuracy": 10, "timestamp": time.Now().UnixMilli()}
}

func TestCheckInFlow(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("asha@example.com", "Asha Patel")

	if w, _ := s.do(http.MethodGet, "/api/v1/checkin", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous form: %d", w.Code)
	}

	w, env := s.do(http.MethodGet, "/api/v1/checkin", token, nil)
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"state":"no_active_session"`) {
		t.Fatalf("form: %d %s", w.Code, env.Data)
	}

	w, env = s.do(http.MethodPost, "/api/v1/checkin", token, gin.H{"location": "Rajkot"})
	if w.Code != http.StatusBadRequest || env.ErrorCode != "REQUIRED_FIELD" || env.Mess != "Please fill in all required fields" {
		t.Fatalf("missing company: %d %+v", w.Code, env.Response)
	}

	w, env = s.do(http.MethodPost, "/api/v1/checkin", token, gin.H{
		"location": "Rajkot", "companyName": "Acme", "positionError": gin.H{"code": 1, "message": "User denied Geolocation"},
	})
	if w.Code != http.StatusUnprocessableEntity || env.ErrorCode != "LOCATION_UNAVAILABLE" {
		t.Fatalf("denied location: %d %+v", w.Code, env.Response)
	}

	w, env = s.do(http.MethodPost, "/api/v1/checkin", token, gin.H{
		"location": "rajkott", "companyName": "Acme", "position": rajkot(),
	})
	if w.Code != http.StatusOK || env.Code != 1 || env.Mess != "Checked in successfully" {
		t.Fatalf("check-in: %d %+v", w.Code, env.Response)
	}
	if !strings.Contains(string(env.Data), `"location":"Rajkot"`) || !strings.Contains(string(env.Data), `"checkOutTime":null`) {
		t.Fatalf("check-in data: %s", env.Data)
	}

	w, env = s.do(http.MethodPost, "/api/v1/checkin", token, gin.H{
		"location": "Rajkot", "companyName": "Acme", "position": rajkot(),
	})
	if w.Code != http.StatusConflict || env.ErrorCode != "ALREADY_CHECKED_IN" {
		t.Fatalf("second check-in: %d %+v", w.Code, env.Response)
	}

	w, env = s.do(http.MethodPost, "/api/v1/checkout", token, gin.H{"position": rajkot()})
	if w.Code != http.StatusOK || env.Mess != "Checked out successfully" {
		t.Fatalf("check-out: %d %+v", w.Code, env.Response)
	}
	var checkout struct {
		Record struct {
			CheckOutTime *time.Time `json:"checkOutTime"`
		} `json:"record"`
		Form struct {
			Location     string `json:"location"`
			ResetAfterMs int64  `json:"resetAfterMs"`
		} `json:"form"`
	}
	if err := json.Unmarshal(env.Data, &checkout); err != nil {
		t.Fatalf("check-out data: %v %s", err, env.Data)
	}
	if checkout.Record.CheckOutTime == nil || checkout.Form.Location != "Rajkot" || checkout.Form.ResetAfterMs != constants.DefaultFormResetDelay.Milliseconds() {
		t.Fatalf("check-out data: %s", env.Data)
	}

	w, env = s.do(http.MethodGet, "/api/v1/checkin", token, nil)
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"location":""`) || !strings.Contains(string(env.Data), `"state":"no_active_session"`) {
		t.Fatalf("form after check-out: %d %s", w.Code, env.Data)
	}

	w, env = s.do(http.MethodPost, "/api/v1/checkout", token, gin.H{"position": rajkot()})
	if w.Code != http.StatusConflict || env.ErrorCode != "NO_ACTIVE_SESSION" {
		t.Fatalf("second check-out: %d %+v", w.Code, env.Response)
	}

	w, env = s.do(http.MethodGet, "/api/v1/history?company=acme", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: %d", w.Code)
	}
	var history []map[string]any
	if err := json.Unmarshal(env.Data, &history); err != nil || len(history) != 1 {
		t.Fatalf("history data: %v %s", err, env.Data)
	}
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	user := s.register("asha@example.com", "Asha Patel")
	admin := s.register("boss@example.com", "The Boss")

	if w, _ := s.do(http.MethodPost, "/api/v1/checkin", user, gin.H{
		"location": "Surat", "companyName": "Globex", "position": rajkot(),
	}); w.Code != http.StatusOK {
		t.Fatalf("check-in: %d", w.Code)
	}

	if w, env := s.do(http.MethodGet, "/api/v1/admin/records", user, nil); w.Code != http.StatusForbidden || env.Code != 0 {
		t.Fatalf("user on admin route: %d", w.Code)
	}
	if w, _ := s.do(http.MethodGet, "/api/v1/admin/records", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous on admin route: %d", w.Code)
	}

	w, env := s.do(http.MethodGet, "/api/v1/admin/records?companyName=Globex&limit=10", admin, nil)
	if w.Code != http.StatusOK || env.Pagination == nil || env.Pagination.Limit != 10 || env.Pagination.HasMore {
		t.Fatalf("admin records: %d %+v", w.Code, env.Pagination)
	}
	var data struct {
		Records []map[string]any `json:"records"`
		Filters map[string]any   `json:"filters"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || len(data.Records) != 1 || data.Filters["companyName"] != "Globex" {
		t.Fatalf("admin data: %v %s", err, env.Data)
	}

	if w, _ := s.do(http.MethodGet, "/api/v1/admin/records?from=03-10-2024", admin, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad date: %d", w.Code)
	}
	if w, env := s.do(http.MethodGet, "/api/v1/admin/records?cursor=nope!", admin, nil); w.Code != http.StatusBadRequest || env.ErrorCode != "INVALID_CURSOR" {
		t.Fatalf("bad cursor: %d %+v", w.Code, env.Response)
	}

	w, _ = s.do(http.MethodGet, "/api/v1/admin/records/export?format=csv&from=2024-03-01", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: %d %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="checkin-records_2024-03-01.csv"` {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if lines := strings.Count(w.Body.String(), "\n"); lines != 2 {
		t.Fatalf("csv lines = %d", lines)
	}

	if w, _ := s.do(http.MethodGet, "/api/v1/admin/records/export?format=docx", admin, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown format: %d", w.Code)
	}
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("asha@example.com", "Asha Patel")

	w, env := s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"signedIn":true`) {
		t.Fatalf("me: %d %s", w.Code, env.Data)
	}

	if w, env := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "asha@example.com", "password": "nope-nope"}); w.Code != http.StatusUnauthorized || env.ErrorCode != "INVALID_CREDENTIALS" {
		t.Fatalf("bad login: %d %+v", w.Code, env.Response)
	}
	if w, env := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "asha@example.com", "password": "secret1", "displayName": "Again"}); w.Code != http.StatusConflict || env.ErrorCode != "USER_EXISTS" {
		t.Fatalf("duplicate register: %d %+v", w.Code, env.Response)
	}
	if w, _ := s.do(http.MethodPost, "/api/v1/auth/forgot-password", "", gin.H{"email": "ghost@example.com"}); w.Code != http.StatusOK {
		t.Fatalf("forgot password: %d", w.Code)
	}

	if w, _ := s.do(http.MethodDelete, "/api/v1/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	if w, _ := s.do(http.MethodGet, "/api/v1/auth/me", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: %d", w.Code)
	}
}

func TestLocaleAndLocations(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
	req.Header.Set("Accept-Language", "vi")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Mess != "Thành công" {
		t.Fatalf("mess = %q", env.Mess)
	}
	if !strings.Contains(string(env.Data), "Ahmedabad") {
		t.Fatalf("locations = %s", env.Data)
	}
	if w.Header().Get("X-Session-ID") == "" {
		t.Fatal("missing X-Session-ID")
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, map[string]HealthCheck{
		"db": func(context.Context) error { return nil },
	})
	if w, _ := s.do(http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("healthy: %d", w.Code)
	}

	s = newTestServer(t, map[string]HealthCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	w, env := s.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(string(env.Data), "connection refused") {
		t.Fatalf("unhealthy: %d %s", w.Code, env.Data)
	}

	if w, _ := s.do(http.MethodGet, "/ping", "", nil); w.Body.String() != "pong" {
		t.Fatalf("ping: %q", w.Body.String())
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	s := newTestServer(t, nil)
	w, env := s.do(http.MethodGet, "/api/v1/nope", "", nil)
	if w.Code != http.StatusNotFound || env.Code != 0 || env.Mess != "Not found" {
		t.Fatalf("unknown route: %d %+v", w.Code, env.Response)
	}
}
