package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"placement-admin/internal/creds"
	"placement-admin/internal/metrics"
	"placement-admin/internal/repo"
	"placement-admin/internal/session"
)

// fakeRepo implements repo.Repository in memory for handler tests.
type fakeRepo struct {
	admin   *repo.AdminUser
	clients map[int64]*repo.Client
	nextID  int64

	listCalls  int
	statsCalls int
	statsErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		admin: &repo.AdminUser{
			ID:       1,
			Username: "admin",
			Password: creds.HashPassword("admin123"),
		},
		clients: make(map[int64]*repo.Client),
		nextID:  1,
	}
}

func (f *fakeRepo) Close()                                                   {}
func (f *fakeRepo) Ping(context.Context) error                               { return nil }
func (f *fakeRepo) RunMigrations(context.Context, fs.FS) error               { return nil }
func (f *fakeRepo) Dialect() string                                          { return "fake" }
func (f *fakeRepo) CreateAdmin(_ context.Context, u, d string) error         { return nil }
func (f *fakeRepo) UpdateAdminPassword(context.Context, int64, string) error { return nil }

func (f *fakeRepo) GetAdmin(context.Context) (*repo.AdminUser, error) {
	if f.admin == nil {
		return nil, repo.ErrNotFound
	}
	return f.admin, nil
}

func (f *fakeRepo) GetAdminByUsername(_ context.Context, username string) (*repo.AdminUser, error) {
	if f.admin == nil || f.admin.Username != username {
		return nil, repo.ErrNotFound
	}
	return f.admin, nil
}

func (f *fakeRepo) UpdateAdminCredentials(_ context.Context, id int64, username, digest string) error {
	f.admin.Username = username
	f.admin.Password = digest
	return nil
}

func (f *fakeRepo) ListClients(context.Context) ([]repo.Client, error) {
	f.listCalls++
	var out []repo.Client
	for _, c := range f.clients {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) GetClient(_ context.Context, id int64) (*repo.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) CreateClient(_ context.Context, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, repo.ErrNoData
	}
	c := &repo.Client{
		ID:              f.nextID,
		InterviewStatus: "pending",
		VisaStatus:      "not_applied",
	}
	if name, ok := fields["name"].(string); ok {
		c.Name = name
	}
	if phone, ok := fields["phone"].(string); ok {
		c.Phone = phone
	}
	f.clients[c.ID] = c
	f.nextID++
	return c.ID, nil
}

func (f *fakeRepo) UpdateClient(_ context.Context, id int64, fields map[string]any) error {
	if c, ok := f.clients[id]; ok {
		if name, ok := fields["name"].(string); ok {
			c.Name = name
		}
	}
	return nil
}

func (f *fakeRepo) DeleteClient(_ context.Context, id int64) error {
	delete(f.clients, id)
	return nil
}

func (f *fakeRepo) ClearClients(context.Context) error {
	f.clients = make(map[int64]*repo.Client)
	return nil
}

func (f *fakeRepo) Stats(context.Context) (*repo.Stats, error) {
	f.statsCalls++
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &repo.Stats{TotalClients: int64(len(f.clients))}, nil
}

func newTestServer(t *testing.T, f *fakeRepo) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(":0", logger, metrics.Registry("placement_admin_test"), f, session.NewMemoryStore())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func login(t *testing.T, handler http.Handler, username, password string) []*http.Cookie {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("login failed: %v", body["message"])
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}
	return cookies
}

func TestAPIRequiresSession(t *testing.T) {
	f := newFakeRepo()
	handler := newTestServer(t, f).Handler()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/clients"},
		{http.MethodPost, "/api/clients"},
		{http.MethodGet, "/api/clients/1"},
		{http.MethodPut, "/api/clients/1"},
		{http.MethodDelete, "/api/clients/1"},
		{http.MethodDelete, "/api/clients/clear"},
		{http.MethodGet, "/api/stats"},
	}
	for _, p := range paths {
		rec := doJSON(t, handler, p.method, p.path, nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", p.method, p.path, rec.Code)
			continue
		}
		body := decodeBody(t, rec)
		if body["message"] != "Authentication required" {
			t.Errorf("%s %s: message = %v", p.method, p.path, body["message"])
		}
	}
	// The gate must fire before any repository access.
	if f.listCalls != 0 || f.statsCalls != 0 {
		t.Errorf("repository reached without a session: list=%d stats=%d", f.listCalls, f.statsCalls)
	}
}

func TestLoginFlow(t *testing.T) {
	handler := newTestServer(t, newFakeRepo()).Handler()

	tests := []struct {
		name     string
		username string
		password string
		message  string
	}{
		{"wrong password", "admin", "nope", "Invalid username or password!"},
		{"unknown user", "ghost", "admin123", "Invalid username or password!"},
		{"missing fields", "", "", "Username and password required!"},
		{"whitespace username", "   ", "admin123", "Username and password required!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/login", map[string]string{
				"username": tt.username,
				"password": tt.password,
			}, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			body := decodeBody(t, rec)
			if body["success"] != false || body["message"] != tt.message {
				t.Errorf("got %v %v, want false %q", body["success"], body["message"], tt.message)
			}
		})
	}

	t.Run("valid credentials", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/login", map[string]string{
			"username": "admin",
			"password": "admin123",
		}, nil)
		body := decodeBody(t, rec)
		if body["success"] != true || body["message"] != "Login successful!" {
			t.Fatalf("got %v %v", body["success"], body["message"])
		}
		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == sessionCookieName && c.Value != "" {
				found = true
				if !c.HttpOnly {
					t.Error("session cookie must be HttpOnly")
				}
			}
		}
		if !found {
			t.Error("no session cookie set")
		}
	})
}

func TestClientCRUDRoundTrip(t *testing.T) {
	f := newFakeRepo()
	handler := newTestServer(t, f).Handler()
	cookies := login(t, handler, "admin", "admin123")

	rec := doJSON(t, handler, http.MethodPost, "/api/clients", map[string]any{
		"name":  "Ravi Kumar",
		"phone": "9999999999",
	}, cookies)
	body := decodeBody(t, rec)
	if body["success"] != true || body["message"] != "Client added successfully!" {
		t.Fatalf("create: %v %v", body["success"], body["message"])
	}
	id, ok := body["id"].(float64)
	if !ok || id < 1 {
		t.Fatalf("create: bad id %v", body["id"])
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/clients/"+strconv.Itoa(int(id)), nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}
	var client repo.Client
	if err := json.Unmarshal(rec.Body.Bytes(), &client); err != nil {
		t.Fatalf("get: decode: %v", err)
	}
	if client.Name != "Ravi Kumar" || client.Phone != "9999999999" {
		t.Errorf("get: wrong record %q %q", client.Name, client.Phone)
	}
	if client.InterviewStatus != "pending" {
		t.Errorf("get: interview_status = %q, want pending", client.InterviewStatus)
	}
	if client.PassportFee != 0 {
		t.Errorf("get: passport_fee = %v, want 0", client.PassportFee)
	}

	rec = doJSON(t, handler, http.MethodPut, "/api/clients/"+strconv.Itoa(int(id)), map[string]any{
		"name": "Ravi K",
	}, cookies)
	body = decodeBody(t, rec)
	if body["success"] != true || body["message"] != "Client updated successfully!" {
		t.Errorf("update: %v %v", body["success"], body["message"])
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/clients/"+strconv.Itoa(int(id)), nil, cookies)
	body = decodeBody(t, rec)
	if body["success"] != true || body["message"] != "Client deleted successfully!" {
		t.Errorf("delete: %v %v", body["success"], body["message"])
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/clients/"+strconv.Itoa(int(id)), nil, cookies)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", rec.Code)
	}
	body = decodeBody(t, rec)
	if body["error"] != "Client not found" {
		t.Errorf("get after delete: error = %v", body["error"])
	}
}

func TestCreateClientEmptyPayload(t *testing.T) {
	handler := newTestServer(t, newFakeRepo()).Handler()
	cookies := login(t, handler, "admin", "admin123")

	rec := doJSON(t, handler, http.MethodPost, "/api/clients", map[string]any{}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false || body["message"] != "No data provided" {
		t.Errorf("got %v %v", body["success"], body["message"])
	}
}

func TestClearClients(t *testing.T) {
	f := newFakeRepo()
	handler := newTestServer(t, f).Handler()
	cookies := login(t, handler, "admin", "admin123")

	for i := 0; i < 3; i++ {
		doJSON(t, handler, http.MethodPost, "/api/clients", map[string]any{"name": "c"}, cookies)
	}
	rec := doJSON(t, handler, http.MethodDelete, "/api/clients/clear", nil, cookies)
	body := decodeBody(t, rec)
	if body["success"] != true || body["message"] != "All clients deleted!" {
		t.Fatalf("clear: %v %v", body["success"], body["message"])
	}
	if len(f.clients) != 0 {
		t.Errorf("expected empty table, %d rows left", len(f.clients))
	}
}

func TestStatsEndpoint(t *testing.T) {
	f := newFakeRepo()
	handler := newTestServer(t, f).Handler()
	cookies := login(t, handler, "admin", "admin123")

	doJSON(t, handler, http.MethodPost, "/api/clients", map[string]any{"name": "a"}, cookies)

	rec := doJSON(t, handler, http.MethodGet, "/api/stats", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats repo.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalClients != 1 {
		t.Errorf("total_clients = %d, want 1", stats.TotalClients)
	}

	f.statsErr = errors.New("backend down")
	rec = doJSON(t, handler, http.MethodGet, "/api/stats", nil, cookies)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestChangeCredentials(t *testing.T) {
	f := newFakeRepo()
	handler := newTestServer(t, f).Handler()
	cookies := login(t, handler, "admin", "admin123")

	tests := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{"missing current", map[string]string{"newUsername": "manager", "newPassword": "longenough"}, "Current password is required!"},
		{"short username", map[string]string{"currentPassword": "admin123", "newUsername": "ab", "newPassword": "longenough"}, "Username must be at least 3 characters!"},
		{"short password", map[string]string{"currentPassword": "admin123", "newUsername": "manager", "newPassword": "short"}, "Password must be at least 6 characters!"},
		{"wrong current", map[string]string{"currentPassword": "nope", "newUsername": "manager", "newPassword": "longenough"}, "Current password is incorrect!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/api/admin/change-credentials", tt.body, cookies)
			body := decodeBody(t, rec)
			if body["success"] != false || body["message"] != tt.message {
				t.Errorf("got %v %v, want false %q", body["success"], body["message"], tt.message)
			}
		})
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/admin/change-credentials", map[string]string{
		"currentPassword": "admin123",
		"newUsername":     "manager",
		"newPassword":     "longenough",
	}, cookies)
	body := decodeBody(t, rec)
	if body["success"] != true || body["message"] != "Credentials updated successfully!" {
		t.Fatalf("got %v %v", body["success"], body["message"])
	}

	// The session survives the rename and the old credentials stop working.
	rec = doJSON(t, handler, http.MethodGet, "/api/clients", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Errorf("session broken after rename: status = %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/login", map[string]string{
		"username": "admin",
		"password": "admin123",
	}, nil)
	if b := decodeBody(t, rec); b["success"] != false {
		t.Error("old credentials still accepted")
	}
	login(t, handler, "manager", "longenough")
}

func TestGetCredentialsReportsFixedLength(t *testing.T) {
	handler := newTestServer(t, newFakeRepo()).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/admin/credentials", nil, nil)
	body := decodeBody(t, rec)
	if body["success"] != true || body["username"] != "admin" {
		t.Fatalf("got %v %v", body["success"], body["username"])
	}
	if body["passwordLength"] != float64(8) {
		t.Errorf("passwordLength = %v, want 8", body["passwordLength"])
	}
}

func TestGetCredentialsWithoutAdmin(t *testing.T) {
	f := newFakeRepo()
	f.admin = nil
	handler := newTestServer(t, f).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/admin/credentials", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false || body["message"] != "No admin found" {
		t.Errorf("got %v %v, want false %q", body["success"], body["message"], "No admin found")
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t, newFakeRepo()).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" || body["database"] != "fake" {
		t.Errorf("got %v", body)
	}
}

func TestPageRedirects(t *testing.T) {
	handler := newTestServer(t, newFakeRepo()).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/dashboard", nil, nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Errorf("anonymous /dashboard: %d -> %s", rec.Code, rec.Header().Get("Location"))
	}

	rec = doJSON(t, handler, http.MethodGet, "/", nil, nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Errorf("anonymous /: %d -> %s", rec.Code, rec.Header().Get("Location"))
	}

	cookies := login(t, handler, "admin", "admin123")
	rec = doJSON(t, handler, http.MethodGet, "/", nil, cookies)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("authenticated /: %d -> %s", rec.Code, rec.Header().Get("Location"))
	}
	rec = doJSON(t, handler, http.MethodGet, "/dashboard", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated /dashboard: status = %d", rec.Code)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	handler := newTestServer(t, newFakeRepo()).Handler()
	cookies := login(t, handler, "admin", "admin123")

	rec := doJSON(t, handler, http.MethodGet, "/logout", nil, cookies)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("logout: %d -> %s", rec.Code, rec.Header().Get("Location"))
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/clients", nil, cookies)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("stale session accepted: status = %d", rec.Code)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/clients", "/api/clients"},
		{"/api/clients/42", "/api/clients/:id"},
		{"/api/clients/clear", "/api/clients/clear"},
		{"/health", "/health"},
		{"/", "/"},
	}
	for _, tt := range tests {
		if got := routeLabel(tt.path); got != tt.want {
			t.Errorf("routeLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
