package router

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"budget-tracker/internal/config"
	"budget-tracker/internal/database"
	"budget-tracker/internal/ledger"
	"budget-tracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

const testOrigin = "https://budget.example.com"

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "router.db")},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
		CORS:     config.CORSConfig{AllowedOrigins: []string{testOrigin}},
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		t.Fatalf("Init test database failed: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := ledger.NewService(repository.NewGormStore(db), cfg.Security.BcryptCost, log)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return SetupRouter(cfg, svc, log)
}

// helper to perform JSON requests
func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func expectMessage(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, status, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	if body["message"] != msg {
		t.Errorf("message = %v, want %q", body["message"], msg)
	}
}

func register(t *testing.T, r http.Handler, username, password string) uint {
	t.Helper()
	rec := performRequest(r, http.MethodPost, "/register", map[string]string{"username": username, "password": password})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed status=%d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Message string `json:"message"`
		UserID  uint   `json:"user_id"`
	}
	decode(t, rec, &body)
	if body.UserID == 0 {
		t.Fatalf("register returned no user_id: %s", rec.Body.String())
	}
	return body.UserID
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. register
	id := register(t, r, "alice", "pw1")

	// 2. login
	rec := performRequest(r, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "pw1"})
	expectMessage(t, rec, http.StatusOK, "Login successful")
	var loginResp map[string]any
	decode(t, rec, &loginResp)
	if uint(loginResp["user_id"].(float64)) != id {
		t.Errorf("login user_id = %v, want %d", loginResp["user_id"], id)
	}

	// 3. set budget
	rec = performRequest(r, http.MethodPost, "/set_budget", map[string]any{"user_id": id, "budget": 500.0})
	expectMessage(t, rec, http.StatusOK, "Budget updated successfully")

	// 4. add expenditure
	rec = performRequest(r, http.MethodPost, "/add_expenditure", map[string]any{
		"user_id": id, "amount": 50.0, "date": "2024-01-01", "note": "groceries",
	})
	expectMessage(t, rec, http.StatusCreated, "Expenditure added successfully")

	// 5. get user
	rec = performRequest(r, http.MethodGet, "/get_user/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get_user status=%d body=%s", rec.Code, rec.Body.String())
	}
	var user map[string]any
	decode(t, rec, &user)
	if user["username"] != "alice" || user["budget"] != 450.0 || user["id"] != 1.0 {
		t.Errorf("get_user = %v", user)
	}
	if _, leaked := user["password_hash"]; leaked || len(user) != 3 {
		t.Errorf("get_user must return exactly id, username, budget: %v", user)
	}

	// 6. list expenditures
	rec = performRequest(r, http.MethodGet, "/get_expenditures/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get_expenditures status=%d body=%s", rec.Code, rec.Body.String())
	}
	var items []map[string]any
	decode(t, rec, &items)
	if len(items) != 1 {
		t.Fatalf("items = %v, want 1 row", items)
	}
	want := map[string]any{"id": 1.0, "amount": 50.0, "date": "2024-01-01", "note": "groceries"}
	for k, v := range want {
		if items[0][k] != v {
			t.Errorf("item[%s] = %v, want %v", k, items[0][k], v)
		}
	}
}

func TestRegister_Failures(t *testing.T) {
	r := setupTestServer(t)
	register(t, r, "alice", "pw1")

	rec := performRequest(r, http.MethodPost, "/register", map[string]string{"username": "alice", "password": "different"})
	expectMessage(t, rec, http.StatusBadRequest, "Username already exists")

	rec = performRequest(r, http.MethodPost, "/register", map[string]string{"username": "bob", "password": strings.Repeat("p", 73)})
	expectMessage(t, rec, http.StatusBadRequest, "Password must be at most 72 bytes")
	register(t, r, "bob", strings.Repeat("p", 72))

	for _, body := range []any{
		map[string]string{"username": "carol"},
		map[string]string{"password": "pw"},
		map[string]string{"username": "", "password": ""},
		"",
		"not json",
	} {
		rec := performRequest(r, http.MethodPost, "/register", body)
		expectMessage(t, rec, http.StatusBadRequest, "Username and password are required")
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	r := setupTestServer(t)
	register(t, r, "alice", "pw1")

	unknown := performRequest(r, http.MethodPost, "/login", map[string]string{"username": "nobody", "password": "pw1"})
	wrong := performRequest(r, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "nope"})

	expectMessage(t, unknown, http.StatusUnauthorized, "Invalid credentials")
	expectMessage(t, wrong, http.StatusUnauthorized, "Invalid credentials")
	if unknown.Body.String() != wrong.Body.String() {
		t.Errorf("bodies differ: %q vs %q", unknown.Body.String(), wrong.Body.String())
	}
}

func TestUnknownUser(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(r, http.MethodPost, "/set_budget", map[string]any{"user_id": 42, "budget": 10})
	expectMessage(t, rec, http.StatusNotFound, "User not found")

	rec = performRequest(r, http.MethodPost, "/add_expenditure", map[string]any{"user_id": 42, "amount": 10, "date": "2024-01-01"})
	expectMessage(t, rec, http.StatusNotFound, "User not found")

	rec = performRequest(r, http.MethodGet, "/get_user/42", nil)
	expectMessage(t, rec, http.StatusNotFound, "User not found")

	rec = performRequest(r, http.MethodGet, "/get_expenditures/42", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("get_expenditures(unknown) = %d %s, want 200 []", rec.Code, rec.Body.String())
	}
}

func TestBadInput(t *testing.T) {
	r := setupTestServer(t)
	id := register(t, r, "alice", "pw1")

	rec := performRequest(r, http.MethodPost, "/set_budget", map[string]any{"user_id": id})
	expectMessage(t, rec, http.StatusBadRequest, "User ID and budget are required")

	rec = performRequest(r, http.MethodPost, "/add_expenditure", map[string]any{"user_id": id, "date": "2024-01-01"})
	expectMessage(t, rec, http.StatusBadRequest, "User ID and amount are required")

	rec = performRequest(r, http.MethodPost, "/add_expenditure", map[string]any{"user_id": id, "amount": 5})
	expectMessage(t, rec, http.StatusBadRequest, ledger.MsgDateRequired)

	rec = performRequest(r, http.MethodPost, "/set_budget", "{")
	expectMessage(t, rec, http.StatusBadRequest, "Invalid request body")

	for _, path := range []string{"/get_expenditures/abc", "/get_expenditures/-1", "/get_user/1.5"} {
		rec = performRequest(r, http.MethodGet, path, nil)
		expectMessage(t, rec, http.StatusBadRequest, "Invalid user id")
	}
}

// numeric ids that match no account behave like any other unknown account
func TestUnknownUser_NumericEdges(t *testing.T) {
	r := setupTestServer(t)
	register(t, r, "alice", "pw1")

	for _, id := range []string{"0", "4294967296", "9223372036854775808", "99999999999999999999"} {
		rec := performRequest(r, http.MethodGet, "/get_user/"+id, nil)
		expectMessage(t, rec, http.StatusNotFound, "User not found")

		rec = performRequest(r, http.MethodGet, "/export_expenditures/"+id, nil)
		expectMessage(t, rec, http.StatusNotFound, "User not found")

		rec = performRequest(r, http.MethodGet, "/get_expenditures/"+id, nil)
		if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("get_expenditures/%s = %d %s, want 200 []", id, rec.Code, rec.Body.String())
		}
	}

	rec := performRequest(r, http.MethodPost, "/set_budget", `{"user_id": 9223372036854775808, "budget": 1}`)
	expectMessage(t, rec, http.StatusNotFound, "User not found")
	rec = performRequest(r, http.MethodPost, "/add_expenditure", `{"user_id": 0, "amount": 1, "date": "2024-01-01"}`)
	expectMessage(t, rec, http.StatusNotFound, "User not found")
}

func TestCORS(t *testing.T) {
	r := setupTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, "/register", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Errorf("allowed origin = %q, want %q", got, testOrigin)
	}

	req, _ = http.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign origin status = %d, want 403", rec.Code)
	}
}

func TestCORSConfig_ValidOrigins(t *testing.T) {
	for _, origins := range [][]string{
		{testOrigin},
		{"http://localhost:3000", testOrigin},
		{"*"},
		{testOrigin, "*"},
	} {
		if err := corsConfig(config.CORSConfig{AllowedOrigins: origins}).Validate(); err != nil {
			t.Errorf("corsConfig(%v).Validate() = %v", origins, err)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(r, http.MethodGet, "/healthz", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a generated X-Request-ID")
	}

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want client value", got)
	}
}

func TestExport(t *testing.T) {
	r := setupTestServer(t)
	id := register(t, r, "alice", "pw1")
	performRequest(r, http.MethodPost, "/add_expenditure", map[string]any{"user_id": id, "amount": 12.5, "date": "2024-01-01", "note": "lunch, with friends"})
	performRequest(r, http.MethodPost, "/add_expenditure", map[string]any{"user_id": id, "amount": 3, "date": "2024-01-02"})

	// csv
	rec := performRequest(r, http.MethodGet, "/export_expenditures/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv export status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 || records[1][1] != "12.5" || records[1][3] != "lunch, with friends" || records[2][2] != "2024-01-02" {
		t.Errorf("csv records = %v", records)
	}

	// xlsx
	rec = performRequest(r, http.MethodGet, "/export_expenditures/1?format=xlsx", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx export status=%d", rec.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Expenditures")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "id" || rows[1][2] != "2024-01-01" {
		t.Errorf("xlsx rows = %v", rows)
	}

	rec = performRequest(r, http.MethodGet, "/export_expenditures/1?format=pdf", nil)
	expectMessage(t, rec, http.StatusBadRequest, "Unsupported export format")

	rec = performRequest(r, http.MethodGet, "/export_expenditures/7", nil)
	expectMessage(t, rec, http.StatusNotFound, "User not found")
}
