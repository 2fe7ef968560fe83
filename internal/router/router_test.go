package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"practicetracker/backend/internal/db"
	"practicetracker/backend/internal/handler"
	"practicetracker/backend/internal/repository"
	"practicetracker/backend/internal/router"
	"practicetracker/backend/internal/service"
)

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID          string   `json:"id"`
		Email       string   `json:"email"`
		FirstName   string   `json:"firstName"`
		Instruments []string `json:"instruments"`
	} `json:"user"`
}

type cardEnvelope struct {
	Card struct {
		ID        string `json:"id"`
		Display   string `json:"display"`
		Running   bool   `json:"running"`
		Finalized bool   `json:"finalized"`
	} `json:"card"`
}

type draftEnvelope struct {
	Draft struct {
		Cards []struct {
			ID        string `json:"id"`
			Finalized bool   `json:"finalized"`
			Minutes   int    `json:"minutes"`
		} `json:"cards"`
		TotalMinutes int `json:"totalMinutes"`
	} `json:"draft"`
}

type sessionEnvelope struct {
	Session struct {
		ID           string `json:"id"`
		Instrument   string `json:"instrument"`
		TotalMinutes int    `json:"totalMinutes"`
	} `json:"session"`
}

type historyResponse struct {
	Sessions []struct {
		ID           string `json:"id"`
		TotalMinutes int    `json:"totalMinutes"`
		HasDetails   bool   `json:"hasDetails"`
		Subsessions  []struct {
			Category string `json:"category"`
			Minutes  int    `json:"minutes"`
		} `json:"subsessions"`
	} `json:"sessions"`
	Empty bool `json:"empty"`
}

type trendEnvelope struct {
	Trend struct {
		Labels         []string `json:"labels"`
		Data           []int    `json:"data"`
		AverageMinutes float64  `json:"averageMinutes"`
	} `json:"trend"`
}

type profileResponse struct {
	User struct {
		FirstName   string   `json:"firstName"`
		Instruments []string `json:"instruments"`
	} `json:"user"`
	DailyPractice [7]int `json:"dailyPractice"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestRegisterValidation(t *testing.T) {
	engine := setupTestEngine(t)

	// No instruments selected.
	status, body := requestJSON(t, engine, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":       "flutist@example.com",
		"password":    "123456",
		"firstName":   "Lin",
		"lastName":    "Park",
		"instruments": []string{},
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 without instruments, got %d: %s", status, string(body))
	}

	registerUser(t, engine, "flutist@example.com", []string{"Flute"})

	// Duplicate registration prompts sign-in.
	status, body = requestJSON(t, engine, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":       "flutist@example.com",
		"password":    "123456",
		"firstName":   "Lin",
		"instruments": []string{"Flute"},
	})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", status)
	}
	var conflict apiErrorEnvelope
	if err := json.Unmarshal(body, &conflict); err != nil {
		t.Fatalf("unmarshal conflict: %v", err)
	}
	if conflict.Error.Code != "email_exists" {
		t.Fatalf("expected email_exists, got %s", conflict.Error.Code)
	}
}

func TestPracticeSessionFlow(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "cellist@example.com", []string{"Cello", "Piano"})

	// Start composing.
	status, _ := requestJSON(t, engine, http.MethodPost, "/api/practice/draft", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 starting draft, got %d", status)
	}

	// First subsession: manual 10 minutes of scales.
	first := addCard(t, engine, user.Token)
	updateCard(t, engine, user.Token, first, map[string]interface{}{
		"category": "Scales", "mode": "manual", "manualMinutes": 10,
	})
	submitCard(t, engine, user.Token, first)

	// Second subsession: manual 20 minutes of band music.
	second := addCard(t, engine, user.Token)
	updateCard(t, engine, user.Token, second, map[string]interface{}{
		"category": "Band Music", "mode": "manual", "manualMinutes": 20, "notes": "march, mm. 1-32",
	})
	draft := submitCard(t, engine, user.Token, second)
	if draft.Draft.TotalMinutes != 30 {
		t.Fatalf("expected running total 30, got %d", draft.Draft.TotalMinutes)
	}

	// A third card that never finalizes must not count.
	third := addCard(t, engine, user.Token)
	status, raw := requestJSON(t, engine, http.MethodGet, "/api/practice/draft", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 reading draft, got %d", status)
	}
	var current draftEnvelope
	if err := json.Unmarshal(raw, &current); err != nil {
		t.Fatalf("unmarshal draft: %v", err)
	}
	if current.Draft.TotalMinutes != 30 {
		t.Fatalf("unfinalized card changed total: %d", current.Draft.TotalMinutes)
	}

	// Remove works regardless of finalized state.
	status, _ = requestJSON(t, engine, http.MethodDelete, "/api/practice/draft/cards/"+third, user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 removing card, got %d", status)
	}

	// Saving with an undeclared instrument is blocked before the store.
	status, _ = requestJSON(t, engine, http.MethodPost, "/api/practice/sessions", user.Token, map[string]string{
		"instrument": "Tuba",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for undeclared instrument, got %d", status)
	}

	// Save the session.
	status, raw = requestJSON(t, engine, http.MethodPost, "/api/practice/sessions", user.Token, map[string]string{
		"instrument": "Cello",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 saving session, got %d: %s", status, string(raw))
	}
	var saved sessionEnvelope
	if err := json.Unmarshal(raw, &saved); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if saved.Session.TotalMinutes != 30 {
		t.Fatalf("expected saved total 30, got %d", saved.Session.TotalMinutes)
	}

	// The draft is discarded by a successful save.
	status, _ = requestJSON(t, engine, http.MethodGet, "/api/practice/draft", user.Token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after save, got %d", status)
	}

	// History shows the session with grouped details.
	status, raw = requestJSON(t, engine, http.MethodGet, "/api/practice/sessions?limit=5", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 loading history, got %d", status)
	}
	var history historyResponse
	if err := json.Unmarshal(raw, &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(history.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(history.Sessions))
	}
	if !history.Sessions[0].HasDetails || len(history.Sessions[0].Subsessions) != 2 {
		t.Fatalf("expected 2 grouped subsessions, got %+v", history.Sessions[0])
	}

	// Trend: today's bucket holds the saved minutes, average over 7 days.
	status, raw = requestJSON(t, engine, http.MethodGet, "/api/practice/trend", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 loading trend, got %d", status)
	}
	var trend trendEnvelope
	if err := json.Unmarshal(raw, &trend); err != nil {
		t.Fatalf("unmarshal trend: %v", err)
	}
	if len(trend.Trend.Data) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(trend.Trend.Data))
	}
	if trend.Trend.Data[6] != 30 {
		t.Fatalf("expected today's bucket 30, got %d", trend.Trend.Data[6])
	}
	if trend.Trend.AverageMinutes != 4.3 {
		t.Fatalf("expected average 4.3, got %v", trend.Trend.AverageMinutes)
	}

	// Profile carries the incremented daily counter.
	status, raw = requestJSON(t, engine, http.MethodGet, "/api/me", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 loading profile, got %d", status)
	}
	var profile profileResponse
	if err := json.Unmarshal(raw, &profile); err != nil {
		t.Fatalf("unmarshal profile: %v", err)
	}
	if profile.DailyPractice[0] != 30 {
		t.Fatalf("expected today's counter 30, got %d", profile.DailyPractice[0])
	}
	if profile.User.FirstName != "Taylor" {
		t.Fatalf("unexpected first name %q", profile.User.FirstName)
	}
}

func TestStopwatchEndpoints(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "violist@example.com", []string{"Viola"})

	status, _ := requestJSON(t, engine, http.MethodPost, "/api/practice/draft", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 starting draft, got %d", status)
	}
	cardID := addCard(t, engine, user.Token)

	for _, action := range []string{"start", "stop", "reset"} {
		status, raw := requestJSON(t, engine, http.MethodPost, "/api/practice/draft/cards/"+cardID+"/stopwatch/"+action, user.Token, nil)
		if status != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d: %s", action, status, string(raw))
		}
	}

	status, raw := requestJSON(t, engine, http.MethodPost, "/api/practice/draft/cards/"+cardID+"/stopwatch/rewind", user.Token, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d: %s", status, string(raw))
	}
}

func TestPracticeRequiresAuth(t *testing.T) {
	engine := setupTestEngine(t)

	status, _ := requestJSON(t, engine, http.MethodGet, "/api/practice/sessions", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
}

func TestUserIsolation(t *testing.T) {
	engine := setupTestEngine(t)
	user1 := registerUser(t, engine, "one@example.com", []string{"Piano"})
	user2 := registerUser(t, engine, "two@example.com", []string{"Piano"})

	status, _ := requestJSON(t, engine, http.MethodPost, "/api/practice/draft", user1.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 starting draft, got %d", status)
	}
	cardID := addCard(t, engine, user1.Token)
	updateCard(t, engine, user1.Token, cardID, map[string]interface{}{
		"category": "Warm Ups", "mode": "manual", "manualMinutes": 12,
	})
	submitCard(t, engine, user1.Token, cardID)
	status, _ = requestJSON(t, engine, http.MethodPost, "/api/practice/sessions", user1.Token, map[string]string{
		"instrument": "Piano",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 saving, got %d", status)
	}

	status, raw := requestJSON(t, engine, http.MethodGet, "/api/practice/sessions", user2.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for user2 history, got %d", status)
	}
	var history historyResponse
	if err := json.Unmarshal(raw, &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if !history.Empty || len(history.Sessions) != 0 {
		t.Fatalf("expected empty history for user2, got %+v", history)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := setupTestEngine(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	recorder := httptest.NewRecorder()

	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin header: %s", recorder.Header().Get("Access-Control-Allow-Origin"))
	}
}

func setupTestEngine(t *testing.T) http.Handler {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(currentFile), "..", "..", "migrations")
	if err := db.RunMigrations(database, migrationsDir); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	practiceRepo := repository.NewPracticeRepository(database)
	authService := service.NewAuthService(userRepo, "test-secret", 24*time.Hour)
	practiceService := service.NewPracticeService(userRepo, practiceRepo, nil)

	authHandler := handler.NewAuthHandler(authService)
	practiceHandler := handler.NewPracticeHandler(practiceService)
	configHandler := handler.NewConfigHandler("https://example.supabase.co", "anon-key")

	return router.New(authService, authHandler, practiceHandler, configHandler, router.Options{
		CORSOrigins:       []string{"http://localhost:5173"},
		AuthRatePerMinute: 0,
	})
}

func registerUser(t *testing.T, server http.Handler, email string, instruments []string) authResponse {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":       email,
		"password":    "123456",
		"firstName":   "Taylor",
		"lastName":    "Reed",
		"instruments": instruments,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s failed with status %d: %s", email, status, string(body))
	}
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal register response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("empty token for user %s", email)
	}
	return resp
}

func addCard(t *testing.T, server http.Handler, token string) string {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodPost, "/api/practice/draft/cards", token, nil)
	if status != http.StatusCreated {
		t.Fatalf("add card failed with status %d: %s", status, string(body))
	}
	var resp cardEnvelope
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal card response: %v", err)
	}
	if resp.Card.ID == "" {
		t.Fatal("empty card id")
	}
	return resp.Card.ID
}

func updateCard(t *testing.T, server http.Handler, token, cardID string, fields map[string]interface{}) {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodPut, "/api/practice/draft/cards/"+cardID, token, fields)
	if status != http.StatusOK {
		t.Fatalf("update card failed with status %d: %s", status, string(body))
	}
}

func submitCard(t *testing.T, server http.Handler, token, cardID string) draftEnvelope {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodPost, "/api/practice/draft/cards/"+cardID+"/submit", token, nil)
	if status != http.StatusOK {
		t.Fatalf("submit card failed with status %d: %s", status, string(body))
	}
	var resp draftEnvelope
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal draft response: %v", err)
	}
	return resp
}

func requestJSON(
	t *testing.T,
	server http.Handler,
	method, path, token string,
	body interface{},
) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		payload = raw
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.Bytes()
}
