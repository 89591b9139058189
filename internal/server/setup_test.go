package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"budgettracker/internal/config"
	"budgettracker/internal/domain"
	"budgettracker/internal/events"
	"budgettracker/internal/logger"
	"budgettracker/internal/testutil"
)

const testTriggerKey = "trigger-key"

// testApp holds the full application stack for end-to-end flows.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Events *events.Recorder
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                    "test",
		DBDriver:               "sqlite",
		JWTSecret:              "test-secret",
		JWTIssuer:              "budgettracker-test",
		JWTAudience:            "budgettracker-test-clients",
		JWTExpirationDur:       15 * time.Minute,
		RefreshTokenTTL:        24 * time.Hour,
		RefreshReuseRevokesAll: true,
		MaxTransactionAmount:   decimal.NewFromInt(1_000_000_000),
		RecurringWorkers:       2,
		TriggerAPIKey:          testTriggerKey,
		AuthRateLimit:          1000,
		AuthRateBurst:          1000,
	}
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database. The clock is fixed at clock.
func setupApp(t *testing.T, clock time.Time) *testApp {
	t.Helper()
	return setupAppWithConfig(t, testConfig(), clock)
}

func setupAppWithConfig(t *testing.T, cfg *config.Config, clock time.Time) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	recorder := &events.Recorder{}
	router := NewRouter(Dependencies{
		DB:        db,
		Config:    cfg,
		Publisher: recorder,
		Clock:     domain.FixedClock{T: clock},
	})
	return &testApp{DB: db, Router: router, Events: recorder}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// trigger calls the recurring trigger with the given API key.
func (app *testApp) trigger(month, key string) *httptest.ResponseRecorder {
	path := "/api/v1/internal/recurring/process"
	if month != "" {
		path += "?month=" + month
	}
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// decimalField reads a decimal rendered as a JSON string.
func decimalField(t *testing.T, m map[string]interface{}, key string) decimal.Decimal {
	t.Helper()
	s, ok := m[key].(string)
	if !ok {
		t.Fatalf("expected %s to be a decimal string, got %#v", key, m[key])
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %s=%q: %v", key, s, err)
	}
	return d
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, username, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createCategory creates a user category and returns its id.
func (app *testApp) createCategory(t *testing.T, token, name string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"color":"#336699"}`, name)
	rec := app.request(http.MethodPost, "/api/v1/categories", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["category"].(map[string]interface{})["id"].(float64)
}

// createTransaction records a transaction and returns its id.
func (app *testApp) createTransaction(t *testing.T, token string, categoryID float64, txType, amount, date string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"category_id":%d,"amount":%q,"type":%q,"description":"test","date":%q}`,
		int(categoryID), amount, txType, date)
	rec := app.request(http.MethodPost, "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(float64)
}
